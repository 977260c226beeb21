package Slack

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/slack-go/slack"
)

// API is the part of *slack.Client the publisher uses
type API interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	AddPinContext(ctx context.Context, channel string, item slack.ItemRef) error
	RemovePinContext(ctx context.Context, channel string, item slack.ItemRef) error
}

// Publisher keeps one pinned bot message per channel up to date
type Publisher struct {
	API     API
	Channel string

	mu       sync.Mutex
	lastTS   string
	lastText string
}

func NewPublisher(token, channel string) *Publisher {
	return &Publisher{
		API:     slack.New(token, slack.OptionDebug(false)),
		Channel: channel,
	}
}

// SendAndPin posts message, pins it and unpins the previous one.
// An unchanged message, ignoring the "Last Updated" line, is not re-sent.
func (p *Publisher) SendAndPin(ctx context.Context, message string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lastTS != "" && messagesAreEqual(p.lastText, message) {
		return false, nil
	}

	_, ts, err := p.API.PostMessageContext(ctx, p.Channel, slack.MsgOptionText(message, false))
	if err != nil {
		return false, fmt.Errorf("error sending message: %w", err)
	}

	if p.lastTS != "" {
		if err := p.API.RemovePinContext(ctx, p.Channel, slack.NewRefToMessage(p.Channel, p.lastTS)); err != nil {
			log.Printf("Could not unpin message %s: %v", p.lastTS, err)
		}
	}
	if err := p.API.AddPinContext(ctx, p.Channel, slack.NewRefToMessage(p.Channel, ts)); err != nil {
		log.Printf("Message sent but pinning failed: %v", err)
	}

	p.lastTS, p.lastText = ts, message
	return true, nil
}

// messagesAreEqual compares two messages, ignoring timestamp lines
func messagesAreEqual(oldMessage, newMessage string) bool {
	return strings.TrimSpace(removeTimestampLines(oldMessage)) == strings.TrimSpace(removeTimestampLines(newMessage))
}

func removeTimestampLines(message string) string {
	lines := strings.Split(message, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !strings.Contains(line, lastUpdatedLabel) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
