package Slack

import (
	"TaskFlow/AbstractFunctions"
	"TaskFlow/TaskBoard"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	posts    int
	pinned   []string
	unpinned []string
	failPost bool
}

func (f *fakeAPI) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	if f.failPost {
		return "", "", errors.New("channel_not_found")
	}
	f.posts++
	return channelID, fmt.Sprintf("17000000%02d.000100", f.posts), nil
}

func (f *fakeAPI) AddPinContext(ctx context.Context, channel string, item slack.ItemRef) error {
	f.pinned = append(f.pinned, item.Timestamp)
	return nil
}

func (f *fakeAPI) RemovePinContext(ctx context.Context, channel string, item slack.ItemRef) error {
	f.unpinned = append(f.unpinned, item.Timestamp)
	return nil
}

func delayed(id, doer, short string) TaskBoard.TaskView {
	return TaskBoard.TaskView{
		UniqueID: id, Description: "Task " + id, DoerName: doer, TaskType: "delegation",
		Status: AbstractFunctions.StatusPending, IsDelayed: 1, DelayShort: short,
	}
}

func TestBuildDigest(t *testing.T) {
	AbstractFunctions.SetLocation(time.UTC)
	now := time.Date(2025, 9, 10, 9, 0, 0, 0, time.UTC)

	views := []TaskBoard.TaskView{
		delayed("D1", "Asha Rao", "1d 0h 0m"),
		delayed("D2", "Vikram", "0d 2h 0m"),
		delayed("D3", "asha rao", "0d 1h 0m"),
		delayed("D4", "", "3d 0h 0m"),
		{UniqueID: "done", DoerName: "Vikram", Completed: true, IsDelayed: 1},
		{UniqueID: "closed", DoerName: "Vikram", Status: AbstractFunctions.StatusShifted, IsDelayed: 1},
		{UniqueID: "ontime", DoerName: "Vikram", Status: AbstractFunctions.StatusPending},
	}

	msg := BuildDigest(views, now)
	lines := strings.Split(msg, "\n")
	assert.Equal(t, "*Delayed tasks: 4*", lines[0])
	assert.Equal(t, "*Asha Rao* (2)", lines[2])
	assert.Equal(t, "• [delegation] D1: Task D1 (late 1d 0h 0m)", lines[3])
	assert.Contains(t, msg, "*Unassigned* (1)")
	assert.NotContains(t, msg, "done")
	assert.NotContains(t, msg, "closed")
	assert.True(t, strings.HasSuffix(msg, "*Last Updated: 2025-09-10 09:00*"))

	assert.Empty(t, BuildDigest(views[4:], now))
}

func TestPublisherSkipsUnchangedMessages(t *testing.T) {
	api := &fakeAPI{}
	p := &Publisher{API: api, Channel: "C1"}
	ctx := context.Background()

	sent, err := p.SendAndPin(ctx, "*Delayed tasks: 1*\n*Last Updated: 09:00*")
	require.NoError(t, err)
	assert.True(t, sent)

	sent, err = p.SendAndPin(ctx, "*Delayed tasks: 1*\n*Last Updated: 10:00*")
	require.NoError(t, err)
	assert.False(t, sent)

	sent, err = p.SendAndPin(ctx, "*Delayed tasks: 2*\n*Last Updated: 11:00*")
	require.NoError(t, err)
	assert.True(t, sent)

	assert.Equal(t, 2, api.posts)
	assert.Equal(t, []string{"1700000001.000100", "1700000002.000100"}, api.pinned)
	assert.Equal(t, []string{"1700000001.000100"}, api.unpinned)
}

func TestPublisherPostError(t *testing.T) {
	p := &Publisher{API: &fakeAPI{failPost: true}, Channel: "C1"}
	_, err := p.SendAndPin(context.Background(), "x")
	assert.Error(t, err)
}

func TestBuildDigestKeepsNamesakesApart(t *testing.T) {
	AbstractFunctions.SetLocation(time.UTC)
	now := time.Date(2025, 9, 10, 9, 0, 0, 0, time.UTC)

	withDoer := func(v TaskBoard.TaskView, id uint) TaskBoard.TaskView {
		v.DoerID = &id
		return v
	}
	views := []TaskBoard.TaskView{
		withDoer(delayed("D7", "Asha", "0d 1h 0m"), 7),
		withDoer(delayed("D3", "Asha", "0d 2h 0m"), 3),
	}

	for i := 0; i < 5; i++ {
		lines := strings.Split(BuildDigest(views, now), "\n")
		assert.Equal(t, "*Asha* (1)", lines[2])
		assert.Equal(t, "• [delegation] D3: Task D3 (late 0d 2h 0m)", lines[3])
		assert.Equal(t, "*Asha* (1)", lines[5])
		assert.Equal(t, "• [delegation] D7: Task D7 (late 0d 1h 0m)", lines[6])
	}
}
