package Slack

import (
	"TaskFlow/AbstractFunctions"
	"TaskFlow/Models"
	"TaskFlow/TaskBoard"
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

const (
	lastUpdatedLabel = "*Last Updated:"
	maxTasksPerDoer  = 10
)

// systemAuth lets the digest see every task
var systemAuth = Models.AuthContext{Username: "system", Name: "System", Role: Models.RoleAdmin}

// Digest posts the delayed-task summary grouped by doer
type Digest struct {
	Publisher *Publisher
	Tasks     *TaskBoard.Service
}

// NewDigest returns nil when Slack is not configured
func NewDigest(token, channel string, tasks *TaskBoard.Service) *Digest {
	if token == "" || channel == "" {
		return nil
	}
	return &Digest{Publisher: NewPublisher(token, channel), Tasks: tasks}
}

// Send builds and publishes the digest. Nothing is posted when no task is delayed.
func (d *Digest) Send(ctx context.Context) error {
	views, err := d.Tasks.Views(ctx, systemAuth, TaskBoard.SourceFilter{})
	if err != nil {
		return err
	}
	now := time.Now()
	if d.Tasks.Now != nil {
		now = d.Tasks.Now()
	}
	message := BuildDigest(views, now)
	if message == "" {
		return nil
	}
	_, err = d.Publisher.SendAndPin(ctx, message)
	return err
}

type doerGroup struct {
	key   string
	name  string
	tasks []TaskBoard.TaskView
}

// groupKey keeps resolved doers apart by id and folds free-text names
func groupKey(v TaskBoard.TaskView, name string) string {
	if v.DoerID != nil {
		return fmt.Sprintf("id:%d", *v.DoerID)
	}
	return "name:" + Models.MatchKey(name)
}

// BuildDigest renders the open delayed tasks, most delayed doers first
func BuildDigest(views []TaskBoard.TaskView, now time.Time) string {
	groups := map[string]*doerGroup{}
	total := 0
	for _, v := range views {
		if !v.Open() || v.IsDelayed != 1 {
			continue
		}
		name := v.DoerName
		if name == "" {
			name = "Unassigned"
		}
		key := groupKey(v, name)
		g, ok := groups[key]
		if !ok {
			g = &doerGroup{key: key, name: name}
			groups[key] = g
		}
		g.tasks = append(g.tasks, v)
		total++
	}
	if total == 0 {
		return ""
	}

	ordered := make([]*doerGroup, 0, len(groups))
	for _, g := range groups {
		slices.SortStableFunc(g.tasks, func(a, b TaskBoard.TaskView) int {
			switch {
			case a.Delay() > b.Delay():
				return -1
			case a.Delay() < b.Delay():
				return 1
			}
			return 0
		})
		ordered = append(ordered, g)
	}
	slices.SortStableFunc(ordered, func(a, b *doerGroup) int {
		if len(a.tasks) != len(b.tasks) {
			return len(b.tasks) - len(a.tasks)
		}
		if c := strings.Compare(strings.ToLower(a.name), strings.ToLower(b.name)); c != 0 {
			return c
		}
		return strings.Compare(a.key, b.key)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "*Delayed tasks: %d*\n", total)
	for _, g := range ordered {
		fmt.Fprintf(&b, "\n*%s* (%d)\n", g.name, len(g.tasks))
		for i, t := range g.tasks {
			if i == maxTasksPerDoer {
				fmt.Fprintf(&b, "• …and %d more\n", len(g.tasks)-maxTasksPerDoer)
				break
			}
			fmt.Fprintf(&b, "• [%s] %s: %s (late %s)\n", t.TaskType, t.UniqueID, t.Description, t.DelayShort)
		}
	}
	fmt.Fprintf(&b, "\n%s %s*", lastUpdatedLabel, now.In(AbstractFunctions.Location()).Format("2006-01-02 15:04"))
	return b.String()
}
