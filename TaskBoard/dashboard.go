package TaskBoard

import (
	"TaskFlow/Models"
	"context"
	"time"

	"golang.org/x/exp/slices"
)

const recentDelayedLimit = 10

// DoerSummary is one row of the per-doer breakdown on admin and manager dashboards
type DoerSummary struct {
	UserID         uint    `json:"user_id"`
	Name           string  `json:"name"`
	Username       string  `json:"username"`
	Status         string  `json:"status"`
	Stats          Stats   `json:"stats"`
	CompletionRate float64 `json:"completion_rate"`
}

// Dashboard is the aggregated view behind every role dashboard
type Dashboard struct {
	Role          string           `json:"role"`
	Stats         Stats            `json:"stats"`
	Today         Stats            `json:"today"`
	ByType        map[string]Stats `json:"by_type"`
	Doers         []DoerSummary    `json:"doers,omitempty"`
	RecentDelayed []TaskView       `json:"recent_delayed"`
	Unassigned    int              `json:"unassigned_tasks,omitempty"`
}

// Dashboard aggregates every task visible to auth
func (s *Service) Dashboard(ctx context.Context, auth Models.AuthContext) (Dashboard, error) {
	views, err := s.Views(ctx, auth, SourceFilter{})
	if err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(views, auth, s.now()), nil
}

// BuildDashboard computes dashboard numbers from scoped tasks
func BuildDashboard(views []TaskView, auth Models.AuthContext, now time.Time) Dashboard {
	d := Dashboard{
		Role:   auth.Role,
		Stats:  ComputeStats(views),
		ByType: map[string]Stats{},
	}

	today := dayOf(now).Format("2006-01-02")
	byType := map[string][]TaskView{}
	var todays, delayed []TaskView
	byDoer := map[uint][]TaskView{}
	doers := map[uint]*Models.User{}

	for _, v := range views {
		byType[v.TaskType] = append(byType[v.TaskType], v)
		if v.PlannedAt != nil && dayOf(*v.PlannedAt).Format("2006-01-02") == today {
			todays = append(todays, v)
		}
		if v.Open() && v.IsDelayed == 1 {
			delayed = append(delayed, v)
		}
		if v.doer != nil {
			byDoer[v.doer.ID] = append(byDoer[v.doer.ID], v)
			doers[v.doer.ID] = v.doer
		} else {
			d.Unassigned++
		}
	}

	for _, t := range []string{Models.TaskTypeDelegation, Models.TaskTypeChecklist, Models.TaskTypeFMS} {
		d.ByType[t] = ComputeStats(byType[t])
	}
	d.Today = ComputeStats(todays)

	slices.SortStableFunc(delayed, func(a, b TaskView) int { return compareDuration(b.delay, a.delay) })
	if len(delayed) > recentDelayedLimit {
		delayed = delayed[:recentDelayedLimit]
	}
	d.RecentDelayed = delayed
	if d.RecentDelayed == nil {
		d.RecentDelayed = []TaskView{}
	}

	if auth.IsAdmin() || auth.IsManager() {
		for id, tasks := range byDoer {
			u := doers[id]
			st := ComputeStats(tasks)
			d.Doers = append(d.Doers, DoerSummary{
				UserID:         id,
				Name:           u.DisplayName(),
				Username:       u.Username,
				Status:         u.EffectiveStatus(),
				Stats:          st,
				CompletionRate: st.CompletionRate(),
			})
		}
		slices.SortStableFunc(d.Doers, compareDoers)
	} else {
		d.Unassigned = 0
	}

	return d
}

// compareDoers puts the most delayed doers first, then orders by name and user id
func compareDoers(a, b DoerSummary) int {
	if a.Stats.Delayed != b.Stats.Delayed {
		return b.Stats.Delayed - a.Stats.Delayed
	}
	if c := compareFold(a.Name, b.Name); c != 0 {
		return c
	}
	return compareUint(a.UserID, b.UserID)
}
