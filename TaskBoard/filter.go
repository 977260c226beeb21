package TaskBoard

import (
	"TaskFlow/AbstractFunctions"
	"TaskFlow/Models"
	"strconv"
	"strings"
	"time"
)

// StatusDelayed is a pseudo status selecting open tasks past their deadline
const StatusDelayed = "delayed"

// Filter holds every listing filter; zero values disable a filter
type Filter struct {
	Status     string
	Doer       string
	Type       string
	TaskID     string
	TaskName   string
	Search     string
	DoerStatus string
	DateFrom   *time.Time
	DateTo     *time.Time

	UniqueKey string
	StepName  string
	Sheet     string
}

// Match reports whether a task passes every active filter
func (f Filter) Match(v TaskView) bool {
	if f.Type != "" && !strings.EqualFold(f.Type, v.TaskType) {
		return false
	}
	if f.Status != "" && !f.matchStatus(v) {
		return false
	}
	if f.DoerStatus != "" {
		if v.doer == nil || !strings.EqualFold(v.doer.EffectiveStatus(), f.DoerStatus) {
			return false
		}
	}
	if f.Doer != "" && !matchDoer(v, f.Doer) {
		return false
	}
	if f.TaskID != "" && !matchTaskID(v, f.TaskID) {
		return false
	}
	if f.TaskName != "" && !containsFold(v.Description, f.TaskName) {
		return false
	}
	if f.UniqueKey != "" && !containsFold(v.UniqueID, f.UniqueKey) {
		return false
	}
	if f.StepName != "" && !containsFold(v.Description, f.StepName) {
		return false
	}
	if f.Sheet != "" && !strings.EqualFold(strings.TrimSpace(v.SheetLabel), strings.TrimSpace(f.Sheet)) {
		return false
	}
	if (f.DateFrom != nil || f.DateTo != nil) && !f.matchDate(v) {
		return false
	}
	if f.Search != "" {
		if !containsFold(v.Description, f.Search) &&
			!containsFold(v.UniqueID, f.Search) &&
			!containsFold(v.DoerName, f.Search) {
			return false
		}
	}
	return true
}

func (f Filter) matchStatus(v TaskView) bool {
	want := AbstractFunctions.NormalizeStatus(f.Status)
	if want == StatusDelayed {
		return v.Open() && v.IsDelayed == 1
	}
	return v.Status == want
}

// matchDate compares calendar days of the planned deadline, inclusive
func (f Filter) matchDate(v TaskView) bool {
	if v.PlannedAt == nil {
		return false
	}
	day := dayOf(*v.PlannedAt)
	if f.DateFrom != nil && day.Before(dayOf(*f.DateFrom)) {
		return false
	}
	if f.DateTo != nil && day.After(dayOf(*f.DateTo)) {
		return false
	}
	return true
}

func dayOf(t time.Time) time.Time {
	loc := AbstractFunctions.Location()
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func matchDoer(v TaskView, doer string) bool {
	key := Models.MatchKey(doer)
	if Models.MatchKey(v.DoerName) == key || Models.MatchKey(v.doerText) == key {
		return true
	}
	if v.doer != nil {
		return Models.MatchKey(v.doer.Username) == key || Models.MatchKey(v.doer.Name) == key
	}
	return false
}

func matchTaskID(v TaskView, q string) bool {
	q = strings.TrimSpace(q)
	if id, err := strconv.ParseUint(q, 10, 64); err == nil && uint(id) == v.ID {
		return true
	}
	return containsFold(v.UniqueID, q)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(sub)))
}

// ParseDay reads a YYYY-MM-DD query value in the application location
func ParseDay(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, AbstractFunctions.Location())
	if err != nil {
		return nil
	}
	return &t
}

// Visible applies the role scope: admins see everything, managers see their
// reports and themselves, doers see only their own tasks.
func Visible(v TaskView, auth Models.AuthContext) bool {
	switch auth.Role {
	case Models.RoleAdmin:
		return true
	case Models.RoleManager:
		if v.doer == nil {
			return false
		}
		if v.doer.ID == auth.UserID {
			return true
		}
		return v.doer.ManagerID != nil && *v.doer.ManagerID == auth.UserID
	default:
		return v.doer != nil && v.doer.ID == auth.UserID
	}
}
