package TaskBoard

import (
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"

	DefaultSortColumn = "planned_date"
)

var sortColumns = map[string]func(a, b TaskView) int{
	"id":              func(a, b TaskView) int { return compareUint(a.ID, b.ID) },
	"unique_id":       func(a, b TaskView) int { return compareFold(a.UniqueID, b.UniqueID) },
	"description":     func(a, b TaskView) int { return compareFold(a.Description, b.Description) },
	"planned_date":    func(a, b TaskView) int { return compareTime(a.PlannedAt, b.PlannedAt) },
	"actual_date":     func(a, b TaskView) int { return compareTime(a.ActualAt, b.ActualAt) },
	"status":          func(a, b TaskView) int { return compareFold(a.Status, b.Status) },
	"doer_name":       func(a, b TaskView) int { return compareFold(a.DoerName, b.DoerName) },
	"department_name": func(a, b TaskView) int { return compareFold(a.DepartmentName, b.DepartmentName) },
	"task_type":       func(a, b TaskView) int { return compareFold(a.TaskType, b.TaskType) },
	"delay":           func(a, b TaskView) int { return compareDuration(a.delay, b.delay) },
}

// Normalize replaces unknown columns and directions with the defaults
func (s SortSpec) Normalize() SortSpec {
	col := strings.ToLower(strings.TrimSpace(s.Column))
	if _, ok := sortColumns[col]; !ok {
		col = DefaultSortColumn
	}
	dir := strings.ToLower(strings.TrimSpace(s.Dir))
	if dir != SortAsc {
		dir = SortDesc
	}
	return SortSpec{Column: col, Dir: dir}
}

// SortTasks orders priority tasks first, then by the selected column. Stable.
func SortTasks(views []TaskView, spec SortSpec) {
	spec = spec.Normalize()
	cmp := sortColumns[spec.Column]
	slices.SortStableFunc(views, func(a, b TaskView) int {
		if a.Priority != b.Priority {
			return b.Priority - a.Priority
		}
		c := cmp(a, b)
		if spec.Dir == SortDesc {
			c = -c
		}
		return c
	})
}

func compareUint(a, b uint) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareDuration(a, b time.Duration) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareTime sorts missing times before any real time
func compareTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}
