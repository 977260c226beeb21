package TaskBoard

import (
	"TaskFlow/Models"
	"time"
)

// TaskView is the common shape every task source is mapped into
type TaskView struct {
	ID             uint       `json:"id"`
	UniqueID       string     `json:"unique_id"`
	Description    string     `json:"description"`
	PlannedDate    string     `json:"planned_date"`
	PlannedTime    string     `json:"planned_time"`
	ActualDate     string     `json:"actual_date"`
	ActualTime     string     `json:"actual_time"`
	Status         string     `json:"status"`
	RawStatus      string     `json:"raw_status"`
	DoerName       string     `json:"doer_name"`
	DoerID         *uint      `json:"doer_id"`
	DepartmentName string     `json:"department_name"`
	AssignedBy     string     `json:"assigned_by"`
	Priority       int        `json:"priority"`
	TaskType       string     `json:"task_type"`
	IsDelayed      int        `json:"is_delayed"`
	DelayDuration  string     `json:"delay_duration"`
	DelayShort     string     `json:"delay_short"`
	Completed      bool       `json:"completed"`
	PlannedAt      *time.Time `json:"planned_at"`
	ActualAt       *time.Time `json:"actual_at"`

	Frequency  string `json:"frequency,omitempty"`
	SheetLabel string `json:"sheet_label,omitempty"`
	StepCode   string `json:"step_code,omitempty"`
	TaskLink   string `json:"task_link,omitempty"`

	delay    time.Duration
	doerText string
	doer     *Models.User
}

// Delay is the measured delay; zero when the task is on time
func (v TaskView) Delay() time.Duration { return v.delay }

// Doer is the user the free-text or foreign-key doer resolved to, if any
func (v TaskView) Doer() *Models.User { return v.doer }

// Open reports tasks that are neither completed nor closed
func (v TaskView) Open() bool {
	return !v.Completed && !isClosed(v.Status)
}

// Stats are computed over the filtered set, before pagination.
// Delayed is a subset of Pending, so the counters do not partition Total.
type Stats struct {
	Total     int `json:"total_tasks"`
	Completed int `json:"completed_tasks"`
	Pending   int `json:"pending_tasks"`
	Delayed   int `json:"delayed_tasks"`
	Closed    int `json:"closed_tasks"`
	Priority  int `json:"priority_tasks"`
}

// PageInfo describes one page of a list
type PageInfo struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Offset     int `json:"offset"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// SortSpec selects the secondary sort column; priority always sorts first
type SortSpec struct {
	Column string `json:"sort"`
	Dir    string `json:"dir"`
}

// ListOptions drives one listing request
type ListOptions struct {
	Filter        Filter
	Sort          SortSpec
	Page          int
	PriorityPage  int
	Limit         int
	AllowedLimits []int
	Tab           string
}

// Result is the listing payload returned to the task screens
type Result struct {
	Tab           string     `json:"tab"`
	Tasks         []TaskView `json:"tasks"`
	Page          PageInfo   `json:"pagination"`
	PriorityTasks []TaskView `json:"priority_tasks"`
	PriorityPage  PageInfo   `json:"priority_pagination"`
	Stats         Stats      `json:"stats"`
	Sort          SortSpec   `json:"sort"`
}

var (
	// ManageTaskLimits are the page sizes offered on the manage tasks screen
	ManageTaskLimits = []int{25, 50, 100, 250}
	// FMSTaskLimits are the page sizes offered on the FMS screen
	FMSTaskLimits = []int{20, 50, 100, 200}
)
