package Models

import (
	"time"

	"gorm.io/gorm"
)

const (
	FrequencyOnce    = "once"
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// ChecklistTemplate describes a recurring task that generates subtasks
type ChecklistTemplate struct {
	gorm.Model
	TaskCode          string     `json:"task_code" gorm:"type:varchar(64);uniqueIndex"`
	Description       string     `json:"description" gorm:"type:text"`
	Assignee          string     `json:"assignee" gorm:"type:varchar(255)"`
	Frequency         string     `json:"frequency" gorm:"type:varchar(16);default:daily"`
	DepartmentID      *uint      `json:"department_id"`
	StartDate         string     `json:"start_date" gorm:"type:varchar(10)"`
	DueTime           string     `json:"due_time" gorm:"type:varchar(8)"`
	Active            bool       `json:"active" gorm:"default:true"`
	LastGeneratedDate *time.Time `json:"last_generated_date"`
}

// ChecklistSubtask is one generated instance of a checklist template
type ChecklistSubtask struct {
	gorm.Model
	TaskCode        string `json:"task_code" gorm:"type:varchar(64);index"`
	TaskDescription string `json:"task_description" gorm:"type:text"`
	TaskDate        string `json:"task_date" gorm:"type:varchar(19);index"`
	Assignee        string `json:"assignee" gorm:"type:varchar(255)"`
	DoerID          *uint  `json:"doer_id" gorm:"index"`
	Status          string `json:"status" gorm:"type:varchar(32);default:pending"`
	Frequency       string `json:"frequency" gorm:"type:varchar(16)"`
	DepartmentID    *uint  `json:"department_id"`
	ActualDate      string `json:"actual_date" gorm:"type:varchar(19)"`
	Priority        int    `json:"priority" gorm:"default:0"`
}

func (ChecklistSubtask) TableName() string {
	return "checklist_subtasks"
}

func (ChecklistTemplate) TableName() string {
	return "checklist_templates"
}
