package Models

import "gorm.io/gorm"

const (
	TaskTypeDelegation = "delegation"
	TaskTypeChecklist  = "checklist"
	TaskTypeFMS        = "fms"
)

// Task is a one-off delegation task
type Task struct {
	gorm.Model
	UniqueID      string `json:"unique_id" gorm:"type:varchar(64);index"`
	Description   string `json:"description" gorm:"type:text"`
	PlannedDate   string `json:"planned_date" gorm:"type:varchar(10)"` // YYYY-MM-DD
	PlannedTime   string `json:"planned_time" gorm:"type:varchar(8)"`  // HH:MM[:SS]
	ActualDate    string `json:"actual_date" gorm:"type:varchar(10)"`
	ActualTime    string `json:"actual_time" gorm:"type:varchar(8)"`
	Status        string `json:"status" gorm:"type:varchar(32);default:pending"`
	DelayDuration string `json:"delay_duration" gorm:"type:varchar(64)"`
	Duration      string `json:"duration" gorm:"type:varchar(64)"`
	DoerID        *uint  `json:"doer_id" gorm:"index"`
	DepartmentID  *uint  `json:"department_id" gorm:"index"`
	AssignedByID  *uint  `json:"assigned_by" gorm:"column:assigned_by;index"`
	Priority      int    `json:"priority" gorm:"default:0"`

	Doer       *User       `json:"doer,omitempty" gorm:"foreignKey:DoerID"`
	Department *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
	AssignedBy *User       `json:"assigned_by_user,omitempty" gorm:"foreignKey:AssignedByID"`
}

func (Task) TableName() string {
	return "tasks"
}
