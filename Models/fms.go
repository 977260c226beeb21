package Models

import "gorm.io/gorm"

// FMSTask is one step row imported from the FMS spreadsheet
type FMSTask struct {
	gorm.Model
	UniqueKey  string `json:"unique_key" gorm:"type:varchar(128);uniqueIndex:idx_fms_key_step"`
	StepCode   string `json:"step_code" gorm:"type:varchar(64);uniqueIndex:idx_fms_key_step"`
	StepName   string `json:"step_name" gorm:"type:varchar(255)"`
	Planned    string `json:"planned" gorm:"type:varchar(64)"`
	Actual     string `json:"actual" gorm:"type:varchar(64)"`
	Status     string `json:"status" gorm:"type:varchar(64)"`
	DoerName   string `json:"doer_name" gorm:"type:varchar(255);index"`
	DoerID     *uint  `json:"doer_id" gorm:"index"`
	TaskLink   string `json:"task_link" gorm:"type:text"`
	SheetLabel string `json:"sheet_label" gorm:"type:varchar(128);index"`
	Priority   int    `json:"priority" gorm:"default:0"`
}

func (FMSTask) TableName() string {
	return "fms_tasks"
}
