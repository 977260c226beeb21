package TaskBoard

import (
	"TaskFlow/Models"
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// SourceFilter narrows which tables are read at all
type SourceFilter struct {
	Type string
}

func (f SourceFilter) includes(taskType string) bool {
	return f.Type == "" || strings.EqualFold(f.Type, taskType)
}

// loadLookups reads users and departments once per request
func loadLookups(ctx context.Context, db *gorm.DB) (lookups, error) {
	idx, err := Models.LoadUserIndex(db.WithContext(ctx))
	if err != nil {
		return lookups{}, fmt.Errorf("load users: %w", err)
	}
	var departments []Models.Department
	if err := db.WithContext(ctx).Find(&departments).Error; err != nil {
		return lookups{}, fmt.Errorf("load departments: %w", err)
	}
	names := make(map[uint]string, len(departments))
	for _, d := range departments {
		names[d.ID] = d.Name
	}
	return lookups{users: idx, departments: names}, nil
}

// LoadSources reads the three task tables and maps them into TaskViews with
// delays measured against now.
func LoadSources(ctx context.Context, db *gorm.DB, filter SourceFilter, now time.Time) ([]TaskView, error) {
	l, err := loadLookups(ctx, db)
	if err != nil {
		return nil, err
	}
	return loadWith(ctx, db, l, filter, now)
}

func loadWith(ctx context.Context, db *gorm.DB, l lookups, filter SourceFilter, now time.Time) ([]TaskView, error) {
	if filter.Type != "" && !validTaskType(filter.Type) {
		return nil, ErrUnknownTaskType
	}

	var views []TaskView

	if filter.includes(Models.TaskTypeDelegation) {
		var tasks []Models.Task
		if err := db.WithContext(ctx).Find(&tasks).Error; err != nil {
			return nil, fmt.Errorf("load delegation tasks: %w", err)
		}
		for _, t := range tasks {
			views = append(views, fromDelegation(t, l))
		}
	}

	if filter.includes(Models.TaskTypeChecklist) {
		var subtasks []Models.ChecklistSubtask
		if err := db.WithContext(ctx).Find(&subtasks).Error; err != nil {
			return nil, fmt.Errorf("load checklist subtasks: %w", err)
		}
		for _, st := range subtasks {
			views = append(views, fromChecklist(st, l))
		}
	}

	if filter.includes(Models.TaskTypeFMS) {
		var fmsTasks []Models.FMSTask
		if err := db.WithContext(ctx).Find(&fmsTasks).Error; err != nil {
			return nil, fmt.Errorf("load fms tasks: %w", err)
		}
		for _, ft := range fmsTasks {
			views = append(views, fromFMS(ft, l))
		}
	}

	for i := range views {
		computeDelay(&views[i], now)
	}
	return views, nil
}

func validTaskType(t string) bool {
	switch strings.ToLower(t) {
	case Models.TaskTypeDelegation, Models.TaskTypeChecklist, Models.TaskTypeFMS:
		return true
	}
	return false
}
