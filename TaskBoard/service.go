package TaskBoard

import (
	"TaskFlow/AbstractFunctions"
	"TaskFlow/Models"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Service is the task aggregator backed by the database
type Service struct {
	DB  *gorm.DB
	Now func() time.Time
}

// NewService creates a Service using the wall clock
func NewService(db *gorm.DB) *Service {
	return &Service{DB: db, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Views loads every task visible to auth
func (s *Service) Views(ctx context.Context, auth Models.AuthContext, filter SourceFilter) ([]TaskView, error) {
	views, err := LoadSources(ctx, s.DB, filter, s.now())
	if err != nil {
		return nil, err
	}
	scoped := views[:0]
	for _, v := range views {
		if Visible(v, auth) {
			scoped = append(scoped, v)
		}
	}
	return scoped, nil
}

// List produces one page of the merged task list
func (s *Service) List(ctx context.Context, auth Models.AuthContext, opts ListOptions) (Result, error) {
	views, err := s.Views(ctx, auth, SourceFilter{Type: opts.Filter.Type})
	if err != nil {
		return Result{}, err
	}
	return Board(views, opts), nil
}

// Find loads a single task of the given type as a TaskView
func (s *Service) Find(ctx context.Context, taskType string, id uint) (TaskView, error) {
	l, err := loadLookups(ctx, s.DB)
	if err != nil {
		return TaskView{}, err
	}
	db := s.DB.WithContext(ctx)

	var v TaskView
	switch strings.ToLower(taskType) {
	case Models.TaskTypeDelegation:
		var t Models.Task
		if err := db.First(&t, id).Error; err != nil {
			return TaskView{}, notFound(err)
		}
		v = fromDelegation(t, l)
	case Models.TaskTypeChecklist:
		var st Models.ChecklistSubtask
		if err := db.First(&st, id).Error; err != nil {
			return TaskView{}, notFound(err)
		}
		v = fromChecklist(st, l)
	case Models.TaskTypeFMS:
		var ft Models.FMSTask
		if err := db.First(&ft, id).Error; err != nil {
			return TaskView{}, notFound(err)
		}
		v = fromFMS(ft, l)
	default:
		return TaskView{}, ErrUnknownTaskType
	}
	computeDelay(&v, s.now())
	return v, nil
}

// UpdateStatus sets a task's status. Completing a task stamps the actual
// time and, for delegation tasks, stores the delay; any other status clears
// the completion data.
func (s *Service) UpdateStatus(ctx context.Context, auth Models.AuthContext, taskType string, id uint, status string) (TaskView, error) {
	if !AbstractFunctions.IsStatusOption(status) {
		return TaskView{}, ErrInvalidStatus
	}
	status = AbstractFunctions.NormalizeStatus(status)

	current, err := s.Find(ctx, taskType, id)
	if err != nil {
		return TaskView{}, err
	}
	if !Visible(current, auth) {
		return TaskView{}, ErrForbidden
	}

	now := s.now().In(AbstractFunctions.Location())
	completed := status == AbstractFunctions.StatusCompleted
	db := s.DB.WithContext(ctx)

	var updates map[string]interface{}
	var model interface{}
	switch current.TaskType {
	case Models.TaskTypeDelegation:
		model = &Models.Task{}
		updates = map[string]interface{}{"status": status, "actual_date": "", "actual_time": "", "delay_duration": ""}
		if completed {
			updates["actual_date"] = now.Format("2006-01-02")
			updates["actual_time"] = now.Format("15:04:05")
			if delayed, d := AbstractFunctions.ComputeDelay(current.PlannedAt, &now, true, now); delayed {
				updates["delay_duration"] = AbstractFunctions.FormatDelay(d)
			}
		}
	case Models.TaskTypeChecklist:
		model = &Models.ChecklistSubtask{}
		updates = map[string]interface{}{"status": status, "actual_date": ""}
		if completed {
			updates["actual_date"] = now.Format("2006-01-02 15:04:05")
		}
	case Models.TaskTypeFMS:
		model = &Models.FMSTask{}
		updates = map[string]interface{}{"status": status, "actual": ""}
		if completed {
			updates["actual"] = AbstractFunctions.FormatLegacy(now)
		}
	}

	if err := db.Model(model).Where("id = ?", id).Updates(updates).Error; err != nil {
		return TaskView{}, fmt.Errorf("update %s task %d: %w", current.TaskType, id, err)
	}
	return s.Find(ctx, taskType, id)
}

// TogglePriority flips the priority flag and returns the new value.
// Only admins and managers may flag tasks.
func (s *Service) TogglePriority(ctx context.Context, auth Models.AuthContext, taskType string, id uint) (int, error) {
	if !auth.IsAdmin() && !auth.IsManager() {
		return 0, ErrForbidden
	}
	current, err := s.Find(ctx, taskType, id)
	if err != nil {
		return 0, err
	}
	if !Visible(current, auth) {
		return 0, ErrForbidden
	}

	next := 1
	if current.Priority == 1 {
		next = 0
	}

	var model interface{}
	switch current.TaskType {
	case Models.TaskTypeDelegation:
		model = &Models.Task{}
	case Models.TaskTypeChecklist:
		model = &Models.ChecklistSubtask{}
	case Models.TaskTypeFMS:
		model = &Models.FMSTask{}
	}
	if err := s.DB.WithContext(ctx).Model(model).Where("id = ?", id).Update("priority", next).Error; err != nil {
		return 0, fmt.Errorf("toggle priority of %s task %d: %w", current.TaskType, id, err)
	}
	return next, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTaskNotFound
	}
	return err
}
