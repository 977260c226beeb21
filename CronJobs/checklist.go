package CronJobs

import (
	"TaskFlow/AbstractFunctions"
	"TaskFlow/Models"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
)

// templateDue reports whether a template produces a subtask on day.
// Weekly templates repeat on the start date's weekday; monthly ones on its
// day of month, clamped to the last day of shorter months.
func templateDue(tpl Models.ChecklistTemplate, day time.Time) bool {
	start, ok := templateStart(tpl, day.Location())
	if !ok || day.Before(start) {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(tpl.Frequency)) {
	case Models.FrequencyOnce:
		return day.Equal(start)
	case Models.FrequencyDaily, "":
		return true
	case Models.FrequencyWeekly:
		return day.Weekday() == start.Weekday()
	case Models.FrequencyMonthly:
		want := start.Day()
		if last := daysIn(day); want > last {
			want = last
		}
		return day.Day() == want
	}
	return false
}

func templateStart(tpl Models.ChecklistTemplate, loc *time.Location) (time.Time, bool) {
	if tpl.StartDate != "" {
		t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(tpl.StartDate), loc)
		if err != nil {
			log.Printf("Checklist template %s has an invalid start date %q", tpl.TaskCode, tpl.StartDate)
			return time.Time{}, false
		}
		return t, true
	}
	c := tpl.CreatedAt.In(loc)
	return time.Date(c.Year(), c.Month(), c.Day(), 0, 0, 0, 0, loc), true
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// GenerateChecklists creates the subtasks due on the day of now from every
// active template. Running it again on the same day creates nothing.
func GenerateChecklists(ctx context.Context, db *gorm.DB, now time.Time) (int, error) {
	loc := AbstractFunctions.Location()
	now = now.In(loc)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	dayStr := day.Format("2006-01-02")

	var templates []Models.ChecklistTemplate
	if err := db.WithContext(ctx).Where("active = ?", true).Find(&templates).Error; err != nil {
		return 0, fmt.Errorf("load checklist templates: %w", err)
	}
	users, err := Models.LoadUserIndex(db.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("load users: %w", err)
	}

	created := 0
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, tpl := range templates {
			if tpl.LastGeneratedDate != nil && !tpl.LastGeneratedDate.In(loc).Before(day) {
				continue
			}
			if !templateDue(tpl, day) {
				continue
			}

			var existing int64
			if err := tx.Model(&Models.ChecklistSubtask{}).
				Where("task_code = ? AND task_date LIKE ?", tpl.TaskCode, dayStr+"%").
				Count(&existing).Error; err != nil {
				return fmt.Errorf("check existing %s subtask: %w", tpl.TaskCode, err)
			}

			if existing == 0 {
				taskDate := dayStr
				if due := strings.TrimSpace(tpl.DueTime); due != "" {
					if t, ok := AbstractFunctions.CombineDateTime(dayStr, due); ok {
						taskDate = t.Format("2006-01-02 15:04:05")
					}
				}
				st := Models.ChecklistSubtask{
					TaskCode:        tpl.TaskCode,
					TaskDescription: tpl.Description,
					TaskDate:        taskDate,
					Assignee:        tpl.Assignee,
					Status:          AbstractFunctions.StatusPending,
					Frequency:       tpl.Frequency,
					DepartmentID:    tpl.DepartmentID,
				}
				if matches := users.Match(tpl.Assignee); len(matches) == 1 {
					id := matches[0].ID
					st.DoerID = &id
				}
				if err := tx.Create(&st).Error; err != nil {
					return fmt.Errorf("create %s subtask: %w", tpl.TaskCode, err)
				}
				created++
			}

			if err := tx.Model(&Models.ChecklistTemplate{}).Where("id = ?", tpl.ID).
				Update("last_generated_date", day).Error; err != nil {
				return fmt.Errorf("mark %s generated: %w", tpl.TaskCode, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Printf("Generated %d checklist subtasks for %s", created, dayStr)
	return created, nil
}
