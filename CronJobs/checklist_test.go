package CronJobs

import (
	"TaskFlow/AbstractFunctions"
	"TaskFlow/Config"
	"TaskFlow/Models"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	AbstractFunctions.SetLocation(time.UTC)
	m.Run()
}

func day(s string) time.Time {
	t, _ := time.ParseInLocation("2006-01-02", s, time.UTC)
	return t
}

func TestTemplateDue(t *testing.T) {
	tests := []struct {
		freq, start, day string
		want             bool
	}{
		{Models.FrequencyDaily, "2025-09-01", "2025-09-10", true},
		{Models.FrequencyDaily, "2025-09-11", "2025-09-10", false},
		{Models.FrequencyOnce, "2025-09-10", "2025-09-10", true},
		{Models.FrequencyOnce, "2025-09-10", "2025-09-11", false},
		{Models.FrequencyWeekly, "2025-09-03", "2025-09-10", true},
		{Models.FrequencyWeekly, "2025-09-03", "2025-09-11", false},
		{Models.FrequencyMonthly, "2025-08-10", "2025-09-10", true},
		{Models.FrequencyMonthly, "2025-01-31", "2025-02-28", true},
		{Models.FrequencyMonthly, "2025-01-31", "2025-02-27", false},
		{"yearly", "2025-01-01", "2025-09-10", false},
	}
	for _, tt := range tests {
		tpl := Models.ChecklistTemplate{TaskCode: "T", Frequency: tt.freq, StartDate: tt.start}
		assert.Equal(t, tt.want, templateDue(tpl, day(tt.day)), "%s from %s on %s", tt.freq, tt.start, tt.day)
	}
}

func TestGenerateChecklistsIsIdempotent(t *testing.T) {
	db, err := Models.OpenMemory(t.Name())
	require.NoError(t, err)
	ctx := context.Background()

	asha := Models.User{Username: "asha", Name: "Asha Rao", UserType: Models.RoleDoer}
	require.NoError(t, db.Create(&asha).Error)

	daily := Models.ChecklistTemplate{TaskCode: "CHK-BKP", Description: "Daily backup", Assignee: "Asha Rao",
		Frequency: Models.FrequencyDaily, StartDate: "2025-09-01", DueTime: "17:00", Active: true}
	weekly := Models.ChecklistTemplate{TaskCode: "CHK-WK", Description: "Weekly audit", Assignee: "nobody",
		Frequency: Models.FrequencyWeekly, StartDate: "2025-09-04", Active: true}
	paused := Models.ChecklistTemplate{TaskCode: "CHK-OFF", Description: "Paused", Frequency: Models.FrequencyDaily,
		StartDate: "2025-09-01", Active: true}
	for _, tpl := range []*Models.ChecklistTemplate{&daily, &weekly, &paused} {
		require.NoError(t, db.Create(tpl).Error)
	}
	// a false Active would be replaced by the column default on create
	require.NoError(t, db.Model(&paused).Update("active", false).Error)

	now := time.Date(2025, 9, 10, 0, 5, 0, 0, time.UTC)
	created, err := GenerateChecklists(ctx, db, now)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	created, err = GenerateChecklists(ctx, db, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	var subtasks []Models.ChecklistSubtask
	require.NoError(t, db.Find(&subtasks).Error)
	require.Len(t, subtasks, 1)
	st := subtasks[0]
	assert.Equal(t, "CHK-BKP", st.TaskCode)
	assert.Equal(t, "2025-09-10 17:00:00", st.TaskDate)
	assert.Equal(t, "pending", st.Status)
	require.NotNil(t, st.DoerID)
	assert.Equal(t, asha.ID, *st.DoerID)

	created, err = GenerateChecklists(ctx, db, time.Date(2025, 9, 11, 0, 5, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, created, "daily plus the Thursday weekly")
}

func TestSchedulerJobs(t *testing.T) {
	db, err := Models.OpenMemory(t.Name())
	require.NoError(t, err)

	s := NewScheduler(db, Config.Config{Timezone: "UTC", ChecklistSchedule: "0 5 0 * * *"}, nil)
	_, hasImport := s.jobs[JobFMSImport]
	_, hasDigest := s.jobs[JobDigest]
	assert.False(t, hasImport)
	assert.False(t, hasDigest)

	assert.ErrorIs(t, s.RunNow(JobDigest), ErrUnknownJob)
	assert.NoError(t, s.RunNow(JobChecklist))
	assert.Error(t, s.UpdateSchedule(JobChecklist, "not a schedule"))
	assert.NoError(t, s.UpdateSchedule(JobChecklist, "0 0 1 * * *"))
}
