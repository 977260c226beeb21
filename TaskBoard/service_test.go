package TaskBoard

import (
	"TaskFlow/Models"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateStatusChecklistRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v, err := f.svc.UpdateStatus(ctx, f.auth(f.asha), "checklist", f.c1.ID, "Completed")
	require.NoError(t, err)
	assert.True(t, v.Completed)
	assert.Equal(t, "2025-09-10", v.ActualDate)
	assert.Equal(t, "12:00", v.ActualTime)
	assert.Equal(t, 0, v.IsDelayed)

	var row Models.ChecklistSubtask
	require.NoError(t, f.db.First(&row, f.c1.ID).Error)
	assert.Equal(t, "completed", row.Status)
	assert.Equal(t, "2025-09-10 12:00:00", row.ActualDate)

	v, err = f.svc.UpdateStatus(ctx, f.auth(f.asha), "checklist", f.c1.ID, "pending")
	require.NoError(t, err)
	assert.False(t, v.Completed)
	assert.Nil(t, v.ActualAt)

	require.NoError(t, f.db.First(&row, f.c1.ID).Error)
	assert.Empty(t, row.ActualDate)
}

func TestUpdateStatusDelegationStoresDelay(t *testing.T) {
	f := newFixture(t)

	v, err := f.svc.UpdateStatus(context.Background(), f.auth(f.admin), "delegation", f.d2.ID, "completed")
	require.NoError(t, err)
	assert.True(t, v.Completed)
	assert.Equal(t, 1, v.IsDelayed)

	var row Models.Task
	require.NoError(t, f.db.First(&row, f.d2.ID).Error)
	assert.Equal(t, "2025-09-10", row.ActualDate)
	assert.Equal(t, "12:00:00", row.ActualTime)
	assert.Equal(t, "1 days, 3 hours, 0 minutes", row.DelayDuration)
}

func TestUpdateStatusFMSWritesLegacyActual(t *testing.T) {
	f := newFixture(t)

	v, err := f.svc.UpdateStatus(context.Background(), f.auth(f.asha), "fms", f.f3.ID, "done")
	require.NoError(t, err)
	assert.True(t, v.Completed)

	var row Models.FMSTask
	require.NoError(t, f.db.First(&row, f.f3.ID).Error)
	assert.Equal(t, "10/9/25 at 12:00pm", row.Actual)
	assert.Equal(t, "completed", row.Status)
}

func TestUpdateStatusErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateStatus(ctx, f.auth(f.asha), "delegation", f.d2.ID, "completed")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.UpdateStatus(ctx, f.auth(f.admin), "delegation", f.d2.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.svc.UpdateStatus(ctx, f.auth(f.admin), "email", f.d2.ID, "completed")
	assert.ErrorIs(t, err, ErrUnknownTaskType)

	_, err = f.svc.UpdateStatus(ctx, f.auth(f.admin), "fms", 999, "completed")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	var row Models.Task
	require.NoError(t, f.db.First(&row, f.d2.ID).Error)
	assert.Equal(t, "pending", row.Status)
}

func TestTogglePriority(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.TogglePriority(ctx, f.auth(f.asha), "delegation", f.d1.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.TogglePriority(ctx, f.auth(f.manager), "delegation", f.d3.ID)
	assert.ErrorIs(t, err, ErrForbidden, "omar does not report to the manager")

	next, err := f.svc.TogglePriority(ctx, f.auth(f.manager), "checklist", f.c1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	next, err = f.svc.TogglePriority(ctx, f.auth(f.admin), "checklist", f.c1.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, next)
}

func TestListRejectsUnknownType(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.List(context.Background(), f.auth(f.admin), ListOptions{Filter: Filter{Type: "email"}})
	assert.ErrorIs(t, err, ErrUnknownTaskType)
}

func TestAdminDashboard(t *testing.T) {
	f := newFixture(t)

	d, err := f.svc.Dashboard(context.Background(), f.auth(f.admin))
	require.NoError(t, err)

	assert.Equal(t, Models.RoleAdmin, d.Role)
	assert.Equal(t, 8, d.Stats.Total)
	assert.Equal(t, 1, d.Unassigned)
	assert.Equal(t, []string{"DEL-2"}, uniqueIDs(d.RecentDelayed))
	assert.Equal(t, 1, d.Today.Total)
	assert.Equal(t, Stats{Total: 3, Completed: 2, Closed: 1, Priority: 1}, d.ByType[Models.TaskTypeFMS])

	require.Len(t, d.Doers, 3)
	assert.Equal(t, "Vikram", d.Doers[0].Name)
	assert.Equal(t, Models.UserStatusInactive, d.Doers[0].Status)
	assert.Equal(t, 1, d.Doers[0].Stats.Delayed)
	assert.Equal(t, 50.0, d.Doers[0].CompletionRate)
	assert.Equal(t, "Asha Rao", d.Doers[1].Name)
	assert.Equal(t, "Omar", d.Doers[2].Name)
}

func TestDoerDashboard(t *testing.T) {
	f := newFixture(t)

	d, err := f.svc.Dashboard(context.Background(), f.auth(f.asha))
	require.NoError(t, err)

	assert.Equal(t, 3, d.Stats.Total)
	assert.Empty(t, d.Doers)
	assert.Zero(t, d.Unassigned)
	assert.Empty(t, d.RecentDelayed)
	assert.NotNil(t, d.RecentDelayed)
}
