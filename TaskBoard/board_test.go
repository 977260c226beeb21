package TaskBoard

import (
	"TaskFlow/Models"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

func loadAll(t *testing.T, f *fixture) []TaskView {
	t.Helper()
	views, err := f.svc.Views(context.Background(), f.auth(f.admin), SourceFilter{})
	require.NoError(t, err)
	require.Len(t, views, 8)
	return views
}

func byUniqueID(views []TaskView, id string) TaskView {
	for _, v := range views {
		if v.UniqueID == id {
			return v
		}
	}
	return TaskView{}
}

func TestMappingAndDelay(t *testing.T) {
	f := newFixture(t)
	views := loadAll(t, f)

	d1 := byUniqueID(views, "DEL-1")
	assert.True(t, d1.Completed)
	assert.Equal(t, 1, d1.IsDelayed)
	assert.Equal(t, "0 days, 1 hours, 1 minutes", d1.DelayDuration)
	assert.Equal(t, "0d 1h 1m", d1.DelayShort)
	assert.Equal(t, "Asha Rao", d1.DoerName)
	assert.Equal(t, "Ops", d1.DepartmentName)
	assert.Equal(t, "Meera Nair", d1.AssignedBy)

	d2 := byUniqueID(views, "DEL-2")
	assert.True(t, d2.Open())
	assert.Equal(t, 1, d2.IsDelayed)
	assert.Equal(t, "1 days, 3 hours, 0 minutes", d2.DelayDuration)

	c1 := byUniqueID(views, "CHK-1")
	assert.Equal(t, "pending", c1.Status)
	assert.Equal(t, 0, c1.IsDelayed, "due end of today")
	require.NotNil(t, c1.DoerID)
	assert.Equal(t, f.asha.ID, *c1.DoerID)
	assert.Equal(t, "Ops", c1.DepartmentName)

	c2 := byUniqueID(views, "CHK-2")
	assert.Equal(t, "can not be done", c2.Status)
	assert.Nil(t, c2.DoerID)
	assert.Equal(t, "ghost", c2.DoerName)
	assert.Equal(t, 0, c2.IsDelayed)

	f1 := byUniqueID(views, "ORD-1")
	assert.True(t, f1.Completed, "actual data completes an fms task")
	assert.Equal(t, "completed", f1.Status)
	assert.Equal(t, 1, f1.IsDelayed)
	assert.Equal(t, "2025-09-08", f1.PlannedDate)
	assert.Equal(t, "16:30", f1.PlannedTime)

	f2 := byUniqueID(views, "ORD-2")
	assert.True(t, f2.Completed, "a completed-like status completes an fms task")
	assert.Equal(t, 0, f2.IsDelayed)

	f3 := byUniqueID(views, "ORD-3")
	assert.False(t, f3.Completed)
	assert.False(t, f3.Open())
	assert.Equal(t, "not done", f3.Status)
}

func TestIsCompleted(t *testing.T) {
	assert.True(t, IsCompleted("fms", "", "5/9/25 at 4:30pm"))
	assert.True(t, IsCompleted("fms", "Done", ""))
	assert.False(t, IsCompleted("fms", "", "N/A"))
	assert.False(t, IsCompleted("delegation", "pending", "2025-09-05"))
	assert.True(t, IsCompleted("checklist", " completed ", ""))
}

func TestStatsDoNotPartitionTotal(t *testing.T) {
	f := newFixture(t)
	stats := ComputeStats(loadAll(t, f))

	assert.Equal(t, Stats{Total: 8, Completed: 3, Pending: 3, Delayed: 1, Closed: 2, Priority: 2}, stats)
	// Delayed is a subset of Pending; adding the three counters is meaningless.
	assert.NotEqual(t, stats.Total, stats.Completed+stats.Pending+stats.Delayed)
	assert.Equal(t, stats.Total, stats.Completed+stats.Pending+stats.Closed)
	assert.LessOrEqual(t, stats.Delayed, stats.Pending)
}

func TestBoardSortsPriorityFirst(t *testing.T) {
	f := newFixture(t)
	res := Board(loadAll(t, f), ListOptions{AllowedLimits: ManageTaskLimits})

	assert.Equal(t,
		[]string{"DEL-3", "ORD-3", "ORD-2", "CHK-1", "DEL-2", "CHK-2", "ORD-1", "DEL-1"},
		uniqueIDs(res.Tasks))
	assert.Equal(t, SortSpec{Column: "planned_date", Dir: "desc"}, res.Sort)
	assert.Equal(t, []string{"DEL-3", "ORD-3"}, uniqueIDs(res.PriorityTasks))
	assert.Equal(t, TabAll, res.Tab)
}

func TestBoardSortByColumnAscending(t *testing.T) {
	f := newFixture(t)
	res := Board(loadAll(t, f), ListOptions{Sort: SortSpec{Column: "unique_id", Dir: "ASC"}, AllowedLimits: ManageTaskLimits})

	assert.Equal(t,
		[]string{"DEL-3", "ORD-3", "CHK-1", "CHK-2", "DEL-1", "DEL-2", "ORD-1", "ORD-2"},
		uniqueIDs(res.Tasks))
}

func TestBoardFilters(t *testing.T) {
	f := newFixture(t)
	views := loadAll(t, f)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"status synonym", Filter{Status: "can't be done"}, []string{"CHK-2"}},
		{"delayed pseudo status", Filter{Status: "delayed"}, []string{"DEL-2"}},
		{"completed", Filter{Status: "Completed"}, []string{"ORD-2", "ORD-1", "DEL-1"}},
		{"type", Filter{Type: "fms"}, []string{"ORD-3", "ORD-2", "ORD-1"}},
		{"doer by name", Filter{Doer: "asha rao"}, []string{"ORD-3", "CHK-1", "DEL-1"}},
		{"doer by free text", Filter{Doer: "GHOST"}, []string{"CHK-2"}},
		{"task id", Filter{TaskID: "ord"}, []string{"ORD-3", "ORD-2", "ORD-1"}},
		{"task name", Filter{TaskName: "BACKUP"}, []string{"CHK-1"}},
		{"date range inclusive", Filter{DateFrom: ParseDay("2025-09-08"), DateTo: ParseDay("2025-09-10")}, []string{"CHK-1", "DEL-2", "CHK-2", "ORD-1"}},
		{"sheet", Filter{Sheet: "billing"}, []string{"ORD-3"}},
		{"search", Filter{Search: "vikram"}, []string{"DEL-2", "ORD-1"}},
		{"active doers exclude unresolved and inactive", Filter{DoerStatus: "Active"}, []string{"DEL-3", "ORD-3", "ORD-2", "CHK-1", "DEL-1"}},
		{"inactive doers", Filter{DoerStatus: "Inactive"}, []string{"DEL-2", "ORD-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Board(views, ListOptions{Filter: tt.filter, AllowedLimits: ManageTaskLimits})
			assert.Equal(t, tt.want, uniqueIDs(res.Tasks))
			assert.Equal(t, len(tt.want), res.Stats.Total)
		})
	}
}

func TestBoardStatsIgnorePagination(t *testing.T) {
	f := newFixture(t)
	views := loadAll(t, f)
	for i := 0; i < 30; i++ {
		views = append(views, views[7])
	}

	res := Board(views, ListOptions{Limit: 25, Page: 2, AllowedLimits: ManageTaskLimits})

	assert.Len(t, res.Tasks, 13)
	assert.Equal(t, 38, res.Stats.Total)
	assert.Equal(t, 2, res.Page.TotalPages)
}

func TestVisibleScopes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	manager, err := f.svc.Views(ctx, f.auth(f.manager), SourceFilter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"DEL-1", "DEL-2", "CHK-1", "ORD-1", "ORD-3"}, uniqueIDs(manager))

	doer, err := f.svc.Views(ctx, f.auth(f.asha), SourceFilter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"DEL-1", "CHK-1", "ORD-3"}, uniqueIDs(doer))
}

func TestLoadSourcesRejectsUnknownType(t *testing.T) {
	f := newFixture(t)
	_, err := LoadSources(context.Background(), f.db, SourceFilter{Type: "email"}, fixtureNow)
	assert.ErrorIs(t, err, ErrUnknownTaskType)
}

func TestSharedDoerNameStaysUnresolved(t *testing.T) {
	db, err := Models.OpenMemory(t.Name())
	require.NoError(t, err)
	svc := &Service{DB: db, Now: func() time.Time { return fixtureNow }}

	a := Models.User{Username: "asha.r", Name: "Asha", UserType: Models.RoleDoer}
	b := Models.User{Username: "asha.k", Name: "Asha", UserType: Models.RoleDoer}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)
	require.NoError(t, db.Create(&Models.FMSTask{UniqueKey: "ORD-7", StepCode: "S1", Planned: "12/9/25 at 9:00am", DoerName: "asha"}).Error)

	ctx := context.Background()
	for _, u := range []Models.User{a, b} {
		views, err := svc.Views(ctx, Models.AuthContextFor(u), SourceFilter{})
		require.NoError(t, err)
		assert.Empty(t, views, u.Username)
	}

	views, err := svc.Views(ctx, Models.AuthContext{UserID: 99, Role: Models.RoleAdmin}, SourceFilter{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].DoerID)
	assert.Equal(t, "asha", views[0].DoerName)
	assert.Empty(t, Select(views, Filter{DoerStatus: Models.UserStatusActive}, SortSpec{}))
}

func TestDoerSummariesOrderDeterministically(t *testing.T) {
	doers := []DoerSummary{
		{UserID: 9, Name: "asha", Stats: Stats{Delayed: 1}},
		{UserID: 4, Name: "Omar", Stats: Stats{Delayed: 2}},
		{UserID: 3, Name: "Asha", Stats: Stats{Delayed: 1}},
		{UserID: 1, Name: "Bina"},
	}
	slices.SortStableFunc(doers, compareDoers)

	ids := make([]uint, len(doers))
	for i, d := range doers {
		ids[i] = d.UserID
	}
	assert.Equal(t, []uint{4, 3, 9, 1}, ids)
}

func TestPriorityTab(t *testing.T) {
	assert.Equal(t, TabPriority, NormalizeTab(" Priority "))
	assert.Equal(t, TabAll, NormalizeTab("urgent"))
	assert.Equal(t, TabAll, NormalizeTab(""))

	views := []TaskView{{UniqueID: "A", Priority: 1}, {UniqueID: "B"}, {UniqueID: "C", Priority: 1}}
	assert.Equal(t, []string{"A", "C"}, uniqueIDs(PriorityOnly(views)))
	assert.Empty(t, PriorityOnly(views[1:2]))
}
