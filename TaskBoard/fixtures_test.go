package TaskBoard

import (
	"TaskFlow/Models"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixtureNow = time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db      *gorm.DB
	svc     *Service
	admin   Models.User
	manager Models.User
	asha    Models.User
	vik     Models.User
	omar    Models.User

	d1, d2, d3 Models.Task
	c1, c2     Models.ChecklistSubtask
	f1, f2, f3 Models.FMSTask
}

func ptr[T any](v T) *T { return &v }

// newFixture seeds three users under one manager plus eight tasks across the
// three sources:
//
//	D1 completed late (asha)      D2 open, delayed (vik, inactive)   D3 open, priority (omar)
//	C1 open, due today (asha)     C2 "cant be done", unresolved doer
//	F1 done via actual, late (vik) F2 "Yes" without actual (omar)    F3 "Not Done", priority (asha)
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := Models.OpenMemory(t.Name())
	require.NoError(t, err)

	f := &fixture{db: db}
	f.svc = &Service{DB: db, Now: func() time.Time { return fixtureNow }}

	ops := Models.Department{Name: "Ops"}
	require.NoError(t, db.Create(&ops).Error)

	f.admin = Models.User{Username: "admin", Name: "Admin", UserType: Models.RoleAdmin}
	require.NoError(t, db.Create(&f.admin).Error)
	f.manager = Models.User{Username: "meera", Name: "Meera Nair", UserType: Models.RoleManager}
	require.NoError(t, db.Create(&f.manager).Error)
	f.asha = Models.User{Username: "asha", Name: "Asha Rao", UserType: Models.RoleDoer, ManagerID: &f.manager.ID, DepartmentID: &ops.ID}
	require.NoError(t, db.Create(&f.asha).Error)
	f.vik = Models.User{Username: "vik", Name: "Vikram", UserType: Models.RoleDoer, ManagerID: &f.manager.ID, Status: ptr(Models.UserStatusInactive)}
	require.NoError(t, db.Create(&f.vik).Error)
	f.omar = Models.User{Username: "omar", Name: "Omar", UserType: Models.RoleDoer, Status: ptr(Models.UserStatusActive)}
	require.NoError(t, db.Create(&f.omar).Error)

	f.d1 = Models.Task{UniqueID: "DEL-1", Description: "Prepare invoice", PlannedDate: "2025-09-05", PlannedTime: "10:00:00",
		ActualDate: "2025-09-05", ActualTime: "11:01:01", Status: "Completed", DoerID: &f.asha.ID, DepartmentID: &ops.ID, AssignedByID: &f.manager.ID}
	f.d2 = Models.Task{UniqueID: "DEL-2", Description: "Call vendor", PlannedDate: "2025-09-09", PlannedTime: "09:00", Status: "pending", DoerID: &f.vik.ID}
	f.d3 = Models.Task{UniqueID: "DEL-3", Description: "Audit stores", PlannedDate: "2025-09-12", Status: "Pending", DoerID: &f.omar.ID, Priority: 1}
	for _, task := range []*Models.Task{&f.d1, &f.d2, &f.d3} {
		require.NoError(t, db.Create(task).Error)
	}

	f.c1 = Models.ChecklistSubtask{TaskCode: "CHK-1", TaskDescription: "Daily backup", TaskDate: "2025-09-10", Assignee: " asha rao ", Frequency: Models.FrequencyDaily}
	f.c2 = Models.ChecklistSubtask{TaskCode: "CHK-2", TaskDescription: "Clean desk", TaskDate: "2025-09-08", Assignee: "ghost", Status: "cant be done"}
	for _, st := range []*Models.ChecklistSubtask{&f.c1, &f.c2} {
		require.NoError(t, db.Create(st).Error)
	}

	f.f1 = Models.FMSTask{UniqueKey: "ORD-1", StepCode: "S1", StepName: "Dispatch", Planned: "8/9/25 at 4:30pm", Actual: "9/9/25 at 10:00am", DoerName: "VIKRAM", SheetLabel: "Orders"}
	f.f2 = Models.FMSTask{UniqueKey: "ORD-2", StepCode: "S2", StepName: "Pack", Planned: "12/9/25 at 9:00am", Status: "Yes", DoerName: "omar", SheetLabel: "Orders"}
	f.f3 = Models.FMSTask{UniqueKey: "ORD-3", StepCode: "S3", StepName: "Raise invoice", Planned: "1/9/25 at 9:00am", Actual: "n/a", Status: "Not Done", DoerName: "asha", SheetLabel: "Billing", Priority: 1}
	for _, ft := range []*Models.FMSTask{&f.f1, &f.f2, &f.f3} {
		require.NoError(t, db.Create(ft).Error)
	}

	return f
}

func (f *fixture) auth(u Models.User) Models.AuthContext {
	return Models.AuthContextFor(u)
}

func uniqueIDs(views []TaskView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.UniqueID
	}
	return out
}
