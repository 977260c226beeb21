package TaskBoard

import (
	"TaskFlow/AbstractFunctions"
	"TaskFlow/Models"
	"strconv"
	"strings"
	"time"
)

// lookups carries the reference data the mappers need
type lookups struct {
	users       *Models.UserIndex
	departments map[uint]string
}

func (l lookups) departmentName(id *uint) string {
	if id == nil {
		return ""
	}
	return l.departments[*id]
}

func (l lookups) userName(id *uint) string {
	if id == nil || l.users == nil {
		return ""
	}
	if u, ok := l.users.ByID(*id); ok {
		return u.DisplayName()
	}
	return ""
}

func (l lookups) resolve(id *uint, text string) *Models.User {
	if l.users == nil {
		return nil
	}
	u, ok := l.users.Resolve(id, text)
	if !ok {
		return nil
	}
	return u
}

func fromDelegation(t Models.Task, l lookups) TaskView {
	v := TaskView{
		ID:             t.ID,
		UniqueID:       t.UniqueID,
		Description:    t.Description,
		PlannedDate:    t.PlannedDate,
		PlannedTime:    t.PlannedTime,
		ActualDate:     t.ActualDate,
		ActualTime:     t.ActualTime,
		RawStatus:      t.Status,
		Status:         AbstractFunctions.NormalizeStatus(t.Status),
		DepartmentName: l.departmentName(t.DepartmentID),
		AssignedBy:     l.userName(t.AssignedByID),
		Priority:       t.Priority,
		TaskType:       Models.TaskTypeDelegation,
	}
	if v.UniqueID == "" {
		v.UniqueID = strconv.FormatUint(uint64(t.ID), 10)
	}
	if planned, ok := AbstractFunctions.Deadline(t.PlannedDate, t.PlannedTime); ok {
		v.PlannedAt = &planned
	}
	if actual, ok := AbstractFunctions.CombineDateTime(t.ActualDate, t.ActualTime); ok {
		v.ActualAt = &actual
	}
	v.Completed = IsCompleted(v.TaskType, t.Status, "")
	attachDoer(&v, l.resolve(t.DoerID, ""), "")
	return v
}

func fromChecklist(st Models.ChecklistSubtask, l lookups) TaskView {
	v := TaskView{
		ID:          st.ID,
		UniqueID:    st.TaskCode,
		Description: st.TaskDescription,
		RawStatus:   st.Status,
		Status:      AbstractFunctions.NormalizeStatus(st.Status),
		Priority:    st.Priority,
		TaskType:    Models.TaskTypeChecklist,
		Frequency:   st.Frequency,
	}
	if planned, ok := AbstractFunctions.Deadline(st.TaskDate, ""); ok {
		v.PlannedAt = &planned
		v.PlannedDate, v.PlannedTime = splitTime(planned)
	} else {
		v.PlannedDate = st.TaskDate
	}
	if actual, ok := AbstractFunctions.ParseLegacyDateTime(st.ActualDate); ok {
		v.ActualAt = &actual
		v.ActualDate, v.ActualTime = splitTime(actual)
	}
	v.Completed = IsCompleted(v.TaskType, st.Status, st.ActualDate)
	attachDoer(&v, l.resolve(st.DoerID, st.Assignee), st.Assignee)
	if name := l.departmentName(st.DepartmentID); name != "" {
		v.DepartmentName = name
	} else if v.doer != nil {
		v.DepartmentName = l.departmentName(v.doer.DepartmentID)
	}
	return v
}

func fromFMS(ft Models.FMSTask, l lookups) TaskView {
	v := TaskView{
		ID:          ft.ID,
		UniqueID:    ft.UniqueKey,
		Description: ft.StepName,
		RawStatus:   ft.Status,
		Status:      AbstractFunctions.NormalizeStatus(ft.Status),
		Priority:    ft.Priority,
		TaskType:    Models.TaskTypeFMS,
		SheetLabel:  ft.SheetLabel,
		StepCode:    ft.StepCode,
		TaskLink:    ft.TaskLink,
	}
	if planned, ok := AbstractFunctions.ParseLegacyDateTime(ft.Planned); ok {
		v.PlannedAt = &planned
		v.PlannedDate, v.PlannedTime = splitTime(planned)
	}
	if actual, ok := AbstractFunctions.ParseLegacyDateTime(ft.Actual); ok {
		v.ActualAt = &actual
		v.ActualDate, v.ActualTime = splitTime(actual)
	}
	if IsCompleted(v.TaskType, ft.Status, ft.Actual) {
		v.Completed = true
		v.Status = AbstractFunctions.StatusCompleted
	}
	attachDoer(&v, l.resolve(ft.DoerID, ft.DoerName), ft.DoerName)
	if v.doer != nil {
		v.DepartmentName = l.departmentName(v.doer.DepartmentID)
	}
	return v
}

// IsCompleted is the one completion rule shared by every screen: the
// normalized status is "completed", or an FMS row carries actual data.
func IsCompleted(taskType, status, actual string) bool {
	if AbstractFunctions.NormalizeStatus(status) == AbstractFunctions.StatusCompleted {
		return true
	}
	return taskType == Models.TaskTypeFMS && hasActualData(actual)
}

func hasActualData(actual string) bool {
	a := strings.TrimSpace(actual)
	return a != "" && !strings.EqualFold(a, "n/a")
}

func isClosed(status string) bool {
	return AbstractFunctions.IsClosedStatus(status)
}

func attachDoer(v *TaskView, u *Models.User, text string) {
	v.doerText = text
	v.doer = u
	if u != nil {
		id := u.ID
		v.DoerID = &id
		v.DoerName = u.DisplayName()
		return
	}
	v.DoerName = strings.TrimSpace(text)
}

func splitTime(t time.Time) (string, string) {
	return t.Format("2006-01-02"), t.Format("15:04")
}

// computeDelay fills the delay fields against the given clock. Closed tasks
// are measured like completed ones: only an actual time can make them late.
func computeDelay(v *TaskView, now time.Time) {
	finished := v.Completed || isClosed(v.Status)
	delayed, d := AbstractFunctions.ComputeDelay(v.PlannedAt, v.ActualAt, finished, now)
	v.delay = d
	if delayed {
		v.IsDelayed = 1
		v.DelayDuration = AbstractFunctions.FormatDelay(d)
		v.DelayShort = AbstractFunctions.FormatDelayShort(d)
	} else {
		v.IsDelayed = 0
		v.DelayDuration = ""
		v.DelayShort = ""
	}
}
