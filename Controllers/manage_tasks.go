package Controllers

import (
	"TaskFlow/AbstractFunctions"
	"TaskFlow/TaskBoard"
	"TaskFlow/middleware"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

type TaskHandler struct {
	Tasks *TaskBoard.Service
}

func NewTaskHandler(tasks *TaskBoard.Service) *TaskHandler {
	return &TaskHandler{Tasks: tasks}
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}

// listOptions reads the shared listing parameters
func listOptions(c *fiber.Ctx, allowed []int) TaskBoard.ListOptions {
	return TaskBoard.ListOptions{
		Filter: TaskBoard.Filter{
			Status:     c.Query("status"),
			Doer:       c.Query("doer"),
			Type:       c.Query("type"),
			TaskID:     c.Query("task_id"),
			TaskName:   c.Query("task_name"),
			Search:     c.Query("search"),
			DoerStatus: c.Query("doer_status"),
			DateFrom:   TaskBoard.ParseDay(c.Query("date_from")),
			DateTo:     TaskBoard.ParseDay(c.Query("date_to")),
		},
		Sort:          TaskBoard.SortSpec{Column: c.Query("sort"), Dir: c.Query("dir")},
		Page:          queryInt(c, "page", 1),
		PriorityPage:  queryInt(c, "priority_page", 1),
		Limit:         queryInt(c, "limit", allowed[0]),
		AllowedLimits: allowed,
		Tab:           c.Query("tab"),
	}
}

func boardResponse(res TaskBoard.Result, allowed []int) fiber.Map {
	return fiber.Map{
		"tab":                 res.Tab,
		"tasks":               res.Tasks,
		"pagination":          res.Page,
		"priority_tasks":      res.PriorityTasks,
		"priority_pagination": res.PriorityPage,
		"stats":               res.Stats,
		"completion_rate":     res.Stats.CompletionRate(),
		"sort":                res.Sort,
		"limits":              allowed,
		"status_options":      AbstractFunctions.StatusOptions,
	}
}

// ListTasks is the merged manage-tasks listing
func (h *TaskHandler) ListTasks(c *fiber.Ctx) error {
	auth, ok := middleware.AuthFrom(c)
	if !ok {
		return unauthorized(c)
	}
	res, err := h.Tasks.List(c.UserContext(), auth, listOptions(c, TaskBoard.ManageTaskLimits))
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(boardResponse(res, TaskBoard.ManageTaskLimits))
}

type statusRequest struct {
	TaskID   uint   `json:"task_id" form:"task_id" validate:"required"`
	TaskType string `json:"task_type" form:"task_type" validate:"required"`
	Status   string `json:"status" form:"status" validate:"required"`
	Action   string `json:"action" form:"action" validate:"omitempty,eq=update_status"`
}

// UpdateTaskStatus changes the status of one task
func (h *TaskHandler) UpdateTaskStatus(c *fiber.Ctx) error {
	auth, ok := middleware.AuthFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var req statusRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	task, err := h.Tasks.UpdateStatus(c.UserContext(), auth, req.TaskType, req.TaskID, req.Status)
	if err != nil {
		return taskError(c, err)
	}
	log.Printf("Task %s/%d set to %q by %s", task.TaskType, task.ID, task.Status, auth.Username)
	return c.JSON(fiber.Map{
		"status":  statusSuccess,
		"message": "Task status updated successfully",
		"task":    task,
	})
}

type priorityRequest struct {
	TaskID   uint   `json:"task_id" form:"task_id" validate:"required"`
	TaskType string `json:"task_type" form:"task_type" validate:"required"`
}

// TogglePriority flips the priority flag of one task
func (h *TaskHandler) TogglePriority(c *fiber.Ctx) error {
	auth, ok := middleware.AuthFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var req priorityRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	priority, err := h.Tasks.TogglePriority(c.UserContext(), auth, req.TaskType, req.TaskID)
	if err != nil {
		return taskError(c, err)
	}
	message := "Task removed from priority"
	if priority == 1 {
		message = "Task marked as priority"
	}
	return c.JSON(fiber.Map{
		"status":   statusSuccess,
		"message":  message,
		"priority": priority,
	})
}

// ExportTasks returns the filtered listing of the selected tab, unpaginated, as an xlsx workbook
func (h *TaskHandler) ExportTasks(c *fiber.Ctx) error {
	auth, ok := middleware.AuthFrom(c)
	if !ok {
		return unauthorized(c)
	}
	opts := listOptions(c, TaskBoard.ManageTaskLimits)
	views, err := h.Tasks.Views(c.UserContext(), auth, TaskBoard.SourceFilter{Type: opts.Filter.Type})
	if err != nil {
		return taskError(c, err)
	}
	selected := TaskBoard.Select(views, opts.Filter, opts.Sort.Normalize())
	if TaskBoard.NormalizeTab(opts.Tab) == TaskBoard.TabPriority {
		selected = TaskBoard.PriorityOnly(selected)
	}

	buf, err := taskWorkbook(selected)
	if err != nil {
		log.Printf("Error building task export: %v", err)
		return respond(c, fiber.StatusInternalServerError, statusError, "Could not build export")
	}

	filename := fmt.Sprintf("tasks-%s.xlsx", time.Now().In(AbstractFunctions.Location()).Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}
