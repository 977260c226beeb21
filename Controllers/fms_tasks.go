package Controllers

import (
	"TaskFlow/FMSImport"
	"TaskFlow/Models"
	"TaskFlow/TaskBoard"
	"TaskFlow/middleware"
	"errors"
	"log"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type FMSHandler struct {
	DB    *gorm.DB
	Tasks *TaskBoard.Service
}

func NewFMSHandler(db *gorm.DB, tasks *TaskBoard.Service) *FMSHandler {
	return &FMSHandler{DB: db, Tasks: tasks}
}

// ListFMSTasks lists FMS steps with the sheet specific filters
func (h *FMSHandler) ListFMSTasks(c *fiber.Ctx) error {
	auth, ok := middleware.AuthFrom(c)
	if !ok {
		return unauthorized(c)
	}

	opts := listOptions(c, TaskBoard.FMSTaskLimits)
	opts.Filter.Type = Models.TaskTypeFMS
	opts.Filter.UniqueKey = c.Query("unique_key")
	opts.Filter.StepName = c.Query("step_name")
	opts.Filter.Sheet = c.Query("sheet")
	if from := TaskBoard.ParseDay(c.Query("planned_from")); from != nil {
		opts.Filter.DateFrom = from
	}
	if to := TaskBoard.ParseDay(c.Query("planned_to")); to != nil {
		opts.Filter.DateTo = to
	}

	res, err := h.Tasks.List(c.UserContext(), auth, opts)
	if err != nil {
		return taskError(c, err)
	}

	var sheets []string
	if err := h.DB.WithContext(c.UserContext()).Model(&Models.FMSTask{}).
		Distinct("sheet_label").Order("sheet_label").Pluck("sheet_label", &sheets).Error; err != nil {
		log.Printf("Error loading FMS sheet labels: %v", err)
	}

	body := boardResponse(res, TaskBoard.FMSTaskLimits)
	body["sheets"] = sheets
	return c.JSON(body)
}

// ImportFMS upserts an uploaded FMS workbook
func (h *FMSHandler) ImportFMS(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return respond(c, fiber.StatusBadRequest, statusError, "No file provided. Please upload an xlsx file.")
	}
	if ext := strings.ToLower(filepath.Ext(file.Filename)); ext != ".xlsx" {
		return respond(c, fiber.StatusBadRequest, statusError, "Invalid file type. Please upload an xlsx file.")
	}

	src, err := file.Open()
	if err != nil {
		return respond(c, fiber.StatusBadRequest, statusError, "Could not read the uploaded file")
	}
	defer src.Close()

	summary, err := FMSImport.ImportReader(c.UserContext(), h.DB, src)
	if errors.Is(err, FMSImport.ErrNoRows) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  statusError,
			"message": "No FMS rows found. The sheet needs Unique Key and Step Code columns.",
			"summary": summary,
		})
	}
	if err != nil {
		log.Printf("Error importing FMS workbook %s: %v", file.Filename, err)
		return respond(c, fiber.StatusInternalServerError, statusError, "Import failed")
	}

	report, err := Models.ReconcileDoers(h.DB.WithContext(c.UserContext()))
	if err != nil {
		log.Printf("Error reconciling doers after import: %v", err)
	}
	return c.JSON(fiber.Map{
		"status":    statusSuccess,
		"message":   "FMS sheet imported",
		"summary":   summary,
		"reconcile": report,
	})
}
