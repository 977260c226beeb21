package Controllers

import (
	"TaskFlow/TaskBoard"
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeaders = []string{
	"Type", "Task ID", "Description", "Planned Date", "Planned Time", "Actual Date", "Actual Time",
	"Status", "Doer", "Department", "Assigned By", "Priority", "Delayed", "Delay",
}

// taskWorkbook writes one row per task into a single "Tasks" sheet
func taskWorkbook(views []TaskBoard.TaskView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Tasks"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("error naming sheet: %w", err)
	}

	header := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("error writing header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6FA"}, Pattern: 1},
	})
	if err == nil {
		f.SetRowStyle(sheetName, 1, 1, headerStyle)
	}

	for i, v := range views {
		priority := ""
		if v.Priority == 1 {
			priority = "Yes"
		}
		delayed := "No"
		if v.IsDelayed == 1 {
			delayed = "Yes"
		}
		row := []interface{}{
			v.TaskType, v.UniqueID, v.Description, v.PlannedDate, v.PlannedTime, v.ActualDate, v.ActualTime,
			v.Status, v.DoerName, v.DepartmentName, v.AssignedBy, priority, delayed, v.DelayDuration,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("error writing row %d: %w", i+2, err)
		}
	}

	last, _ := excelize.ColumnNumberToName(len(exportHeaders))
	f.SetColWidth(sheetName, "A", last, 18)
	f.SetColWidth(sheetName, "C", "C", 40)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing Excel file to buffer: %w", err)
	}
	return &buf, nil
}
