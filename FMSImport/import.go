package FMSImport

import (
	"TaskFlow/AbstractFunctions"
	"TaskFlow/Models"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var ErrNoRows = errors.New("workbook has no FMS rows")

// Summary reports what an import changed
type Summary struct {
	Sheets  []string `json:"sheets"`
	Rows    int      `json:"rows"`
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// header cells are matched after lowercasing and collapsing separators
var columnAliases = map[string]string{
	"unique key": "unique_key",
	"uniquekey":  "unique_key",
	"key":        "unique_key",
	"order id":   "unique_key",
	"step code":  "step_code",
	"step":       "step_code",
	"step name":  "step_name",
	"task":       "step_name",
	"planned":    "planned",
	"plan":       "planned",
	"actual":     "actual",
	"status":     "status",
	"doer":       "doer_name",
	"doer name":  "doer_name",
	"task link":  "task_link",
	"link":       "task_link",
}

func headerKey(cell string) string {
	cell = strings.ToLower(strings.NewReplacer("_", " ", "-", " ").Replace(cell))
	return strings.Join(strings.Fields(cell), " ")
}

// ImportFile imports the workbook at path
func ImportFile(ctx context.Context, db *gorm.DB, path string) (Summary, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Import(ctx, db, f)
}

// ImportReader imports a workbook streamed from r, e.g. an upload
func ImportReader(ctx context.Context, db *gorm.DB, r io.Reader) (Summary, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Summary{}, fmt.Errorf("read workbook: %w", err)
	}
	defer f.Close()
	return Import(ctx, db, f)
}

// Import upserts every step row of every sheet on (unique_key, step_code).
// The sheet name becomes the row's sheet label. Priority flags and resolved
// doers survive re-imports unless the doer text changes.
func Import(ctx context.Context, db *gorm.DB, f *excelize.File) (Summary, error) {
	rows, summary := ReadWorkbook(f)
	if len(rows) == 0 {
		return summary, ErrNoRows
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			created, err := upsert(tx, row)
			if err != nil {
				return err
			}
			if created {
				summary.Created++
			} else {
				summary.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return summary, err
	}
	log.Printf("FMS import: %d rows from %v, %d created, %d updated, %d skipped",
		summary.Rows, summary.Sheets, summary.Created, summary.Updated, summary.Skipped)
	return summary, nil
}

// ReadWorkbook maps the rows of every sheet that has a unique key and a step
// code column. Rows missing either value are skipped.
func ReadWorkbook(f *excelize.File) ([]Models.FMSTask, Summary) {
	var summary Summary
	var out []Models.FMSTask

	for _, sheet := range f.GetSheetList() {
		// Raw values keep date cells as serials instead of Excel's month-first display format
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", sheet, err))
			continue
		}
		if len(rows) < 2 {
			continue
		}

		cols := map[string]int{}
		for i, cell := range rows[0] {
			if field, ok := columnAliases[headerKey(cell)]; ok {
				if _, seen := cols[field]; !seen {
					cols[field] = i
				}
			}
		}
		if _, ok := cols["unique_key"]; !ok {
			continue
		}
		if _, ok := cols["step_code"]; !ok {
			continue
		}
		summary.Sheets = append(summary.Sheets, sheet)

		for n, row := range rows[1:] {
			get := func(field string) string {
				i, ok := cols[field]
				if !ok || i >= len(row) {
					return ""
				}
				return strings.TrimSpace(row[i])
			}
			if isBlank(row) {
				continue
			}
			key, step := get("unique_key"), get("step_code")
			if key == "" || step == "" {
				summary.Skipped++
				summary.Errors = append(summary.Errors, fmt.Sprintf("%s row %d: missing unique key or step code", sheet, n+2))
				continue
			}
			out = append(out, Models.FMSTask{
				UniqueKey:  key,
				StepCode:   step,
				StepName:   get("step_name"),
				Planned:    dateCell(get("planned")),
				Actual:     dateCell(get("actual")),
				Status:     get("status"),
				DoerName:   get("doer_name"),
				TaskLink:   get("task_link"),
				SheetLabel: sheet,
			})
			summary.Rows++
		}
	}
	return out, summary
}

// dateCell stores serial date cells in the sheet's own text format
func dateCell(v string) string {
	formatted, _ := AbstractFunctions.GetFormattedDateExcel(v)
	return formatted
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func upsert(tx *gorm.DB, row Models.FMSTask) (bool, error) {
	var existing Models.FMSTask
	err := tx.Where("unique_key = ? AND step_code = ?", row.UniqueKey, row.StepCode).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := tx.Create(&row).Error; err != nil {
			return false, fmt.Errorf("create fms task %s/%s: %w", row.UniqueKey, row.StepCode, err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("find fms task %s/%s: %w", row.UniqueKey, row.StepCode, err)
	}

	updates := map[string]interface{}{
		"step_name":   row.StepName,
		"planned":     row.Planned,
		"actual":      row.Actual,
		"status":      row.Status,
		"doer_name":   row.DoerName,
		"task_link":   row.TaskLink,
		"sheet_label": row.SheetLabel,
	}
	if Models.MatchKey(existing.DoerName) != Models.MatchKey(row.DoerName) {
		updates["doer_id"] = nil
	}
	if err := tx.Model(&existing).Updates(updates).Error; err != nil {
		return false, fmt.Errorf("update fms task %s/%s: %w", row.UniqueKey, row.StepCode, err)
	}
	return false, nil
}
