package Models

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// ReconcileReport summarizes a doer_id backfill run
type ReconcileReport struct {
	Checklist ReconcileCounts `json:"checklist"`
	FMS       ReconcileCounts `json:"fms"`
}

type ReconcileCounts struct {
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
	Ambiguous int `json:"ambiguous"`
}

// ReconcileDoers backfills doer_id on checklist and FMS rows whose free-text
// doer matches exactly one user. Ambiguous and unmatched rows are left alone.
func ReconcileDoers(db *gorm.DB) (ReconcileReport, error) {
	var report ReconcileReport

	idx, err := LoadUserIndex(db)
	if err != nil {
		return report, fmt.Errorf("load users: %w", err)
	}

	var subtasks []ChecklistSubtask
	if err := db.Where("doer_id IS NULL").Find(&subtasks).Error; err != nil {
		return report, fmt.Errorf("load checklist subtasks: %w", err)
	}
	for _, st := range subtasks {
		id, counts := pickDoer(idx, st.Assignee)
		report.Checklist.add(counts)
		if id == 0 {
			continue
		}
		if err := db.Model(&ChecklistSubtask{}).Where("id = ?", st.ID).Update("doer_id", id).Error; err != nil {
			return report, fmt.Errorf("update checklist subtask %d: %w", st.ID, err)
		}
	}

	var fmsTasks []FMSTask
	if err := db.Where("doer_id IS NULL").Find(&fmsTasks).Error; err != nil {
		return report, fmt.Errorf("load fms tasks: %w", err)
	}
	for _, ft := range fmsTasks {
		id, counts := pickDoer(idx, ft.DoerName)
		report.FMS.add(counts)
		if id == 0 {
			continue
		}
		if err := db.Model(&FMSTask{}).Where("id = ?", ft.ID).Update("doer_id", id).Error; err != nil {
			return report, fmt.Errorf("update fms task %d: %w", ft.ID, err)
		}
	}

	log.Printf("Doer reconciliation: checklist %+v, fms %+v", report.Checklist, report.FMS)
	return report, nil
}

func pickDoer(idx *UserIndex, text string) (uint, ReconcileCounts) {
	matches := idx.Match(text)
	switch len(matches) {
	case 0:
		return 0, ReconcileCounts{Unmatched: 1}
	case 1:
		return matches[0].ID, ReconcileCounts{Matched: 1}
	default:
		return 0, ReconcileCounts{Ambiguous: 1}
	}
}

func (c *ReconcileCounts) add(o ReconcileCounts) {
	c.Matched += o.Matched
	c.Unmatched += o.Unmatched
	c.Ambiguous += o.Ambiguous
}
