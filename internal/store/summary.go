package store

import (
	"fmt"

	"github.com/kathyxu-winderland/daily-fintrack-team/internal/models"
)

// CategoryTotal is the projected spend for one department column.
type CategoryTotal struct {
	Category string `json:"category"`
	Items    int    `json:"items"`
	CostCent int64  `json:"cost_cent"`
}

// Summary are the board headline metrics.
type Summary struct {
	TotalItems    int             `json:"total_items"` // active + archived
	Pending       int             `json:"pending"`
	Completed     int             `json:"completed"`
	Progress      float64         `json:"progress"` // completed / total, 0 when empty
	TotalCostCent int64           `json:"total_cost_cent"`
	Departments   []CategoryTotal `json:"departments"`
}

// Summarize computes the dashboard metrics over the current board state:
// pending/completed counts, completion progress, and per-department cost
// totals for the active records. Departments follow configuration order
// and include empty columns.
func (s *Store) Summarize() (*Summary, error) {
	var tasks []models.Task
	if err := s.db.Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	var completed int64
	if err := s.db.Model(&models.ArchivedTask{}).Count(&completed).Error; err != nil {
		return nil, fmt.Errorf("summarize archive: %w", err)
	}

	byCat := make(map[string]*CategoryTotal, len(s.categories))
	totals := make([]CategoryTotal, len(s.categories))
	for i, c := range s.categories {
		totals[i] = CategoryTotal{Category: c}
		byCat[c] = &totals[i]
	}

	var totalCost int64
	for i := range tasks {
		t := &tasks[i]
		totalCost += t.CostCent
		if ct, ok := byCat[t.Category]; ok {
			ct.Items++
			ct.CostCent += t.CostCent
		}
	}

	sum := &Summary{
		TotalItems:    len(tasks) + int(completed),
		Pending:       len(tasks),
		Completed:     int(completed),
		TotalCostCent: totalCost,
		Departments:   totals,
	}
	if sum.TotalItems > 0 {
		sum.Progress = float64(sum.Completed) / float64(sum.TotalItems)
	}
	return sum, nil
}
