package importer

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/kathyxu-winderland/daily-fintrack-team/internal/models"
)

// ErrMissingTitle marks a row that cannot be minimally salvaged. The row
// is skipped and counted; the batch continues.
var ErrMissingTitle = errors.New("row has no task title")

// Normalizer coerces loosely-typed spreadsheet rows into valid records.
// Only a missing title fails a row; every other bad field resolves to a
// defined fallback so an import never hard-fails on optional data.
type Normalizer struct {
	Categories      []string
	DefaultCategory string
	DefaultAssignee string
	Now             func() time.Time
}

func NewNormalizer(categories []string, defaultCategory, defaultAssignee string) *Normalizer {
	return &Normalizer{
		Categories:      categories,
		DefaultCategory: defaultCategory,
		DefaultAssignee: defaultAssignee,
		Now:             time.Now,
	}
}

// RawRow is one decoded spreadsheet row, keyed by normalized header name.
// No column is assumed present.
type RawRow map[string]string

// cell returns the first non-empty value among the given header aliases.
func (r RawRow) cell(keys ...string) string {
	for _, k := range keys {
		if v, ok := r[strings.ToLower(k)]; ok {
			v = strings.TrimSpace(v)
			if v != "" {
				return v
			}
		}
	}
	return ""
}

// NormalizeRow coerces one raw row into a record.
func (n *Normalizer) NormalizeRow(row RawRow) (models.Task, error) {
	title := row.cell("Task", "Title", "Activity")
	if title == "" {
		return models.Task{}, ErrMissingTitle
	}

	assignee := row.cell("Assignee", "Owner")
	if assignee == "" {
		assignee = n.DefaultAssignee
	}

	return models.Task{
		Title:    title,
		Category: n.MatchCategory(row.cell("Department", "Category")),
		Assignee: assignee,
		Due:      n.parseDue(row.cell("Due Date", "Due", "Deadline")),
		CostCent: ParseCost(row.cell("Cost", "Est. Cost", "Amount")),
		Notes:    row.cell("Notes", "Note"),
		Urgent:   parseBool(row.cell("Urgent")),
		Status:   false, // imports never create pre-completed items
	}, nil
}

// BatchResult aggregates one bulk import for the caller's summary.
type BatchResult struct {
	Records       []models.Task
	Imported      int
	Skipped       int
	TotalCostCent int64
}

// NormalizeBatch applies NormalizeRow to every row. Bad rows are counted
// in Skipped, never aborting the batch.
func (n *Normalizer) NormalizeBatch(rows []RawRow) BatchResult {
	res := BatchResult{Records: make([]models.Task, 0, len(rows))}
	for _, row := range rows {
		t, err := n.NormalizeRow(row)
		if err != nil {
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, t)
		res.Imported++
		res.TotalCostCent += t.CostCent
	}
	return res
}

// MatchCategory maps free text onto the canonical enumeration:
// exact match first, then a case-insensitive substring match where the
// free text appears inside a canonical label, then the default.
//
// The substring pass is deliberately permissive and order-dependent:
// when the text matches more than one label ("Sales" inside both
// "Sales & Success" and "Pre-Sales"), the first label in configuration
// order wins. Keep that in mind when ordering overlapping labels.
func (n *Normalizer) MatchCategory(free string) string {
	free = strings.TrimSpace(free)
	if free == "" {
		return n.DefaultCategory
	}

	for _, c := range n.Categories {
		if c == free {
			return c
		}
	}

	lower := strings.ToLower(free)
	for _, c := range n.Categories {
		if strings.Contains(strings.ToLower(c), lower) {
			return c
		}
	}

	return n.DefaultCategory
}

// ParseCost parses a monetary cell into cents. Currency symbols and
// thousands separators are stripped first; anything unparsable or
// negative falls back to 0 rather than failing the row.
func ParseCost(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	var b strings.Builder
	for _, ch := range s {
		switch ch {
		case '$', '€', '£', '¥', ',', ' ', ' ':
			// drop symbol/separator
		default:
			b.WriteRune(ch)
		}
	}

	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || f < 0 {
		return 0
	}
	return int64(f*100 + 0.5)
}

// dueLayouts are tried in order against a due-date cell.
var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
}

// parseDue parses the due date; an unparsable value defaults to 30 days
// out so imports never hard-fail on bad dates.
func (n *Normalizer) parseDue(s string) time.Time {
	if s != "" {
		for _, layout := range dueLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	return n.now().AddDate(0, 0, 30)
}

func (n *Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1":
		return true
	}
	return false
}
