package importer

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var testCategories = []string{
	"Daily Funding",
	"Budget 2026",
	"Marketing",
	"Product, Sales & Success",
	"Finance",
}

func newTestNormalizer() *Normalizer {
	n := NewNormalizer(testCategories, "Finance", "Team")
	n.Now = func() time.Time {
		return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	}
	return n
}

func TestMatchCategory_Exact(t *testing.T) {
	n := newTestNormalizer()

	if got := n.MatchCategory("Budget 2026"); got != "Budget 2026" {
		t.Errorf("MatchCategory exact = %q, want %q", got, "Budget 2026")
	}
}

func TestMatchCategory_Substring(t *testing.T) {
	n := newTestNormalizer()

	testCases := []struct {
		free string
		want string
	}{
		{"marketing", "Marketing"},
		{"Sales", "Product, Sales & Success"},
		{"funding", "Daily Funding"},
		{"BUDGET", "Budget 2026"},
	}
	for _, tc := range testCases {
		if got := n.MatchCategory(tc.free); got != tc.want {
			t.Errorf("MatchCategory(%q) = %q, want %q", tc.free, got, tc.want)
		}
	}
}

func TestMatchCategory_Fallback(t *testing.T) {
	n := newTestNormalizer()

	for _, free := range []string{"Unknown Team", "", "   "} {
		if got := n.MatchCategory(free); got != "Finance" {
			t.Errorf("MatchCategory(%q) = %q, want default %q", free, got, "Finance")
		}
	}
}

// The substring policy is order-dependent: with overlapping labels the
// first configured match wins.
func TestMatchCategory_FirstMatchWins(t *testing.T) {
	n := NewNormalizer([]string{"Pre-Sales", "Product, Sales & Success"}, "Pre-Sales", "Team")

	if got := n.MatchCategory("Sales"); got != "Pre-Sales" {
		t.Errorf("MatchCategory(%q) = %q, want first configured match %q", "Sales", got, "Pre-Sales")
	}
}

func TestParseCost(t *testing.T) {
	testCases := []struct {
		in   string
		want int64
	}{
		{"$1,000", 100000},
		{"50", 5000},
		{"1,234.56", 123456},
		{"$ 15,000.00", 1500000},
		{"€2000", 200000},
		{"0", 0},
		{"", 0},
		{"abc", 0},
		{"-50", 0},
		{"12.345", 1235}, // rounds half-up at the cent
	}
	for _, tc := range testCases {
		if got := ParseCost(tc.in); got != tc.want {
			t.Errorf("ParseCost(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

// A row with unparsable optional fields still produces a valid record
// with the defined fallbacks.
func TestNormalizeRow_BadOptionalFields(t *testing.T) {
	n := newTestNormalizer()

	task, err := n.NormalizeRow(RawRow{
		"task":     "Quarterly Audit",
		"cost":     "abc",
		"due date": "not-a-date",
	})
	if err != nil {
		t.Fatalf("NormalizeRow error = %v, want nil", err)
	}

	if task.CostCent != 0 {
		t.Errorf("CostCent = %d, want fallback 0", task.CostCent)
	}
	wantDue := n.Now().AddDate(0, 0, 30)
	if !task.Due.Equal(wantDue) {
		t.Errorf("Due = %v, want 30 days out (%v)", task.Due, wantDue)
	}
	if task.Category != "Finance" {
		t.Errorf("Category = %q, want default %q", task.Category, "Finance")
	}
	if task.Assignee != "Team" {
		t.Errorf("Assignee = %q, want placeholder %q", task.Assignee, "Team")
	}
	if task.Status {
		t.Error("imported row has status=true, want pending")
	}
}

func TestNormalizeRow_MissingTitle(t *testing.T) {
	n := newTestNormalizer()

	for _, row := range []RawRow{
		{},
		{"task": ""},
		{"task": "   "},
		{"cost": "50"},
	} {
		_, err := n.NormalizeRow(row)
		if !errors.Is(err, ErrMissingTitle) {
			t.Errorf("NormalizeRow(%v) error = %v, want ErrMissingTitle", row, err)
		}
	}
}

func TestNormalizeRow_ParsesDueLayouts(t *testing.T) {
	n := newTestNormalizer()

	testCases := []struct {
		in   string
		want time.Time
	}{
		{"2026-04-01", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
		{"2026/04/01", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
		{"04/01/2026", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
		{"Apr 1, 2026", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
		{"2026-04-01 09:30", time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)},
	}
	for _, tc := range testCases {
		task, err := n.NormalizeRow(RawRow{"task": "x", "due date": tc.in})
		if err != nil {
			t.Fatalf("NormalizeRow due %q error = %v", tc.in, err)
		}
		if !task.Due.Equal(tc.want) {
			t.Errorf("due %q parsed as %v, want %v", tc.in, task.Due, tc.want)
		}
	}
}

// Scenario: one good row, one blank-title row. The batch reports one
// imported record with the matched category and one skipped row.
func TestNormalizeBatch_PartialSuccess(t *testing.T) {
	n := newTestNormalizer()

	res := n.NormalizeBatch([]RawRow{
		{"task": "X", "cost": "$1,000", "department": "marketing"},
		{"task": "", "cost": "50"},
	})

	if res.Imported != 1 || res.Skipped != 1 {
		t.Fatalf("imported/skipped = %d/%d, want 1/1", res.Imported, res.Skipped)
	}
	if len(res.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(res.Records))
	}
	rec := res.Records[0]
	if rec.CostCent != 100000 {
		t.Errorf("CostCent = %d, want 100000", rec.CostCent)
	}
	if rec.Category != "Marketing" {
		t.Errorf("Category = %q, want %q", rec.Category, "Marketing")
	}
	if res.TotalCostCent != 100000 {
		t.Errorf("TotalCostCent = %d, want 100000", res.TotalCostCent)
	}
}

func TestNormalizeBatch_NeverAborts(t *testing.T) {
	n := newTestNormalizer()

	rows := []RawRow{
		{"task": "good one"},
		{"notes": "no title at all"},
		{"task": "good two", "cost": "??", "due date": "??", "department": "??"},
	}
	res := n.NormalizeBatch(rows)

	if res.Imported != 2 || res.Skipped != 1 {
		t.Errorf("imported/skipped = %d/%d, want 2/1", res.Imported, res.Skipped)
	}
}

func TestReadCSV_HeaderMapping(t *testing.T) {
	// BOM prefix and a ragged second data row
	input := "\ufeffTask,Department,Assignee,Cost,Due Date,Notes\n" +
		"Wire Approval,Daily Funding,Jason,\"$1,000\",2026-04-01,morning batch\n" +
		"Short Row,Marketing\n"

	rows, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	first := rows[0]
	if first["task"] != "Wire Approval" || first["cost"] != "$1,000" {
		t.Errorf("first row = %v", first)
	}
	second := rows[1]
	if second["task"] != "Short Row" || second["department"] != "Marketing" {
		t.Errorf("second row = %v", second)
	}
	if _, ok := second["cost"]; ok {
		t.Error("ragged row grew a cost cell")
	}
}

func TestReadCSV_Empty(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadCSV(\"\") error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %d, want 0", len(rows))
	}
}
