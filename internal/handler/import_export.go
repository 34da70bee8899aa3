package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/kathyxu-winderland/daily-fintrack-team/internal/importer"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/models"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/notify"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/store"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ImportExportHandler wires file uploads through the normalizer into the
// store, and streams the board back out as CSV/XLSX downloads.
type ImportExportHandler struct {
	Store      *store.Store
	Normalizer *importer.Normalizer
	Notifier   notify.Notifier
}

func NewImportExportHandler(s *store.Store, n *importer.Normalizer, notifier notify.Notifier) *ImportExportHandler {
	return &ImportExportHandler{
		Store:      s,
		Normalizer: n,
		Notifier:   notifier,
	}
}

var exportHeader = []string{"Task", "Department", "Assignee", "Cost", "Due Date", "Notes", "Urgent"}

// ImportUpload accepts a multipart CSV or XLSX upload, normalizes every
// row and bulk-inserts the salvageable ones. Bad rows are skipped and
// counted; the reply is the partial-success summary the UI shows.
func (h *ImportExportHandler) ImportUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "missing upload file")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cannot read upload")
		return
	}
	defer f.Close()

	var rows []importer.RawRow
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".csv":
		rows, err = importer.ReadCSV(f)
	case ".xlsx":
		rows, err = importer.ReadXLSX(f)
	default:
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "unsupported file type, expected .csv or .xlsx")
		return
	}
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cannot parse upload: "+err.Error())
		return
	}

	res := h.Normalizer.NormalizeBatch(rows)
	if err := h.Store.BulkInsert(res.Records); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "bulk insert failed")
		return
	}

	batchID := uuid.New().String()
	if h.Notifier != nil {
		h.Notifier.Notify(notify.Event{
			Kind:     notify.KindImport,
			CostCent: res.TotalCostCent,
			Detail: fmt.Sprintf("batch %s: %d of %d rows imported",
				batchID, res.Imported, res.Imported+res.Skipped),
		})
	}

	util.Success(c, util.Response{
		"batch_id":   batchID,
		"imported":   res.Imported,
		"skipped":    res.Skipped,
		"total_cost": notify.FormatCentToDollar(res.TotalCostCent),
	})
}

// exportRows selects the records to export; ?scope=archive switches to
// the archive log.
func (h *ImportExportHandler) exportRows(c *gin.Context) ([][]string, bool, error) {
	archive := c.Query("scope") == "archive"

	var out [][]string
	if archive {
		archived, err := h.Store.ListArchived()
		if err != nil {
			return nil, archive, err
		}
		for i := range archived {
			a := &archived[i]
			out = append(out, []string{
				a.Title,
				a.Category,
				a.Assignee,
				notify.FormatCentToDollar(a.CostCent),
				a.Due.Format("2006-01-02 15:04"),
				a.Notes,
				boolCell(a.Urgent),
				a.ArchivedAt.Format("2006-01-02 15:04"),
			})
		}
		return out, archive, nil
	}

	tasks, err := h.Store.ListActive(store.Filter{})
	if err != nil {
		return nil, archive, err
	}
	for i := range tasks {
		t := &tasks[i]
		out = append(out, taskRowCells(t))
	}
	return out, archive, nil
}

func taskRowCells(t *models.Task) []string {
	return []string{
		t.Title,
		t.Category,
		t.Assignee,
		notify.FormatCentToDollar(t.CostCent),
		t.Due.Format("2006-01-02 15:04"),
		t.Notes,
		boolCell(t.Urgent),
	}
}

func boolCell(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// ExportCSV streams the board as a CSV download.
func (h *ImportExportHandler) ExportCSV(c *gin.Context) {
	rows, archive, err := h.exportRows(c)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	name := "tasks"
	header := exportHeader
	if archive {
		name = "archive"
		header = append(append([]string{}, exportHeader...), "Completed At")
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s_%s.csv\"",
		name, time.Now().Format("20060102")))

	// UTF-8 BOM so Excel opens the file correctly
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(header)
	for _, row := range rows {
		writer.Write(row)
	}
}

// ExportXLSX streams the board as a spreadsheet download.
func (h *ImportExportHandler) ExportXLSX(c *gin.Context) {
	rows, archive, err := h.exportRows(c)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	name := "tasks"
	sheetName := "Active Tasks"
	header := exportHeader
	if archive {
		name = "archive"
		sheetName = "Archive"
		header = append(append([]string{}, exportHeader...), "Completed At")
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create sheet failed")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, cell := range header {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, col+"1", cell)
	}
	for r, row := range rows {
		for i, cell := range row {
			col, _ := excelize.ColumnNumberToName(i + 1)
			f.SetCellValue(sheetName, fmt.Sprintf("%s%d", col, r+2), cell)
		}
	}

	// column widths
	f.SetColWidth(sheetName, "A", "A", 32)
	f.SetColWidth(sheetName, "B", "B", 20)
	f.SetColWidth(sheetName, "C", "C", 14)
	f.SetColWidth(sheetName, "D", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 18)
	f.SetColWidth(sheetName, "F", "F", 32)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s_%s.xlsx\"",
		name, time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
