package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kathyxu-winderland/daily-fintrack-team/internal/deadline"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/models"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/notify"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/store"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/util"

	"github.com/gin-gonic/gin"
)

// TaskHandler serves the board CRUD and the complete/archive action.
type TaskHandler struct {
	Store *store.Store
}

func NewTaskHandler(s *store.Store) *TaskHandler {
	return &TaskHandler{Store: s}
}

// ---------- request/response shapes ----------

type taskReq struct {
	Title    string `json:"title" binding:"required"`
	Category string `json:"category" binding:"required"`
	Assignee string `json:"assignee" binding:"max=64"`
	Due      string `json:"due"`
	Cost     string `json:"cost"`
	Notes    string `json:"notes" binding:"max=255"`
	Urgent   bool   `json:"urgent"`
}

type taskResp struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Assignee    string    `json:"assignee"`
	Due         time.Time `json:"due"`
	CostCent    int64     `json:"cost_cent"`
	Cost        string    `json:"cost"` // dollars as string for direct display
	Notes       string    `json:"notes"`
	Urgent      bool      `json:"urgent"`
	Status      bool      `json:"status"`
	CalendarURL string    `json:"calendar_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type archivedResp struct {
	ID         uint      `json:"id"`
	TaskID     uint      `json:"task_id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Assignee   string    `json:"assignee"`
	Due        time.Time `json:"due"`
	CostCent   int64     `json:"cost_cent"`
	Cost       string    `json:"cost"`
	Notes      string    `json:"notes"`
	Urgent     bool      `json:"urgent"`
	Status     bool      `json:"status"`
	ArchivedAt time.Time `json:"archived_at"`
}

func toTaskResp(t *models.Task) taskResp {
	return taskResp{
		ID:          t.ID,
		Title:       t.Title,
		Category:    t.Category,
		Assignee:    t.Assignee,
		Due:         t.Due,
		CostCent:    t.CostCent,
		Cost:        notify.FormatCentToDollar(t.CostCent),
		Notes:       t.Notes,
		Urgent:      t.Urgent,
		Status:      t.Status,
		CalendarURL: deadline.CalendarLink(t.Title, t.Due),
		CreatedAt:   t.CreatedAt,
	}
}

// ---------- helpers ----------

// parseDueField parses the due field of a manual form submission.
// Unlike import rows, a malformed manual date is rejected.
var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseDueField(s string) (time.Time, bool) {
	if s == "" {
		// default one week out, matching the entry form
		return time.Now().AddDate(0, 0, 7), true
	}
	for _, layout := range dueLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseCostField parses the cost of a manual form submission into cents.
func parseCostField(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return int64(f*100 + 0.5), true
}

func (h *TaskHandler) taskFromReq(c *gin.Context) (*models.Task, bool) {
	var req taskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return nil, false
	}

	due, ok := parseDueField(req.Due)
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid due date")
		return nil, false
	}
	cost, ok := parseCostField(req.Cost)
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid cost amount")
		return nil, false
	}

	return &models.Task{
		Title:    strings.TrimSpace(req.Title),
		Category: strings.TrimSpace(req.Category),
		Assignee: strings.TrimSpace(req.Assignee),
		Due:      due,
		CostCent: cost,
		Notes:    req.Notes,
		Urgent:   req.Urgent,
	}, true
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// writeStoreErr maps store errors onto the response envelope.
func writeStoreErr(c *gin.Context, err error) {
	var vErr *store.ValidationError
	switch {
	case errors.As(err, &vErr):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, vErr.Error())
	case errors.Is(err, store.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "record not found")
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "operation failed")
	}
}

// ---------- handlers ----------

// CreateTask adds one record from the entry form.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	t, ok := h.taskFromReq(c)
	if !ok {
		return
	}

	id, err := h.Store.Create(t)
	if err != nil {
		writeStoreErr(c, err)
		return
	}

	util.Success(c, util.Response{
		"id":   id,
		"task": toTaskResp(t),
	})
}

// ListTasks lists active records, filterable by assignee and categories.
// ?assignee=Jason&categories=Finance&categories=Marketing&sort=newest
// The categories param repeats instead of being comma-joined: canonical
// labels like "Product, Sales & Success" contain commas themselves.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	f := store.Filter{
		Assignee: strings.TrimSpace(c.Query("assignee")),
		Newest:   c.Query("sort") == "newest",
	}
	for _, p := range c.QueryArray("categories") {
		p = strings.TrimSpace(p)
		if p != "" {
			f.Categories = append(f.Categories, p)
		}
	}

	tasks, err := h.Store.ListActive(f)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	items := make([]taskResp, 0, len(tasks))
	for i := range tasks {
		items = append(items, toTaskResp(&tasks[i]))
	}
	util.Success(c, util.Response{
		"items": items,
		"total": len(items),
	})
}

// UpdateTask replaces the mutable fields of an active record.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	upd, ok := h.taskFromReq(c)
	if !ok {
		return
	}

	t, err := h.Store.Edit(id, *upd)
	if err != nil {
		writeStoreErr(c, err)
		return
	}
	util.Success(c, util.Response{
		"task": toTaskResp(t),
	})
}

// CompleteTask is the discrete command behind the "done" checkbox: it
// completes the record and moves it to the archive in one step.
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.Store.CompleteAndArchive(id); err != nil {
		writeStoreErr(c, err)
		return
	}
	util.Success(c, util.Response{
		"message": "archived",
	})
}

// DeleteTask removes an active record outright.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.Store.Delete(id); err != nil {
		writeStoreErr(c, err)
		return
	}
	util.Success(c, util.Response{
		"message": "deleted",
	})
}

// RemindTask sends a reminder nudge for a pending record.
func (h *TaskHandler) RemindTask(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.Store.Remind(id); err != nil {
		writeStoreErr(c, err)
		return
	}
	util.Success(c, util.Response{
		"message": "reminder sent",
	})
}

// ListArchive returns the append-only archive log, newest first.
func (h *TaskHandler) ListArchive(c *gin.Context) {
	archived, err := h.Store.ListArchived()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	items := make([]archivedResp, 0, len(archived))
	for i := range archived {
		a := &archived[i]
		items = append(items, archivedResp{
			ID:         a.ID,
			TaskID:     a.TaskID,
			Title:      a.Title,
			Category:   a.Category,
			Assignee:   a.Assignee,
			Due:        a.Due,
			CostCent:   a.CostCent,
			Cost:       notify.FormatCentToDollar(a.CostCent),
			Notes:      a.Notes,
			Urgent:     a.Urgent,
			Status:     a.Status,
			ArchivedAt: a.ArchivedAt,
		})
	}
	util.Success(c, util.Response{
		"items": items,
		"total": len(items),
	})
}
