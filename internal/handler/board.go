package handler

import (
	"net/http"
	"time"

	"github.com/kathyxu-winderland/daily-fintrack-team/internal/config"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/deadline"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/notify"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/store"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/util"

	"github.com/gin-gonic/gin"
)

// BoardHandler serves the dashboard metrics and the cutoff countdown.
type BoardHandler struct {
	Store      *store.Store
	CutoffHour int
	CutoffMin  int
	UrgentIn   time.Duration
}

func NewBoardHandler(s *store.Store, board config.BoardConfig) (*BoardHandler, error) {
	hour, min, err := deadline.ParseCutoff(board.Cutoff)
	if err != nil {
		return nil, err
	}
	return &BoardHandler{
		Store:      s,
		CutoffHour: hour,
		CutoffMin:  min,
		UrgentIn:   time.Duration(board.UrgentMinutes) * time.Minute,
	}, nil
}

// Summary returns the headline metrics and per-department totals.
func (h *BoardHandler) Summary(c *gin.Context) {
	sum, err := h.Store.Summarize()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	util.Success(c, util.Response{
		"total_items": sum.TotalItems,
		"pending":     sum.Pending,
		"completed":   sum.Completed,
		"progress":    sum.Progress,
		"total_cost":  notify.FormatCentToDollar(sum.TotalCostCent),
		"departments": sum.Departments,
	})
}

// Deadline returns the countdown to the next daily cutoff.
func (h *BoardHandler) Deadline(c *gin.Context) {
	cd := deadline.Next(time.Now(), h.CutoffHour, h.CutoffMin, h.UrgentIn)
	util.Success(c, util.Response{
		"hours":    cd.Hours,
		"minutes":  cd.Minutes,
		"urgent":   cd.Urgent,
		"deadline": cd.Deadline,
	})
}
