package router

import (
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/config"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/handler"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/importer"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/middleware"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/notify"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup configures the Gin engine and the JSON API routes.
func Setup(cfg *config.Config, db *gorm.DB, s *store.Store, notifier notify.Notifier) (*gin.Engine, error) {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")
	api.Use(middleware.ActivityMiddleware(db))

	taskHandler := handler.NewTaskHandler(s)
	api.POST("/tasks", taskHandler.CreateTask)
	api.GET("/tasks", taskHandler.ListTasks)
	api.PUT("/tasks/:id", taskHandler.UpdateTask)
	api.DELETE("/tasks/:id", taskHandler.DeleteTask)
	api.POST("/tasks/:id/complete", taskHandler.CompleteTask)
	api.POST("/tasks/:id/remind", taskHandler.RemindTask)
	api.GET("/archive", taskHandler.ListArchive)

	boardHandler, err := handler.NewBoardHandler(s, cfg.Board)
	if err != nil {
		return nil, err
	}
	api.GET("/summary", boardHandler.Summary)
	api.GET("/deadline", boardHandler.Deadline)

	normalizer := importer.NewNormalizer(
		cfg.Board.Categories,
		cfg.Board.DefaultCategory,
		cfg.Board.DefaultAssignee,
	)
	ieHandler := handler.NewImportExportHandler(s, normalizer, notifier)
	api.POST("/import", ieHandler.ImportUpload)
	api.GET("/export/csv", ieHandler.ExportCSV)
	api.GET("/export/xlsx", ieHandler.ExportXLSX)

	logHandler := handler.NewLogHandler(db)
	api.GET("/logs", logHandler.ListLogs)

	return r, nil
}
