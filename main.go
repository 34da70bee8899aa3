package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/kathyxu-winderland/daily-fintrack-team/internal/config"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/database"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/models"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/notify"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/router"
	"github.com/kathyxu-winderland/daily-fintrack-team/internal/store"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if cfg.Log.File != "" {
		if err := ensureDir(filepath.Dir(cfg.Log.File)); err != nil {
			log.Fatalf("create log dir: %v", err)
		}
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("open log file: %v", err)
		}
		log.SetOutput(f)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	notifier := buildNotifier(cfg.Notify)
	s := store.New(db, cfg.Board.Categories, notifier)

	if cfg.Board.Seed {
		if err := seedBoard(s, cfg.Board); err != nil {
			log.Fatalf("seed board: %v", err)
		}
	}

	r, err := router.Setup(cfg, db, s, notifier)
	if err != nil {
		log.Fatalf("setup router: %v", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("fintrack board listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

// buildNotifier assembles the outbound sinks. With notifications off or
// nothing configured it returns an empty dispatcher, which drops events.
func buildNotifier(cfg config.NotifyConfig) notify.Notifier {
	var senders []notify.Sender
	if cfg.Enabled {
		if cfg.WebhookURL != "" {
			senders = append(senders, notify.NewWebhookSender(cfg.WebhookURL))
		}
		if cfg.SMTP.Host != "" {
			senders = append(senders, notify.NewEmailSender(
				cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.To))
		}
	}
	return notify.NewDispatcher(senders...)
}

// seedBoard inserts the starter rows on an empty board so a fresh
// in-memory instance is not blank.
func seedBoard(s *store.Store, board config.BoardConfig) error {
	existing, err := s.ListActive(store.Filter{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	cat := func(i int) string {
		if i < len(board.Categories) {
			return board.Categories[i]
		}
		return board.DefaultCategory
	}
	assignee := func(i int) string {
		if i < len(board.Team) {
			return board.Team[i]
		}
		return board.DefaultAssignee
	}

	now := time.Now()
	rows := []models.Task{
		{
			Title:    "Approve Wire Transfers",
			Category: cat(0),
			Assignee: assignee(0),
			Due:      time.Date(now.Year(), now.Month(), now.Day(), 11, 30, 0, 0, now.Location()),
			Urgent:   true,
		},
		{
			Title:    "Q2 Variance Analysis",
			Category: cat(1),
			Assignee: assignee(1),
			Due:      now.AddDate(0, 0, 5),
		},
		{
			Title:    "Server Infrastructure Upgrade",
			Category: cat(2),
			Assignee: assignee(2),
			Due:      now.AddDate(0, 0, 14),
			CostCent: 1500000,
		},
	}
	return s.BulkInsert(rows)
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
