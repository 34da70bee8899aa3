package models

import "time"

// ArchivedTask is the immutable snapshot taken when a task is completed.
// TaskID keeps the identity the record carried while it was active; the
// unique index guarantees a record can only be archived once.
type ArchivedTask struct {
	ID         uint      `gorm:"primaryKey"`
	TaskID     uint      `gorm:"uniqueIndex;not null"`
	Title      string    `gorm:"size:255;not null"`
	Category   string    `gorm:"size:64;index;not null"`
	Assignee   string    `gorm:"size:64"`
	Due        time.Time
	CostCent   int64     `gorm:"not null;default:0"`
	Notes      string    `gorm:"size:255"`
	Urgent     bool
	Status     bool      `gorm:"not null;default:true"` // always true once archived
	ArchivedAt time.Time `gorm:"index;not null"`
	CreatedAt  time.Time
}
