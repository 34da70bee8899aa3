package models

import "time"

// Task 表示看板上一条待办/预算行
// 金额用分存储，避免浮点误差，比如 $12.34 = 1234 分
type Task struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"size:255;not null"`
	Category  string    `gorm:"size:64;index;not null"` // one of the configured departments
	Assignee  string    `gorm:"size:64;index"`
	Due       time.Time `gorm:"index"`
	CostCent  int64     `gorm:"not null;default:0"` // cost in cents, 0 for pure tasks
	Notes     string    `gorm:"size:255"`
	Urgent    bool      `gorm:"not null;default:false"`
	Status    bool      `gorm:"not null;default:false"` // false = pending; completion archives the row
	CreatedAt time.Time
	UpdatedAt time.Time
}
