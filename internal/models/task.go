package models

import (
	"time"
)

type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

type TaskTag string

const (
	TagWork     TaskTag = "Work"
	TagPersonal TaskTag = "Personal"
	TagUrgent   TaskTag = "Urgent"
	TagShopping TaskTag = "Shopping"
)

// Tags lists every accepted tag in display order.
var Tags = []TaskTag{TagWork, TagPersonal, TagUrgent, TagShopping}

func (t TaskTag) Valid() bool {
	for _, tag := range Tags {
		if t == tag {
			return true
		}
	}
	return false
}

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Priority    TaskPriority `gorm:"type:varchar(10);not null" json:"priority"`
	DueDate     string       `gorm:"type:varchar(32);not null" json:"dueDate"`
	Tag         TaskTag      `gorm:"type:varchar(20);not null" json:"tag"`
	Completed   bool         `gorm:"not null;default:false" json:"completed"`
	UserID      uint64       `gorm:"not null;index" json:"userId"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
