package models

import (
	"time"
)

type Reminder struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	UserID    uint       `json:"userID" gorm:"not null;index"`
	CarID     *uint      `json:"carID" gorm:"index"` // optional: insurance/inspection reminders are car-bound
	Title     string     `json:"title" gorm:"size:120;not null"`
	Notes     string     `json:"notes" gorm:"type:text"`
	DueAt     time.Time  `json:"dueAt" gorm:"index"`
	IsDone    bool       `json:"isDone" gorm:"default:false"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt" gorm:"index"`
}
