package models

import (
	"time"
)

type MaintenanceRecord struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	CarID       uint       `json:"carID" gorm:"not null;index"`
	OwnerID     uint       `json:"ownerID" gorm:"not null;index"`
	ServiceType string     `json:"serviceType" gorm:"size:64"` // oil_change, tires, inspection, repair
	Description string     `json:"description" gorm:"type:text"`
	Cost        float64    `json:"cost"`
	OdometerKM  int        `json:"odometerKM"`
	ServicedAt  time.Time  `json:"servicedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt" gorm:"index"`

	Car Car `json:"car" gorm:"foreignKey:CarID"`
}
