package models

import (
	"time"

	"gorm.io/gorm"
)

type Rental struct {
	gorm.Model
	CarID          uint      `json:"carID" gorm:"not null;index"`
	OwnerID        uint      `json:"ownerID" gorm:"not null;index"`
	RenterID       uint      `json:"renterID" gorm:"not null;index"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"` // exclusive: the car is free again on this day
	Status         string    `json:"status" gorm:"type:varchar(20);default:pending;index"` // pending, confirmed, active, completed, cancelled
	TotalAmount    float64   `json:"totalAmount"`
	Currency       string    `json:"currency" gorm:"size:8;default:USD"`
	PickupLocation string    `json:"pickupLocation" gorm:"size:255"`
	ReturnLocation string    `json:"returnLocation" gorm:"size:255"`
	Notes          string    `json:"notes" gorm:"type:text"`
	IsRead         bool      `json:"isRead" gorm:"default:false"`

	// Relationships
	Car    *Car  `json:"car,omitempty" gorm:"foreignKey:CarID"`
	Owner  *User `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Renter *User `json:"renter,omitempty" gorm:"foreignKey:RenterID"`
}

// RentalLiveStatuses are the statuses that block a car's calendar.
var RentalLiveStatuses = []string{"pending", "confirmed", "active"}
