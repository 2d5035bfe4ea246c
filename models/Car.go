package models

import (
	"encoding/json"
	"time"
)

type Car struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	OwnerID      uint      `json:"ownerID" gorm:"not null;index"`
	Make         string    `json:"make" gorm:"size:64"`
	Model        string    `json:"model" gorm:"size:64"`
	Year         int       `json:"year"`
	LicensePlate string    `json:"licensePlate" gorm:"size:20;uniqueIndex"`
	Description  string    `json:"description" gorm:"type:text"`
	Transmission string    `json:"transmission" gorm:"size:20"` // manual, automatic
	FuelType     string    `json:"fuelType" gorm:"size:20"`     // petrol, diesel, hybrid, electric
	Seats        int       `json:"seats"`
	City         string    `json:"city" gorm:"size:64;index"`
	DailyRate    float64   `json:"dailyRate"`
	Currency     string    `json:"currency" gorm:"size:8;default:USD"`
	IsActive     *bool     `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Admin moderation
	IsFlagged  bool   `json:"isFlagged" gorm:"default:false;index"`
	FlagReason string `json:"flagReason" gorm:"type:text"`

	// Relationships
	Owner   *User      `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Images  []CarImage `json:"images" gorm:"foreignKey:CarID"`
	Rentals []Rental   `json:"rentals,omitempty" gorm:"foreignKey:CarID"`
}

// MarshalJSON trims the owner to avoid the Car -> Owner -> Cars cycle
func (c *Car) MarshalJSON() ([]byte, error) {
	type Alias Car
	aux := &struct {
		Owner *User `json:"owner,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(c),
	}

	if c.Owner != nil && c.Owner.ID > 0 {
		ownerCopy := *c.Owner
		ownerCopy.Cars = nil
		ownerCopy.Password = ""
		aux.Owner = &ownerCopy
	}

	return json.Marshal(aux)
}

type CarImage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CarID     uint      `json:"carID" gorm:"not null;index"`
	URL       string    `json:"url" gorm:"size:512;not null"`
	Position  int       `json:"position" gorm:"default:0"`
	IsPrimary bool      `json:"isPrimary" gorm:"default:false"`
	CreatedAt time.Time `json:"createdAt"`
}
