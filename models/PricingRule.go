package models

import (
	"time"
)

type CarPricingRule struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	CarID      uint       `json:"carID" gorm:"not null;index"`
	Name       string     `json:"name" gorm:"size:100"`
	RuleType   string     `json:"ruleType" gorm:"size:32"` // weekend, long_term, season
	Multiplier float64    `json:"multiplier" gorm:"default:1"`
	MinDays    int        `json:"minDays" gorm:"default:0"`
	StartsOn   *time.Time `json:"startsOn"` // season rules only
	EndsOn     *time.Time `json:"endsOn"`
	IsActive   bool       `json:"isActive" gorm:"default:true;index"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`

	Car Car `json:"car" gorm:"foreignKey:CarID"`
}
