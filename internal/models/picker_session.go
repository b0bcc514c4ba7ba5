package models

import "time"

type PickerSession struct {
	ID          string    `gorm:"primaryKey"`
	RangeStart  time.Time `gorm:"not null"`
	RangeEnd    time.Time `gorm:"not null"`
	PickingEnd  bool      `gorm:"not null;default:false"`
	CenterYear  int       `gorm:"not null"`
	CenterMonth int       `gorm:"not null"`
	StartTime   string    `gorm:"not null;default:12:00:00"`
	EndTime     string    `gorm:"not null;default:12:00:00"`
	Visible     bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
