package models

import "time"

// RangeUpdate records one applied range emitted by a picker.
type RangeUpdate struct {
	ID         uint      `gorm:"primaryKey"`
	PickerID   string    `gorm:"not null;index"`
	RangeStart time.Time `gorm:"not null"`
	RangeEnd   time.Time `gorm:"not null"`
	CreatedAt  time.Time
}
