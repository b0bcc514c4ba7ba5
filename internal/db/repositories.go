package db

import "gorm.io/gorm"

type Repositories struct {
	Pickers *PickerSessionRepository
	Updates *RangeUpdateRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Pickers: NewPickerSessionRepository(database),
		Updates: NewRangeUpdateRepository(database),
	}
}
