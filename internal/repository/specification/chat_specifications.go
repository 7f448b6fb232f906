package specification

import (
	"gorm.io/gorm"
)

type ByUserId struct {
	UserId string
}

func (s ByUserId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserId)
}
