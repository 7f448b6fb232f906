package model

import (
	"time"
)

type UploadedFile struct {
	Id        uint   `gorm:"primaryKey;autoIncrement"`
	Filename  string `gorm:"type:varchar(255);not null"`
	Path      string `gorm:"type:varchar(500);not null"`
	Size      int64  `gorm:"not null"`
	Authority string `gorm:"type:varchar(100);not null"`
	Category  string `gorm:"type:varchar(100);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UploadedFile) TableName() string {
	return "uploaded_files"
}
