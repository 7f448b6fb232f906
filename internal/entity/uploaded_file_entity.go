package entity

import (
	"time"
)

type UploadedFile struct {
	Id        uint
	Filename  string
	Path      string
	Size      int64
	Authority string
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
