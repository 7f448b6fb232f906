package dto

import (
	"time"
)

type CreateUploadedFileRequest struct {
	Filename  string `json:"filename" validate:"required,max=255"`
	Path      string `json:"path" validate:"required,max=500"`
	Size      int64  `json:"size" validate:"min=0"`
	Authority string `json:"authority" validate:"required,max=100"`
	Category  string `json:"category" validate:"required,max=100"`
}

type UpdateUploadedFileRequest struct {
	Filename  string `json:"filename,omitempty" validate:"omitempty,max=255"`
	Path      string `json:"path,omitempty" validate:"omitempty,max=500"`
	Size      *int64 `json:"size,omitempty" validate:"omitempty,min=0"`
	Authority string `json:"authority,omitempty" validate:"omitempty,max=100"`
	Category  string `json:"category,omitempty" validate:"omitempty,max=100"`
}

type UploadedFileResponse struct {
	Id        uint      `json:"id"`
	Filename  string    `json:"filename"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	Authority string    `json:"authority"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UploadedFileListRequest mirrors the server-side table protocol the
// frontend data grid speaks.
type UploadedFileListRequest struct {
	Draw        int
	Start       int
	Length      int
	OrderColumn int
	OrderDir    string
	Search      string
	Authority   string
	Category    string
}

type UploadedFileListResponse struct {
	Draw            int                     `json:"draw"`
	RecordsTotal    int64                   `json:"recordsTotal"`
	RecordsFiltered int64                   `json:"recordsFiltered"`
	Data            []*UploadedFileResponse `json:"data"`
}
