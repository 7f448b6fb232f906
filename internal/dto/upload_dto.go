package dto

type UploadRequest struct {
	Filename string `validate:"required,max=255"`
	Size     int64
	Content  []byte
	Otoritas string `validate:"required,max=100"`
	Category string `validate:"required,max=100"`
	TipeData string `validate:"omitempty,max=100"`
}

type UploadedFileInfo struct {
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
	Authority string `json:"authority"`
	Category  string `json:"category"`
	TipeData  string `json:"tipe_data,omitempty"`
}

// UploadResponse keeps the original partial-failure contract: when the
// external upload succeeded but the local record could not be written,
// Success stays true and DatabaseError carries the persistence failure.
type UploadResponse struct {
	Success       bool              `json:"success"`
	Message       string            `json:"message"`
	Data          interface{}       `json:"data,omitempty"`
	FileInfo      *UploadedFileInfo `json:"file_info,omitempty"`
	DatabaseError string            `json:"database_error,omitempty"`
	Error         string            `json:"error,omitempty"`
	Details       string            `json:"details,omitempty"`
}

type UploadLimitsResponse struct {
	// MaxSizeMB is nil because upload size is not capped.
	MaxSizeMB         *int     `json:"max_size_mb"`
	AllowedExtensions []string `json:"allowed_extensions"`
}
