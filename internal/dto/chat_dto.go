package dto

import (
	"time"
)

type ChatRequest struct {
	Prompt   string `json:"prompt" validate:"required,max=5000"`
	Otoritas string `json:"otoritas" validate:"required,max=100"`
	Kategori string `json:"kategori" validate:"required,max=100"`
}

type ChatResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Response  string      `json:"response,omitempty"`
	RawData   interface{} `json:"raw_data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Details   string      `json:"details,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type ConnectionStatusResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}

type ServiceStatusResponse struct {
	Success   bool              `json:"success"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Endpoints map[string]string `json:"endpoints"`
}
