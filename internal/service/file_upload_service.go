package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"chat-relay-be/internal/constant"
	"chat-relay-be/internal/dto"
	"chat-relay-be/internal/entity"
	"chat-relay-be/internal/pkg/logger"
	"chat-relay-be/internal/pkg/serverutils"
	"chat-relay-be/internal/repository/contract"
	"chat-relay-be/pkg/events"
	"chat-relay-be/pkg/predict"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// allowedExtensions is the upload allow-list. Size is deliberately not
// capped.
var allowedExtensions = []string{"pdf", "doc", "docx", "csv", "xlsx", "xls", "json", "txt", "md", "zip"}

// UploadDispatcher is the outbound upload call, satisfied by
// *predict.UploadClient.
type UploadDispatcher interface {
	UploadFile(ctx context.Context, attachment *predict.Attachment, otoritas, category, tipeData string) *predict.Result
	TestConnection(ctx context.Context) *predict.Result
}

type IFileUploadService interface {
	Upload(ctx context.Context, req *dto.UploadRequest) (*dto.UploadResponse, error)
	GetUploadLimits() *dto.UploadLimitsResponse
	TestConnection(ctx context.Context) *dto.ConnectionStatusResponse
}

type fileUploadService struct {
	dispatcher UploadDispatcher
	repo       contract.UploadedFileRepository
	publisher  message.Publisher
	logger     logger.ILogger
}

func NewFileUploadService(
	dispatcher UploadDispatcher,
	repo contract.UploadedFileRepository,
	publisher message.Publisher,
	log logger.ILogger,
) IFileUploadService {
	return &fileUploadService{
		dispatcher: dispatcher,
		repo:       repo,
		publisher:  publisher,
		logger:     log,
	}
}

// Upload validates, forwards to the external API with retries, then records
// the file. A failed record write after a successful upload is still an
// overall success; the persistence error is surfaced in DatabaseError.
func (s *fileUploadService) Upload(ctx context.Context, req *dto.UploadRequest) (*dto.UploadResponse, error) {
	if errs := validateFile(req); len(errs) > 0 {
		return nil, serverutils.NewValidationError(errs...)
	}

	attachment := &predict.Attachment{
		FieldName: "prompt",
		Filename:  req.Filename,
		Content:   req.Content,
	}
	result := s.dispatcher.UploadFile(ctx, attachment, req.Otoritas, req.Category, req.TipeData)

	if !result.Success {
		return &dto.UploadResponse{
			Success: false,
			Message: "File upload failed",
			Error:   result.Err,
			Details: result.Raw,
		}, nil
	}

	s.publishFileUploaded(req)

	fileInfo := &dto.UploadedFileInfo{
		Filename:  req.Filename,
		Size:      req.Size,
		Authority: req.Otoritas,
		Category:  req.Category,
		TipeData:  req.TipeData,
	}

	record := &entity.UploadedFile{
		Filename:  req.Filename,
		Path:      constant.ExternalPathSentinel,
		Size:      req.Size,
		Authority: req.Otoritas,
		Category:  req.Category,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		// External upload already succeeded; it is the source of truth.
		s.logger.Error("upload", "External upload succeeded but record persistence failed", map[string]interface{}{
			"filename": req.Filename,
			"error":    err.Error(),
		})
		return &dto.UploadResponse{
			Success:       true,
			Message:       "File uploaded to external API but failed to save record",
			Data:          result.Data,
			FileInfo:      fileInfo,
			DatabaseError: err.Error(),
		}, nil
	}

	return &dto.UploadResponse{
		Success:  true,
		Message:  "File uploaded to external API successfully",
		Data:     result.Data,
		FileInfo: fileInfo,
	}, nil
}

func (s *fileUploadService) GetUploadLimits() *dto.UploadLimitsResponse {
	return &dto.UploadLimitsResponse{
		MaxSizeMB:         nil,
		AllowedExtensions: allowedExtensions,
	}
}

func (s *fileUploadService) TestConnection(ctx context.Context) *dto.ConnectionStatusResponse {
	result := s.dispatcher.TestConnection(ctx)

	if !result.Success {
		return &dto.ConnectionStatusResponse{
			Success: false,
			Message: "External API is not reachable",
			Error:   result.Err,
		}
	}

	return &dto.ConnectionStatusResponse{
		Success:    true,
		Message:    "External API is reachable",
		StatusCode: result.StatusCode,
	}
}

func (s *fileUploadService) publishFileUploaded(req *dto.UploadRequest) {
	if s.publisher == nil {
		return
	}

	payload, err := json.Marshal(events.FileUploaded{
		Filename:   req.Filename,
		Size:       req.Size,
		Authority:  req.Otoritas,
		Category:   req.Category,
		UploadedAt: time.Now().UTC(),
	})
	if err != nil {
		return
	}

	if err := s.publisher.Publish(events.TopicFileUploaded, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		s.logger.Warn("upload", "Failed to publish upload event", map[string]interface{}{
			"filename": req.Filename,
			"error":    err.Error(),
		})
	}
}

func validateFile(req *dto.UploadRequest) []string {
	var errs []string

	if req.Filename == "" || len(req.Content) == 0 {
		errs = append(errs, "File is not valid")
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(req.Filename)), ".")
	if !extensionAllowed(ext) {
		errs = append(errs, fmt.Sprintf("File type not allowed. Allowed types: %s", strings.Join(allowedExtensions, ", ")))
	}

	return errs
}

func extensionAllowed(ext string) bool {
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
