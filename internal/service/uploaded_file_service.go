package service

import (
	"context"

	"chat-relay-be/internal/dto"
	"chat-relay-be/internal/entity"
	"chat-relay-be/internal/pkg/logger"
	"chat-relay-be/internal/pkg/serverutils"
	"chat-relay-be/internal/repository/contract"
	"chat-relay-be/internal/repository/specification"
)

// listColumns maps data-grid column indexes to sortable columns.
var listColumns = []string{"id", "filename", "path", "size", "authority", "category", "created_at", "updated_at"}

type IUploadedFileService interface {
	Create(ctx context.Context, req *dto.CreateUploadedFileRequest) (*dto.UploadedFileResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateUploadedFileRequest) (*dto.UploadedFileResponse, error)
	Delete(ctx context.Context, id uint) error
	GetById(ctx context.Context, id uint) (*dto.UploadedFileResponse, error)
	List(ctx context.Context, req *dto.UploadedFileListRequest) (*dto.UploadedFileListResponse, error)
}

type uploadedFileService struct {
	repo   contract.UploadedFileRepository
	logger logger.ILogger
}

func NewUploadedFileService(repo contract.UploadedFileRepository, log logger.ILogger) IUploadedFileService {
	return &uploadedFileService{repo: repo, logger: log}
}

func (s *uploadedFileService) Create(ctx context.Context, req *dto.CreateUploadedFileRequest) (*dto.UploadedFileResponse, error) {
	file := &entity.UploadedFile{
		Filename:  req.Filename,
		Path:      req.Path,
		Size:      req.Size,
		Authority: req.Authority,
		Category:  req.Category,
	}

	if err := s.repo.Create(ctx, file); err != nil {
		s.logger.Error("uploaded_file", "Failed to create file record", map[string]interface{}{
			"filename": req.Filename,
			"error":    err.Error(),
		})
		return nil, serverutils.NewInternalError("Failed to create file record", err.Error())
	}

	return toUploadedFileResponse(file), nil
}

func (s *uploadedFileService) Update(ctx context.Context, id uint, req *dto.UpdateUploadedFileRequest) (*dto.UploadedFileResponse, error) {
	file, err := s.repo.FindById(ctx, id)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load file record", err.Error())
	}
	if file == nil {
		return nil, serverutils.NewNotFoundError("File record not found")
	}

	if req.Filename != "" {
		file.Filename = req.Filename
	}
	if req.Path != "" {
		file.Path = req.Path
	}
	if req.Size != nil {
		file.Size = *req.Size
	}
	if req.Authority != "" {
		file.Authority = req.Authority
	}
	if req.Category != "" {
		file.Category = req.Category
	}

	if err := s.repo.Update(ctx, file); err != nil {
		return nil, serverutils.NewInternalError("Failed to update file record", err.Error())
	}

	return toUploadedFileResponse(file), nil
}

func (s *uploadedFileService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return serverutils.NewInternalError("Failed to delete file record", err.Error())
	}
	if !deleted {
		return serverutils.NewNotFoundError("File record not found")
	}
	return nil
}

func (s *uploadedFileService) GetById(ctx context.Context, id uint) (*dto.UploadedFileResponse, error) {
	file, err := s.repo.FindById(ctx, id)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load file record", err.Error())
	}
	if file == nil {
		return nil, serverutils.NewNotFoundError("File record not found")
	}
	return toUploadedFileResponse(file), nil
}

// List serves the data-grid protocol: total count, filtered count, then the
// requested page. Length -1 disables pagination.
func (s *uploadedFileService) List(ctx context.Context, req *dto.UploadedFileListRequest) (*dto.UploadedFileListResponse, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to count file records", err.Error())
	}

	filters := listFilters(req)

	filtered, err := s.repo.Count(ctx, filters...)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to count file records", err.Error())
	}

	specs := append([]specification.Specification{}, filters...)
	specs = append(specs, specification.OrderBy{
		Field: orderColumn(req.OrderColumn),
		Desc:  req.OrderDir == "desc",
	})
	if req.Length >= 0 {
		specs = append(specs, specification.Pagination{Limit: req.Length, Offset: req.Start})
	}

	files, err := s.repo.FindAll(ctx, specs...)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to list file records", err.Error())
	}

	data := make([]*dto.UploadedFileResponse, 0, len(files))
	for _, f := range files {
		data = append(data, toUploadedFileResponse(f))
	}

	return &dto.UploadedFileListResponse{
		Draw:            req.Draw,
		RecordsTotal:    total,
		RecordsFiltered: filtered,
		Data:            data,
	}, nil
}

func listFilters(req *dto.UploadedFileListRequest) []specification.Specification {
	var filters []specification.Specification
	if req.Authority != "" {
		filters = append(filters, specification.FieldEqualFold{Field: "authority", Value: req.Authority})
	}
	if req.Category != "" {
		filters = append(filters, specification.FieldEqualFold{Field: "category", Value: req.Category})
	}
	if req.Search != "" {
		filters = append(filters, specification.AnyFieldLike{
			Fields: []string{"filename", "path", "authority", "category"},
			Term:   req.Search,
		})
	}
	return filters
}

func orderColumn(idx int) string {
	if idx < 0 || idx >= len(listColumns) {
		return "id"
	}
	return listColumns[idx]
}

func toUploadedFileResponse(f *entity.UploadedFile) *dto.UploadedFileResponse {
	return &dto.UploadedFileResponse{
		Id:        f.Id,
		Filename:  f.Filename,
		Path:      f.Path,
		Size:      f.Size,
		Authority: f.Authority,
		Category:  f.Category,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}
