package contract

import (
	"context"

	"chat-relay-be/internal/entity"
	"chat-relay-be/internal/repository/specification"
)

type UploadedFileRepository interface {
	Create(ctx context.Context, file *entity.UploadedFile) error
	Update(ctx context.Context, file *entity.UploadedFile) error
	Delete(ctx context.Context, id uint) (bool, error)
	FindById(ctx context.Context, id uint) (*entity.UploadedFile, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UploadedFile, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
