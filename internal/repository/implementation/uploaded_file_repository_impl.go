package implementation

import (
	"context"
	"errors"

	"chat-relay-be/internal/entity"
	"chat-relay-be/internal/mapper"
	"chat-relay-be/internal/model"
	"chat-relay-be/internal/repository/contract"
	"chat-relay-be/internal/repository/specification"

	"gorm.io/gorm"
)

type UploadedFileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UploadedFileMapper
}

func NewUploadedFileRepository(db *gorm.DB) contract.UploadedFileRepository {
	return &UploadedFileRepositoryImpl{
		db:     db,
		mapper: mapper.NewUploadedFileMapper(),
	}
}

func (r *UploadedFileRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UploadedFileRepositoryImpl) Create(ctx context.Context, file *entity.UploadedFile) error {
	m := r.mapper.ToModel(file)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*file = *r.mapper.ToEntity(m)
	return nil
}

func (r *UploadedFileRepositoryImpl) Update(ctx context.Context, file *entity.UploadedFile) error {
	m := r.mapper.ToModel(file)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*file = *r.mapper.ToEntity(m)
	return nil
}

func (r *UploadedFileRepositoryImpl) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.UploadedFile{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *UploadedFileRepositoryImpl) FindById(ctx context.Context, id uint) (*entity.UploadedFile, error) {
	var m model.UploadedFile
	err := r.db.WithContext(ctx).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UploadedFileRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UploadedFile, error) {
	var models []*model.UploadedFile
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *UploadedFileRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.UploadedFile{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
