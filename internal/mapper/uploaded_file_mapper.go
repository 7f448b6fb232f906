package mapper

import (
	"chat-relay-be/internal/entity"
	"chat-relay-be/internal/model"
)

type UploadedFileMapper struct{}

func NewUploadedFileMapper() *UploadedFileMapper {
	return &UploadedFileMapper{}
}

func (m *UploadedFileMapper) ToEntity(f *model.UploadedFile) *entity.UploadedFile {
	if f == nil {
		return nil
	}

	return &entity.UploadedFile{
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

func (m *UploadedFileMapper) ToModel(f *entity.UploadedFile) *model.UploadedFile {
	if f == nil {
		return nil
	}

	return &model.UploadedFile{
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

func (m *UploadedFileMapper) ToEntities(files []*model.UploadedFile) []*entity.UploadedFile {
	entities := make([]*entity.UploadedFile, len(files))
	for i, f := range files {
		entities[i] = m.ToEntity(f)
	}
	return entities
}
