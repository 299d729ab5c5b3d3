package services

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"

	"ejaraat_backend/internal/repositories"
	"ejaraat_backend/internal/storage"
	"ejaraat_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// StoredFile: открытый файл из storage
type StoredFile struct {
	Name        string
	ContentType string
	Content     io.ReadCloser
}

type FileService interface {
	// Open отдаёт файл только его владельцу; чужие и несуществующие: 404
	Open(ctx context.Context, db *gorm.DB, userID, filePath string) (*StoredFile, error)
}

type FileServiceImpl struct {
	fileRepo repositories.FileRepository
	storage  storage.Storage
}

func NewFileService(fileRepo repositories.FileRepository, storage storage.Storage) FileService {
	return &FileServiceImpl{fileRepo: fileRepo, storage: storage}
}

func (s *FileServiceImpl) Open(ctx context.Context, db *gorm.DB, userID, filePath string) (*StoredFile, error) {
	owned, err := s.fileRepo.IsOwnedBy(db, userID, filePath)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if !owned {
		return nil, apperrors.ErrFileNotFound(nil)
	}

	reader, err := s.storage.Get(ctx, filePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.ErrFileNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	contentType := mime.TypeByExtension(path.Ext(filePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &StoredFile{Name: path.Base(filePath), ContentType: contentType, Content: reader}, nil
}
