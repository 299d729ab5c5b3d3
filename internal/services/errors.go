package services

import (
	"errors"

	"ejaraat_backend/internal/repositories"
	"ejaraat_backend/pkg/apperrors"
)

// repoError переводит ошибки репозиториев в AppError
func repoError(err error) error {
	var appErr *apperrors.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, repositories.ErrPropertyNotFound):
		return apperrors.ErrPropertyNotFound(err)
	case errors.Is(err, repositories.ErrRentalNotFound):
		return apperrors.ErrRentalNotFound(err)
	case errors.Is(err, repositories.ErrPropertyAlreadyRented):
		return apperrors.ErrPropertyAlreadyRented()
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrNotFound("user", "User not found", err)
	default:
		return apperrors.DatabaseError(err)
	}
}
