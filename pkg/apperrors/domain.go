package apperrors

import (
	"net/http"
)

// ErrNotFound - "не найдено" (404) для ресурса домена.
// Чужие объекты тоже отдаются как 404, чтобы не раскрывать их существование.
func ErrNotFound(domain, message string, err error) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrInvalidOperation - операция невозможна в текущем состоянии (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrExternalService - внешний сервис недоступен (503)
func ErrExternalService(err error, domain, message string) *AppError {
	return Wrap(err, CodeExternalServiceError, domain, message, http.StatusServiceUnavailable)
}

// --- Auth ---

func ErrEmailAlreadyExists() *AppError {
	return New(CodeAlreadyExists, "auth", "User with this email already exists", http.StatusConflict)
}

func ErrInvalidCredentials() *AppError {
	return New(CodeInvalidCredentials, "auth", "Invalid email or password", http.StatusUnauthorized)
}

func ErrInvalidToken(err error) *AppError {
	return Wrap(err, CodeInvalidToken, "auth", "Invalid or expired token", http.StatusUnauthorized)
}

// --- Properties & Rentals ---

func ErrPropertyNotFound(err error) *AppError {
	return ErrNotFound("property", "Property not found", err)
}

func ErrRentalNotFound(err error) *AppError {
	return ErrNotFound("rental", "Rental not found", err)
}

func ErrPropertyAlreadyRented() *AppError {
	return New(CodeConflict, "property", "Property is already rented", http.StatusConflict)
}

func ErrFileNotFound(err error) *AppError {
	return ErrNotFound("files", "File not found", err)
}
