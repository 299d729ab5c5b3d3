package services

import (
	"context"
	"time"

	"ejaraat_backend/internal/payments"

	"gorm.io/gorm"
)

type ChangeKind string

const (
	ChangeProperty ChangeKind = "property"
	ChangeRental   ChangeKind = "rental"
)

type ChangeOp string

const (
	OpCreate ChangeOp = "create"
	OpUpdate ChangeOp = "update"
)

// Change описывает запись, уже сохранённую в БД.
// Old == nil для создания; New: *models.Property или *models.RentProperty.
type Change struct {
	Kind ChangeKind
	Op   ChangeOp
	Old  any
	New  any
}

// ChangeHook вызывается синхронно после успешного коммита изменения Property/Rental
type ChangeHook interface {
	AfterCommit(ctx context.Context, db *gorm.DB, change Change)
}

// ChangeHookFunc позволяет использовать функцию как ChangeHook
type ChangeHookFunc func(ctx context.Context, db *gorm.DB, change Change)

func (f ChangeHookFunc) AfterCommit(ctx context.Context, db *gorm.DB, change Change) {
	f(ctx, db, change)
}

type noopHook struct{}

func (noopHook) AfterCommit(context.Context, *gorm.DB, Change) {}

// Clock возвращает текущее время; в тестах подменяется
type Clock func() time.Time

func (c Clock) Today() time.Time {
	if c == nil {
		return payments.Day(time.Now())
	}
	return payments.Day(c())
}

func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}
