package services

import (
	"context"
	"errors"

	"ejaraat_backend/internal/currency"
	"ejaraat_backend/internal/logger"
	"ejaraat_backend/internal/models"
	"ejaraat_backend/internal/services/dto"
	"ejaraat_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
)

type CurrencyService interface {
	Convert(ctx context.Context, query *dto.ConvertQuery) (*currency.Conversion, error)
}

// RateProvider: источник курсов (currency.Client)
type RateProvider interface {
	Convert(ctx context.Context, from, to models.Currency, amount decimal.Decimal) (*currency.Conversion, error)
}

type CurrencyServiceImpl struct {
	rates RateProvider
}

func NewCurrencyService(rates RateProvider) CurrencyService {
	return &CurrencyServiceImpl{rates: rates}
}

func (s *CurrencyServiceImpl) Convert(ctx context.Context, query *dto.ConvertQuery) (*currency.Conversion, error) {
	amount, err := decimal.NewFromString(query.Amount)
	if err != nil || amount.IsNegative() {
		return nil, apperrors.ValidationError(map[string]string{"amount": "must be a non-negative number"})
	}

	conv, err := s.rates.Convert(ctx, models.Currency(query.From), models.Currency(query.To), amount)
	if err != nil {
		if errors.Is(err, currency.ErrUnsupportedCurrency) {
			return nil, apperrors.ValidationError(map[string]string{"currency": err.Error()})
		}
		logger.CtxWithError(ctx, "Currency conversion failed", err, "from", query.From, "to", query.To)
		return nil, apperrors.ErrExternalService(err, "currency", "Currency conversion is unavailable")
	}
	return conv, nil
}
