// Package currency конвертирует суммы через exchangerate-api.
package currency

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ejaraat_backend/internal/logger"
	"ejaraat_backend/internal/models"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// ErrUnavailable: внешний API не ответил или вернул ошибку
var ErrUnavailable = errors.New("currency service unavailable")

var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Config клиента
type Config struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// pairResponse: ответ GET /{key}/pair/{from}/{to}
type pairResponse struct {
	Result         string          `json:"result"`
	ErrorType      string          `json:"error-type"`
	BaseCode       string          `json:"base_code"`
	TargetCode     string          `json:"target_code"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
}

// Conversion: результат пересчёта
type Conversion struct {
	From   models.Currency `json:"from"`
	To     models.Currency `json:"to"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
	Result decimal.Decimal `json:"result"`
}

// Client ходит в API курсов; курсы кешируются, если задан cache
type Client struct {
	http     *resty.Client
	apiKey   string
	cache    RateCache
	cacheTTL time.Duration
}

func NewClient(cfg Config, cache RateCache) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200*time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		SetHeader("Accept", "application/json")

	return &Client{
		http:     httpClient,
		apiKey:   cfg.APIKey,
		cache:    cache,
		cacheTTL: cfg.CacheTTL,
	}
}

// Rate возвращает курс from -> to
func (c *Client) Rate(ctx context.Context, from, to models.Currency) (decimal.Decimal, error) {
	if !from.IsValid() || !to.IsValid() {
		return decimal.Zero, fmt.Errorf("%w: %s/%s", ErrUnsupportedCurrency, from, to)
	}
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	key := cacheKey(from, to)
	if c.cache != nil && c.cacheTTL > 0 {
		if rate, ok, err := c.cache.Get(ctx, key); err != nil {
			logger.CtxWarn(ctx, "Currency cache read failed", "key", key, "error", err)
		} else if ok {
			return rate, nil
		}
	}

	if c.apiKey == "" {
		return decimal.Zero, fmt.Errorf("%w: api key is not configured", ErrUnavailable)
	}

	var body pairResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"key":  c.apiKey,
			"from": string(from),
			"to":   string(to),
		}).
		SetResult(&body).
		SetError(&body).
		Get("/{key}/pair/{from}/{to}")
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() || body.Result != "success" {
		return decimal.Zero, fmt.Errorf("%w: status %d, %s", ErrUnavailable, resp.StatusCode(), body.ErrorType)
	}
	if !body.ConversionRate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: invalid rate %s", ErrUnavailable, body.ConversionRate)
	}

	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.Set(ctx, key, body.ConversionRate, c.cacheTTL); err != nil {
			logger.CtxWarn(ctx, "Currency cache write failed", "key", key, "error", err)
		}
	}
	return body.ConversionRate, nil
}

// Convert пересчитывает amount, результат округляется до 2 знаков
func (c *Client) Convert(ctx context.Context, from, to models.Currency, amount decimal.Decimal) (*Conversion, error) {
	rate, err := c.Rate(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &Conversion{
		From:   from,
		To:     to,
		Rate:   rate,
		Amount: amount,
		Result: amount.Mul(rate).Round(2),
	}, nil
}

func cacheKey(from, to models.Currency) string {
	return "currency:rate:" + string(from) + ":" + string(to)
}
