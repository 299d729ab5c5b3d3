package currency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"ejaraat_backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRateServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/test-key/pair/USD/EGP":
			_, _ = w.Write([]byte(`{"result":"success","base_code":"USD","target_code":"EGP","conversion_rate":48.25}`))
		default:
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"result":"error","error-type":"invalid-key"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Convert(t *testing.T) {
	var calls int32
	srv := newRateServer(t, &calls)
	c := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key", Timeout: time.Second}, nil)

	conv, err := c.Convert(context.Background(), models.CurrencyUSD, models.CurrencyEGP, decimal.NewFromInt(100))
	require.NoError(t, err)

	assert.True(t, conv.Rate.Equal(decimal.RequireFromString("48.25")))
	assert.Equal(t, "4825", conv.Result.String())
}

func TestClient_SameCurrencySkipsAPI(t *testing.T) {
	var calls int32
	srv := newRateServer(t, &calls)
	c := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"}, nil)

	rate, err := c.Rate(context.Background(), models.CurrencyUSD, models.CurrencyUSD)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestClient_APIErrorIsUnavailable(t *testing.T) {
	var calls int32
	srv := newRateServer(t, &calls)
	c := NewClient(Config{BaseURL: srv.URL, APIKey: "wrong"}, nil)

	_, err := c.Rate(context.Background(), models.CurrencyUSD, models.CurrencyEUR)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_MissingKeyIsUnavailable(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"}, nil)

	_, err := c.Rate(context.Background(), models.CurrencyUSD, models.CurrencyEUR)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_UnsupportedCurrency(t *testing.T) {
	c := NewClient(Config{APIKey: "k"}, nil)

	_, err := c.Rate(context.Background(), "GBP", models.CurrencyUSD)
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
}

func TestClient_RedisCache(t *testing.T) {
	var calls int32
	srv := newRateServer(t, &calls)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key", CacheTTL: time.Minute}, NewRedisCache(rdb))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rate, err := c.Rate(ctx, models.CurrencyUSD, models.CurrencyEGP)
		require.NoError(t, err)
		assert.True(t, rate.Equal(decimal.RequireFromString("48.25")))
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.True(t, mr.Exists("currency:rate:USD:EGP"))

	mr.FastForward(2 * time.Minute)
	_, err := c.Rate(ctx, models.CurrencyUSD, models.CurrencyEGP)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
