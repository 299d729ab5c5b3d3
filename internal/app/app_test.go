package app

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ejaraat_backend/internal/config"
	"ejaraat_backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Server.Env = "development"
	cfg.Database.Driver = "sqlite"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = t.TempDir()
	cfg.Storage.BaseURL = "/api/v1/files"
	cfg.Broker.Type = "memory"
	cfg.Broker.BufferSize = 16
	cfg.Workers.StatusInterval = "0"

	a, err := NewWithDB(cfg, testutil.NewDB(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

type apiClient struct {
	t      *testing.T
	router http.Handler
	token  string
}

func (c *apiClient) do(req *http.Request) *httptest.ResponseRecorder {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

func (c *apiClient) json(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestApp_RequiresJWTSecret(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Driver = "sqlite"

	_, err := NewWithDB(cfg, testutil.NewDB(t))
	assert.Error(t, err)
}

func TestApp_HealthAndAuthGuard(t *testing.T) {
	a := newTestApp(t)
	client := &apiClient{t: t, router: a.Router()}

	w := client.json(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = client.json(http.MethodGet, "/api/v1/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = client.json(http.MethodGet, "/ws", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApp_RentalLifecycle(t *testing.T) {
	a := newTestApp(t)
	client := &apiClient{t: t, router: a.Router()}

	// регистрация
	w := client.json(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    "owner@example.com",
		"password": "password123",
		"name":     "Owner",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var authResp struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, w, &authResp)
	require.NotEmpty(t, authResp.AccessToken)
	client.token = authResp.AccessToken

	// невалидный объект ничего не сохраняет
	w = client.json(http.MethodPost, "/api/v1/properties", map[string]string{"country": "US"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_FAILED")

	// объект: валюта по стране
	w = client.json(http.MethodPost, "/api/v1/properties", map[string]string{
		"name":    "Nile View",
		"country": "US",
		"city":    "Khartoum",
		"address": "Street 1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var property struct {
		ID       string `json:"id"`
		Currency string `json:"currency"`
	}
	decode(t, w, &property)
	assert.Equal(t, "USD", property.Currency)

	// аренда с договором (multipart)
	today := time.Now().UTC()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range map[string]string{
		"tenant_name":  "john smith",
		"phone_number": "+249123456",
		"price":        "1200",
		"payment":      "30",
		"start_date":   today.Format("2006-01-02"),
		"end_date":     today.AddDate(1, 0, 0).Format("2006-01-02"),
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("contract", "lease.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("pdf-bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/properties/"+property.ID+"/rent", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = client.do(req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var rental struct {
		ID       string `json:"id"`
		Contract string `json:"contract"`
		Tenant   struct {
			Name string `json:"name"`
		} `json:"tenant"`
	}
	decode(t, w, &rental)
	assert.Equal(t, "John Smith", rental.Tenant.Name)
	require.True(t, strings.HasPrefix(rental.Contract, "contracts/"))

	// второй раз сдать нельзя
	w = client.json(http.MethodPost, "/api/v1/properties/"+property.ID+"/rent", map[string]any{
		"tenant_name": "x", "phone_number": "+1", "price": 1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// файл отдаётся владельцу
	w = client.json(http.MethodGet, "/api/v1/files/"+rental.Contract, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pdf-bytes", w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))

	// поиск без учёта регистра
	w = client.json(http.MethodGet, "/api/v1/properties/search?q=nile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = client.json(http.MethodGet, "/api/v1/properties/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// дашборд
	w = client.json(http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// оплата возвращает ближайшие платежи
	w = client.json(http.MethodPost, "/api/v1/rentals/"+rental.ID+"/paid", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "upcoming_payments")

	// выселение и история
	w = client.json(http.MethodPost, "/api/v1/rentals/"+rental.ID+"/vacate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = client.json(http.MethodGet, "/api/v1/properties/"+property.ID+"/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		History []map[string]any `json:"history"`
	}
	decode(t, w, &history)
	assert.Len(t, history.History, 1)

	w = client.json(http.MethodGet, "/api/v1/properties/"+property.ID+"/history/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotEmpty(t, w.Body.Bytes())

	// уведомления
	w = client.json(http.MethodPost, "/api/v1/notifications/clear", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No new notifications")
}

func TestApp_CurrencyUnavailableIs503(t *testing.T) {
	a := newTestApp(t)
	user := testutil.CreateUser(t, a.DB(), "owner@example.com")
	token, _, err := a.Services().Tokens.Generate(user.ID, user.Email)
	require.NoError(t, err)
	client := &apiClient{t: t, router: a.Router(), token: token}

	w := client.json(http.MethodGet, "/api/v1/currency/convert?from=USD&to=EGP&amount=100", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "EXTERNAL_SERVICE_ERROR")

	w = client.json(http.MethodGet, "/api/v1/currency/convert?from=USD&to=XXX&amount=100", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApp_OtherLandlordGets404(t *testing.T) {
	a := newTestApp(t)
	owner := testutil.CreateUser(t, a.DB(), "owner@example.com")
	stranger := testutil.CreateUser(t, a.DB(), "stranger@example.com")
	property := testutil.CreateProperty(t, a.DB(), owner.ID, "Flat", "SD")

	token, _, err := a.Services().Tokens.Generate(stranger.ID, stranger.Email)
	require.NoError(t, err)
	client := &apiClient{t: t, router: a.Router(), token: token}

	w := client.json(http.MethodGet, "/api/v1/properties/"+property.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = client.json(http.MethodDelete, "/api/v1/properties/"+property.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
