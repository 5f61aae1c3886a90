package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"project-tracker/internal/dto"
	"project-tracker/internal/handler"
	"project-tracker/internal/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockHealthCache
type MockHealthCache struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockHealthCache) Delete(ctx context.Context, key string) error { return nil }
func (m *MockHealthCache) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return nil, nil
}
func (m *MockHealthCache) HSet(ctx context.Context, key string, field string, value string) error {
	return nil
}
func (m *MockHealthCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return nil
}
func (m *MockHealthCache) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	panic("MockHealthCache.PingFunc not implemented")
}

func newHealthApp(t *testing.T, cache *MockHealthCache, dbDown bool) *fiber.App {
	t.Helper()
	mockDB, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	if dbDown {
		dbMock.ExpectPing().WillReturnError(errors.New("connection refused"))
	} else {
		dbMock.ExpectPing()
	}

	db := sqlx.NewDb(mockDB, "sqlmock")
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/api/health", handler.NewHealthHandler(db, cache).Check)
	return app
}

func decodeHealth(t *testing.T, body io.Reader) dto.HealthResponse {
	t.Helper()
	var resp dto.HealthResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestHealthHandler_AllUp(t *testing.T) {
	cache := &MockHealthCache{PingFunc: func(ctx context.Context) error { return nil }}
	app := newHealthApp(t, cache, false)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	health := decodeHealth(t, resp.Body)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "ok", health.Components["database"])
	assert.Equal(t, "ok", health.Components["cache"])
}

func TestHealthHandler_CacheDown(t *testing.T) {
	cache := &MockHealthCache{PingFunc: func(ctx context.Context) error { return errors.New("redis gone") }}
	app := newHealthApp(t, cache, false)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	health := decodeHealth(t, resp.Body)
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "ok", health.Components["database"])
	assert.Equal(t, "unreachable", health.Components["cache"])
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	cache := &MockHealthCache{PingFunc: func(ctx context.Context) error { return nil }}
	app := newHealthApp(t, cache, true)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	health := decodeHealth(t, resp.Body)
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "unreachable", health.Components["database"])
}
