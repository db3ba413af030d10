package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/miarma/api/internal/config"
	"github.com/miarma/api/internal/database"
	"github.com/miarma/api/internal/errs"
	"github.com/miarma/api/internal/filter"
	"github.com/miarma/api/internal/server"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(rateLimit float64) *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Server: config.ServerConfig{
				CORSAllowedOrigins: []string{"*"},
				RateLimit:          rateLimit,
			},
		},
		Logger: &logger,
	}
}

func TestGlobalErrorHandler(t *testing.T) {
	global := NewGlobalMiddlewares(newTestServer(0))

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			name:   "http error passes through",
			err:    errs.NewNotFoundError("nope", true, nil),
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
		{
			name:   "echo route not found",
			err:    echo.ErrNotFound,
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
		{
			name:   "echo method not allowed",
			err:    echo.ErrMethodNotAllowed,
			status: http.StatusMethodNotAllowed,
			code:   "METHOD_NOT_ALLOWED",
		},
		{
			name:   "invalid filter",
			err:    fmt.Errorf("listing: %w", &filter.InvalidFilterError{Key: "foo", Reason: "unknown column"}),
			status: http.StatusBadRequest,
			code:   "INVALID_FILTER",
		},
		{
			name:   "pool exhausted",
			err:    &database.PoolTimeoutError{Timeout: time.Second},
			status: http.StatusServiceUnavailable,
			code:   "SERVICE_UNAVAILABLE",
		},
		{
			name:   "unknown error is hidden",
			err:    errors.New("dial tcp: connection refused"),
			status: http.StatusInternalServerError,
			code:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			global.GlobalErrorHandler(tt.err, c)

			require.Equal(t, tt.status, rec.Code)
			var body errs.HTTPError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, tt.status, resolve(tt.err).Status)
			assert.NotContains(t, body.Message, "connection refused")
		})
	}
}

func TestRequestIDAndContextLogger(t *testing.T) {
	s := newTestServer(0)
	e := echo.New()

	var seen string
	var ctxLogger *zerolog.Logger
	h := RequestID()(NewContextEnhancer(s).EnhanceContext()(func(c echo.Context) error {
		seen = GetRequestID(c)
		ctxLogger = LoggerFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	assert.NotNil(t, ctxLogger)
	assert.NotNil(t, LoggerFromContext(context.Background()))
}

func TestRateLimit(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(newTestServer(1)).GlobalErrorHandler
	e.Use(NewRateLimitMiddleware(newTestServer(1)).Limit())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	codes := map[int]int{}
	for range 5 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes[rec.Code]++
	}

	assert.Equal(t, 2, codes[http.StatusOK])
	assert.Equal(t, 3, codes[http.StatusTooManyRequests])
}

func TestRateLimitDisabled(t *testing.T) {
	e := echo.New()
	e.Use(NewRateLimitMiddleware(newTestServer(0)).Limit())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for range 20 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}
