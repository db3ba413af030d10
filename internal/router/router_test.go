package router

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/miarma/api/internal/config"
	"github.com/miarma/api/internal/database"
	"github.com/miarma/api/internal/filter"
	"github.com/miarma/api/internal/handler"
	"github.com/miarma/api/internal/query"
	"github.com/miarma/api/internal/repository"
	"github.com/miarma/api/internal/server"
	"github.com/miarma/api/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "miarma.db") +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)

	m := database.NewManager(database.NewSQLPool(db), query.SQLite, nil, database.Options{})
	t.Cleanup(func() { _ = m.Close() })
	require.NoError(t, database.MigrateSQLite(context.Background(), m))

	logger := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{
			Primary:  config.Primary{Env: "test"},
			Server:   config.ServerConfig{CORSAllowedOrigins: []string{"*"}},
			Database: config.DatabaseConfig{Driver: "sqlite"},
		},
		Logger: &logger,
		DB:     m,
	}

	repos, err := repository.NewRepositories(m, filter.Options{DefaultLimit: 10, MaxLimit: 20})
	require.NoError(t, err)
	return NewRouter(s, handler.NewHandlers(s, service.NewServices(s, repos)))
}

func do(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[V any](t *testing.T, rec *httptest.ResponseRecorder) V {
	t.Helper()
	var v V
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Errors  []struct {
		Field string `json:"field"`
		Error string `json:"error"`
	} `json:"errors"`
}

func TestStatus(t *testing.T) {
	e := newTestRouter(t)

	rec := do(t, e, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "healthy", body["status"])
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"].(map[string]any)["status"])
}

func TestRequestIDIsEchoed(t *testing.T) {
	e := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestModsLifecycle(t *testing.T) {
	e := newTestRouter(t)

	for _, name := range []string{"worldedit", "journeymap", "create"} {
		rec := do(t, e, http.MethodPost, "/api/v1/mods",
			`{"name":"`+name+`","filename":"`+name+`.jar","size":1024,"status":1}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := do(t, e, http.MethodGet, "/api/v1/mods?_sort=name&_order=asc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	mods := decode[[]map[string]any](t, rec)
	require.Len(t, mods, 3)
	assert.Equal(t, "create", mods[0]["name"])
	assert.Equal(t, "worldedit", mods[2]["name"])

	rec = do(t, e, http.MethodGet, "/api/v1/mods?name[eq]=journeymap", "")
	require.Equal(t, http.StatusOK, rec.Code)
	mods = decode[[]map[string]any](t, rec)
	require.Len(t, mods, 1)
	id := int64(mods[0]["mod_id"].(float64))

	rec = do(t, e, http.MethodPut, "/api/v1/mods/"+itoa(id),
		`{"name":"journeymap","filename":"journeymap-5.jar","size":2048,"status":0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "journeymap-5.jar", decode[map[string]any](t, rec)["filename"])

	rec = do(t, e, http.MethodDelete, "/api/v1/mods/"+itoa(id), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/mods/"+itoa(id), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListErrors(t *testing.T) {
	e := newTestRouter(t)

	tests := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{"unknown column", "/api/v1/mods?foo=bar", http.StatusBadRequest, "INVALID_FILTER"},
		{"bad operator", "/api/v1/mods?size[like]=1", http.StatusBadRequest, "INVALID_FILTER"},
		{"limit over max", "/api/v1/members?_limit=21", http.StatusBadRequest, "INVALID_FILTER"},
		{"unknown route", "/api/v1/nope", http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, e, http.MethodGet, tt.target, "")
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decode[apiError](t, rec).Code)
		})
	}
}

func TestValidationErrors(t *testing.T) {
	e := newTestRouter(t)

	rec := do(t, e, http.MethodPost, "/api/v1/mods", `{"filename":"x.jar"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[apiError](t, rec)
	require.NotEmpty(t, body.Errors)
	assert.Equal(t, "name", body.Errors[0].Field)

	rec = do(t, e, http.MethodGet, "/api/v1/mods/0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/movies/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/v1/mods", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMovieDetail(t *testing.T) {
	e := newTestRouter(t)

	rec := do(t, e, http.MethodPost, "/api/v1/movies", `{"title":"Solaris"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[map[string]any](t, rec)["movie_id"].(string)

	rec = do(t, e, http.MethodGet, "/api/v1/movies/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	detail := decode[map[string]any](t, rec)
	assert.Equal(t, "Solaris", detail["title"])
	assert.Equal(t, float64(0), detail["average"])
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
