package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/miarma/api/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createMod struct {
	Name     string `json:"name" validate:"required,max=10"`
	Filename string `json:"filename" validate:"required"`
	Size     int64  `json:"size" validate:"min=1"`
}

func (r *createMod) Validate() error { return Validate.Struct(r) }

type renamePlot struct {
	Plot int `json:"plot"`
}

func (r *renamePlot) Validate() error {
	if r.Plot%2 == 0 {
		return CustomValidationErrors{{Field: "plot", Message: "must be odd"}}
	}
	return nil
}

func bind(t *testing.T, body string, payload Validatable) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return BindAndValidate(e.NewContext(req, httptest.NewRecorder()), payload)
}

func TestBindAndValidate(t *testing.T) {
	var ok createMod
	require.NoError(t, bind(t, `{"name":"jei","filename":"jei.jar","size":10}`, &ok))
	assert.Equal(t, "jei.jar", ok.Filename)

	err := bind(t, `{"name":"much too long","size":0}`, &createMod{})
	var he *errs.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Status)

	fields := map[string]string{}
	for _, fe := range he.Errors {
		fields[fe.Field] = fe.Error
	}
	assert.Equal(t, "must not exceed 10 characters", fields["name"])
	assert.Equal(t, "is required", fields["filename"])
	assert.Equal(t, "must be at least 1", fields["size"])
}

func TestBindAndValidate_Custom(t *testing.T) {
	err := bind(t, `{"plot":4}`, &renamePlot{})
	var he *errs.HTTPError
	require.ErrorAs(t, err, &he)
	require.Len(t, he.Errors, 1)
	assert.Equal(t, "must be odd", he.Errors[0].Error)
}

func TestBindAndValidate_MalformedBody(t *testing.T) {
	err := bind(t, `{"name":`, &createMod{})
	var he *errs.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Empty(t, he.Errors)
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("3f2504e0-4f89-11d3-9a0c-0305e82c3301"))
	assert.False(t, IsValidUUID("not-a-uuid"))
}
