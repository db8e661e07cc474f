package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"video-svc/pkg/errors/i18n"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStatusFor(t *testing.T) {
	cases := map[string]int{
		CodeNotFound:       http.StatusNotFound,
		CodeDataNotFound:   http.StatusNotFound,
		CodeAlreadyLiked:   http.StatusBadRequest,
		CodeNotLiked:       http.StatusBadRequest,
		CodeInvalidRequest: http.StatusBadRequest,
		CodeUnauthorized:   http.StatusUnauthorized,
		CodeInternal:       http.StatusInternalServerError,
		"whatever":         http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, StatusFor(code), code)
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := stderrors.Join(stderrors.New("context"), ErrNotLiked(nil))
	assert.Equal(t, CodeNotLiked, CodeOf(wrapped))
	assert.Equal(t, "", CodeOf(stderrors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
}

func TestHandleError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"coded", ErrAlreadyLiked(stderrors.New("dup")), http.StatusBadRequest, CodeAlreadyLiked},
		{"fiber 413", fiber.NewError(fiber.StatusRequestEntityTooLarge, "too big"), http.StatusRequestEntityTooLarge, CodeInvalidRequest},
		{"fiber 404", fiber.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"fiber 405", fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed, CodeInvalidRequest},
		{"fiber 503", fiber.ErrServiceUnavailable, http.StatusServiceUnavailable, CodeInternal},
		{"plain", stderrors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return HandleError(c, zap.NewNop(), tc.err)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.code, body["error"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func errorBody(t *testing.T, err error) map[string]string {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return HandleError(c, zap.NewNop(), err)
	})
	resp, testErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, testErr)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHandleErrorLocale(t *testing.T) {
	t.Cleanup(func() { _ = i18n.Load(i18n.DefaultLocale) })

	require.NoError(t, i18n.Load("tr"))
	body := errorBody(t, ErrAlreadyLiked(nil))
	assert.Equal(t, "Bu videoyu zaten beğendiniz, ikinci kez beğenemezsiniz.", body["message"])

	// locale'de karşılığı olmayan kod kendi mesajıyla döner
	body = errorBody(t, &VideoError{Code: "quota_exceeded", Message: "Kota aşıldı"})
	assert.Equal(t, "Kota aşıldı", body["message"])
}
