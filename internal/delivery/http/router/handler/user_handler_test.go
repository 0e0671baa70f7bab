package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"userhub/internal/delivery/http/middleware"
	domainerrors "userhub/internal/domain/errors"
	mockUC "userhub/internal/mocks/usecase"
	"userhub/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newTestServer wires a minimal echo instance with the real error handler so
// the handler tests cover the full status-code mapping.
func newTestServer(t *testing.T) (*echo.Echo, *mockUC.MockUserUsecase) {
	uc := mockUC.NewMockUserUsecase(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := echo.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError

	h := NewUserHandler(uc, logger)
	e.GET("/", HealthCheck)
	e.GET("/health", HealthCheck)
	e.POST("/users/", h.Create)
	e.GET("/users/:id", h.Get)
	e.PUT("/users/:id", h.Update)
	e.DELETE("/users/:id", h.Delete)

	return e, uc
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	return envelope
}

func TestUserHandler_Create_Returns201(t *testing.T) {
	e, uc := newTestServer(t)

	uc.EXPECT().
		Create(mock.Anything, &usecase.CreateUserInput{Name: "Ana", Email: "ana@x.com", Password: "secret1"}).
		Return(&usecase.UserOutput{ID: "3f1b", Name: "Ana", Email: "ana@x.com"}, nil)

	rec := doJSON(e, http.MethodPost, "/users/", `{"name":"Ana","email":"ana@x.com","password":"secret1"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	envelope := decodeEnvelope(t, rec)
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ana", data["name"])
	assert.Equal(t, "ana@x.com", data["email"])

	// The password and its digest never appear in any response.
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "digest")
}

func TestUserHandler_Create_DuplicateEmailMapsTo400(t *testing.T) {
	e, uc := newTestServer(t)

	uc.EXPECT().
		Create(mock.Anything, mock.AnythingOfType("*usecase.CreateUserInput")).
		Return(nil, errors.WithStack(domainerrors.ErrEmailAlreadyRegistered))

	rec := doJSON(e, http.MethodPost, "/users/", `{"name":"Bea","email":"ana@x.com","password":"secret2"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "EMAIL_ALREADY_REGISTERED")
}

func TestUserHandler_Create_ValidationFailureMapsTo400(t *testing.T) {
	e, uc := newTestServer(t)

	uc.EXPECT().
		Create(mock.Anything, mock.AnythingOfType("*usecase.CreateUserInput")).
		Return(nil, domainerrors.ErrValidationFailed.WithDetails("password too short"))

	rec := doJSON(e, http.MethodPost, "/users/", `{"name":"Ana","email":"ana@x.com","password":"s"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestUserHandler_Get_Returns200(t *testing.T) {
	e, uc := newTestServer(t)

	uc.EXPECT().
		Get(mock.Anything, "3f1b").
		Return(&usecase.UserOutput{ID: "3f1b", Name: "Ana", Email: "ana@x.com"}, nil)

	rec := doJSON(e, http.MethodGet, "/users/3f1b", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ana@x.com")
}

func TestUserHandler_Get_InvalidIDMapsTo400(t *testing.T) {
	e, uc := newTestServer(t)

	uc.EXPECT().
		Get(mock.Anything, "not-a-uuid").
		Return(nil, errors.WithStack(domainerrors.ErrInvalidUserID))

	rec := doJSON(e, http.MethodGet, "/users/not-a-uuid", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_USER_ID")
}

func TestUserHandler_Get_NotFoundMapsTo404(t *testing.T) {
	e, uc := newTestServer(t)

	uc.EXPECT().
		Get(mock.Anything, "3f1b").
		Return(nil, errors.WithStack(domainerrors.ErrUserNotFound))

	rec := doJSON(e, http.MethodGet, "/users/3f1b", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "USER_NOT_FOUND")
}

func TestUserHandler_Update_Returns200(t *testing.T) {
	e, uc := newTestServer(t)

	uc.EXPECT().
		Update(mock.Anything, "3f1b", mock.AnythingOfType("*usecase.UpdateUserInput")).
		Run(func(ctx context.Context, id string, input *usecase.UpdateUserInput) {
			require.NotNil(t, input.Password)
			assert.Equal(t, "newpass1", *input.Password)
			assert.Nil(t, input.Name)
			assert.Nil(t, input.Email)
		}).
		Return(&usecase.UserOutput{ID: "3f1b", Name: "Ana", Email: "ana@x.com"}, nil)

	rec := doJSON(e, http.MethodPut, "/users/3f1b", `{"password":"newpass1"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ana@x.com")
}

func TestUserHandler_Update_NothingToUpdateMapsTo400(t *testing.T) {
	e, uc := newTestServer(t)

	uc.EXPECT().
		Update(mock.Anything, "3f1b", mock.AnythingOfType("*usecase.UpdateUserInput")).
		Return(nil, errors.WithStack(domainerrors.ErrNothingToUpdate))

	rec := doJSON(e, http.MethodPut, "/users/3f1b", `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOTHING_TO_UPDATE")
}

func TestUserHandler_Delete_Returns204WithEmptyBody(t *testing.T) {
	e, uc := newTestServer(t)

	uc.EXPECT().Delete(mock.Anything, "3f1b").Return(nil)

	rec := doJSON(e, http.MethodDelete, "/users/3f1b", "")

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestUserHandler_Delete_NotFoundMapsTo404(t *testing.T) {
	e, uc := newTestServer(t)

	uc.EXPECT().
		Delete(mock.Anything, "3f1b").
		Return(errors.WithStack(domainerrors.ErrUserNotFound))

	rec := doJSON(e, http.MethodDelete, "/users/3f1b", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserHandler_UnclassifiedErrorMapsTo500(t *testing.T) {
	e, uc := newTestServer(t)

	uc.EXPECT().
		Get(mock.Anything, "3f1b").
		Return(nil, errors.New("connection refused"))

	rec := doJSON(e, http.MethodGet, "/users/3f1b", "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	// Store-level error text never leaks to the caller.
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestHealthCheck(t *testing.T) {
	e, _ := newTestServer(t)

	for _, target := range []string{"/", "/health"} {
		rec := doJSON(e, http.MethodGet, target, "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	}
}
