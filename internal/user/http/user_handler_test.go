package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/userhub/internal/auth/domain"
	"github.com/allisson/userhub/internal/user/domain"
	"github.com/allisson/userhub/internal/user/usecase"
)

// fakeUserUseCase returns canned results for handler tests.
type fakeUserUseCase struct {
	user        *domain.User
	users       []*domain.User
	permissions []string
	err         error
}

func (f *fakeUserUseCase) Create(_ context.Context, _ *usecase.CreateUserInput) (*domain.User, error) {
	return f.user, f.err
}

func (f *fakeUserUseCase) Get(_ context.Context, _ uuid.UUID) (*domain.User, error) {
	return f.user, f.err
}

func (f *fakeUserUseCase) GetByLogin(_ context.Context, _ string) (*domain.User, error) {
	return f.user, f.err
}

func (f *fakeUserUseCase) List(_ context.Context, _, _ int) ([]*domain.User, error) {
	return f.users, f.err
}

func (f *fakeUserUseCase) Update(
	_ context.Context,
	_ uuid.UUID,
	_ *usecase.UpdateUserInput,
) (*domain.User, error) {
	return f.user, f.err
}

func (f *fakeUserUseCase) Delete(_ context.Context, _ uuid.UUID) error {
	return f.err
}

func (f *fakeUserUseCase) UpdateGroups(
	_ context.Context,
	_ uuid.UUID,
	_ []uuid.UUID,
) (*domain.User, error) {
	return f.user, f.err
}

func (f *fakeUserUseCase) UpdatePermissions(
	_ context.Context,
	_ uuid.UUID,
	_ *usecase.UpdatePermissionsInput,
) (*domain.User, error) {
	return f.user, f.err
}

func (f *fakeUserUseCase) GetPermissions(_ context.Context, _ uuid.UUID) ([]string, error) {
	return f.permissions, f.err
}

func (f *fakeUserUseCase) RequestPasswordReset(_ context.Context, _ string) error {
	return f.err
}

func (f *fakeUserUseCase) SetPassword(_ context.Context, _, _ string) error {
	return f.err
}

func sampleUser() *domain.User {
	return &domain.User{
		ID:             uuid.Must(uuid.NewV7()),
		Name:           "John Doe",
		Login:          "john.doe",
		Email:          "john@example.com",
		Password:       "argon2-hash",
		IsActive:       true,
		AllowFeatures:  []string{"DASHBOARD"},
		DeniedFeatures: []string{},
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
}

func newUserRouter(useCase *fakeUserUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewUserHandler(useCase, logger)

	router := gin.New()
	router.POST("/v1/users", handler.CreateHandler)
	router.GET("/v1/users", handler.ListHandler)
	router.GET("/v1/users/:id", handler.GetHandler)
	router.PUT("/v1/users/:id", handler.UpdateHandler)
	router.DELETE("/v1/users/:id", handler.DeleteHandler)
	router.PUT("/v1/users/:id/groups", handler.UpdateGroupsHandler)
	router.PUT("/v1/users/:id/permissions", handler.UpdatePermissionsHandler)
	router.GET("/v1/users/:id/permissions", handler.GetPermissionsHandler)
	router.POST("/v1/users/password/reset-request", handler.RequestPasswordResetHandler)
	router.POST("/v1/users/password/setup", handler.SetPasswordHandler)
	return router
}

func doJSON(
	t *testing.T,
	router *gin.Engine,
	method, path string,
	body any,
) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestUserHandler_Create(t *testing.T) {
	t.Run("Success_PasswordNotExposed", func(t *testing.T) {
		router := newUserRouter(&fakeUserUseCase{user: sampleUser()})

		w := doJSON(t, router, http.MethodPost, "/v1/users", gin.H{
			"name":  "John Doe",
			"login": "john.doe",
			"email": "john@example.com",
		})

		require.Equal(t, http.StatusCreated, w.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "john.doe", response["login"])
		assert.NotContains(t, response, "password")
	})

	t.Run("Failure_DuplicateLogin", func(t *testing.T) {
		router := newUserRouter(&fakeUserUseCase{err: domain.ErrUserAlreadyExists})

		w := doJSON(t, router, http.MethodPost, "/v1/users", gin.H{
			"name":  "John Doe",
			"login": "john.doe",
			"email": "john@example.com",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Failure_MissingFields", func(t *testing.T) {
		router := newUserRouter(&fakeUserUseCase{user: sampleUser()})

		w := doJSON(t, router, http.MethodPost, "/v1/users", gin.H{"name": "John Doe"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestUserHandler_Get(t *testing.T) {
	t.Run("Success_UserReturned", func(t *testing.T) {
		user := sampleUser()
		router := newUserRouter(&fakeUserUseCase{user: user})

		w := doJSON(t, router, http.MethodGet, "/v1/users/"+user.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, user.ID.String(), response["id"])
	})

	t.Run("Failure_NotFound", func(t *testing.T) {
		router := newUserRouter(&fakeUserUseCase{err: domain.ErrUserNotFound})

		w := doJSON(t, router, http.MethodGet, "/v1/users/"+uuid.Must(uuid.NewV7()).String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Failure_MalformedID", func(t *testing.T) {
		router := newUserRouter(&fakeUserUseCase{user: sampleUser()})

		w := doJSON(t, router, http.MethodGet, "/v1/users/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUserHandler_List(t *testing.T) {
	t.Run("Success_EmptyListIsNotNull", func(t *testing.T) {
		router := newUserRouter(&fakeUserUseCase{users: []*domain.User{}})

		w := doJSON(t, router, http.MethodGet, "/v1/users", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"users": []}`, w.Body.String())
	})
}

func TestUserHandler_UpdateGroups(t *testing.T) {
	t.Run("Success_GroupsReplaced", func(t *testing.T) {
		user := sampleUser()
		groupID := uuid.Must(uuid.NewV7())
		user.GroupIDs = []uuid.UUID{groupID}
		router := newUserRouter(&fakeUserUseCase{user: user})

		w := doJSON(t, router, http.MethodPut, "/v1/users/"+user.ID.String()+"/groups", gin.H{
			"group_ids": []string{groupID.String()},
		})
		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, []any{groupID.String()}, response["group_ids"])
	})

	t.Run("Failure_UnknownGroup", func(t *testing.T) {
		router := newUserRouter(&fakeUserUseCase{err: domain.ErrGroupNotAssignable})

		w := doJSON(
			t,
			router,
			http.MethodPut,
			"/v1/users/"+uuid.Must(uuid.NewV7()).String()+"/groups",
			gin.H{"group_ids": []string{uuid.Must(uuid.NewV7()).String()}},
		)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestUserHandler_GetPermissions(t *testing.T) {
	t.Run("Success_ResolvedKeysReturned", func(t *testing.T) {
		router := newUserRouter(&fakeUserUseCase{permissions: []string{"DASHBOARD", "FINANCEIRO"}})

		w := doJSON(
			t,
			router,
			http.MethodGet,
			"/v1/users/"+uuid.Must(uuid.NewV7()).String()+"/permissions",
			nil,
		)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"permissions": ["DASHBOARD", "FINANCEIRO"]}`, w.Body.String())
	})
}

func TestUserHandler_PasswordFlow(t *testing.T) {
	t.Run("Success_ResetRequestAlwaysNoContent", func(t *testing.T) {
		router := newUserRouter(&fakeUserUseCase{})

		w := doJSON(t, router, http.MethodPost, "/v1/users/password/reset-request", gin.H{
			"email": "ghost@example.com",
		})
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Success_SetPassword", func(t *testing.T) {
		router := newUserRouter(&fakeUserUseCase{})

		w := doJSON(t, router, http.MethodPost, "/v1/users/password/setup", gin.H{
			"token":    "setup-token",
			"password": "Str0ngPass!",
		})
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Failure_InvalidSetupToken", func(t *testing.T) {
		router := newUserRouter(&fakeUserUseCase{err: authDomain.ErrInvalidToken})

		w := doJSON(t, router, http.MethodPost, "/v1/users/password/setup", gin.H{
			"token":    "garbage",
			"password": "Str0ngPass!",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
