package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inventory-system/pkg/service"
	"inventory-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupAuthTest(t *testing.T) (*echo.Echo, *AuthMiddleware, service.JWTService) {
	t.Helper()
	e := echo.New()
	jwtSvc := service.NewJWTService("test-secret", time.Hour, time.Hour*24)
	mw := NewAuthMiddleware(jwtSvc, zap.NewNop())
	return e, mw, jwtSvc
}

func okHandler(c echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return err
	}
	role, err := utils.GetUserRoleFromCtx(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user_id": userID, "role": role})
}

func TestAuth_ValidToken(t *testing.T) {
	e, mw, jwtSvc := setupAuthTest(t)
	access, _, err := jwtSvc.GenerateTokens(7, "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err = mw.Auth(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":7`)
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)
}

func TestAuth_MissingHeader(t *testing.T) {
	e, mw, _ := setupAuthTest(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = mw.Auth(okHandler)(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_MalformedHeader(t *testing.T) {
	e, mw, _ := setupAuthTest(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = mw.Auth(okHandler)(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_RefreshTokenRejected(t *testing.T) {
	e, mw, jwtSvc := setupAuthTest(t)
	_, refresh, err := jwtSvc.GenerateTokens(7, "user")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = mw.Auth(okHandler)(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_UnknownRoleRejected(t *testing.T) {
	e, mw, jwtSvc := setupAuthTest(t)
	access, _, err := jwtSvc.GenerateTokens(7, "superuser")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = mw.Auth(okHandler)(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
