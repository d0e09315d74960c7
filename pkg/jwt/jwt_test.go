package jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sns-system/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key",
		ExpireTime: time.Hour,
		Issuer:     "sns-test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	s := newTestService()

	token, err := s.GenerateToken(42, "yamada")
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	uid, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), uid)
	assert.Equal(t, "yamada", claims.Username())
}

func TestGenerateToken_RequiresUser(t *testing.T) {
	_, err := newTestService().GenerateToken(0, "x")
	assert.Error(t, err)
}

func TestValidateToken_RejectsForeignIssuerAndSecret(t *testing.T) {
	s := newTestService()
	other := NewJWTService(config.JWTConfig{Secret: "another-secret", ExpireTime: time.Hour, Issuer: "sns-test"})
	foreignIssuer := NewJWTService(config.JWTConfig{Secret: "test-secret-key", ExpireTime: time.Hour, Issuer: "elsewhere"})

	token, err := other.GenerateToken(1, "a")
	require.NoError(t, err)
	_, err = s.ValidateToken(token)
	assert.Error(t, err)

	token, err = foreignIssuer.GenerateToken(1, "a")
	require.NoError(t, err)
	_, err = s.ValidateToken(token)
	assert.Error(t, err)

	_, err = s.ValidateToken("")
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	s := NewJWTService(config.JWTConfig{Secret: "k", ExpireTime: -time.Minute, Issuer: "sns-test"})
	token, err := s.GenerateToken(1, "a")
	require.NoError(t, err)
	_, err = s.ValidateToken(token)
	assert.Error(t, err)
}

func newAuthRouter(s *JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(s.LoadUser())
	r.GET("/private", RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, "%d:%s", GetUserID(c), GetUsername(c))
	})
	return r
}

func TestRequireAuth_RedirectsAnonymous(t *testing.T) {
	r := newAuthRouter(newTestService())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private?x=1", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/?next=%2Fprivate%3Fx%3D1", w.Header().Get("Location"))
}

func TestLoadUser_CookieAndBearer(t *testing.T) {
	s := newTestService()
	r := newAuthRouter(s)
	token, err := s.GenerateToken(7, "satou")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: s.CookieName(), Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7:satou", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoadUser_InvalidCookieIsCleared(t *testing.T) {
	s := newTestService()
	r := newAuthRouter(s)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: s.CookieName(), Value: "garbage"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), s.CookieName()+"=;")
}
