package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"sns-system/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlash_SurvivesRedirect(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := NewStore(config.SessionConfig{Name: "s", Secret: "0123456789abcdef0123456789abcdef"})

	r := gin.New()
	r.GET("/set", func(c *gin.Context) {
		store.Add(c, LevelSuccess, "you followed satou")
		c.Redirect(http.StatusFound, "/get")
	})
	r.GET("/get", func(c *gin.Context) {
		msgs := store.Pop(c)
		c.JSON(http.StatusOK, msgs)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/set", nil))
	require.Equal(t, http.StatusFound, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), "you followed satou")
	assert.Contains(t, w.Body.String(), `"Level":"success"`)
}

func TestFlash_SameRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := NewStore(config.SessionConfig{Secret: "0123456789abcdef0123456789abcdef"})

	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		store.Add(c, LevelWarning, "cannot follow yourself")
		msgs := store.Pop(c)
		require.Len(t, msgs, 1)
		c.String(http.StatusOK, msgs[0].Level+":"+msgs[0].Text)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "warning:cannot follow yourself", w.Body.String())
}

func TestFlash_PopEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := NewStore(config.SessionConfig{Secret: "0123456789abcdef0123456789abcdef"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Nil(t, store.Pop(c))
}
