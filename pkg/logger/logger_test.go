package logger

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"sns-system/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitLogger_WritesToFile(t *testing.T) {
	defer SetLogger(nil)
	file := filepath.Join(t.TempDir(), "logs", "app.log")

	InitLogger(config.LogConfig{Level: "debug", Filename: file, MaxSize: 1})
	Info("hello", zap.String("k", "v"))
	_ = L().Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"k":"v"`)
}

func TestGetLogLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, getLogLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, getLogLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, getLogLevel("bogus"))
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	r := gin.New()
	r.Use(RequestLogger(), ErrorLoggerMiddleware())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	for _, path := range []string{"/ok", "/missing", "/boom"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 1, logs.FilterMessage("HTTP请求").Len())
	assert.Equal(t, 1, logs.FilterMessage("HTTP请求警告").Len())
	assert.Equal(t, 1, logs.FilterMessage("HTTP请求发生panic").Len())
	assert.Equal(t, 1, logs.FilterMessage("HTTP请求错误").Len())
}
