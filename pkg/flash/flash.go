package flash

import (
	"net/http"

	"sns-system/config"
	"sns-system/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// 消息级别
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

var levels = []string{LevelSuccess, LevelInfo, LevelWarning, LevelError}

// Message 一条闪现消息
type Message struct {
	Level string
	Text  string
}

// Store 基于签名cookie的闪现消息存储，消息在下一次渲染时取出即删除
type Store struct {
	store *sessions.CookieStore
	name  string
}

// NewStore 创建闪现消息存储
func NewStore(cfg config.SessionConfig) *Store {
	s := sessions.NewCookieStore([]byte(cfg.Secret))
	s.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	name := cfg.Name
	if name == "" {
		name = "sns_session"
	}
	return &Store{store: s, name: name}
}

// Add 添加一条消息，必须在写响应体之前调用
func (s *Store) Add(c *gin.Context, level, text string) {
	session, err := s.store.Get(c.Request, s.name)
	if err != nil {
		// 签名无法校验时 gorilla 仍返回一个新会话
		logger.Debug("读取会话失败，使用新会话", zap.Error(err))
	}
	session.AddFlash(text, level)
	if err := session.Save(c.Request, c.Writer); err != nil {
		logger.Warn("保存闪现消息失败", zap.Error(err))
	}
}

// Pop 取出并清空全部消息
func (s *Store) Pop(c *gin.Context) []Message {
	session, err := s.store.Get(c.Request, s.name)
	if err != nil {
		logger.Debug("读取会话失败，使用新会话", zap.Error(err))
	}

	var messages []Message
	for _, level := range levels {
		for _, f := range session.Flashes(level) {
			if text, ok := f.(string); ok {
				messages = append(messages, Message{Level: level, Text: text})
			}
		}
	}
	if len(messages) == 0 {
		return nil
	}
	if err := session.Save(c.Request, c.Writer); err != nil {
		logger.Warn("清除闪现消息失败", zap.Error(err))
	}
	return messages
}
