package jwt

import (
	"net/http"
	"net/url"
	"strings"

	"sns-system/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// ContextUserIDKey 用户ID在gin.Context中的键名
	ContextUserIDKey = "user_id"
	// ContextUsernameKey 用户名在gin.Context中的键名
	ContextUsernameKey = "username"

	// LoginPath 未登录时跳转的登录页
	LoginPath = "/login/"
)

// LoadUser 识别当前用户的中间件
// 依次从 cookie 与 Authorization: Bearer <token> 中读取 token
// 校验通过则写入 gin.Context，失败不会中断请求
func (s *JWTService) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := s.tokenFromRequest(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := s.ValidateToken(tokenString)
		if err != nil {
			logger.Debug("JWT验证失败", zap.Error(err), zap.String("path", c.Request.URL.Path))
			s.ClearCookie(c)
			c.Next()
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			logger.Warn("JWT subject 非法", zap.Error(err))
			c.Next()
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextUsernameKey, claims.Username())
		c.Next()
	}
}

// RequireAuth 要求登录的中间件，未登录时重定向到登录页并带上 next
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == 0 {
			next := c.Request.URL.RequestURI()
			c.Redirect(http.StatusFound, LoginPath+"?next="+url.QueryEscape(next))
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *JWTService) tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(s.cookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// SetCookie 登录成功后写入 token cookie
func (s *JWTService) SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookieName, token, int(s.expireAfter.Seconds()), "/", "", s.secure, true)
}

// ClearCookie 登出时清除 token cookie
func (s *JWTService) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookieName, "", -1, "/", "", s.secure, true)
}

// CookieName 返回 token cookie 名
func (s *JWTService) CookieName() string {
	return s.cookieName
}

// GetUserID 从gin.Context中获取用户ID，未登录返回0
func GetUserID(c *gin.Context) uint {
	if userID, exists := c.Get(ContextUserIDKey); exists {
		if id, ok := userID.(uint); ok {
			return id
		}
	}
	return 0
}

// GetUsername 从gin.Context中获取用户名
func GetUsername(c *gin.Context) string {
	if username, exists := c.Get(ContextUsernameKey); exists {
		if name, ok := username.(string); ok {
			return name
		}
	}
	return ""
}
