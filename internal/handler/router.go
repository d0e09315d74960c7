package handler

import (
	"sns-system/pkg/jwt"
	"sns-system/pkg/logger"
	"sns-system/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Handlers 路由依赖
type Handlers struct {
	JWT     *jwt.JWTService
	User    *UserHandler
	Profile *ProfileHandler
	Follow  *FollowHandler
	Tweet   *TweetHandler
	Chat    *ChatHandler
	Health  *HealthHandler
}

// NewRouter 注册全部路由
func NewRouter(h Handlers) (*gin.Engine, error) {
	pages, err := LoadPages()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.HTMLRender = pages

	router.Use(logger.RequestLogger())         // 请求日志
	router.Use(logger.ErrorLoggerMiddleware()) // panic恢复
	router.Use(metrics.Middleware())
	router.Use(h.JWT.LoadUser())

	router.GET("/health", h.Health.Health)
	router.GET("/metrics", metrics.Handler())

	// 账户（无需登录）
	router.GET("/", h.User.Welcome)
	router.GET("/signup/", h.User.SignupPage)
	router.POST("/signup/", h.User.Signup)
	router.GET("/login/", h.User.LoginPage)
	router.POST("/login/", h.User.Login)
	router.GET("/logout/", h.User.Logout)
	router.POST("/logout/", h.User.Logout)

	auth := router.Group("")
	auth.Use(jwt.RequireAuth())
	{
		auth.GET("/home/", h.User.Home)

		auth.GET("/profile/:pk/", h.Profile.Show)
		auth.GET("/profile/:pk/edit/", h.Profile.EditPage)
		auth.POST("/profile/:pk/edit/", h.Profile.Edit)

		// :key 在列表路由中为用户ID，在关注路由中为用户名
		// 与上面静态前缀同名的用户名在注册时被拒绝，见 service.IsReservedUsername
		auth.GET("/:key/following_list/", h.Follow.FollowingList)
		auth.GET("/:key/follower_list/", h.Follow.FollowerList)
		// 关注状态只允许 POST 修改
		auth.POST("/:key/follow/", h.Follow.Follow)
		auth.POST("/:key/unfollow/", h.Follow.Unfollow)
	}

	tweets := router.Group("/tweets")
	tweets.Use(jwt.RequireAuth())
	{
		tweets.GET("/create/", h.Tweet.CreatePage)
		tweets.POST("/create/", h.Tweet.Create)
		tweets.GET("/chat/", h.Chat.Page)
		tweets.POST("/chat/", h.Chat.Send)
		tweets.GET("/:pk/", h.Tweet.Detail)
		tweets.GET("/:pk/delete/", h.Tweet.DeletePage)
		tweets.POST("/:pk/delete/", h.Tweet.Delete)
		tweets.POST("/:pk/like/", h.Tweet.Like)
		tweets.POST("/:pk/unlike/", h.Tweet.Unlike)
	}

	return router, nil
}
