package handler

import (
	"errors"
	"net/http"
	"strconv"

	"sns-system/internal/model"
	"sns-system/internal/service"
	"sns-system/pkg/flash"
	"sns-system/pkg/jwt"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	view
	users      *service.UserService
	tweets     *service.TweetService
	jwtService *jwt.JWTService
}

func NewUserHandler(users *service.UserService, tweets *service.TweetService, jwtService *jwt.JWTService, flashes *flash.Store) *UserHandler {
	return &UserHandler{
		view:       view{flashes: flashes},
		users:      users,
		tweets:     tweets,
		jwtService: jwtService,
	}
}

type signupForm struct {
	Username  string `form:"username"`
	Email     string `form:"email"`
	Password1 string `form:"password1"`
	Password2 string `form:"password2"`
}

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

// Welcome 欢迎页，已登录直接进入首页
func (h *UserHandler) Welcome(c *gin.Context) {
	if jwt.GetUserID(c) != 0 {
		c.Redirect(http.StatusFound, "/home/")
		return
	}
	h.render(c, http.StatusOK, "welcome.html", nil)
}

// SignupPage 注册表单
func (h *UserHandler) SignupPage(c *gin.Context) {
	h.render(c, http.StatusOK, "signup.html", gin.H{"Form": signupForm{}})
}

// Signup 注册并登录
func (h *UserHandler) Signup(c *gin.Context) {
	var f signupForm
	if err := c.ShouldBind(&f); err != nil {
		h.renderError(c, model.NewInternalError("bind signup form", err))
		return
	}

	_, token, err := h.users.Signup(c.Request.Context(), service.SignupInput{
		Username:  f.Username,
		Email:     f.Email,
		Password1: f.Password1,
		Password2: f.Password2,
	})
	if err != nil {
		var appErr *model.AppError
		if errors.As(err, &appErr) && appErr.Code == model.CodeValidation {
			f.Password1, f.Password2 = "", ""
			h.render(c, http.StatusOK, "signup.html", gin.H{"Form": f, "Errors": appErr.Fields})
			return
		}
		h.renderError(c, err)
		return
	}

	h.jwtService.SetCookie(c, token)
	c.Redirect(http.StatusFound, "/home/")
}

// LoginPage 登录表单
func (h *UserHandler) LoginPage(c *gin.Context) {
	if jwt.GetUserID(c) != 0 {
		c.Redirect(http.StatusFound, "/home/")
		return
	}
	h.render(c, http.StatusOK, "login.html", gin.H{"Form": loginForm{Next: safeNext(c.Query("next"))}})
}

// Login 登录，成功后跳转到 next 或首页
func (h *UserHandler) Login(c *gin.Context) {
	var f loginForm
	if err := c.ShouldBind(&f); err != nil {
		h.renderError(c, model.NewInternalError("bind login form", err))
		return
	}
	if f.Next == "" {
		f.Next = c.Query("next")
	}
	f.Next = safeNext(f.Next)

	_, token, err := h.users.Login(c.Request.Context(), f.Username, f.Password)
	if err != nil {
		var appErr *model.AppError
		if errors.As(err, &appErr) && (appErr.Code == model.CodeValidation || appErr.Code == model.CodeUnauthenticated) {
			f.Password = ""
			h.render(c, http.StatusOK, "login.html", gin.H{
				"Form":      f,
				"Errors":    appErr.Fields,
				"FormError": loginFormError(appErr),
			})
			return
		}
		h.renderError(c, err)
		return
	}

	h.jwtService.SetCookie(c, token)
	if f.Next != "" {
		c.Redirect(http.StatusFound, f.Next)
		return
	}
	c.Redirect(http.StatusFound, "/home/")
}

func loginFormError(err *model.AppError) string {
	if err.Code == model.CodeUnauthenticated {
		return err.Message
	}
	return ""
}

// Logout 清除登录状态
func (h *UserHandler) Logout(c *gin.Context) {
	h.jwtService.ClearCookie(c)
	c.Redirect(http.StatusFound, "/")
}

// Home 首页时间线
func (h *UserHandler) Home(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	feed, err := h.tweets.Feed(c.Request.Context(), jwt.GetUserID(c), page)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "home.html", gin.H{"Feed": feed})
}
