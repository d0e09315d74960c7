package handler

import (
	"context"
	"fmt"
	"net/http"

	"sns-system/internal/model"
	"sns-system/internal/service"
	"sns-system/pkg/flash"
	"sns-system/pkg/jwt"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	view
	follows *service.FollowService
	users   *service.UserService
}

func NewFollowHandler(follows *service.FollowService, users *service.UserService, flashes *flash.Store) *FollowHandler {
	return &FollowHandler{view: view{flashes: flashes}, follows: follows, users: users}
}

// Follow 关注 :key 指定的用户名
func (h *FollowHandler) Follow(c *gin.Context) {
	username := c.Param("key")
	res, err := h.follows.Follow(c.Request.Context(), jwt.GetUserID(c), username)
	if err != nil {
		h.renderRejection(c, err, username)
		return
	}

	switch res.Outcome {
	case service.OutcomeAlreadyFollowing:
		h.render(c, http.StatusOK, "follow.html", gin.H{"Target": res.Target},
			flash.Message{Level: flash.LevelInfo, Text: fmt.Sprintf("you are already following %s", res.Target.Username)})
	default:
		h.redirect(c, "/home/", flash.LevelSuccess, fmt.Sprintf("you followed %s", res.Target.Username))
	}
}

// Unfollow 取消关注 :key 指定的用户名
func (h *FollowHandler) Unfollow(c *gin.Context) {
	username := c.Param("key")
	res, err := h.follows.Unfollow(c.Request.Context(), jwt.GetUserID(c), username)
	if err != nil {
		h.renderRejection(c, err, username)
		return
	}

	switch res.Outcome {
	case service.OutcomeNotFollowing:
		h.redirect(c, "/home/", flash.LevelWarning, fmt.Sprintf("you weren't following %s", res.Target.Username))
	default:
		h.redirect(c, "/home/", flash.LevelSuccess, fmt.Sprintf("you unfollowed %s", res.Target.Username))
	}
}

// renderRejection 关注自己属于业务提示，页面正常返回
func (h *FollowHandler) renderRejection(c *gin.Context, err error, username string) {
	if model.ErrorCode(err) != model.CodeDomainRejection {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "follow.html", gin.H{"Username": username},
		flash.Message{Level: flash.LevelWarning, Text: errorMessage(err, "")})
}

// FollowingList :key 用户关注的人
func (h *FollowHandler) FollowingList(c *gin.Context) {
	h.list(c, "Following", h.follows.FollowingOf)
}

// FollowerList 关注 :key 用户的人
func (h *FollowHandler) FollowerList(c *gin.Context) {
	h.list(c, "Followers", h.follows.FollowersOf)
}

func (h *FollowHandler) list(c *gin.Context, title string, load func(context.Context, uint) ([]*model.User, error)) {
	ctx := c.Request.Context()
	id, err := parsePK(c, "key", "user")
	if err != nil {
		h.renderError(c, err)
		return
	}
	owner, err := h.users.GetByID(ctx, id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	users, err := load(ctx, id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "user_list.html", gin.H{"Title": title, "Owner": owner, "Users": users})
}
