package handler

import (
	"errors"
	"fmt"
	"net/http"

	"sns-system/internal/model"
	"sns-system/internal/service"
	"sns-system/pkg/flash"
	"sns-system/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const profileTweetLimit = 20

type ProfileHandler struct {
	view
	profiles *service.ProfileService
	follows  *service.FollowService
	tweets   *service.TweetService
}

func NewProfileHandler(profiles *service.ProfileService, follows *service.FollowService, tweets *service.TweetService, flashes *flash.Store) *ProfileHandler {
	return &ProfileHandler{view: view{flashes: flashes}, profiles: profiles, follows: follows, tweets: tweets}
}

type profileForm struct {
	Introduction string `form:"introduction"`
	Hobby        string `form:"hobby"`
}

// Show 资料页
func (h *ProfileHandler) Show(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := parsePK(c, "pk", "profile")
	if err != nil {
		h.renderError(c, err)
		return
	}
	pv, err := h.profiles.Get(ctx, id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	viewer := jwt.GetUserID(c)
	following, err := h.follows.IsFollowing(ctx, viewer, pv.User.ID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	tweets, err := h.tweets.ListByUser(ctx, viewer, pv.User.ID, profileTweetLimit)
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.render(c, http.StatusOK, "profile.html", gin.H{
		"Profile":     pv,
		"IsOwner":     viewer == pv.User.ID,
		"IsFollowing": following,
		"Tweets":      tweets,
	})
}

// EditPage 资料编辑表单，只有本人可访问
func (h *ProfileHandler) EditPage(c *gin.Context) {
	id, err := parsePK(c, "pk", "profile")
	if err != nil {
		h.renderError(c, err)
		return
	}
	pv, err := h.profiles.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if pv.User.ID != jwt.GetUserID(c) {
		h.renderError(c, model.NewForbiddenError("You can only edit your own profile"))
		return
	}
	h.render(c, http.StatusOK, "profile_edit.html", gin.H{
		"ProfileID": id,
		"Form":      profileForm{Introduction: pv.Profile.Introduction, Hobby: pv.Profile.Hobby},
	})
}

// Edit 保存资料
func (h *ProfileHandler) Edit(c *gin.Context) {
	id, err := parsePK(c, "pk", "profile")
	if err != nil {
		h.renderError(c, err)
		return
	}
	var f profileForm
	if err := c.ShouldBind(&f); err != nil {
		h.renderError(c, model.NewInternalError("bind profile form", err))
		return
	}

	if _, err := h.profiles.Update(c.Request.Context(), jwt.GetUserID(c), id, f.Introduction, f.Hobby); err != nil {
		var appErr *model.AppError
		if errors.As(err, &appErr) && appErr.Code == model.CodeValidation {
			h.render(c, http.StatusOK, "profile_edit.html", gin.H{"ProfileID": id, "Form": f, "Errors": appErr.Fields})
			return
		}
		h.renderError(c, err)
		return
	}
	h.redirect(c, fmt.Sprintf("/profile/%d/", id), flash.LevelSuccess, "Profile updated.")
}
