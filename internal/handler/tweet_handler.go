package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"sns-system/internal/model"
	"sns-system/internal/service"
	"sns-system/pkg/flash"
	"sns-system/pkg/jwt"
	"sns-system/pkg/response"

	"github.com/gin-gonic/gin"
)

type TweetHandler struct {
	view
	tweets *service.TweetService
}

func NewTweetHandler(tweets *service.TweetService, flashes *flash.Store) *TweetHandler {
	return &TweetHandler{view: view{flashes: flashes}, tweets: tweets}
}

type tweetForm struct {
	Contents string `form:"contents"`
}

// CreatePage 发推表单
func (h *TweetHandler) CreatePage(c *gin.Context) {
	h.render(c, http.StatusOK, "tweet_create.html", gin.H{"Form": tweetForm{}, "MaxLength": model.TweetMaxLength})
}

// Create 发推，成功后跳转到详情
func (h *TweetHandler) Create(c *gin.Context) {
	var f tweetForm
	if err := c.ShouldBind(&f); err != nil {
		h.renderError(c, model.NewInternalError("bind tweet form", err))
		return
	}

	tweet, err := h.tweets.Create(c.Request.Context(), jwt.GetUserID(c), f.Contents)
	if err != nil {
		var appErr *model.AppError
		if errors.As(err, &appErr) && appErr.Code == model.CodeValidation {
			h.render(c, http.StatusOK, "tweet_create.html", gin.H{
				"Form":      f,
				"Errors":    appErr.Fields,
				"MaxLength": model.TweetMaxLength,
			})
			return
		}
		h.renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/tweets/%d/", tweet.ID))
}

// Detail 推文详情
func (h *TweetHandler) Detail(c *gin.Context) {
	id, err := parsePK(c, "pk", "tweet")
	if err != nil {
		h.renderError(c, err)
		return
	}
	tv, err := h.tweets.Get(c.Request.Context(), jwt.GetUserID(c), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "tweet_detail.html", gin.H{"Tweet": tv, "IsOwner": tv.UserID == jwt.GetUserID(c)})
}

// DeletePage 删除确认页，只有作者可访问
func (h *TweetHandler) DeletePage(c *gin.Context) {
	id, err := parsePK(c, "pk", "tweet")
	if err != nil {
		h.renderError(c, err)
		return
	}
	tv, err := h.tweets.Get(c.Request.Context(), jwt.GetUserID(c), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if tv.UserID != jwt.GetUserID(c) {
		h.renderError(c, model.NewForbiddenError("You can only delete your own tweets"))
		return
	}
	h.render(c, http.StatusOK, "tweet_delete.html", gin.H{"Tweet": tv})
}

// Delete 删除推文
func (h *TweetHandler) Delete(c *gin.Context) {
	id, err := parsePK(c, "pk", "tweet")
	if err != nil {
		h.renderError(c, err)
		return
	}
	if err := h.tweets.Delete(c.Request.Context(), jwt.GetUserID(c), id); err != nil {
		h.renderError(c, err)
		return
	}
	h.redirect(c, "/home/", flash.LevelSuccess, "Tweet deleted.")
}

// Like 点赞，返回最新点赞数
func (h *TweetHandler) Like(c *gin.Context) {
	h.toggleLike(c, h.tweets.Like)
}

// Unlike 取消点赞，返回最新点赞数
func (h *TweetHandler) Unlike(c *gin.Context) {
	h.toggleLike(c, h.tweets.Unlike)
}

func (h *TweetHandler) toggleLike(c *gin.Context, toggle func(ctx context.Context, actorID, tweetID uint) (*service.LikeResult, error)) {
	id, err := parsePK(c, "pk", "tweet")
	if err != nil {
		response.FromError(c, err)
		return
	}
	res, err := toggle(c.Request.Context(), jwt.GetUserID(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, &response.LikeResponse{
		LikeForTweetCount: res.Count,
		TweetPK:           res.TweetID,
		Method:            res.Method,
	})
}
