package handler

import (
	"errors"
	"net/http"

	"sns-system/internal/model"
	"sns-system/internal/service"
	"sns-system/pkg/flash"
	"sns-system/pkg/jwt"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	view
	chat *service.ChatService
}

func NewChatHandler(chat *service.ChatService, flashes *flash.Store) *ChatHandler {
	return &ChatHandler{view: view{flashes: flashes}, chat: chat}
}

type chatForm struct {
	Sentence string `form:"sentence"`
}

// Page 聊天表单
func (h *ChatHandler) Page(c *gin.Context) {
	h.render(c, http.StatusOK, "chat.html", gin.H{"Form": chatForm{}})
}

// Send 提交一句话并展示回复
func (h *ChatHandler) Send(c *gin.Context) {
	var f chatForm
	if err := c.ShouldBind(&f); err != nil {
		h.renderError(c, model.NewInternalError("bind chat form", err))
		return
	}

	reply, err := h.chat.Reply(c.Request.Context(), jwt.GetUserID(c), f.Sentence)
	if err != nil {
		var appErr *model.AppError
		if !errors.As(err, &appErr) {
			h.renderError(c, err)
			return
		}
		switch appErr.Code {
		case model.CodeValidation:
			h.render(c, http.StatusOK, "chat.html", gin.H{"Form": f, "Errors": appErr.Fields})
		case model.CodeDomainRejection:
			h.render(c, http.StatusOK, "chat.html", gin.H{"Form": f},
				flash.Message{Level: flash.LevelWarning, Text: appErr.Message})
		default:
			h.renderError(c, err)
		}
		return
	}
	h.render(c, http.StatusOK, "chat.html", gin.H{"Form": f, "Reply": reply, "Answered": true})
}
