package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"sns-system/internal/model"
	"sns-system/pkg/completion"
	"sns-system/pkg/logger"

	"go.uber.org/zap"
)

const sentenceMaxLength = 10000

// Completer 文本补全，由 pkg/completion.Client 实现
type Completer interface {
	Complete(ctx context.Context, sentence string) (string, error)
}

// RateLimiter 由 pkg/redis.RateLimiter 实现
type RateLimiter interface {
	Allow(ctx context.Context, userID uint) (bool, error)
}

type ChatService struct {
	completer Completer
	limiter   RateLimiter
}

// NewChatService limiter 可为 nil
func NewChatService(completer Completer, limiter RateLimiter) *ChatService {
	return &ChatService{completer: completer, limiter: limiter}
}

// Reply 返回对一句话的回复
// 补全服务不可用时返回空回复而不是错误
func (s *ChatService) Reply(ctx context.Context, userID uint, sentence string) (string, error) {
	if userID == 0 {
		return "", model.NewAuthenticationError("login required")
	}
	sentence = strings.TrimSpace(sentence)
	if sentence == "" {
		return "", model.NewValidationError("chat form is invalid",
			map[string][]string{"sentence": {msgRequired}})
	}
	if utf8.RuneCountInString(sentence) > sentenceMaxLength {
		return "", model.NewValidationError("chat form is invalid",
			map[string][]string{"sentence": {"Ensure this value has at most 10000 characters."}})
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, userID)
		if err != nil {
			logger.Warn("聊天限流检查失败，放行请求", zap.Uint("user_id", userID), zap.Error(err))
		}
		if !allowed {
			logger.Warn("聊天请求过于频繁", zap.Uint("user_id", userID))
			return "", model.NewDomainRejection("Too many chat requests. Please wait a minute and try again.")
		}
	}

	reply, err := s.completer.Complete(ctx, sentence)
	if err != nil {
		if errors.Is(err, completion.ErrDisabled) {
			logger.Warn("未配置补全服务密钥", zap.Uint("user_id", userID))
		} else {
			logger.Warn("补全服务调用失败", zap.Uint("user_id", userID), zap.Error(err))
		}
		return "", nil
	}
	return reply, nil
}
