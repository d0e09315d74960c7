package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sns-system/config"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ErrDisabled 未配置API密钥
var ErrDisabled = errors.New("completion client disabled: no api key configured")

// Client 文本补全客户端
type Client struct {
	api     openai.Client
	model   string
	timeout time.Duration
	enabled bool
}

// NewClient 创建补全客户端，未配置密钥时 Complete 返回 ErrDisabled
func NewClient(cfg config.ChatConfig) *Client {
	c := &Client{
		model:   cfg.Model,
		timeout: cfg.Timeout,
		enabled: cfg.APIKey != "",
	}
	if c.model == "" {
		c.model = string(openai.ChatModelGPT3_5Turbo)
	}
	if !c.enabled {
		return c
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(1),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	c.api = openai.NewClient(opts...)
	return c
}

// Complete 发送一句话，返回第一条回复
func (c *Client) Complete(ctx context.Context, sentence string) (string, error) {
	if !c.enabled {
		return "", ErrDisabled
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(sentence),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
