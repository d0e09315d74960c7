package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sns-system/internal/model"
	"sns-system/pkg/completion"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	reply string
	err   error
	calls int
}

func (c *stubCompleter) Complete(_ context.Context, _ string) (string, error) {
	c.calls++
	return c.reply, c.err
}

type stubLimiter struct {
	allowed bool
	err     error
}

func (l stubLimiter) Allow(context.Context, uint) (bool, error) {
	return l.allowed, l.err
}

func TestChatService_Reply(t *testing.T) {
	ctx := context.Background()
	completer := &stubCompleter{reply: "hi there"}
	svc := NewChatService(completer, stubLimiter{allowed: true})

	reply, err := svc.Reply(ctx, 1, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)
}

func TestChatService_Validation(t *testing.T) {
	ctx := context.Background()
	completer := &stubCompleter{}
	svc := NewChatService(completer, nil)

	_, err := svc.Reply(ctx, 1, "")
	assert.Equal(t, model.CodeValidation, model.ErrorCode(err))
	_, err = svc.Reply(ctx, 1, strings.Repeat("a", sentenceMaxLength+1))
	assert.Equal(t, model.CodeValidation, model.ErrorCode(err))
	_, err = svc.Reply(ctx, 0, "hello")
	assert.Equal(t, model.CodeUnauthenticated, model.ErrorCode(err))
	assert.Zero(t, completer.calls)
}

func TestChatService_DegradesToEmptyReply(t *testing.T) {
	ctx := context.Background()

	for _, cerr := range []error{completion.ErrDisabled, errors.New("upstream 500")} {
		svc := NewChatService(&stubCompleter{err: cerr}, nil)
		reply, err := svc.Reply(ctx, 1, "hello")
		require.NoError(t, err)
		assert.Empty(t, reply)
	}
}

func TestChatService_RateLimit(t *testing.T) {
	ctx := context.Background()
	completer := &stubCompleter{reply: "ok"}

	svc := NewChatService(completer, stubLimiter{allowed: false})
	_, err := svc.Reply(ctx, 1, "hello")
	assert.Equal(t, model.CodeDomainRejection, model.ErrorCode(err))
	assert.Zero(t, completer.calls)

	// 限流器故障时放行
	svc = NewChatService(completer, stubLimiter{allowed: true, err: errors.New("redis down")})
	reply, err := svc.Reply(ctx, 1, "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}
