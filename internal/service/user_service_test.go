package service

import (
	"context"
	"strings"
	"testing"

	"sns-system/internal/model"
	"sns-system/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_SignupValidation(t *testing.T) {
	s := newServices(t, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    SignupInput
		field string
	}{
		{"missing username", SignupInput{Email: "a@example.com", Password1: "Correct-Horse-Battery", Password2: "Correct-Horse-Battery"}, "username"},
		{"bad username", SignupInput{Username: "bad name", Email: "a@example.com", Password1: "Correct-Horse-Battery", Password2: "Correct-Horse-Battery"}, "username"},
		{"long username", SignupInput{Username: strings.Repeat("a", 151), Email: "a@example.com", Password1: "Correct-Horse-Battery", Password2: "Correct-Horse-Battery"}, "username"},
		{"bad email", SignupInput{Username: "alice", Email: "not-an-email", Password1: "Correct-Horse-Battery", Password2: "Correct-Horse-Battery"}, "email"},
		{"mismatch", SignupInput{Username: "alice", Email: "a@example.com", Password1: "Correct-Horse-Battery", Password2: "Correct-Horse-Batterx"}, "password2"},
		{"reserved username", SignupInput{Username: "tweets", Email: "a@example.com", Password1: "Correct-Horse-Battery", Password2: "Correct-Horse-Battery"}, "username"},
		{"reserved username ignores case", SignupInput{Username: "Profile", Email: "a@example.com", Password1: "Correct-Horse-Battery", Password2: "Correct-Horse-Battery"}, "username"},
		{"weak password", SignupInput{Username: "alice", Email: "a@example.com", Password1: "12345678", Password2: "12345678"}, "password2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.users.Signup(ctx, tt.in)
			var appErr *model.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, model.CodeValidation, appErr.Code)
			assert.NotEmpty(t, appErr.Fields[tt.field])
		})
	}
	assert.Equal(t, int64(0), testutil.Count(t, s.db, &model.User{}, ""))
}

func TestUserService_SignupDuplicateUsername(t *testing.T) {
	s := newServices(t, nil)
	signup(t, s, "yamada")

	_, _, err := s.users.Signup(context.Background(), SignupInput{
		Username:  "yamada",
		Email:     "other@example.com",
		Password1: "Correct-Horse-Battery",
		Password2: "Correct-Horse-Battery",
	})
	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []string{msgUsernameTaken}, appErr.Fields["username"])
	assert.Equal(t, int64(1), testutil.Count(t, s.db, &model.Profile{}, ""))
}

func TestUserService_Login(t *testing.T) {
	s := newServices(t, nil)
	ctx := context.Background()
	u := signup(t, s, "yamada")

	got, token, err := s.users.Login(ctx, "yamada", "Correct-Horse-Battery")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotEmpty(t, token)

	reloaded, err := s.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.LastLogin)

	_, _, err = s.users.Login(ctx, "yamada", "wrong-password")
	assert.Equal(t, model.CodeUnauthenticated, model.ErrorCode(err))
	_, _, err = s.users.Login(ctx, "ghost", "Correct-Horse-Battery")
	assert.Equal(t, model.CodeUnauthenticated, model.ErrorCode(err))
	_, _, err = s.users.Login(ctx, "", "")
	assert.Equal(t, model.CodeValidation, model.ErrorCode(err))
}
