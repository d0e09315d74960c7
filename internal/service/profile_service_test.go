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

func TestProfileService_EnsureIsIdempotent(t *testing.T) {
	s := newServices(t, nil)
	ctx := context.Background()
	u := signup(t, s, "yamada")

	first, err := s.profile.EnsureProfile(ctx, u.ID)
	require.NoError(t, err)
	second, err := s.profile.EnsureProfile(ctx, u.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(1), testutil.Count(t, s.db, &model.Profile{}, "user_id = ?", u.ID))

	_, err = s.profile.EnsureProfile(ctx, 999)
	assert.True(t, model.IsNotFound(err))
}

func TestProfileService_GetWithCounts(t *testing.T) {
	s := newServices(t, nil)
	ctx := context.Background()
	yamada := signup(t, s, "yamada")
	satou := signup(t, s, "satou")
	_, err := s.follow.Follow(ctx, satou.ID, "yamada")
	require.NoError(t, err)

	p, err := s.profile.GetByUser(ctx, yamada.ID)
	require.NoError(t, err)

	view, err := s.profile.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "yamada", view.User.Username)
	assert.Equal(t, int64(1), view.FollowerCount)
	assert.Equal(t, int64(0), view.FollowingCount)

	_, err = s.profile.Get(ctx, 999)
	assert.True(t, model.IsNotFound(err))
}

func TestProfileService_UpdateOwnership(t *testing.T) {
	s := newServices(t, nil)
	ctx := context.Background()
	yamada := signup(t, s, "yamada")
	satou := signup(t, s, "satou")
	p, err := s.profile.GetByUser(ctx, yamada.ID)
	require.NoError(t, err)

	_, err = s.profile.Update(ctx, satou.ID, p.ID, "hacked", "")
	assert.Equal(t, model.CodeForbidden, model.ErrorCode(err))

	_, err = s.profile.Update(ctx, yamada.ID, p.ID, "", strings.Repeat("x", 256))
	assert.Equal(t, model.CodeValidation, model.ErrorCode(err))

	updated, err := s.profile.Update(ctx, yamada.ID, p.ID, "hello", "go")
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.Introduction)
	assert.Equal(t, "go", updated.Hobby)

	updated, err = s.profile.Update(ctx, yamada.ID, p.ID, "", "")
	require.NoError(t, err)
	assert.Empty(t, updated.Introduction)

	_, err = s.profile.Update(ctx, yamada.ID, 999, "x", "y")
	assert.True(t, model.IsNotFound(err))
	_, err = s.profile.Update(ctx, 0, p.ID, "x", "y")
	assert.Equal(t, model.CodeUnauthenticated, model.ErrorCode(err))
}
