package service

import (
	"context"
	"sync"
	"testing"

	"sns-system/internal/model"
	"sns-system/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowService_Transitions(t *testing.T) {
	s := newServices(t, nil)
	ctx := context.Background()
	a := signup(t, s, "a")
	signup(t, s, "b")

	res, err := s.follow.Follow(ctx, a.ID, "b")
	require.NoError(t, err)
	assert.Equal(t, OutcomeFollowed, res.Outcome)
	assert.True(t, res.Changed())
	assert.Equal(t, "b", res.Target.Username)

	res, err = s.follow.Follow(ctx, a.ID, "b")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyFollowing, res.Outcome)
	assert.False(t, res.Changed())
	assert.Equal(t, int64(1), testutil.Count(t, s.db, &model.FriendShip{}, ""))

	ok, err := s.follow.IsFollowing(ctx, a.ID, res.Target.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	res, err = s.follow.Unfollow(ctx, a.ID, "b")
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnfollowed, res.Outcome)

	res, err = s.follow.Unfollow(ctx, a.ID, "b")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFollowing, res.Outcome)
	assert.Equal(t, int64(0), testutil.Count(t, s.db, &model.FriendShip{}, ""))
}

func TestFollowService_Rejections(t *testing.T) {
	s := newServices(t, nil)
	ctx := context.Background()
	a := signup(t, s, "a")

	_, err := s.follow.Follow(ctx, a.ID, "a")
	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, model.CodeDomainRejection, appErr.Code)
	assert.Equal(t, MsgCannotFollowSelf, appErr.Message)

	_, err = s.follow.Unfollow(ctx, a.ID, "a")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, MsgCannotUnfollow, appErr.Message)

	_, err = s.follow.Follow(ctx, a.ID, "ghost")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, model.CodeNotFound, appErr.Code)
	assert.Equal(t, MsgUserNotExist, appErr.Message)

	_, err = s.follow.Follow(ctx, 0, "a")
	assert.Equal(t, model.CodeUnauthenticated, model.ErrorCode(err))

	assert.Equal(t, int64(0), testutil.Count(t, s.db, &model.FriendShip{}, ""))
}

func TestFollowService_ConcurrentFollowKeepsOneEdge(t *testing.T) {
	s := newServices(t, nil)
	ctx := context.Background()
	a := signup(t, s, "a")
	signup(t, s, "b")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.follow.Follow(ctx, a.ID, "b")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), testutil.Count(t, s.db, &model.FriendShip{}, ""))
}

func TestFollowService_ListsAreDirectional(t *testing.T) {
	s := newServices(t, nil)
	ctx := context.Background()
	a := signup(t, s, "a")
	b := signup(t, s, "b")
	c := signup(t, s, "c")

	_, err := s.follow.Follow(ctx, a.ID, "b")
	require.NoError(t, err)
	_, err = s.follow.Follow(ctx, c.ID, "b")
	require.NoError(t, err)

	followers, err := s.follow.FollowersOf(ctx, b.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "c"}, usernames(followers))

	following, err := s.follow.FollowingOf(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, following)

	_, err = s.follow.FollowersOf(ctx, 999)
	assert.True(t, model.IsNotFound(err))
}
