package service

import (
	"context"
	"testing"
	"time"

	"sns-system/config"
	"sns-system/internal/model"
	"sns-system/internal/repository"
	"sns-system/internal/testutil"
	"sns-system/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type services struct {
	db      *gorm.DB
	users   *UserService
	profile *ProfileService
	follow  *FollowService
	tweets  *TweetService
}

func newServices(t *testing.T, cache FeedCache) *services {
	t.Helper()
	db := testutil.NewDB(t)
	tx := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	followRepo := repository.NewFriendShipRepository(db)
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour, Issuer: "sns-test"})

	return &services{
		db:      db,
		users:   NewUserService(tx, userRepo, profileRepo, jwtService),
		profile: NewProfileService(tx, profileRepo, userRepo, followRepo),
		follow:  NewFollowService(tx, userRepo, followRepo),
		tweets: NewTweetService(tx,
			repository.NewTweetRepository(db),
			repository.NewLikeRepository(db),
			cache, 3),
	}
}

func signup(t *testing.T, s *services, username string) *model.User {
	t.Helper()
	u, token, err := s.users.Signup(context.Background(), SignupInput{
		Username:  username,
		Email:     username + "@example.com",
		Password1: "Correct-Horse-Battery",
		Password2: "Correct-Horse-Battery",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return u
}

func usernames(users []*model.User) []string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	return names
}

// 注册 -> 发推 -> 关注 -> 点赞 -> 删除 的完整流程
func TestScenario_SignupFollowLikeDelete(t *testing.T) {
	s := newServices(t, nil)
	ctx := context.Background()

	yamada := signup(t, s, "yamada")
	assert.Equal(t, int64(1), testutil.Count(t, s.db, &model.Profile{}, "user_id = ?", yamada.ID))

	tweet, err := s.tweets.Create(ctx, yamada.ID, "hello")
	require.NoError(t, err)
	feed, err := s.tweets.Feed(ctx, yamada.ID, 1)
	require.NoError(t, err)
	require.NotEmpty(t, feed.Tweets)
	assert.Equal(t, tweet.ID, feed.Tweets[0].ID)

	satou := signup(t, s, "satou")
	res, err := s.follow.Follow(ctx, satou.ID, "yamada")
	require.NoError(t, err)
	assert.Equal(t, OutcomeFollowed, res.Outcome)

	followers, err := s.follow.FollowersOf(ctx, yamada.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"satou"}, usernames(followers))
	following, err := s.follow.FollowingOf(ctx, satou.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"yamada"}, usernames(following))

	like, err := s.tweets.Like(ctx, satou.ID, tweet.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), like.Count)
	assert.Equal(t, LikeMethodCreate, like.Method)
	like, err = s.tweets.Like(ctx, satou.ID, tweet.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), like.Count)
	assert.False(t, like.Changed)

	unlike, err := s.tweets.Unlike(ctx, satou.ID, tweet.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unlike.Count)
	assert.Equal(t, LikeMethodDelete, unlike.Method)

	err = s.tweets.Delete(ctx, satou.ID, tweet.ID)
	assert.Equal(t, model.CodeForbidden, model.ErrorCode(err))
	require.NoError(t, s.tweets.Delete(ctx, yamada.ID, tweet.ID))

	_, err = s.tweets.Get(ctx, yamada.ID, tweet.ID)
	assert.True(t, model.IsNotFound(err))
}
