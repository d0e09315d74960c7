package response

// LikeResponse 点赞/取消点赞接口返回体
type LikeResponse struct {
	LikeForTweetCount int64  `json:"like_for_tweet_count"`
	TweetPK           uint   `json:"tweet_pk"`
	Method            string `json:"method"`
}
