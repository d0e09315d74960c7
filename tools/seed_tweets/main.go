package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"sns-system/config"
	"sns-system/internal/model"
	"sns-system/internal/repository"
	dbPkg "sns-system/pkg/db"

	"github.com/brianvoe/gofakeit/v6"
)

func main() {
	count := flag.Int("count", 5000, "number of tweets to create")
	fake := flag.Bool("fake", false, "use random sentences instead of \"Tweet {i}\"")
	batch := flag.Int("batch", 500, "insert batch size")
	seed := flag.Int64("seed", 0, "random seed (0 = time based)")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(*seed)
	rng := rand.New(rand.NewSource(*seed))

	cfg := config.LoadConfig()
	db, err := dbPkg.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer dbPkg.CloseDB()

	ctx := context.Background()
	userIDs, err := repository.NewUserRepository(db).ListIDs(ctx)
	if err != nil {
		log.Fatalf("Loading users failed: %v", err)
	}
	if len(userIDs) == 0 {
		log.Fatal("No users found, sign up at least one user first")
	}

	tweets := make([]*model.Tweet, 0, *count)
	for i := 0; i < *count; i++ {
		tweets = append(tweets, &model.Tweet{
			UserID:   userIDs[rng.Intn(len(userIDs))],
			Contents: contents(faker, i, *fake),
		})
	}

	start := time.Now()
	if err := repository.NewTweetRepository(db).CreateInBatches(ctx, tweets, *batch); err != nil {
		log.Fatalf("Creating tweets failed: %v", err)
	}
	fmt.Printf("Created %d tweets for %d users in %v\n", len(tweets), len(userIDs), time.Since(start))
}

// contents 生成推文内容，保证不超过长度限制
func contents(faker *gofakeit.Faker, i int, fake bool) string {
	if !fake {
		return fmt.Sprintf("Tweet %d", i)
	}
	s := faker.Sentence(faker.Number(3, 20))
	if r := []rune(s); len(r) > model.TweetMaxLength {
		s = string(r[:model.TweetMaxLength])
	}
	return s
}
