package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"sns-system/config"
	dbPkg "sns-system/pkg/db"
	redisPkg "sns-system/pkg/redis"

	"gorm.io/gorm"
)

// 子表在前
var tables = []string{"tweet_like", "tweet", "friendship", "profile", "user"}

func main() {
	cfg := config.LoadConfig()

	db, err := dbPkg.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer dbPkg.CloseDB()

	fmt.Println("Database connected successfully")
	fmt.Printf("Driver: %s Database: %s\n", cfg.Database.Driver, databaseName(cfg.Database))

	fmt.Printf("\nWARNING: This operation will CLEAR ALL DATA in tables %v!\n", tables)
	fmt.Print("Type 'YES' to confirm: ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "YES" {
		fmt.Println("Operation cancelled")
		return
	}

	setForeignKeys(db, cfg.Database.Driver, false)

	for _, table := range tables {
		fmt.Printf("Clearing table %s... ", table)
		if err := db.Exec("DELETE FROM " + quote(cfg.Database.Driver, table)).Error; err != nil {
			fmt.Printf("Failed: %v\n", err)
		} else {
			fmt.Println("Success")
		}
	}

	fmt.Println("\nResetting auto-increment IDs...")
	for _, table := range tables {
		fmt.Printf("Resetting %s auto-increment... ", table)
		if err := resetSequence(db, cfg.Database.Driver, table); err != nil {
			fmt.Printf("Failed: %v\n", err)
		} else {
			fmt.Println("Success")
		}
	}

	setForeignKeys(db, cfg.Database.Driver, true)

	if cfg.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if rdb, err := redisPkg.InitRedis(ctx, cfg.Redis); err != nil {
			fmt.Printf("Redis unavailable, feed cache not cleared: %v\n", err)
		} else {
			defer redisPkg.Close()
			if err := redisPkg.NewFeedCache(rdb, cfg.Feed.CacheTTL).Invalidate(ctx); err != nil {
				fmt.Printf("Clearing feed cache failed: %v\n", err)
			} else {
				fmt.Println("Feed cache cleared")
			}
		}
	}

	fmt.Println("\nDatabase reset completed!")
	fmt.Println("All table data cleared, table structure preserved")
	fmt.Println("Auto-increment IDs reset to 1")
}

func databaseName(cfg config.DatabaseConfig) string {
	if cfg.Driver == "sqlite" {
		return cfg.Path
	}
	return cfg.Database
}

// quote user 在 mysql 与 postgres 中都是保留字
func quote(driver, table string) string {
	if driver == "postgres" || driver == "sqlite" {
		return `"` + table + `"`
	}
	return "`" + table + "`"
}

func setForeignKeys(db *gorm.DB, driver string, on bool) {
	switch driver {
	case "", "mysql":
		if on {
			_ = db.Exec("SET FOREIGN_KEY_CHECKS=1").Error
		} else {
			_ = db.Exec("SET FOREIGN_KEY_CHECKS=0").Error
		}
	case "sqlite":
		if on {
			_ = db.Exec("PRAGMA foreign_keys = ON").Error
		} else {
			_ = db.Exec("PRAGMA foreign_keys = OFF").Error
		}
	}
}

func resetSequence(db *gorm.DB, driver, table string) error {
	switch driver {
	case "postgres":
		return db.Exec(fmt.Sprintf(`ALTER SEQUENCE "%s_id_seq" RESTART WITH 1`, table)).Error
	case "sqlite":
		return db.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table).Error
	default:
		return db.Exec(fmt.Sprintf("ALTER TABLE %s AUTO_INCREMENT = 1", quote(driver, table))).Error
	}
}
