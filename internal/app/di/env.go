package di

import (
	"log"
	"os"

	"github.com/redis/go-redis/v9"

	monitoringusecase "stock_alert_backend/internal/feature/monitoring/usecase"
	"stock_alert_backend/internal/platform/db"
	jwtmw "stock_alert_backend/internal/platform/jwt"
	infraredis "stock_alert_backend/internal/platform/redis"
)

// LoadDeps opens the database, the optional Redis client and the quote client
// from environment variables. The returned func closes what was opened.
func LoadDeps() (Deps, func(), error) {
	gdb, err := db.Open(db.LoadConfigFromEnv())
	if err != nil {
		return Deps{}, nil, err
	}
	closers := []func(){func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// Redis
	var rdb *redis.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache; rate limit and dedup are per process.")
	} else {
		rdb = tmp
		closers = append(closers, func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		})
	}

	monitorCfg := monitoringusecase.LoadConfig()
	prices, err := NewPriceSource(QuoteProviderFromEnv(), monitorCfg.Workers)
	if err != nil {
		cleanup()
		return Deps{}, nil, err
	}

	// JWT_SECRETチェック（開発中の注意喚起）
	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	return Deps{
		DB:             gdb,
		Redis:          rdb,
		Prices:         prices,
		Monitor:        monitorCfg,
		QuoteRateLimit: QuoteRateLimitFromEnv(),
		JWTSecret:      secret,
	}, cleanup, nil
}
