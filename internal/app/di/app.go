package di

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	alertadapters "stock_alert_backend/internal/feature/alerts/adapters"
	alerthandler "stock_alert_backend/internal/feature/alerts/transport/handler"
	alertusecase "stock_alert_backend/internal/feature/alerts/usecase"
	authadapters "stock_alert_backend/internal/feature/auth/adapters"
	authhandler "stock_alert_backend/internal/feature/auth/transport/handler"
	authusecase "stock_alert_backend/internal/feature/auth/usecase"
	monitoringusecase "stock_alert_backend/internal/feature/monitoring/usecase"
	watchadapters "stock_alert_backend/internal/feature/watchlist/adapters"
	watchhandler "stock_alert_backend/internal/feature/watchlist/transport/handler"
	watchusecase "stock_alert_backend/internal/feature/watchlist/usecase"
	"stock_alert_backend/internal/platform/cache"
	healthhandler "stock_alert_backend/internal/platform/http/handler"
	jwtmw "stock_alert_backend/internal/platform/jwt"
	"stock_alert_backend/internal/platform/metrics"
)

// unreadCacheTTL bounds staleness if an invalidation is lost.
const unreadCacheTTL = 5 * time.Minute

// Deps are the externally created resources the application is built from.
type Deps struct {
	DB *gorm.DB
	// Redis is optional. nil disables the cache and selects in-process limiter and dedup.
	Redis  *redis.Client
	Prices monitoringusecase.PriceSource
	// Registry defaults to a fresh registry with Go and process collectors.
	Registry       *prometheus.Registry
	Monitor        monitoringusecase.Config
	QuoteRateLimit int
	JWTSecret      string
}

// App holds the wired usecases, handlers and the monitoring scheduler.
type App struct {
	Registry  *prometheus.Registry
	Watchlist *watchusecase.WatchlistUsecase
	Alerts    *alertusecase.AlertUsecase
	Auth      *authusecase.AuthUsecase
	Scheduler *monitoringusecase.Scheduler

	AuthHandler      *authhandler.AuthHandler
	WatchlistHandler *watchhandler.WatchlistHandler
	AlertHandler     *alerthandler.AlertHandler
	HealthHandler    *healthhandler.HealthHandler
}

// NewApp wires every component on top of d.
func NewApp(d Deps) (*App, error) {
	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	// Repository
	userRepo := authadapters.NewUserRepository(d.DB)
	watchRepo := watchadapters.NewWatchEntryRepository(d.DB)
	alertRepo := alertadapters.NewAlertRepository(d.DB)

	// Redisキャッシュでラップ
	cachedAlertRepo := cache.NewCachingAlertRepository(d.Redis, unreadCacheTTL, alertRepo, "alerts")

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, jwtmw.NewGenerator(d.JWTSecret, jwtmw.DefaultExpiration))
	watchUC := watchusecase.NewWatchlistUsecase(watchRepo)
	alertUC := alertusecase.NewAlertUsecase(cachedAlertRepo)

	collector := metrics.NewMonitoringCollector(reg)
	scheduler := monitoringusecase.NewScheduler(d.Monitor, watchUC, d.Prices, alertUC,
		monitoringusecase.WithLimiter(NewLimiter(d.Redis, d.QuoteRateLimit)),
		monitoringusecase.WithDeduplicator(NewDeduplicator(d.Redis)),
		monitoringusecase.WithObserver(collector),
	)

	sqlDB, err := d.DB.DB()
	if err != nil {
		return nil, err
	}

	return &App{
		Registry:  reg,
		Watchlist: watchUC,
		Alerts:    alertUC,
		Auth:      authUC,
		Scheduler: scheduler,

		AuthHandler:      authhandler.NewAuthHandler(authUC),
		WatchlistHandler: watchhandler.NewWatchlistHandler(watchUC),
		AlertHandler:     alerthandler.NewAlertHandler(alertUC),
		HealthHandler:    healthhandler.NewHealthHandler(sqlDB, func() string { return scheduler.State().String() }),
	}, nil
}
