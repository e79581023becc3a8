package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stock_alert_backend/internal/app/di"
	"stock_alert_backend/internal/app/router"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	deps, cleanup, err := di.LoadDeps()
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	app, err := di.NewApp(deps)
	if err != nil {
		log.Fatal(err)
	}

	// ルータ生成
	r := router.NewRouter(router.Handlers{
		Auth:      app.AuthHandler,
		Watchlist: app.WatchlistHandler,
		Alert:     app.AlertHandler,
		Health:    app.HealthHandler,
		Metrics:   promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}),
	}, deps.JWTSecret, router.CORSOriginsFromEnv())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 監視スケジューラはAPIと同じプロセスで動かす
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.Scheduler.Run(ctx)
	}()

	go func() {
		log.Println("[INFO] listening on", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Println("[ERROR] server stopped:", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("[INFO] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("[ERROR] graceful shutdown failed:", err)
	}
	// 実行中のサイクルの完了を待つ
	wg.Wait()
}
