package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"stock_alert_backend/internal/app/di"
)

func main() {
	once := flag.Bool("once", false, "run a single monitoring cycle and exit")
	flag.Parse()

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once {
		report, err := app.Scheduler.RunCycle(ctx)
		if err != nil {
			cleanup()
			log.Fatal("cycle failed: ", err)
		}
		log.Printf("cycle ok: entries=%d alerts=%d failed=%d suppressed=%d duration=%s",
			len(report.Entries), report.AlertCount(), report.FailedCount(), report.SuppressedCount(), report.Duration())
		return
	}

	app.Scheduler.Run(ctx)
	log.Println("monitor stopped")
}
