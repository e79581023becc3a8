package usecase

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultInterval = 60 * time.Second
	defaultWorkers  = 4
)

// Config holds the monitoring cadence and per-cycle concurrency.
type Config struct {
	Interval    time.Duration // delay between the end of one cycle and the start of the next
	Workers     int           // entries processed in parallel within a cycle
	DedupWindow time.Duration // 0 disables suppression of repeated crossings
}

// LoadConfig reads MONITOR_INTERVAL, MONITOR_WORKERS and MONITOR_DEDUP_WINDOW.
// Invalid values fall back to the defaults with a warning.
func LoadConfig() Config {
	cfg := Config{Interval: defaultInterval, Workers: defaultWorkers}

	if v := os.Getenv("MONITOR_INTERVAL"); v != "" {
		d, err := ParseDelay(v)
		if err != nil || d <= 0 {
			slog.Warn("invalid MONITOR_INTERVAL, using default", "value", v, "default", defaultInterval)
		} else {
			cfg.Interval = d
		}
	}
	if v := os.Getenv("MONITOR_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			slog.Warn("invalid MONITOR_WORKERS, using default", "value", v, "default", defaultWorkers)
		} else {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("MONITOR_DEDUP_WINDOW"); v != "" {
		d, err := ParseDelay(v)
		if err != nil || d < 0 {
			slog.Warn("invalid MONITOR_DEDUP_WINDOW, dedup disabled", "value", v)
		} else {
			cfg.DedupWindow = d
		}
	}
	return cfg
}

// ParseDelay accepts either a Go duration ("90s", "1m30s") or a bare number of milliseconds ("60000").
func ParseDelay(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parse delay %q: %w", s, err)
	}
	return d, nil
}
