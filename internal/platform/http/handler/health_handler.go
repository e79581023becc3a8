// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger はDB疎通確認を行います。*sql.DBが満たします。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler は /healthz を処理します。
type HealthHandler struct {
	db        Pinger
	scheduler func() string
	timeout   time.Duration
}

// NewHealthHandler は新しいHealthHandlerを生成します。
// db や scheduler が nil の場合、その項目は報告しません。
func NewHealthHandler(db Pinger, scheduler func() string) *HealthHandler {
	return &HealthHandler{db: db, scheduler: scheduler, timeout: 2 * time.Second}
}

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// DBに到達できない場合は503を返し、キャッシュを防止します。
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusNoContent)
		return
	}

	status := http.StatusOK
	body := gin.H{"status": "ok"}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			slog.Warn("health check: database unreachable", "error", err)
			status = http.StatusServiceUnavailable
			body["status"] = "unavailable"
			body["db"] = "error"
		} else {
			body["db"] = "ok"
		}
	}
	if h.scheduler != nil {
		body["scheduler"] = h.scheduler()
	}

	if c.Request.Method == http.MethodHead {
		c.Status(status)
		return
	}
	c.JSON(status, body)
}
