// Package router はHTTPルーティングを定義します。
package router

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	alerthandler "stock_alert_backend/internal/feature/alerts/transport/handler"
	authhandler "stock_alert_backend/internal/feature/auth/transport/handler"
	watchhandler "stock_alert_backend/internal/feature/watchlist/transport/handler"
	healthhandler "stock_alert_backend/internal/platform/http/handler"
	jwtmw "stock_alert_backend/internal/platform/jwt"
)

// EnvKeyCORSOrigins is a comma separated list of allowed browser origins.
const EnvKeyCORSOrigins = "CORS_ALLOWED_ORIGINS"

// Handlers are the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Auth      *authhandler.AuthHandler
	Watchlist *watchhandler.WatchlistHandler
	Alert     *alerthandler.AlertHandler
	Health    *healthhandler.HealthHandler
	Metrics   http.Handler
}

// CORSOriginsFromEnv parses CORS_ALLOWED_ORIGINS.
func CORSOriginsFromEnv() []string {
	var origins []string
	for _, o := range strings.Split(os.Getenv(EnvKeyCORSOrigins), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func NewRouter(h Handlers, jwtSecret string, corsOrigins []string) *gin.Engine {
	r := gin.Default()

	// ブラウザクライアントがある場合のみCORSを有効化
	if len(corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: corsOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	// 認証不要
	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}
	// 新規ユーザー登録
	r.POST("/signup", h.Auth.Signup)
	// ログイン（JWT 発行）
	r.POST("/login", h.Auth.Login)

	// 認証必須のルート
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired(jwtSecret))
	{
		auth.GET("/watchlist", h.Watchlist.List)
		auth.POST("/watchlist", h.Watchlist.Add)
		auth.PUT("/watchlist/:id", h.Watchlist.Update)
		auth.DELETE("/watchlist/:id", h.Watchlist.Delete)

		auth.GET("/alerts", h.Alert.List)
		auth.GET("/alerts/unread", h.Alert.Unread)
		auth.GET("/alerts/unread/count", h.Alert.UnreadCount)
		auth.PUT("/alerts/mark-read", h.Alert.MarkRead)
	}

	return r
}
