// Package handler はalertsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stock_alert_backend/internal/feature/alerts/domain/entity"
	"stock_alert_backend/internal/feature/alerts/transport/http/dto"
	"stock_alert_backend/internal/feature/alerts/usecase"
	jwtmw "stock_alert_backend/internal/platform/jwt"
)

// AlertUsecase はアラート閲覧・既読化のユースケースを定義します。
type AlertUsecase interface {
	ListForOwner(ctx context.Context, ownerID uint, page, size int) ([]entity.Alert, error)
	ListUnreadForOwner(ctx context.Context, ownerID uint) ([]entity.Alert, error)
	CountUnread(ctx context.Context, ownerID uint) (int64, error)
	MarkRead(ctx context.Context, ownerID uint, ids []uint) error
}

// AlertHandler はアラートのHTTPリクエストを処理します。
type AlertHandler struct {
	uc AlertUsecase
}

// NewAlertHandler は新しいAlertHandlerを生成します。
func NewAlertHandler(uc AlertUsecase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// List はアラートをページ単位で返します。
//
// GET /alerts?page=0&size=20
func (h *AlertHandler) List(c *gin.Context) {
	ownerID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	// 不正な値は0になり、usecase側でデフォルトに置き換えられる
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(usecase.DefaultPageSize)))

	alerts, err := h.uc.ListForOwner(c.Request.Context(), ownerID, page, size)
	if err != nil {
		slog.Error("failed to list alerts", "owner_id", ownerID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.FromEntities(alerts))
}

// Unread は未読アラートを返します。
//
// GET /alerts/unread
func (h *AlertHandler) Unread(c *gin.Context) {
	ownerID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	alerts, err := h.uc.ListUnreadForOwner(c.Request.Context(), ownerID)
	if err != nil {
		slog.Error("failed to list unread alerts", "owner_id", ownerID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.FromEntities(alerts))
}

// UnreadCount は未読アラート数を返します。
//
// GET /alerts/unread/count
func (h *AlertHandler) UnreadCount(c *gin.Context) {
	ownerID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	n, err := h.uc.CountUnread(c.Request.Context(), ownerID)
	if err != nil {
		slog.Error("failed to count unread alerts", "owner_id", ownerID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.UnreadCountRes{Count: n})
}

// MarkRead はリクエストボディのID配列を既読にします。
// 他人のIDや存在しないIDは無視されます。
//
// PUT /alerts/mark-read
func (h *AlertHandler) MarkRead(c *gin.Context) {
	ownerID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var ids []uint
	if err := c.ShouldBindJSON(&ids); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.uc.MarkRead(c.Request.Context(), ownerID, ids); err != nil {
		slog.Error("failed to mark alerts read", "owner_id", ownerID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}
