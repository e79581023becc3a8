// Package handler はwatchlistフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"stock_alert_backend/internal/feature/watchlist/domain/entity"
	"stock_alert_backend/internal/feature/watchlist/transport/http/dto"
	"stock_alert_backend/internal/feature/watchlist/usecase"
	jwtmw "stock_alert_backend/internal/platform/jwt"
)

// WatchlistUsecase はウォッチリスト操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはコンシューマー（handler）が定義します。
type WatchlistUsecase interface {
	Add(ctx context.Context, ownerID uint, symbol string, minPrice, maxPrice decimal.NullDecimal) (*entity.WatchEntry, error)
	ListForOwner(ctx context.Context, ownerID uint) ([]entity.WatchEntry, error)
	Update(ctx context.Context, ownerID, id uint, minPrice, maxPrice decimal.NullDecimal) (*entity.WatchEntry, error)
	Deactivate(ctx context.Context, ownerID, id uint) error
}

// WatchlistHandler はウォッチリストのHTTPリクエストを処理します。
type WatchlistHandler struct {
	uc WatchlistUsecase
}

// NewWatchlistHandler は新しいWatchlistHandlerを生成します。
func NewWatchlistHandler(uc WatchlistUsecase) *WatchlistHandler {
	return &WatchlistHandler{uc: uc}
}

// List はログインユーザーのアクティブなウォッチエントリを返します。
//
// GET /watchlist
func (h *WatchlistHandler) List(c *gin.Context) {
	ownerID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	entries, err := h.uc.ListForOwner(c.Request.Context(), ownerID)
	if err != nil {
		slog.Error("failed to list watch entries", "owner_id", ownerID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	out := make([]dto.WatchEntryRes, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.FromEntity(e))
	}
	c.JSON(http.StatusOK, out)
}

// Add は銘柄をウォッチリストに追加します。
//
// POST /watchlist
func (h *WatchlistHandler) Add(c *gin.Context) {
	ownerID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req dto.WatchEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	e, err := h.uc.Add(c.Request.Context(), ownerID, req.Symbol, req.MinPrice, req.MaxPrice)
	if err != nil {
		writeError(c, err)
		return
	}
	slog.Info("watch entry added", "owner_id", ownerID, "symbol", e.Symbol, "id", e.ID)
	c.JSON(http.StatusCreated, dto.FromEntity(*e))
}

// Update はウォッチエントリの閾値を更新します。
//
// PUT /watchlist/:id
func (h *WatchlistHandler) Update(c *gin.Context) {
	ownerID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req dto.WatchEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	e, err := h.uc.Update(c.Request.Context(), ownerID, id, req.MinPrice, req.MaxPrice)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(*e))
}

// Delete はウォッチエントリを論理削除します（is_active=false）。
//
// DELETE /watchlist/:id
func (h *WatchlistHandler) Delete(c *gin.Context) {
	ownerID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.uc.Deactivate(c.Request.Context(), ownerID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (uint, error) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(n), nil
}

// writeError はユースケースのエラーをHTTPステータスに変換します。
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidSymbol), errors.Is(err, usecase.ErrInvalidThresholds):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrAlreadyWatching):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrWatchEntryNotFound), errors.Is(err, usecase.ErrForbidden):
		// 他人のエントリの存在を漏らさないため、どちらも404とする
		c.JSON(http.StatusNotFound, gin.H{"error": "watch entry not found"})
	default:
		slog.Error("watchlist operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
