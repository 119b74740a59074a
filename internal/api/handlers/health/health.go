package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"cocktail-web/internal/core/keepalive"
	"cocktail-web/internal/infrastructure/config"
	"cocktail-web/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger 可檢查連線的依賴
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusSource 提供保活狀態
type StatusSource interface {
	Status() keepalive.Status
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Store     string                 `json:"store"`
	KeepAlive *keepalive.Status      `json:"keepalive,omitempty"`
	Sessions  map[string]interface{} `json:"sessions,omitempty"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// Handler 健康檢查處理器
type Handler struct {
	cfg       *config.Config
	store     Pinger
	keepAlive StatusSource
	sessions  func() map[string]interface{}
}

// NewHandler 創建健康檢查處理器，keepAlive 與 sessions 可為 nil
func NewHandler(cfg *config.Config, store Pinger, keepAlive StatusSource, sessions func() map[string]interface{}) *Handler {
	return &Handler{cfg: cfg, store: store, keepAlive: keepAlive, sessions: sessions}
}

// HealthCheck 回傳版本、保活狀態與本地資料庫狀態
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.cfg.App.Version,
		Store:     "ok",
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	if err := h.store.Ping(c.Request.Context()); err != nil {
		common.LogWarn("Store ping failed", common.ErrorFields(err)...)
		response.Status = "degraded"
		response.Store = "unavailable"
	}

	// 遠端服務失敗不影響本服務的健康狀態
	if h.keepAlive != nil {
		status := h.keepAlive.Status()
		response.KeepAlive = &status
	}
	if h.sessions != nil {
		response.Sessions = h.sessions()
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("status", response.Status),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 本地資料庫可用才算就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, common.ErrServiceUnavailable.Response())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
