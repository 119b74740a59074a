package api

import (
	"embed"
	"fmt"
	"html/template"
	"slices"
	"strconv"
	"time"

	"cocktail-web/internal/api/handlers/cocktail"
	"cocktail-web/internal/api/handlers/health"
	"cocktail-web/internal/api/middleware"
	"cocktail-web/internal/core/form"
	"cocktail-web/internal/core/keepalive"
	"cocktail-web/internal/core/presentation"
	"cocktail-web/internal/core/session"
	"cocktail-web/internal/infrastructure/config"
	"cocktail-web/internal/infrastructure/store"
	"cocktail-web/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 請求體大小限制 (1MB)
	maxBodySize = 1 << 20
)

//go:embed templates/*.html
var templatesFS embed.FS

// Deps 路由需要的服務
type Deps struct {
	Store     *store.Store
	Sessions  *session.Manager
	Tips      *presentation.TipTable
	KeepAlive *keepalive.Service
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Deps) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if deps.Store == nil || deps.Sessions == nil {
		return nil, fmt.Errorf("store and sessions are required")
	}
	if deps.Tips == nil {
		deps.Tips = presentation.DefaultTips()
	}

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Session(cfg.Session.CookieName, cfg.Session.TTL, cfg.IsProduction()))
	router.Use(middleware.Deduplication(cfg.DedupWindow))

	var keepAlive health.StatusSource
	if deps.KeepAlive != nil {
		keepAlive = deps.KeepAlive
	}

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg, deps.Store, keepAlive, deps.Sessions.GetStats)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	h := cocktail.NewHandler(deps.Store, deps.Sessions, deps.Tips, cfg.App.Name)

	// 頁面路由
	router.GET("/", h.Index)
	cocktails := router.Group("/cocktails")
	{
		cocktails.POST("", h.Create)
		cocktails.POST("/retry", h.Retry)
		cocktails.POST("/cancel", h.Cancel)
		cocktails.POST("/reset", h.Reset)
	}
	account := router.Group("/account")
	{
		account.GET("/cocktails", h.History)
		account.POST("/cocktails/:id/delete", h.DeleteFromHistory)
	}

	// API 路由組
	api := router.Group("/api/v1")
	{
		api.GET("/cocktails", h.ListJSON)
		api.DELETE("/cocktails/:id", h.DeleteJSON)
		api.GET("/tips/:keyword", h.Tip)
		api.GET("/options", h.Options)
		api.GET("/form", h.FormState)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("keepalive_enabled", deps.KeepAlive != nil),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}

// loadTemplates 載入內嵌的頁面模板
func loadTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"contains": slices.Contains[[]string, string],
		"formatCost": func(cost float64) string {
			if cost <= 0 {
				return "-"
			}
			return "$" + strconv.FormatFloat(cost, 'f', 2, 64)
		},
		"maxMixers":  func() int { return form.MaxMixers },
		"maxSpirits": func() int { return form.MaxSpirits },
		"maxTools":   func() int { return form.MaxTools },
	}
	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}
