package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cocktail-web/internal/api"
	"cocktail-web/internal/core/cocktail"
	"cocktail-web/internal/core/form"
	"cocktail-web/internal/core/keepalive"
	"cocktail-web/internal/core/presentation"
	"cocktail-web/internal/core/session"
	"cocktail-web/internal/infrastructure/config"
	"cocktail-web/internal/infrastructure/store"
	"cocktail-web/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（包含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogDir); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("api_url", cfg.Remote.APIURL),
		zap.String("store_path", cfg.Store.Path),
		zap.Bool("keepalive", cfg.KeepAlive.Enabled),
		zap.Bool("redis", cfg.Session.Redis.Enabled),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 本地食譜資料庫
	recipes, err := store.Open(cfg.Store.Path)
	if err != nil {
		common.LogError("Failed to open store", common.ErrorFields(err)...)
		os.Exit(1)
	}
	defer recipes.Close()

	client := cocktail.NewClient(cfg)

	// 保活
	var keepAlive *keepalive.Service
	if cfg.KeepAlive.Enabled {
		keepAlive = keepalive.NewService(client, cfg.KeepAlive.Interval)
		go keepAlive.Run(ctx)
	}

	// session 快照（可選）
	var snapshots session.SnapshotStore
	if cfg.Session.Redis.Enabled {
		redisStore, err := session.NewRedisStore(ctx, cfg.Session)
		if err != nil {
			common.LogWarn("Redis unavailable, sessions kept in memory only", zap.Error(err))
		} else {
			snapshots = redisStore
			defer redisStore.Close()
		}
	}

	sessions := session.NewManager(cfg.Session, func(id string) *form.Flow {
		return form.NewFlow(id, client, recipes)
	}, snapshots)
	defer sessions.Close()

	// 設置路由
	router, err := api.SetupRouter(cfg, api.Deps{
		Store:     recipes,
		Sessions:  sessions,
		Tips:      presentation.DefaultTips(),
		KeepAlive: keepAlive,
	})
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	serveErr := make(chan error, 1)
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// 等待中斷信號
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		common.LogError("Failed to start server", zap.Error(err))
		return
	}

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}
