// Package keepalive 定期呼叫遠端服務的健康檢查，避免服務閒置休眠
package keepalive

import (
	"context"
	"sync"
	"time"

	"cocktail-web/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultInterval 預設保活間隔
const DefaultInterval = 5 * time.Minute

// Pinger 可以被保活的服務
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status 最近一次保活結果
type Status struct {
	Running     bool      `json:"running"`
	Attempts    int       `json:"attempts"`
	LastAttempt time.Time `json:"last_attempt,omitempty"`
	LastSuccess time.Time `json:"last_success,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
}

// Service 保活服務
type Service struct {
	pinger   Pinger
	interval time.Duration
	now      func() time.Time

	mu     sync.RWMutex
	status Status
}

// NewService 創建保活服務
func NewService(pinger Pinger, interval time.Duration) *Service {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Service{
		pinger:   pinger,
		interval: interval,
		now:      time.Now,
	}
}

// Run 立即發送一次，之後每個間隔發送一次，直到 ctx 結束
func (s *Service) Run(ctx context.Context) {
	s.setRunning(true)
	defer s.setRunning(false)

	common.LogInfo("Keep-alive started", zap.Duration("interval", s.interval))

	s.ping(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			common.LogInfo("Keep-alive stopped")
			return
		case <-ticker.C:
			s.ping(ctx)
		}
	}
}

// ping 失敗只記錄，不影響其他功能
func (s *Service) ping(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	err := s.pinger.Ping(pingCtx)
	now := s.now()

	s.mu.Lock()
	s.status.Attempts++
	s.status.LastAttempt = now
	if err != nil {
		s.status.LastError = err.Error()
	} else {
		s.status.LastSuccess = now
		s.status.LastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		common.LogWarn("Keep-alive ping failed", common.ErrorFields(err)...)
		return
	}
	common.LogDebug("Keep-alive ping ok")
}

func (s *Service) setRunning(running bool) {
	s.mu.Lock()
	s.status.Running = running
	s.mu.Unlock()
}

// Status 取得目前狀態
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}
