// Package session 以 cookie 區分使用者，每個 session 擁有自己的表單流程
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cocktail-web/internal/core/form"
	"cocktail-web/internal/infrastructure/config"
	"cocktail-web/internal/pkg/common"

	"go.uber.org/zap"
)

// Factory 為 session id 建立新的表單流程
type Factory func(id string) *form.Flow

// SnapshotStore 保存表單快照，重啟後仍能判斷重複送出
type SnapshotStore interface {
	Load(ctx context.Context, id string) (*form.Snapshot, error)
	Save(ctx context.Context, id string, snap form.Snapshot) error
}

// Manager session 管理器
type Manager struct {
	config    config.SessionConfig
	factory   Factory
	snapshots SnapshotStore
	now       func() time.Time

	mu    sync.Mutex
	store map[string]*entry
	stats stats

	done      chan struct{}
	closeOnce sync.Once
}

// entry session 條目
type entry struct {
	flow        *form.Flow
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// stats session 統計
type stats struct {
	created   int64
	restored  int64
	evictions int64
	expired   int64
}

// NewManager 創建新的 session 管理器，snapshots 可為 nil
func NewManager(cfg config.SessionConfig, factory Factory, snapshots SnapshotStore) *Manager {
	m := &Manager{
		config:    cfg,
		factory:   factory,
		snapshots: snapshots,
		now:       time.Now,
		store:     make(map[string]*entry),
		done:      make(chan struct{}),
	}

	// 啟動清理過期 session 的協程
	go m.startCleanup()

	common.LogInfo("Session 管理員已初始化",
		zap.Int("max_size", cfg.MaxSize),
		zap.Duration("ttl", cfg.TTL),
		zap.Duration("cleanup_interval", cfg.CleanupInterval),
		zap.Bool("snapshots", snapshots != nil),
	)

	return m
}

// Get 取得 session 的表單流程，不存在時建立
func (m *Manager) Get(ctx context.Context, id string) *form.Flow {
	m.mu.Lock()
	if e, ok := m.store[id]; ok {
		if !m.expired(e) {
			e.lastAccess = m.now()
			e.accessCount++
			m.mu.Unlock()
			return e.flow
		}
		m.removeLocked(id, e)
		m.stats.expired++
	}
	m.mu.Unlock()

	flow := m.factory(id)
	restored := m.restore(ctx, id, flow)

	m.mu.Lock()
	defer m.mu.Unlock()

	// 其他請求可能已經建立
	if e, ok := m.store[id]; ok && !m.expired(e) {
		e.lastAccess = m.now()
		e.accessCount++
		return e.flow
	}

	if len(m.store) >= m.config.MaxSize {
		m.cleanupLocked()
		for len(m.store) >= m.config.MaxSize {
			m.evictLRU()
		}
	}

	now := m.now()
	m.store[id] = &entry{
		flow:       flow,
		createdAt:  now,
		lastAccess: now,
	}
	m.stats.created++
	if restored {
		m.stats.restored++
	}
	return flow
}

// Save 寫入表單快照，沒有設定快照存放處時略過；錯誤由呼叫端記錄
func (m *Manager) Save(ctx context.Context, id string) error {
	if m.snapshots == nil {
		return nil
	}

	m.mu.Lock()
	e, ok := m.store[id]
	m.mu.Unlock()
	if !ok {
		return nil
	}

	if err := m.snapshots.Save(ctx, id, e.flow.Snapshot()); err != nil {
		return fmt.Errorf("save snapshot of session %s: %w", id, err)
	}
	return nil
}

// restore 從快照恢復，失敗只記錄
func (m *Manager) restore(ctx context.Context, id string, flow *form.Flow) bool {
	if m.snapshots == nil {
		return false
	}

	snap, err := m.snapshots.Load(ctx, id)
	if err != nil {
		common.LogWarn("Session 快照讀取失敗", zap.String("session", id), zap.Error(err))
		return false
	}
	if snap == nil {
		return false
	}
	return flow.Restore(*snap)
}

// Len 目前 session 數量
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store)
}

func (m *Manager) expired(e *entry) bool {
	return m.now().Sub(e.lastAccess) > m.config.TTL
}

// removeLocked 移除並重置流程，讓進行中的請求結果被丟棄
func (m *Manager) removeLocked(id string, e *entry) {
	delete(m.store, id)
	e.flow.Reset()
}

// startCleanup 定期清理過期 session
func (m *Manager) startCleanup() {
	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.mu.Lock()
			m.cleanupLocked()
			m.mu.Unlock()
		}
	}
}

// cleanupLocked 清理過期的 session
func (m *Manager) cleanupLocked() int {
	count := 0
	for id, e := range m.store {
		if m.expired(e) {
			m.removeLocked(id, e)
			count++
		}
	}

	if count > 0 {
		m.stats.expired += int64(count)
		common.LogInfo("Cleaned up expired sessions",
			zap.Int("count", count),
			zap.Int("remaining_size", len(m.store)),
		)
	}
	return count
}

// evictLRU 淘汰最久沒有使用的 session
func (m *Manager) evictLRU() {
	var oldestID string
	var oldest *entry

	for id, e := range m.store {
		if oldest == nil || e.lastAccess.Before(oldest.lastAccess) {
			oldestID = id
			oldest = e
		}
	}

	if oldest != nil {
		m.removeLocked(oldestID, oldest)
		m.stats.evictions++
		common.LogInfo("Session 已淘汰(LRU)", zap.String("session", oldestID))
	}
}

// GetStats 獲取 session 統計信息
func (m *Manager) GetStats() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	return map[string]interface{}{
		"size":      len(m.store),
		"max_size":  m.config.MaxSize,
		"created":   m.stats.created,
		"restored":  m.stats.restored,
		"evictions": m.stats.evictions,
		"expired":   m.stats.expired,
	}
}

// Close 停止清理並重置所有流程
func (m *Manager) Close() error {
	m.closeOnce.Do(func() { close(m.done) })

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, e := range m.store {
		m.removeLocked(id, e)
	}
	common.LogInfo("Session 管理員已關閉",
		zap.Int64("created", m.stats.created),
		zap.Int64("evictions", m.stats.evictions),
		zap.Int64("expired", m.stats.expired),
	)
	return nil
}
