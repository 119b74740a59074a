package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"cocktail-web/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter 令牌桶限流器
type RateLimiter struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	rate     float64
	lastTime time.Time
	now      func() time.Time
}

// NewRateLimiter 創建新的限流器
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:   float64(requests),
		capacity: float64(requests),
		rate:     float64(requests) / window.Seconds(),
		lastTime: time.Now(),
		now:      time.Now,
	}
}

// Allow 檢查是否允許請求
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	elapsed := now.Sub(rl.lastTime).Seconds()
	rl.lastTime = now

	// 添加新令牌
	rl.tokens = min(rl.capacity, rl.tokens+elapsed*rl.rate)

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// idle 距離上次請求的時間
func (rl *RateLimiter) idle(now time.Time) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return now.Sub(rl.lastTime)
}

// ClientLimiters 每個客戶端一個令牌桶，閒置超過 window 的會被清掉
type ClientLimiters struct {
	requests int
	window   time.Duration
	now      func() time.Time

	mu        sync.Mutex
	limiters  map[string]*RateLimiter
	lastSweep time.Time
}

// NewClientLimiters 創建依客戶端區分的限流器
func NewClientLimiters(requests int, window time.Duration) *ClientLimiters {
	return &ClientLimiters{
		requests: requests,
		window:   window,
		now:      time.Now,
		limiters: make(map[string]*RateLimiter),
	}
}

// Allow 檢查客戶端是否允許請求
func (cl *ClientLimiters) Allow(client string) bool {
	cl.mu.Lock()
	now := cl.now()

	// 閒置超過 window 的桶已經補滿，刪掉等同重建
	if now.Sub(cl.lastSweep) > cl.window {
		for k, l := range cl.limiters {
			if l.idle(now) >= cl.window {
				delete(cl.limiters, k)
			}
		}
		cl.lastSweep = now
	}

	l, ok := cl.limiters[client]
	if !ok {
		l = NewRateLimiter(cl.requests, cl.window)
		l.now = cl.now
		l.lastTime = now
		cl.limiters[client] = l
	}
	cl.mu.Unlock()

	return l.Allow()
}

// Len 目前追蹤的客戶端數量
func (cl *ClientLimiters) Len() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.limiters)
}

// RateLimit 依客戶端 IP 限流的中間件
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	limiters := NewClientLimiters(requests, window)

	return func(c *gin.Context) {
		if !limiters.Allow(c.ClientIP()) {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrTooManyRequests.Response())
			return
		}

		c.Next()
	}
}
