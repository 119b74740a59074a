package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiterRefills(t *testing.T) {
	rl := NewRateLimiter(2, time.Second)
	clock := time.Now()
	rl.lastTime = clock
	rl.now = func() time.Time { return clock }

	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())

	clock = clock.Add(500 * time.Millisecond)
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())
}

func TestClientLimitersSweepIdleClients(t *testing.T) {
	cl := NewClientLimiters(1, time.Minute)
	clock := time.Now()
	cl.now = func() time.Time { return clock }

	assert.True(t, cl.Allow("10.0.0.1"))
	assert.False(t, cl.Allow("10.0.0.1"))
	assert.True(t, cl.Allow("10.0.0.2"))
	assert.Equal(t, 2, cl.Len())

	clock = clock.Add(30 * time.Second)
	assert.False(t, cl.Allow("10.0.0.2"))

	// 10.0.0.1 閒置超過 window 被清掉，10.0.0.2 仍保留
	clock = clock.Add(45 * time.Second)
	assert.True(t, cl.Allow("10.0.0.3"))
	assert.Equal(t, 2, cl.Len())
	assert.True(t, cl.Allow("10.0.0.1"))
	assert.Equal(t, 3, cl.Len())
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(1, time.Minute))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestDeduplicatorWindow(t *testing.T) {
	d := NewDeduplicator(time.Second)
	clock := time.Now()
	d.now = func() time.Time { return clock }

	assert.False(t, d.Seen("a"))
	assert.True(t, d.Seen("a"))
	assert.False(t, d.Seen("b"))

	clock = clock.Add(2 * time.Second)
	assert.False(t, d.Seen("a"))
}

func TestDeduplicationMiddleware(t *testing.T) {
	hits := 0
	r := gin.New()
	r.Use(Session("sid", time.Hour, false))
	r.Use(Deduplication(time.Minute))
	r.POST("/cocktails", func(c *gin.Context) {
		hits++
		c.Status(http.StatusOK)
	})
	r.POST("/api/v1/thing", func(c *gin.Context) { c.Status(http.StatusOK) })

	post := func(path, body, cookie string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: "sid", Value: cookie})
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	const session = "0b9e7f3a-8a47-4b8e-9a55-0e8f1a6a2b11"
	assert.Equal(t, http.StatusOK, post("/cocktails", "mixers=tonic", session).Code)

	w := post("/cocktails", "mixers=tonic", session)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	assert.Equal(t, http.StatusOK, post("/cocktails", "mixers=soda", session).Code)
	assert.Equal(t, 2, hits)

	assert.Equal(t, http.StatusOK, post("/api/v1/thing", "{}", session).Code)
	assert.Equal(t, http.StatusTooManyRequests, post("/api/v1/thing", "{}", session).Code)
}

func TestSessionCookie(t *testing.T) {
	var seen string
	r := gin.New()
	r.Use(Session("sid", time.Hour, false))
	r.GET("/", func(c *gin.Context) {
		seen = SessionID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, seen, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	// 已有合法 cookie 時沿用
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, cookies[0].Value, seen)

	// 不合法的值會被換掉
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "../etc"})
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "../etc", seen)
}

func TestBodySizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodySizeLimit(4))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too large")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
