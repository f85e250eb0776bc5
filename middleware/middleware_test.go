package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roomm8/models"
	"roomm8/services/session"
	"roomm8/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.Logger = zap.NewNop()
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "10.0.0.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiterEvictsIdleIPs(t *testing.T) {
	now := time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)
	store := newRateLimiterStore(2)
	store.now = func() time.Time { return now }

	store.getLimiter("10.0.0.1")
	store.getLimiter("10.0.0.2")
	assert.Equal(t, 2, store.len())

	now = now.Add(time.Minute)
	store.getLimiter("10.0.0.2")

	now = now.Add(limiterIdle + time.Second)
	store.getLimiter("10.0.0.3")
	assert.Equal(t, 1, store.len())

	// An active IP keeps its bucket.
	lim := store.getLimiter("10.0.0.3")
	assert.Same(t, lim, store.getLimiter("10.0.0.3"))
}

func newSessionRouter(manager *session.Manager, guards ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(SessionMiddleware(manager, CookieOptions{MaxAge: 3600}))
	handlers := append(guards, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(utils.ContextSessionID))
	})
	r.GET("/", handlers...)
	return r
}

func TestSessionMiddlewareIssuesAndReusesCookie(t *testing.T) {
	manager := session.NewManager(session.NewMemoryStore(), time.Hour, nil)
	r := newSessionRouter(manager)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, utils.SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	id := cookies[0].Value
	assert.Equal(t, id, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: id})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, id, w.Body.String())
	assert.Equal(t, 1, manager.Len())
}

func TestSessionMiddlewareReplacesMalformedCookie(t *testing.T) {
	manager := session.NewManager(session.NewMemoryStore(), time.Hour, nil)
	r := newSessionRouter(manager)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: "../../etc"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "../../etc", w.Body.String())
}

func TestRequireRole(t *testing.T) {
	store := session.NewMemoryStore()
	manager := session.NewManager(store, time.Hour, nil)
	r := newSessionRouter(manager, RequireRole(models.RoleAdmin))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	id := w.Result().Cookies()[0].Value

	ws, err := manager.Get(context.Background(), id)
	require.NoError(t, err)
	require.NoError(t, ws.Gate.Login(context.Background(), models.UserIdentity{Email: "g@b.c", Role: models.RoleGuest}, ""))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: id})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, ws.Gate.Login(context.Background(), models.UserIdentity{Email: "a@b.c", Role: models.RoleAdmin}, ""))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
