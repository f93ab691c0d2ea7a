package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	ginsessions "github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/bookworm/internal/config"
)

func newSessionTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ginsessions.Sessions(CookieName, cookie.NewStore([]byte("test-secret"))))

	router.GET("/in", func(c *gin.Context) {
		if err := LogIn(c, "user-42"); err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		c.Status(http.StatusNoContent)
	})
	router.GET("/out", func(c *gin.Context) {
		if err := LogOut(c); err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		c.Status(http.StatusNoContent)
	})
	router.GET("/whoami", func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			c.String(http.StatusUnauthorized, "anonymous")
			return
		}
		c.String(http.StatusOK, userID)
	})
	return router
}

func do(t *testing.T, router *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCurrentUserIDWithoutSession(t *testing.T) {
	router := newSessionTestRouter(t)

	rec := do(t, router, "/whoami", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestLogInThenCurrentUserID(t *testing.T) {
	router := newSessionTestRouter(t)

	in := do(t, router, "/in", nil)
	if in.Code != http.StatusNoContent {
		t.Fatalf("login failed: %d %s", in.Code, in.Body.String())
	}

	rec := do(t, router, "/whoami", in.Result().Cookies())
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if rec.Body.String() != "user-42" {
		t.Fatalf("user = %q, want user-42", rec.Body.String())
	}
}

func TestLogOutDestroysSession(t *testing.T) {
	router := newSessionTestRouter(t)

	in := do(t, router, "/in", nil)
	out := do(t, router, "/out", in.Result().Cookies())
	if out.Code != http.StatusNoContent {
		t.Fatalf("logout failed: %d %s", out.Code, out.Body.String())
	}

	// ログアウト後のクッキーではユーザーIDに解決できない
	rec := do(t, router, "/whoami", out.Result().Cookies())
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status after logout: %d %s", rec.Code, rec.Body.String())
	}
}

func TestNewStoreRejectsBadRedisURL(t *testing.T) {
	cfg := &config.Config{
		SessionStore:    config.SessionStoreRedis,
		SessionRedisURL: "not-a-url",
		SessionTTLHours: 12,
	}
	if _, err := NewStore(cfg); err == nil {
		t.Fatal("expected error for invalid redis url")
	}
}

func TestNewStoreCookieDefault(t *testing.T) {
	cfg := &config.Config{
		SessionStore:  config.SessionStoreCookie,
		SessionSecret: "test-secret",
	}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}
	if store == nil {
		t.Fatal("expected a store")
	}
}
