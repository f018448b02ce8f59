package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eventsdiscovery/internal/logging"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func echoBody(c *gin.Context) {
	b, _ := io.ReadAll(c.Request.Body)
	c.String(http.StatusOK, string(b))
}

func TestSanitize(t *testing.T) {
	r := gin.New()
	r.Use(SanitizeAndCleanInputMiddleware())
	r.POST("/", echoBody)

	tests := []struct {
		name     string
		body     string
		wantCode int
		want     string
	}{
		{"object", `{"title":"<script>x()</script>Hi","n":3}`, http.StatusOK, `{"n":3,"title":"Hi"}`},
		{"array", `[{"title":"<b>A</b>"},{"title":"B"}]`, http.StatusOK, `[{"title":"A"},{"title":"B"}]`},
		{"nested", `{"meta":{"tags":["<i>x</i>"]}}`, http.StatusOK, `{"meta":{"tags":["x"]}}`},
		{"malformed", `{"title":`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)))
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d", w.Code)
			}
			if tt.want != "" && w.Body.String() != tt.want {
				t.Fatalf("body = %s, want %s", w.Body.String(), tt.want)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, logging.RequestID(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "upstream-1")
	r.ServeHTTP(w, req)
	if w.Header().Get(HeaderRequestID) != "upstream-1" || w.Body.String() != "upstream-1" {
		t.Fatalf("header %q body %q", w.Header().Get(HeaderRequestID), w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if id := w.Header().Get(HeaderRequestID); len(id) != 36 || id != w.Body.String() {
		t.Fatalf("generated id %q body %q", id, w.Body.String())
	}
}

func TestRateLimiter_PerIPAndRefill(t *testing.T) {
	clock := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(60, 2)
	rl.now = func() time.Time { return clock }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatalf("burst should allow two")
	}
	if rl.Allow("a") {
		t.Fatalf("third request should be limited")
	}
	if !rl.Allow("b") {
		t.Fatalf("other ip should have its own bucket")
	}

	clock = clock.Add(time.Second)
	if !rl.Allow("a") {
		t.Fatalf("token should refill after a second")
	}
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) { c.Set(CtxRole, "user"); c.Next() }, RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestNewRateLimiter_ZeroRateDisables(t *testing.T) {
	rl := NewRateLimiter(0, 5)
	if rl != nil {
		t.Fatalf("expected nil limiter for zero rate")
	}

	r := gin.New()
	r.POST("/", RateLimit(rl), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("request %d = %d", i, w.Code)
		}
	}
}

func TestSanitize_KeepsPlainTextUnescaped(t *testing.T) {
	r := gin.New()
	r.Use(SanitizeAndCleanInputMiddleware())
	r.POST("/", echoBody)

	w := httptest.NewRecorder()
	body := `{"title":"Rock & Roll <b>Night</b>","description":"Tom's \"jam\""}`
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	want := `{"description":"Tom's \"jam\"","title":"Rock \u0026 Roll Night"}`
	if w.Body.String() != want {
		t.Fatalf("body = %s, want %s", w.Body.String(), want)
	}
}
