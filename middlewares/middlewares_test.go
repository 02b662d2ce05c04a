package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"civiceye-be/i18n"
	authUtils "civiceye-be/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func gatedRouter() *gin.Engine {
	r := gin.New()
	r.Use(Language())
	r.GET("/gov", GovernmentGate(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"officer": c.GetString(OfficerIDKey), "role": RoleFrom(c)})
	})
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return body
}

func TestGovernmentGate(t *testing.T) {
	officer, _ := authUtils.GenerateToken("o-1", "officer", testSecret, time.Hour)
	admin, _ := authUtils.GenerateToken("a-1", "admin", testSecret, time.Hour)
	citizen, _ := authUtils.GenerateToken("c-1", "citizen", testSecret, time.Hour)
	forged, _ := authUtils.GenerateToken("o-1", "officer", "wrong", time.Hour)

	tests := []struct {
		name   string
		header string
		cookie string
		status int
		role   string
	}{
		{name: "no credential", status: http.StatusUnauthorized},
		{name: "officer bearer", header: "Bearer " + officer, status: http.StatusOK, role: "officer"},
		{name: "admin bearer lowercase scheme", header: "bearer " + admin, status: http.StatusOK, role: "admin"},
		{name: "cookie", cookie: officer, status: http.StatusOK, role: "officer"},
		{name: "citizen role", header: "Bearer " + citizen, status: http.StatusUnauthorized},
		{name: "forged signature", header: "Bearer " + forged, status: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", status: http.StatusUnauthorized},
		{name: "raw token without scheme", header: officer, status: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/gov", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AuthCookie, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			gatedRouter().ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			if tt.status == http.StatusOK {
				if got := decode(t, w)["role"]; got != tt.role {
					t.Errorf("role = %v, want %s", got, tt.role)
				}
			}
		})
	}
}

func TestGovernmentGateLocalizesRejection(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/gov", nil)
	req.Header.Set("Accept-Language", "hi-IN")
	w := httptest.NewRecorder()
	gatedRouter().ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decode(t, w)["error"]; got != i18n.T(i18n.Hindi, i18n.MsgUnauthorized) {
		t.Errorf("error = %v, want Hindi message", got)
	}
	if w.Header().Get("Content-Language") != "hi" {
		t.Errorf("Content-Language = %q", w.Header().Get("Content-Language"))
	}
}

type fakeCounter struct {
	counts  map[string]int64
	expires map[string]time.Duration
	incrErr error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (f *fakeCounter) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.incrErr != nil {
		return redis.NewIntResult(0, f.incrErr)
	}
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeCounter) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.expires[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *fakeCounter) TTL(_ context.Context, key string) *redis.DurationCmd {
	return redis.NewDurationResult(f.expires[key], nil)
}

func limitedRouter(counter Counter, limit int) *gin.Engine {
	r := gin.New()
	r.POST("/issues", IssueRateLimiter(counter, "issue-limit", limit), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return r
}

func TestIssueRateLimiter(t *testing.T) {
	counter := newFakeCounter()
	r := limitedRouter(counter, 2)

	post := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/issues", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		if w := post("10.0.0.1"); w.Code != http.StatusCreated {
			t.Fatalf("request %d: status = %d", i, w.Code)
		}
	}
	w := post("10.0.0.1")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", w.Code)
	}
	if got := decode(t, w)["retry_after"]; got != (24 * time.Hour).Seconds() {
		t.Errorf("retry_after = %v", got)
	}
	if counter.expires["issue-limit:10.0.0.1"] != 24*time.Hour {
		t.Errorf("TTL not set on first increment: %v", counter.expires)
	}

	if w := post("10.0.0.2"); w.Code != http.StatusCreated {
		t.Errorf("other client status = %d, want 201", w.Code)
	}
}

func TestIssueRateLimiterRedisFailure(t *testing.T) {
	counter := newFakeCounter()
	counter.incrErr = errors.New("connection refused")

	req := httptest.NewRequest(http.MethodPost, "/issues", nil)
	w := httptest.NewRecorder()
	limitedRouter(counter, 5).ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(Language())
	r.POST("/upload", BodyLimit(16), func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.String(http.StatusOK, string(body))
	})

	tests := []struct {
		name          string
		body          string
		contentLength int64
		want          int
	}{
		{"within limit", "small", 5, http.StatusOK},
		{"declared too large", strings.Repeat("x", 32), 32, http.StatusRequestEntityTooLarge},
		{"undeclared too large", strings.Repeat("x", 32), -1, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/upload?lang=hi", strings.NewReader(tt.body))
			req.ContentLength = tt.contentLength
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/upload?lang=hi", strings.NewReader(strings.Repeat("x", 32)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := decode(t, w)["error"]; got != i18n.T(i18n.Hindi, i18n.MsgTooLarge) {
		t.Errorf("error = %v, want Hindi message", got)
	}
}
