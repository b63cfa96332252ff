package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"sms-gateway/backend/internal/policy/engine"
	"sms-gateway/backend/internal/security"
)

type stubSubs map[string]bool

func (s stubSubs) SubscriptionActive(_ context.Context, userID string) (bool, bool, error) {
	if userID == "broken" {
		return false, false, errors.New("db down")
	}
	active, ok := s[userID]
	return ok, active, nil
}

func newAccessRouter(t *testing.T, tokens *security.TokenProvider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	eval, err := engine.NewOPAEvaluator(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	subs := stubSubs{"active": true, "expired": false, "broken": true}
	r := gin.New()
	r.Use(Authenticate(tokens, "token"))
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"user": UserID(c)}) }
	r.GET("/api/dashboard", RequireAccess(eval, subs, engine.GroupUser), ok)
	r.GET("/api/admin/users", RequireAccess(eval, subs, engine.GroupAdmin), ok)
	r.POST("/api/messages", RequireDeviceKey("phone-key"), RequireAccess(eval, subs, engine.GroupDevice), ok)
	return r
}

func issue(t *testing.T, tokens *security.TokenProvider, subject string, kind security.Kind) string {
	t.Helper()
	tok, _, err := tokens.Issue(subject, kind, string(kind))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestRequireAccess(t *testing.T) {
	tokens := security.NewTestHMACTokenProvider()
	r := newAccessRouter(t, tokens)
	userTok := issue(t, tokens, "active", security.KindUser)
	expiredTok := issue(t, tokens, "expired", security.KindUser)
	goneTok := issue(t, tokens, "deleted", security.KindUser)
	brokenTok := issue(t, tokens, "broken", security.KindUser)
	adminTok := issue(t, tokens, "admin", security.KindAdmin)

	testCases := []struct {
		name       string
		path       string
		cookie     string
		bearer     string
		wantStatus int
		wantError  string
	}{
		{"no token", "/api/dashboard", "", "", http.StatusUnauthorized, "No token provided"},
		{"garbage token", "/api/dashboard", "not-a-jwt", "", http.StatusUnauthorized, "Unauthorized"},
		{"user via cookie", "/api/dashboard", userTok, "", http.StatusOK, ""},
		{"user via bearer", "/api/dashboard", "", userTok, http.StatusOK, ""},
		{"expired subscription", "/api/dashboard", expiredTok, "", http.StatusForbidden, "User subscription has expired"},
		{"deleted user", "/api/dashboard", goneTok, "", http.StatusUnauthorized, "Unauthorized"},
		{"store failure", "/api/dashboard", brokenTok, "", http.StatusInternalServerError, "Internal Server Error"},
		{"admin on user route", "/api/dashboard", adminTok, "", http.StatusForbidden, "Forbidden"},
		{"admin route", "/api/admin/users", adminTok, "", http.StatusOK, ""},
		{"user on admin route", "/api/admin/users", userTok, "", http.StatusForbidden, "Forbidden"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tc.cookie})
			}
			if tc.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tc.bearer)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.wantStatus, w.Body.String())
			}
			if tc.wantError == "" {
				return
			}
			var body map[string]string
			_ = json.Unmarshal(w.Body.Bytes(), &body)
			if body["error"] != tc.wantError {
				t.Errorf("error = %q, want %q", body["error"], tc.wantError)
			}
		})
	}
}

func TestRequireDeviceKey(t *testing.T) {
	r := newAccessRouter(t, security.NewTestHMACTokenProvider())
	testCases := []struct {
		key  string
		want int
	}{
		{"", http.StatusUnauthorized},
		{"wrong", http.StatusUnauthorized},
		{"phone-key", http.StatusOK},
	}
	for _, tc := range testCases {
		req := httptest.NewRequest(http.MethodPost, "/api/messages", nil)
		if tc.key != "" {
			req.Header.Set("X-Device-Key", tc.key)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Errorf("key %q: status = %d, want %d", tc.key, w.Code, tc.want)
		}
	}

	gin.SetMode(gin.TestMode)
	open := gin.New()
	open.POST("/x", RequireDeviceKey(""), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	w := httptest.NewRecorder()
	open.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("disabled key check: status = %d", w.Code)
	}
}

func TestExtractToken_PrefersCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: "token", Value: "from-cookie"})
	c.Request.Header.Set("Authorization", "Bearer from-header")
	if got := extractToken(c, "token"); got != "from-cookie" {
		t.Errorf("extractToken = %q", got)
	}

	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Basic abc")
	if got := extractToken(c, "token"); got != "" {
		t.Errorf("non-bearer header should be ignored, got %q", got)
	}
}
