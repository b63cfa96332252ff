package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"sms-gateway/backend/internal/audit"
	audithandler "sms-gateway/backend/internal/audit/handler"
	"sms-gateway/backend/internal/dashboard"
	dashboardhandler "sms-gateway/backend/internal/dashboard/handler"
	devicehandler "sms-gateway/backend/internal/device/handler"
	deviceservice "sms-gateway/backend/internal/device/service"
	entryhandler "sms-gateway/backend/internal/entry/handler"
	entryservice "sms-gateway/backend/internal/entry/service"
	"sms-gateway/backend/internal/health"
	healthhandler "sms-gateway/backend/internal/health/handler"
	identityhandler "sms-gateway/backend/internal/identity/handler"
	identityservice "sms-gateway/backend/internal/identity/service"
	messagehandler "sms-gateway/backend/internal/message/handler"
	messageservice "sms-gateway/backend/internal/message/service"
	outboundhandler "sms-gateway/backend/internal/outbound/handler"
	outboundservice "sms-gateway/backend/internal/outbound/service"
	"sms-gateway/backend/internal/policy/engine"
	"sms-gateway/backend/internal/security"
	"sms-gateway/backend/internal/storage/memory"
	userdomain "sms-gateway/backend/internal/user/domain"
	userhandler "sms-gateway/backend/internal/user/handler"
	userservice "sms-gateway/backend/internal/user/service"
)

type testServer struct {
	router *gin.Engine
	store  *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.NewStore()
	tokens := security.NewTestHMACTokenProvider()
	hasher := security.NewHasher(4)
	eval, err := engine.NewOPAEvaluator(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	stats := dashboard.NewService(store.Entries(), store.Devices(), store.Messages(), nil)
	auth := identityservice.NewAuthService(store.Users(), hasher, tokens, identityservice.AdminCredentials{Username: "admin", Password: "admin-pw"})
	msgs := messageservice.NewMessageService(store.Messages(), 2000, stats, nil)
	auditLogger := audit.NewLogger(store.AuditLogs(), audit.ClientIPFromContext)

	r := NewRouter(Deps{
		Tokens:        tokens,
		CookieName:    "token",
		Access:        eval,
		Subscriptions: auth,
		DeviceAPIKey:  "",
		CORSOrigins:   []string{"http://localhost:3000"},
		Audit:         auditLogger,
		Health:        healthhandler.NewHTTP(health.NewChecker(nil, eval)),
		Identity:      identityhandler.NewHandler(auth, identityhandler.CookieConfig{Name: "token"}),
		Users:         userhandler.NewHandler(userservice.NewUserService(store.Users(), hasher, stats, msgs)),
		Devices:       devicehandler.NewHandler(deviceservice.NewDeviceService(store.Devices(), stats)),
		Messages:      messagehandler.NewHandler(msgs),
		Outbound:      outboundhandler.NewHandler(outboundservice.NewOutboundService(store.Outbound())),
		Entries:       entryhandler.NewHandler(entryservice.NewEntryService(store.Entries(), stats)),
		Dashboard:     dashboardhandler.NewHandler(stats),
		AuditLogs:     audithandler.NewHandler(auditLogger),
	})
	return &testServer{router: r, store: store}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, path, username, password string) string {
	t.Helper()
	w := s.do(http.MethodPost, path, "", map[string]string{"username": username, "password": password})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s as %s = %d %s", path, username, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp.Token
}

func TestEndToEnd(t *testing.T) {
	s := newTestServer(t)
	adminTok := s.login(t, "/api/admin/login", "admin", "admin-pw")

	w := s.do(http.MethodPost, "/api/admin/users", adminTok, map[string]string{"username": "alice", "password": "pw", "validUpto": "2099-12-31"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create user = %d %s", w.Code, w.Body.String())
	}
	if w := s.do(http.MethodPost, "/api/admin/users", adminTok, map[string]string{"username": "alice", "password": "pw", "validUpto": "2099-12-31"}); w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate user = %d", w.Code)
	}
	var created struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	userID := created.User.ID

	userTok := s.login(t, "/api/login", "alice", "pw")

	if w := s.do(http.MethodPost, "/api/devices", "", map[string]any{"userId": userID, "deviceId": "android-1", "batteryLevel": 50}); w.Code != http.StatusCreated {
		t.Fatalf("device report = %d %s", w.Code, w.Body.String())
	}
	msg := map[string]any{"userId": userID, "deviceId": "android-1", "message": "hello", "sender": "+1", "sim_number": "+2", "sim_slot": 0}
	if w := s.do(http.MethodPost, "/api/messages", "", msg); w.Code != http.StatusOK {
		t.Fatalf("store message = %d %s", w.Code, w.Body.String())
	}
	if w := s.do(http.MethodPost, "/api/entries", "", map[string]any{"id": "k1", "userId": userID}); w.Code != http.StatusOK {
		t.Fatalf("store entry = %d", w.Code)
	}

	w = s.do(http.MethodGet, "/api/dashboard", userTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard = %d", w.Code)
	}
	var st dashboard.Stats
	_ = json.Unmarshal(w.Body.Bytes(), &st)
	if st != (dashboard.Stats{TotalData: 1, TotalDevices: 1, TotalMessages: 1}) {
		t.Errorf("stats = %+v", st)
	}

	if w := s.do(http.MethodGet, "/api/admin/users", userTok, nil); w.Code != http.StatusForbidden {
		t.Errorf("user on admin route = %d", w.Code)
	}
	if w := s.do(http.MethodGet, "/api/dashboard", adminTok, nil); w.Code != http.StatusForbidden {
		t.Errorf("admin on user route = %d", w.Code)
	}
	if w := s.do(http.MethodGet, "/api/dashboard", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous dashboard = %d", w.Code)
	}

	w = s.do(http.MethodGet, "/api/admin/audit", adminTok, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"action":"create"`) || !strings.Contains(w.Body.String(), `"action":"admin_login"`) {
		t.Errorf("audit = %d %s", w.Code, w.Body.String())
	}
}

func TestExpiredSubscriptionRejectedMidSession(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	hash, _ := security.NewHasher(4).Hash("pw")
	u := &userdomain.User{ID: "u1", Username: "bob", PasswordHash: hash, Role: "user", ValidUpto: time.Now().Add(time.Hour)}
	if err := s.store.Users().Create(ctx, u); err != nil {
		t.Fatal(err)
	}
	tok := s.login(t, "/api/login", "bob", "pw")
	if w := s.do(http.MethodGet, "/api/devices", tok, nil); w.Code != http.StatusOK {
		t.Fatalf("devices = %d", w.Code)
	}

	u.ValidUpto = time.Now().Add(-time.Minute)
	if err := s.store.Users().Update(ctx, u); err != nil {
		t.Fatal(err)
	}
	w := s.do(http.MethodGet, "/api/devices", tok, nil)
	if w.Code != http.StatusForbidden || !strings.Contains(w.Body.String(), "User subscription has expired") {
		t.Errorf("expired user = %d %s", w.Code, w.Body.String())
	}
}

func TestProbesAndNotFound(t *testing.T) {
	s := newTestServer(t)
	for path, want := range map[string]int{"/healthz": 200, "/readyz": 200, "/api/nope": 404} {
		if w := s.do(http.MethodGet, path, "", nil); w.Code != want {
			t.Errorf("GET %s = %d, want %d", path, w.Code, want)
		}
	}
}
