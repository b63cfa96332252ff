package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"sms-gateway/backend/internal/audit"
	"sms-gateway/backend/internal/storage/memory"
)

func TestList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := audit.NewLogger(memory.NewStore().AuditLogs(), nil)
	for i := 0; i < 5; i++ {
		logger.LogEvent(context.Background(), "admin", "admin", "create", fmt.Sprintf("users:u%d", i), "")
	}
	r := gin.New()
	r.GET("/api/admin/audit", NewHandler(logger).List)

	testCases := []struct {
		query     string
		wantLen   int
		wantFirst string
	}{
		{"", 5, "users:u4"},
		{"?limit=2", 2, "users:u4"},
		{"?limit=2&offset=3", 2, "users:u1"},
		{"?limit=bogus&offset=-4", 5, "users:u4"},
		{"?offset=10", 0, ""},
	}
	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/audit"+tc.query, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			var resp struct {
				Logs []struct {
					Resource string `json:"resource"`
					IP       string `json:"ip"`
				} `json:"logs"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if len(resp.Logs) != tc.wantLen {
				t.Fatalf("len = %d, want %d", len(resp.Logs), tc.wantLen)
			}
			if tc.wantLen > 0 && (resp.Logs[0].Resource != tc.wantFirst || resp.Logs[0].IP != "unknown") {
				t.Errorf("first = %+v", resp.Logs[0])
			}
		})
	}
}
