package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"sms-gateway/backend/internal/device/service"
	"sms-gateway/backend/internal/security"
	"sms-gateway/backend/internal/server/middleware"
	"sms-gateway/backend/internal/storage/memory"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(service.NewDeviceService(memory.NewStore().Devices(), nil))
	r := gin.New()
	r.POST("/api/devices", h.Report)
	user := r.Group("/api", func(c *gin.Context) {
		middleware.SetPrincipal(c, &security.Principal{Subject: "u1", Kind: security.KindUser})
	})
	user.GET("/devices", h.List)
	user.GET("/devices/:deviceId", h.Get)
	user.DELETE("/devices/:deviceId", h.Delete)
	return r
}

func call(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestReport(t *testing.T) {
	r := newTestRouter()
	snapshot := `{"userId":"u1","deviceId":"android-1","model":"Pixel","batteryLevel":77,"simSlotCount":2}`

	w := call(r, http.MethodPost, "/api/devices", snapshot)
	if w.Code != http.StatusCreated || !bytes.Contains(w.Body.Bytes(), []byte("Device stored successfully")) {
		t.Fatalf("first report = %d %s", w.Code, w.Body.String())
	}
	w = call(r, http.MethodPost, "/api/devices", snapshot)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte("Device updated successfully")) {
		t.Fatalf("second report = %d %s", w.Code, w.Body.String())
	}
	if w := call(r, http.MethodPost, "/api/devices", `{"model":"Pixel"}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing deviceId status = %d", w.Code)
	}
}

func TestReport_NumericReadingsAsStrings(t *testing.T) {
	r := newTestRouter()
	w := call(r, http.MethodPost, "/api/devices", `{"deviceId":"d1","userId":"u1","batteryLevel":"85","simSlotCount":"2"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("report = %d %s", w.Code, w.Body.String())
	}

	w = call(r, http.MethodGet, "/api/devices/d1", "")
	var d map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &d); err != nil {
		t.Fatal(err)
	}
	if d["batteryLevel"] != float64(85) || d["simSlotCount"] != float64(2) {
		t.Errorf("device = %v", d)
	}

	if w := call(r, http.MethodPost, "/api/devices", `{"deviceId":"d1","batteryLevel":"full"}`); w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric batteryLevel status = %d", w.Code)
	}
}

func TestGetListDelete(t *testing.T) {
	r := newTestRouter()
	call(r, http.MethodPost, "/api/devices", `{"userId":"u1","deviceId":"d1"}`)
	call(r, http.MethodPost, "/api/devices", `{"userId":"u2","deviceId":"d2"}`)

	w := call(r, http.MethodGet, "/api/devices", "")
	var list struct {
		Devices []map[string]any `json:"devices"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Devices) != 1 || list.Devices[0]["deviceId"] != "d1" || list.Devices[0]["isActive"] != true {
		t.Fatalf("list = %v", list.Devices)
	}

	if w := call(r, http.MethodGet, "/api/devices/d1", ""); w.Code != http.StatusOK {
		t.Errorf("get own device = %d", w.Code)
	}
	w = call(r, http.MethodGet, "/api/devices/d2", "")
	if w.Code != http.StatusNotFound || !bytes.Contains(w.Body.Bytes(), []byte("Device not found")) {
		t.Errorf("get other user's device = %d %s", w.Code, w.Body.String())
	}

	for i := 0; i < 2; i++ {
		if w := call(r, http.MethodDelete, "/api/devices/d1", ""); w.Code != http.StatusOK {
			t.Errorf("delete #%d = %d", i, w.Code)
		}
	}
	if w := call(r, http.MethodGet, "/api/devices/d1", ""); w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d", w.Code)
	}
}
