package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDevice_Normalize(t *testing.T) {
	d := &Device{DeviceID: "  abc  ", UserID: " u1 "}
	if err := d.Normalize(); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if d.DeviceID != "abc" || d.UserID != "u1" {
		t.Errorf("got DeviceID=%q UserID=%q", d.DeviceID, d.UserID)
	}
	if err := (&Device{DeviceID: "   "}).Normalize(); err != ErrDeviceIDRequired {
		t.Errorf("blank deviceId: err = %v, want ErrDeviceIDRequired", err)
	}
}

func TestDevice_JSONFieldNames(t *testing.T) {
	b, err := json.Marshal(&Device{ID: "r1", DeviceID: "abc", SimSlotCount: 2, IsActive: true})
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	for _, want := range []string{`"_id":"r1"`, `"deviceId":"abc"`, `"simSlotCount":2`, `"isActive":true`} {
		if !strings.Contains(s, want) {
			t.Errorf("json %s missing %s", s, want)
		}
	}
}
