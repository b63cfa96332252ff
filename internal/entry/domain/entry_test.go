package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestFromPayload(t *testing.T) {
	e, err := FromPayload(map[string]any{
		"id":       "k1",
		"_id":      "ignored",
		"userId":   "u1",
		"deviceId": "d1",
		"name":     "Alice",
		"age":      float64(30),
	})
	if err != nil {
		t.Fatalf("FromPayload: %v", err)
	}
	if e.Key != "k1" || e.UserID != "u1" || e.DeviceID != "d1" {
		t.Errorf("entry = %+v", e)
	}
	if len(e.Data) != 2 || e.Data["name"] != "Alice" {
		t.Errorf("data = %v, want only name and age", e.Data)
	}
}

func TestFromPayload_Key(t *testing.T) {
	testCases := []struct {
		name    string
		id      any
		wantKey string
		wantErr bool
	}{
		{"string", "abc", "abc", false},
		{"number", float64(42), "42", false},
		{"large number", float64(1000000), "1000000", false},
		{"fraction", 12.5, "12.5", false},
		{"json number", json.Number("9007199254740993"), "9007199254740993", false},
		{"int", 7, "7", false},
		{"missing", nil, "", true},
		{"blank", "  ", "", true},
		{"object", map[string]any{"a": 1}, "", true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := FromPayload(map[string]any{"id": tc.id})
			if tc.wantErr {
				if err != ErrKeyRequired {
					t.Errorf("err = %v, want ErrKeyRequired", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if e.Key != tc.wantKey {
				t.Errorf("key = %q, want %q", e.Key, tc.wantKey)
			}
		})
	}
}

func TestEntry_Merge(t *testing.T) {
	now := time.Now()
	base := &Entry{UserID: "u1", DeviceID: "d1", Data: map[string]any{"a": "1", "b": "2"}}
	base.Merge(&Entry{DeviceID: "d2", Data: map[string]any{"b": "3", "c": "4"}, UpdatedAt: now})
	if base.UserID != "u1" || base.DeviceID != "d2" {
		t.Errorf("owner = %q/%q", base.UserID, base.DeviceID)
	}
	if base.Data["a"] != "1" || base.Data["b"] != "3" || base.Data["c"] != "4" {
		t.Errorf("data = %v", base.Data)
	}
	if !base.UpdatedAt.Equal(now) {
		t.Error("UpdatedAt should follow the merged entry")
	}
}

func TestEntry_MarshalJSON(t *testing.T) {
	e := &Entry{ID: "r1", Key: "k1", UserID: "u1", Data: map[string]any{"name": "Bob", "id": "shadowed"}}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got["_id"] != "r1" || got["id"] != "k1" || got["userId"] != "u1" || got["name"] != "Bob" {
		t.Errorf("json = %s", b)
	}
	if _, ok := got["deviceId"]; ok {
		t.Error("empty deviceId should be omitted")
	}
}
