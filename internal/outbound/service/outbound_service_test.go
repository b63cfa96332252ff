package service

import (
	"context"
	"testing"
	"time"

	"sms-gateway/backend/internal/outbound/domain"
	"sms-gateway/backend/internal/storage/memory"
)

func TestQueue_Validation(t *testing.T) {
	svc := NewOutboundService(memory.NewStore().Outbound())
	testCases := []struct {
		name string
		sms  domain.OutboundSMS
	}{
		{"no device", domain.OutboundSMS{ToNumber: "+1", Message: "hi", SimSlot: "0"}},
		{"no number", domain.OutboundSMS{DeviceID: "d1", Message: "hi", SimSlot: "0"}},
		{"no message", domain.OutboundSMS{DeviceID: "d1", ToNumber: "+1", Message: "  ", SimSlot: "0"}},
		{"no slot", domain.OutboundSMS{DeviceID: "d1", ToNumber: "+1", Message: "hi"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sms := tc.sms
			if err := svc.Queue(context.Background(), "u1", &sms); err != domain.ErrMissingFields {
				t.Errorf("err = %v, want ErrMissingFields", err)
			}
		})
	}
}

func TestQueuePendingMarkSent(t *testing.T) {
	ctx := context.Background()
	svc := NewOutboundService(memory.NewStore().Outbound())
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Second)
		svc.now = func() time.Time { return at }
		sms := &domain.OutboundSMS{DeviceID: "d1", ToNumber: "+1555", Message: "hi", SimSlot: "1", Sent: true}
		if err := svc.Queue(ctx, "u1", sms); err != nil {
			t.Fatal(err)
		}
		if sms.Sent || sms.UserID != "u1" || sms.ID == "" {
			t.Errorf("queued = %+v", sms)
		}
		ids = append(ids, sms.ID)
	}

	pending, err := svc.Pending(ctx, "d1")
	if err != nil || len(pending) != 3 || pending[0].ID != ids[0] {
		t.Fatalf("Pending = %v, %v", pending, err)
	}
	if err := svc.MarkSent(ctx, ids[0]); err != nil {
		t.Fatal(err)
	}
	if err := svc.MarkSent(ctx, ids[0]); err != nil {
		t.Errorf("MarkSent should be idempotent: %v", err)
	}
	pending, _ = svc.Pending(ctx, "d1")
	if len(pending) != 2 {
		t.Errorf("pending after MarkSent = %d, want 2", len(pending))
	}
	mine, _ := svc.ListForUser(ctx, "u1")
	if len(mine) != 2 || mine[0].ID != ids[2] {
		t.Errorf("ListForUser = %v", mine)
	}
	if other, _ := svc.Pending(ctx, "d2"); len(other) != 0 {
		t.Errorf("device d2 pending = %d", len(other))
	}
}
