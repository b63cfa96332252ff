package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	auditdomain "sms-gateway/backend/internal/audit/domain"
	devicedomain "sms-gateway/backend/internal/device/domain"
	entrydomain "sms-gateway/backend/internal/entry/domain"
	messagedomain "sms-gateway/backend/internal/message/domain"
	outbounddomain "sms-gateway/backend/internal/outbound/domain"
	userdomain "sms-gateway/backend/internal/user/domain"
)

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	s := NewStore().Users()
	u := &userdomain.User{ID: "u1", Username: "alice", PasswordHash: "h1", ValidUpto: time.Now()}
	if err := s.Create(ctx, u); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(ctx, &userdomain.User{ID: "u2", Username: "alice"}); err != userdomain.ErrUsernameTaken {
		t.Errorf("duplicate username: err = %v", err)
	}
	got, _ := s.GetByUsername(ctx, "alice")
	if got == nil || got.ID != "u1" {
		t.Fatalf("GetByUsername = %+v", got)
	}
	if missing, err := s.GetByID(ctx, "nope"); missing != nil || err != nil {
		t.Errorf("GetByID(missing) = %v, %v; want nil, nil", missing, err)
	}

	ok, _ := s.UpdatePasswordIfMatch(ctx, "u1", "wrong", "h2")
	if ok {
		t.Error("password swap should fail on hash mismatch")
	}
	ok, _ = s.UpdatePasswordIfMatch(ctx, "u1", "h1", "h2")
	if !ok {
		t.Error("password swap should succeed")
	}
	_ = s.UpdatePhone(ctx, "u1", "+100")
	got, _ = s.GetByID(ctx, "u1")
	if got.PasswordHash != "h2" || got.PhoneNumber != "+100" {
		t.Errorf("user = %+v", got)
	}

	_ = s.Create(ctx, &userdomain.User{ID: "u2", Username: "bob"})
	got.Username = "bob"
	if err := s.Update(ctx, got); err != userdomain.ErrUsernameTaken {
		t.Errorf("rename onto existing username: err = %v", err)
	}
	_ = s.Delete(ctx, "u1")
	if list, _ := s.List(ctx); len(list) != 1 {
		t.Errorf("List after delete = %d users", len(list))
	}
}

func TestDeviceStore(t *testing.T) {
	ctx := context.Background()
	s := NewStore().Devices()
	now := time.Now().UTC()

	created, _ := s.Upsert(ctx, &devicedomain.Device{ID: "r1", UserID: "u1", DeviceID: "d1", LastActive: now.Add(-5 * time.Minute), IsActive: true, CreatedAt: now})
	if !created {
		t.Error("first upsert should create")
	}
	created, _ = s.Upsert(ctx, &devicedomain.Device{ID: "r-new", DeviceID: "d1", Model: "Pixel", LastActive: now.Add(-5 * time.Minute), IsActive: true})
	if created {
		t.Error("second upsert should update")
	}
	d, _ := s.GetForUser(ctx, "u1", "d1")
	if d == nil || d.ID != "r1" || d.Model != "Pixel" || d.UserID != "u1" {
		t.Fatalf("device = %+v", d)
	}
	if other, _ := s.GetForUser(ctx, "u2", "d1"); other != nil {
		t.Error("device should be scoped to its owner")
	}

	_, _ = s.Upsert(ctx, &devicedomain.Device{ID: "r2", UserID: "u1", DeviceID: "d2", LastActive: now, IsActive: true})
	list, _ := s.ListByUser(ctx, "u1")
	if len(list) != 2 || list[0].DeviceID != "d2" {
		t.Errorf("ListByUser order = %v", list)
	}

	n, _ := s.MarkInactiveBefore(ctx, now.Add(-2*time.Minute))
	if n != 1 {
		t.Errorf("MarkInactiveBefore = %d, want 1", n)
	}
	if n, _ := s.MarkInactiveBefore(ctx, now.Add(-2*time.Minute)); n != 0 {
		t.Errorf("second sweep = %d, want 0", n)
	}

	_ = s.DeleteForUser(ctx, "u2", "d2")
	if c, _ := s.CountByUser(ctx, "u1"); c != 2 {
		t.Errorf("delete by another user should not remove; count = %d", c)
	}
	_ = s.DeleteForUser(ctx, "u1", "d2")
	if c, _ := s.CountByUser(ctx, "u1"); c != 1 {
		t.Errorf("count = %d, want 1", c)
	}
}

func TestMessageStore_TrimKeepsNewest(t *testing.T) {
	ctx := context.Background()
	s := NewStore().Messages()
	at := time.Now().UTC()
	for i := 0; i < 10; i++ {
		// identical timestamps: insert order decides
		m := &messagedomain.Message{ID: fmt.Sprintf("m%d", i), UserID: "u1", DeviceID: "d1", CreatedAt: at}
		if err := s.Create(ctx, m); err != nil {
			t.Fatal(err)
		}
	}
	removed, _ := s.TrimUser(ctx, "u1", 4)
	if removed != 6 {
		t.Errorf("removed = %d, want 6", removed)
	}
	list, _ := s.ListByUser(ctx, "u1")
	if len(list) != 4 {
		t.Fatalf("kept = %d, want 4", len(list))
	}
	for i, want := range []string{"m9", "m8", "m7", "m6"} {
		if list[i].ID != want {
			t.Errorf("list[%d] = %s, want %s", i, list[i].ID, want)
		}
	}
	if n, _ := s.TrimDevice(ctx, "d1", 10); n != 0 {
		t.Errorf("TrimDevice under limit removed %d", n)
	}
	if n, _ := s.DeleteByUserAndDevice(ctx, "u1", "d1"); n != 4 {
		t.Errorf("DeleteByUserAndDevice = %d, want 4", n)
	}
}

func TestOutboundStore(t *testing.T) {
	ctx := context.Background()
	s := NewStore().Outbound()
	now := time.Now()
	_ = s.Create(ctx, &outbounddomain.OutboundSMS{ID: "o2", UserID: "u1", DeviceID: "d1", CreatedAt: now})
	_ = s.Create(ctx, &outbounddomain.OutboundSMS{ID: "o1", UserID: "u1", DeviceID: "d1", CreatedAt: now.Add(-time.Minute)})
	_ = s.Create(ctx, &outbounddomain.OutboundSMS{ID: "o3", UserID: "u1", DeviceID: "d1", Sent: true, CreatedAt: now})

	pending, _ := s.ListPendingByDevice(ctx, "d1")
	if len(pending) != 2 || pending[0].ID != "o1" {
		t.Errorf("pending = %v", pending)
	}
	_ = s.Delete(ctx, "o1")
	_ = s.Delete(ctx, "o1")
	if list, _ := s.ListByUser(ctx, "u1"); len(list) != 2 {
		t.Errorf("ListByUser = %d, want 2", len(list))
	}
}

func TestEntryStore_UpsertMerges(t *testing.T) {
	ctx := context.Background()
	s := NewStore().Entries()
	created, _ := s.Upsert(ctx, &entrydomain.Entry{ID: "r1", Key: "k1", UserID: "u1", Data: map[string]any{"a": "1"}})
	if !created {
		t.Error("first upsert should create")
	}
	created, _ = s.Upsert(ctx, &entrydomain.Entry{ID: "r2", Key: "k1", Data: map[string]any{"b": "2"}})
	if created {
		t.Error("second upsert should update")
	}
	e, _ := s.GetByKey(ctx, "k1")
	if e.ID != "r1" || e.UserID != "u1" || e.Data["a"] != "1" || e.Data["b"] != "2" {
		t.Errorf("entry = %+v", e)
	}
	e.Data["mutated"] = true
	again, _ := s.GetByKey(ctx, "k1")
	if _, ok := again.Data["mutated"]; ok {
		t.Error("GetByKey should return a copy")
	}
	_ = s.DeleteForUser(ctx, "u1", "r1")
	if c, _ := s.CountByUser(ctx, "u1"); c != 0 {
		t.Errorf("count after delete = %d", c)
	}
}

func TestAuditStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore().AuditLogs()
	for i := 0; i < 5; i++ {
		_ = s.Create(ctx, &auditdomain.AuditLog{ID: fmt.Sprintf("a%d", i)})
	}
	list, _ := s.List(ctx, 2, 1)
	if len(list) != 2 || list[0].ID != "a3" || list[1].ID != "a2" {
		t.Errorf("List(2,1) = %v", list)
	}
	if list, _ := s.List(ctx, 10, 10); len(list) != 0 {
		t.Errorf("offset past end returned %d", len(list))
	}
}
