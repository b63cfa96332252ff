package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"sms-gateway/backend/internal/dashboard"
	messagedomain "sms-gateway/backend/internal/message/domain"
	messageservice "sms-gateway/backend/internal/message/service"
	"sms-gateway/backend/internal/security"
	"sms-gateway/backend/internal/storage/memory"
	"sms-gateway/backend/internal/user/domain"
)

type fixture struct {
	store    *memory.Store
	svc      *UserService
	messages *messageservice.MessageService
}

func newFixture() *fixture {
	store := memory.NewStore()
	stats := dashboard.NewService(store.Entries(), store.Devices(), store.Messages(), nil)
	msgs := messageservice.NewMessageService(store.Messages(), messagedomain.DefaultRetentionLimit, stats, nil)
	return &fixture{
		store:    store,
		svc:      NewUserService(store.Users(), security.NewHasher(4), stats, msgs),
		messages: msgs,
	}
}

func validUpto() time.Time { return time.Now().Add(30 * 24 * time.Hour) }

func TestCreate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	u, err := f.svc.Create(ctx, CreateInput{Username: " alice ", Password: "pw", ValidUpto: validUpto()})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == "" || u.Username != "alice" || u.Role != domain.RoleUser {
		t.Errorf("user = %+v", u)
	}
	if u.PasswordHash == "pw" || !security.NewHasher(4).Matches(u.PasswordHash, "pw") {
		t.Error("password must be stored as a bcrypt hash")
	}

	if _, err := f.svc.Create(ctx, CreateInput{Username: "alice", Password: "other", ValidUpto: validUpto()}); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Errorf("duplicate username err = %v, want ErrUsernameTaken", err)
	}
	for _, in := range []CreateInput{
		{Password: "pw", ValidUpto: validUpto()},
		{Username: "bob", ValidUpto: validUpto()},
		{Username: "bob", Password: "pw"},
	} {
		if _, err := f.svc.Create(ctx, in); !errors.Is(err, domain.ErrMissingFields) {
			t.Errorf("Create(%+v) err = %v, want ErrMissingFields", in, err)
		}
	}
}

func TestUpdate_BlankFieldsKeepValues(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u, _ := f.svc.Create(ctx, CreateInput{Username: "alice", Password: "pw", ValidUpto: validUpto()})
	_, _ = f.svc.Create(ctx, CreateInput{Username: "bob", Password: "pw", ValidUpto: validUpto()})

	updated, err := f.svc.Update(ctx, u.ID, UpdateInput{Password: "new"})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Username != "alice" || !updated.ValidUpto.Equal(u.ValidUpto) {
		t.Errorf("blank fields changed: %+v", updated)
	}
	if !security.NewHasher(4).Matches(updated.PasswordHash, "new") {
		t.Error("password not updated")
	}

	if _, err := f.svc.Update(ctx, u.ID, UpdateInput{Username: "bob"}); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Errorf("rename to existing err = %v", err)
	}
	if _, err := f.svc.Update(ctx, "missing", UpdateInput{Username: "x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing user err = %v", err)
	}
}

func TestDelete_DoesNotCascade(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u, _ := f.svc.Create(ctx, CreateInput{Username: "alice", Password: "pw", ValidUpto: validUpto()})
	if err := f.messages.Store(ctx, &messagedomain.Message{UserID: u.ID, DeviceID: "d1", Body: "hi", Sender: "+1", SimNumber: "+2", SimSlot: "0"}); err != nil {
		t.Fatal(err)
	}

	if err := f.svc.Delete(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Delete(ctx, u.ID); err != nil {
		t.Errorf("second delete should be a no-op, got %v", err)
	}
	if _, err := f.svc.Get(ctx, u.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get after delete err = %v", err)
	}
	if n, _ := f.store.Messages().CountByUser(ctx, u.ID); n != 1 {
		t.Errorf("messages after user delete = %d, want 1", n)
	}
}

func TestStatsAndPurge(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u, _ := f.svc.Create(ctx, CreateInput{Username: "alice", Password: "pw", ValidUpto: validUpto()})
	for i := 0; i < 3; i++ {
		_ = f.messages.Store(ctx, &messagedomain.Message{UserID: u.ID, DeviceID: "d1", Body: "hi", Sender: "+1", SimNumber: "+2", SimSlot: "1"})
	}

	st, err := f.svc.Stats(ctx, u.ID)
	if err != nil || st.TotalMessages != 3 {
		t.Fatalf("Stats = %+v, %v", st, err)
	}
	list, err := f.svc.List(ctx)
	if err != nil || len(list) != 1 || list[0].TotalMessages != 3 {
		t.Fatalf("List = %+v, %v", list, err)
	}

	n, err := f.svc.PurgeMessages(ctx, u.ID)
	if err != nil || n != 3 {
		t.Fatalf("PurgeMessages = %d, %v", n, err)
	}
	got, _ := f.svc.Get(ctx, u.ID)
	if got.TotalMessages != 0 {
		t.Errorf("TotalMessages after purge = %d", got.TotalMessages)
	}

	if _, err := f.svc.Stats(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Stats(missing) err = %v", err)
	}
	if _, err := f.svc.PurgeMessages(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("PurgeMessages(missing) err = %v", err)
	}
}
