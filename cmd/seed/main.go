// seed inserts development sample data for local testing: one dashboard user with a device,
// a few inbound messages and entries, and one queued outbound SMS.
// Idempotent: skips inserts if the dev user already exists.
package main

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"sms-gateway/backend/internal/config"
	"sms-gateway/backend/internal/dashboard"
	"sms-gateway/backend/internal/db"
	devicedomain "sms-gateway/backend/internal/device/domain"
	devicerepo "sms-gateway/backend/internal/device/repository"
	deviceservice "sms-gateway/backend/internal/device/service"
	entryrepo "sms-gateway/backend/internal/entry/repository"
	entryservice "sms-gateway/backend/internal/entry/service"
	"sms-gateway/backend/internal/logging"
	messagedomain "sms-gateway/backend/internal/message/domain"
	messagerepo "sms-gateway/backend/internal/message/repository"
	messageservice "sms-gateway/backend/internal/message/service"
	outbounddomain "sms-gateway/backend/internal/outbound/domain"
	outboundrepo "sms-gateway/backend/internal/outbound/repository"
	outboundservice "sms-gateway/backend/internal/outbound/service"
	"sms-gateway/backend/internal/security"
	userrepo "sms-gateway/backend/internal/user/repository"
	userservice "sms-gateway/backend/internal/user/service"
)

const (
	devUsername = "dev"
	devPassword = "password123"
	devDeviceID = "dev-device-001"
	devPhone    = "+15550100"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)
	existing, err := users.GetByUsername(ctx, devUsername)
	if err != nil {
		log.Fatalf("lookup dev user: %v", err)
	}
	if existing != nil {
		log.WithField("username", devUsername).Info("seed: dev user already exists, nothing to do")
		return
	}

	devices := devicerepo.NewPostgresRepository(conn)
	messages := messagerepo.NewPostgresRepository(conn)
	entries := entryrepo.NewPostgresRepository(conn)
	stats := dashboard.NewService(entries, devices, messages, nil)

	// bcrypt at the configured cost so the seeded password logs in like a real account
	userSvc := userservice.NewUserService(users, security.NewHasher(cfg.BcryptCost), stats, nil)
	u, err := userSvc.Create(ctx, userservice.CreateInput{
		Username:  devUsername,
		Password:  devPassword,
		ValidUpto: time.Now().UTC().AddDate(1, 0, 0),
	})
	if err != nil {
		log.Fatalf("create dev user: %v", err)
	}
	if err := users.UpdatePhone(ctx, u.ID, devPhone); err != nil {
		log.Fatalf("set dev phone: %v", err)
	}

	deviceSvc := deviceservice.NewDeviceService(devices, stats)
	if _, err := deviceSvc.Report(ctx, &devicedomain.Device{
		UserID:       u.ID,
		DeviceID:     devDeviceID,
		Manufacturer: "Google",
		Model:        "Pixel 7",
		Brand:        "google",
		OSVersion:    "14",
		SDKVersion:   "34",
		CarrierName:  "Dev Mobile",
		SimSlotCount: 2,
		NetworkType:  "LTE",
		PhoneNumber:  devPhone,
		Slot1Number:  devPhone,
		BatteryLevel: 87,
	}); err != nil {
		log.Fatalf("create device: %v", err)
	}

	msgSvc := messageservice.NewMessageService(messages, cfg.MessageRetentionLimit, stats, nil)
	for _, m := range []messagedomain.Message{
		{Sender: "+15550111", Body: "Your code is 123456"},
		{Sender: "BANK", Body: "A payment of $12.00 was made"},
		{Sender: "+15550112", Body: "See you at 6"},
	} {
		m.UserID = u.ID
		m.DeviceID = devDeviceID
		m.SimNumber = devPhone
		m.SimSlot = "0"
		if err := msgSvc.Store(ctx, &m); err != nil {
			log.Fatalf("create message: %v", err)
		}
	}

	entrySvc := entryservice.NewEntryService(entries, stats)
	for _, payload := range []map[string]any{
		{"id": "dev-entry-001", "userId": u.ID, "deviceId": devDeviceID, "name": "Alice", "amount": 42},
		{"id": "dev-entry-002", "userId": u.ID, "deviceId": devDeviceID, "name": "Bob", "note": "call back"},
	} {
		if _, err := entrySvc.Store(ctx, payload); err != nil {
			log.Fatalf("create entry: %v", err)
		}
	}

	queue := outboundservice.NewOutboundService(outboundrepo.NewPostgresRepository(conn))
	if err := queue.Queue(ctx, u.ID, &outbounddomain.OutboundSMS{
		DeviceID: devDeviceID,
		ToNumber: "+15550111",
		Message:  "Hello from the gateway",
		SimSlot:  "0",
	}); err != nil {
		log.Fatalf("queue sms: %v", err)
	}

	log.WithFields(log.Fields{"username": devUsername, "password": devPassword, "device": devDeviceID}).Info("seed: done")
}
