package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"sms-gateway/backend/internal/audit"
	audithandler "sms-gateway/backend/internal/audit/handler"
	auditrepo "sms-gateway/backend/internal/audit/repository"
	"sms-gateway/backend/internal/config"
	"sms-gateway/backend/internal/dashboard"
	dashboardhandler "sms-gateway/backend/internal/dashboard/handler"
	"sms-gateway/backend/internal/db"
	"sms-gateway/backend/internal/db/migrate"
	devicehandler "sms-gateway/backend/internal/device/handler"
	"sms-gateway/backend/internal/device/liveness"
	devicerepo "sms-gateway/backend/internal/device/repository"
	deviceservice "sms-gateway/backend/internal/device/service"
	entryhandler "sms-gateway/backend/internal/entry/handler"
	entryrepo "sms-gateway/backend/internal/entry/repository"
	entryservice "sms-gateway/backend/internal/entry/service"
	"sms-gateway/backend/internal/health"
	healthhandler "sms-gateway/backend/internal/health/handler"
	identityhandler "sms-gateway/backend/internal/identity/handler"
	identityservice "sms-gateway/backend/internal/identity/service"
	"sms-gateway/backend/internal/logging"
	messagehandler "sms-gateway/backend/internal/message/handler"
	messagerepo "sms-gateway/backend/internal/message/repository"
	messageservice "sms-gateway/backend/internal/message/service"
	outboundhandler "sms-gateway/backend/internal/outbound/handler"
	outboundrepo "sms-gateway/backend/internal/outbound/repository"
	outboundservice "sms-gateway/backend/internal/outbound/service"
	"sms-gateway/backend/internal/policy/engine"
	"sms-gateway/backend/internal/security"
	"sms-gateway/backend/internal/server"
	"sms-gateway/backend/internal/storage/memory"
	"sms-gateway/backend/internal/telemetry"
	telemetryotel "sms-gateway/backend/internal/telemetry/otel"
	"sms-gateway/backend/internal/telemetry/producer"
	userhandler "sms-gateway/backend/internal/user/handler"
	userrepo "sms-gateway/backend/internal/user/repository"
	userservice "sms-gateway/backend/internal/user/service"
)

const (
	serviceName     = "smsgw"
	shutdownTimeout = 15 * time.Second
)

type repositories struct {
	users     userrepo.Repository
	devices   devicerepo.Repository
	messages  messagerepo.Repository
	outbound  outboundrepo.Repository
	entries   entryrepo.Repository
	auditLogs auditrepo.Repository
}

func main() {
	runMigrations := flag.Bool("migrate", false, "apply pending database migrations before serving")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if *runMigrations && cfg.DatabaseURL != "" {
		if err := migrate.Run(cfg.DatabaseURL, "up"); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		log.Info("migrations applied")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens, err := security.LoadTokenProvider(cfg.JWTPrivateKey, cfg.JWTPublicKey, cfg.JWTSecret,
		cfg.JWTIssuer, cfg.JWTAudience, cfg.UserTTL(), cfg.AdminTTL())
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}
	hasher := security.NewHasher(cfg.BcryptCost)

	repos, conn, err := openRepositories(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if conn != nil {
		defer conn.Close()
	}

	var cache dashboard.Cache
	if cfg.RedisAddr != "" {
		rdb, err := dashboard.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		cache = dashboard.NewRedisCache(rdb, cfg.CacheTTL())
		log.WithField("addr", cfg.RedisAddr).Info("dashboard cache enabled")
	}

	providers, err := telemetryotel.NewProviders(ctx, cfg.OTLPEndpoint, serviceName, cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("otel: %v", err)
	}
	providers.SetGlobal()
	var emitters []telemetry.EventEmitter
	if providers.Enabled {
		emitters = append(emitters, telemetryotel.NewEventEmitter(providers.LoggerProvider))
	}
	if kp := producer.NewKafkaProducer(cfg.TelemetryKafkaBrokersList(), cfg.TelemetryKafkaTopic); kp != nil {
		defer kp.Close()
		emitters = append(emitters, kp)
		log.WithField("topic", cfg.TelemetryKafkaTopic).Info("kafka telemetry enabled")
	}
	var emitter telemetry.EventEmitter
	if len(emitters) > 0 {
		emitter = telemetry.Multi(emitters...)
	}

	policy, err := engine.LoadPolicyFile(cfg.AccessPolicyFile)
	if err != nil {
		log.Fatalf("policy: %v", err)
	}
	access, err := engine.NewOPAEvaluator(ctx, policy)
	if err != nil {
		log.Fatalf("policy: %v", err)
	}

	stats := dashboard.NewService(repos.entries, repos.devices, repos.messages, cache)
	auth := identityservice.NewAuthService(repos.users, hasher, tokens, identityservice.AdminCredentials{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
	})
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		log.Warn("ADMIN_USERNAME/ADMIN_PASSWORD not set; admin login is disabled")
	}
	messages := messageservice.NewMessageService(repos.messages, cfg.MessageRetentionLimit, stats, emitter)
	auditLogger := audit.NewLogger(repos.auditLogs, audit.ClientIPFromContext)

	var pinger health.Pinger
	if conn != nil {
		pinger = conn
	}
	checker := health.NewChecker(pinger, access)

	router := server.NewRouter(server.Deps{
		Tokens:        tokens,
		CookieName:    cfg.CookieName,
		Access:        access,
		Subscriptions: auth,
		DeviceAPIKey:  cfg.DeviceAPIKey,
		CORSOrigins:   cfg.CORSOriginList(),
		Audit:         auditLogger,
		Emitter:       emitter,
		Health:        healthhandler.NewHTTP(checker),
		Identity:      identityhandler.NewHandler(auth, identityhandler.CookieConfig{Name: cfg.CookieName, Secure: cfg.CookieSecure}),
		Users:         userhandler.NewHandler(userservice.NewUserService(repos.users, hasher, stats, messages)),
		Devices:       devicehandler.NewHandler(deviceservice.NewDeviceService(repos.devices, stats)),
		Messages:      messagehandler.NewHandler(messages),
		Outbound:      outboundhandler.NewHandler(outboundservice.NewOutboundService(repos.outbound)),
		Entries:       entryhandler.NewHandler(entryservice.NewEntryService(repos.entries, stats)),
		Dashboard:     dashboardhandler.NewHandler(stats),
		AuditLogs:     audithandler.NewHandler(auditLogger),
	})

	sweeper := liveness.NewSweeper(repos.devices, cfg.SweepInterval(), cfg.InactiveAfter(), emitter)
	go sweeper.Run(ctx)

	var grpcServer *grpc.Server
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			log.Fatalf("listen: %v", err)
		}
		grpcServer = server.NewGRPCServer(healthhandler.NewGRPC(checker))
		go func() {
			log.Infof("gRPC health server listening on %s", cfg.GRPCAddr)
			if err := grpcServer.Serve(lis); err != nil {
				log.Errorf("grpc serve: %v", err)
			}
		}()
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infof("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("http shutdown: %v", err)
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}

	// let in-flight async telemetry finish before the exporters close
	time.Sleep(telemetry.ShutdownDrainDuration)
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Errorf("otel shutdown: %v", err)
	}
	log.Info("server stopped")
}

// openRepositories returns Postgres-backed repositories when dsn is set and the in-memory store otherwise.
func openRepositories(dsn string) (*repositories, *sql.DB, error) {
	if dsn == "" {
		log.Warn("DATABASE_URL not set; using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			users:     store.Users(),
			devices:   store.Devices(),
			messages:  store.Messages(),
			outbound:  store.Outbound(),
			entries:   store.Entries(),
			auditLogs: store.AuditLogs(),
		}, nil, nil
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return nil, nil, err
	}
	return &repositories{
		users:     userrepo.NewPostgresRepository(conn),
		devices:   devicerepo.NewPostgresRepository(conn),
		messages:  messagerepo.NewPostgresRepository(conn),
		outbound:  outboundrepo.NewPostgresRepository(conn),
		entries:   entryrepo.NewPostgresRepository(conn),
		auditLogs: auditrepo.NewPostgresRepository(conn),
	}, conn, nil
}
