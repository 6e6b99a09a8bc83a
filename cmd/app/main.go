package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/Abduqodir7007/fitness-crm/internal/account"
	"github.com/Abduqodir7007/fitness-crm/internal/analytics"
	"github.com/Abduqodir7007/fitness-crm/internal/attendance"
	"github.com/Abduqodir7007/fitness-crm/internal/cache"
	"github.com/Abduqodir7007/fitness-crm/internal/clock"
	"github.com/Abduqodir7007/fitness-crm/internal/config"
	"github.com/Abduqodir7007/fitness-crm/internal/dashboard"
	"github.com/Abduqodir7007/fitness-crm/internal/db"
	"github.com/Abduqodir7007/fitness-crm/internal/logger"
	"github.com/Abduqodir7007/fitness-crm/internal/notify"
	"github.com/Abduqodir7007/fitness-crm/internal/plan"
	"github.com/Abduqodir7007/fitness-crm/internal/scheduler"
	"github.com/Abduqodir7007/fitness-crm/internal/server"
	"github.com/Abduqodir7007/fitness-crm/internal/subscription"
	"github.com/Abduqodir7007/fitness-crm/internal/tenant"

	"github.com/redis/go-redis/v9"
)

// @title Fitness CRM API
// @version 1.0
// @description Multi-tenant gym management: members, subscriptions, attendance and dashboards.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.InitWithLevel(cfg.LogLevel)
	logger.Info("Starting fitness CRM", "timezone", cfg.Timezone)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clk := clock.New(cfg.Location)

	var (
		store       cache.Store
		redisClient *redis.Client
	)
	redisClient, err = cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.WithError(err).Warn("redis unavailable, using in-process cache and no reminder queue", "addr", cfg.RedisAddr)
		store = cache.NewMemory(clk)
		redisClient = nil
	} else {
		defer redisClient.Close()
		store = cache.NewRedis(redisClient)
		logger.Info("Redis connected", "addr", cfg.RedisAddr)
	}

	keys := cache.NewKeys(cfg.CacheKey)
	invalidator := cache.NewInvalidator(store, keys)

	tenantService := tenant.NewService(tenant.NewRepository(database), cfg.AllowBootstrap)
	planService := plan.NewService(plan.NewRepository(database))
	ledger := subscription.NewService(subscription.NewRepository(database), clk, invalidator)
	accountService := account.NewService(account.NewRepository(database), clk, cfg.JWTSecret, cfg.JWTRefreshSecret)
	attendanceService := attendance.NewService(attendance.NewRepository(database), clk)
	analyticsService := analytics.NewService(analytics.NewRepository(database), clk)
	dashboardService := dashboard.NewService(analyticsService, store, keys, ledger, clk, cfg.MonthlyCacheTTL)

	deps := scheduler.Deps{
		Ledger:   ledger,
		Cache:    dashboardService,
		Tenants:  tenantService,
		Expiries: analyticsService,
	}
	if redisClient != nil {
		var sender notify.Sender = notify.LogSender{}
		if cfg.TwilioEnabled() {
			sender = notify.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
		}
		queue := notify.NewQueue(redisClient, sender, clk)
		deps.Reminders = queue
		go queue.Start(ctx)
	}

	jobs := scheduler.New(cfg.Location, deps)
	if err := jobs.Register(cfg.ExpirySweepCron, cfg.ReminderCron); err != nil {
		logger.Fatalf("Failed to register scheduled jobs: %v", err)
	}
	jobs.Start()

	srv := server.New(cfg, server.Handlers{
		Account:      account.NewHandler(accountService),
		Tenant:       tenant.NewHandler(tenantService),
		Plan:         plan.NewHandler(planService),
		Subscription: subscription.NewHandler(ledger),
		Attendance:   attendance.NewHandler(attendanceService),
		Dashboard:    dashboard.NewHandler(dashboardService),
		DB:           database,
	})

	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		logger.WithError(err).Error("Server error")
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Error during server shutdown")
	}
	jobs.Stop(shutdownCtx)
	cancel()

	logger.Info("Server stopped")
}
