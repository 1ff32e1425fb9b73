// Package server boots the application: config, database, cache, storage,
// queue workers, the scheduler and the HTTP server with graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/tailorcraft/app/repositories"
	"github.com/shashiranjanraj/tailorcraft/app/routes"
	"github.com/shashiranjanraj/tailorcraft/app/services"
	"github.com/shashiranjanraj/tailorcraft/config"
	"github.com/shashiranjanraj/tailorcraft/pkg/cache"
	"github.com/shashiranjanraj/tailorcraft/pkg/database"
	"github.com/shashiranjanraj/tailorcraft/pkg/logger"
	"github.com/shashiranjanraj/tailorcraft/pkg/metrics"
	"github.com/shashiranjanraj/tailorcraft/pkg/middleware"
	"github.com/shashiranjanraj/tailorcraft/pkg/notification"
	"github.com/shashiranjanraj/tailorcraft/pkg/queue"
	"github.com/shashiranjanraj/tailorcraft/pkg/reqid"
	"github.com/shashiranjanraj/tailorcraft/pkg/router"
	"github.com/shashiranjanraj/tailorcraft/pkg/schedule"
	"github.com/shashiranjanraj/tailorcraft/pkg/storage"
	"github.com/shashiranjanraj/tailorcraft/pkg/ws"
)

const (
	queueWorkers    = 4
	shutdownTimeout = 15 * time.Second
)

// Start boots everything and blocks until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if config.LogMongoEnabled() {
		if _, err := logger.AttachMongo(config.MongoURI(), config.MongoDatabase(), "logs"); err != nil {
			logger.Warn("boot: mongo log sink disabled", "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Connect(ctx); err != nil {
		return err
	}
	defer database.Disconnect(context.Background()) //nolint:errcheck

	// Redis is optional: without it the snapshot cache is a pass-through
	// and the queue falls back to the in-memory driver.
	if err := cache.Connect(); err != nil {
		logger.Warn("boot: redis unavailable", "error", err)
	}

	storage.Connect()

	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.UseCollection(database.Collection("failed_jobs"))
	notification.UseCollection(database.Collection("notifications"))
	services.RegisterJobs()
	queue.StartWorkers(ctx, queueWorkers)

	hub := ws.NewHub()
	go hub.Run()

	authService := services.NewAuthService(repositories.NewUserRepository())
	customerService := services.NewCustomerService(
		repositories.NewCustomerRepository(), config.ReminderLookaheadDays())

	registerSchedule(customerService, hub)
	go schedule.Start(ctx)

	r := router.New()
	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)
	if err := routes.RegisterAPI(r, routes.Deps{
		Auth:      authService,
		Customers: customerService,
		Hub:       hub,
	}); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http: listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("http: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// registerSchedule wires the recurring jobs: the morning reminder sweep and
// a frequent gauge refresh for dashboards that scrape between sweeps.
func registerSchedule(customerService *services.CustomerService, hub *ws.Hub) {
	sweeper := services.NewReminderSweeper(customerService, hub)

	schedule.Cron("0 7 * * *").
		Name("reminders:sweep").
		WithoutOverlapping().
		Run(func() { sweeper.Run(context.Background()) })

	schedule.Every(5).Minutes().
		Name("metrics:refresh").
		WithoutOverlapping().
		Run(func() { sweeper.RefreshGauges(context.Background()) })
}

// RunSweepOnce performs a single reminder sweep outside the scheduler.
// Used by the remind:run CLI command.
func RunSweepOnce(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return err
	}
	if err := database.Connect(ctx); err != nil {
		return err
	}
	defer database.Disconnect(context.Background()) //nolint:errcheck

	if err := cache.Connect(); err != nil {
		logger.Warn("sweep: redis unavailable", "error", err)
	}

	services.RegisterJobs()
	customerService := services.NewCustomerService(
		repositories.NewCustomerRepository(), config.ReminderLookaheadDays())
	services.NewReminderSweeper(customerService, nil).Run(ctx)

	// Give the in-memory queue a moment to drain digest jobs.
	workerCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	queue.StartWorkers(workerCtx, 1)
	<-workerCtx.Done()
	return nil
}
