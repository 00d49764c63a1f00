package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookwise/core/cache"
	"bookwise/core/config"
	"bookwise/core/database"
	"bookwise/core/logger"
	"bookwise/core/tasks"
	"bookwise/modules/availability"
	"bookwise/modules/booking"
	bookingrepo "bookwise/modules/booking/repository"
	"bookwise/modules/calendar"
	"bookwise/modules/notification"
	"bookwise/modules/organization"
	"bookwise/modules/person"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 10 * time.Second

// Run wires the whole application and blocks until SIGINT/SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(cfg.Log.Level, cfg.Log.Development)
	defer logger.Sync()

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	appCache := newCache(cfg)
	defer appCache.Close()

	tasksClient := tasks.NewClient(cfg.Redis)
	defer tasksClient.Close()

	worker := tasks.NewWorker(cfg.Redis)
	if err := worker.Start(); err != nil {
		return fmt.Errorf("failed to start task worker: %w", err)
	}
	defer worker.Shutdown()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Module wiring. Booking feeds the availability aggregator its
	// confirmed-booking busy time; availability feeds booking its
	// reservation re-check.
	organization.Init(e, db)
	person.Init(e, db)
	calendarSvc := calendar.Init(e, db)
	bookingSource := bookingrepo.NewAvailabilitySource(bookingrepo.NewBookingRepository(db))
	availabilitySvc := availability.Init(e, db, appCache, bookingSource, calendarSvc)
	notifier := notification.Init(db, tasksClient)
	booking.Init(e, db, availabilitySvc, calendarSvc, notifier)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	logger.Info("Server:Started", "addr", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Server:Shutdown:Start", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server:Shutdown:Error", "error", err)
		return err
	}

	logger.Info("Server:Shutdown:Complete")
	return nil
}

// newCache prefers Redis so busy-time entries are shared across replicas;
// when Redis is unreachable it degrades to the in-process cache.
func newCache(cfg *config.Config) cache.Cache {
	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		logger.Warn("Server:Cache:RedisUnavailable", "error", err, "addr", cfg.Redis.Addr)
		return cache.NewMemoryCache(time.Minute)
	}
	return redisCache
}
