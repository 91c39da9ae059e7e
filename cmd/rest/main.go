package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/molinerisit/wa-bot-sheets/internal/bootstrap"
	"github.com/molinerisit/wa-bot-sheets/internal/config"
	"github.com/molinerisit/wa-bot-sheets/internal/server"
	"github.com/molinerisit/wa-bot-sheets/internal/tracer"
	"github.com/molinerisit/wa-bot-sheets/pkg/database"
	"github.com/molinerisit/wa-bot-sheets/pkg/events"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()
	sysLog := container.Logger

	shutdownTracer := tracer.InitTracer(cfg.Tracing, sysLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Start Background Services
	go container.MonitorHub.Run(ctx)

	go func() {
		if err := container.ConsumerService.Consume(ctx); err != nil {
			sysLog.Error("Main", "Consumer stopped", map[string]interface{}{"error": err.Error()})
		}
	}()

	if container.ReservationSubscriber != nil {
		err := container.ReservationSubscriber.Subscribe(ctx, events.RESERVATION_CREATED, cfg.Worker.ReservationSubject, container.ReservationNotifier.Handle)
		if err != nil {
			sysLog.Error("Main", "Reservation subscriber failed", map[string]interface{}{"error": err.Error()})
		}
	}

	// 5. Initialize and run the server until a signal arrives
	srv := server.New(cfg, container)
	go func() {
		if err := srv.Run(); err != nil {
			sysLog.Error("Main", "Server stopped", map[string]interface{}{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()
	sysLog.Info("Main", "Shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sysLog.Warn("Main", "HTTP shutdown incomplete", map[string]interface{}{"error": err.Error()})
	}
	container.ConsumerService.Wait()
	if err := shutdownTracer(shutdownCtx); err != nil {
		sysLog.Warn("Main", "Tracer shutdown failed", map[string]interface{}{"error": err.Error()})
	}
}
