package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/snooker-app/config"
	"github.com/yeremiapane/snooker-app/kds"
	"github.com/yeremiapane/snooker-app/router"
	"github.com/yeremiapane/snooker-app/services"
	"github.com/yeremiapane/snooker-app/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	utils.InitLogger(cfg.LogLevel)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	kv, err := config.InitStore(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to open bill store: %v", err)
	}
	defer kv.Close()

	hub := kds.NewHub()
	registry := services.NewSessionRegistry(cfg.RegistryConfig(), services.NewNotifier())
	defer registry.Close()
	registry.Subscribe(hub.SessionChanged)

	ledger := services.NewLedgerStore(kv)
	billing := services.NewBillingAssembler(registry, ledger)

	monitor := services.NewChangeMonitor(ledger, hub.BroadcastDashboardUpdate)
	monitor.Interval = cfg.DashboardInterval
	monitor.Start()
	defer monitor.Stop()

	r := router.SetupRouter(router.Options{
		Registry:       registry,
		Ledger:         ledger,
		Billing:        billing,
		Hub:            hub,
		CORSOrigin:     cfg.CORSOrigin,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		utils.InfoLogger.Printf("Listening on port %s (%d tables)", cfg.Port, cfg.TableCount)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Errorf("Server shutdown: %v", err)
	}
}
