package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-order-dashboard/internal/dashboard/config"
	delivery "stock-order-dashboard/internal/dashboard/delivery/http"
	"stock-order-dashboard/internal/dashboard/repository"
	"stock-order-dashboard/internal/dashboard/service"
	"stock-order-dashboard/internal/dashboard/settings"
	"stock-order-dashboard/internal/dashboard/store"
	"stock-order-dashboard/internal/entity"
	"stock-order-dashboard/pkg/logger"
	"stock-order-dashboard/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the order dashboard",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Order Dashboard", logger.Field("name", cfg.App.Name))

	// Initialize Telegram notifier (optional)
	var notifier telegram.Notifier
	if cfg.Telegram.Enabled && cfg.Telegram.BotToken != "" {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize stores
	orderStore := store.NewOrderStore()
	orderSeq := &store.Sequence{}
	settingsStore := settings.NewStore(entity.Settings{
		Telegram:       cfg.Defaults.Telegram,
		Sound:          cfg.Defaults.Sound,
		ColorIntensity: cfg.Defaults.ColorIntensity,
	})

	// Initialize gateway and services
	gateway := repository.NewOrdersGateway(cfg, appLogger)
	orderSvc := service.NewOrderService(appLogger, gateway, orderStore, orderSeq)
	notificationSvc := service.NewNotificationService(appLogger, gateway, orderSvc, settingsStore, notifier)
	analyticsSvc := service.NewAnalyticsService()

	// Start poll loop
	poller := service.NewPoller(cfg, appLogger, orderSvc, notificationSvc)
	if err := poller.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start poll loop", logger.ErrorField(err))
	}
	defer poller.Stop()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize handlers and routes
	api := e.Group("/api")

	ordersHandler := delivery.NewOrdersHandler(orderSvc, notificationSvc, poller, settingsStore, appLogger)
	ordersHandler.RegisterRoutes(api)

	alertsHandler := delivery.NewAlertsHandler(notificationSvc, settingsStore, appLogger)
	alertsHandler.RegisterRoutes(api)

	analyticsHandler := delivery.NewAnalyticsHandler(orderSvc, analyticsSvc, appLogger)
	analyticsHandler.RegisterRoutes(api)

	settingsHandler := delivery.NewSettingsHandler(settingsStore, appLogger)
	settingsHandler.RegisterRoutes(api)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "dashboard"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing dashboard CLI: %s\n", err)
		os.Exit(1)
	}
}
