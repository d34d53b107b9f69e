package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-kasir-pos/internal/cart"
	"go-kasir-pos/internal/catalog"
	"go-kasir-pos/internal/checkout"
	"go-kasir-pos/internal/config"
	"go-kasir-pos/internal/gateway"
	"go-kasir-pos/internal/guard"
	"go-kasir-pos/internal/handler"
	"go-kasir-pos/internal/middleware"
	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/repository"
	"go-kasir-pos/internal/service"
	"go-kasir-pos/internal/stock"
	"go-kasir-pos/internal/ws"
	"go-kasir-pos/pkg/database"
	"go-kasir-pos/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	log := logger.New(cfg.LogLevel)
	if envErr != nil {
		log.Warn("Warning: .env file not found")
	}

	// 2. Setup Journal Database
	db, err := database.ConnectDB(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate journal: %v", err)
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run()

	// 4. Submission guard (Redis jika tersedia)
	var busy guard.Guard
	if cfg.RedisAddr != "" {
		rdb := guard.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer rdb.Close()
		busy = guard.NewRedis(rdb, cfg.BusyTTL, log)
		log.WithField("addr", cfg.RedisAddr).Info("busy flags shared through redis")
	} else {
		busy = guard.NewLocal()
	}

	// 5. Dependency Injection (Wiring Layers)
	gw := gateway.NewClient(cfg.APIEndpoint, cfg.GatewayTimeout, log)
	if !gw.Configured() {
		log.Warn("API_ENDPOINT not configured, running on the built-in menu")
	}
	journalRepo := repository.NewJournalRepo(db)

	store := catalog.NewStore(nil)
	loader := service.NewCatalogLoader(gw, store, wsHub, log)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.GatewayTimeout)
	loader.Reload(ctx)
	cancel()

	cartLedger := cart.NewLedger()
	flow := checkout.NewFlow(cartLedger, gw, busy, checkout.Options{
		Table:     cfg.StationTable,
		OrderType: model.OrderType(cfg.StationOrderType),
	})
	stockLedger := stock.NewLedger(store, cfg.StockConfirmationTTL)

	posService := service.NewPosService(loader, cartLedger, flow, journalRepo, wsHub, log)
	invService := service.NewInventoryService(loader, stockLedger, gw, busy, journalRepo, wsHub, log)
	dashService := service.NewDashboardService(journalRepo, loader)

	posHandler := handler.NewPosHandler(posService)
	invHandler := handler.NewInventoryHandler(invService)
	dashHandler := handler.NewDashboardHandler(dashService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Kasir Food Court v1.0",
		ReadTimeout:  cfg.GatewayTimeout + 5*time.Second,
		WriteTimeout: cfg.GatewayTimeout + 5*time.Second,
	})

	// Middleware
	app.Use(middleware.RequestLogger(log)) // Logging request
	app.Use(recover.New())                 // Panic recovery
	app.Use(cors.New())                    // CORS

	// 7. Routes
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":          "ok",
			"endpoint_ready":  gw.Configured(),
			"catalog_source":  loader.Source(),
			"catalog_stale":   store.Stale(),
			"display_clients": wsHub.ClientCount(),
		})
	})

	api := app.Group("/api/v1")
	handler.RegisterRoutes(api, posHandler, invHandler, dashHandler)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Info("Server exited")
}
