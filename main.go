package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	apimod "github.com/example/inventory-dashboard/modules/api"
	broadcastmod "github.com/example/inventory-dashboard/modules/broadcast"
	cachemod "github.com/example/inventory-dashboard/modules/cache"
	catalogmod "github.com/example/inventory-dashboard/modules/catalog"
	identitymod "github.com/example/inventory-dashboard/modules/identity"
	scanmod "github.com/example/inventory-dashboard/modules/scan"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration from environment
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	httpPort := getEnvInt("HTTP_PORT", 3000)
	cacheTTL := getEnvDuration("CACHE_TTL", 5*time.Minute)
	noticeWindow := getEnvDuration("NOTICE_WINDOW", broadcastmod.DefaultNoticeWindow)

	log.Println("=== Inventory Dashboard ===")
	log.Printf("Redis: %s", redisAddr)
	log.Printf("HTTP Port: %d", httpPort)
	log.Printf("Cache TTL: %s", cacheTTL)
	log.Printf("Notice Window: %s", noticeWindow)

	// Create modules
	identityModule := identitymod.NewModule()
	catalogModule := catalogmod.NewModule()
	cacheModule := cachemod.NewModule(redisAddr, cacheTTL)
	scanModule := scanmod.NewModule()
	broadcastModule := broadcastmod.NewModule(noticeWindow)
	apiModule := apimod.NewModule(fmt.Sprintf(":%d", httpPort))

	// The API serves the WebSocket endpoint through the broadcast hub
	apiModule.SetBroadcast(broadcastModule)

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	// Register modules; dependency order is resolved by the framework
	app.Register(identityModule)
	app.Register(catalogModule)
	app.Register(cacheModule)
	app.Register(scanModule)
	app.Register(broadcastModule)
	app.Register(apiModule)

	// Start modules (this handles Init and Start)
	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	// Wire up the lookup cache after start
	scanModule.SetCache(cacheModule.GetCache())

	log.Println("=== Application Started ===")
	log.Printf("API available at http://localhost:%d", httpPort)
	log.Println("Endpoints:")
	log.Println("  GET    /health                        - Health check")
	log.Println("  POST   /api/v1/session                - Anonymous sign-in")
	log.Println("  GET    /api/v1/session                - Current session")
	log.Println("  GET    /api/v1/products               - List products")
	log.Println("  POST   /api/v1/products               - Register product")
	log.Println("  PATCH  /api/v1/products/:id/stock     - Update stock")
	log.Println("  GET    /api/v1/people                 - List people")
	log.Println("  POST   /api/v1/people                 - Register person")
	log.Println("  POST   /api/v1/scan                   - Resolve scanned code")
	log.Println("  GET    /api/v1/summary                - Collection counts")
	log.Println("  GET    /ws?token=...                  - Live collection snapshots")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown")

	// Setup graceful shutdown using gelmium/graceful-shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	// Wait for shutdown signal and exit with appropriate code
	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
