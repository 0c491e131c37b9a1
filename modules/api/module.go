// Package api exposes the dashboard's server surface: REST routes for
// sessions, records, scans and summary counts, plus the WebSocket endpoint
// that feeds live collection snapshots.
package api

import (
	"context"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/inventory-dashboard/modules/broadcast"
	"github.com/example/inventory-dashboard/modules/catalog"
	"github.com/example/inventory-dashboard/modules/identity"
	"github.com/example/inventory-dashboard/modules/scan"
)

// APIModule is the HTTP API module.
type APIModule struct {
	app          *fiber.App
	addr         string
	identityPort identity.IdentityPort
	catalogPort  catalog.CatalogPort
	scanPort     scan.ScanPort
	broadcastMod *broadcast.BroadcastModule
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule listening on addr.
func NewModule(addr string) *APIModule {
	return &APIModule{
		addr: addr,
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"identity", "catalog", "scan"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "identity":
		m.identityPort = identity.NewIdentityAdapter(container)
	case "catalog":
		m.catalogPort = catalog.NewCatalogAdapter(container)
	case "scan":
		m.scanPort = scan.NewScanAdapter(container)
	}
}

// SetBroadcast attaches the broadcast module for WebSocket wiring. Called
// from main before the application starts.
func (m *APIModule) SetBroadcast(b *broadcast.BroadcastModule) {
	m.broadcastMod = b
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.identityPort == nil || m.catalogPort == nil || m.scanPort == nil {
		return fmt.Errorf("module dependencies not set")
	}
	if m.broadcastMod == nil {
		return fmt.Errorf("broadcast module not set")
	}

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New())

	m.setupRoutes()

	go func() {
		if err := m.app.Listen(m.addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on %s", m.addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.addr,
		},
	}
}

// setupRoutes configures all API routes.
func (m *APIModule) setupRoutes() {
	handlers := NewHandlers(m.identityPort, m.catalogPort, m.scanPort)

	// Health check endpoint
	m.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	// API v1 routes
	v1 := m.app.Group("/api/v1")

	// Anonymous sign-in is the only public route
	v1.Post("/session", handlers.CreateSession)

	// Protected routes (require a session token)
	protected := v1.Group("")
	protected.Use(AuthMiddleware(m.identityPort))
	protected.Get("/session", handlers.WhoAmI)
	protected.Get("/products", handlers.ListProducts)
	protected.Post("/products", handlers.CreateProduct)
	protected.Patch("/products/:id/stock", handlers.UpdateStock)
	protected.Get("/people", handlers.ListPeople)
	protected.Post("/people", handlers.CreatePerson)
	protected.Post("/scan", handlers.Scan)
	protected.Get("/summary", handlers.Summary)

	// WebSocket upgrade with token auth via query parameter
	m.app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		token := c.Query("token")
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "token query parameter is required")
		}

		resp, err := m.identityPort.ValidateToken(c.UserContext(), token)
		if err != nil || !resp.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(UserContextKey, resp.UserID)
		return c.Next()
	})
	m.app.Get("/ws", websocket.New(handlers.HandleWebSocket(m.broadcastMod)))
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
