// Package catalog owns the product and people collections. It exposes
// request-reply services for registering and querying documents and emits
// change events that drive the live snapshot broadcast.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/inventory-dashboard/domain/inventory"
	"github.com/example/inventory-dashboard/events"
)

// CatalogModule provides the document store backing the dashboard.
type CatalogModule struct {
	db       *gorm.DB
	repo     *Repository
	dbPath   string
	eventBus mono.EventBus
}

// Compile-time interface checks.
var _ mono.Module = (*CatalogModule)(nil)
var _ mono.ServiceProviderModule = (*CatalogModule)(nil)
var _ mono.HealthCheckableModule = (*CatalogModule)(nil)
var _ mono.EventEmitterModule = (*CatalogModule)(nil)

// NewModule creates a new CatalogModule.
func NewModule() *CatalogModule {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "inventory.db"
	}
	return &CatalogModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *CatalogModule) Name() string {
	return "catalog"
}

// SetEventBus receives the event bus from the framework.
func (m *CatalogModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the change events this module publishes.
func (m *CatalogModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.ProductCreatedV1.ToBase(),
		events.StockUpdatedV1.ToBase(),
		events.PersonCreatedV1.ToBase(),
	}
}

// Health performs a health check on the catalog module.
func (m *CatalogModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get sql.DB: %v", err),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": "sqlite",
			"path":   m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
// The framework prefixes service names with "services.catalog." in the NATS
// subject.
func (m *CatalogModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-product", json.Unmarshal, json.Marshal, m.createProduct,
	); err != nil {
		return fmt.Errorf("failed to register create-product service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-products", json.Unmarshal, json.Marshal, m.listProducts,
	); err != nil {
		return fmt.Errorf("failed to register list-products service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-stock", json.Unmarshal, json.Marshal, m.updateStock,
	); err != nil {
		return fmt.Errorf("failed to register update-stock service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "create-person", json.Unmarshal, json.Marshal, m.createPerson,
	); err != nil {
		return fmt.Errorf("failed to register create-person service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-people", json.Unmarshal, json.Marshal, m.listPeople,
	); err != nil {
		return fmt.Errorf("failed to register list-people service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "find-product-by-barcode", json.Unmarshal, json.Marshal, m.findProductByBarcode,
	); err != nil {
		return fmt.Errorf("failed to register find-product-by-barcode service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "find-person-by-code", json.Unmarshal, json.Marshal, m.findPersonByCode,
	); err != nil {
		return fmt.Errorf("failed to register find-person-by-code service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "summary", json.Unmarshal, json.Marshal, m.summary,
	); err != nil {
		return fmt.Errorf("failed to register summary service: %w", err)
	}

	log.Printf("[catalog] Registered services: create-product, list-products, update-stock, create-person, list-people, find-product-by-barcode, find-person-by-code, summary")
	return nil
}

// Start initializes the database connection and runs migrations.
func (m *CatalogModule) Start(_ context.Context) error {
	log.Printf("[catalog] Connecting to SQLite database: %s", m.dbPath)

	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "true" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	m.db = db

	if err := m.db.AutoMigrate(&inventory.Product{}, &inventory.Person{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	m.repo = NewRepository(m.db)

	if m.eventBus == nil {
		log.Println("[catalog] Warning: eventBus not set, change events will not be published")
	}

	log.Println("[catalog] Module started successfully")
	return nil
}

// Stop gracefully closes the database connection.
func (m *CatalogModule) Stop(_ context.Context) error {
	if m.db == nil {
		return nil
	}

	log.Println("[catalog] Closing database connection...")

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("[catalog] Database connection closed")
	return nil
}
