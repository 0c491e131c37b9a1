// Package scan resolves scanned codes against the catalog: products by
// barcode first, then people by person ID. Results are cached and the cache
// is invalidated by catalog change events.
package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/inventory-dashboard/events"
	"github.com/example/inventory-dashboard/modules/cache"
	"github.com/example/inventory-dashboard/modules/catalog"
)

// ScanModule provides the scan resolution service.
type ScanModule struct {
	resolver *Resolver
	port     catalog.CatalogPort
}

// Compile-time interface checks.
var _ mono.Module = (*ScanModule)(nil)
var _ mono.ServiceProviderModule = (*ScanModule)(nil)
var _ mono.DependentModule = (*ScanModule)(nil)
var _ mono.EventConsumerModule = (*ScanModule)(nil)

// NewModule creates a new ScanModule.
func NewModule() *ScanModule {
	return &ScanModule{}
}

// Name returns the module name.
func (m *ScanModule) Name() string {
	return "scan"
}

// Dependencies declares the modules this module depends on.
func (m *ScanModule) Dependencies() []string {
	return []string{"catalog"}
}

// SetDependencyServiceContainer receives dependency containers from the
// framework.
func (m *ScanModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "catalog" {
		m.port = catalog.NewCatalogAdapter(container)
		m.resolver = NewResolver(m.port)
	}
}

// SetCache attaches the lookup cache after the cache module is up. Wired
// from main once the application has started.
func (m *ScanModule) SetCache(c *cache.Cache) {
	if m.resolver != nil {
		m.resolver.SetCache(c)
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *ScanModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "resolve", json.Unmarshal, json.Marshal, m.handleResolve,
	); err != nil {
		return fmt.Errorf("failed to register resolve service: %w", err)
	}

	log.Printf("[scan] Registered services: resolve")
	return nil
}

// RegisterEventConsumers subscribes to catalog change events so stale scan
// results are dropped from the cache.
func (m *ScanModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.ProductCreatedV1, m.handleProductCreated, m); err != nil {
		return fmt.Errorf("failed to register ProductCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.StockUpdatedV1, m.handleStockUpdated, m); err != nil {
		return fmt.Errorf("failed to register StockUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.PersonCreatedV1, m.handlePersonCreated, m); err != nil {
		return fmt.Errorf("failed to register PersonCreated consumer: %w", err)
	}

	log.Printf("[scan] Registered event consumers: ProductCreated, StockUpdated, PersonCreated")
	return nil
}

// handleResolve handles the scan.resolve service request.
func (m *ScanModule) handleResolve(ctx context.Context, req ResolveRequest, _ *mono.Msg) (ResolveResponse, error) {
	result, err := m.resolver.Resolve(ctx, req.Code)
	if err != nil {
		return ResolveResponse{}, err
	}
	return *result, nil
}

// handleProductCreated drops any cached result for the new barcode. A code
// previously resolved to "none" may now match.
func (m *ScanModule) handleProductCreated(ctx context.Context, event events.ProductCreatedEvent, _ *mono.Msg) error {
	m.resolver.Invalidate(ctx, event.Barcode)
	return nil
}

// handleStockUpdated drops the cached result for the product's barcode so
// the next scan reflects the new stock count.
func (m *ScanModule) handleStockUpdated(ctx context.Context, event events.StockUpdatedEvent, _ *mono.Msg) error {
	m.resolver.Invalidate(ctx, event.Barcode)
	return nil
}

// handlePersonCreated drops any cached result for the new person ID.
func (m *ScanModule) handlePersonCreated(ctx context.Context, event events.PersonCreatedEvent, _ *mono.Msg) error {
	m.resolver.Invalidate(ctx, event.PersonID)
	return nil
}

// Start validates that dependencies were injected.
func (m *ScanModule) Start(_ context.Context) error {
	if m.port == nil {
		return fmt.Errorf("catalog dependency not set")
	}
	log.Println("[scan] Module started (depends on: catalog)")
	return nil
}

// Stop shuts down the module.
func (m *ScanModule) Stop(_ context.Context) error {
	log.Println("[scan] Module stopped")
	return nil
}
