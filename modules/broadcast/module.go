// Package broadcast keeps connected dashboard clients in sync. It consumes
// catalog change events and pushes full collection snapshots over WebSocket,
// and runs the transient notice center.
package broadcast

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/inventory-dashboard/domain/inventory"
	"github.com/example/inventory-dashboard/events"
	"github.com/example/inventory-dashboard/modules/catalog"
)

// BroadcastModule owns the WebSocket hub and the notice center.
type BroadcastModule struct {
	hub     *Hub
	notices *NoticeCenter
	port    catalog.CatalogPort
	cancel  context.CancelFunc
}

// Compile-time interface checks.
var _ mono.Module = (*BroadcastModule)(nil)
var _ mono.DependentModule = (*BroadcastModule)(nil)
var _ mono.EventConsumerModule = (*BroadcastModule)(nil)
var _ mono.HealthCheckableModule = (*BroadcastModule)(nil)

// NewModule creates a new BroadcastModule.
func NewModule(noticeWindow time.Duration) *BroadcastModule {
	hub := NewHub()
	return &BroadcastModule{
		hub:     hub,
		notices: NewNoticeCenter(hub.SendTo, noticeWindow),
	}
}

// Name returns the module name.
func (m *BroadcastModule) Name() string {
	return "broadcast"
}

// Dependencies declares the modules this module depends on.
func (m *BroadcastModule) Dependencies() []string {
	return []string{"catalog"}
}

// SetDependencyServiceContainer receives dependency containers from the
// framework.
func (m *BroadcastModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "catalog" {
		m.port = catalog.NewCatalogAdapter(container)
	}
}

// RegisterEventConsumers subscribes to catalog change events. Every change
// re-broadcasts the affected collection in full.
func (m *BroadcastModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.ProductCreatedV1, m.handleProductCreated, m); err != nil {
		return fmt.Errorf("failed to register ProductCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.StockUpdatedV1, m.handleStockUpdated, m); err != nil {
		return fmt.Errorf("failed to register StockUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.PersonCreatedV1, m.handlePersonCreated, m); err != nil {
		return fmt.Errorf("failed to register PersonCreated consumer: %w", err)
	}

	log.Printf("[broadcast] Registered event consumers: ProductCreated, StockUpdated, PersonCreated")
	return nil
}

func (m *BroadcastModule) handleProductCreated(ctx context.Context, event events.ProductCreatedEvent, _ *mono.Msg) error {
	m.PushProductSnapshot(ctx)
	m.notices.PostAll(m.hub.ClientIDs(), fmt.Sprintf("Product added: %s", event.Name))
	return nil
}

func (m *BroadcastModule) handleStockUpdated(ctx context.Context, event events.StockUpdatedEvent, _ *mono.Msg) error {
	m.PushProductSnapshot(ctx)
	m.notices.PostAll(m.hub.ClientIDs(), fmt.Sprintf("Stock updated: %s is now %d", event.Barcode, event.Stock))
	return nil
}

func (m *BroadcastModule) handlePersonCreated(ctx context.Context, event events.PersonCreatedEvent, _ *mono.Msg) error {
	m.PushPeopleSnapshot(ctx)
	m.notices.PostAll(m.hub.ClientIDs(), fmt.Sprintf("Person added: %s", event.Name))
	return nil
}

// PushProductSnapshot fetches the full product collection and broadcasts it
// to its subscribers. Fetch failures are logged; clients keep their last
// snapshot until the next successful change event.
func (m *BroadcastModule) PushProductSnapshot(ctx context.Context) {
	list, err := m.port.ListProducts(ctx)
	if err != nil {
		log.Printf("[broadcast] Failed to fetch product snapshot: %v", err)
		return
	}
	m.hub.Broadcast(inventory.CollectionProducts, SnapshotMessage{
		Type:       MessageTypeSnapshot,
		Collection: inventory.CollectionProducts,
		Documents:  list.Products,
		Count:      list.Total,
	})
}

// PushPeopleSnapshot fetches the full people collection and broadcasts it.
func (m *BroadcastModule) PushPeopleSnapshot(ctx context.Context) {
	list, err := m.port.ListPeople(ctx)
	if err != nil {
		log.Printf("[broadcast] Failed to fetch people snapshot: %v", err)
		return
	}
	m.hub.Broadcast(inventory.CollectionPeople, SnapshotMessage{
		Type:       MessageTypeSnapshot,
		Collection: inventory.CollectionPeople,
		Documents:  list.People,
		Count:      list.Total,
	})
}

// SendInitialSnapshot delivers the current collection state to one client,
// right after it subscribes, so a new subscriber starts consistent.
func (m *BroadcastModule) SendInitialSnapshot(ctx context.Context, clientID, collection string) error {
	switch collection {
	case inventory.CollectionProducts:
		list, err := m.port.ListProducts(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch product snapshot: %w", err)
		}
		m.hub.SendTo(clientID, SnapshotMessage{
			Type:       MessageTypeSnapshot,
			Collection: collection,
			Documents:  list.Products,
			Count:      list.Total,
		})
	case inventory.CollectionPeople:
		list, err := m.port.ListPeople(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch people snapshot: %w", err)
		}
		m.hub.SendTo(clientID, SnapshotMessage{
			Type:       MessageTypeSnapshot,
			Collection: collection,
			Documents:  list.People,
			Count:      list.Total,
		})
	default:
		return fmt.Errorf("unknown collection: %s", collection)
	}
	return nil
}

// GetHub returns the WebSocket hub.
func (m *BroadcastModule) GetHub() *Hub {
	return m.hub
}

// Notices returns the notice center.
func (m *BroadcastModule) Notices() *NoticeCenter {
	return m.notices
}

// Start runs the hub loop.
func (m *BroadcastModule) Start(_ context.Context) error {
	if m.port == nil {
		return fmt.Errorf("catalog dependency not set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	go m.hub.Run(ctx)

	log.Println("[broadcast] Module started (depends on: catalog)")
	return nil
}

// Stop shuts down the hub and disconnects all clients.
func (m *BroadcastModule) Stop(_ context.Context) error {
	if m.cancel != nil {
		m.cancel()
		m.hub.Wait()
	}
	log.Println("[broadcast] Module stopped")
	return nil
}

// Health reports hub occupancy.
func (m *BroadcastModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"clients":              m.hub.ClientCount(),
			"products_subscribers": m.hub.SubscriberCount(inventory.CollectionProducts),
			"people_subscribers":   m.hub.SubscriberCount(inventory.CollectionPeople),
		},
	}
}
