package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// ProductCreatedEvent is emitted when a new product is registered.
type ProductCreatedEvent struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Barcode   string    `json:"barcode"`
	Stock     int       `json:"stock"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductCreatedV1 is the typed event definition for product registration.
// Subject: events.catalog.v1.product-created
var ProductCreatedV1 = helper.EventDefinition[ProductCreatedEvent](
	"catalog", "ProductCreated", "v1",
)

// StockUpdatedEvent is emitted when a product's stock count changes.
type StockUpdatedEvent struct {
	ProductID string    `json:"product_id"`
	Barcode   string    `json:"barcode"`
	Stock     int       `json:"stock"`
	Timestamp time.Time `json:"timestamp"`
}

// StockUpdatedV1 is the typed event definition for stock updates.
// Subject: events.catalog.v1.stock-updated
var StockUpdatedV1 = helper.EventDefinition[StockUpdatedEvent](
	"catalog", "StockUpdated", "v1",
)

// PersonCreatedEvent is emitted when a new staff member is registered.
type PersonCreatedEvent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PersonID  string    `json:"person_id"`
	Timestamp time.Time `json:"timestamp"`
}

// PersonCreatedV1 is the typed event definition for personnel registration.
// Subject: events.catalog.v1.person-created
var PersonCreatedV1 = helper.EventDefinition[PersonCreatedEvent](
	"catalog", "PersonCreated", "v1",
)
