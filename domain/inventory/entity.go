// Package inventory defines the core domain entities for the dashboard:
// products tracked by barcode and personnel tracked by a scannable person ID.
package inventory

import (
	"time"
)

// LowStockThreshold is the fixed stock level below which a product is
// flagged as low. A product with stock exactly at the threshold is NOT low.
const LowStockThreshold = 10

// Product represents a registered product. The barcode is the sole lookup
// key for scan resolution and must be unique across products.
type Product struct {
	ID          string    `gorm:"primarykey;size:36" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Barcode     string    `gorm:"size:100;not null;uniqueIndex" json:"barcode"`
	Stock       int       `gorm:"not null;default:0" json:"stock"`
	Description string    `gorm:"size:500" json:"description"`
}

// TableName returns the table name for the Product model.
func (Product) TableName() string {
	return "products"
}

// IsLowStock reports whether the product is below the low-stock threshold.
// The comparison is strict: stock 9 is low, stock 10 is not.
func (p *Product) IsLowStock() bool {
	return p.Stock < LowStockThreshold
}

// Person represents a registered staff member. PersonID is the scannable
// identifier and must be unique across people. Role and DeviceID are
// optional.
type Person struct {
	ID        string    `gorm:"primarykey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	PersonID  string    `gorm:"size:100;not null;uniqueIndex" json:"person_id"`
	Role      string    `gorm:"size:100" json:"role"`
	DeviceID  string    `gorm:"size:100" json:"device_id"`
}

// TableName returns the table name for the Person model.
func (Person) TableName() string {
	return "people"
}

// Identity represents an anonymous session subject. It is created on the
// first anonymous sign-in of a client and is not linked to Product or
// Person records.
type Identity struct {
	ID         string    `gorm:"primarykey;size:36" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	Anonymous  bool      `gorm:"not null;default:true" json:"anonymous"`
}

// TableName returns the table name for the Identity model.
func (Identity) TableName() string {
	return "identities"
}

// Collection names used by the live snapshot subscriptions.
const (
	CollectionProducts = "products"
	CollectionPeople   = "people"
)
