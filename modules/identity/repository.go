package identity

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/example/inventory-dashboard/domain/inventory"
)

// ErrIdentityNotFound is returned when no identity matches the given ID.
var ErrIdentityNotFound = errors.New("identity not found")

// IdentityRepository provides database access for identity records.
type IdentityRepository struct {
	db *gorm.DB
}

// NewIdentityRepository creates a new IdentityRepository.
func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// Create saves a new identity record.
func (r *IdentityRepository) Create(identity *inventory.Identity) error {
	if err := r.db.Create(identity).Error; err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}
	return nil
}

// FindByID retrieves an identity by its ID.
func (r *IdentityRepository) FindByID(id string) (*inventory.Identity, error) {
	var identity inventory.Identity
	if err := r.db.First(&identity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}
	return &identity, nil
}

// TouchLastSeen updates the last-seen timestamp of an identity.
func (r *IdentityRepository) TouchLastSeen(id string) error {
	result := r.db.Model(&inventory.Identity{}).
		Where("id = ?", id).Update("last_seen_at", time.Now())
	if result.Error != nil {
		return fmt.Errorf("failed to touch identity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrIdentityNotFound
	}
	return nil
}
