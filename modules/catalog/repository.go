package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/example/inventory-dashboard/domain/inventory"
)

var (
	// ErrProductNotFound is returned when a product lookup by ID finds nothing.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateBarcode is returned when a product with the same barcode already exists.
	ErrDuplicateBarcode = errors.New("product with this barcode already exists")
	// ErrDuplicatePersonID is returned when a person with the same person ID already exists.
	ErrDuplicatePersonID = errors.New("person with this person ID already exists")
)

// Repository provides database access for the product and people collections.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateProduct saves a new product. The barcode must not already exist.
func (r *Repository) CreateProduct(ctx context.Context, product *inventory.Product) error {
	exists, err := r.BarcodeExists(ctx, product.Barcode)
	if err != nil {
		return fmt.Errorf("failed to check barcode existence: %w", err)
	}
	if exists {
		return ErrDuplicateBarcode
	}

	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// BarcodeExists reports whether any product carries the given barcode.
func (r *Repository) BarcodeExists(ctx context.Context, barcode string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.Product{}).
		Where("barcode = ?", barcode).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count products by barcode: %w", err)
	}
	return count > 0, nil
}

// FindProductByID retrieves a product by its document ID.
func (r *Repository) FindProductByID(ctx context.Context, id string) (*inventory.Product, error) {
	var product inventory.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

// FindProductsByBarcode retrieves all products matching the barcode, in
// creation order. Duplicates should not exist (unique index), but callers
// take the first match regardless.
func (r *Repository) FindProductsByBarcode(ctx context.Context, barcode string) ([]*inventory.Product, error) {
	var products []*inventory.Product
	if err := r.db.WithContext(ctx).
		Where("barcode = ?", barcode).
		Order("created_at ASC, id ASC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products by barcode: %w", err)
	}
	return products, nil
}

// ListProducts retrieves the full product collection in creation order.
// Every caller receives a complete snapshot, never a partial view.
func (r *Repository) ListProducts(ctx context.Context) ([]*inventory.Product, error) {
	var products []*inventory.Product
	if err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// UpdateStock sets the stock count of a product. Negative values are
// permitted; the backend is last-write-wins on this field.
func (r *Repository) UpdateStock(ctx context.Context, id string, stock int) (*inventory.Product, error) {
	result := r.db.WithContext(ctx).Model(&inventory.Product{}).
		Where("id = ?", id).Update("stock", stock)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrProductNotFound
	}
	return r.FindProductByID(ctx, id)
}

// CreatePerson saves a new person. The person ID must not already exist.
func (r *Repository) CreatePerson(ctx context.Context, person *inventory.Person) error {
	exists, err := r.PersonIDExists(ctx, person.PersonID)
	if err != nil {
		return fmt.Errorf("failed to check person ID existence: %w", err)
	}
	if exists {
		return ErrDuplicatePersonID
	}

	if err := r.db.WithContext(ctx).Create(person).Error; err != nil {
		return fmt.Errorf("failed to create person: %w", err)
	}
	return nil
}

// PersonIDExists reports whether any person carries the given person ID.
func (r *Repository) PersonIDExists(ctx context.Context, personID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.Person{}).
		Where("person_id = ?", personID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count people by person ID: %w", err)
	}
	return count > 0, nil
}

// FindPeopleByPersonID retrieves all people matching the scannable person
// ID, in creation order.
func (r *Repository) FindPeopleByPersonID(ctx context.Context, personID string) ([]*inventory.Person, error) {
	var people []*inventory.Person
	if err := r.db.WithContext(ctx).
		Where("person_id = ?", personID).
		Order("created_at ASC, id ASC").
		Find(&people).Error; err != nil {
		return nil, fmt.Errorf("failed to find people by person ID: %w", err)
	}
	return people, nil
}

// ListPeople retrieves the full people collection in creation order.
func (r *Repository) ListPeople(ctx context.Context) ([]*inventory.Person, error) {
	var people []*inventory.Person
	if err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&people).Error; err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	return people, nil
}

// Counts returns the size of both collections for the dashboard summary.
func (r *Repository) Counts(ctx context.Context) (products int64, people int64, err error) {
	if err := r.db.WithContext(ctx).Model(&inventory.Product{}).Count(&products).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count products: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&inventory.Person{}).Count(&people).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count people: %w", err)
	}
	return products, people, nil
}
