package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/inventory-dashboard/domain/inventory"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&inventory.Product{}, &inventory.Person{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newTestProduct(name, barcode string, stock int) *inventory.Product {
	return &inventory.Product{
		ID:      uuid.New().String(),
		Name:    name,
		Barcode: barcode,
		Stock:   stock,
	}
}

func TestRepository_CreateProduct(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("create product", func(t *testing.T) {
		product := newTestProduct("Widget", "4006381333931", 25)
		if err := repo.CreateProduct(ctx, product); err != nil {
			t.Fatalf("CreateProduct() error = %v", err)
		}

		var found inventory.Product
		if err := db.First(&found, "id = ?", product.ID).Error; err != nil {
			t.Fatalf("failed to find created product: %v", err)
		}
		if found.Barcode != product.Barcode {
			t.Errorf("expected barcode %q, got %q", product.Barcode, found.Barcode)
		}
	})

	t.Run("duplicate barcode rejected", func(t *testing.T) {
		dup := newTestProduct("Widget Clone", "4006381333931", 5)
		err := repo.CreateProduct(ctx, dup)
		if !errors.Is(err, ErrDuplicateBarcode) {
			t.Errorf("expected ErrDuplicateBarcode, got %v", err)
		}
	})

	t.Run("negative stock stored as-is", func(t *testing.T) {
		product := newTestProduct("Oversold", "1111111111111", -3)
		if err := repo.CreateProduct(ctx, product); err != nil {
			t.Fatalf("CreateProduct() error = %v", err)
		}

		found, err := repo.FindProductByID(ctx, product.ID)
		if err != nil {
			t.Fatalf("FindProductByID() error = %v", err)
		}
		if found.Stock != -3 {
			t.Errorf("expected stock -3, got %d", found.Stock)
		}
	})
}

func TestRepository_FindProductsByBarcode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := newTestProduct("Scanner Target", "5901234123457", 12)
	if err := repo.CreateProduct(ctx, product); err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}

	t.Run("existing barcode", func(t *testing.T) {
		found, err := repo.FindProductsByBarcode(ctx, "5901234123457")
		if err != nil {
			t.Fatalf("FindProductsByBarcode() error = %v", err)
		}
		if len(found) != 1 {
			t.Fatalf("expected 1 match, got %d", len(found))
		}
		if found[0].ID != product.ID {
			t.Errorf("expected ID %q, got %q", product.ID, found[0].ID)
		}
	})

	t.Run("unknown barcode", func(t *testing.T) {
		found, err := repo.FindProductsByBarcode(ctx, "0000000000000")
		if err != nil {
			t.Fatalf("FindProductsByBarcode() error = %v", err)
		}
		if len(found) != 0 {
			t.Errorf("expected 0 matches, got %d", len(found))
		}
	})
}

func TestRepository_ListProducts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("empty database", func(t *testing.T) {
		products, err := repo.ListProducts(ctx)
		if err != nil {
			t.Fatalf("ListProducts() error = %v", err)
		}
		if len(products) != 0 {
			t.Errorf("expected 0 products, got %d", len(products))
		}
	})

	// Seed with distinct creation times so ordering is observable.
	base := time.Now().Add(-time.Hour)
	names := []string{"First", "Second", "Third"}
	for i, name := range names {
		product := &inventory.Product{
			ID:        uuid.New().String(),
			Name:      name,
			Barcode:   "barcode-" + name,
			Stock:     i,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(product).Error; err != nil {
			t.Fatalf("failed to create test product: %v", err)
		}
	}

	t.Run("creation order", func(t *testing.T) {
		products, err := repo.ListProducts(ctx)
		if err != nil {
			t.Fatalf("ListProducts() error = %v", err)
		}
		if len(products) != 3 {
			t.Fatalf("expected 3 products, got %d", len(products))
		}
		for i, name := range names {
			if products[i].Name != name {
				t.Errorf("position %d: expected %q, got %q", i, name, products[i].Name)
			}
		}
	})
}

func TestRepository_UpdateStock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := newTestProduct("Adjustable", "7611234567890", 20)
	if err := repo.CreateProduct(ctx, product); err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}

	t.Run("update existing product", func(t *testing.T) {
		updated, err := repo.UpdateStock(ctx, product.ID, 7)
		if err != nil {
			t.Fatalf("UpdateStock() error = %v", err)
		}
		if updated.Stock != 7 {
			t.Errorf("expected stock 7, got %d", updated.Stock)
		}
		if updated.Barcode != product.Barcode {
			t.Errorf("barcode changed unexpectedly: %q", updated.Barcode)
		}
	})

	t.Run("negative stock permitted", func(t *testing.T) {
		updated, err := repo.UpdateStock(ctx, product.ID, -5)
		if err != nil {
			t.Fatalf("UpdateStock() error = %v", err)
		}
		if updated.Stock != -5 {
			t.Errorf("expected stock -5, got %d", updated.Stock)
		}
	})

	t.Run("non-existent product", func(t *testing.T) {
		_, err := repo.UpdateStock(ctx, "non-existent-id", 1)
		if !errors.Is(err, ErrProductNotFound) {
			t.Errorf("expected ErrProductNotFound, got %v", err)
		}
	})
}

func TestRepository_CreatePerson(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	person := &inventory.Person{
		ID:       uuid.New().String(),
		Name:     "Alex Doe",
		PersonID: "EMP-001",
		Role:     "picker",
	}

	t.Run("create person", func(t *testing.T) {
		if err := repo.CreatePerson(ctx, person); err != nil {
			t.Fatalf("CreatePerson() error = %v", err)
		}

		found, err := repo.FindPeopleByPersonID(ctx, "EMP-001")
		if err != nil {
			t.Fatalf("FindPeopleByPersonID() error = %v", err)
		}
		if len(found) != 1 {
			t.Fatalf("expected 1 match, got %d", len(found))
		}
		if found[0].Name != "Alex Doe" {
			t.Errorf("expected name %q, got %q", "Alex Doe", found[0].Name)
		}
	})

	t.Run("duplicate person ID rejected", func(t *testing.T) {
		dup := &inventory.Person{
			ID:       uuid.New().String(),
			Name:     "Another Alex",
			PersonID: "EMP-001",
		}
		err := repo.CreatePerson(ctx, dup)
		if !errors.Is(err, ErrDuplicatePersonID) {
			t.Errorf("expected ErrDuplicatePersonID, got %v", err)
		}
	})
}

func TestRepository_Counts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	if err := repo.CreateProduct(ctx, newTestProduct("A", "bar-a", 1)); err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}
	if err := repo.CreateProduct(ctx, newTestProduct("B", "bar-b", 2)); err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}
	person := &inventory.Person{ID: uuid.New().String(), Name: "C", PersonID: "EMP-C"}
	if err := repo.CreatePerson(ctx, person); err != nil {
		t.Fatalf("failed to create test person: %v", err)
	}

	products, people, err := repo.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts() error = %v", err)
	}
	if products != 2 {
		t.Errorf("expected 2 products, got %d", products)
	}
	if people != 1 {
		t.Errorf("expected 1 person, got %d", people)
	}
}
