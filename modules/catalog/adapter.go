package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// CatalogPort is the interface other modules use to reach the catalog.
// Keeps dependents decoupled from the service wire format.
type CatalogPort interface {
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*ProductResponse, error)
	ListProducts(ctx context.Context) (*ListProductsResponse, error)
	UpdateStock(ctx context.Context, req *UpdateStockRequest) (*ProductResponse, error)
	CreatePerson(ctx context.Context, req *CreatePersonRequest) (*PersonResponse, error)
	ListPeople(ctx context.Context) (*ListPeopleResponse, error)
	FindProductByBarcode(ctx context.Context, barcode string) (*FindProductByBarcodeResponse, error)
	FindPersonByCode(ctx context.Context, personID string) (*FindPersonByCodeResponse, error)
	Summary(ctx context.Context) (*SummaryResponse, error)
}

// catalogAdapter wraps ServiceContainer for type-safe cross-module
// communication with the catalog module.
type catalogAdapter struct {
	container mono.ServiceContainer
}

// NewCatalogAdapter creates a new adapter for catalog services. container is
// the ServiceContainer received via SetDependencyServiceContainer.
func NewCatalogAdapter(container mono.ServiceContainer) CatalogPort {
	if container == nil {
		panic("catalog adapter requires non-nil ServiceContainer")
	}
	return &catalogAdapter{container: container}
}

// CreateProduct registers a product via the create-product service.
func (a *catalogAdapter) CreateProduct(ctx context.Context, req *CreateProductRequest) (*ProductResponse, error) {
	var resp ProductResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "create-product", json.Marshal, json.Unmarshal, req, &resp,
	); err != nil {
		return nil, fmt.Errorf("create-product service call failed: %w", err)
	}
	return &resp, nil
}

// ListProducts fetches the full product snapshot via the list-products service.
func (a *catalogAdapter) ListProducts(ctx context.Context) (*ListProductsResponse, error) {
	req := ListProductsRequest{}
	var resp ListProductsResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "list-products", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("list-products service call failed: %w", err)
	}
	return &resp, nil
}

// UpdateStock sets a product's stock count via the update-stock service.
func (a *catalogAdapter) UpdateStock(ctx context.Context, req *UpdateStockRequest) (*ProductResponse, error) {
	var resp ProductResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "update-stock", json.Marshal, json.Unmarshal, req, &resp,
	); err != nil {
		return nil, fmt.Errorf("update-stock service call failed: %w", err)
	}
	return &resp, nil
}

// CreatePerson registers a staff member via the create-person service.
func (a *catalogAdapter) CreatePerson(ctx context.Context, req *CreatePersonRequest) (*PersonResponse, error) {
	var resp PersonResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "create-person", json.Marshal, json.Unmarshal, req, &resp,
	); err != nil {
		return nil, fmt.Errorf("create-person service call failed: %w", err)
	}
	return &resp, nil
}

// ListPeople fetches the full people snapshot via the list-people service.
func (a *catalogAdapter) ListPeople(ctx context.Context) (*ListPeopleResponse, error) {
	req := ListPeopleRequest{}
	var resp ListPeopleResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "list-people", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("list-people service call failed: %w", err)
	}
	return &resp, nil
}

// FindProductByBarcode issues the barcode equality lookup.
func (a *catalogAdapter) FindProductByBarcode(ctx context.Context, barcode string) (*FindProductByBarcodeResponse, error) {
	req := FindProductByBarcodeRequest{Barcode: barcode}
	var resp FindProductByBarcodeResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "find-product-by-barcode", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("find-product-by-barcode service call failed: %w", err)
	}
	return &resp, nil
}

// FindPersonByCode issues the person_id equality lookup.
func (a *catalogAdapter) FindPersonByCode(ctx context.Context, personID string) (*FindPersonByCodeResponse, error) {
	req := FindPersonByCodeRequest{PersonID: personID}
	var resp FindPersonByCodeResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "find-person-by-code", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("find-person-by-code service call failed: %w", err)
	}
	return &resp, nil
}

// Summary fetches collection counts via the summary service.
func (a *catalogAdapter) Summary(ctx context.Context) (*SummaryResponse, error) {
	req := SummaryRequest{}
	var resp SummaryResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "summary", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("summary service call failed: %w", err)
	}
	return &resp, nil
}
