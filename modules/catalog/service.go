package catalog

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono"
	"github.com/google/uuid"

	"github.com/example/inventory-dashboard/domain/inventory"
	"github.com/example/inventory-dashboard/events"
)

// createProduct handles the catalog.create-product service request.
// Name and barcode are required; stock is not bounds-checked, negative
// values are stored as-is.
func (m *CatalogModule) createProduct(ctx context.Context, req CreateProductRequest, _ *mono.Msg) (ProductResponse, error) {
	if req.Name == "" {
		return ProductResponse{}, fmt.Errorf("name is required")
	}
	if req.Barcode == "" {
		return ProductResponse{}, fmt.Errorf("barcode is required")
	}

	product := &inventory.Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Barcode:     req.Barcode,
		Stock:       req.Stock,
		Description: req.Description,
	}

	if err := m.repo.CreateProduct(ctx, product); err != nil {
		return ProductResponse{}, err
	}

	if m.eventBus != nil {
		event := events.ProductCreatedEvent{
			ProductID: product.ID,
			Name:      product.Name,
			Barcode:   product.Barcode,
			Stock:     product.Stock,
			Timestamp: time.Now(),
		}
		if err := events.ProductCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[catalog] Failed to publish ProductCreated event: %v", err)
		}
	}

	return toProductResponse(product), nil
}

// listProducts handles the catalog.list-products service request. The
// response is always the complete collection in creation order.
func (m *CatalogModule) listProducts(ctx context.Context, _ ListProductsRequest, _ *mono.Msg) (ListProductsResponse, error) {
	products, err := m.repo.ListProducts(ctx)
	if err != nil {
		return ListProductsResponse{}, err
	}

	response := ListProductsResponse{
		Products: make([]ProductResponse, 0, len(products)),
		Total:    len(products),
	}
	for _, product := range products {
		response.Products = append(response.Products, toProductResponse(product))
	}
	return response, nil
}

// updateStock handles the catalog.update-stock service request. No
// optimistic concurrency: the submitted value wins.
func (m *CatalogModule) updateStock(ctx context.Context, req UpdateStockRequest, _ *mono.Msg) (ProductResponse, error) {
	if req.ProductID == "" {
		return ProductResponse{}, fmt.Errorf("product_id is required")
	}

	product, err := m.repo.UpdateStock(ctx, req.ProductID, req.Stock)
	if err != nil {
		return ProductResponse{}, err
	}

	if m.eventBus != nil {
		event := events.StockUpdatedEvent{
			ProductID: product.ID,
			Barcode:   product.Barcode,
			Stock:     product.Stock,
			Timestamp: time.Now(),
		}
		if err := events.StockUpdatedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[catalog] Failed to publish StockUpdated event: %v", err)
		}
	}

	return toProductResponse(product), nil
}

// createPerson handles the catalog.create-person service request. Name and
// person_id are required; role and device_id are optional.
func (m *CatalogModule) createPerson(ctx context.Context, req CreatePersonRequest, _ *mono.Msg) (PersonResponse, error) {
	if req.Name == "" {
		return PersonResponse{}, fmt.Errorf("name is required")
	}
	if req.PersonID == "" {
		return PersonResponse{}, fmt.Errorf("person_id is required")
	}

	person := &inventory.Person{
		ID:       uuid.New().String(),
		Name:     req.Name,
		PersonID: req.PersonID,
		Role:     req.Role,
		DeviceID: req.DeviceID,
	}

	if err := m.repo.CreatePerson(ctx, person); err != nil {
		return PersonResponse{}, err
	}

	if m.eventBus != nil {
		event := events.PersonCreatedEvent{
			ID:        person.ID,
			Name:      person.Name,
			PersonID:  person.PersonID,
			Timestamp: time.Now(),
		}
		if err := events.PersonCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[catalog] Failed to publish PersonCreated event: %v", err)
		}
	}

	return toPersonResponse(person), nil
}

// listPeople handles the catalog.list-people service request.
func (m *CatalogModule) listPeople(ctx context.Context, _ ListPeopleRequest, _ *mono.Msg) (ListPeopleResponse, error) {
	people, err := m.repo.ListPeople(ctx)
	if err != nil {
		return ListPeopleResponse{}, err
	}

	response := ListPeopleResponse{
		People: make([]PersonResponse, 0, len(people)),
		Total:  len(people),
	}
	for _, person := range people {
		response.People = append(response.People, toPersonResponse(person))
	}
	return response, nil
}

// findProductByBarcode handles the catalog.find-product-by-barcode request.
// Zero matches is a valid response, not an error.
func (m *CatalogModule) findProductByBarcode(ctx context.Context, req FindProductByBarcodeRequest, _ *mono.Msg) (FindProductByBarcodeResponse, error) {
	if req.Barcode == "" {
		return FindProductByBarcodeResponse{}, fmt.Errorf("barcode is required")
	}

	products, err := m.repo.FindProductsByBarcode(ctx, req.Barcode)
	if err != nil {
		return FindProductByBarcodeResponse{}, err
	}

	response := FindProductByBarcodeResponse{
		Products: make([]ProductResponse, 0, len(products)),
		Total:    len(products),
	}
	for _, product := range products {
		response.Products = append(response.Products, toProductResponse(product))
	}
	return response, nil
}

// findPersonByCode handles the catalog.find-person-by-code request.
func (m *CatalogModule) findPersonByCode(ctx context.Context, req FindPersonByCodeRequest, _ *mono.Msg) (FindPersonByCodeResponse, error) {
	if req.PersonID == "" {
		return FindPersonByCodeResponse{}, fmt.Errorf("person_id is required")
	}

	people, err := m.repo.FindPeopleByPersonID(ctx, req.PersonID)
	if err != nil {
		return FindPersonByCodeResponse{}, err
	}

	response := FindPersonByCodeResponse{
		People: make([]PersonResponse, 0, len(people)),
		Total:  len(people),
	}
	for _, person := range people {
		response.People = append(response.People, toPersonResponse(person))
	}
	return response, nil
}

// summary handles the catalog.summary service request.
func (m *CatalogModule) summary(ctx context.Context, _ SummaryRequest, _ *mono.Msg) (SummaryResponse, error) {
	products, people, err := m.repo.Counts(ctx)
	if err != nil {
		return SummaryResponse{}, err
	}
	return SummaryResponse{ProductCount: products, PeopleCount: people}, nil
}

// toProductResponse converts a Product entity to a ProductResponse.
func toProductResponse(product *inventory.Product) ProductResponse {
	return ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Barcode:     product.Barcode,
		Stock:       product.Stock,
		Description: product.Description,
		LowStock:    product.IsLowStock(),
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// toPersonResponse converts a Person entity to a PersonResponse.
func toPersonResponse(person *inventory.Person) PersonResponse {
	return PersonResponse{
		ID:        person.ID,
		Name:      person.Name,
		PersonID:  person.PersonID,
		Role:      person.Role,
		DeviceID:  person.DeviceID,
		CreatedAt: person.CreatedAt,
		UpdatedAt: person.UpdatedAt,
	}
}
