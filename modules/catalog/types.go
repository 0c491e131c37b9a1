package catalog

import "time"

// CreateProductRequest is the request for registering a product.
type CreateProductRequest struct {
	Name        string `json:"name"`
	Barcode     string `json:"barcode"`
	Stock       int    `json:"stock"`
	Description string `json:"description"`
}

// ProductResponse represents a product document in responses. LowStock is
// computed server-side so every rendering surface flags consistently.
type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Barcode     string    `json:"barcode"`
	Stock       int       `json:"stock"`
	Description string    `json:"description"`
	LowStock    bool      `json:"low_stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListProductsRequest is the request for the full product snapshot.
type ListProductsRequest struct{}

// ListProductsResponse is the full ordered product collection.
type ListProductsResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}

// UpdateStockRequest sets the stock count of a product. The new value
// replaces the stored one unconditionally (last write wins).
type UpdateStockRequest struct {
	ProductID string `json:"product_id"`
	Stock     int    `json:"stock"`
}

// CreatePersonRequest is the request for registering a staff member.
type CreatePersonRequest struct {
	Name     string `json:"name"`
	PersonID string `json:"person_id"`
	Role     string `json:"role"`
	DeviceID string `json:"device_id"`
}

// PersonResponse represents a person document in responses.
type PersonResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PersonID  string    `json:"person_id"`
	Role      string    `json:"role"`
	DeviceID  string    `json:"device_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListPeopleRequest is the request for the full people snapshot.
type ListPeopleRequest struct{}

// ListPeopleResponse is the full ordered people collection.
type ListPeopleResponse struct {
	People []PersonResponse `json:"people"`
	Total  int              `json:"total"`
}

// FindProductByBarcodeRequest is an equality lookup on the barcode field.
type FindProductByBarcodeRequest struct {
	Barcode string `json:"barcode"`
}

// FindProductByBarcodeResponse carries all matches in deterministic order.
type FindProductByBarcodeResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}

// FindPersonByCodeRequest is an equality lookup on the person_id field.
type FindPersonByCodeRequest struct {
	PersonID string `json:"person_id"`
}

// FindPersonByCodeResponse carries all matches in deterministic order.
type FindPersonByCodeResponse struct {
	People []PersonResponse `json:"people"`
	Total  int              `json:"total"`
}

// SummaryRequest is the request for collection counts.
type SummaryRequest struct{}

// SummaryResponse carries the dashboard header counts.
type SummaryResponse struct {
	ProductCount int64 `json:"product_count"`
	PeopleCount  int64 `json:"people_count"`
}
