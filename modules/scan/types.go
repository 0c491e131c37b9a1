package scan

import "github.com/example/inventory-dashboard/modules/catalog"

// Result kinds. A scan resolves to exactly one of these.
const (
	KindProduct = "product"
	KindPerson  = "person"
	KindNone    = "none"
)

// ResolveRequest is the request for resolving a scanned code.
type ResolveRequest struct {
	Code string `json:"code"`
}

// ResolveResponse is the outcome of a scan resolution. Exactly one of
// Product or Person is set when Kind is not "none".
type ResolveResponse struct {
	Kind    string                   `json:"kind"`
	Code    string                   `json:"code"`
	Product *catalog.ProductResponse `json:"product,omitempty"`
	Person  *catalog.PersonResponse  `json:"person,omitempty"`
}
