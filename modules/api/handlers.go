package api

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/inventory-dashboard/modules/catalog"
	"github.com/example/inventory-dashboard/modules/identity"
	"github.com/example/inventory-dashboard/modules/scan"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	identityPort identity.IdentityPort
	catalogPort  catalog.CatalogPort
	scanPort     scan.ScanPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(identityPort identity.IdentityPort, catalogPort catalog.CatalogPort, scanPort scan.ScanPort) *Handlers {
	return &Handlers{
		identityPort: identityPort,
		catalogPort:  catalogPort,
		scanPort:     scanPort,
	}
}

// CreateSession handles anonymous sign-in (POST /api/v1/session). A failure
// leaves the caller unauthenticated; there is no retry.
func (h *Handlers) CreateSession(c *fiber.Ctx) error {
	resp, err := h.identityPort.SignInAnonymous(c.UserContext())
	if err != nil {
		log.Printf("[api] Anonymous sign-in failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "Sign-in failed",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(SessionResponse{
		UserID:    resp.UserID,
		Token:     resp.Token,
		ExpiresIn: resp.ExpiresIn,
		TokenType: resp.TokenType,
	})
}

// WhoAmI returns the caller's stored identity (GET /api/v1/session).
func (h *Handlers) WhoAmI(c *fiber.Ctx) error {
	userID, _ := c.Locals(UserContextKey).(string)

	resp, err := h.identityPort.GetIdentity(c.UserContext(), userID)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(WhoAmIResponse{
		UserID:     resp.UserID,
		Anonymous:  resp.Anonymous,
		CreatedAt:  resp.CreatedAt,
		LastSeenAt: resp.LastSeenAt,
	})
}

// ListProducts returns the full product snapshot (GET /api/v1/products).
func (h *Handlers) ListProducts(c *fiber.Ctx) error {
	resp, err := h.catalogPort.ListProducts(c.UserContext())
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(resp)
}

// CreateProduct registers a product (POST /api/v1/products).
func (h *Handlers) CreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	resp, err := h.catalogPort.CreateProduct(c.UserContext(), &catalog.CreateProductRequest{
		Name:        req.Name,
		Barcode:     req.Barcode,
		Stock:       int(req.Stock),
		Description: req.Description,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateStock sets a product's stock count (PATCH /api/v1/products/:id/stock).
func (h *Handlers) UpdateStock(c *fiber.Ctx) error {
	productID := c.Params("id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Product ID is required",
		})
	}

	var req UpdateStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	resp, err := h.catalogPort.UpdateStock(c.UserContext(), &catalog.UpdateStockRequest{
		ProductID: productID,
		Stock:     int(req.Stock),
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.JSON(resp)
}

// ListPeople returns the full people snapshot (GET /api/v1/people).
func (h *Handlers) ListPeople(c *fiber.Ctx) error {
	resp, err := h.catalogPort.ListPeople(c.UserContext())
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(resp)
}

// CreatePerson registers a staff member (POST /api/v1/people).
func (h *Handlers) CreatePerson(c *fiber.Ctx) error {
	var req CreatePersonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	resp, err := h.catalogPort.CreatePerson(c.UserContext(), &catalog.CreatePersonRequest{
		Name:     req.Name,
		PersonID: req.PersonID,
		Role:     req.Role,
		DeviceID: req.DeviceID,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Scan resolves a scanned code (POST /api/v1/scan).
func (h *Handlers) Scan(c *fiber.Ctx) error {
	var req ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	resp, err := h.scanPort.Resolve(c.UserContext(), req.Code)
	if err != nil {
		return h.handleScanError(c, err)
	}

	return c.JSON(resp)
}

// Summary returns collection counts (GET /api/v1/summary).
func (h *Handlers) Summary(c *fiber.Ctx) error {
	resp, err := h.catalogPort.Summary(c.UserContext())
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(resp)
}

// handleServiceError maps catalog and identity service errors to HTTP
// status codes. Service errors cross the bus as messages, so classification
// matches on the known error texts.
func (h *Handlers) handleServiceError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "is required"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: trimServiceError(errStr),
		})
	case strings.Contains(errStr, "already exists"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: trimServiceError(errStr),
		})
	case strings.Contains(errStr, "not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: trimServiceError(errStr),
		})
	default:
		// Log the actual error but don't expose it to the client
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// handleScanError maps scan resolution failures. An empty code is a
// validation failure; anything else means the lookup backend is unreachable
// and the caller may simply scan again.
func (h *Handlers) handleScanError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "scan code is empty"):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "Scan code is empty",
		})
	case strings.Contains(errStr, "lookup backend unavailable"):
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "backend_unavailable",
			Message: "Lookup failed, try scanning again",
		})
	default:
		log.Printf("[api] Scan error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// trimServiceError strips the adapter call prefix from a service error so
// clients see only the meaningful part.
func trimServiceError(errStr string) string {
	if idx := strings.LastIndex(errStr, ": "); idx >= 0 {
		return errStr[idx+2:]
	}
	return errStr
}
