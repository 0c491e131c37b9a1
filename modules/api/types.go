package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrorResponse is the JSON shape of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// FlexInt accepts both a JSON number and a numeric string, truncating any
// fractional part. Stock values arrive from form inputs and may be quoted.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value: %s", s)
	}
	*f = FlexInt(int(n))
	return nil
}

// SessionResponse is returned on anonymous sign-in.
type SessionResponse struct {
	UserID    string `json:"user_id"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	TokenType string `json:"token_type"`
}

// WhoAmIResponse describes the caller's current session.
type WhoAmIResponse struct {
	UserID     string    `json:"user_id"`
	Anonymous  bool      `json:"anonymous"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// CreateProductRequest is the HTTP request for registering a product.
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Barcode     string  `json:"barcode"`
	Stock       FlexInt `json:"stock"`
	Description string  `json:"description"`
}

// UpdateStockRequest is the HTTP request body for a stock update.
type UpdateStockRequest struct {
	Stock FlexInt `json:"stock"`
}

// CreatePersonRequest is the HTTP request for registering a person.
type CreatePersonRequest struct {
	Name     string `json:"name"`
	PersonID string `json:"person_id"`
	Role     string `json:"role"`
	DeviceID string `json:"device_id"`
}

// ScanRequest is the HTTP request for resolving a scanned code.
type ScanRequest struct {
	Code string `json:"code"`
}
