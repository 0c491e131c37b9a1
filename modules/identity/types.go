package identity

import "time"

// SignInAnonymousRequest is the request for anonymous sign-in. It carries
// no fields: there are no credentials in this flow.
type SignInAnonymousRequest struct{}

// SignInAnonymousResponse is the response after anonymous sign-in.
type SignInAnonymousResponse struct {
	UserID    string `json:"user_id"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	TokenType string `json:"token_type"`
}

// ValidateTokenRequest is the request for token validation.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse is the response after token validation. Validation
// failures are carried in the response, not as a service error.
type ValidateTokenResponse struct {
	Valid     bool   `json:"valid"`
	UserID    string `json:"user_id,omitempty"`
	Anonymous bool   `json:"anonymous,omitempty"`
	Error     string `json:"error,omitempty"`
}

// GetIdentityRequest is the request for fetching an identity record.
type GetIdentityRequest struct {
	UserID string `json:"user_id"`
}

// GetIdentityResponse carries a stored identity record.
type GetIdentityResponse struct {
	UserID     string    `json:"user_id"`
	Anonymous  bool      `json:"anonymous"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}
