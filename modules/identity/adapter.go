package identity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// IdentityPort is the interface other modules use for session operations.
type IdentityPort interface {
	SignInAnonymous(ctx context.Context) (*SignInAnonymousResponse, error)
	ValidateToken(ctx context.Context, token string) (*ValidateTokenResponse, error)
	GetIdentity(ctx context.Context, userID string) (*GetIdentityResponse, error)
}

// identityAdapter wraps ServiceContainer for type-safe cross-module
// communication with the identity module.
type identityAdapter struct {
	container mono.ServiceContainer
}

// NewIdentityAdapter creates a new adapter for identity services.
func NewIdentityAdapter(container mono.ServiceContainer) IdentityPort {
	if container == nil {
		panic("identity adapter requires non-nil ServiceContainer")
	}
	return &identityAdapter{container: container}
}

// SignInAnonymous mints a new anonymous session.
func (a *identityAdapter) SignInAnonymous(ctx context.Context) (*SignInAnonymousResponse, error) {
	req := SignInAnonymousRequest{}
	var resp SignInAnonymousResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "sign-in-anonymous", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("sign-in-anonymous service call failed: %w", err)
	}
	return &resp, nil
}

// ValidateToken checks a session token.
func (a *identityAdapter) ValidateToken(ctx context.Context, token string) (*ValidateTokenResponse, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "validate-token", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("validate-token service call failed: %w", err)
	}
	return &resp, nil
}

// GetIdentity fetches a stored identity record.
func (a *identityAdapter) GetIdentity(ctx context.Context, userID string) (*GetIdentityResponse, error) {
	req := GetIdentityRequest{UserID: userID}
	var resp GetIdentityResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "get-identity", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("get-identity service call failed: %w", err)
	}
	return &resp, nil
}
