package identity

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/example/inventory-dashboard/domain/inventory"
)

// IdentityService handles anonymous session business logic. There are no
// credentials anywhere: signing in always mints a fresh identity.
type IdentityService struct {
	repo     *IdentityRepository
	sessions *SessionManager
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(repo *IdentityRepository, sessions *SessionManager) *IdentityService {
	return &IdentityService{
		repo:     repo,
		sessions: sessions,
	}
}

// SignInAnonymous creates a new anonymous identity and issues a session
// token for it. A failed sign-in leaves the caller unauthenticated; there
// is no retry here.
func (s *IdentityService) SignInAnonymous(_ context.Context) (*inventory.Identity, string, error) {
	now := time.Now()
	identity := &inventory.Identity{
		ID:         uuid.New().String(),
		CreatedAt:  now,
		LastSeenAt: now,
		Anonymous:  true,
	}

	if err := s.repo.Create(identity); err != nil {
		return nil, "", fmt.Errorf("failed to persist identity: %w", err)
	}

	token, err := s.sessions.GenerateToken(identity.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	return identity, token, nil
}

// ValidateToken validates a session token and returns its claims. An
// expired or malformed token yields the unauthenticated state.
func (s *IdentityService) ValidateToken(_ context.Context, token string) (*SessionClaims, error) {
	claims, err := s.sessions.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	// Last-seen is best effort; neither a stale row nor a write failure may
	// reject an otherwise valid token.
	if err := s.repo.TouchLastSeen(claims.UserID); err != nil && !errors.Is(err, ErrIdentityNotFound) {
		log.Printf("[identity] Failed to update last seen for %s: %v", claims.UserID, err)
	}

	return claims, nil
}

// GetIdentity retrieves the stored identity record for a user ID.
func (s *IdentityService) GetIdentity(_ context.Context, userID string) (*inventory.Identity, error) {
	return s.repo.FindByID(userID)
}

// TokenDuration exposes the configured token lifetime in seconds.
func (s *IdentityService) TokenDuration() int64 {
	return s.sessions.TokenDuration()
}
