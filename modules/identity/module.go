// Package identity provides anonymous session management: every dashboard
// client signs in without credentials and receives a short-lived token
// scoping its access.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/inventory-dashboard/domain/inventory"
)

// IdentityModule provides anonymous session services.
type IdentityModule struct {
	db      *gorm.DB
	service *IdentityService
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*IdentityModule)(nil)
var _ mono.ServiceProviderModule = (*IdentityModule)(nil)
var _ mono.HealthCheckableModule = (*IdentityModule)(nil)

// NewModule creates a new IdentityModule.
func NewModule() *IdentityModule {
	dbPath := os.Getenv("IDENTITY_DB_PATH")
	if dbPath == "" {
		dbPath = "identities.db"
	}
	return &IdentityModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *IdentityModule) Name() string {
	return "identity"
}

// Start initializes the identity module.
func (m *IdentityModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&inventory.Identity{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	repo := NewIdentityRepository(db)
	sessionConfig := loadSessionConfig()
	m.service = NewIdentityService(repo, NewSessionManager(sessionConfig))

	log.Printf("[identity] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *IdentityModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[identity] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *IdentityModule) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *IdentityModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"sign-in-anonymous",
		json.Unmarshal,
		json.Marshal,
		m.handleSignInAnonymous,
	); err != nil {
		return fmt.Errorf("failed to register sign-in-anonymous service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"validate-token",
		json.Unmarshal,
		json.Marshal,
		m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"get-identity",
		json.Unmarshal,
		json.Marshal,
		m.handleGetIdentity,
	); err != nil {
		return fmt.Errorf("failed to register get-identity service: %w", err)
	}

	log.Printf("[identity] Registered services: sign-in-anonymous, validate-token, get-identity")
	return nil
}

// handleSignInAnonymous handles anonymous sign-in.
func (m *IdentityModule) handleSignInAnonymous(ctx context.Context, _ SignInAnonymousRequest, _ *mono.Msg) (SignInAnonymousResponse, error) {
	identity, token, err := m.service.SignInAnonymous(ctx)
	if err != nil {
		return SignInAnonymousResponse{}, err
	}

	return SignInAnonymousResponse{
		UserID:    identity.ID,
		Token:     token,
		ExpiresIn: m.service.TokenDuration(),
		TokenType: "Bearer",
	}, nil
}

// handleValidateToken handles token validation.
func (m *IdentityModule) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		errMsg := "invalid token"
		if errors.Is(err, ErrExpiredToken) {
			errMsg = "token expired"
		}
		return ValidateTokenResponse{
			Valid: false,
			Error: errMsg,
		}, nil // Return response, not error, for validation failures
	}

	return ValidateTokenResponse{
		Valid:     true,
		UserID:    claims.UserID,
		Anonymous: claims.Anonymous,
	}, nil
}

// handleGetIdentity handles identity lookups.
func (m *IdentityModule) handleGetIdentity(ctx context.Context, req GetIdentityRequest, _ *mono.Msg) (GetIdentityResponse, error) {
	if req.UserID == "" {
		return GetIdentityResponse{}, fmt.Errorf("user_id is required")
	}

	identity, err := m.service.GetIdentity(ctx, req.UserID)
	if err != nil {
		return GetIdentityResponse{}, err
	}

	return GetIdentityResponse{
		UserID:     identity.ID,
		Anonymous:  identity.Anonymous,
		CreatedAt:  identity.CreatedAt,
		LastSeenAt: identity.LastSeenAt,
	}, nil
}

// loadSessionConfig loads session configuration from environment variables.
func loadSessionConfig() SessionConfig {
	config := DefaultSessionConfig()

	if secret := os.Getenv("SESSION_SECRET_KEY"); secret != "" {
		config.SecretKey = secret
	}

	if issuer := os.Getenv("SESSION_ISSUER"); issuer != "" {
		config.Issuer = issuer
	}

	if ttl := os.Getenv("SESSION_TOKEN_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			config.TokenDuration = d
		}
	}

	return config
}
