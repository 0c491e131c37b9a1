package scan

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ScanPort is the interface other modules use to resolve scanned codes.
type ScanPort interface {
	Resolve(ctx context.Context, code string) (*ResolveResponse, error)
}

// scanAdapter wraps ServiceContainer for type-safe cross-module
// communication with the scan module.
type scanAdapter struct {
	container mono.ServiceContainer
}

// NewScanAdapter creates a new adapter for scan services.
func NewScanAdapter(container mono.ServiceContainer) ScanPort {
	if container == nil {
		panic("scan adapter requires non-nil ServiceContainer")
	}
	return &scanAdapter{container: container}
}

// Resolve resolves a scanned code via the resolve service.
func (a *scanAdapter) Resolve(ctx context.Context, code string) (*ResolveResponse, error) {
	req := ResolveRequest{Code: code}
	var resp ResolveResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "resolve", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("resolve service call failed: %w", err)
	}
	return &resp, nil
}
