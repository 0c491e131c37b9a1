package scan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/example/inventory-dashboard/modules/cache"
	"github.com/example/inventory-dashboard/modules/catalog"
)

var (
	// ErrEmptyCode is returned when the scanned code is empty after
	// trimming. No lookup is issued in that case.
	ErrEmptyCode = errors.New("scan code is empty")
	// ErrBackendUnavailable is returned when a lookup fails for reasons
	// other than "no match". The condition is recoverable: the next scan
	// retries from scratch.
	ErrBackendUnavailable = errors.New("lookup backend unavailable")
)

// Resolver turns a scanned code into a product, a person, or nothing.
// Lookups are sequential and short-circuiting: products win over people,
// and the first match of the backend's deterministic order wins.
type Resolver struct {
	port  catalog.CatalogPort
	cache *cache.Cache
	group singleflight.Group
}

// NewResolver creates a Resolver over the given catalog port. The cache is
// optional and attached later via SetCache.
func NewResolver(port catalog.CatalogPort) *Resolver {
	return &Resolver{port: port}
}

// SetCache attaches the lookup cache. Safe to leave unset; resolution then
// always hits the catalog.
func (r *Resolver) SetCache(c *cache.Cache) {
	r.cache = c
}

// Resolve resolves a scanned code. Concurrent resolutions of the same code
// are collapsed into a single backend lookup; every caller receives the
// shared result.
func (r *Resolver) Resolve(ctx context.Context, code string) (*ResolveResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyCode
	}

	v, err, _ := r.group.Do(code, func() (any, error) {
		// The lookup is shared by every collapsed caller, so it must not
		// die with whichever caller happened to start it.
		return r.lookup(context.WithoutCancel(ctx), code)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ResolveResponse), nil
}

// lookup performs the actual cache-aside resolution for a non-empty code.
func (r *Resolver) lookup(ctx context.Context, code string) (*ResolveResponse, error) {
	if r.cache != nil {
		var cached ResolveResponse
		found, err := r.cache.Get(ctx, code, &cached)
		if err != nil {
			log.Printf("[scan] Cache read failed for %q: %v", code, err)
		} else if found {
			return &cached, nil
		}
	}

	result, err := r.resolveFromCatalog(ctx, code)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, code, result); err != nil {
			log.Printf("[scan] Cache write failed for %q: %v", code, err)
		}
	}

	return result, nil
}

// resolveFromCatalog issues the two equality lookups in order.
func (r *Resolver) resolveFromCatalog(ctx context.Context, code string) (*ResolveResponse, error) {
	products, err := r.port.FindProductByBarcode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if products.Total > 0 {
		first := products.Products[0]
		return &ResolveResponse{Kind: KindProduct, Code: code, Product: &first}, nil
	}

	people, err := r.port.FindPersonByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if people.Total > 0 {
		first := people.People[0]
		return &ResolveResponse{Kind: KindPerson, Code: code, Person: &first}, nil
	}

	return &ResolveResponse{Kind: KindNone, Code: code}, nil
}

// Invalidate drops a cached resolution for a single code. No-op without a
// cache.
func (r *Resolver) Invalidate(ctx context.Context, code string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, code); err != nil {
		log.Printf("[scan] Cache invalidation failed for %q: %v", code, err)
	}
}
