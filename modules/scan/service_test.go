package scan

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/inventory-dashboard/events"
	"github.com/example/inventory-dashboard/modules/cache"
	"github.com/example/inventory-dashboard/modules/catalog"
)

// fakeCatalog implements catalog.CatalogPort for resolver tests. Only the
// two lookup methods are exercised; the rest fail loudly if called.
type fakeCatalog struct {
	products map[string]catalog.ProductResponse
	people   map[string]catalog.PersonResponse

	productCalls atomic.Int64
	personCalls  atomic.Int64
	failLookups  bool
	gate         chan struct{}
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: make(map[string]catalog.ProductResponse),
		people:   make(map[string]catalog.PersonResponse),
	}
}

func (f *fakeCatalog) FindProductByBarcode(ctx context.Context, barcode string) (*catalog.FindProductByBarcodeResponse, error) {
	f.productCalls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.failLookups {
		return nil, errors.New("connection refused")
	}
	resp := &catalog.FindProductByBarcodeResponse{}
	if p, ok := f.products[barcode]; ok {
		resp.Products = []catalog.ProductResponse{p}
		resp.Total = 1
	}
	return resp, nil
}

func (f *fakeCatalog) FindPersonByCode(_ context.Context, personID string) (*catalog.FindPersonByCodeResponse, error) {
	f.personCalls.Add(1)
	if f.failLookups {
		return nil, errors.New("connection refused")
	}
	resp := &catalog.FindPersonByCodeResponse{}
	if p, ok := f.people[personID]; ok {
		resp.People = []catalog.PersonResponse{p}
		resp.Total = 1
	}
	return resp, nil
}

func (f *fakeCatalog) CreateProduct(context.Context, *catalog.CreateProductRequest) (*catalog.ProductResponse, error) {
	panic("unexpected CreateProduct call")
}

func (f *fakeCatalog) ListProducts(context.Context) (*catalog.ListProductsResponse, error) {
	panic("unexpected ListProducts call")
}

func (f *fakeCatalog) UpdateStock(context.Context, *catalog.UpdateStockRequest) (*catalog.ProductResponse, error) {
	panic("unexpected UpdateStock call")
}

func (f *fakeCatalog) CreatePerson(context.Context, *catalog.CreatePersonRequest) (*catalog.PersonResponse, error) {
	panic("unexpected CreatePerson call")
}

func (f *fakeCatalog) ListPeople(context.Context) (*catalog.ListPeopleResponse, error) {
	panic("unexpected ListPeople call")
}

func (f *fakeCatalog) Summary(context.Context) (*catalog.SummaryResponse, error) {
	panic("unexpected Summary call")
}

func TestResolve_EmptyCode(t *testing.T) {
	fake := newFakeCatalog()
	resolver := NewResolver(fake)
	ctx := context.Background()

	for _, code := range []string{"", "   ", "\t\n"} {
		_, err := resolver.Resolve(ctx, code)
		assert.ErrorIs(t, err, ErrEmptyCode, "code %q", code)
	}

	// Empty codes must be rejected before any lookup is issued.
	assert.Zero(t, fake.productCalls.Load())
	assert.Zero(t, fake.personCalls.Load())
}

func TestResolve_ProductBeforePerson(t *testing.T) {
	fake := newFakeCatalog()
	fake.products["SHARED"] = catalog.ProductResponse{ID: "p1", Name: "Widget", Barcode: "SHARED", Stock: 3, LowStock: true}
	fake.people["SHARED"] = catalog.PersonResponse{ID: "u1", Name: "Alex", PersonID: "SHARED"}
	resolver := NewResolver(fake)

	result, err := resolver.Resolve(context.Background(), "SHARED")
	require.NoError(t, err)

	assert.Equal(t, KindProduct, result.Kind)
	require.NotNil(t, result.Product)
	assert.Equal(t, "p1", result.Product.ID)
	assert.Nil(t, result.Person)
	// The person lookup must be short-circuited.
	assert.Zero(t, fake.personCalls.Load())
}

func TestResolve_PersonFallback(t *testing.T) {
	fake := newFakeCatalog()
	fake.people["EMP-7"] = catalog.PersonResponse{ID: "u7", Name: "Sam", PersonID: "EMP-7"}
	resolver := NewResolver(fake)

	result, err := resolver.Resolve(context.Background(), "EMP-7")
	require.NoError(t, err)

	assert.Equal(t, KindPerson, result.Kind)
	require.NotNil(t, result.Person)
	assert.Equal(t, "u7", result.Person.ID)
	assert.Nil(t, result.Product)
	assert.Equal(t, int64(1), fake.productCalls.Load())
}

func TestResolve_NoMatch(t *testing.T) {
	fake := newFakeCatalog()
	resolver := NewResolver(fake)

	result, err := resolver.Resolve(context.Background(), "UNKNOWN")
	require.NoError(t, err)

	assert.Equal(t, KindNone, result.Kind)
	assert.Nil(t, result.Product)
	assert.Nil(t, result.Person)
	// Both lookups ran, in order.
	assert.Equal(t, int64(1), fake.productCalls.Load())
	assert.Equal(t, int64(1), fake.personCalls.Load())
}

func TestResolve_TrimsCode(t *testing.T) {
	fake := newFakeCatalog()
	fake.products["123"] = catalog.ProductResponse{ID: "p1", Barcode: "123"}
	resolver := NewResolver(fake)

	result, err := resolver.Resolve(context.Background(), "  123  ")
	require.NoError(t, err)

	assert.Equal(t, KindProduct, result.Kind)
	assert.Equal(t, "123", result.Code)
}

func TestResolve_BackendUnavailable(t *testing.T) {
	fake := newFakeCatalog()
	fake.failLookups = true
	resolver := NewResolver(fake)

	_, err := resolver.Resolve(context.Background(), "ANY")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestResolve_CollapsesConcurrentLookups(t *testing.T) {
	fake := newFakeCatalog()
	fake.products["HOT"] = catalog.ProductResponse{ID: "p1", Barcode: "HOT"}
	fake.gate = make(chan struct{})
	resolver := NewResolver(fake)

	const callers = 10
	var wg sync.WaitGroup
	results := make([]*ResolveResponse, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = resolver.Resolve(context.Background(), "HOT")
		}(i)
	}

	// Let every caller reach the in-flight lookup before releasing it.
	time.Sleep(100 * time.Millisecond)
	close(fake.gate)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, KindProduct, results[i].Kind)
	}

	// All callers shared one backend lookup.
	assert.Equal(t, int64(1), fake.productCalls.Load())
}

func TestResolve_DetachedFromCallerCancellation(t *testing.T) {
	fake := newFakeCatalog()
	fake.products["123"] = catalog.ProductResponse{ID: "p1", Barcode: "123"}
	resolver := NewResolver(fake)

	// The collapsed lookup is shared; a canceled first caller must not
	// poison the result for everyone behind it.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := resolver.Resolve(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, KindProduct, result.Kind)
}

// setupTestCache connects to a local Redis instance. Skips the test when
// Redis is not available.
func setupTestCache(t *testing.T) *cache.Cache {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available at localhost:6379: %v", err)
	}

	c := cache.New(client, "scan-resolver-test:", time.Minute)
	t.Cleanup(func() {
		_ = c.DeletePattern(context.Background(), "*")
		_ = client.Close()
	})
	return c
}

func TestResolve_StockUpdateDropsCachedResult(t *testing.T) {
	fake := newFakeCatalog()
	fake.products["STK-1"] = catalog.ProductResponse{ID: "p1", Barcode: "STK-1", Stock: 5, LowStock: true}

	m := &ScanModule{port: fake, resolver: NewResolver(fake)}
	m.resolver.SetCache(setupTestCache(t))
	ctx := context.Background()

	first, err := m.handleResolve(ctx, ResolveRequest{Code: "STK-1"}, nil)
	require.NoError(t, err)
	require.NotNil(t, first.Product)
	assert.Equal(t, 5, first.Product.Stock)

	// The backend now holds a new count, but the resolver serves the cached
	// result without issuing a second lookup.
	fake.products["STK-1"] = catalog.ProductResponse{ID: "p1", Barcode: "STK-1", Stock: 50}
	second, err := m.handleResolve(ctx, ResolveRequest{Code: "STK-1"}, nil)
	require.NoError(t, err)
	require.NotNil(t, second.Product)
	assert.Equal(t, 5, second.Product.Stock)
	assert.Equal(t, int64(1), fake.productCalls.Load())

	// The stock update event drops the stale entry; the next scan sees the
	// new count without any client-side refresh.
	err = m.handleStockUpdated(ctx, events.StockUpdatedEvent{
		ProductID: "p1",
		Barcode:   "STK-1",
		Stock:     50,
		Timestamp: time.Now(),
	}, nil)
	require.NoError(t, err)

	third, err := m.handleResolve(ctx, ResolveRequest{Code: "STK-1"}, nil)
	require.NoError(t, err)
	require.NotNil(t, third.Product)
	assert.Equal(t, 50, third.Product.Stock)
	assert.Equal(t, int64(2), fake.productCalls.Load())
}
