package cart

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/minishop/internal/catalog"
	pkgerrors "github.com/angelmondragon/minishop/pkg/errors"
	"github.com/angelmondragon/minishop/pkg/money"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingMetrics struct {
	mu        sync.Mutex
	mutations map[string]int
	evicted   int
}

func (m *recordingMetrics) IncMutation(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mutations == nil {
		m.mutations = map[string]int{}
	}
	m.mutations[op]++
}

func (m *recordingMetrics) AddEvicted(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evicted += n
}

func newTestService(t *testing.T) (Service, *fakeClock, *recordingMetrics) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)}
	metrics := &recordingMetrics{}
	svc, err := NewService(ServiceParams{
		Products: catalog.Default(),
		Metrics:  metrics,
		Clock:    clock.Now,
	})
	require.NoError(t, err)
	return svc, clock, metrics
}

func requireConsistentTotal(t *testing.T, c Cart) {
	t.Helper()
	require.True(t, Subtotal(c.Items).Equal(c.Total), "total %s does not match items %+v", c.Total, c.Items)
}

func TestNewServiceRequiresProducts(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}

func TestGetCreatesEmptyCart(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := svc.Get(context.Background(), DefaultSessionKey)

	require.NotNil(t, c.Items)
	assert.Empty(t, c.Items)
	assert.True(t, c.Total.IsZero())
}

func TestAddMergeAndSetQuantityScenario(t *testing.T) {
	ctx := context.Background()
	svc, _, metrics := newTestService(t)

	c, err := svc.AddItem(ctx, DefaultSessionKey, "1", 2)
	require.NoError(t, err)
	assert.True(t, c.Total.Equal(money.MustParse("159.98")), "got %s", c.Total)

	c, err = svc.AddItem(ctx, DefaultSessionKey, "1", 1)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.True(t, c.Total.Equal(money.MustParse("239.97")), "got %s", c.Total)

	c = svc.SetItemQuantity(ctx, DefaultSessionKey, "1", 0)
	assert.Empty(t, c.Items)
	assert.True(t, c.Total.IsZero())

	assert.Equal(t, 2, metrics.mutations[opAdd])
	assert.Equal(t, 1, metrics.mutations[opRemove])
}

func TestAddKeepsFirstPriceSnapshot(t *testing.T) {
	ctx := context.Background()
	products, err := catalog.New([]catalog.Product{{ID: "p", Price: money.MustParse("10.00")}})
	require.NoError(t, err)
	lookup := &swappableLookup{catalog: products}
	svc, err := NewService(ServiceParams{Products: lookup})
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, DefaultSessionKey, "p", 1)
	require.NoError(t, err)

	repriced, err := catalog.New([]catalog.Product{{ID: "p", Price: money.MustParse("99.00")}})
	require.NoError(t, err)
	lookup.catalog = repriced

	c, err := svc.AddItem(ctx, DefaultSessionKey, "p", 2)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.True(t, c.Items[0].Price.Equal(money.MustParse("10.00")))
	assert.True(t, c.Total.Equal(money.MustParse("30.00")))
}

type swappableLookup struct {
	catalog *catalog.Catalog
}

func (s *swappableLookup) Get(id string) (catalog.Product, bool) {
	return s.catalog.Get(id)
}

func TestAddUnknownProduct(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.AddItem(ctx, DefaultSessionKey, "nope", 1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
	assert.Empty(t, svc.Get(ctx, DefaultSessionKey).Items)
}

func TestAddNonPositiveQuantityIsNoop(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	_, err := svc.AddItem(ctx, DefaultSessionKey, "3", 1)
	require.NoError(t, err)

	for _, qty := range []int{0, -4} {
		c, err := svc.AddItem(ctx, DefaultSessionKey, "3", qty)
		require.NoError(t, err)
		require.Len(t, c.Items, 1)
		assert.Equal(t, 1, c.Items[0].Quantity)
	}
}

func TestAddRejectsQuantityOverLimit(t *testing.T) {
	svc, _, metrics := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "k", "1", math.MaxInt)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.True(t, svc.Get(ctx, "k").Empty())

	_, err = svc.AddItem(ctx, "k", "1", MaxLineQuantity)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, "k", "1", 1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	got := svc.Get(ctx, "k")
	require.Len(t, got.Items, 1)
	assert.Equal(t, MaxLineQuantity, got.Items[0].Quantity)
	assert.True(t, got.Total.IsPositive())
	requireConsistentTotal(t, got)
	assert.Equal(t, 1, metrics.mutations[opAdd])
}

func TestSetQuantityClampsToLimit(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "k", "1", 1)
	require.NoError(t, err)

	got := svc.SetItemQuantity(ctx, "k", "1", math.MaxInt)
	require.Len(t, got.Items, 1)
	assert.Equal(t, MaxLineQuantity, got.Items[0].Quantity)
	requireConsistentTotal(t, got)
}

func TestRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	_, err := svc.AddItem(ctx, DefaultSessionKey, "2", 1)
	require.NoError(t, err)

	before := svc.Get(ctx, DefaultSessionKey)
	after := svc.RemoveItem(ctx, DefaultSessionKey, "8")
	assert.Equal(t, before.Items, after.Items)
	assert.True(t, before.Total.Equal(after.Total))

	svc.RemoveItem(ctx, DefaultSessionKey, "2")
	c := svc.RemoveItem(ctx, DefaultSessionKey, "2")
	assert.Empty(t, c.Items)
}

func TestSetQuantityOverwritesAndIgnoresUnknownLines(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	_, err := svc.AddItem(ctx, DefaultSessionKey, "5", 1)
	require.NoError(t, err)

	c := svc.SetItemQuantity(ctx, DefaultSessionKey, "5", 4)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 4, c.Items[0].Quantity)
	assert.True(t, c.Items[0].Price.Equal(money.MustParse("129.99")))
	assert.True(t, c.Total.Equal(money.MustParse("519.96")))

	c = svc.SetItemQuantity(ctx, DefaultSessionKey, "6", 3)
	require.Len(t, c.Items, 1, "unknown line must not be created")

	c = svc.SetItemQuantity(ctx, DefaultSessionKey, "5", -1)
	assert.Empty(t, c.Items)
}

func TestInsertionOrderIsPreserved(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	for _, id := range []string{"4", "1", "7"} {
		_, err := svc.AddItem(ctx, DefaultSessionKey, id, 1)
		require.NoError(t, err)
	}
	c := svc.RemoveItem(ctx, DefaultSessionKey, "1")
	require.Len(t, c.Items, 2)
	assert.Equal(t, "4", c.Items[0].ProductID)
	assert.Equal(t, "7", c.Items[1].ProductID)
}

func TestClearResetsCart(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	_, err := svc.AddItem(ctx, DefaultSessionKey, "1", 1)
	require.NoError(t, err)

	c := svc.Clear(ctx, DefaultSessionKey)
	require.NotNil(t, c.Items)
	assert.Empty(t, c.Items)
	assert.True(t, c.Total.IsZero())
	assert.Empty(t, svc.Get(ctx, DefaultSessionKey).Items)
}

func TestSnapshotsDoNotAliasStore(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	c, err := svc.AddItem(ctx, DefaultSessionKey, "1", 1)
	require.NoError(t, err)

	c.Items[0].Quantity = 99
	assert.Equal(t, 1, svc.Get(ctx, DefaultSessionKey).Items[0].Quantity)
}

func TestSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	_, err := svc.AddItem(ctx, "a", "1", 1)
	require.NoError(t, err)

	assert.Empty(t, svc.Get(ctx, "b").Items)
	assert.Len(t, svc.Get(ctx, "a").Items, 1)
}

func TestTotalMatchesItemsAfterRandomMutations(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	ids := []string{"1", "2", "3", "4", "5", "6", "7", "8"}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		id := ids[rng.Intn(len(ids))]
		var c Cart
		switch rng.Intn(4) {
		case 0, 1:
			var err error
			c, err = svc.AddItem(ctx, DefaultSessionKey, id, rng.Intn(5)+1)
			require.NoError(t, err)
		case 2:
			c = svc.RemoveItem(ctx, DefaultSessionKey, id)
		case 3:
			c = svc.SetItemQuantity(ctx, DefaultSessionKey, id, rng.Intn(6)-1)
		}
		requireConsistentTotal(t, c)

		seen := map[string]bool{}
		for _, item := range c.Items {
			require.False(t, seen[item.ProductID], "duplicate line for %s", item.ProductID)
			require.GreaterOrEqual(t, item.Quantity, 1)
			seen[item.ProductID] = true
		}
	}
}

func TestConcurrentAddsDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	const workers, perWorker = 16, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := svc.AddItem(ctx, DefaultSessionKey, "3", 1)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	c := svc.Get(ctx, DefaultSessionKey)
	require.Len(t, c.Items, 1)
	assert.Equal(t, workers*perWorker, c.Items[0].Quantity)
	requireConsistentTotal(t, c)
}

func TestEvictIdleDropsOnlyStaleCarts(t *testing.T) {
	ctx := context.Background()
	svc, clock, metrics := newTestService(t)

	_, err := svc.AddItem(ctx, "stale", "1", 1)
	require.NoError(t, err)
	clock.Advance(time.Hour)
	_, err = svc.AddItem(ctx, "fresh", "2", 1)
	require.NoError(t, err)

	evicted := svc.EvictIdle(ctx, clock.Now().Add(-30*time.Minute))
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, metrics.evicted)

	assert.Empty(t, svc.Get(ctx, "stale").Items, "evicted cart comes back empty")
	assert.Len(t, svc.Get(ctx, "fresh").Items, 1)
}

func TestEvictIdleRacesWithMutations(t *testing.T) {
	ctx := context.Background()
	svc, clock, _ := newTestService(t)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_, err := svc.AddItem(ctx, DefaultSessionKey, "1", 1)
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			svc.EvictIdle(ctx, clock.Now().Add(time.Second))
		}
	}()
	wg.Wait()

	requireConsistentTotal(t, svc.Get(ctx, DefaultSessionKey))
}
