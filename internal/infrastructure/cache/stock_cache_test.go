package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient Client en memoria para probar StockCache sin Redis.
type fakeClient struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeClient) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.values[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

func (f *fakeClient) Set(_ context.Context, key string, value interface{}, exp time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value.(string)
	f.ttls[key] = exp
	return nil
}

func (f *fakeClient) SetNX(_ context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = value.(string)
	f.ttls[key] = exp
	return true, nil
}

// expire simula el vencimiento del TTL de una clave.
func (f *fakeClient) expire(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
}

func (f *fakeClient) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

func TestStockCache_SetGetInvalidate(t *testing.T) {
	client := newFakeClient()
	c := NewStockCache(client, time.Minute, nil)
	ctx := context.Background()

	_, ok := c.Get(ctx, "p-1")
	assert.False(t, ok)

	c.Set(ctx, "p-1", decimal.RequireFromString("12.5"))
	c.Set(ctx, "p-2", decimal.NewFromInt(3))
	qty, ok := c.Get(ctx, "p-1")
	require.True(t, ok)
	assert.True(t, qty.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, time.Minute, client.ttls["stock:product:p-1"])

	require.NoError(t, c.StockChanged(ctx, "p-1"))
	_, ok = c.Get(ctx, "p-1")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "p-2")
	assert.True(t, ok)
	assert.Equal(t, invalidationHold, client.ttls["stock:product:p-1"])
}

func TestStockCache_StaleFillAfterInvalidation(t *testing.T) {
	client := newFakeClient()
	c := NewStockCache(client, time.Minute, nil)
	ctx := context.Background()

	// Caso 1: un lector toma 10 de la base, el libro confirma 7 e invalida, y el
	// lector rellena tarde con 10: la caché sigue en miss.
	require.NoError(t, c.StockChanged(ctx, "p-1"))
	c.Set(ctx, "p-1", decimal.NewFromInt(10))
	_, ok := c.Get(ctx, "p-1")
	assert.False(t, ok)

	// Caso 2: vencida la marca, el siguiente relleno se guarda
	client.expire("stock:product:p-1")
	c.Set(ctx, "p-1", decimal.NewFromInt(7))
	qty, ok := c.Get(ctx, "p-1")
	require.True(t, ok)
	assert.True(t, qty.Equal(decimal.NewFromInt(7)))

	// Caso 3: un relleno no pisa un valor vigente
	c.Set(ctx, "p-1", decimal.NewFromInt(10))
	qty, _ = c.Get(ctx, "p-1")
	assert.True(t, qty.Equal(decimal.NewFromInt(7)))
}

func TestStockCache_InvalidateAfterDelete(t *testing.T) {
	client := newFakeClient()
	c := NewStockCache(client, time.Minute, nil)
	ctx := context.Background()

	c.Set(ctx, "p-1", decimal.NewFromInt(4))
	c.Invalidate(ctx, "p-1")
	_, ok := c.Get(ctx, "p-1")
	assert.False(t, ok)
}

func TestStockCache_ErrorsAreMisses(t *testing.T) {
	client := newFakeClient()
	c := NewStockCache(client, 0, nil)
	ctx := context.Background()

	// Caso 1: valor corrupto
	client.values["stock:product:p-1"] = "not-a-number"
	_, ok := c.Get(ctx, "p-1")
	assert.False(t, ok)

	// Caso 2: Redis caído
	client.getErr = errors.New("connection refused")
	_, ok = c.Get(ctx, "p-1")
	assert.False(t, ok)
}
