//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestStockCache_Redis(t *testing.T) {
	ctx := context.Background()
	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)
	client, err := NewRedisClientFromURL(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	c := NewStockCache(client, time.Minute, nil)
	c.Set(ctx, "p-1", decimal.NewFromInt(7))
	qty, ok := c.Get(ctx, "p-1")
	require.True(t, ok)
	assert.True(t, qty.Equal(decimal.NewFromInt(7)))

	require.NoError(t, c.StockChanged(ctx, "p-1", "p-unknown"))
	_, ok = c.Get(ctx, "p-1")
	assert.False(t, ok)

	// Un relleno leído antes del commit no reemplaza la marca.
	c.Set(ctx, "p-1", decimal.NewFromInt(7))
	_, ok = c.Get(ctx, "p-1")
	assert.False(t, ok)
}
