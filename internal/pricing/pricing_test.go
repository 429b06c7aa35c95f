package pricing

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pourhouse/pourhouse/internal/blobstore"
	"github.com/pourhouse/pourhouse/internal/store"
)

func openEngine(t *testing.T) *store.Engine {
	t.Helper()
	e := store.New(blobstore.NewMemory(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, e.Open(context.Background()))
	t.Cleanup(func() { e.Close() })
	return e
}

func TestLoad_DefaultsWhenUnset(t *testing.T) {
	e := openEngine(t)

	list, err := Load(context.Background(), e, map[int]float64{200: 3.0, 300: 4.0})
	require.NoError(t, err)
	assert.Equal(t, 3.0, list.PriceFor(200))
	assert.Equal(t, 4.0, list.PriceFor(300))
}

func TestLoad_SettingsOverrideDefaults(t *testing.T) {
	e := openEngine(t)
	require.NoError(t, Store(context.Background(), e, 200, 3.5))

	list, err := Load(context.Background(), e, map[int]float64{200: 3.0, 300: 4.0})
	require.NoError(t, err)
	assert.Equal(t, 3.5, list.PriceFor(200))
	assert.Equal(t, 4.0, list.PriceFor(300))
}

func TestPriceFor_UnknownSizeIsZero(t *testing.T) {
	list := NewPriceList(map[int]float64{200: 3.0})
	assert.Zero(t, list.PriceFor(999))
}

func TestLoad_BadStoredPrice(t *testing.T) {
	e := openEngine(t)
	require.NoError(t, e.SetSetting(context.Background(), "price.size.200", "not-a-number"))

	_, err := Load(context.Background(), e, map[int]float64{200: 3.0})
	assert.Error(t, err)
}
