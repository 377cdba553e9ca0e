package source

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_BuiltIn(t *testing.T) {
	c, err := Load(afero.NewMemMapFs(), "")
	require.NoError(t, err)

	assert.Equal(t, "built-in", c.Origin)
	assert.Empty(t, c.Service)
	assert.True(t, c.IsProduced("OrderPlaced"))
}

func TestLoad_File(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "catalog.yaml", []byte(`service: shipping
produced: []
consumed:
  - name: OrderPlaced
    exchange: orders
    routing_key: order.placed
`), 0o644))

	c, err := Load(fs, "catalog.yaml")
	require.NoError(t, err)

	assert.Equal(t, "shipping", c.Service)
	assert.Equal(t, "catalog.yaml", c.Origin)
	assert.True(t, c.IsConsumed("OrderPlaced"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "missing.yaml")
	assert.Error(t, err)
}
