package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		d, err := Parse("99.99")
		require.NoError(t, err)
		assert.True(t, d.Equal(decimal.RequireFromString("99.99")))
	})

	t.Run("json number", func(t *testing.T) {
		d, err := Parse(json.Number("120000"))
		require.NoError(t, err)
		assert.True(t, d.Equal(decimal.NewFromInt(120000)))
	})

	t.Run("float", func(t *testing.T) {
		d, err := Parse(99.99)
		require.NoError(t, err)
		assert.True(t, TolerantEqual(d, decimal.RequireFromString("99.99")))
	})

	t.Run("non numeric string", func(t *testing.T) {
		_, err := Parse("ninety-nine")
		require.ErrorIs(t, err, ErrNotNumeric)
	})

	t.Run("nil", func(t *testing.T) {
		_, err := Parse(nil)
		require.ErrorIs(t, err, ErrNotNumeric)
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := Parse(map[string]any{"amount": 1})
		require.ErrorIs(t, err, ErrNotNumeric)
	})
}

func TestTolerantEqual(t *testing.T) {
	a := decimal.RequireFromString("99.99")

	assert.True(t, TolerantEqual(a, decimal.RequireFromString("99.99")))
	assert.True(t, TolerantEqual(a, decimal.RequireFromString("99.99000000001")))
	assert.False(t, TolerantEqual(a, decimal.RequireFromString("99.98")))
	assert.False(t, TolerantEqual(a, decimal.RequireFromString("100.00")))

	// tolerance scales with magnitude
	big := decimal.RequireFromString("1000000000")
	assert.True(t, TolerantEqual(big, big.Add(decimal.RequireFromString("0.5"))))
	assert.False(t, TolerantEqual(big, big.Add(decimal.RequireFromString("10"))))

	// around zero the scale floor is 1
	assert.True(t, TolerantEqual(decimal.Zero, decimal.New(1, -10)))
	assert.False(t, TolerantEqual(decimal.Zero, decimal.RequireFromString("0.01")))
}

func TestNormalizeCurrency(t *testing.T) {
	assert.Equal(t, "USD", NormalizeCurrency(" usd "))
	assert.Equal(t, "IDR", NormalizeCurrency("idr"))
}
