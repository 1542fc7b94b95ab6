package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandler struct {
	name string
}

func (f fakeHandler) Name() string { return f.name }

func (f fakeHandler) Checkout(context.Context, CheckoutRequest) (CheckoutResult, error) {
	return CheckoutResult{Gateway: f.name}, nil
}

func TestRegistryResolve(t *testing.T) {
	registry := NewRegistry(fakeHandler{name: "Manual"}, fakeHandler{name: " midtrans "}, nil)

	t.Run("lookup is case and whitespace insensitive", func(t *testing.T) {
		for _, name := range []string{"manual", "MANUAL", " Manual "} {
			handler, err := registry.Resolve(name)
			require.NoError(t, err)
			assert.Equal(t, "Manual", handler.Name())
		}
		assert.True(t, registry.Exists("MIDTRANS"))
	})

	t.Run("unknown gateway", func(t *testing.T) {
		_, err := registry.Resolve("paypal")
		assert.ErrorIs(t, err, ErrGatewayNotSupported)
		assert.False(t, registry.Exists("paypal"))
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := registry.Resolve("  ")
		assert.ErrorIs(t, err, ErrGatewayNotSupported)
	})
}
