package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextBillingDate(t *testing.T) {
	start := time.Date(2026, time.January, 31, 10, 0, 0, 0, time.UTC)

	t.Run("monthly adds one month", func(t *testing.T) {
		next := NextBillingDate(start, BillingCycleMonthly)
		require.NotNil(t, next)
		assert.Equal(t, start.AddDate(0, 1, 0), *next)
	})

	t.Run("annually adds one year", func(t *testing.T) {
		next := NextBillingDate(start, BillingCycleAnnually)
		require.NotNil(t, next)
		assert.Equal(t, time.Date(2027, time.January, 31, 10, 0, 0, 0, time.UTC), *next)
	})

	t.Run("lifetime has no renewal", func(t *testing.T) {
		assert.Nil(t, NextBillingDate(start, BillingCycleLifetime))
	})

	t.Run("free has no renewal", func(t *testing.T) {
		assert.Nil(t, NextBillingDate(start, BillingCycleFree))
	})

	t.Run("unknown cycle has no renewal", func(t *testing.T) {
		assert.Nil(t, NextBillingDate(start, BillingCycle("weekly")))
	})
}
