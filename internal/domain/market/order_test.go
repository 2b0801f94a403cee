//go:build unit

package market_test

import (
	"testing"

	"fio-market/internal/domain/market"
	"fio-market/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSellOrder(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		order, err := builder.NewSellOrderBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, order)

		assert.Equal(t, "RAT", order.Commodity)
		assert.Equal(t, market.LimitModeNone, order.LimitMode)
		assert.Nil(t, order.LimitQuantity)
	})

	cases := []struct {
		name   string
		mutate func(*builder.SellOrderBuilder)
		errIs  error
	}{
		{
			name:   "missing commodity",
			mutate: func(b *builder.SellOrderBuilder) { b.Commodity = "" },
			errIs:  market.ErrMissingCommodity,
		},
		{
			name:   "missing location",
			mutate: func(b *builder.SellOrderBuilder) { b.Location = "" },
			errIs:  market.ErrMissingLocation,
		},
		{
			name:   "zero price",
			mutate: func(b *builder.SellOrderBuilder) { b.Price = 0 },
			errIs:  market.ErrInvalidPrice,
		},
		{
			name:   "negative price",
			mutate: func(b *builder.SellOrderBuilder) { b.Price = -1 },
			errIs:  market.ErrInvalidPrice,
		},
		{
			name:   "missing currency",
			mutate: func(b *builder.SellOrderBuilder) { b.Currency = "" },
			errIs:  market.ErrMissingCurrency,
		},
		{
			name:   "unknown visibility",
			mutate: func(b *builder.SellOrderBuilder) { b.Visibility = "public" },
			errIs:  market.ErrInvalidVisibility,
		},
		{
			name:   "unknown limit mode",
			mutate: func(b *builder.SellOrderBuilder) { b.LimitMode = "cap" },
			errIs:  market.ErrInvalidLimitMode,
		},
		{
			name: "negative limit quantity",
			mutate: func(b *builder.SellOrderBuilder) {
				neg := -5
				b.LimitMode = market.LimitModeMaxSell
				b.LimitQuantity = &neg
			},
			errIs: market.ErrInvalidQuantity,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := builder.NewSellOrderBuilder().With(tc.mutate).BuildDomain()
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.errIs)
		})
	}
}

func TestNewBuyOrder(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		order, err := builder.NewBuyOrderBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, order)
		assert.Equal(t, 500, order.Quantity)
	})

	cases := []struct {
		name   string
		mutate func(*builder.BuyOrderBuilder)
		errIs  error
	}{
		{
			name:   "zero quantity",
			mutate: func(b *builder.BuyOrderBuilder) { b.Quantity = 0 },
			errIs:  market.ErrInvalidQuantity,
		},
		{
			name:   "negative quantity",
			mutate: func(b *builder.BuyOrderBuilder) { b.Quantity = -10 },
			errIs:  market.ErrInvalidQuantity,
		},
		{
			name:   "zero price",
			mutate: func(b *builder.BuyOrderBuilder) { b.Price = 0 },
			errIs:  market.ErrInvalidPrice,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := builder.NewBuyOrderBuilder().With(tc.mutate).BuildDomain()
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.errIs)
		})
	}
}

func TestVisibilityCapability(t *testing.T) {
	assert.Equal(t, market.CapabilityViewInternal, market.VisibilityInternal.Capability())
	assert.Equal(t, market.CapabilityViewPartner, market.VisibilityPartner.Capability())
	assert.Empty(t, market.Visibility("public").Capability())
}
