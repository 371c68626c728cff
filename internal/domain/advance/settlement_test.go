package advance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSettlement(t *testing.T) {
	t.Run("fully covered by advances is paid", func(t *testing.T) {
		credits := availableCredits(t, 400000, 700000)
		allocation, err := Allocate(amount(1000000), credits)
		require.NoError(t, err)

		s, err := ResolveSettlement(amount(1000000), decimal.Zero, allocation)
		require.NoError(t, err)

		assert.Equal(t, PaymentStatusPaid, s.Status)
		assert.True(t, s.FinalDebt.IsZero())
		assert.True(t, s.TotalApplied.Equal(amount(1000000)))
		require.Len(t, s.Breakdown, 2)
	})

	t.Run("partially covered leaves a debt", func(t *testing.T) {
		credits := availableCredits(t, 300000)
		allocation, err := Allocate(amount(1000000), credits)
		require.NoError(t, err)

		s, err := ResolveSettlement(amount(1000000), decimal.Zero, allocation)
		require.NoError(t, err)

		assert.Equal(t, PaymentStatusPartiallyPaid, s.Status)
		assert.True(t, s.FinalDebt.Equal(amount(700000)))
		assert.True(t, s.TotalApplied.Equal(amount(300000)))
	})

	t.Run("nothing paid and no credits is awaiting payment", func(t *testing.T) {
		allocation, err := Allocate(amount(500000), nil)
		require.NoError(t, err)

		s, err := ResolveSettlement(amount(500000), decimal.Zero, allocation)
		require.NoError(t, err)

		assert.Equal(t, PaymentStatusAwaitingPayment, s.Status)
		assert.True(t, s.FinalDebt.Equal(amount(500000)))
		assert.True(t, s.TotalApplied.IsZero())
		assert.Empty(t, s.Breakdown)
	})

	t.Run("direct payment alone makes a partial payment", func(t *testing.T) {
		toCover := AmountToCover(amount(500000), amount(200000))
		allocation, err := Allocate(toCover, nil)
		require.NoError(t, err)

		s, err := ResolveSettlement(amount(500000), amount(200000), allocation)
		require.NoError(t, err)

		assert.Equal(t, PaymentStatusPartiallyPaid, s.Status)
		assert.True(t, s.FinalDebt.Equal(amount(300000)))
	})

	t.Run("direct payment plus advances covering everything is paid", func(t *testing.T) {
		credits := availableCredits(t, 800000)
		toCover := AmountToCover(amount(1000000), amount(200000))
		allocation, err := Allocate(toCover, credits)
		require.NoError(t, err)

		s, err := ResolveSettlement(amount(1000000), amount(200000), allocation)
		require.NoError(t, err)

		assert.Equal(t, PaymentStatusPaid, s.Status)
		assert.True(t, s.FinalDebt.IsZero())
		assert.True(t, s.TotalApplied.Equal(amount(800000)))
	})

	t.Run("over-payment yields zero debt and no allocation", func(t *testing.T) {
		credits := availableCredits(t, 400000)
		toCover := AmountToCover(amount(100000), amount(150000))
		require.True(t, toCover.IsZero())

		allocation, err := Allocate(toCover, credits)
		require.NoError(t, err)

		s, err := ResolveSettlement(amount(100000), amount(150000), allocation)
		require.NoError(t, err)

		assert.Equal(t, PaymentStatusPaid, s.Status)
		assert.True(t, s.FinalDebt.IsZero())
		assert.Empty(t, s.Breakdown)
	})

	t.Run("final debt identity holds", func(t *testing.T) {
		tests := []struct {
			name    string
			total   int64
			direct  int64
			credits []int64
		}{
			{"no coverage", 500000, 0, nil},
			{"partial credit", 1000000, 0, []int64{300000}},
			{"full coverage", 1000000, 0, []int64{400000, 700000}},
			{"direct plus credit", 1000000, 250000, []int64{500000}},
			{"over-payment", 100000, 150000, []int64{400000}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				credits := availableCredits(t, tt.credits...)
				toCover := AmountToCover(amount(tt.total), amount(tt.direct))
				allocation, err := Allocate(toCover, credits)
				require.NoError(t, err)

				s, err := ResolveSettlement(amount(tt.total), amount(tt.direct), allocation)
				require.NoError(t, err)

				expected := amount(tt.total).Sub(amount(tt.direct)).Sub(s.TotalApplied)
				if expected.IsNegative() {
					expected = decimal.Zero
				}
				assert.True(t, s.FinalDebt.Equal(expected),
					"final debt: expected %s, got %s", expected, s.FinalDebt)
			})
		}
	})

	t.Run("breakdown is an independent copy", func(t *testing.T) {
		credits := availableCredits(t, 400000)
		allocation, err := Allocate(amount(200000), credits)
		require.NoError(t, err)

		s, err := ResolveSettlement(amount(200000), decimal.Zero, allocation)
		require.NoError(t, err)

		s.Breakdown[0].Applied = amount(999999)
		assert.True(t, allocation.Entries[0].Applied.Equal(amount(200000)))
	})
}

func TestResolveSettlement_Validation(t *testing.T) {
	allocation, err := Allocate(decimal.Zero, nil)
	require.NoError(t, err)

	t.Run("nil allocation", func(t *testing.T) {
		_, err := ResolveSettlement(amount(100), decimal.Zero, nil)
		assert.Error(t, err)
	})

	t.Run("negative total price", func(t *testing.T) {
		_, err := ResolveSettlement(amount(-100), decimal.Zero, allocation)
		assert.Error(t, err)
	})

	t.Run("negative direct payment", func(t *testing.T) {
		_, err := ResolveSettlement(amount(100), amount(-50), allocation)
		assert.Error(t, err)
	})
}

func TestAmountToCover(t *testing.T) {
	assert.True(t, AmountToCover(amount(1000), amount(0)).Equal(amount(1000)))
	assert.True(t, AmountToCover(amount(1000), amount(400)).Equal(amount(600)))
	assert.True(t, AmountToCover(amount(1000), amount(1000)).IsZero())
	assert.True(t, AmountToCover(amount(1000), amount(1500)).IsZero())
}

func TestPaymentStatus(t *testing.T) {
	assert.True(t, PaymentStatusPaid.IsValid())
	assert.True(t, PaymentStatusPartiallyPaid.IsValid())
	assert.True(t, PaymentStatusAwaitingPayment.IsValid())
	assert.False(t, PaymentStatus("SETTLED").IsValid())
	assert.Equal(t, "PAID", PaymentStatusPaid.String())
}
