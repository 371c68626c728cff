package advance

import (
	"testing"

	"github.com/essencia/backend/internal/domain/shared"
	"github.com/essencia/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAvailableCredit(t *testing.T, number string, amount int64) *AdvancePaymentCredit {
	t.Helper()
	c, err := NewAdvancePaymentCredit(number, uuid.New(), "Coopérative Sambava",
		valueobject.NewMoneyMGAFromInt(amount))
	require.NoError(t, err)
	require.NoError(t, c.Confirm())
	c.ClearDomainEvents()
	return c
}

func TestNewAdvancePaymentCredit(t *testing.T) {
	t.Run("creates pending credit with full remaining balance", func(t *testing.T) {
		c, err := NewAdvancePaymentCredit("AVC-2026-0001", uuid.New(), "Coopérative Sambava",
			valueobject.NewMoneyMGAFromInt(400000))
		require.NoError(t, err)

		assert.Equal(t, CreditStatusPending, c.Status)
		assert.True(t, c.TotalAmount.Equal(decimal.NewFromInt(400000)))
		assert.True(t, c.UsedAmount.IsZero())
		assert.True(t, c.RemainingAmount.Equal(decimal.NewFromInt(400000)))
		assert.Equal(t, 1, c.Version)
		assert.NoError(t, c.CheckBalanceInvariant())

		events := c.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "AdvanceCreditRegistered", events[0].EventType())
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name   string
			number string
			supID  uuid.UUID
			supNm  string
			amount int64
		}{
			{"empty credit number", "", uuid.New(), "S", 1000},
			{"nil supplier", "AVC-1", uuid.Nil, "S", 1000},
			{"empty supplier name", "AVC-1", uuid.New(), "", 1000},
			{"zero amount", "AVC-1", uuid.New(), "S", 0},
			{"negative amount", "AVC-1", uuid.New(), "S", -100},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewAdvancePaymentCredit(tt.number, tt.supID, tt.supNm,
					valueobject.NewMoneyMGAFromInt(tt.amount))
				assert.Error(t, err)
			})
		}
	})
}

func TestAdvancePaymentCredit_Confirm(t *testing.T) {
	c, err := NewAdvancePaymentCredit("AVC-2026-0001", uuid.New(), "S",
		valueobject.NewMoneyMGAFromInt(100000))
	require.NoError(t, err)

	require.NoError(t, c.Confirm())
	assert.Equal(t, CreditStatusAvailable, c.Status)
	assert.NotNil(t, c.ConfirmedAt)
	assert.True(t, c.IsAvailable())

	// Idempotent confirmation is not allowed.
	assert.Error(t, c.Confirm())
}

func TestAdvancePaymentCredit_Draw(t *testing.T) {
	documentID := uuid.New()

	t.Run("partial draw keeps credit available", func(t *testing.T) {
		c := newAvailableCredit(t, "AVC-2026-0001", 700000)

		err := c.Draw(valueobject.NewMoneyMGAFromInt(600000), documentID)
		require.NoError(t, err)

		assert.Equal(t, CreditStatusAvailable, c.Status)
		assert.True(t, c.UsedAmount.Equal(decimal.NewFromInt(600000)))
		assert.True(t, c.RemainingAmount.Equal(decimal.NewFromInt(100000)))
		assert.NoError(t, c.CheckBalanceInvariant())

		events := c.GetDomainEvents()
		require.Len(t, events, 1)
		drawn, ok := events[0].(*CreditDrawnEvent)
		require.True(t, ok)
		assert.Equal(t, documentID, drawn.DocumentID)
	})

	t.Run("exact draw exhausts the credit", func(t *testing.T) {
		c := newAvailableCredit(t, "AVC-2026-0002", 400000)

		err := c.Draw(valueobject.NewMoneyMGAFromInt(400000), documentID)
		require.NoError(t, err)

		assert.Equal(t, CreditStatusExhausted, c.Status)
		assert.True(t, c.RemainingAmount.IsZero())
		assert.NotNil(t, c.ExhaustedAt)
		assert.True(t, c.Status.IsTerminal())

		events := c.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "AdvanceCreditExhausted", events[0].EventType())
	})

	t.Run("draw above remaining is an invariant violation", func(t *testing.T) {
		c := newAvailableCredit(t, "AVC-2026-0003", 100000)

		err := c.Draw(valueobject.NewMoneyMGAFromInt(100001), documentID)
		require.Error(t, err)
		assert.True(t, shared.IsInvariantViolation(err))
		// Balances untouched on failure.
		assert.True(t, c.RemainingAmount.Equal(decimal.NewFromInt(100000)))
	})

	t.Run("draw on pending credit is an invariant violation", func(t *testing.T) {
		c, err := NewAdvancePaymentCredit("AVC-2026-0004", uuid.New(), "S",
			valueobject.NewMoneyMGAFromInt(100000))
		require.NoError(t, err)

		err = c.Draw(valueobject.NewMoneyMGAFromInt(1000), documentID)
		require.Error(t, err)
		assert.True(t, shared.IsInvariantViolation(err))
	})

	t.Run("non-positive draw amount is a validation error", func(t *testing.T) {
		c := newAvailableCredit(t, "AVC-2026-0005", 100000)

		err := c.Draw(valueobject.ZeroMGA(), documentID)
		require.Error(t, err)
		assert.False(t, shared.IsInvariantViolation(err))
	})
}

func TestAdvancePaymentCredit_Cancel(t *testing.T) {
	t.Run("cancellation voids the remainder and keeps history", func(t *testing.T) {
		c := newAvailableCredit(t, "AVC-2026-0001", 500000)
		require.NoError(t, c.Draw(valueobject.NewMoneyMGAFromInt(200000), uuid.New()))

		err := c.Cancel("supplier contract terminated")
		require.NoError(t, err)

		assert.Equal(t, CreditStatusCancelled, c.Status)
		assert.True(t, c.RemainingAmount.IsZero())
		assert.True(t, c.UsedAmount.Equal(decimal.NewFromInt(200000)))
		assert.Equal(t, "supplier contract terminated", c.CancelReason)
		assert.NotNil(t, c.CancelledAt)
		assert.False(t, c.Status.CanAllocate())
	})

	t.Run("terminal credits cannot be cancelled", func(t *testing.T) {
		c := newAvailableCredit(t, "AVC-2026-0002", 100000)
		require.NoError(t, c.Draw(valueobject.NewMoneyMGAFromInt(100000), uuid.New()))

		assert.Error(t, c.Cancel("too late"))
	})

	t.Run("reason is required", func(t *testing.T) {
		c := newAvailableCredit(t, "AVC-2026-0003", 100000)
		assert.Error(t, c.Cancel(""))
	})
}

func TestAdvancePaymentCredit_CheckBalanceInvariant(t *testing.T) {
	t.Run("detects corrupted balances", func(t *testing.T) {
		c := newAvailableCredit(t, "AVC-2026-0001", 100000)
		c.UsedAmount = decimal.NewFromInt(50000) // remaining no longer reconciles

		err := c.CheckBalanceInvariant()
		require.Error(t, err)
		assert.True(t, shared.IsInvariantViolation(err))
	})

	t.Run("detects negative remaining", func(t *testing.T) {
		c := newAvailableCredit(t, "AVC-2026-0002", 100000)
		c.RemainingAmount = decimal.NewFromInt(-1)

		err := c.CheckBalanceInvariant()
		require.Error(t, err)
		assert.True(t, shared.IsInvariantViolation(err))
	})

	t.Run("cancelled credits are exempt", func(t *testing.T) {
		c := newAvailableCredit(t, "AVC-2026-0003", 100000)
		require.NoError(t, c.Draw(valueobject.NewMoneyMGAFromInt(30000), uuid.New()))
		require.NoError(t, c.Cancel("unused remainder voided"))

		assert.NoError(t, c.CheckBalanceInvariant())
	})
}

func TestCreditStatus(t *testing.T) {
	assert.True(t, CreditStatusAvailable.CanAllocate())
	assert.False(t, CreditStatusPending.CanAllocate())
	assert.False(t, CreditStatusExhausted.CanAllocate())
	assert.False(t, CreditStatusCancelled.CanAllocate())

	assert.True(t, CreditStatusExhausted.IsTerminal())
	assert.True(t, CreditStatusCancelled.IsTerminal())
	assert.False(t, CreditStatusAvailable.IsTerminal())

	assert.True(t, CreditStatus("AVAILABLE").IsValid())
	assert.False(t, CreditStatus("UNKNOWN").IsValid())
}
