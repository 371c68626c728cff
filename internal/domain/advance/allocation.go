package advance

import (
	"fmt"

	"github.com/essencia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationEntry describes the draw computed against a single credit during
// one allocation pass. Before/after balances are carried so that invoices can
// show which credits were drawn down and by how much.
type AllocationEntry struct {
	CreditID        uuid.UUID       `json:"credit_id"`
	CreditNumber    string          `json:"credit_number"`
	Applied         decimal.Decimal `json:"applied"`
	UsedBefore      decimal.Decimal `json:"used_before"`
	RemainingBefore decimal.Decimal `json:"remaining_before"`
	UsedAfter       decimal.Decimal `json:"used_after"`
	RemainingAfter  decimal.Decimal `json:"remaining_after"`
	StatusAfter     CreditStatus    `json:"status_after"`
}

// AllocationResult is the outcome of one allocation pass. It is a set of
// instructions for the caller to persist; the pass itself mutates nothing.
type AllocationResult struct {
	Entries            []AllocationEntry `json:"entries"`
	AmountToCover      decimal.Decimal   `json:"amount_to_cover"`
	TotalApplied       decimal.Decimal   `json:"total_applied"`
	RemainingUncovered decimal.Decimal   `json:"remaining_uncovered"`
}

// FullyCovered returns true if the whole requested amount was covered
func (r *AllocationResult) FullyCovered() bool {
	return r.RemainingUncovered.IsZero()
}

// EntryFor returns the entry for the given credit, or nil if it was not touched
func (r *AllocationResult) EntryFor(creditID uuid.UUID) *AllocationEntry {
	for i := range r.Entries {
		if r.Entries[i].CreditID == creditID {
			return &r.Entries[i]
		}
	}
	return nil
}

// Allocate greedily consumes the given credits, in the given order, to cover
// amountToCover. The caller supplies the ordering (conventionally oldest
// first) and it is preserved exactly: order decides which credits get
// exhausted first, so it is part of the observable contract.
//
// The pass is a fold over the credit sequence: each step computes
// applied = min(remaining_amount, remaining_to_cover) and emits an entry with
// the balances the credit will have once the caller commits the result. The
// input credits are never mutated.
//
// A negative amountToCover is a validation error. A supplied credit that is
// not AVAILABLE, has a non-positive remaining balance, or whose balances do
// not reconcile indicates a caller-side bug and fails as an invariant
// violation rather than being clamped.
func Allocate(amountToCover decimal.Decimal, credits []AdvancePaymentCredit) (*AllocationResult, error) {
	if amountToCover.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT",
			fmt.Sprintf("Amount to cover cannot be negative, got %s", amountToCover))
	}

	for i := range credits {
		c := &credits[i]
		if !c.Status.CanAllocate() {
			return nil, shared.NewInvariantViolation(
				fmt.Sprintf("credit %s supplied to allocator in %s status", c.CreditNumber, c.Status))
		}
		if c.RemainingAmount.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewInvariantViolation(
				fmt.Sprintf("credit %s supplied to allocator with non-positive remaining amount %s",
					c.CreditNumber, c.RemainingAmount))
		}
		if err := c.CheckBalanceInvariant(); err != nil {
			return nil, err
		}
	}

	entries := make([]AllocationEntry, 0, len(credits))
	remainingToCover := amountToCover

	for i := range credits {
		if !remainingToCover.IsPositive() {
			break
		}
		c := &credits[i]

		applied := decimal.Min(c.RemainingAmount, remainingToCover)
		if applied.LessThanOrEqual(decimal.Zero) {
			continue
		}

		usedAfter := c.UsedAmount.Add(applied)
		remainingAfter := c.TotalAmount.Sub(usedAfter)
		statusAfter := CreditStatusAvailable
		if remainingAfter.IsZero() {
			statusAfter = CreditStatusExhausted
		}

		entries = append(entries, AllocationEntry{
			CreditID:        c.ID,
			CreditNumber:    c.CreditNumber,
			Applied:         applied,
			UsedBefore:      c.UsedAmount,
			RemainingBefore: c.RemainingAmount,
			UsedAfter:       usedAfter,
			RemainingAfter:  remainingAfter,
			StatusAfter:     statusAfter,
		})

		remainingToCover = remainingToCover.Sub(applied)
	}

	return &AllocationResult{
		Entries:            entries,
		AmountToCover:      amountToCover,
		TotalApplied:       amountToCover.Sub(remainingToCover),
		RemainingUncovered: remainingToCover,
	}, nil
}
