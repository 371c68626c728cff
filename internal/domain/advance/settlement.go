package advance

import (
	"fmt"

	"github.com/essencia/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentStatus classifies how far a reception document has been paid once
// direct payment and advance allocation are accounted for.
type PaymentStatus string

const (
	PaymentStatusPaid            PaymentStatus = "PAID"             // Nothing left owed
	PaymentStatusPartiallyPaid   PaymentStatus = "PARTIALLY_PAID"   // Something paid or allocated, debt remains
	PaymentStatusAwaitingPayment PaymentStatus = "AWAITING_PAYMENT" // Nothing paid or allocated yet
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPartiallyPaid, PaymentStatusAwaitingPayment:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// Settlement combines an allocation pass with the document's money figures
// into a final debt and payment status, plus the per-credit audit breakdown
// that invoicing and export consumers rely on.
type Settlement struct {
	TotalPrice         decimal.Decimal   `json:"total_price"`
	AmountPaidDirectly decimal.Decimal   `json:"amount_paid_directly"`
	TotalApplied       decimal.Decimal   `json:"total_applied"`
	FinalDebt          decimal.Decimal   `json:"final_debt"`
	Status             PaymentStatus     `json:"status"`
	Breakdown          []AllocationEntry `json:"breakdown"`
}

// ResolveSettlement derives the final debt and payment status from an
// allocation result.
//
// The allocation's amount to cover is expected to be the directly-unpaid
// remainder, max(0, total_price - amount_paid_directly), so
// final_debt == max(0, total_price - amount_paid_directly - total_applied)
// holds by construction. Over-payment is clamped before allocation, never
// after, so an overpaid document yields a zero debt and no allocation.
func ResolveSettlement(
	totalPrice decimal.Decimal,
	amountPaidDirectly decimal.Decimal,
	allocation *AllocationResult,
) (*Settlement, error) {
	if allocation == nil {
		return nil, shared.NewDomainError("INVALID_ALLOCATION", "Allocation result cannot be nil")
	}
	if totalPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT",
			fmt.Sprintf("Total price cannot be negative, got %s", totalPrice))
	}
	if amountPaidDirectly.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT",
			fmt.Sprintf("Directly paid amount cannot be negative, got %s", amountPaidDirectly))
	}

	finalDebt := allocation.RemainingUncovered

	var status PaymentStatus
	switch {
	case finalDebt.IsZero():
		status = PaymentStatusPaid
	case amountPaidDirectly.IsPositive() || allocation.TotalApplied.IsPositive():
		status = PaymentStatusPartiallyPaid
	default:
		status = PaymentStatusAwaitingPayment
	}

	breakdown := make([]AllocationEntry, len(allocation.Entries))
	copy(breakdown, allocation.Entries)

	return &Settlement{
		TotalPrice:         totalPrice,
		AmountPaidDirectly: amountPaidDirectly,
		TotalApplied:       allocation.TotalApplied,
		FinalDebt:          finalDebt,
		Status:             status,
		Breakdown:          breakdown,
	}, nil
}

// AmountToCover computes the allocator input for a document: the part of the
// total price not already covered by direct payment, clamped at zero.
func AmountToCover(totalPrice, amountPaidDirectly decimal.Decimal) decimal.Decimal {
	owed := totalPrice.Sub(amountPaidDirectly)
	if owed.IsNegative() {
		return decimal.Zero
	}
	return owed
}
