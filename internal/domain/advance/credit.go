package advance

import (
	"fmt"
	"time"

	"github.com/essencia/backend/internal/domain/shared"
	"github.com/essencia/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditStatus represents the status of an advance payment credit
type CreditStatus string

const (
	CreditStatusPending   CreditStatus = "PENDING"   // Registered, awaiting confirmation
	CreditStatusAvailable CreditStatus = "AVAILABLE" // Confirmed, remaining balance can be drawn
	CreditStatusExhausted CreditStatus = "EXHAUSTED" // Fully drawn, remaining balance is zero
	CreditStatusCancelled CreditStatus = "CANCELLED" // Unused remainder voided, used portion kept
)

// IsValid checks if the status is a valid CreditStatus
func (s CreditStatus) IsValid() bool {
	switch s {
	case CreditStatusPending, CreditStatusAvailable, CreditStatusExhausted, CreditStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of CreditStatus
func (s CreditStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the credit balance can no longer change
func (s CreditStatus) IsTerminal() bool {
	return s == CreditStatusExhausted || s == CreditStatusCancelled
}

// CanAllocate returns true if the credit can be drawn against in this status
func (s CreditStatus) CanAllocate() bool {
	return s == CreditStatusAvailable
}

// AdvancePaymentCredit represents a supplier's pre-paid balance ("avance")
// that can be drawn down against future amounts owed for raw-material intake.
// used + remaining == total holds at all times; allocation decreases remaining
// and increases used, never the totals.
type AdvancePaymentCredit struct {
	shared.BaseAggregateRoot
	CreditNumber    string          `json:"credit_number"`
	SupplierID      uuid.UUID       `json:"supplier_id"`
	SupplierName    string          `json:"supplier_name"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	UsedAmount      decimal.Decimal `json:"used_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          CreditStatus    `json:"status"`
	Remark          string          `json:"remark"`
	ConfirmedAt     *time.Time      `json:"confirmed_at"`
	ExhaustedAt     *time.Time      `json:"exhausted_at"`
	CancelledAt     *time.Time      `json:"cancelled_at"`
	CancelReason    string          `json:"cancel_reason"`
}

// NewAdvancePaymentCredit registers a new advance for a supplier.
// The credit starts PENDING and must be confirmed before allocation.
func NewAdvancePaymentCredit(
	creditNumber string,
	supplierID uuid.UUID,
	supplierName string,
	totalAmount valueobject.Money,
) (*AdvancePaymentCredit, error) {
	if creditNumber == "" {
		return nil, shared.NewDomainError("INVALID_CREDIT_NUMBER", "Credit number cannot be empty")
	}
	if len(creditNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_CREDIT_NUMBER", "Credit number cannot exceed 50 characters")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}
	if totalAmount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Advance amount must be positive")
	}

	c := &AdvancePaymentCredit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CreditNumber:      creditNumber,
		SupplierID:        supplierID,
		SupplierName:      supplierName,
		TotalAmount:       totalAmount.Amount(),
		UsedAmount:        decimal.Zero,
		RemainingAmount:   totalAmount.Amount(),
		Status:            CreditStatusPending,
	}

	c.AddDomainEvent(NewCreditRegisteredEvent(c))

	return c, nil
}

// Confirm moves a pending credit to AVAILABLE so it can be allocated
func (c *AdvancePaymentCredit) Confirm() error {
	if c.Status != CreditStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm credit in %s status", c.Status))
	}

	now := time.Now()
	c.Status = CreditStatusAvailable
	c.ConfirmedAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()

	c.AddDomainEvent(NewCreditConfirmedEvent(c))

	return nil
}

// Draw consumes part of the remaining balance. The amount must not exceed
// the remaining balance; the allocator guarantees this for computed draws,
// so a breach here is an integration bug and fails loudly.
func (c *AdvancePaymentCredit) Draw(amount valueobject.Money, documentID uuid.UUID) error {
	if !c.Status.CanAllocate() {
		return shared.NewInvariantViolation(
			fmt.Sprintf("credit %s drawn in %s status", c.CreditNumber, c.Status))
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Draw amount must be positive")
	}
	if amount.Amount().GreaterThan(c.RemainingAmount) {
		return shared.NewInvariantViolation(
			fmt.Sprintf("draw of %s exceeds remaining %s on credit %s",
				amount.Amount(), c.RemainingAmount, c.CreditNumber))
	}

	c.UsedAmount = c.UsedAmount.Add(amount.Amount())
	c.RemainingAmount = c.TotalAmount.Sub(c.UsedAmount)

	now := time.Now()
	if c.RemainingAmount.IsZero() {
		c.Status = CreditStatusExhausted
		c.ExhaustedAt = &now
		c.AddDomainEvent(NewCreditExhaustedEvent(c, documentID))
	} else {
		c.AddDomainEvent(NewCreditDrawnEvent(c, amount, documentID))
	}

	c.UpdatedAt = now
	c.IncrementVersion()

	return nil
}

// Cancel voids the unused remainder of the credit. The already-used portion
// is retained as history, never rolled back.
func (c *AdvancePaymentCredit) Cancel(reason string) error {
	if c.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel credit in %s status", c.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	c.Status = CreditStatusCancelled
	c.CancelledAt = &now
	c.CancelReason = reason
	c.RemainingAmount = decimal.Zero
	c.UpdatedAt = now
	c.IncrementVersion()

	c.AddDomainEvent(NewCreditCancelledEvent(c))

	return nil
}

// SetRemark sets the remark
func (c *AdvancePaymentCredit) SetRemark(remark string) {
	c.Remark = remark
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// CheckBalanceInvariant verifies used + remaining == total. A violation means
// the stored balances were corrupted, e.g. by a concurrent double allocation.
func (c *AdvancePaymentCredit) CheckBalanceInvariant() error {
	if c.Status == CreditStatusCancelled {
		// Cancellation zeroes the remainder; the identity no longer holds.
		return nil
	}
	if c.RemainingAmount.IsNegative() {
		return shared.NewInvariantViolation(
			fmt.Sprintf("credit %s has negative remaining amount %s", c.CreditNumber, c.RemainingAmount))
	}
	if !c.UsedAmount.Add(c.RemainingAmount).Equal(c.TotalAmount) {
		return shared.NewInvariantViolation(
			fmt.Sprintf("credit %s balances do not reconcile: used %s + remaining %s != total %s",
				c.CreditNumber, c.UsedAmount, c.RemainingAmount, c.TotalAmount))
	}
	return nil
}

// GetTotalAmountMoney returns the total amount as Money
func (c *AdvancePaymentCredit) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyMGA(c.TotalAmount)
}

// GetUsedAmountMoney returns the used amount as Money
func (c *AdvancePaymentCredit) GetUsedAmountMoney() valueobject.Money {
	return valueobject.NewMoneyMGA(c.UsedAmount)
}

// GetRemainingAmountMoney returns the remaining amount as Money
func (c *AdvancePaymentCredit) GetRemainingAmountMoney() valueobject.Money {
	return valueobject.NewMoneyMGA(c.RemainingAmount)
}

// IsPending returns true if the credit awaits confirmation
func (c *AdvancePaymentCredit) IsPending() bool {
	return c.Status == CreditStatusPending
}

// IsAvailable returns true if the credit can be allocated
func (c *AdvancePaymentCredit) IsAvailable() bool {
	return c.Status == CreditStatusAvailable
}

// IsExhausted returns true if the credit is fully drawn
func (c *AdvancePaymentCredit) IsExhausted() bool {
	return c.Status == CreditStatusExhausted
}

// IsCancelled returns true if the credit was cancelled
func (c *AdvancePaymentCredit) IsCancelled() bool {
	return c.Status == CreditStatusCancelled
}
