package advance

import (
	"github.com/essencia/backend/internal/domain/shared"
	"github.com/essencia/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditRegisteredEvent is raised when a supplier advance is registered
type CreditRegisteredEvent struct {
	shared.BaseDomainEvent
	CreditID     uuid.UUID       `json:"credit_id"`
	CreditNumber string          `json:"credit_number"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// EventType returns the event type name
func (e *CreditRegisteredEvent) EventType() string {
	return "AdvanceCreditRegistered"
}

// NewCreditRegisteredEvent creates a new CreditRegisteredEvent
func NewCreditRegisteredEvent(c *AdvancePaymentCredit) *CreditRegisteredEvent {
	return &CreditRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AdvanceCreditRegistered", "AdvancePaymentCredit", c.ID),
		CreditID:        c.ID,
		CreditNumber:    c.CreditNumber,
		SupplierID:      c.SupplierID,
		SupplierName:    c.SupplierName,
		TotalAmount:     c.TotalAmount,
	}
}

// CreditConfirmedEvent is raised when a pending advance becomes available
type CreditConfirmedEvent struct {
	shared.BaseDomainEvent
	CreditID     uuid.UUID       `json:"credit_id"`
	CreditNumber string          `json:"credit_number"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// EventType returns the event type name
func (e *CreditConfirmedEvent) EventType() string {
	return "AdvanceCreditConfirmed"
}

// NewCreditConfirmedEvent creates a new CreditConfirmedEvent
func NewCreditConfirmedEvent(c *AdvancePaymentCredit) *CreditConfirmedEvent {
	return &CreditConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AdvanceCreditConfirmed", "AdvancePaymentCredit", c.ID),
		CreditID:        c.ID,
		CreditNumber:    c.CreditNumber,
		SupplierID:      c.SupplierID,
		TotalAmount:     c.TotalAmount,
	}
}

// CreditDrawnEvent is raised when part of a credit is applied to a reception
type CreditDrawnEvent struct {
	shared.BaseDomainEvent
	CreditID        uuid.UUID       `json:"credit_id"`
	CreditNumber    string          `json:"credit_number"`
	SupplierID      uuid.UUID       `json:"supplier_id"`
	DocumentID      uuid.UUID       `json:"document_id"`
	Amount          decimal.Decimal `json:"amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}

// EventType returns the event type name
func (e *CreditDrawnEvent) EventType() string {
	return "AdvanceCreditDrawn"
}

// NewCreditDrawnEvent creates a new CreditDrawnEvent
func NewCreditDrawnEvent(c *AdvancePaymentCredit, amount valueobject.Money, documentID uuid.UUID) *CreditDrawnEvent {
	return &CreditDrawnEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AdvanceCreditDrawn", "AdvancePaymentCredit", c.ID),
		CreditID:        c.ID,
		CreditNumber:    c.CreditNumber,
		SupplierID:      c.SupplierID,
		DocumentID:      documentID,
		Amount:          amount.Amount(),
		RemainingAmount: c.RemainingAmount,
	}
}

// CreditExhaustedEvent is raised when the last of a credit's balance is drawn
type CreditExhaustedEvent struct {
	shared.BaseDomainEvent
	CreditID     uuid.UUID       `json:"credit_id"`
	CreditNumber string          `json:"credit_number"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	DocumentID   uuid.UUID       `json:"document_id"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// EventType returns the event type name
func (e *CreditExhaustedEvent) EventType() string {
	return "AdvanceCreditExhausted"
}

// NewCreditExhaustedEvent creates a new CreditExhaustedEvent
func NewCreditExhaustedEvent(c *AdvancePaymentCredit, documentID uuid.UUID) *CreditExhaustedEvent {
	return &CreditExhaustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AdvanceCreditExhausted", "AdvancePaymentCredit", c.ID),
		CreditID:        c.ID,
		CreditNumber:    c.CreditNumber,
		SupplierID:      c.SupplierID,
		DocumentID:      documentID,
		TotalAmount:     c.TotalAmount,
	}
}

// CreditCancelledEvent is raised when the unused remainder of a credit is voided
type CreditCancelledEvent struct {
	shared.BaseDomainEvent
	CreditID     uuid.UUID       `json:"credit_id"`
	CreditNumber string          `json:"credit_number"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	UsedAmount   decimal.Decimal `json:"used_amount"`
	CancelReason string          `json:"cancel_reason"`
}

// EventType returns the event type name
func (e *CreditCancelledEvent) EventType() string {
	return "AdvanceCreditCancelled"
}

// NewCreditCancelledEvent creates a new CreditCancelledEvent
func NewCreditCancelledEvent(c *AdvancePaymentCredit) *CreditCancelledEvent {
	return &CreditCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AdvanceCreditCancelled", "AdvancePaymentCredit", c.ID),
		CreditID:        c.ID,
		CreditNumber:    c.CreditNumber,
		SupplierID:      c.SupplierID,
		UsedAmount:      c.UsedAmount,
		CancelReason:    c.CancelReason,
	}
}
