package intake

import (
	"github.com/essencia/backend/internal/domain/advance"
	"github.com/essencia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceptionRecordedEvent is raised when an intake is weighed and priced
type ReceptionRecordedEvent struct {
	shared.BaseDomainEvent
	DocumentID     uuid.UUID       `json:"document_id"`
	DocumentNumber string          `json:"document_number"`
	SupplierID     uuid.UUID       `json:"supplier_id"`
	SupplierName   string          `json:"supplier_name"`
	Material       string          `json:"material"`
	NetWeight      decimal.Decimal `json:"net_weight"`
	TotalPrice     decimal.Decimal `json:"total_price"`
}

// EventType returns the event type name
func (e *ReceptionRecordedEvent) EventType() string {
	return "ReceptionRecorded"
}

// NewReceptionRecordedEvent creates a new ReceptionRecordedEvent
func NewReceptionRecordedEvent(d *ReceptionDocument) *ReceptionRecordedEvent {
	return &ReceptionRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ReceptionRecorded", "ReceptionDocument", d.ID),
		DocumentID:      d.ID,
		DocumentNumber:  d.DocumentNumber,
		SupplierID:      d.SupplierID,
		SupplierName:    d.SupplierName,
		Material:        d.Material,
		NetWeight:       d.NetWeight,
		TotalPrice:      d.TotalPrice,
	}
}

// ReceptionSettledEvent is raised when a document's final debt is fixed
type ReceptionSettledEvent struct {
	shared.BaseDomainEvent
	DocumentID     uuid.UUID             `json:"document_id"`
	DocumentNumber string                `json:"document_number"`
	SupplierID     uuid.UUID             `json:"supplier_id"`
	TotalApplied   decimal.Decimal       `json:"total_applied"`
	FinalDebt      decimal.Decimal       `json:"final_debt"`
	PaymentStatus  advance.PaymentStatus `json:"payment_status"`
	CreditsTouched int                   `json:"credits_touched"`
}

// EventType returns the event type name
func (e *ReceptionSettledEvent) EventType() string {
	return "ReceptionSettled"
}

// NewReceptionSettledEvent creates a new ReceptionSettledEvent
func NewReceptionSettledEvent(d *ReceptionDocument, settlement *advance.Settlement) *ReceptionSettledEvent {
	return &ReceptionSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ReceptionSettled", "ReceptionDocument", d.ID),
		DocumentID:      d.ID,
		DocumentNumber:  d.DocumentNumber,
		SupplierID:      d.SupplierID,
		TotalApplied:    settlement.TotalApplied,
		FinalDebt:       settlement.FinalDebt,
		PaymentStatus:   settlement.Status,
		CreditsTouched:  len(settlement.Breakdown),
	}
}
