package intake

import (
	"fmt"
	"time"

	"github.com/essencia/backend/internal/domain/advance"
	"github.com/essencia/backend/internal/domain/shared"
	"github.com/essencia/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentStatus represents the lifecycle stage of a reception document
type DocumentStatus string

const (
	DocumentStatusRecorded DocumentStatus = "RECORDED" // Weighed and priced, settlement pending
	DocumentStatusSettled  DocumentStatus = "SETTLED"  // Advance allocation done, final debt fixed
)

// IsValid checks if the status is a valid DocumentStatus
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusRecorded, DocumentStatusSettled:
		return true
	}
	return false
}

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// ReceptionDocument represents one intake/weighing event: the raw measurement
// captured at the scale plus the derived net weight, total price and, after
// settlement, the final debt and payment status.
//
// A settled document is never silently overwritten: corrections are recorded
// as new compensating documents referencing the original.
type ReceptionDocument struct {
	shared.BaseAggregateRoot
	DocumentNumber        string                 `json:"document_number"`
	SupplierID            uuid.UUID              `json:"supplier_id"`
	SupplierName          string                 `json:"supplier_name"`
	Material              string                 `json:"material"`
	GrossWeight           decimal.Decimal        `json:"gross_weight"`
	PackagingWeight       decimal.Decimal        `json:"packaging_weight"`
	MoistureRate          *decimal.Decimal       `json:"moisture_rate,omitempty"`
	DesiccationTargetRate *decimal.Decimal       `json:"desiccation_target_rate,omitempty"`
	UnitPrice             decimal.Decimal        `json:"unit_price"`
	AmountPaidDirectly    decimal.Decimal        `json:"amount_paid_directly"`
	NetWeight             decimal.Decimal        `json:"net_weight"`
	TotalPrice            decimal.Decimal        `json:"total_price"`
	FinalDebt             decimal.Decimal        `json:"final_debt"`
	PaymentStatus         advance.PaymentStatus  `json:"payment_status,omitempty"`
	Status                DocumentStatus         `json:"status"`
	CorrectionOfID        *uuid.UUID             `json:"correction_of_id,omitempty"`
	Remark                string                 `json:"remark"`
	SettledAt             *time.Time             `json:"settled_at,omitempty"`
}

// NewReceptionDocument records an intake: it validates the measurement and
// price inputs, computes the net weight and total price immediately, and
// leaves final debt and payment status for settlement.
func NewReceptionDocument(
	documentNumber string,
	supplierID uuid.UUID,
	supplierName string,
	material string,
	measurement WeighingMeasurement,
	unitPrice valueobject.Money,
	amountPaidDirectly valueobject.Money,
) (*ReceptionDocument, error) {
	if documentNumber == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Document number cannot be empty")
	}
	if len(documentNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Document number cannot exceed 50 characters")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}
	if material == "" {
		return nil, shared.NewDomainError("INVALID_MATERIAL", "Material cannot be empty")
	}

	netWeight, err := ComputeNetWeight(measurement)
	if err != nil {
		return nil, err
	}

	pricing, err := ComputePricing(netWeight, unitPrice, amountPaidDirectly)
	if err != nil {
		return nil, err
	}

	doc := &ReceptionDocument{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		DocumentNumber:        documentNumber,
		SupplierID:            supplierID,
		SupplierName:          supplierName,
		Material:              material,
		GrossWeight:           measurement.GrossWeight.Kilograms(),
		PackagingWeight:       measurement.PackagingWeight.Kilograms(),
		MoistureRate:          measurement.MoistureRate,
		DesiccationTargetRate: measurement.DesiccationTargetRate,
		UnitPrice:             unitPrice.Amount(),
		AmountPaidDirectly:    amountPaidDirectly.Amount(),
		NetWeight:             netWeight.Kilograms(),
		TotalPrice:            pricing.TotalPrice.Amount(),
		FinalDebt:             decimal.Zero,
		Status:                DocumentStatusRecorded,
	}

	doc.AddDomainEvent(NewReceptionRecordedEvent(doc))

	return doc, nil
}

// NewCorrectionDocument records a compensating intake referencing the
// document it corrects. The original stays untouched.
func NewCorrectionDocument(
	original *ReceptionDocument,
	documentNumber string,
	measurement WeighingMeasurement,
	unitPrice valueobject.Money,
	amountPaidDirectly valueobject.Money,
	remark string,
) (*ReceptionDocument, error) {
	if original == nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Original document cannot be nil")
	}

	doc, err := NewReceptionDocument(
		documentNumber,
		original.SupplierID,
		original.SupplierName,
		original.Material,
		measurement,
		unitPrice,
		amountPaidDirectly,
	)
	if err != nil {
		return nil, err
	}

	originalID := original.ID
	doc.CorrectionOfID = &originalID
	doc.Remark = remark

	return doc, nil
}

// AmountOwedInitial returns the part of the total price not covered by the
// direct payment, clamped at zero. This is the allocator's amount to cover.
func (d *ReceptionDocument) AmountOwedInitial() decimal.Decimal {
	return advance.AmountToCover(d.TotalPrice, d.AmountPaidDirectly)
}

// ApplySettlement fixes the document's final debt and payment status from a
// resolved settlement. A document settles exactly once; corrections go
// through new compensating documents.
func (d *ReceptionDocument) ApplySettlement(settlement *advance.Settlement) error {
	if settlement == nil {
		return shared.NewDomainError("INVALID_SETTLEMENT", "Settlement cannot be nil")
	}
	if d.Status == DocumentStatusSettled {
		return shared.NewDomainError("ALREADY_SETTLED",
			fmt.Sprintf("Document %s is already settled", d.DocumentNumber))
	}
	if !settlement.Status.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_STATUS",
			fmt.Sprintf("Payment status %s is not valid", settlement.Status))
	}

	now := time.Now()
	d.FinalDebt = settlement.FinalDebt
	d.PaymentStatus = settlement.Status
	d.Status = DocumentStatusSettled
	d.SettledAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(NewReceptionSettledEvent(d, settlement))

	return nil
}

// IsSettled returns true once the final debt has been fixed
func (d *ReceptionDocument) IsSettled() bool {
	return d.Status == DocumentStatusSettled
}

// IsCorrection returns true if this document compensates an earlier one
func (d *ReceptionDocument) IsCorrection() bool {
	return d.CorrectionOfID != nil
}

// GetNetWeightValue returns the net weight as a Weight value object
func (d *ReceptionDocument) GetNetWeightValue() valueobject.Weight {
	return valueobject.NewWeight(d.NetWeight)
}

// GetTotalPriceMoney returns the total price as Money
func (d *ReceptionDocument) GetTotalPriceMoney() valueobject.Money {
	return valueobject.NewMoneyMGA(d.TotalPrice)
}

// GetFinalDebtMoney returns the final debt as Money
func (d *ReceptionDocument) GetFinalDebtMoney() valueobject.Money {
	return valueobject.NewMoneyMGA(d.FinalDebt)
}
