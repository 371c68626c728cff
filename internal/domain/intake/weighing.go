package intake

import (
	"fmt"

	"github.com/essencia/backend/internal/domain/shared"
	"github.com/essencia/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// WeighingMeasurement holds the raw figures captured at the scale for one
// intake: the loaded weight, the packaging tare, and the optional moisture
// readings that drive the desiccation deduction.
type WeighingMeasurement struct {
	GrossWeight           valueobject.Weight
	PackagingWeight       valueobject.Weight
	MoistureRate          *decimal.Decimal
	DesiccationTargetRate *decimal.Decimal
}

// Validate collects every problem with the measurement in one pass so the
// intake operator sees all of them at once.
func (m WeighingMeasurement) Validate() *shared.ValidationErrors {
	errs := shared.NewValidationErrors()

	if !m.GrossWeight.IsPositive() {
		errs.Add("INVALID_GROSS_WEIGHT",
			fmt.Sprintf("Gross weight must be positive, got %s", m.GrossWeight))
	}
	if m.PackagingWeight.IsNegative() {
		errs.Add("INVALID_PACKAGING_WEIGHT",
			fmt.Sprintf("Packaging weight cannot be negative, got %s", m.PackagingWeight))
	}
	if m.PackagingWeight.GreaterThanOrEqual(m.GrossWeight) {
		errs.Add("PACKAGING_EXCEEDS_GROSS",
			fmt.Sprintf("Packaging weight %s must be strictly below gross weight %s",
				m.PackagingWeight, m.GrossWeight))
	}
	if m.MoistureRate != nil && outsidePercentRange(*m.MoistureRate) {
		errs.Add("INVALID_MOISTURE_RATE",
			fmt.Sprintf("Moisture rate must be between 0 and 100, got %s", m.MoistureRate))
	}
	if m.DesiccationTargetRate != nil && outsidePercentRange(*m.DesiccationTargetRate) {
		errs.Add("INVALID_DESICCATION_TARGET",
			fmt.Sprintf("Desiccation target rate must be between 0 and 100, got %s", m.DesiccationTargetRate))
	}

	return errs
}

// ComputeNetWeight derives the payable net weight from a measurement:
// packaging is removed, then a desiccation loss is deducted when the measured
// moisture exceeds the agreed target. Moisture at or below the target earns
// no bonus weight; the buyer only penalises excess, a deliberate business
// rule rather than an omission.
//
// All arithmetic stays in full decimal precision; rounding belongs to the
// presentation boundary so that recomputing a document never drifts.
func ComputeNetWeight(m WeighingMeasurement) (valueobject.Weight, error) {
	if err := m.Validate().ErrOrNil(); err != nil {
		return valueobject.ZeroWeight(), err
	}

	withoutPackaging := m.GrossWeight.Subtract(m.PackagingWeight)

	if m.MoistureRate == nil || m.DesiccationTargetRate == nil {
		return withoutPackaging, nil
	}
	if m.MoistureRate.LessThanOrEqual(*m.DesiccationTargetRate) {
		return withoutPackaging, nil
	}

	excess := m.MoistureRate.Sub(*m.DesiccationTargetRate)
	desiccationLoss := withoutPackaging.ApplyRate(excess)

	return withoutPackaging.Subtract(desiccationLoss), nil
}

func outsidePercentRange(rate decimal.Decimal) bool {
	return rate.IsNegative() || rate.GreaterThan(oneHundred)
}
