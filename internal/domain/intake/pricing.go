package intake

import (
	"fmt"

	"github.com/essencia/backend/internal/domain/shared"
	"github.com/essencia/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Pricing is the monetary outcome of one intake: the value of the net weight
// at the agreed unit price, and the part of it not yet covered by a direct
// payment at the scale.
type Pricing struct {
	NetWeight          valueobject.Weight
	UnitPrice          valueobject.Money
	TotalPrice         valueobject.Money
	AmountPaidDirectly valueobject.Money
	AmountOwed         valueobject.Money // clamped at zero on over-payment
}

// ComputePricing values a net weight at the supplier's unit price and nets
// off any amount already paid directly at intake. The owed amount is clamped
// at zero: over-payment never produces a negative debt here, it is simply a
// fully-paid document.
func ComputePricing(
	netWeight valueobject.Weight,
	unitPrice valueobject.Money,
	amountPaidDirectly valueobject.Money,
) (*Pricing, error) {
	errs := shared.NewValidationErrors()

	if !unitPrice.IsPositive() {
		errs.Add("INVALID_UNIT_PRICE",
			fmt.Sprintf("Unit price must be positive, got %s", unitPrice.Amount()))
	}
	if amountPaidDirectly.IsNegative() {
		errs.Add("INVALID_DIRECT_PAYMENT",
			fmt.Sprintf("Directly paid amount cannot be negative, got %s", amountPaidDirectly.Amount()))
	}
	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}

	if netWeight.IsNegative() {
		return nil, shared.NewInvariantViolation(
			fmt.Sprintf("pricing requested for negative net weight %s", netWeight))
	}

	totalPrice := netWeight.PriceAt(unitPrice)

	owed := totalPrice.Amount().Sub(amountPaidDirectly.Amount())
	if owed.IsNegative() {
		owed = decimal.Zero
	}

	return &Pricing{
		NetWeight:          netWeight,
		UnitPrice:          unitPrice,
		TotalPrice:         totalPrice,
		AmountPaidDirectly: amountPaidDirectly,
		AmountOwed:         valueobject.NewMoneyMGA(owed),
	}, nil
}
