package valueobject

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Weight is a value object representing a mass in kilograms.
// It is immutable - all operations return new Weight instances.
// No intermediate rounding is applied: recomputing the same weighing must
// produce bit-identical results, so rounding happens only at the
// presentation boundary.
type Weight struct {
	kilograms decimal.Decimal
}

// NewWeight creates a Weight from a decimal kilogram value
func NewWeight(kilograms decimal.Decimal) Weight {
	return Weight{kilograms: kilograms}
}

// NewWeightFromString creates a Weight from a string kilogram value
func NewWeightFromString(kilograms string) (Weight, error) {
	d, err := decimal.NewFromString(kilograms)
	if err != nil {
		return Weight{}, fmt.Errorf("invalid weight string: %w", err)
	}
	return Weight{kilograms: d}, nil
}

// ZeroWeight returns a zero-value Weight
func ZeroWeight() Weight {
	return Weight{kilograms: decimal.Zero}
}

// Kilograms returns the decimal kilogram value
func (w Weight) Kilograms() decimal.Decimal {
	return w.kilograms
}

// IsZero returns true if the weight is zero
func (w Weight) IsZero() bool {
	return w.kilograms.IsZero()
}

// IsPositive returns true if the weight is strictly positive
func (w Weight) IsPositive() bool {
	return w.kilograms.IsPositive()
}

// IsNegative returns true if the weight is negative
func (w Weight) IsNegative() bool {
	return w.kilograms.IsNegative()
}

// Add returns the sum of both weights
func (w Weight) Add(other Weight) Weight {
	return Weight{kilograms: w.kilograms.Add(other.kilograms)}
}

// Subtract returns the difference of both weights
func (w Weight) Subtract(other Weight) Weight {
	return Weight{kilograms: w.kilograms.Sub(other.kilograms)}
}

// ApplyRate returns the portion of the weight corresponding to a percentage
// rate, e.g. 95 kg at rate 4 gives 3.8 kg. The division keeps full decimal
// precision.
func (w Weight) ApplyRate(ratePercent decimal.Decimal) Weight {
	return Weight{kilograms: w.kilograms.Mul(ratePercent).Div(decimal.NewFromInt(100))}
}

// PriceAt returns the monetary value of this weight at the given unit price
// per kilogram.
func (w Weight) PriceAt(unitPrice Money) Money {
	return unitPrice.Multiply(w.kilograms)
}

// LessThan returns true if this weight is less than the other
func (w Weight) LessThan(other Weight) bool {
	return w.kilograms.LessThan(other.kilograms)
}

// GreaterThanOrEqual returns true if this weight is at least the other
func (w Weight) GreaterThanOrEqual(other Weight) bool {
	return w.kilograms.GreaterThanOrEqual(other.kilograms)
}

// Equals returns true if both weights are equal
func (w Weight) Equals(other Weight) bool {
	return w.kilograms.Equal(other.kilograms)
}

// String returns the weight formatted with three decimal places and unit
func (w Weight) String() string {
	return w.kilograms.StringFixed(3) + " kg"
}

// MarshalJSON implements json.Marshaler
func (w Weight) MarshalJSON() ([]byte, error) {
	return []byte(`"` + w.kilograms.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (w *Weight) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid weight: %w", err)
	}
	w.kilograms = d
	return nil
}

// Value implements driver.Valuer for database storage
func (w Weight) Value() (driver.Value, error) {
	return w.kilograms.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (w *Weight) Scan(value any) error {
	if value == nil {
		w.kilograms = decimal.Zero
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	default:
		return errors.New("cannot scan non-string value into Weight")
	}

	d, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	w.kilograms = d
	return nil
}
