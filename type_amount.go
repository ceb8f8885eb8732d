package finance

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultCurrency is the currency used to format amounts when none is configured.
const DefaultCurrency = "USD"

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// Amount is an exact monetary value, in major units.
//
// Amounts carry no currency: a tracker uses a single formatting convention
// chosen at display time.
type Amount struct {
	value decimal.Decimal
}

// A creates an Amount.
func A[T float64 | int | int64 | decimal.Decimal](value T) Amount {
	return Amount{value: newDecimal(value)}
}

// ParseAmount converts user input into an Amount.
//
// Empty input, anything that is not a plain decimal number, and negative
// numbers are rejected with ErrInvalidAmount. Zero is accepted.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}
	// decimal rejects NaN and Inf.
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return Amount{}, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, s)
	}
	return Amount{value: d}, nil
}

// ParsePositiveAmount is like ParseAmount but also rejects zero.
func ParsePositiveAmount(s string) (Amount, error) {
	a, err := ParseAmount(s)
	if err != nil {
		return Amount{}, err
	}
	if a.IsZero() {
		return Amount{}, fmt.Errorf("%w: must be greater than zero", ErrInvalidAmount)
	}
	return a, nil
}

func (a Amount) Equal(b Amount) bool              { return a.value.Equal(b.value) }
func (a Amount) Add(b Amount) Amount              { return Amount{value: a.value.Add(b.value)} }
func (a Amount) Sub(b Amount) Amount              { return Amount{value: a.value.Sub(b.value)} }
func (a Amount) Neg() Amount                      { return Amount{value: a.value.Neg()} }
func (a Amount) IsZero() bool                     { return a.value.IsZero() }
func (a Amount) IsPositive() bool                 { return a.value.IsPositive() }
func (a Amount) IsNegative() bool                 { return a.value.IsNegative() }
func (a Amount) LessThan(b Amount) bool           { return a.value.LessThan(b.value) }
func (a Amount) GreaterThanOrEqual(b Amount) bool { return a.value.GreaterThanOrEqual(b.value) }
func (a Amount) Decimal() decimal.Decimal         { return a.value }
func (a Amount) String() string                   { return a.value.String() }

// Float returns an approximation of the amount, for display and expressions only.
func (a Amount) Float() float64 { return a.value.InexactFloat64() }

// Percent returns a as a percentage of total. It returns zero when total is zero.
func (a Amount) Percent(total Amount) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return a.value.Div(total.value).Mul(decimal.NewFromInt(100))
}

// Format returns the amount formatted in the given currency, e.g. "$1,000.00".
func (a Amount) Format(currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	// to get a never nil currency I need to call the Money constructor
	cur := *money.New(0, currency).Currency()
	minor := a.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// MarshalJSON writes the amount as a bare JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return a.value.MarshalJSON()
}

// UnmarshalJSON reads a JSON number, or a string containing one.
func (a *Amount) UnmarshalJSON(b []byte) error {
	return a.value.UnmarshalJSON(b)
}
