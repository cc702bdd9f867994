package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/imovelbooks/imovel_books_app/internal/apperrors"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencyPrecision is the number of decimal places carried by booked monetary values.
const CurrencyPrecision = 2

var (
	hundred = decimal.NewFromInt(100)

	// Grouped local format ("1.234,56") or plain comma-decimal ("1234,56").
	localAmountPattern = regexp.MustCompile(`^-?(\d{1,3}(\.\d{3})+|\d+)(,\d{1,2})?$`)

	brlPrinter = message.NewPrinter(language.BrazilianPortuguese)
)

// Money is an immutable fixed-precision decimal monetary value. All arithmetic happens in the
// decimal domain; binary floating point never touches an amount. Every operation returns a new
// value. Intermediate results of Multiply/Divide keep full precision; Percentage and Round
// produce currency-precision values using round-half-up, the rounding policy used throughout.
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney returns the zero monetary value.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// NewMoneyFromDecimal wraps an exact decimal as a Money value.
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{amount: d}
}

// NewMoneyFromString parses a plain decimal string ("1234.56").
// It fails with apperrors.ErrInvalidAmount on malformed input.
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidAmount, s)
	}
	return Money{amount: d}, nil
}

// MustMoney parses a plain decimal string and panics on failure. For defaults and tests only.
func MustMoney(s string) Money {
	m, err := NewMoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// NewMoneyFromCents builds a Money value from integer minor units (centavos).
func NewMoneyFromCents(cents int64) Money {
	return Money{amount: decimal.New(cents, -CurrencyPrecision)}
}

// ParseMoneyInput parses user-supplied amounts. It accepts the local format ("1.234,56")
// first and falls back to the plain decimal format ("1234.56"). It fails with
// apperrors.ErrInvalidAmount if neither format parses.
func ParseMoneyInput(input string) (Money, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Money{}, fmt.Errorf("%w: empty input", apperrors.ErrInvalidAmount)
	}
	if localAmountPattern.MatchString(trimmed) && strings.ContainsAny(trimmed, ".,") {
		normalized := strings.ReplaceAll(trimmed, ".", "")
		normalized = strings.ReplaceAll(normalized, ",", ".")
		if d, err := decimal.NewFromString(normalized); err == nil {
			return Money{amount: d}, nil
		}
	}
	return NewMoneyFromString(trimmed)
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Subtract returns m - other.
func (m Money) Subtract(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// Multiply returns m * factor with full decimal precision; no rounding is applied.
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor)}
}

// Divide returns m / divisor. It fails with apperrors.ErrDivisionByZero on a zero divisor.
func (m Money) Divide(divisor decimal.Decimal) (Money, error) {
	if divisor.IsZero() {
		return Money{}, fmt.Errorf("%w: money division", apperrors.ErrDivisionByZero)
	}
	return Money{amount: m.amount.Div(divisor)}, nil
}

// Percentage returns m * rate / 100 rounded to currency precision using round-half-up.
func (m Money) Percentage(rate decimal.Decimal) Money {
	// Shift(-2) divides by 100 exactly; only the final rounding loses precision.
	return Money{amount: m.amount.Mul(rate).Shift(-CurrencyPrecision).Round(CurrencyPrecision)}
}

// Split divides m into n parts whose sum equals m exactly. The first n-1 parts are
// floor(m/n) at currency precision; the last part absorbs the remainder.
func (m Money) Split(n int) ([]Money, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: split into %d parts", apperrors.ErrValidation, n)
	}
	parts := make([]Money, n)
	if n == 1 {
		parts[0] = m
		return parts, nil
	}
	base := Money{amount: m.amount.Div(decimal.NewFromInt(int64(n))).RoundFloor(CurrencyPrecision)}
	running := ZeroMoney()
	for i := 0; i < n-1; i++ {
		parts[i] = base
		running = running.Add(base)
	}
	parts[n-1] = m.Subtract(running)
	return parts, nil
}

// Round returns m rounded to currency precision (half-up).
func (m Money) Round() Money {
	return Money{amount: m.amount.Round(CurrencyPrecision)}
}

// Cents returns m as integer minor units. Sub-cent precision, if any, is truncated;
// call Round first for values produced by Multiply or Divide.
func (m Money) Cents() int64 {
	return m.amount.Shift(CurrencyPrecision).IntPart()
}

// Decimal exposes the underlying exact decimal, primarily for persistence mapping.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// IsZero reports whether m is exactly zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative reports whether m is below zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// LessThan reports whether m < other.
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// GreaterThan reports whether m > other.
func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// Equal reports whether m and other represent the same value, precision-aware
// ("1.5" equals "1.50").
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Cmp compares m and other: -1 if m < other, 0 if equal, +1 if m > other.
func (m Money) Cmp(other Money) int {
	return m.amount.Cmp(other.amount)
}

// String formats m as a plain decimal string with currency precision ("1234.56").
func (m Money) String() string {
	return m.amount.StringFixed(CurrencyPrecision)
}

// FormatBRL formats m as a localized currency string ("R$ 1.234,56").
func (m Money) FormatBRL() string {
	cents := m.amount.Round(CurrencyPrecision).Shift(CurrencyPrecision).IntPart()
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + "R$ " + brlPrinter.Sprintf("%d", cents/100) + fmt.Sprintf(",%02d", cents%100)
}

// MarshalJSON encodes m as a quoted decimal string so amounts never cross a boundary
// as binary floats.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts a quoted decimal string or a bare JSON number.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := NewMoneyFromString(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
