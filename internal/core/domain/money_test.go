package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imovelbooks/imovel_books_app/internal/apperrors"
	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
)

func TestParseMoneyInput_Formats(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain decimal", "1234.56", "1234.56"},
		{"plain integer", "1500", "1500.00"},
		{"local grouped", "1.234,56", "1234.56"},
		{"local grouped millions", "1.234.567,89", "1234567.89"},
		{"local comma only", "1234,56", "1234.56"},
		{"local single decimal digit", "1.234,5", "1234.50"},
		{"negative local", "-1.234,56", "-1234.56"},
		{"leading whitespace", "  99.90", "99.90"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := domain.ParseMoneyInput(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, m.String())
		})
	}
}

func TestParseMoneyInput_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "12,34,56", "R$ 100"} {
		_, err := domain.ParseMoneyInput(input)
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount, "input %q", input)
	}
}

func TestMoney_Percentage(t *testing.T) {
	testCases := []struct {
		name     string
		amount   string
		rate     string
		expected string
	}{
		{"pis rate", "10000.00", "1.65", "165.00"},
		{"cofins rate", "10000.00", "7.6", "760.00"},
		{"rounds half up", "10.00", "33.33", "3.33"},
		{"half cent rounds up", "10.00", "0.25", "0.03"},
		{"zero rate", "500.00", "0", "0.00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := domain.MustMoney(tc.amount)
			result := m.Percentage(decimal.RequireFromString(tc.rate))
			assert.Equal(t, tc.expected, result.String())
		})
	}
}

func TestMoney_PercentageDeterministic(t *testing.T) {
	m := domain.MustMoney("10.00")
	rate := decimal.RequireFromString("33.33")
	first := m.Percentage(rate)
	for i := 0; i < 100; i++ {
		assert.True(t, first.Equal(m.Percentage(rate)))
	}
}

func TestMoney_SplitSumsExactly(t *testing.T) {
	totals := []string{"100.00", "9000.00", "0.01", "7.77", "123456.89"}
	for _, totalStr := range totals {
		total := domain.MustMoney(totalStr)
		for n := 1; n <= 20; n++ {
			parts, err := total.Split(n)
			require.NoError(t, err)
			require.Len(t, parts, n)

			sum := domain.ZeroMoney()
			for _, p := range parts {
				sum = sum.Add(p)
			}
			assert.True(t, sum.Equal(total), "split of %s into %d parts sums to %s", totalStr, n, sum)
		}
	}
}

func TestMoney_SplitLastAbsorbsRemainder(t *testing.T) {
	parts, err := domain.MustMoney("100.00").Split(3)
	require.NoError(t, err)
	assert.Equal(t, "33.33", parts[0].String())
	assert.Equal(t, "33.33", parts[1].String())
	assert.Equal(t, "33.34", parts[2].String())
}

func TestMoney_SplitInvalidCount(t *testing.T) {
	_, err := domain.MustMoney("10.00").Split(0)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = domain.MustMoney("10.00").Split(-2)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestMoney_DivideByZero(t *testing.T) {
	_, err := domain.MustMoney("10.00").Divide(decimal.Zero)
	assert.ErrorIs(t, err, apperrors.ErrDivisionByZero)
}

func TestMoney_Cents(t *testing.T) {
	assert.Equal(t, int64(123456), domain.MustMoney("1234.56").Cents())
	assert.Equal(t, int64(-50), domain.MustMoney("-0.50").Cents())
	assert.Equal(t, "1234.56", domain.NewMoneyFromCents(123456).String())
}

func TestMoney_Comparisons(t *testing.T) {
	a := domain.MustMoney("1.5")
	b := domain.MustMoney("1.50")
	c := domain.MustMoney("2.00")

	assert.True(t, a.Equal(b))
	assert.Equal(t, 0, a.Cmp(b))
	assert.True(t, a.LessThan(c))
	assert.True(t, c.GreaterThan(a))
	assert.False(t, a.IsNegative())
	assert.True(t, domain.MustMoney("-0.01").IsNegative())
	assert.True(t, domain.ZeroMoney().IsZero())
}

func TestMoney_FormatBRL(t *testing.T) {
	testCases := []struct {
		amount   string
		expected string
	}{
		{"1234.56", "R$ 1.234,56"},
		{"1000000.00", "R$ 1.000.000,00"},
		{"0.05", "R$ 0,05"},
		{"-1234.56", "-R$ 1.234,56"},
		{"99.90", "R$ 99,90"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, domain.MustMoney(tc.amount).FormatBRL())
	}
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	original := domain.MustMoney("1234.56")
	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Equal(t, `"1234.56"`, string(data))

	var decoded domain.Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, original.Equal(decoded))

	// Bare numbers are accepted too.
	require.NoError(t, json.Unmarshal([]byte(`99.9`), &decoded))
	assert.True(t, domain.MustMoney("99.9").Equal(decoded))
}
