// Package distribution splits a monetary total across weighted entities while
// guaranteeing the parts sum to the whole exactly.
package distribution

import (
	"fmt"

	"github.com/imovelbooks/imovel_books_app/internal/apperrors"
	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Weight pairs an entity with its proportional weight.
type Weight struct {
	ID     string
	Weight decimal.Decimal
}

// Share is one entity's computed slice of a total.
type Share struct {
	ID     string
	Amount domain.Money
}

// Proportional splits total across the given weights. Every entity except the last
// receives total*(weight/sum) rounded half-up to currency precision; the last entity
// receives whatever remains, so the shares always sum to total exactly and all rounding
// drift lands on one designated entity. Input order is preserved and significant:
// callers must pass a stable order (this repo sorts by property id).
//
// It fails with apperrors.ErrEmptySelection on an empty weight vector and with
// apperrors.ErrDivisionByZero when the weights sum to zero; callers that want an even
// split over zero weights must call Equal explicitly.
func Proportional(total domain.Money, weights []Weight) ([]Share, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: proportional distribution requires at least one weight", apperrors.ErrEmptySelection)
	}

	totalWeight := decimal.Zero
	for _, w := range weights {
		totalWeight = totalWeight.Add(w.Weight)
	}
	if totalWeight.IsZero() {
		return nil, fmt.Errorf("%w: distribution weights sum to zero", apperrors.ErrDivisionByZero)
	}

	shares := make([]Share, len(weights))
	allocated := domain.ZeroMoney()
	for i, w := range weights {
		if i == len(weights)-1 {
			shares[i] = Share{ID: w.ID, Amount: total.Subtract(allocated)}
			break
		}
		ratio := w.Weight.Div(totalWeight)
		amount := total.Multiply(ratio).Round()
		shares[i] = Share{ID: w.ID, Amount: amount}
		allocated = allocated.Add(amount)
	}
	return shares, nil
}

// Equal splits total evenly across ids using Money.Split semantics: all but the last
// share are floor(total/n) at currency precision and the last absorbs the remainder.
func Equal(total domain.Money, ids []string) ([]Share, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: equal distribution requires at least one target", apperrors.ErrEmptySelection)
	}

	parts, err := total.Split(len(ids))
	if err != nil {
		return nil, err
	}
	shares := make([]Share, len(ids))
	for i, id := range ids {
		shares[i] = Share{ID: id, Amount: parts[i]}
	}
	return shares, nil
}

// Total sums the amounts of a share slice.
func Total(shares []Share) domain.Money {
	sum := domain.ZeroMoney()
	for _, s := range shares {
		sum = sum.Add(s.Amount)
	}
	return sum
}
