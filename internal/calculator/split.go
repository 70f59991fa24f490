package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	ErrNoParticipants     = errors.New("must have at least one participant")
	ErrInvalidAmount      = errors.New("amount must be finite and non-negative")
	ErrDuplicateID        = errors.New("participant listed more than once")
	ErrExactSplitMismatch = errors.New("exact amounts must sum to the expense amount")
)

// EqualSplit divides amount evenly between ids, to the cent.
// Leftover cents go one each to the first ids, so the shares always add up to
// amount rounded to two decimals.
func EqualSplit(amount float64, ids []string) (Shares, error) {
	if len(ids) == 0 {
		return nil, ErrNoParticipants
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return nil, ErrInvalidAmount
	}

	cents := decimal.NewFromFloat(amount).Round(2).Shift(2).IntPart()
	n := int64(len(ids))
	per, remainder := cents/n, cents%n

	seen := make(map[string]struct{}, len(ids))
	shares := make(Shares, 0, len(ids))
	for i, id := range ids {
		if _, exists := seen[id]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
		c := per
		if int64(i) < remainder {
			c++
		}
		shares = append(shares, Share{ParticipantID: id, Amount: decimal.New(c, -2).InexactFloat64()})
	}
	return shares, nil
}

// ExactSplit accepts explicit per-participant amounts, requiring them to add
// up to amount within a cent.
func ExactSplit(amount float64, shares Shares) (Shares, error) {
	if len(shares) == 0 {
		return nil, ErrNoParticipants
	}
	if reason := checkAmount(amount); reason != "" {
		return nil, ErrInvalidAmount
	}
	if err := validateShares("", "splitDetails", shares); err != nil {
		return nil, err
	}
	if sum := shares.Sum(); abs(sum-amount) >= settledEpsilon {
		return nil, fmt.Errorf("%w: got %.2f, want %.2f", ErrExactSplitMismatch, sum, amount)
	}

	return shares.Clone(), nil
}
