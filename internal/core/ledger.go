package core

import (
	"fmt"
	"math"
)

// ApplyDelta applies a signed delta to the account balance: positive
// credits, negative debits. Only credit accounts are limit-checked; other
// kinds may go negative when the caller asks for it. A resulting balance
// within Tolerance of zero snaps to exactly zero so rounding dust never
// accumulates.
//
// The account is mutated in place; persisting it is the caller's job.
func (a *Account) ApplyDelta(delta float64) error {
	d := Round(delta)
	next := Add(a.Balance, d)

	if d < 0 && a.Type == AccountCredit && a.CreditLimit != nil {
		limit := Round(*a.CreditLimit)
		if limit > 0 && math.Abs(next)-limit > Tolerance {
			return fmt.Errorf("%w: balance %.2f against limit %.2f", ErrCreditLimitExceeded, next, limit)
		}
	}

	if next >= -Tolerance && next <= Tolerance {
		next = 0
	}
	a.Balance = next
	return nil
}

// RevertDelta applies a delta with no limit check. Reversal paths use it:
// backing out a previously applied transaction must not fail against a
// limit the original application already satisfied.
func (a *Account) RevertDelta(delta float64) {
	next := Add(a.Balance, Round(delta))
	if next >= -Tolerance && next <= Tolerance {
		next = 0
	}
	a.Balance = next
}
