package goal

import (
	"fmt"

	"github.com/finwiselabs/finwise-lambda/internal/account"
	"github.com/google/uuid"
)

// ReservationError reports an attempt to reserve more of an account's
// available balance than the other goals leave free. It carries the free
// amount so handlers can surface it to the user.
type ReservationError struct {
	Requested float64
	Available float64
}

func (e *ReservationError) Error() string {
	return fmt.Sprintf("cannot exceed available balance: $%.2f", e.Available)
}

// ReservedForAccount sums the linked amounts of every goal that reserves
// part of the given account, skipping excludeGoalID when it is non-nil.
// A goal being edited passes its own id so its previous reservation does
// not count against itself.
func ReservedForAccount(accountID uuid.UUID, goals []Goal, excludeGoalID uuid.UUID) float64 {
	var reserved float64
	for i := range goals {
		g := &goals[i]
		if g.LinkedAccountID == nil || *g.LinkedAccountID != accountID {
			continue
		}
		if excludeGoalID != uuid.Nil && g.ID == excludeGoalID {
			continue
		}
		if g.LinkedAmount != nil {
			reserved += *g.LinkedAmount
		}
	}
	return reserved
}

// AvailableForAccount computes how much of acc's available balance is not
// yet reserved by other goals. A nil account means the reference could not
// be resolved; the result is nil and callers must treat it as "no
// constraint applies", not zero. Pure function of its inputs.
func AvailableForAccount(acc *account.Account, goals []Goal, excludeGoalID uuid.UUID) *float64 {
	if acc == nil {
		return nil
	}
	available := acc.AvailableBalance() - ReservedForAccount(acc.ID, goals, excludeGoalID)
	return &available
}

// ValidateReservation rejects amounts strictly greater than the free
// window; reserving exactly the remaining balance is allowed. A nil
// available means no constraint and always passes.
func ValidateReservation(amount float64, available *float64) error {
	if available == nil {
		return nil
	}
	if amount > *available {
		return &ReservationError{Requested: amount, Available: *available}
	}
	return nil
}

// TotalProgress is the manual contribution plus the linked reservation.
func TotalProgress(g *Goal) float64 {
	total := g.CurrentAmount
	if g.LinkedAmount != nil {
		total += *g.LinkedAmount
	}
	return total
}

// ProgressPercentage is total progress over target, as a percentage.
// Zero-target goals report 0 rather than dividing by zero.
func ProgressPercentage(g *Goal) float64 {
	if g.TargetAmount == 0 {
		return 0
	}
	return 100 * TotalProgress(g) / g.TargetAmount
}
