package leave

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ResolveAccount returns the account for (employeeID, year), creating it with
// zero base days and zero carry-over when absent.
//
// Two callers racing on the same key both attempt CreateAccount; the store's
// unique constraint lets exactly one win and the loser re-reads the winner's
// row, so a key never maps to two accounts.
func ResolveAccount(ctx context.Context, accounts AccountStore, employeeID EmployeeID, year int) (YearAccount, error) {
	if employeeID == "" {
		return YearAccount{}, ErrMissingEmployee
	}
	if err := ValidateYear(year); err != nil {
		return YearAccount{}, err
	}

	acc, err := accounts.GetAccount(ctx, employeeID, year)
	if err == nil {
		return acc, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return YearAccount{}, err
	}

	acc = NewYearAccount(employeeID, year, time.Now().UTC())
	if err := accounts.CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, ErrConflict) {
			return accounts.GetAccount(ctx, employeeID, year)
		}
		return YearAccount{}, err
	}
	return acc, nil
}

// NewYearAccount builds an account with zero defaults.
func NewYearAccount(employeeID EmployeeID, year int, now time.Time) YearAccount {
	return YearAccount{
		ID:         AccountID(uuid.NewString()),
		EmployeeID: employeeID,
		Year:       year,
		BaseDays:   decimal.Zero,
		CarryOver:  decimal.Zero,
		CreatedAt:  now,
	}
}
