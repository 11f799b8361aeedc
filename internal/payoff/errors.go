package payoff

import (
	"fmt"
	"math"
)

// InvalidAccountError reports an account with an out-of-domain field.
type InvalidAccountError struct {
	AccountID string
	Field     string
	Reason    string
}

func (e *InvalidAccountError) Error() string {
	return fmt.Sprintf("invalid account %q: %s %s", e.AccountID, e.Field, e.Reason)
}

// InvalidParameterError reports a malformed simulation parameter.
type InvalidParameterError struct {
	Field  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}

// ValidateParams checks the simulation parameters.
func ValidateParams(p Params) error {
	if !p.Strategy.Valid() {
		return &InvalidParameterError{Field: "strategy", Reason: fmt.Sprintf("unknown strategy %q", p.Strategy)}
	}
	if math.IsNaN(p.ExtraMonthlyPayment) || math.IsInf(p.ExtraMonthlyPayment, 0) {
		return &InvalidParameterError{Field: "extra_monthly_payment", Reason: "must be finite"}
	}
	if p.ExtraMonthlyPayment < 0 {
		return &InvalidParameterError{Field: "extra_monthly_payment", Reason: "must not be negative"}
	}
	if p.ExtraMonthlyPayment > MaxAmount {
		return &InvalidParameterError{Field: "extra_monthly_payment", Reason: fmt.Sprintf("must not exceed %g", MaxAmount)}
	}
	if p.MaxMonths <= 0 {
		return &InvalidParameterError{Field: "max_months", Reason: "must be positive"}
	}
	return nil
}

// ValidateAccounts checks every account. IDs must be non-empty and unique,
// and amounts must lie in [0, MaxAmount] (rates in [0, MaxAnnualRate]).
func ValidateAccounts(accounts []DebtAccount) error {
	seen := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		if a.ID == "" {
			return &InvalidAccountError{Field: "id", Reason: "must not be empty"}
		}
		if seen[a.ID] {
			return &InvalidAccountError{AccountID: a.ID, Field: "id", Reason: "is duplicated"}
		}
		seen[a.ID] = true

		for _, f := range []struct {
			name  string
			value float64
			max   float64
		}{
			{"balance", a.Balance, MaxAmount},
			{"annual_interest_rate", a.AnnualInterestRate, MaxAnnualRate},
			{"minimum_payment", a.MinimumPayment, MaxAmount},
		} {
			if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
				return &InvalidAccountError{AccountID: a.ID, Field: f.name, Reason: "must be finite"}
			}
			if f.value < 0 {
				return &InvalidAccountError{AccountID: a.ID, Field: f.name, Reason: "must not be negative"}
			}
			if f.value > f.max {
				return &InvalidAccountError{AccountID: a.ID, Field: f.name, Reason: fmt.Sprintf("must not exceed %g", f.max)}
			}
		}
	}
	return nil
}
