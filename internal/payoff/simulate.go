package payoff

import (
	"fmt"
	"math"
)

// Simulate amortizes accounts month by month under params until every
// balance is zero or params.MaxMonths is reached.
//
// Parameters are validated before accounts; either failure returns before
// any month is simulated. Reaching the horizon is not an error: the result
// carries the accumulated schedule and a nil PayoffMonth. A run whose
// balances grow past float64 range fails with an *InvalidAccountError
// naming the largest account, so no result ever holds NaN or Inf.
func Simulate(accounts []DebtAccount, params Params) (*Result, error) {
	if err := ValidateParams(params); err != nil {
		return nil, err
	}
	if err := ValidateAccounts(accounts); err != nil {
		return nil, err
	}

	work := make([]DebtAccount, len(accounts))
	copy(work, accounts)

	res := &Result{Schedule: []MonthSnapshot{}}
	if remaining(work) == 0 {
		paid := 0
		res.PayoffMonth = &paid
		return res, nil
	}

	for month := 1; month <= params.MaxMonths; month++ {
		snap := step(work, params, month)
		if !finite(snap.TotalRemaining, snap.InterestAccrued, res.TotalInterestPaid+snap.InterestAccrued, res.TotalPaid+snap.TotalPaid) {
			return nil, &InvalidAccountError{
				AccountID: largest(work),
				Field:     "balance",
				Reason:    fmt.Sprintf("overflows by month %d", month),
			}
		}
		res.Schedule = append(res.Schedule, snap)
		res.TotalInterestPaid += snap.InterestAccrued
		res.TotalPaid += snap.TotalPaid

		if snap.TotalRemaining == 0 {
			paid := month
			res.PayoffMonth = &paid
			break
		}
	}
	return res, nil
}

// step advances work by one billing month in place.
func step(work []DebtAccount, params Params, month int) MonthSnapshot {
	snap := MonthSnapshot{
		Month:               month,
		PerAccountRemaining: make(map[string]float64, len(work)),
	}

	// Interest accrues on the pre-payment balance.
	for i := range work {
		a := &work[i]
		if !a.Open() {
			continue
		}
		interest := a.Balance * a.AnnualInterestRate / 12
		a.Balance += interest
		snap.InterestAccrued += interest
	}

	for i := range work {
		a := &work[i]
		if !a.Open() {
			continue
		}
		pay := math.Min(a.MinimumPayment, a.Balance)
		a.Balance = clamp(a.Balance - pay)
		snap.TotalPaid += pay
	}

	if params.ExtraMonthlyPayment > 0 {
		if order := rank(work, params.Strategy); len(order) > 0 {
			t := &work[order[0]]
			extra := math.Min(params.ExtraMonthlyPayment, t.Balance)
			t.Balance = clamp(t.Balance - extra)
			snap.TotalPaid += extra
		}
	}

	for _, a := range work {
		snap.PerAccountRemaining[a.ID] = a.Balance
		snap.TotalRemaining += a.Balance
	}
	return snap
}

// clamp zeroes float residue left by a payment.
func clamp(balance float64) float64 {
	if balance < Epsilon {
		return 0
	}
	return balance
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// largest returns the ID of the account with the biggest balance.
func largest(accounts []DebtAccount) string {
	var id string
	top := -1.0
	for _, a := range accounts {
		if a.Balance > top {
			id, top = a.ID, a.Balance
		}
	}
	return id
}

func remaining(accounts []DebtAccount) float64 {
	var total float64
	for _, a := range accounts {
		total += a.Balance
	}
	return total
}
