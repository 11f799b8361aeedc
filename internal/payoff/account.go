// Package payoff projects month-by-month debt payoff schedules.
//
// A simulation takes a set of debt accounts and a strategy (avalanche or
// snowball) and amortizes every account until all balances reach zero or a
// month horizon is hit. Each month interest accrues first, then every open
// account receives its minimum payment, then the extra monthly payment goes
// to the single account the strategy ranks first.
//
// The package is pure: no I/O, no shared state. Simulate works on its own
// copy of the accounts, so identical inputs always produce identical results
// and callers may run it concurrently or memoize it.
package payoff

const (
	// DefaultMaxMonths is the horizon used when the caller has no better bound (50 years).
	DefaultMaxMonths = 600

	// Epsilon is the tolerance under which a remaining balance counts as paid off.
	Epsilon = 1e-9

	// MaxAmount caps balances, minimums and the extra payment.
	MaxAmount = 1e12

	// MaxAnnualRate caps the annual interest rate (1000% APR).
	MaxAnnualRate = 10.0
)

// DebtAccount is one interest-bearing liability.
type DebtAccount struct {
	// ID identifies the account within a single run.
	ID string `json:"id"`

	// Balance is the principal currently owed. Never negative.
	Balance float64 `json:"balance"`

	// AnnualInterestRate is a fraction, e.g. 0.1999 for 19.99% APR.
	AnnualInterestRate float64 `json:"annual_interest_rate"`

	// MinimumPayment is the fixed amount due every month.
	MinimumPayment float64 `json:"minimum_payment"`
}

// Open reports whether the account still carries a balance.
func (a DebtAccount) Open() bool {
	return a.Balance > 0
}

// Params configures one simulation run.
type Params struct {
	Strategy Strategy `json:"strategy"`

	// ExtraMonthlyPayment is paid on top of all minimums, to one target account per month.
	ExtraMonthlyPayment float64 `json:"extra_monthly_payment"`

	// MaxMonths bounds the run for inputs that never converge.
	MaxMonths int `json:"max_months"`
}

// DefaultParams returns avalanche with no extra payment and the default horizon.
func DefaultParams() Params {
	return Params{
		Strategy:  Avalanche,
		MaxMonths: DefaultMaxMonths,
	}
}

// MonthSnapshot is one row of the projection.
type MonthSnapshot struct {
	// Month is 1-based.
	Month int `json:"month"`

	// PerAccountRemaining maps account ID to its balance at month end.
	PerAccountRemaining map[string]float64 `json:"per_account_remaining"`

	TotalRemaining  float64 `json:"total_remaining"`
	InterestAccrued float64 `json:"interest_accrued"`

	// TotalPaid is minimum plus extra payments actually applied this month.
	TotalPaid float64 `json:"total_paid"`
}

// Result is the outcome of Simulate. The caller owns it.
type Result struct {
	Schedule []MonthSnapshot `json:"schedule"`

	// PayoffMonth is the first month whose total remaining is zero, or nil
	// when the horizon was reached first. Zero means nothing was owed.
	PayoffMonth *int `json:"payoff_month"`

	TotalInterestPaid float64 `json:"total_interest_paid"`
	TotalPaid         float64 `json:"total_paid"`
}

// Converged reports whether every account was paid off within the horizon.
func (r *Result) Converged() bool {
	return r.PayoffMonth != nil
}

// Months returns the number of simulated months.
func (r *Result) Months() int {
	return len(r.Schedule)
}
