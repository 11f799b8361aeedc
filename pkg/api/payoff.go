package api

import "github.com/shopspring/decimal"

// Account is one debt supplied inline to a simulation.
type Account struct {
	ID                 string          `json:"id"`
	Balance            decimal.Decimal `json:"balance"`
	AnnualInterestRate decimal.Decimal `json:"annual_interest_rate"`
	MinimumPayment     decimal.Decimal `json:"minimum_payment"`
}

type SimulateRequest struct {
	Accounts []Account `json:"accounts"`

	// Strategy is "avalanche" (default) or "snowball".
	Strategy            string          `json:"strategy,omitempty"`
	ExtraMonthlyPayment decimal.Decimal `json:"extra_monthly_payment"`

	// MaxMonths defaults to the server limit and is capped at it.
	MaxMonths int `json:"max_months,omitempty"`

	// ChartPoints > 0 thins the returned schedule to at most that many rows.
	// Totals always come from the full run.
	ChartPoints int `json:"chart_points,omitempty"`
}

type MonthSnapshot struct {
	Month               int                        `json:"month"`
	PerAccountRemaining map[string]decimal.Decimal `json:"per_account_remaining"`
	TotalRemaining      decimal.Decimal            `json:"total_remaining"`
	InterestAccrued     decimal.Decimal            `json:"interest_accrued"`
	TotalPaid           decimal.Decimal            `json:"total_paid"`
}

type SimulateResponse struct {
	Strategy string          `json:"strategy"`
	Schedule []MonthSnapshot `json:"schedule"`

	// PayoffMonth is null when the horizon was reached with debt remaining.
	PayoffMonth       *int            `json:"payoff_month"`
	Months            int             `json:"months"`
	TotalInterestPaid decimal.Decimal `json:"total_interest_paid"`
	TotalPaid         decimal.Decimal `json:"total_paid"`
}

// SimulateSavedRequest runs the caller's active stored debts.
type SimulateSavedRequest struct {
	Strategy            string          `json:"strategy,omitempty"`
	ExtraMonthlyPayment decimal.Decimal `json:"extra_monthly_payment"`
	MaxMonths           int             `json:"max_months,omitempty"`
	ChartPoints         int             `json:"chart_points,omitempty"`
}

type SimulateSavedResponse struct {
	SimulateResponse

	// DebtNames labels the schedule's account IDs, which are debt IDs.
	DebtNames map[string]string `json:"debt_names"`
}

// CompareRequest runs both strategies on the same input. With UseSaved the
// caller's active stored debts are used and Accounts must be empty.
type CompareRequest struct {
	Accounts            []Account       `json:"accounts,omitempty"`
	UseSaved            bool            `json:"use_saved,omitempty"`
	ExtraMonthlyPayment decimal.Decimal `json:"extra_monthly_payment"`
	MaxMonths           int             `json:"max_months,omitempty"`
	ChartPoints         int             `json:"chart_points,omitempty"`
}

type CompareResponse struct {
	Avalanche   *SimulateResponse `json:"avalanche"`
	Snowball    *SimulateResponse `json:"snowball"`
	Recommended string            `json:"recommended"`

	// InterestSaved is how much less interest avalanche pays, never negative.
	InterestSaved decimal.Decimal `json:"interest_saved"`

	// MonthsSaved is snowball's payoff month minus avalanche's, null unless both pay off.
	MonthsSaved *int `json:"months_saved"`

	// DebtNames is set when the comparison ran on stored debts.
	DebtNames map[string]string `json:"debt_names,omitempty"`
}
