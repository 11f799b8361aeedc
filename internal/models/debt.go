package models

import "github.com/saveplus/payoff/internal/payoff"

// Debt kinds the app knows how to label. Any other string is stored as-is.
const (
	KindCreditCard   = "credit_card"
	KindStudentLoan  = "student_loan"
	KindAutoLoan     = "auto_loan"
	KindMortgage     = "mortgage"
	KindPersonalLoan = "personal_loan"
	KindOther        = "other"
)

// Debt is a liability a user tracks in the app.
type Debt struct {
	// ID is the unique identifier for the debt (UUID format).
	ID string

	// UserID is the owner. Only the owner can read or change the debt.
	UserID string

	// Name is the user's label, e.g. "Visa" or "Car loan".
	Name string

	// Kind is one of the Kind* constants, defaulting to KindOther.
	Kind string

	// Balance is the principal currently owed.
	Balance float64

	// AnnualInterestRate is a fraction (0.1999 for 19.99% APR).
	AnnualInterestRate float64

	// MinimumPayment is the fixed monthly minimum.
	MinimumPayment float64

	// Active debts take part in payoff plans. Closed or archived debts are kept for history.
	Active bool

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// Account converts the debt into simulator input, keyed by the debt ID.
func (d *Debt) Account() payoff.DebtAccount {
	return payoff.DebtAccount{
		ID:                 d.ID,
		Balance:            d.Balance,
		AnnualInterestRate: d.AnnualInterestRate,
		MinimumPayment:     d.MinimumPayment,
	}
}

// Accounts converts the active debts into simulator input.
func Accounts(debts []*Debt) []payoff.DebtAccount {
	accounts := make([]payoff.DebtAccount, 0, len(debts))
	for _, d := range debts {
		if d.Active {
			accounts = append(accounts, d.Account())
		}
	}
	return accounts
}
