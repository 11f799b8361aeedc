package api

import "github.com/shopspring/decimal"

// Debt is a stored liability as the owner sees it.
type Debt struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Kind               string          `json:"kind"`
	Balance            decimal.Decimal `json:"balance"`
	AnnualInterestRate decimal.Decimal `json:"annual_interest_rate"`
	MinimumPayment     decimal.Decimal `json:"minimum_payment"`
	Active             bool            `json:"active"`
	CreatedAt          int64           `json:"created_at"`
	UpdatedAt          int64           `json:"updated_at"`
}

type CreateDebtRequest struct {
	Name               string          `json:"name"`
	Kind               string          `json:"kind,omitempty"`
	Balance            decimal.Decimal `json:"balance"`
	AnnualInterestRate decimal.Decimal `json:"annual_interest_rate"`
	MinimumPayment     decimal.Decimal `json:"minimum_payment"`

	// Active defaults to true when omitted.
	Active *bool `json:"active,omitempty"`
}

type CreateDebtResponse struct {
	Debt *Debt `json:"debt"`
}

type GetDebtRequest struct {
	DebtID string `json:"debt_id"`
}

type GetDebtResponse struct {
	Debt *Debt `json:"debt"`
}

type ListDebtsRequest struct {
	ActiveOnly bool `json:"active_only,omitempty"`
}

type ListDebtsResponse struct {
	Debts []*Debt `json:"debts"`
}

// UpdateDebtRequest replaces every mutable field of the debt.
type UpdateDebtRequest struct {
	DebtID             string          `json:"debt_id"`
	Name               string          `json:"name"`
	Kind               string          `json:"kind,omitempty"`
	Balance            decimal.Decimal `json:"balance"`
	AnnualInterestRate decimal.Decimal `json:"annual_interest_rate"`
	MinimumPayment     decimal.Decimal `json:"minimum_payment"`
	Active             bool            `json:"active"`
}

type UpdateDebtResponse struct {
	Debt *Debt `json:"debt"`
}

type DeleteDebtRequest struct {
	DebtID string `json:"debt_id"`
}

type DeleteDebtResponse struct{}
