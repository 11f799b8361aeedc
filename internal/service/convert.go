package service

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/saveplus/payoff/internal/models"
	"github.com/saveplus/payoff/internal/money"
	"github.com/saveplus/payoff/internal/payoff"
	"github.com/saveplus/payoff/internal/storage"
	"github.com/saveplus/payoff/pkg/api"
)

func toAccounts(in []api.Account) []payoff.DebtAccount {
	out := make([]payoff.DebtAccount, len(in))
	for i, a := range in {
		out[i] = payoff.DebtAccount{
			ID:                 a.ID,
			Balance:            money.Float(a.Balance),
			AnnualInterestRate: money.Float(a.AnnualInterestRate),
			MinimumPayment:     money.Float(a.MinimumPayment),
		}
	}
	return out
}

func toSnapshot(s payoff.MonthSnapshot) api.MonthSnapshot {
	remaining := make(map[string]decimal.Decimal, len(s.PerAccountRemaining))
	for id, bal := range s.PerAccountRemaining {
		remaining[id] = money.Round(bal)
	}
	return api.MonthSnapshot{
		Month:               s.Month,
		PerAccountRemaining: remaining,
		TotalRemaining:      money.Round(s.TotalRemaining),
		InterestAccrued:     money.Round(s.InterestAccrued),
		TotalPaid:           money.Round(s.TotalPaid),
	}
}

// toSimulateResponse rounds a result for the wire. chartPoints > 0 thins the
// schedule; the totals are taken from the full result either way.
func toSimulateResponse(strategy payoff.Strategy, res *payoff.Result, chartPoints int) (*api.SimulateResponse, error) {
	if err := checkFinite(res); err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	schedule := payoff.Downsample(res.Schedule, chartPoints)
	out := &api.SimulateResponse{
		Strategy:          strategy.String(),
		Schedule:          make([]api.MonthSnapshot, len(schedule)),
		Months:            res.Months(),
		TotalInterestPaid: money.Round(res.TotalInterestPaid),
		TotalPaid:         money.Round(res.TotalPaid),
	}
	for i, s := range schedule {
		out.Schedule[i] = toSnapshot(s)
	}
	if res.PayoffMonth != nil {
		month := *res.PayoffMonth
		out.PayoffMonth = &month
	}
	return out, nil
}

// checkFinite guards money.Round, which panics on NaN and Inf.
func checkFinite(res *payoff.Result) error {
	if err := money.Finite(res.TotalInterestPaid, res.TotalPaid); err != nil {
		return fmt.Errorf("result totals: %w", err)
	}
	for _, s := range res.Schedule {
		if err := money.Finite(s.TotalRemaining, s.InterestAccrued, s.TotalPaid); err != nil {
			return fmt.Errorf("month %d: %w", s.Month, err)
		}
		for id, bal := range s.PerAccountRemaining {
			if err := money.Finite(bal); err != nil {
				return fmt.Errorf("month %d account %q: %w", s.Month, id, err)
			}
		}
	}
	return nil
}

func toComparisonResponse(c *payoff.Comparison, chartPoints int) (*api.CompareResponse, error) {
	avalanche, err := toSimulateResponse(payoff.Avalanche, c.Avalanche, chartPoints)
	if err != nil {
		return nil, err
	}
	snowball, err := toSimulateResponse(payoff.Snowball, c.Snowball, chartPoints)
	if err != nil {
		return nil, err
	}
	if err := money.Finite(c.InterestSaved); err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	out := &api.CompareResponse{
		Avalanche:     avalanche,
		Snowball:      snowball,
		Recommended:   c.Recommended.String(),
		InterestSaved: money.Round(c.InterestSaved),
	}
	if c.MonthsSaved != nil {
		saved := *c.MonthsSaved
		out.MonthsSaved = &saved
	}
	return out, nil
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIDebt(d *models.Debt) *api.Debt {
	return &api.Debt{
		ID:                 d.ID,
		Name:               d.Name,
		Kind:               d.Kind,
		Balance:            money.Round(d.Balance),
		AnnualInterestRate: money.Rate(d.AnnualInterestRate),
		MinimumPayment:     money.Round(d.MinimumPayment),
		Active:             d.Active,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

// debtNames maps debt IDs to their labels for saved-debt responses.
func debtNames(debts []*models.Debt) map[string]string {
	names := make(map[string]string, len(debts))
	for _, d := range debts {
		if d.Active {
			names[d.ID] = d.Name
		}
	}
	return names
}

// engineError maps payoff validation failures to InvalidArgument.
func engineError(err error) *connect.Error {
	var accountErr *payoff.InvalidAccountError
	var paramErr *payoff.InvalidParameterError
	if errors.As(err, &accountErr) || errors.As(err, &paramErr) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

// storeError maps storage failures to Connect codes.
func storeError(err error) *connect.Error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrDuplicate):
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		return connect.NewError(connect.CodeInternal, fmt.Errorf("storage: %w", err))
	}
}

func invalidArgument(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}
