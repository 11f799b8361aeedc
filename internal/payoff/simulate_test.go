package payoff

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func params(strategy Strategy, extra float64) Params {
	return Params{Strategy: strategy, ExtraMonthlyPayment: extra, MaxMonths: DefaultMaxMonths}
}

func portfolio() []DebtAccount {
	return []DebtAccount{
		{ID: "card", Balance: 3000, AnnualInterestRate: 0.24, MinimumPayment: 90},
		{ID: "car", Balance: 1500, AnnualInterestRate: 0.06, MinimumPayment: 50},
		{ID: "loan", Balance: 8000, AnnualInterestRate: 0.12, MinimumPayment: 150},
	}
}

func TestSimulate_NoAccounts(t *testing.T) {
	for _, s := range Strategies {
		t.Run(string(s), func(t *testing.T) {
			res, err := Simulate(nil, params(s, 250))
			require.NoError(t, err)
			require.NotNil(t, res.PayoffMonth)
			assert.Equal(t, 0, *res.PayoffMonth)
			assert.Empty(t, res.Schedule)
			assert.Zero(t, res.TotalInterestPaid)
			assert.Zero(t, res.TotalPaid)
		})
	}
}

func TestSimulate_AllAccountsAlreadyPaid(t *testing.T) {
	res, err := Simulate([]DebtAccount{{ID: "a", AnnualInterestRate: 0.2, MinimumPayment: 25}}, params(Avalanche, 0))
	require.NoError(t, err)
	require.NotNil(t, res.PayoffMonth)
	assert.Equal(t, 0, *res.PayoffMonth)
	assert.Empty(t, res.Schedule)
}

func TestSimulate_SingleAccountAmortization(t *testing.T) {
	accounts := []DebtAccount{{ID: "a", Balance: 1200, AnnualInterestRate: 0.12, MinimumPayment: 200}}

	res, err := Simulate(accounts, params(Avalanche, 0))
	require.NoError(t, err)

	// Month 1: 1200 + 12 interest - 200 = 1012.
	first := res.Schedule[0]
	assert.Equal(t, 1, first.Month)
	assert.InDelta(t, 12.0, first.InterestAccrued, 1e-9)
	assert.InDelta(t, 200.0, first.TotalPaid, 1e-9)
	assert.InDelta(t, 1012.0, first.PerAccountRemaining["a"], 1e-9)
	assert.InDelta(t, 1012.0, first.TotalRemaining, 1e-9)

	assert.InDelta(t, 822.12, res.Schedule[1].TotalRemaining, 1e-9)

	// Month 7 clears the last 43.42 plus its interest.
	require.True(t, res.Converged())
	assert.Equal(t, 7, *res.PayoffMonth)
	assert.Len(t, res.Schedule, 7)
	assert.InDelta(t, 43.855380388, res.TotalInterestPaid, 1e-6)
	assert.InDelta(t, 1243.855380388, res.TotalPaid, 1e-6)
	assert.InDelta(t, 43.855380388, res.Schedule[6].TotalPaid, 1e-6)
	assert.Zero(t, res.Schedule[6].TotalRemaining)
}

func TestSimulate_ZeroInterest(t *testing.T) {
	accounts := []DebtAccount{{ID: "a", Balance: 1000, MinimumPayment: 100}}

	res, err := Simulate(accounts, params(Snowball, 150))
	require.NoError(t, err)

	require.True(t, res.Converged())
	assert.Equal(t, 4, *res.PayoffMonth)
	assert.Zero(t, res.TotalInterestPaid)
	assert.InDelta(t, 1000.0, res.TotalPaid, 1e-9)
}

func TestSimulate_DoesNotMutateInput(t *testing.T) {
	accounts := portfolio()
	before := append([]DebtAccount(nil), accounts...)

	_, err := Simulate(accounts, params(Avalanche, 300))
	require.NoError(t, err)
	assert.Equal(t, before, accounts)
}

func TestSimulate_Deterministic(t *testing.T) {
	a, err := Simulate(portfolio(), params(Snowball, 200))
	require.NoError(t, err)
	b, err := Simulate(portfolio(), params(Snowball, 200))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSimulate_MonotonicDecrease(t *testing.T) {
	for _, s := range Strategies {
		t.Run(string(s), func(t *testing.T) {
			res, err := Simulate(portfolio(), params(s, 300))
			require.NoError(t, err)
			require.True(t, res.Converged())

			prev := map[string]float64{"card": 3000, "car": 1500, "loan": 8000}
			for _, snap := range res.Schedule {
				for id, bal := range snap.PerAccountRemaining {
					assert.LessOrEqual(t, bal, prev[id], "month %d account %s grew", snap.Month, id)
					assert.GreaterOrEqual(t, bal, 0.0)
					prev[id] = bal
				}
			}
		})
	}
}

func TestSimulate_Conservation(t *testing.T) {
	const extra = 300.0
	accounts := portfolio()

	res, err := Simulate(accounts, params(Avalanche, extra))
	require.NoError(t, err)

	open := map[string]bool{"card": true, "car": true, "loan": true}
	for _, snap := range res.Schedule {
		var minimums float64
		for _, a := range accounts {
			if open[a.ID] {
				minimums += a.MinimumPayment
			}
		}
		assert.LessOrEqual(t, snap.TotalPaid, minimums+extra+1e-9, "month %d overspent", snap.Month)

		var sum float64
		for id, bal := range snap.PerAccountRemaining {
			sum += bal
			open[id] = bal > 0
		}
		assert.InDelta(t, sum, snap.TotalRemaining, 1e-6)
	}
}

func TestSimulate_TotalsMatchSchedule(t *testing.T) {
	res, err := Simulate(portfolio(), params(Snowball, 125))
	require.NoError(t, err)

	var interest, paid float64
	for _, snap := range res.Schedule {
		interest += snap.InterestAccrued
		paid += snap.TotalPaid
	}
	assert.InDelta(t, interest, res.TotalInterestPaid, 1e-6)
	assert.InDelta(t, paid, res.TotalPaid, 1e-6)

	// Everything owed plus everything accrued was paid.
	assert.InDelta(t, 12500+res.TotalInterestPaid, res.TotalPaid, 1e-6)
}

func TestSimulate_ExtraPaymentTargetsFirstInOrder(t *testing.T) {
	accounts := []DebtAccount{
		{ID: "low-rate-small", Balance: 500, AnnualInterestRate: 0.05, MinimumPayment: 25},
		{ID: "high-rate-large", Balance: 9000, AnnualInterestRate: 0.22, MinimumPayment: 25},
	}

	tests := []struct {
		strategy Strategy
		target   string
		other    string
	}{
		{Avalanche, "high-rate-large", "low-rate-small"},
		{Snowball, "low-rate-small", "high-rate-large"},
	}
	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			p := params(tt.strategy, 100)
			p.MaxMonths = 1
			res, err := Simulate(accounts, p)
			require.NoError(t, err)
			require.Len(t, res.Schedule, 1)

			var startTarget, startOther DebtAccount
			for _, a := range accounts {
				switch a.ID {
				case tt.target:
					startTarget = a
				case tt.other:
					startOther = a
				}
			}
			month := res.Schedule[0].PerAccountRemaining

			wantTarget := startTarget.Balance*(1+startTarget.AnnualInterestRate/12) - 25 - 100
			wantOther := startOther.Balance*(1+startOther.AnnualInterestRate/12) - 25
			assert.InDelta(t, wantTarget, month[tt.target], 1e-9)
			assert.InDelta(t, wantOther, month[tt.other], 1e-9)
		})
	}
}

func TestSimulate_ExtraUnusedOncePaidOff(t *testing.T) {
	accounts := []DebtAccount{{ID: "a", Balance: 50, MinimumPayment: 30}}

	res, err := Simulate(accounts, params(Avalanche, 500))
	require.NoError(t, err)

	require.Len(t, res.Schedule, 1)
	assert.InDelta(t, 50.0, res.TotalPaid, 1e-9)
	assert.Equal(t, 1, *res.PayoffMonth)
}

func TestSimulate_HorizonReached(t *testing.T) {
	accounts := []DebtAccount{{ID: "whale", Balance: 1_000_000, AnnualInterestRate: 0.30, MinimumPayment: 1}}

	res, err := Simulate(accounts, Params{Strategy: Avalanche, MaxMonths: 600})
	require.NoError(t, err)

	assert.Nil(t, res.PayoffMonth)
	assert.False(t, res.Converged())
	assert.Len(t, res.Schedule, 600)
	assert.Equal(t, 600, res.Schedule[599].Month)
	// Negative amortization: the balance grows.
	assert.Greater(t, res.Schedule[599].TotalRemaining, 1_000_000.0)
}

func TestSimulate_ShortHorizon(t *testing.T) {
	res, err := Simulate(portfolio(), Params{Strategy: Snowball, ExtraMonthlyPayment: 100, MaxMonths: 3})
	require.NoError(t, err)
	assert.Nil(t, res.PayoffMonth)
	assert.Len(t, res.Schedule, 3)
}

func TestSimulate_ClampsFloatResidue(t *testing.T) {
	// 0.1 + 0.2 style residue must not leave a lingering account.
	accounts := []DebtAccount{{ID: "a", Balance: 0.3, MinimumPayment: 0.1}}

	res, err := Simulate(accounts, params(Avalanche, 0.2))
	require.NoError(t, err)
	require.True(t, res.Converged())
	assert.Equal(t, 1, *res.PayoffMonth)
	assert.Zero(t, res.Schedule[0].PerAccountRemaining["a"])
}

func TestSimulate_Validation(t *testing.T) {
	valid := []DebtAccount{{ID: "a", Balance: 100, AnnualInterestRate: 0.1, MinimumPayment: 10}}

	tests := []struct {
		name      string
		accounts  []DebtAccount
		params    Params
		wantField string
		account   bool
	}{
		{
			name:      "negative balance",
			accounts:  []DebtAccount{{ID: "a", Balance: -1, MinimumPayment: 10}},
			params:    params(Avalanche, 0),
			wantField: "balance",
			account:   true,
		},
		{
			name:      "negative rate",
			accounts:  []DebtAccount{{ID: "a", Balance: 1, AnnualInterestRate: -0.01}},
			params:    params(Avalanche, 0),
			wantField: "annual_interest_rate",
			account:   true,
		},
		{
			name:      "negative minimum",
			accounts:  []DebtAccount{{ID: "a", Balance: 1, MinimumPayment: -5}},
			params:    params(Avalanche, 0),
			wantField: "minimum_payment",
			account:   true,
		},
		{
			name:      "NaN balance",
			accounts:  []DebtAccount{{ID: "a", Balance: math.NaN()}},
			params:    params(Avalanche, 0),
			wantField: "balance",
			account:   true,
		},
		{
			name:      "balance above cap",
			accounts:  []DebtAccount{{ID: "a", Balance: 1e308, AnnualInterestRate: 0.1}},
			params:    params(Avalanche, 0),
			wantField: "balance",
			account:   true,
		},
		{
			name:      "rate above cap",
			accounts:  []DebtAccount{{ID: "a", Balance: 1000, AnnualInterestRate: 1e300, MinimumPayment: 1}},
			params:    params(Avalanche, 0),
			wantField: "annual_interest_rate",
			account:   true,
		},
		{
			name:      "minimum above cap",
			accounts:  []DebtAccount{{ID: "a", Balance: 10, MinimumPayment: MaxAmount * 2}},
			params:    params(Avalanche, 0),
			wantField: "minimum_payment",
			account:   true,
		},
		{
			name:      "empty id",
			accounts:  []DebtAccount{{Balance: 10}},
			params:    params(Avalanche, 0),
			wantField: "id",
			account:   true,
		},
		{
			name:      "duplicate id",
			accounts:  []DebtAccount{{ID: "a", Balance: 10}, {ID: "a", Balance: 20}},
			params:    params(Avalanche, 0),
			wantField: "id",
			account:   true,
		},
		{
			name:      "negative extra",
			accounts:  valid,
			params:    params(Avalanche, -1),
			wantField: "extra_monthly_payment",
		},
		{
			name:      "extra above cap",
			accounts:  valid,
			params:    params(Avalanche, 1e300),
			wantField: "extra_monthly_payment",
		},
		{
			name:      "zero horizon",
			accounts:  valid,
			params:    Params{Strategy: Avalanche},
			wantField: "max_months",
		},
		{
			name:      "negative horizon",
			accounts:  nil,
			params:    Params{Strategy: Snowball, MaxMonths: -3},
			wantField: "max_months",
		},
		{
			name:      "unknown strategy",
			accounts:  valid,
			params:    Params{Strategy: "hybrid", MaxMonths: 12},
			wantField: "strategy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Simulate(tt.accounts, tt.params)
			require.Error(t, err)
			assert.Nil(t, res)

			if tt.account {
				var accErr *InvalidAccountError
				require.True(t, errors.As(err, &accErr), "expected InvalidAccountError, got %T", err)
				assert.Equal(t, tt.wantField, accErr.Field)
				return
			}
			var paramErr *InvalidParameterError
			require.True(t, errors.As(err, &paramErr), "expected InvalidParameterError, got %T", err)
			assert.Equal(t, tt.wantField, paramErr.Field)
		})
	}
}

func TestSimulate_OverflowIsRejected(t *testing.T) {
	accounts := []DebtAccount{
		{ID: "small", Balance: 10, AnnualInterestRate: 0.1, MinimumPayment: 1},
		{ID: "runaway", Balance: MaxAmount, AnnualInterestRate: MaxAnnualRate},
	}

	res, err := Simulate(accounts, Params{Strategy: Avalanche, MaxMonths: 2000})
	assert.Nil(t, res)
	var accErr *InvalidAccountError
	require.ErrorAs(t, err, &accErr)
	assert.Equal(t, "runaway", accErr.AccountID)
	assert.Equal(t, "balance", accErr.Field)
}

func TestSimulate_CappedInputsStayFinite(t *testing.T) {
	accounts := []DebtAccount{{ID: "a", Balance: MaxAmount, AnnualInterestRate: MaxAnnualRate}}

	res, err := Simulate(accounts, params(Snowball, 0))
	require.NoError(t, err)
	require.Len(t, res.Schedule, DefaultMaxMonths)
	last := res.Schedule[DefaultMaxMonths-1]
	assert.False(t, math.IsInf(last.TotalRemaining, 0))
	assert.False(t, math.IsInf(res.TotalInterestPaid, 0))
}

func TestAvalancheNeverCostsMoreInterest(t *testing.T) {
	for _, extra := range []float64{50, 300, 1000} {
		avalanche, err := Simulate(portfolio(), params(Avalanche, extra))
		require.NoError(t, err)
		snowball, err := Simulate(portfolio(), params(Snowball, extra))
		require.NoError(t, err)

		assert.LessOrEqual(t, avalanche.TotalInterestPaid, snowball.TotalInterestPaid, "extra %v", extra)
	}
}
