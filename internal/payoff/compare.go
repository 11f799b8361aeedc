package payoff

import "math"

// Comparison holds both strategies run against the same accounts.
type Comparison struct {
	Avalanche *Result
	Snowball  *Result

	// Recommended is the strategy with less interest. Ties go to avalanche.
	Recommended Strategy

	// InterestSaved is snowball interest minus avalanche interest, floored at 0.
	InterestSaved float64

	// MonthsSaved is snowball payoff month minus avalanche payoff month.
	// Nil unless both strategies converge.
	MonthsSaved *int
}

// Compare simulates accounts under avalanche and snowball.
func Compare(accounts []DebtAccount, extra float64, maxMonths int) (*Comparison, error) {
	results := make(map[Strategy]*Result, len(Strategies))
	for _, s := range Strategies {
		res, err := Simulate(accounts, Params{Strategy: s, ExtraMonthlyPayment: extra, MaxMonths: maxMonths})
		if err != nil {
			return nil, err
		}
		results[s] = res
	}
	return NewComparison(results[Avalanche], results[Snowball]), nil
}

// NewComparison derives the savings figures from two finished runs.
func NewComparison(avalanche, snowball *Result) *Comparison {
	c := &Comparison{
		Avalanche:     avalanche,
		Snowball:      snowball,
		Recommended:   Avalanche,
		InterestSaved: math.Max(0, snowball.TotalInterestPaid-avalanche.TotalInterestPaid),
	}
	if snowball.TotalInterestPaid < avalanche.TotalInterestPaid {
		c.Recommended = Snowball
	}
	if avalanche.Converged() && snowball.Converged() {
		saved := *snowball.PayoffMonth - *avalanche.PayoffMonth
		c.MonthsSaved = &saved
	}
	return c
}
