package payoff

import (
	"fmt"
	"sort"
	"strings"
)

// Strategy decides which open account receives the extra monthly payment.
type Strategy string

const (
	Avalanche Strategy = "avalanche" // highest rate first
	Snowball  Strategy = "snowball"  // smallest balance first
)

// Strategies lists every supported strategy.
var Strategies = []Strategy{Avalanche, Snowball}

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	return s == Avalanche || s == Snowball
}

func (s Strategy) String() string {
	return string(s)
}

// ParseStrategy maps user input to a Strategy. Empty input means avalanche.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Avalanche):
		return Avalanche, nil
	case string(Snowball):
		return Snowball, nil
	default:
		return "", &InvalidParameterError{Field: "strategy", Reason: fmt.Sprintf("unknown strategy %q", s)}
	}
}

// Order returns the open accounts (balance > 0) in strategy order. The
// first element is the account that receives the extra payment.
//
// Avalanche sorts by rate descending, then balance descending. Snowball
// sorts by balance ascending, then rate descending. Both fall back to ID
// ascending so the order is total. The input is not modified.
func Order(accounts []DebtAccount, strategy Strategy) []DebtAccount {
	idx := rank(accounts, strategy)
	ordered := make([]DebtAccount, len(idx))
	for i, j := range idx {
		ordered[i] = accounts[j]
	}
	return ordered
}

// rank returns indexes into accounts of the open accounts, in strategy order.
func rank(accounts []DebtAccount, strategy Strategy) []int {
	idx := make([]int, 0, len(accounts))
	for i, a := range accounts {
		if a.Open() {
			idx = append(idx, i)
		}
	}

	less := avalancheLess
	if strategy == Snowball {
		less = snowballLess
	}
	sort.Slice(idx, func(i, j int) bool {
		return less(accounts[idx[i]], accounts[idx[j]])
	})
	return idx
}

func avalancheLess(a, b DebtAccount) bool {
	if a.AnnualInterestRate != b.AnnualInterestRate {
		return a.AnnualInterestRate > b.AnnualInterestRate
	}
	if a.Balance != b.Balance {
		return a.Balance > b.Balance
	}
	return a.ID < b.ID
}

func snowballLess(a, b DebtAccount) bool {
	if a.Balance != b.Balance {
		return a.Balance < b.Balance
	}
	if a.AnnualInterestRate != b.AnnualInterestRate {
		return a.AnnualInterestRate > b.AnnualInterestRate
	}
	return a.ID < b.ID
}
