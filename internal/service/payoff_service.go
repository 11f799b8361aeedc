package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/saveplus/payoff/internal/auth"
	"github.com/saveplus/payoff/internal/cache"
	"github.com/saveplus/payoff/internal/middleware"
	"github.com/saveplus/payoff/internal/models"
	"github.com/saveplus/payoff/internal/money"
	"github.com/saveplus/payoff/internal/payoff"
	"github.com/saveplus/payoff/internal/storage"
	"github.com/saveplus/payoff/pkg/api"
	"github.com/saveplus/payoff/pkg/api/apiconnect"
)

// Limits bound a single request.
type Limits struct {
	// MaxMonths is the default horizon and the ceiling for requested ones.
	MaxMonths int

	// MaxAccounts caps the number of accounts in one simulation.
	MaxAccounts int
}

// DefaultLimits matches the engine's default horizon.
func DefaultLimits() Limits {
	return Limits{MaxMonths: payoff.DefaultMaxMonths, MaxAccounts: 100}
}

// PayoffService implements the Connect PayoffService.
type PayoffService struct {
	apiconnect.UnimplementedPayoffServiceHandler
	debts   storage.DebtStore
	cache   cache.Cache
	metrics *middleware.Metrics
	limits  Limits
	logger  *slog.Logger
}

// NewPayoffService creates a PayoffService. A nil cache disables memoization
// and a nil metrics records nothing.
func NewPayoffService(debts storage.DebtStore, c cache.Cache, metrics *middleware.Metrics, limits Limits, logger *slog.Logger) *PayoffService {
	if c == nil {
		c = cache.Nop{}
	}
	return &PayoffService{
		debts:   debts,
		cache:   c,
		metrics: metrics,
		limits:  limits,
		logger:  logger,
	}
}

// Simulate runs a single strategy over accounts supplied in the request.
func (s *PayoffService) Simulate(ctx context.Context, req *connect.Request[api.SimulateRequest]) (*connect.Response[api.SimulateResponse], error) {
	s.logger.Info("Simulate request received",
		"accounts_count", len(req.Msg.Accounts),
		"strategy", req.Msg.Strategy,
	)

	if err := s.checkAccounts(len(req.Msg.Accounts)); err != nil {
		return nil, err
	}
	params, err := s.params(req.Msg.Strategy, req.Msg.ExtraMonthlyPayment, req.Msg.MaxMonths, req.Msg.ChartPoints)
	if err != nil {
		return nil, err
	}

	res, err := s.run(ctx, toAccounts(req.Msg.Accounts), params)
	if err != nil {
		s.logger.Warn("Simulate rejected", "error", err)
		return nil, engineError(err)
	}

	resp, err := toSimulateResponse(params.Strategy, res, req.Msg.ChartPoints)
	if err != nil {
		s.logger.Error("Simulate result not representable", "error", err)
		return nil, err
	}
	return connect.NewResponse(resp), nil
}

// SimulateSaved runs a single strategy over the caller's active stored debts.
func (s *PayoffService) SimulateSaved(ctx context.Context, req *connect.Request[api.SimulateSavedRequest]) (*connect.Response[api.SimulateSavedResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	s.logger.Info("SimulateSaved request received", "user_id", userID, "strategy", req.Msg.Strategy)

	params, err := s.params(req.Msg.Strategy, req.Msg.ExtraMonthlyPayment, req.Msg.MaxMonths, req.Msg.ChartPoints)
	if err != nil {
		return nil, err
	}
	debts, accounts, err := s.savedAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	res, err := s.run(ctx, accounts, params)
	if err != nil {
		s.logger.Warn("SimulateSaved rejected", "user_id", userID, "error", err)
		return nil, engineError(err)
	}

	resp, err := toSimulateResponse(params.Strategy, res, req.Msg.ChartPoints)
	if err != nil {
		s.logger.Error("SimulateSaved result not representable", "user_id", userID, "error", err)
		return nil, err
	}
	return connect.NewResponse(&api.SimulateSavedResponse{
		SimulateResponse: *resp,
		DebtNames:        debtNames(debts),
	}), nil
}

// Compare runs avalanche and snowball on the same input and reports which is cheaper.
func (s *PayoffService) Compare(ctx context.Context, req *connect.Request[api.CompareRequest]) (*connect.Response[api.CompareResponse], error) {
	userID := middleware.GetUserID(ctx)
	s.logger.Info("Compare request received",
		"accounts_count", len(req.Msg.Accounts),
		"use_saved", req.Msg.UseSaved,
		"user_id", userID,
	)

	params, err := s.params("", req.Msg.ExtraMonthlyPayment, req.Msg.MaxMonths, req.Msg.ChartPoints)
	if err != nil {
		return nil, err
	}

	var (
		accounts []payoff.DebtAccount
		names    map[string]string
	)
	if req.Msg.UseSaved {
		if userID == "" {
			return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
		}
		if len(req.Msg.Accounts) > 0 {
			return nil, invalidArgument("accounts must be empty when use_saved is set")
		}
		var debts []*models.Debt
		debts, accounts, err = s.savedAccounts(ctx, userID)
		if err != nil {
			return nil, err
		}
		names = debtNames(debts)
	} else {
		if err := s.checkAccounts(len(req.Msg.Accounts)); err != nil {
			return nil, err
		}
		accounts = toAccounts(req.Msg.Accounts)
	}

	results := make(map[payoff.Strategy]*payoff.Result, len(payoff.Strategies))
	for _, strategy := range payoff.Strategies {
		params.Strategy = strategy
		res, err := s.run(ctx, accounts, params)
		if err != nil {
			s.logger.Warn("Compare rejected", "error", err)
			return nil, engineError(err)
		}
		results[strategy] = res
	}

	cmp := payoff.NewComparison(results[payoff.Avalanche], results[payoff.Snowball])
	resp, err := toComparisonResponse(cmp, req.Msg.ChartPoints)
	if err != nil {
		s.logger.Error("Compare result not representable", "error", err)
		return nil, err
	}
	resp.DebtNames = names

	s.logger.Info("Compare completed",
		"recommended", cmp.Recommended,
		"interest_saved", resp.InterestSaved.String(),
	)
	return connect.NewResponse(resp), nil
}

// params resolves request options into engine parameters. A zero max_months
// means the server limit, and larger requests are capped to it.
func (s *PayoffService) params(strategy string, extra decimal.Decimal, maxMonths, chartPoints int) (payoff.Params, error) {
	st, err := payoff.ParseStrategy(strategy)
	if err != nil {
		return payoff.Params{}, engineError(err)
	}
	if chartPoints < 0 {
		return payoff.Params{}, invalidArgument("chart_points must not be negative, got %d", chartPoints)
	}
	if maxMonths == 0 || maxMonths > s.limits.MaxMonths {
		maxMonths = s.limits.MaxMonths
	}
	return payoff.Params{
		Strategy:            st,
		ExtraMonthlyPayment: money.Float(extra),
		MaxMonths:           maxMonths,
	}, nil
}

func (s *PayoffService) checkAccounts(n int) error {
	if s.limits.MaxAccounts > 0 && n > s.limits.MaxAccounts {
		return invalidArgument("too many accounts: %d (max %d)", n, s.limits.MaxAccounts)
	}
	return nil
}

func (s *PayoffService) savedAccounts(ctx context.Context, userID string) ([]*models.Debt, []payoff.DebtAccount, error) {
	debts, err := s.debts.ListDebts(ctx, userID, true)
	if err != nil {
		s.logger.Error("ListDebts failed", "user_id", userID, "error", err)
		return nil, nil, storeError(err)
	}
	if err := s.checkAccounts(len(debts)); err != nil {
		return nil, nil, err
	}
	return debts, models.Accounts(debts), nil
}

// simulationKey is what a cached result depends on.
type simulationKey struct {
	Accounts []payoff.DebtAccount `json:"accounts"`
	Params   payoff.Params        `json:"params"`
}

// run simulates through the cache. Cache failures only cost a recomputation.
func (s *PayoffService) run(ctx context.Context, accounts []payoff.DebtAccount, params payoff.Params) (*payoff.Result, error) {
	key, keyErr := cache.Key("simulate", simulationKey{Accounts: accounts, Params: params})
	if keyErr == nil {
		if data, ok := s.cache.Get(ctx, key); ok {
			var res payoff.Result
			if err := json.Unmarshal(data, &res); err == nil {
				s.metrics.CacheLookup(true)
				return &res, nil
			}
			s.logger.Warn("Discarding unreadable cache entry", "key", key)
		}
		s.metrics.CacheLookup(false)
	}

	res, err := payoff.Simulate(accounts, params)
	if err != nil {
		return nil, err
	}
	s.metrics.SimulationOutcome(params.Strategy.String(), res.Converged())

	if keyErr != nil {
		return res, nil
	}
	data, err := json.Marshal(res)
	if err == nil {
		err = s.cache.Set(ctx, key, data)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("Failed to cache simulation", "key", key, "error", err)
	}
	return res, nil
}
