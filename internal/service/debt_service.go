package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/saveplus/payoff/internal/auth"
	"github.com/saveplus/payoff/internal/middleware"
	"github.com/saveplus/payoff/internal/models"
	"github.com/saveplus/payoff/internal/money"
	"github.com/saveplus/payoff/internal/payoff"
	"github.com/saveplus/payoff/internal/storage"
	"github.com/saveplus/payoff/pkg/api"
	"github.com/saveplus/payoff/pkg/api/apiconnect"
)

const maxDebtNameLength = 100

var errNotOwner = errors.New("debt belongs to another user")

// DebtService implements the Connect DebtService. Every call is scoped to
// the authenticated caller.
type DebtService struct {
	apiconnect.UnimplementedDebtServiceHandler
	store  storage.DebtStore
	logger *slog.Logger
}

// NewDebtService creates a new DebtService with the given storage backend.
func NewDebtService(store storage.DebtStore, logger *slog.Logger) *DebtService {
	return &DebtService{store: store, logger: logger}
}

// CreateDebt stores a new debt for the caller.
func (s *DebtService) CreateDebt(ctx context.Context, req *connect.Request[api.CreateDebtRequest]) (*connect.Response[api.CreateDebtResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreateDebt request received", "user_id", userID, "name", req.Msg.Name)

	active := true
	if req.Msg.Active != nil {
		active = *req.Msg.Active
	}
	debt := &models.Debt{
		UserID:             userID,
		Name:               strings.TrimSpace(req.Msg.Name),
		Kind:               normalizeKind(req.Msg.Kind),
		Balance:            money.Float(req.Msg.Balance),
		AnnualInterestRate: money.Float(req.Msg.AnnualInterestRate),
		MinimumPayment:     money.Float(req.Msg.MinimumPayment),
		Active:             active,
	}
	if err := validateDebt(debt); err != nil {
		return nil, err
	}

	if err := s.store.CreateDebt(ctx, debt); err != nil {
		s.logger.Error("CreateDebt failed", "user_id", userID, "error", err)
		return nil, storeError(err)
	}

	s.logger.Info("Debt created", "debt_id", debt.ID, "user_id", userID)
	return connect.NewResponse(&api.CreateDebtResponse{Debt: toAPIDebt(debt)}), nil
}

// GetDebt returns one of the caller's debts.
func (s *DebtService) GetDebt(ctx context.Context, req *connect.Request[api.GetDebtRequest]) (*connect.Response[api.GetDebtResponse], error) {
	debt, err := s.owned(ctx, req.Msg.DebtID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetDebtResponse{Debt: toAPIDebt(debt)}), nil
}

// ListDebts returns the caller's debts, oldest first.
func (s *DebtService) ListDebts(ctx context.Context, req *connect.Request[api.ListDebtsRequest]) (*connect.Response[api.ListDebtsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	debts, err := s.store.ListDebts(ctx, userID, req.Msg.ActiveOnly)
	if err != nil {
		s.logger.Error("ListDebts failed", "user_id", userID, "error", err)
		return nil, storeError(err)
	}

	out := make([]*api.Debt, len(debts))
	for i, d := range debts {
		out[i] = toAPIDebt(d)
	}

	s.logger.Info("ListDebts successful", "user_id", userID, "count", len(out))
	return connect.NewResponse(&api.ListDebtsResponse{Debts: out}), nil
}

// UpdateDebt replaces the mutable fields of one of the caller's debts.
func (s *DebtService) UpdateDebt(ctx context.Context, req *connect.Request[api.UpdateDebtRequest]) (*connect.Response[api.UpdateDebtResponse], error) {
	debt, err := s.owned(ctx, req.Msg.DebtID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("UpdateDebt request received", "debt_id", debt.ID, "user_id", debt.UserID)

	debt.Name = strings.TrimSpace(req.Msg.Name)
	debt.Kind = normalizeKind(req.Msg.Kind)
	debt.Balance = money.Float(req.Msg.Balance)
	debt.AnnualInterestRate = money.Float(req.Msg.AnnualInterestRate)
	debt.MinimumPayment = money.Float(req.Msg.MinimumPayment)
	debt.Active = req.Msg.Active
	if err := validateDebt(debt); err != nil {
		return nil, err
	}

	if err := s.store.UpdateDebt(ctx, debt); err != nil {
		s.logger.Error("UpdateDebt failed", "debt_id", debt.ID, "error", err)
		return nil, storeError(err)
	}

	// Fetch again to pick up store-side rounding and timestamps.
	updated, err := s.store.GetDebt(ctx, debt.ID)
	if err != nil {
		s.logger.Error("Failed to fetch updated debt", "debt_id", debt.ID, "error", err)
		return nil, storeError(err)
	}

	s.logger.Info("Debt updated", "debt_id", debt.ID)
	return connect.NewResponse(&api.UpdateDebtResponse{Debt: toAPIDebt(updated)}), nil
}

// DeleteDebt removes one of the caller's debts.
func (s *DebtService) DeleteDebt(ctx context.Context, req *connect.Request[api.DeleteDebtRequest]) (*connect.Response[api.DeleteDebtResponse], error) {
	debt, err := s.owned(ctx, req.Msg.DebtID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteDebt(ctx, debt.ID); err != nil {
		s.logger.Error("DeleteDebt failed", "debt_id", debt.ID, "error", err)
		return nil, storeError(err)
	}

	s.logger.Info("Debt deleted", "debt_id", debt.ID, "user_id", debt.UserID)
	return connect.NewResponse(&api.DeleteDebtResponse{}), nil
}

// owned loads a debt and checks the caller owns it.
func (s *DebtService) owned(ctx context.Context, debtID string) (*models.Debt, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if debtID == "" {
		return nil, invalidArgument("debt_id is required")
	}

	debt, err := s.store.GetDebt(ctx, debtID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error("GetDebt failed", "debt_id", debtID, "error", err)
		}
		return nil, storeError(err)
	}
	if debt.UserID != userID {
		s.logger.Warn("Debt access denied", "debt_id", debtID, "user_id", userID)
		return nil, connect.NewError(connect.CodePermissionDenied, errNotOwner)
	}
	return debt, nil
}

func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

func normalizeKind(kind string) string {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		return models.KindOther
	}
	return kind
}

// validateDebt applies the simulator's account rules so a stored debt can
// always be simulated.
func validateDebt(d *models.Debt) error {
	if d.Name == "" {
		return invalidArgument("name is required")
	}
	if len(d.Name) > maxDebtNameLength {
		return invalidArgument("name must be at most %d characters", maxDebtNameLength)
	}
	account := d.Account()
	account.ID = d.Name
	if err := payoff.ValidateAccounts([]payoff.DebtAccount{account}); err != nil {
		return engineError(err)
	}
	return nil
}
