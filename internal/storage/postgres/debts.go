package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saveplus/payoff/internal/models"
	"github.com/saveplus/payoff/internal/money"
	"github.com/saveplus/payoff/internal/storage"
)

const debtColumns = "id, user_id, name, kind, balance, annual_interest_rate, minimum_payment, active, created_at, updated_at"

// CreateDebt inserts a new debt, filling in ID, kind and timestamps when unset.
func (s *PostgresStore) CreateDebt(ctx context.Context, debt *models.Debt) error {
	if debt.ID == "" {
		debt.ID = uuid.New().String()
	}
	if debt.CreatedAt == 0 {
		debt.CreatedAt = time.Now().Unix()
	}
	debt.UpdatedAt = debt.CreatedAt
	if debt.Kind == "" {
		debt.Kind = models.KindOther
	}
	debt.Balance = money.RoundFloat(debt.Balance)
	debt.MinimumPayment = money.RoundFloat(debt.MinimumPayment)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO debts (`+debtColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		debt.ID, debt.UserID, debt.Name, debt.Kind,
		debt.Balance, debt.AnnualInterestRate, debt.MinimumPayment,
		debt.Active, debt.CreatedAt, debt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert debt: %w", err)
	}
	return nil
}

// GetDebt retrieves a debt by ID.
func (s *PostgresStore) GetDebt(ctx context.Context, debtID string) (*models.Debt, error) {
	debt, err := scanDebt(s.db.QueryRowContext(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE id = $1`, debtID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("debt %s: %w", debtID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debt: %w", err)
	}
	return debt, nil
}

// ListDebts returns a user's debts, oldest first.
func (s *PostgresStore) ListDebts(ctx context.Context, userID string, activeOnly bool) ([]*models.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE user_id = $1`
	if activeOnly {
		query += ` AND active = TRUE`
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	var debts []*models.Debt
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		debts = append(debts, debt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debts: %w", err)
	}
	return debts, nil
}

// UpdateDebt overwrites the mutable fields of a debt.
func (s *PostgresStore) UpdateDebt(ctx context.Context, debt *models.Debt) error {
	debt.UpdatedAt = time.Now().Unix()
	if debt.Kind == "" {
		debt.Kind = models.KindOther
	}
	debt.Balance = money.RoundFloat(debt.Balance)
	debt.MinimumPayment = money.RoundFloat(debt.MinimumPayment)

	res, err := s.db.ExecContext(ctx,
		`UPDATE debts
		 SET name = $1, kind = $2, balance = $3, annual_interest_rate = $4, minimum_payment = $5, active = $6, updated_at = $7
		 WHERE id = $8`,
		debt.Name, debt.Kind, debt.Balance, debt.AnnualInterestRate, debt.MinimumPayment,
		debt.Active, debt.UpdatedAt, debt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update debt: %w", err)
	}
	return expectOneRow(res, debt.ID)
}

// DeleteDebt removes a debt by ID.
func (s *PostgresStore) DeleteDebt(ctx context.Context, debtID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM debts WHERE id = $1`, debtID)
	if err != nil {
		return fmt.Errorf("failed to delete debt: %w", err)
	}
	return expectOneRow(res, debtID)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDebt(row scanner) (*models.Debt, error) {
	debt := &models.Debt{}
	if err := row.Scan(
		&debt.ID, &debt.UserID, &debt.Name, &debt.Kind,
		&debt.Balance, &debt.AnnualInterestRate, &debt.MinimumPayment,
		&debt.Active, &debt.CreatedAt, &debt.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return debt, nil
}

func expectOneRow(res sql.Result, debtID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("debt %s: %w", debtID, storage.ErrNotFound)
	}
	return nil
}
