package sqlite

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

// CreateDebt persists a new debt to the database.
func (s *SQLiteStore) CreateDebt(ctx context.Context, debt *models.Debt) error {
	// Generate ID if not set
	if debt.ID == "" {
		debt.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if debt.CreatedAt == 0 {
		debt.CreatedAt = now
	}
	debt.UpdatedAt = debt.CreatedAt
	if debt.Kind == "" {
		debt.Kind = models.KindOther
	}
	roundAmounts(debt)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO debts (`+debtColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
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
func (s *SQLiteStore) GetDebt(ctx context.Context, debtID string) (*models.Debt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE id = ?`,
		debtID,
	)

	debt, err := scanDebt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("debt %s: %w", debtID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debt: %w", err)
	}

	return debt, nil
}

// ListDebts retrieves a user's debts, oldest first.
func (s *SQLiteStore) ListDebts(ctx context.Context, userID string, activeOnly bool) ([]*models.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE user_id = ?`
	if activeOnly {
		query += ` AND active = 1`
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

// UpdateDebt overwrites an existing debt. Owner and creation time are kept.
func (s *SQLiteStore) UpdateDebt(ctx context.Context, debt *models.Debt) error {
	debt.UpdatedAt = time.Now().Unix()
	if debt.Kind == "" {
		debt.Kind = models.KindOther
	}
	roundAmounts(debt)

	res, err := s.db.ExecContext(ctx,
		`UPDATE debts
		 SET name = ?, kind = ?, balance = ?, annual_interest_rate = ?, minimum_payment = ?, active = ?, updated_at = ?
		 WHERE id = ?`,
		debt.Name, debt.Kind, debt.Balance, debt.AnnualInterestRate, debt.MinimumPayment,
		debt.Active, debt.UpdatedAt, debt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update debt: %w", err)
	}

	return expectOneRow(res, debt.ID)
}

// DeleteDebt removes a debt by ID.
func (s *SQLiteStore) DeleteDebt(ctx context.Context, debtID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM debts WHERE id = ?", debtID)
	if err != nil {
		return fmt.Errorf("failed to delete debt: %w", err)
	}

	return expectOneRow(res, debtID)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDebt(row scanner) (*models.Debt, error) {
	debt := &models.Debt{}
	err := row.Scan(
		&debt.ID, &debt.UserID, &debt.Name, &debt.Kind,
		&debt.Balance, &debt.AnnualInterestRate, &debt.MinimumPayment,
		&debt.Active, &debt.CreatedAt, &debt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return debt, nil
}

func roundAmounts(debt *models.Debt) {
	debt.Balance = money.RoundFloat(debt.Balance)
	debt.MinimumPayment = money.RoundFloat(debt.MinimumPayment)
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
