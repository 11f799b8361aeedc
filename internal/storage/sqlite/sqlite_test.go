package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/saveplus/payoff/internal/models"
	"github.com/saveplus/payoff/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "saveplus-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "nested", "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")

	t.Run("CreateUser and lookups", func(t *testing.T) {
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail.ID != user.ID {
			t.Errorf("ID mismatch: got %s, want %s", byEmail.ID, user.ID)
		}

		byID, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID.DisplayName != "Alice" || byID.PasswordHash != "hash" {
			t.Errorf("unexpected user: %+v", byID)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		dup := models.NewUser("alice@example.com", "Other", "hash")
		if err := store.CreateUser(ctx, dup); !errors.Is(err, storage.ErrDuplicate) {
			t.Errorf("Expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("missing user returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
		_, err = store.GetUserByID(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestSQLiteStore_Debts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := models.NewUser("bob@example.com", "Bob", "hash")
	if err := store.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("CreateDebt generates ID, kind and timestamps", func(t *testing.T) {
		debt := &models.Debt{
			UserID:             owner.ID,
			Name:               "Visa",
			Balance:            1200.456,
			AnnualInterestRate: 0.1999,
			MinimumPayment:     35,
			Active:             true,
		}
		if err := store.CreateDebt(ctx, debt); err != nil {
			t.Fatalf("CreateDebt failed: %v", err)
		}

		if debt.ID == "" {
			t.Error("Expected debt ID to be generated")
		}
		if debt.Kind != models.KindOther {
			t.Errorf("Expected default kind %q, got %q", models.KindOther, debt.Kind)
		}
		if debt.CreatedAt == 0 || debt.UpdatedAt == 0 {
			t.Error("Expected timestamps to be set")
		}

		got, err := store.GetDebt(ctx, debt.ID)
		if err != nil {
			t.Fatalf("GetDebt failed: %v", err)
		}
		if got.Balance != 1200.46 {
			t.Errorf("Balance not rounded to cents: got %v", got.Balance)
		}
		if got.AnnualInterestRate != 0.1999 {
			t.Errorf("Rate mismatch: got %v", got.AnnualInterestRate)
		}
		if !got.Active {
			t.Error("Expected debt to be active")
		}
	})

	t.Run("ListDebts filters inactive debts", func(t *testing.T) {
		closed := &models.Debt{
			UserID:  owner.ID,
			Name:    "Old store card",
			Kind:    models.KindCreditCard,
			Balance: 0,
			Active:  false,
		}
		if err := store.CreateDebt(ctx, closed); err != nil {
			t.Fatalf("CreateDebt failed: %v", err)
		}

		all, err := store.ListDebts(ctx, owner.ID, false)
		if err != nil {
			t.Fatalf("ListDebts failed: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("Expected 2 debts, got %d", len(all))
		}

		active, err := store.ListDebts(ctx, owner.ID, true)
		if err != nil {
			t.Fatalf("ListDebts failed: %v", err)
		}
		if len(active) != 1 || active[0].Name != "Visa" {
			t.Errorf("Expected only Visa to be active, got %+v", active)
		}

		none, err := store.ListDebts(ctx, "someone-else", false)
		if err != nil {
			t.Fatalf("ListDebts failed: %v", err)
		}
		if len(none) != 0 {
			t.Errorf("Expected no debts for another user, got %d", len(none))
		}
	})

	t.Run("UpdateDebt and DeleteDebt", func(t *testing.T) {
		debt := &models.Debt{UserID: owner.ID, Name: "Car", Balance: 9000, AnnualInterestRate: 0.05, MinimumPayment: 250, Active: true}
		if err := store.CreateDebt(ctx, debt); err != nil {
			t.Fatalf("CreateDebt failed: %v", err)
		}

		debt.Balance = 8750
		debt.Kind = models.KindAutoLoan
		if err := store.UpdateDebt(ctx, debt); err != nil {
			t.Fatalf("UpdateDebt failed: %v", err)
		}
		got, err := store.GetDebt(ctx, debt.ID)
		if err != nil {
			t.Fatalf("GetDebt failed: %v", err)
		}
		if got.Balance != 8750 || got.Kind != models.KindAutoLoan {
			t.Errorf("Update not persisted: %+v", got)
		}

		if err := store.DeleteDebt(ctx, debt.ID); err != nil {
			t.Fatalf("DeleteDebt failed: %v", err)
		}
		if _, err := store.GetDebt(ctx, debt.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("missing debt operations return ErrNotFound", func(t *testing.T) {
		if err := store.UpdateDebt(ctx, &models.Debt{ID: "nonexistent-id"}); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("UpdateDebt: expected ErrNotFound, got %v", err)
		}
		if err := store.DeleteDebt(ctx, "nonexistent-id"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("DeleteDebt: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("debt for unknown user violates foreign key", func(t *testing.T) {
		err := store.CreateDebt(ctx, &models.Debt{UserID: "ghost", Name: "x", Active: true})
		if err == nil {
			t.Error("Expected foreign key error, got nil")
		}
	})
}
