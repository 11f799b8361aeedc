package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/saveplus/payoff/internal/auth"
	"github.com/saveplus/payoff/internal/cache"
	"github.com/saveplus/payoff/internal/middleware"
	"github.com/saveplus/payoff/internal/storage/sqlite"
	"github.com/saveplus/payoff/pkg/api"
	"github.com/saveplus/payoff/pkg/api/apiconnect"
)

// testLimits keep the account cap small enough to hit in tests.
var testLimits = Limits{MaxMonths: 600, MaxAccounts: 5}

type testEnv struct {
	auth   apiconnect.AuthServiceClient
	debts  apiconnect.DebtServiceClient
	payoff apiconnect.PayoffServiceClient
	cache  *cache.Memory
}

// setupTestServer wires all three services over a temp SQLite database the
// same way the server does.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	memCache := cache.NewMemory(64, time.Minute)
	metrics := middleware.NewMetrics(prometheus.NewRegistry())

	optional := connect.WithInterceptors(middleware.OptionalAuth(jwtManager))
	required := connect.WithInterceptors(middleware.RequireAuth(jwtManager))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, logger), optional))
	mux.Handle(apiconnect.NewDebtServiceHandler(NewDebtService(store, logger), required))
	mux.Handle(apiconnect.NewPayoffServiceHandler(NewPayoffService(store, memCache, metrics, testLimits, logger), optional))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		auth:   apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		debts:  apiconnect.NewDebtServiceClient(http.DefaultClient, server.URL),
		payoff: apiconnect.NewPayoffServiceClient(http.DefaultClient, server.URL),
		cache:  memCache,
	}
}

// register creates a user and returns its bearer token.
func (e *testEnv) register(t *testing.T, email string) string {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: "Test User",
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return resp.Msg.Token
}

func withToken[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// portfolioAccounts is a card, a car loan and a personal loan. With 300 extra
// avalanche pays everything off in month 28 and snowball in month 31.
func portfolioAccounts() []api.Account {
	return []api.Account{
		{ID: "card", Balance: dec("3000"), AnnualInterestRate: dec("0.24"), MinimumPayment: dec("90")},
		{ID: "car", Balance: dec("1500"), AnnualInterestRate: dec("0.06"), MinimumPayment: dec("50")},
		{ID: "loan", Balance: dec("8000"), AnnualInterestRate: dec("0.12"), MinimumPayment: dec("150")},
	}
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}
