package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/saveplus/payoff/pkg/api"
)

func TestRegisterAndLogin(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "Frank@Example.com",
		DisplayName: "Frank",
		Password:    "hunter2hunter2",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if reg.Msg.Token == "" {
		t.Error("expected a token on register")
	}
	if reg.Msg.User.Email != "frank@example.com" {
		t.Errorf("email: expected normalized address, got %q", reg.Msg.User.Email)
	}

	login, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email:    "frank@example.com",
		Password: "hunter2hunter2",
	}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.Msg.User.ID != reg.Msg.User.ID {
		t.Errorf("login returned a different user: %s vs %s", login.Msg.User.ID, reg.Msg.User.ID)
	}

	me, err := env.auth.GetCurrentUser(ctx, withToken(&api.GetCurrentUserRequest{}, login.Msg.Token))
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if me.Msg.User.DisplayName != "Frank" || me.Msg.User.CreatedAt == 0 {
		t.Errorf("GetCurrentUser should return stored details, got %+v", me.Msg.User)
	}
}

func TestRegister_Errors(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	env.register(t, "taken@example.com")

	tests := []struct {
		name string
		req  *api.RegisterRequest
		want connect.Code
	}{
		{"duplicate email", &api.RegisterRequest{Email: "TAKEN@example.com", DisplayName: "T", Password: "password123"}, connect.CodeAlreadyExists},
		{"weak password", &api.RegisterRequest{Email: "new@example.com", DisplayName: "N", Password: "short"}, connect.CodeInvalidArgument},
		{"bad email", &api.RegisterRequest{Email: "not-an-email", DisplayName: "N", Password: "password123"}, connect.CodeInvalidArgument},
		{"missing display name", &api.RegisterRequest{Email: "n@example.com", Password: "password123"}, connect.CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(ctx, connect.NewRequest(tt.req))
			assertCode(t, err, tt.want)
		})
	}
}

func TestLogin_Errors(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	env.register(t, "grace@example.com")

	_, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "grace@example.com", Password: "wrong-password"}))
	assertCode(t, err, connect.CodeUnauthenticated)

	_, err = env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "grace@example.com"}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestGetCurrentUser_Unauthenticated(t *testing.T) {
	env := setupTestServer(t)

	_, err := env.auth.GetCurrentUser(context.Background(), connect.NewRequest(&api.GetCurrentUserRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)
}
