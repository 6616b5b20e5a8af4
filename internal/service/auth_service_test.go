package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (AuthService, *fakeUserRepo, *fakeAuditRepo, *model.User) {
	t.Helper()

	userRepo := newFakeUserRepo()
	employeeRepo := newFakeEmployeeRepo()
	auditRepo := newFakeAuditRepo()

	hashed, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &model.User{
		ID:       uuid.New(),
		Email:    "rep@example.com",
		Password: string(hashed),
		Role:     "sales_rep",
		IsActive: true,
	}
	userRepo.users[user.ID] = user

	svc := NewAuthService(userRepo, employeeRepo, auditRepo, &fakeTxManager{}, []byte("test-secret"))
	return svc, userRepo, auditRepo, user
}

func TestLoginSuccess(t *testing.T) {
	svc, userRepo, auditRepo, user := newAuthFixture(t)
	ctx := context.Background()

	user.FailedLoginAttempts = 3

	tokens, resp, err := svc.Login(ctx, LoginRequest{Email: "rep@example.com", Password: "correct-horse"}, "10.0.0.1", "go-test")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if tokens.Token == "" || tokens.RefreshToken == "" {
		t.Fatal("expected both tokens to be issued")
	}
	if resp.Email != user.Email {
		t.Errorf("response email = %q, want %q", resp.Email, user.Email)
	}

	if user.FailedLoginAttempts != 0 {
		t.Errorf("failed attempts = %d, want reset to 0", user.FailedLoginAttempts)
	}
	if user.LastLogin == nil {
		t.Error("expected last login timestamp to be set")
	}
	if _, err := userRepo.FindRefreshToken(ctx, tokens.RefreshToken); err != nil {
		t.Errorf("refresh token not stored: %v", err)
	}
	if auditRepo.countOps(model.AuditOpLogin) != 1 {
		t.Error("expected a login audit entry")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, auditRepo, user := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, LoginRequest{Email: "rep@example.com", Password: "wrong"}, "10.0.0.1", "go-test")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
	if user.FailedLoginAttempts != 1 {
		t.Errorf("failed attempts = %d, want 1", user.FailedLoginAttempts)
	}
	if auditRepo.countOps(model.AuditOpLoginFailed) != 1 {
		t.Error("expected a failed-login audit entry")
	}
}

func TestLoginLockoutAfterFiveFailures(t *testing.T) {
	svc, _, _, user := newAuthFixture(t)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		_, _, err := svc.Login(ctx, LoginRequest{Email: "rep@example.com", Password: "wrong"}, "", "")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d error = %v, want ErrInvalidCredentials", i, err)
		}
	}

	_, _, err := svc.Login(ctx, LoginRequest{Email: "rep@example.com", Password: "wrong"}, "", "")
	if !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("fifth attempt error = %v, want ErrAccountLocked", err)
	}
	if user.AccountLockedUntil == nil {
		t.Fatal("expected lockout timestamp to be set")
	}

	// The correct password makes no difference while the window is open.
	_, _, err = svc.Login(ctx, LoginRequest{Email: "rep@example.com", Password: "correct-horse"}, "", "")
	if !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("locked login error = %v, want ErrAccountLocked", err)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	svc, _, _, user := newAuthFixture(t)
	user.IsActive = false

	_, _, err := svc.Login(context.Background(), LoginRequest{Email: "rep@example.com", Password: "correct-horse"}, "", "")
	if !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("Login() error = %v, want ErrAccountDisabled", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, _, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "x"}, "", "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, userRepo, _, _ := newAuthFixture(t)
	ctx := context.Background()

	tokens, _, err := svc.Login(ctx, LoginRequest{Email: "rep@example.com", Password: "correct-horse"}, "", "")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	rotated, err := svc.RefreshToken(ctx, RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	if err != nil {
		t.Fatalf("RefreshToken() error = %v", err)
	}
	if rotated.RefreshToken == tokens.RefreshToken {
		t.Error("expected a new refresh token after rotation")
	}
	if _, err := userRepo.FindRefreshToken(ctx, tokens.RefreshToken); err == nil {
		t.Error("expected old refresh token to be revoked")
	}

	// The spent token is single-use.
	if _, err := svc.RefreshToken(ctx, RefreshTokenRequest{RefreshToken: tokens.RefreshToken}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("reused token error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRefreshTokenExpired(t *testing.T) {
	svc, userRepo, _, user := newAuthFixture(t)
	ctx := context.Background()

	expired := &model.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	userRepo.tokens[expired.Token] = expired

	if _, err := svc.RefreshToken(ctx, RefreshTokenRequest{RefreshToken: expired.Token}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expired token error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := userRepo.FindRefreshToken(ctx, expired.Token); err == nil {
		t.Error("expected expired token to be deleted")
	}
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	svc, userRepo, _, user := newAuthFixture(t)
	ctx := context.Background()

	tokens, _, err := svc.Login(ctx, LoginRequest{Email: "rep@example.com", Password: "correct-horse"}, "", "")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	actor := Actor{UserID: user.ID.String(), Email: user.Email, Role: user.Role}
	err = svc.ChangePassword(ctx, actor, ChangePasswordRequest{
		CurrentPassword: "correct-horse",
		NewPassword:     "new-password-1",
	})
	if err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	if _, err := userRepo.FindRefreshToken(ctx, tokens.RefreshToken); err == nil {
		t.Error("expected refresh tokens to be revoked after password change")
	}
	if _, _, err := svc.Login(ctx, LoginRequest{Email: "rep@example.com", Password: "new-password-1"}, "", ""); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	svc, _, _, user := newAuthFixture(t)

	actor := Actor{UserID: user.ID.String(), Email: user.Email, Role: user.Role}
	err := svc.ChangePassword(context.Background(), actor, ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new-password-1",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("ChangePassword() error = %v, want ErrInvalidCredentials", err)
	}
}
