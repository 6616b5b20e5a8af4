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

func newUserFixture(t *testing.T) (UserService, *fakeUserRepo, *fakeAuditRepo) {
	t.Helper()
	userRepo := newFakeUserRepo()
	auditRepo := newFakeAuditRepo()
	return NewUserService(userRepo, auditRepo, &fakeTxManager{}), userRepo, auditRepo
}

func seedUser(repo *fakeUserRepo, email, role string) *model.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &model.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hashed),
		Role:     role,
		IsActive: true,
	}
	repo.users[user.ID] = user
	return user
}

func TestCreateUser(t *testing.T) {
	svc, userRepo, auditRepo := newUserFixture(t)
	ctx := context.Background()
	actor := Actor{UserID: uuid.NewString(), Email: "admin@example.com", Role: "admin"}

	resp, err := svc.CreateUser(ctx, actor, CreateUserRequest{
		Email:    "new@example.com",
		Password: "password123",
		Role:     "sales_rep",
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if resp.Role != "sales_rep" || !resp.IsActive {
		t.Errorf("unexpected response: %+v", resp)
	}

	stored, err := userRepo.FindByEmail(ctx, "new@example.com")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if stored.Password == "password123" {
		t.Error("password stored in plaintext")
	}
	if auditRepo.countOps(model.AuditOpInsert) != 1 {
		t.Error("expected an insert audit entry")
	}
}

func TestCreateUserUnknownRole(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	actor := Actor{UserID: uuid.NewString(), Role: "admin"}

	_, err := svc.CreateUser(context.Background(), actor, CreateUserRequest{
		Email:    "new@example.com",
		Password: "password123",
		Role:     "superuser",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("CreateUser() error = %v, want ErrInvalidInput", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, userRepo, _ := newUserFixture(t)
	seedUser(userRepo, "taken@example.com", "employee")
	actor := Actor{UserID: uuid.NewString(), Role: "admin"}

	_, err := svc.CreateUser(context.Background(), actor, CreateUserRequest{
		Email:    "taken@example.com",
		Password: "password123",
		Role:     "employee",
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("CreateUser() error = %v, want ErrDuplicate", err)
	}
}

func TestDeactivateUser(t *testing.T) {
	svc, userRepo, auditRepo := newUserFixture(t)
	ctx := context.Background()

	admin := seedUser(userRepo, "admin@example.com", "admin")
	target := seedUser(userRepo, "target@example.com", "employee")
	userRepo.tokens["session"] = &model.RefreshToken{UserID: target.ID, Token: "session"}

	actor := Actor{UserID: admin.ID.String(), Email: admin.Email, Role: admin.Role}
	if err := svc.DeactivateUser(ctx, actor, target.ID.String()); err != nil {
		t.Fatalf("DeactivateUser() error = %v", err)
	}

	if target.IsActive {
		t.Error("expected target account to be inactive")
	}
	if _, err := userRepo.FindRefreshToken(ctx, "session"); err == nil {
		t.Error("expected target's refresh tokens to be revoked")
	}
	if auditRepo.countOps(model.AuditOpDelete) != 1 {
		t.Error("expected a delete audit entry")
	}
}

func TestDeactivateUserSelf(t *testing.T) {
	svc, userRepo, _ := newUserFixture(t)
	admin := seedUser(userRepo, "admin@example.com", "admin")

	// Refused even for admins.
	actor := Actor{UserID: admin.ID.String(), Email: admin.Email, Role: admin.Role}
	err := svc.DeactivateUser(context.Background(), actor, admin.ID.String())
	if !errors.Is(err, ErrSelfDeletion) {
		t.Fatalf("DeactivateUser() error = %v, want ErrSelfDeletion", err)
	}
	if !admin.IsActive {
		t.Error("account should stay active")
	}
}

func TestDeactivateUserForbiddenRole(t *testing.T) {
	svc, userRepo, _ := newUserFixture(t)
	rep := seedUser(userRepo, "rep@example.com", "sales_rep")
	target := seedUser(userRepo, "target@example.com", "employee")

	actor := Actor{UserID: rep.ID.String(), Email: rep.Email, Role: rep.Role}
	err := svc.DeactivateUser(context.Background(), actor, target.ID.String())
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("DeactivateUser() error = %v, want ErrForbidden", err)
	}
}

func TestUpdateUserSelfDeactivation(t *testing.T) {
	svc, userRepo, _ := newUserFixture(t)
	admin := seedUser(userRepo, "admin@example.com", "admin")

	inactive := false
	actor := Actor{UserID: admin.ID.String(), Email: admin.Email, Role: admin.Role}
	_, err := svc.UpdateUser(context.Background(), actor, admin.ID.String(), UpdateUserRequest{IsActive: &inactive})
	if !errors.Is(err, ErrSelfDeletion) {
		t.Fatalf("UpdateUser() error = %v, want ErrSelfDeletion", err)
	}
}

func TestUnlockUser(t *testing.T) {
	svc, userRepo, _ := newUserFixture(t)
	ctx := context.Background()

	admin := seedUser(userRepo, "admin@example.com", "admin")
	locked := seedUser(userRepo, "locked@example.com", "employee")
	locked.FailedLoginAttempts = 5
	until := time.Now().Add(30 * time.Minute)
	locked.AccountLockedUntil = &until

	actor := Actor{UserID: admin.ID.String(), Email: admin.Email, Role: admin.Role}
	if err := svc.UnlockUser(ctx, actor, locked.ID.String()); err != nil {
		t.Fatalf("UnlockUser() error = %v", err)
	}
	if locked.FailedLoginAttempts != 0 || locked.AccountLockedUntil != nil {
		t.Error("expected lockout state to be cleared")
	}
}

func TestDeactivateUserNotFound(t *testing.T) {
	svc, userRepo, _ := newUserFixture(t)
	admin := seedUser(userRepo, "admin@example.com", "admin")

	actor := Actor{UserID: admin.ID.String(), Role: admin.Role}
	err := svc.DeactivateUser(context.Background(), actor, uuid.NewString())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeactivateUser() error = %v, want ErrNotFound", err)
	}
}
