package service

import (
	"context"
	"errors"
	"testing"

	"backend/internal/model"

	"github.com/google/uuid"
)

func newRewardFixture(t *testing.T) (RewardService, *fakeEmployeeRepo, *model.Employee) {
	t.Helper()

	rewardRepo := newFakeRewardRepo()
	employeeRepo := newFakeEmployeeRepo()
	auditRepo := newFakeAuditRepo()

	employee := &model.Employee{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		EmployeeNumber:   "EMP-0001",
		EmploymentStatus: model.EmploymentActive,
		IsActive:         true,
	}
	employeeRepo.employees[employee.ID] = employee

	svc := NewRewardService(rewardRepo, employeeRepo, auditRepo, &fakeTxManager{})
	return svc, employeeRepo, employee
}

func TestCreateRewardCreditsPoints(t *testing.T) {
	svc, _, employee := newRewardFixture(t)

	reward, err := svc.CreateReward(context.Background(), testActor(), CreateRewardRequest{
		EmployeeID:    employee.ID.String(),
		RewardType:    "performance",
		Title:         "Quarter closer",
		PointsAwarded: 150,
	})
	if err != nil {
		t.Fatalf("CreateReward() error = %v", err)
	}
	if reward.Status != model.RewardStatusActive {
		t.Errorf("status = %q, want active", reward.Status)
	}
	if employee.RewardPoints != 150 {
		t.Errorf("points = %d, want 150", employee.RewardPoints)
	}
}

func TestRevokeRewardClawsBackPoints(t *testing.T) {
	svc, _, employee := newRewardFixture(t)
	ctx := context.Background()
	actor := testActor()

	reward, err := svc.CreateReward(ctx, actor, CreateRewardRequest{
		EmployeeID:    employee.ID.String(),
		RewardType:    "performance",
		Title:         "Quarter closer",
		PointsAwarded: 150,
	})
	if err != nil {
		t.Fatalf("CreateReward() error = %v", err)
	}

	// Balance floors at zero even if points were spent in the meantime.
	employee.RewardPoints = 100

	revoked, err := svc.RevokeReward(ctx, actor, reward.ID.String())
	if err != nil {
		t.Fatalf("RevokeReward() error = %v", err)
	}
	if revoked.Status != model.RewardStatusRevoked {
		t.Errorf("status = %q, want revoked", revoked.Status)
	}
	if employee.RewardPoints != 0 {
		t.Errorf("points = %d, want floored to 0", employee.RewardPoints)
	}

	if _, err := svc.RevokeReward(ctx, actor, reward.ID.String()); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("second revoke error = %v, want ErrInvalidInput", err)
	}
}

func TestListEmployeeRewardsOwnership(t *testing.T) {
	svc, employeeRepo, employee := newRewardFixture(t)
	ctx := context.Background()

	manager := &model.Employee{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		EmployeeNumber:   "EMP-0002",
		EmploymentStatus: model.EmploymentActive,
		IsActive:         true,
	}
	employeeRepo.employees[manager.ID] = manager
	managerID := manager.ID
	employee.ManagerID = &managerID

	tests := []struct {
		name    string
		actor   Actor
		wantErr error
	}{
		{
			name:  "self",
			actor: Actor{UserID: employee.UserID.String(), Role: "employee", EmployeeID: employee.ID.String()},
		},
		{
			name:  "direct manager",
			actor: Actor{UserID: manager.UserID.String(), Role: "sales_manager", EmployeeID: manager.ID.String()},
		},
		{
			name:  "hr manager by role",
			actor: Actor{UserID: uuid.NewString(), Role: "hr_manager"},
		},
		{
			name:    "unrelated employee",
			actor:   Actor{UserID: uuid.NewString(), Role: "employee", EmployeeID: uuid.NewString()},
			wantErr: ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ListEmployeeRewards(ctx, tt.actor, employee.ID.String())
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("ListEmployeeRewards() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ListEmployeeRewards() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
