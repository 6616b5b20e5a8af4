package service

import (
	"context"
	"errors"
	"testing"

	"backend/internal/model"

	"github.com/google/uuid"
)

func newEmployeeFixture(t *testing.T) (EmployeeService, *fakeEmployeeRepo) {
	t.Helper()

	employeeRepo := newFakeEmployeeRepo()
	userRepo := newFakeUserRepo()
	departmentRepo := newFakeDepartmentRepo()
	auditRepo := newFakeAuditRepo()

	svc := NewEmployeeService(employeeRepo, userRepo, departmentRepo, auditRepo, &fakeTxManager{})
	return svc, employeeRepo
}

func seedEmployee(repo *fakeEmployeeRepo, number string) *model.Employee {
	employee := &model.Employee{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		EmployeeNumber:   number,
		EmploymentStatus: model.EmploymentActive,
		IsActive:         true,
	}
	repo.employees[employee.ID] = employee
	return employee
}

func TestGetEmployeeByIDOwnership(t *testing.T) {
	svc, employeeRepo := newEmployeeFixture(t)
	ctx := context.Background()

	manager := seedEmployee(employeeRepo, "EMP-0001")
	employee := seedEmployee(employeeRepo, "EMP-0002")
	managerID := manager.ID
	employee.ManagerID = &managerID

	tests := []struct {
		name    string
		actor   Actor
		wantErr error
	}{
		{
			name:  "hr tier by role",
			actor: Actor{UserID: uuid.NewString(), Role: "hr_manager"},
		},
		{
			name:  "own record",
			actor: Actor{UserID: employee.UserID.String(), Role: "employee", EmployeeID: employee.ID.String()},
		},
		{
			name:  "direct manager",
			actor: Actor{UserID: manager.UserID.String(), Role: "sales_manager", EmployeeID: manager.ID.String()},
		},
		{
			name:    "unrelated employee",
			actor:   Actor{UserID: uuid.NewString(), Role: "employee", EmployeeID: uuid.NewString()},
			wantErr: ErrForbidden,
		},
		{
			name:    "unrecognized role",
			actor:   Actor{UserID: uuid.NewString(), Role: "superuser"},
			wantErr: ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.GetEmployeeByID(ctx, tt.actor, employee.ID.String())
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("GetEmployeeByID() error = %v", err)
				}
				if got.ID != employee.ID {
					t.Errorf("got record %s, want %s", got.ID, employee.ID)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("GetEmployeeByID() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetEmployeeByIDNotFound(t *testing.T) {
	svc, _ := newEmployeeFixture(t)

	_, err := svc.GetEmployeeByID(context.Background(), Actor{UserID: uuid.NewString(), Role: "admin"}, uuid.NewString())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetEmployeeByID() error = %v, want ErrNotFound", err)
	}
}
