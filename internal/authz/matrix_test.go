package authz

import "testing"

func TestCan(t *testing.T) {
	tests := []struct {
		name string
		role Role
		op   Operation
		want bool
	}{
		{"sales rep denied financial report", RoleSalesRep, OpFinancialReportRead, false},
		{"finance manager allowed financial report", RoleFinanceManager, OpFinancialReportRead, true},
		{"admin allowed financial report", RoleAdmin, OpFinancialReportRead, true},
		{"hr manager denied financial report", RoleHRManager, OpFinancialReportRead, false},
		{"employee denied payroll write", RoleEmployee, OpPayrollWrite, false},
		{"hr manager allowed payroll write", RoleHRManager, OpPayrollWrite, true},
		{"finance manager allowed payroll approve", RoleFinanceManager, OpPayrollApprove, true},
		{"warehouse manager allowed inventory write", RoleWarehouseManager, OpInventoryWrite, true},
		{"sales rep denied inventory write", RoleSalesRep, OpInventoryWrite, false},
		{"customer support allowed customer read", RoleCustomerSupport, OpCustomerRead, true},
		{"customer support denied order write", RoleCustomerSupport, OpOrderWrite, false},
		{"logistics manager allowed order write", RoleLogisticsManager, OpOrderWrite, true},
		{"employee allowed department read", RoleEmployee, OpDepartmentRead, true},
		{"employee denied department write", RoleEmployee, OpDepartmentWrite, false},
		{"only admin reads audit", RoleFinanceManager, OpAuditRead, false},
		{"admin reads audit", RoleAdmin, OpAuditRead, true},
		{"manager tier sales report", RoleWarehouseManager, OpSalesReportRead, true},
		{"non manager denied sales report", RoleSalesRep, OpSalesReportRead, false},
		{"unknown role denied", Role("superuser"), OpUserRead, false},
		{"unknown operation denied", RoleAdmin, Operation("user.impersonate"), false},
		{"empty role denied", Role(""), OpOrderRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Can(tt.role, tt.op); got != tt.want {
				t.Errorf("Can(%s, %s) = %v, want %v", tt.role, tt.op, got, tt.want)
			}
		})
	}
}

func TestCanIsDeterministic(t *testing.T) {
	for _, role := range AllRoles {
		for op := range matrix {
			first := Can(role, op)
			for i := 0; i < 3; i++ {
				if Can(role, op) != first {
					t.Fatalf("Can(%s, %s) changed between calls", role, op)
				}
			}
		}
	}
}

func TestIsManagerTier(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleAdmin, true},
		{RoleHRManager, true},
		{RoleSalesManager, true},
		{RoleFinanceManager, true},
		{RoleLogisticsManager, true},
		{RoleWarehouseManager, true},
		{RoleSalesRep, false},
		{RoleEmployee, false},
		{RoleCustomerSupport, false},
		{Role("fake_manager"), false},
		{Role(""), false},
	}

	for _, tt := range tests {
		if got := IsManagerTier(tt.role); got != tt.want {
			t.Errorf("IsManagerTier(%s) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestCanDeleteUser(t *testing.T) {
	const actor = "6f1c2a34-0000-0000-0000-000000000001"
	const other = "6f1c2a34-0000-0000-0000-000000000002"

	for _, role := range AllRoles {
		if CanDeleteUser(role, actor, actor) {
			t.Errorf("role %s may delete own account", role)
		}
	}
	if !CanDeleteUser(RoleAdmin, actor, other) {
		t.Error("admin cannot delete another user")
	}
	if !CanDeleteUser(RoleHRManager, actor, other) {
		t.Error("hr_manager cannot delete another user")
	}
	if CanDeleteUser(RoleEmployee, actor, other) {
		t.Error("employee may delete another user")
	}
}

func TestOwnershipHelpers(t *testing.T) {
	if !Owns("a", "a") {
		t.Error("Owns rejects matching IDs")
	}
	if Owns("a", "b") || Owns("", "") {
		t.Error("Owns accepts non-matching or empty IDs")
	}
	if !Manages("mgr", "mgr") {
		t.Error("Manages rejects matching IDs")
	}
	if Manages("", "") {
		t.Error("Manages accepts empty IDs")
	}
}
