// Package authz decides whether a role may perform an operation. The whole
// permission model is one declarative table consulted by the route
// middleware, so role lists cannot drift apart between endpoints.
package authz

import "strings"

// Role is one of the fixed role names. The set is not user-extensible at
// runtime; anything outside it is denied everywhere.
type Role string

const (
	RoleAdmin            Role = "admin"
	RoleHRManager        Role = "hr_manager"
	RoleSalesManager     Role = "sales_manager"
	RoleFinanceManager   Role = "finance_manager"
	RoleLogisticsManager Role = "logistics_manager"
	RoleWarehouseManager Role = "warehouse_manager"
	RoleSalesRep         Role = "sales_rep"
	RoleEmployee         Role = "employee"
	RoleCustomerSupport  Role = "customer_support"
)

// AllRoles lists every recognized role, in display order.
var AllRoles = []Role{
	RoleAdmin,
	RoleHRManager,
	RoleSalesManager,
	RoleFinanceManager,
	RoleLogisticsManager,
	RoleWarehouseManager,
	RoleSalesRep,
	RoleEmployee,
	RoleCustomerSupport,
}

// Operation names an action on a resource type.
type Operation string

const (
	OpUserRead   Operation = "user.read"
	OpUserWrite  Operation = "user.write"
	OpUserDelete Operation = "user.delete"

	OpEmployeeRead  Operation = "employee.read"
	OpEmployeeWrite Operation = "employee.write"

	OpDepartmentRead  Operation = "department.read"
	OpDepartmentWrite Operation = "department.write"

	OpCustomerRead  Operation = "customer.read"
	OpCustomerWrite Operation = "customer.write"

	OpOrderRead  Operation = "order.read"
	OpOrderWrite Operation = "order.write"

	OpInventoryRead  Operation = "inventory.read"
	OpInventoryWrite Operation = "inventory.write"

	OpPayrollRead    Operation = "payroll.read"
	OpPayrollWrite   Operation = "payroll.write"
	OpPayrollApprove Operation = "payroll.approve"

	OpRewardRead  Operation = "reward.read"
	OpRewardWrite Operation = "reward.write"

	OpInvoiceRead  Operation = "invoice.read"
	OpInvoiceWrite Operation = "invoice.write"

	OpExpenseRead    Operation = "expense.read"
	OpExpenseWrite   Operation = "expense.write"
	OpExpenseApprove Operation = "expense.approve"

	OpAuditRead Operation = "audit.read"

	OpSalesReportRead       Operation = "sales_report.read"
	OpInventoryReportRead   Operation = "inventory_report.read"
	OpPayrollReportRead     Operation = "payroll_report.read"
	OpFinancialReportRead   Operation = "financial_report.read"
	OpPerformanceReportRead Operation = "performance_report.read"
)

// roleSet is the value type of the matrix; membership lookups only.
type roleSet map[Role]struct{}

func roles(rs ...Role) roleSet {
	set := make(roleSet, len(rs))
	for _, r := range rs {
		set[r] = struct{}{}
	}
	return set
}

// matrix maps every operation to the roles allowed to perform it. Operations
// absent from the table are denied for everyone.
var matrix = map[Operation]roleSet{
	OpUserRead:   roles(RoleAdmin, RoleHRManager),
	OpUserWrite:  roles(RoleAdmin, RoleHRManager),
	OpUserDelete: roles(RoleAdmin, RoleHRManager),

	OpEmployeeRead:  roles(RoleAdmin, RoleHRManager),
	OpEmployeeWrite: roles(RoleAdmin, RoleHRManager),

	OpDepartmentRead:  roles(AllRoles...),
	OpDepartmentWrite: roles(RoleAdmin, RoleHRManager),

	OpCustomerRead:  roles(RoleAdmin, RoleSalesManager, RoleSalesRep, RoleCustomerSupport),
	OpCustomerWrite: roles(RoleAdmin, RoleSalesManager, RoleSalesRep, RoleCustomerSupport),

	OpOrderRead:  roles(RoleAdmin, RoleSalesManager, RoleSalesRep, RoleLogisticsManager),
	OpOrderWrite: roles(RoleAdmin, RoleSalesManager, RoleSalesRep, RoleLogisticsManager),

	OpInventoryRead:  roles(RoleAdmin, RoleWarehouseManager, RoleLogisticsManager, RoleSalesManager),
	OpInventoryWrite: roles(RoleAdmin, RoleWarehouseManager, RoleLogisticsManager, RoleSalesManager),

	OpPayrollRead:    roles(RoleAdmin, RoleHRManager, RoleFinanceManager),
	OpPayrollWrite:   roles(RoleAdmin, RoleHRManager, RoleFinanceManager),
	OpPayrollApprove: roles(RoleAdmin, RoleHRManager, RoleFinanceManager),

	OpRewardRead:  roles(RoleAdmin, RoleHRManager, RoleFinanceManager),
	OpRewardWrite: roles(RoleAdmin, RoleHRManager, RoleFinanceManager),

	OpInvoiceRead:  roles(RoleAdmin, RoleFinanceManager, RoleSalesManager),
	OpInvoiceWrite: roles(RoleAdmin, RoleFinanceManager),

	OpExpenseRead:    roles(RoleAdmin, RoleFinanceManager),
	OpExpenseApprove: roles(RoleAdmin, RoleFinanceManager),

	OpAuditRead: roles(RoleAdmin),

	OpPayrollReportRead:   roles(RoleAdmin, RoleHRManager, RoleFinanceManager),
	OpFinancialReportRead: roles(RoleAdmin, RoleFinanceManager),
}

// managerTier marks operations open to any manager-tier role in addition to
// whatever the matrix lists. Report-style operations not tied to a single
// department fall in here.
var managerTier = map[Operation]struct{}{
	OpSalesReportRead:       {},
	OpInventoryReportRead:   {},
	OpPerformanceReportRead: {},
	OpExpenseWrite:          {},
}

// Valid reports whether r is one of the recognized roles.
func Valid(r Role) bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// IsManagerTier reports whether the role is admin or any department manager.
// Unknown roles are never manager tier.
func IsManagerTier(r Role) bool {
	if !Valid(r) {
		return false
	}
	return r == RoleAdmin || strings.HasSuffix(string(r), "_manager")
}

// Can reports whether role may perform op. Unknown roles and unknown
// operations are always denied. Pure: no side effects, same inputs always
// produce the same answer.
func Can(r Role, op Operation) bool {
	if !Valid(r) {
		return false
	}
	if set, ok := matrix[op]; ok {
		if _, allowed := set[r]; allowed {
			return true
		}
	}
	if _, tiered := managerTier[op]; tiered {
		return IsManagerTier(r)
	}
	return false
}

// CanDeleteUser applies the self-protection rule on top of the matrix: no
// actor may delete or deactivate their own account, whatever their role.
func CanDeleteUser(r Role, actorID, targetID string) bool {
	if actorID != "" && actorID == targetID {
		return false
	}
	return Can(r, OpUserDelete)
}

// Owns reports whether the actor owns a resource, for the narrow set of
// read-own overrides (own profile, own orders, own payroll). Empty IDs never
// match.
func Owns(actorID, ownerID string) bool {
	return actorID != "" && actorID == ownerID
}

// Manages reports whether the actor is the direct manager of the resource's
// owning employee. Empty IDs never match.
func Manages(actorEmployeeID, ownerManagerID string) bool {
	return actorEmployeeID != "" && actorEmployeeID == ownerManagerID
}
