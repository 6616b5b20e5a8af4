package service

import (
	"context"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory fakes backing the service tests. They keep just enough state
// for the flows under test and return gorm.ErrRecordNotFound like the
// real repositories do.

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	users  map[uuid.UUID]*model.User
	tokens map[string]*model.RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[uuid.UUID]*model.User),
		tokens: make(map[string]*model.RefreshToken),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) List(ctx context.Context, page, limit int, role, search string) ([]model.User, int64, error) {
	var users []model.User
	for _, user := range f.users {
		if role != "" && user.Role != role {
			continue
		}
		users = append(users, *user)
	}
	return users, int64(len(users)), nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	f.tokens[token.Token] = token
	return nil
}

func (f *fakeUserRepo) FindRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	stored, ok := f.tokens[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return stored, nil
}

func (f *fakeUserRepo) DeleteRefreshToken(ctx context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

func (f *fakeUserRepo) DeleteRefreshTokensForUser(ctx context.Context, userID uuid.UUID) error {
	for key, stored := range f.tokens {
		if stored.UserID == userID {
			delete(f.tokens, key)
		}
	}
	return nil
}

type fakeEmployeeRepo struct {
	employees map[uuid.UUID]*model.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[uuid.UUID]*model.Employee)}
}

func (f *fakeEmployeeRepo) Create(ctx context.Context, employee *model.Employee) error {
	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}
	f.employees[employee.ID] = employee
	return nil
}

func (f *fakeEmployeeRepo) Update(ctx context.Context, employee *model.Employee) error {
	if _, ok := f.employees[employee.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.employees[employee.ID] = employee
	return nil
}

func (f *fakeEmployeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	employee, ok := f.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return employee, nil
}

func (f *fakeEmployeeRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Employee, error) {
	for _, employee := range f.employees {
		if employee.UserID == userID {
			return employee, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepo) FindByNumber(ctx context.Context, number string) (*model.Employee, error) {
	for _, employee := range f.employees {
		if employee.EmployeeNumber == number {
			return employee, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepo) List(ctx context.Context, page, limit int, departmentID *uuid.UUID, status, search string) ([]model.Employee, int64, error) {
	var employees []model.Employee
	for _, employee := range f.employees {
		employees = append(employees, *employee)
	}
	return employees, int64(len(employees)), nil
}

func (f *fakeEmployeeRepo) ListByManager(ctx context.Context, managerID uuid.UUID) ([]model.Employee, error) {
	var employees []model.Employee
	for _, employee := range f.employees {
		if employee.ManagerID != nil && *employee.ManagerID == managerID {
			employees = append(employees, *employee)
		}
	}
	return employees, nil
}

func (f *fakeEmployeeRepo) CountActiveByDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error) {
	var count int64
	for _, employee := range f.employees {
		if employee.DepartmentID != nil && *employee.DepartmentID == departmentID && employee.IsActive {
			count++
		}
	}
	return count, nil
}

type fakeDepartmentRepo struct {
	departments map[uuid.UUID]*model.Department
}

func newFakeDepartmentRepo() *fakeDepartmentRepo {
	return &fakeDepartmentRepo{departments: make(map[uuid.UUID]*model.Department)}
}

func (f *fakeDepartmentRepo) Create(ctx context.Context, department *model.Department) error {
	if department.ID == uuid.Nil {
		department.ID = uuid.New()
	}
	f.departments[department.ID] = department
	return nil
}

func (f *fakeDepartmentRepo) Update(ctx context.Context, department *model.Department) error {
	if _, ok := f.departments[department.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.departments[department.ID] = department
	return nil
}

func (f *fakeDepartmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.departments, id)
	return nil
}

func (f *fakeDepartmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	department, ok := f.departments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return department, nil
}

func (f *fakeDepartmentRepo) FindByName(ctx context.Context, name string) (*model.Department, error) {
	for _, department := range f.departments {
		if department.Name == name {
			return department, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDepartmentRepo) List(ctx context.Context, page, limit int) ([]model.Department, int64, error) {
	var departments []model.Department
	for _, department := range f.departments {
		departments = append(departments, *department)
	}
	return departments, int64(len(departments)), nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (f *fakeCustomerRepo) Create(ctx context.Context, customer *model.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) Update(ctx context.Context, customer *model.Customer) error {
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.customers, id)
	return nil
}

func (f *fakeCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return customer, nil
}

func (f *fakeCustomerRepo) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	for _, customer := range f.customers {
		if customer.Email == email {
			return customer, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCustomerRepo) List(ctx context.Context, page, limit int, customerType, search string) ([]model.Customer, int64, error) {
	var customers []model.Customer
	for _, customer := range f.customers {
		customers = append(customers, *customer)
	}
	return customers, int64(len(customers)), nil
}

type fakeInventoryRepo struct {
	items map[uuid.UUID]*model.InventoryItem
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{items: make(map[uuid.UUID]*model.InventoryItem)}
}

func (f *fakeInventoryRepo) Create(ctx context.Context, item *model.InventoryItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	f.items[item.ID] = item
	return nil
}

func (f *fakeInventoryRepo) Update(ctx context.Context, item *model.InventoryItem) error {
	if _, ok := f.items[item.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.items[item.ID] = item
	return nil
}

func (f *fakeInventoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

func (f *fakeInventoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (f *fakeInventoryRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeInventoryRepo) FindByProductCode(ctx context.Context, code string) (*model.InventoryItem, error) {
	for _, item := range f.items {
		if item.ProductCode == code {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInventoryRepo) List(ctx context.Context, page, limit int, filter repository.InventoryFilter) ([]model.InventoryItem, int64, error) {
	var items []model.InventoryItem
	for _, item := range f.items {
		items = append(items, *item)
	}
	return items, int64(len(items)), nil
}

func (f *fakeInventoryRepo) ListLowStock(ctx context.Context) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	for _, item := range f.items {
		if item.QuantityInStock <= item.MinimumStockLevel {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (f *fakeInventoryRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	item, ok := f.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.QuantityInStock = quantity
	return nil
}

func (f *fakeInventoryRepo) DistinctCategories(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeInventoryRepo) DistinctBrands(ctx context.Context) ([]string, error) {
	return nil, nil
}

type fakeOrderRepo struct {
	orders map[uuid.UUID]*model.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *model.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) Update(ctx context.Context, order *model.Order) error {
	if _, ok := f.orders[order.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) ReplaceItems(ctx context.Context, orderID uuid.UUID, items []model.OrderItem) error {
	order, ok := f.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Items = items
	return nil
}

func (f *fakeOrderRepo) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (f *fakeOrderRepo) FindByNumber(ctx context.Context, number string) (*model.Order, error) {
	for _, order := range f.orders {
		if order.OrderNumber == number {
			return order, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepo) List(ctx context.Context, page, limit int, filter repository.OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	for _, order := range f.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.SalesRepID != nil && (order.SalesRepID == nil || *order.SalesRepID != *filter.SalesRepID) {
			continue
		}
		orders = append(orders, *order)
	}
	return orders, int64(len(orders)), nil
}

func (f *fakeOrderRepo) CountForDay(ctx context.Context, day time.Time) (int64, error) {
	return int64(len(f.orders)), nil
}

type fakePayrollRepo struct {
	payrolls map[uuid.UUID]*model.Payroll
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{payrolls: make(map[uuid.UUID]*model.Payroll)}
}

func (f *fakePayrollRepo) Create(ctx context.Context, payroll *model.Payroll) error {
	if payroll.ID == uuid.Nil {
		payroll.ID = uuid.New()
	}
	f.payrolls[payroll.ID] = payroll
	return nil
}

func (f *fakePayrollRepo) Update(ctx context.Context, payroll *model.Payroll) error {
	if _, ok := f.payrolls[payroll.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.payrolls[payroll.ID] = payroll
	return nil
}

func (f *fakePayrollRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Payroll, error) {
	payroll, ok := f.payrolls[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return payroll, nil
}

func (f *fakePayrollRepo) FindByEmployeeAndPeriod(ctx context.Context, employeeID uuid.UUID, periodStart, periodEnd time.Time) (*model.Payroll, error) {
	for _, payroll := range f.payrolls {
		if payroll.EmployeeID == employeeID &&
			payroll.PayPeriodStart.Equal(periodStart) &&
			payroll.PayPeriodEnd.Equal(periodEnd) {
			return payroll, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepo) List(ctx context.Context, page, limit int, employeeID *uuid.UUID, status string) ([]model.Payroll, int64, error) {
	var payrolls []model.Payroll
	for _, payroll := range f.payrolls {
		payrolls = append(payrolls, *payroll)
	}
	return payrolls, int64(len(payrolls)), nil
}

func (f *fakePayrollRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.Payroll, error) {
	var payrolls []model.Payroll
	for _, payroll := range f.payrolls {
		if payroll.EmployeeID == employeeID {
			payrolls = append(payrolls, *payroll)
		}
	}
	return payrolls, nil
}

type fakeRewardRepo struct {
	rewards map[uuid.UUID]*model.Reward
}

func newFakeRewardRepo() *fakeRewardRepo {
	return &fakeRewardRepo{rewards: make(map[uuid.UUID]*model.Reward)}
}

func (f *fakeRewardRepo) Create(ctx context.Context, reward *model.Reward) error {
	if reward.ID == uuid.Nil {
		reward.ID = uuid.New()
	}
	f.rewards[reward.ID] = reward
	return nil
}

func (f *fakeRewardRepo) Update(ctx context.Context, reward *model.Reward) error {
	if _, ok := f.rewards[reward.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.rewards[reward.ID] = reward
	return nil
}

func (f *fakeRewardRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Reward, error) {
	reward, ok := f.rewards[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return reward, nil
}

func (f *fakeRewardRepo) List(ctx context.Context, page, limit int, employeeID *uuid.UUID) ([]model.Reward, int64, error) {
	var rewards []model.Reward
	for _, reward := range f.rewards {
		if employeeID != nil && reward.EmployeeID != *employeeID {
			continue
		}
		rewards = append(rewards, *reward)
	}
	return rewards, int64(len(rewards)), nil
}

func (f *fakeRewardRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.Reward, error) {
	var rewards []model.Reward
	for _, reward := range f.rewards {
		if reward.EmployeeID == employeeID {
			rewards = append(rewards, *reward)
		}
	}
	return rewards, nil
}

type fakeAuditRepo struct {
	entries []model.AuditLog
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{}
}

func (f *fakeAuditRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(ctx context.Context, page, limit int, filter repository.AuditFilter) ([]model.AuditLog, int64, error) {
	return f.entries, int64(len(f.entries)), nil
}

func (f *fakeAuditRepo) ListByRecord(ctx context.Context, tableName, recordID string) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	for _, entry := range f.entries {
		if entry.TableName == tableName && entry.RecordID == recordID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// countOps tallies audit entries by operation for assertions.
func (f *fakeAuditRepo) countOps(op string) int {
	var count int
	for _, entry := range f.entries {
		if entry.Operation == op {
			count++
		}
	}
	return count
}
