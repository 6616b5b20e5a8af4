package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/calc"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateInvoiceRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	DueDate string `json:"due_date"`
	Notes   string `json:"notes"`
}

type RecordPaymentRequest struct {
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod    string          `json:"payment_method" binding:"required"`
	PaymentReference string          `json:"payment_reference"`
}

type InvoiceService interface {
	CreateInvoiceFromOrder(ctx context.Context, actor Actor, req CreateInvoiceRequest) (*model.Invoice, error)
	GetInvoiceByID(ctx context.Context, id string) (*model.Invoice, error)
	ListInvoices(ctx context.Context, page, limit int, status, customerID string) ([]model.Invoice, int64, error)
	ListOverdueInvoices(ctx context.Context) ([]model.Invoice, error)
	RecordPayment(ctx context.Context, actor Actor, id string, req RecordPaymentRequest) (*model.Invoice, error)
	CancelInvoice(ctx context.Context, actor Actor, id string) (*model.Invoice, error)
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	orderRepo   repository.OrderRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	orderRepo repository.OrderRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		orderRepo:   orderRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

// nextInvoiceNumber builds INV-YYYYMMDD-NNNN from the day's running count.
func (s *invoiceService) nextInvoiceNumber(ctx context.Context, now time.Time) (string, error) {
	count, err := s.invoiceRepo.CountForDay(ctx, now)
	if err != nil {
		return "", fmt.Errorf("failed to count invoices: %w", err)
	}
	return fmt.Sprintf("INV-%s-%04d", now.Format("20060102"), count+1), nil
}

// CreateInvoiceFromOrder copies the order's financial header onto a new
// invoice. One invoice per order.
func (s *invoiceService) CreateInvoiceFromOrder(ctx context.Context, actor Actor, req CreateInvoiceRequest) (*model.Invoice, error) {
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid order id", ErrInvalidInput)
	}

	order, err := s.orderRepo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order not found", ErrInvalidInput)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if order.Status == model.OrderStatusCancelled {
		return nil, fmt.Errorf("%w: cannot invoice a cancelled order", ErrInvalidInput)
	}
	if _, err := s.invoiceRepo.FindByOrderID(ctx, orderID); err == nil {
		return nil, fmt.Errorf("%w: order already invoiced", ErrDuplicate)
	}

	dueDate, err := parseOptionalDate(req.DueDate, "due_date")
	if err != nil {
		return nil, err
	}
	if dueDate == nil {
		due := time.Now().AddDate(0, 0, 30)
		dueDate = &due
	}

	now := time.Now()
	invoice := &model.Invoice{
		OrderID:        &orderID,
		CustomerID:     order.CustomerID,
		InvoiceDate:    now,
		DueDate:        dueDate,
		Subtotal:       order.Subtotal,
		TaxRate:        order.TaxRate,
		TaxAmount:      order.TaxAmount,
		DiscountAmount: order.DiscountAmount,
		TotalAmount:    order.Total,
		PaidAmount:     decimal.Zero,
		BalanceDue:     order.Total,
		Status:         model.InvoiceStatusUnpaid,
		Notes:          req.Notes,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		number, err := s.nextInvoiceNumber(txCtx, now)
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = number

		if err := s.invoiceRepo.Create(txCtx, invoice); err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		newValues, _ := json.Marshal(map[string]interface{}{
			"invoice_number": invoice.InvoiceNumber,
			"order_id":       orderID.String(),
			"total_amount":   invoice.TotalAmount,
		})
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "invoices",
			RecordID:  invoice.ID.String(),
			Operation: model.AuditOpInsert,
			NewValues: string(newValues),
			UserID:    actor.userUUID(),
			UserEmail: actor.Email,
			IPAddress: actor.IPAddress,
			UserAgent: actor.UserAgent,
			Severity:  model.AuditSeverityInfo,
		})
	})
	if err != nil {
		return nil, err
	}

	return invoice, nil
}

func (s *invoiceService) GetInvoiceByID(ctx context.Context, id string) (*model.Invoice, error) {
	iid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid invoice id", ErrInvalidInput)
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, iid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return invoice, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, page, limit int, status, customerID string) ([]model.Invoice, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	cid, err := parseOptionalUUID(customerID, "customer id")
	if err != nil {
		return nil, 0, err
	}
	return s.invoiceRepo.List(ctx, page, limit, status, cid)
}

func (s *invoiceService) ListOverdueInvoices(ctx context.Context) ([]model.Invoice, error) {
	return s.invoiceRepo.ListOverdue(ctx, time.Now())
}

// RecordPayment applies a payment, recomputes the balance and rolls the
// status forward (unpaid -> partial -> paid). Overpayment is rejected.
func (s *invoiceService) RecordPayment(ctx context.Context, actor Actor, id string, req RecordPaymentRequest) (*model.Invoice, error) {
	iid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid invoice id", ErrInvalidInput)
	}

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrInvalidInput)
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, iid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if invoice.Status == model.InvoiceStatusCancelled {
		return nil, fmt.Errorf("%w: invoice is cancelled", ErrInvalidInput)
	}
	if invoice.Status == model.InvoiceStatusPaid {
		return nil, fmt.Errorf("%w: invoice already paid", ErrInvalidInput)
	}
	if req.Amount.GreaterThan(invoice.BalanceDue) {
		return nil, fmt.Errorf("%w: payment exceeds balance due", ErrInvalidInput)
	}

	oldValues, _ := json.Marshal(map[string]interface{}{
		"paid_amount": invoice.PaidAmount, "balance_due": invoice.BalanceDue, "status": invoice.Status,
	})

	now := time.Now()
	invoice.PaidAmount = calc.Round(invoice.PaidAmount.Add(req.Amount))
	invoice.BalanceDue = calc.Round(invoice.TotalAmount.Sub(invoice.PaidAmount))
	invoice.PaymentDate = &now
	invoice.PaymentMethod = req.PaymentMethod
	invoice.PaymentReference = req.PaymentReference
	if invoice.BalanceDue.IsZero() {
		invoice.Status = model.InvoiceStatusPaid
	} else {
		invoice.Status = model.InvoiceStatusPartial
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.invoiceRepo.Update(txCtx, invoice); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		// Keep the order's payment status in step.
		if invoice.OrderID != nil {
			order, err := s.orderRepo.FindByIDWithItems(txCtx, *invoice.OrderID)
			if err == nil {
				if invoice.Status == model.InvoiceStatusPaid {
					order.PaymentStatus = model.PaymentStatusPaid
				} else {
					order.PaymentStatus = model.PaymentStatusPartial
				}
				if err := s.orderRepo.Update(txCtx, order); err != nil {
					return fmt.Errorf("failed to update order payment status: %w", err)
				}
			}
		}

		newValues, _ := json.Marshal(map[string]interface{}{
			"paid_amount": invoice.PaidAmount, "balance_due": invoice.BalanceDue, "status": invoice.Status,
			"payment_method": req.PaymentMethod, "payment_reference": req.PaymentReference,
		})
		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "invoices",
			RecordID:  invoice.ID.String(),
			Operation: model.AuditOpUpdate,
			OldValues: string(oldValues),
			NewValues: string(newValues),
			UserID:    actor.userUUID(),
			UserEmail: actor.Email,
			IPAddress: actor.IPAddress,
			UserAgent: actor.UserAgent,
			Severity:  model.AuditSeverityInfo,
		})
	})
	if err != nil {
		return nil, err
	}

	return invoice, nil
}

func (s *invoiceService) CancelInvoice(ctx context.Context, actor Actor, id string) (*model.Invoice, error) {
	iid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid invoice id", ErrInvalidInput)
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, iid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if invoice.Status == model.InvoiceStatusCancelled {
		return nil, fmt.Errorf("%w: invoice already cancelled", ErrInvalidInput)
	}
	if invoice.PaidAmount.IsPositive() {
		return nil, fmt.Errorf("%w: invoice with recorded payments cannot be cancelled", ErrInvalidInput)
	}

	invoice.Status = model.InvoiceStatusCancelled

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.invoiceRepo.Update(txCtx, invoice); err != nil {
			return fmt.Errorf("failed to cancel invoice: %w", err)
		}

		return s.auditRepo.Create(txCtx, &model.AuditLog{
			TableName: "invoices",
			RecordID:  invoice.ID.String(),
			Operation: model.AuditOpCancel,
			UserID:    actor.userUUID(),
			UserEmail: actor.Email,
			IPAddress: actor.IPAddress,
			UserAgent: actor.UserAgent,
			Severity:  model.AuditSeverityWarning,
		})
	})
	if err != nil {
		return nil, err
	}

	return invoice, nil
}
