package handler

import (
	"net/http"

	"backend/internal/authz"
	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct {
	expenseService service.ExpenseService
}

func NewExpenseHandler(expenseService service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// RegisterRoutes binds the expense endpoints to the gin RouterGroup.
// Any manager-tier role can submit; reading and approval stay with
// finance.
func (h *ExpenseHandler) RegisterRoutes(router *gin.RouterGroup) {
	expenses := router.Group("/expenses")
	{
		expenses.GET("", middleware.RequireOperation(authz.OpExpenseRead), h.ListExpenses)
		expenses.GET("/:id", middleware.RequireOperation(authz.OpExpenseRead), h.GetExpenseByID)
		expenses.POST("", middleware.RequireOperation(authz.OpExpenseWrite), h.CreateExpense)
		expenses.PUT("/:id", middleware.RequireOperation(authz.OpExpenseWrite), h.UpdateExpense)
		expenses.POST("/:id/approve", middleware.RequireOperation(authz.OpExpenseApprove), h.ApproveExpense)
		expenses.POST("/:id/reject", middleware.RequireOperation(authz.OpExpenseApprove), h.RejectExpense)
		expenses.POST("/:id/pay", middleware.RequireOperation(authz.OpExpenseApprove), h.MarkExpensePaid)
	}
}

// CreateExpense handles POST /expenses
// @Summary      Submit expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateExpenseRequest  true  "Create Expense Payload"
// @Success      201      {object}  response.Response{data=model.Expense}
// @Failure      400      {object}  response.Response
// @Router       /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req service.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, expense))
}

// ListExpenses handles GET /expenses
// @Summary      List expenses
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Items per page"
// @Param        status query     string  false  "Filter by status"
// @Param        type   query     string  false  "Filter by expense type"
// @Success      200    {object}  response.Response{data=object}
// @Router       /expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	p := pagination.Parse(c)

	expenses, total, err := h.expenseService.ListExpenses(c.Request.Context(), p.Page, p.Limit,
		c.Query("status"), c.Query("type"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, expenses, total, p.Page, p.Limit))
}

// GetExpenseByID handles GET /expenses/:id
// @Summary      Get expense by ID
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Expense ID"
// @Success      200  {object}  response.Response{data=model.Expense}
// @Failure      404  {object}  response.Response
// @Router       /expenses/{id} [get]
func (h *ExpenseHandler) GetExpenseByID(c *gin.Context) {
	expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}

// UpdateExpense handles PUT /expenses/:id (pending expenses only)
// @Summary      Update expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Expense ID"
// @Param        payload  body      service.UpdateExpenseRequest  true  "Update Expense Payload"
// @Success      200      {object}  response.Response{data=model.Expense}
// @Failure      400      {object}  response.Response
// @Router       /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	var req service.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}

// ApproveExpense moves a pending expense to approved
// @Summary      Approve expense
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Expense ID"
// @Success      200  {object}  response.Response{data=model.Expense}
// @Failure      400  {object}  response.Response
// @Router       /expenses/{id}/approve [post]
func (h *ExpenseHandler) ApproveExpense(c *gin.Context) {
	expense, err := h.expenseService.ApproveExpense(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}

// RejectExpense moves a pending expense to rejected
// @Summary      Reject expense
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Expense ID"
// @Success      200  {object}  response.Response{data=model.Expense}
// @Failure      400  {object}  response.Response
// @Router       /expenses/{id}/reject [post]
func (h *ExpenseHandler) RejectExpense(c *gin.Context) {
	expense, err := h.expenseService.RejectExpense(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}

// MarkExpensePaid moves an approved expense to paid
// @Summary      Mark expense paid
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Expense ID"
// @Success      200  {object}  response.Response{data=model.Expense}
// @Failure      400  {object}  response.Response
// @Router       /expenses/{id}/pay [post]
func (h *ExpenseHandler) MarkExpensePaid(c *gin.Context) {
	expense, err := h.expenseService.MarkExpensePaid(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}
