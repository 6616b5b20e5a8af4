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

type PayrollHandler struct {
	payrollService service.PayrollService
}

func NewPayrollHandler(payrollService service.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService}
}

// RegisterRoutes binds the payroll endpoints to the gin RouterGroup.
// Employees can always see their own records via /my.
func (h *PayrollHandler) RegisterRoutes(router *gin.RouterGroup) {
	payrolls := router.Group("/payrolls")
	{
		payrolls.GET("/my", middleware.RequireAuth(), h.ListMyPayrolls)

		payrolls.GET("", middleware.RequireOperation(authz.OpPayrollRead), h.ListPayrolls)
		payrolls.GET("/:id", middleware.RequireAuth(), h.GetPayrollByID)
		payrolls.POST("", middleware.RequireOperation(authz.OpPayrollWrite), h.CreatePayroll)
		payrolls.PUT("/:id", middleware.RequireOperation(authz.OpPayrollWrite), h.UpdatePayroll)
		payrolls.POST("/:id/approve", middleware.RequireOperation(authz.OpPayrollApprove), h.ApprovePayroll)
		payrolls.POST("/:id/cancel", middleware.RequireOperation(authz.OpPayrollWrite), h.CancelPayroll)
	}
}

// CreatePayroll handles POST /payrolls. Totals are derived server side
// from the pay components.
// @Summary      Create payroll record
// @Tags         payrolls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreatePayrollRequest  true  "Create Payroll Payload"
// @Success      201      {object}  response.Response{data=model.Payroll}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /payrolls [post]
func (h *PayrollHandler) CreatePayroll(c *gin.Context) {
	var req service.CreatePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	payroll, err := h.payrollService.CreatePayroll(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, payroll))
}

// ListPayrolls handles GET /payrolls
// @Summary      List payroll records
// @Tags         payrolls
// @Produce      json
// @Security     BearerAuth
// @Param        page         query     int     false  "Page number"
// @Param        limit        query     int     false  "Items per page"
// @Param        employee_id  query     string  false  "Filter by employee"
// @Param        status       query     string  false  "Filter by status"
// @Success      200          {object}  response.Response{data=object}
// @Router       /payrolls [get]
func (h *PayrollHandler) ListPayrolls(c *gin.Context) {
	p := pagination.Parse(c)

	payrolls, total, err := h.payrollService.ListPayrolls(c.Request.Context(), p.Page, p.Limit,
		c.Query("employee_id"), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, payrolls, total, p.Page, p.Limit))
}

// ListMyPayrolls lists the caller's own payroll records
// @Summary      List my payroll records
// @Tags         payrolls
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.Payroll}
// @Router       /payrolls/my [get]
func (h *PayrollHandler) ListMyPayrolls(c *gin.Context) {
	payrolls, err := h.payrollService.ListMyPayrolls(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, payrolls))
}

// GetPayrollByID handles GET /payrolls/:id. Non-payroll roles can only
// fetch their own records.
// @Summary      Get payroll by ID
// @Tags         payrolls
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Payroll ID"
// @Success      200  {object}  response.Response{data=model.Payroll}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /payrolls/{id} [get]
func (h *PayrollHandler) GetPayrollByID(c *gin.Context) {
	payroll, err := h.payrollService.GetPayrollByID(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, payroll))
}

// UpdatePayroll handles PUT /payrolls/:id (pending records only)
// @Summary      Update payroll record
// @Tags         payrolls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Payroll ID"
// @Param        payload  body      service.UpdatePayrollRequest  true  "Update Payroll Payload"
// @Success      200      {object}  response.Response{data=model.Payroll}
// @Failure      400      {object}  response.Response
// @Router       /payrolls/{id} [put]
func (h *PayrollHandler) UpdatePayroll(c *gin.Context) {
	var req service.UpdatePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	payroll, err := h.payrollService.UpdatePayroll(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, payroll))
}

// ApprovePayroll marks a pending record paid
// @Summary      Approve payroll record
// @Tags         payrolls
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Payroll ID"
// @Success      200  {object}  response.Response{data=model.Payroll}
// @Failure      400  {object}  response.Response
// @Router       /payrolls/{id}/approve [post]
func (h *PayrollHandler) ApprovePayroll(c *gin.Context) {
	payroll, err := h.payrollService.ApprovePayroll(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, payroll))
}

// CancelPayroll cancels a pending record
// @Summary      Cancel payroll record
// @Tags         payrolls
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Payroll ID"
// @Success      200  {object}  response.Response{data=model.Payroll}
// @Failure      400  {object}  response.Response
// @Router       /payrolls/{id}/cancel [post]
func (h *PayrollHandler) CancelPayroll(c *gin.Context) {
	payroll, err := h.payrollService.CancelPayroll(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, payroll))
}
