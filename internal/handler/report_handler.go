package handler

import (
	"net/http"

	"backend/internal/authz"
	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes binds the report endpoints to the gin RouterGroup
func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.GET("/dashboard", middleware.RequireAuth(), h.Dashboard)
		reports.GET("/sales", middleware.RequireOperation(authz.OpSalesReportRead), h.SalesReport)
		reports.GET("/inventory", middleware.RequireOperation(authz.OpInventoryReportRead), h.InventoryReport)
		reports.GET("/payroll", middleware.RequireOperation(authz.OpPayrollReportRead), h.PayrollReport)
		reports.GET("/financial", middleware.RequireOperation(authz.OpFinancialReportRead), h.FinancialReport)
		reports.GET("/performance", middleware.RequireOperation(authz.OpPerformanceReportRead), h.PerformanceReport)
	}
}

// Dashboard returns the report sections the caller's role may read
// @Summary      Role-shaped dashboard
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.DashboardResponse}
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reportService.Dashboard(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, dashboard))
}

// SalesReport handles GET /reports/sales
// @Summary      Sales report
// @Description  Order totals, status breakdown, top customers and rep ranking for a date range
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        start_date  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "End date (YYYY-MM-DD)"
// @Success      200         {object}  response.Response{data=model.SalesSummary}
// @Router       /reports/sales [get]
func (h *ReportHandler) SalesReport(c *gin.Context) {
	report, err := h.reportService.SalesReport(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// InventoryReport handles GET /reports/inventory
// @Summary      Inventory report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.InventoryReport}
// @Router       /reports/inventory [get]
func (h *ReportHandler) InventoryReport(c *gin.Context) {
	report, err := h.reportService.InventoryReport(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// PayrollReport handles GET /reports/payroll
// @Summary      Payroll report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        start_date  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "End date (YYYY-MM-DD)"
// @Success      200         {object}  response.Response{data=model.PayrollSummary}
// @Router       /reports/payroll [get]
func (h *ReportHandler) PayrollReport(c *gin.Context) {
	report, err := h.reportService.PayrollReport(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// FinancialReport handles GET /reports/financial
// @Summary      Financial report
// @Description  Revenue, expenses, payroll and net income for a date range
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        start_date  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "End date (YYYY-MM-DD)"
// @Success      200         {object}  response.Response{data=model.FinancialSummary}
// @Router       /reports/financial [get]
func (h *ReportHandler) FinancialReport(c *gin.Context) {
	report, err := h.reportService.FinancialReport(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// PerformanceReport handles GET /reports/performance
// @Summary      Employee performance report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        start_date  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "End date (YYYY-MM-DD)"
// @Success      200         {object}  response.Response{data=[]model.PerformanceEntry}
// @Router       /reports/performance [get]
func (h *ReportHandler) PerformanceReport(c *gin.Context) {
	report, err := h.reportService.PerformanceReport(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}
