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

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// RegisterRoutes binds the audit endpoints to the gin RouterGroup.
// Audit access is admin only.
func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	audit := router.Group("/audit-logs", middleware.RequireOperation(authz.OpAuditRead))
	{
		audit.GET("", h.ListAuditLogs)
		audit.GET("/record/:table/:id", h.ListByRecord)
	}
}

// ListAuditLogs handles GET /audit-logs
// @Summary      List audit logs
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        page        query     int     false  "Page number"
// @Param        limit       query     int     false  "Items per page"
// @Param        table_name  query     string  false  "Filter by table"
// @Param        operation   query     string  false  "Filter by operation"
// @Param        user_email  query     string  false  "Filter by actor email"
// @Param        date_from   query     string  false  "From date (YYYY-MM-DD)"
// @Param        date_to     query     string  false  "To date (YYYY-MM-DD)"
// @Success      200         {object}  response.Response{data=object}
// @Router       /audit-logs [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)

	var query service.AuditListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid query parameters"))
		return
	}

	entries, total, err := h.auditService.ListAuditLogs(c.Request.Context(), p.Page, p.Limit, query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, entries, total, p.Page, p.Limit))
}

// ListByRecord returns the audit trail for a single record
// @Summary      Audit trail for record
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        table  path      string  true  "Table name"
// @Param        id     path      string  true  "Record ID"
// @Success      200    {object}  response.Response{data=[]model.AuditLog}
// @Router       /audit-logs/record/{table}/{id} [get]
func (h *AuditHandler) ListByRecord(c *gin.Context) {
	entries, err := h.auditService.ListByRecord(c.Request.Context(), c.Param("table"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, entries))
}
