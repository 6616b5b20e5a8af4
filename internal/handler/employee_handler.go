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

type EmployeeHandler struct {
	employeeService service.EmployeeService
}

func NewEmployeeHandler(employeeService service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// RegisterRoutes binds the employee endpoints to the gin RouterGroup.
// The /me, /my-team and /:id routes are ownership-scoped; writes and the
// full listing go through the HR gate. Read access to a single record is
// decided in the service layer (self, direct manager, or HR tier).
func (h *EmployeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	employees := router.Group("/employees")
	{
		employees.GET("/me", middleware.RequireAuth(), h.GetMyProfile)
		employees.GET("/my-team", middleware.RequireAuth(), h.GetMyTeam)

		employees.GET("", middleware.RequireOperation(authz.OpEmployeeRead), h.ListEmployees)
		employees.GET("/:id", middleware.RequireAuth(), h.GetEmployeeByID)
		employees.POST("", middleware.RequireOperation(authz.OpEmployeeWrite), h.CreateEmployee)
		employees.PUT("/:id", middleware.RequireOperation(authz.OpEmployeeWrite), h.UpdateEmployee)
	}
}

// CreateEmployee handles POST /employees
// @Summary      Create employee
// @Description  Creates an employee record linked to an existing user account
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateEmployeeRequest  true  "Create Employee Payload"
// @Success      201      {object}  response.Response{data=model.Employee}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, employee))
}

// ListEmployees handles GET /employees
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        page           query     int     false  "Page number"
// @Param        limit          query     int     false  "Items per page"
// @Param        department_id  query     string  false  "Filter by department"
// @Param        status         query     string  false  "Filter by employment status"
// @Param        search         query     string  false  "Search by name or employee number"
// @Success      200            {object}  response.Response{data=object}
// @Router       /employees [get]
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	p := pagination.Parse(c)

	employees, total, err := h.employeeService.ListEmployees(c.Request.Context(), p.Page, p.Limit,
		c.Query("department_id"), c.Query("status"), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, employees, total, p.Page, p.Limit))
}

// GetEmployeeByID handles GET /employees/:id
// @Summary      Get employee by ID
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response{data=model.Employee}
// @Failure      404  {object}  response.Response
// @Router       /employees/{id} [get]
func (h *EmployeeHandler) GetEmployeeByID(c *gin.Context) {
	employee, err := h.employeeService.GetEmployeeByID(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// GetMyProfile returns the caller's own employee record
// @Summary      Get my employee profile
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.Employee}
// @Failure      404  {object}  response.Response
// @Router       /employees/me [get]
func (h *EmployeeHandler) GetMyProfile(c *gin.Context) {
	employee, err := h.employeeService.GetMyProfile(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// GetMyTeam lists employees reporting to the caller
// @Summary      Get my team
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.Employee}
// @Router       /employees/my-team [get]
func (h *EmployeeHandler) GetMyTeam(c *gin.Context) {
	team, err := h.employeeService.GetMyTeam(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, team))
}

// UpdateEmployee handles PUT /employees/:id
// @Summary      Update employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Employee ID"
// @Param        payload  body      service.UpdateEmployeeRequest  true  "Update Employee Payload"
// @Success      200      {object}  response.Response{data=model.Employee}
// @Failure      400      {object}  response.Response
// @Router       /employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req service.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	employee, err := h.employeeService.UpdateEmployee(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}
