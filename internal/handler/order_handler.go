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

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RegisterRoutes binds the order endpoints to the gin RouterGroup
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	{
		orders.GET("/my", middleware.RequireAuth(), h.ListMyOrders)

		orders.GET("", middleware.RequireOperation(authz.OpOrderRead), h.ListOrders)
		orders.GET("/:id", middleware.RequireOperation(authz.OpOrderRead), h.GetOrderByID)
		orders.POST("", middleware.RequireOperation(authz.OpOrderWrite), h.CreateOrder)
		orders.PUT("/:id", middleware.RequireOperation(authz.OpOrderWrite), h.UpdateOrder)
		orders.POST("/:id/cancel", middleware.RequireOperation(authz.OpOrderWrite), h.CancelOrder)
	}

	router.GET("/customers/:id/orders", middleware.RequireOperation(authz.OpOrderRead), h.ListCustomerOrders)
}

// CreateOrder handles POST /orders. Stock is decremented per line under a
// row lock and the order totals are derived server side.
// @Summary      Create order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateOrderRequest  true  "Create Order Payload"
// @Success      201      {object}  response.Response{data=model.Order}
// @Failure      400      {object}  response.Response
// @Router       /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// ListCustomerOrders lists the orders placed by one customer
// @Summary      List orders for customer
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Customer ID"
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Items per page"
// @Success      200    {object}  response.Response{data=object}
// @Router       /customers/{id}/orders [get]
func (h *OrderHandler) ListCustomerOrders(c *gin.Context) {
	p := pagination.Parse(c)

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), p.Page, p.Limit, c.Query("status"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, orders, total, p.Page, p.Limit))
}

// ListOrders handles GET /orders
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        page         query     int     false  "Page number"
// @Param        limit        query     int     false  "Items per page"
// @Param        status       query     string  false  "Filter by status"
// @Param        customer_id  query     string  false  "Filter by customer"
// @Success      200          {object}  response.Response{data=object}
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	p := pagination.Parse(c)

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), p.Page, p.Limit,
		c.Query("status"), c.Query("customer_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, orders, total, p.Page, p.Limit))
}

// ListMyOrders lists orders where the caller is the sales rep
// @Summary      List my orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Items per page"
// @Success      200    {object}  response.Response{data=object}
// @Router       /orders/my [get]
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	p := pagination.Parse(c)

	orders, total, err := h.orderService.ListMyOrders(c.Request.Context(), actorFrom(c), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, orders, total, p.Page, p.Limit))
}

// GetOrderByID handles GET /orders/:id with items preloaded
// @Summary      Get order by ID
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=model.Order}
// @Failure      404  {object}  response.Response
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	order, err := h.orderService.GetOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// UpdateOrder handles PUT /orders/:id. Delivered and cancelled orders
// are immutable.
// @Summary      Update order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Order ID"
// @Param        payload  body      service.UpdateOrderRequest  true  "Update Order Payload"
// @Success      200      {object}  response.Response{data=model.Order}
// @Failure      400      {object}  response.Response
// @Router       /orders/{id} [put]
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// CancelOrder handles POST /orders/:id/cancel and restores stock
// @Summary      Cancel order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true   "Order ID"
// @Param        payload  body      object  false  "Cancellation reason"
// @Success      200      {object}  response.Response{data=model.Order}
// @Failure      400      {object}  response.Response
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	order, err := h.orderService.CancelOrder(c.Request.Context(), actorFrom(c), c.Param("id"), body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}
