package handler

import (
	"net/http"

	"backend/internal/authz"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// RegisterRoutes binds the inventory endpoints to the gin RouterGroup
func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	inventory := router.Group("/inventory")
	{
		inventory.GET("", middleware.RequireOperation(authz.OpInventoryRead), h.ListItems)
		inventory.GET("/low-stock", middleware.RequireOperation(authz.OpInventoryRead), h.ListLowStock)
		inventory.GET("/categories", middleware.RequireOperation(authz.OpInventoryRead), h.ListCategories)
		inventory.GET("/brands", middleware.RequireOperation(authz.OpInventoryRead), h.ListBrands)
		inventory.GET("/:id", middleware.RequireOperation(authz.OpInventoryRead), h.GetItemByID)
		inventory.POST("", middleware.RequireOperation(authz.OpInventoryWrite), h.CreateItem)
		inventory.PUT("/:id", middleware.RequireOperation(authz.OpInventoryWrite), h.UpdateItem)
		inventory.DELETE("/:id", middleware.RequireOperation(authz.OpInventoryWrite), h.DeleteItem)
		inventory.POST("/:id/adjust-stock", middleware.RequireOperation(authz.OpInventoryWrite), h.AdjustStock)
	}
}

// CreateItem handles POST /inventory
// @Summary      Create inventory item
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateInventoryItemRequest  true  "Create Item Payload"
// @Success      201      {object}  response.Response{data=service.InventoryItemResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /inventory [post]
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req service.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.inventoryService.CreateItem(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// ListItems handles GET /inventory
// @Summary      List inventory items
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int     false  "Page number"
// @Param        limit     query     int     false  "Items per page"
// @Param        category  query     string  false  "Filter by category"
// @Param        brand     query     string  false  "Filter by brand"
// @Param        search    query     string  false  "Search by name or product code"
// @Success      200       {object}  response.Response{data=object}
// @Router       /inventory [get]
func (h *InventoryHandler) ListItems(c *gin.Context) {
	p := pagination.Parse(c)
	filter := repository.InventoryFilter{
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Search:   c.Query("search"),
	}

	items, total, err := h.inventoryService.ListItems(c.Request.Context(), p.Page, p.Limit, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, items, total, p.Page, p.Limit))
}

// ListLowStock lists items at or below their minimum stock level
// @Summary      List low stock items
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.InventoryItemResponse}
// @Router       /inventory/low-stock [get]
func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	items, err := h.inventoryService.ListLowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// ListCategories returns the distinct product categories
func (h *InventoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.inventoryService.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, categories))
}

// ListBrands returns the distinct product brands
func (h *InventoryHandler) ListBrands(c *gin.Context) {
	brands, err := h.inventoryService.Brands(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, brands))
}

// GetItemByID handles GET /inventory/:id
// @Summary      Get inventory item by ID
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response{data=service.InventoryItemResponse}
// @Failure      404  {object}  response.Response
// @Router       /inventory/{id} [get]
func (h *InventoryHandler) GetItemByID(c *gin.Context) {
	item, err := h.inventoryService.GetItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// UpdateItem handles PUT /inventory/:id
// @Summary      Update inventory item
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                              true  "Item ID"
// @Param        payload  body      service.UpdateInventoryItemRequest  true  "Update Item Payload"
// @Success      200      {object}  response.Response{data=service.InventoryItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /inventory/{id} [put]
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	var req service.UpdateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	item, err := h.inventoryService.UpdateItem(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteItem handles DELETE /inventory/:id (deactivation)
// @Summary      Delete inventory item
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /inventory/{id} [delete]
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	if err := h.inventoryService.DeleteItem(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Item deleted"))
}

// AdjustStock handles POST /inventory/:id/adjust-stock. Failed
// adjustments leave the stored quantity untouched.
// @Summary      Adjust stock
// @Description  Adds, subtracts or sets the quantity in stock for an item
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Item ID"
// @Param        payload  body      service.AdjustStockRequest  true  "Adjustment Payload"
// @Success      200      {object}  response.Response{data=service.InventoryItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /inventory/{id}/adjust-stock [post]
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req service.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.inventoryService.AdjustStock(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}
