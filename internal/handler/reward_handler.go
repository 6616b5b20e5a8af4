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

type RewardHandler struct {
	rewardService service.RewardService
}

func NewRewardHandler(rewardService service.RewardService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

// RegisterRoutes binds the reward endpoints to the gin RouterGroup
func (h *RewardHandler) RegisterRoutes(router *gin.RouterGroup) {
	rewards := router.Group("/rewards")
	{
		rewards.GET("/my", middleware.RequireAuth(), h.ListMyRewards)

		rewards.GET("", middleware.RequireOperation(authz.OpRewardRead), h.ListRewards)
		rewards.GET("/:id", middleware.RequireOperation(authz.OpRewardRead), h.GetRewardByID)
		rewards.POST("", middleware.RequireOperation(authz.OpRewardWrite), h.CreateReward)
		rewards.POST("/:id/revoke", middleware.RequireOperation(authz.OpRewardWrite), h.RevokeReward)
	}

	// Ownership rules are applied in the service layer.
	router.GET("/employees/:id/rewards", middleware.RequireAuth(), h.ListEmployeeRewards)
}

// CreateReward handles POST /rewards and credits the employee's points
// @Summary      Create reward
// @Tags         rewards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateRewardRequest  true  "Create Reward Payload"
// @Success      201      {object}  response.Response{data=model.Reward}
// @Failure      400      {object}  response.Response
// @Router       /rewards [post]
func (h *RewardHandler) CreateReward(c *gin.Context) {
	var req service.CreateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	reward, err := h.rewardService.CreateReward(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, reward))
}

// ListRewards handles GET /rewards
// @Summary      List rewards
// @Tags         rewards
// @Produce      json
// @Security     BearerAuth
// @Param        page         query     int     false  "Page number"
// @Param        limit        query     int     false  "Items per page"
// @Param        employee_id  query     string  false  "Filter by employee"
// @Success      200          {object}  response.Response{data=object}
// @Router       /rewards [get]
func (h *RewardHandler) ListRewards(c *gin.Context) {
	p := pagination.Parse(c)

	rewards, total, err := h.rewardService.ListRewards(c.Request.Context(), p.Page, p.Limit, c.Query("employee_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, rewards, total, p.Page, p.Limit))
}

// ListMyRewards lists the caller's own rewards
// @Summary      List my rewards
// @Tags         rewards
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.Reward}
// @Router       /rewards/my [get]
func (h *RewardHandler) ListMyRewards(c *gin.Context) {
	rewards, err := h.rewardService.ListMyRewards(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rewards))
}

// ListEmployeeRewards lists one employee's rewards
// @Summary      List rewards for employee
// @Tags         rewards
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response{data=[]model.Reward}
// @Failure      403  {object}  response.Response
// @Router       /employees/{id}/rewards [get]
func (h *RewardHandler) ListEmployeeRewards(c *gin.Context) {
	rewards, err := h.rewardService.ListEmployeeRewards(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rewards))
}

// GetRewardByID handles GET /rewards/:id
// @Summary      Get reward by ID
// @Tags         rewards
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reward ID"
// @Success      200  {object}  response.Response{data=model.Reward}
// @Failure      404  {object}  response.Response
// @Router       /rewards/{id} [get]
func (h *RewardHandler) GetRewardByID(c *gin.Context) {
	reward, err := h.rewardService.GetRewardByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, reward))
}

// RevokeReward revokes a reward and claws the points back
// @Summary      Revoke reward
// @Tags         rewards
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reward ID"
// @Success      200  {object}  response.Response{data=model.Reward}
// @Failure      400  {object}  response.Response
// @Router       /rewards/{id}/revoke [post]
func (h *RewardHandler) RevokeReward(c *gin.Context) {
	reward, err := h.rewardService.RevokeReward(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, reward))
}
