package slot

import (
	"net/http"
	"strconv"

	"ambeauty/internal/middleware"
	"ambeauty/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterProtectedRoutes mounts routes open to any signed-in user.
func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/time-slots/available", h.ListAvailable)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	slots := admin.Group("/time-slots")
	{
		slots.POST("", h.CreateSlot)
		slots.GET("", h.ListAll)
		slots.PUT("/:id", h.SetAvailability)
		slots.DELETE("/:id", h.DeleteSlot)
	}
}

// CreateSlot publishes a bookable slot.
// @Summary		Create a time slot
// @Tags		Time slots
// @Security	BearerAuth
// @Param		request	body	CreateSlotRequest	true	"date, time, optional service"
// @Success		201	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{} "bad date, time or service"
// @Failure		409	{object}	map[string]interface{} "slot already exists"
// @Router		/time-slots [POST]
func (h *Handler) CreateSlot(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	slot, err := h.service.CreateSlot(c.Request.Context(), principal, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"time_slot": slot})
}

func (h *Handler) ListAvailable(c *gin.Context) {
	var q Query
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query")
		return
	}

	slots, err := h.service.ListAvailable(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"time_slots": slots})
}

func (h *Handler) ListAll(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	var q Query
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query")
		return
	}

	slots, err := h.service.ListAll(c.Request.Context(), principal, q)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"time_slots": slots})
}

func (h *Handler) SetAvailability(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsAvailable == nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "is_available is required")
		return
	}

	slot, err := h.service.SetAvailability(c.Request.Context(), principal, id, *req.IsAvailable)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"time_slot": slot})
}

func (h *Handler) DeleteSlot(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteSlot(c.Request.Context(), principal, id); err != nil {
		response.FromError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return 0, false
	}
	return id, true
}
