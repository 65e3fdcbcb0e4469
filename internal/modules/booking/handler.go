package booking

import (
	"net/http"
	"strconv"

	"ambeauty/internal/domain"
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

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.POST("/bookings", middleware.RequireRole(domain.RoleClient), h.CreateBooking)
	protected.GET("/bookings/me", h.ListMine)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/bookings", h.ListAll)
	admin.PUT("/bookings/:id", h.UpdateStatus)
}

// CreateBooking books a time slot for the current client.
// @Summary		Book a time slot
// @Tags		Bookings
// @Security	BearerAuth
// @Param		request	body	CreateBookingRequest	true	"time_slot_id, optional service and notes"
// @Success		201	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{} "validation error or service mismatch"
// @Failure		404	{object}	map[string]interface{} "slot not found or not available"
// @Failure		409	{object}	map[string]interface{} "slot already booked"
// @Router		/bookings [POST]
func (h *Handler) CreateBooking(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), principal, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) ListMine(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	bookings, err := h.service.ListForCustomer(c.Request.Context(), principal.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) ListAll(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query")
		return
	}

	bookings, err := h.service.ListAll(c.Request.Context(), principal, q)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

// UpdateStatus
// @Summary		Change a booking's status
// @Tags		Bookings
// @Security	BearerAuth
// @Param		id		path	int					true	"booking id"
// @Param		request	body	UpdateStatusRequest	true	"confirmed, cancelled or completed"
// @Success		200	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{} "unknown status or illegal transition"
// @Failure		404	{object}	map[string]interface{} "booking not found"
// @Router		/bookings/{id} [PUT]
func (h *Handler) UpdateStatus(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "status is required")
		return
	}

	b, err := h.service.SetStatus(c.Request.Context(), principal, id, domain.BookingStatus(req.Status))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}
