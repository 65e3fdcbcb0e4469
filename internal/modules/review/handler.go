package review

import (
	"net/http"
	"strconv"

	"ambeauty/internal/domain"
	"ambeauty/internal/middleware"
	"ambeauty/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterPublicRoutes(public *gin.RouterGroup) {
	public.GET("/reviews", h.ListApproved)
	public.GET("/reviews/stats", h.Stats)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.POST("/reviews", middleware.RequireRole(domain.RoleClient), h.Create)
	protected.GET("/reviews/my-eligible-bookings", h.EligibleBookings)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/reviews/pending", h.ListPending)
	admin.PUT("/reviews/:id", h.Moderate)
}

// Create leaves a review on one of the caller's bookings.
// @Summary		Submit a review
// @Description	Only confirmed or completed bookings can be reviewed, once each. New reviews wait for moderation.
// @Tags		Reviews
// @Security	BearerAuth
// @Param		request	body	CreateReviewRequest	true	"booking_id, rating 1-5, optional comment"
// @Success		201	{object}		map[string]interface{}
// @Failure		400	{object}		map[string]interface{} "validation error"
// @Failure		403	{object}		map[string]interface{} "booking not eligible"
// @Failure		404	{object}		map[string]interface{} "booking not found"
// @Failure		409	{object}		map[string]interface{} "already reviewed"
// @Router		/reviews [POST]
func (h *Handler) Create(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	rv, err := h.svc.Submit(c.Request.Context(), principal, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"review": rv})
}

func (h *Handler) ListApproved(c *gin.Context) {
	reviews, err := h.svc.ListApproved(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reviews": reviews})
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) ListPending(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	reviews, err := h.svc.ListPending(c.Request.Context(), principal)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reviews": reviews})
}

func (h *Handler) EligibleBookings(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	bookings, err := h.svc.EligibleBookings(c.Request.Context(), principal)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

// Moderate
// @Summary		Approve or reject a review
// @Tags		Reviews
// @Security	BearerAuth
// @Param		id		path	int				true	"review id"
// @Param		request	body	ModerateRequest	true	"approved or rejected"
// @Success		200	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{}
// @Failure		404	{object}	map[string]interface{}
// @Router		/reviews/{id} [PUT]
func (h *Handler) Moderate(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid review id")
		return
	}

	var req ModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	rv, err := h.svc.Moderate(c.Request.Context(), principal, id, domain.ReviewStatus(req.Status))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"review": rv})
}
