package server

import (
	"net/http"
	"time"

	"ambeauty/internal/config"
	"ambeauty/internal/events"
	"ambeauty/internal/middleware"
	"ambeauty/internal/modules/auth"
	"ambeauty/internal/modules/booking"
	"ambeauty/internal/modules/review"
	"ambeauty/internal/modules/slot"
	"ambeauty/internal/observability/metrics"
	jwtsvc "ambeauty/internal/pkg/jwt"
	"ambeauty/internal/pkg/logging"
	"ambeauty/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Options wires the API. Only DB and Config are required.
type Options struct {
	DB       *gorm.DB
	Config   *config.Config
	Schedule *config.Schedule
	Logger   *logging.Logger

	// Hub receives booking events for the admin feed.
	Hub *events.Hub
	// Publisher defaults to delivering straight into Hub.
	Publisher events.Publisher
	// Registry defaults to a fresh registry with Go and process collectors.
	Registry *prometheus.Registry
}

// Server holds the router and the services main needs after startup.
type Server struct {
	Engine *gin.Engine
	Hub    *events.Hub
	Auth   *auth.Service
	Slots  *slot.Service
}

func New(opts Options) *Server {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	hub := opts.Hub
	if hub == nil {
		hub = events.NewHub()
	}
	publisher := opts.Publisher
	if publisher == nil {
		publisher = events.NewLocalPublisher(hub)
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	bookingMetrics := metrics.NewBookingMetrics(reg)
	httpMetrics := metrics.NewHTTPMetrics(reg)

	userRepo := repository.NewUserRepository(opts.DB)
	slotRepo := repository.NewTimeSlotRepository(opts.DB)
	bookingRepo := repository.NewBookingRepository(opts.DB)
	reviewRepo := repository.NewReviewRepository(opts.DB)
	txManager := repository.NewTxManager(opts.DB)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	slotService := slot.NewService(slotRepo, opts.Schedule, bookingMetrics)
	slotHandler := slot.NewHandler(slotService)

	bookingService := booking.NewService(bookingRepo, slotService, txManager, publisher, bookingMetrics, logger.With("module", "booking"))
	bookingHandler := booking.NewHandler(bookingService)

	reviewService := review.NewService(reviewRepo, bookingRepo, userRepo)
	reviewHandler := review.NewHandler(reviewService)

	wsHandler := events.NewWSHandler(hub, authService, logger.With("module", "events"), cfg.CORSAllowedOrigins)

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestLogger(logger, httpMetrics),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	r.GET("/ws/bookings", wsHandler.HandleWebSocket)

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
		})

		// public
		authHandler.RegisterPublicRoutes(api)
		reviewHandler.RegisterPublicRoutes(api)

		protected := api.Group("", middleware.JWTAuth(authService))
		{
			authHandler.RegisterProtectedRoutes(protected)
			slotHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterProtectedRoutes(protected)
			reviewHandler.RegisterProtectedRoutes(protected)

			admin := protected.Group("", middleware.AdminOnly())
			slotHandler.RegisterAdminRoutes(admin)
			bookingHandler.RegisterAdminRoutes(admin)
			reviewHandler.RegisterAdminRoutes(admin)
		}
	}

	return &Server{
		Engine: r,
		Hub:    hub,
		Auth:   authService,
		Slots:  slotService,
	}
}
