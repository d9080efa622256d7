package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/config"
	appointmenth "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/handler/appointment"
	authh "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/handler/auth"
	chath "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/handler/chat"
	doctorh "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/handler/doctor"
	healthh "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/handler/health"
	paymenth "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/handler/payment"
	producth "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/handler/product"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/middleware"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	pkgauth "github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/auth"
)

type Handlers struct {
	Health      *healthh.Handler
	Auth        *authh.Handler
	Doctor      *doctorh.Handler
	Appointment *appointmenth.Handler
	Payment     *paymenth.Handler
	Chat        *chath.Handler
	Product     *producth.Handler
}

type Router struct {
	engine   *gin.Engine
	handlers Handlers
	jwtSvc   pkgauth.JWTService
	metrics  *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func NewRouter(cfg *config.Config, handlers Handlers, jwtSvc pkgauth.JWTService) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:   engine,
		handlers: handlers,
		jwtSvc:   jwtSvc,
		metrics: &routerMetrics{
			requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			}, []string{"method", "path", "status"}),
			requestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			}, []string{"method", "path", "status"}),
		},
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsMiddleware(),
	)
	engine.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.Server.AllowedOrigins)))

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		engine.Use(limiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	health := api.Group("/health")
	{
		health.GET("/live", r.handlers.Health.Liveness)
		health.GET("/ready", r.handlers.Health.Readiness)
		health.GET("/metrics", r.handlers.Health.Metrics())
	}

	api.POST("/auth/login", r.handlers.Auth.Login)

	doctors := api.Group("/doctors")
	{
		doctors.GET("", r.handlers.Doctor.ListDoctors)
		doctors.GET("/:id", r.handlers.Doctor.GetDoctor)
		doctors.GET("/:id/slots", r.handlers.Doctor.GetSlots)
		doctors.PATCH("/:id/availability",
			middleware.Auth(r.jwtSvc),
			middleware.RequireRole(model.UserRoleDoctor),
			r.handlers.Doctor.UpdateAvailability)
	}

	bookings := api.Group("/bookings")
	{
		bookings.POST("", r.handlers.Appointment.CreateBooking)
		bookings.GET("", r.handlers.Appointment.ListAppointments)
		bookings.GET("/:id", r.handlers.Appointment.GetAppointment)
		bookings.PATCH("/:id/status",
			middleware.Auth(r.jwtSvc),
			middleware.RequireRole(model.UserRoleDoctor),
			r.handlers.Appointment.UpdateStatus)
		bookings.POST("/:id/payment-failure", r.handlers.Appointment.PaymentFailure)
	}

	payments := api.Group("/payments")
	{
		payments.POST("/orders", r.handlers.Payment.CreateOrder)
		payments.POST("/verify", r.handlers.Payment.VerifyPayment)
	}

	api.POST("/chat", r.handlers.Chat.Chat)
	conversations := api.Group("/conversations")
	{
		conversations.GET("", r.handlers.Chat.ListConversations)
		conversations.GET("/:id/messages", r.handlers.Chat.GetMessages)
	}

	products := api.Group("/products")
	{
		products.GET("", r.handlers.Product.ListProducts)
		products.GET("/:id", r.handlers.Product.GetProduct)
	}

	carts := api.Group("/carts")
	{
		carts.POST("", r.handlers.Product.CreateCart)
		carts.GET("/:id", r.handlers.Product.GetCart)
		carts.PUT("/:id/items", r.handlers.Product.SetCartItem)
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
