package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/config"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/email"
	appointmentHandler "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/handler/appointment"
	authHandler "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/handler/auth"
	chatHandler "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/handler/chat"
	doctorHandler "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/handler/doctor"
	healthHandler "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/handler/health"
	paymentHandler "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/handler/payment"
	productHandler "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/handler/product"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/repository/postgres"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/router"
	appointmentService "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/appointment"
	authService "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/auth"
	bookingService "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/booking"
	chatService "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/chat"
	doctorService "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/doctor"
	eventService "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/event"
	notificationService "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/notification"
	paymentService "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/payment"
	productService "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/product"
	pkgauth "github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/auth"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/logger"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/metrics"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/security"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("ayushgyan")

	if err := validator.RegisterCustom(appointmentService.Slots); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// repositories
	doctorRepo := postgres.NewDoctorRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	productRepo := postgres.NewProductRepository(db)
	cartRepo := postgres.NewCartRepository(db)
	chatRepo := postgres.NewChatRepository(db)
	userRepo := postgres.NewUserRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// services
	jwtSvc := pkgauth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	hasher := security.NewBcryptComparer()
	emailSvc := email.NewService(cfg.SMTP)

	eventSvc := eventService.NewService(outboxRepo, appLogger)
	notifSvc := notificationService.NewService(emailSvc, appLogger)
	doctorSvc := doctorService.NewService(doctorRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, eventSvc)
	paymentSvc := paymentService.NewService(cfg.Razorpay, appMetrics, appLogger)
	bookingSvc := bookingService.NewService(appointmentRepo, doctorRepo, paymentSvc, eventSvc, notifSvc, appMetrics, appLogger)
	chatSvc := chatService.NewService(chatRepo, cfg.Chat, appMetrics, appLogger)
	productSvc := productService.NewService(productRepo, cartRepo)
	authSvc := authService.NewService(userRepo, jwtSvc, hasher)

	// handlers
	handlers := router.Handlers{
		Health:      healthHandler.NewHandler(db),
		Auth:        authHandler.NewHandler(authSvc),
		Doctor:      doctorHandler.NewHandler(doctorSvc, appointmentSvc),
		Appointment: appointmentHandler.NewHandler(appointmentSvc, bookingSvc),
		Payment:     paymentHandler.NewHandler(paymentSvc, bookingSvc),
		Chat:        chatHandler.NewHandler(chatSvc),
		Product:     productHandler.NewHandler(productSvc),
	}

	r := router.NewRouter(cfg, handlers, jwtSvc)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
