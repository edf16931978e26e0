package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"clinic-backend/internal/auth"
	"clinic-backend/internal/cache"
	"clinic-backend/internal/config"
	"clinic-backend/internal/database"
	"clinic-backend/internal/db"
	"clinic-backend/internal/handlers"
	"clinic-backend/internal/health"
	h "clinic-backend/internal/http"
	"clinic-backend/internal/middleware"
	"clinic-backend/internal/repositories"
	"clinic-backend/internal/services"
	"clinic-backend/internal/storage"
	"clinic-backend/internal/ws"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	migrationsDir := flag.String("migrations", "migrations", "Path to SQL migrations")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Connect to PostgreSQL
	pool := db.Connect(cfg)
	defer pool.Close()

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (login will use bcrypt only)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations
	migrator := database.NewMigrator(pool, *migrationsDir)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize health checker and JWT manager
	healthChecker := health.NewHealthChecker(pool)
	jwtManager := auth.NewJWTManager(cfg)

	// Initialize repositories
	tenantRepo := repositories.NewTenantRepository(pool)
	userRepo := repositories.NewUserRepository(pool)
	patientRepo := repositories.NewPatientRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	ledgerRepo := repositories.NewLedgerRepository(pool)
	roomRepo := repositories.NewRoomRepository(pool)
	feedbackRepo := repositories.NewFeedbackRepository(pool)
	onlineTransactionRepo := repositories.NewOnlineTransactionRepository(pool)
	totpRepo := repositories.NewTOTPRepository(pool)

	// Activity feed hub
	hub := ws.NewHub()
	go hub.Run()

	// Initialize services
	userService := services.NewUserService(userRepo, jwtManager)
	patientService := services.NewPatientService(patientRepo)
	invoiceService := services.NewInvoiceService(invoiceRepo, ledgerRepo)
	invoiceService.SetEventPublisher(hub)
	paymentService := services.NewPaymentService(invoiceRepo, paymentRepo, ledgerRepo)
	paymentService.SetEventPublisher(hub)
	razorpayService := services.NewRazorpayService(
		cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.WebhookSecret,
		onlineTransactionRepo, invoiceService, paymentService,
	)
	totpService := services.NewTOTPService(userRepo, totpRepo)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	tenantMiddleware := middleware.NewTenantMiddleware(tenantRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	tenantHandler := handlers.NewTenantHandler(tenantRepo)
	patientHandler := handlers.NewPatientHandler(patientService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, tenantRepo)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerRepo)
	razorpayHandler := handlers.NewRazorpayHandler(razorpayService)
	roomHandler := handlers.NewRoomHandler(roomRepo)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackRepo)
	totpHandler := handlers.NewTOTPHandler(totpService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	// Optional PDF archival to R2
	if archive, err := storage.NewR2Store(cfg); err != nil {
		log.Printf("[R2] Archive unavailable: %v", err)
	} else if archive != nil {
		invoiceHandler.SetArchive(archive)
		log.Println("[R2] Invoice PDF archival enabled")
	}

	router := h.NewRouter(
		authHandler, userHandler, tenantHandler, patientHandler,
		invoiceHandler, paymentHandler, ledgerHandler, razorpayHandler,
		roomHandler, feedbackHandler, totpHandler, healthHandler,
		authMiddleware, tenantMiddleware, hub,
	)

	// Wrap with panic recovery and metrics middleware
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
