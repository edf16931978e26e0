package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clinic-backend/internal/handlers"
	"clinic-backend/internal/middleware"
	"clinic-backend/internal/ws"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	tenantHandler *handlers.TenantHandler,
	patientHandler *handlers.PatientHandler,
	invoiceHandler *handlers.InvoiceHandler,
	paymentHandler *handlers.PaymentHandler,
	ledgerHandler *handlers.LedgerHandler,
	razorpayHandler *handlers.RazorpayHandler,
	roomHandler *handlers.RoomHandler,
	feedbackHandler *handlers.FeedbackHandler,
	totpHandler *handlers.TOTPHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
	tenantMiddleware *middleware.TenantMiddleware,
	hub *ws.Hub,
) *mux.Router {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/signup", tenantMiddleware.Resolve(http.HandlerFunc(authHandler.Signup)).ServeHTTP).Methods("POST")

	// Razorpay webhook is authenticated by its HMAC signature, not a JWT
	r.HandleFunc("/api/payment/webhook", razorpayHandler.Webhook).Methods("POST")

	// Billing activity feed for dashboards
	r.HandleFunc("/ws/activity", hub.HandleWebSocket)

	// tenantAPI wraps authenticated, tenant-scoped routes
	tenantChain := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.Authenticate(tenantMiddleware.Resolve(h))
	}
	tenantRoleChain := func(h http.HandlerFunc, roles ...string) http.Handler {
		return authMiddleware.RequireRole(roles...)(tenantMiddleware.Resolve(h))
	}

	// Billing - Invoices
	r.Handle("/api/billing/invoices", tenantChain(invoiceHandler.ListInvoices)).Methods("GET")
	r.Handle("/api/billing/invoices", tenantRoleChain(invoiceHandler.CreateInvoice, "admin", "receptionist", "accountant")).Methods("POST")
	r.Handle("/api/billing/invoices/{id}", tenantChain(invoiceHandler.GetInvoice)).Methods("GET")
	r.Handle("/api/billing/invoices/{id}/pdf", tenantChain(invoiceHandler.DownloadInvoicePDF)).Methods("GET")

	// Billing - Payments
	r.Handle("/api/billing/payments", tenantChain(paymentHandler.ListPayments)).Methods("GET")
	r.Handle("/api/billing/payments", tenantRoleChain(paymentHandler.RecordPayment, "admin", "receptionist", "accountant")).Methods("POST")

	// Billing - Ledger (accounting roles only)
	r.Handle("/api/billing/ledger", tenantRoleChain(ledgerHandler.ListEntries, "admin", "accountant")).Methods("GET")
	r.Handle("/api/billing/ledger/balance", tenantRoleChain(ledgerHandler.GetBalance, "admin", "accountant")).Methods("GET")

	// Online payments
	r.Handle("/api/payment/status", tenantChain(razorpayHandler.CheckPaymentStatus)).Methods("GET")
	r.Handle("/api/payment/create-order", tenantChain(razorpayHandler.CreateOrder)).Methods("POST")

	// Patients
	r.Handle("/api/patients", tenantChain(patientHandler.ListPatients)).Methods("GET")
	r.Handle("/api/patients", tenantChain(patientHandler.CreatePatient)).Methods("POST")
	r.Handle("/api/patients/{id}", tenantChain(patientHandler.GetPatient)).Methods("GET")
	r.Handle("/api/patients/{id}", tenantChain(patientHandler.UpdatePatient)).Methods("PUT")

	// Rooms
	r.Handle("/api/rooms", tenantChain(roomHandler.ListRooms)).Methods("GET")
	r.Handle("/api/rooms", tenantRoleChain(roomHandler.CreateRoom, "admin")).Methods("POST")
	r.Handle("/api/rooms/{id}", tenantChain(roomHandler.GetRoom)).Methods("GET")
	r.Handle("/api/rooms/{id}", tenantChain(roomHandler.UpdateRoom)).Methods("PUT")

	// Feedback (submission is public so patients can post from kiosks)
	r.HandleFunc("/api/feedback", tenantMiddleware.Resolve(http.HandlerFunc(feedbackHandler.SubmitFeedback)).ServeHTTP).Methods("POST")
	r.Handle("/api/feedback", tenantChain(feedbackHandler.ListFeedback)).Methods("GET")

	// Staff
	r.Handle("/api/users", tenantRoleChain(userHandler.ListUsers, "admin")).Methods("GET")

	// 2FA
	r.Handle("/api/totp/enroll", authMiddleware.Authenticate(http.HandlerFunc(totpHandler.Enroll))).Methods("POST")
	r.Handle("/api/totp/verify", authMiddleware.Authenticate(http.HandlerFunc(totpHandler.Verify))).Methods("POST")

	// Platform admin console
	adminAPI := r.PathPrefix("/api/admin/tenants").Subrouter()
	adminAPI.Use(authMiddleware.RequireRole("platform_admin"))
	adminAPI.HandleFunc("", tenantHandler.ListTenants).Methods("GET")
	adminAPI.HandleFunc("", tenantHandler.CreateTenant).Methods("POST")
	adminAPI.HandleFunc("/{id}", tenantHandler.UpdateTenant).Methods("PUT")

	return r
}
