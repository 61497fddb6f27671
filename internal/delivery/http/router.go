package http

import (
	"net/http"

	"mon-mentale-api/internal/delivery/http/handler"
	"mon-mentale-api/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	appointmentHandler  *handler.AppointmentHandler
	practitionerHandler *handler.PractitionerHandler
	patientHandler      *handler.PatientHandler
	paymentHandler      *handler.PaymentHandler
	stubHandler         *handler.StubHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	recoveryMiddleware  *middleware.RecoveryMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	appointmentHandler *handler.AppointmentHandler,
	practitionerHandler *handler.PractitionerHandler,
	patientHandler *handler.PatientHandler,
	paymentHandler *handler.PaymentHandler,
	stubHandler *handler.StubHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	recoveryMiddleware *middleware.RecoveryMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		appointmentHandler:  appointmentHandler,
		practitionerHandler: practitionerHandler,
		patientHandler:      patientHandler,
		paymentHandler:      paymentHandler,
		stubHandler:         stubHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		recoveryMiddleware:  recoveryMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	api := r.router.PathPrefix("/api").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/register-practitioner", r.authHandler.RegisterPractitioner).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Practitioner directory (public browse, protected writes)
	practitioners := api.PathPrefix("/practitioners").Subrouter()
	practitioners.HandleFunc("", r.practitionerHandler.ListPractitioners).Methods(http.MethodGet)
	// Registered before /{id} so "search" is not parsed as an id
	practitioners.HandleFunc("/search/nearby", r.practitionerHandler.SearchNearby).Methods(http.MethodGet)
	practitioners.HandleFunc("/{id}", r.practitionerHandler.GetPractitioner).Methods(http.MethodGet)

	practitionersProtected := api.PathPrefix("/practitioners").Subrouter()
	practitionersProtected.Use(r.authMiddleware.Authenticate)
	practitionersProtected.HandleFunc("", r.practitionerHandler.CreatePractitioner).Methods(http.MethodPost)
	practitionersProtected.HandleFunc("/{id}", r.practitionerHandler.UpdatePractitioner).Methods(http.MethodPut)
	practitionersProtected.Handle("/{id}/stripe/onboard",
		middleware.RequireAdminOrPractitioner(http.HandlerFunc(r.practitionerHandler.CreateConnectedAccount))).Methods(http.MethodPost)
	practitionersProtected.Handle("/{id}/stripe/status",
		middleware.RequireAdminOrPractitioner(http.HandlerFunc(r.practitionerHandler.GetAccountStatus))).Methods(http.MethodGet)

	// Patient profiles
	patients := api.PathPrefix("/patients").Subrouter()
	patients.Use(r.authMiddleware.Authenticate)
	patients.HandleFunc("/{id}", r.patientHandler.GetPatient).Methods(http.MethodGet)
	patients.HandleFunc("/{id}", r.patientHandler.UpdatePatient).Methods(http.MethodPut)

	// Appointments
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.HandleFunc("", r.appointmentHandler.ListAppointments).Methods(http.MethodGet)
	appointments.HandleFunc("", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	appointments.HandleFunc("/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", r.appointmentHandler.UpdateAppointment).Methods(http.MethodPut)
	appointments.HandleFunc("/{id}", r.appointmentHandler.CancelAppointment).Methods(http.MethodDelete)
	appointments.HandleFunc("/{id}/status", r.appointmentHandler.UpdateStatus).Methods(http.MethodPut)

	// Payments. The webhook stays public: the gateway authenticates with
	// its signature header, not a bearer token.
	api.HandleFunc("/payments/webhook", r.paymentHandler.Webhook).Methods(http.MethodPost)

	payments := api.PathPrefix("/payments").Subrouter()
	payments.Use(r.authMiddleware.Authenticate)
	payments.HandleFunc("/create-intent", r.paymentHandler.CreateIntent).Methods(http.MethodPost)
	payments.HandleFunc("/{id}", r.paymentHandler.GetPayment).Methods(http.MethodGet)
	payments.Handle("/{id}/refund",
		middleware.RequireAdmin(http.HandlerFunc(r.paymentHandler.Refund))).Methods(http.MethodPost)

	// Reserved resources, not implemented yet
	for _, prefix := range []string{"/messages", "/documents", "/notifications", "/reviews"} {
		stub := api.PathPrefix(prefix).Subrouter()
		stub.Use(r.authMiddleware.Authenticate)
		stub.NewRoute().HandlerFunc(r.stubHandler.NotImplemented)
	}

	r.router.Use(r.recoveryMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
