package http

import (
	"net/http"

	"medibook/internal/delivery/http/handler"
	"medibook/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	doctorHandler       *handler.DoctorHandler
	scheduleHandler     *handler.ScheduleHandler
	availabilityHandler *handler.AvailabilityHandler
	appointmentHandler  *handler.AppointmentHandler
	clinicHandler       *handler.ClinicHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	doctorHandler *handler.DoctorHandler,
	scheduleHandler *handler.ScheduleHandler,
	availabilityHandler *handler.AvailabilityHandler,
	appointmentHandler *handler.AppointmentHandler,
	clinicHandler *handler.ClinicHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		doctorHandler:       doctorHandler,
		scheduleHandler:     scheduleHandler,
		availabilityHandler: availabilityHandler,
		appointmentHandler:  appointmentHandler,
		clinicHandler:       clinicHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/patient", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/register/doctor", r.authHandler.RegisterDoctor).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.Me).Methods(http.MethodGet)

	// Public directory routes
	api.HandleFunc("/doctors", r.doctorHandler.ListDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{doctorId}/pricings", r.clinicHandler.ListPricingsByDoctor).Methods(http.MethodGet)
	api.HandleFunc("/clinics", r.clinicHandler.ListClinics).Methods(http.MethodGet)
	api.HandleFunc("/clinics/{id}", r.clinicHandler.GetClinic).Methods(http.MethodGet)
	api.HandleFunc("/availability", r.availabilityHandler.Query).Methods(http.MethodGet)

	// Schedule management (doctor or admin)
	schedules := api.PathPrefix("/schedules").Subrouter()
	schedules.Use(r.authMiddleware.Authenticate)
	schedules.Use(middleware.RequireAdminOrDoctor)
	schedules.HandleFunc("", r.scheduleHandler.CreateSchedule).Methods(http.MethodPost)
	schedules.HandleFunc("", r.scheduleHandler.GetMySchedules).Methods(http.MethodGet)
	schedules.HandleFunc("/{id}", r.scheduleHandler.GetSchedule).Methods(http.MethodGet)
	schedules.HandleFunc("/{id}", r.scheduleHandler.UpdateSchedule).Methods(http.MethodPut)
	schedules.HandleFunc("/{id}", r.scheduleHandler.DeleteSchedule).Methods(http.MethodDelete)
	schedules.HandleFunc("/{id}/deactivate", r.scheduleHandler.DeactivateSchedule).Methods(http.MethodPost)
	schedules.HandleFunc("/{id}/slots", r.scheduleHandler.GenerateSlots).Methods(http.MethodPost)

	// Slot holds (doctor or admin)
	slots := api.PathPrefix("/slots").Subrouter()
	slots.Use(r.authMiddleware.Authenticate)
	slots.Use(middleware.RequireAdminOrDoctor)
	slots.HandleFunc("/{id}/block", r.scheduleHandler.BlockSlot).Methods(http.MethodPost)
	slots.HandleFunc("/{id}/unblock", r.scheduleHandler.UnblockSlot).Methods(http.MethodPost)

	// Appointments (any authenticated role; usecases authorize per actor)
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.HandleFunc("", r.appointmentHandler.GetMyAppointments).Methods(http.MethodGet)
	appointments.HandleFunc("/calendar", r.appointmentHandler.GetCalendar).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}/status", r.appointmentHandler.UpdateStatus).Methods(http.MethodPatch)

	// Booking (patient or admin)
	booking := api.PathPrefix("/appointments").Subrouter()
	booking.Use(r.authMiddleware.Authenticate)
	booking.Use(middleware.RequireAdminOrPatient)
	booking.HandleFunc("/book", r.appointmentHandler.BookSlot).Methods(http.MethodPost)
	booking.HandleFunc("", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/clinics", r.clinicHandler.CreateClinic).Methods(http.MethodPost)
	admin.HandleFunc("/clinics/{id}", r.clinicHandler.UpdateClinic).Methods(http.MethodPut)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.ListAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Pricing (doctor or admin)
	pricing := api.PathPrefix("/pricings").Subrouter()
	pricing.Use(r.authMiddleware.Authenticate)
	pricing.Use(middleware.RequireAdminOrDoctor)
	pricing.HandleFunc("", r.clinicHandler.CreatePricing).Methods(http.MethodPost)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
