package http

import (
	"net/http"
	"strings"

	"marcha-api/internal/delivery/http/handler"
	"marcha-api/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth          *handler.AuthHandler
	Patient       *handler.PatientHandler
	Appointment   *handler.AppointmentHandler
	Financial     *handler.FinancialHandler
	House         *handler.HouseHandler
	Athlete       *handler.AthleteHandler
	Scoring       *handler.ScoringHandler
	StudentPortal *handler.StudentPortalHandler
	AuditLog      *handler.AuditLogHandler
}

type Router struct {
	router         *mux.Router
	handlers       Handlers
	authMiddleware *middleware.AuthMiddleware
	corsMiddleware *middleware.CORSMiddleware
	assetsDir      string
	assetsPrefix   string
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	assetsDir string,
	assetsPrefix string,
) *Router {
	return &Router{
		router:         mux.NewRouter(),
		handlers:       handlers,
		authMiddleware: authMiddleware,
		corsMiddleware: corsMiddleware,
		assetsDir:      assetsDir,
		assetsPrefix:   strings.TrimSuffix(assetsPrefix, "/"),
	}
}

func (r *Router) Setup() *mux.Router {
	h := r.handlers

	// Preflight requests only need the CORS headers
	r.router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Uploaded crests and photos
	if r.assetsDir != "" && r.assetsPrefix != "" {
		r.router.PathPrefix(r.assetsPrefix + "/").
			Handler(http.StripPrefix(r.assetsPrefix+"/", http.FileServer(http.Dir(r.assetsDir)))).
			Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)

	// Authenticated routes
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)
	protected.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", h.Auth.GetCurrentUser).Methods(http.MethodGet)

	// Students read their own portal, staff read any
	protected.HandleFunc("/student-portal/{patientId:[0-9]+}", h.StudentPortal.GetPortal).Methods(http.MethodGet)

	// Cup standings are visible to every authenticated user
	protected.HandleFunc("/houses", h.House.ListHouses).Methods(http.MethodGet)
	protected.HandleFunc("/houses/ranking", h.House.GetCupRanking).Methods(http.MethodGet)
	protected.HandleFunc("/scoring-rules", h.Scoring.ListRules).Methods(http.MethodGet)

	// Staff routes
	staff := protected.NewRoute().Subrouter()
	staff.Use(middleware.RequireStaff)

	// Patients
	staff.HandleFunc("/patients", h.Patient.ListPatients).Methods(http.MethodGet)
	staff.HandleFunc("/patients", h.Patient.CreatePatient).Methods(http.MethodPost)
	staff.HandleFunc("/patients/{id:[0-9]+}", h.Patient.GetPatient).Methods(http.MethodGet)
	staff.HandleFunc("/patients/{id:[0-9]+}", h.Patient.UpdatePatient).Methods(http.MethodPut)
	staff.HandleFunc("/patients/{id:[0-9]+}", h.Patient.DeletePatient).Methods(http.MethodDelete)
	staff.HandleFunc("/patients/{id:[0-9]+}/photo", h.Patient.UploadPhoto).Methods(http.MethodPost)

	// Appointments
	staff.HandleFunc("/appointments", h.Appointment.ListAppointments).Methods(http.MethodGet)
	staff.HandleFunc("/appointments", h.Appointment.CreateAppointment).Methods(http.MethodPost)
	staff.HandleFunc("/appointments/{id:[0-9]+}", h.Appointment.GetAppointment).Methods(http.MethodGet)
	staff.HandleFunc("/appointments/{id:[0-9]+}", h.Appointment.UpdateAppointment).Methods(http.MethodPut)
	staff.HandleFunc("/appointments/{id:[0-9]+}", h.Appointment.DeleteAppointment).Methods(http.MethodDelete)
	staff.HandleFunc("/appointments/{id:[0-9]+}/confirm", h.Appointment.ConfirmAppointment).Methods(http.MethodPost)

	// Financial
	staff.HandleFunc("/financial", h.Financial.ListTransactions).Methods(http.MethodGet)
	staff.HandleFunc("/financial", h.Financial.CreateTransaction).Methods(http.MethodPost)
	staff.HandleFunc("/financial/summary", h.Financial.GetSummary).Methods(http.MethodGet)
	staff.HandleFunc("/financial/{id:[0-9]+}", h.Financial.GetTransaction).Methods(http.MethodGet)
	staff.HandleFunc("/financial/{id:[0-9]+}", h.Financial.UpdateTransaction).Methods(http.MethodPut)
	staff.HandleFunc("/financial/{id:[0-9]+}", h.Financial.DeleteTransaction).Methods(http.MethodDelete)

	// Houses
	staff.HandleFunc("/houses", h.House.CreateHouse).Methods(http.MethodPost)
	staff.HandleFunc("/houses/{id:[0-9]+}", h.House.GetHouse).Methods(http.MethodGet)
	staff.HandleFunc("/houses/{id:[0-9]+}/dashboard", h.House.GetDashboard).Methods(http.MethodGet)
	staff.HandleFunc("/houses/{id:[0-9]+}/ranking", h.House.GetAthleteRanking).Methods(http.MethodGet)

	// Athletes
	staff.HandleFunc("/athletes", h.Athlete.CreateAthlete).Methods(http.MethodPost)
	staff.HandleFunc("/athletes/{id:[0-9]+}", h.Athlete.GetAthlete).Methods(http.MethodGet)
	staff.HandleFunc("/athletes/{id:[0-9]+}/scores", h.Athlete.GetScoreHistory).Methods(http.MethodGet)
	staff.HandleFunc("/athletes/{id:[0-9]+}/house", h.Athlete.AssignHouse).Methods(http.MethodPut)
	staff.HandleFunc("/athletes/{id:[0-9]+}/patient", h.Athlete.LinkPatient).Methods(http.MethodPut)

	// Scoring
	staff.HandleFunc("/scoring-rules", h.Scoring.CreateRule).Methods(http.MethodPost)
	staff.HandleFunc("/scoring-rules/{id:[0-9]+}", h.Scoring.DeleteRule).Methods(http.MethodDelete)
	staff.HandleFunc("/scores", h.Scoring.AwardScore).Methods(http.MethodPost)

	// Admin routes
	admin := protected.NewRoute().Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/audit-logs", h.AuditLog.ListAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id:[0-9]+}", h.AuditLog.GetAuditLog).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
