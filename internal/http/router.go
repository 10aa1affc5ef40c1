package http

import (
	"net/http"

	"atenciones-backend/internal/handlers"
	"atenciones-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	visitHandler *handlers.VisitHandler,
	producerHandler *handlers.ProducerHandler,
	catalogHandler *handlers.CatalogHandler,
	dashboardHandler *handlers.DashboardHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	writer := func(h http.HandlerFunc) http.HandlerFunc {
		return authMiddleware.RequireWriter(h).ServeHTTP
	}

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.Handle("/auth/me", authMiddleware.Authenticate(http.HandlerFunc(authHandler.Me))).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Visit records
	api.HandleFunc("/atenciones", visitHandler.ListVisits).Methods("GET")
	api.HandleFunc("/atenciones", writer(visitHandler.CreateVisit)).Methods("POST")
	api.HandleFunc("/atenciones/{id}", visitHandler.GetVisit).Methods("GET")
	api.HandleFunc("/atenciones/{id}", writer(visitHandler.UpdateVisit)).Methods("PUT")
	api.HandleFunc("/atenciones/{id}", writer(visitHandler.DeleteVisit)).Methods("DELETE")
	api.HandleFunc("/atenciones/{id}/pdf", reportHandler.GetVisitPDF).Methods("GET")

	// Producers
	api.HandleFunc("/productores", producerHandler.ListProducers).Methods("GET")
	api.HandleFunc("/productores", writer(producerHandler.CreateProducer)).Methods("POST")
	api.HandleFunc("/productores/cedula/{cedula}", producerHandler.GetProducerByCedula).Methods("GET")
	api.HandleFunc("/productores/{id}", producerHandler.GetProducer).Methods("GET")
	api.HandleFunc("/productores/{id}", writer(producerHandler.UpdateProducer)).Methods("PUT")
	api.HandleFunc("/productores/{id}", writer(producerHandler.DeleteProducer)).Methods("DELETE")
	api.HandleFunc("/productores/{id}/pdf", reportHandler.GetProducerPDF).Methods("GET")

	// Catalogs
	api.HandleFunc("/regiones", catalogHandler.ListRegions).Methods("GET")
	api.HandleFunc("/agencias", catalogHandler.ListAgencies).Methods("GET")

	// Dashboard and export
	api.HandleFunc("/dashboard/stats", dashboardHandler.GetStats).Methods("GET")
	api.HandleFunc("/exportar", reportHandler.ExportVisits).Methods("POST")

	// Health checks (public)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return r
}
