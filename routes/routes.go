package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"social_server/controllers"
	"social_server/metrics"
)

// RegisterRoutes sets up the unauthenticated operational routes
func RegisterRoutes(r *mux.Router, collector *metrics.Collector) {
	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods(http.MethodGet)
	if collector != nil {
		r.Handle("/metrics", collector.Handler()).Methods(http.MethodGet)
	}
}
