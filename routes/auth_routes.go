package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"social_server/controllers"
)

// RegisterAuthRoutes registers signup, login and set-token under /api
func RegisterAuthRoutes(r *mux.Router, controller *controllers.AuthController) {
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/signup", controller.Signup).Methods(http.MethodPost)
	api.HandleFunc("/login", controller.Login).Methods(http.MethodPost)
	api.HandleFunc("/set-token", controller.SetToken).Methods(http.MethodPost)
}
