package web

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"geodash/middleware"
)

func (h *WebHandler) SetupRoutes(mw *middleware.Middleware) *mux.Router {
	r := mux.NewRouter()

	// Pages
	r.HandleFunc("/", mw.RequireAuth(h.Home)).Methods("GET")
	r.HandleFunc("/login", h.Login).Methods("GET", "POST")
	r.HandleFunc("/logout", h.Logout).Methods("POST")

	// Dashboard form actions
	r.HandleFunc("/search", mw.RequireAuth(h.Search)).Methods("POST")
	r.HandleFunc("/clear", mw.RequireAuth(h.ClearSearch)).Methods("POST")
	r.HandleFunc("/history/toggle", mw.RequireAuth(h.ToggleHistory)).Methods("POST")
	r.HandleFunc("/history/delete", mw.RequireAuth(h.DeleteHistory)).Methods("POST")
	r.HandleFunc("/history/{id}/select", mw.RequireAuth(func(w http.ResponseWriter, req *http.Request) {
		h.SelectHistory(w, req, mux.Vars(req)["id"])
	})).Methods("POST")

	// Operational
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
	return r
}
