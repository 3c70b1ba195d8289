package routes

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"scrapebot/config"
	"scrapebot/controllers"
	"scrapebot/middlewares"
	"scrapebot/types"
)

func ScrapeRoutes(ctrl *controllers.ScrapeController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		// POST /scrape/ : scrape one or more URLs
		gr.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req types.ScrapeRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			clientID, _ := r.Context().Value(middlewares.ClientIDKey).(string)
			resp, err := ctrl.Scrape(r.Context(), clientID, req)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(resp)
		})

		gr.Get("/export", func(w http.ResponseWriter, r *http.Request) {
			url := r.URL.Query().Get("url")
			if url == "" {
				http.Error(w, "url query parameter is required", http.StatusBadRequest)
				return
			}
			export, err := ctrl.GetExport(r.Context(), url)
			if err != nil {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(export)
		})

		gr.Get("/domains/popular", func(w http.ResponseWriter, r *http.Request) {
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			domains, err := ctrl.PopularDomains(r.Context(), limit)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(domains)
		})

		gr.Get("/history/{session_id}", func(w http.ResponseWriter, r *http.Request) {
			pages, err := ctrl.SessionHistory(r.Context(), chi.URLParam(r, "session_id"))
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(pages)
		})
	})
	return r
}
