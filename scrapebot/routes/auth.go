package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"scrapebot/controllers"
	"scrapebot/types"
)

func AuthRoutes(ctrl *controllers.AuthController) chi.Router {
	r := chi.NewRouter()
	r.Post("/token", func(w http.ResponseWriter, r *http.Request) {
		var req types.TokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		token, err := ctrl.IssueToken(req.ClientID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": token})
	})
	return r
}
