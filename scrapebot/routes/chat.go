package routes

import (
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"scrapebot/config"
	"scrapebot/controllers"
	"scrapebot/middlewares"
	"scrapebot/types"
	"scrapebot/utils/logging"
)

func ChatRoutes(ctrl *controllers.ChatController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		// POST /chat/ : send one message
		gr.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req types.ChatRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			resp := ctrl.Chat(r.Context(), req)
			json.NewEncoder(w).Encode(resp)
		})

		gr.Get("/session/{session_id}/stats", func(w http.ResponseWriter, r *http.Request) {
			stats, ok := ctrl.Stats(chi.URLParam(r, "session_id"))
			if !ok {
				http.Error(w, "session not found", http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(stats)
		})

		gr.Get("/session/{session_id}/history", func(w http.ResponseWriter, r *http.Request) {
			history, ok := ctrl.History(chi.URLParam(r, "session_id"))
			if !ok {
				http.Error(w, "session not found", http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(history)
		})

		gr.Delete("/session/{session_id}", func(w http.ResponseWriter, r *http.Request) {
			ctrl.ClearSession(chi.URLParam(r, "session_id"))
			w.WriteHeader(http.StatusNoContent)
		})

		gr.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
			conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
			if err != nil {
				logging.ErrorLogger.Error("websocket accept error", zap.Error(err))
				return
			}
			ctrl.ChatWebSocket(r.Context(), conn)
		})
	})
	return r
}
