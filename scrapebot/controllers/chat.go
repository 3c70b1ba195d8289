package controllers

import (
	"context"
	"encoding/json"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"scrapebot/services/chatbot"
	"scrapebot/types"
	"scrapebot/utils/logging"
)

// ChatController fronts the session store for the HTTP and websocket chat
// surfaces.
type ChatController struct {
	store *chatbot.Store
}

func NewChatController(store *chatbot.Store) *ChatController {
	return &ChatController{store: store}
}

// Chat routes one message to its session engine. An empty session id starts
// a new session.
func (c *ChatController) Chat(ctx context.Context, req types.ChatRequest) types.ChatResponse {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	reply := c.store.Process(ctx, sessionID, req.Provider, req.Message)
	return types.ChatResponse{SessionID: sessionID, Response: reply}
}

// Stats reports a session's running counters.
func (c *ChatController) Stats(sessionID string) (chatbot.Stats, bool) {
	return c.store.Stats(sessionID)
}

// History returns a session's conversation turns.
func (c *ChatController) History(sessionID string) ([]chatbot.Turn, bool) {
	return c.store.History(sessionID)
}

// ClearSession drops a session and its in-memory state.
func (c *ChatController) ClearSession(sessionID string) {
	c.store.Evict(sessionID)
}

// ChatWebSocket serves a persistent chat connection: each text frame is a
// ChatRequest, each reply a ChatResponse.
func (c *ChatController) ChatWebSocket(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close(websocket.StatusInternalError, "internal error")

	sessionID := uuid.New().String()
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"unsupported data"}`))
			continue
		}

		var req types.ChatRequest
		if err := json.Unmarshal(data, &req); err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid json"}`))
			continue
		}
		if req.SessionID == "" {
			req.SessionID = sessionID
		}

		resp := c.Chat(ctx, req)
		out, err := json.Marshal(resp)
		if err != nil {
			logging.ErrorLogger.Error("websocket marshal error", zap.Error(err))
			continue
		}
		if err := conn.Write(ctx, websocket.MessageText, out); err != nil {
			logging.ErrorLogger.Error("websocket write error", zap.Error(err))
			return
		}
	}
}
