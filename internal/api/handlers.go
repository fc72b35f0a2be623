// Package api provides HTTP handlers for spa assistant endpoints.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/somOone/spa-assistant/internal/models"
	"github.com/somOone/spa-assistant/internal/util"
)

// chatHandler processes one chat turn (POST /chat).
func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.chatHandler: processing chat request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		slog.Warn("Server.chatHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req models.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.chatHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}

	result, err := s.engine.ProcessTurn(r.Context(), req.ConversationID, req.Message)
	if err != nil {
		slog.Warn("Server.chatHandler: turn rejected", "error", err, "conversation", req.ConversationID)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}

	response := models.TurnResponse{
		Messages: result.Messages,
		Effects:  result.Effects,
	}
	slog.Info("Server.chatHandler: turn processed", "conversation", req.ConversationID, "messages", len(response.Messages))
	writeJSONResponse(w, http.StatusOK, models.Success(response))
}

// newConversationHandler issues a fresh conversation ID for a chat session
// (POST /conversations).
func (s *Server) newConversationHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		slog.Warn("Server.newConversationHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	conversationID := util.GenerateConversationID()
	slog.Debug("Server.newConversationHandler: conversation ID issued", "conversation", conversationID)
	writeJSONResponse(w, http.StatusCreated, models.Success(map[string]string{"conversation_id": conversationID}))
}

// conversationsHandler routes /conversations/{id}/messages requests.
func (s *Server) conversationsHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.conversationsHandler: processing request", "method", r.Method, "path", r.URL.Path)

	path := strings.TrimPrefix(r.URL.Path, "/conversations/")
	segments := strings.Split(path, "/")

	if len(segments) == 2 && segments[0] != "" && segments[1] == "messages" {
		s.conversationMessagesHandler(w, r, segments[0])
		return
	}

	writeJSONResponse(w, http.StatusNotFound, models.Error("Unknown conversations endpoint"))
}

// conversationMessagesHandler returns a conversation's transcript
// (GET /conversations/{id}/messages).
func (s *Server) conversationMessagesHandler(w http.ResponseWriter, r *http.Request, conversationID string) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		slog.Warn("Server.conversationMessagesHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	messages, err := s.st.GetChatMessages(conversationID)
	if err != nil {
		slog.Error("Server.conversationMessagesHandler: failed to fetch messages", "error", err, "conversation", conversationID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch messages"))
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	slog.Debug("Server.conversationMessagesHandler: messages fetched", "conversation", conversationID, "count", len(messages))
	writeJSONResponse(w, http.StatusOK, models.Success(messages))
}

// classificationStatsHandler returns per-source classification aggregates
// (GET /stats/classification).
func (s *Server) classificationStatsHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Server.classificationStatsHandler: processing request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		slog.Warn("Server.classificationStatsHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	stats, err := s.st.GetClassificationStats()
	if err != nil {
		slog.Error("Server.classificationStatsHandler: failed to fetch stats", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch classification stats"))
		return
	}
	if stats == nil {
		stats = []models.ClassificationStats{}
	}
	slog.Debug("Server.classificationStatsHandler: stats fetched", "sources", len(stats))
	writeJSONResponse(w, http.StatusOK, models.Success(stats))
}

// healthHandler provides a health check endpoint for monitoring and load
// balancing.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	healthData := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := s.st.GetClassificationStats(); err != nil {
		slog.Warn("Server.healthHandler: store check failed", "error", err)
		healthData["status"] = "degraded"
		healthData["error"] = "Failed to query store"
	}

	statusCode := http.StatusOK
	if healthData["status"] == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSONResponse(w, statusCode, healthData)
}
