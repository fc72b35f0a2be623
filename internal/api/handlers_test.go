package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/somOone/spa-assistant/internal/flow"
	"github.com/somOone/spa-assistant/internal/intent"
	"github.com/somOone/spa-assistant/internal/models"
	"github.com/somOone/spa-assistant/internal/store"
	"github.com/somOone/spa-assistant/internal/testutil"
)

func newTestServer(spa *testutil.FakeSpaClient) *Server {
	st := store.NewInMemoryStore()
	engine := flow.NewEngine(intent.NewEngine(), spa, flow.WithRecorder(st))
	return NewServer(engine, st)
}

func postChat(t *testing.T, handler http.Handler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.CreateHTTPRequest(t, http.MethodPost, "/chat", body)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestChatHandler(t *testing.T) {
	server := newTestServer(&testutil.FakeSpaClient{})
	handler := server.Handler()

	rr := postChat(t, handler, models.TurnRequest{ConversationID: "c_1", Message: "help"})
	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "POST /chat")
	response := testutil.AssertJSONResponse(t, rr, "ok")

	result, ok := response["result"].(map[string]interface{})
	if !ok {
		t.Fatalf("result = %v, want turn response object", response["result"])
	}
	messages, ok := result["messages"].([]interface{})
	if !ok || len(messages) != 1 {
		t.Fatalf("messages = %v, want one reply", result["messages"])
	}
	if reply, _ := messages[0].(string); !strings.Contains(reply, "I can help you manage the spa") {
		t.Errorf("reply = %q", messages[0])
	}
}

func TestChatHandlerReturnsEffects(t *testing.T) {
	server := newTestServer(&testutil.FakeSpaClient{})
	handler := server.Handler()

	rr := postChat(t, handler, models.TurnRequest{ConversationID: "c_1", Message: "book an appointment"})
	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "POST /chat")
	response := testutil.AssertJSONResponse(t, rr, "ok")

	result := response["result"].(map[string]interface{})
	effects, ok := result["effects"].([]interface{})
	if !ok || len(effects) != 1 {
		t.Fatalf("effects = %v, want one navigation", result["effects"])
	}
	effect := effects[0].(map[string]interface{})
	if effect["type"] != "navigate" || effect["url"] != "/book" {
		t.Errorf("effect = %v", effect)
	}
}

func TestChatHandlerRejectsInvalidRequests(t *testing.T) {
	server := newTestServer(&testutil.FakeSpaClient{})
	handler := server.Handler()

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString("{not json"))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		testutil.AssertHTTPStatus(t, http.StatusBadRequest, rr.Code, "invalid JSON")
		testutil.AssertJSONResponse(t, rr, "error")
	})

	t.Run("missing conversation id", func(t *testing.T) {
		rr := postChat(t, handler, models.TurnRequest{Message: "help"})
		testutil.AssertHTTPStatus(t, http.StatusBadRequest, rr.Code, "missing conversation id")
		response := testutil.AssertJSONResponse(t, rr, "error")
		if msg, _ := response["message"].(string); msg == "" {
			t.Error("error response missing message")
		}
	})

	t.Run("empty message", func(t *testing.T) {
		rr := postChat(t, handler, models.TurnRequest{ConversationID: "c_1"})
		testutil.AssertHTTPStatus(t, http.StatusBadRequest, rr.Code, "empty message")
	})

	t.Run("wrong method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/chat", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		testutil.AssertHTTPStatus(t, http.StatusMethodNotAllowed, rr.Code, "GET /chat")
	})
}

func TestNewConversationHandler(t *testing.T) {
	server := newTestServer(&testutil.FakeSpaClient{})
	handler := server.Handler()

	req := testutil.CreateHTTPRequest(t, http.MethodPost, "/conversations", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	testutil.AssertHTTPStatus(t, http.StatusCreated, rr.Code, "POST /conversations")
	response := testutil.AssertJSONResponse(t, rr, "ok")
	result := response["result"].(map[string]interface{})
	id, _ := result["conversation_id"].(string)
	if !strings.HasPrefix(id, "c_") || len(id) != len("c_")+32 {
		t.Errorf("conversation_id = %q, want c_ prefix and 32 hex chars", id)
	}

	req = testutil.CreateHTTPRequest(t, http.MethodGet, "/conversations", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	testutil.AssertHTTPStatus(t, http.StatusMethodNotAllowed, rr.Code, "GET /conversations")
}

func TestConversationMessagesHandler(t *testing.T) {
	server := newTestServer(&testutil.FakeSpaClient{})
	handler := server.Handler()

	postChat(t, handler, models.TurnRequest{ConversationID: "c_1", Message: "help"})

	req := testutil.CreateHTTPRequest(t, http.MethodGet, "/conversations/c_1/messages", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "GET transcript")
	response := testutil.AssertJSONResponse(t, rr, "ok")
	messages, ok := response["result"].([]interface{})
	if !ok || len(messages) != 2 {
		t.Fatalf("transcript = %v, want user + bot messages", response["result"])
	}
	first := messages[0].(map[string]interface{})
	if first["role"] != "user" || first["text"] != "help" {
		t.Errorf("first transcript message = %v", first)
	}
}

func TestConversationMessagesHandlerEmpty(t *testing.T) {
	server := newTestServer(&testutil.FakeSpaClient{})
	handler := server.Handler()

	req := testutil.CreateHTTPRequest(t, http.MethodGet, "/conversations/c_none/messages", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "GET empty transcript")
	response := testutil.AssertJSONResponse(t, rr, "ok")
	messages, ok := response["result"].([]interface{})
	if !ok || len(messages) != 0 {
		t.Errorf("transcript = %v, want empty array", response["result"])
	}
}

func TestConversationsHandlerUnknownPath(t *testing.T) {
	server := newTestServer(&testutil.FakeSpaClient{})
	handler := server.Handler()

	req := testutil.CreateHTTPRequest(t, http.MethodGet, "/conversations/c_1/other", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	testutil.AssertHTTPStatus(t, http.StatusNotFound, rr.Code, "unknown conversations path")
}

func TestClassificationStatsHandler(t *testing.T) {
	server := newTestServer(&testutil.FakeSpaClient{})
	handler := server.Handler()

	postChat(t, handler, models.TurnRequest{ConversationID: "c_1", Message: "help"})

	req := testutil.CreateHTTPRequest(t, http.MethodGet, "/stats/classification", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "GET stats")
	response := testutil.AssertJSONResponse(t, rr, "ok")
	stats, ok := response["result"].([]interface{})
	if !ok || len(stats) != 1 {
		t.Fatalf("stats = %v, want one source", response["result"])
	}
	entry := stats[0].(map[string]interface{})
	if entry["source"] != "regex" {
		t.Errorf("stats entry = %v, want regex source", entry)
	}
	if count, _ := entry["count"].(float64); count != 1 {
		t.Errorf("stats count = %v, want 1", entry["count"])
	}
}

func TestHealthHandler(t *testing.T) {
	server := newTestServer(&testutil.FakeSpaClient{})
	handler := server.Handler()

	req := testutil.CreateHTTPRequest(t, http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "GET /health")
	var response map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("decode health response: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("health status = %v", response["status"])
	}
}
