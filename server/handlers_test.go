package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-travel-agent/assistant"
	"ai-travel-agent/config"
	"ai-travel-agent/filter"
	"ai-travel-agent/listings"
	"ai-travel-agent/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.GetDefaultConfig()
	cfg.Listings.SnapshotDir = t.TempDir()

	ai := assistant.NewClient(cfg, "")
	ls := listings.NewService(cfg, nil, nil)
	planner := session.NewPlanner(session.NewManager(), ls, filter.NewFilter(cfg), ai)
	return New(cfg, ai, ls, planner)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	rec, body := doJSON(t, s, "GET", "/health-check", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, false, body["openai_configured"])
}

func TestIndexListsEndpoints(t *testing.T) {
	s := newTestServer(t)
	rec, body := doJSON(t, s, "GET", "/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	endpoints := body["endpoints"].(map[string]any)
	assert.Equal(t, "/api/chat", endpoints["chat"])
	assert.Equal(t, "/api/listings", endpoints["listings"])
}

func TestChatRequiresMessage(t *testing.T) {
	s := newTestServer(t)
	rec, body := doJSON(t, s, "POST", "/api/chat", map[string]string{"message": "  "})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, body["response"], "error payloads carry a user-facing response")
}

func TestChatUpstreamFailureStaysOK(t *testing.T) {
	s := newTestServer(t)
	rec, body := doJSON(t, s, "POST", "/api/chat", map[string]string{"message": "hi"})

	// the key is unconfigured, but the UI contract is HTTP 200 with a
	// response field
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body["response"], "not properly configured")
	assert.NotEmpty(t, body["error"])
}

func TestListingsRequireDestination(t *testing.T) {
	s := newTestServer(t)
	rec, body := doJSON(t, s, "GET", "/api/listings", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Destination is required", body["error"])
	assert.NotEmpty(t, body["message"])
}

func TestListingsGet(t *testing.T) {
	s := newTestServer(t)
	rec, body := doJSON(t, s, "GET", "/api/listings?destination=Paris&budget=1000&checkIn=2024-06-01&checkOut=2024-06-05&guests=2", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	results := body["listings"].([]any)
	assert.Len(t, results, 10)

	query := body["query"].(map[string]any)
	assert.Equal(t, "Paris", query["destination"])
	assert.Equal(t, 1000.0, query["budget"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestListingsPost(t *testing.T) {
	s := newTestServer(t)
	rec, body := doJSON(t, s, "POST", "/api/listings", listings.Query{
		Destination: "Rome",
		Guests:      3,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["listings"])
}

func TestItineraryRequiresPreferences(t *testing.T) {
	s := newTestServer(t)
	rec, body := doJSON(t, s, "POST", "/api/itinerary/generate", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Preferences are required", body["error"])
}

func TestItineraryUnconfiguredKeyMapsStatus(t *testing.T) {
	s := newTestServer(t)
	rec, body := doJSON(t, s, "POST", "/api/itinerary/generate", map[string]any{
		"preferences": map[string]any{
			"destination": "Paris",
			"dates":       "2024-06-01 to 2024-06-05",
			"partySize":   2,
			"budget":      1500,
		},
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, body["response"], "not properly configured")
}

func TestConversationLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec, body := doJSON(t, s, "POST", "/api/conversation", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := body["session_id"].(string)
	require.NotEmpty(t, id)

	message := body["message"].(map[string]any)
	assert.Contains(t, message["content"], "destination in mind")

	rec, body = doJSON(t, s, "POST", "/api/conversation/"+id, map[string]string{"message": "yes"})
	require.Equal(t, http.StatusOK, rec.Code)
	reply := body["message"].(map[string]any)
	assert.Contains(t, reply["content"], "Where would you like to go")

	rec, body = doJSON(t, s, "GET", "/api/conversation/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	transcript := body["transcript"].([]any)
	assert.GreaterOrEqual(t, len(transcript), 3)
}

func TestConversationUnknownSession(t *testing.T) {
	s := newTestServer(t)
	rec, _ := doJSON(t, s, "POST", "/api/conversation/does-not-exist", map[string]string{"message": "yes"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConversationTurnRequiresMessage(t *testing.T) {
	s := newTestServer(t)
	_, body := doJSON(t, s, "POST", "/api/conversation", nil)
	id := body["session_id"].(string)

	rec, _ := doJSON(t, s, "POST", "/api/conversation/"+id, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSRestrictedToFrontend(t *testing.T) {
	s := newTestServer(t)
	rec, _ := doJSON(t, s, "GET", "/health-check", nil)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest("OPTIONS", "/api/chat", nil)
	optRec := httptest.NewRecorder()
	s.Router().ServeHTTP(optRec, req)
	assert.Equal(t, http.StatusOK, optRec.Code)
}

func TestQueryEchoFormat(t *testing.T) {
	s := newTestServer(t)
	rec, body := doJSON(t, s, "GET", fmt.Sprintf("/api/listings?destination=%s", "Tokyo"), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	query := body["query"].(map[string]any)
	assert.Equal(t, "Tokyo", query["destination"])
}
