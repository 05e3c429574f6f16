package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ai-travel-agent/assistant"
	"ai-travel-agent/listings"
	"ai-travel-agent/logger"
	"ai-travel-agent/models"
	"ai-travel-agent/parser"
	"ai-travel-agent/prefs"
	"ai-travel-agent/session"

	"github.com/gorilla/mux"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message": "AI Travel Agent Backend API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"chat":         "/api/chat",
			"listings":     "/api/listings",
			"itinerary":    "/api/itinerary/generate",
			"conversation": "/api/conversation",
			"health":       "/health-check",
		},
	})
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":            "healthy",
		"message":           "AI Travel Agent Backend is running",
		"openai_configured": s.assistant.IsConfigured(),
		"timestamp":         timestamp(),
	})
}

type chatRequest struct {
	Message             string                       `json:"message"`
	ConversationHistory []models.ConversationMessage `json:"conversationHistory"`
}

// handleChat relays one chat turn. The response always carries a `response`
// field and, on upstream failure, still returns HTTP 200 so the client
// conversation keeps going.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":    "Message is required",
			"response": "Please provide a message to continue our conversation.",
		})
		return
	}

	content, err := s.assistant.Chat(r.Context(), req.Message, req.ConversationHistory)
	if err != nil {
		var upstream *assistant.UpstreamError
		if errors.As(err, &upstream) {
			s.writeJSON(w, http.StatusOK, map[string]string{
				"error":    upstream.Code,
				"response": upstream.Response,
			})
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{
			"error":    "Internal server error",
			"response": "I apologize, but I encountered an unexpected error. Please try again later.",
		})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"response":  content,
		"model":     s.assistant.Model(),
		"timestamp": timestamp(),
	})
}

// itineraryPreferences is the loose wire shape the original client sends.
type itineraryPreferences struct {
	Destination string   `json:"destination"`
	Dates       string   `json:"dates"`
	TripLength  int      `json:"tripLength"`
	PartySize   int      `json:"partySize"`
	Budget      any      `json:"budget"`
	Vibes       string   `json:"vibes"`
	Climate     string   `json:"climate"`
	Activities  []string `json:"activities"`
}

type itineraryRequest struct {
	Preferences *itineraryPreferences `json:"preferences"`
}

func (s *Server) handleGenerateItinerary(w http.ResponseWriter, r *http.Request) {
	var req itineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Preferences == nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":    "Preferences are required",
			"response": "Please provide travel preferences to generate an itinerary.",
		})
		return
	}

	itinerary, err := s.assistant.GenerateItinerary(r.Context(), req.Preferences.toStore())
	if err != nil {
		var upstream *assistant.UpstreamError
		if errors.As(err, &upstream) {
			s.writeJSON(w, upstream.Status, map[string]string{
				"error":    upstream.Code,
				"response": upstream.Response,
			})
			return
		}
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":    "Internal server error",
			"response": "I apologize, but I encountered an unexpected error generating your itinerary. Please try again later.",
		})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"itinerary":   itinerary,
		"preferences": req.Preferences,
		"model":       s.assistant.Model(),
		"timestamp":   timestamp(),
	})
}

// toStore maps the wire preferences onto the preference aggregate,
// tolerating the loose formats the client uses.
func (p *itineraryPreferences) toStore() prefs.Store {
	store := prefs.New()
	if p.Destination != "" {
		store.ChooseBranch(true)
		store.SetDestinations(p.Destination)
	}
	if start, end, ok := splitDates(p.Dates); ok {
		store.SetDates(start, end)
	}
	store.SetPartySize(p.PartySize)
	if budget, err := parser.ParseBudget(fmt.Sprint(p.Budget)); err == nil {
		store.SetBudget(budget)
	}
	for _, v := range strings.Split(p.Vibes, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			store.AddVibe(trimmed)
		}
	}
	store.SetClimate(p.Climate)
	for _, a := range p.Activities {
		store.AddMustDo(a)
	}
	return store.Snapshot()
}

func splitDates(dates string) (time.Time, time.Time, bool) {
	for _, sep := range []string{" to ", " - ", ".."} {
		if before, after, found := strings.Cut(dates, sep); found {
			start, err1 := time.Parse("2006-01-02", strings.TrimSpace(before))
			end, err2 := time.Parse("2006-01-02", strings.TrimSpace(after))
			if err1 == nil && err2 == nil {
				return start, end, true
			}
		}
	}
	return time.Time{}, time.Time{}, false
}

func (s *Server) handleGetListings(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := listings.Query{
		Destination: params.Get("destination"),
		CheckIn:     params.Get("checkIn"),
		CheckOut:    params.Get("checkOut"),
	}
	if budget, err := strconv.ParseFloat(params.Get("budget"), 64); err == nil {
		q.Budget = budget
	}
	if guests, err := strconv.Atoi(params.Get("guests")); err == nil {
		q.Guests = guests
	}
	s.serveListings(w, r, q)
}

func (s *Server) handleSearchListings(w http.ResponseWriter, r *http.Request) {
	var q listings.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "Invalid request body",
			"message": "Please provide a valid search request.",
		})
		return
	}
	s.serveListings(w, r, q)
}

func (s *Server) serveListings(w http.ResponseWriter, r *http.Request, q listings.Query) {
	if strings.TrimSpace(q.Destination) == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "Destination is required",
			"message": "Please provide a destination to search for listings.",
		})
		return
	}

	results, err := s.listings.Search(r.Context(), q)
	if err != nil {
		logger.Error("listing search failed", "destination", q.Destination, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Internal server error",
			"message": "Failed to fetch listings. Please try again later.",
		})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"listings":  results,
		"query":     q,
		"timestamp": timestamp(),
	})
}

func (s *Server) handleStartConversation(w http.ResponseWriter, r *http.Request) {
	reply := s.planner.Start()
	s.writeJSON(w, http.StatusCreated, reply)
}

type conversationTurnRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleConversationTurn(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req conversationTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "Message is required",
			"message": "Please provide a message to continue the conversation.",
		})
		return
	}

	reply, err := s.planner.Answer(r.Context(), id, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			s.writeJSON(w, http.StatusNotFound, map[string]string{
				"error":   "Session not found",
				"message": "That conversation does not exist. Start a new one.",
			})
		case errors.Is(err, session.ErrBusy):
			s.writeJSON(w, http.StatusConflict, map[string]string{
				"error":   "Session busy",
				"message": "I'm still working on your last request. One moment!",
			})
		default:
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error":   "Internal server error",
				"message": "Something went wrong. Please try again.",
			})
		}
		return
	}

	s.writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, err := s.planner.Session(id)
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{
			"error":   "Session not found",
			"message": "That conversation does not exist.",
		})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"session_id":  sess.ID,
		"state":       sess.State().String(),
		"transcript":  sess.Transcript(),
		"preferences": sess.Preferences(),
		"itinerary":   sess.Itinerary(),
		"timestamp":   timestamp(),
	})
}
