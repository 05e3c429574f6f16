// Package session owns per-conversation state: the preference store, the
// question machine, the transcript, and the single-operation discipline
// that keeps each session to one in-flight request.
package session

import (
	"errors"
	"sync"

	"ai-travel-agent/conversation"
	"ai-travel-agent/models"
	"ai-travel-agent/prefs"

	"github.com/google/uuid"
)

// State is the single explicit session state. A session accepts input only
// while AwaitingAnswer.
type State int

const (
	StateIdle State = iota
	StateAwaitingAnswer
	StateFetchingListings
	StateGeneratingItinerary
)

// String returns the wire name for a state.
func (s State) String() string {
	switch s {
	case StateAwaitingAnswer:
		return "awaiting_answer"
	case StateFetchingListings:
		return "fetching_listings"
	case StateGeneratingItinerary:
		return "generating_itinerary"
	}
	return "idle"
}

// ErrBusy is returned when a session already has an operation in flight.
var ErrBusy = errors.New("session is busy with another request")

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("session not found")

// Session is one planning conversation.
type Session struct {
	ID string

	mu         sync.Mutex
	state      State
	store      *prefs.Store
	machine    *conversation.Machine
	transcript []models.ConversationMessage

	// last fetched listing set, reused for cheaper-options turns
	listings  []models.Listing
	itinerary string
}

func newSession() *Session {
	store := prefs.New()
	s := &Session{
		ID:      uuid.NewString(),
		state:   StateAwaitingAnswer,
		store:   store,
		machine: conversation.NewMachine(store),
	}
	s.transcript = append(s.transcript, s.machine.Question())
	return s
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() []models.ConversationMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ConversationMessage(nil), s.transcript...)
}

// Preferences returns a snapshot of the collected preferences.
func (s *Session) Preferences() prefs.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

// Itinerary returns the generated itinerary, empty until the flow
// completes.
func (s *Session) Itinerary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itinerary
}

// begin claims the session for one operation. The user message is appended
// to the transcript before any asynchronous work starts, so transcript
// order always reflects input order.
func (s *Session) begin(input string, next State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAwaitingAnswer {
		return ErrBusy
	}
	s.transcript = append(s.transcript, models.ConversationMessage{
		Role:     models.RoleUser,
		Content:  input,
		Answered: true,
	})
	s.state = next
	return nil
}

// finish records the assistant reply and releases the session.
func (s *Session) finish(reply models.ConversationMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, reply)
	s.state = StateAwaitingAnswer
}

// Manager tracks live sessions by id.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager returns an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create starts a new session with the opening question on the transcript.
func (m *Manager) Create() *Session {
	s := newSession()
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get looks up a session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete removes a session.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
