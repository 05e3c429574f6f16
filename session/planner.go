package session

import (
	"context"
	"fmt"
	"strings"

	"ai-travel-agent/conversation"
	"ai-travel-agent/filter"
	"ai-travel-agent/listings"
	"ai-travel-agent/logger"
	"ai-travel-agent/models"
	"ai-travel-agent/prefs"
	"ai-travel-agent/pricerange"
)

// listingsOfferMarker is the question the affirmative intent answers.
const listingsOfferMarker = "Would you like to see them?"

// fallbackMessage replaces any failed assistant turn so the conversation
// keeps going.
const fallbackMessage = "Sorry, I encountered an error. Please try again later."

// displayCount is how many listings a reply carries.
const displayCount = 5

// ListingFinder is the listing source as the planner sees it.
type ListingFinder interface {
	Search(ctx context.Context, q listings.Query) ([]models.Listing, error)
}

// Completer relays prompts to the completion API.
type Completer interface {
	Chat(ctx context.Context, message string, history []models.ConversationMessage) (string, error)
	GenerateItinerary(ctx context.Context, p prefs.Store) (string, error)
}

// Reply is the outcome of one conversation turn.
type Reply struct {
	SessionID string                     `json:"session_id"`
	Message   models.ConversationMessage `json:"message"`
	Listings  []models.Listing           `json:"listings,omitempty"`
	State     string                     `json:"state"`
	Complete  bool                       `json:"complete"`
	Itinerary string                     `json:"itinerary,omitempty"`
}

// Planner orchestrates sessions: it routes answers through the question
// machine while the flow runs, and classifies free-form intents once the
// flow is complete.
type Planner struct {
	sessions  *Manager
	finder    ListingFinder
	filter    *filter.Filter
	completer Completer
}

// NewPlanner wires the planner's collaborators.
func NewPlanner(sessions *Manager, finder ListingFinder, f *filter.Filter, completer Completer) *Planner {
	return &Planner{sessions: sessions, finder: finder, filter: f, completer: completer}
}

// Start opens a new session and returns the opening question.
func (p *Planner) Start() Reply {
	s := p.sessions.Create()
	return Reply{
		SessionID: s.ID,
		Message:   s.machine.Question(),
		State:     s.State().String(),
	}
}

// Session looks up a live session by id.
func (p *Planner) Session(id string) (*Session, error) {
	return p.sessions.Get(id)
}

// Answer feeds one user input to a session. A busy session returns ErrBusy;
// an unknown id returns ErrNotFound. Upstream failures degrade to a
// fallback message, never an error.
func (p *Planner) Answer(ctx context.Context, id, input string) (Reply, error) {
	s, err := p.sessions.Get(id)
	if err != nil {
		return Reply{}, err
	}

	if s.flowDone() {
		return p.answerFreeform(ctx, s, input)
	}
	return p.answerFlow(ctx, s, input)
}

// answerFlow advances the question machine one step.
func (p *Planner) answerFlow(ctx context.Context, s *Session, input string) (Reply, error) {
	s.mu.Lock()
	if s.state != StateAwaitingAnswer {
		s.mu.Unlock()
		return Reply{}, ErrBusy
	}
	if s.machine.Step() == conversation.StepComplete {
		s.mu.Unlock()
		return p.answerFreeform(ctx, s, input)
	}
	s.transcript = append(s.transcript, models.ConversationMessage{
		Role: models.RoleUser, Content: input, Answered: true,
	})
	result := s.machine.Advance(input)
	s.transcript = append(s.transcript, result.Message)

	if !result.Complete {
		s.mu.Unlock()
		return Reply{
			SessionID: s.ID,
			Message:   result.Message,
			State:     StateAwaitingAnswer.String(),
		}, nil
	}

	// flow complete: generate the itinerary outside the lock
	s.state = StateGeneratingItinerary
	snapshot := s.store.Snapshot()
	s.mu.Unlock()

	itinerary, err := p.completer.GenerateItinerary(ctx, snapshot)
	offer := buildListingsOffer(snapshot)
	if err != nil {
		logger.Error("itinerary generation failed", "session", s.ID, "error", err)
		offer = models.ConversationMessage{Role: models.RoleAssistant, Content: fallbackMessage}
	}

	s.mu.Lock()
	s.itinerary = itinerary
	s.transcript = append(s.transcript, offer)
	s.state = StateAwaitingAnswer
	s.mu.Unlock()

	return Reply{
		SessionID: s.ID,
		Message:   offer,
		State:     StateAwaitingAnswer.String(),
		Complete:  true,
		Itinerary: itinerary,
	}, nil
}

// answerFreeform handles chat turns after the flow has completed.
func (p *Planner) answerFreeform(ctx context.Context, s *Session, input string) (Reply, error) {
	intent := conversation.Classify(input)
	if intent == conversation.IntentAffirmative && s.hasPendingListingsOffer() {
		intent = conversation.IntentShowListings
	}

	switch intent {
	case conversation.IntentShowListings:
		return p.showListings(ctx, s, input, false)
	case conversation.IntentCheaperOptions:
		return p.showListings(ctx, s, input, true)
	default:
		return p.relayChat(ctx, s, input)
	}
}

func (p *Planner) showListings(ctx context.Context, s *Session, input string, cheaper bool) (Reply, error) {
	if err := s.begin(input, StateFetchingListings); err != nil {
		return Reply{}, err
	}

	snapshot := s.Preferences()
	selected, err := p.selectListings(ctx, s, snapshot, cheaper)
	if err != nil {
		logger.Error("listing fetch failed", "session", s.ID, "error", err)
		reply := models.ConversationMessage{Role: models.RoleAssistant, Content: fallbackMessage}
		s.finish(reply)
		return Reply{SessionID: s.ID, Message: reply, State: StateAwaitingAnswer.String(), Complete: true}, nil
	}

	content := fmt.Sprintf("Great! Here are %d Airbnb listings at different price points for your trip:", len(selected))
	if len(selected) == 0 {
		content = "I couldn't find any listings for your trip just now. Want me to try different dates or a different area?"
	} else if cheaper {
		content = fmt.Sprintf("Here are %d more budget-friendly options:", len(selected))
	}

	reply := models.ConversationMessage{Role: models.RoleAssistant, Content: content}
	s.finish(reply)
	return Reply{
		SessionID: s.ID,
		Message:   reply,
		Listings:  selected,
		State:     StateAwaitingAnswer.String(),
		Complete:  true,
	}, nil
}

// selectListings fetches (or reuses) the session's listing pool and applies
// the budget filter and price-point spread.
func (p *Planner) selectListings(ctx context.Context, s *Session, snapshot prefs.Store, cheaper bool) ([]models.Listing, error) {
	destination := snapshot.PrimaryDestination()
	if destination == "" {
		return nil, fmt.Errorf("no destination collected")
	}

	s.mu.Lock()
	pool := s.listings
	s.mu.Unlock()

	if len(pool) == 0 {
		q := listings.Query{
			Destination: destination,
			Budget:      snapshot.TotalBudget,
			Guests:      snapshot.PartySize,
		}
		if snapshot.Dates != nil {
			q.CheckIn = snapshot.Dates.Start.Format("2006-01-02")
			q.CheckOut = snapshot.Dates.End.Format("2006-01-02")
		}
		fetched, err := p.finder.Search(ctx, q)
		if err != nil {
			return nil, err
		}
		pool = fetched
		s.mu.Lock()
		s.listings = fetched
		s.mu.Unlock()
	}

	tripDays := snapshot.TripDays()
	var filtered []models.Listing
	if cheaper {
		filtered = p.filter.CheaperOptions(pool, snapshot.TotalBudget, tripDays)
	} else {
		filtered = p.filter.WithinBudget(pool, snapshot.TotalBudget, tripDays)
	}
	return pricerange.Spread(filtered, tripDays, displayCount), nil
}

func (p *Planner) relayChat(ctx context.Context, s *Session, input string) (Reply, error) {
	if err := s.begin(input, StateGeneratingItinerary); err != nil {
		return Reply{}, err
	}

	history := s.Transcript()
	// drop the just-appended user turn; Chat re-adds the message itself
	if n := len(history); n > 0 && history[n-1].Role == models.RoleUser {
		history = history[:n-1]
	}

	content, err := p.completer.Chat(ctx, input, history)
	if err != nil {
		logger.Error("chat relay failed", "session", s.ID, "error", err)
		content = fallbackMessage
	}

	reply := models.ConversationMessage{Role: models.RoleAssistant, Content: content}
	s.finish(reply)
	return Reply{SessionID: s.ID, Message: reply, State: StateAwaitingAnswer.String(), Complete: true}, nil
}

func (s *Session) flowDone() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Step() == conversation.StepComplete
}

// hasPendingListingsOffer reports whether the last assistant turn offered
// to show listings.
func (s *Session) hasPendingListingsOffer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.transcript) - 1; i >= 0; i-- {
		if s.transcript[i].Role == models.RoleAssistant {
			return strings.Contains(s.transcript[i].Content, listingsOfferMarker)
		}
	}
	return false
}

// buildListingsOffer is the completion message: a recap of the trip plus
// the offer the affirmative intent answers.
func buildListingsOffer(p prefs.Store) models.ConversationMessage {
	destination := p.PrimaryDestination()
	if destination == "" {
		destination = "your destination"
	}
	dates := "your dates"
	if p.Dates != nil {
		dates = fmt.Sprintf("%s to %s",
			p.Dates.Start.Format("2006-01-02"), p.Dates.End.Format("2006-01-02"))
	}
	content := fmt.Sprintf(
		"Hi there! I see you're planning a trip to %s from %s for %d traveler(s) with a budget of $%.0f. I've found some great Airbnb listings that might interest you. %s",
		destination, dates, p.PartySize, p.TotalBudget, listingsOfferMarker)
	return models.ConversationMessage{Role: models.RoleAssistant, Content: content}
}
