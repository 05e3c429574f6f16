package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-travel-agent/config"
	"ai-travel-agent/filter"
	"ai-travel-agent/listings"
	"ai-travel-agent/models"
	"ai-travel-agent/prefs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFinder struct {
	listings []models.Listing
	err      error
	calls    int
}

func (f *stubFinder) Search(_ context.Context, _ listings.Query) ([]models.Listing, error) {
	f.calls++
	return f.listings, f.err
}

type stubCompleter struct {
	chatReply string
	itinerary string
	err       error
	block     chan struct{}
}

func (c *stubCompleter) Chat(_ context.Context, _ string, _ []models.ConversationMessage) (string, error) {
	if c.block != nil {
		<-c.block
	}
	return c.chatReply, c.err
}

func (c *stubCompleter) GenerateItinerary(_ context.Context, _ prefs.Store) (string, error) {
	if c.block != nil {
		<-c.block
	}
	return c.itinerary, c.err
}

func total(cents int64) models.Listing {
	return models.Listing{Price: models.Money{AmountCents: cents}}
}

func newTestPlanner(finder *stubFinder, completer *stubCompleter) *Planner {
	return NewPlanner(NewManager(), finder, filter.NewFilter(config.GetDefaultConfig()), completer)
}

func runFlow(t *testing.T, p *Planner) (string, Reply) {
	t.Helper()
	start := p.Start()
	require.NotEmpty(t, start.SessionID)

	var reply Reply
	var err error
	for _, answer := range []string{"yes", "Paris", "1000", "2024-06-01 to 2024-06-05", "2"} {
		reply, err = p.Answer(context.Background(), start.SessionID, answer)
		require.NoError(t, err)
		require.False(t, reply.Complete)
	}
	reply, err = p.Answer(context.Background(), start.SessionID, "done")
	require.NoError(t, err)
	return start.SessionID, reply
}

func TestFlowCompletionGeneratesItinerary(t *testing.T) {
	completer := &stubCompleter{itinerary: "Day 1: Louvre"}
	p := newTestPlanner(&stubFinder{}, completer)

	_, reply := runFlow(t, p)

	assert.True(t, reply.Complete)
	assert.Equal(t, "Day 1: Louvre", reply.Itinerary)
	assert.Contains(t, reply.Message.Content, "Would you like to see them?")
	assert.Contains(t, reply.Message.Content, "Paris")
}

func TestItineraryFailureDegradesToFallback(t *testing.T) {
	completer := &stubCompleter{err: errors.New("upstream down")}
	p := newTestPlanner(&stubFinder{}, completer)

	id, reply := runFlow(t, p)

	assert.True(t, reply.Complete)
	assert.Empty(t, reply.Itinerary)
	assert.Equal(t, fallbackMessage, reply.Message.Content)

	// the session stays interactive after the failure
	s, err := p.sessions.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingAnswer, s.State())
}

func TestAffirmativeAfterOfferShowsListings(t *testing.T) {
	finder := &stubFinder{listings: []models.Listing{
		total(20000), total(45000), total(70000), total(90000),
	}}
	p := newTestPlanner(finder, &stubCompleter{itinerary: "plan"})

	id, _ := runFlow(t, p)

	reply, err := p.Answer(context.Background(), id, "yes please")
	require.NoError(t, err)
	require.NotEmpty(t, reply.Listings)
	assert.LessOrEqual(t, len(reply.Listings), displayCount)
	assert.Contains(t, reply.Message.Content, "Airbnb listings")

	// ascending price order survives selection
	for i := 1; i < len(reply.Listings); i++ {
		assert.GreaterOrEqual(t,
			reply.Listings[i].TotalPriceCents(4),
			reply.Listings[i-1].TotalPriceCents(4))
	}
}

func TestSeeAfterOfferShowsListings(t *testing.T) {
	finder := &stubFinder{listings: []models.Listing{total(20000), total(45000)}}
	p := newTestPlanner(finder, &stubCompleter{itinerary: "plan"})

	id, _ := runFlow(t, p)

	reply, err := p.Answer(context.Background(), id, "I'd like to see them")
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Listings)
}

func TestSightseeingQuestionStaysFreeform(t *testing.T) {
	finder := &stubFinder{listings: []models.Listing{total(20000)}}
	completer := &stubCompleter{itinerary: "plan", chatReply: "Try the old town."}
	p := newTestPlanner(finder, completer)

	id, _ := runFlow(t, p)

	// consume the pending offer so "see" no longer reads as a yes
	_, err := p.Answer(context.Background(), id, "no thanks")
	require.NoError(t, err)

	reply, err := p.Answer(context.Background(), id, "any good sightseeing?")
	require.NoError(t, err)
	assert.Empty(t, reply.Listings)
	assert.Equal(t, "Try the old town.", reply.Message.Content)
}

func TestCheaperOptionsReusesFetchedPool(t *testing.T) {
	finder := &stubFinder{listings: []models.Listing{
		total(20000), total(45000), total(70000), total(90000),
	}}
	p := newTestPlanner(finder, &stubCompleter{itinerary: "plan"})

	id, _ := runFlow(t, p)

	_, err := p.Answer(context.Background(), id, "show me listings")
	require.NoError(t, err)
	require.Equal(t, 1, finder.calls)

	reply, err := p.Answer(context.Background(), id, "anything cheaper?")
	require.NoError(t, err)
	assert.Equal(t, 1, finder.calls, "cheaper options reuse the fetched pool")
	assert.NotEmpty(t, reply.Listings)
}

func TestFreeformRelaysToCompleter(t *testing.T) {
	completer := &stubCompleter{itinerary: "plan", chatReply: "June is lovely."}
	p := newTestPlanner(&stubFinder{}, completer)

	id, _ := runFlow(t, p)

	reply, err := p.Answer(context.Background(), id, "what's the weather like?")
	require.NoError(t, err)
	assert.Equal(t, "June is lovely.", reply.Message.Content)
}

func TestBusySessionRejectsSecondOperation(t *testing.T) {
	completer := &stubCompleter{itinerary: "plan", block: make(chan struct{})}
	p := newTestPlanner(&stubFinder{}, completer)

	start := p.Start()
	for _, answer := range []string{"yes", "Paris", "1000", "2024-06-01 to 2024-06-05", "2"} {
		_, err := p.Answer(context.Background(), start.SessionID, answer)
		require.NoError(t, err)
	}

	done := make(chan Reply, 1)
	go func() {
		reply, _ := p.Answer(context.Background(), start.SessionID, "done")
		done <- reply
	}()

	s, err := p.sessions.Get(start.SessionID)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return s.State() == StateGeneratingItinerary
	}, time.Second, time.Millisecond)

	_, err = p.Answer(context.Background(), start.SessionID, "hello?")
	assert.ErrorIs(t, err, ErrBusy)

	close(completer.block)
	reply := <-done
	assert.True(t, reply.Complete)
}

func TestTranscriptOrderReflectsInputOrder(t *testing.T) {
	p := newTestPlanner(&stubFinder{}, &stubCompleter{itinerary: "plan"})
	id, _ := runFlow(t, p)

	s, err := p.sessions.Get(id)
	require.NoError(t, err)

	transcript := s.Transcript()
	var userTurns []string
	for _, msg := range transcript {
		if msg.Role == models.RoleUser {
			userTurns = append(userTurns, msg.Content)
		}
	}
	assert.Equal(t, []string{"yes", "Paris", "1000", "2024-06-01 to 2024-06-05", "2", "done"}, userTurns)
}

func TestUnknownSession(t *testing.T) {
	p := newTestPlanner(&stubFinder{}, &stubCompleter{})
	_, err := p.Answer(context.Background(), "nope", "hello")
	assert.ErrorIs(t, err, ErrNotFound)
}
