package conversation

import (
	"testing"

	"ai-travel-agent/prefs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestinationBranchFlow(t *testing.T) {
	store := prefs.New()
	m := NewMachine(store)

	r := m.Advance("yes")
	assert.True(t, r.Advanced)
	assert.Equal(t, StepDestination, m.Step())

	r = m.Advance("Paris, Rome")
	assert.True(t, r.Advanced)
	assert.Equal(t, StepBudget, m.Step())
	assert.Equal(t, []string{"Paris", "Rome"}, store.Destinations)

	r = m.Advance("$1,200")
	assert.True(t, r.Advanced)
	assert.Equal(t, StepDates, m.Step())
	assert.Equal(t, 1200.0, store.TotalBudget)

	r = m.Advance("2024-06-01 to 2024-06-05")
	assert.True(t, r.Advanced)
	assert.Equal(t, StepPartySize, m.Step())

	r = m.Advance("2")
	assert.True(t, r.Advanced)
	assert.Equal(t, StepActivities, m.Step())

	m.Advance("hiking")
	m.Advance("museums")
	r = m.Advance("DONE")
	assert.True(t, r.Complete)
	assert.Equal(t, StepComplete, m.Step())
	assert.Equal(t, []string{"hiking", "museums"}, store.MustDoActivities)
	assert.True(t, store.IsComplete())
}

func TestRecommendationBranchFlow(t *testing.T) {
	store := prefs.New()
	m := NewMachine(store)

	r := m.Advance("no")
	assert.True(t, r.Advanced)
	assert.Equal(t, StepVibes, m.Step())

	r = m.Advance("Adventure, Foodie")
	assert.False(t, r.Advanced, "vibe selection stays until explicit next")
	assert.Equal(t, StepVibes, m.Step())

	r = m.Advance("next")
	assert.True(t, r.Advanced)
	assert.Equal(t, StepClimate, m.Step())
	assert.Equal(t, []string{"Adventure", "Foodie"}, store.Vibes)

	r = m.Advance("warm")
	require.True(t, r.Advanced)
	assert.Equal(t, StepDates, m.Step())
	assert.Equal(t, prefs.ClimateWarm, store.Climate)

	m.Advance("2024-07-10 to 2024-07-17")
	m.Advance("4")
	r = m.Advance("done")
	assert.True(t, r.Complete)
	assert.True(t, store.IsComplete())
}

func TestBranchesNeverCross(t *testing.T) {
	m := NewMachine(prefs.New())
	m.Advance("yes")
	assert.Equal(t, StepDestination, m.Step())

	m2 := NewMachine(prefs.New())
	m2.Advance("no")
	assert.Equal(t, StepVibes, m2.Step())
}

func TestInvalidAnswersStay(t *testing.T) {
	store := prefs.New()
	m := NewMachine(store)

	r := m.Advance("maybe")
	assert.False(t, r.Advanced)
	assert.Equal(t, StepPathSelection, m.Step())

	m.Advance("yes")
	r = m.Advance("   ")
	assert.False(t, r.Advanced)
	assert.Equal(t, StepDestination, m.Step())

	m.Advance("Lisbon")
	r = m.Advance("a fortune")
	assert.False(t, r.Advanced)
	assert.Equal(t, StepBudget, m.Step())

	m.Advance("800")
	r = m.Advance("sometime in june")
	assert.False(t, r.Advanced)
	assert.Equal(t, StepDates, m.Step())

	r = m.Advance("2024-06-05 to 2024-06-01")
	assert.False(t, r.Advanced, "end before start must be rejected")
}

func TestPartySizeCoercesToOne(t *testing.T) {
	store := prefs.New()
	m := NewMachine(store)
	m.Advance("yes")
	m.Advance("Lisbon")
	m.Advance("800")
	m.Advance("2024-06-01 to 2024-06-05")

	r := m.Advance("a few of us")
	assert.True(t, r.Advanced, "invalid party size advances with a default")
	assert.Equal(t, 1, store.PartySize)
	assert.Equal(t, StepActivities, m.Step())
}

func TestVibesRequireOneBeforeNext(t *testing.T) {
	m := NewMachine(prefs.New())
	m.Advance("no")

	r := m.Advance("next")
	assert.False(t, r.Advanced)
	assert.Equal(t, StepVibes, m.Step())
}

func TestActivitiesAvoidPrefix(t *testing.T) {
	store := prefs.New()
	m := NewMachine(store)
	m.Advance("yes")
	m.Advance("Lisbon")
	m.Advance("800")
	m.Advance("2024-06-01 to 2024-06-05")
	m.Advance("2")

	m.Advance("surfing")
	m.Advance("avoid: crowded tours")
	m.Advance("done")

	assert.Equal(t, []string{"surfing"}, store.MustDoActivities)
	assert.Equal(t, []string{"crowded tours"}, store.AvoidActivities)
}

func TestDoneIsCaseInsensitive(t *testing.T) {
	for _, token := range []string{"done", "Done", "DONE", " done "} {
		store := prefs.New()
		m := NewMachine(store)
		m.Advance("yes")
		m.Advance("Lisbon")
		m.Advance("800")
		m.Advance("2024-06-01 to 2024-06-05")
		m.Advance("2")

		r := m.Advance(token)
		assert.True(t, r.Complete, "token %q should complete the flow", token)
	}
}
