// Package conversation drives the preference-collection flow: a fixed
// question sequence with an early branch on whether the user already has a
// destination, plus intent classification for free-form chat turns.
package conversation

import (
	"strconv"
	"strings"
	"time"

	"ai-travel-agent/models"
	"ai-travel-agent/parser"
	"ai-travel-agent/prefs"
)

// Step identifies the question the machine is waiting on.
type Step int

const (
	StepPathSelection Step = iota
	StepDestination
	StepVibes
	StepBudget
	StepClimate
	StepDates
	StepPartySize
	StepActivities
	StepComplete
)

// String returns the wire name for a step.
func (s Step) String() string {
	switch s {
	case StepPathSelection:
		return "path_selection"
	case StepDestination:
		return "destination"
	case StepVibes:
		return "vibes"
	case StepBudget:
		return "budget"
	case StepClimate:
		return "climate"
	case StepDates:
		return "dates"
	case StepPartySize:
		return "party_size"
	case StepActivities:
		return "activities"
	case StepComplete:
		return "complete"
	}
	return "unknown"
}

// Result is the outcome of feeding one answer to the machine.
type Result struct {
	// Message is the assistant follow-up: the next question, a re-prompt
	// on invalid input, or the completion acknowledgement.
	Message models.ConversationMessage
	// Advanced is true when the answer was accepted and the cursor moved.
	Advanced bool
	// Complete is true once the flow has reached its terminal step.
	Complete bool
}

// Machine sequences the questions and validates each answer before
// mutating the preference store.
type Machine struct {
	store *prefs.Store
	step  Step
}

// NewMachine returns a machine at the start of the flow.
func NewMachine(store *prefs.Store) *Machine {
	return &Machine{store: store, step: StepPathSelection}
}

// Step returns the current position in the flow.
func (m *Machine) Step() Step {
	return m.step
}

// Store returns the underlying preference store.
func (m *Machine) Store() *prefs.Store {
	return m.store
}

// Question returns the prompt for the current step.
func (m *Machine) Question() models.ConversationMessage {
	switch m.step {
	case StepPathSelection:
		return ask("Do you have a specific destination in mind?", "Yes", "No")
	case StepDestination:
		return ask("Where would you like to go? Separate multiple destinations with commas.")
	case StepVibes:
		return ask("What kind of vibe are you going for? Pick as many as you like, then say \"next\".",
			prefs.VibeRelaxing, prefs.VibeAdventure, prefs.VibeRomantic, prefs.VibeCulture, prefs.VibeFoodie)
	case StepBudget:
		return ask("What's your total budget for the trip, in USD?")
	case StepClimate:
		return ask("What's your preferred climate?", "Warm", "Cold", "Doesn't matter")
	case StepDates:
		return ask("When are you planning to travel? Use YYYY-MM-DD to YYYY-MM-DD.")
	case StepPartySize:
		return ask("How many people will be traveling?")
	case StepActivities:
		return ask("Any must-do activities or things to avoid? Say \"done\" when finished.")
	case StepComplete:
		return ask("Great, I have everything I need. Let me put your trip together!")
	}
	return ask("")
}

// Advance feeds one user answer to the machine. Invalid answers leave the
// state unchanged and re-ask the same question.
func (m *Machine) Advance(input string) Result {
	input = strings.TrimSpace(input)

	switch m.step {
	case StepPathSelection:
		return m.advancePathSelection(input)
	case StepDestination:
		return m.advanceDestination(input)
	case StepVibes:
		return m.advanceVibes(input)
	case StepBudget:
		return m.advanceBudget(input)
	case StepClimate:
		return m.advanceClimate(input)
	case StepDates:
		return m.advanceDates(input)
	case StepPartySize:
		return m.advancePartySize(input)
	case StepActivities:
		return m.advanceActivities(input)
	case StepComplete:
		return Result{Message: m.Question(), Complete: true}
	}
	return Result{Message: m.Question()}
}

func (m *Machine) advancePathSelection(input string) Result {
	switch normalize(input) {
	case "yes", "y", "1":
		m.store.ChooseBranch(true)
		return m.moveTo(StepDestination)
	case "no", "n", "2":
		m.store.ChooseBranch(false)
		return m.moveTo(StepVibes)
	}
	return m.reask("Please answer Yes or No.")
}

func (m *Machine) advanceDestination(input string) Result {
	destinations := prefs.SplitDestinations(input)
	if len(destinations) == 0 {
		return m.reask("I didn't catch a destination. Where would you like to go?")
	}
	m.store.SetDestinations(input)
	return m.moveTo(StepBudget)
}

func (m *Machine) advanceVibes(input string) Result {
	if normalize(input) == "next" {
		if len(m.store.Vibes) == 0 {
			return m.reask("Pick at least one vibe before moving on.")
		}
		return m.moveTo(StepClimate)
	}
	added := false
	for _, v := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			m.store.AddVibe(trimmed)
			added = true
		}
	}
	if !added {
		return m.reask("Tell me a vibe, or say \"next\" to continue.")
	}
	return Result{Message: ask("Got it. Any other vibes? Say \"next\" to continue.")}
}

func (m *Machine) advanceBudget(input string) Result {
	amount, err := parser.ParseBudget(input)
	if err != nil {
		return m.reask("I couldn't read that as a budget. Try something like 1500 or $1,500.")
	}
	m.store.SetBudget(amount)
	return m.moveTo(StepDates)
}

func (m *Machine) advanceClimate(input string) Result {
	switch normalize(input) {
	case "warm", "hot":
		m.store.SetClimate(prefs.ClimateWarm)
	case "cold", "cool":
		m.store.SetClimate(prefs.ClimateCold)
	case "doesn't matter", "doesnt matter", "no preference", "any":
		m.store.SetClimate(prefs.ClimateNoPreference)
	default:
		return m.reask("Warm, Cold, or Doesn't matter?")
	}
	return m.moveTo(StepDates)
}

func (m *Machine) advanceDates(input string) Result {
	start, end, ok := parseDateRange(input)
	if !ok {
		return m.reask("Please give me two dates like 2024-06-01 to 2024-06-05.")
	}
	if end.Before(start) {
		return m.reask("The return date can't be before the start date.")
	}
	m.store.SetDates(start, end)
	return m.moveTo(StepPartySize)
}

func (m *Machine) advancePartySize(input string) Result {
	// invalid input coerces to a single traveler instead of re-asking
	size, err := strconv.Atoi(input)
	if err != nil || size < 1 {
		size = 1
	}
	m.store.SetPartySize(size)
	return m.moveTo(StepActivities)
}

func (m *Machine) advanceActivities(input string) Result {
	if normalize(input) == "done" {
		m.step = StepComplete
		return Result{Message: m.Question(), Advanced: true, Complete: true}
	}
	if input == "" {
		return m.reask("Add an activity, or say \"done\" to finish.")
	}
	if rest, ok := cutPrefixFold(input, "avoid:"); ok {
		m.store.AddAvoid(strings.TrimSpace(rest))
	} else {
		m.store.AddMustDo(input)
	}
	return Result{Message: ask("Noted. Anything else? Say \"done\" to finish.")}
}

func (m *Machine) moveTo(next Step) Result {
	m.step = next
	return Result{Message: m.Question(), Advanced: true}
}

func (m *Machine) reask(hint string) Result {
	q := m.Question()
	q.Content = hint + " " + q.Content
	return Result{Message: q}
}

func ask(content string, options ...string) models.ConversationMessage {
	return models.ConversationMessage{
		Role:    models.RoleAssistant,
		Content: content,
		Options: options,
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.Trim(s, ".!")))
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}

// parseDateRange accepts "start to end", "start - end" and "start..end"
// with YYYY-MM-DD dates.
func parseDateRange(input string) (time.Time, time.Time, bool) {
	for _, sep := range []string{" to ", "..", " - ", ","} {
		if before, after, found := strings.Cut(input, sep); found {
			start, err1 := time.Parse("2006-01-02", strings.TrimSpace(before))
			end, err2 := time.Parse("2006-01-02", strings.TrimSpace(after))
			if err1 == nil && err2 == nil {
				return start, end, true
			}
		}
	}
	return time.Time{}, time.Time{}, false
}
