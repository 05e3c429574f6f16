// Package prefs holds the trip parameters collected over a planning
// conversation. The store does presence tracking and type coercion only;
// answer validation belongs to the conversation machine.
package prefs

import (
	"strings"
	"time"
)

// Vibe tags offered as fixed choices. Custom free-text vibes are allowed
// alongside these.
const (
	VibeRelaxing  = "Relaxing"
	VibeAdventure = "Adventure"
	VibeRomantic  = "Romantic"
	VibeCulture   = "Culture"
	VibeFoodie    = "Foodie"
)

// Climate preference values.
const (
	ClimateWarm         = "Warm"
	ClimateCold         = "Cold"
	ClimateNoPreference = "NoPreference"
)

// DateRange is a trip window. End must not precede Start.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// TripDays returns the number of nights covered, never less than 1.
func (d DateRange) TripDays() int {
	days := int(d.End.Sub(d.Start).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// Store is the mutable preference aggregate for one planning session.
type Store struct {
	Destinations     []string   `json:"destinations,omitempty"`
	TravelingFrom    string     `json:"traveling_from,omitempty"`
	Dates            *DateRange `json:"dates,omitempty"`
	PartySize        int        `json:"party_size,omitempty"`
	TotalBudget      float64    `json:"total_budget,omitempty"`
	Vibes            []string   `json:"vibes,omitempty"`
	Climate          string     `json:"climate,omitempty"`
	MustDoActivities []string   `json:"must_do_activities,omitempty"`
	AvoidActivities  []string   `json:"avoid_activities,omitempty"`

	// HasDestination records the branch chosen at the start of the flow;
	// nil until the user picks one.
	HasDestination *bool `json:"has_destination,omitempty"`
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// ChooseBranch records whether the user already has a destination in mind.
func (s *Store) ChooseBranch(hasDestination bool) {
	v := hasDestination
	s.HasDestination = &v
}

// SetDestinations splits a free-text destination answer on commas, trims
// each fragment and drops empty ones.
func (s *Store) SetDestinations(raw string) {
	s.Destinations = SplitDestinations(raw)
}

// SplitDestinations parses a comma-separated destination answer.
func SplitDestinations(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// SetDates records the trip window.
func (s *Store) SetDates(start, end time.Time) {
	s.Dates = &DateRange{Start: start, End: end}
}

// SetPartySize records the traveler count.
func (s *Store) SetPartySize(n int) {
	s.PartySize = n
}

// SetBudget records the total trip budget.
func (s *Store) SetBudget(amount float64) {
	s.TotalBudget = amount
}

// AddVibe appends a vibe tag, ignoring duplicates.
func (s *Store) AddVibe(vibe string) {
	for _, v := range s.Vibes {
		if strings.EqualFold(v, vibe) {
			return
		}
	}
	s.Vibes = append(s.Vibes, vibe)
}

// SetClimate records the climate preference.
func (s *Store) SetClimate(climate string) {
	s.Climate = climate
}

// AddMustDo appends an activity the trip should include.
func (s *Store) AddMustDo(activity string) {
	s.MustDoActivities = append(s.MustDoActivities, activity)
}

// AddAvoid appends an activity the trip should avoid.
func (s *Store) AddAvoid(activity string) {
	s.AvoidActivities = append(s.AvoidActivities, activity)
}

// TripDays returns the trip duration in days, 1 when dates are unset.
func (s *Store) TripDays() int {
	if s.Dates == nil {
		return 1
	}
	return s.Dates.TripDays()
}

// PrimaryDestination returns the first destination, or empty.
func (s *Store) PrimaryDestination() string {
	if len(s.Destinations) == 0 {
		return ""
	}
	return s.Destinations[0]
}

// IsComplete reports whether every required field for the chosen branch is
// populated. The destination branch requires destinations, budget, dates and
// party size; the recommendation branch swaps destinations and budget for
// vibes and climate. No branch chosen means not complete.
func (s *Store) IsComplete() bool {
	if s.HasDestination == nil {
		return false
	}
	if s.Dates == nil || s.PartySize < 1 {
		return false
	}
	if *s.HasDestination {
		return len(s.Destinations) > 0 && s.TotalBudget > 0
	}
	return len(s.Vibes) > 0 && s.Climate != ""
}

// Reset discards all collected preferences for a fresh planning session.
func (s *Store) Reset() {
	*s = Store{}
}

// Snapshot returns a deep copy safe to hand to asynchronous consumers.
func (s *Store) Snapshot() Store {
	out := *s
	out.Destinations = append([]string(nil), s.Destinations...)
	out.Vibes = append([]string(nil), s.Vibes...)
	out.MustDoActivities = append([]string(nil), s.MustDoActivities...)
	out.AvoidActivities = append([]string(nil), s.AvoidActivities...)
	if s.Dates != nil {
		d := *s.Dates
		out.Dates = &d
	}
	if s.HasDestination != nil {
		b := *s.HasDestination
		out.HasDestination = &b
	}
	return out
}
