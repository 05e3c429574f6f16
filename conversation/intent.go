package conversation

import "strings"

// Intent classifies a free-form chat turn.
type Intent int

const (
	// IntentFreeform forwards the message to the completion API.
	IntentFreeform Intent = iota
	// IntentShowListings surfaces the listing results.
	IntentShowListings
	// IntentCheaperOptions re-filters listings under the tighter ceiling.
	IntentCheaperOptions
	// IntentAffirmative is a yes-answer to the pending assistant question.
	IntentAffirmative
)

// String returns the wire name for an intent.
func (i Intent) String() string {
	switch i {
	case IntentShowListings:
		return "show_listings"
	case IntentCheaperOptions:
		return "cheaper_options"
	case IntentAffirmative:
		return "affirmative"
	}
	return "freeform"
}

// listingPhrases are substring matches; affirmativeWords match whole words
// so "yesterday" does not read as a yes and "sightseeing" not as a listings
// request. Bare "see"/"show" only surface listings when a listings offer is
// pending, via the affirmative path.
var (
	listingPhrases   = []string{"listing", "airbnb", "show me"}
	cheaperPhrases   = []string{"cheaper", "less expensive", "lower price", "more affordable"}
	affirmativeWords = []string{"yes", "yeah", "sure", "ok", "okay", "yep", "please", "show", "see"}
)

// Classify maps a chat message to an intent by evaluating a fixed rule
// order: listing phrases, then cheaper phrases, then affirmative words,
// then freeform. The order makes ties deterministic; "show me cheaper
// listings" is a listings request, not a cheaper-options one.
func Classify(message string) Intent {
	lower := strings.ToLower(message)

	for _, p := range listingPhrases {
		if strings.Contains(lower, p) {
			return IntentShowListings
		}
	}
	for _, p := range cheaperPhrases {
		if strings.Contains(lower, p) {
			return IntentCheaperOptions
		}
	}

	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	for _, w := range words {
		for _, a := range affirmativeWords {
			if w == a {
				return IntentAffirmative
			}
		}
	}
	return IntentFreeform
}
