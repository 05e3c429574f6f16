package assistant

import (
	"fmt"
	"strings"

	"ai-travel-agent/prefs"
)

// systemPrompt frames every chat relay turn.
const systemPrompt = `You are an expert AI travel agent assistant. Your role is to help users plan their perfect trips by providing personalized travel recommendations.

Key responsibilities:
- Help users find destinations, accommodations, and activities
- Provide budget-friendly travel advice
- Suggest itineraries based on user preferences
- Answer questions about travel requirements, weather, and local customs
- Be enthusiastic and helpful while maintaining professionalism

Guidelines:
- Always ask clarifying questions to better understand user needs
- Provide specific, actionable recommendations
- Consider budget constraints and travel dates
- Mention when you can help find Airbnb listings for specific destinations
- Be conversational and friendly
- If users ask about accommodation searches, let them know you can help find listings based on their preferences

Remember: You're here to make travel planning easier and more enjoyable!`

// itinerarySystemPrompt frames itinerary generation requests.
const itinerarySystemPrompt = `You are an expert travel planner who creates detailed, personalized itineraries. Always provide comprehensive, well-structured itineraries with specific recommendations.`

// BuildItineraryPrompt renders the collected preferences into the itinerary
// generation prompt. Unset fields render as "Not specified" so the model
// knows what it is free to choose.
func BuildItineraryPrompt(p prefs.Store) string {
	return fmt.Sprintf(`Generate a detailed, personalized travel itinerary based on these preferences:

**Travel Details:**
- Destination: %s
- Travel Dates: %s
- Trip Length: %s days
- Party Size: %s people
- Budget: %s

**Preferences:**
- Vibe: %s
- Climate Preference: %s
- Activities: %s

**Instructions:**
1. Create a day-by-day itinerary that matches their preferences
2. Include specific activities, attractions, and experiences
3. Consider their budget level and party size
4. Match the vibe they're looking for
5. Include practical tips like best times to visit attractions
6. Add food recommendations that fit their interests
7. Include approximate costs where relevant
8. Make it engaging and personalized
9. Format it clearly with headings and bullet points

Generate a comprehensive itinerary that they'll be excited to follow!`,
		orNotSpecified(strings.Join(p.Destinations, ", ")),
		formatDates(p),
		formatTripLength(p),
		formatPartySize(p),
		formatBudget(p),
		orNotSpecified(strings.Join(p.Vibes, ", ")),
		orNotSpecified(p.Climate),
		orNotSpecified(strings.Join(p.MustDoActivities, ", ")),
	)
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	return s
}

func formatDates(p prefs.Store) string {
	if p.Dates == nil {
		return "Not specified"
	}
	return fmt.Sprintf("%s to %s",
		p.Dates.Start.Format("2006-01-02"), p.Dates.End.Format("2006-01-02"))
}

func formatTripLength(p prefs.Store) string {
	if p.Dates == nil {
		return "Not specified"
	}
	return fmt.Sprintf("%d", p.TripDays())
}

func formatPartySize(p prefs.Store) string {
	if p.PartySize < 1 {
		return "Not specified"
	}
	return fmt.Sprintf("%d", p.PartySize)
}

func formatBudget(p prefs.Store) string {
	if p.TotalBudget <= 0 {
		return "Not specified"
	}
	return fmt.Sprintf("$%.0f", p.TotalBudget)
}
