package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ExtractJSON returns the first balanced top-level {...} span of text.
// Models often wrap the object in prose or a markdown fence; everything
// outside the span is ignored. Braces inside JSON strings are skipped.
// It fails with domain.ErrItineraryParse when no balanced span exists.
func ExtractJSON(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", fmt.Errorf("%w: no JSON object in response", domain.ErrItineraryParse)
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("%w: unterminated JSON object in response", domain.ErrItineraryParse)
}

// ParseItinerary extracts and decodes the itinerary in an AI response.
// The raw response is not included in the returned error.
func ParseItinerary(text string) (domain.TravelItinerary, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return domain.TravelItinerary{}, err
	}
	var it domain.TravelItinerary
	if err := json.Unmarshal([]byte(raw), &it); err != nil {
		return domain.TravelItinerary{}, fmt.Errorf("%w: %v", domain.ErrItineraryParse, err)
	}
	if len(it.Days) == 0 {
		return domain.TravelItinerary{}, fmt.Errorf("%w: itinerary has no days", domain.ErrItineraryParse)
	}
	it.Normalize()
	return it, nil
}
