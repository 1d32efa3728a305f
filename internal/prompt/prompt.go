// Package prompt turns travel preferences into the instruction sent to the
// chat model. Output is deterministic for identical input and nothing here
// validates the preferences: a reversed date range yields a degenerate day
// count that is passed through as-is.
package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/pkordes/trip-planner/internal/domain"
)

// The single currency every cost in a response must use.
const (
	CurrencySymbol = "₹"
	CurrencyCode   = "INR"
)

var generateTmpl = template.Must(template.New("generate").
	Funcs(template.FuncMap{"activity": schemaActivity, "json": jsonString}).
	Parse(
	`Create a detailed {{.Days}}-day travel itinerary for {{.Destination}}.

TRAVEL DETAILS:
- Destination: {{.Destination}}
- Dates: {{.Start}} to {{.End}} ({{.Days}} days)
- Budget: {{.Budget}}
- Pace: {{.Pace}}
- Group: {{.Group}}
- Interests: {{.Interests}}
- Special notes: {{.Notes}}

CURRENCY:
- Express every cost and the total budget in {{.Code}} using the {{.Symbol}} symbol, e.g. "{{.Symbol}}500-800" and "{{.Symbol}}15,000-25,000".

RESPONSE FORMAT (JSON only, no markdown):
{
  "destination": {{json .Destination}},
  "startDate": "{{.Start}}",
  "endDate": "{{.End}}",
  "overview": "Brief overview of the trip highlights",
  "totalBudget": "{{.Symbol}}15,000-25,000",
  "tips": ["Essential tip 1", "Essential tip 2", "Essential tip 3"],
  "days": [
    {
      "day": 1,
      "date": "{{.Start}}",
      "title": "Arrival & First Impressions",
      "morning": [
{{activity "morning" "2 hours" "500-800" "transportation" "9:00 AM - 6:00 PM" .Symbol}}
      ],
      "afternoon": [
{{activity "afternoon" "3 hours" "1,000-1,500" "sightseeing" "10:00 AM - 8:00 PM" .Symbol}}
      ],
      "evening": [
{{activity "evening" "2-3 hours" "800-1,200" "dining" "6:00 PM - 11:00 PM" .Symbol}}
      ],
      "notes": "Day-specific travel notes or weather considerations"
    }
  ]
}

REQUIREMENTS:
- Return exactly {{.Days}} entries in "days", numbered 1 to {{.Days}} with consecutive dates
- Include 2-4 activities per time period based on pace preference
- Match activities to specified interests
- Include realistic costs within budget range
- Provide specific locations and practical details
- Include opening hours and useful tips
- Consider travel time between activities
- Return ONLY valid JSON, no additional text or formatting`))

var refineTmpl = template.Must(template.New("refine").Parse(
	`Modify this travel itinerary based on the user's request.

CURRENT ITINERARY:
{{.Itinerary}}

USER REQUEST:
{{.Instruction}}

Return the modified itinerary in the exact same JSON format. Only change what the user requested, keep everything else the same.
Keep every cost in {{.Code}} using the {{.Symbol}} symbol. Return ONLY valid JSON, no additional text or formatting.`))

// schemaActivity renders one example activity object of the schema.
func schemaActivity(slot, duration, cost, category, hours, symbol string) string {
	lines := []string{
		`        {`,
		fmt.Sprintf(`          "id": "%s-1-1",`, slot),
		`          "name": "Activity name",`,
		`          "description": "Detailed description",`,
		`          "location": "Specific address or area",`,
		fmt.Sprintf(`          "duration": "%s",`, duration),
		fmt.Sprintf(`          "cost": "%s%s",`, symbol, cost),
		fmt.Sprintf(`          "category": "%s",`, category),
		fmt.Sprintf(`          "openingHours": "%s",`, hours),
		`          "tips": "Useful tip"`,
		`        }`,
	}
	return strings.Join(lines, "\n")
}

// jsonString quotes s as a JSON string literal. HTML characters are kept
// as-is so "Goa & Hampi" reads naturally in the prompt.
func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		panic("prompt: quote string: " + err.Error())
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

type generateData struct {
	Days        int
	Destination string
	Start, End  string
	Budget      string
	Pace        string
	Group       string
	Interests   string
	Notes       string
	Symbol      string
	Code        string
}

// Build returns the generation prompt for p.
func Build(p domain.TravelPreferences) string {
	data := generateData{
		Days:        p.TripLength(),
		Destination: p.Destination,
		Start:       domain.FormatDate(p.StartDate),
		End:         domain.FormatDate(p.EndDate),
		Budget:      orDefault(string(p.Budget), "Not specified"),
		Pace:        orDefault(string(p.Pace), "Not specified"),
		Group:       orDefault(p.GroupSize, "Solo traveler"),
		Interests:   orDefault(strings.Join(p.Interests, ", "), "General sightseeing"),
		Notes:       orDefault(p.Notes, "None"),
		Symbol:      CurrencySymbol,
		Code:        CurrencyCode,
	}
	return execute(generateTmpl, data)
}

// BuildRefine returns the prompt asking the model to apply instruction to
// it and answer in the same schema. The itinerary is embedded as indented
// JSON.
func BuildRefine(it domain.TravelItinerary, instruction string) string {
	b, err := json.MarshalIndent(it, "", "  ")
	if err != nil {
		// The itinerary holds only strings, numbers and dates.
		panic("prompt: marshal itinerary: " + err.Error())
	}
	return execute(refineTmpl, struct {
		Itinerary, Instruction, Symbol, Code string
	}{string(b), strings.TrimSpace(instruction), CurrencySymbol, CurrencyCode})
}

func execute(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		panic("prompt: execute " + t.Name() + ": " + err.Error())
	}
	return buf.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
