package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"prose around", "Sure! Here you go:\n{\"a\":1}\nHave fun.", `{"a":1}`},
		{"markdown fence", "```json\n{\"a\":{\"b\":[1,2]}}\n```", `{"a":{"b":[1,2]}}`},
		{"braces in strings", `x {"t":"a } b { c","u":"\"}"} y`, `{"t":"a } b { c","u":"\"}"}`},
		{"escaped backslash before quote", `{"p":"C:\\"} tail }`, `{"p":"C:\\"}`},
		{"first of two objects", `{"a":1} and {"b":2}`, `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := service.ExtractJSON(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractJSON_Failures(t *testing.T) {
	for name, in := range map[string]string{
		"no braces":    "I could not build an itinerary.",
		"unterminated": `{"a": {"b": 1}`,
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := service.ExtractJSON(in)
			assert.ErrorIs(t, err, domain.ErrItineraryParse)
		})
	}
}

func TestParseItinerary(t *testing.T) {
	it, err := service.ParseItinerary(`Here: {"destination":"Goa","days":[{"day":2,"title":"B"},{"day":1,"title":"A"}]}`)

	require.NoError(t, err)
	assert.Equal(t, "Goa", it.Destination)
	require.Len(t, it.Days, 2)
	assert.Equal(t, "A", it.Days[0].Title, "days are ordered by ordinal")
	assert.Equal(t, []string{}, it.Tips)
}

func TestParseItinerary_Failures(t *testing.T) {
	for name, in := range map[string]string{
		"wrong shape": `{"days": "tomorrow"}`,
		"no days":     `{"destination":"Goa","days":[]}`,
		"bad date":    `{"startDate":"next week","days":[{"day":1}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := service.ParseItinerary(in)
			assert.ErrorIs(t, err, domain.ErrItineraryParse)
		})
	}
}
