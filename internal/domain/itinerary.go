// Package domain contains the core data types for the Trip Planner service.
// It is imported by every other internal package (cache, prompt, service,
// repo, handler) and holds no I/O of its own.
package domain

import (
	"fmt"
	"sort"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Coordinates is a [latitude, longitude] pair. It is rarely populated by
// the AI and never by the offline planner.
type Coordinates [2]float64

// Lat returns the latitude component.
func (c Coordinates) Lat() float64 { return c[0] }

// Lng returns the longitude component.
func (c Coordinates) Lng() float64 { return c[1] }

// Activity is a single scheduled item within one time slot of a day.
// Duration and Cost are free text ("2 hours", "₹500-800") and are never
// parsed as numbers. ID is unique within its itinerary only.
type Activity struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Location     string       `json:"location"`
	Duration     string       `json:"duration"`
	Cost         string       `json:"cost"`
	Category     string       `json:"category"`
	OpeningHours string       `json:"openingHours,omitempty"`
	Tips         string       `json:"tips,omitempty"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
}

// TravelDay is one day of an itinerary. Order within each slot is
// significant: rendering and MoveActivity depend on it.
type TravelDay struct {
	Day       int                `json:"day"`
	Date      openapi_types.Date `json:"date"`
	Title     string             `json:"title"`
	Morning   []Activity         `json:"morning"`
	Afternoon []Activity         `json:"afternoon"`
	Evening   []Activity         `json:"evening"`
	Notes     string             `json:"notes,omitempty"`
}

// Slot returns a pointer to the activity sequence for the given time slot
// so callers can read or replace it without switching on the slot name.
// It returns nil for a slot value outside the three known slots.
func (d *TravelDay) Slot(slot TimeSlot) *[]Activity {
	switch slot {
	case SlotMorning:
		return &d.Morning
	case SlotAfternoon:
		return &d.Afternoon
	case SlotEvening:
		return &d.Evening
	}
	return nil
}

// Activities returns every activity of the day in display order
// (morning, afternoon, evening).
func (d TravelDay) Activities() []Activity {
	out := make([]Activity, 0, len(d.Morning)+len(d.Afternoon)+len(d.Evening))
	out = append(out, d.Morning...)
	out = append(out, d.Afternoon...)
	return append(out, d.Evening...)
}

// TravelItinerary is a generated, user-editable day-by-day plan.
// It lives in process memory only; see repo.ItineraryRepo.
type TravelItinerary struct {
	ID          string             `json:"id"`
	Destination string             `json:"destination"`
	StartDate   openapi_types.Date `json:"startDate"`
	EndDate     openapi_types.Date `json:"endDate"`
	Days        []TravelDay        `json:"days"`
	Overview    string             `json:"overview"`
	TotalBudget string             `json:"totalBudget"`
	Tips        []string           `json:"tips"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// Activities returns every activity of the itinerary, day by day.
func (it TravelItinerary) Activities() []Activity {
	var out []Activity
	for _, d := range it.Days {
		out = append(out, d.Activities()...)
	}
	return out
}

// Clone returns a deep copy. The cache and the session store hand out
// clones so a caller mutating its copy never changes shared state.
func (it TravelItinerary) Clone() TravelItinerary {
	out := it
	if it.Tips != nil {
		out.Tips = append(make([]string, 0, len(it.Tips)), it.Tips...)
	}
	if it.Days != nil {
		out.Days = make([]TravelDay, len(it.Days))
		for i, d := range it.Days {
			out.Days[i] = d.clone()
		}
	}
	return out
}

func (d TravelDay) clone() TravelDay {
	out := d
	out.Morning = cloneActivities(d.Morning)
	out.Afternoon = cloneActivities(d.Afternoon)
	out.Evening = cloneActivities(d.Evening)
	return out
}

func cloneActivities(in []Activity) []Activity {
	if in == nil {
		return nil
	}
	out := make([]Activity, len(in))
	for i, a := range in {
		if a.Coordinates != nil {
			c := *a.Coordinates
			a.Coordinates = &c
		}
		out[i] = a
	}
	return out
}

// Normalize puts a freshly decoded itinerary into its canonical shape:
// days ordered by ordinal and nil slot sequences replaced with empty ones
// so they encode as [] rather than null.
func (it *TravelItinerary) Normalize() {
	sort.SliceStable(it.Days, func(i, j int) bool { return it.Days[i].Day < it.Days[j].Day })
	for i := range it.Days {
		for _, slot := range TimeSlots {
			if s := it.Days[i].Slot(slot); *s == nil {
				*s = []Activity{}
			}
		}
	}
	if it.Tips == nil {
		it.Tips = []string{}
	}
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(d openapi_types.Date) string {
	return d.Format(openapi_types.DateFormat)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (openapi_types.Date, error) {
	t, err := time.Parse(openapi_types.DateFormat, s)
	if err != nil {
		return openapi_types.Date{}, fmt.Errorf("%w: invalid date %q", ErrValidation, s)
	}
	return openapi_types.Date{Time: t}, nil
}
