package domain

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/samber/lo"
)

// BudgetTier is the spending level chosen on the intake form.
type BudgetTier string

const (
	BudgetLow     BudgetTier = "budget"
	BudgetMid     BudgetTier = "mid-range"
	BudgetLuxury  BudgetTier = "luxury"
	defaultBudget            = BudgetMid
)

// Pace is how densely each day should be planned.
type Pace string

const (
	PaceRelaxed  Pace = "relaxed"
	PaceModerate Pace = "moderate"
	PacePacked   Pace = "packed"
)

// Interests offered by the intake form. The set is open: unknown tags are
// passed to the AI verbatim.
var Interests = []string{
	"food", "museums", "nature", "nightlife",
	"shopping", "architecture", "beaches", "adventure",
}

// TravelPreferences is the input of a generation call. It is treated as
// immutable once submitted.
type TravelPreferences struct {
	Destination string             `json:"destination"`
	StartDate   openapi_types.Date `json:"startDate"`
	EndDate     openapi_types.Date `json:"endDate"`
	Budget      BudgetTier         `json:"budget"`
	Pace        Pace               `json:"pace"`
	Interests   []string           `json:"interests"`
	GroupSize   string             `json:"groupSize"`
	Notes       string             `json:"notes"`
}

// TripLength returns ceil((end - start) / 1 day) + 1. Malformed ranges
// produce a degenerate (zero or negative) count; callers decide what to do.
func (p TravelPreferences) TripLength() int {
	return TripLength(p.StartDate.Time, p.EndDate.Time)
}

// TripLength is the day count of the inclusive range [start, end].
func TripLength(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours()/24)) + 1
}

// CacheKey returns the canonical serialization of p. Field order is fixed
// by the struct; interests are sorted and de-duplicated because they form
// a set. Any other field difference yields a different key.
func (p TravelPreferences) CacheKey() string {
	canon := p
	canon.Interests = lo.Uniq(append([]string(nil), p.Interests...))
	sort.Strings(canon.Interests)
	b, err := json.Marshal(canon)
	if err != nil {
		// Only plain strings and dates are marshalled; this cannot fail.
		panic("domain: marshal preferences: " + err.Error())
	}
	return string(b)
}

// BudgetOrDefault returns the tier, falling back to mid-range when unset.
func (p TravelPreferences) BudgetOrDefault() BudgetTier {
	switch p.Budget {
	case BudgetLow, BudgetMid, BudgetLuxury:
		return p.Budget
	}
	return defaultBudget
}
