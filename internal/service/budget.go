package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Fallback range used when the itinerary's total budget has no "₹min-max".
const (
	fallbackBudgetMin = 15000
	fallbackBudgetMax = 25000
)

var budgetRange = regexp.MustCompile(`₹\s*([\d,]+)\s*-\s*₹?\s*([\d,]+)`)

// rupees returns a printer that groups digits the way the rupee amounts
// produced by the model do ("15,000").
func rupees() *message.Printer {
	return message.NewPrinter(language.English)
}

// formatINR renders n with digit grouping and the rupee symbol.
func formatINR(n int) string {
	return rupees().Sprintf("₹%d", n)
}

// formatINRRange renders "₹low-high" with digit grouping on both ends.
func formatINRRange(low, high int) string {
	return rupees().Sprintf("₹%d-%d", low, high)
}

// parseBudgetRange extracts the rupee range from free text such as
// "₹15,000-25,000 per person". ok is false when no range is present.
func parseBudgetRange(s string) (low, high int, ok bool) {
	m := budgetRange.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	low, err1 := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	high, err2 := strconv.Atoi(strings.ReplaceAll(m[2], ",", ""))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return low, high, true
}

// budgetShare is one spending category and its fixed share of the budget.
type budgetShare struct {
	name    string
	percent int
}

var budgetShares = []budgetShare{
	{"Accommodation", 40},
	{"Food & Dining", 25},
	{"Activities & Sightseeing", 20},
	{"Transportation", 10},
	{"Shopping & Misc", 5},
}

// Budget splits the midpoint of the itinerary's total budget range across
// fixed category shares. Descriptions count the activities that fall into
// each category.
func Budget(it domain.TravelItinerary) domain.BudgetBreakdown {
	low, high, ok := parseBudgetRange(it.TotalBudget)
	if !ok {
		low, high = fallbackBudgetMin, fallbackBudgetMax
	}
	avg := float64(low+high) / 2
	days := len(it.Days)

	var food, sights, transport, shopping int
	for _, a := range it.Activities() {
		switch a.Category {
		case "food", "dining":
			food++
		case "sightseeing", "culture", "museums":
			sights++
		case "transportation":
			transport++
		case "shopping":
			shopping++
		}
	}
	p := rupees()
	descriptions := []string{
		p.Sprintf("Hotels/lodging for %d nights", days),
		p.Sprintf("%d dining experiences", food),
		p.Sprintf("%d attractions and tours", sights),
		p.Sprintf("Local transport and transfers (%d planned)", transport),
		p.Sprintf("Souvenirs and miscellaneous (%d shopping stops)", shopping),
	}

	out := domain.BudgetBreakdown{
		ItineraryID: it.ID,
		Destination: it.Destination,
		Days:        days,
		RangeMin:    low,
		RangeMax:    high,
	}
	for i, share := range budgetShares {
		est := int(math.Round(avg * float64(share.percent) / 100))
		out.Categories = append(out.Categories, domain.BudgetCategory{
			Name:        share.name,
			Percent:     share.percent,
			Estimated:   est,
			Formatted:   formatINR(est),
			Description: descriptions[i],
		})
		out.Total += est
	}
	if days > 0 {
		out.DailyAverage = int(math.Round(float64(out.Total) / float64(days)))
	}
	out.TotalText = formatINR(out.Total)
	out.DailyText = formatINR(out.DailyAverage)
	return out
}
