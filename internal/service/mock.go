package service

import (
	"fmt"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/domain"
)

// The offline planner below stands in for the AI when it is unreachable.
// It is deterministic and total: every input yields an itinerary.

// Per-day spend by budget tier, in rupees.
var dailySpend = map[domain.BudgetTier]int{
	domain.BudgetLow:    5000,
	domain.BudgetMid:    12000,
	domain.BudgetLuxury: 25000,
}

// Cost of a single placeholder activity by budget tier.
var activityCost = map[domain.BudgetTier]string{
	domain.BudgetLow:    "₹200-500",
	domain.BudgetMid:    "₹800-1,500",
	domain.BudgetLuxury: "₹2,500-5,000",
}

// interestCategory maps intake interests to activity categories.
var interestCategory = map[string]string{
	"food":         "dining",
	"museums":      "culture",
	"nature":       "nature",
	"nightlife":    "entertainment",
	"shopping":     "shopping",
	"architecture": "sightseeing",
	"beaches":      "beach",
	"adventure":    "adventure",
}

type slotTemplate struct {
	name, description, duration, hours string
}

var slotTemplates = map[domain.TimeSlot]slotTemplate{
	domain.SlotMorning: {
		name:        "Morning %s in %s",
		description: "Start the day with %s around %s while it is still cool and quiet.",
		duration:    "2-3 hours",
		hours:       "8:00 AM - 12:00 PM",
	},
	domain.SlotAfternoon: {
		name:        "Afternoon %s in %s",
		description: "Spend the afternoon on %s, a local favourite in %s.",
		duration:    "3 hours",
		hours:       "12:00 PM - 5:00 PM",
	},
	domain.SlotEvening: {
		name:        "Evening %s in %s",
		description: "Wind down with %s and experience %s after dark.",
		duration:    "2-3 hours",
		hours:       "6:00 PM - 10:00 PM",
	},
}

var mockTips = []string{
	"Book popular attractions in advance to skip the queues.",
	"Carry some cash; smaller vendors may not accept cards.",
	"Keep digital and paper copies of your travel documents.",
	"Stay hydrated and plan indoor breaks during the hottest hours.",
}

// MockItinerary builds a placeholder itinerary for prefs. Day count follows
// prefs.TripLength (at least one day); day i falls on StartDate+i. The first
// day is an arrival day and the last a departure day. ID and CreatedAt are
// left empty for the caller to stamp.
func MockItinerary(prefs domain.TravelPreferences) domain.TravelItinerary {
	n := max(prefs.TripLength(), 1)
	tier := prefs.BudgetOrDefault()
	perSlot := 1
	if prefs.Pace == domain.PacePacked {
		perSlot = 2
	}

	categories := mockCategories(prefs.Interests)
	next := 0

	days := make([]domain.TravelDay, n)
	for i := range days {
		day := domain.TravelDay{
			Day:   i + 1,
			Date:  openapi_types.Date{Time: prefs.StartDate.AddDate(0, 0, i)},
			Title: mockDayTitle(i, n, prefs.Destination),
		}
		for _, slot := range domain.TimeSlots {
			acts := make([]domain.Activity, 0, perSlot)
			for k := 0; k < perSlot; k++ {
				acts = append(acts, mockActivity(slot, i+1, k+1, categories[next%len(categories)], prefs.Destination, tier))
				next++
			}
			*day.Slot(slot) = acts
		}
		switch {
		case i == 0:
			day.Notes = "Check in early and keep the first day light."
		case i == n-1 && n > 1:
			day.Notes = "Leave time for check-out and the transfer to your departure point."
		}
		days[i] = day
	}

	perDay := dailySpend[tier]
	low := perDay * n
	high := low * 3 / 2

	return domain.TravelItinerary{
		Destination: prefs.Destination,
		StartDate:   prefs.StartDate,
		EndDate:     days[n-1].Date,
		Days:        days,
		Overview: fmt.Sprintf("A %d-day %s trip to %s planned at a %s pace. This is an offline draft; regenerate once the AI planner is reachable for tailored suggestions.",
			n, tier, prefs.Destination, paceOrDefault(prefs.Pace)),
		TotalBudget: formatINRRange(low, high),
		Tips:        append([]string(nil), mockTips...),
	}
}

func mockDayTitle(i, n int, dest string) string {
	switch {
	case i == 0:
		return "Arrival & First Impressions"
	case i == n-1:
		return "Departure Day"
	default:
		return fmt.Sprintf("Exploring %s: Day %d", dest, i+1)
	}
}

func mockActivity(slot domain.TimeSlot, day, seq int, category, dest string, tier domain.BudgetTier) domain.Activity {
	t := slotTemplates[slot]
	label := categoryLabel(category)
	return domain.Activity{
		ID:           fmt.Sprintf("%s-%d-%d", slot, day, seq),
		Name:         fmt.Sprintf(t.name, label, dest),
		Description:  fmt.Sprintf(t.description, label, dest),
		Location:     dest,
		Duration:     t.duration,
		Cost:         activityCost[tier],
		Category:     category,
		OpeningHours: t.hours,
	}
}

// mockCategories turns interests into the activity categories to cycle
// through, falling back to general sightseeing.
func mockCategories(interests []string) []string {
	var out []string
	for _, in := range interests {
		if c, ok := interestCategory[in]; ok {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return []string{"sightseeing", "culture", "dining"}
	}
	return out
}

func categoryLabel(c string) string {
	switch c {
	case "dining":
		return "food tasting"
	case "culture":
		return "museum visit"
	case "nature":
		return "nature walk"
	case "entertainment":
		return "nightlife"
	case "shopping":
		return "market stroll"
	case "beach":
		return "beach time"
	case "adventure":
		return "adventure outing"
	default:
		return "sightseeing"
	}
}

func paceOrDefault(p domain.Pace) domain.Pace {
	if p == "" {
		return domain.PaceModerate
	}
	return p
}
