package service

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/pkordes/trip-planner/internal/domain"
)

type packingSeed struct {
	name      string
	category  string
	essential bool
}

var basePacking = []packingSeed{
	{"Passport/ID", "Documents", true},
	{"Travel insurance", "Documents", true},
	{"Flight tickets", "Documents", true},
	{"Hotel confirmations", "Documents", true},
	{"Credit cards", "Documents", true},
	{"Cash (local currency)", "Documents", true},
	{"Emergency contacts", "Documents", true},

	{"Underwear (7 pairs)", "Clothing", true},
	{"Socks (7 pairs)", "Clothing", true},
	{"Comfortable walking shoes", "Clothing", true},
	{"Casual shirts/tops", "Clothing", true},
	{"Pants/shorts", "Clothing", true},
	{"Sleepwear", "Clothing", true},
	{"Light jacket/sweater", "Clothing", false},

	{"Phone charger", "Electronics", true},
	{"Portable power bank", "Electronics", false},
	{"Camera", "Electronics", false},
	{"Travel adapter", "Electronics", true},
	{"Headphones", "Electronics", false},

	{"Toothbrush & toothpaste", "Health", true},
	{"Medications", "Health", true},
	{"Sunscreen", "Health", true},
	{"Hand sanitizer", "Health", true},
	{"Basic first aid", "Health", false},
	{"Personal hygiene items", "Health", true},

	{"Luggage locks", "Accessories", false},
	{"Travel pillow", "Accessories", false},
	{"Reusable water bottle", "Accessories", false},
	{"Day backpack", "Accessories", false},
	{"Umbrella", "Accessories", false},
}

// activityPacking maps an activity category to the extra items it needs.
var activityPacking = map[string][]packingSeed{
	"nature": {
		{"Hiking boots", "Clothing", false},
		{"Quick-dry clothes", "Clothing", false},
	},
	"adventure": {
		{"Hiking boots", "Clothing", false},
		{"Quick-dry clothes", "Clothing", false},
	},
	"beach": {
		{"Swimwear", "Clothing", false},
		{"Beach towel", "Accessories", false},
	},
	"culture": {{"Smart casual outfit", "Clothing", false}},
	"dining":  {{"Smart casual outfit", "Clothing", false}},
}

// PackingList returns the base checklist plus items implied by the
// itinerary's activity categories, each added once in first-seen order.
func PackingList(it domain.TravelItinerary) domain.PackingList {
	seeds := append([]packingSeed(nil), basePacking...)
	seen := make(map[string]bool)
	for _, a := range it.Activities() {
		for _, s := range activityPacking[a.Category] {
			if seen[s.name] {
				continue
			}
			seen[s.name] = true
			seeds = append(seeds, s)
		}
	}

	items := lo.Map(seeds, func(s packingSeed, i int) domain.PackingItem {
		return domain.PackingItem{
			ID:        fmt.Sprintf("item-%d", i),
			Name:      s.name,
			Category:  s.category,
			Essential: s.essential,
		}
	})

	categories := lo.Uniq(lo.Map(items, func(p domain.PackingItem, _ int) string { return p.Category }))
	summary := lo.Map(categories, func(name string, _ int) domain.PackingCategory {
		inCat := lo.Filter(items, func(p domain.PackingItem, _ int) bool { return p.Category == name })
		return domain.PackingCategory{
			Name:      name,
			Total:     len(inCat),
			Essential: lo.CountBy(inCat, func(p domain.PackingItem) bool { return p.Essential }),
		}
	})

	return domain.PackingList{ItineraryID: it.ID, Items: items, Categories: summary}
}
