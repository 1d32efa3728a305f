package domain

// PackingItem is one entry of a generated packing checklist.
type PackingItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Essential bool   `json:"essential"`
}

// PackingCategory summarises the items of one checklist category.
type PackingCategory struct {
	Name      string `json:"name"`
	Total     int    `json:"total"`
	Essential int    `json:"essential"`
}

// PackingList is the checklist derived from an itinerary's activities.
type PackingList struct {
	ItineraryID string            `json:"itineraryId"`
	Items       []PackingItem     `json:"items"`
	Categories  []PackingCategory `json:"categories"`
}

// BudgetCategory is one line of a budget breakdown. Amounts are whole
// rupees; Formatted carries the digit-grouped rendering ("₹12,500").
type BudgetCategory struct {
	Name        string `json:"name"`
	Percent     int    `json:"percent"`
	Estimated   int    `json:"estimated"`
	Formatted   string `json:"formatted"`
	Description string `json:"description"`
}

// BudgetBreakdown splits an itinerary's total budget estimate into
// spending categories.
type BudgetBreakdown struct {
	ItineraryID  string           `json:"itineraryId"`
	Destination  string           `json:"destination"`
	Days         int              `json:"days"`
	RangeMin     int              `json:"rangeMin"`
	RangeMax     int              `json:"rangeMax"`
	Categories   []BudgetCategory `json:"categories"`
	Total        int              `json:"total"`
	TotalText    string           `json:"totalFormatted"`
	DailyAverage int              `json:"dailyAverage"`
	DailyText    string           `json:"dailyAverageFormatted"`
}
