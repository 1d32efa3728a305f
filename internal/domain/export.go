package domain

// ExportRow is a single row in the flat itinerary export.
// It is a denormalized view: one row per activity, with the day fields
// repeated for every activity of that day. Rows follow display order
// (day, then morning/afternoon/evening, then position within the slot).
type ExportRow struct {
	// Day fields, repeated for every activity of the day.
	Day      int    `json:"day"`
	Date     string `json:"date"` // "2006-01-02" formatted date
	DayTitle string `json:"dayTitle"`

	// Position within the day.
	Slot     TimeSlot `json:"slot"`
	Position int      `json:"position"` // 0-based index within the slot

	// Activity fields.
	ActivityID   string `json:"activityId"`
	Name         string `json:"name"`
	Location     string `json:"location"`
	Duration     string `json:"duration"`
	Cost         string `json:"cost"`
	Category     string `json:"category"`
	OpeningHours string `json:"openingHours,omitempty"`
	Tips         string `json:"tips,omitempty"`
}

// ExportRows flattens it into ExportRows. Days with no activities
// contribute no rows.
func ExportRows(it TravelItinerary) []ExportRow {
	var rows []ExportRow
	for _, d := range it.Days {
		for _, slot := range TimeSlots {
			for i, a := range *d.Slot(slot) {
				rows = append(rows, ExportRow{
					Day:          d.Day,
					Date:         FormatDate(d.Date),
					DayTitle:     d.Title,
					Slot:         slot,
					Position:     i,
					ActivityID:   a.ID,
					Name:         a.Name,
					Location:     a.Location,
					Duration:     a.Duration,
					Cost:         a.Cost,
					Category:     a.Category,
					OpeningHours: a.OpeningHours,
					Tips:         a.Tips,
				})
			}
		}
	}
	return rows
}

// Document is a rendered, downloadable export.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}
