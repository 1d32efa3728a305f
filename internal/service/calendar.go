package service

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/samber/lo"

	"github.com/pkordes/trip-planner/internal/domain"
)

const calendarProductID = "-//trip-planner//itinerary//EN"

// RenderCalendar returns it as an iCalendar document with one all-day
// event per day. When an activity carries coordinates and tz is non-nil the
// calendar's X-WR-TIMEZONE is set to the zone of the first such activity.
func RenderCalendar(it domain.TravelItinerary, tz TimezoneFinder, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName(it.Destination + " itinerary")
	if zone := itineraryTimezone(it, tz); zone != "" {
		cal.SetXWRTimezone(zone)
	}

	for _, day := range it.Days {
		ev := cal.AddEvent(fmt.Sprintf("%s-day-%d@trip-planner", it.ID, day.Day))
		ev.SetDtStampTime(stamp.UTC())
		ev.SetSummary(fmt.Sprintf("Day %d: %s", day.Day, day.Title))
		ev.SetAllDayStartAt(day.Date.Time)
		ev.SetAllDayEndAt(day.Date.AddDate(0, 0, 1))
		ev.SetDescription(describeDay(day))
		if loc := dayLocations(day); loc != "" {
			ev.SetLocation(loc)
		}
	}
	return cal.Serialize()
}

// describeDay lists the day's activities slot by slot.
func describeDay(day domain.TravelDay) string {
	var lines []string
	for _, slot := range domain.TimeSlots {
		acts := *day.Slot(slot)
		if len(acts) == 0 {
			continue
		}
		names := lo.Map(acts, func(a domain.Activity, _ int) string { return a.Name })
		lines = append(lines, slot.Title()+": "+strings.Join(names, ", "))
	}
	if day.Notes != "" {
		lines = append(lines, "Note: "+day.Notes)
	}
	return strings.Join(lines, "\n")
}

func dayLocations(day domain.TravelDay) string {
	locs := lo.Uniq(lo.Compact(lo.Map(day.Activities(), func(a domain.Activity, _ int) string {
		return strings.TrimSpace(a.Location)
	})))
	return strings.Join(locs, "; ")
}

func itineraryTimezone(it domain.TravelItinerary, tz TimezoneFinder) string {
	if tz == nil {
		return ""
	}
	a, ok := lo.Find(it.Activities(), func(a domain.Activity) bool { return a.Coordinates != nil })
	if !ok {
		return ""
	}
	return tz.GetTimezoneName(a.Coordinates.Lng(), a.Coordinates.Lat())
}
