package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/internal/service"
)

// fakeTimezones records the coordinate it was asked about.
type fakeTimezones struct {
	zone     string
	lng, lat float64
}

func (f *fakeTimezones) GetTimezoneName(lng, lat float64) string {
	f.lng, f.lat = lng, lat
	return f.zone
}

// compile-time check: fakeTimezones must satisfy service.TimezoneFinder.
var _ service.TimezoneFinder = (*fakeTimezones)(nil)

func exportFixture() domain.TravelItinerary {
	return domain.TravelItinerary{
		ID:          "it-1",
		Destination: "Goa, India",
		StartDate:   date("2024-01-01"),
		EndDate:     date("2024-01-02"),
		Overview:    "Beaches and forts",
		TotalBudget: "₹20,000-30,000",
		Tips:        []string{"Carry cash"},
		Days: []domain.TravelDay{
			{
				Day: 1, Date: date("2024-01-01"), Title: "Arrival", Notes: "Light day",
				Morning: []domain.Activity{{
					ID: "morning-1-1", Name: "Fort Aguada", Location: "Candolim",
					Duration: "2 hours", Cost: "₹50", Category: "sightseeing", Tips: "Go early",
					Coordinates: &domain.Coordinates{15.49, 73.77},
				}},
				Afternoon: []domain.Activity{},
				Evening: []domain.Activity{
					{ID: "evening-1-1", Name: "Fish thali", Location: "Panaji", Category: "dining"},
					{ID: "evening-1-2", Name: "Night market", Location: "Panaji", Category: "shopping"},
				},
			},
			{Day: 2, Date: date("2024-01-02"), Title: "Departure", Morning: []domain.Activity{}, Afternoon: []domain.Activity{}, Evening: []domain.Activity{}},
		},
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newExportService(t *testing.T, tz service.TimezoneFinder, baseURL string) *service.ExportService {
	t.Helper()
	r := repo.NewItineraryRepo()
	_, err := r.Save(context.Background(), exportFixture())
	require.NoError(t, err)
	return service.NewExportService(r, tz, baseURL)
}

// ---- Rows / CSV ------------------------------------------------------------

func TestExportService_Rows(t *testing.T) {
	rows, err := newExportService(t, nil, "").Rows(context.Background(), "it-1")

	require.NoError(t, err)
	require.Len(t, rows, 3, "one row per activity; empty days add none")
	assert.Equal(t, domain.ExportRow{
		Day: 1, Date: "2024-01-01", DayTitle: "Arrival", Slot: domain.SlotMorning, Position: 0,
		ActivityID: "morning-1-1", Name: "Fort Aguada", Location: "Candolim",
		Duration: "2 hours", Cost: "₹50", Category: "sightseeing", Tips: "Go early",
	}, rows[0])
	assert.Equal(t, domain.SlotEvening, rows[2].Slot)
	assert.Equal(t, 1, rows[2].Position)
}

func TestExportService_CSV(t *testing.T) {
	doc, err := newExportService(t, nil, "").CSV(context.Background(), "it-1")

	require.NoError(t, err)
	assert.Equal(t, "goa__india_itinerary.csv", doc.Filename)
	assert.Equal(t, "text/csv", doc.ContentType)

	records, err := csv.NewReader(bytes.NewReader(doc.Body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "day", records[0][0])
	assert.Equal(t, []string{"1", "2024-01-01", "Arrival", "evening", "1", "evening-1-2", "Night market", "Panaji", "", "", "shopping", "", ""}, records[3])
}

func TestExportService_NotFound(t *testing.T) {
	svc := newExportService(t, nil, "")
	ctx := context.Background()

	_, err := svc.PDF(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Calendar(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.CSV(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- PDF -------------------------------------------------------------------

func TestExportService_PDF(t *testing.T) {
	doc, err := newExportService(t, nil, "").PDF(context.Background(), "it-1")

	require.NoError(t, err)
	assert.Equal(t, "goa__india_itinerary.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, bytes.HasPrefix(doc.Body, []byte("%PDF-")))
}

func TestExportService_PDF_WithQRCode(t *testing.T) {
	plain, err := newExportService(t, nil, "").PDF(context.Background(), "it-1")
	require.NoError(t, err)

	withLink, err := newExportService(t, nil, "https://trips.example.com/").PDF(context.Background(), "it-1")
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(withLink.Body, []byte("%PDF-")))
	assert.Greater(t, len(withLink.Body), len(plain.Body), "embedded QR image enlarges the document")
}

func TestRenderPDF_ManyDaysPaginates(t *testing.T) {
	prefs := goaPreferences()
	prefs.EndDate = date("2024-01-20")
	prefs.Pace = domain.PacePacked
	it := service.MockItinerary(prefs)

	var buf bytes.Buffer
	require.NoError(t, service.RenderPDF(&buf, it, ""))

	assert.Greater(t, bytes.Count(buf.Bytes(), []byte("/Type /Page\n")), 1)
}

// ---- Calendar --------------------------------------------------------------

func TestExportService_Calendar(t *testing.T) {
	tz := &fakeTimezones{zone: "Asia/Kolkata"}

	doc, err := newExportService(t, tz, "").Calendar(context.Background(), "it-1")

	require.NoError(t, err)
	assert.Equal(t, "goa__india_itinerary.ics", doc.Filename)
	assert.Equal(t, "text/calendar", doc.ContentType)

	body := unfold(string(doc.Body))
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "METHOD:PUBLISH")
	assert.Contains(t, body, "X-WR-TIMEZONE:Asia/Kolkata")
	assert.Equal(t, 2, strings.Count(body, "BEGIN:VEVENT"))
	assert.Contains(t, body, "UID:it-1-day-1@trip-planner")
	assert.Contains(t, body, "SUMMARY:Day 1: Arrival")
	assert.Contains(t, body, "DTSTART;VALUE=DATE:20240101")
	assert.Contains(t, body, "DTEND;VALUE=DATE:20240102")
	assert.Contains(t, body, "Fish thali")
	assert.Contains(t, body, "LOCATION:Candolim")
	assert.InDelta(t, 73.77, tz.lng, 1e-9)
	assert.InDelta(t, 15.49, tz.lat, 1e-9)
}

func TestRenderCalendar_NoCoordinatesNoTimezone(t *testing.T) {
	it := exportFixture()
	it.Days[0].Morning[0].Coordinates = nil
	tz := &fakeTimezones{zone: "Asia/Kolkata"}

	body := service.RenderCalendar(it, tz, time.Now())

	assert.NotContains(t, body, "X-WR-TIMEZONE")
}

// unfold undoes RFC 5545 line folding so assertions can match long lines.
func unfold(s string) string {
	s = strings.ReplaceAll(s, "\r\n ", "")
	return strings.ReplaceAll(s, "\r\n", "\n")
}
