package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// TimezoneFinder resolves an IANA timezone name from a coordinate.
// *tzf.DefaultFinder satisfies it.
type TimezoneFinder interface {
	GetTimezoneName(lng, lat float64) string
}

// ExportService renders stored itineraries as downloadable documents.
type ExportService struct {
	repo    repo.ItineraryRepo
	tz      TimezoneFinder
	baseURL string
	now     func() time.Time
}

// NewExportService constructs an ExportService. baseURL, when set, is the
// public origin used for the itinerary link printed as a QR code in PDFs.
// tz may be nil, in which case calendars carry no timezone hint.
func NewExportService(r repo.ItineraryRepo, tz TimezoneFinder, baseURL string) *ExportService {
	return &ExportService{
		repo:    r,
		tz:      tz,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// Rows returns the flat activity table of a stored itinerary.
func (s *ExportService) Rows(ctx context.Context, id string) ([]domain.ExportRow, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Rows: %w", err)
	}
	return domain.ExportRows(it), nil
}

// CSV renders the flat activity table of a stored itinerary as CSV.
func (s *ExportService) CSV(ctx context.Context, id string) (domain.Document, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Document{}, fmt.Errorf("service.ExportService.CSV: %w", err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, domain.ExportRows(it)); err != nil {
		return domain.Document{}, fmt.Errorf("service.ExportService.CSV: %w", err)
	}
	return domain.Document{
		Filename:    exportBaseName(it.Destination) + ".csv",
		ContentType: "text/csv",
		Body:        buf.Bytes(),
	}, nil
}

// PDF renders a stored itinerary as a printable PDF.
func (s *ExportService) PDF(ctx context.Context, id string) (domain.Document, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Document{}, fmt.Errorf("service.ExportService.PDF: %w", err)
	}
	var link string
	if s.baseURL != "" {
		link = s.baseURL + "/itineraries/" + it.ID
	}
	var buf bytes.Buffer
	if err := RenderPDF(&buf, it, link); err != nil {
		return domain.Document{}, fmt.Errorf("service.ExportService.PDF: %w", err)
	}
	return domain.Document{
		Filename:    exportBaseName(it.Destination) + ".pdf",
		ContentType: "application/pdf",
		Body:        buf.Bytes(),
	}, nil
}

// Calendar renders a stored itinerary as an iCalendar file with one
// all-day event per day.
func (s *ExportService) Calendar(ctx context.Context, id string) (domain.Document, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Document{}, fmt.Errorf("service.ExportService.Calendar: %w", err)
	}
	return domain.Document{
		Filename:    exportBaseName(it.Destination) + ".ics",
		ContentType: "text/calendar",
		Body:        []byte(RenderCalendar(it, s.tz, s.now())),
	}, nil
}

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"day", "date", "day_title", "slot", "position",
	"activity_id", "name", "location", "duration", "cost",
	"category", "opening_hours", "tips",
}

// WriteCSV encodes rows with a header line.
func WriteCSV(w io.Writer, rows []domain.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{
			strconv.Itoa(r.Day), r.Date, r.DayTitle, string(r.Slot), strconv.Itoa(r.Position),
			r.ActivityID, r.Name, r.Location, r.Duration, r.Cost,
			r.Category, r.OpeningHours, r.Tips,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// exportBaseName turns a destination into a file name stem:
// "Goa, India" becomes "goa__india_itinerary".
func exportBaseName(destination string) string {
	stem := nonAlnum.ReplaceAllString(strings.ToLower(destination), "_")
	if stem == "" {
		stem = "trip"
	}
	return stem + "_itinerary"
}
