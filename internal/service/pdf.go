package service

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/pkordes/trip-planner/internal/domain"
)

const (
	pdfMargin     = 20.0  // mm
	pdfDayReserve = 100.0 // mm left on a page below which a day starts on a new page
	pdfQRSize     = 30.0  // mm
	pdfFooter     = "Generated by AI Travel Planner"
)

// RenderPDF writes it to w as an A4 document: header, overview, budget,
// tips, then each day's morning, afternoon and evening activities. When
// link is non-empty a QR code pointing at it is printed under the header.
func RenderPDF(w io.Writer, it domain.TravelItinerary, link string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(it.Destination+" Travel Itinerary", true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(0, 10, pdfFooter, "", 0, "L", false, 0, "")
	})

	// Core fonts are cp1252; the translator maps what it can.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(size float64, bold bool, s string) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, size)
		pdf.MultiCell(0, size*0.45, tr(pdfText(s)), "", "L", false)
		pdf.Ln(2)
	}

	pdf.AddPage()
	_, pageH := pdf.GetPageSize()

	text(20, true, it.Destination+" Travel Itinerary")
	text(12, false, fmt.Sprintf("%s - %s",
		it.StartDate.Format("January 2, 2006"), it.EndDate.Format("January 2, 2006")))

	if link != "" {
		png, err := qrcode.Encode(link, qrcode.Medium, 256)
		if err != nil {
			return fmt.Errorf("service.RenderPDF: qr code: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("itinerary-link", opts, bytes.NewReader(png))
		y := pdf.GetY()
		pdf.ImageOptions("itinerary-link", pdfMargin, y, pdfQRSize, pdfQRSize, false, opts, 0, link)
		pdf.SetY(y + pdfQRSize + 2)
		text(8, false, link)
	}
	pdf.Ln(6)

	text(14, true, "Overview")
	text(10, false, it.Overview)
	pdf.Ln(3)

	text(14, true, "Budget Estimate")
	text(10, false, it.TotalBudget)
	pdf.Ln(6)

	if len(it.Tips) > 0 {
		text(14, true, "Essential Tips")
		for i, tip := range it.Tips {
			text(10, false, fmt.Sprintf("%d. %s", i+1, tip))
		}
		pdf.Ln(6)
	}

	for _, day := range it.Days {
		if pdf.GetY() > pageH-pdfDayReserve {
			pdf.AddPage()
		}
		text(16, true, fmt.Sprintf("Day %d: %s", day.Day, day.Title))
		text(10, false, day.Date.Format("Monday, January 2, 2006"))
		if day.Notes != "" {
			text(10, false, "Note: "+day.Notes)
		}
		pdf.Ln(3)

		for _, slot := range domain.TimeSlots {
			acts := *day.Slot(slot)
			if len(acts) == 0 {
				continue
			}
			text(12, true, slot.Title())
			for _, a := range acts {
				text(10, false, fmt.Sprintf("• %s (%s, %s)", a.Name, a.Duration, a.Cost))
				text(9, false, "  "+a.Description)
				text(9, false, "  Location: "+a.Location)
				if a.Tips != "" {
					text(9, false, "  Tip: "+a.Tips)
				}
				pdf.Ln(1)
			}
		}
		pdf.Ln(6)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("service.RenderPDF: %w", err)
	}
	return nil
}

// pdfText replaces characters the core fonts cannot show.
var pdfText = strings.NewReplacer("₹", "INR ").Replace
