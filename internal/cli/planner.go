package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

func newBudgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget <itinerary.json>",
		Short: "Show the budget breakdown of a saved itinerary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			it, err := readItinerary(args[0])
			if err != nil {
				return err
			}
			b := service.Budget(it)
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), b)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s, %d days\n", b.Destination, b.Days)
			for _, c := range b.Categories {
				fmt.Fprintf(w, "  %-26s %3d%%  %-10s %s\n", c.Name, c.Percent, c.Formatted, c.Description)
			}
			fmt.Fprintf(w, "Total %s, about %s per day\n", b.TotalText, b.DailyText)
			return nil
		},
	}
	return cmd
}

func newPackingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packing <itinerary.json>",
		Short: "Show the packing list of a saved itinerary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			it, err := readItinerary(args[0])
			if err != nil {
				return err
			}
			list := service.PackingList(it)
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			w := cmd.OutOrStdout()
			for _, c := range list.Categories {
				fmt.Fprintf(w, "%s (%d/%d essential)\n", c.Name, c.Essential, c.Total)
				for _, item := range list.Items {
					if item.Category != c.Name {
						continue
					}
					mark := " "
					if item.Essential {
						mark = "*"
					}
					fmt.Fprintf(w, "  %s %s\n", mark, item.Name)
				}
			}
			return nil
		},
	}
	return cmd
}

// writeItineraryText prints a compact human-readable itinerary.
func writeItineraryText(w io.Writer, it domain.TravelItinerary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s to %s)\n", it.Destination, domain.FormatDate(it.StartDate), domain.FormatDate(it.EndDate))
	if it.TotalBudget != "" {
		fmt.Fprintf(&b, "Budget: %s\n", it.TotalBudget)
	}
	for i := range it.Days {
		d := &it.Days[i]
		fmt.Fprintf(&b, "\nDay %d, %s: %s\n", d.Day, domain.FormatDate(d.Date), d.Title)
		for _, slot := range domain.TimeSlots {
			for _, a := range *d.Slot(slot) {
				fmt.Fprintf(&b, "  %-9s %s", slot.Title(), a.Name)
				if a.Cost != "" {
					fmt.Fprintf(&b, " (%s)", a.Cost)
				}
				b.WriteString("\n")
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
