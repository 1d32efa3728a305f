package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/spf13/cobra"

	"github.com/pkordes/trip-planner/internal/app"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

const dateLayout = "2006-01-02"

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an itinerary",
		Long: "Generate an itinerary from travel preferences. Without OPENAI_API_KEY the offline planner is used.\n" +
			"The itinerary is printed to stdout or written to --out; --pdf, --ics and --csv write documents alongside.",
		RunE: runGenerate,
	}

	cmd.Flags().StringP("destination", "d", "", "Destination (required)")
	cmd.Flags().String("start", "", "Start date, YYYY-MM-DD (required)")
	cmd.Flags().String("end", "", "End date, YYYY-MM-DD (required)")
	cmd.Flags().StringP("budget", "b", "", "Budget: budget, mid-range, luxury")
	cmd.Flags().StringP("pace", "p", "", "Pace: relaxed, moderate, packed")
	cmd.Flags().StringSliceP("interests", "i", nil, "Comma-separated interests")
	cmd.Flags().StringP("group", "g", "", "Group description, e.g. \"2 adults\"")
	cmd.Flags().String("notes", "", "Special requirements")
	cmd.Flags().StringP("out", "o", "", "Write the itinerary JSON here instead of stdout")
	cmd.Flags().String("pdf", "", "Also write a PDF to this path")
	cmd.Flags().String("ics", "", "Also write an iCalendar file to this path")
	cmd.Flags().String("csv", "", "Also write a CSV of activities to this path")
	cmd.Flags().Bool("stream", false, "Echo AI response fragments to stderr as they arrive")

	_ = cmd.MarkFlagRequired("destination")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func preferencesFromFlags(cmd *cobra.Command) (domain.TravelPreferences, error) {
	f := cmd.Flags()
	dest, _ := f.GetString("destination")
	startStr, _ := f.GetString("start")
	endStr, _ := f.GetString("end")
	budget, _ := f.GetString("budget")
	pace, _ := f.GetString("pace")
	interests, _ := f.GetStringSlice("interests")
	group, _ := f.GetString("group")
	notes, _ := f.GetString("notes")

	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return domain.TravelPreferences{}, fmt.Errorf("--start: %w", err)
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return domain.TravelPreferences{}, fmt.Errorf("--end: %w", err)
	}

	return domain.TravelPreferences{
		Destination: dest,
		StartDate:   openapi_types.Date{Time: start},
		EndDate:     openapi_types.Date{Time: end},
		Budget:      domain.BudgetTier(budget),
		Pace:        domain.Pace(pace),
		Interests:   interests,
		GroupSize:   group,
		Notes:       notes,
	}, nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	prefs, err := preferencesFromFlags(cmd)
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := app.New(ctx, cfg, logger(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	var onProgress service.ProgressFunc
	if stream, _ := cmd.Flags().GetBool("stream"); stream {
		onProgress = echoProgress(cmd.ErrOrStderr())
	}

	it, err := a.Itineraries.Create(ctx, prefs, onProgress)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	if onProgress != nil {
		fmt.Fprintln(cmd.ErrOrStderr())
	}

	documents := []struct {
		flag   string
		render func() (domain.Document, error)
	}{
		{"pdf", func() (domain.Document, error) { return a.Export.PDF(ctx, it.ID) }},
		{"ics", func() (domain.Document, error) { return a.Export.Calendar(ctx, it.ID) }},
		{"csv", func() (domain.Document, error) { return a.Export.CSV(ctx, it.ID) }},
	}
	for _, d := range documents {
		path, _ := cmd.Flags().GetString(d.flag)
		if path == "" {
			continue
		}
		doc, err := d.render()
		if err != nil {
			return fmt.Errorf("render %s: %w", d.flag, err)
		}
		if err := os.WriteFile(path, doc.Body, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	out := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("out"); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer file.Close()
		out = file
	}

	if format == "text" {
		return writeItineraryText(out, it)
	}
	return writeJSON(out, it)
}

// echoProgress writes streamed fragments to w. A replacement document is
// set apart from any partial text that preceded it.
func echoProgress(w io.Writer) service.ProgressFunc {
	partial := false
	return func(kind service.ProgressKind, text string) {
		if kind == service.ProgressReplace && partial {
			fmt.Fprintln(w, "\n[stream interrupted, offline draft follows]")
		}
		partial = kind == service.ProgressChunk
		fmt.Fprint(w, text)
	}
}
