// Package cli implements the tripplan CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pkordes/trip-planner/internal/config"
	"github.com/pkordes/trip-planner/internal/domain"
)

// NewRootCmd returns the top-level command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tripplan",
		Short:         "Plan trips from the command line",
		Long:          "Generate day-by-day travel itineraries, then derive budgets, packing lists and documents from them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			// A local .env file is optional; real environment variables win.
			_ = godotenv.Load()
		},
	}
	root.PersistentFlags().StringP("format", "f", "json", "Output format: json or text")
	root.PersistentFlags().Bool("verbose", false, "Log progress to stderr")

	root.AddCommand(newGenerateCmd(), newBudgetCmd(), newPackingCmd())
	return root
}

// Execute runs the root command and reports failures on stderr.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// logger returns a text logger on stderr when --verbose is set and a
// discarding one otherwise, so stdout stays machine-readable.
func logger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func outputFormat(cmd *cobra.Command) (string, error) {
	f, _ := cmd.Flags().GetString("format")
	switch f {
	case "json", "text":
		return f, nil
	}
	return "", fmt.Errorf("format must be json or text, got %q", f)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readItinerary loads an itinerary previously written by generate.
func readItinerary(path string) (domain.TravelItinerary, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.TravelItinerary{}, fmt.Errorf("read itinerary: %w", err)
	}
	var it domain.TravelItinerary
	if err := json.Unmarshal(b, &it); err != nil {
		return domain.TravelItinerary{}, fmt.Errorf("decode itinerary %s: %w", path, err)
	}
	it.Normalize()
	return it, nil
}
