package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nvandessel/tilelens/internal/analysis"
	"github.com/nvandessel/tilelens/internal/config"
	"github.com/nvandessel/tilelens/internal/mjai"
	"github.com/nvandessel/tilelens/internal/review"
	"github.com/nvandessel/tilelens/internal/store"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <review-file> [mjai-log-file]",
		Short: "Extract ranked mistakes from a review and its event log",
		Long: `analyze runs the full extraction pipeline: it replays the mjai event
log to reconstruct board state at every flagged decision, classifies
each mistake, derives its outcome impact, and prints the ranked result.

Files may be given in either order; their formats are auto-detected.
When only a review file is given, the event log must be embedded in it.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runAnalyze,
	}

	cmd.Flags().Int("max-mistakes", 0, "Maximum number of mistakes to report")
	cmd.Flags().Float64("min-ev-diff", -1, "Minimum |EV difference| to count as a mistake")
	cmd.Flags().Int("seat", -1, "Reviewed seat index (0-3)")
	cmd.Flags().String("cache", "", "Path to the analysis cache database")
	cmd.Flags().Bool("force", false, "Recompute even when a cached result exists")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// CLI flags override the config file.
	if cmd.Flags().Changed("max-mistakes") {
		cfg.Pipeline.MaxMistakes, _ = cmd.Flags().GetInt("max-mistakes")
	}
	if cmd.Flags().Changed("min-ev-diff") {
		cfg.Pipeline.MinEVDiff, _ = cmd.Flags().GetFloat64("min-ev-diff")
	}
	if cmd.Flags().Changed("seat") {
		cfg.Pipeline.ReviewedSeat, _ = cmd.Flags().GetInt("seat")
	}
	if cmd.Flags().Changed("cache") {
		cfg.Cache.Path, _ = cmd.Flags().GetString("cache")
	}

	reviewText, logText, err := readInputs(args)
	if err != nil {
		return err
	}

	force, _ := cmd.Flags().GetBool("force")
	hash := store.ContentHash(logText, reviewText)

	var cache *store.Store
	if cfg.Cache.Path != "" {
		cache, err = store.Open(cfg.Cache.Path)
		if err != nil {
			return err
		}
		defer cache.Close()

		if !force {
			if report, err := cache.Get(context.Background(), hash); err == nil {
				return writeReport(cmd, report, true)
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}
		}
	}

	rev, revErrs := review.Parse(reviewText)
	if rev == nil {
		return fmt.Errorf("unusable review: %v", revErrs[0])
	}

	events, logErrs := mjai.ParseLog(logText)
	if len(events) == 0 {
		return fmt.Errorf("unusable event log: %v", logErrs[0])
	}
	for _, e := range logErrs {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", e.Error())
	}

	report := analysis.NewPipeline(cfg.Pipeline).Run(rev, events)

	if cache != nil {
		if err := cache.Save(context.Background(), hash, report); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: cache save failed: %v\n", err)
		}
	}

	return writeReport(cmd, report, false)
}

// readInputs loads one or two input files, auto-detects which is the
// review and which the log, and falls back to a log embedded in the
// review when only one file is given.
func readInputs(paths []string) (reviewText, logText string, err error) {
	texts := make([]string, len(paths))
	formats := make([]mjai.Format, len(paths))
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return "", "", fmt.Errorf("read %s: %w", p, err)
		}
		texts[i] = string(data)
		formats[i] = mjai.DetectFormat(texts[i])
	}

	for i := range paths {
		switch formats[i] {
		case mjai.FormatReview:
			if reviewText != "" {
				return "", "", fmt.Errorf("two review files given; need a review and an mjai log")
			}
			reviewText = texts[i]
		case mjai.FormatMjai:
			if logText != "" {
				return "", "", fmt.Errorf("two mjai logs given; need a review and an mjai log")
			}
			logText = texts[i]
		default:
			return "", "", fmt.Errorf("%s: unrecognized input format", paths[i])
		}
	}

	if reviewText == "" {
		return "", "", fmt.Errorf("no review file among the inputs")
	}

	if logText == "" {
		embedded := review.EmbeddedLog(reviewText)
		if len(embedded) == 0 {
			return "", "", fmt.Errorf("no mjai log given and none embedded in the review")
		}
		logText = encodeEvents(embedded)
	}

	return reviewText, logText, nil
}

// encodeEvents renders events back to NDJSON so embedded logs share the
// same content-hash and parse path as file-based ones.
func encodeEvents(events []mjai.Event) string {
	var out []byte
	for _, ev := range events {
		line, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return string(out)
}

func writeReport(cmd *cobra.Command, report analysis.Report, cached bool) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	if jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printReport(cmd.OutOrStdout(), report, cached)
	return nil
}

func printReport(w io.Writer, report analysis.Report, cached bool) {
	if cached {
		fmt.Fprintln(w, "(cached result)")
	}

	m := report.Metadata
	fmt.Fprintf(w, "Accuracy %.1f%%, %d mistakes (%d major)\n\n", m.OverallAccuracy, m.TotalMistakes, m.BigMistakes)

	if len(report.Mistakes) == 0 {
		fmt.Fprintln(w, "No mistakes above the threshold.")
	}
	for _, mk := range report.Mistakes {
		fmt.Fprintf(w, "#%d  %s turn %d  [%s]  EV %.2f\n", mk.ID, mk.Round, mk.Turn, mk.Category, mk.EVDiff)
		if mk.YourDiscard != "" {
			fmt.Fprintf(w, "    played %s, optimal %s\n", mk.YourDiscard, mk.OptimalDiscard)
		} else {
			fmt.Fprintf(w, "    passed, optimal %s\n", mk.OptimalDiscard)
		}
		fmt.Fprintf(w, "    %s\n", mk.Impact.Description)
	}

	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}
