package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/nvandessel/tilelens/internal/mjai"
	"github.com/nvandessel/tilelens/internal/models"
	"github.com/nvandessel/tilelens/internal/replay"
	"github.com/nvandessel/tilelens/internal/review"
	"github.com/nvandessel/tilelens/internal/tiles"
)

// BigMistakeThreshold is the |EV difference| above which a mistake counts
// as major in the metadata summary.
const BigMistakeThreshold = 1.0

// Config controls the mistake extraction pipeline.
type Config struct {
	// MaxMistakes caps the ranked output list.
	MaxMistakes int `json:"max_mistakes" yaml:"max_mistakes"`

	// MinEVDiff is the minimum |EV difference| for an entry to count as
	// a mistake at all.
	MinEVDiff float64 `json:"min_ev_diff" yaml:"min_ev_diff"`

	// ReviewedSeat is the seat index (0-3) the review evaluates.
	ReviewedSeat int `json:"reviewed_seat" yaml:"reviewed_seat"`
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		MaxMistakes:  5,
		MinEVDiff:    0.5,
		ReviewedSeat: 0,
	}
}

// normalized clamps config fields into usable ranges.
func (c Config) normalized() Config {
	if c.MaxMistakes <= 0 {
		c.MaxMistakes = DefaultConfig().MaxMistakes
	}
	if c.MinEVDiff < 0 {
		c.MinEVDiff = 0
	}
	if c.ReviewedSeat < 0 || c.ReviewedSeat > 3 {
		c.ReviewedSeat = 0
	}
	return c
}

// Report is the pipeline output: ranked mistakes, a review summary, and
// any warnings accumulated along the way. Zero mistakes with no warnings
// is a valid outcome, not a failure.
type Report struct {
	Mistakes []models.Mistake      `json:"mistakes"`
	Metadata models.ReplayMetadata `json:"metadata"`
	Warnings []string              `json:"warnings,omitempty"`
}

// Pipeline transforms one review plus its event log into a Report. A
// Pipeline instance holds no state across runs; independent runs need no
// locking.
type Pipeline struct {
	config Config
}

// NewPipeline creates a pipeline with the given config, filling in
// defaults for out-of-range values.
func NewPipeline(config Config) *Pipeline {
	return &Pipeline{config: config.normalized()}
}

// Run extracts ranked mistakes from a review and its mjai event log.
// Rounds are processed in log order because each round's starting scores
// depend on the previous round's deltas.
func (p *Pipeline) Run(rev *review.Review, log []mjai.Event) Report {
	var warnings []string
	var raw []models.Mistake

	tracker := replay.NewTracker(log)
	ledger := replay.DefaultLedger()

	for ki := range rev.Kyokus {
		kyoku := &rev.Kyokus[ki]

		for ei := range kyoku.Entries {
			entry := &kyoku.Entries[ei]

			// Confirmed plays are not mistakes.
			if entry.IsEqual {
				continue
			}

			evDiff := computeEVDiff(entry)
			if math.Abs(evDiff) < p.config.MinEVDiff {
				continue
			}

			if entry.Tile != "" && !tiles.Known(entry.Tile) {
				warnings = append(warnings, fmt.Sprintf(
					"unrecognized tile notation %q at %s turn %d",
					entry.Tile, tiles.FormatRound(kyoku.Kyoku, kyoku.Honba), entry.Junme))
			}

			result, err := tracker.Snapshot(kyoku.Kyoku, kyoku.Honba, entry, p.config.ReviewedSeat, ledger)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf(
					"could not reconstruct board state for %s turn %d: %v",
					tiles.FormatRound(kyoku.Kyoku, kyoku.Honba), entry.Junme, err))
				continue
			}
			if !result.Matched {
				// Degraded but usable last-known state.
				warnings = append(warnings, fmt.Sprintf(
					"approximate board state for %s turn %d: %s",
					tiles.FormatRound(kyoku.Kyoku, kyoku.Honba), entry.Junme, result.Reason))
			}

			yourDiscard, optimalDiscard := FormatPlays(entry.Actual, entry.Expected)

			raw = append(raw, models.Mistake{
				Round:          tiles.FormatRound(kyoku.Kyoku, kyoku.Honba),
				Turn:           entry.Junme,
				EVDiff:         evDiff,
				Category:       Classify(entry, &result.Snapshot, p.config.ReviewedSeat),
				Hand:           tiles.NormalizeAll(entry.State.Tehai),
				Drew:           drewTile(entry),
				YourDiscard:    yourDiscard,
				OptimalDiscard: optimalDiscard,
				BoardState:     replay.ToBoardState(result.Snapshot, p.config.ReviewedSeat, entry),
				Impact:         DeriveImpact(kyoku, p.config.ReviewedSeat),
				Explanation:    placeholderExplanation(entry, evDiff),
			})
		}

		// Thread the round's terminal deltas into the next round's
		// starting scores.
		for _, ev := range kyoku.EndStatus {
			if ev.IsTerminal() {
				ledger = ledger.Apply(ev.Deltas)
			}
		}
	}

	// Biggest mistakes first; stable so equal magnitudes keep log order
	// and reruns are deterministic.
	sort.SliceStable(raw, func(i, j int) bool {
		return math.Abs(raw[i].EVDiff) > math.Abs(raw[j].EVDiff)
	})

	top := raw
	if len(top) > p.config.MaxMistakes {
		top = top[:p.config.MaxMistakes]
	}
	for i := range top {
		top[i].ID = i + 1
	}

	return Report{
		Mistakes: top,
		Metadata: buildMetadata(rev, raw),
		Warnings: warnings,
	}
}

// computeEVDiff derives the value lost by the actual action relative to
// the best candidate. Always <= 0 when candidate values are correctly
// ordered; an actual rank beyond the candidate list clamps to the worst
// entry.
func computeEVDiff(entry *review.Entry) float64 {
	if len(entry.Details) == 0 {
		return 0
	}

	best := entry.Details[0].QValue
	idx := entry.ActualIndex
	if idx >= len(entry.Details) {
		idx = len(entry.Details) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return entry.Details[idx].QValue - best
}

// drewTile reports the tile drawn for self-turn decisions; call
// decisions have no draw.
func drewTile(entry *review.Entry) string {
	if entry.AtSelfChiPon {
		return ""
	}
	if entry.Tile != "" {
		return tiles.Normalize(entry.Tile)
	}
	// A 14-tile hand implies the last tile is the draw.
	if len(entry.State.Tehai) == 14 {
		return tiles.Normalize(entry.State.Tehai[13])
	}
	return ""
}

// placeholderExplanation fills the explanation slot until the external
// text-generation step replaces it.
func placeholderExplanation(entry *review.Entry, evDiff float64) models.Explanation {
	var shantenDesc string
	switch {
	case entry.Shanten == -1:
		shantenDesc = "tenpai"
	case entry.Shanten == 0:
		shantenDesc = "1 tile from tenpai"
	default:
		shantenDesc = fmt.Sprintf("%d tiles from tenpai", entry.Shanten+1)
	}

	bestProb := "?"
	if len(entry.Details) > 0 {
		bestProb = fmt.Sprintf("%.1f", entry.Details[0].Prob*100)
	}

	return models.Explanation{
		Summary: fmt.Sprintf("AI recommended a different play. EV difference: %.2f. Your hand was %s.", evDiff, shantenDesc),
		Details: []string{
			fmt.Sprintf("Your hand was %s with %d wall tiles remaining.", shantenDesc, entry.TilesLeft),
			fmt.Sprintf("The AI's top choice had %s%% confidence.", bestProb),
			fmt.Sprintf("Your actual play ranked #%d among %d candidate actions.", entry.ActualIndex+1, len(entry.Details)),
			"Detailed explanation will be generated by AI analysis.",
		},
		Principle: "Analysis pending. AI integration will provide specific strategic advice.",
	}
}

// buildMetadata summarizes the review. Mistake counts come from the full
// pre-truncation set so the summary reflects the whole game.
func buildMetadata(rev *review.Review, allMistakes []models.Mistake) models.ReplayMetadata {
	big := 0
	for _, m := range allMistakes {
		if math.Abs(m.EVDiff) >= BigMistakeThreshold {
			big++
		}
	}

	return models.ReplayMetadata{
		Date:            time.Now().Format("2006-01-02"),
		Room:            "Unknown",
		Mode:            "4p",
		Result:          models.GameResult{Delta: "—"},
		OverallAccuracy: rev.Rating * 100,
		TotalMistakes:   rev.TotalReviewed - rev.TotalMatches,
		BigMistakes:     big,
	}
}
