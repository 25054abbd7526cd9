package analysis

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/nvandessel/tilelens/internal/mjai"
	"github.com/nvandessel/tilelens/internal/models"
	"github.com/nvandessel/tilelens/internal/review"
)

// DeriveImpact maps a round's terminal event plus the reviewed seat to a
// narrative outcome. This is best-effort: where the counterfactual score
// under optimal play cannot be computed, actual and optimal are reported
// equal and the difference is left unknown rather than fabricated.
func DeriveImpact(kyoku *review.KyokuReview, seat int) models.Impact {
	for _, ev := range kyoku.EndStatus {
		switch ev.Type {
		case mjai.TypeHora:
			return horaImpact(ev, seat)
		case mjai.TypeRyukyoku:
			return ryukyokuImpact(ev, seat)
		}
	}

	return models.Impact{
		Type:        models.ImpactNoDirect,
		Description: "Round outcome could not be determined from available data.",
	}
}

func horaImpact(ev mjai.Event, seat int) models.Impact {
	delta := seatDelta(ev.Deltas, seat)

	// The reviewed seat discarded the winning tile.
	if ev.Target == seat && ev.Actor != seat {
		lost := abs(delta)
		return models.Impact{
			Type:        models.ImpactDealtIn,
			Description: fmt.Sprintf("Dealt into opponent for %s points.", formatPoints(lost)),
			PointSwing: &models.PointSwing{
				Actual:  formatDelta(delta),
				Optimal: "0",
				Diff:    formatPoints(lost),
			},
		}
	}

	// The reviewed seat won, but perhaps for less than optimal play
	// would have earned. The counterfactual hand value is unknowable
	// without re-simulation.
	if ev.Actor == seat {
		return models.Impact{
			Type:        models.ImpactPositionLoss,
			Description: fmt.Sprintf("Won the hand for %s points, but optimal play may have yielded more.", formatDelta(delta)),
			PointSwing: &models.PointSwing{
				Actual:  formatDelta(delta),
				Optimal: formatDelta(delta),
				Diff:    "—",
			},
		}
	}

	// Someone else won off someone else.
	impact := models.Impact{
		Type:        models.ImpactNoDirect,
		Description: fmt.Sprintf("Round ended with another player winning. Your score changed by %s.", formatDelta(delta)),
	}
	if delta != 0 {
		impact.PointSwing = &models.PointSwing{
			Actual:  formatDelta(delta),
			Optimal: "0",
			Diff:    formatPoints(abs(delta)),
		}
	}
	return impact
}

func ryukyokuImpact(ev mjai.Event, seat int) models.Impact {
	delta := seatDelta(ev.Deltas, seat)

	switch {
	case delta < 0:
		// Paid the no-ready penalty; being ready would have reversed it.
		return models.Impact{
			Type:        models.ImpactMissedWin,
			Description: fmt.Sprintf("Round ended in exhaustive draw. Lost %s (noten penalty).", formatPoints(abs(delta))),
			PointSwing: &models.PointSwing{
				Actual:  formatDelta(delta),
				Optimal: "+" + formatPoints(abs(delta)),
				Diff:    formatPoints(abs(delta) * 2),
			},
		}
	case delta > 0:
		return models.Impact{
			Type:        models.ImpactNoDirect,
			Description: fmt.Sprintf("Round ended in exhaustive draw. Gained %s (tenpai payment).", formatDelta(delta)),
			PointSwing: &models.PointSwing{
				Actual:  formatDelta(delta),
				Optimal: formatDelta(delta),
				Diff:    "0",
			},
		}
	default:
		return models.Impact{
			Type:        models.ImpactNoDirect,
			Description: "Round ended in exhaustive draw with no score change.",
		}
	}
}

func seatDelta(deltas []int, seat int) int {
	if seat >= 0 && seat < len(deltas) {
		return deltas[seat]
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func formatPoints(pts int) string {
	return humanize.Comma(int64(pts))
}

func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + humanize.Comma(int64(delta))
	}
	if delta < 0 {
		return humanize.Comma(int64(delta))
	}
	return "0"
}
