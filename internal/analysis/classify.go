// Package analysis turns a parsed review plus replayed board state into
// ranked, classified, human-explainable mistakes.
package analysis

import (
	"github.com/nvandessel/tilelens/internal/mjai"
	"github.com/nvandessel/tilelens/internal/models"
	"github.com/nvandessel/tilelens/internal/replay"
	"github.com/nvandessel/tilelens/internal/review"
)

// rule is one guarded classification step. Rules are evaluated in order;
// the first hit wins.
type rule struct {
	name  string
	match func(e *review.Entry, snap *replay.Snapshot, seat int) (models.Category, bool)
}

// The cascade order is deliberate: riichi and calling decisions are
// structurally distinguishable from pure efficiency regardless of
// surrounding threat, so they are checked first. The threat-based rules
// only govern the remaining middle ground.
var classifyRules = []rule{
	{
		name: "riichi decision point or riichi action",
		match: func(e *review.Entry, _ *replay.Snapshot, _ int) (models.Category, bool) {
			if e.AtSelfRiichi || e.Expected.Type == mjai.TypeReach || e.Actual.Type == mjai.TypeReach {
				return models.CategoryRiichi, true
			}
			return "", false
		},
	},
	{
		name: "call decision point, call action, or declined call",
		match: func(e *review.Entry, _ *replay.Snapshot, _ int) (models.Category, bool) {
			if e.AtSelfChiPon ||
				e.Expected.Type == mjai.TypeChi || e.Expected.Type == mjai.TypePon ||
				e.Actual.Type == mjai.TypeChi || e.Actual.Type == mjai.TypePon ||
				e.Actual.Type == mjai.TypeNone {
				return models.CategoryCalling, true
			}
			return "", false
		},
	},
	{
		name: "opponent in riichi",
		match: func(e *review.Entry, snap *replay.Snapshot, seat int) (models.Category, bool) {
			if !anyOpponentRiichi(snap, seat) {
				return "", false
			}
			// Far from tenpai against a declared hand: the macro
			// keep-going-or-give-up question.
			if e.Shanten >= 2 {
				return models.CategoryPushFold, true
			}
			// Close to tenpai but the tile choice had defensive
			// implications.
			if e.Shanten >= 0 {
				return models.CategoryDefense, true
			}
			// Already tenpai against riichi.
			return models.CategoryPushFold, true
		},
	},
	{
		name: "visible tenpai-speed threat",
		match: func(e *review.Entry, snap *replay.Snapshot, seat int) (models.Category, bool) {
			if openHandThreat(snap, seat) && e.Shanten >= 2 {
				return models.CategoryDefense, true
			}
			return "", false
		},
	},
}

// Classify maps one reviewed decision to a mistake category using the
// ordered rule cascade, defaulting to Efficiency when nothing threatens.
func Classify(entry *review.Entry, snap *replay.Snapshot, seat int) models.Category {
	for _, r := range classifyRules {
		if cat, ok := r.match(entry, snap, seat); ok {
			return cat
		}
	}
	return models.CategoryEfficiency
}

func anyOpponentRiichi(snap *replay.Snapshot, seat int) bool {
	for i, p := range snap.Players {
		if i != seat && p.Riichi {
			return true
		}
	}
	return false
}

// openHandThreat reports whether any opponent shows two or more open
// melds with seven or fewer concealed tiles, a visible sign of a fast
// hand near tenpai.
func openHandThreat(snap *replay.Snapshot, seat int) bool {
	for i, p := range snap.Players {
		if i != seat && len(p.Melds) >= 2 && p.ClosedTiles <= 7 {
			return true
		}
	}
	return false
}
