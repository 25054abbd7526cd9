package analysis

import (
	"fmt"

	"github.com/nvandessel/tilelens/internal/mjai"
	"github.com/nvandessel/tilelens/internal/tiles"
)

// FormatAction renders one action event as a short display string.
// Discards become the bare tile; calls become "Verb tile". The second
// return is false for a pass (declined call), which has no tile of its
// own.
func FormatAction(ev mjai.Event) (string, bool) {
	switch ev.Type {
	case mjai.TypeDahai:
		return tiles.Normalize(ev.Pai), true
	case mjai.TypeReach:
		// The accompanying discard arrives as a separate dahai event;
		// on its own the declaration is just "Riichi".
		return "Riichi", true
	case mjai.TypeChi:
		return fmt.Sprintf("Chi %s", tiles.Normalize(ev.Pai)), true
	case mjai.TypePon:
		return fmt.Sprintf("Pon %s", tiles.Normalize(ev.Pai)), true
	case mjai.TypeDaiminkan:
		return fmt.Sprintf("Kan %s", tiles.Normalize(ev.Pai)), true
	case mjai.TypeAnkan:
		if len(ev.Consumed) > 0 {
			return fmt.Sprintf("Ankan %s", tiles.Normalize(ev.Consumed[0])), true
		}
		return "Ankan", true
	case mjai.TypeKakan:
		return fmt.Sprintf("Kakan %s", tiles.Normalize(ev.Pai)), true
	default:
		return "", false
	}
}

// FormatPlays renders the actual and recommended actions for display.
// When one side is a riichi declaration and the other a plain discard,
// the riichi side is annotated with the discard tile so the comparison
// reads naturally. A pass renders as empty actual and "Pass" optimal.
func FormatPlays(actual, expected mjai.Event) (yourDiscard, optimalDiscard string) {
	yourDiscard, _ = FormatAction(actual)
	optimalDiscard, ok := FormatAction(expected)
	if !ok {
		optimalDiscard = "Pass"
	}

	if expected.Type == mjai.TypeReach && actual.Type == mjai.TypeDahai {
		optimalDiscard = fmt.Sprintf("%s (with riichi)", tiles.Normalize(actual.Pai))
	}

	return yourDiscard, optimalDiscard
}
