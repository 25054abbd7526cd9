// Package models defines the output value types of the analysis
// pipeline: ranked Mistakes with their reconstructed board state, impact,
// and metadata. These are terminal, immutable values; the rendering and
// explanation layers consume them read-only.
package models

import "github.com/nvandessel/tilelens/internal/tiles"

// Category is the inferred kind of a mistake.
type Category string

const (
	CategoryPushFold   Category = "Push/Fold"
	CategoryEfficiency Category = "Efficiency"
	CategoryRiichi     Category = "Riichi Decision"
	CategoryCalling    Category = "Calling Decision"
	CategoryDefense    Category = "Defense"
)

// Meld is a formed tile group, open or concealed.
type Meld struct {
	Type  string   `json:"type"` // chi, pon, kan, ankan
	Tiles []string `json:"tiles"`

	// CalledFrom is the index of the tile claimed from another seat,
	// drawn sideways for display. Nil for concealed quads.
	CalledFrom *int `json:"called_from,omitempty"`
}

// PlayerState is one seat's observable state in a board snapshot.
type PlayerState struct {
	Seat            tiles.Wind `json:"seat"`
	Score           int        `json:"score"`
	Discards        []string   `json:"discards"`
	ClosedHandCount int        `json:"closed_hand_count"`
	IsRiichi        bool       `json:"is_riichi"`

	// RiichiTurnIndex is the discard-pile index of the riichi declaration
	// tile; -1 until riichi is accepted.
	RiichiTurnIndex int `json:"riichi_turn_index"`

	IsDealer  bool   `json:"is_dealer"`
	OpenMelds []Meld `json:"open_melds"`
}

// BoardState is the full table at one decision instant, seat-relative to
// the reviewed player.
type BoardState struct {
	RoundWind  tiles.Wind `json:"round_wind"`
	TurnNumber int        `json:"turn_number"`
	Dora       string     `json:"dora"`
	Honba      int        `json:"honba"`

	You      PlayerState `json:"you"`
	Kamicha  PlayerState `json:"kamicha"`  // left seat
	Toimen   PlayerState `json:"toimen"`   // opposite seat
	Shimocha PlayerState `json:"shimocha"` // right seat
}

// ImpactType classifies how a mistake related to the round's outcome.
type ImpactType string

const (
	ImpactDealtIn      ImpactType = "dealt_in"
	ImpactMissedWin    ImpactType = "missed_win"
	ImpactPositionLoss ImpactType = "position_loss"
	ImpactNoDirect     ImpactType = "no_direct"
)

// PointSwing is the estimated score effect of a mistake, as display
// strings. Optimal values are best-effort: where the counterfactual
// cannot be computed, actual and optimal are reported equal and the
// difference is left unknown.
type PointSwing struct {
	Actual  string `json:"actual"`
	Optimal string `json:"optimal"`
	Diff    string `json:"diff"`
}

// Impact is the derived game-outcome narrative for a mistake.
type Impact struct {
	Type        ImpactType  `json:"type"`
	Description string      `json:"description"`
	PointSwing  *PointSwing `json:"point_swing,omitempty"`
}

// Explanation is the free-text analysis attached to a mistake. The
// pipeline fills in a placeholder; an external text-generation step
// replaces it.
type Explanation struct {
	Summary   string   `json:"summary"`
	Details   []string `json:"details"`
	Principle string   `json:"principle"`
}

// Mistake is one flagged suboptimal decision, fully contextualized.
type Mistake struct {
	ID       int      `json:"id"`
	Round    string   `json:"round"` // "East 2", "South 1 Honba 1"
	Turn     int      `json:"turn"`
	EVDiff   float64  `json:"ev_diff"` // negative when suboptimal
	Category Category `json:"category"`

	Hand []string `json:"hand"`
	Drew string   `json:"drew,omitempty"` // tile drawn this turn, if any

	YourDiscard    string `json:"your_discard,omitempty"` // empty when the action was a pass
	OptimalDiscard string `json:"optimal_discard"`

	BoardState  BoardState  `json:"board_state"`
	Impact      Impact      `json:"impact"`
	Explanation Explanation `json:"explanation"`
}

// GameResult is the reviewed seat's final standing, passed through from
// the replay source when known.
type GameResult struct {
	Rank  int    `json:"rank"`
	Score int    `json:"score"`
	Delta string `json:"delta"`
}

// ReplayMetadata summarizes a review for display alongside the mistakes.
type ReplayMetadata struct {
	Date string `json:"date"`
	Room string `json:"room"`
	Mode string `json:"mode"`

	Result GameResult `json:"result"`

	OverallAccuracy float64 `json:"overall_accuracy"` // rating x 100
	TotalMistakes   int     `json:"total_mistakes"`
	BigMistakes     int     `json:"big_mistakes"`
}
