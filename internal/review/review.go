// Package review defines the Mortal AI review format: a per-decision
// evaluation of one seat's play, with ranked candidate actions and
// Q-values. This is the second input to the analysis pipeline, alongside
// the mjai event log.
package review

import (
	"encoding/json"

	"github.com/nvandessel/tilelens/internal/mjai"
)

// Detail is one ranked candidate action with its evaluation.
type Detail struct {
	Action mjai.Event `json:"action"`
	QValue float64    `json:"q_value"`
	Prob   float64    `json:"prob"`
}

// Fuuro is an open meld as stored on a review entry's hand state.
type Fuuro struct {
	Type     string   `json:"type"` // chi, pon, daiminkan, kakan, ankan
	Pai      string   `json:"pai,omitempty"`
	Target   int      `json:"target,omitempty"`
	Consumed []string `json:"consumed"`
}

// State is the reviewed seat's hand at the decision instant.
type State struct {
	Tehai  []string `json:"tehai"` // concealed tiles
	Fuuros []Fuuro  `json:"fuuros"`
}

// Entry is one flagged or confirmed decision.
type Entry struct {
	Junme     int    `json:"junme"` // turn number within the round, 1-indexed
	TilesLeft int    `json:"tiles_left"`
	LastActor int    `json:"last_actor"`
	Tile      string `json:"tile"` // tile that triggered the decision
	State     State  `json:"state"`

	AtSelfChiPon    bool `json:"at_self_chi_pon"`
	AtSelfRiichi    bool `json:"at_self_riichi"`
	AtOpponentKakan bool `json:"at_opponent_kakan"`

	Expected mjai.Event `json:"expected"` // AI's top-ranked action
	Actual   mjai.Event `json:"actual"`   // the seat's actual action
	IsEqual  bool       `json:"is_equal"`

	Details     []Detail `json:"details"`
	Shanten     int      `json:"shanten"` // -1 = tenpai
	AtFuriten   bool     `json:"at_furiten"`
	ActualIndex int      `json:"actual_index"` // rank of actual among candidates, 0 = best
}

// KyokuReview collects all reviewed decisions for one round.
type KyokuReview struct {
	Kyoku          int          `json:"kyoku"` // 0-indexed absolute: 0-3 East, 4-7 South
	Honba          int          `json:"honba"`
	EndStatus      []mjai.Event `json:"end_status"`
	RelativeScores [4]int       `json:"relative_scores"`
	Entries        []Entry      `json:"entries"`
}

// Review is a full game review.
type Review struct {
	TotalReviewed int           `json:"total_reviewed"`
	TotalMatches  int           `json:"total_matches"`
	Rating        float64       `json:"rating"`
	Temperature   float64       `json:"temperature"`
	Kyokus        []KyokuReview `json:"kyokus"`
	ModelTag      string        `json:"model_tag"`
}

// Parse decodes a review JSON document. A missing or invalid "kyokus"
// array makes the review unusable and yields a nil Review; missing
// numeric header fields merely default to zero. The pipeline must never
// run on a nil review.
func Parse(text string) (*Review, []mjai.ParseError) {
	var errs []mjai.ParseError

	var probe struct {
		Kyokus json.RawMessage `json:"kyokus"`
	}
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		errs = append(errs, mjai.ParseError{Source: "review", Message: "invalid JSON in review file"})
		return nil, errs
	}
	if probe.Kyokus == nil {
		errs = append(errs, mjai.ParseError{Source: "review", Message: `missing or invalid "kyokus" array in review data`})
		return nil, errs
	}

	var r Review
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		errs = append(errs, mjai.ParseError{Source: "review", Message: "invalid JSON in review file"})
		return nil, errs
	}

	return &r, errs
}

// EmbeddedLog extracts an mjai event log embedded inside a review
// document. Some review exports carry the per-round events under a "log"
// or "events" key on each kyoku instead of shipping a separate NDJSON
// file. Returns nil when nothing is embedded.
func EmbeddedLog(text string) []mjai.Event {
	var doc struct {
		Kyokus []struct {
			Log    []mjai.Event `json:"log"`
			Events []mjai.Event `json:"events"`
		} `json:"kyokus"`
	}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil
	}

	var events []mjai.Event
	for _, k := range doc.Kyokus {
		events = append(events, k.Log...)
		events = append(events, k.Events...)
	}
	return events
}
