// Package mjai defines the mjai table-event log format and its parser.
//
// An mjai log is NDJSON: one JSON object per line, discriminated by the
// "type" field. A single Event struct carries the union of fields; which
// fields are meaningful depends on Type.
package mjai

// Event types appearing in an mjai log.
const (
	TypeStartGame     = "start_game"
	TypeStartKyoku    = "start_kyoku"
	TypeTsumo         = "tsumo"
	TypeDahai         = "dahai"
	TypeChi           = "chi"
	TypePon           = "pon"
	TypeDaiminkan     = "daiminkan"
	TypeKakan         = "kakan"
	TypeAnkan         = "ankan"
	TypeReach         = "reach"
	TypeReachAccepted = "reach_accepted"
	TypeHora          = "hora"
	TypeRyukyoku      = "ryukyoku"
	TypeDora          = "dora"
	TypeEndKyoku      = "end_kyoku"
	TypeEndGame       = "end_game"
	TypeNone          = "none"
)

// HiddenTile marks an unobservable tile in an opponent's starting hand.
// It must only ever be counted, never inspected for identity.
const HiddenTile = "?"

// Event is one entry in an mjai log. Fields beyond Type are populated
// per event type:
//
//	start_kyoku    Bakaze, Kyoku, Honba, Kyotaku, Oya, DoraMarker, Tehais
//	tsumo, dahai   Actor, Pai (dahai also Tsumogiri)
//	chi, pon,
//	daiminkan      Actor, Target, Pai, Consumed
//	kakan          Actor, Pai, Consumed
//	ankan          Actor, Consumed
//	reach,
//	reach_accepted Actor
//	hora           Actor, Target, Pai, Deltas, UraMarkers, Scores
//	ryukyoku       Deltas, Scores
//	dora           DoraMarker
type Event struct {
	Type string `json:"type"`

	Actor  int `json:"actor,omitempty"`
	Target int `json:"target,omitempty"`

	Pai       string   `json:"pai,omitempty"`
	Consumed  []string `json:"consumed,omitempty"`
	Tsumogiri bool     `json:"tsumogiri,omitempty"`

	// start_kyoku fields
	Bakaze     string     `json:"bakaze,omitempty"`
	Kyoku      int        `json:"kyoku,omitempty"` // 1-4 within the round wind
	Honba      int        `json:"honba,omitempty"`
	Kyotaku    int        `json:"kyotaku,omitempty"`
	Oya        int        `json:"oya,omitempty"`
	DoraMarker string     `json:"dora_marker,omitempty"`
	Tehais     [][]string `json:"tehais,omitempty"`

	// terminal fields
	Deltas     []int    `json:"deltas,omitempty"`
	Scores     []int    `json:"scores,omitempty"`
	UraMarkers []string `json:"ura_markers,omitempty"`
}

// IsCall reports whether the event claims a tile from another seat's pond.
func (e Event) IsCall() bool {
	switch e.Type {
	case TypeChi, TypePon, TypeDaiminkan:
		return true
	}
	return false
}

// IsTerminal reports whether the event ends a round with score deltas.
func (e Event) IsTerminal() bool {
	return e.Type == TypeHora || e.Type == TypeRyukyoku
}
