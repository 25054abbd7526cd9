// Package replay reconstructs full four-seat board state from an mjai
// event log. The AI review only stores the reviewed seat's hand; this
// package replays the log deterministically to recover everyone else's
// visible state (discards, melds, scores, riichi status) at any reviewed
// decision point.
package replay

import (
	"fmt"
	"sort"

	"github.com/nvandessel/tilelens/internal/mjai"
	"github.com/nvandessel/tilelens/internal/models"
	"github.com/nvandessel/tilelens/internal/review"
	"github.com/nvandessel/tilelens/internal/tiles"
)

// RiichiStake is the fixed score deduction on an accepted riichi.
const RiichiStake = 1000

const startingHandSize = 13

// Ledger carries the four seats' scores across rounds. It is a value:
// applying a round's deltas returns a new Ledger, so each round's replay
// is a pure function of (ledger, events, entry).
type Ledger [4]int

// DefaultLedger returns the standard 25000-point starting scores.
func DefaultLedger() Ledger {
	return Ledger{25000, 25000, 25000, 25000}
}

// Apply returns a new Ledger with per-seat deltas added. Deltas shorter
// than four seats are ignored beyond their length.
func (l Ledger) Apply(deltas []int) Ledger {
	out := l
	for i := 0; i < len(out) && i < len(deltas); i++ {
		out[i] += deltas[i]
	}
	return out
}

// TrackedPlayer is the replayed observable state of one seat.
type TrackedPlayer struct {
	Discards []string
	Melds    []models.Meld
	Score    int
	Riichi   bool

	// RiichiDiscardIndex is the index into Discards of the riichi
	// declaration tile; -1 until riichi is accepted.
	RiichiDiscardIndex int

	Dealer      bool
	SeatWind    tiles.Wind
	ClosedTiles int
}

func newTrackedPlayer(score int, seatWind tiles.Wind, dealer bool) TrackedPlayer {
	return TrackedPlayer{
		Discards:           []string{},
		Melds:              []models.Meld{},
		Score:              score,
		RiichiDiscardIndex: -1,
		Dealer:             dealer,
		SeatWind:           seatWind,
		ClosedTiles:        startingHandSize,
	}
}

// clone deep-copies the player so returned snapshots never alias the
// tracker's working state.
func (p TrackedPlayer) clone() TrackedPlayer {
	out := p
	out.Discards = append([]string(nil), p.Discards...)
	out.Melds = make([]models.Meld, len(p.Melds))
	for i, m := range p.Melds {
		cm := m
		cm.Tiles = append([]string(nil), m.Tiles...)
		if m.CalledFrom != nil {
			v := *m.CalledFrom
			cm.CalledFrom = &v
		}
		out.Melds[i] = cm
	}
	return out
}

// Snapshot is the full table state at one instant. Players are deep
// copies; a snapshot stays valid after the replay walk moves on.
type Snapshot struct {
	RoundWind      tiles.Wind
	TurnNumber     int
	Honba          int
	Dora           string
	DoraIndicators []string
	Players        [4]TrackedPlayer
	Oya            int
}

// Result is a snapshot lookup outcome. Matched reports whether the walk
// located the exact decision point; when false, Snapshot holds the
// last-known state and Reason says why the match failed, so callers can
// distinguish confident from degraded reconstructions.
type Result struct {
	Snapshot Snapshot
	Matched  bool
	Reason   string
}

// Tracker holds one game's event log grouped by round, ready to replay.
type Tracker struct {
	rounds map[string][]mjai.Event
}

// roundKey builds the lookup key from the review's absolute 0-indexed
// kyoku and honba count.
func roundKey(kyoku, honba int) string {
	return fmt.Sprintf("%d-%d", kyoku, honba)
}

// absoluteKyoku converts a start_kyoku event's round-within-wind number
// (1-4) plus its round wind into the absolute 0-indexed kyoku used by
// review data (0-3 East, 4-7 South, ...).
func absoluteKyoku(ev mjai.Event) int {
	within := ev.Kyoku - 1
	if within < 0 {
		within = 0
	}
	return tiles.WindIndex(tiles.NormalizeWind(ev.Bakaze))*4 + within
}

// NewTracker groups a full game log into per-round event slices. Events
// before the first start_kyoku are dropped.
func NewTracker(events []mjai.Event) *Tracker {
	t := &Tracker{rounds: make(map[string][]mjai.Event)}

	var current string
	for _, ev := range events {
		if ev.Type == mjai.TypeStartKyoku {
			current = roundKey(absoluteKyoku(ev), ev.Honba)
			t.rounds[current] = []mjai.Event{ev}
		} else if current != "" {
			t.rounds[current] = append(t.rounds[current], ev)
		}
	}
	return t
}

// Snapshot replays one round's events up to the decision point described
// by entry, starting from the given score ledger. For self-turn decisions
// it stops immediately before the triggering draw; for call decisions it
// stops immediately after the triggering opponent discard. A missing
// round is a hard error; an exhausted walk returns a Fallback result with
// the last-known state.
func (t *Tracker) Snapshot(kyoku, honba int, entry *review.Entry, seat int, ledger Ledger) (Result, error) {
	events, ok := t.rounds[roundKey(kyoku, honba)]
	if !ok || len(events) == 0 {
		return Result{}, fmt.Errorf("no events for round %s", tiles.FormatRound(kyoku, honba))
	}

	start := events[0]
	oya := start.Oya
	roundWind := tiles.NormalizeWind(start.Bakaze)
	doraIndicators := []string{tiles.Normalize(start.DoraMarker)}
	dora := tiles.DoraFromIndicator(start.DoraMarker)

	var players [4]TrackedPlayer
	for i := range players {
		players[i] = newTrackedPlayer(ledger[i], tiles.SeatWind(i, oya), i == oya)
	}

	snapshot := func() Snapshot {
		var copied [4]TrackedPlayer
		for i := range players {
			copied[i] = players[i].clone()
		}
		return Snapshot{
			RoundWind:      roundWind,
			TurnNumber:     entry.Junme,
			Honba:          honba,
			Dora:           dora,
			DoraIndicators: append([]string(nil), doraIndicators...),
			Players:        copied,
			Oya:            oya,
		}
	}

	// Count the reviewed seat's draws to match entry.Junme.
	reviewedTurns := 0

	for _, ev := range events[1:] {
		if ev.Type == mjai.TypeTsumo && ev.Actor == seat {
			reviewedTurns++
			if reviewedTurns == entry.Junme && !entry.AtSelfChiPon {
				// The draw that triggered this decision is already
				// recorded on the entry itself; return pre-draw state.
				return Result{Snapshot: snapshot(), Matched: true}, nil
			}
		}

		// Call decisions trigger on an opponent's discard of the entry
		// tile one turn before the reviewed seat's next draw. Apply the
		// discard, then snapshot.
		if entry.AtSelfChiPon &&
			ev.Type == mjai.TypeDahai &&
			ev.Actor != seat &&
			tiles.Normalize(ev.Pai) == tiles.Normalize(entry.Tile) &&
			reviewedTurns == entry.Junme-1 {
			applyEvent(&players, ev)
			return Result{Snapshot: snapshot(), Matched: true}, nil
		}

		applyEvent(&players, ev)

		if ev.Type == mjai.TypeDora {
			doraIndicators = append(doraIndicators, tiles.Normalize(ev.DoraMarker))
		}
	}

	return Result{
		Snapshot: snapshot(),
		Matched:  false,
		Reason:   fmt.Sprintf("no event matched turn %d", entry.Junme),
	}, nil
}

func validSeat(i int) bool {
	return i >= 0 && i < 4
}

// applyEvent advances the tracked state by one event. Events naming a
// seat outside 0-3 are dropped; a corrupt log must degrade, not panic.
func applyEvent(players *[4]TrackedPlayer, ev mjai.Event) {
	switch ev.Type {
	case mjai.TypeDahai, mjai.TypeTsumo, mjai.TypeAnkan, mjai.TypeKakan,
		mjai.TypeReach, mjai.TypeReachAccepted:
		if !validSeat(ev.Actor) {
			return
		}
	case mjai.TypeChi, mjai.TypePon, mjai.TypeDaiminkan:
		if !validSeat(ev.Actor) || !validSeat(ev.Target) {
			return
		}
	}

	switch ev.Type {
	case mjai.TypeDahai:
		p := &players[ev.Actor]
		p.Discards = append(p.Discards, tiles.Normalize(ev.Pai))
		p.ClosedTiles--

	case mjai.TypeTsumo:
		players[ev.Actor].ClosedTiles++

	case mjai.TypeChi:
		caller := &players[ev.Actor]
		popDiscard(&players[ev.Target])
		caller.Melds = append(caller.Melds, convertMeld("chi", ev.Pai, ev.Consumed, ev.Actor, ev.Target))
		caller.ClosedTiles -= 2

	case mjai.TypePon:
		caller := &players[ev.Actor]
		popDiscard(&players[ev.Target])
		caller.Melds = append(caller.Melds, convertMeld("pon", ev.Pai, ev.Consumed, ev.Actor, ev.Target))
		caller.ClosedTiles -= 2

	case mjai.TypeDaiminkan:
		caller := &players[ev.Actor]
		popDiscard(&players[ev.Target])
		caller.Melds = append(caller.Melds, convertMeld("kan", ev.Pai, ev.Consumed, ev.Actor, ev.Target))
		caller.ClosedTiles -= 3

	case mjai.TypeAnkan:
		caller := &players[ev.Actor]
		caller.Melds = append(caller.Melds, models.Meld{
			Type:  "ankan",
			Tiles: tiles.NormalizeAll(ev.Consumed),
		})
		caller.ClosedTiles -= 4

	case mjai.TypeKakan:
		upgradeToKan(&players[ev.Actor], ev.Pai)
		players[ev.Actor].ClosedTiles--

	case mjai.TypeReach:
		// Informational only; state changes on reach_accepted.

	case mjai.TypeReachAccepted:
		p := &players[ev.Actor]
		p.Riichi = true
		p.RiichiDiscardIndex = len(p.Discards) - 1
		p.Score -= RiichiStake

	case mjai.TypeHora, mjai.TypeRyukyoku:
		for i := 0; i < len(players) && i < len(ev.Deltas); i++ {
			players[i].Score += ev.Deltas[i]
		}
	}
}

// popDiscard removes the target seat's most recent discard; a call
// claims that tile out of the pond.
func popDiscard(target *TrackedPlayer) {
	if n := len(target.Discards); n > 0 {
		target.Discards = target.Discards[:n-1]
	}
}

// convertMeld builds a display meld from a call event. CalledFrom marks
// which tile is drawn sideways: for chi the claimed tile's position in
// the sorted run, for pon the position implied by the target's seating
// relation to the caller.
func convertMeld(meldType, called string, consumed []string, caller, target int) models.Meld {
	meldTiles := tiles.NormalizeAll(append([]string{called}, consumed...))

	var calledFrom *int
	switch meldType {
	case "chi":
		sort.Slice(meldTiles, func(i, j int) bool {
			return tiles.Number(meldTiles[i]) < tiles.Number(meldTiles[j])
		})
		for i, tl := range meldTiles {
			if tl == tiles.Normalize(called) {
				idx := i
				calledFrom = &idx
				break
			}
		}
	case "pon":
		// 1 = shimocha (right), 2 = toimen, 3 = kamicha.
		idx := 2
		switch (target - caller + 4) % 4 {
		case 3:
			idx = 0
		case 2:
			idx = 1
		}
		calledFrom = &idx
	}

	return models.Meld{Type: meldType, Tiles: meldTiles, CalledFrom: calledFrom}
}

// upgradeToKan converts an existing pon meld containing tile into a kan
// in place. The added tile comes from the caller's hand; no pond tile is
// removed.
func upgradeToKan(p *TrackedPlayer, tile string) {
	want := tiles.Normalize(tile)
	for i, m := range p.Melds {
		if m.Type != "pon" {
			continue
		}
		for _, tl := range m.Tiles {
			if tl == want {
				p.Melds[i].Type = "kan"
				p.Melds[i].Tiles = append(p.Melds[i].Tiles, want)
				return
			}
		}
	}
}

// ToBoardState translates a snapshot into the seat-relative board state
// carried on a Mistake. The reviewed seat's concealed-tile count is taken
// from the entry's stored hand, which is exact.
func ToBoardState(snap Snapshot, seat int, entry *review.Entry) models.BoardState {
	toPlayerState := func(p TrackedPlayer) models.PlayerState {
		return models.PlayerState{
			Seat:            p.SeatWind,
			Score:           p.Score,
			Discards:        p.Discards,
			ClosedHandCount: p.ClosedTiles,
			IsRiichi:        p.Riichi,
			RiichiTurnIndex: p.RiichiDiscardIndex,
			IsDealer:        p.Dealer,
			OpenMelds:       p.Melds,
		}
	}

	you := toPlayerState(snap.Players[seat])
	you.ClosedHandCount = len(entry.State.Tehai)

	return models.BoardState{
		RoundWind:  snap.RoundWind,
		TurnNumber: snap.TurnNumber,
		Dora:       snap.Dora,
		Honba:      snap.Honba,
		You:        you,
		Kamicha:    toPlayerState(snap.Players[(seat+3)%4]),
		Toimen:     toPlayerState(snap.Players[(seat+2)%4]),
		Shimocha:   toPlayerState(snap.Players[(seat+1)%4]),
	}
}
