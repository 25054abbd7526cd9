// Package tiles normalizes tile and wind notation between the mjai log
// format and the canonical app format.
//
// mjai logs may use "E","S","W","N" for winds, "P","F","C" for dragons,
// and "5mr"-style suffixes for red fives. The canonical format uses
// "1z"-"4z" for winds, "5z"-"7z" for dragons, and "0m","0p","0s" for
// red fives. Some logs already arrive in canonical form; both are handled.
package tiles

import (
	"fmt"
	"strconv"
)

// Wind is a positional wind name.
type Wind string

const (
	East  Wind = "East"
	South Wind = "South"
	West  Wind = "West"
	North Wind = "North"
)

// winds in play order starting from the dealer.
var windOrder = [4]Wind{East, South, West, North}

// mjaiToApp maps mjai honor and red-five notation to canonical notation.
var mjaiToApp = map[string]string{
	// Winds
	"E": "1z",
	"S": "2z",
	"W": "3z",
	"N": "4z",
	// Dragons: haku, hatsu, chun
	"P": "5z",
	"F": "6z",
	"C": "7z",
	// Red fives, r-suffix style
	"5mr": "0m",
	"5pr": "0p",
	"5sr": "0s",
	// Red fives already canonical
	"0m": "0m",
	"0p": "0p",
	"0s": "0s",
}

// Normalize converts a single mjai tile to canonical notation.
// Tokens that are neither mjai notation nor recognizably canonical pass
// through unchanged so a malformed tile never aborts a run.
func Normalize(raw string) string {
	if app, ok := mjaiToApp[raw]; ok {
		return app
	}
	return raw
}

// Known reports whether a token is recognized tile notation, either
// mjai or already canonical.
func Known(raw string) bool {
	if _, ok := mjaiToApp[raw]; ok {
		return true
	}
	if len(raw) != 2 {
		return false
	}
	n, suit := raw[0], raw[1]
	switch suit {
	case 'm', 'p', 's':
		return n >= '0' && n <= '9'
	case 'z':
		return n >= '1' && n <= '7'
	}
	return false
}

// NormalizeAll converts a slice of mjai tiles to canonical notation.
func NormalizeAll(raw []string) []string {
	out := make([]string, len(raw))
	for i, t := range raw {
		out[i] = Normalize(t)
	}
	return out
}

// windNames accepts both single-letter and full wind spellings.
var windNames = map[string]Wind{
	"E": East, "S": South, "W": West, "N": North,
	"East": East, "South": South, "West": West, "North": North,
}

// NormalizeWind converts an mjai wind string to a Wind, defaulting to East
// for unrecognized input.
func NormalizeWind(bakaze string) Wind {
	if w, ok := windNames[bakaze]; ok {
		return w
	}
	return East
}

// WindIndex returns the 0-based position of a wind in play order
// (East=0, South=1, West=2, North=3).
func WindIndex(w Wind) int {
	for i, name := range windOrder {
		if name == w {
			return i
		}
	}
	return 0
}

// SeatWind returns the seat wind for a player given the dealer seat.
// The dealer is always East; seats proceed counterclockwise.
func SeatWind(seat, dealer int) Wind {
	return windOrder[(seat-dealer+4)%4]
}

// FormatRound converts a kyoku number (0-indexed tenhou format) and honba
// count to a display string like "East 2" or "South 1 Honba 1".
// 0-3 = East 1-4, 4-7 = South 1-4, 8-11 = West 1-4.
func FormatRound(kyoku, honba int) string {
	wind := East
	if kyoku >= 0 && kyoku/4 < len(windOrder) {
		wind = windOrder[kyoku/4]
	}
	base := fmt.Sprintf("%s %d", wind, kyoku%4+1)
	if honba > 0 {
		return fmt.Sprintf("%s Honba %d", base, honba)
	}
	return base
}

// DoraFromIndicator returns the dora tile for a revealed indicator tile.
// The dora is the tile following the indicator: numbered suits wrap 9 to 1
// with a red five (0) counting as 5, winds cycle within 1z-4z, and dragons
// cycle within 5z-7z.
func DoraFromIndicator(indicator string) string {
	tile := Normalize(indicator)
	if len(tile) < 2 {
		return tile
	}

	suit := tile[len(tile)-1:]
	num, err := strconv.Atoi(tile[:len(tile)-1])
	if err != nil {
		return tile
	}

	if suit == "z" {
		if num <= 4 {
			return fmt.Sprintf("%dz", num%4+1)
		}
		return fmt.Sprintf("%dz", (num-5+1)%3+5)
	}

	switch num {
	case 0:
		return "6" + suit
	case 9:
		return "1" + suit
	default:
		return fmt.Sprintf("%d%s", num+1, suit)
	}
}

// Number returns the numeric rank of a canonical tile, or 0 when the tile
// has no leading number (used for sorting chi melds; a red five sorts
// before ordinary tiles, matching display convention).
func Number(tile string) int {
	n := 0
	for _, r := range tile {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
