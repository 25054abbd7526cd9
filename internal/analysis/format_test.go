package analysis

import (
	"testing"

	"github.com/nvandessel/tilelens/internal/mjai"
)

func TestFormatAction(t *testing.T) {
	tests := []struct {
		name   string
		event  mjai.Event
		want   string
		wantOK bool
	}{
		{"discard is the bare tile", mjai.Event{Type: mjai.TypeDahai, Pai: "5mr"}, "0m", true},
		{"riichi declaration", mjai.Event{Type: mjai.TypeReach}, "Riichi", true},
		{"chi", mjai.Event{Type: mjai.TypeChi, Pai: "3s"}, "Chi 3s", true},
		{"pon", mjai.Event{Type: mjai.TypePon, Pai: "P"}, "Pon 5z", true},
		{"open kan", mjai.Event{Type: mjai.TypeDaiminkan, Pai: "2m"}, "Kan 2m", true},
		{"concealed kan", mjai.Event{Type: mjai.TypeAnkan, Consumed: []string{"6z", "6z", "6z", "6z"}}, "Ankan 6z", true},
		{"added kan", mjai.Event{Type: mjai.TypeKakan, Pai: "7s"}, "Kakan 7s", true},
		{"pass has no tile", mjai.Event{Type: mjai.TypeNone}, "", false},
		{"unknown type", mjai.Event{Type: "mystery"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FormatAction(tt.event)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("FormatAction() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFormatPlays(t *testing.T) {
	tests := []struct {
		name        string
		actual      mjai.Event
		expected    mjai.Event
		wantYour    string
		wantOptimal string
	}{
		{
			name:        "both plain discards",
			actual:      mjai.Event{Type: mjai.TypeDahai, Pai: "1z"},
			expected:    mjai.Event{Type: mjai.TypeDahai, Pai: "9s"},
			wantYour:    "1z",
			wantOptimal: "9s",
		},
		{
			name:        "recommended riichi annotates the actual discard",
			actual:      mjai.Event{Type: mjai.TypeDahai, Pai: "4p"},
			expected:    mjai.Event{Type: mjai.TypeReach},
			wantYour:    "4p",
			wantOptimal: "4p (with riichi)",
		},
		{
			name:        "declined call renders as pass",
			actual:      mjai.Event{Type: mjai.TypePon, Pai: "5p"},
			expected:    mjai.Event{Type: mjai.TypeNone},
			wantYour:    "Pon 5p",
			wantOptimal: "Pass",
		},
		{
			name:        "passed when call was right",
			actual:      mjai.Event{Type: mjai.TypeNone},
			expected:    mjai.Event{Type: mjai.TypeChi, Pai: "6m"},
			wantYour:    "",
			wantOptimal: "Chi 6m",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			your, optimal := FormatPlays(tt.actual, tt.expected)
			if your != tt.wantYour || optimal != tt.wantOptimal {
				t.Errorf("FormatPlays() = (%q, %q), want (%q, %q)", your, optimal, tt.wantYour, tt.wantOptimal)
			}
		})
	}
}
