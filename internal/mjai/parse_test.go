package mjai

import "testing"

const sampleLog = `{"type":"start_kyoku","bakaze":"E","kyoku":1,"honba":0,"oya":0,"dora_marker":"3m"}
{"type":"tsumo","actor":0,"pai":"7p"}
{"type":"dahai","actor":0,"pai":"1z","tsumogiri":false}
{"type":"end_kyoku"}`

func TestParseLog(t *testing.T) {
	events, errs := ParseLog(sampleLog)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}

	start := events[0]
	if start.Type != TypeStartKyoku || start.Bakaze != "E" || start.Kyoku != 1 || start.DoraMarker != "3m" {
		t.Errorf("start_kyoku fields not parsed: %+v", start)
	}
	if events[1].Type != TypeTsumo || events[1].Pai != "7p" {
		t.Errorf("tsumo not parsed: %+v", events[1])
	}
}

func TestParseLog_SkipsBlankLines(t *testing.T) {
	events, errs := ParseLog("\n{\"type\":\"tsumo\",\"actor\":1,\"pai\":\"2s\"}\n\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
}

func TestParseLog_BadLines(t *testing.T) {
	text := "{\"type\":\"tsumo\",\"actor\":0,\"pai\":\"1m\"}\nnot json at all\n{\"no_type\":true}"
	events, errs := ParseLog(text)

	if len(events) != 1 {
		t.Errorf("got %d events, want 1", len(events))
	}
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}
	if errs[0].Line != 2 || errs[1].Line != 3 {
		t.Errorf("error lines = %d, %d; want 2, 3", errs[0].Line, errs[1].Line)
	}
}

func TestParseLog_Empty(t *testing.T) {
	events, errs := ParseLog("   \n  ")
	if events != nil {
		t.Errorf("expected no events, got %v", events)
	}
	if len(errs) != 1 {
		t.Fatalf("expected a single no-events error, got %v", errs)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Format
	}{
		{"review object", `{"kyokus":[],"total_reviewed":10}`, FormatReview},
		{"mjai start_game", `{"type":"start_game"}`, FormatMjai},
		{"mjai ndjson", sampleLog, FormatMjai},
		{"untyped object", `{"foo":1}`, FormatUnknown},
		{"garbage", "hello world", FormatUnknown},
		{"empty", "", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.text); got != tt.want {
				t.Errorf("DetectFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}
