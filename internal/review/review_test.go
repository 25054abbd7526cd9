package review

import "testing"

func TestParse(t *testing.T) {
	text := `{
		"total_reviewed": 42,
		"total_matches": 38,
		"rating": 0.87,
		"model_tag": "mortal-v4",
		"kyokus": [{
			"kyoku": 0,
			"honba": 0,
			"end_status": [{"type":"ryukyoku","deltas":[1000,-1000,1000,-1000]}],
			"relative_scores": [25000,25000,25000,25000],
			"entries": [{
				"junme": 3,
				"tiles_left": 58,
				"tile": "9s",
				"state": {"tehai":["1m","2m","3m"],"fuuros":[]},
				"at_self_chi_pon": false,
				"at_self_riichi": false,
				"expected": {"type":"dahai","actor":0,"pai":"9s"},
				"actual": {"type":"dahai","actor":0,"pai":"1z"},
				"is_equal": false,
				"details": [{"action":{"type":"dahai","pai":"9s"},"q_value":4.2,"prob":0.8}],
				"shanten": 1,
				"actual_index": 1
			}]
		}]
	}`

	r, errs := Parse(text)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if r == nil {
		t.Fatal("expected non-nil review")
	}
	if r.TotalReviewed != 42 || r.TotalMatches != 38 || r.Rating != 0.87 {
		t.Errorf("header fields not parsed: %+v", r)
	}
	if len(r.Kyokus) != 1 || len(r.Kyokus[0].Entries) != 1 {
		t.Fatalf("kyokus/entries not parsed")
	}

	e := r.Kyokus[0].Entries[0]
	if e.Junme != 3 || e.Tile != "9s" || e.Shanten != 1 || e.ActualIndex != 1 {
		t.Errorf("entry fields not parsed: %+v", e)
	}
	if e.Actual.Pai != "1z" || e.Expected.Pai != "9s" {
		t.Errorf("actions not parsed: actual %+v expected %+v", e.Actual, e.Expected)
	}
	if len(e.Details) != 1 || e.Details[0].QValue != 4.2 {
		t.Errorf("details not parsed: %+v", e.Details)
	}
}

func TestParse_MissingKyokus(t *testing.T) {
	r, errs := Parse(`{"total_reviewed": 5}`)
	if r != nil {
		t.Error("expected nil review when kyokus is missing")
	}
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	r, errs := Parse("not json")
	if r != nil {
		t.Error("expected nil review for invalid JSON")
	}
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
}

func TestParse_DefaultsHeaderFields(t *testing.T) {
	r, errs := Parse(`{"kyokus": []}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if r == nil {
		t.Fatal("expected non-nil review")
	}
	if r.TotalReviewed != 0 || r.TotalMatches != 0 || r.Rating != 0 {
		t.Errorf("missing header fields should default to zero: %+v", r)
	}
}

func TestEmbeddedLog(t *testing.T) {
	text := `{"kyokus":[
		{"log":[{"type":"start_kyoku","bakaze":"E","kyoku":1},{"type":"end_kyoku"}]},
		{"events":[{"type":"start_kyoku","bakaze":"E","kyoku":2}]}
	]}`

	events := EmbeddedLog(text)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Type != "start_kyoku" || events[2].Kyoku != 2 {
		t.Errorf("embedded events not extracted: %+v", events)
	}
}

func TestEmbeddedLog_NoneEmbedded(t *testing.T) {
	if events := EmbeddedLog(`{"kyokus":[{"entries":[]}]}`); events != nil {
		t.Errorf("expected nil, got %v", events)
	}
}
