package mjai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError describes one problem found while parsing an input file.
type ParseError struct {
	Source  string `json:"source"` // "mjai" or "review"
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"` // 1-based, 0 when not line-specific
}

func (e ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", e.Source, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

// ParseLog parses an mjai event log in NDJSON form. Blank lines are
// skipped; each unparseable line produces a ParseError rather than
// aborting. An empty result is itself an error record so callers can
// refuse to run on a log that yielded nothing.
func ParseLog(text string) ([]Event, []ParseError) {
	var events []Event
	var errs []ParseError

	lineNo := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lineNo++

		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil || ev.Type == "" {
			errs = append(errs, ParseError{
				Source:  "mjai",
				Message: fmt.Sprintf("invalid JSON on line %d", lineNo),
				Line:    lineNo,
			})
			continue
		}
		events = append(events, ev)
	}

	if len(events) == 0 {
		errs = append(errs, ParseError{
			Source:  "mjai",
			Message: "no valid mjai events found in input",
		})
	}

	return events, errs
}

// Format identifies what kind of input file a blob of text holds.
type Format string

const (
	FormatMjai    Format = "mjai"
	FormatReview  Format = "review"
	FormatUnknown Format = "unknown"
)

// DetectFormat guesses whether text is an mjai NDJSON log or a review
// JSON document. Reviews are a single JSON object with a "kyokus" key;
// mjai logs are one event object per line.
func DetectFormat(text string) Format {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return FormatUnknown
	}

	if strings.HasPrefix(trimmed, "{") {
		var probe struct {
			Kyokus json.RawMessage `json:"kyokus"`
		}
		if err := json.Unmarshal([]byte(trimmed), &probe); err == nil && probe.Kyokus != nil {
			return FormatReview
		}
	}

	firstLine := strings.TrimSpace(strings.SplitN(trimmed, "\n", 2)[0])
	var ev Event
	if err := json.Unmarshal([]byte(firstLine), &ev); err == nil && ev.Type != "" {
		return FormatMjai
	}

	return FormatUnknown
}
