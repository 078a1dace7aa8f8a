package taxonomy

import (
	"math"
	"strings"
	"time"
)

// DefaultSpeakerWeights returns the built-in speaker role weight table.
func DefaultSpeakerWeights() map[string]float64 {
	return map[string]float64{
		"customer": 1.5,
		"pm":       1.2,
		"engineer": 1.1,
		"unknown":  1.0,
	}
}

// DefaultMeetingTypeWeights returns the built-in meeting type weight table.
func DefaultMeetingTypeWeights() map[string]float64 {
	return map[string]float64{
		"customer_call": 1.3,
		"refinement":    1.2,
		"brainstorm":    0.9,
		"internal":      1.0,
		"unknown":       1.0,
	}
}

// ScoreOptions control mention aggregation. Nil weight maps select the
// defaults. HalfLifeDays <= 0 disables decay. A zero Now means "current
// UTC time"; callers needing reproducible results must pin it.
type ScoreOptions struct {
	SpeakerWeights     map[string]float64
	MeetingTypeWeights map[string]float64
	HalfLifeDays       float64
	Now                time.Time
}

// ScoreMentions aggregates raw mentions into per-topic scores. Each
// mention contributes relevance * speakerWeight * meetingTypeWeight *
// decay, summed under the mention's normalized topic key (explicit id
// preferred over label; keyless mentions are skipped). Roles and meeting
// types resolve case-insensitively and default to "unknown"; keys missing
// from a weight table weigh 1.0. Decay halves a contribution every
// HalfLifeDays; a malformed or absent timestamp counts as Now, so it
// carries no decay penalty. Only topics with at least one contributing
// mention appear in the result: absent means zero, never an explicit 0.
func ScoreMentions(mentions []Mention, opts ScoreOptions) map[string]float64 {
	totals := make(map[string]float64)
	if len(mentions) == 0 {
		return totals
	}

	speakerW := opts.SpeakerWeights
	if speakerW == nil {
		speakerW = DefaultSpeakerWeights()
	}
	typeW := opts.MeetingTypeWeights
	if typeW == nil {
		typeW = DefaultMeetingTypeWeights()
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	// Per-day multiplier so a contribution halves every HalfLifeDays
	perDay := 0.0
	if opts.HalfLifeDays > 0 {
		perDay = math.Pow(0.5, 1.0/opts.HalfLifeDays)
	}

	for _, m := range mentions {
		key := m.TopicID
		if key == "" {
			key = m.TopicLabel
		}
		if key == "" {
			continue
		}

		weight := weightFor(speakerW, m.SpeakerRole) * weightFor(typeW, m.MeetingType)

		rel := m.Relevance
		if rel == 0 {
			rel = 1.0
		}

		decay := 1.0
		if perDay > 0 {
			elapsed := elapsedDays(now, m.Timestamp)
			decay = math.Pow(perDay, elapsed)
		}

		totals[Normalize(key)] += rel * weight * decay
	}

	return totals
}

func weightFor(table map[string]float64, key string) float64 {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		key = "unknown"
	}
	if w, ok := table[key]; ok {
		return w
	}
	return 1.0
}

// elapsedDays returns the non-negative number of days between ts and now.
// Unparseable or empty timestamps count as now.
func elapsedDays(now time.Time, ts string) float64 {
	when, ok := parseTimestamp(ts)
	if !ok {
		return 0
	}
	days := now.Sub(when).Seconds() / 86400.0
	if days < 0 {
		return 0
	}
	return days
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(ts string) (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
