package engagement

import (
	"fmt"
	"math"
)

// Kind identifies what the user did with an article.
type Kind string

const (
	// KindView is a passive impression, e.g. the card scrolled into view.
	KindView Kind = "view"
	// KindEngaged confirms the user actually read the article.
	KindEngaged Kind = "engaged"
	// KindExit is emitted when the reader closes an article, with dwell metrics attached.
	KindExit Kind = "exit"
	// KindSourceClick is an outbound click to the original publisher.
	KindSourceClick Kind = "source_click"
	KindShare       Kind = "share"
	// KindInteraction covers taps on embedded components (galleries, polls, ...).
	KindInteraction Kind = "interaction"
)

var kinds = []Kind{KindView, KindEngaged, KindExit, KindSourceClick, KindShare, KindInteraction}

// ParseKind validates a serialized kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown engagement kind: %s", s)
}

// IsRead reports whether the kind can count as a read of the article.
func (k Kind) IsRead() bool {
	return k == KindEngaged || k == KindExit
}

// Event is a single engagement signal. Metadata is only meaningful for KindExit.
type Event struct {
	Kind Kind `json:"kind"`
	// ActiveSeconds is the foreground reading time.
	ActiveSeconds float64 `json:"activeSeconds,omitempty"`
	// ScrollPercent is the maximum scroll depth reached, 0-100.
	ScrollPercent float64 `json:"scrollPercent,omitempty"`
}

// Weight multipliers per signal strength.
const (
	weightNone    = 0.0
	weightLow     = 1.0
	weightMedium  = 2.0
	weightHigh    = 3.0
	weightHighest = 5.0
)

// Dwell thresholds for exit events.
const (
	glanceSeconds  = 10
	glanceScroll   = 30
	mediumSeconds  = 30
	longSeconds    = 60
	deepReadScroll = 50
)

// Classify maps an event to the weight multiplier applied to the article's tags.
// Zero means the event must not influence interests. Unknown kinds map to zero.
func Classify(e Event) float64 {
	switch e.Kind {
	case KindEngaged:
		return weightLow
	case KindExit:
		return classifyExit(sanitize(e.ActiveSeconds, math.MaxFloat64), sanitize(e.ScrollPercent, 100))
	case KindSourceClick:
		return weightHigh
	case KindShare:
		return weightHighest
	default:
		// Views are too noisy on their own (fast scrolling) and component
		// interactions are only used alongside other signals.
		return weightNone
	}
}

func classifyExit(activeSeconds, scrollPercent float64) float64 {
	switch {
	case activeSeconds < glanceSeconds && scrollPercent < glanceScroll:
		return weightNone
	case activeSeconds >= longSeconds:
		return weightHigh
	case activeSeconds >= mediumSeconds:
		return weightMedium
	case activeSeconds >= glanceSeconds:
		return weightLow
	case scrollPercent >= deepReadScroll:
		return weightLow
	default:
		return weightNone
	}
}

func sanitize(v, ceiling float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, ceiling)
}
