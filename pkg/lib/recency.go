package lib

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/rs/zerolog"
)

// secondsCutoff separates unix seconds from unix milliseconds.
// Values up to it are seconds (that covers dates until year 2286).
const secondsCutoff = 10_000_000_000

// ScoreFunc extracts the primary sort key. ok=false means the item has no score.
type ScoreFunc[T any] func(item T) (score float64, ok bool)

// TimeFunc extracts a raw timestamp candidate: a time.Time, a unix number
// (seconds or milliseconds), a date string, or nil when absent.
type TimeFunc[T any] func(item T) any

// SortByScoreThenRecency returns a new slice ordered by score descending.
// Exact score ties are broken by the first present and valid timestamp among
// dates, newest first; items without one resolve to the epoch and sort last.
// Remaining ties keep their input order. The input is never modified.
func SortByScoreThenRecency[T any](logger *zerolog.Logger, items []T, score ScoreFunc[T], dates ...TimeFunc[T]) []T {
	out := slices.Clone(items)
	if len(out) < 2 {
		return out
	}

	type key struct {
		score float64
		dated bool
		ts    int64
	}

	// Keys are resolved once so that parse warnings are logged once per item.
	keys := make([]key, len(out))
	for i, item := range out {
		values := make([]any, len(dates))
		for j, date := range dates {
			values[j] = date(item)
		}
		ts, dated := resolveTimestamp(logger, values...)
		keys[i] = key{
			score: scoreOf(score, item),
			dated: dated,
			ts:    ts.UnixMilli(),
		}
	}

	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}

	slices.SortStableFunc(idx, func(a, b int) int {
		ka, kb := keys[a], keys[b]
		if ka.score != kb.score {
			if ka.score > kb.score {
				return -1
			}
			return 1
		}
		switch {
		// Undated items sort after every dated one, pre-1970 dates included.
		case ka.dated != kb.dated:
			if ka.dated {
				return -1
			}
			return 1
		case ka.ts > kb.ts:
			return -1
		case ka.ts < kb.ts:
			return 1
		default:
			return 0
		}
	})

	sorted := make([]T, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}

// NeedsSorting reports whether any adjacent pair is score-inverted.
// Timestamps are ignored.
func NeedsSorting[T any](items []T, score ScoreFunc[T]) bool {
	for i := 1; i < len(items); i++ {
		if scoreOf(score, items[i-1]) < scoreOf(score, items[i]) {
			return true
		}
	}
	return false
}

func scoreOf[T any](score ScoreFunc[T], item T) float64 {
	s, ok := score(item)
	if !ok || math.IsNaN(s) {
		return 0
	}
	return s
}

// ResolveTimestamp returns the first present and valid timestamp among values.
// Unparsable values are logged and skipped; if none resolve the epoch is returned.
func ResolveTimestamp(logger *zerolog.Logger, values ...any) time.Time {
	ts, _ := resolveTimestamp(logger, values...)
	return ts
}

func resolveTimestamp(logger *zerolog.Logger, values ...any) (time.Time, bool) {
	for _, v := range values {
		ts, present, err := parseTimestamp(v)
		if !present {
			continue
		}
		if err != nil {
			logger.Warn().Err(err).Interface("value", v).Msg("Unparsable timestamp, skipping")
			continue
		}
		return ts, true
	}
	return time.Unix(0, 0), false
}

func parseTimestamp(v any) (time.Time, bool, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false, nil
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false, nil
		}
		return t, true, nil
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false, nil
		}
		return *t, true, nil
	case int:
		return fromUnix(float64(t))
	case int64:
		return fromUnix(float64(t))
	case float64:
		return fromUnix(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return time.Time{}, true, err
		}
		return fromUnix(f)
	case string:
		if t == "" {
			return time.Time{}, false, nil
		}
		// Bare numbers in strings follow the same seconds/milliseconds rule.
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return fromUnix(f)
		}
		ts, err := dateparse.ParseAny(t)
		if err != nil {
			return time.Time{}, true, err
		}
		return ts, true, nil
	default:
		return time.Time{}, true, &UnsupportedTimestampError{Value: v}
	}
}

// fromUnix converts unix seconds or milliseconds. Values that don't fit
// an int64 millisecond count are reported as out of range.
func fromUnix(v float64) (time.Time, bool, error) {
	ms := v
	if v <= secondsCutoff {
		ms = v * 1000
	}
	// NaN fails both comparisons.
	if !(ms >= math.MinInt64 && ms < math.MaxInt64) {
		return time.Time{}, true, strconv.ErrRange
	}
	return time.UnixMilli(int64(ms)), true, nil
}

// UnsupportedTimestampError is reported for values of a type that can't hold a date.
type UnsupportedTimestampError struct {
	Value any
}

func (e *UnsupportedTimestampError) Error() string {
	return "unsupported timestamp type"
}

// FieldScore reads a numeric field from a decoded JSON record.
func FieldScore(name string) ScoreFunc[map[string]any] {
	return func(item map[string]any) (float64, bool) {
		switch v := item[name].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case json.Number:
			f, err := v.Float64()
			return f, err == nil
		default:
			return 0, false
		}
	}
}

// FieldTime reads a raw timestamp field from a decoded JSON record.
func FieldTime(name string) TimeFunc[map[string]any] {
	return func(item map[string]any) any {
		return item[name]
	}
}
