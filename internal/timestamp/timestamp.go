// Package timestamp normalizes the gateway's heterogeneous timestamp encodings
// into epoch milliseconds.
package timestamp

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// SecondsCutoff is 2100-01-01T00:00:00Z in epoch seconds. Values below it are
// taken to be seconds, values at or above it milliseconds.
const SecondsCutoff int64 = 4102444800

// Pair is a 64-bit integer split into 32-bit halves, as emitted by the
// gateway's protobuf Long encoding.
type Pair struct {
	Low      int64 `json:"low"`
	High     int64 `json:"high"`
	Unsigned bool  `json:"unsigned,omitempty"`
}

// Normalize converts a raw timestamp of unknown shape into epoch milliseconds.
// Missing or unparseable input yields 0. The high half of a Pair is discarded.
func Normalize(v any) int64 {
	var n int64
	switch t := v.(type) {
	case nil:
		return 0
	case Pair:
		return clamp(t.Low * 1000)
	case *Pair:
		if t == nil {
			return 0
		}
		return clamp(t.Low * 1000)
	case map[string]any:
		low, ok := t["low"]
		if !ok {
			return 0
		}
		return clamp(toInt(low) * 1000)
	case Value:
		return t.Millis()
	case *Value:
		if t == nil {
			return 0
		}
		return t.Millis()
	default:
		if f, ok := fraction(v); ok {
			return scaleFloat(f)
		}
		n = toInt(v)
	}
	if n <= 0 {
		return 0
	}
	if n < SecondsCutoff {
		return n * 1000
	}
	return n
}

// ParseISO parses an ISO-8601 date string into epoch milliseconds, or 0.
func ParseISO(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.000Z0700", "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return clamp(t.UnixMilli())
		}
	}
	return 0
}

// Resolve tries the ISO path for non-numeric strings before falling back to
// Normalize.
func Resolve(v any) int64 {
	if s, ok := v.(string); ok && !isNumeric(s) {
		if ms := ParseISO(s); ms > 0 {
			return ms
		}
	}
	return Normalize(v)
}

func toInt(v any) int64 {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	case uint32:
		return int64(t)
	case uint64:
		if t > math.MaxInt64 {
			return 0
		}
		return int64(t)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0
		}
		return int64(t)
	case json.Number:
		return parseNumber(string(t))
	case string:
		return parseNumber(t)
	case bool:
		return 0
	default:
		return 0
	}
}

func parseNumber(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int64(f)
	}
	return 0
}

// fraction reports v as a float when it carries a fractional part, so that
// sub-second precision survives the seconds to milliseconds scaling.
func fraction(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case json.Number:
		return parseFraction(string(t))
	case string:
		return parseFraction(t)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f == math.Trunc(f) {
		return 0, false
	}
	return f, true
}

func parseFraction(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f == math.Trunc(f) {
		return 0, false
	}
	return f, true
}

func scaleFloat(f float64) int64 {
	if f <= 0 {
		return 0
	}
	if f < float64(SecondsCutoff) {
		return int64(math.Round(f * 1000))
	}
	return int64(f)
}

func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func clamp(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

// Value holds a timestamp field exactly as it arrived on the wire.
type Value struct {
	raw any
}

// Of wraps an already-decoded value.
func Of(v any) Value {
	return Value{raw: v}
}

// IsZero reports whether the field was absent, null or falsy.
func (v Value) IsZero() bool {
	return v.Millis() == 0
}

// Raw returns the decoded wire value.
func (v Value) Raw() any {
	return v.raw
}

// Millis returns the normalized epoch-millisecond value.
func (v Value) Millis() int64 {
	if s, ok := v.raw.(string); ok {
		return Resolve(s)
	}
	return Normalize(v.raw)
}

// UnmarshalJSON accepts numbers, strings, {low, high} objects and null.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		v.raw = nil
		return nil
	}
	switch data[0] {
	case '{':
		var p Pair
		if err := json.Unmarshal(data, &p); err != nil {
			v.raw = nil
			return nil
		}
		v.raw = p
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			v.raw = nil
			return nil
		}
		v.raw = s
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var raw any
		if err := dec.Decode(&raw); err != nil {
			v.raw = nil
			return nil
		}
		v.raw = raw
	}
	return nil
}

// MarshalJSON emits the normalized millisecond value.
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(v.Millis(), 10)), nil
}
