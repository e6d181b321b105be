package probe

import (
	"fmt"
	"time"
)

// NotAvailable is rendered for any value a probe could not produce.
const NotAvailable = "N/A"

// BytesPerMiB converts cumulative byte counters to mebibytes.
const BytesPerMiB = 1048576

// Kind identifies how a Sample's value is interpreted and rendered.
type Kind int

const (
	KindPercent Kind = iota
	KindBytes
	KindText
	KindUpDown
	KindDuration
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPercent:
		return "percent"
	case KindBytes:
		return "bytes"
	case KindText:
		return "text"
	case KindUpDown:
		return "updown"
	case KindDuration:
		return "duration"
	default:
		return "unknown"
	}
}

// Sample is one labelled metric value produced by a probe during a single
// cycle. A Sample is immutable; the zero value is an unavailable percent.
type Sample struct {
	Label string
	Kind  Kind

	num  float64
	text string
	ok   bool
}

// Percent creates a percentage sample (0-100).
func Percent(label string, v float64) Sample {
	return Sample{Label: label, Kind: KindPercent, num: v, ok: true}
}

// Bytes creates a byte-count sample, rendered in MiB.
func Bytes(label string, n uint64) Sample {
	return Sample{Label: label, Kind: KindBytes, num: float64(n), ok: true}
}

// Text creates a free-form text sample.
func Text(label, s string) Sample {
	return Sample{Label: label, Kind: KindText, text: s, ok: true}
}

// UpDown creates a boolean up/down sample.
func UpDown(label string, up bool) Sample {
	v := 0.0
	if up {
		v = 1
	}
	return Sample{Label: label, Kind: KindUpDown, num: v, ok: true}
}

// Duration creates a duration sample.
func Duration(label string, d time.Duration) Sample {
	return Sample{Label: label, Kind: KindDuration, num: float64(d), ok: true}
}

// Unavailable creates a sample that renders as N/A.
func Unavailable(label string, kind Kind) Sample {
	return Sample{Label: label, Kind: kind}
}

// OK reports whether the probe produced a value.
func (s Sample) OK() bool {
	return s.ok
}

// Value returns the numeric value. Bytes are raw bytes, durations are
// nanoseconds and up/down is 1 or 0.
func (s Sample) Value() float64 {
	return s.num
}

// MiB returns a byte sample's value in mebibytes.
func (s Sample) MiB() float64 {
	return s.num / BytesPerMiB
}

// String renders the value with its unit, or N/A.
func (s Sample) String() string {
	if !s.ok {
		return NotAvailable
	}
	switch s.Kind {
	case KindPercent:
		return fmt.Sprintf("%.1f%%", s.num)
	case KindBytes:
		return fmt.Sprintf("%.2f MiB", s.MiB())
	case KindUpDown:
		if s.num != 0 {
			return "Up"
		}
		return "Down"
	case KindDuration:
		return time.Duration(s.num).Round(time.Millisecond).String()
	default:
		return s.text
	}
}
