package probe

import (
	"strconv"
	"strings"
)

// Warning lines appended to the report for the local throttle status.
const (
	UnderVoltageWarning = "WARNING: Local Under-voltage detected!"
	ThrottlingWarning   = "WARNING: Local Throttling active!"
)

// Substrings searched for in the raw throttle output.
const (
	underVoltageMarker = "0x00001"
	throttlingMarker   = "0x00004"
)

// LocalWarnings returns the warning lines for a raw throttle string.
//
// Detection is substring containment on the text, not a bit test: it fires
// on any output containing "0x00001" or "0x00004" and misses values such as
// "0x50005" whose bits are set. ThrottleStatus gives the bitwise reading.
func LocalWarnings(raw string) []string {
	var warnings []string
	if strings.Contains(raw, underVoltageMarker) {
		warnings = append(warnings, UnderVoltageWarning)
	}
	if strings.Contains(raw, throttlingMarker) {
		warnings = append(warnings, ThrottlingWarning)
	}
	return warnings
}

// ThrottleStatus is the bit field reported by "vcgencmd get_throttled".
type ThrottleStatus uint32

// Bits of ThrottleStatus. The low nibble is the current state, bits 16-19
// record whether the condition has occurred since boot.
const (
	ThrottleUnderVoltage     ThrottleStatus = 1 << 0
	ThrottleFrequencyCapped  ThrottleStatus = 1 << 1
	ThrottleThrottled        ThrottleStatus = 1 << 2
	ThrottleSoftTempLimit    ThrottleStatus = 1 << 3
	ThrottleUnderVoltageSeen ThrottleStatus = 1 << 16
	ThrottleFreqCappedSeen   ThrottleStatus = 1 << 17
	ThrottleThrottledSeen    ThrottleStatus = 1 << 18
	ThrottleSoftTempSeen     ThrottleStatus = 1 << 19
)

// ParseThrottle reads "throttled=0x50005" or a bare "0x50005".
func ParseThrottle(raw string) (ThrottleStatus, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "throttled=")
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return 0, false
	}
	v, err := strconv.ParseUint(s[2:], 16, 32)
	if err != nil {
		return 0, false
	}
	return ThrottleStatus(v), true
}

func (t ThrottleStatus) UnderVoltage() bool    { return t&ThrottleUnderVoltage != 0 }
func (t ThrottleStatus) FrequencyCapped() bool { return t&ThrottleFrequencyCapped != 0 }
func (t ThrottleStatus) Throttled() bool       { return t&ThrottleThrottled != 0 }
func (t ThrottleStatus) SoftTempLimit() bool   { return t&ThrottleSoftTempLimit != 0 }

// Active reports whether any current-state bit is set.
func (t ThrottleStatus) Active() bool {
	return t&0xF != 0
}

// OccurredSinceBoot reports whether any condition has been seen since boot.
func (t ThrottleStatus) OccurredSinceBoot() bool {
	return t&0xF0000 != 0
}

// Conditions lists the currently active conditions in bit order.
func (t ThrottleStatus) Conditions() []string {
	var out []string
	if t.UnderVoltage() {
		out = append(out, "under-voltage")
	}
	if t.FrequencyCapped() {
		out = append(out, "freq capped")
	}
	if t.Throttled() {
		out = append(out, "throttled")
	}
	if t.SoftTempLimit() {
		out = append(out, "soft temp limit")
	}
	return out
}
