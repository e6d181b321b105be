package probe

import (
	"context"
	"regexp"
)

// vcgencmd is the Raspberry Pi firmware query tool.
const vcgencmd = "vcgencmd"

var voltagePattern = regexp.MustCompile(`^volt=([0-9]+(?:\.[0-9]+)?)V$`)

// ParseVoltage turns "volt=1.2000V" into "1.2000 V".
func ParseVoltage(output string) (string, bool) {
	m := voltagePattern.FindStringSubmatch(output)
	if m == nil {
		return "", false
	}
	return m[1] + " V", true
}

// Voltage reads the core voltage.
func (l *Local) Voltage(ctx context.Context) Sample {
	const label = "Voltage"

	res, err := l.runner.Run(ctx, vcgencmd, "measure_volts")
	if err != nil {
		l.log.Debug("couldn't fetch voltage: %v", err)
		return Unavailable(label, KindText)
	}
	if !res.Success() {
		l.log.Debug("vcgencmd measure_volts exited %d", res.ExitCode)
		return Unavailable(label, KindText)
	}

	v, ok := ParseVoltage(res.Output())
	if !ok {
		l.log.Debug("unexpected voltage output %q", res.Output())
		return Unavailable(label, KindText)
	}
	return Text(label, v)
}

// Throttle reads the raw throttle status, e.g. "throttled=0x50005".
func (l *Local) Throttle(ctx context.Context) Sample {
	const label = "Local Voltage and Throttle Status"

	res, err := l.runner.Run(ctx, vcgencmd, "get_throttled")
	if err != nil {
		l.log.Debug("couldn't fetch throttle status: %v", err)
		return Unavailable(label, KindText)
	}
	if !res.Success() || res.Output() == "" {
		l.log.Debug("vcgencmd get_throttled exited %d with %q", res.ExitCode, res.Output())
		return Unavailable(label, KindText)
	}
	return Text(label, res.Output())
}
