// Package monitor drives the refresh loop and renders reports.
//
// Two front ends share the same cycle function:
//
//	Scheduler  - headless fixed-delay loop used by "pimon watch" and "pimon snapshot"
//	Model      - Bubble Tea dashboard used by "pimon"
//
// # Refresh cycle
//
// Exactly one cycle is in flight at any time. The next cycle is scheduled
// only after the previous report has been handed over, so a slow cycle
// delays the following one instead of overlapping it:
//
//  1. collect: run the aggregator (local probes and the remote client)
//  2. render: hand the finished report string to the sink or the viewport
//  3. wait: sleep Interval, then go back to 1
//
// A panic inside a cycle is recovered and rendered in place of the report
// as "An error occurred: <detail>". The loop keeps running.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C        - Quit
//	r                - Refresh now (ignored while a cycle is running)
//	j/k, ↑/↓         - Scroll one line
//	PgUp/PgDn        - Scroll one page
//	Home/End         - Jump to top or bottom
//	?                - Toggle help overlay
package monitor
