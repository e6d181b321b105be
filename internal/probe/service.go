package probe

import "context"

// ServiceState is the liveness of a local service.
type ServiceState int

const (
	// ServiceUnknown means the query itself failed (no systemctl, timeout).
	ServiceUnknown ServiceState = iota
	ServiceActive
	ServiceInactive
)

// String renders the state the way the report shows it.
func (s ServiceState) String() string {
	switch s {
	case ServiceActive:
		return "Up"
	case ServiceInactive:
		return "Down"
	default:
		return NotAvailable
	}
}

// Service asks systemd whether the named unit is active.
// Exit 0 is active, any other exit is inactive, and a query that could not
// run at all is unknown.
func (l *Local) Service(ctx context.Context, name string) ServiceState {
	res, err := l.runner.Run(ctx, "systemctl", "is-active", "--quiet", name)
	if err != nil {
		l.log.Debug("couldn't query service %s: %v", name, err)
		return ServiceUnknown
	}
	if res.Success() {
		return ServiceActive
	}
	l.log.Debug("service %s is not active (exit %d)", name, res.ExitCode)
	return ServiceInactive
}
