package doctor

import (
	"context"
	"fmt"
	"os/exec"
)

// LookPathFunc finds an executable in PATH.
type LookPathFunc func(file string) (string, error)

// ToolCheck verifies a local command used by a probe is installed.
type ToolCheck struct {
	Tool    string
	Purpose string
	// Fallback names what still works without the tool. A missing tool with
	// a fallback is a warning, not a failure.
	Fallback string
	LookPath LookPathFunc
}

func (c *ToolCheck) Name() string     { return "tool_" + c.Tool }
func (c *ToolCheck) Category() string { return CategoryLocal }

func (c *ToolCheck) Run(_ context.Context) CheckResult {
	lookPath := c.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	path, err := lookPath(c.Tool)
	if err == nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: fmt.Sprintf("%s: %s", c.Tool, path),
		}
	}

	if c.Fallback != "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s not found, %s", c.Tool, c.Fallback),
			Suggestion: fmt.Sprintf("Install %s for %s", c.Tool, c.Purpose),
		}
	}
	return CheckResult{
		Name:       c.Name(),
		Status:     StatusFail,
		Message:    fmt.Sprintf("%s not found, %s will show N/A", c.Tool, c.Purpose),
		Suggestion: fmt.Sprintf("Install %s or add it to PATH", c.Tool),
	}
}

// NewToolChecks returns checks for every local command the probes run.
func NewToolChecks(lookPath LookPathFunc) []Check {
	return []Check{
		&ToolCheck{Tool: "vcgencmd", Purpose: "voltage and throttle status", LookPath: lookPath},
		&ToolCheck{Tool: "systemctl", Purpose: "service status", LookPath: lookPath},
		&ToolCheck{Tool: "ping", Purpose: "internet status", LookPath: lookPath},
		&ToolCheck{Tool: "netstat", Purpose: "SSH connection details",
			Fallback: "reading the kernel connection table instead", LookPath: lookPath},
	}
}
