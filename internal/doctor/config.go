package doctor

import (
	"context"
	stderrors "errors"

	"github.com/rileyhilliard/pimon/internal/config"
	"github.com/rileyhilliard/pimon/internal/errors"
)

// ConfigCheck verifies the configuration loads and validates.
type ConfigCheck struct {
	// Path is the explicit --config value; empty means the default lookup.
	Path string
}

func (c *ConfigCheck) Name() string     { return "config" }
func (c *ConfigCheck) Category() string { return CategoryConfig }

func (c *ConfigCheck) Run(_ context.Context) CheckResult {
	path, err := config.Find(c.Path)
	if err != nil {
		return failure(c.Name(), err)
	}

	if _, err := config.Load(path); err != nil {
		return failure(c.Name(), err)
	}

	if path == "" {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "No config file, using built-in defaults",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Config valid: " + path,
	}
}

// failure turns a structured error into a failed result, keeping its
// suggestion.
func failure(name string, err error) CheckResult {
	res := CheckResult{
		Name:    name,
		Status:  StatusFail,
		Message: errors.Short(err),
	}
	var e *errors.Error
	if stderrors.As(err, &e) {
		res.Suggestion = e.Suggestion
	}
	return res
}
