package testing

import (
	"context"
	"errors"
	"regexp"
	"sync"

	"github.com/rileyhilliard/pimon/pkg/sshutil"
)

// CommandResponse defines a canned response for a specific command pattern.
type CommandResponse struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Error    error
}

// MockClient simulates an SSH connection for testing.
// Commands are answered from canned responses; anything unmatched
// fails with exit code 127 like a missing binary would.
type MockClient struct {
	mu       sync.Mutex
	host     string
	address  string
	closed   bool
	closes   int
	calls    []string
	order    []string
	commands map[string]CommandResponse // pattern -> response
	exact    map[string]CommandResponse
}

var _ sshutil.SSHClient = (*MockClient)(nil)

// NewMockClient creates a new mock SSH client with no responses.
func NewMockClient(host string) *MockClient {
	return &MockClient{
		host:     host,
		address:  host + ":22",
		commands: make(map[string]CommandResponse),
		exact:    make(map[string]CommandResponse),
	}
}

// Exec returns the canned response registered for cmd.
func (m *MockClient) Exec(cmd string) (stdout, stderr []byte, exitCode int, err error) {
	return m.ExecContext(context.Background(), cmd)
}

// ExecContext is Exec with cancellation support.
func (m *MockClient) ExecContext(ctx context.Context, cmd string) (stdout, stderr []byte, exitCode int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, cmd)

	if err := ctx.Err(); err != nil {
		return nil, nil, -1, err
	}
	if m.closed {
		return nil, nil, -1, errors.New("connection closed")
	}

	// Check for exact command matches first
	if resp, ok := m.exact[cmd]; ok {
		return resp.Stdout, resp.Stderr, resp.ExitCode, resp.Error
	}
	if resp, ok := m.commands[cmd]; ok {
		return resp.Stdout, resp.Stderr, resp.ExitCode, resp.Error
	}

	// Then patterns, in registration order so tests stay deterministic
	for _, pattern := range m.order {
		if matched, _ := regexp.MatchString(pattern, cmd); matched {
			resp := m.commands[pattern]
			return resp.Stdout, resp.Stderr, resp.ExitCode, resp.Error
		}
	}

	return nil, []byte("command not found\n"), 127, nil
}

// Close marks the connection as closed.
func (m *MockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.closes++
	return nil
}

// GetHost returns the host name.
func (m *MockClient) GetHost() string {
	return m.host
}

// GetAddress returns the host:port address.
func (m *MockClient) GetAddress() string {
	return m.address
}

// SetCommandResponse registers a canned response for a command pattern.
// The pattern can be an exact string or a regex pattern.
func (m *MockClient) SetCommandResponse(pattern string, resp CommandResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.commands[pattern]; !ok {
		m.order = append(m.order, pattern)
	}
	m.commands[pattern] = resp
}

// SetExact registers a response for one literal command line.
func (m *MockClient) SetExact(cmd string, resp CommandResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exact[cmd] = resp
}

// SetOutput is shorthand for a successful literal command printing out.
func (m *MockClient) SetOutput(cmd, out string) {
	m.SetExact(cmd, CommandResponse{Stdout: []byte(out)})
}

// Calls returns every command passed to Exec, in order.
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// CloseCount returns how many times Close was called.
func (m *MockClient) CloseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}

// IsClosed reports whether Close has been called.
func (m *MockClient) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
