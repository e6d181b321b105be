package probe

import (
	"context"
	"errors"
	"time"

	"github.com/rileyhilliard/pimon/internal/config"
	exectest "github.com/rileyhilliard/pimon/internal/exec/testing"
)

// fakeStats is a scripted Stats source.
type fakeStats struct {
	cpu, ram, disk float64
	sent, recv     uint64
	sockets        []Socket
	err            error
	socketErr      error
}

func (f *fakeStats) CPUPercent(ctx context.Context, sample time.Duration) (float64, error) {
	return f.cpu, f.err
}

func (f *fakeStats) MemoryPercent(ctx context.Context) (float64, error) {
	return f.ram, f.err
}

func (f *fakeStats) DiskPercent(ctx context.Context, path string) (float64, error) {
	return f.disk, f.err
}

func (f *fakeStats) NetIO(ctx context.Context) (uint64, uint64, error) {
	return f.sent, f.recv, f.err
}

func (f *fakeStats) TCPConnections(ctx context.Context) ([]Socket, error) {
	return f.sockets, f.socketErr
}

var errNoInstrumentation = errors.New("instrumentation unavailable")

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.CPUSample = 0
	return cfg
}

func newTestLocal(runner *exectest.FakeRunner, stats Stats) *Local {
	return NewLocal(testConfig(), WithRunner(runner), WithStats(stats))
}

// healthyRunner scripts every local tool with well-formed output.
func healthyRunner() *exectest.FakeRunner {
	return exectest.NewFakeRunner().
		On("vcgencmd measure_volts", exectest.Response{Stdout: "volt=1.2000V\n"}).
		On("vcgencmd get_throttled", exectest.Response{Stdout: "throttled=0x0\n"}).
		On("systemctl is-active --quiet smbd", exectest.Response{}).
		On("ping -c 1 -W 3 8.8.8.8", exectest.Response{Stdout: "1 packets transmitted, 1 received"}).
		On("netstat -tn", exectest.Response{Stdout: netstatOneSSH})
}

const netstatOneSSH = `Active Internet connections (w/o servers)
Proto Recv-Q Send-Q Local Address           Foreign Address         State
tcp        0      0 192.168.4.2:22          192.168.4.10:51234      ESTABLISHED
tcp        0      0 192.168.4.2:445         192.168.4.10:50000      ESTABLISHED
`
