package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
)

// Socket is one row of the kernel TCP connection table.
type Socket struct {
	LocalIP    string
	LocalPort  uint32
	RemoteIP   string
	RemotePort uint32
	Status     string
}

// Stats reads OS instrumentation without spawning processes.
type Stats interface {
	CPUPercent(ctx context.Context, sample time.Duration) (float64, error)
	MemoryPercent(ctx context.Context) (float64, error)
	DiskPercent(ctx context.Context, path string) (float64, error)
	// NetIO returns cumulative bytes sent and received since boot, summed
	// over all interfaces.
	NetIO(ctx context.Context) (sent, recv uint64, err error)
	TCPConnections(ctx context.Context) ([]Socket, error)
}

// HostStats implements Stats with gopsutil.
type HostStats struct{}

// CPUPercent samples overall CPU utilization over the given window.
func (HostStats) CPUPercent(ctx context.Context, sample time.Duration) (float64, error) {
	pct, err := cpu.PercentWithContext(ctx, sample, false)
	if err != nil {
		return 0, err
	}
	if len(pct) == 0 {
		return 0, fmt.Errorf("no cpu samples returned")
	}
	return pct[0], nil
}

// MemoryPercent returns virtual memory utilization.
func (HostStats) MemoryPercent(ctx context.Context) (float64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return vm.UsedPercent, nil
}

// DiskPercent returns filesystem utilization for the mount containing path.
func (HostStats) DiskPercent(ctx context.Context, path string) (float64, error) {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return 0, err
	}
	return usage.UsedPercent, nil
}

// NetIO returns cumulative byte counters across all interfaces.
func (HostStats) NetIO(ctx context.Context) (uint64, uint64, error) {
	counters, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return 0, 0, err
	}
	if len(counters) == 0 {
		return 0, 0, fmt.Errorf("no network counters returned")
	}
	return counters[0].BytesSent, counters[0].BytesRecv, nil
}

// TCPConnections returns the kernel's TCP socket table.
func (HostStats) TCPConnections(ctx context.Context) ([]Socket, error) {
	conns, err := net.ConnectionsWithContext(ctx, "tcp")
	if err != nil {
		return nil, err
	}
	out := make([]Socket, 0, len(conns))
	for _, c := range conns {
		out = append(out, Socket{
			LocalIP:    c.Laddr.IP,
			LocalPort:  c.Laddr.Port,
			RemoteIP:   c.Raddr.IP,
			RemotePort: c.Raddr.Port,
			Status:     c.Status,
		})
	}
	return out, nil
}
