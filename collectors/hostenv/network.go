package hostenv

import (
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gitlab.com/tinyland/lab/sysmon/internal/logging"
	"gitlab.com/tinyland/lab/sysmon/monitor"
)

var (
	_ monitor.ConnectivityProbe = (*NetProbe)(nil)
	_ monitor.ConnectionProbe   = (*NetProbe)(nil)
)

const defaultSysClassNet = "/sys/class/net"

// iface is the subset of net.Interface the probe inspects.
type iface struct {
	Name  string
	Flags net.Flags
	IPs   []net.IP
}

// NetProbe derives connectivity from the host's network interfaces and
// link quality from sysfs.
type NetProbe struct {
	logger  *slog.Logger
	sysRoot string

	// Overridable sources for testing.
	listInterfaces func() ([]iface, error)
	readFile       func(string) ([]byte, error)
	stat           func(string) (fs.FileInfo, error)
}

// NewNetProbe creates a NetProbe. If logger is nil, a no-op logger is used.
func NewNetProbe(logger *slog.Logger) *NetProbe {
	if logger == nil {
		logger = logging.Discard()
	}
	return &NetProbe{
		logger:         logger,
		sysRoot:        defaultSysClassNet,
		listInterfaces: systemInterfaces,
		readFile:       os.ReadFile,
		stat:           os.Stat,
	}
}

// Online reports whether any non-loopback interface is up with a global
// unicast address.
func (p *NetProbe) Online() bool {
	_, ok := p.primary()
	return ok
}

// Connection reports the primary interface's link speed and type. Speed is
// unknown for most wireless drivers, in which case only the type is set.
func (p *NetProbe) Connection() (monitor.ConnectionInfo, bool) {
	name, ok := p.primary()
	if !ok {
		return monitor.ConnectionInfo{}, false
	}

	info := monitor.ConnectionInfo{EffectiveType: "ethernet"}
	if _, err := p.stat(filepath.Join(p.sysRoot, name, "wireless")); err == nil {
		info.EffectiveType = "wifi"
	}

	raw, err := p.readFile(filepath.Join(p.sysRoot, name, "speed"))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			p.logger.Debug("link speed unreadable", "iface", name, "error", err)
		}
		return info, true
	}
	if mbps, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64); err == nil && mbps > 0 {
		info.DownlinkMbps = mbps
	}
	return info, true
}

// primary returns the first up, non-loopback interface carrying a global
// unicast address.
func (p *NetProbe) primary() (string, bool) {
	ifaces, err := p.listInterfaces()
	if err != nil {
		p.logger.Debug("list interfaces failed", "error", err)
		return "", false
	}

	for _, ifc := range ifaces {
		if ifc.Flags&net.FlagUp == 0 || ifc.Flags&net.FlagLoopback != 0 {
			continue
		}
		for _, ip := range ifc.IPs {
			if ip.IsGlobalUnicast() {
				return ifc.Name, true
			}
		}
	}
	return "", false
}

func systemInterfaces() ([]iface, error) {
	nifs, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	out := make([]iface, 0, len(nifs))
	for _, n := range nifs {
		ifc := iface{Name: n.Name, Flags: n.Flags}
		addrs, err := n.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			if ipn, ok := a.(*net.IPNet); ok {
				ifc.IPs = append(ifc.IPs, ipn.IP)
			}
		}
		out = append(out, ifc)
	}
	return out, nil
}
