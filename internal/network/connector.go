// Package network models the devkit's network bring-up on a host.
//
// The firmware joins WiFi with the provisioned credentials, takes a DHCP
// lease and waits for SNTP before it will open a broker connection. A
// host agent is already on a network, so joining resolves to validating
// the credentials and reporting the primary non-loopback address as the
// acquired lease; the boot chain and its failure handling stay the same.
package network

import (
	"context"
	"fmt"
	"net"

	"github.com/arlebrun/devkitd/internal/infrastructure/logging"
)

// Credentials carries what the devkit presents when joining a network.
type Credentials struct {
	SSID     string
	Password string

	// Mode is the security mode label from the device record
	// (e.g. "WPA2 PSK"). Informational on a host.
	Mode string
}

// Info describes the lease the agent operates under.
type Info struct {
	// Address is the primary IPv4 address.
	Address string

	// Interface carries the address (e.g. "eth0").
	Interface string

	// SSID echoes the network the credentials named.
	SSID string
}

// Connector joins the configured network and reports the lease.
type Connector interface {
	Join(ctx context.Context, creds Credentials) (Info, error)
}

// HostConnector satisfies Connector using the host's own connectivity.
type HostConnector struct {
	log *logging.Logger
}

// NewHostConnector returns a Connector backed by the host's interfaces.
// A nil logger falls back to the default logger.
func NewHostConnector(log *logging.Logger) *HostConnector {
	if log == nil {
		log = logging.Default()
	}
	return &HostConnector{
		log: log.With("component", "network"),
	}
}

// Join validates the credentials and resolves the host's lease.
//
// The password is accepted but unused: the host's association already
// happened outside the agent. An empty SSID still fails, because a
// record that cannot name its network must not reach the broker stage.
func (h *HostConnector) Join(ctx context.Context, creds Credentials) (Info, error) {
	if creds.SSID == "" {
		return Info{}, ErrNoSSID
	}
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}

	address, ifaceName, err := primaryAddress()
	if err != nil {
		return Info{}, err
	}

	info := Info{
		Address:   address,
		Interface: ifaceName,
		SSID:      creds.SSID,
	}

	h.log.Info("network joined",
		"ssid", creds.SSID,
		"mode", creds.Mode,
		"address", info.Address,
		"interface", info.Interface)

	return info, nil
}

// primaryAddress returns the first global unicast IPv4 address on an
// up, non-loopback interface.
func primaryAddress() (string, string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", "", fmt.Errorf("%w: listing interfaces: %w", ErrNoAddress, err)
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip := ipNet.IP.To4()
			if ip == nil || !ip.IsGlobalUnicast() {
				continue
			}
			return ip.String(), iface.Name, nil
		}
	}

	return "", "", ErrNoAddress
}
