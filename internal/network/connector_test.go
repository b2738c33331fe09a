package network

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/arlebrun/devkitd/internal/infrastructure/logging"
)

func testLogger() *logging.Logger {
	return &logging.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// =============================================================================
// Join Tests
// =============================================================================

func TestJoinNoSSID(t *testing.T) {
	conn := NewHostConnector(testLogger())

	_, err := conn.Join(context.Background(), Credentials{})
	if !errors.Is(err, ErrNoSSID) {
		t.Errorf("Join() error = %v, want ErrNoSSID", err)
	}
}

func TestJoinCancelled(t *testing.T) {
	conn := NewHostConnector(testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conn.Join(ctx, Credentials{SSID: "devkit-lab"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Join() error = %v, want context.Canceled", err)
	}
}

func TestJoinReportsLease(t *testing.T) {
	conn := NewHostConnector(testLogger())

	info, err := conn.Join(context.Background(), Credentials{
		SSID:     "devkit-lab",
		Password: "unused-on-host",
		Mode:     "WPA2 PSK",
	})
	if errors.Is(err, ErrNoAddress) {
		t.Skip("no non-loopback interface on this host")
	}
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}

	if info.SSID != "devkit-lab" {
		t.Errorf("Info.SSID = %q, want %q", info.SSID, "devkit-lab")
	}
	if info.Interface == "" {
		t.Error("Info.Interface is empty")
	}

	ip := net.ParseIP(info.Address)
	if ip == nil || ip.To4() == nil {
		t.Errorf("Info.Address = %q, want an IPv4 address", info.Address)
	}
	if ip != nil && ip.IsLoopback() {
		t.Errorf("Info.Address = %q, loopback must be skipped", info.Address)
	}
}

func TestNewHostConnectorNilLogger(t *testing.T) {
	conn := NewHostConnector(nil)

	_, err := conn.Join(context.Background(), Credentials{})
	if !errors.Is(err, ErrNoSSID) {
		t.Errorf("Join() error = %v, want ErrNoSSID", err)
	}
}
