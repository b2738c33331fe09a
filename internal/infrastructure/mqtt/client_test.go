package mqtt

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// testConfig returns a broker config shaped the way cmd/devkitd builds it:
// identity fields from a provisioned device record, tuning from the agent
// config file.
//
// These tests never dial a broker. Validation paths, option builders and
// topic builders are all covered here; round-trips against a live broker
// live in integration_test.go behind the integration build tag.
func testConfig() Config {
	return Config{
		Host:                  "127.0.0.1",
		Port:                  1883,
		ClientID:              "devkit-01",
		TLS:                   false,
		QoS:                   1,
		KeepAlive:             30 * time.Second,
		ReconnectInitialDelay: time.Second,
		ReconnectMaxDelay:     5 * time.Second,
	}
}

// captureLogger implements Logger and records what was logged.
type captureLogger struct {
	mu     sync.Mutex
	errors []string
	warns  []string
}

func (l *captureLogger) Error(msg string, args ...any) {
	l.mu.Lock()
	l.errors = append(l.errors, msg)
	l.mu.Unlock()
}

func (l *captureLogger) Warn(msg string, args ...any) {
	l.mu.Lock()
	l.warns = append(l.warns, msg)
	l.mu.Unlock()
}

// testMessage implements pahomqtt.Message for handler tests.
type testMessage struct {
	topic   string
	payload []byte
}

func (m testMessage) Duplicate() bool   { return false }
func (m testMessage) Qos() byte         { return 1 }
func (m testMessage) Retained() bool    { return false }
func (m testMessage) Topic() string     { return m.topic }
func (m testMessage) MessageID() uint16 { return 0 }
func (m testMessage) Payload() []byte   { return m.payload }
func (m testMessage) Ack()              {}

// =============================================================================
// Connection State Tests
// =============================================================================

func TestCloseNil(t *testing.T) {
	client := &Client{}
	err := client.Close()
	if err != nil {
		t.Errorf("Close() on nil client error = %v, want nil", err)
	}
}

func TestIsConnected_InitialState(t *testing.T) {
	client := &Client{}
	if client.IsConnected() {
		t.Error("IsConnected() = true on fresh client, want false")
	}
}

// =============================================================================
// HealthCheck Tests
// =============================================================================

func TestHealthCheckCancelled(t *testing.T) {
	client := &Client{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.HealthCheck(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck() error = %v, want context.Canceled", err)
	}
}

func TestHealthCheckDisconnected(t *testing.T) {
	client := &Client{}

	err := client.HealthCheck(context.Background())
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

// =============================================================================
// Publish Validation Tests
// =============================================================================

func TestPublishEmptyTopic(t *testing.T) {
	client := &Client{}

	err := client.Publish("", []byte("test"), 1, false)
	if !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Publish() error = %v, want ErrInvalidTopic", err)
	}
}

func TestPublishInvalidQoS(t *testing.T) {
	client := &Client{}

	err := client.Publish(Topics{}.Telemetry(), []byte("test"), 3, false)
	if !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("Publish() error = %v, want ErrInvalidQoS", err)
	}
}

func TestPublishOversizedPayload(t *testing.T) {
	client := &Client{}

	payload := make([]byte, maxPayloadSize+1)
	err := client.Publish(Topics{}.Telemetry(), payload, 1, false)
	if !errors.Is(err, ErrPublishFailed) {
		t.Errorf("Publish() error = %v, want ErrPublishFailed", err)
	}
}

func TestPublishDisconnected(t *testing.T) {
	client := &Client{}

	err := client.Publish(Topics{}.Telemetry(), []byte("test"), 1, false)
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() error = %v, want ErrNotConnected", err)
	}
}

func TestPublishStringDisconnected(t *testing.T) {
	client := &Client{}

	err := client.PublishString(Topics{}.Status(), "online", 1, true)
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("PublishString() error = %v, want ErrNotConnected", err)
	}
}

func TestPublishRetainedDisconnected(t *testing.T) {
	client := &Client{}

	err := client.PublishRetained(Topics{}.Status(), []byte("online"))
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("PublishRetained() error = %v, want ErrNotConnected", err)
	}
}

// =============================================================================
// Subscribe Validation Tests
// =============================================================================

func TestSubscribeEmptyTopic(t *testing.T) {
	client := &Client{}

	err := client.Subscribe("", 1, func(string, []byte) error { return nil })
	if !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Subscribe() error = %v, want ErrInvalidTopic", err)
	}
}

func TestSubscribeInvalidQoS(t *testing.T) {
	client := &Client{}

	err := client.Subscribe(Topics{}.LED(), 3, func(string, []byte) error { return nil })
	if !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("Subscribe() error = %v, want ErrInvalidQoS", err)
	}
}

func TestSubscribeNilHandler(t *testing.T) {
	client := &Client{}

	err := client.Subscribe(Topics{}.LED(), 1, nil)
	if !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("Subscribe() error = %v, want ErrSubscribeFailed", err)
	}
}

func TestSubscribeDisconnected(t *testing.T) {
	client := &Client{}

	err := client.Subscribe(Topics{}.LED(), 1, func(string, []byte) error { return nil })
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("Subscribe() error = %v, want ErrNotConnected", err)
	}
}

// =============================================================================
// Unsubscribe Validation Tests
// =============================================================================

func TestUnsubscribeEmptyTopic(t *testing.T) {
	client := &Client{}

	err := client.Unsubscribe("")
	if !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Unsubscribe() error = %v, want ErrInvalidTopic", err)
	}
}

func TestUnsubscribeDisconnected(t *testing.T) {
	client := &Client{}

	err := client.Unsubscribe(Topics{}.LED())
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("Unsubscribe() error = %v, want ErrNotConnected", err)
	}
}

// =============================================================================
// Subscription Tracking Tests
// =============================================================================

func TestSubscriptionCount_Empty(t *testing.T) {
	client := &Client{}

	if count := client.SubscriptionCount(); count != 0 {
		t.Errorf("SubscriptionCount() = %d, want 0", count)
	}
}

func TestHasSubscription_NotSubscribed(t *testing.T) {
	client := &Client{}

	if client.HasSubscription(Topics{}.LED()) {
		t.Error("HasSubscription() = true on fresh client, want false")
	}
}

// =============================================================================
// Callback Tests
// =============================================================================

func TestOnDisconnectCallback(t *testing.T) {
	client := &Client{}

	var gotErr error
	client.SetOnDisconnect(func(err error) {
		gotErr = err
	})

	wantErr := errors.New("link dropped")
	client.handleDisconnect(wantErr)

	if !errors.Is(gotErr, wantErr) {
		t.Errorf("disconnect callback error = %v, want %v", gotErr, wantErr)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after disconnect, want false")
	}
}

func TestSetLogger(t *testing.T) {
	client := &Client{}

	logger := &captureLogger{}
	client.SetLogger(logger)

	if client.getLogger() == nil {
		t.Error("getLogger() = nil after SetLogger()")
	}

	client.SetLogger(nil)

	if client.getLogger() != nil {
		t.Error("getLogger() should be nil after SetLogger(nil)")
	}
}

// =============================================================================
// Handler Wrapping Tests
// =============================================================================

func TestWrapHandlerPanicRecovered(t *testing.T) {
	client := &Client{}
	logger := &captureLogger{}
	client.SetLogger(logger)

	wrapped := client.wrapHandler(func(string, []byte) error {
		panic("handler exploded")
	})

	// Must not propagate the panic.
	wrapped(nil, testMessage{topic: Topics{}.Command(), payload: []byte("reboot")})

	logger.mu.Lock()
	defer logger.mu.Unlock()
	if len(logger.errors) != 1 {
		t.Errorf("logged errors = %d, want 1", len(logger.errors))
	}
}

func TestWrapHandlerErrorLogged(t *testing.T) {
	client := &Client{}
	logger := &captureLogger{}
	client.SetLogger(logger)

	wrapped := client.wrapHandler(func(string, []byte) error {
		return errors.New("bad payload")
	})

	wrapped(nil, testMessage{topic: Topics{}.LED(), payload: []byte("ON")})

	logger.mu.Lock()
	defer logger.mu.Unlock()
	if len(logger.warns) != 1 {
		t.Errorf("logged warnings = %d, want 1", len(logger.warns))
	}
}

func TestWrapHandlerNoLogger(t *testing.T) {
	client := &Client{}

	wrapped := client.wrapHandler(func(string, []byte) error {
		panic("handler exploded")
	})

	// Without a logger the panic is still swallowed.
	wrapped(nil, testMessage{topic: Topics{}.Command(), payload: []byte("reboot")})
}

// =============================================================================
// Option Builder Tests
// =============================================================================

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 {
		t.Fatalf("Servers count = %d, want 1", len(opts.Servers))
	}
	if got := opts.Servers[0].String(); got != "tcp://127.0.0.1:1883" {
		t.Errorf("broker URL = %q, want %q", got, "tcp://127.0.0.1:1883")
	}
	if opts.ClientID != "devkit-01" {
		t.Errorf("ClientID = %q, want %q", opts.ClientID, "devkit-01")
	}
	if !opts.CleanSession {
		t.Error("CleanSession = false, want true")
	}
	if !opts.AutoReconnect {
		t.Error("AutoReconnect = false, want true")
	}
	if !opts.ConnectRetry {
		t.Error("ConnectRetry = false, want true")
	}
	if opts.ConnectRetryInterval != time.Second {
		t.Errorf("ConnectRetryInterval = %v, want %v", opts.ConnectRetryInterval, time.Second)
	}
	if opts.MaxReconnectInterval != 5*time.Second {
		t.Errorf("MaxReconnectInterval = %v, want %v", opts.MaxReconnectInterval, 5*time.Second)
	}
	if opts.KeepAlive != 30 {
		t.Errorf("KeepAlive = %d seconds, want 30", opts.KeepAlive)
	}
}

func TestBuildClientOptionsTLS(t *testing.T) {
	cfg := testConfig()
	cfg.TLS = true
	cfg.Host = "broker.lan"
	cfg.Port = 8883

	opts := buildClientOptions(cfg)

	if got := opts.Servers[0].String(); got != "ssl://broker.lan:8883" {
		t.Errorf("broker URL = %q, want %q", got, "ssl://broker.lan:8883")
	}
	if opts.TLSConfig == nil {
		t.Fatal("TLSConfig = nil with TLS enabled")
	}
	if opts.TLSConfig.MinVersion != tls.VersionTLS12 {
		t.Errorf("TLS MinVersion = %d, want %d", opts.TLSConfig.MinVersion, tls.VersionTLS12)
	}
}

func TestBuildClientOptionsCredentials(t *testing.T) {
	t.Run("with credentials", func(t *testing.T) {
		cfg := testConfig()
		cfg.Username = "bench"
		cfg.Password = "hunter2"

		opts := buildClientOptions(cfg)

		if opts.Username != "bench" {
			t.Errorf("Username = %q, want %q", opts.Username, "bench")
		}
		if opts.Password != "hunter2" {
			t.Errorf("Password = %q, want %q", opts.Password, "hunter2")
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		cfg := testConfig()

		opts := buildClientOptions(cfg)

		if opts.Username != "" {
			t.Errorf("Username = %q, want empty", opts.Username)
		}
		if opts.Password != "" {
			t.Errorf("Password = %q, want empty", opts.Password)
		}
	})
}

func TestBuildClientOptionsDefaults(t *testing.T) {
	cfg := Config{
		Host:     "127.0.0.1",
		Port:     1883,
		ClientID: "devkit-01",
	}

	opts := buildClientOptions(cfg)

	if opts.KeepAlive != int64(defaultKeepAlive/time.Second) {
		t.Errorf("KeepAlive = %d seconds, want %d", opts.KeepAlive, int64(defaultKeepAlive/time.Second))
	}
	if opts.ConnectRetryInterval != defaultReconnectInitial {
		t.Errorf("ConnectRetryInterval = %v, want %v", opts.ConnectRetryInterval, defaultReconnectInitial)
	}
	if opts.MaxReconnectInterval != defaultReconnectMax {
		t.Errorf("MaxReconnectInterval = %v, want %v", opts.MaxReconnectInterval, defaultReconnectMax)
	}
}

func TestConfigureLWT(t *testing.T) {
	opts := pahomqtt.NewClientOptions()

	configureLWT(opts, "devkit-01")

	if !opts.WillEnabled {
		t.Fatal("WillEnabled = false, want true")
	}
	if opts.WillTopic != "mxchip/status" {
		t.Errorf("WillTopic = %q, want %q", opts.WillTopic, "mxchip/status")
	}
	if opts.WillQos != 1 {
		t.Errorf("WillQos = %d, want 1", opts.WillQos)
	}
	if !opts.WillRetained {
		t.Error("WillRetained = false, want true")
	}

	var payload map[string]string
	if err := json.Unmarshal(opts.WillPayload, &payload); err != nil {
		t.Fatalf("WillPayload is not valid JSON: %v", err)
	}
	if payload["status"] != "offline" {
		t.Errorf("status = %q, want %q", payload["status"], "offline")
	}
	if payload["client_id"] != "devkit-01" {
		t.Errorf("client_id = %q, want %q", payload["client_id"], "devkit-01")
	}
	if payload["reason"] != "unexpected_disconnect" {
		t.Errorf("reason = %q, want %q", payload["reason"], "unexpected_disconnect")
	}
	if _, err := time.Parse(time.RFC3339, payload["timestamp"]); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", payload["timestamp"], err)
	}
}

func TestStatusPayloads(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		wantStatus string
		wantReason string
	}{
		{
			name:       "online",
			payload:    buildOnlinePayload("devkit-01"),
			wantStatus: "online",
			wantReason: "",
		},
		{
			name:       "graceful offline",
			payload:    buildOfflinePayload("devkit-01"),
			wantStatus: "offline",
			wantReason: "graceful_shutdown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]string
			if err := json.Unmarshal([]byte(tt.payload), &got); err != nil {
				t.Fatalf("payload is not valid JSON: %v", err)
			}
			if got["status"] != tt.wantStatus {
				t.Errorf("status = %q, want %q", got["status"], tt.wantStatus)
			}
			if got["client_id"] != "devkit-01" {
				t.Errorf("client_id = %q, want %q", got["client_id"], "devkit-01")
			}
			if got["reason"] != tt.wantReason {
				t.Errorf("reason = %q, want %q", got["reason"], tt.wantReason)
			}
			if _, err := time.Parse(time.RFC3339, got["timestamp"]); err != nil {
				t.Errorf("timestamp %q is not RFC3339: %v", got["timestamp"], err)
			}
		})
	}
}

// =============================================================================
// Topics Tests
// =============================================================================

func TestTopicBuilders(t *testing.T) {
	tests := []struct {
		name     string
		builder  func() string
		expected string
	}{
		{
			name: "Telemetry",
			builder: func() string {
				return Topics{}.Telemetry()
			},
			expected: "mxchip/telemetry",
		},
		{
			name: "Command",
			builder: func() string {
				return Topics{}.Command()
			},
			expected: "mxchip/command",
		},
		{
			name: "LED",
			builder: func() string {
				return Topics{}.LED()
			},
			expected: "mxchip/led",
		},
		{
			name: "Status",
			builder: func() string {
				return Topics{}.Status()
			},
			expected: "mxchip/status",
		},
		{
			name: "All",
			builder: func() string {
				return Topics{}.All()
			},
			expected: "mxchip/#",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.builder(); got != tt.expected {
				t.Errorf("%s() = %q, want %q", tt.name, got, tt.expected)
			}
		})
	}
}
