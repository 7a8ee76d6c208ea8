package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/gray-logic-audio/internal/infrastructure/config"
)

// testConfig returns a valid MQTT configuration for testing.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "graylogic-audio-test",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

// fakeToken is a completed paho token.
type fakeToken struct {
	err     error
	timeout bool
}

func (t fakeToken) Wait() bool                     { return !t.timeout }
func (t fakeToken) WaitTimeout(time.Duration) bool { return !t.timeout }
func (t fakeToken) Error() error                   { return t.err }

func (t fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type sentMessage struct {
	topic    string
	qos      byte
	retained bool
	payload  any
}

// fakePaho records publishes. Unused interface methods panic via the nil embed.
type fakePaho struct {
	pahomqtt.Client

	mu           sync.Mutex
	connected    bool
	sent         []sentMessage
	token        fakeToken
	disconnected bool
}

func (f *fakePaho) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakePaho) Publish(topic string, qos byte, retained bool, payload any) pahomqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{topic, qos, retained, payload})
	return f.token
}

func (f *fakePaho) Disconnect(uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
	f.disconnected = true
}

func newTestClient(connected bool) (*Client, *fakePaho) {
	paho := &fakePaho{connected: connected}
	c := &Client{client: paho, cfg: testConfig(), connected: connected}
	return c, paho
}

func TestPublish(t *testing.T) {
	c, paho := newTestClient(true)

	if err := c.Publish("graylogic/audio/device/a/event", []byte(`{}`), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(paho.sent) != 1 || paho.sent[0].qos != 1 || paho.sent[0].retained {
		t.Errorf("sent = %+v", paho.sent)
	}

	if err := c.Publish("graylogic/audio/device/a/instances", []byte(`{}`), c.QoS(), true); err != nil {
		t.Fatalf("Publish(retained) error = %v", err)
	}
	if !paho.sent[1].retained || paho.sent[1].qos != 1 {
		t.Errorf("retained message = %+v, want qos 1 retained", paho.sent[1])
	}
}

func TestPublish_Validation(t *testing.T) {
	tests := []struct {
		name      string
		connected bool
		topic     string
		payload   []byte
		qos       byte
		want      error
	}{
		{"empty topic", true, "", nil, 0, ErrInvalidTopic},
		{"bad qos", true, "t", nil, 3, ErrInvalidQoS},
		{"too large", true, "t", make([]byte, maxPayloadSize+1), 0, ErrPublishFailed},
		{"disconnected", false, "t", nil, 0, ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, paho := newTestClient(tt.connected)

			err := c.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.want) {
				t.Errorf("Publish() error = %v, want %v", err, tt.want)
			}
			if len(paho.sent) != 0 {
				t.Error("nothing should reach the broker")
			}
		})
	}
}

func TestPublish_BrokerFailures(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		c, paho := newTestClient(true)
		paho.token = fakeToken{timeout: true}

		if err := c.Publish("t", nil, 1, false); !errors.Is(err, ErrPublishFailed) {
			t.Errorf("Publish() error = %v, want ErrPublishFailed", err)
		}
	})

	t.Run("token error", func(t *testing.T) {
		c, paho := newTestClient(true)
		paho.token = fakeToken{err: errors.New("not authorised")}

		err := c.Publish("t", nil, 1, false)
		if !errors.Is(err, ErrPublishFailed) || !strings.Contains(err.Error(), "not authorised") {
			t.Errorf("Publish() error = %v", err)
		}
	})
}

func TestClose_PublishesOffline(t *testing.T) {
	c, paho := newTestClient(true)

	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !paho.disconnected {
		t.Error("expected Disconnect to be called")
	}
	if c.IsConnected() {
		t.Error("IsConnected() = true after Close()")
	}

	statusTopic := Topics{}.Status()
	if len(paho.sent) != 1 || paho.sent[0].topic != statusTopic || !paho.sent[0].retained {
		t.Fatalf("sent = %+v, want one retained status message", paho.sent)
	}

	var status statusPayload
	if err := json.Unmarshal([]byte(paho.sent[0].payload.(string)), &status); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if status.Status != "offline" || status.Reason != "graceful_shutdown" {
		t.Errorf("status = %+v", status)
	}
}

func TestCloseNil(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on unconnected client error = %v", err)
	}
}

func TestConnectionCallbacks(t *testing.T) {
	c, paho := newTestClient(false)
	paho.connected = true

	c.handleConnect()
	if !c.IsConnected() {
		t.Error("IsConnected() = false after handleConnect")
	}
	if len(paho.sent) != 1 || !strings.Contains(paho.sent[0].payload.(string), `"status":"online"`) {
		t.Errorf("sent = %+v, want online status", paho.sent)
	}

	c.handleDisconnect(errors.New("eof"))
	if c.IsConnected() {
		t.Error("IsConnected() = true after handleDisconnect")
	}
}

func TestHealthCheck(t *testing.T) {
	c, _ := newTestClient(true)
	if err := c.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck() cancelled error = %v", err)
	}

	c.setConnected(false)
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() disconnected error = %v", err)
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.TLS = true
	cfg.Auth = config.MQTTAuthConfig{Username: "audio", Password: "pw"}

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 || opts.Servers[0].String() != "ssl://127.0.0.1:1883" {
		t.Errorf("Servers = %v", opts.Servers)
	}
	if opts.ClientID != "graylogic-audio-test" || opts.Username != "audio" || opts.Password != "pw" {
		t.Errorf("identity = %q/%q/%q", opts.ClientID, opts.Username, opts.Password)
	}
	if opts.TLSConfig == nil {
		t.Error("TLSConfig should be set when TLS is enabled")
	}
	if !opts.WillEnabled || opts.WillTopic != "graylogic/audio/status" || !opts.WillRetained {
		t.Errorf("will = %v %q retained=%v", opts.WillEnabled, opts.WillTopic, opts.WillRetained)
	}
	if !strings.Contains(string(opts.WillPayload), "unexpected_disconnect") {
		t.Errorf("will payload = %s", opts.WillPayload)
	}
}

func TestTopicBuilders(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		got  string
		want string
	}{
		{topics.Status(), "graylogic/audio/status"},
		{topics.DeviceEvent("mic-kitchen"), "graylogic/audio/device/mic-kitchen/event"},
		{topics.DeviceInstances("mic-kitchen"), "graylogic/audio/device/mic-kitchen/instances"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("topic = %q, want %q", tt.got, tt.want)
		}
	}
}
