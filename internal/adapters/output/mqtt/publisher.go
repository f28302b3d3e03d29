// Package mqtt publishes cleaning run events to a broker.
package mqtt

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"roborock-cleaning-panel/internal/domain/model"
)

const DefaultTopicPrefix = "roborock"

type publishFunc func(topic string, payload []byte) error

// Publisher sends one message per run phase to <prefix>/<robot>/run.
type Publisher struct {
	client  paho.Client
	publish publishFunc
	prefix  string
	robot   func() string
	log     *slog.Logger
}

type Event struct {
	Phase   string         `json:"phase"`
	Command string         `json:"command,omitempty"`
	Error   string         `json:"error,omitempty"`
	Run     model.RunEvent `json:"run"`
}

// Connect dials the broker. robot supplies the current robot name for topics.
func Connect(brokerURL, clientID, prefix string, robot func() string, log *slog.Logger) (*Publisher, error) {
	if log == nil {
		log = slog.Default()
	}
	opts := paho.NewClientOptions()
	url := strings.TrimSpace(brokerURL)
	if strings.HasPrefix(url, "mqtt://") {
		url = "tcp://" + strings.TrimPrefix(url, "mqtt://")
	}
	opts.AddBroker(url)
	if strings.TrimSpace(clientID) == "" {
		clientID = "roborock-panel-" + time.Now().Format("150405.000")
	}
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetKeepAlive(30 * time.Second)
	if strings.HasPrefix(url, "ssl://") || strings.HasPrefix(url, "tls://") {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Warn("mqtt connection lost", "error", err)
	}
	opts.OnConnect = func(_ paho.Client) {
		log.Info("mqtt connected", "broker", url)
	}

	c := paho.NewClient(opts)
	tok := c.Connect()
	if ok := tok.WaitTimeout(15 * time.Second); !ok {
		return nil, fmt.Errorf("mqtt connect to %s: timeout", url)
	}
	if err := tok.Error(); err != nil {
		return nil, err
	}

	p := newPublisher(nil, prefix, robot, log)
	p.client = c
	p.publish = func(topic string, payload []byte) error {
		t := c.Publish(topic, 1, false, payload)
		if !t.WaitTimeout(5 * time.Second) {
			return fmt.Errorf("publish %s: timeout", topic)
		}
		return t.Error()
	}
	return p, nil
}

func newPublisher(publish publishFunc, prefix string, robot func() string, log *slog.Logger) *Publisher {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	if log == nil {
		log = slog.Default()
	}
	return &Publisher{publish: publish, prefix: strings.TrimSuffix(prefix, "/"), robot: robot, log: log}
}

func (p *Publisher) Topic() string {
	name := p.robot()
	if name == "" {
		name = "unconfigured"
	}
	return fmt.Sprintf("%s/%s/run", p.prefix, name)
}

func (p *Publisher) RunStarted(run model.RunEvent) {
	p.send(Event{Phase: "started", Run: run})
}

func (p *Publisher) CommandDispatched(run model.RunEvent, command string, err error) {
	p.send(Event{Phase: "command", Command: command, Error: errString(err), Run: run})
}

func (p *Publisher) RunFinished(run model.RunEvent, err error) {
	phase := "finished"
	if err != nil {
		phase = "failed"
	}
	p.send(Event{Phase: phase, Error: errString(err), Run: run})
}

func (p *Publisher) Close() {
	if p == nil || p.client == nil {
		return
	}
	p.client.Disconnect(1000)
}

// send never fails the run; a broker outage only costs the event.
func (p *Publisher) send(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("mqtt marshal failed", "error", err)
		return
	}
	topic := p.Topic()
	if err := p.publish(topic, payload); err != nil {
		p.log.Warn("mqtt publish failed", "topic", topic, "phase", ev.Phase, "error", err)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
