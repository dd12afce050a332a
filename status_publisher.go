package main

import (
	"encoding/json"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/vantage-iot/bearer-core/bearer"
)

// StatusPublisher forwards every bearer connection status change onto an
// MQTT topic as a retained JSON message, so anything watching the broker
// sees the bearer's last known state immediately on subscribe.
type StatusPublisher struct {
	client mqtt.Client
	topic  string
	logger *slog.Logger
}

type statusMessage struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// NewStatusPublisher connects to broker and returns a publisher bound to
// topic. The connection is made synchronously so a broker that is down at
// startup fails the daemon's boot rather than silently running unobserved.
func NewStatusPublisher(broker, clientID, topic string, logger *slog.Logger) (*StatusPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", "error", err)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, err
	}
	logger.Info("connected to mqtt broker", "broker", broker, "topic", topic)

	return &StatusPublisher{client: client, topic: topic, logger: logger}, nil
}

// Publish is a bearer.StatusObserver: it is safe to pass directly to
// Bearer.AddStatusObserver.
func (p *StatusPublisher) Publish(status bearer.ConnectionStatus) {
	payload, err := json.Marshal(statusMessage{Status: status.String(), Timestamp: timeNowUnix()})
	if err != nil {
		p.logger.Error("failed to marshal status message", "error", err)
		return
	}
	token := p.client.Publish(p.topic, 0, true, payload)
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			p.logger.Error("failed to publish status", "error", err)
		}
	}()
}

func (p *StatusPublisher) Close() {
	p.client.Disconnect(500)
}

// timeNowUnix is its own function so the single non-deterministic call in
// this file is easy to find.
func timeNowUnix() int64 { return time.Now().Unix() }
