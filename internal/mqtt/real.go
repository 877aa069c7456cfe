package mqtt

import (
	"fmt"
	"sync/atomic"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"github.com/sweeney/ledpad/internal/logic"
)

// BufferCapacity is the number of messages kept while the broker is unreachable.
const BufferCapacity = 256

const publishTimeout = 5 * time.Second

// RealPublisher publishes to an actual MQTT broker. Messages published while
// disconnected are buffered and replayed on reconnect.
type RealPublisher struct {
	client    paho.Client
	topic     string
	out       *outbox
	log       logrus.FieldLogger
	connected atomic.Bool
	connects  atomic.Int32
}

// NewRealPublisher creates a publisher for the given broker. It does not
// wait for the first connection; events are buffered until it succeeds.
func NewRealPublisher(broker, clientID string, log logrus.FieldLogger) (*RealPublisher, error) {
	p := &RealPublisher{
		topic: Topic,
		log:   log.WithField("component", "mqtt"),
	}

	will, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "OFFLINE",
		Reason:    "MQTT_DISCONNECT",
	})
	if err != nil {
		return nil, fmt.Errorf("format will payload: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(TopicSystem, string(will), 1, true).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(p.onConnectionLost)

	p.client = paho.NewClient(opts)
	p.out = newOutbox(BufferCapacity, p.log, p.IsConnected, p.send)

	token := p.client.Connect()
	if token.WaitTimeout(2*time.Second) && token.Error() != nil {
		return nil, fmt.Errorf("connect to broker: %w", token.Error())
	}

	return p, nil
}

func (p *RealPublisher) onConnect(c paho.Client) {
	p.connected.Store(true)
	n := p.connects.Add(1)
	p.log.WithField("connects", n).Info("mqtt connected")

	// Replay off the callback goroutine so publish tokens can complete.
	go func() {
		sent, err := p.out.flush()
		if err != nil {
			p.log.WithError(err).WithField("sent", sent).Warn("mqtt replay interrupted")
			return
		}
		if sent > 0 {
			p.log.WithField("sent", sent).Info("mqtt replayed buffered messages")
		}
		if n > 1 {
			if err := p.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: "RECONNECTED"}); err != nil {
				p.log.WithError(err).Warn("publish reconnected event")
			}
		}
	}()
}

func (p *RealPublisher) onConnectionLost(c paho.Client, err error) {
	p.connected.Store(false)
	p.log.WithError(err).Warn("mqtt connection lost, buffering")
}

func (p *RealPublisher) send(msg bufferedMsg) error {
	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s: timeout", msg.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", msg.topic, err)
	}
	return nil
}

// Publish sends a controller event to the MQTT broker.
func (p *RealPublisher) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained
	return p.out.publish(bufferedMsg{topic: p.topic, payload: payload})
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events
	return p.out.publish(bufferedMsg{
		topic:    TopicSystem,
		payload:  payload,
		qos:      1,
		retained: event.Retained,
	})
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.connected.Load()
}

// Pending returns the number of buffered messages.
func (p *RealPublisher) Pending() int {
	return p.out.pending()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	if n := p.out.pending(); n > 0 {
		p.log.WithField("pending", n).Warn("mqtt closing with undelivered messages")
	}
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
