package mqtt

import (
	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// IPublisher is the publish surface the services depend on.
type IPublisher interface {
	Publish(payload []byte) error
	PublishTo(topic string, payload []byte) error
	Close()
}

// Publisher publishes payloads on a shared client, with an optional
// default topic.
type Publisher struct {
	client paho.Client
	topic  string
}

func NewPublisher(client paho.Client, topic string) *Publisher {
	return &Publisher{client: client, topic: topic}
}

// Publish sends payload to the default topic.
func (p *Publisher) Publish(payload []byte) error {
	return p.PublishTo(p.topic, payload)
}

// PublishTo sends payload to an explicit topic with the topic-class QoS.
func (p *Publisher) PublishTo(topic string, payload []byte) error {
	if topic == "" {
		return fmt.Errorf("mqtt: publish without topic")
	}
	token := p.client.Publish(topic, qosFor(topic), false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("mqtt: publish to %s failed: %w", topic, token.Error())
	}
	return nil
}

// Close disconnects the underlying client.
func (p *Publisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
