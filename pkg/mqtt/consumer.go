package mqtt

import (
	"context"
	"log"
	"strings"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Handler processes one inbound message. The first argument is the
// subscription filter the message arrived on; the concrete topic is on
// the message itself.
type Handler func(subscription string, message paho.Message) error

// IConsumer is the subscription surface the services depend on.
type IConsumer interface {
	ConsumeMessage(ctx context.Context)
	SetHandler(handler Handler)
}

// qosFor selects QoS per topic class: telemetry data must survive
// reconnects (QoS 1, deduplicated downstream), status beacons may be
// dropped.
func qosFor(topic string) byte {
	if strings.HasPrefix(strings.TrimSpace(topic), "agriconnect/data/") {
		return 1
	}
	return 0
}

// Consumer subscribes to a set of topic filters on a shared client and
// dispatches every message to a single handler.
type Consumer struct {
	client  paho.Client
	topics  []string
	handler Handler
}

func NewConsumer(client paho.Client, topics []string, handler Handler) *Consumer {
	return &Consumer{client: client, topics: topics, handler: handler}
}

func (c *Consumer) SetHandler(handler Handler) {
	c.handler = handler
}

// ConsumeMessage subscribes to all configured filters and blocks until
// the context is cancelled, then unsubscribes.
func (c *Consumer) ConsumeMessage(ctx context.Context) {
	for _, topic := range c.topics {
		topic := topic
		token := c.client.Subscribe(topic, qosFor(topic), func(_ paho.Client, msg paho.Message) {
			if c.handler == nil {
				log.Printf("mqtt: no handler set for %s", topic)
				return
			}
			if err := c.handler(topic, msg); err != nil {
				log.Printf("mqtt: handler error on %s: %v", msg.Topic(), err)
			}
		})
		if token.Wait() && token.Error() != nil {
			log.Printf("mqtt: subscribe %s failed: %v", topic, token.Error())
			continue
		}
		log.Printf("mqtt: subscribed to %s", topic)
	}

	<-ctx.Done()

	for _, topic := range c.topics {
		c.client.Unsubscribe(topic).Wait()
	}
}
