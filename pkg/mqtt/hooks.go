package mqtt

import (
	"bytes"
	"strings"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/packets"
)

// messageHook counts publishes and forwards them to in-process subscribers.
type messageHook struct {
	mqtt.HookBase
	broker *Broker
}

func newMessageHook(b *Broker) *messageHook {
	return &messageHook{broker: b}
}

func (h *messageHook) ID() string {
	return "sensormock-messages"
}

func (h *messageHook) Provides(b byte) bool {
	return bytes.Contains([]byte{mqtt.OnPublish}, []byte{b})
}

func (h *messageHook) OnPublish(cl *mqtt.Client, pk packets.Packet) (packets.Packet, error) {
	h.broker.published.Add(1)

	payload := make([]byte, len(pk.Payload))
	copy(payload, pk.Payload)
	h.broker.notifySubscribers(pk.TopicName, payload)

	return pk, nil
}

// matchTopic reports whether topic matches an MQTT filter with + and # wildcards.
func matchTopic(pattern, topic string) bool {
	patternParts := strings.Split(pattern, "/")
	topicParts := strings.Split(topic, "/")

	for i, part := range patternParts {
		if part == "#" {
			return true
		}
		if i >= len(topicParts) {
			return false
		}
		if part == "+" {
			continue
		}
		if part != topicParts[i] {
			return false
		}
	}

	return len(patternParts) == len(topicParts)
}
