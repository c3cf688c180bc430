// Package bridge republishes statebus deliveries onto a watermill Publisher,
// so in-process consumers that already speak watermill can observe broker
// topics without subscribing to the broker directly. Payloads are serialized
// to JSON; the originating topic doubles as the watermill topic and is also
// carried in message metadata.
package bridge

import (
	"log/slog"
	"regexp"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/nfrund/statebus"
)

// MetadataTopic is the metadata key carrying the originating broker topic.
const MetadataTopic = "statebus_topic"

var allTopics = regexp.MustCompile(``)

// Forwarder pipes every broker delivery into a watermill Publisher. It
// registers itself as a pattern subscriber over all topics, with repeats
// allowed so watermill consumers see every publish, not just value changes.
type Forwarder struct {
	pub         message.Publisher
	logger      *slog.Logger
	unsubscribe func()
}

// Option configures a Forwarder.
type Option func(*Forwarder)

// WithLogger routes forwarding errors through the given logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Forwarder) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New attaches a forwarder to the broker. The publisher's lifecycle stays
// with the caller; Close only detaches the forwarder from the broker.
func New(b *statebus.Broker, pub message.Publisher, opts ...Option) (*Forwarder, error) {
	f := &Forwarder{
		pub:    pub,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}

	unsubscribe, err := b.Subscribe(statebus.MatchPattern(allTopics), statebus.SubscriptionConfig{
		Handler:      f.forward,
		DoPrime:      statebus.Bool(false),
		AllowRepeats: statebus.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	f.unsubscribe = unsubscribe
	return f, nil
}

// forward runs on the broker's delivery worker.
func (f *Forwarder) forward(value any, topic string) {
	payload, err := json.Marshal(value)
	if err != nil {
		f.logger.Error("cannot serialize delivery for forwarding", "topic", topic, "error", err)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetadataTopic, topic)

	if err := f.pub.Publish(topic, msg); err != nil {
		f.logger.Error("failed to forward delivery", "topic", topic, "msg_id", msg.UUID, "error", err)
	}
}

// Close detaches the forwarder. Deliveries already queued on the broker may
// still be forwarded afterwards.
func (f *Forwarder) Close() error {
	f.unsubscribe()
	return nil
}

// NewGoChannel builds the in-memory watermill pub/sub the forwarder is most
// commonly paired with. The output buffer keeps a slow watermill consumer
// from stalling the broker's delivery worker.
func NewGoChannel() *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
}
