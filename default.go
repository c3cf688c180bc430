package statebus

import (
	"context"
	"sync"
)

var (
	defaultBroker     *Broker
	defaultBrokerOnce sync.Once
)

// Default returns the process-wide broker. Use New for an isolated instance;
// the default exists for applications that treat the bus as ambient state.
func Default() *Broker {
	defaultBrokerOnce.Do(func() {
		defaultBroker = New()
	})
	return defaultBroker
}

// AddTopic registers a topic config with the default broker.
func AddTopic(cfg TopicConfig) error {
	return Default().AddTopic(cfg)
}

// AddTopics registers topic configs with the default broker.
func AddTopics(configs ...TopicConfig) error {
	return Default().AddTopics(configs...)
}

// Publish publishes a payload on the default broker.
func Publish(topic string, payload any) error {
	return Default().Publish(topic, payload)
}

// Subscribe registers a subscription with the default broker.
func Subscribe(matcher Matcher, cfg SubscriptionConfig) (func(), error) {
	return Default().Subscribe(matcher, cfg)
}

// SubscribeFunc subscribes a bare handler to an exact topic on the default broker.
func SubscribeFunc(topic string, handler Handler) (func(), error) {
	return Default().SubscribeFunc(topic, handler)
}

// CurrentVal reads a topic's current value from the default broker.
func CurrentVal(topic string, fallback any) any {
	return Default().CurrentVal(topic, fallback)
}

// Clear clears a topic on the default broker.
func Clear(topic string) error {
	return Default().Clear(topic)
}

// ClearAll clears every stored topic on the default broker.
func ClearAll() error {
	return Default().ClearAll()
}

// Configure adjusts the default broker's settings.
func Configure(settings Settings) error {
	return Default().Configure(settings)
}

// Drain waits for the default broker's queued deliveries to finish.
func Drain(ctx context.Context) error {
	return Default().Drain(ctx)
}
