package statebus

import (
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// Handler receives a delivered value together with the topic it came from.
// For event-only topics the value is the topic name itself.
type Handler func(value any, topic string)

// SubscriptionConfig is the canonical subscription record. Handler is
// required. Default substitutes the subscriber's own fallback for absent
// values; the pointer fields override the topic config only when set.
type SubscriptionConfig struct {
	Handler      Handler
	Default      any
	DoPrime      *bool
	AllowRepeats *bool
	EventOnly    *bool
}

// subscription is a registered subscriber plus its delivery state. The
// delivery state is written only by the scheduler worker, strictly after the
// handler for an enqueued item returns, and read at enqueue time for repeat
// suppression.
type subscription struct {
	id      string
	matcher Matcher
	handler Handler

	def          any
	doPrime      *bool
	allowRepeats *bool
	eventOnly    *bool

	mu        sync.Mutex
	delivered bool
	lastValue any
	lastTopic string
}

func newSubscription(matcher Matcher, cfg SubscriptionConfig) *subscription {
	return &subscription{
		id:           uuid.NewString(),
		matcher:      matcher,
		handler:      cfg.Handler,
		def:          cfg.Default,
		doPrime:      cfg.DoPrime,
		allowRepeats: cfg.AllowRepeats,
		eventOnly:    cfg.EventOnly,
	}
}

// suppressed reports whether a delivery of value on topic should be skipped.
// The first delivery to a subscription is never suppressed.
func (s *subscription) suppressed(value any, topic string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.delivered {
		return false
	}
	return topic == s.lastTopic && reflect.DeepEqual(value, s.lastValue)
}

// recordDelivery updates the delivery state after a handler invocation
// completed. Called only from the scheduler worker.
func (s *subscription) recordDelivery(value any, topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.delivered = true
	s.lastValue = value
	s.lastTopic = topic
}
