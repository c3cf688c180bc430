package statebus

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Broker owns the topic registry, the value store, the subscription index and
// the delivery scheduler. All methods are safe for concurrent use; the state
// mutations inside a single call are atomic with respect to every other call.
type Broker struct {
	mu     sync.RWMutex
	topics map[string]TopicConfig
	store  *valueStore
	subs   *subscriptionIndex
	sched  *scheduler

	logger   *slog.Logger
	warnings atomic.Bool

	// collected by WithTopics, registered once in New
	pendingTopics []TopicConfig
}

// New creates an independent broker. Multiple brokers never share state.
func New(opts ...Option) *Broker {
	b := &Broker{
		topics: make(map[string]TopicConfig),
		store:  newValueStore(),
		subs:   newSubscriptionIndex(),
		logger: slog.Default(),
	}
	b.warnings.Store(true)

	for _, opt := range opts {
		opt(b)
	}
	b.sched = newScheduler(b.logger)

	for _, cfg := range b.pendingTopics {
		if err := b.AddTopic(cfg); err != nil {
			b.logger.Error("skipping invalid topic config", "topic", cfg.Name, "error", err)
		}
	}
	b.pendingTopics = nil

	return b
}

// Close stops the delivery worker. Deliveries still queued are discarded and
// later publishes enqueue nothing.
func (b *Broker) Close() error {
	b.sched.close()
	return nil
}

// Drain blocks until all queued deliveries have run, or ctx is done. It is
// the way tests and shutdown paths wait for the asynchronous fan-out to
// settle. Do not call it from inside a handler.
func (b *Broker) Drain(ctx context.Context) error {
	return b.sched.drain(ctx)
}

// AddTopic registers (or re-registers) a topic config. A missing name is a
// ConfigError. Re-registering an existing name warns and overwrites. A
// default value that fails the topic's own validator warns but is kept;
// defaults are exempt from hard validation failure.
func (b *Broker) AddTopic(cfg TopicConfig) error {
	if cfg.Name == "" {
		return &ConfigError{Type: ErrorMissingName, Message: "topic config requires a name"}
	}
	cfg = normalizeTopic(cfg)

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.topics[cfg.Name]; exists {
		b.warn("overwriting existing topic config", "topic", cfg.Name)
	}
	if cfg.Default != nil {
		if res := cfg.Validator(cfg.Default); !res.Valid {
			b.warn("topic default fails its own validator", "topic", cfg.Name, "messages", res.Messages)
		}
	}
	b.topics[cfg.Name] = cfg
	return nil
}

// AddTopics registers configs in order; the first failure aborts the rest.
func (b *Broker) AddTopics(configs ...TopicConfig) error {
	for _, cfg := range configs {
		if err := b.AddTopic(cfg); err != nil {
			return err
		}
	}
	return nil
}

// Publish validates the payload, stores it as the topic's current value and
// schedules one delivery per matching subscription. A rejected payload
// returns a ValidationError before any state changes. The value is always
// stored, even when unchanged; repeat suppression happens per subscriber at
// delivery time.
func (b *Broker) Publish(topic string, payload any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.publishLocked(topic, payload)
}

func (b *Broker) publishLocked(topic string, payload any) error {
	cfg, registered := b.topics[topic]
	if !registered {
		cfg = virtualTopic(topic)
	}

	if !cfg.EventOnly {
		if res := cfg.Validator(payload); !res.Valid {
			return &ValidationError{Topic: topic, Messages: res.Messages, Payload: payload}
		}
	}

	b.store.set(topic, payload)
	if !registered {
		b.warn("publishing to unconfigured topic", "topic", topic)
	}

	matched := b.subs.matching(topic)
	if len(matched) == 0 {
		b.warn("no subscribers for published topic", "topic", topic)
		return nil
	}
	for _, sub := range matched {
		b.deliverLocked(sub, payload, topic, cfg)
	}
	return nil
}

// Subscribe registers a subscription and returns its unsubscribe function.
// Unsubscribing removes the subscription from future matching immediately,
// but deliveries already queued for it still fire. Calling the returned
// function more than once is safe.
func (b *Broker) Subscribe(matcher Matcher, cfg SubscriptionConfig) (func(), error) {
	if !matcher.valid() {
		return nil, &ConfigError{Type: ErrorInvalidMatcher, Message: "matcher must be Exactly or MatchPattern"}
	}
	if cfg.Handler == nil {
		return nil, &ConfigError{Type: ErrorMissingHandler, Topic: matcher.String(), Message: "subscription requires a handler"}
	}

	sub := newSubscription(matcher, cfg)

	b.mu.Lock()
	defer b.mu.Unlock()

	switch matcher.kind {
	case matcherExact:
		if _, ok := b.topics[matcher.name]; !ok {
			b.warn("subscribing to unconfigured topic", "topic", matcher.name, "subscription", sub.id)
		}
	case matcherPattern:
		if !b.patternMatchesConfiguredLocked(matcher) {
			b.warn("pattern matches no configured topics", "pattern", matcher.String(), "subscription", sub.id)
		}
	}
	b.subs.add(sub)

	b.primeLocked(sub)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.subs.remove(sub)
	}, nil
}

// SubscribeFunc subscribes a bare handler to an exact topic name.
func (b *Broker) SubscribeFunc(topic string, handler Handler) (func(), error) {
	return b.Subscribe(Exactly(topic), SubscriptionConfig{Handler: handler})
}

// CurrentVal returns the topic's stored value. When the stored value is nil
// or the topic was never published, the fallback applies: the given one if
// non-nil, else the topic's configured default, which may itself be nil.
func (b *Broker) CurrentVal(topic string, fallback any) any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.currentValLocked(topic, fallback)
}

func (b *Broker) currentValLocked(topic string, fallback any) any {
	def := fallback
	if def == nil {
		def = b.effectiveConfigLocked(topic).Default
	}
	if v, ok := b.store.get(topic); ok && v != nil {
		return v
	}
	return def
}

// Clear resets a topic's value by publishing nil through the ordinary
// delivery path, so subscribers observe their default again. Clearing a
// topic that was never published is a no-op.
func (b *Broker) Clear(topic string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.store.has(topic) {
		return nil
	}
	return b.publishLocked(topic, nil)
}

// ClearAll clears every topic currently holding a value, in first-publish
// order. The first validation failure aborts the remainder.
func (b *Broker) ClearAll() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, topic := range b.store.topics() {
		if err := b.publishLocked(topic, nil); err != nil {
			return err
		}
	}
	return nil
}

// Configure adjusts broker-wide settings. Topic configs are forwarded to
// AddTopics; the first invalid config aborts the rest and is returned.
func (b *Broker) Configure(settings Settings) error {
	if settings.ShowWarnings != nil {
		b.warnings.Store(*settings.ShowWarnings)
	}
	return b.AddTopics(settings.Topics...)
}

// Topics returns the registered topic configs, in no particular order.
func (b *Broker) Topics() []TopicConfig {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]TopicConfig, 0, len(b.topics))
	for _, cfg := range b.topics {
		out = append(out, cfg)
	}
	return out
}

// Topic returns the registered config for a topic name.
func (b *Broker) Topic(name string) (TopicConfig, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	cfg, ok := b.topics[name]
	return cfg, ok
}

// StoredTopics returns the names of topics holding a value (including
// cleared ones), in first-publish order.
func (b *Broker) StoredTopics() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.store.topics()
}

// effectiveConfigLocked resolves a topic's config, synthesizing an
// all-default one for unregistered topics without persisting it.
func (b *Broker) effectiveConfigLocked(name string) TopicConfig {
	if cfg, ok := b.topics[name]; ok {
		return cfg
	}
	return virtualTopic(name)
}

func (b *Broker) patternMatchesConfiguredLocked(matcher Matcher) bool {
	for name := range b.topics {
		if matcher.Matches(name) {
			return true
		}
	}
	return false
}

// deliverLocked decides whether one subscription receives rawValue published
// on topic, and if so enqueues the delivery. The delivered value and topic
// are captured here, at enqueue time.
func (b *Broker) deliverLocked(sub *subscription, rawValue any, topic string, cfg TopicConfig) {
	eventOnly := boolOr(sub.eventOnly, cfg.EventOnly)
	allowRepeats := boolOr(sub.allowRepeats, cfg.AllowRepeats)

	var value any
	switch {
	case eventOnly:
		value = topic
	case rawValue != nil:
		value = rawValue
	case sub.def != nil:
		value = sub.def
	default:
		value = cfg.Default
	}

	if !eventOnly && !allowRepeats && sub.suppressed(value, topic) {
		return
	}

	handler := sub.handler
	b.sched.enqueue(func() {
		handler(value, topic)
		sub.recordDelivery(value, topic)
	})
}

// primeLocked schedules the initial deliveries for a new subscription. An
// exact subscription is primed when its topic is event-only or resolves to a
// set value (stored or default). A pattern subscription is primed once per
// currently-stored topic its pattern matches, under the same rule.
func (b *Broker) primeLocked(sub *subscription) {
	switch sub.matcher.kind {
	case matcherExact:
		b.primeTopicLocked(sub, sub.matcher.name)
	case matcherPattern:
		for _, name := range b.store.topics() {
			if sub.matcher.Matches(name) {
				b.primeTopicLocked(sub, name)
			}
		}
	}
}

func (b *Broker) primeTopicLocked(sub *subscription, topic string) {
	cfg := b.effectiveConfigLocked(topic)
	if !boolOr(sub.doPrime, *cfg.DoPrime) {
		return
	}
	if !cfg.EventOnly && b.currentValLocked(topic, sub.def) == nil {
		return
	}
	raw, _ := b.store.get(topic)
	b.deliverLocked(sub, raw, topic, cfg)
}

// warn routes a non-fatal condition through the warning sink. Suppressed
// entirely when warnings are off.
func (b *Broker) warn(msg string, args ...any) {
	if !b.warnings.Load() {
		return
	}
	b.logger.Warn(msg, args...)
}
