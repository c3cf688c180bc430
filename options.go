package statebus

import "log/slog"

// Option configures a Broker at construction time.
type Option func(*Broker)

// WithLogger routes the broker's warnings and delivery errors through the
// given logger instead of slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Broker) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithWarnings enables or disables the non-fatal warnings (unconfigured
// topics, zero matches, config overwrites). Warnings are on by default.
func WithWarnings(enabled bool) Option {
	return func(b *Broker) {
		b.warnings.Store(enabled)
	}
}

// WithTopics registers topic configs at construction time. Invalid configs
// are logged and skipped; use AddTopics when the error matters.
func WithTopics(configs ...TopicConfig) Option {
	return func(b *Broker) {
		b.pendingTopics = append(b.pendingTopics, configs...)
	}
}

// Settings is the runtime-adjustable broker configuration for Configure.
// Nil fields are left unchanged.
type Settings struct {
	// ShowWarnings toggles the warning sink.
	ShowWarnings *bool
	// Topics is an ordered sequence of topic configs to register; the first
	// invalid config aborts the remainder, matching AddTopics.
	Topics []TopicConfig
}
