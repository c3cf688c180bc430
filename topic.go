package statebus

// Result is the outcome of running a payload through a topic validator.
type Result struct {
	Valid    bool
	Messages []string
}

// Validator inspects a payload before it is stored and delivered. Validators
// are expected to be pure; the broker calls them synchronously from Publish.
type Validator func(payload any) Result

// alwaysValid is the validator used by topics that configure none.
func alwaysValid(any) Result {
	return Result{Valid: true}
}

// TopicConfig declares a topic's behavior. Name is required; everything else
// falls back to a default. A nil Default means the topic has no default
// value. DoPrime is a pointer because its default is true: a nil pointer
// means "prime", an explicit false disables priming for the topic.
type TopicConfig struct {
	Name         string
	Description  string
	Default      any
	EventOnly    bool
	DoPrime      *bool
	AllowRepeats bool
	Validator    Validator
}

// Bool returns a pointer to v, for the optional bool fields on TopicConfig
// and SubscriptionConfig.
func Bool(v bool) *bool {
	return &v
}

// boolOr resolves an optional override against a fallback.
func boolOr(override *bool, fallback bool) bool {
	if override != nil {
		return *override
	}
	return fallback
}

// normalizeTopic fills in the defaults a stored config must carry so the rest
// of the broker never re-checks for absent fields.
func normalizeTopic(cfg TopicConfig) TopicConfig {
	if cfg.Validator == nil {
		cfg.Validator = alwaysValid
	}
	if cfg.DoPrime == nil {
		cfg.DoPrime = Bool(true)
	}
	return cfg
}

// virtualTopic synthesizes the effective config for a topic that was never
// registered. Callers must not persist it into the registry.
func virtualTopic(name string) TopicConfig {
	return normalizeTopic(TopicConfig{Name: name})
}
