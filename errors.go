package statebus

import (
	"strings"

	"github.com/goccy/go-json"
)

// ErrorType classifies configuration failures.
type ErrorType string

const (
	// ErrorMissingName means a topic config was registered without a name.
	ErrorMissingName ErrorType = "missing_topic_name"
	// ErrorInvalidMatcher means a subscription used a zero-value or malformed matcher.
	ErrorInvalidMatcher ErrorType = "invalid_matcher"
	// ErrorMissingHandler means a subscription config carried no handler.
	ErrorMissingHandler ErrorType = "missing_handler"
)

// ConfigError is returned synchronously from AddTopic and Subscribe when the
// caller supplied an unusable configuration. It is fatal to the call; no
// broker state is mutated when it fires.
type ConfigError struct {
	Type    ErrorType
	Topic   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Topic != "" {
		return string(e.Type) + ": " + e.Message + " (topic " + e.Topic + ")"
	}
	return string(e.Type) + ": " + e.Message
}

// ValidationError is returned synchronously from Publish (and Clear, which
// publishes) when the topic's validator rejects the payload. The value store
// and subscription state are untouched when it fires.
type ValidationError struct {
	Topic    string
	Messages []string
	Payload  any
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("payload for topic ")
	b.WriteString(e.Topic)
	b.WriteString(" failed validation")
	if len(e.Messages) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Messages, "; "))
	}
	b.WriteString(" (payload: ")
	b.WriteString(serializePayload(e.Payload))
	b.WriteString(")")
	return b.String()
}

// serializePayload renders a rejected payload for error messages. Values that
// cannot be marshaled still need a readable form.
func serializePayload(payload any) string {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "<unserializable>"
	}
	return string(raw)
}
