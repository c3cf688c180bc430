package statebus

import "regexp"

type matcherKind int

const (
	matcherNone matcherKind = iota
	matcherExact
	matcherPattern
)

// Matcher selects which topics a subscription receives. It is a closed
// variant: construct one with Exactly or MatchPattern. The zero value matches
// nothing and is rejected by Subscribe.
type Matcher struct {
	kind matcherKind
	name string
	re   *regexp.Regexp
}

// Exactly matches a single topic by name.
func Exactly(name string) Matcher {
	return Matcher{kind: matcherExact, name: name}
}

// MatchPattern matches every topic whose name matches re.
func MatchPattern(re *regexp.Regexp) Matcher {
	if re == nil {
		return Matcher{}
	}
	return Matcher{kind: matcherPattern, re: re}
}

// Matches reports whether the matcher selects the given topic name.
func (m Matcher) Matches(topic string) bool {
	switch m.kind {
	case matcherExact:
		return m.name == topic
	case matcherPattern:
		return m.re.MatchString(topic)
	default:
		return false
	}
}

func (m Matcher) valid() bool {
	return m.kind != matcherNone
}

func (m Matcher) String() string {
	switch m.kind {
	case matcherExact:
		return m.name
	case matcherPattern:
		return m.re.String()
	default:
		return "<invalid>"
	}
}
