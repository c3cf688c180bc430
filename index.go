package statebus

import "slices"

// subscriptionIndex holds exact-name subscriptions keyed by topic, in
// insertion order, plus the pattern subscriptions. Locking is owned by the
// Broker; the index itself is not safe for concurrent use.
type subscriptionIndex struct {
	exact    map[string][]*subscription
	patterns []*subscription
}

func newSubscriptionIndex() *subscriptionIndex {
	return &subscriptionIndex{
		exact: make(map[string][]*subscription),
	}
}

func (idx *subscriptionIndex) add(sub *subscription) {
	switch sub.matcher.kind {
	case matcherExact:
		name := sub.matcher.name
		idx.exact[name] = append(idx.exact[name], sub)
	case matcherPattern:
		idx.patterns = append(idx.patterns, sub)
	}
}

// remove drops the subscription from whichever collection holds it. Removing
// a subscription twice, or one that was never added, is a no-op.
func (idx *subscriptionIndex) remove(sub *subscription) {
	switch sub.matcher.kind {
	case matcherExact:
		name := sub.matcher.name
		filtered := slices.DeleteFunc(idx.exact[name], func(s *subscription) bool {
			return s == sub
		})
		if len(filtered) == 0 {
			delete(idx.exact, name)
		} else {
			idx.exact[name] = filtered
		}
	case matcherPattern:
		idx.patterns = slices.DeleteFunc(idx.patterns, func(s *subscription) bool {
			return s == sub
		})
	}
}

// matching returns every subscription interested in the topic: exact-name
// subscribers first, then pattern subscribers, each group in insertion order.
func (idx *subscriptionIndex) matching(topic string) []*subscription {
	matched := slices.Clone(idx.exact[topic])
	for _, sub := range idx.patterns {
		if sub.matcher.Matches(topic) {
			matched = append(matched, sub)
		}
	}
	return matched
}
