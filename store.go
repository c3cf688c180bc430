package statebus

// valueStore maps topic names to their last published payload. A nil payload
// means the topic was cleared; entry presence distinguishes "cleared" from
// "never published". Insertion order is kept so ClearAll walks topics in the
// order they were first published. Locking is owned by the Broker.
type valueStore struct {
	values map[string]any
	order  []string
}

func newValueStore() *valueStore {
	return &valueStore{
		values: make(map[string]any),
	}
}

func (vs *valueStore) set(topic string, payload any) {
	if _, exists := vs.values[topic]; !exists {
		vs.order = append(vs.order, topic)
	}
	vs.values[topic] = payload
}

func (vs *valueStore) get(topic string) (any, bool) {
	v, ok := vs.values[topic]
	return v, ok
}

func (vs *valueStore) has(topic string) bool {
	_, ok := vs.values[topic]
	return ok
}

// topics returns the stored topic names in first-publish order.
func (vs *valueStore) topics() []string {
	out := make([]string, len(vs.order))
	copy(out, vs.order)
	return out
}
