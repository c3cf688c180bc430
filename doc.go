// Package statebus is a single-process, in-memory publish/subscribe value
// broker. Each named topic holds at most one current payload; subscribers
// receive updates asynchronously and, by default, are primed with the
// current value when they register.
//
// Topics are configured up front (defaults, validators, delivery flags) and
// resolved lazily for topics that were never registered. Subscribers match
// either an exact topic name or a regular expression, and each subscription
// tracks its own last-delivered value so unchanged values are not
// re-delivered unless the topic or subscription opts into repeats.
//
// A minimal session:
//
//	bus := statebus.New()
//	defer bus.Close()
//
//	bus.AddTopic(statebus.TopicConfig{Name: "greeting", Default: "World"})
//
//	unsubscribe, _ := bus.SubscribeFunc("greeting", func(value any, topic string) {
//		fmt.Println(topic, "=", value)
//	})
//	defer unsubscribe()
//
//	bus.Publish("greeting", "Jill")
//	bus.Drain(context.Background())
//
// Handlers never run synchronously from Publish or Subscribe. Deliveries are
// queued in FIFO order and executed on a single worker goroutine owned by the
// broker, so deliveries to a given subscriber always arrive in publish order.
//
// A process-wide default broker is available through Default and the
// package-level functions mirroring the Broker methods.
package statebus
