// Package bus is the in-process event bus backing interfaces.EventBus.
// No pub/sub library anywhere in the retrieved corpus fit a single-
// threaded, synchronous, space-separated-topic dispatcher this small, so
// it is hand-rolled the way the host's own topic router works: a plain
// map of topic to ordered handler list, dispatched inline on Publish.
package bus

import "strings"

type handlerEntry struct {
	id      int
	handler func(payload interface{})
}

// Bus is not safe for concurrent use; the runtime this core targets is
// single-threaded cooperative, matching the data model note that the
// registry itself carries no locking either.
type Bus struct {
	topics map[string][]handlerEntry
	seq    int
}

func New() *Bus {
	return &Bus{topics: make(map[string][]handlerEntry)}
}

// Publish dispatches payload to every handler subscribed to topic, in
// subscription order. A handler that panics is not recovered here; the
// panic propagates to Publish's caller.
func (b *Bus) Publish(topic string, payload interface{}) {
	for _, h := range b.topics[topic] {
		h.handler(payload)
	}
}

// Subscribe installs handler under every space-separated topic in topics,
// mirroring the host router's "multiple topics in one call" convention.
// The returned unsubscribe func removes this handler from every topic it
// was added to.
func (b *Bus) Subscribe(topics string, handler func(payload interface{})) func() {
	b.seq++
	id := b.seq
	names := strings.Fields(topics)
	for _, name := range names {
		b.topics[name] = append(b.topics[name], handlerEntry{id: id, handler: handler})
	}
	return func() {
		for _, name := range names {
			list := b.topics[name]
			for i, h := range list {
				if h.id == id {
					b.topics[name] = append(list[:i], list[i+1:]...)
					break
				}
			}
		}
	}
}
