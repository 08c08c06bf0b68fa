package event

// Handler processes routed events
// Systems implement this to receive events during the dispatch phase of a tick
type Handler interface {
	HandleEvent(ev GameEvent)
	EventTypes() []EventType
}

// Router dispatches queued events to registered handlers
// Single-threaded dispatch; handlers are invoked in registration order
type Router struct {
	handlers map[EventType][]Handler
	queue    *Queue
	observer []func(GameEvent)
}

func NewRouter(queue *Queue) *Router {
	return &Router{
		handlers: make(map[EventType][]Handler),
		queue:    queue,
	}
}

// Register adds a handler for its declared event types
func (r *Router) Register(h Handler) {
	for _, t := range h.EventTypes() {
		r.handlers[t] = append(r.handlers[t], h)
	}
}

// Observe registers a callback that sees every event after handlers ran
func (r *Router) Observe(fn func(GameEvent)) {
	r.observer = append(r.observer, fn)
}

// DispatchAll consumes pending events and routes them in FIFO order
// Events pushed by handlers during dispatch are delivered on the next call
func (r *Router) DispatchAll() int {
	events := r.queue.Consume()
	for _, ev := range events {
		for _, h := range r.handlers[ev.Type] {
			h.HandleEvent(ev)
		}
		for _, fn := range r.observer {
			fn(ev)
		}
	}
	return len(events)
}

func (r *Router) HandlerCount(t EventType) int {
	return len(r.handlers[t])
}
