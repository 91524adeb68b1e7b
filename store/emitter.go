package store

// Emitter is a minimal synchronous observer: an explicit list of subscriber
// callbacks with add, remove and notify. There is a single event ("change")
// and no payload; subscribers re-read the store for fresh state.
type Emitter struct {
	nextID int
	subs   []subscriber
}

type subscriber struct {
	id int
	fn func()
}

// Subscribe registers fn and returns a function that removes it.
func (e *Emitter) Subscribe(fn func()) func() {
	e.nextID++
	id := e.nextID
	e.subs = append(e.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range e.subs {
			if s.id == id {
				e.subs = append(e.subs[:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

// Notify runs every subscriber in subscription order. Notification is
// synchronous; re-entrant mutation from inside a subscriber is unsupported.
func (e *Emitter) Notify() {
	for _, s := range e.subs {
		s.fn()
	}
}
