package event

import "sync"

// Queue is a thread-safe FIFO of Event values. Producers are an entity's
// Step/HandleEvent bodies on the real-time thread, plus (at start-up and
// shutdown) a comments side-channel; the scheduler is the sole consumer,
// draining the whole queue once per tick at the start of the Event phase.
//
// Queue guarantees FIFO order of delivery within a single sender; ordering
// across distinct senders within the same drain is unspecified, matching
// §4.2.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

// NewQueue returns an empty Queue ready for use.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends an event to the back of the queue. Safe for concurrent use.
func (q *Queue) Push(e Event) {
	q.mu.Lock()
	q.events = append(q.events, e)
	q.mu.Unlock()
}

// DrainInto moves every currently queued event into dst (in FIFO order) and
// empties the queue, returning the updated slice. Events pushed by listeners
// while dst is being processed land in the queue again and are not part of
// this drain — they'll be picked up by the next DrainInto call, which is
// precisely the "never recursively" guarantee from §4.1.
func (q *Queue) DrainInto(dst []Event) []Event {
	q.mu.Lock()
	dst = append(dst, q.events...)
	q.events = q.events[:0]
	q.mu.Unlock()
	return dst
}

// Len reports the number of events currently queued. Intended for
// diagnostics/tests; the result may be stale immediately after return.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
