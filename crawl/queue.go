package crawl

// Queue is a FIFO of document paths that never yields the same path twice.
// A positive limit caps how many distinct paths it accepts.
type Queue struct {
	items []string
	seen  map[string]bool
	idx   int
	limit int
}

// NewQueue creates an empty Queue. limit <= 0 means unbounded.
func NewQueue(limit int) *Queue {
	return &Queue{
		seen:  make(map[string]bool),
		limit: limit,
	}
}

// Add enqueues p unless it was seen before or the queue is full. It reports
// whether p was accepted.
func (q *Queue) Add(p string) bool {
	if q.seen[p] || q.Full() {
		return false
	}
	q.seen[p] = true
	q.items = append(q.items, p)
	return true
}

// Full reports whether the queue has reached its limit.
func (q *Queue) Full() bool {
	return q.limit > 0 && len(q.items) >= q.limit
}

// HasNext reports whether unprocessed paths remain.
func (q *Queue) HasNext() bool {
	return q.idx < len(q.items)
}

// Next returns the next unprocessed path and advances the read position.
func (q *Queue) Next() string {
	p := q.items[q.idx]
	q.idx++
	return p
}

// Len returns the number of distinct paths accepted so far.
func (q *Queue) Len() int {
	return len(q.items)
}

// All returns every accepted path in discovery order.
func (q *Queue) All() []string {
	return q.items
}
