package bench

import "sync"

// OpKind is one of the three list operations a worker can perform.
type OpKind int

const (
	OpMember OpKind = iota
	OpInsert
	OpDelete
)

func (k OpKind) String() string {
	switch k {
	case OpMember:
		return "member"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// OpCounts tallies operations by type. Hits count the operations that found
// (Member), added (Insert) or removed (Delete) a key; the rest were no-ops.
type OpCounts struct {
	Member int `json:"member"`
	Insert int `json:"insert"`
	Delete int `json:"delete"`

	MemberHits int `json:"member_hits"`
	InsertHits int `json:"insert_hits"`
	DeleteHits int `json:"delete_hits"`
}

// Total is the number of operations of any type.
func (c OpCounts) Total() int {
	return c.Member + c.Insert + c.Delete
}

func (c *OpCounts) record(op OpKind, hit bool) {
	h := 0
	if hit {
		h = 1
	}
	switch op {
	case OpMember:
		c.Member++
		c.MemberHits += h
	case OpInsert:
		c.Insert++
		c.InsertHits += h
	case OpDelete:
		c.Delete++
		c.DeleteHits += h
	}
}

func (c *OpCounts) add(o OpCounts) {
	c.Member += o.Member
	c.Insert += o.Insert
	c.Delete += o.Delete
	c.MemberHits += o.MemberHits
	c.InsertHits += o.InsertHits
	c.DeleteHits += o.DeleteHits
}

// Metrics aggregates the per-worker counters. Its mutex is independent of the
// list lock; each worker merges once, at the end of its loop.
type Metrics struct {
	mu     sync.Mutex
	counts OpCounts
	merges int
}

// NewMetrics returns an empty aggregator.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Merge adds one worker's local counts.
func (m *Metrics) Merge(local OpCounts) {
	m.mu.Lock()
	m.counts.add(local)
	m.merges++
	m.mu.Unlock()
}

// Counts returns the aggregated counts.
func (m *Metrics) Counts() OpCounts {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts
}

// Merges returns how many workers have reported.
func (m *Metrics) Merges() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.merges
}
