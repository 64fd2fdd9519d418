// Package alertlog keeps a bounded in-memory ring of recently emitted
// alerts so the API can serve them without replaying Redis or the journal.
// When full, the oldest alert is overwritten.
package alertlog

import (
	"sync"

	"trade-monitorv1/internal/model"
)

// Log is a fixed-capacity overwrite ring of alert events.
// Capacity is rounded up to the next power of two for bitwise indexing.
type Log struct {
	mu   sync.RWMutex
	buf  []model.AlertEvent
	mask uint64
	head uint64 // total appends; head & mask is the next write slot
}

// New creates a log. Minimum capacity is 2.
func New(capacity int) *Log {
	n := nextPow2(capacity)
	if n < 2 {
		n = 2
	}
	return &Log{
		buf:  make([]model.AlertEvent, n),
		mask: uint64(n - 1),
	}
}

// Append records one alert, overwriting the oldest when full. Nil-safe.
func (l *Log) Append(event model.AlertEvent) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.buf[l.head&l.mask] = event
	l.head++
	l.mu.Unlock()
}

// Recent returns up to limit alerts, newest first.
func (l *Log) Recent(limit int) []model.AlertEvent {
	if l == nil || limit <= 0 {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := int(l.head)
	if n > len(l.buf) {
		n = len(l.buf)
	}
	if limit > n {
		limit = n
	}

	out := make([]model.AlertEvent, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, l.buf[(l.head-1-uint64(i))&l.mask])
	}
	return out
}

// Len returns the number of retained alerts.
func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if int(l.head) > len(l.buf) {
		return len(l.buf)
	}
	return int(l.head)
}

// nextPow2 returns the smallest power of 2 >= n.
func nextPow2(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
