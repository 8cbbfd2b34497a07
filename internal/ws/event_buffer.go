package ws

import (
	"sort"
	"sync"
	"time"
)

const (
	defaultBufferMaxLen = 1000
	defaultBufferMaxAge = 1 * time.Hour
	bufferSweepInterval = 10 * time.Minute
)

// EventBuffer keeps recent events per stream so reconnecting clients can
// replay what they missed. A stream is a datasource, or allStream. Event IDs
// are global, so a stream's IDs have gaps; trimmed records the newest ID each
// stream has dropped.
type EventBuffer struct {
	mu      sync.RWMutex
	events  map[string][]Event
	trimmed map[string]uint64
	maxAge time.Duration
	maxLen int
	stop   chan struct{}
	once   sync.Once
}

// NewEventBuffer creates an EventBuffer and starts a goroutine that drops
// idle streams every bufferSweepInterval.
func NewEventBuffer(maxLen int, maxAge time.Duration) *EventBuffer {
	eb := &EventBuffer{
		events:  make(map[string][]Event),
		trimmed: make(map[string]uint64),
		maxAge:  maxAge,
		maxLen:  maxLen,
		stop:    make(chan struct{}),
	}
	go eb.sweepLoop()

	return eb
}

// Stop halts the sweep goroutine. It is safe to call more than once.
func (eb *EventBuffer) Stop() {
	eb.once.Do(func() { close(eb.stop) })
}

func (eb *EventBuffer) sweepLoop() {
	ticker := time.NewTicker(bufferSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-eb.stop:
			return
		case <-ticker.C:
			eb.sweep(time.Now())
		}
	}
}

// sweep drops streams whose newest event is older than maxAge.
func (eb *EventBuffer) sweep(now time.Time) {
	cutoff := now.Add(-eb.maxAge)

	eb.mu.Lock()
	defer eb.mu.Unlock()

	for stream, buf := range eb.events {
		if len(buf) == 0 {
			delete(eb.events, stream)

			continue
		}
		if last := buf[len(buf)-1]; last.Time.Before(cutoff) {
			eb.trimmed[stream] = last.ID
			delete(eb.events, stream)
		}
	}
}

// Append stores event on stream, trimming expired and surplus entries.
func (eb *EventBuffer) Append(stream string, event *Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	buf := eb.events[stream]

	cutoff := time.Now().Add(-eb.maxAge)
	expired := sort.Search(len(buf), func(i int) bool { return !buf[i].Time.Before(cutoff) })
	if expired > 0 {
		eb.trimmed[stream] = buf[expired-1].ID
	}
	buf = append(buf[expired:], *event)

	if surplus := len(buf) - eb.maxLen; surplus > 0 {
		eb.trimmed[stream] = buf[surplus-1].ID
		buf = buf[surplus:]
	}

	eb.events[stream] = buf
}

// Since returns a copy of the events on stream with ID greater than lastEventID.
func (eb *EventBuffer) Since(stream string, lastEventID uint64) []Event {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	buf := eb.events[stream]
	first := sort.Search(len(buf), func(i int) bool { return buf[i].ID > lastEventID })
	if first >= len(buf) {
		return nil
	}

	out := make([]Event, len(buf)-first)
	copy(out, buf[first:])

	return out
}

// Covers reports whether every event on stream after lastEventID is still
// buffered.
func (eb *EventBuffer) Covers(stream string, lastEventID uint64) bool {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	return lastEventID >= eb.trimmed[stream]
}
