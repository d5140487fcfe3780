package sim

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
)

// Snapshot is the per-interval progress report of a running outbreak. Counts
// holds the post-update state tally of the individuals infected before the
// current step.
type Snapshot struct {
	Seed       uint64
	Row        int
	Time       float64
	Population int
	Counts     [NumStates]int
}

// ProgressObserver receives progress events from a run. Implementations
// must not block; use AsyncProgressObserver to decouple slow sinks.
type ProgressObserver interface {
	ObserveInterval(snap Snapshot)
	ObserveStop(seed uint64, reason StopReason, population int, t float64)
}

// ProgressLogger logs progress events in key=value form.
type ProgressLogger struct {
	logger *log.Logger
}

func NewProgressLogger(logger *log.Logger) *ProgressLogger {
	return &ProgressLogger{logger: logger}
}

func (l *ProgressLogger) ObserveInterval(snap Snapshot) {
	if l == nil || l.logger == nil {
		return
	}
	counts := make([]string, 0, NumStates)
	for _, c := range snap.Counts {
		counts = append(counts, fmt.Sprintf("%d", c))
	}
	l.logger.Printf("outbreak_progress seed=%d row=%d t=%.1f population=%d counts=[%s]",
		snap.Seed, snap.Row, snap.Time, snap.Population, strings.Join(counts, " "))
}

func (l *ProgressLogger) ObserveStop(seed uint64, reason StopReason, population int, t float64) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Printf("outbreak_stop seed=%d reason=%s population=%d t=%.1f",
		seed, reason, population, t)
}

// AsyncProgressObserver decorates a ProgressObserver with a buffered
// channel so simulation steps never wait on the sink. Events that do not
// fit the buffer are dropped and counted.
type AsyncProgressObserver struct {
	next    ProgressObserver
	events  chan progressEvent
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

type progressEvent struct {
	stop       bool
	snap       Snapshot
	reason     StopReason
	seed       uint64
	population int
	t          float64
}

func NewAsyncProgressObserver(next ProgressObserver, buffer int) *AsyncProgressObserver {
	if buffer <= 0 {
		buffer = 1
	}

	o := &AsyncProgressObserver{
		next:   next,
		events: make(chan progressEvent, buffer),
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		for ev := range o.events {
			if o.next == nil {
				continue
			}
			if ev.stop {
				o.next.ObserveStop(ev.seed, ev.reason, ev.population, ev.t)
				continue
			}
			o.next.ObserveInterval(ev.snap)
		}
	}()

	return o
}

func (o *AsyncProgressObserver) ObserveInterval(snap Snapshot) {
	o.send(progressEvent{snap: snap})
}

func (o *AsyncProgressObserver) ObserveStop(seed uint64, reason StopReason, population int, t float64) {
	o.send(progressEvent{stop: true, seed: seed, reason: reason, population: population, t: t})
}

func (o *AsyncProgressObserver) send(ev progressEvent) {
	if o == nil {
		return
	}
	o.mu.RLock()
	if o.closed {
		o.mu.RUnlock()
		o.dropped.Add(1)
		return
	}
	select {
	case o.events <- ev:
	default:
		o.dropped.Add(1)
	}
	o.mu.RUnlock()
}

// Dropped returns the number of events lost to a full buffer or a closed
// observer.
func (o *AsyncProgressObserver) Dropped() uint64 {
	if o == nil {
		return 0
	}
	return o.dropped.Load()
}

// Close drains buffered events and stops the worker. Safe to call more
// than once and concurrently with observations.
func (o *AsyncProgressObserver) Close() {
	if o == nil {
		return
	}
	o.once.Do(func() {
		o.mu.Lock()
		o.closed = true
		close(o.events)
		o.mu.Unlock()
		o.wg.Wait()
	})
}
