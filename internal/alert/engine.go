// Package alert turns the loaded event set into start-time alerts. The
// engine owns one goroutine and a single timer armed for the next alert;
// due alerts are delivered on a buffered channel the UI drains.
package alert

import (
	"container/heap"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aevel/pland/internal/dates"
	"github.com/aevel/pland/internal/model"
)

type Alert struct {
	EventID string
	Title   string
	StartAt time.Time
}

// BuildAlerts derives alerts for every timed event on the given day. Lead
// shifts the trigger ahead of the start time. All-day events and events
// whose time cannot be resolved produce no alert.
func BuildAlerts(events []model.Event, dayKey string, lead time.Duration, loc *time.Location) []Alert {
	if loc == nil {
		loc = time.Local
	}
	out := make([]Alert, 0)
	for _, ev := range events {
		if ev.Date != dayKey || ev.AllDay() {
			continue
		}
		if !dates.IsTimeKey(ev.TimeStart) {
			continue
		}
		year, month, day, err := dates.ParseDayKey(ev.Date)
		if err != nil {
			continue
		}
		hh := int(ev.TimeStart[0]-'0')*10 + int(ev.TimeStart[1]-'0')
		mm := int(ev.TimeStart[3]-'0')*10 + int(ev.TimeStart[4]-'0')
		start := time.Date(year, month, day, hh, mm, 0, 0, loc)
		out = append(out, Alert{EventID: ev.ID, Title: ev.Title, StartAt: start.Add(-lead)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out
}

type alertQueue []Alert

func (q alertQueue) Len() int           { return len(q) }
func (q alertQueue) Less(i, j int) bool { return q[i].StartAt.Before(q[j].StartAt) }
func (q alertQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *alertQueue) Push(x any)        { *q = append(*q, x.(Alert)) }
func (q *alertQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

type Engine struct {
	mu      sync.Mutex
	queue   alertQueue
	out     chan Alert
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(alertQueue, 0),
		out:    make(chan Alert, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// C delivers due alerts. The channel closes when the engine stops.
func (e *Engine) C() <-chan Alert {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Reset replaces the pending queue with the given alerts. Each event load
// supersedes the previous one, so alerts are swapped wholesale rather than
// scheduled incrementally; already-past alerts are kept and fire at once.
func (e *Engine) Reset(alerts []Alert) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return
	}
	e.queue = e.queue[:0]
	for _, a := range alerts {
		if a.StartAt.IsZero() {
			continue
		}
		e.queue = append(e.queue, a)
	}
	heap.Init(&e.queue)
	e.signalWakeup()
}

// Pending reports how many alerts are still queued.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Dropped counts alerts lost to a full output channel.
func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.StartAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			for _, a := range e.popDue(time.Now()) {
				select {
				case e.out <- a:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (Alert, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return Alert{}, false
	}
	return e.queue[0], true
}

func (e *Engine) popDue(now time.Time) []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Alert, 0)
	for len(e.queue) > 0 {
		if e.queue[0].StartAt.After(now) {
			break
		}
		out = append(out, heap.Pop(&e.queue).(Alert))
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
