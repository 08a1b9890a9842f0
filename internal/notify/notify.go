// Package notify delivers user-facing notifications raised by the poll
// core. Delivery never blocks the caller.
package notify

import (
	"sync"
	"time"

	"github.com/rileyhilliard/vdash/internal/logger"
)

// Severity of a notification.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "info"
}

// Messages raised by the poll core.
const (
	MsgCounterLoadFailed = "Failed to load counter data"
	MsgTrendsLoadFailed  = "Failed to load trends data"
	MsgIncrementFailed   = "Failed to increment counter"
)

// Notification is one delivered message.
type Notification struct {
	Message  string
	Severity Severity
	Time     time.Time
}

// Notifier receives notifications. Implementations must return quickly.
type Notifier interface {
	Notify(message string, severity Severity)
}

// Func adapts a function to Notifier.
type Func func(message string, severity Severity)

// Notify implements Notifier.
func (f Func) Notify(message string, severity Severity) {
	f(message, severity)
}

// Discard drops every notification.
var Discard Notifier = Func(func(string, Severity) {})

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	log logger.Logger
}

// NewLogNotifier creates a notifier backed by l.
func NewLogNotifier(l logger.Logger) *LogNotifier {
	return &LogNotifier{log: logger.OrDefault(l)}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(message string, severity Severity) {
	if severity == SeverityError {
		n.log.Error("%s", message)
		return
	}
	n.log.Info("%s", message)
}

// Channel buffers notifications for a consumer such as the dashboard.
// When the buffer is full new notifications are dropped and counted.
type Channel struct {
	ch      chan Notification
	now     func() time.Time
	mu      sync.Mutex
	closed  bool
	dropped int
}

// NewChannel creates a channel notifier with the given buffer size.
func NewChannel(size int) *Channel {
	if size < 1 {
		size = 1
	}
	return &Channel{
		ch:  make(chan Notification, size),
		now: time.Now,
	}
}

// Notify implements Notifier.
func (c *Channel) Notify(message string, severity Severity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.ch <- Notification{Message: message, Severity: severity, Time: c.now()}:
	default:
		c.dropped++
	}
}

// C returns the receive side.
func (c *Channel) C() <-chan Notification {
	return c.ch
}

// Dropped returns how many notifications were dropped on a full buffer.
func (c *Channel) Dropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// Close closes the receive side. Later notifications are ignored.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.ch)
	}
}

// Multi fans out to every notifier in order.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(message string, severity Severity) {
	for _, n := range m {
		if n != nil {
			n.Notify(message, severity)
		}
	}
}

// Recorder keeps every notification. It is meant for tests.
type Recorder struct {
	mu   sync.Mutex
	list []Notification
}

// Notify implements Notifier.
func (r *Recorder) Notify(message string, severity Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, Notification{Message: message, Severity: severity, Time: time.Now()})
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.list...)
}

// Count returns how many notifications carried message.
func (r *Recorder) Count(message string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, x := range r.list {
		if x.Message == message {
			n++
		}
	}
	return n
}
