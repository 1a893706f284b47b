package notify

import (
	"strconv"
	"sync"

	"fintrack/internal/logger"
)

// Alerter queues budget alerts for delivery.
type Alerter interface {
	BudgetExceeded(email string, overage float64)
}

// alert is one queued delivery.
type alert struct {
	to      string
	subject string
	body    string
}

// Dispatcher hands alerts to a background worker goroutine. Semantics are
// at-most-once: an alert is dropped when the queue is full, the dispatcher
// is already closed, or the process exits before delivery, and a send
// failure is logged, not retried.
type Dispatcher struct {
	sender Sender
	queue  chan alert

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewDispatcher creates a Dispatcher and starts its worker.
func NewDispatcher(sender Sender, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	d := &Dispatcher{
		sender: sender,
		queue:  make(chan alert, queueSize),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// BudgetExceeded queues an over-budget alert for the given address. Alerts
// arriving after Close are dropped, never panicking the caller's request.
func (d *Dispatcher) BudgetExceeded(email string, overage float64) {
	a := alert{
		to:      email,
		subject: "Expense Alert",
		body:    "You have exceeded your budget by " + strconv.FormatFloat(overage, 'f', -1, 64),
	}

	// The enqueue must happen under the same lock that Close takes before
	// closing the channel, or a late caller sends on a closed channel.
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		logger.Get().Warnw("dispatcher closed, dropping notification", "to", email)
		return
	}
	select {
	case d.queue <- a:
	default:
		logger.Get().Warnw("alert queue full, dropping notification", "to", email)
	}
}

// Close stops accepting alerts and waits for queued deliveries to drain.
// Safe to call more than once.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for a := range d.queue {
		if err := d.sender.Send(a.to, a.subject, a.body); err != nil {
			logger.Get().Errorw("failed to deliver alert", "to", a.to, "error", err)
			continue
		}
		logger.Get().Infow("alert delivered", "to", a.to)
	}
}
