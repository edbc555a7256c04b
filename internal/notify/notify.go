// Package notify sends fire-and-forget notifications about applications and OJT hours.
// Delivery failures are logged and never fail the operation that triggered them.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single delivery attempt.
const DefaultTimeout = 30 * time.Second

// Message is an outbound plain-text notification.
type Message struct {
	Kind    string
	To      []string
	ReplyTo string
	Subject string
	Body    string
}

// Notifier delivers a message.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Dispatcher sends messages in the background.
type Dispatcher struct {
	notifier Notifier
	logger   zerolog.Logger
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. A nil notifier drops every message.
func NewDispatcher(n Notifier, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: n,
		logger:   logger,
		timeout:  DefaultTimeout,
	}
}

// Send delivers msg asynchronously. Messages without recipients are skipped.
func (d *Dispatcher) Send(msg Message) {
	if d == nil || d.notifier == nil {
		return
	}
	if len(msg.To) == 0 {
		d.logger.Debug().Str("kind", msg.Kind).Msg("notification has no recipient, skipped")
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.notifier.Notify(ctx, msg); err != nil {
			d.logger.Warn().
				Err(err).
				Str("kind", msg.Kind).
				Strs("to", msg.To).
				Msg("notification failed")
			return
		}
		d.logger.Debug().Str("kind", msg.Kind).Strs("to", msg.To).Msg("notification sent")
	}()
}

// Wait blocks until all in-flight messages finish.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}
