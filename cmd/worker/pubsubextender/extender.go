// Package pubsubextender keeps a received pubsub message leased while the
// worker is still scanning for it, so it is not redelivered to another worker.
package pubsubextender

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"gocloud.dev/pubsub"
	"gocloud.dev/pubsub/gcppubsub"

	"github.com/ossf/binpattern/internal/featureflags"
)

const (
	defaultGracePeriod = 60 * time.Second
	defaultDeadline    = 300 * time.Second
)

var ErrInvalidGracePeriod = errors.New("invalid grace period")

type driver interface {
	// ExtendMessageDeadline asks the pubsub service to move the deadline of
	// msg to deadline from now.
	ExtendMessageDeadline(ctx context.Context, msg *pubsub.Message, deadline time.Duration) error

	// GetSubscriptionDeadline returns the ack deadline configured on the
	// subscription, or zero when the service does not expose one.
	GetSubscriptionDeadline(ctx context.Context) (time.Duration, error)
}

// Extender starts MessageExtenders for messages of one subscription.
//
// Every Deadline-GracePeriod the deadline of a running message is pushed
// Deadline into the future.
type Extender struct {
	driver      driver
	Deadline    time.Duration
	GracePeriod time.Duration
}

func getDriver(u *url.URL, sub *pubsub.Subscription) (driver, error) {
	if !featureflags.PubSubExtender.Enabled() {
		return &noopDriver{}, nil
	}
	if u.Scheme == gcppubsub.Scheme {
		return newGCPDriver(u, sub)
	}
	// Other services either extend leases themselves (kafka) or have no
	// deadline at all (mem).
	return &noopDriver{}, nil
}

// New returns an Extender for sub, opened from subURL.
func New(ctx context.Context, subURL string, sub *pubsub.Subscription) (*Extender, error) {
	u, err := url.Parse(subURL)
	if err != nil {
		return nil, err
	}

	d, err := getDriver(u, sub)
	if err != nil {
		return nil, err
	}

	deadline, err := d.GetSubscriptionDeadline(ctx)
	if err != nil {
		return nil, fmt.Errorf("subscription deadline: %w", err)
	}
	if deadline == 0 {
		deadline = defaultDeadline
	}

	return &Extender{
		driver:      d,
		Deadline:    deadline,
		GracePeriod: defaultGracePeriod,
	}, nil
}

// MessageExtender extends the deadline of a single message until stopped.
type MessageExtender struct {
	msg    *pubsub.Message
	cancel context.CancelFunc
	done   chan struct{}

	// err is written by the extending goroutine before done is closed.
	err        error
	extensions atomic.Int64

	mu      sync.Mutex
	stopped bool
}

// Start begins extending msg. onExtend, when not nil, is called after every
// successful extension with the new deadline.
//
// Extension stops at the first failure; the error is returned by Stop.
func (e *Extender) Start(ctx context.Context, msg *pubsub.Message, onExtend func(deadline time.Duration)) (*MessageExtender, error) {
	interval := e.Deadline - e.GracePeriod
	if interval <= 0 {
		return nil, fmt.Errorf("%w: deadline %v is not larger than grace period %v", ErrInvalidGracePeriod, e.Deadline, e.GracePeriod)
	}

	ctx, cancel := context.WithCancel(ctx)
	me := &MessageExtender{
		msg:    msg,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go me.run(ctx, e, interval, onExtend)
	return me, nil
}

func (me *MessageExtender) run(ctx context.Context, e *Extender, interval time.Duration, onExtend func(time.Duration)) {
	defer close(me.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.driver.ExtendMessageDeadline(ctx, me.msg, e.Deadline); err != nil {
				if ctx.Err() == nil {
					me.err = err
				}
				return
			}
			me.extensions.Add(1)
			if onExtend != nil {
				onExtend(e.Deadline)
			}
		}
	}
}

// Extensions returns the number of successful extensions so far.
func (me *MessageExtender) Extensions() int {
	return int(me.extensions.Load())
}

func (me *MessageExtender) IsRunning() bool {
	me.mu.Lock()
	defer me.mu.Unlock()
	return !me.stopped
}

// Stop ends the extension of the message and returns the error that ended
// it early, if any. Later calls return nil.
func (me *MessageExtender) Stop() error {
	me.mu.Lock()
	defer me.mu.Unlock()
	if me.stopped {
		return nil
	}
	me.stopped = true
	me.cancel()
	<-me.done
	return me.err
}
