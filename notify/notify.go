package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"staybook/booking"

	"github.com/rs/zerolog/log"
)

// Notifier delivers a booking-created notice somewhere outside the process.
type Notifier interface {
	BookingCreated(ctx context.Context, b booking.Booking) error
}

// LogNotifier only logs; used when no mail server is configured.
type LogNotifier struct{}

func (LogNotifier) BookingCreated(_ context.Context, b booking.Booking) error {
	log.Info().Str("bookingId", b.ID).Str("guest", b.Name).Msg("new booking (mail disabled)")
	return nil
}

// Dispatcher runs each notification detached from the request that caused
// it. Failures are logged and never reach the caller.
type Dispatcher struct {
	n       Notifier
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(n Notifier, timeout time.Duration) *Dispatcher {
	return &Dispatcher{n: n, timeout: timeout}
}

// Announce implements booking.Announcer.
func (d *Dispatcher) Announce(b booking.Booking) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("bookingId", b.ID).Str("panic", fmt.Sprint(r)).Msg("notifier panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.n.BookingCreated(ctx, b); err != nil {
			log.Warn().Err(err).Str("bookingId", b.ID).Msg("booking notification failed")
		}
	}()
}

// Wait blocks until in-flight notifications finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
