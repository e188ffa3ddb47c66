package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"staybook/booking"
	"staybook/notify"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const Channel = "booking-events"

// Event is the message published for each stored booking.
type Event struct {
	Type    string          `json:"type"`
	Booking booking.Booking `json:"booking"`
}

// Publisher hands booking notices to Redis so a worker can deliver them.
type Publisher struct {
	conn    *redis.Client
	channel string
}

func NewPublisher(conn *redis.Client) *Publisher {
	return &Publisher{conn: conn, channel: Channel}
}

// BookingCreated implements notify.Notifier.
func (p *Publisher) BookingCreated(ctx context.Context, b booking.Booking) error {
	data, err := json.Marshal(Event{Type: "booking.created", Booking: b})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.conn.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Worker consumes booking events and forwards them to a Notifier.
type Worker struct {
	conn    *redis.Client
	channel string
	next    notify.Notifier
}

func NewWorker(conn *redis.Client, next notify.Notifier) *Worker {
	return &Worker{conn: conn, channel: Channel, next: next}
}

// Run listens until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	sub := w.conn.Subscribe(ctx, w.channel)
	defer sub.Close()
	ch := sub.Channel()

	log.Info().Str("channel", w.channel).Msg("notification worker listening")
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := w.handle(ctx, msg.Payload); err != nil {
				log.Warn().Err(err).Msg("notification worker")
			}
		}
	}
}

func (w *Worker) handle(ctx context.Context, payload string) error {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return fmt.Errorf("parse event: %w", err)
	}
	if ev.Type != "booking.created" {
		return nil
	}
	return w.next.BookingCreated(ctx, ev.Booking)
}
