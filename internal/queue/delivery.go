package queue

import (
	"context"
	"time"
)

// Acknowledger settles a delivery with the broker.
type Acknowledger interface {
	Ack(ctx context.Context, d *Delivery) error
	Nack(ctx context.Context, d *Delivery, requeue bool, reason string) error
}

// Delivery is a message taken from a queue and held in flight until it is
// acked or nacked.
type Delivery struct {
	Body       []byte
	Queue      string
	ReceivedAt time.Time

	Acknowledger Acknowledger
}

// Ack removes the message from the in-flight list.
func (d *Delivery) Ack(ctx context.Context) error {
	return d.Acknowledger.Ack(ctx, d)
}

// Nack rejects the message. With requeue it goes back to the front of its
// queue; otherwise it is moved to the dead-letter list with reason.
func (d *Delivery) Nack(ctx context.Context, requeue bool, reason string) error {
	return d.Acknowledger.Nack(ctx, d, requeue, reason)
}

// DeadLetter is a message rejected without requeue.
type DeadLetter struct {
	Queue    string    `json:"queue"`
	Body     string    `json:"body"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failedAt"`
}
