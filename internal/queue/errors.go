package queue

import "errors"

var (
	// ErrConnectionExhausted is returned by Connect when every attempt to reach
	// the broker failed.
	ErrConnectionExhausted = errors.New("broker connection attempts exhausted")

	// ErrChannelUnavailable is returned when there is no live connection. The
	// caller should wait and fetch the channel again.
	ErrChannelUnavailable = errors.New("broker channel unavailable")

	// ErrNoDelivery is returned by Get and Receive when no message arrived within the wait.
	ErrNoDelivery = errors.New("no message available")

	// ErrBrokerClosed is returned once Close has been called.
	ErrBrokerClosed = errors.New("broker closed")

	// ErrNotConsumer is returned by Receive on a publish-only broker.
	ErrNotConsumer = errors.New("broker is not a consumer")
)
