// Package service holds the producer side of the task pipeline: it creates
// the durable records clients poll, publishes the matching tasks and reads
// back what the worker produced.
package service
