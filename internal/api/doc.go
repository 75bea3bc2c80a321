// Package api is the producer surface of the task pipeline. It accepts
// generation requests, records and enqueues them through the service layer,
// and serves the polling endpoints clients use to follow them.
package api
