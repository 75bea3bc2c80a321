// Package task defines the background work the platform runs off the request
// path: generating study paths, quizzes, module images and speech audio.
//
// Producers encode a Task into an Envelope and publish it on the broker's task
// queue. A Dispatcher consumes the queue one message at a time, decodes the
// envelope into the matching Task variant, runs it against a Handlers
// implementation under a timeout and settles the message according to the
// resulting Outcome.
package task
