// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package callqueue

import (
	"github.com/joeycumines/logiface"
)

// queueOptions holds configuration options for Queue creation.
type queueOptions struct {
	logger         *logiface.Logger[logiface.Event]
	onFailure      func(error)
	metricsEnabled bool
}

// --- Queue Options ---

// Option configures a Queue instance.
type Option interface {
	applyQueue(*queueOptions) error
}

// queueOptionImpl implements Option.
type queueOptionImpl struct {
	applyQueueFunc func(*queueOptions) error
}

func (o *queueOptionImpl) applyQueue(opts *queueOptions) error {
	return o.applyQueueFunc(opts)
}

// WithLogger attaches a structured logger to the queue. The queue logs
// fire-and-forget failures at error level (unless [WithFailureHandler]
// overrides the handler), awaited callback failures at debug level, and
// drain-cycle summaries at trace level.
// A nil logger (the default) disables logging entirely.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &queueOptionImpl{func(opts *queueOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithFailureHandler sets the handler for failures of fire-and-forget work
// ([Queue.Enqueue]), whose completion handle nobody holds. It replaces the
// default log-and-continue behavior; pass a handler that panics or exits if
// such failures should be fatal to the process instead.
// The handler is invoked on the goroutine draining the queue.
func WithFailureHandler(fn func(error)) Option {
	return &queueOptionImpl{func(opts *queueOptions) error {
		opts.onFailure = fn
		return nil
	}}
}

// WithMetrics enables runtime metrics collection on the Queue.
// When enabled, a snapshot can be read via Queue.Metrics().
// This adds minimal overhead (a few atomic increments per scheduled call).
func WithMetrics(enabled bool) Option {
	return &queueOptionImpl{func(opts *queueOptions) error {
		opts.metricsEnabled = enabled
		return nil
	}}
}

// resolveQueueOptions applies Option instances to queueOptions.
func resolveQueueOptions(opts []Option) (*queueOptions, error) {
	cfg := &queueOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.applyQueue(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
