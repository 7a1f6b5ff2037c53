//
// Tencent is pleased to support the open source community by making trpc-es-provision available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-es-provision is licensed under the Apache License Version 2.0.
//
//

// Package telemetry starts tracing and metrics export together.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"trpc.group/trpc-go/trpc-es-provision/telemetry/metric"
	"trpc.group/trpc-go/trpc-es-provision/telemetry/trace"
)

// Start starts the trace and metric exporters and returns a function that
// shuts both down.
func Start(ctx context.Context, opts ...Option) (clean func() error, err error) {
	options := &options{}
	for _, opt := range opts {
		opt(options)
	}

	var traceOpts []trace.Option
	if options.tracesEndpoint != "" {
		traceOpts = append(traceOpts, trace.WithEndpoint(options.tracesEndpoint))
	}
	if options.protocol != "" {
		traceOpts = append(traceOpts, trace.WithProtocol(options.protocol))
	}
	cleanTrace, err := trace.Start(ctx, traceOpts...)
	if err != nil {
		return nil, err
	}

	var metricOpts []metric.Option
	if options.metricsEndpoint != "" {
		metricOpts = append(metricOpts, metric.WithEndpoint(options.metricsEndpoint))
	}
	if options.protocol != "" {
		metricOpts = append(metricOpts, metric.WithProtocol(options.protocol))
	}
	cleanMetric, err := metric.Start(ctx, metricOpts...)
	if err != nil {
		_ = cleanTrace()
		return nil, err
	}

	return func() error {
		var err error
		if traceErr := cleanTrace(); traceErr != nil {
			err = errors.Join(err, fmt.Errorf("traces: %w", traceErr))
		}
		if metricErr := cleanMetric(); metricErr != nil {
			err = errors.Join(err, fmt.Errorf("metrics: %w", metricErr))
		}
		return err
	}, nil
}

// Option is a function that configures telemetry options.
type Option func(*options)

// options holds the configuration options for telemetry.
type options struct {
	tracesEndpoint  string
	metricsEndpoint string
	protocol        string
}

// WithEndpoint sets the collector endpoint for both traces and metrics.
func WithEndpoint(endpoint string) Option {
	return func(opts *options) {
		opts.tracesEndpoint = endpoint
		opts.metricsEndpoint = endpoint
	}
}

// WithTracesEndpoint sets the traces endpoint (host and port).
func WithTracesEndpoint(endpoint string) Option {
	return func(opts *options) {
		opts.tracesEndpoint = endpoint
	}
}

// WithMetricsEndpoint sets the metrics endpoint (host and port).
func WithMetricsEndpoint(endpoint string) Option {
	return func(opts *options) {
		opts.metricsEndpoint = endpoint
	}
}

// WithProtocol sets the export protocol of traces and metrics, "grpc" or "http".
func WithProtocol(protocol string) Option {
	return func(opts *options) {
		opts.protocol = protocol
	}
}
