//
// Tencent is pleased to support the open source community by making trpc-es-provision available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-es-provision is licensed under the Apache License Version 2.0.
//
//

// Package trace provides the OpenTelemetry tracer of the provisioner. Every
// reconcile pass and every resource decision is recorded as a span.
package trace

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	itelemetry "trpc.group/trpc-go/trpc-es-provision/internal/telemetry"
)

// Tracer records provisioning spans. It is a no-op until Start is called.
var Tracer trace.Tracer = noop.NewTracerProvider().Tracer("")

// Start exports spans to an OTLP collector and points Tracer at it.
// Without WithEndpoint, OTEL_EXPORTER_OTLP_TRACES_ENDPOINT, then
// OTEL_EXPORTER_OTLP_ENDPOINT, then the protocol default is used.
func Start(ctx context.Context, opts ...Option) (clean func() error, err error) {
	o := &options{
		serviceName: itelemetry.ServiceName,
		protocol:    itelemetry.ProtocolGRPC,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.endpoint == "" {
		o.endpoint = tracesEndpoint(o.protocol)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNamespace(itelemetry.ServiceNamespace),
			semconv.ServiceName(o.serviceName),
			semconv.ServiceVersion(itelemetry.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	exporter, err := newExporter(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer provider: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	Tracer = otel.Tracer(itelemetry.InstrumentName)

	return func() error {
		if err := provider.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown TracerProvider: %w", err)
		}
		return nil
	}, nil
}

// Option configures Start.
type Option func(*options)

type options struct {
	endpoint    string
	protocol    string
	serviceName string
}

// WithEndpoint sets the collector host and port, e.g. "collector:4317".
// It takes precedence over the environment.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.endpoint = endpoint
	}
}

// WithProtocol selects "grpc" (default) or "http" export.
func WithProtocol(protocol string) Option {
	return func(o *options) {
		o.protocol = protocol
	}
}

// WithServiceName overrides the service name reported with every span.
func WithServiceName(name string) Option {
	return func(o *options) {
		o.serviceName = name
	}
}

func tracesEndpoint(protocol string) string {
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"); endpoint != "" {
		return endpoint
	}
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		return endpoint
	}
	if protocol == itelemetry.ProtocolHTTP {
		return "localhost:4318"
	}
	return "localhost:4317"
}

// newExporter creates the OTLP span exporter for the configured protocol.
func newExporter(ctx context.Context, o *options) (sdktrace.SpanExporter, error) {
	switch o.protocol {
	case itelemetry.ProtocolHTTP:
		exporter, err := otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(o.endpoint),
			otlptracehttp.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP trace exporter: %w", err)
		}
		return exporter, nil
	default:
		conn, err := itelemetry.NewGRPCConn(o.endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize traces connection: %w", err)
		}
		exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		return exporter, nil
	}
}

// StartPass starts the root span of one reconcile pass over the resource
// tree at root.
func StartPass(ctx context.Context, passID, root string, dryRun bool) (context.Context, trace.Span) {
	return Tracer.Start(ctx, itelemetry.SpanNameReconcile,
		trace.WithAttributes(
			attribute.String(itelemetry.KeyPassID, passID),
			attribute.String(itelemetry.KeyRoot, root),
			attribute.Bool(itelemetry.KeyDryRun, dryRun),
		),
	)
}

// StartResource starts the span of one resource decision.
func StartResource(ctx context.Context, passID, kind, name string) (context.Context, trace.Span) {
	ctx, span := Tracer.Start(ctx, itelemetry.NewResourceSpanName(kind))
	itelemetry.TraceResource(span, passID, kind, name)
	return ctx, span
}
