//
// Tencent is pleased to support the open source community by making trpc-es-provision available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-es-provision is licensed under the Apache License Version 2.0.
//
//

// Package telemetry holds the names and span helpers shared by the
// provisioner's tracing and metrics.
package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// telemetry service constants.
const (
	ServiceName      = "esprovision"
	ServiceVersion   = "v0.1.0"
	ServiceNamespace = "trpc-es-provision"
	InstrumentName   = "trpc.es.provision"

	SpanNameReconcile       = "reconcile"
	SpanNamePrefixResource  = "reconcile"
	SpanNameProvisionClient = "provision"
)

const (
	// ProtocolGRPC uses gRPC protocol for OTLP exporter.
	ProtocolGRPC string = "grpc"
	// ProtocolHTTP uses HTTP protocol for OTLP exporter.
	ProtocolHTTP string = "http"
)

// metric names.
const (
	MetricReconcileActions  = "esprovision.reconcile.actions"
	MetricDiscoveryFailures = "esprovision.discovery.failures"
)

// telemetry attributes constants.
var (
	KeyPassID = "esprovision.pass_id"
	KeyKind   = "esprovision.resource.kind"
	KeyName   = "esprovision.resource.name"
	KeyAction = "esprovision.action"
	KeyDryRun = "esprovision.dry_run"
	KeyRoot   = "esprovision.root"
)

// NewResourceSpanName returns the span name of one reconciled resource,
// e.g. "reconcile index".
func NewResourceSpanName(kind string) string {
	if kind == "" {
		return SpanNamePrefixResource
	}
	return SpanNamePrefixResource + " " + kind
}

// TraceResource records the identity of a reconciled resource on span.
func TraceResource(span trace.Span, passID, kind, name string) {
	span.SetAttributes(
		attribute.String(KeyPassID, passID),
		attribute.String(KeyKind, kind),
		attribute.String(KeyName, name),
	)
}

// TraceAction records the decided action on span.
func TraceAction(span trace.Span, action string) {
	span.SetAttributes(attribute.String(KeyAction, action))
}

// TraceError marks span as failed with err.
func TraceError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// NewGRPCConn creates a new gRPC connection to the OpenTelemetry Collector.
func NewGRPCConn(endpoint string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(endpoint,
		// Note the use of insecure transport here. TLS is recommended in production.
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to collector: %w", err)
	}
	return conn, nil
}
