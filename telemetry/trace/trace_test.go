//
// Tencent is pleased to support the open source community by making trpc-es-provision available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-es-provision is licensed under the Apache License Version 2.0.
//
//

package trace

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	itelemetry "trpc.group/trpc-go/trpc-es-provision/internal/telemetry"
)

func TestTracesEndpoint(t *testing.T) {
	const (
		customEndpoint  = "custom-trace:4317"
		genericEndpoint = "generic-endpoint:4317"
	)

	// Case 1: specific variable has precedence over generic.
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", customEndpoint)
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", genericEndpoint)
	require.Equal(t, customEndpoint, tracesEndpoint(itelemetry.ProtocolGRPC))

	// Case 2: fallback to generic when specific is empty.
	_ = os.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	require.Equal(t, genericEndpoint, tracesEndpoint(itelemetry.ProtocolGRPC))

	// Case 3: protocol default when none set.
	_ = os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	require.Equal(t, "localhost:4317", tracesEndpoint(itelemetry.ProtocolGRPC))
	require.Equal(t, "localhost:4318", tracesEndpoint(itelemetry.ProtocolHTTP))
}

func TestNewExporter(t *testing.T) {
	for _, protocol := range []string{itelemetry.ProtocolGRPC, itelemetry.ProtocolHTTP, ""} {
		t.Run("protocol "+protocol, func(t *testing.T) {
			exporter, err := newExporter(context.Background(), &options{
				endpoint: "collector:4317",
				protocol: protocol,
			})
			require.NoError(t, err)
			require.NotNil(t, exporter)
			_ = exporter.Shutdown(context.Background())
		})
	}
}

// TestStartAndClean exercises the happy-path of Start and returned cleanup.
func TestStartAndClean(t *testing.T) {
	old := Tracer
	defer func() { Tracer = old }()

	for _, protocol := range []string{itelemetry.ProtocolGRPC, itelemetry.ProtocolHTTP} {
		clean, err := Start(context.Background(),
			WithEndpoint("localhost:4317"),
			WithProtocol(protocol),
			WithServiceName("esprovision-test"),
		)
		require.NoError(t, err)
		require.NotNil(t, clean)
		_ = clean() // No collector is running in tests.
	}
}

func TestStartPassAndResource(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	old := Tracer
	Tracer = tp.Tracer("test")
	defer func() { Tracer = old }()

	ctx, pass := StartPass(context.Background(), "pass-1", "es", true)
	_, res := StartResource(ctx, "pass-1", "template", "twitter_template")
	res.End()
	pass.End()

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	require.Equal(t, "reconcile template", ended[0].Name())
	require.Equal(t, ended[1].SpanContext().SpanID(), ended[0].Parent().SpanID())
	require.Contains(t, ended[0].Attributes(), attribute.String(itelemetry.KeyName, "twitter_template"))
	require.Equal(t, "reconcile", ended[1].Name())
	require.Contains(t, ended[1].Attributes(), attribute.Bool(itelemetry.KeyDryRun, true))
	require.Contains(t, ended[1].Attributes(), attribute.String(itelemetry.KeyRoot, "es"))
}
