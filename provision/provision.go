//
// Tencent is pleased to support the open source community by making trpc-es-provision available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-es-provision is licensed under the Apache License Version 2.0.
//
//

// Package provision opens an Elasticsearch client whose cluster has been
// reconciled against the declared resources.
//
// Open builds the client, reconciles, and returns a Handle; Close releases
// the client. The application never receives a client whose provisioning
// failed.
package provision

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/panjf2000/ants/v2"

	itelemetry "trpc.group/trpc-go/trpc-es-provision/internal/telemetry"
	"trpc.group/trpc-go/trpc-es-provision/log"
	"trpc.group/trpc-go/trpc-es-provision/reconcile"
	storage "trpc.group/trpc-go/trpc-es-provision/storage/elasticsearch"
	"trpc.group/trpc-go/trpc-es-provision/telemetry/trace"
)

// ErrClosed is returned by the client of a closed handle.
var ErrClosed = errors.New("provision: handle is closed")

// Handle owns a provisioned client.
type Handle struct {
	client storage.Client
	report *reconcile.Report
	future *future
}

// Open builds a client and reconciles the cluster. In sync mode any failure
// is returned and no handle is created. In async mode Open only fails on
// invalid options or declarations; cluster errors surface from the handle's
// client.
func Open(ctx context.Context, opts ...Option) (*Handle, error) {
	o := defaultOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.instanceName != "" {
		registered, ok := storage.GetElasticsearchInstance(o.instanceName)
		if !ok {
			return nil, fmt.Errorf("provision: elasticsearch instance %q not registered", o.instanceName)
		}
		o.clientOpts = append(append([]storage.ClientBuilderOpt{}, registered...), o.clientOpts...)
	}

	// Declarations are checked before any client is built or pinged, so a
	// configuration error fails Open in both modes.
	decl, err := reconcile.Declare(ctx, o.reconcileOpts...)
	if err != nil {
		if o.client != nil {
			if closeErr := o.client.Close(); closeErr != nil {
				log.Warnf("provision: close client after failure: %v", closeErr)
			}
		}
		return nil, err
	}
	o.reconcileOpts = append(slices.Clone(o.reconcileOpts), reconcile.WithDeclarations(decl))

	if !o.async {
		client, report, err := provision(ctx, &o)
		if err != nil {
			return nil, err
		}
		return &Handle{client: client, report: report}, nil
	}

	f := newFuture()
	// The background task cannot be cancelled once submitted.
	bg := context.WithoutCancel(ctx)
	task := func() {
		client, report, err := provision(bg, &o)
		f.resolve(client, report, err)
	}
	if o.pool != nil {
		err = o.pool.Submit(task)
	} else {
		err = ants.Submit(task)
	}
	if err != nil {
		return nil, fmt.Errorf("provision: submit background task: %w", err)
	}
	return &Handle{client: &forwardingClient{future: f}, future: f}, nil
}

// provision builds the client and reconciles. On failure the client is
// closed before returning.
func provision(ctx context.Context, o *options) (storage.Client, *reconcile.Report, error) {
	ctx, span := trace.Tracer.Start(ctx, itelemetry.SpanNameProvisionClient)
	defer span.End()

	client := o.client
	if client == nil {
		var err error
		client, err = storage.NewClient(o.clientOpts...)
		if err != nil {
			itelemetry.TraceError(span, err)
			return nil, nil, fmt.Errorf("provision: %w", err)
		}
	}

	report, err := func() (*reconcile.Report, error) {
		if o.ping {
			if err := client.Ping(ctx); err != nil {
				return nil, fmt.Errorf("provision: ping: %w", err)
			}
		}
		return reconcile.New(client, o.reconcileOpts...).Apply(ctx)
	}()
	if err != nil {
		itelemetry.TraceError(span, err)
		if closeErr := client.Close(); closeErr != nil {
			log.Warnf("provision: close client after failure: %v", closeErr)
		}
		return nil, report, err
	}
	return client, report, nil
}

// Client returns the provisioned client. In async mode it is a forwarding
// client whose calls wait for provisioning to finish.
func (h *Handle) Client() storage.Client {
	return h.client
}

// Wait waits for async provisioning and returns its report. ctx only bounds
// the wait; the background task keeps running. In sync mode Wait returns the
// report at once.
func (h *Handle) Wait(ctx context.Context) (*reconcile.Report, error) {
	if h.future == nil {
		return h.report, nil
	}
	if err := h.future.wait(ctx); err != nil {
		return nil, err
	}
	return h.future.report, h.future.err
}

// Close releases the client. In async mode it waits for provisioning first.
func (h *Handle) Close() error {
	if h.future == nil {
		return h.client.Close()
	}
	_ = h.future.wait(context.Background())
	return h.future.close()
}
