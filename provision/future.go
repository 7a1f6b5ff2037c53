//
// Tencent is pleased to support the open source community by making trpc-es-provision available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-es-provision is licensed under the Apache License Version 2.0.
//
//

package provision

import (
	"context"
	"sync"

	"trpc.group/trpc-go/trpc-es-provision/reconcile"
	storage "trpc.group/trpc-go/trpc-es-provision/storage/elasticsearch"
)

// future is the one-shot result of background provisioning.
type future struct {
	done chan struct{}

	// Set once before done is closed.
	client storage.Client
	report *reconcile.Report
	err    error

	mu     sync.Mutex
	closed bool
}

func newFuture() *future {
	return &future{done: make(chan struct{})}
}

func (f *future) resolve(client storage.Client, report *reconcile.Report, err error) {
	f.client, f.report, f.err = client, report, err
	close(f.done)
}

// wait blocks until the future is resolved or ctx is done.
func (f *future) wait(ctx context.Context) error {
	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// get waits and returns the client or the provisioning error.
func (f *future) get(ctx context.Context) (storage.Client, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrClosed
	}
	return f.client, nil
}

// close closes the resolved client once.
func (f *future) close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || f.client == nil {
		f.closed = true
		return nil
	}
	f.closed = true
	return f.client.Close()
}
