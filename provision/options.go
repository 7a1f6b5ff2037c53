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
	"github.com/panjf2000/ants/v2"

	"trpc.group/trpc-go/trpc-es-provision/reconcile"
	storage "trpc.group/trpc-go/trpc-es-provision/storage/elasticsearch"
)

// Option configures Open.
type Option func(*options)

type options struct {
	clientOpts    []storage.ClientBuilderOpt
	instanceName  string
	client        storage.Client
	reconcileOpts []reconcile.Option
	async         bool
	ping          bool
	pool          *ants.Pool
}

var defaultOptions = options{
	ping: true,
}

// WithClientBuilderOptions sets the options the client is built from.
func WithClientBuilderOptions(opts ...storage.ClientBuilderOpt) Option {
	return func(o *options) {
		o.clientOpts = append(o.clientOpts, opts...)
	}
}

// WithInstanceName builds the client from the options registered under name
// with storage.RegisterElasticsearchInstance. They are applied before any
// WithClientBuilderOptions.
func WithInstanceName(name string) Option {
	return func(o *options) {
		o.instanceName = name
	}
}

// WithClient provisions through an existing client instead of building one.
// The handle takes ownership and closes it.
func WithClient(c storage.Client) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithReconcileOptions sets what is provisioned and how.
func WithReconcileOptions(opts ...reconcile.Option) Option {
	return func(o *options) {
		o.reconcileOpts = append(o.reconcileOpts, opts...)
	}
}

// WithAsync defers building and reconciling to a background task. Open
// returns at once and the first call on the handle's client waits for it.
func WithAsync(async bool) Option {
	return func(o *options) {
		o.async = async
	}
}

// WithPing toggles the reachability check made before reconciling.
// It is on by default.
func WithPing(ping bool) Option {
	return func(o *options) {
		o.ping = ping
	}
}

// WithPool runs the async task on pool instead of the default ants pool.
func WithPool(pool *ants.Pool) Option {
	return func(o *options) {
		o.pool = pool
	}
}
