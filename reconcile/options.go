//
// Tencent is pleased to support the open source community by making trpc-es-provision available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-es-provision is licensed under the Apache License Version 2.0.
//
//

package reconcile

import (
	"io/fs"
	"maps"

	"trpc.group/trpc-go/trpc-es-provision/resource"
)

// Option configures a Reconciler.
type Option func(*options)

type options struct {
	fsys          fs.FS
	root          string
	indices       []string
	mappings      []string
	aliases       []string
	templates     []string
	exclude       []string
	indexSettings map[string]string
	policy        resource.Policy
	declarations  *Declarations
}

var defaultOptions = options{
	root:   resource.DefaultRoot,
	policy: resource.DefaultPolicy(),
}

// WithFS sets the resource tree definitions are read from.
func WithFS(fsys fs.FS) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}

// WithRoot sets the root of the resource tree inside the filesystem.
// A leading "/" is ignored.
func WithRoot(root string) Option {
	return func(o *options) {
		o.root = root
	}
}

// WithIndices declares indices explicitly. Discovery is skipped when any are set.
func WithIndices(names ...string) Option {
	return func(o *options) {
		o.indices = append(o.indices, names...)
	}
}

// WithMappings declares "index/type" mappings explicitly.
func WithMappings(tokens ...string) Option {
	return func(o *options) {
		o.mappings = append(o.mappings, tokens...)
	}
}

// WithAliases declares "alias:index" aliases.
func WithAliases(tokens ...string) Option {
	return func(o *options) {
		o.aliases = append(o.aliases, tokens...)
	}
}

// WithTemplates declares templates explicitly.
func WithTemplates(names ...string) Option {
	return func(o *options) {
		o.templates = append(o.templates, names...)
	}
}

// WithExclude drops discovered resources matching the doublestar patterns.
func WithExclude(patterns ...string) Option {
	return func(o *options) {
		o.exclude = append(o.exclude, patterns...)
	}
}

// WithIndexSettings sets inline JSON per index, deep-merged over the index's
// _settings.json. Inline values win.
func WithIndexSettings(settings map[string]string) Option {
	return func(o *options) {
		if o.indexSettings == nil {
			o.indexSettings = make(map[string]string, len(settings))
		}
		maps.Copy(o.indexSettings, settings)
	}
}

// WithPolicy sets the reconcile policy.
func WithPolicy(p resource.Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithDeclarations reuses declarations already built by Declare, so the pass
// does not read the resource tree again. The tree options are then ignored.
func WithDeclarations(d *Declarations) Option {
	return func(o *options) {
		o.declarations = d
	}
}
