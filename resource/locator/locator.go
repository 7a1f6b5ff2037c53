//
// Tencent is pleased to support the open source community by making trpc-es-provision available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-es-provision is licensed under the Apache License Version 2.0.
//
//

// Package locator discovers index, mapping and template names from the
// layout of a resource tree.
package locator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"trpc.group/trpc-go/trpc-es-provision/log"
	"trpc.group/trpc-go/trpc-es-provision/resource"
	"trpc.group/trpc-go/trpc-es-provision/telemetry/metric"
)

// Locator scans one resource tree.
type Locator struct {
	fsys    fs.FS
	root    string
	exclude []string
}

// Option configures a Locator.
type Option func(*Locator)

// WithExclude drops discovered names matching any of the doublestar patterns.
// Index and template patterns match the name, mapping patterns match
// "index/type".
func WithExclude(patterns ...string) Option {
	return func(l *Locator) {
		l.exclude = append(l.exclude, patterns...)
	}
}

// New creates a Locator over root of fsys.
func New(fsys fs.FS, root string, opts ...Option) *Locator {
	l := &Locator{fsys: fsys, root: resource.CleanRoot(root)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Root returns the cleaned root the locator scans.
func (l *Locator) Root() string { return l.root }

// DiscoverIndexNames lists the immediate subdirectories of the root.
// Reserved names (leading "_" or ".") and plain files are skipped.
func (l *Locator) DiscoverIndexNames() ([]string, error) {
	if l.fsys == nil {
		return nil, errors.New("locator: no filesystem")
	}
	entries, err := fs.ReadDir(l.fsys, l.root)
	if err != nil {
		return nil, fmt.Errorf("locator: list %s: %w", l.root, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || resource.IsReserved(e.Name()) {
			continue
		}
		if l.excluded(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	return unique(names), nil
}

// DiscoverMappingTypes lists the mapping types of index: every *.json file
// directly under <root>/<index> other than the settings files. A missing
// index directory has no types.
func (l *Locator) DiscoverMappingTypes(index string) ([]string, error) {
	if l.fsys == nil {
		return nil, errors.New("locator: no filesystem")
	}
	dir := path.Join(l.root, index)
	entries, err := fs.ReadDir(l.fsys, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("locator: list %s: %w", dir, err)
	}
	types := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || resource.IsReserved(name) || path.Ext(name) != resource.DefinitionExt {
			continue
		}
		typ := strings.TrimSuffix(name, resource.DefinitionExt)
		if typ == "" || l.excluded(index+"/"+typ) {
			continue
		}
		types = append(types, typ)
	}
	return unique(types), nil
}

// DiscoverTemplateNames lists <root>/_template/*.json. A missing template
// directory has no templates.
func (l *Locator) DiscoverTemplateNames() ([]string, error) {
	if l.fsys == nil {
		return nil, errors.New("locator: no filesystem")
	}
	dir := path.Join(l.root, resource.TemplateDir)
	if _, err := fs.Stat(l.fsys, dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("locator: stat %s: %w", dir, err)
	}
	sub, err := fs.Sub(l.fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("locator: open %s: %w", dir, err)
	}
	matches, err := doublestar.Glob(sub, "*"+resource.DefinitionExt,
		doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("locator: glob %s: %w", dir, err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSuffix(path.Base(m), resource.DefinitionExt)
		if name == "" || strings.HasPrefix(name, ".") || l.excluded(name) {
			continue
		}
		names = append(names, name)
	}
	return unique(names), nil
}

// IndexNames discovers index names, falling back to fallback when the root
// cannot be read.
func (l *Locator) IndexNames(ctx context.Context, fallback []string) []string {
	names, err := l.DiscoverIndexNames()
	if err != nil {
		l.failed(ctx, resource.KindIndex, err)
		return fallback
	}
	return names
}

// MappingTypes discovers the mapping types of index, none when the index
// directory cannot be read.
func (l *Locator) MappingTypes(ctx context.Context, index string) []string {
	types, err := l.DiscoverMappingTypes(index)
	if err != nil {
		l.failed(ctx, resource.KindMapping, err)
		return nil
	}
	return types
}

// TemplateNames discovers template names, falling back to fallback when the
// template directory cannot be read.
func (l *Locator) TemplateNames(ctx context.Context, fallback []string) []string {
	names, err := l.DiscoverTemplateNames()
	if err != nil {
		l.failed(ctx, resource.KindTemplate, err)
		return fallback
	}
	return names
}

func (l *Locator) failed(ctx context.Context, kind resource.Kind, err error) {
	log.Debugf("locator: %s discovery under %s failed, using configured names: %v", kind, l.root, err)
	metric.RecordDiscoveryFailure(ctx, string(kind))
}

func (l *Locator) excluded(name string) bool {
	for _, pattern := range l.exclude {
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			log.Debugf("locator: bad exclude pattern %q: %v", pattern, err)
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

// unique drops repeated names, keeping the first occurrence.
func unique(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := names[:0]
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
