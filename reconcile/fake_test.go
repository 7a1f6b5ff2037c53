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
	"context"
	"encoding/json"
	"slices"
	"sync"

	"trpc.group/trpc-go/trpc-es-provision/resource/definition"
	storage "trpc.group/trpc-go/trpc-es-provision/storage/elasticsearch"
)

// Operation names recorded by fakeCluster.
const (
	opIndexExists    = "index exists"
	opCreateIndex    = "create index"
	opDeleteIndex    = "delete index"
	opUpdateSettings = "update settings"
	opGetMapping     = "get mapping"
	opPutMapping     = "put mapping"
	opTemplateExists = "template exists"
	opPutTemplate    = "put template"
	opDeleteTemplate = "delete template"
	opAddAlias       = "add alias"
	opGetAlias       = "get alias"
)

var mutatingOps = []string{
	opCreateIndex, opDeleteIndex, opUpdateSettings, opPutMapping,
	opPutTemplate, opDeleteTemplate, opAddAlias,
}

type fakeIndex struct {
	body     []byte
	settings [][]byte
	mappings map[string][]byte
}

// fakeCluster is an in-memory cluster port with call counters.
type fakeCluster struct {
	mu        sync.Mutex
	indices   map[string]*fakeIndex
	templates map[string][]byte
	aliases   map[string][]string
	calls     map[string]int
	log       []string
	nack      map[string]bool
	fail      map[string]error
	closed    bool
	// typeless keeps one merged mapping per index, returned for every
	// type, the way 7.x+ clusters behave.
	typeless  bool
}

var _ storage.Client = (*fakeCluster)(nil)

func newFakeCluster() *fakeCluster {
	return &fakeCluster{
		indices:   make(map[string]*fakeIndex),
		templates: make(map[string][]byte),
		aliases:   make(map[string][]string),
		calls:     make(map[string]int),
		nack:      make(map[string]bool),
		fail:      make(map[string]error),
	}
}

// record counts op and returns the error configured for it.
func (f *fakeCluster) record(op, name string) error {
	f.calls[op]++
	f.log = append(f.log, op+" "+name)
	return f.fail[op]
}

func (f *fakeCluster) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeCluster) mutatingCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, op := range mutatingOps {
		n += f.calls[op]
	}
	return n
}

func (f *fakeCluster) Ping(context.Context) error { return nil }

func (f *fakeCluster) IndexExists(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(opIndexExists, name); err != nil {
		return false, err
	}
	_, ok := f.indices[name]
	return ok, nil
}

func (f *fakeCluster) CreateIndex(_ context.Context, name string, body []byte) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(opCreateIndex, name); err != nil {
		return false, err
	}
	if f.nack[opCreateIndex] {
		return false, nil
	}
	f.indices[name] = &fakeIndex{body: body, mappings: make(map[string][]byte)}
	return true, nil
}

func (f *fakeCluster) DeleteIndex(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(opDeleteIndex, name); err != nil {
		return err
	}
	delete(f.indices, name)
	for alias, indices := range f.aliases {
		f.aliases[alias] = slices.DeleteFunc(indices, func(i string) bool { return i == name })
	}
	return nil
}

func (f *fakeCluster) UpdateIndexSettings(_ context.Context, name string, body []byte) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(opUpdateSettings, name); err != nil {
		return false, err
	}
	if f.nack[opUpdateSettings] {
		return false, nil
	}
	idx := f.indices[name]
	idx.settings = append(idx.settings, body)
	return true, nil
}

func (f *fakeCluster) GetMapping(_ context.Context, index, typ string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(opGetMapping, index+"/"+typ); err != nil {
		return nil, err
	}
	idx, ok := f.indices[index]
	if !ok {
		return nil, nil
	}
	return idx.mappings[f.mappingKey(typ)], nil
}

func (f *fakeCluster) PutMapping(_ context.Context, index, typ string, body []byte) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(opPutMapping, index+"/"+typ); err != nil {
		return false, err
	}
	if f.nack[opPutMapping] {
		return false, nil
	}
	idx := f.indices[index]
	key := f.mappingKey(typ)
	if !f.typeless {
		idx.mappings[key] = body
		return true, nil
	}
	merged, err := definition.Merge(idx.mappings[key], body)
	if err != nil {
		return false, err
	}
	idx.mappings[key] = merged
	return true, nil
}

func (f *fakeCluster) mappingKey(typ string) string {
	if f.typeless {
		return ""
	}
	return typ
}

func (f *fakeCluster) TemplateExists(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(opTemplateExists, name); err != nil {
		return false, err
	}
	_, ok := f.templates[name]
	return ok, nil
}

func (f *fakeCluster) PutTemplate(_ context.Context, name string, body []byte) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(opPutTemplate, name); err != nil {
		return false, err
	}
	if f.nack[opPutTemplate] {
		return false, nil
	}
	f.templates[name] = body
	return true, nil
}

func (f *fakeCluster) DeleteTemplate(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(opDeleteTemplate, name); err != nil {
		return err
	}
	delete(f.templates, name)
	return nil
}

func (f *fakeCluster) AddAlias(_ context.Context, index, alias string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(opAddAlias, alias+":"+index); err != nil {
		return false, err
	}
	if f.nack[opAddAlias] {
		return false, nil
	}
	if !slices.Contains(f.aliases[alias], index) {
		f.aliases[alias] = append(f.aliases[alias], index)
	}
	return true, nil
}

// GetAlias answers like GET /_alias/<alias>.
func (f *fakeCluster) GetAlias(_ context.Context, alias string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(opGetAlias, alias); err != nil {
		return nil, err
	}
	indices := f.aliases[alias]
	if len(indices) == 0 {
		return nil, nil
	}
	resp := make(map[string]any, len(indices))
	for _, index := range indices {
		resp[index] = map[string]any{"aliases": map[string]any{alias: map[string]any{}}}
	}
	return json.Marshal(resp)
}

func (f *fakeCluster) Raw() any { return nil }

func (f *fakeCluster) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
