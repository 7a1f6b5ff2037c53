//
// Tencent is pleased to support the open source community by making trpc-es-provision available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-es-provision is licensed under the Apache License Version 2.0.
//
//

// Package elasticsearch provides the cluster port used by the reconciler.
package elasticsearch

import (
	"context"
)

// Client defines the schema-level operations the reconciler needs.
// Use []byte payloads to decouple from SDK typed APIs. Calls that change
// cluster state report whether the cluster acknowledged them; explicit
// cluster rejections come back as errors.
type Client interface {
	// Ping checks if Elasticsearch is available.
	Ping(ctx context.Context) error
	// IndexExists returns whether the specified index exists.
	IndexExists(ctx context.Context, indexName string) (bool, error)
	// CreateIndex creates an index with the provided body, nil body for cluster defaults.
	CreateIndex(ctx context.Context, indexName string, body []byte) (bool, error)
	// DeleteIndex deletes the specified index.
	DeleteIndex(ctx context.Context, indexName string) error
	// UpdateIndexSettings updates the dynamic settings of an index.
	UpdateIndexSettings(ctx context.Context, indexName string, body []byte) (bool, error)
	// GetMapping returns the mapping of a type, nil when the type has no mapping.
	// Typeless clusters (v8, v9) return the whole index mapping for any type.
	GetMapping(ctx context.Context, indexName, typeName string) ([]byte, error)
	// PutMapping creates or merges the mapping of a type.
	PutMapping(ctx context.Context, indexName, typeName string, body []byte) (bool, error)
	// TemplateExists returns whether the named index template exists.
	TemplateExists(ctx context.Context, name string) (bool, error)
	// PutTemplate creates or replaces the named index template.
	PutTemplate(ctx context.Context, name string, body []byte) (bool, error)
	// DeleteTemplate deletes the named index template.
	DeleteTemplate(ctx context.Context, name string) error
	// AddAlias points alias at the index.
	AddAlias(ctx context.Context, indexName, alias string) (bool, error)
	// GetAlias returns the raw alias description, nil when the alias does not exist.
	GetAlias(ctx context.Context, alias string) ([]byte, error)
	// Raw exposes the underlying SDK client.
	Raw() any
	// Close releases resources held by the client.
	Close() error
}
