//
// Tencent is pleased to support the open source community by making trpc-es-provision available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-es-provision is licensed under the Apache License Version 2.0.
//
//

package elasticsearch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	esv8 "github.com/elastic/go-elasticsearch/v8"
	esapi8 "github.com/elastic/go-elasticsearch/v8/esapi"

	"trpc.group/trpc-go/trpc-es-provision/log"
)

var _ Client = (*clientV8)(nil)

// clientV8 implements Client for v8 clusters. Mapping types no longer exist,
// so type names only label log lines; templates are composable _index_template.
type clientV8 struct {
	esClient *esv8.Client
}

// Ping checks if Elasticsearch is available.
func (c *clientV8) Ping(ctx context.Context) error {
	res, err := c.esClient.Ping(c.esClient.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	_, err = readBody("ping", res.StatusCode, res.Body)
	return err
}

// IndexExists returns whether the specified index exists.
func (c *clientV8) IndexExists(ctx context.Context, indexName string) (bool, error) {
	res, err := c.esClient.Indices.Exists(
		[]string{indexName},
		c.esClient.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, err
	}
	return exists("index exists", res.StatusCode, res.Body)
}

// CreateIndex creates an index with the provided body.
func (c *clientV8) CreateIndex(ctx context.Context, indexName string, body []byte) (bool, error) {
	opts := []func(*esapi8.IndicesCreateRequest){c.esClient.Indices.Create.WithContext(ctx)}
	if len(body) > 0 {
		opts = append(opts, c.esClient.Indices.Create.WithBody(bytes.NewReader(body)))
	}
	res, err := c.esClient.Indices.Create(indexName, opts...)
	if err != nil {
		return false, err
	}
	return acknowledged("create index", res.StatusCode, res.Body)
}

// DeleteIndex deletes the specified index.
func (c *clientV8) DeleteIndex(ctx context.Context, indexName string) error {
	res, err := c.esClient.Indices.Delete(
		[]string{indexName},
		c.esClient.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	_, err = readBody("delete index", res.StatusCode, res.Body)
	return err
}

// UpdateIndexSettings updates the dynamic settings of an index.
func (c *clientV8) UpdateIndexSettings(ctx context.Context, indexName string, body []byte) (bool, error) {
	res, err := c.esClient.Indices.PutSettings(
		bytes.NewReader(body),
		c.esClient.Indices.PutSettings.WithIndex(indexName),
		c.esClient.Indices.PutSettings.WithContext(ctx),
	)
	if err != nil {
		return false, err
	}
	return acknowledged("update settings", res.StatusCode, res.Body)
}

// GetMapping returns the index mapping, nil when the index has none. The
// mapping is typeless: every typeName yields the same body.
func (c *clientV8) GetMapping(ctx context.Context, indexName, typeName string) ([]byte, error) {
	log.Debugf("elasticsearch: v8 mappings are typeless, reading %s for type %s", indexName, typeName)
	res, err := c.esClient.Indices.GetMapping(
		c.esClient.Indices.GetMapping.WithIndex(indexName),
		c.esClient.Indices.GetMapping.WithContext(ctx),
	)
	if err != nil {
		return nil, err
	}
	body, err := readBody("get mapping", res.StatusCode, res.Body)
	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return typelessMapping(body), nil
}

// PutMapping creates or merges the index mapping.
func (c *clientV8) PutMapping(ctx context.Context, indexName, typeName string, body []byte) (bool, error) {
	log.Debugf("elasticsearch: v8 mappings are typeless, writing %s for type %s", indexName, typeName)
	res, err := c.esClient.Indices.PutMapping(
		[]string{indexName},
		bytes.NewReader(body),
		c.esClient.Indices.PutMapping.WithContext(ctx),
	)
	if err != nil {
		return false, err
	}
	return acknowledged("put mapping", res.StatusCode, res.Body)
}

// TemplateExists returns whether the composable index template exists.
func (c *clientV8) TemplateExists(ctx context.Context, name string) (bool, error) {
	res, err := c.esClient.Indices.ExistsIndexTemplate(
		name,
		c.esClient.Indices.ExistsIndexTemplate.WithContext(ctx),
	)
	if err != nil {
		return false, err
	}
	return exists("template exists", res.StatusCode, res.Body)
}

// PutTemplate creates or replaces the composable index template.
func (c *clientV8) PutTemplate(ctx context.Context, name string, body []byte) (bool, error) {
	res, err := c.esClient.Indices.PutIndexTemplate(
		name,
		bytes.NewReader(body),
		c.esClient.Indices.PutIndexTemplate.WithContext(ctx),
	)
	if err != nil {
		return false, err
	}
	return acknowledged("put template", res.StatusCode, res.Body)
}

// DeleteTemplate deletes the composable index template.
func (c *clientV8) DeleteTemplate(ctx context.Context, name string) error {
	res, err := c.esClient.Indices.DeleteIndexTemplate(
		name,
		c.esClient.Indices.DeleteIndexTemplate.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	_, err = readBody("delete template", res.StatusCode, res.Body)
	return err
}

// AddAlias points alias at the index.
func (c *clientV8) AddAlias(ctx context.Context, indexName, alias string) (bool, error) {
	res, err := c.esClient.Indices.PutAlias(
		[]string{indexName},
		alias,
		c.esClient.Indices.PutAlias.WithContext(ctx),
	)
	if err != nil {
		return false, err
	}
	return acknowledged("add alias", res.StatusCode, res.Body)
}

// GetAlias returns the alias description, nil when absent.
func (c *clientV8) GetAlias(ctx context.Context, alias string) ([]byte, error) {
	res, err := c.esClient.Indices.GetAlias(
		c.esClient.Indices.GetAlias.WithName(alias),
		c.esClient.Indices.GetAlias.WithContext(ctx),
	)
	if err != nil {
		return nil, err
	}
	body, err := readBody("get alias", res.StatusCode, res.Body)
	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("elasticsearch get alias %s: %w", alias, err)
	}
	return body, nil
}

// Raw returns the underlying *elasticsearch.Client of the v8 SDK.
func (c *clientV8) Raw() any { return c.esClient }

// Close releases resources held by the client.
func (c *clientV8) Close() error { return nil }
