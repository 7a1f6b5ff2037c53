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

	storage "trpc.group/trpc-go/trpc-es-provision/storage/elasticsearch"
)

var _ storage.Client = (*forwardingClient)(nil)

// forwardingClient waits for background provisioning on every call, then
// delegates to the provisioned client or returns the provisioning error.
type forwardingClient struct {
	future *future
}

func (c *forwardingClient) Ping(ctx context.Context) error {
	client, err := c.future.get(ctx)
	if err != nil {
		return err
	}
	return client.Ping(ctx)
}

func (c *forwardingClient) IndexExists(ctx context.Context, indexName string) (bool, error) {
	client, err := c.future.get(ctx)
	if err != nil {
		return false, err
	}
	return client.IndexExists(ctx, indexName)
}

func (c *forwardingClient) CreateIndex(ctx context.Context, indexName string, body []byte) (bool, error) {
	client, err := c.future.get(ctx)
	if err != nil {
		return false, err
	}
	return client.CreateIndex(ctx, indexName, body)
}

func (c *forwardingClient) DeleteIndex(ctx context.Context, indexName string) error {
	client, err := c.future.get(ctx)
	if err != nil {
		return err
	}
	return client.DeleteIndex(ctx, indexName)
}

func (c *forwardingClient) UpdateIndexSettings(ctx context.Context, indexName string, body []byte) (bool, error) {
	client, err := c.future.get(ctx)
	if err != nil {
		return false, err
	}
	return client.UpdateIndexSettings(ctx, indexName, body)
}

func (c *forwardingClient) GetMapping(ctx context.Context, indexName, typeName string) ([]byte, error) {
	client, err := c.future.get(ctx)
	if err != nil {
		return nil, err
	}
	return client.GetMapping(ctx, indexName, typeName)
}

func (c *forwardingClient) PutMapping(ctx context.Context, indexName, typeName string, body []byte) (bool, error) {
	client, err := c.future.get(ctx)
	if err != nil {
		return false, err
	}
	return client.PutMapping(ctx, indexName, typeName, body)
}

func (c *forwardingClient) TemplateExists(ctx context.Context, name string) (bool, error) {
	client, err := c.future.get(ctx)
	if err != nil {
		return false, err
	}
	return client.TemplateExists(ctx, name)
}

func (c *forwardingClient) PutTemplate(ctx context.Context, name string, body []byte) (bool, error) {
	client, err := c.future.get(ctx)
	if err != nil {
		return false, err
	}
	return client.PutTemplate(ctx, name, body)
}

func (c *forwardingClient) DeleteTemplate(ctx context.Context, name string) error {
	client, err := c.future.get(ctx)
	if err != nil {
		return err
	}
	return client.DeleteTemplate(ctx, name)
}

func (c *forwardingClient) AddAlias(ctx context.Context, indexName, alias string) (bool, error) {
	client, err := c.future.get(ctx)
	if err != nil {
		return false, err
	}
	return client.AddAlias(ctx, indexName, alias)
}

func (c *forwardingClient) GetAlias(ctx context.Context, alias string) ([]byte, error) {
	client, err := c.future.get(ctx)
	if err != nil {
		return nil, err
	}
	return client.GetAlias(ctx, alias)
}

// Raw waits for provisioning and returns the SDK client, nil if
// provisioning failed.
func (c *forwardingClient) Raw() any {
	client, err := c.future.get(context.Background())
	if err != nil {
		return nil
	}
	return client.Raw()
}

// Close waits for provisioning and closes the provisioned client.
func (c *forwardingClient) Close() error {
	_ = c.future.wait(context.Background())
	return c.future.close()
}
