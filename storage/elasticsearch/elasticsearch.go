//
// Tencent is pleased to support the open source community by making trpc-es-provision available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-es-provision is licensed under the Apache License Version 2.0.
//
//

// Package elasticsearch builds Elasticsearch clients for the provisioner and
// adapts the v7, v8 and v9 SDKs to one cluster port.
package elasticsearch

import (
	"fmt"
	"io"
	"net/http"

	esv7 "github.com/elastic/go-elasticsearch/v7"
	esv8 "github.com/elastic/go-elasticsearch/v8"
	esv9 "github.com/elastic/go-elasticsearch/v9"
	"github.com/tidwall/gjson"

	ielasticsearch "trpc.group/trpc-go/trpc-es-provision/internal/storage/elasticsearch"
)

// Client is the Elasticsearch cluster port.
type Client = ielasticsearch.Client

// ClusterError is an explicit error status returned by the cluster.
// Reason carries the cluster's own message verbatim.
type ClusterError struct {
	// Op is the operation that failed, e.g. "update settings".
	Op string
	// StatusCode is the HTTP status code.
	StatusCode int
	// Type is the cluster error type, e.g. "illegal_argument_exception".
	Type string
	// Reason is the cluster error reason.
	Reason string
	// Body is the raw response body.
	Body []byte
}

// Error implements error.
func (e *ClusterError) Error() string {
	status := fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	switch {
	case e.Type != "" && e.Reason != "":
		return fmt.Sprintf("elasticsearch %s failed: %s: %s: %s", e.Op, status, e.Type, e.Reason)
	case e.Reason != "":
		return fmt.Sprintf("elasticsearch %s failed: %s: %s", e.Op, status, e.Reason)
	case len(e.Body) > 0:
		return fmt.Sprintf("elasticsearch %s failed: %s: %s", e.Op, status, string(e.Body))
	default:
		return fmt.Sprintf("elasticsearch %s failed: %s", e.Op, status)
	}
}

func newClusterError(op string, statusCode int, body []byte) *ClusterError {
	e := &ClusterError{Op: op, StatusCode: statusCode, Body: body}
	if !gjson.ValidBytes(body) {
		return e
	}
	cause := gjson.GetBytes(body, "error")
	switch {
	case cause.IsObject():
		e.Type = cause.Get("type").String()
		e.Reason = cause.Get("reason").String()
	case cause.Type == gjson.String:
		e.Reason = cause.String()
	}
	return e
}

// defaultClientBuilder builds an SDK client for the selected version.
func defaultClientBuilder(builderOpts ...ClientBuilderOpt) (any, error) {
	o := &ClientBuilderOpts{}
	for _, opt := range builderOpts {
		opt(o)
	}
	rt, err := transport(o)
	if err != nil {
		return nil, err
	}

	switch o.Version {
	case ESVersionV7:
		return esv7.NewClient(esv7.Config{
			Addresses:              o.Addresses,
			Username:               o.Username,
			Password:               o.Password,
			APIKey:                 o.APIKey,
			CertificateFingerprint: o.CertificateFingerprint,
			Transport:              rt,
			CompressRequestBody:    o.CompressRequestBody,
			EnableMetrics:          o.EnableMetrics,
			EnableDebugLogger:      o.EnableDebugLogger,
			RetryOnStatus:          o.RetryOnStatus,
			MaxRetries:             o.MaxRetries,
			DisableRetry:           o.DisableRetry,
		})
	case ESVersionV8, ESVersionUnspecified:
		return esv8.NewClient(esv8.Config{
			Addresses:              o.Addresses,
			Username:               o.Username,
			Password:               o.Password,
			APIKey:                 o.APIKey,
			CertificateFingerprint: o.CertificateFingerprint,
			Transport:              rt,
			CompressRequestBody:    o.CompressRequestBody,
			EnableMetrics:          o.EnableMetrics,
			EnableDebugLogger:      o.EnableDebugLogger,
			RetryOnStatus:          o.RetryOnStatus,
			MaxRetries:             o.MaxRetries,
			DisableRetry:           o.DisableRetry,
		})
	case ESVersionV9:
		return esv9.NewClient(esv9.Config{
			Addresses:              o.Addresses,
			Username:               o.Username,
			Password:               o.Password,
			APIKey:                 o.APIKey,
			CertificateFingerprint: o.CertificateFingerprint,
			Transport:              rt,
			CompressRequestBody:    o.CompressRequestBody,
			EnableMetrics:          o.EnableMetrics,
			EnableDebugLogger:      o.EnableDebugLogger,
			RetryOnStatus:          o.RetryOnStatus,
			MaxRetries:             o.MaxRetries,
			DisableRetry:           o.DisableRetry,
		})
	default:
		return nil, fmt.Errorf("elasticsearch: unknown version %s", o.Version)
	}
}

// WrapSDKClient wraps an SDK client built by any client builder into Client.
func WrapSDKClient(client any) (Client, error) {
	switch c := client.(type) {
	case *esv7.Client:
		return &clientV7{esClient: c}, nil
	case *esv8.Client:
		return &clientV8{esClient: c}, nil
	case *esv9.Client:
		return &clientV9{esClient: c}, nil
	case Client:
		return c, nil
	default:
		return nil, fmt.Errorf("elasticsearch client is not supported, type: %T", client)
	}
}

// NewClient builds a client with the global builder and wraps it.
func NewClient(builderOpts ...ClientBuilderOpt) (Client, error) {
	sdkClient, err := GetClientBuilder()(builderOpts...)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch create client: %w", err)
	}
	return WrapSDKClient(sdkClient)
}

// readBody drains and closes a response body. Status codes above 299 become
// a *ClusterError.
func readBody(op string, statusCode int, body io.ReadCloser) ([]byte, error) {
	var data []byte
	if body != nil {
		defer body.Close()
		var err error
		data, err = io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("elasticsearch %s: read response: %w", op, err)
		}
	}
	if statusCode > 299 {
		return data, newClusterError(op, statusCode, data)
	}
	return data, nil
}

// acknowledged reads the acknowledged flag of a state-changing response.
func acknowledged(op string, statusCode int, body io.ReadCloser) (bool, error) {
	data, err := readBody(op, statusCode, body)
	if err != nil {
		return false, err
	}
	return gjson.GetBytes(data, "acknowledged").Bool(), nil
}

// exists maps a HEAD response onto a presence flag.
func exists(op string, statusCode int, body io.ReadCloser) (bool, error) {
	_, err := readBody(op, statusCode, body)
	switch {
	case statusCode == http.StatusNotFound:
		return false, nil
	case err != nil:
		return false, err
	}
	return statusCode == http.StatusOK, nil
}

// firstIndexMappings returns the "mappings" object of the first index in a
// get-mapping response. Responses are keyed by the concrete index name, which
// differs from the requested name when it is an alias.
func firstIndexMappings(body []byte) gjson.Result {
	var mappings gjson.Result
	gjson.ParseBytes(body).ForEach(func(_, value gjson.Result) bool {
		mappings = value.Get("mappings")
		return false
	})
	return mappings
}

// typedMapping extracts the mapping of typeName from a typed get-mapping
// response, nil when absent.
func typedMapping(body []byte, typeName string) []byte {
	mappings := firstIndexMappings(body)
	if !mappings.IsObject() {
		return nil
	}
	m, ok := mappings.Map()[typeName]
	if !ok || !m.IsObject() {
		return nil
	}
	return []byte(m.Raw)
}

// typelessMapping extracts the mapping from a typeless get-mapping response,
// nil when the index has no mapping yet.
func typelessMapping(body []byte) []byte {
	mappings := firstIndexMappings(body)
	if !mappings.IsObject() || len(mappings.Map()) == 0 {
		return nil
	}
	return []byte(mappings.Raw)
}
