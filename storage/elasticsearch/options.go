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
	"net/http"
	"sync"
)

var (
	registryMu sync.RWMutex
	// esRegistry stores named Elasticsearch instance builder options.
	esRegistry = make(map[string][]ClientBuilderOpt)
)

// clientBuilder builds an SDK client (*elasticsearch.Client of v7, v8 or v9)
// from builder options.
type clientBuilder func(builderOpts ...ClientBuilderOpt) (any, error)

// globalBuilder is the function used to build SDK clients.
var globalBuilder clientBuilder = defaultClientBuilder

// SetClientBuilder sets the global Elasticsearch client builder.
func SetClientBuilder(builder clientBuilder) {
	globalBuilder = builder
}

// GetClientBuilder gets the global Elasticsearch client builder.
func GetClientBuilder() clientBuilder {
	return globalBuilder
}

// RegisterElasticsearchInstance registers options for a named instance.
// Options registered twice under the same name accumulate in order.
func RegisterElasticsearchInstance(name string, opts ...ClientBuilderOpt) {
	registryMu.Lock()
	defer registryMu.Unlock()
	esRegistry[name] = append(esRegistry[name], opts...)
}

// GetElasticsearchInstance gets the registered options for a named instance.
func GetElasticsearchInstance(name string) ([]ClientBuilderOpt, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	opts, ok := esRegistry[name]
	return opts, ok
}

// ClientBuilderOpt is the option for the Elasticsearch client builder.
type ClientBuilderOpt func(*ClientBuilderOpts)

// ClientBuilderOpts is the options for the Elasticsearch client builder.
type ClientBuilderOpts struct {
	// Version selects the target Elasticsearch major version.
	// ESVersionUnspecified selects the default, v8.
	Version ESVersion

	// Addresses is the list of Elasticsearch node addresses.
	Addresses []string
	// Username is the username for authentication.
	Username string
	// Password is the password for authentication.
	Password string
	// APIKey is the API key for authentication.
	APIKey string
	// CertificateFingerprint is the certificate fingerprint for authentication.
	CertificateFingerprint string
	// TLS is the caller-owned TLS configuration, nil for the SDK defaults.
	TLS *TLSConfig
	// Transport replaces the HTTP transport. It cannot be combined with TLS.
	Transport http.RoundTripper
	// CompressRequestBody is the flag to enable request body compression.
	CompressRequestBody bool
	// EnableMetrics is the flag to enable metrics.
	EnableMetrics bool
	// EnableDebugLogger is the flag to enable debug logger.
	EnableDebugLogger bool
	// RetryOnStatus is the list of status codes to retry on.
	RetryOnStatus []int
	// MaxRetries is the maximum number of retries.
	MaxRetries int
	// DisableRetry disables the SDK transport retries.
	DisableRetry bool

	// ExtraOptions allows custom builders to accept extra parameters.
	ExtraOptions []any
}

// WithAddresses sets node addresses.
func WithAddresses(addresses []string) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) { o.Addresses = addresses }
}

// WithUsername sets username.
func WithUsername(username string) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) { o.Username = username }
}

// WithPassword sets password.
func WithPassword(password string) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) { o.Password = password }
}

// WithAPIKey sets API key.
func WithAPIKey(apiKey string) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) { o.APIKey = apiKey }
}

// WithCertificateFingerprint sets TLS certificate fingerprint.
func WithCertificateFingerprint(fp string) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) { o.CertificateFingerprint = fp }
}

// WithTLS sets the TLS configuration.
func WithTLS(cfg *TLSConfig) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) { o.TLS = cfg }
}

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) { o.Transport = rt }
}

// WithCompressRequestBody toggles request body compression.
func WithCompressRequestBody(enabled bool) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) { o.CompressRequestBody = enabled }
}

// WithEnableMetrics toggles transport metrics.
func WithEnableMetrics(enabled bool) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) { o.EnableMetrics = enabled }
}

// WithEnableDebugLogger toggles debug logger.
func WithEnableDebugLogger(enabled bool) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) { o.EnableDebugLogger = enabled }
}

// WithRetryOnStatus sets HTTP retry status codes.
func WithRetryOnStatus(codes []int) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) { o.RetryOnStatus = codes }
}

// WithMaxRetries sets max retries.
func WithMaxRetries(n int) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) { o.MaxRetries = n }
}

// WithDisableRetry turns off SDK transport retries.
func WithDisableRetry(disabled bool) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) { o.DisableRetry = disabled }
}

// WithExtraOptions adds extra, builder-specific options.
func WithExtraOptions(extraOptions ...any) ClientBuilderOpt {
	return func(opts *ClientBuilderOpts) {
		opts.ExtraOptions = append(opts.ExtraOptions, extraOptions...)
	}
}

// ESVersion represents the Elasticsearch major version.
type ESVersion string

const (
	// ESVersionUnspecified means no explicit version preference.
	ESVersionUnspecified ESVersion = ""
	// ESVersionV7 selects Elasticsearch v7.
	ESVersionV7 ESVersion = "v7"
	// ESVersionV8 selects Elasticsearch v8.
	ESVersionV8 ESVersion = "v8"
	// ESVersionV9 selects Elasticsearch v9.
	ESVersionV9 ESVersion = "v9"
)

// WithVersion sets the preferred Elasticsearch major version.
func WithVersion(v ESVersion) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) { o.Version = v }
}
