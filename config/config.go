//
// Tencent is pleased to support the open source community by making trpc-es-provision available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-es-provision is licensed under the Apache License Version 2.0.
//
//

// Package config loads provisioning settings from a YAML file.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"trpc.group/trpc-go/trpc-es-provision/provision"
	"trpc.group/trpc-go/trpc-es-provision/reconcile"
	"trpc.group/trpc-go/trpc-es-provision/resource"
	"trpc.group/trpc-go/trpc-es-provision/resource/definition"
	storage "trpc.group/trpc-go/trpc-es-provision/storage/elasticsearch"
)

// Kinds of configuration values that are not resources.
const (
	KindVersion resource.Kind = "version"
	KindExclude resource.Kind = "exclude"
	KindSetting resource.Kind = "index_settings"
)

// Config is the file form of the provisioning options.
type Config struct {
	// ClasspathRoot is the resource root inside ResourceDir.
	ClasspathRoot string `yaml:"classpath_root"`
	// ResourceDir is the directory the resource tree is read from.
	ResourceDir string `yaml:"resource_dir"`

	Indices   []string `yaml:"indices"`
	Mappings  []string `yaml:"mappings"`
	Aliases   []string `yaml:"aliases"`
	Templates []string `yaml:"templates"`
	Exclude   []string `yaml:"exclude"`
	// IndexSettings maps an index to settings merged over its _settings.json.
	// A value is either a JSON string or a YAML mapping.
	IndexSettings map[string]yaml.Node `yaml:"index_settings"`

	ForceIndex    bool  `yaml:"force_index"`
	ForceTemplate bool  `yaml:"force_template"`
	MergeSettings bool  `yaml:"merge_settings"`
	MergeMapping  bool  `yaml:"merge_mapping"`
	Autoscan      *bool `yaml:"autoscan"`
	Async         bool  `yaml:"async"`
	Ping          *bool `yaml:"ping"`

	Addresses              []string   `yaml:"addresses"`
	Username               string     `yaml:"username"`
	Password               string     `yaml:"password"`
	APIKey                 string     `yaml:"api_key"`
	CertificateFingerprint string     `yaml:"certificate_fingerprint"`
	TLS                    *TLSConfig `yaml:"tls"`
	Version                string     `yaml:"version"`
	MaxRetries             int        `yaml:"max_retries"`
	RetryOnStatus          []int      `yaml:"retry_on_status"`
	DisableRetry           bool       `yaml:"disable_retry"`
}

// TLSConfig is the file form of storage.TLSConfig.
type TLSConfig struct {
	CACert             string `yaml:"ca_cert"`
	ClientCert         string `yaml:"client_cert"`
	ClientKey          string `yaml:"client_key"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	ServerName         string `yaml:"server_name"`
}

// Default returns the configuration used for keys the file leaves out.
func Default() *Config {
	return &Config{
		ClasspathRoot: resource.DefaultRoot,
		ResourceDir:   ".",
	}
}

// Load reads and validates the YAML file at path. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML config data.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that can be checked without the resource tree.
func (c *Config) Validate() error {
	switch storage.ESVersion(c.Version) {
	case storage.ESVersionUnspecified, storage.ESVersionV7, storage.ESVersionV8, storage.ESVersionV9:
	default:
		return resource.NewConfigError(KindVersion, c.Version, "expected v7, v8 or v9")
	}
	for _, p := range c.Exclude {
		if !doublestar.ValidatePattern(p) {
			return resource.NewConfigError(KindExclude, p, "invalid pattern")
		}
	}
	if _, err := resource.ParseAliases(c.Aliases); err != nil {
		return err
	}
	for _, m := range c.Mappings {
		if _, err := resource.ParseMapping(m); err != nil {
			return err
		}
	}
	if _, err := c.indexSettings(); err != nil {
		return err
	}
	if c.TLS != nil && (c.TLS.ClientCert == "") != (c.TLS.ClientKey == "") {
		return errors.New("config: tls.client_cert and tls.client_key must be set together")
	}
	return nil
}

// Policy returns the reconcile policy the config describes.
func (c *Config) Policy() resource.Policy {
	p := resource.DefaultPolicy()
	p.ForceIndex = c.ForceIndex
	p.ForceTemplate = c.ForceTemplate
	p.MergeSettings = c.MergeSettings
	p.MergeMapping = c.MergeMapping
	if c.Autoscan != nil {
		p.Autoscan = *c.Autoscan
	}
	return p
}

// ReconcileOptions returns the reconcile options the config describes. The
// resource tree is read from os.DirFS(ResourceDir).
func (c *Config) ReconcileOptions() ([]reconcile.Option, error) {
	settings, err := c.indexSettings()
	if err != nil {
		return nil, err
	}
	dir := c.ResourceDir
	if dir == "" {
		dir = "."
	}
	return []reconcile.Option{
		reconcile.WithFS(os.DirFS(dir)),
		reconcile.WithRoot(c.ClasspathRoot),
		reconcile.WithIndices(c.Indices...),
		reconcile.WithMappings(c.Mappings...),
		reconcile.WithAliases(c.Aliases...),
		reconcile.WithTemplates(c.Templates...),
		reconcile.WithExclude(c.Exclude...),
		reconcile.WithIndexSettings(settings),
		reconcile.WithPolicy(c.Policy()),
	}, nil
}

// ClientOptions returns the client builder options the config describes.
func (c *Config) ClientOptions() []storage.ClientBuilderOpt {
	opts := []storage.ClientBuilderOpt{
		storage.WithVersion(storage.ESVersion(c.Version)),
	}
	if len(c.Addresses) > 0 {
		opts = append(opts, storage.WithAddresses(slices.Clone(c.Addresses)))
	}
	if c.Username != "" {
		opts = append(opts, storage.WithUsername(c.Username), storage.WithPassword(c.Password))
	}
	if c.APIKey != "" {
		opts = append(opts, storage.WithAPIKey(c.APIKey))
	}
	if c.CertificateFingerprint != "" {
		opts = append(opts, storage.WithCertificateFingerprint(c.CertificateFingerprint))
	}
	if c.TLS != nil {
		opts = append(opts, storage.WithTLS(&storage.TLSConfig{
			CACert:             c.TLS.CACert,
			ClientCert:         c.TLS.ClientCert,
			ClientKey:          c.TLS.ClientKey,
			InsecureSkipVerify: c.TLS.InsecureSkipVerify,
			ServerName:         c.TLS.ServerName,
		}))
	}
	if c.MaxRetries > 0 {
		opts = append(opts, storage.WithMaxRetries(c.MaxRetries))
	}
	if len(c.RetryOnStatus) > 0 {
		opts = append(opts, storage.WithRetryOnStatus(slices.Clone(c.RetryOnStatus)))
	}
	if c.DisableRetry {
		opts = append(opts, storage.WithDisableRetry(true))
	}
	return opts
}

// Options returns the provision options the config describes.
func (c *Config) Options() ([]provision.Option, error) {
	reconcileOpts, err := c.ReconcileOptions()
	if err != nil {
		return nil, err
	}
	opts := []provision.Option{
		provision.WithClientBuilderOptions(c.ClientOptions()...),
		provision.WithReconcileOptions(reconcileOpts...),
		provision.WithAsync(c.Async),
	}
	if c.Ping != nil {
		opts = append(opts, provision.WithPing(*c.Ping))
	}
	return opts, nil
}

// indexSettings converts index_settings values to JSON strings.
func (c *Config) indexSettings() (map[string]string, error) {
	if len(c.IndexSettings) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(c.IndexSettings))
	for index, node := range c.IndexSettings {
		var raw string
		if node.Kind == yaml.ScalarNode {
			raw = strings.TrimSpace(node.Value)
		} else {
			var v any
			if err := node.Decode(&v); err != nil {
				return nil, resource.NewConfigError(KindSetting, index, err.Error())
			}
			b, err := json.Marshal(v)
			if err != nil {
				return nil, resource.NewConfigError(KindSetting, index, err.Error())
			}
			raw = string(b)
		}
		if !definition.Valid([]byte(raw)) {
			return nil, resource.NewConfigError(KindSetting, index, "not a JSON object")
		}
		out[index] = raw
	}
	return out, nil
}
