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
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
)

// TLSConfig describes how to reach a TLS-protected cluster.
// It is owned by the caller and read once per client build.
type TLSConfig struct {
	// CACert is the path to a PEM file with the CA certificates to trust.
	CACert string
	// ClientCert is the path to the client certificate for mutual TLS.
	ClientCert string
	// ClientKey is the path to the key of ClientCert.
	ClientKey string
	// InsecureSkipVerify disables server certificate verification.
	InsecureSkipVerify bool
	// ServerName overrides the server name used for verification.
	ServerName string
}

var errTLSWithTransport = errors.New("elasticsearch: tls config cannot be combined with a custom transport")

// build loads the certificates referenced by c into a *tls.Config.
func (c *TLSConfig) build() (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: c.InsecureSkipVerify, //nolint:gosec // opt-in, for test clusters
		ServerName:         c.ServerName,
	}

	if (c.ClientCert == "") != (c.ClientKey == "") {
		return nil, errors.New("elasticsearch: client cert and client key must be set together")
	}
	if c.ClientCert != "" {
		cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("elasticsearch: load client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	if c.CACert != "" {
		caCert, err := os.ReadFile(c.CACert)
		if err != nil {
			return nil, fmt.Errorf("elasticsearch: read CA certificate: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("elasticsearch: no certificates found in %s", c.CACert)
		}
		tlsConfig.RootCAs = pool
	}
	return tlsConfig, nil
}

// transport returns the transport to hand to the SDK, nil for the SDK default.
func transport(o *ClientBuilderOpts) (http.RoundTripper, error) {
	if o.TLS == nil {
		return o.Transport, nil
	}
	if o.Transport != nil {
		return nil, errTLSWithTransport
	}
	tlsConfig, err := o.TLS.build()
	if err != nil {
		return nil, err
	}
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.TLSClientConfig = tlsConfig
	return t, nil
}
