//
// Tencent is pleased to support the open source community by making trpc-es-provision available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-es-provision is licensed under the Apache License Version 2.0.
//
//

package resource

import (
	"fmt"
)

// ConfigError reports a malformed declaration. It is raised before any
// cluster call is made.
type ConfigError struct {
	// Kind is the kind of the offending declaration.
	Kind Kind
	// Value is the offending token or name.
	Value string
	// Reason says what is wrong with Value.
	Reason string
}

func newConfigError(kind Kind, value, reason string) *ConfigError {
	return &ConfigError{Kind: kind, Value: value, Reason: reason}
}

// NewConfigError creates a ConfigError.
func NewConfigError(kind Kind, value, reason string) error {
	return newConfigError(kind, value, reason)
}

// Error implements error.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s %q: %s", e.Kind, e.Value, e.Reason)
}

// AckError reports that the cluster answered a state-changing call
// without acknowledging it.
type AckError struct {
	// Kind is the kind of resource being changed.
	Kind Kind
	// Name is the resource name.
	Name string
	// Op is the operation, e.g. "create" or "update settings".
	Op string
}

// Error implements error.
func (e *AckError) Error() string {
	return fmt.Sprintf("elasticsearch %s %s %q not acknowledged", e.Kind, e.Op, e.Name)
}
