//
// Tencent is pleased to support the open source community by making trpc-es-provision available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-es-provision is licensed under the Apache License Version 2.0.
//
//

// Package resource defines the declarations reconciled against an
// Elasticsearch cluster and the errors raised while doing so.
package resource

import (
	"strings"
)

// Kind is the class of a provisioned resource.
type Kind string

// Resource kinds, in reconciliation order.
const (
	KindTemplate Kind = "template"
	KindIndex    Kind = "index"
	KindMapping  Kind = "mapping"
	KindAlias    Kind = "alias"
)

const (
	// aliasSeparator separates alias and index in an alias token.
	aliasSeparator = ":"
	// mappingSeparator separates index and type in a mapping token.
	mappingSeparator = "/"
)

// IndexDeclaration is the desired state of one index.
type IndexDeclaration struct {
	// Name is the index name.
	Name string
	// Settings is the creation body (settings and mappings), nil for cluster defaults.
	Settings []byte
	// UpdateSettings is the body sent when merging settings into an existing index.
	UpdateSettings []byte
	// Mappings are the per-type mappings reconciled after the index.
	Mappings []MappingDeclaration
}

// MappingDeclaration is the desired mapping of one type of an index.
type MappingDeclaration struct {
	// Index is the owning index.
	Index string
	// Type is the legacy mapping type name.
	Type string
	// Body is the typeless mapping body.
	Body []byte
}

// String returns the "index/type" form of the declaration.
func (m MappingDeclaration) String() string {
	return m.Index + mappingSeparator + m.Type
}

// AliasDeclaration points Alias at Index.
type AliasDeclaration struct {
	Alias string
	Index string
}

// String returns the "alias:index" form of the declaration.
func (a AliasDeclaration) String() string {
	return a.Alias + aliasSeparator + a.Index
}

// TemplateDeclaration is the desired state of one index template.
type TemplateDeclaration struct {
	Name string
	Body []byte
}

// Policy controls what the reconciler may do to resources that already exist.
// It is passed by value and never changes during a pass.
type Policy struct {
	// ForceIndex deletes and recreates existing indices. All data is lost.
	ForceIndex bool
	// ForceTemplate deletes and recreates existing templates.
	ForceTemplate bool
	// MergeSettings pushes update settings to existing indices.
	MergeSettings bool
	// MergeMapping pushes mappings to existing types.
	MergeMapping bool
	// Autoscan discovers resources from the resource tree when none are listed.
	Autoscan bool
}

// DefaultPolicy returns the policy used when nothing is configured: autoscan on,
// everything else off.
func DefaultPolicy() Policy {
	return Policy{Autoscan: true}
}

// ParseAlias parses an "alias:index" token.
func ParseAlias(token string) (AliasDeclaration, error) {
	parts := strings.Split(token, aliasSeparator)
	if len(parts) != 2 {
		return AliasDeclaration{}, newConfigError(KindAlias, token, "expected alias:index")
	}
	alias, index := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if alias == "" {
		return AliasDeclaration{}, newConfigError(KindAlias, token, "alias name is empty")
	}
	if index == "" {
		return AliasDeclaration{}, newConfigError(KindAlias, token, "index name is empty")
	}
	return AliasDeclaration{Alias: alias, Index: index}, nil
}

// ParseAliases parses every token, stopping at the first malformed one.
func ParseAliases(tokens []string) ([]AliasDeclaration, error) {
	aliases := make([]AliasDeclaration, 0, len(tokens))
	for _, token := range tokens {
		a, err := ParseAlias(token)
		if err != nil {
			return nil, err
		}
		aliases = append(aliases, a)
	}
	return aliases, nil
}

// ParseMapping parses an "index/type" token.
func ParseMapping(token string) (MappingDeclaration, error) {
	parts := strings.Split(token, mappingSeparator)
	if len(parts) != 2 {
		return MappingDeclaration{}, newConfigError(KindMapping, token, "expected index/type")
	}
	index, typ := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if index == "" {
		return MappingDeclaration{}, newConfigError(KindMapping, token, "index name is empty")
	}
	if typ == "" {
		return MappingDeclaration{}, newConfigError(KindMapping, token, "type name is empty")
	}
	return MappingDeclaration{Index: index, Type: typ}, nil
}

// ValidateName checks a template or index name.
func ValidateName(kind Kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return newConfigError(kind, name, "name is empty")
	}
	if strings.TrimSpace(name) != name {
		return newConfigError(kind, name, "name has surrounding whitespace")
	}
	return nil
}
