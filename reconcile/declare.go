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
	"fmt"
	"slices"

	"trpc.group/trpc-go/trpc-es-provision/resource"
	"trpc.group/trpc-go/trpc-es-provision/resource/definition"
	"trpc.group/trpc-go/trpc-es-provision/resource/locator"
)

// Declarations is the desired state of one pass, in reconcile order.
type Declarations struct {
	Templates []resource.TemplateDeclaration
	Indices   []resource.IndexDeclaration
	Aliases   []resource.AliasDeclaration
}

// Declare merges the explicit configuration with the resource tree into the
// declarations of one pass. It makes no cluster call; every malformed token,
// name or definition is reported here as a *resource.ConfigError.
func Declare(ctx context.Context, opts ...Option) (*Declarations, error) {
	o := defaultOptions
	for _, opt := range opts {
		opt(&o)
	}
	return declare(ctx, &o)
}

func declare(ctx context.Context, o *options) (*Declarations, error) {
	aliases, err := resource.ParseAliases(o.aliases)
	if err != nil {
		return nil, err
	}
	explicitMappings := make([]resource.MappingDeclaration, 0, len(o.mappings))
	for _, token := range o.mappings {
		m, err := resource.ParseMapping(token)
		if err != nil {
			return nil, err
		}
		explicitMappings = append(explicitMappings, m)
	}

	src := definition.NewSource(o.fsys, o.root)
	loc := locator.New(o.fsys, o.root, locator.WithExclude(o.exclude...))
	autoscan := o.policy.Autoscan && o.fsys != nil

	templateNames := o.templates
	if len(templateNames) == 0 && autoscan {
		templateNames = loc.TemplateNames(ctx, o.templates)
	}
	templates, err := declareTemplates(src, templateNames)
	if err != nil {
		return nil, err
	}

	indexNames := o.indices
	if len(indexNames) == 0 && autoscan {
		indexNames = loc.IndexNames(ctx, o.indices)
	}
	// A mapping of an undeclared index declares the index.
	for _, m := range explicitMappings {
		indexNames = append(indexNames, m.Index)
	}
	indexNames = dedupe(indexNames)

	for index := range o.indexSettings {
		if !slices.Contains(indexNames, index) {
			return nil, resource.NewConfigError(resource.KindIndex, index, "inline settings for undeclared index")
		}
	}

	indices := make([]resource.IndexDeclaration, 0, len(indexNames))
	for _, name := range indexNames {
		if err := resource.ValidateName(resource.KindIndex, name); err != nil {
			return nil, err
		}
		idx, err := declareIndex(src, name, o.indexSettings[name])
		if err != nil {
			return nil, err
		}

		var types []string
		if len(explicitMappings) > 0 {
			for _, m := range explicitMappings {
				if m.Index == name {
					types = append(types, m.Type)
				}
			}
		} else if autoscan {
			types = loc.MappingTypes(ctx, name)
		}
		for _, typ := range dedupe(types) {
			m, err := declareMapping(src, name, typ)
			if err != nil {
				return nil, err
			}
			idx.Mappings = append(idx.Mappings, m)
		}
		indices = append(indices, idx)
	}

	return &Declarations{Templates: templates, Indices: indices, Aliases: aliases}, nil
}

func declareTemplates(src *definition.Source, names []string) ([]resource.TemplateDeclaration, error) {
	templates := make([]resource.TemplateDeclaration, 0, len(names))
	for _, name := range dedupe(names) {
		if err := resource.ValidateName(resource.KindTemplate, name); err != nil {
			return nil, err
		}
		raw, ok := src.Template(name)
		body, err := checkDefinition(raw, ok, resource.KindTemplate, name)
		if err != nil {
			return nil, err
		}
		templates = append(templates, resource.TemplateDeclaration{Name: name, Body: body})
	}
	return templates, nil
}

func declareIndex(src *definition.Source, name, inline string) (resource.IndexDeclaration, error) {
	idx := resource.IndexDeclaration{Name: name}
	raw, ok := src.IndexSettings(name)
	settings, err := checkDefinition(raw, ok, resource.KindIndex, resource.SettingsPath(src.Root(), name))
	if err != nil {
		return idx, err
	}
	if inline != "" {
		settings, err = definition.Merge(settings, []byte(inline))
		if err != nil {
			return idx, resource.NewConfigError(resource.KindIndex, name, "invalid inline settings JSON")
		}
	}
	idx.Settings = settings

	// Creation settings are never replayed as an update: most of them, such
	// as number_of_shards, are rejected on an open index.
	raw, ok = src.UpdateSettings(name)
	idx.UpdateSettings, err = checkDefinition(raw, ok, resource.KindIndex, resource.UpdateSettingsPath(src.Root(), name))
	return idx, err
}

func declareMapping(src *definition.Source, index, typ string) (resource.MappingDeclaration, error) {
	m := resource.MappingDeclaration{Index: index, Type: typ}
	if err := resource.ValidateName(resource.KindMapping, typ); err != nil {
		return m, err
	}
	raw, ok := src.Mapping(index, typ)
	body, err := checkDefinition(raw, ok, resource.KindMapping, m.String())
	if err != nil {
		return m, err
	}
	m.Body = definition.MappingBody(body, typ)
	return m, nil
}

// checkDefinition validates one read definition. Absent is not an error;
// content that is not a JSON object is.
func checkDefinition(body []byte, ok bool, kind resource.Kind, name string) ([]byte, error) {
	if !ok {
		return nil, nil
	}
	if !definition.Valid(body) {
		return nil, resource.NewConfigError(kind, name, fmt.Sprintf("definition is not a JSON object (%d bytes)", len(body)))
	}
	return body, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
