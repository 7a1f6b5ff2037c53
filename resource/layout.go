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
	"path"
	"strings"
)

// Resource tree layout:
//
//	<root>/<index>/_settings.json         creation body (settings and mappings)
//	<root>/<index>/_update_settings.json  body of the merge-settings call
//	<root>/<index>/<type>.json            per-type mapping
//	<root>/_template/<name>.json          template body
const (
	// DefaultRoot is the resource tree root used when none is configured.
	DefaultRoot = "es"
	// SettingsFile holds the index creation body.
	SettingsFile = "_settings.json"
	// UpdateSettingsFile holds the body used to merge settings into an existing index.
	UpdateSettingsFile = "_update_settings.json"
	// TemplateDir is the directory holding template definitions.
	TemplateDir = "_template"
	// DefinitionExt is the extension of every definition file.
	DefinitionExt = ".json"
)

// CleanRoot turns a configured root into an fs.FS path: leading and trailing
// slashes are dropped and an empty root becomes ".".
func CleanRoot(root string) string {
	root = strings.Trim(root, "/")
	if root == "" {
		return "."
	}
	return path.Clean(root)
}

// SettingsPath returns the path of the creation body of index.
func SettingsPath(root, index string) string {
	return path.Join(CleanRoot(root), index, SettingsFile)
}

// UpdateSettingsPath returns the path of the merge-settings body of index.
func UpdateSettingsPath(root, index string) string {
	return path.Join(CleanRoot(root), index, UpdateSettingsFile)
}

// MappingPath returns the path of the mapping of typ in index.
func MappingPath(root, index, typ string) string {
	return path.Join(CleanRoot(root), index, typ+DefinitionExt)
}

// TemplatePath returns the path of the template body of name.
func TemplatePath(root, name string) string {
	return path.Join(CleanRoot(root), TemplateDir, name+DefinitionExt)
}

// IsReserved reports whether a file or directory name is reserved by the
// layout and never names a resource.
func IsReserved(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}
