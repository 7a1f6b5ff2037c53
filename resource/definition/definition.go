//
// Tencent is pleased to support the open source community by making trpc-es-provision available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-es-provision is licensed under the Apache License Version 2.0.
//
//

// Package definition reads JSON resource definitions from a resource tree and
// normalises them into the bodies sent to the cluster.
package definition

import (
	"errors"
	"io/fs"

	"trpc.group/trpc-go/trpc-es-provision/log"
	"trpc.group/trpc-go/trpc-es-provision/resource"
)

// Read returns the content of the file at p. A missing file, and any other
// read failure, is reported as absent: no definition means cluster defaults.
func Read(fsys fs.FS, p string) ([]byte, bool) {
	if fsys == nil {
		return nil, false
	}
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Debugf("definition: read %s: %v", p, err)
		}
		return nil, false
	}
	return data, true
}

// Source reads the definitions of one resource tree.
type Source struct {
	fsys fs.FS
	root string
}

// NewSource creates a Source over root of fsys.
func NewSource(fsys fs.FS, root string) *Source {
	return &Source{fsys: fsys, root: resource.CleanRoot(root)}
}

// FS returns the filesystem the source reads from.
func (s *Source) FS() fs.FS { return s.fsys }

// Root returns the cleaned resource tree root.
func (s *Source) Root() string { return s.root }

// IndexSettings reads <root>/<index>/_settings.json.
func (s *Source) IndexSettings(index string) ([]byte, bool) {
	return Read(s.fsys, resource.SettingsPath(s.root, index))
}

// UpdateSettings reads <root>/<index>/_update_settings.json.
func (s *Source) UpdateSettings(index string) ([]byte, bool) {
	return Read(s.fsys, resource.UpdateSettingsPath(s.root, index))
}

// Mapping reads <root>/<index>/<typ>.json.
func (s *Source) Mapping(index, typ string) ([]byte, bool) {
	return Read(s.fsys, resource.MappingPath(s.root, index, typ))
}

// Template reads <root>/_template/<name>.json.
func (s *Source) Template(name string) ([]byte, bool) {
	return Read(s.fsys, resource.TemplatePath(s.root, name))
}
