//
// Tencent is pleased to support the open source community by making trpc-es-provision available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-es-provision is licensed under the Apache License Version 2.0.
//
//

package definition

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var errNotObject = errors.New("definition: not a JSON object")

// sjsonEscaper escapes the characters sjson treats as path syntax.
var sjsonEscaper = strings.NewReplacer(
	`\`, `\\`,
	`.`, `\.`,
	`*`, `\*`,
	`?`, `\?`,
	`|`, `\|`,
	`#`, `\#`,
	`@`, `\@`,
	`:`, `\:`,
)

// Valid reports whether raw is a well-formed JSON object.
func Valid(raw []byte) bool {
	return gjson.ValidBytes(raw) && gjson.ParseBytes(raw).IsObject()
}

// Merge deep-merges overlay into base and returns the result. Objects merge
// key by key; any other overlay value replaces the base value. An empty side
// yields the other side unchanged.
func Merge(base, overlay []byte) ([]byte, error) {
	if len(overlay) == 0 {
		return base, nil
	}
	if !Valid(overlay) {
		return nil, errNotObject
	}
	if len(base) == 0 {
		return overlay, nil
	}
	if !Valid(base) {
		return nil, errNotObject
	}
	return mergeObject(base, gjson.ParseBytes(overlay), "")
}

func mergeObject(base []byte, overlay gjson.Result, prefix string) ([]byte, error) {
	var err error
	overlay.ForEach(func(key, value gjson.Result) bool {
		p := prefix + sjsonEscaper.Replace(key.String())
		current := gjson.GetBytes(base, p)
		if current.IsObject() && value.IsObject() {
			base, err = mergeObject(base, value, p+".")
		} else {
			base, err = sjson.SetRawBytes(base, p, []byte(value.Raw))
		}
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return base, nil
}

// MappingCovers reports whether every field declared under "properties" of
// declared, at any depth, is mapped in current. Without declared properties
// any existing mapping covers it. Field types are not compared.
func MappingCovers(current, declared []byte) bool {
	if len(current) == 0 {
		return false
	}
	return coversProperties(gjson.ParseBytes(current), gjson.ParseBytes(declared))
}

func coversProperties(current, declared gjson.Result) bool {
	want := declared.Get("properties")
	if !want.IsObject() {
		return true
	}
	have := current.Get("properties").Map()
	covered := true
	want.ForEach(func(key, field gjson.Result) bool {
		existing, ok := have[key.String()]
		covered = ok && coversProperties(existing, field)
		return covered
	})
	return covered
}

// MappingBody returns the typeless form of a mapping definition. Legacy files
// wrapped as {"<typ>": {...}} are unwrapped.
func MappingBody(raw []byte, typ string) []byte {
	if len(raw) == 0 {
		return nil
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return raw
	}
	fields := doc.Map()
	if inner, ok := fields[typ]; ok && len(fields) == 1 && inner.IsObject() {
		return []byte(inner.Raw)
	}
	return raw
}
