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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlias(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    AliasDeclaration
		wantErr string
	}{
		{name: "valid", token: "alltheworld:twitter", want: AliasDeclaration{Alias: "alltheworld", Index: "twitter"}},
		{name: "trimmed", token: " all : rss ", want: AliasDeclaration{Alias: "all", Index: "rss"}},
		{name: "no separator", token: "onlyonesegment", wantErr: "expected alias:index"},
		{name: "empty alias", token: ":twitter", wantErr: "alias name is empty"},
		{name: "empty index", token: "alltheworld:", wantErr: "index name is empty"},
		{name: "too many segments", token: "a:b:c", wantErr: "expected alias:index"},
		{name: "empty token", token: "", wantErr: "expected alias:index"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAlias(tt.token)
			if tt.wantErr != "" {
				require.Error(t, err)
				var cfgErr *ConfigError
				require.True(t, errors.As(err, &cfgErr))
				assert.Equal(t, KindAlias, cfgErr.Kind)
				assert.Equal(t, tt.token, cfgErr.Value)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Alias+":"+tt.want.Index, got.String())
		})
	}
}

func TestParseAliases_StopsAtFirstError(t *testing.T) {
	aliases, err := ParseAliases([]string{"a:b", "bad", "c:d"})
	require.Error(t, err)
	assert.Nil(t, aliases)
	assert.Contains(t, err.Error(), `"bad"`)

	aliases, err = ParseAliases([]string{"a:b", "c:d"})
	require.NoError(t, err)
	assert.Equal(t, []AliasDeclaration{{Alias: "a", Index: "b"}, {Alias: "c", Index: "d"}}, aliases)
}

func TestParseMapping(t *testing.T) {
	m, err := ParseMapping("twitter/tweet")
	require.NoError(t, err)
	assert.Equal(t, MappingDeclaration{Index: "twitter", Type: "tweet"}, m)
	assert.Equal(t, "twitter/tweet", m.String())

	for _, token := range []string{"twitter", "/tweet", "twitter/", "a/b/c"} {
		_, err := ParseMapping(token)
		var cfgErr *ConfigError
		require.True(t, errors.As(err, &cfgErr), token)
		assert.Equal(t, KindMapping, cfgErr.Kind)
	}
}

func TestValidateName(t *testing.T) {
	require.NoError(t, ValidateName(KindIndex, "twitter"))
	require.Error(t, ValidateName(KindIndex, ""))
	require.Error(t, ValidateName(KindTemplate, "  "))
	require.Error(t, ValidateName(KindIndex, " twitter"))
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.True(t, p.Autoscan)
	assert.False(t, p.ForceIndex)
	assert.False(t, p.ForceTemplate)
	assert.False(t, p.MergeSettings)
	assert.False(t, p.MergeMapping)
}

func TestErrorMessages(t *testing.T) {
	err := NewConfigError(KindAlias, "x", "expected alias:index")
	assert.Equal(t, `configuration error: alias "x": expected alias:index`, err.Error())

	ack := &AckError{Kind: KindIndex, Name: "twitter", Op: "create"}
	assert.Equal(t, `elasticsearch index create "twitter" not acknowledged`, ack.Error())
}
