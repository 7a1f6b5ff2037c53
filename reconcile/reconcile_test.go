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
	"errors"
	"net/http"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"trpc.group/trpc-go/trpc-es-provision/resource"
	storage "trpc.group/trpc-go/trpc-es-provision/storage/elasticsearch"
)

const (
	twitterSettings = `{"settings":{"number_of_shards":1,"number_of_replicas":1}}`
	twitterUpdate   = `{"index":{"number_of_replicas":4}}`
	tweetMapping    = `{"properties":{"message":{"type":"text"},"user":{"type":"keyword"}}}`
	feedMapping     = `{"feed":{"properties":{"title":{"type":"text"}}}}`
	twitterTemplate = `{"index_patterns":["twitter*"],"template":{"settings":{"number_of_shards":1}}}`
)

func twitterTree() fstest.MapFS {
	return fstest.MapFS{
		"es/twitter/_settings.json":          {Data: []byte(twitterSettings)},
		"es/twitter/_update_settings.json":   {Data: []byte(twitterUpdate)},
		"es/twitter/tweet.json":              {Data: []byte(tweetMapping)},
		"es/rss/feed.json":                   {Data: []byte(feedMapping)},
		"es/_template/twitter_template.json": {Data: []byte(twitterTemplate)},
	}
}

func TestApply_CreatesAbsentResourcesVerbatim(t *testing.T) {
	f := newFakeCluster()
	r := New(f, WithFS(twitterTree()), WithRoot("/es"))

	report, err := r.Apply(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, report.PassID)
	assert.False(t, report.DryRun)

	require.Contains(t, f.indices, "twitter")
	require.Contains(t, f.indices, "rss")
	assert.Equal(t, []byte(twitterSettings), f.indices["twitter"].body)
	assert.Nil(t, f.indices["rss"].body)
	assert.Equal(t, []byte(tweetMapping), f.indices["twitter"].mappings["tweet"])
	// Typed legacy files are unwrapped.
	assert.JSONEq(t, `{"properties":{"title":{"type":"text"}}}`, string(f.indices["rss"].mappings["feed"]))
	assert.Equal(t, []byte(twitterTemplate), f.templates["twitter_template"])

	assert.Equal(t, 2, report.Count(resource.KindIndex, ActionCreate))
	assert.Equal(t, 2, report.Count(resource.KindMapping, ActionCreate))
	assert.Equal(t, 1, report.Count(resource.KindTemplate, ActionCreate))
	assert.True(t, report.Changed())
}

func TestApply_NoSettingsUpdateWithoutMerge(t *testing.T) {
	f := newFakeCluster()
	r := New(f, WithFS(twitterTree()), WithIndices("twitter"))
	_, err := r.Apply(context.Background())
	require.NoError(t, err)

	_, err = r.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, f.calls[opUpdateSettings])
	assert.Equal(t, 1, f.calls[opCreateIndex])
	assert.Equal(t, 0, f.calls[opDeleteIndex])
}

func TestApply_MergeSettings(t *testing.T) {
	f := newFakeCluster()
	policy := resource.DefaultPolicy()
	policy.MergeSettings = true
	r := New(f, WithFS(twitterTree()), WithIndices("twitter"), WithPolicy(policy))

	report, err := r.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, f.calls[opUpdateSettings], "a created index needs no merge")
	res, ok := report.Result(resource.KindIndex, "twitter")
	require.True(t, ok)
	assert.Equal(t, ActionCreate, res.Action)

	report, err = r.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls[opUpdateSettings])
	assert.Equal(t, [][]byte{[]byte(twitterUpdate)}, f.indices["twitter"].settings)
	res, _ = report.Result(resource.KindIndex, "twitter")
	assert.Equal(t, Result{Kind: resource.KindIndex, Name: "twitter", Present: true, Action: ActionMerge}, res)
}

func TestApply_MergeSettingsNeverReplaysCreationSettings(t *testing.T) {
	tree := fstest.MapFS{
		"es/twitter/_settings.json": {Data: []byte(twitterSettings)},
	}
	f := newFakeCluster()
	f.indices["twitter"] = &fakeIndex{mappings: map[string][]byte{}}
	opts := []Option{WithFS(tree), WithPolicy(resource.Policy{Autoscan: true, MergeSettings: true})}

	decl, err := Declare(context.Background(), opts...)
	require.NoError(t, err)
	require.Len(t, decl.Indices, 1)
	assert.Equal(t, []byte(twitterSettings), decl.Indices[0].Settings)
	assert.Nil(t, decl.Indices[0].UpdateSettings)

	report, err := New(f, opts...).Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, f.calls[opUpdateSettings])
	assert.Empty(t, f.indices["twitter"].settings)
	res, ok := report.Result(resource.KindIndex, "twitter")
	require.True(t, ok)
	assert.Equal(t, Result{Kind: resource.KindIndex, Name: "twitter", Present: true, Action: ActionSkip}, res)
	assert.False(t, report.Changed())
}

func TestApply_MergeSettingsWithoutDefinitionSkips(t *testing.T) {
	f := newFakeCluster()
	f.indices["logs"] = &fakeIndex{mappings: map[string][]byte{}}
	r := New(f, WithFS(fstest.MapFS{}), WithIndices("logs"),
		WithPolicy(resource.Policy{MergeSettings: true}))

	report, err := r.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, f.calls[opUpdateSettings])
	assert.Equal(t, 1, report.Count(resource.KindIndex, ActionSkip))
	assert.False(t, report.Changed())
}

func TestApply_ForceRecreateIndex(t *testing.T) {
	f := newFakeCluster()
	f.indices["twitter"] = &fakeIndex{body: []byte(`{"old":true}`), mappings: map[string][]byte{"tweet": []byte(`{}`)}}
	r := New(f, WithFS(twitterTree()), WithIndices("twitter"),
		WithPolicy(resource.Policy{ForceIndex: true, MergeSettings: true, Autoscan: true}))

	report, err := r.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls[opDeleteIndex])
	assert.Equal(t, 1, f.calls[opCreateIndex])
	assert.Equal(t, 0, f.calls[opUpdateSettings])
	assert.Less(t, indexOf(f.log, "delete index twitter"), indexOf(f.log, "create index twitter"))
	assert.Equal(t, []byte(twitterSettings), f.indices["twitter"].body)

	// The recreated index has no mapping, so the mapping is created again.
	res, ok := report.Result(resource.KindMapping, "twitter/tweet")
	require.True(t, ok)
	assert.Equal(t, ActionCreate, res.Action)
	assert.Equal(t, []byte(tweetMapping), f.indices["twitter"].mappings["tweet"])
}

func TestApply_Templates(t *testing.T) {
	ctx := context.Background()

	t.Run("present is skipped", func(t *testing.T) {
		f := newFakeCluster()
		f.templates["twitter_template"] = []byte(`{"old":true}`)
		_, err := New(f, WithFS(twitterTree()), WithIndices("rss")).Apply(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, f.calls[opPutTemplate])
		assert.Equal(t, []byte(`{"old":true}`), f.templates["twitter_template"])
	})

	t.Run("force deletes then puts", func(t *testing.T) {
		f := newFakeCluster()
		f.templates["twitter_template"] = []byte(`{"old":true}`)
		_, err := New(f, WithFS(twitterTree()), WithIndices("rss"),
			WithPolicy(resource.Policy{ForceTemplate: true, Autoscan: true})).Apply(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, f.calls[opDeleteTemplate])
		assert.Equal(t, 1, f.calls[opPutTemplate])
		assert.Less(t, indexOf(f.log, "delete template twitter_template"), indexOf(f.log, "put template twitter_template"))
		assert.Equal(t, []byte(twitterTemplate), f.templates["twitter_template"])
	})

	t.Run("explicit template without definition is skipped", func(t *testing.T) {
		f := newFakeCluster()
		report, err := New(f, WithFS(twitterTree()), WithIndices("rss"), WithTemplates("missing")).Apply(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, f.calls[opPutTemplate])
		res, ok := report.Result(resource.KindTemplate, "missing")
		require.True(t, ok)
		assert.Equal(t, ActionSkip, res.Action)
	})
}

func TestApply_Mappings(t *testing.T) {
	ctx := context.Background()
	existing := func() *fakeCluster {
		f := newFakeCluster()
		f.indices["twitter"] = &fakeIndex{mappings: map[string][]byte{"tweet": []byte(tweetMapping)}}
		return f
	}

	t.Run("present without merge is skipped", func(t *testing.T) {
		f := existing()
		_, err := New(f, WithFS(twitterTree()), WithMappings("twitter/tweet")).Apply(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, f.calls[opPutMapping])
	})

	t.Run("present with merge is pushed", func(t *testing.T) {
		f := existing()
		report, err := New(f, WithFS(twitterTree()), WithMappings("twitter/tweet"),
			WithPolicy(resource.Policy{MergeMapping: true})).Apply(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, f.calls[opPutMapping])
		assert.Equal(t, 1, report.Count(resource.KindMapping, ActionMerge))
	})

	t.Run("incompatible merge is fatal", func(t *testing.T) {
		f := existing()
		f.fail[opPutMapping] = &storage.ClusterError{
			Op: "put mapping", StatusCode: http.StatusBadRequest, Type: "illegal_argument_exception",
			Reason: "mapper [message] cannot be changed from type [keyword] to [text]",
		}
		_, err := New(f, WithFS(twitterTree()), WithMappings("twitter/tweet"),
			WithPolicy(resource.Policy{MergeMapping: true})).Apply(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mapper [message] cannot be changed from type [keyword] to [text]")
		assert.Contains(t, err.Error(), `mapping "twitter/tweet"`)
	})

	t.Run("present with missing fields is pushed", func(t *testing.T) {
		f := newFakeCluster()
		f.indices["twitter"] = &fakeIndex{mappings: map[string][]byte{"tweet": []byte(`{"properties":{"message":{"type":"text"}}}`)}}
		report, err := New(f, WithFS(twitterTree()), WithMappings("twitter/tweet")).Apply(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, f.calls[opPutMapping])
		res, _ := report.Result(resource.KindMapping, "twitter/tweet")
		assert.Equal(t, Result{Kind: resource.KindMapping, Name: "twitter/tweet", Action: ActionCreate}, res)
	})

	t.Run("explicit mapping declares its index", func(t *testing.T) {
		f := newFakeCluster()
		report, err := New(f, WithFS(twitterTree()), WithIndices("rss"), WithMappings("twitter/tweet")).Apply(ctx)
		require.NoError(t, err)
		assert.Contains(t, f.indices, "twitter")
		assert.Contains(t, f.indices, "rss")
		// Explicit mappings replace discovery.
		assert.Empty(t, f.indices["rss"].mappings)
		assert.Equal(t, 2, report.Count(resource.KindIndex, ActionCreate))
	})
}

func TestApply_AliasIsIdempotent(t *testing.T) {
	f := newFakeCluster()
	r := New(f, WithFS(twitterTree()), WithAliases("alltheworld:twitter", " alltheworld : rss "))

	_, err := r.Apply(context.Background())
	require.NoError(t, err)
	first := append([]string(nil), f.aliases["alltheworld"]...)

	report, err := r.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, f.aliases["alltheworld"])
	assert.Equal(t, 4, f.calls[opAddAlias])
	assert.Equal(t, 4, f.calls[opGetAlias])
	assert.Equal(t, 2, report.Count(resource.KindAlias, ActionAdd))
	for _, name := range []string{"alltheworld:twitter", "alltheworld:rss"} {
		res, ok := report.Result(resource.KindAlias, name)
		require.True(t, ok)
		assert.True(t, res.Present, name)
		assert.False(t, res.Changed(), name)
	}
	assert.False(t, report.Changed())
}

func TestApply_TypelessClusterMapsEveryTypeFile(t *testing.T) {
	tree := fstest.MapFS{
		"es/twitter/tweet.json": {Data: []byte(`{"properties":{"message":{"type":"text"}}}`)},
		"es/twitter/user.json":  {Data: []byte(`{"properties":{"name":{"type":"keyword"}}}`)},
	}
	f := newFakeCluster()
	f.typeless = true
	f.indices["twitter"] = &fakeIndex{mappings: map[string][]byte{"": []byte(`{"properties":{"message":{"type":"text"}}}`)}}

	current, err := f.GetMapping(context.Background(), "twitter", "user")
	require.NoError(t, err)
	require.JSONEq(t, `{"properties":{"message":{"type":"text"}}}`, string(current))

	report, err := New(f, WithFS(tree)).Apply(context.Background())
	require.NoError(t, err)

	tweet, ok := report.Result(resource.KindMapping, "twitter/tweet")
	require.True(t, ok)
	assert.Equal(t, Result{Kind: resource.KindMapping, Name: "twitter/tweet", Present: true, Action: ActionSkip}, tweet)
	user, ok := report.Result(resource.KindMapping, "twitter/user")
	require.True(t, ok)
	assert.Equal(t, Result{Kind: resource.KindMapping, Name: "twitter/user", Action: ActionCreate}, user)
	assert.Equal(t, 1, f.calls[opPutMapping])

	mapping, err := f.GetMapping(context.Background(), "twitter", "tweet")
	require.NoError(t, err)
	assert.Equal(t, "text", gjson.GetBytes(mapping, "properties.message.type").String())
	assert.Equal(t, "keyword", gjson.GetBytes(mapping, "properties.name.type").String())

	// A second pass finds both fields and changes nothing.
	report, err = New(f, WithFS(tree)).Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls[opPutMapping])
	assert.False(t, report.Changed())
}

func TestApply_MalformedAliasMakesNoCalls(t *testing.T) {
	for _, token := range []string{"onlyonesegment", ":twitter", "alias:", "a:b:c"} {
		t.Run(token, func(t *testing.T) {
			f := newFakeCluster()
			_, err := New(f, WithFS(twitterTree()), WithAliases("good:twitter", token)).Apply(context.Background())
			var cfgErr *resource.ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, resource.KindAlias, cfgErr.Kind)
			assert.Equal(t, 0, f.totalCalls())
		})
	}
}

func TestApply_InvalidDefinitionMakesNoCalls(t *testing.T) {
	tree := twitterTree()
	tree["es/rss/_settings.json"] = &fstest.MapFile{Data: []byte(`{"settings":`)}
	f := newFakeCluster()

	_, err := New(f, WithFS(tree)).Apply(context.Background())
	var cfgErr *resource.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "es/rss/_settings.json", cfgErr.Value)
	assert.Equal(t, 0, f.totalCalls())
}

func TestApply_EndToEnd(t *testing.T) {
	f := newFakeCluster()
	r := New(f, WithFS(twitterTree()), WithRoot("es"),
		WithAliases("alltheworld:twitter", "alltheworld:rss"))

	_, err := r.Apply(context.Background())
	require.NoError(t, err)

	body, err := f.GetAlias(context.Background(), "alltheworld")
	require.NoError(t, err)
	indices := gjson.ParseBytes(body).Map()
	assert.Len(t, indices, 2)
	assert.Contains(t, indices, "twitter")
	assert.Contains(t, indices, "rss")

	mapping, err := f.GetMapping(context.Background(), "twitter", "tweet")
	require.NoError(t, err)
	assert.Contains(t, string(mapping), `"message"`)
	assert.Contains(t, string(mapping), `"user"`)

	// Templates, then each index with its mappings, then aliases.
	assert.Equal(t, []string{
		"template exists twitter_template",
		"put template twitter_template",
		"index exists rss",
		"create index rss",
		"get mapping rss/feed",
		"put mapping rss/feed",
		"index exists twitter",
		"create index twitter",
		"get mapping twitter/tweet",
		"put mapping twitter/tweet",
		"get alias alltheworld",
		"add alias alltheworld:twitter",
		"get alias alltheworld",
		"add alias alltheworld:rss",
	}, f.log[:14])
}

func TestApply_NonDynamicSettingRejected(t *testing.T) {
	const reason = "Can't update non dynamic settings [[index.number_of_shards]] for open indices [[twitter/2Jx0]]"
	f := newFakeCluster()
	f.indices["twitter"] = &fakeIndex{mappings: map[string][]byte{}}
	f.fail[opUpdateSettings] = &storage.ClusterError{
		Op: "update settings", StatusCode: http.StatusBadRequest,
		Type: "illegal_argument_exception", Reason: reason,
	}
	r := New(f, WithFS(twitterTree()), WithIndices("twitter"), WithAliases("alltheworld:twitter"),
		WithPolicy(resource.Policy{MergeSettings: true}))

	report, err := r.Apply(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't update non dynamic settings")
	var clusterErr *storage.ClusterError
	require.True(t, errors.As(err, &clusterErr))
	assert.Equal(t, reason, clusterErr.Reason)
	// The pass stops at the failure.
	assert.Equal(t, 0, f.calls[opAddAlias])
	assert.Equal(t, 0, f.calls[opGetMapping])
	_, ok := report.Result(resource.KindIndex, "twitter")
	assert.False(t, ok)
}

func TestApply_NotAcknowledged(t *testing.T) {
	tests := []struct {
		op   string
		kind resource.Kind
		name string
	}{
		{op: opCreateIndex, kind: resource.KindIndex, name: "rss"},
		{op: opPutTemplate, kind: resource.KindTemplate, name: "twitter_template"},
		{op: opPutMapping, kind: resource.KindMapping, name: "rss/feed"},
		{op: opAddAlias, kind: resource.KindAlias, name: "feeds:rss"},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			f := newFakeCluster()
			f.nack[tt.op] = true
			_, err := New(f, WithFS(twitterTree()), WithIndices("rss"), WithAliases("feeds:rss")).
				Apply(context.Background())
			var ackErr *resource.AckError
			require.True(t, errors.As(err, &ackErr), "got %v", err)
			assert.Equal(t, tt.kind, ackErr.Kind)
			assert.Equal(t, tt.name, ackErr.Name)
		})
	}
}

func TestApply_TransportErrorIsWrapped(t *testing.T) {
	f := newFakeCluster()
	cause := errors.New("dial tcp 127.0.0.1:9200: connect: connection refused")
	f.fail[opIndexExists] = cause

	_, err := New(f, WithFS(twitterTree()), WithIndices("twitter")).Apply(context.Background())
	require.ErrorIs(t, err, cause)
	assert.Equal(t, `index "twitter": exists: `+cause.Error(), err.Error())
}

func TestApply_InlineSettings(t *testing.T) {
	f := newFakeCluster()
	r := New(f, WithFS(twitterTree()), WithIndices("twitter"),
		WithIndexSettings(map[string]string{"twitter": `{"settings":{"number_of_replicas":0}}`}))

	_, err := r.Apply(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"settings":{"number_of_shards":1,"number_of_replicas":0}}`, string(f.indices["twitter"].body))
}

func TestApply_AutoscanOff(t *testing.T) {
	f := newFakeCluster()
	report, err := New(f, WithFS(twitterTree()), WithPolicy(resource.Policy{})).Apply(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	assert.Equal(t, 0, f.totalCalls())
}

func TestPlan_MakesNoChanges(t *testing.T) {
	f := newFakeCluster()
	f.indices["twitter"] = &fakeIndex{mappings: map[string][]byte{"tweet": []byte(tweetMapping)}}
	f.aliases["alltheworld"] = []string{"twitter"}
	r := New(f, WithFS(twitterTree()), WithAliases("alltheworld:twitter", "alltheworld:rss"),
		WithPolicy(resource.Policy{Autoscan: true, MergeSettings: true, ForceTemplate: true}))

	report, err := r.Plan(context.Background())
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 0, f.mutatingCalls())

	want := []Result{
		{Kind: resource.KindTemplate, Name: "twitter_template", Action: ActionCreate},
		{Kind: resource.KindIndex, Name: "rss", Action: ActionCreate},
		{Kind: resource.KindMapping, Name: "rss/feed", Action: ActionCreate},
		{Kind: resource.KindIndex, Name: "twitter", Present: true, Action: ActionMerge},
		{Kind: resource.KindMapping, Name: "twitter/tweet", Present: true, Action: ActionSkip},
		{Kind: resource.KindAlias, Name: "alltheworld:twitter", Present: true, Action: ActionAdd},
		{Kind: resource.KindAlias, Name: "alltheworld:rss", Action: ActionAdd},
	}
	assert.Equal(t, want, report.Results)
	// The mapping of an index about to be created is not queried.
	assert.Equal(t, 1, f.calls[opGetMapping])
}

func TestApply_WithDeclarationsSkipsTree(t *testing.T) {
	decl, err := Declare(context.Background(), WithFS(twitterTree()), WithIndices("rss"))
	require.NoError(t, err)

	f := newFakeCluster()
	// The tree options are ignored once declarations are given.
	report, err := New(f, WithDeclarations(decl), WithFS(fstest.MapFS{}), WithIndices("other")).
		Apply(context.Background())
	require.NoError(t, err)
	assert.Contains(t, f.indices, "rss")
	assert.NotContains(t, f.indices, "other")
	assert.Equal(t, 1, report.Count(resource.KindTemplate, ActionCreate))
}

func TestResult_Changed(t *testing.T) {
	tests := []struct {
		res  Result
		want bool
	}{
		{res: Result{Action: ActionCreate}, want: true},
		{res: Result{Action: ActionRecreate, Present: true}, want: true},
		{res: Result{Action: ActionMerge, Present: true}, want: true},
		{res: Result{Action: ActionSkip, Present: true}, want: false},
		{res: Result{Action: ActionAdd}, want: true},
		{res: Result{Action: ActionAdd, Present: true}, want: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.res.Changed(), "%+v", tt.res)
	}
}

func TestDeclare_AutoscanDiscoversIndexSet(t *testing.T) {
	decl, err := Declare(context.Background(), WithFS(twitterTree()))
	require.NoError(t, err)

	names := make([]string, 0, len(decl.Indices))
	for _, idx := range decl.Indices {
		names = append(names, idx.Name)
	}
	assert.ElementsMatch(t, []string{"twitter", "rss"}, names)
	require.Len(t, decl.Templates, 1)
	assert.Equal(t, "twitter_template", decl.Templates[0].Name)
	assert.Empty(t, decl.Aliases)
}

func TestDeclare_DiscoveryFailureFallsBack(t *testing.T) {
	decl, err := Declare(context.Background(), WithFS(twitterTree()), WithRoot("missing"))
	require.NoError(t, err)
	assert.Empty(t, decl.Indices)
	assert.Empty(t, decl.Templates)
}

func TestDeclare_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		kind resource.Kind
	}{
		{name: "bad mapping token", opts: []Option{WithMappings("twitter")}, kind: resource.KindMapping},
		{name: "blank index", opts: []Option{WithIndices(" ")}, kind: resource.KindIndex},
		{name: "blank template", opts: []Option{WithTemplates("")}, kind: resource.KindTemplate},
		{name: "inline settings for unknown index", opts: []Option{
			WithIndices("twitter"), WithIndexSettings(map[string]string{"rss": `{}`}),
		}, kind: resource.KindIndex},
		{name: "inline settings not JSON", opts: []Option{
			WithIndices("twitter"), WithIndexSettings(map[string]string{"twitter": `nope`}),
		}, kind: resource.KindIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{WithFS(twitterTree())}, tt.opts...)
			_, err := Declare(context.Background(), opts...)
			var cfgErr *resource.ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tt.kind, cfgErr.Kind)
		})
	}
}

func TestDecide(t *testing.T) {
	force := resource.Policy{ForceIndex: true, ForceTemplate: true, MergeSettings: true, MergeMapping: true}
	merge := resource.Policy{MergeSettings: true, MergeMapping: true}
	none := resource.Policy{}

	assert.Equal(t, ActionCreate, decideIndex(false, force, true))
	assert.Equal(t, ActionRecreate, decideIndex(true, force, true))
	assert.Equal(t, ActionMerge, decideIndex(true, merge, true))
	assert.Equal(t, ActionSkip, decideIndex(true, merge, false))
	assert.Equal(t, ActionSkip, decideIndex(true, none, true))

	assert.Equal(t, ActionCreate, decideTemplate(false, none, true))
	assert.Equal(t, ActionRecreate, decideTemplate(true, force, true))
	assert.Equal(t, ActionSkip, decideTemplate(true, merge, true))
	assert.Equal(t, ActionSkip, decideTemplate(false, force, false))

	assert.Equal(t, ActionCreate, decideMapping(false, none, true))
	assert.Equal(t, ActionMerge, decideMapping(true, merge, true))
	assert.Equal(t, ActionSkip, decideMapping(true, none, true))
	assert.Equal(t, ActionSkip, decideMapping(false, merge, false))
}

func indexOf(log []string, entry string) int {
	for i, e := range log {
		if e == entry {
			return i
		}
	}
	return -1
}
