package jsonschema

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/require"
)

func testResolve(t *testing.T, data string) *Root {
	t.Helper()
	root, err := Resolve([]byte(data))
	require.NoError(t, err)
	return root
}

func mustRef(t *testing.T, root *Root, path ...string) *Ref {
	t.Helper()
	n := root.Schema
	for _, key := range path {
		var ok bool
		n, ok = n.Field(key)
		require.Truef(t, ok, "field %q", key)
	}
	require.Equal(t, KindRef, n.Kind())
	return n.Ref()
}

func TestResolvePointer(t *testing.T) {
	root := testResolve(t, `{
		"definitions": {"a": {"type": "string"}},
		"properties": {"x": {"$ref": "#/definitions/a"}}
	}`)

	ref := mustRef(t, root, "properties", "x", "$ref")
	require.Equal(t, "#/definitions/a", ref.String())

	_, target, err := ref.Resolve(root)
	require.NoError(t, err)
	raw, err := target.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"type": "string"}`, string(raw))

	// The resolver stays re-invocable.
	_, again, err := ref.Resolve(root)
	require.NoError(t, err)
	require.Same(t, target, again)
}

func TestResolveEscaping(t *testing.T) {
	root := testResolve(t, `{
		"~/": {"type": "string"},
		"properties": {"x": {"$ref": "#/~0~1"}}
	}`)

	_, target, err := mustRef(t, root, "properties", "x", "$ref").Resolve(root)
	require.NoError(t, err)
	raw, err := target.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"type": "string"}`, string(raw))
}

func TestResolveSelfReference(t *testing.T) {
	root := testResolve(t, `{
		"id": "#",
		"properties": {"child": {"$ref": "#"}}
	}`)

	rroot, target, err := mustRef(t, root, "properties", "child", "$ref").Resolve(root)
	require.NoError(t, err)
	require.Same(t, root.Schema, target)
	require.Same(t, root, rroot)
}

func TestResolveForwardRef(t *testing.T) {
	// The eager probe runs against the raw document, so a reference
	// appearing before its target in document order must resolve.
	root := testResolve(t, `{
		"properties": {"a": {"$ref": "#/definitions/z"}},
		"definitions": {"z": {"type": "integer"}}
	}`)

	_, target, err := mustRef(t, root, "properties", "a", "$ref").Resolve(root)
	require.NoError(t, err)
	raw, err := target.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"type": "integer"}`, string(raw))
}

func TestResolveIndexPointer(t *testing.T) {
	root := testResolve(t, `{
		"definitions": {
			"list": {"items": [{"type": "string"}, {"type": "integer"}]}
		},
		"properties": {"x": {"$ref": "#/definitions/list/items/1"}}
	}`)

	_, target, err := mustRef(t, root, "properties", "x", "$ref").Resolve(root)
	require.NoError(t, err)
	raw, err := target.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"type": "integer"}`, string(raw))
}

func TestResolveUnresolvable(t *testing.T) {
	_, err := Resolve([]byte(`{"$ref": "#/nope"}`))
	require.Error(t, err)

	var invalid *InvalidSchemaError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "#/nope", invalid.Ref)
}

func TestResolveRemoteUnresolvable(t *testing.T) {
	const defsURL = "http://example.com/defs.json"
	remote := newFakeRemote(map[string]string{
		defsURL: `{"definitions": {"s": {"type": "string"}}}`,
	})

	_, err := Resolve(
		[]byte(`{"$ref": "http://example.com/defs.json#/definitions/missing"}`),
		WithRemote(remote),
	)
	require.Error(t, err)

	var invalid *InvalidSchemaError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "http://example.com/defs.json#/definitions/missing", invalid.Ref)
}

func TestResolveVersionGate(t *testing.T) {
	// The version check runs before any structural resolution: the bad
	// reference must never be reached.
	_, err := Resolve([]byte(`{
		"$schema": "http://json-schema.org/draft-03/schema#",
		"$ref": "#/nope"
	}`))
	require.Error(t, err)

	var unsupported *UnsupportedVersionError
	require.ErrorAs(t, err, &unsupported)
	require.Equal(t, "http://json-schema.org/draft-03/schema#", unsupported.Version)
}

func TestResolveVersionAccepted(t *testing.T) {
	for i, data := range []string{
		`{"$schema": "http://json-schema.org/schema#"}`,
		`{"$schema": "http://json-schema.org/schema"}`,
		`{"$schema": "http://json-schema.org/draft-04/schema#"}`,
		`{}`,
	} {
		data := data
		t.Run(fmt.Sprintf("Test%d", i+1), func(t *testing.T) {
			testResolve(t, data)
		})
	}
}

func TestResolveMetaValidation(t *testing.T) {
	_, err := Resolve([]byte(`{"type": 123}`))
	require.Error(t, err)

	var invalid *InvalidSchemaError
	require.ErrorAs(t, err, &invalid)
	require.Empty(t, invalid.Ref)
	require.NotEmpty(t, invalid.Errors)
}

func TestResolvePassThrough(t *testing.T) {
	root, err := Resolve([]byte(`[1, 2, 3]`))
	require.NoError(t, err)
	raw, err := root.Schema.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `[1, 2, 3]`, string(raw))
}

type fakeRemote struct {
	calls map[string]int
	docs  map[string]string
}

func newFakeRemote(docs map[string]string) *fakeRemote {
	return &fakeRemote{
		calls: map[string]int{},
		docs:  docs,
	}
}

func (f *fakeRemote) Resolve(_ context.Context, url string) ([]byte, error) {
	f.calls[url]++
	doc, ok := f.docs[url]
	if !ok {
		return nil, errors.Errorf("unknown document %q", url)
	}
	return []byte(doc), nil
}

func TestResolveRemote(t *testing.T) {
	const defsURL = "http://example.com/defs.json"
	remote := newFakeRemote(map[string]string{
		defsURL: `{"definitions": {
			"s": {"type": "string"},
			"t": {"type": "integer"}
		}}`,
	})

	root, err := Resolve([]byte(`{"properties": {
		"a": {"$ref": "http://example.com/defs.json#/definitions/s"},
		"b": {"$ref": "http://example.com/defs.json#/definitions/t"}
	}}`), WithRemote(remote))
	require.NoError(t, err)

	// Both references share one fetch.
	require.Equal(t, 1, remote.calls[defsURL])

	_, target, err := mustRef(t, root, "properties", "b", "$ref").Resolve(root)
	require.NoError(t, err)
	raw, err := target.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"type": "integer"}`, string(raw))
}

func TestResolveRemoteSelfReference(t *testing.T) {
	const selfURL = "http://example.com/self.json"
	remote := newFakeRemote(map[string]string{
		selfURL: `{"definitions": {
			"s": {"type": "string"},
			"loop": {"$ref": "http://example.com/self.json#/definitions/s"}
		}}`,
	})

	root, err := Resolve(
		[]byte(`{"$ref": "http://example.com/self.json#/definitions/loop"}`),
		WithRemote(remote),
	)
	require.NoError(t, err)
	require.Equal(t, 1, remote.calls[selfURL])

	rroot, target, err := mustRef(t, root, "$ref").Resolve(root)
	require.NoError(t, err)
	_, inner, err := mustRef(t, &Root{Schema: target, Refs: rroot.Refs}, "$ref").Resolve(rroot)
	require.NoError(t, err)
	raw, err := inner.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"type": "string"}`, string(raw))
}

func TestResolveRemoteFetchFailure(t *testing.T) {
	remote := newFakeRemote(nil)
	_, err := Resolve(
		[]byte(`{"$ref": "http://example.com/missing.json#"}`),
		WithRemote(remote),
	)
	require.ErrorContains(t, err, "missing.json")
}

func TestResolveMetaSchemaBuiltin(t *testing.T) {
	// References to the canonical URLs never hit the fetcher.
	remote := newFakeRemote(nil)
	root, err := Resolve(
		[]byte(`{"$ref": "http://json-schema.org/draft-04/schema#"}`),
		WithRemote(remote),
	)
	require.NoError(t, err)
	require.Empty(t, remote.calls)

	_, target, err := mustRef(t, root, "$ref").Resolve(root)
	require.NoError(t, err)
	require.Equal(t, KindObject, target.Kind())
}
