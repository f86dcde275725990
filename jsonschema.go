// Package jsonschema resolves draft-4 JSON Schema documents: every $ref
// becomes a deferred resolver bound to a resolution root, remote documents are
// fetched and cached exactly once, and base-URI scope is computed from nested
// id declarations.
package jsonschema

import (
	"strings"

	"github.com/go-faster/errors"
)

// resolver carries one resolution: the root being built and the remote
// fetcher. The root is held exclusively; remote recursion uses a child
// resolver and merges its cache back.
type resolver struct {
	root   *Root
	remote RemoteResolver
}

// Option configures a resolution.
type Option func(p *resolver)

// WithRemote sets the resolver used to fetch remote schema documents.
func WithRemote(remote RemoteResolver) Option {
	return func(p *resolver) {
		p.remote = remote
	}
}

// Resolve parses data as a draft-4 JSON Schema document and resolves every
// reference in it. The returned root's Schema is the resolved document; its
// Refs cache must stay reachable for later dereferencing of embedded Ref
// values.
func Resolve(data []byte, opts ...Option) (*Root, error) {
	doc, err := decodeBytes(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	return ResolveNode(doc, opts...)
}

// ResolveNode resolves an already decoded document. Non-object documents pass
// through unchanged.
func ResolveNode(doc *Node, opts ...Option) (*Root, error) {
	p := &resolver{
		root: &Root{
			Schema: doc,
			Refs:   map[string]*Node{},
		},
		remote: Remote{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p.resolveRoot()
}

func (p *resolver) resolveRoot() (*Root, error) {
	doc := p.root.Schema
	if doc.Kind() != KindObject {
		return p.root, nil
	}

	if err := checkVersion(doc); err != nil {
		return nil, err
	}

	// The meta-schema cannot be validated against itself: resolving it is
	// what produces the validator's schema in the first place.
	if id, _ := doc.field("id").str(); !strings.HasPrefix(id, SchemaURLDraft4) {
		m, err := meta()
		if err != nil {
			return nil, errors.Wrap(err, "resolve meta-schema")
		}
		raw, err := doc.MarshalJSON()
		if err != nil {
			return nil, err
		}
		if errs := validateSchema(m, m.Schema, raw); len(errs) > 0 {
			return nil, &InvalidSchemaError{Errors: errs}
		}
	}

	walked, err := p.walk(doc, "")
	if err != nil {
		return nil, err
	}
	p.root.Schema = walked
	return p.root, nil
}

func checkVersion(doc *Node) error {
	version := SchemaURL + "#"
	if v, ok := doc.Field("$schema"); ok {
		s, ok := v.str()
		if !ok {
			raw, _ := v.MarshalJSON()
			return &UnsupportedVersionError{Version: string(raw)}
		}
		version = s
	}
	if !strings.HasPrefix(version, SchemaURL) && !strings.HasPrefix(version, SchemaURLDraft4) {
		return &UnsupportedVersionError{Version: version}
	}
	return nil
}
