package jsonschema

import (
	"github.com/go-faster/jx"

	"github.com/schemakit/jsonschema/internal/jsonpointer"
)

// Root is the resolution context threaded through a resolve call: the document
// being resolved plus the cache of remote documents keyed by absolute URL.
//
// During resolution Schema holds the raw input document; once the walk
// completes it is replaced by the resolved tree. Refs entries are fully
// resolved documents, fetched at most once per root.
type Root struct {
	Schema *Node
	Refs   map[string]*Node
}

// Ref is a deferred reference, built at resolve time and dereferenced against
// a Root at the time it is invoked. It is re-invocable any number of times,
// against different roots; it never eagerly expands its target, which is what
// makes cyclic schemas representable.
type Ref struct {
	ref string              // scoped ref string, for diagnostics
	url string              // remote document URL, empty for local references
	ptr []jsonpointer.Token // nil addresses the whole document
}

// String returns the scoped reference string.
func (r *Ref) String() string { return r.ref }

// Resolve dereferences r against root.
//
// For remote references the returned root is a synthetic one whose schema is
// the cached remote document, so that references embedded in the target keep
// resolving within that document. An absent or null target is an
// *InvalidSchemaError.
func (r *Ref) Resolve(root *Root) (*Root, *Node, error) {
	if r.url != "" {
		remote, ok := root.Refs[r.url]
		if !ok {
			return nil, nil, &InvalidSchemaError{Ref: r.ref}
		}
		root = &Root{Schema: remote, Refs: root.Refs}
	}
	n := root.Schema
	for _, tok := range r.ptr {
		n = navigate(n, tok)
		if n == nil {
			break
		}
	}
	if n == nil || (n.kind == KindScalar && n.scalar.Type() == jx.Null) {
		return nil, nil, &InvalidSchemaError{Ref: r.ref}
	}
	return root, n, nil
}

func navigate(n *Node, tok jsonpointer.Token) *Node {
	switch {
	case n == nil:
		return nil
	case tok.IsIndex:
		if n.kind != KindArray || tok.Index >= len(n.elems) {
			return nil
		}
		return n.elems[tok.Index]
	default:
		return n.field(tok.Key)
	}
}
