package jsonschema

import (
	"strings"

	"github.com/go-faster/errors"
)

// walk resolves a raw subtree depth-first.
//
// An object with a string "id" extends the scope for itself and its
// descendants by plain concatenation; authors supply their own "/" or "#"
// separators, per draft-4 id semantics. Siblings never observe each other's
// contributions.
func (p *resolver) walk(n *Node, scope string) (*Node, error) {
	switch n.Kind() {
	case KindObject:
		if id, ok := n.field("id").str(); ok {
			scope += id
		}
		fields := make(map[string]*Node, len(n.fields))
		for key, val := range n.fields {
			switch {
			case key == "$ref" && val.Kind() == KindScalar:
				refStr, ok := val.str()
				if !ok {
					// Not a reference, pass the pair through.
					fields[key] = val
					continue
				}
				ref, err := p.resolveRef(scopedRef(scope, refStr))
				if err != nil {
					return nil, err
				}
				fields[key] = &Node{kind: KindRef, ref: ref}
			case val.Kind() == KindObject, val.Kind() == KindArray:
				sub, err := p.walk(val, scope)
				if err != nil {
					return nil, errors.Wrapf(err, "%q", key)
				}
				fields[key] = sub
			default:
				fields[key] = val
			}
		}
		out := &Node{kind: KindObject, fields: fields}
		normalize(out)
		return out, nil
	case KindArray:
		elems := make([]*Node, len(n.elems))
		for i, el := range n.elems {
			sub, err := p.walk(el, scope)
			if err != nil {
				return nil, errors.Wrapf(err, "[%d]", i)
			}
			elems[i] = sub
		}
		return &Node{kind: KindArray, elems: elems}, nil
	default:
		return n, nil
	}
}

// scopedRef concatenates scope and ref, collapsing the doubled fragment
// marker a "#"-terminated scope produces with a pointer-only ref.
func scopedRef(scope, ref string) string {
	if strings.HasSuffix(scope, "#") && strings.HasPrefix(ref, "#") {
		ref = ref[1:]
	}
	return scope + ref
}
