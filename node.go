package jsonschema

import (
	"math/big"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Kind is a Node shape tag.
type Kind uint8

const (
	// KindInvalid is the zero Kind.
	KindInvalid Kind = iota
	// KindScalar is a string, number, boolean or null.
	KindScalar
	// KindObject is a string-keyed mapping.
	KindObject
	// KindArray is an ordered sequence.
	KindArray
	// KindRef is a deferred reference, present only in resolved documents.
	KindRef
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindRef:
		return "ref"
	default:
		return "invalid"
	}
}

// Node is a JSON value as threaded through schema resolution.
//
// Raw documents consist of scalar, object and array nodes. Resolved documents
// additionally contain reference nodes in place of "$ref" values: resolution
// never inlines a reference target, so cyclic schemas stay finite.
type Node struct {
	kind   Kind
	scalar jx.Raw
	fields map[string]*Node
	elems  []*Node
	ref    *Ref
}

// Kind reports the node shape.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindInvalid
	}
	return n.kind
}

// Field returns the named property of an object node.
func (n *Node) Field(key string) (*Node, bool) {
	v := n.field(key)
	return v, v != nil
}

func (n *Node) field(key string) *Node {
	if n == nil || n.kind != KindObject {
		return nil
	}
	return n.fields[key]
}

// Fields returns the property mapping of an object node. Nil otherwise.
func (n *Node) Fields() map[string]*Node {
	if n == nil || n.kind != KindObject {
		return nil
	}
	return n.fields
}

// Elems returns the elements of an array node. Nil otherwise.
func (n *Node) Elems() []*Node {
	if n == nil || n.kind != KindArray {
		return nil
	}
	return n.elems
}

// Raw returns the raw JSON of a scalar node.
func (n *Node) Raw() jx.Raw {
	if n == nil || n.kind != KindScalar {
		return nil
	}
	return n.scalar
}

// Ref returns the deferred reference of a reference node.
func (n *Node) Ref() *Ref {
	if n == nil || n.kind != KindRef {
		return nil
	}
	return n.ref
}

func (n *Node) str() (string, bool) {
	if n == nil || n.kind != KindScalar || n.scalar.Type() != jx.String {
		return "", false
	}
	s, err := jx.DecodeBytes(n.scalar).Str()
	if err != nil {
		return "", false
	}
	return s, true
}

func (n *Node) boolVal() (bool, bool) {
	if n == nil || n.kind != KindScalar || n.scalar.Type() != jx.Bool {
		return false, false
	}
	b, err := jx.DecodeBytes(n.scalar).Bool()
	if err != nil {
		return false, false
	}
	return b, true
}

func (n *Node) uintVal() (uint64, bool) {
	if n == nil || n.kind != KindScalar || n.scalar.Type() != jx.Number {
		return 0, false
	}
	v, err := jx.DecodeBytes(n.scalar).UInt64()
	if err != nil {
		return 0, false
	}
	return v, true
}

func (n *Node) rat() (*big.Rat, bool) {
	if n == nil || n.kind != KindScalar || n.scalar.Type() != jx.Number {
		return nil, false
	}
	num, err := jx.DecodeBytes(n.scalar).Num()
	if err != nil {
		return nil, false
	}
	val := new(big.Rat)
	if err := val.UnmarshalText(num); err != nil {
		return nil, false
	}
	return val, true
}

// Encode writes the node as JSON. Reference nodes encode as their scoped ref
// string, mirroring the "$ref" value they replaced.
func (n *Node) Encode(e *jx.Encoder) {
	switch n.Kind() {
	case KindScalar:
		e.Raw(n.scalar)
	case KindObject:
		e.ObjStart()
		for key, val := range n.fields {
			e.FieldStart(key)
			val.Encode(e)
		}
		e.ObjEnd()
	case KindArray:
		e.ArrStart()
		for _, el := range n.elems {
			el.Encode(e)
		}
		e.ArrEnd()
	case KindRef:
		e.Str(n.ref.String())
	default:
		e.Null()
	}
}

// MarshalJSON implements json.Marshaler.
func (n *Node) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	n.Encode(&e)
	return e.Bytes(), nil
}

func decodeBytes(data []byte) (*Node, error) {
	d := jx.DecodeBytes(data)
	n, err := decodeNode(d)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func decodeNode(d *jx.Decoder) (*Node, error) {
	switch tt := d.Next(); tt {
	case jx.Object:
		fields := map[string]*Node{}
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			sub, err := decodeNode(d)
			if err != nil {
				return errors.Wrapf(err, "%q", key)
			}
			fields[key] = sub
			return nil
		}); err != nil {
			return nil, err
		}
		return &Node{kind: KindObject, fields: fields}, nil
	case jx.Array:
		var elems []*Node
		if err := d.Arr(func(d *jx.Decoder) error {
			sub, err := decodeNode(d)
			if err != nil {
				return errors.Wrapf(err, "[%d]", len(elems))
			}
			elems = append(elems, sub)
			return nil
		}); err != nil {
			return nil, err
		}
		return &Node{kind: KindArray, elems: elems}, nil
	case jx.Invalid:
		return nil, errors.Wrap(d.Validate(), "invalid json")
	default:
		raw, err := d.Raw()
		if err != nil {
			return nil, err
		}
		return &Node{kind: KindScalar, scalar: raw}, nil
	}
}
