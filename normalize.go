package jsonschema

import "github.com/go-faster/jx"

// normalize applies the two draft-4 defaults a validator relies on: an object
// constraining properties through patternProperties or additionalProperties
// gets an explicit empty "properties", and "items" implies
// "additionalItems": true unless stated otherwise. Idempotent.
func normalize(n *Node) {
	if n.Kind() != KindObject {
		return
	}
	_, hasPattern := n.fields["patternProperties"]
	_, hasAdditional := n.fields["additionalProperties"]
	if hasPattern || hasAdditional {
		if _, ok := n.fields["properties"]; !ok {
			n.fields["properties"] = &Node{kind: KindObject, fields: map[string]*Node{}}
		}
	}
	if _, ok := n.fields["items"]; ok {
		if _, ok := n.fields["additionalItems"]; !ok {
			n.fields["additionalItems"] = &Node{kind: KindScalar, scalar: jx.Raw("true")}
		}
	}
}
