package jsonschema

import (
	"strings"

	"github.com/schemakit/jsonschema/internal/jsonpointer"
)

// resolveRef builds the deferred resolver for a scoped reference string and
// probes it once against the current root, so unresolvable references fail at
// resolve time with the offending ref. The probe runs while root.Schema still
// holds the raw document, which is why forward references and cyclic
// self-references always pass it; the returned Ref stays re-invocable.
func (p *resolver) resolveRef(ref string) (*Ref, error) {
	r, err := p.buildRef(ref)
	if err != nil {
		return nil, err
	}
	if _, _, err := r.Resolve(p.root); err != nil {
		return nil, err
	}
	return r, nil
}

func (p *resolver) buildRef(ref string) (*Ref, error) {
	if ref == "#" {
		return &Ref{ref: ref}, nil
	}
	url, fragment, _ := strings.Cut(ref, "#")
	r := &Ref{ref: ref}
	if strings.HasPrefix(fragment, "/") {
		r.ptr = jsonpointer.Parse(fragment)
	}
	if url != "" {
		r.url = url
		if err := p.ensureCached(url); err != nil {
			return nil, err
		}
	}
	return r, nil
}
