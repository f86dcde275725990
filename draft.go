package jsonschema

import (
	_ "embed"
	"sync"
)

// Canonical $schema URLs recognized by Resolve. Any suffix after them, such as
// a trailing "#", is still accepted.
const (
	// SchemaURL is the version-less "current" draft URL.
	SchemaURL = "http://json-schema.org/schema"
	// SchemaURLDraft4 is the explicit draft-4 URL.
	SchemaURLDraft4 = "http://json-schema.org/draft-04/schema"
)

//go:embed _draft/draft4.json
var draft4Raw []byte

var (
	metaOnce sync.Once
	metaRoot *Root
	metaErr  error
)

// meta resolves the embedded draft-4 meta-schema once per process. The
// meta-schema's own id starts with SchemaURLDraft4, so resolving it skips
// meta-validation and the bootstrap terminates.
func meta() (*Root, error) {
	metaOnce.Do(func() {
		doc, err := decodeBytes(draft4Raw)
		if err != nil {
			metaErr = err
			return
		}
		metaRoot, metaErr = ResolveNode(doc)
	})
	return metaRoot, metaErr
}
