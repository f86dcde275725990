package jsonschema

import (
	"context"
	"io"
	"net/http"

	"github.com/go-faster/errors"
)

// RemoteResolver fetches remote schema documents.
//
// It is invoked once per URL per resolution root and must fail loudly rather
// than return a partial document. Cancellation and timeouts belong here, not
// to the resolution core.
type RemoteResolver interface {
	Resolve(ctx context.Context, url string) ([]byte, error)
}

// Remote is a RemoteResolver fetching documents over HTTP.
type Remote struct {
	Client *http.Client
}

// Resolve implements RemoteResolver.
func (r Remote) Resolve(ctx context.Context, url string) ([]byte, error) {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %q", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// ensureCached fetches and resolves the document at url into the root cache.
// Idempotent: an already cached URL is a no-op, so one resolution fetches
// each URL at most once.
//
// The fetched document is resolved against a fresh child root seeded with a
// provisional entry holding the raw document. A nested reference back to the
// same URL observes the in-progress raw document instead of re-triggering a
// fetch, which makes self-referential remote documents terminate. Once the
// nested resolution completes, the entry is replaced with the resolved
// document and the child cache is merged back.
func (p *resolver) ensureCached(url string) error {
	if _, ok := p.root.Refs[url]; ok {
		return nil
	}

	var data []byte
	if url == SchemaURL || url == SchemaURLDraft4 {
		data = draft4Raw
	} else {
		var err error
		// Fetch failures propagate as-is: retries and timeouts are the
		// fetcher's concern.
		data, err = p.remote.Resolve(context.Background(), url)
		if err != nil {
			return err
		}
	}
	doc, err := decodeBytes(data)
	if err != nil {
		return errors.Wrapf(err, "remote %q", url)
	}

	child := &resolver{
		root: &Root{
			Schema: doc,
			Refs:   map[string]*Node{url: doc},
		},
		remote: p.remote,
	}
	resolved, err := child.resolveRoot()
	if err != nil {
		return errors.Wrapf(err, "resolve %q", url)
	}

	for k, v := range resolved.Refs {
		if _, ok := p.root.Refs[k]; !ok {
			p.root.Refs[k] = v
		}
	}
	p.root.Refs[url] = resolved.Schema
	return nil
}
