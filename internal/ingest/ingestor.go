// Package ingest turns a source document into ordered, provenance-tagged
// chunks suitable for retrieval. The document is consumed once; its bytes are
// not retained after chunking.
package ingest

import (
	"context"
	"fmt"

	"github.com/claimsight/claimsight/internal/model"
)

// Parser extracts text from raw document bytes.
// *RemoteParser satisfies it; tests substitute deterministic stubs.
type Parser interface {
	Parse(ctx context.Context, name string, data []byte) (string, error)
}

// Ingestor converts a source document into chunks
type Ingestor struct {
	remote Parser // nil when the local backend is configured
	source string
}

// NewIngestor creates an Ingestor. A nil remote parser selects the built-in
// PDF/HTML/plain-text readers.
func NewIngestor(remote Parser, source string) *Ingestor {
	if source == "" {
		source = model.SourceProspectus
	}
	return &Ingestor{remote: remote, source: source}
}

// Ingest parses the document and returns its ordered chunks.
// Fails with *ParseError when the document cannot be parsed or the parsing
// backend is unreachable.
func (ing *Ingestor) Ingest(ctx context.Context, name string, data []byte) ([]model.Chunk, error) {
	if len(data) == 0 {
		return nil, &ParseError{Doc: name, Err: fmt.Errorf("empty document")}
	}

	text, err := ing.extract(ctx, name, data)
	if err != nil {
		return nil, &ParseError{Doc: name, Err: err}
	}

	chunks := ChunkText(text, ing.source)
	if len(chunks) == 0 {
		return nil, &ParseError{Doc: name, Err: fmt.Errorf("document produced no text chunks")}
	}

	return chunks, nil
}

func (ing *Ingestor) extract(ctx context.Context, name string, data []byte) (string, error) {
	if ing.remote != nil {
		return ing.remote.Parse(ctx, name, data)
	}

	switch sniffFormat(data) {
	case "pdf":
		return extractPDFText(data)
	case "html":
		return extractHTMLText(data)
	default:
		return string(data), nil
	}
}
