package extractor

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/askdocs/askdocs/internal/core/domain"
	"github.com/askdocs/askdocs/internal/core/ports"
)

type decodeFunc func(data []byte) (string, error)

// Registry reads a stored document and extracts its raw text, picking
// the decoder by file extension. Unknown extensions fail with
// domain.ErrUnsupportedFormat; decoder failures with
// domain.ErrExtraction.
type Registry struct {
	storage  ports.ObjectStorage
	byFormat map[string]decodeFunc
}

func NewRegistry(storage ports.ObjectStorage) *Registry {
	return &Registry{
		storage: storage,
		byFormat: map[string]decodeFunc{
			".txt":  decodePlaintext,
			".md":   decodePlaintext,
			".pdf":  decodePDF,
			".xlsx": decodeXLSX,
		},
	}
}

// SupportedFormats lists the accepted file extensions, sorted.
func (r *Registry) SupportedFormats() []string {
	out := make([]string, 0, len(r.byFormat))
	for format := range r.byFormat {
		out = append(out, format)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	decode, ok := r.byFormat[strings.ToLower(doc.Format)]
	if !ok {
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "extract text", fmt.Errorf("format %q (%s)", doc.Format, doc.Filename))
	}

	reader, err := r.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "open source document", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "read source document", err)
	}

	text, err := decode(data)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "decode "+doc.Format, err)
	}
	return text, nil
}
