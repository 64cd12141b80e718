// Package content aggregates user input into typed parts attached to a
// generation request. Each input channel (free text, an image, a CSV sheet,
// an extracted document) is one Source implementation.
package content

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/okian/kitchen/pkg/logger"
)

// Sentinel kinds for extraction failures.
var (
	ErrEmpty       = errors.New("empty input")
	ErrUnsupported = errors.New("unsupported content type")
)

// PartKind tells the generator how to attach a part.
type PartKind string

// Part kinds.
const (
	PartText     PartKind = "text"
	PartImage    PartKind = "image"
	PartDocument PartKind = "document"
)

// Part is one unit of content attached to a request. Text and document parts
// carry Text; image parts carry Data and MIME.
type Part struct {
	Kind PartKind
	Text string
	Data []byte
	MIME string
}

// Source produces zero or more parts for a request.
type Source interface {
	Name() string
	Parts(ctx context.Context) ([]Part, error)
}

// Collect gathers parts from every source. A failing source contributes
// nothing and is logged; it never aborts the request.
func Collect(ctx context.Context, log logger.Logger, sources ...Source) []Part {
	var out []Part
	for _, src := range sources {
		if src == nil {
			continue
		}
		parts, err := src.Parts(ctx)
		if err != nil {
			if log != nil && !errors.Is(err, ErrEmpty) {
				log.Warn(ctx, "content extraction failed", logger.String("source", src.Name()), logger.Error(err))
			}
			continue
		}
		out = append(out, parts...)
	}
	return out
}

// Text is free-form user text.
type Text struct {
	Body string
}

// Name implements Source.
func (Text) Name() string { return "text" }

// Parts implements Source.
func (t Text) Parts(context.Context) ([]Part, error) {
	body := strings.TrimSpace(t.Body)
	if body == "" {
		return nil, ErrEmpty
	}
	return []Part{{Kind: PartText, Text: body}}, nil
}

// Image is an uploaded picture passed through to the model undecoded.
// When MIME is empty it is sniffed from the bytes.
type Image struct {
	Data []byte
	MIME string
}

// Name implements Source.
func (Image) Name() string { return "image" }

// Parts implements Source.
func (i Image) Parts(context.Context) ([]Part, error) {
	if len(i.Data) == 0 {
		return nil, ErrEmpty
	}
	mime := i.MIME
	if mime == "" {
		mime = http.DetectContentType(i.Data)
	}
	if !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, mime)
	}
	return []Part{{Kind: PartImage, Data: i.Data, MIME: mime}}, nil
}

// CSV renders uploaded sheet rows as text, one row per line.
type CSV struct {
	Data    []byte
	MaxRows int
}

// Name implements Source.
func (CSV) Name() string { return "csv" }

// Parts implements Source.
func (c CSV) Parts(context.Context) ([]Part, error) {
	if len(bytes.TrimSpace(c.Data)) == 0 {
		return nil, ErrEmpty
	}
	r := csv.NewReader(bytes.NewReader(c.Data))
	r.FieldsPerRecord = -1
	var b strings.Builder
	rows := 0
	for c.MaxRows <= 0 || rows < c.MaxRows {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", rows+1, err)
		}
		b.WriteString(strings.Join(rec, ", "))
		b.WriteByte('\n')
		rows++
	}
	if rows == 0 {
		return nil, ErrEmpty
	}
	return []Part{{Kind: PartDocument, Text: "Uploaded table:\n" + b.String()}}, nil
}

// TextExtractor turns a document blob into plain text (PDF, DOCX, ...).
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// Document is an uploaded file whose text is produced by an external extractor.
type Document struct {
	Filename  string
	Data      []byte
	Extractor TextExtractor
}

// Name implements Source.
func (d Document) Name() string { return "document:" + d.Filename }

// Parts implements Source.
func (d Document) Parts(ctx context.Context) ([]Part, error) {
	if len(d.Data) == 0 {
		return nil, ErrEmpty
	}
	if d.Extractor == nil {
		return nil, fmt.Errorf("%w: no extractor for %s", ErrUnsupported, d.Filename)
	}
	text, err := d.Extractor.ExtractText(ctx, d.Data)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", d.Filename, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmpty
	}
	return []Part{{Kind: PartDocument, Text: fmt.Sprintf("Uploaded document %s:\n%s", d.Filename, text)}}, nil
}

// PlainText extracts UTF-8 text documents such as .txt and .md files as-is.
type PlainText struct{}

// ExtractText implements TextExtractor.
func (PlainText) ExtractText(_ context.Context, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: not UTF-8 text", ErrUnsupported)
	}
	return string(data), nil
}
