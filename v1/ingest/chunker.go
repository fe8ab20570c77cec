package ingest

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

// Chunk is one embeddable piece of a document.
type Chunk struct {
	Text string
	// Page is 1-based.
	Page int
	// Index is the position of the chunk in the document.
	Index int
	// StartIndex is the character offset of Text within its page.
	StartIndex int
}

// Loader turns a raw document into pages.
type Loader interface {
	Load(ctx context.Context, data []byte) ([]schema.Document, error)
}

// PDFLoader extracts one document per page; metadata "page" is 1-based.
type PDFLoader struct{}

func (PDFLoader) Load(ctx context.Context, data []byte) ([]schema.Document, error) {
	pages, err := documentloaders.NewPDF(bytes.NewReader(data), int64(len(data))).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: parse pdf: %w", ErrInvalidInput, err)
	}
	return pages, nil
}

// Splitter cuts pages into overlapping chunks with a recursive character
// splitter.
type Splitter struct {
	splitter textsplitter.RecursiveCharacter
}

func NewSplitter(cfg Config) Splitter {
	return Splitter{splitter: textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(cfg.ChunkSize),
		textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
	)}
}

// Split numbers chunks across the whole document and records where each
// starts in its page.
func (s Splitter) Split(pages []schema.Document) ([]Chunk, error) {
	var chunks []Chunk
	for i, page := range pages {
		pageNo := i + 1
		if n, ok := asInt(page.Metadata["page"]); ok {
			pageNo = n
		}

		texts, err := s.splitter.SplitText(page.PageContent)
		if err != nil {
			return nil, fmt.Errorf("split page %d: %w", pageNo, err)
		}

		cursor := 0
		for _, text := range texts {
			if strings.TrimSpace(text) == "" {
				continue
			}
			start := strings.Index(page.PageContent[cursor:], text)
			if start >= 0 {
				start += cursor
				cursor = start + 1
			} else {
				start = -1
			}
			chunks = append(chunks, Chunk{
				Text:       text,
				Page:       pageNo,
				Index:      len(chunks),
				StartIndex: start,
			})
		}
	}
	return chunks, nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
