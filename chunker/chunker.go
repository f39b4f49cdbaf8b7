package chunker

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"
)

var ErrEmptyChunkSet = errors.New("no chunks produced from text")

type Chunker struct {
	options  Options
	splitter textsplitter.RecursiveCharacter
}

// Chunk splits text into ordered, overlapping segments. The position of a
// segment in the result is its chunk index.
func (c *Chunker) Chunk(text string) ([]string, error) {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if len(text) == 0 {
		return nil, ErrEmptyChunkSet
	}

	segments, err := c.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmptyChunkSet, err)
	}

	chunks := make([]string, 0, len(segments))
	for _, segment := range segments {
		if trimmed := strings.TrimSpace(segment); len(trimmed) > 0 {
			chunks = append(chunks, trimmed)
		}
	}

	if len(chunks) == 0 {
		return nil, ErrEmptyChunkSet
	}

	return chunks, nil
}

func (c *Chunker) Size() int { return c.options.Size }

func (c *Chunker) Overlap() int { return c.options.Overlap }

func New(opts ...Option) (*Chunker, error) {
	options := NewOptions(opts...)

	if options.Size <= 0 {
		return nil, errors.New("chunk size must be greater than zero")
	}

	if options.Overlap < 0 {
		return nil, errors.New("chunk overlap cannot be negative")
	}

	if options.Overlap >= options.Size {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than size %d", options.Overlap, options.Size)
	}

	if len(options.Separators) == 0 {
		return nil, errors.New("at least one separator is required")
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(options.Size),
		textsplitter.WithChunkOverlap(options.Overlap),
		textsplitter.WithSeparators(options.Separators),
		textsplitter.WithLenFunc(utf8.RuneCountInString),
	)

	return &Chunker{
		options:  options,
		splitter: splitter,
	}, nil
}
