package pdf

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// TextReader yields flattened page text through MuPDF. Reading order here is
// good enough for the regex-driven paths but loses column alignment, which is
// why the exact-table path reads tokens instead.
type TextReader struct {
	doc *fitz.Document
}

// OpenText opens a PDF for flattened text extraction. The caller owns Close.
func OpenText(path string) (*TextReader, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &TextReader{doc: doc}, nil
}

func (t *TextReader) Close() error { return t.doc.Close() }

func (t *TextReader) PageCount() int { return t.doc.NumPage() }

func (t *TextReader) PageText(page int) (string, error) {
	text, err := t.doc.Text(page)
	if err != nil {
		return "", fmt.Errorf("page %d text: %w", page, err)
	}
	return text, nil
}

// Source bundles both readers over one file for an extraction run.
type Source struct {
	Tokens *TokenReader
	Text   *TextReader
}

// OpenSource opens a guide PDF with both backends.
func OpenSource(path string) (*Source, error) {
	tokens, err := OpenTokens(path)
	if err != nil {
		return nil, err
	}
	text, err := OpenText(path)
	if err != nil {
		tokens.Close()
		return nil, err
	}
	return &Source{Tokens: tokens, Text: text}, nil
}

// Close releases both backends, keeping the first error.
func (s *Source) Close() error {
	err := s.Tokens.Close()
	if cerr := s.Text.Close(); err == nil {
		err = cerr
	}
	return err
}
