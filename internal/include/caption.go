package include

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"
)

// InlineParser validates a caption's inline markup. A non-nil error marks the
// caption invalid; the pipeline itself never interprets the markup.
type InlineParser interface {
	ParseInline(text string) error
}

// CaptionedBlock wraps a ResultBlock with a validated caption.
type CaptionedBlock struct {
	Caption string
	Block   *ResultBlock
}

// Wrap attaches caption to block after validating it with parser (a
// markdown-backed default is used when parser is nil). A caption that fails
// to parse yields a KindInvalidCaption diagnostic and no block is emitted.
func Wrap(block *ResultBlock, caption string, parser InlineParser, src Source) (*CaptionedBlock, *Diagnostic) {
	if parser == nil {
		parser = MarkdownParser{}
	}
	if err := parser.ParseInline(caption); err != nil {
		return nil, diagf(KindInvalidCaption, src, "invalid caption %q: %v", caption, err)
	}
	return &CaptionedBlock{Caption: caption, Block: block}, nil
}

// MarkdownParser validates captions as goldmark inline markdown. A caption is
// valid when it parses to exactly one paragraph: block-level constructs
// (headings, fences, raw HTML blocks, multiple paragraphs) are rejected.
type MarkdownParser struct{}

func (MarkdownParser) ParseInline(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("caption is empty")
	}
	md := goldmark.New()
	root := md.Parser().Parse(gtext.NewReader([]byte(text)))
	if root == nil {
		return errors.New("markdown parser returned no document")
	}
	if root.ChildCount() != 1 {
		return fmt.Errorf("caption must be a single paragraph, got %d blocks", root.ChildCount())
	}
	if _, ok := root.FirstChild().(*ast.Paragraph); !ok {
		return fmt.Errorf("caption may not contain block-level markup (%s)", root.FirstChild().Kind())
	}
	return nil
}
