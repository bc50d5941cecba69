// Package render turns ResultBlocks into terminal output: syntax
// highlighting, a line-number gutter honoring the block's first-line number,
// and emphasis markers. The selection pipeline itself never highlights;
// this package is the renderer collaborator at its boundary.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/mattn/go-runewidth"

	"github.com/snipdoc/snipdoc/internal/include"
	"github.com/snipdoc/snipdoc/internal/linesrc"
)

// Options configures rendering.
type Options struct {
	// Theme is a chroma style name. Empty means "monokai".
	Theme string
	// Color enables ANSI syntax highlighting. When false the text passes
	// through unhighlighted (gutter and markers are still drawn).
	Color bool
	// Formatter is the chroma formatter name used when Color is set.
	// Empty means "terminal256".
	Formatter string
}

// Render writes the block to w. The language tag picks the lexer ("udiff"
// maps to chroma's diff lexer); when the tag is empty the block's filename
// decides; unknown inputs fall back to plain text.
func Render(w io.Writer, b *include.ResultBlock, opts Options) error {
	if b == nil {
		return fmt.Errorf("render: nil block")
	}

	text := b.Text
	if opts.Color {
		highlighted, err := highlight(text, b, opts)
		if err != nil {
			return err
		}
		text = highlighted
	}

	lines := linesrc.SplitLines(text)
	emphasized := make(map[int]bool, len(b.Emphasize))
	for _, n := range b.Emphasize {
		emphasized[n] = true
	}

	gutterWidth := 0
	if b.ShowLineNumbers {
		last := b.LineNoStart + len(lines) - 1
		gutterWidth = runewidth.StringWidth(strconv.Itoa(last))
	}

	for i, line := range lines {
		marker := "  "
		if len(b.Emphasize) > 0 && emphasized[i+1] {
			marker = "> "
		}
		if b.ShowLineNumbers {
			no := runewidth.FillLeft(strconv.Itoa(b.LineNoStart+i), gutterWidth)
			if _, err := fmt.Fprintf(w, "%s%s | %s", marker, no, line); err != nil {
				return err
			}
			continue
		}
		if len(b.Emphasize) == 0 {
			marker = ""
		}
		if _, err := io.WriteString(w, marker+line); err != nil {
			return err
		}
	}
	return nil
}

func highlight(text string, b *include.ResultBlock, opts Options) (string, error) {
	lexer := lexerFor(b)
	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return "", fmt.Errorf("render: tokenizing: %w", err)
	}

	name := opts.Formatter
	if name == "" {
		name = "terminal256"
	}
	// chroma falls back to a no-op formatter for unknown names.
	formatter := formatters.Get(name)

	theme := opts.Theme
	if theme == "" {
		theme = "monokai"
	}
	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, it); err != nil {
		return "", fmt.Errorf("render: formatting: %w", err)
	}
	return buf.String(), nil
}

// lexerFor picks a lexer from the block's language tag, else its filename.
func lexerFor(b *include.ResultBlock) chroma.Lexer {
	name := b.Language
	if name == "udiff" {
		name = "diff"
	}
	var lexer chroma.Lexer
	if name != "" {
		lexer = lexers.Get(name)
	}
	if lexer == nil && b.Path != "" {
		lexer = lexers.Match(b.Path)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}
