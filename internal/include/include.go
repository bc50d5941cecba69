// Package include implements the content-selection pipeline that turns a file
// on disk plus selection options into a final text block with rendering
// metadata (line-number origin, emphasized lines, language tag).
//
// Every expected failure mode returns a *Diagnostic instead of raising; the
// pipeline is pure and deterministic given identical inputs.
package include

import (
	"errors"
	"strings"

	"github.com/snipdoc/snipdoc/internal/linerange"
	"github.com/snipdoc/snipdoc/internal/linesrc"
	"github.com/snipdoc/snipdoc/internal/udiff"
)

// ErrObjectNotFound is the sentinel an ObjectResolver returns (wrapped) when
// the named object does not exist in the file.
var ErrObjectNotFound = errors.New("object not found")

// ObjectResolver resolves a named code object to its 1-based [start, end)
// line span within a file. Implementations are language specific; the
// pipeline has no compile-time dependency on any particular one.
type ObjectResolver interface {
	Resolve(path, object string) (startLine, endLine int, err error)
}

// ResultBlock is the pipeline's successful output, handed to a renderer.
type ResultBlock struct {
	// Text is the final joined block.
	Text string
	// Path is the originating file, kept for provenance.
	Path string
	// LineNoStart is the effective first rendered line number (1 unless a
	// numbering mode moved it).
	LineNoStart int
	// ShowLineNumbers reports whether any numbering mode was requested.
	ShowLineNumbers bool
	// Emphasize lists 1-based line offsets within the rendered block (not
	// the source file) to visually highlight.
	Emphasize []int
	// Language is the block's language tag: the explicit override if any,
	// else "udiff" when a diff was produced, else empty.
	Language string
}

// Extractor runs selection pipelines. The zero value works; set Resolver to
// enable selection by object name.
type Extractor struct {
	Resolver ObjectResolver
}

// Extract applies the full selection pipeline for one directive invocation.
// Exactly one of the return values is non-nil.
func (e *Extractor) Extract(opts Options, src Source) (*ResultBlock, *Diagnostic) {
	if d := validate(opts, src); d != nil {
		return nil, d
	}

	lines, d := readLines(opts.Path, opts, src)
	if d != nil {
		return nil, d
	}

	diffed := false
	if opts.DiffPath != "" {
		refLines, d := readLines(opts.DiffPath, opts, src)
		if d != nil {
			return nil, d
		}
		context := opts.DiffContext
		if context <= 0 {
			context = udiff.DefaultContext
		}
		lines = udiff.Unified(refLines, lines, opts.DiffPath, opts.Path, context)
		diffed = true
	}

	linenoStart := 1
	if opts.LineNoStart > 0 {
		linenoStart = opts.LineNoStart
	}

	switch {
	case opts.ObjectName != "":
		var d *Diagnostic
		lines, linenoStart, d = e.selectObject(lines, opts, linenoStart, src)
		if d != nil {
			return nil, d
		}
	case opts.LinesSpec != "":
		var d *Diagnostic
		lines, linenoStart, d = selectLines(lines, opts, linenoStart, src)
		if d != nil {
			return nil, d
		}
	}

	lines, dropped, startMatched := trimAnchors(lines, anchors{
		start:          firstNonEmpty(opts.StartAfter, opts.StartAt),
		startInclusive: opts.StartAt != "",
		end:            firstNonEmpty(opts.EndBefore, opts.EndAt),
		endInclusive:   opts.EndAt != "",
	})
	if opts.MatchSource && startMatched {
		linenoStart += dropped
	}

	var emphasize []int
	if opts.EmphasizeSpec != "" {
		list, err := linerange.Parse(opts.EmphasizeSpec, len(lines))
		if err != nil {
			return nil, diagf(KindParse, src, "%v", err)
		}
		for _, i := range list {
			emphasize = append(emphasize, i+1)
		}
	}

	if len(lines) == 0 {
		return nil, diagf(KindEmptySelection, src, "selection of %q yielded no lines", opts.Path)
	}

	if opts.Prepend != "" {
		lines = append([]string{ensureEOL(opts.Prepend)}, lines...)
	}
	if opts.Append != "" {
		lines = append(lines, ensureEOL(opts.Append))
	}

	text := strings.Join(lines, "")
	if opts.TabWidth > 0 {
		text = expandTabs(text, opts.TabWidth)
	}

	language := ""
	if diffed {
		language = "udiff"
	}
	if opts.Language != "" {
		language = opts.Language
	}

	return &ResultBlock{
		Text:            text,
		Path:            opts.Path,
		LineNoStart:     linenoStart,
		ShowLineNumbers: opts.LineNos || opts.LineNoStart > 0 || opts.MatchSource,
		Emphasize:       emphasize,
		Language:        language,
	}, nil
}

// readLines wraps linesrc failures into diagnostics.
func readLines(path string, opts Options, src Source) ([]string, *Diagnostic) {
	lines, err := linesrc.ReadLines(path, opts.Encoding, opts.Dedent)
	if err == nil {
		return lines, nil
	}
	var encErr *linesrc.EncodingError
	if errors.As(err, &encErr) {
		return nil, diagf(KindEncoding, src,
			"encoding %q used for reading included file %q seems to be wrong, try giving an explicit encoding option",
			encErr.Encoding, path)
	}
	return nil, diagf(KindRead, src, "include file %q not found or reading it failed", path)
}

// selectObject slices lines to the span of the named object.
func (e *Extractor) selectObject(lines []string, opts Options, linenoStart int, src Source) ([]string, int, *Diagnostic) {
	if e.Resolver == nil {
		return nil, 0, diagf(KindObjectNotFound, src,
			"no source analyzer available to resolve object %q in %q", opts.ObjectName, opts.Path)
	}
	start, end, err := e.Resolver.Resolve(opts.Path, opts.ObjectName)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, 0, diagf(KindObjectNotFound, src,
				"object named %q not found in include file %q", opts.ObjectName, opts.Path)
		}
		return nil, 0, diagf(KindRead, src, "resolving object %q in %q: %v", opts.ObjectName, opts.Path, err)
	}

	lo := start - 1
	if lo < 0 {
		lo = 0
	}
	hi := end - 1
	if hi > len(lines) {
		hi = len(lines)
	}
	if hi < lo {
		hi = lo
	}
	if opts.MatchSource {
		linenoStart = start
	}
	return lines[lo:hi], linenoStart, nil
}

// selectLines applies an explicit line list. Indices past the end of file are
// dropped silently; an empty result is an error. Under match-source
// numbering the list must be contiguous. Anchor-based trimming deliberately
// receives no such contiguity guarantee (compatibility with the original
// behavior).
func selectLines(lines []string, opts Options, linenoStart int, src Source) ([]string, int, *Diagnostic) {
	list, err := linerange.Parse(opts.LinesSpec, len(lines))
	if err != nil {
		return nil, 0, diagf(KindParse, src, "%v", err)
	}
	if opts.MatchSource {
		if !linerange.Contiguous(list) {
			return nil, 0, diagf(KindDisjointRange, src,
				`cannot use "lines-match-source" with a disjoint set of "lines"`)
		}
		if len(list) > 0 {
			linenoStart = list[0] + 1
		}
	}
	var selected []string
	for _, i := range list {
		if i < len(lines) {
			selected = append(selected, lines[i])
		}
	}
	if len(selected) == 0 {
		return nil, 0, diagf(KindEmptySelection, src,
			"line spec %q: no lines pulled from include file %q", opts.LinesSpec, opts.Path)
	}
	return selected, linenoStart, nil
}

// anchors configures substring-based trimming of the selected region.
type anchors struct {
	start          string
	startInclusive bool
	end            string
	endInclusive   bool
}

// trimAnchors drops lines strictly before the start anchor match (keeping the
// matching line only for the inclusive variant) and stops at the first end
// anchor match (kept only for the inclusive variant). dropped is the number
// of lines discarded before the start match; startMatched reports whether the
// start anchor matched at all. A configured anchor that never matches simply
// yields an empty (or truncated) result, not an error.
func trimAnchors(lines []string, a anchors) (out []string, dropped int, startMatched bool) {
	if a.start == "" && a.end == "" {
		return lines, 0, false
	}
	use := a.start == ""
	var res []string
	for i, line := range lines {
		switch {
		case !use && a.start != "" && strings.Contains(line, a.start):
			use = true
			startMatched = true
			if a.startInclusive {
				res = append(res, line)
				dropped = i
			} else {
				dropped = i + 1
			}
		case use && a.end != "" && strings.Contains(line, a.end):
			if a.endInclusive {
				res = append(res, line)
			}
			return res, dropped, startMatched
		case use:
			res = append(res, line)
		}
	}
	return res, dropped, startMatched
}

// expandTabs replaces each tab with enough spaces to reach the next multiple
// of tabWidth, resetting the column at line terminators.
func expandTabs(s string, tabWidth int) string {
	var b strings.Builder
	b.Grow(len(s))
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			pad := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", pad))
			col += pad
		case '\n', '\r':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}

func ensureEOL(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
