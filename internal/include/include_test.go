package include_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/snipdoc/snipdoc/internal/include"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// tenLines writes a file with lines "line 1" .. "line 10".
func tenLines(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	return writeFile(t, "ten.txt", b.String())
}

func extract(t *testing.T, opts include.Options) (*include.ResultBlock, *include.Diagnostic) {
	t.Helper()
	e := &include.Extractor{}
	return e.Extract(opts, include.Source{File: "doc.md", Line: 7})
}

func TestExtractWholeFile(t *testing.T) {
	path := writeFile(t, "f.txt", "a\nb\n")

	block, diag := extract(t, include.Options{Path: path})
	require.Nil(t, diag)
	require.Equal(t, "a\nb\n", block.Text)
	require.Equal(t, path, block.Path)
	require.Equal(t, 1, block.LineNoStart)
	require.False(t, block.ShowLineNumbers)
	require.Empty(t, block.Emphasize)
	require.Empty(t, block.Language)
}

func TestExtractDeterministic(t *testing.T) {
	path := tenLines(t)
	opts := include.Options{Path: path, LinesSpec: "2,4-6", EmphasizeSpec: "1"}

	first, diag := extract(t, opts)
	require.Nil(t, diag)
	second, diag := extract(t, opts)
	require.Nil(t, diag)
	require.Equal(t, first, second)
}

func TestExtractLinesSpec(t *testing.T) {
	path := tenLines(t)

	block, diag := extract(t, include.Options{Path: path, LinesSpec: "2,4-6"})
	require.Nil(t, diag)
	require.Equal(t, "line 2\nline 4\nline 5\nline 6\n", block.Text)
	require.Equal(t, 1, block.LineNoStart)
}

func TestExtractLinesPastEOFDroppedSilently(t *testing.T) {
	path := tenLines(t)

	block, diag := extract(t, include.Options{Path: path, LinesSpec: "8-12"})
	require.Nil(t, diag)
	require.Equal(t, "line 8\nline 9\nline 10\n", block.Text)
}

func TestExtractLinesEmptySelection(t *testing.T) {
	path := tenLines(t)

	_, diag := extract(t, include.Options{Path: path, LinesSpec: "11-12"})
	require.NotNil(t, diag)
	require.Equal(t, include.KindEmptySelection, diag.Kind)
	require.Contains(t, diag.Message, "11-12")
}

func TestExtractLinesBadSpec(t *testing.T) {
	path := tenLines(t)

	_, diag := extract(t, include.Options{Path: path, LinesSpec: "5-3"})
	require.NotNil(t, diag)
	require.Equal(t, include.KindParse, diag.Kind)
}

func TestExtractDisjointLinesWithMatchSource(t *testing.T) {
	path := tenLines(t)

	_, diag := extract(t, include.Options{Path: path, LinesSpec: "1,3-5", MatchSource: true})
	require.NotNil(t, diag)
	require.Equal(t, include.KindDisjointRange, diag.Kind)
}

func TestExtractContiguousLinesWithMatchSource(t *testing.T) {
	path := tenLines(t)

	block, diag := extract(t, include.Options{Path: path, LinesSpec: "4-6", MatchSource: true})
	require.Nil(t, diag)
	require.Equal(t, "line 4\nline 5\nline 6\n", block.Text)
	require.Equal(t, 4, block.LineNoStart)
	require.True(t, block.ShowLineNumbers)
}

func TestExtractOptionConflicts(t *testing.T) {
	// Conflicts must be detected before any file is read: the path does not exist.
	missing := filepath.Join(t.TempDir(), "missing.txt")

	tests := []struct {
		name string
		opts include.Options
	}{
		{name: "lines and pyobject", opts: include.Options{LinesSpec: "1", ObjectName: "Foo"}},
		{name: "lineno-match and lineno-start", opts: include.Options{MatchSource: true, LineNoStart: 5}},
		{name: "lineno-match and prepend", opts: include.Options{MatchSource: true, Prepend: "x"}},
		{name: "lineno-match and append", opts: include.Options{MatchSource: true, Append: "x"}},
		{name: "start-after and start-at", opts: include.Options{StartAfter: "a", StartAt: "b"}},
		{name: "end-before and end-at", opts: include.Options{EndBefore: "a", EndAt: "b"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.opts.Path = missing
			_, diag := extract(t, tc.opts)
			require.NotNil(t, diag)
			require.Equal(t, include.KindOptionConflict, diag.Kind)
			require.Contains(t, diag.Message, "cannot use both")
		})
	}
}

const anchored = "a\nBEGIN\nb\nc\nEND\nd\n"

func TestExtractAnchorsExclusive(t *testing.T) {
	path := writeFile(t, "anchored.txt", anchored)

	block, diag := extract(t, include.Options{Path: path, StartAfter: "BEGIN", EndBefore: "END"})
	require.Nil(t, diag)
	require.Equal(t, "b\nc\n", block.Text)
}

func TestExtractAnchorsInclusive(t *testing.T) {
	path := writeFile(t, "anchored.txt", anchored)

	block, diag := extract(t, include.Options{Path: path, StartAt: "BEGIN", EndAt: "END"})
	require.Nil(t, diag)
	require.Equal(t, "BEGIN\nb\nc\nEND\n", block.Text)
}

func TestExtractAnchorsEndOnly(t *testing.T) {
	path := writeFile(t, "anchored.txt", anchored)

	block, diag := extract(t, include.Options{Path: path, EndBefore: "BEGIN"})
	require.Nil(t, diag)
	require.Equal(t, "a\n", block.Text)
}

func TestExtractAnchorsNoMatchYieldsEmptySelection(t *testing.T) {
	path := writeFile(t, "anchored.txt", anchored)

	_, diag := extract(t, include.Options{Path: path, StartAfter: "NO SUCH MARKER"})
	require.NotNil(t, diag)
	require.Equal(t, include.KindEmptySelection, diag.Kind)
}

func TestExtractAnchorsMatchSourceNumbering(t *testing.T) {
	path := writeFile(t, "anchored.txt", anchored)

	// BEGIN is line 2; start-after drops two lines, so the block starts at line 3.
	block, diag := extract(t, include.Options{Path: path, StartAfter: "BEGIN", MatchSource: true})
	require.Nil(t, diag)
	require.Equal(t, 3, block.LineNoStart)

	// start-at keeps the BEGIN line itself: only one line dropped.
	block, diag = extract(t, include.Options{Path: path, StartAt: "BEGIN", MatchSource: true})
	require.Nil(t, diag)
	require.Equal(t, 2, block.LineNoStart)
	require.True(t, strings.HasPrefix(block.Text, "BEGIN\n"))
}

func TestExtractDiff(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "ref.txt")
	primary := filepath.Join(dir, "main.txt")
	require.NoError(t, os.WriteFile(ref, []byte("a\nb\n"), 0o644))
	require.NoError(t, os.WriteFile(primary, []byte("a\nc\n"), 0o644))

	block, diag := extract(t, include.Options{Path: primary, DiffPath: ref})
	require.Nil(t, diag)
	require.Equal(t, "udiff", block.Language)
	require.Contains(t, block.Text, "--- "+ref+"\n")
	require.Contains(t, block.Text, "+++ "+primary+"\n")
	require.Contains(t, block.Text, "-b\n")
	require.Contains(t, block.Text, "+c\n")
}

func TestExtractDiffExplicitLanguageWins(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "ref.txt")
	primary := filepath.Join(dir, "main.txt")
	require.NoError(t, os.WriteFile(ref, []byte("a\n"), 0o644))
	require.NoError(t, os.WriteFile(primary, []byte("b\n"), 0o644))

	block, diag := extract(t, include.Options{Path: primary, DiffPath: ref, Language: "diff"})
	require.Nil(t, diag)
	require.Equal(t, "diff", block.Language)
}

func TestExtractDiffOfIdenticalFilesIsEmptySelection(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "ref.txt")
	primary := filepath.Join(dir, "main.txt")
	require.NoError(t, os.WriteFile(ref, []byte("same\n"), 0o644))
	require.NoError(t, os.WriteFile(primary, []byte("same\n"), 0o644))

	_, diag := extract(t, include.Options{Path: primary, DiffPath: ref})
	require.NotNil(t, diag)
	require.Equal(t, include.KindEmptySelection, diag.Kind)
}

// spanResolver is a stub ObjectResolver with a fixed tag table.
type spanResolver map[string][2]int

func (r spanResolver) Resolve(path, object string) (int, int, error) {
	span, ok := r[object]
	if !ok {
		return 0, 0, fmt.Errorf("object %q: %w", object, include.ErrObjectNotFound)
	}
	return span[0], span[1], nil
}

func TestExtractObject(t *testing.T) {
	path := tenLines(t)
	e := &include.Extractor{Resolver: spanResolver{"thing": {4, 7}}}

	block, diag := e.Extract(include.Options{Path: path, ObjectName: "thing"}, include.Source{})
	require.Nil(t, diag)
	require.Equal(t, "line 4\nline 5\nline 6\n", block.Text)
	require.Equal(t, 1, block.LineNoStart)
}

func TestExtractObjectMatchSource(t *testing.T) {
	path := tenLines(t)
	e := &include.Extractor{Resolver: spanResolver{"thing": {4, 7}}}

	block, diag := e.Extract(include.Options{Path: path, ObjectName: "thing", MatchSource: true}, include.Source{})
	require.Nil(t, diag)
	require.Equal(t, 4, block.LineNoStart)
	require.True(t, block.ShowLineNumbers)
}

func TestExtractObjectNotFound(t *testing.T) {
	path := tenLines(t)
	e := &include.Extractor{Resolver: spanResolver{}}

	_, diag := e.Extract(include.Options{Path: path, ObjectName: "nope"}, include.Source{})
	require.NotNil(t, diag)
	require.Equal(t, include.KindObjectNotFound, diag.Kind)
	require.Contains(t, diag.Message, `"nope"`)
}

func TestExtractObjectWithoutResolver(t *testing.T) {
	path := tenLines(t)

	_, diag := extract(t, include.Options{Path: path, ObjectName: "thing"})
	require.NotNil(t, diag)
	require.Equal(t, include.KindObjectNotFound, diag.Kind)
}

func TestExtractEmphasizeAgainstFinalBlock(t *testing.T) {
	path := tenLines(t)

	block, diag := extract(t, include.Options{Path: path, LinesSpec: "3-6", EmphasizeSpec: "1,3-4"})
	require.Nil(t, diag)
	require.Equal(t, []int{1, 3, 4}, block.Emphasize)
}

func TestExtractEmphasizeBadSpec(t *testing.T) {
	path := tenLines(t)

	_, diag := extract(t, include.Options{Path: path, EmphasizeSpec: "x"})
	require.NotNil(t, diag)
	require.Equal(t, include.KindParse, diag.Kind)
}

func TestExtractPrependAppend(t *testing.T) {
	path := writeFile(t, "f.txt", "body\n")

	block, diag := extract(t, include.Options{Path: path, Prepend: "// start", Append: "// end\n"})
	require.Nil(t, diag)
	require.Equal(t, "// start\nbody\n// end\n", block.Text)
}

func TestExtractTabWidth(t *testing.T) {
	path := writeFile(t, "f.txt", "\tx\ny\tz\n")

	block, diag := extract(t, include.Options{Path: path, TabWidth: 4})
	require.Nil(t, diag)
	require.Equal(t, "    x\ny   z\n", block.Text)
}

func TestExtractDedent(t *testing.T) {
	path := writeFile(t, "f.txt", "    a\n    b\n")

	block, diag := extract(t, include.Options{Path: path, Dedent: 4})
	require.Nil(t, diag)
	require.Equal(t, "a\nb\n", block.Text)
}

func TestExtractMissingFile(t *testing.T) {
	_, diag := extract(t, include.Options{Path: filepath.Join(t.TempDir(), "missing.txt")})
	require.NotNil(t, diag)
	require.Equal(t, include.KindRead, diag.Kind)
	require.Contains(t, diag.Message, "not found or reading it failed")
}

func TestExtractEncodingFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte{0xFF, 0xFE, 'a', '\n'}, 0o644))

	_, diag := extract(t, include.Options{Path: path})
	require.NotNil(t, diag)
	require.Equal(t, include.KindEncoding, diag.Kind)
	require.Contains(t, diag.Message, "encoding")
}

func TestExtractExplicitEncoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "l1.txt")
	require.NoError(t, os.WriteFile(path, []byte{'n', 0xE4, 'r', '\n'}, 0o644))

	block, diag := extract(t, include.Options{Path: path, Encoding: "latin1"})
	require.Nil(t, diag)
	require.Equal(t, "när\n", block.Text)
}

func TestExtractExplicitLineNoStart(t *testing.T) {
	path := tenLines(t)

	block, diag := extract(t, include.Options{Path: path, LineNoStart: 42})
	require.Nil(t, diag)
	require.Equal(t, 42, block.LineNoStart)
	require.True(t, block.ShowLineNumbers)
}

func TestDiagnosticErrorIncludesSource(t *testing.T) {
	_, diag := extract(t, include.Options{Path: filepath.Join(t.TempDir(), "missing.txt")})
	require.NotNil(t, diag)
	require.True(t, strings.HasPrefix(diag.Error(), "doc.md:7: "))
}

func TestWrapValidCaption(t *testing.T) {
	block := &include.ResultBlock{Text: "x\n"}

	wrapped, diag := include.Wrap(block, "Listing 3: the *main* loop", nil, include.Source{})
	require.Nil(t, diag)
	require.Equal(t, "Listing 3: the *main* loop", wrapped.Caption)
	require.Same(t, block, wrapped.Block)
}

func TestWrapInvalidCaption(t *testing.T) {
	block := &include.ResultBlock{Text: "x\n"}

	cases := []string{
		"",
		"   ",
		"# a heading",
		"para one\n\npara two",
		"```\ncode\n```",
	}
	for _, caption := range cases {
		t.Run(caption, func(t *testing.T) {
			_, diag := include.Wrap(block, caption, nil, include.Source{})
			require.NotNil(t, diag)
			require.Equal(t, include.KindInvalidCaption, diag.Kind)
		})
	}
}
