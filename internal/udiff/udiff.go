// Package udiff computes unified textual diffs between two sequences of
// terminator-preserving lines.
package udiff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultContext is the number of context lines shown around each change.
const DefaultContext = 3

type opTag int

const (
	opEqual opTag = iota
	opDelete
	opInsert
)

// opcode describes how a[i1:i2] relates to b[j1:j2].
type opcode struct {
	tag            opTag
	i1, i2, j1, j2 int
}

// Unified returns the unified diff from a to b as a sequence of output lines,
// each terminated like its source line. The first two lines label the inputs
// ("--- fromLabel", "+++ toLabel"); each hunk starts with an "@@ -s[,n] +s[,n] @@"
// header followed by " ", "-", and "+" body lines. Equal inputs return nil.
func Unified(a, b []string, fromLabel, toLabel string, context int) []string {
	if context < 0 {
		context = 0
	}
	codes := opcodes(a, b)
	if len(codes) == 0 {
		return nil
	}
	groups := groupOpcodes(codes, context)
	if len(groups) == 0 {
		return nil
	}

	out := []string{"--- " + fromLabel + "\n", "+++ " + toLabel + "\n"}
	for _, group := range groups {
		first, last := group[0], group[len(group)-1]
		out = append(out, fmt.Sprintf("@@ -%s +%s @@\n",
			formatRange(first.i1, last.i2), formatRange(first.j1, last.j2)))
		for _, c := range group {
			switch c.tag {
			case opEqual:
				for _, line := range a[c.i1:c.i2] {
					out = append(out, " "+line)
				}
			case opDelete:
				for _, line := range a[c.i1:c.i2] {
					out = append(out, "-"+line)
				}
			case opInsert:
				for _, line := range b[c.j1:c.j2] {
					out = append(out, "+"+line)
				}
			}
		}
	}
	return out
}

// opcodes diffs a and b at line granularity. Each line is mapped to a rune so
// the diff runs over rune strings, then rune counts are translated back to
// line index ranges.
func opcodes(a, b []string) []opcode {
	dmp := diffmatchpatch.New()
	ra, rb, _ := dmp.DiffLinesToRunes(strings.Join(a, ""), strings.Join(b, ""))
	diffs := dmp.DiffCleanupMerge(dmp.DiffMainRunes(ra, rb, false))

	var codes []opcode
	i, j := 0, 0
	for _, d := range diffs {
		n := len([]rune(d.Text))
		if n == 0 {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			codes = append(codes, opcode{opEqual, i, i + n, j, j + n})
			i += n
			j += n
		case diffmatchpatch.DiffDelete:
			codes = append(codes, opcode{opDelete, i, i + n, j, j})
			i += n
		case diffmatchpatch.DiffInsert:
			codes = append(codes, opcode{opInsert, i, i, j, j + n})
			j += n
		}
	}
	return codes
}

// groupOpcodes trims leading/trailing context to n lines and splits runs of
// equal lines longer than 2n into separate hunk groups. A group consisting of
// a single equal opcode (no changes at all) is dropped.
func groupOpcodes(codes []opcode, n int) [][]opcode {
	if len(codes) == 0 {
		return nil
	}
	codes = append([]opcode(nil), codes...)

	if first := codes[0]; first.tag == opEqual {
		codes[0] = opcode{opEqual, max(first.i1, first.i2-n), first.i2, max(first.j1, first.j2-n), first.j2}
	}
	if last := codes[len(codes)-1]; last.tag == opEqual {
		codes[len(codes)-1] = opcode{opEqual, last.i1, min(last.i2, last.i1+n), last.j1, min(last.j2, last.j1+n)}
	}

	var groups [][]opcode
	var group []opcode
	for _, c := range codes {
		if c.tag == opEqual && c.i2-c.i1 > n+n {
			group = append(group, opcode{opEqual, c.i1, min(c.i2, c.i1+n), c.j1, min(c.j2, c.j1+n)})
			groups = append(groups, group)
			group = nil
			c = opcode{opEqual, max(c.i1, c.i2-n), c.i2, max(c.j1, c.j2-n), c.j2}
		}
		group = append(group, c)
	}
	if len(group) > 0 && !(len(group) == 1 && group[0].tag == opEqual) {
		groups = append(groups, group)
	}
	return groups
}

// formatRange renders a hunk range in unified diff notation: 1-based start
// line, with the length omitted when it is exactly one.
func formatRange(start, stop int) string {
	beginning := start + 1
	length := stop - start
	if length == 1 {
		return fmt.Sprintf("%d", beginning)
	}
	if length == 0 {
		beginning--
	}
	return fmt.Sprintf("%d,%d", beginning, length)
}
