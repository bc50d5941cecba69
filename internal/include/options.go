package include

// Options describes one requested inclusion. It is treated as immutable by
// the pipeline. Field names follow the directive option vocabulary; see the
// isSet switch for the mapping.
type Options struct {
	// Path is the file to include.
	Path string
	// Encoding names the file's text encoding (empty means UTF-8).
	Encoding string
	// Dedent strips this many leading runes from every line at read time.
	Dedent int

	// LinesSpec selects explicit lines, e.g. "1,3-5,9-". Mutually exclusive
	// with ObjectName.
	LinesSpec string
	// ObjectName selects the line span of a named code object via the
	// configured ObjectResolver.
	ObjectName string

	// Anchor pairs. StartAfter is exclusive, StartAt inclusive (mutually
	// exclusive with each other); likewise EndBefore / EndAt.
	StartAfter string
	StartAt    string
	EndBefore  string
	EndAt      string

	// DiffPath, when set, diffs the reference file at DiffPath against Path
	// and includes the unified diff instead of the file text.
	DiffPath string
	// DiffContext is the number of context lines per hunk (0 means the
	// default of 3).
	DiffContext int

	// Prepend and Append insert a literal line before/after the selection.
	Prepend string
	Append  string

	// EmphasizeSpec flags rendered lines for visual emphasis, resolved
	// against the final block.
	EmphasizeSpec string

	// TabWidth expands tabs in the final text to this column width.
	TabWidth int

	// Language overrides the block's language tag.
	Language string

	// LineNos requests line numbers starting at 1.
	LineNos bool
	// LineNoStart requests line numbers starting at an explicit value
	// (0 means unset).
	LineNoStart int
	// MatchSource requests line numbers mirroring the original file.
	// Mutually exclusive with LineNoStart, Prepend, and Append.
	MatchSource bool
}

// conflict names two directive options that must not be set together.
type conflict struct {
	a, b string
}

// conflicts is the declarative table of forbidden option pairs, checked once
// before any file I/O.
var conflicts = []conflict{
	{"lines", "pyobject"},
	{"lines-match-source", "lineno-start"},
	{"lines-match-source", "prepend"},
	{"lines-match-source", "append"},
	{"start-after", "start-at"},
	{"end-before", "end-at"},
}

func (o Options) isSet(name string) bool {
	switch name {
	case "lines":
		return o.LinesSpec != ""
	case "pyobject":
		return o.ObjectName != ""
	case "lines-match-source":
		return o.MatchSource
	case "lineno-start":
		return o.LineNoStart != 0
	case "prepend":
		return o.Prepend != ""
	case "append":
		return o.Append != ""
	case "start-after":
		return o.StartAfter != ""
	case "start-at":
		return o.StartAt != ""
	case "end-before":
		return o.EndBefore != ""
	case "end-at":
		return o.EndAt != ""
	default:
		return false
	}
}

// validate rejects forbidden option combinations. Each rejected pair yields a
// distinct message naming both options.
func validate(o Options, src Source) *Diagnostic {
	for _, c := range conflicts {
		if o.isSet(c.a) && o.isSet(c.b) {
			return diagf(KindOptionConflict, src, "cannot use both %q and %q options", c.a, c.b)
		}
	}
	return nil
}
