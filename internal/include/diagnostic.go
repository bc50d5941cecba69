package include

import "fmt"

// Kind classifies an expected failure of the selection pipeline.
type Kind int

const (
	// KindRead: the include file (or diff reference) is missing or unreadable.
	KindRead Kind = iota + 1
	// KindEncoding: the file's bytes do not decode with the declared encoding.
	KindEncoding
	// KindOptionConflict: two mutually exclusive options are both set.
	KindOptionConflict
	// KindObjectNotFound: the named object is absent from the analyzed file.
	KindObjectNotFound
	// KindParse: a ranges spec is malformed.
	KindParse
	// KindDisjointRange: a disjoint line selection under match-source numbering.
	KindDisjointRange
	// KindEmptySelection: the selection yielded zero lines.
	KindEmptySelection
	// KindInvalidCaption: the caption's inline markup failed to parse.
	KindInvalidCaption
)

func (k Kind) String() string {
	switch k {
	case KindRead:
		return "read"
	case KindEncoding:
		return "encoding"
	case KindOptionConflict:
		return "option-conflict"
	case KindObjectNotFound:
		return "object-not-found"
	case KindParse:
		return "parse"
	case KindDisjointRange:
		return "disjoint-range"
	case KindEmptySelection:
		return "empty-selection"
	case KindInvalidCaption:
		return "invalid-caption"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Source locates the directive invocation that requested an inclusion, for
// attribution in diagnostics. The zero value means "no known location".
type Source struct {
	File string
	Line int
}

// Diagnostic is a structured, non-fatal failure report. The pipeline returns
// one instead of a ResultBlock for every expected failure mode; nothing
// panics and no error escapes unwrapped. The caller decides whether a
// Diagnostic is fatal to the surrounding build.
type Diagnostic struct {
	Kind    Kind
	Message string
	Source  Source
}

func (d *Diagnostic) Error() string {
	if d == nil {
		return "<nil>"
	}
	if d.Source.File != "" {
		return fmt.Sprintf("%s:%d: %s", d.Source.File, d.Source.Line, d.Message)
	}
	return d.Message
}

func diagf(kind Kind, src Source, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Source: src}
}
