package include

import (
	"fmt"
	"strconv"
)

// Directive is one parsed directive invocation: the selection options plus
// the caption request, which is handled by the wrapper rather than the
// pipeline.
type Directive struct {
	Options Options
	// Caption is nil when no caption was requested. A pointer to the empty
	// string means "auto": the host substitutes the included path.
	Caption *string
}

// ParseDirective translates a host directive's raw option map (string keys
// and values, the way a documentation framework hands them over) into a
// Directive. Flag-style options (lines-match-source, linenos) ignore their
// value. Unknown keys and unparsable integers are plain errors: they are
// host misuse, not pipeline diagnostics.
func ParseDirective(path string, raw map[string]string) (Directive, error) {
	d := Directive{Options: Options{Path: path}}
	o := &d.Options
	for key, value := range raw {
		switch key {
		case "dedent":
			n, err := parseIntOption(key, value)
			if err != nil {
				return Directive{}, err
			}
			o.Dedent = n
		case "encoding":
			o.Encoding = value
		case "lines":
			o.LinesSpec = value
		case "pyobject":
			o.ObjectName = value
		case "lines-match-source", "lineno-match":
			o.MatchSource = true
		case "linenos":
			o.LineNos = true
		case "lineno-start":
			n, err := parseIntOption(key, value)
			if err != nil {
				return Directive{}, err
			}
			o.LineNoStart = n
		case "start-after":
			o.StartAfter = value
		case "start-at":
			o.StartAt = value
		case "end-before":
			o.EndBefore = value
		case "end-at":
			o.EndAt = value
		case "diff":
			o.DiffPath = value
		case "diff-context":
			n, err := parseIntOption(key, value)
			if err != nil {
				return Directive{}, err
			}
			o.DiffContext = n
		case "prepend":
			o.Prepend = value
		case "append":
			o.Append = value
		case "emphasize-lines":
			o.EmphasizeSpec = value
		case "tab-width":
			n, err := parseIntOption(key, value)
			if err != nil {
				return Directive{}, err
			}
			o.TabWidth = n
		case "language":
			o.Language = value
		case "caption":
			caption := value
			d.Caption = &caption
		default:
			return Directive{}, fmt.Errorf("include: unknown option %q", key)
		}
	}
	return d, nil
}

func parseIntOption(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("include: option %q: %q is not an integer", key, value)
	}
	return n, nil
}
