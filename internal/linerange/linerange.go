// Package linerange parses human-readable line range specifications like "1,3-5,9-"
// into concrete 0-based line indices.
package linerange

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports a malformed range specification.
type ParseError struct {
	Spec   string
	Reason string
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("linerange: invalid line number spec %q: %s", e.Spec, e.Reason)
}

// Parse resolves spec against a file of total lines into an ordered list of 0-based
// indices. Each comma-separated token is either a single 1-based line number or an
// inclusive range "a-b"; either bound may be omitted to mean "from the first line" or
// "through the last line" respectively. The result may be disjoint, and indices past
// the end of file are NOT clipped here (callers drop them when selecting).
//
// Malformed tokens, non-positive line numbers, and out-of-order bounds ("5-3") return
// a *ParseError.
func Parse(spec string, total int) ([]int, error) {
	var indices []int
	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)
		bounds := strings.Split(token, "-")
		switch len(bounds) {
		case 1:
			n, err := parseLineNumber(bounds[0])
			if err != nil {
				return nil, &ParseError{Spec: spec, Reason: err.Error()}
			}
			indices = append(indices, n-1)
		case 2:
			begin := 1
			if bounds[0] != "" {
				n, err := parseLineNumber(bounds[0])
				if err != nil {
					return nil, &ParseError{Spec: spec, Reason: err.Error()}
				}
				begin = n
			}
			end := total
			if bounds[1] != "" {
				n, err := parseLineNumber(bounds[1])
				if err != nil {
					return nil, &ParseError{Spec: spec, Reason: err.Error()}
				}
				end = n
			}
			if bounds[1] != "" && begin > end {
				return nil, &ParseError{Spec: spec, Reason: fmt.Sprintf("range %q is out of order", token)}
			}
			for i := begin; i <= end; i++ {
				indices = append(indices, i-1)
			}
		default:
			return nil, &ParseError{Spec: spec, Reason: fmt.Sprintf("token %q has too many dashes", token)}
		}
	}
	return indices, nil
}

func parseLineNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a line number", s)
	}
	if n < 1 {
		return 0, fmt.Errorf("line numbers are 1-based, got %d", n)
	}
	return n, nil
}

// Contiguous reports whether every index is exactly one more than its predecessor.
// An empty or single-element list is contiguous.
func Contiguous(indices []int) bool {
	for i := 1; i < len(indices); i++ {
		if indices[i] != indices[i-1]+1 {
			return false
		}
	}
	return true
}
