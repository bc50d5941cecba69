// Package linesrc reads source files into sequences of lines for inclusion in
// documentation. Lines keep their trailing terminators so joining the sequence
// reproduces the decoded file exactly.
package linesrc

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadError reports that a file could not be opened or read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("linesrc: reading %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// EncodingError reports that a file's bytes could not be decoded with the
// declared encoding.
type EncodingError struct {
	Path     string
	Encoding string
	Err      error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("linesrc: decoding %s as %s: %v", e.Path, e.Encoding, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// ReadLines reads the file at path, decodes it with the named text encoding
// (any name the WHATWG encoding index understands; empty means UTF-8), splits
// it into terminator-preserving lines, and strips the leading dedent runes
// from each line.
//
// The file handle is fully consumed and released before ReadLines returns.
// Failures are *ReadError or *EncodingError; nothing panics.
func ReadLines(path, encodingName string, dedent int) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	name := encodingName
	if name == "" {
		name = "utf-8"
	}
	text, err := decode(data, name)
	if err != nil {
		return nil, &EncodingError{Path: path, Encoding: name, Err: err}
	}
	return Dedent(SplitLines(text), dedent), nil
}

func decode(data []byte, name string) (string, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", fmt.Errorf("unknown encoding %q", name)
	}
	if enc == unicode.UTF8 {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("input is not valid UTF-8")
		}
		return string(data), nil
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	// x/text decoders substitute U+FFFD for undecodable bytes instead of
	// failing; treat any substitution as a decode failure.
	if strings.ContainsRune(string(out), utf8.RuneError) {
		return "", fmt.Errorf("input contains bytes undecodable as %q", name)
	}
	return string(out), nil
}

// SplitLines splits text into lines, each retaining its trailing "\n" (and
// any "\r" before it). A final unterminated chunk is kept as its own line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	for {
		idx := strings.IndexByte(text, '\n')
		if idx == -1 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:idx+1])
		text = text[idx+1:]
		if text == "" {
			break
		}
	}
	return lines
}

// Dedent strips the first n runes from every line. A line that had a
// terminator and becomes empty keeps a single "\n" so the line count and
// blankness of the sequence are preserved. Dedent(lines, 0) returns lines
// unchanged.
func Dedent(lines []string, n int) []string {
	if n <= 0 {
		return lines
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		runes := []rune(line)
		var stripped string
		if n < len(runes) {
			stripped = string(runes[n:])
		}
		if stripped == "" && strings.HasSuffix(line, "\n") {
			stripped = "\n"
		}
		out = append(out, stripped)
	}
	return out
}
