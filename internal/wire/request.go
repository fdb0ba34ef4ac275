package wire

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrEmptyRequest means the read produced no lines at all. The connection is
	// dropped without a response.
	ErrEmptyRequest = errors.New("wire: empty request")
	// ErrMalformedRequestLine means the first line did not split into exactly
	// three tokens.
	ErrMalformedRequestLine = errors.New("wire: malformed request line")
	// ErrInvalidSize means the target could not be read as a base-10 size.
	ErrInvalidSize = errors.New("wire: invalid size")
)

// RequestLine is the METHOD SP TARGET SP VERSION triple.
type RequestLine struct {
	Method  string
	Target  string
	Version string
}

func (l RequestLine) String() string {
	return l.Method + " " + l.Target + " " + l.Version
}

// Request is the result of a successful parse. Lines holds every line of the
// raw read, request line first, without terminators.
type Request struct {
	Line  RequestLine
	Lines []string
}

// HeaderLines returns the lines strictly between the request line and the
// first blank line. Anything after the blank line is not part of the result.
func (r *Request) HeaderLines() []string {
	var out []string
	for _, line := range r.Lines[1:] {
		if line == "" {
			break
		}
		out = append(out, line)
	}
	return out
}

// ParseRequest interprets the bytes of a single read. It returns
// ErrEmptyRequest when there is nothing to answer and ErrMalformedRequestLine
// when the first line is not a three token request line.
func ParseRequest(raw []byte) (*Request, error) {
	lines := SplitLines(string(raw))
	if len(lines) == 0 {
		return nil, ErrEmptyRequest
	}

	fields := strings.Fields(lines[0])
	if len(fields) != 3 {
		return nil, fmt.Errorf("%w: %d tokens in %q", ErrMalformedRequestLine, len(fields), lines[0])
	}

	return &Request{
		Line: RequestLine{
			Method:  fields[0],
			Target:  fields[1],
			Version: fields[2],
		},
		Lines: lines,
	}, nil
}

// SplitLines splits s on \r\n, \n and \r only; other vertical whitespace
// such as \f, \v or U+2028 stays inside the line. A terminator at the very
// end does not start another line, so "" yields no lines and "\r\n" yields
// one empty line.
func SplitLines(s string) []string {
	var lines []string
	for len(s) > 0 {
		i := strings.IndexAny(s, "\r\n")
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i])
		if s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n' {
			i++
		}
		s = s[i+1:]
	}
	return lines
}

// ParseSize strips one leading slash from target and reads the rest as a
// signed base-10 integer.
func ParseSize(target string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(target, "/"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, target)
	}
	return n, nil
}
