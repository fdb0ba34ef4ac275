package wire

import (
	"bytes"
	"io"
	"strconv"
)

// Version is the protocol written on every status line.
const Version = "HTTP/1.0"

// Status is a status code and its reason phrase.
type Status struct {
	Code   int
	Reason string
}

func (s Status) String() string {
	return strconv.Itoa(s.Code) + " " + s.Reason
}

var (
	StatusOK             = Status{Code: 200, Reason: "OK"}
	StatusBadRequest     = Status{Code: 400, Reason: "Bad Request"}
	StatusNotFound       = Status{Code: 404, Reason: "Not Found"}
	StatusURITooLong     = Status{Code: 414, Reason: "Request-URI Too Long"}
	StatusNotImplemented = Status{Code: 501, Reason: "Not Implemented"}
)

// Field is one header line. Order is preserved on the wire.
type Field struct {
	Name  string
	Value string
}

// Response is an HTTP/1.0 response with an ordered header block.
type Response struct {
	Status Status
	Header []Field
	Body   []byte
}

// ErrorResponse returns the canned response for s: no headers and the reason
// phrase as the body.
func ErrorResponse(s Status) *Response {
	return &Response{Status: s, Body: []byte(s.Reason)}
}

// Bytes serializes the response with CRLF line endings.
func (r *Response) Bytes() []byte {
	var b bytes.Buffer
	b.Grow(64 + len(r.Body))
	b.WriteString(Version)
	b.WriteByte(' ')
	b.WriteString(r.Status.String())
	b.WriteString("\r\n")
	for _, f := range r.Header {
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	b.Write(r.Body)
	return b.Bytes()
}

// WriteTo writes the serialized response to w in one call.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Bytes())
	return int64(n), err
}
