package origin

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// FillerByte pads every generated document up to its requested size.
const FillerByte = 'a'

const documentFooter = "\n</BODY>\n</HTML>\n"

// ErrSizeUnsatisfiable means the size is too small to hold the fixed header
// and footer.
var ErrSizeUnsatisfiable = errors.New("origin: size smaller than document skeleton")

func documentHeader(size int) string {
	return "<HTML>\n<HEAD>\n<TITLE>I am " + strconv.Itoa(size) + " bytes long</TITLE>\n</HEAD>\n<BODY>\n"
}

// GenerateDocument returns an HTML document of exactly size bytes whose title
// states the size.
func GenerateDocument(size int) ([]byte, error) {
	header := documentHeader(size)
	filler := size - (len(header) + len(documentFooter))
	if filler < 0 {
		return nil, fmt.Errorf("%w: %d < %d", ErrSizeUnsatisfiable, size, len(header)+len(documentFooter))
	}

	var b bytes.Buffer
	b.Grow(size)
	b.WriteString(header)
	b.Write(bytes.Repeat([]byte{FillerByte}, filler))
	b.WriteString(documentFooter)
	return b.Bytes(), nil
}
