package origin

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestGenerateDocument_ExactLength(t *testing.T) {
	for size := MinSize; size <= MaxSize; size++ {
		doc, err := GenerateDocument(size)
		if err != nil {
			t.Fatalf("GenerateDocument(%d) error: %v", size, err)
		}
		if len(doc) != size {
			t.Fatalf("GenerateDocument(%d) returned %d bytes", size, len(doc))
		}
	}
}

func TestGenerateDocument_Shape(t *testing.T) {
	doc, err := GenerateDocument(150)
	if err != nil {
		t.Fatalf("GenerateDocument error: %v", err)
	}
	s := string(doc)
	header := "<HTML>\n<HEAD>\n<TITLE>I am 150 bytes long</TITLE>\n</HEAD>\n<BODY>\n"
	if !strings.HasPrefix(s, header) {
		t.Fatalf("unexpected header in %q", s)
	}
	if !strings.HasSuffix(s, documentFooter) {
		t.Fatalf("unexpected footer in %q", s)
	}
	filler := s[len(header) : len(s)-len(documentFooter)]
	if strings.Trim(filler, string(rune(FillerByte))) != "" {
		t.Fatalf("filler contains other bytes: %q", filler)
	}
}

// The skeleton is 78 bytes plus the digits of the size, so the smallest
// satisfiable size is 80 and 79 is rejected.
func TestGenerateDocument_Boundary(t *testing.T) {
	doc, err := GenerateDocument(80)
	if err != nil {
		t.Fatalf("GenerateDocument(80) error: %v", err)
	}
	if want := documentHeader(80) + documentFooter; !bytes.Equal(doc, []byte(want)) {
		t.Fatalf("got %q, want %q", doc, want)
	}

	for _, size := range []int{79, 10, 9, 0, -1, -100} {
		if _, err := GenerateDocument(size); !errors.Is(err, ErrSizeUnsatisfiable) {
			t.Errorf("GenerateDocument(%d): expected ErrSizeUnsatisfiable, got %v", size, err)
		}
	}
}

func TestGenerateDocument_DigitWidth(t *testing.T) {
	// Crossing a digit boundary grows the header by one byte; the filler
	// must shrink to compensate.
	for _, size := range []int{999, 1000, 9999, 10000} {
		doc, err := GenerateDocument(size)
		if err != nil {
			t.Fatalf("GenerateDocument(%d) error: %v", size, err)
		}
		if len(doc) != size {
			t.Fatalf("GenerateDocument(%d) returned %d bytes", size, len(doc))
		}
	}
}
