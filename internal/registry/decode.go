package registry

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// DecodeError reports a registry buffer that cannot be decoded faithfully
type DecodeError struct {
	Encoding string
	Line     int // 1-based, 0 when unknown
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("registry: decode %s: line %d: %v", e.Encoding, e.Line, e.Err)
	}
	return fmt.Sprintf("registry: decode %s: %v", e.Encoding, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts a legacy-encoded registry buffer to text and splits it into
// logical lines. Line 0 is the header.
func Decode(buf []byte, encodingName string) ([]string, error) {
	text, err := decodeText(buf, encodingName)
	if err != nil {
		return nil, err
	}
	return SplitLines(text), nil
}

func decodeText(buf []byte, encodingName string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(encodingName))

	var enc encoding.Encoding
	switch name {
	case "euc-kr", "euckr", "cp949", "uhc", "ks_c_5601-1987":
		enc = korean.EUCKR
	case "utf-8", "utf8", "":
		buf = bytes.TrimPrefix(buf, utf8BOM)
		if !utf8.Valid(buf) {
			return "", &DecodeError{Encoding: "utf-8", Line: invalidUTF8Line(buf), Err: fmt.Errorf("invalid byte sequence")}
		}
		return string(buf), nil
	default:
		return "", &DecodeError{Encoding: encodingName, Err: fmt.Errorf("unsupported encoding")}
	}

	out, _, err := transform.Bytes(enc.NewDecoder(), buf)
	if err != nil {
		return "", &DecodeError{Encoding: name, Err: err}
	}

	// The x/text decoders substitute U+FFFD for invalid input instead of failing.
	text := string(out)
	if i := strings.IndexRune(text, utf8.RuneError); i >= 0 {
		line := strings.Count(text[:i], "\n") + 1
		return "", &DecodeError{Encoding: name, Line: line, Err: fmt.Errorf("invalid byte sequence")}
	}
	return text, nil
}

func invalidUTF8Line(buf []byte) int {
	line := 1
	for len(buf) > 0 {
		r, size := utf8.DecodeRune(buf)
		if r == utf8.RuneError && size <= 1 {
			return line
		}
		if r == '\n' {
			line++
		}
		buf = buf[size:]
	}
	return 0
}

// maxContinuation bounds how many physical lines one quoted field may span
const maxContinuation = 8

// SplitLines splits text on LF or CRLF. A newline inside a field that opened with a
// double quote belongs to that field, so the logical row continues, unless the row
// already holds as many commas as the header or has spanned maxContinuation lines.
// An unterminated quote therefore only damages its own row.
func SplitLines(text string) []string {
	width := 0
	if end := strings.IndexByte(text, '\n'); end >= 0 {
		width = strings.Count(text[:end], ",")
	}

	var lines []string
	start := 0
	commas, spanned := 0, 0
	inQuoted := false
	atFieldStart := true

	emit := func(i int) {
		lines = append(lines, strings.TrimSuffix(text[start:i], "\r"))
		start = i + 1
		commas, spanned = 0, 0
		inQuoted = false
		atFieldStart = true
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == ',' {
			commas++
		}
		switch {
		case inQuoted:
			switch c {
			case '"':
				if i+1 < len(text) && text[i+1] == '"' {
					i++
				} else {
					inQuoted = false
				}
			case '\n':
				spanned++
				if (width > 0 && commas >= width) || spanned >= maxContinuation {
					emit(i)
				}
			}
		case c == '"' && atFieldStart:
			inQuoted = true
			atFieldStart = false
		case c == ',':
			atFieldStart = true
		case c == '\n':
			emit(i)
		default:
			atFieldStart = false
		}
	}
	return append(lines, strings.TrimSuffix(text[start:], "\r"))
}
