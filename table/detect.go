package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// Delimiter is a field separator tried during detection.
type Delimiter rune

const (
	Comma Delimiter = ','
	Tab   Delimiter = '\t'
)

func (d Delimiter) String() string {
	switch d {
	case Comma:
		return "comma"
	case Tab:
		return "tab"
	default:
		return fmt.Sprintf("%q", rune(d))
	}
}

// Candidate is one (encoding, delimiter) pair tried against the raw file.
type Candidate struct {
	Encoding  string
	Delimiter Delimiter
}

func (c Candidate) String() string {
	if c.Delimiter == 0 {
		return c.Encoding
	}

	return fmt.Sprintf("%s/%v", c.Encoding, c.Delimiter)
}

// Encodings and Delimiters are tried in this order, encoding first.
var (
	Encodings  = []string{"utf-8", "utf-8-sig", "utf-16", "utf-16-le", "utf-16-be", "cp932", "shift_jis"}
	Delimiters = []Delimiter{Comma, Tab}
)

var ErrDetectionFailed = errors.New("unable to detect file encoding/format")

// DetectionError lists every candidate that was tried without success.
type DetectionError struct {
	Path       string
	Candidates []Candidate
}

func (e *DetectionError) Error() string {
	tried := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		tried[i] = c.String()
	}

	if e.Path == "" {
		return fmt.Sprintf("%v (tried %s)", ErrDetectionFailed, strings.Join(tried, ", "))
	}

	return fmt.Sprintf("%v for %s (tried %s)", ErrDetectionFailed, e.Path, strings.Join(tried, ", "))
}

func (e *DetectionError) Unwrap() error {
	return ErrDetectionFailed
}

var decoders = map[string]encoding.Encoding{
	"utf-16":    unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf-16-le": unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf-16-be": unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"cp932":     japanese.ShiftJIS,
	"shift_jis": japanese.ShiftJIS,
}

// Candidates returns the full detection order.
func Candidates() []Candidate {
	list := make([]Candidate, 0, len(Encodings)*len(Delimiters))
	for _, e := range Encodings {
		for _, d := range Delimiters {
			list = append(list, Candidate{Encoding: e, Delimiter: d})
		}
	}

	return list
}

// Detect reads the file at path and returns the table produced by the first
// candidate that parses it into more than one column.
func Detect(path string) (*Table, Candidate, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, Candidate{}, err
	}

	t, c, err := Parse(b)
	if err != nil {
		var detection *DetectionError
		if errors.As(err, &detection) {
			detection.Path = path
		}

		return nil, Candidate{}, err
	}

	return t, c, nil
}

// Parse runs detection over an in-memory copy of a file.
func Parse(b []byte) (*Table, Candidate, error) {
	candidates := Candidates()

	for _, c := range candidates {
		if t, err := parse(b, c); err == nil && len(t.Columns) > 1 {
			return t, c, nil
		}
	}

	return nil, Candidate{}, &DetectionError{Candidates: candidates}
}

// newlines converts bare CR line endings to LF. CRLF is left as is.
var newlines = strings.NewReplacer("\r\n", "\r\n", "\r", "\n")

// parse applies a single candidate. Quoting is strict: a quote left open at
// the end of the file, or a quote inside an unquoted field, rejects the
// candidate.
func parse(b []byte, c Candidate) (*Table, error) {
	text, err := decode(b, c.Encoding)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(strings.NewReader(newlines.Replace(text)))
	r.Comma = rune(c.Delimiter)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	return makeTable(records)
}

func decode(b []byte, name string) (string, error) {
	switch name {
	case "utf-8":
		return validate(b, name)

	case "utf-8-sig":
		return validate(bytes.TrimPrefix(b, []byte{0xef, 0xbb, 0xbf}), name)
	}

	enc, ok := decoders[name]
	if !ok {
		return "", fmt.Errorf("unsupported encoding '%s'", name)
	}

	if strings.HasPrefix(name, "utf-16") && len(b)%2 != 0 {
		return "", fmt.Errorf("%s: odd byte count", name)
	}

	decoded, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}

	// x/text decoders substitute U+FFFD for undecodable input
	if bytes.Count(decoded, replacement) > replacements(b, name) {
		return "", fmt.Errorf("%s: invalid byte sequence", name)
	}

	return validate(decoded, name)
}

var replacement = []byte("\ufffd")

// replacements counts the U+FFFD characters encoded in the raw input, i.e.
// the ones a correct decode is expected to produce.
func replacements(b []byte, name string) int {
	var hi, lo int

	switch {
	case name == "utf-16-be":
		hi, lo = 0, 1
	case name == "utf-16" && bytes.HasPrefix(b, []byte{0xfe, 0xff}):
		hi, lo = 0, 1
	case strings.HasPrefix(name, "utf-16"):
		hi, lo = 1, 0
	default:
		// U+FFFD is not representable in Shift JIS
		return 0
	}

	n := 0
	for i := 0; i+1 < len(b); i += 2 {
		if b[i+hi] == 0xff && b[i+lo] == 0xfd {
			n++
		}
	}

	return n
}

// validate rejects invalid UTF-8 and embedded NULs. A NUL is never part of a
// text table but is what a UTF-16 file looks like when read as UTF-8.
func validate(b []byte, name string) (string, error) {
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%s: invalid byte sequence", name)
	}

	if bytes.IndexByte(b, 0) >= 0 {
		return "", fmt.Errorf("%s: unexpected NUL", name)
	}

	return string(b), nil
}
