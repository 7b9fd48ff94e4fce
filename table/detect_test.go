package table

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

func TestParse(t *testing.T) {
	table, candidate, err := Parse([]byte("a,b\n1,2\n3,4"))
	require.NoError(t, err)

	assert.Equal(t, Candidate{Encoding: "utf-8", Delimiter: Comma}, candidate)
	assert.Equal(t, []string{"a", "b"}, table.Columns)
	assert.Equal(t, [][]any{{"1", "2"}, {"3", "4"}}, table.Rows)
}

func TestParseEncodings(t *testing.T) {
	utf16 := func(e unicode.Endianness, b unicode.BOMPolicy, s string) []byte {
		v, err := unicode.UTF16(e, b).NewEncoder().String(s)
		require.NoError(t, err)
		return []byte(v)
	}

	sjis, err := japanese.ShiftJIS.NewEncoder().String("名前,年齢\n太郎,20\n花子,31\n")
	require.NoError(t, err)

	tests := []struct {
		name     string
		data     []byte
		expected Candidate
		columns  []string
	}{
		{
			name:     "utf-8 comma",
			data:     []byte("name,age\nTaro,20\n"),
			expected: Candidate{"utf-8", Comma},
			columns:  []string{"name", "age"},
		},
		{
			name:     "utf-8 tab",
			data:     []byte("name\tage\nTaro\t20\n"),
			expected: Candidate{"utf-8", Tab},
			columns:  []string{"name", "age"},
		},
		{
			name:     "utf-8 japanese",
			data:     []byte("名前,年齢\n太郎,20\n"),
			expected: Candidate{"utf-8", Comma},
			columns:  []string{"名前", "年齢"},
		},
		{
			name:     "utf-8 with BOM",
			data:     append([]byte{0xef, 0xbb, 0xbf}, []byte("name,age\nTaro,20\n")...),
			expected: Candidate{"utf-8", Comma},
			columns:  []string{"name", "age"},
		},
		{
			name:     "utf-16 with BOM",
			data:     utf16(unicode.LittleEndian, unicode.UseBOM, "name\tage\nTaro\t20\n"),
			expected: Candidate{"utf-16", Tab},
			columns:  []string{"name", "age"},
		},
		{
			name:     "utf-16 big endian with BOM",
			data:     utf16(unicode.BigEndian, unicode.UseBOM, "name,age\nTaro,20\n"),
			expected: Candidate{"utf-16", Comma},
			columns:  []string{"name", "age"},
		},
		{
			name:     "utf-16-be without BOM",
			data:     utf16(unicode.BigEndian, unicode.IgnoreBOM, "name,age\nTaro,20\n"),
			expected: Candidate{"utf-16-be", Comma},
			columns:  []string{"name", "age"},
		},
		{
			name:     "cp932",
			data:     []byte(sjis),
			expected: Candidate{"cp932", Comma},
			columns:  []string{"名前", "年齢"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, candidate, err := Parse(tt.data)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, candidate)
			assert.Equal(t, tt.columns, table.Columns)
			require.NotEmpty(t, table.Rows)
		})
	}
}

func TestParseSingleColumn(t *testing.T) {
	_, _, err := Parse([]byte("name\nTaro\nHanako\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDetectionFailed))

	var detection *DetectionError
	require.True(t, errors.As(err, &detection))
	assert.Equal(t, Candidates(), detection.Candidates)
	assert.Len(t, detection.Candidates, len(Encodings)*len(Delimiters))
}

func TestParseEmpty(t *testing.T) {
	_, _, err := Parse([]byte{})
	assert.ErrorIs(t, err, ErrDetectionFailed)
}

func TestParseWithMissingValues(t *testing.T) {
	table, _, err := Parse([]byte("a,b,c\n1,,3\n4\n"))
	require.NoError(t, err)

	assert.Equal(t, [][]any{{"1", nil, "3"}, {"4", nil, nil}}, table.Rows)
	assert.Equal(t, [][]any{
		{"a", "b", "c"},
		{"1", "", "3"},
		{"4", "", ""},
	}, table.Values())
}

func TestParseWithQuotedDelimiters(t *testing.T) {
	table, candidate, err := Parse([]byte("name,note\nTaro,\"x, y\"\n"))
	require.NoError(t, err)

	assert.Equal(t, Comma, candidate.Delimiter)
	assert.Equal(t, [][]any{{"Taro", "x, y"}}, table.Rows)
}

func TestParseRejectsWrongDelimiter(t *testing.T) {
	// a comma inside a tab separated file makes the comma candidate ragged
	table, candidate, err := Parse([]byte("name\tnote\nTaro\tx,y\n"))
	require.NoError(t, err)

	assert.Equal(t, Candidate{"utf-8", Tab}, candidate)
	assert.Equal(t, []string{"name", "note"}, table.Columns)
	assert.Equal(t, [][]any{{"Taro", "x,y"}}, table.Rows)
}

func TestCandidatesOrder(t *testing.T) {
	candidates := Candidates()

	require.Len(t, candidates, 14)
	assert.Equal(t, Candidate{"utf-8", Comma}, candidates[0])
	assert.Equal(t, Candidate{"utf-8", Tab}, candidates[1])
	assert.Equal(t, Candidate{"utf-8-sig", Comma}, candidates[2])
	assert.Equal(t, Candidate{"shift_jis", Tab}, candidates[13])
}

func TestDetect(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "日本語フォルダ")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	path := filepath.Join(dir, "データ.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n3,4"), 0o644))

	table, candidate, err := Detect(path)
	require.NoError(t, err)

	assert.Equal(t, "utf-8", candidate.Encoding)
	assert.Equal(t, "comma", candidate.Delimiter.String())
	assert.Equal(t, []string{"a", "b"}, table.Columns)
}

func TestDetectFailureReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "single.csv")
	require.NoError(t, os.WriteFile(path, []byte("only\n1\n2\n"), 0o644))

	_, _, err := Detect(path)

	var detection *DetectionError
	require.True(t, errors.As(err, &detection))
	assert.Equal(t, path, detection.Path)
	assert.Contains(t, err.Error(), "utf-8/comma")
	assert.Contains(t, err.Error(), "shift_jis/tab")
}

func TestParseRejectsUndecodableInput(t *testing.T) {
	head, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String("a,b\n1,")
	require.NoError(t, err)

	sjis, err := japanese.ShiftJIS.NewEncoder().String("名前,年齢\n太郎,2")
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "utf-16 lone surrogate",
			data: append([]byte(head), 0x00, 0xd8, '\n', 0x00),
		},
		{
			name: "shift_jis truncated lead byte",
			data: append([]byte(sjis), 0x81),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.data)
			assert.ErrorIs(t, err, ErrDetectionFailed)
		})
	}
}

func TestParseKeepsEncodedReplacementCharacter(t *testing.T) {
	data, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String("a,b\n1,\ufffd\n")
	require.NoError(t, err)

	table, candidate, err := Parse([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, Candidate{"utf-16", Comma}, candidate)
	assert.Equal(t, [][]any{{"1", "\ufffd"}}, table.Rows)
}

func TestParseWithUnterminatedQuote(t *testing.T) {
	_, _, err := Parse([]byte("a,\"b\n1,2\n"))

	assert.ErrorIs(t, err, ErrDetectionFailed)
}

func TestParseLineEndings(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"LF", "a,b\n1,2\n"},
		{"CRLF", "a,b\r\n1,2\r\n"},
		{"CR", "a,b\r1,2\r"},
		{"CR without trailing newline", "a,b\r1,2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, _, err := Parse([]byte(tt.data))
			require.NoError(t, err)

			assert.Equal(t, []string{"a", "b"}, table.Columns)
			assert.Equal(t, [][]any{{"1", "2"}}, table.Rows)
		})
	}
}
