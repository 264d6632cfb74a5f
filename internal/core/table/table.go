// Package table parses and serializes comma separated tables held fully in memory
package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	perr "csvprep/internal/platform/errors"
)

// Output quoting modes
const (
	// QuotingStandard quotes fields containing commas, quotes or newlines
	QuotingStandard = "standard"
	// QuotingLegacy joins cells with "," and rows with "\n" without escaping or a trailing newline
	QuotingLegacy = "legacy"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Table is a header row plus data rows; every row has len(Header) cells
type Table struct {
	Header []string
	Rows   [][]string
}

// Parse decodes UTF-8 CSV text; the first record is the header
// empty input, invalid UTF-8 and ragged rows are InvalidArgument errors.
// A stray quote inside an unquoted field is kept as a literal, e.g. 12" long
func Parse(b []byte) (Table, error) {
	b = bytes.TrimPrefix(b, bom)
	if len(bytes.TrimSpace(b)) == 0 {
		return Table{}, perr.InvalidArgf("empty CSV: no header row")
	}
	if !utf8.Valid(b) {
		return Table{}, perr.InvalidArgf("CSV is not valid UTF-8")
	}

	r := csv.NewReader(bytes.NewReader(b))
	// 0 pins every record to the header's width
	r.FieldsPerRecord = 0
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return Table{}, parseErr(err)
	}
	t := Table{Header: header}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, parseErr(err)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

func parseErr(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return perr.WithField(perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "malformed CSV at line %d", pe.Line), "csv")
	}
	return perr.Wrap(err, perr.ErrorCodeInvalidArgument, "malformed CSV")
}

// Encode serializes header then rows in the given quoting mode; unknown modes are standard
func Encode(header []string, rows [][]string, quoting string) ([]byte, error) {
	if quoting == QuotingLegacy {
		return encodeLegacy(header, rows), nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "write header")
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "write rows")
	}
	return buf.Bytes(), nil
}

func encodeLegacy(header []string, rows [][]string) []byte {
	var sb strings.Builder
	sb.WriteString(strings.Join(header, ","))
	for _, r := range rows {
		sb.WriteByte('\n')
		sb.WriteString(strings.Join(r, ","))
	}
	return []byte(sb.String())
}

// Encode serializes t
func (t Table) Encode(quoting string) ([]byte, error) { return Encode(t.Header, t.Rows, quoting) }

// Width is the header's column count
func (t Table) Width() int { return len(t.Header) }
