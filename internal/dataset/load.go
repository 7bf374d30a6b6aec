package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var bom = []byte{0xef, 0xbb, 0xbf}

// LoadOptions controls how raw tabular files become a Dataset.
type LoadOptions struct {
	// Delimiter for CSV. If 0, sniffs ',', ';' and '\t' from the header line.
	Delimiter rune
	// MaxRows limits rows read; 0 means unlimited.
	MaxRows int
	// RawText keeps every non-null cell as Text instead of inferring
	// numeric and boolean columns on load.
	RawText bool
	// Number controls numeric parsing during inference.
	Number NumberFormat
	// XLSX sheet selection. SheetIndex is 1-based; used when Sheet is empty.
	Sheet      string
	SheetIndex int
}

// DefaultLoadOptions returns reasonable defaults for uploads.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{MaxRows: 100000, SheetIndex: 1}
}

// LoadFile reads a CSV, TSV or XLSX file into a Dataset.
func LoadFile(path string, opt LoadOptions) (*Dataset, error) {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") {
		records, err := readXLSXRecords(path, opt.Sheet, opt.SheetIndex)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return New()
		}
		return FromRecords(records[0], records[1:], opt)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	if opt.Delimiter == 0 && strings.HasSuffix(lower, ".tsv") {
		opt.Delimiter = '\t'
	}
	return ReadCSV(f, opt)
}

// ReadCSV parses CSV text with a header row.
func ReadCSV(r io.Reader, opt LoadOptions) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, bom)
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(data)
	}
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return New()
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	var rows [][]string
	for {
		if opt.MaxRows > 0 && len(rows) >= opt.MaxRows {
			break
		}
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
	}
	return FromRecords(header, rows, opt)
}

// FromRecords builds a Dataset from a header and string rows. Short rows are
// padded with missing values, long rows are truncated to the header width.
// Blank names become "Unnamed: i" and duplicates get ".1", ".2" suffixes.
func FromRecords(header []string, rows [][]string, opt LoadOptions) (*Dataset, error) {
	names := uniqueNames(header)
	if opt.MaxRows > 0 && len(rows) > opt.MaxRows {
		rows = rows[:opt.MaxRows]
	}
	cols := make([]Column, len(names))
	for j, name := range names {
		raw := make([]string, len(rows))
		for i, rec := range rows {
			if j < len(rec) {
				raw[i] = rec[j]
			}
		}
		cols[j] = Column{Name: name, Values: inferColumn(raw, opt)}
	}
	return New(cols...)
}

// inferColumn applies read_csv-like typing: numeric when every non-null
// token parses as a number, boolean when every token is true/false,
// otherwise text.
func inferColumn(raw []string, opt LoadOptions) []Value {
	out := make([]Value, len(raw))
	if opt.RawText {
		for i, s := range raw {
			out[i] = ParseToken(s)
		}
		return out
	}
	numeric, boolean, nonNull := true, true, 0
	for _, s := range raw {
		if IsNullToken(s) {
			continue
		}
		nonNull++
		if numeric {
			if _, ok := ParseNumber(s, opt.Number); !ok {
				numeric = false
			}
		}
		if boolean {
			if _, ok := ParseBool(s); !ok {
				boolean = false
			}
		}
		if !numeric && !boolean {
			break
		}
	}
	for i, s := range raw {
		if IsNullToken(s) {
			continue
		}
		switch {
		case nonNull > 0 && numeric:
			x, _ := ParseNumber(s, opt.Number)
			out[i] = Number(x)
		case nonNull > 0 && boolean:
			b, _ := ParseBool(s)
			out[i] = Bool(b)
		default:
			out[i] = Text(s)
		}
	}
	return out
}

func uniqueNames(header []string) []string {
	out := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		candidate := name
		for n := 1; taken[candidate]; n++ {
			candidate = name + "." + strconv.Itoa(n)
		}
		taken[candidate] = true
		out[i] = candidate
	}
	return out
}

// sniffDelimiter picks the most frequent of ',', ';' and '\t' in the first line.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestN := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}

// WriteCSV writes the header and the first n rows of ds as CSV. A negative
// n writes every row. Fields are quoted per RFC 4180.
func WriteCSV(w io.Writer, ds *Dataset, n int) error {
	if ds == nil || ds.NumCols() == 0 {
		return nil
	}
	if n < 0 || n > ds.NumRows() {
		n = ds.NumRows()
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, ds.NumCols())
	for i := 0; i < n; i++ {
		for j, c := range ds.cols {
			rec[j] = c.Values[i].String()
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
