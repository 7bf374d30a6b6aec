package dataset

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

type workbookXML struct {
	Sheets []struct {
		Name    string `xml:"name,attr"`
		SheetID int    `xml:"sheetId,attr"`
		RID     string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sheets>sheet"`
}

type relsXML struct {
	Rels []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// readXLSXRecords returns the rows of one worksheet as strings. The sheet is
// chosen by name when given, otherwise by 1-based index.
func readXLSXRecords(p string, sheetName string, sheetIndex int) ([][]string, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer zr.Close()

	var wb workbookXML
	if b := zipEntry(&zr.Reader, "xl/workbook.xml"); len(b) > 0 {
		if err := xml.Unmarshal(b, &wb); err != nil {
			return nil, fmt.Errorf("parse workbook: %w", err)
		}
	}
	var rels relsXML
	if b := zipEntry(&zr.Reader, "xl/_rels/workbook.xml.rels"); len(b) > 0 {
		_ = xml.Unmarshal(b, &rels)
	}
	targets := make(map[string]string, len(rels.Rels))
	for _, r := range rels.Rels {
		targets[r.ID] = r.Target
	}

	target := ""
	if sheetName != "" {
		names := make([]string, 0, len(wb.Sheets))
		for _, s := range wb.Sheets {
			names = append(names, s.Name)
			if strings.EqualFold(s.Name, sheetName) {
				target = sheetPath(targets[s.RID])
			}
		}
		if target == "" {
			return nil, fmt.Errorf("sheet %q not found in workbook %q; available sheets: %s",
				sheetName, filepath.Base(p), strings.Join(names, ", "))
		}
	} else {
		idx := sheetIndex
		if idx <= 0 {
			idx = 1
		}
		for _, s := range wb.Sheets {
			if s.SheetID == idx {
				target = sheetPath(targets[s.RID])
				break
			}
		}
		if target == "" {
			target = fmt.Sprintf("xl/worksheets/sheet%d.xml", idx)
		}
	}

	sheet := zipEntry(&zr.Reader, target)
	if sheet == nil {
		return nil, fmt.Errorf("worksheet %s missing from %q", target, filepath.Base(p))
	}
	shared := sharedStrings(zipEntry(&zr.Reader, "xl/sharedStrings.xml"))
	return sheetRows(sheet, shared)
}

func zipEntry(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		defer rc.Close()
		b, _ := io.ReadAll(rc)
		return b
	}
	return nil
}

// sheetPath converts a relationship target into a zip entry name.
func sheetPath(rel string) string {
	if rel == "" {
		return ""
	}
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return path.Join("xl", rel)
}

func sharedStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	var out []string
	var buf strings.Builder
	inText := false
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "si":
				buf.Reset()
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "si":
				out = append(out, buf.String())
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		}
	}
}

// sheetRows streams <row>/<c> elements into a dense string grid.
func sheetRows(data []byte, shared []string) ([][]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		rows    [][]string
		row     []string
		inRow   bool
		cellRef string
		cellTyp string
		cellVal strings.Builder
		inVal   bool
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return rows, nil
			}
			return nil, fmt.Errorf("parse worksheet: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "row":
				inRow, row = true, nil
			case "c":
				cellRef, cellTyp = "", ""
				cellVal.Reset()
				for _, a := range t.Attr {
					switch a.Name.Local {
					case "r":
						cellRef = a.Value
					case "t":
						cellTyp = a.Value
					}
				}
			case "v", "t":
				inVal = inRow
			}
		case xml.CharData:
			if inVal {
				cellVal.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "v", "t":
				inVal = false
			case "c":
				col := columnIndex(cellRef)
				if col < 0 {
					col = len(row)
				}
				for len(row) <= col {
					row = append(row, "")
				}
				row[col] = cellText(cellVal.String(), cellTyp, shared)
			case "row":
				rows = append(rows, row)
				inRow = false
			}
		}
	}
}

func cellText(raw, typ string, shared []string) string {
	switch typ {
	case "s":
		i, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || i < 0 || i >= len(shared) {
			return ""
		}
		return shared[i]
	case "b":
		if raw == "1" {
			return "true"
		}
		return "false"
	}
	return raw
}

// columnIndex maps a cell reference like "C12" to a 0-based column index.
func columnIndex(ref string) int {
	idx := 0
	n := 0
	for _, r := range strings.ToUpper(ref) {
		if r < 'A' || r > 'Z' {
			break
		}
		idx = idx*26 + int(r-'A'+1)
		n++
	}
	if n == 0 {
		return -1
	}
	return idx - 1
}
