package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/KaramelBytes/agenthub-cli/internal/dataset"
)

var (
	loadDelimiter  string
	loadDecimal    string
	loadThousands  string
	loadMaxRows    int
	loadSheetName  string
	loadSheetIndex int
)

func addLoadFlags(f *pflag.FlagSet) {
	f.StringVar(&loadDelimiter, "delimiter", "", "CSV delimiter: ','|';'|'tab' (default: sniffed)")
	f.StringVar(&loadDecimal, "decimal", "", "decimal separator: '.'|'comma'|'auto' (overrides config)")
	f.StringVar(&loadThousands, "thousands", "", "thousands separator: ','|'.'|'space' (overrides config)")
	f.IntVar(&loadMaxRows, "max-rows", 0, "maximum rows to read (overrides config)")
	f.StringVar(&loadSheetName, "sheet-name", "", "XLSX sheet name (default: first sheet)")
	f.IntVar(&loadSheetIndex, "sheet-index", 0, "XLSX 1-based sheet index, used when --sheet-name is empty")
}

func loadOptions() (dataset.LoadOptions, error) {
	opt := dataset.DefaultLoadOptions()
	if cfg != nil && cfg.MaxRows > 0 {
		opt.MaxRows = cfg.MaxRows
	}
	if loadMaxRows > 0 {
		opt.MaxRows = loadMaxRows
	}
	switch loadDelimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", loadDelimiter)
	}
	nf, err := numberFormat()
	if err != nil {
		return opt, err
	}
	opt.Number = nf
	opt.Sheet = loadSheetName
	if loadSheetIndex > 0 {
		opt.SheetIndex = loadSheetIndex
	}
	return opt, nil
}

func numberFormat() (dataset.NumberFormat, error) {
	dec, thou := loadDecimal, loadThousands
	if dec == "" && cfg != nil {
		dec = cfg.Decimal
	}
	if thou == "" && cfg != nil {
		thou = cfg.Thousands
	}
	var nf dataset.NumberFormat
	switch strings.ToLower(strings.TrimSpace(dec)) {
	case "", ".", "dot":
	case ",", "comma":
		nf.Decimal = ','
	case "auto":
		return dataset.AutoNumberFormat(), nil
	default:
		return nf, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma'|'auto')", dec)
	}
	switch strings.ToLower(thou) {
	case "":
	case ",":
		nf.Thousands = ','
	case ".":
		nf.Thousands = '.'
	case "space", " ":
		nf.Thousands = ' '
	default:
		return nf, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", thou)
	}
	if nf.Thousands != 0 && nf.Thousands == nf.Decimal {
		return nf, fmt.Errorf("decimal and thousands separators must differ")
	}
	return nf, nil
}

func loadDataset(path string) (*dataset.Dataset, error) {
	opt, err := loadOptions()
	if err != nil {
		return nil, err
	}
	ds, err := dataset.LoadFile(path, opt)
	if err != nil {
		return nil, err
	}
	logger.Debug("dataset loaded", "path", path, "rows", ds.NumRows(), "columns", ds.NumCols())
	return ds, nil
}
