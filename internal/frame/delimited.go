package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// WriteDelimited writes a header and one record per row, each prefixed by the
// 0-based row index. The index column has an empty header.
func (f *Frame) WriteDelimited(w io.Writer, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma

	header := append([]string{""}, f.Columns()...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(f.series)+1)
	for i := 0; i < f.rows; i++ {
		record[0] = strconv.Itoa(i)
		for j, s := range f.series {
			record[j+1] = s.Cell(i)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadDelimited reads what WriteDelimited wrote. The leading index column is
// dropped and each remaining column's type is inferred from its cells.
func ReadDelimited(r io.Reader, comma rune) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header", ErrShape)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 1 {
		return nil, fmt.Errorf("%w: missing index column", ErrShape)
	}
	names := header[1:]

	cols := make([][]string, len(names))
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		for j := range names {
			cols[j] = append(cols[j], rec[j+1])
		}
	}

	series := make([]Series, len(names))
	for j, name := range names {
		series[j] = infer(name, cols[j])
	}
	return New(series...)
}
