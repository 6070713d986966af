package corpus

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// Reader reads tab-separated corpus rows.
type Reader struct {
	r          *csv.Reader
	skipHeader bool
	line       int
}

func NewReader(r io.Reader, skipHeader bool) *Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	// Transcripts carry bare quotes.
	cr.LazyQuotes = true
	return &Reader{r: cr, skipHeader: skipHeader}
}

// Read returns the next record, or io.EOF when the input is exhausted.
func (r *Reader) Read() (Record, error) {
	for {
		fields, err := r.r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Record{}, io.EOF
			}
			return Record{}, fmt.Errorf("read tsv: %w", err)
		}
		r.line++
		if r.skipHeader && r.line == 1 {
			continue
		}
		rec, err := ParseRecord(fields)
		if err != nil {
			return Record{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		return rec, nil
	}
}

func (r *Reader) ReadAll(ctx context.Context) ([]Record, error) {
	var out []Record
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

// Writer appends tab-separated corpus rows.
type Writer struct {
	w    *csv.Writer
	rows int
}

func NewWriter(w io.Writer) *Writer {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return &Writer{w: cw}
}

func (w *Writer) Write(r Record) error {
	if err := w.w.Write(r.Fields()); err != nil {
		return fmt.Errorf("write tsv: %w", err)
	}
	w.rows++
	return nil
}

func (w *Writer) WriteAll(recs []Record) error {
	for _, r := range recs {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}

// Rows is the number of records written so far.
func (w *Writer) Rows() int { return w.rows }
