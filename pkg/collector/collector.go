// Package collector captures the sample blocks a controller prints after
// a batch and stores them as CSV logs on the host.
package collector

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/romi.go/pkg/tasks/user"
)

// DefaultDir is where Save writes logs.
const DefaultDir = "collectionLog"

// Point is one sample of one motor.
type Point struct {
	Time  float64
	Value float64
}

// Row is one line of a block. A side not in the batch is absent.
type Row struct {
	Left     Point
	Right    Point
	HasLeft  bool
	HasRight bool
}

// Block is a captured batch.
type Block struct {
	Header []string
	Rows   []Row
	// Skipped counts malformed lines.
	Skipped int
}

// ErrNoHeader is returned when a block has no usable header.
var ErrNoHeader = errors.New("header has less than 4 fields")

// Parse reads a block from CSV text. Text after # is a comment; rows
// with fewer than 4 fields or invalid numbers are skipped.
func Parse(r io.Reader) (*Block, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	header, err := cr.Read()
	if err != nil {
		return nil, err
	}
	header = trimComment(header)
	if len(header) < 4 {
		return nil, ErrNoHeader
	}
	b := &Block{Header: header[:4]}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return b, err
		}
		rec = trimComment(rec)
		if len(rec) == 1 && rec[0] == "" {
			continue
		}
		line, _ := cr.FieldPos(0)
		row, err := parseRow(rec)
		if err != nil {
			b.Skipped++
			glog.V(2).Infof("line %d skipped: %v", line, err)
			continue
		}
		b.Rows = append(b.Rows, row)
	}
	return b, nil
}

func trimComment(rec []string) []string {
	for i, f := range rec {
		if n := strings.IndexByte(f, '#'); n >= 0 {
			rec[i] = strings.TrimSpace(f[:n])
			return rec[:i+1]
		}
	}
	return rec
}

func parseRow(rec []string) (row Row, err error) {
	if len(rec) < 4 {
		return row, fmt.Errorf("%d fields", len(rec))
	}
	var vals [4]float64
	var present [4]bool
	for i := range vals {
		f := strings.TrimSpace(rec[i])
		if f == "" {
			continue
		}
		if vals[i], err = strconv.ParseFloat(f, 64); err != nil {
			return row, err
		}
		present[i] = true
	}
	row.Left, row.HasLeft = Point{vals[0], vals[1]}, present[0] && present[1]
	row.Right, row.HasRight = Point{vals[2], vals[3]}, present[2] && present[3]
	if !row.HasLeft && !row.HasRight {
		return row, errors.New("no values")
	}
	return row, nil
}

// Extractor picks data blocks out of console output fed line by line.
type Extractor struct {
	lines  []string
	inside bool
}

// Feed consumes one line. It returns the block when its end marker is seen.
func (e *Extractor) Feed(line string) (*Block, error) {
	line = strings.TrimRight(line, "\r\n")
	switch {
	case line == user.BeginData:
		e.inside, e.lines = true, e.lines[:0]
	case !e.inside:
	case line == user.EndData:
		e.inside = false
		return Parse(strings.NewReader(strings.Join(e.lines, "\n")))
	default:
		e.lines = append(e.lines, line)
	}
	return nil, nil
}

// Inside tells whether a block is being captured.
func (e *Extractor) Inside() bool {
	return e.inside
}

// Write writes the block as CSV.
func (b *Block) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(b.Header); err != nil {
		return err
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, r := range b.Rows {
		rec := make([]string, 4)
		if r.HasLeft {
			rec[0], rec[1] = f(r.Left.Time), f(r.Left.Value)
		}
		if r.HasRight {
			rec[2], rec[3] = f(r.Right.Time), f(r.Right.Value)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Save writes the block to dir/<timestamp>.csv and returns the path.
func Save(dir string, b *Block, now time.Time) (string, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, now.Format("2006-01-02_15-04-05")+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := b.Write(f); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
