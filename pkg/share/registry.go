package share

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
)

// Entry is a primitive listed in a Registry.
type Entry interface {
	Name() string
	String() string
}

// Registry lists the cells and queues created while wiring a task graph
// so their state can be dumped for diagnostics.
type Registry struct {
	entries []Entry
}

// Add registers entries.
func (r *Registry) Add(entries ...Entry) *Registry {
	r.entries = append(r.entries, entries...)
	return r
}

// Entries returns registered entries in registration order.
func (r *Registry) Entries() []Entry {
	return r.entries
}

// RegisterCell creates a Cell and registers it.
func RegisterCell[T Value](r *Registry, name string, initial T) *Cell[T] {
	c := NewCell(name, initial)
	r.Add(c)
	return c
}

// RegisterQueue creates a Queue and registers it.
func RegisterQueue[T any](r *Registry, name string, capacity int) (*Queue[T], error) {
	q, err := NewQueue[T](name, capacity)
	if err != nil {
		return nil, err
	}
	r.Add(q)
	return q, nil
}

// WriteTo writes a table of all entries sorted by name.
func (r *Registry) WriteTo(w io.Writer) (int64, error) {
	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	cw := &countingWriter{w: w}
	tw := tabwriter.NewWriter(cw, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tVALUE")
	for _, e := range entries {
		kind := "cell"
		if o, ok := e.(interface{ Overflows() int }); ok {
			kind = fmt.Sprintf("queue (overflows %d)", o.Overflows())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name(), kind, e.String())
	}
	err := tw.Flush()
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.n += int64(n)
	return n, err
}
