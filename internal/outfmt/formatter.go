package outfmt

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Formatter writes one command's result: JSON in JSON mode, an aligned table
// in text mode. Notices such as "nothing found" go to errOut.
type Formatter struct {
	mode   Mode
	query  string
	out    io.Writer
	errOut io.Writer
	table  *tabwriter.Writer
}

// NewFormatter reads the mode and query from ctx.
func NewFormatter(ctx context.Context, out, errOut io.Writer) *Formatter {
	s := fromContext(ctx)
	return &Formatter{
		mode:   s.mode,
		query:  s.query,
		out:    out,
		errOut: errOut,
		table:  tabwriter.NewWriter(out, 0, 4, 2, ' ', 0),
	}
}

// Output writes data as filtered JSON. It writes nothing in text mode.
func (f *Formatter) Output(data any) error {
	if f.mode != JSON {
		return nil
	}
	return WriteJSONFiltered(f.out, data, f.query)
}

// StartTable writes the header row and reports whether a table is being
// written at all; in JSON mode it is a no-op returning false.
func (f *Formatter) StartTable(headers []string) bool {
	if f.mode == JSON {
		return false
	}
	f.Row(headers...)
	return true
}

func (f *Formatter) Row(columns ...string) {
	_, _ = fmt.Fprintln(f.table, strings.Join(columns, "\t"))
}

// EndTable aligns and flushes the buffered rows.
func (f *Formatter) EndTable() error {
	return f.table.Flush()
}

// Empty tells the user there is nothing to show.
func (f *Formatter) Empty(message string) {
	_, _ = fmt.Fprintln(f.errOut, message)
}
