// Package report prints the outcome of a grep run: one line per match in
// the form source:lineNumber:text, a summary line with the match count and,
// on request, a per-source statistics table.
package report

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mimecast/urlgrep/internal/grep"
	"github.com/mimecast/urlgrep/internal/line"
	"github.com/mimecast/urlgrep/internal/source"
)

// Options control what is printed and how.
type Options struct {
	// Sort matches by source and line number instead of match order.
	Sort bool
	// Stats appends the per-source table.
	Stats bool
	// Color highlights source, line number and the matched substring.
	Color bool
	// Substring to highlight. Nothing is highlighted for inverted runs.
	Substring string
	Invert    bool
}

var (
	sourceColor = text.Colors{text.FgMagenta}
	numColor    = text.Colors{text.FgGreen}
	matchColor  = text.Colors{text.FgRed, text.Bold}
)

// Reporter writes results to an output stream.
type Reporter struct {
	out  io.Writer
	opts Options
}

// New returns a reporter writing to out.
func New(out io.Writer, opts Options) *Reporter {
	return &Reporter{out: out, opts: opts}
}

// Report prints all matches followed by "<count> lines matched". The count
// always equals the number of match lines printed.
func (r *Reporter) Report(result *grep.Result) error {
	matches := result.Matches
	if r.opts.Sort {
		matches = slices.Clone(matches)
		slices.SortStableFunc(matches, func(a, b line.Record) int {
			switch {
			case line.Less(a, b):
				return -1
			case line.Less(b, a):
				return 1
			default:
				return 0
			}
		})
	}

	for _, rec := range matches {
		if _, err := fmt.Fprintln(r.out, r.format(rec)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(r.out, "%d lines matched\n", len(matches)); err != nil {
		return err
	}

	if r.opts.Stats {
		_, err := fmt.Fprintln(r.out, StatsTable(result))
		return err
	}
	return nil
}

func (r *Reporter) format(rec line.Record) string {
	if !r.opts.Color {
		return rec.String()
	}
	body := rec.Text()
	if !r.opts.Invert && r.opts.Substring != "" {
		body = strings.ReplaceAll(body, r.opts.Substring, matchColor.Sprint(r.opts.Substring))
	}
	return fmt.Sprintf("%s:%s:%s", sourceColor.Sprint(rec.Source()),
		numColor.Sprint(rec.LineNum()), body)
}

// StatsTable renders one row per source plus a totals footer.
func StatsTable(result *grep.Result) string {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.Style().Format.Footer = text.FormatDefault
	w.AppendHeader(table.Row{"Source", "Kind", "Lines", "Matches", "Duration", "Error"})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMax: 60},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 6, WidthMax: 60},
	})

	var lines, matches, failed int
	for _, s := range result.Sources {
		errText := "-"
		if s.Err != nil {
			errText = s.Err.Error()
			failed++
		}
		w.AppendRow(table.Row{s.Source, source.KindOf(s.Source), s.Lines, s.Matches,
			s.Duration.Round(time.Millisecond), errText})
		lines += s.Lines
		matches += s.Matches
	}
	w.AppendFooter(table.Row{
		fmt.Sprintf("%d sources", len(result.Sources)), "", lines, matches,
		result.Duration.Round(time.Millisecond), fmt.Sprintf("%d failed", failed),
	})
	return w.Render()
}
