package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/rubiojr/gbooks/pkg/book"
	"github.com/rubiojr/gbooks/pkg/history"
	"github.com/rubiojr/gbooks/pkg/library"
)

const noResults = "No results found"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// maxCellWidth truncates long titles and author lists in pretty tables.
const maxCellWidth = 40

// printRecords writes records as CSV lines, or as a table when pretty is set.
func printRecords(w io.Writer, records []book.Record, pretty bool) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, noResults)
		return err
	}
	if !pretty {
		return library.Encode(w, records)
	}
	_, err := fmt.Fprintln(w, renderTable(records))
	return err
}

func renderTable(records []book.Record) string {
	rows := make([][]string, len(records))
	for i, r := range records {
		values := r.Values()
		for j, v := range values {
			values[j] = truncate(v, maxCellWidth)
		}
		rows[i] = values
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(metaStyle).
		Headers(book.Columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	return t.Render()
}

func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

// printHistory lists past searches, newest first.
func printHistory(w io.Writer, entries []history.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No searches recorded yet")
		return err
	}

	_, _ = fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("📚 %d recent searches", len(entries))))
	for _, e := range entries {
		line := fmt.Sprintf("%-14s %q  %d results, %s -> %s",
			formatTime(e.CreatedAt), e.Query, e.ResultCount, describeOrder(e), e.OutputPath)
		if _, err := fmt.Fprintf(w, "%s %s\n", line, metaStyle.Render(e.ID)); err != nil {
			return err
		}
	}
	return nil
}

// printEntry writes the details of a single search.
func printEntry(w io.Writer, e history.Entry) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n%s\n\n",
		titleStyle.Render(fmt.Sprintf("📚 %q", e.Query)),
		metaStyle.Render("ID:      "+e.ID),
		metaStyle.Render(fmt.Sprintf("When:    %s (%s)", e.CreatedAt.Format("2006-01-02 15:04:05"), formatTime(e.CreatedAt))),
		metaStyle.Render(fmt.Sprintf("Results: %d, %s -> %s", e.ResultCount, describeOrder(e), e.OutputPath)))
	return err
}

func describeOrder(e history.Entry) string {
	if e.SortField == "" {
		return "API order"
	}
	direction := "ascending"
	if e.Descending {
		direction = "descending"
	}
	return fmt.Sprintf("by %s, %s", e.SortField, direction)
}

// formatTime formats a time relative to now or as an absolute date
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	case t.Year() == now.Year():
		return t.Format("Jan 2, 15:04")
	default:
		return t.Format("Jan 2, 2006")
	}
}
