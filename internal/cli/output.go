package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/todo/internal/config"
	todoerrors "github.com/randalmurphal/todo/internal/errors"
	"github.com/randalmurphal/todo/internal/todo"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

func parseOutputFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case formatTable, formatJSON, formatYAML:
		return f, nil
	default:
		return "", todoerrors.ErrInvalidOutput(s)
	}
}

// todoView is the serialized shape of a todo for json and yaml output.
type todoView struct {
	UUID        string  `json:"uuid" yaml:"uuid"`
	Title       string  `json:"title" yaml:"title"`
	Done        bool    `json:"done" yaml:"done"`
	StartDate   *string `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	StartTime   *string `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	URL         *string `json:"url,omitempty" yaml:"url,omitempty"`
	CreatedAt   string  `json:"created_at" yaml:"created_at"`
	UpdatedAt   string  `json:"updated_at" yaml:"updated_at"`
}

func newTodoView(t *todo.Todo) todoView {
	v := todoView{
		UUID:        t.UUID.String(),
		Title:       t.Title,
		Done:        t.Done,
		Description: t.Description,
		URL:         t.URL,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if t.StartDate != nil {
		s := t.StartDate.Format(todo.DateLayout)
		v.StartDate = &s
	}
	if t.StartTime != nil {
		s := t.StartTime.Format(todo.TimeLayout)
		v.StartTime = &s
	}
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// formatStart renders the start column: the date, the date and time, or "-".
func formatStart(t *todo.Todo) string {
	start, ok := t.Start()
	if !ok {
		return "-"
	}
	if t.StartTime == nil {
		return start.Format(todo.DateLayout)
	}
	return start.Format(todo.DateLayout + " " + todo.TimeLayout)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// colorEnabled resolves the color mode for w. Auto colors only terminals.
func colorEnabled(w io.Writer, mode string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// markers renders the done/pending checkbox.
type markers struct {
	done    lipgloss.Style
	pending lipgloss.Style
}

func newMarkers(w io.Writer, color bool) markers {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return markers{
		done:    r.NewStyle().Foreground(lipgloss.Color("2")),
		pending: r.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

func plainMarker(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func (m markers) render(done bool) string {
	if done {
		return m.done.Render(plainMarker(true))
	}
	return m.pending.Render(plainMarker(false))
}

// writeTable lays the rows out with plain markers and styles them
// afterwards, since tabwriter counts escape codes as cell width.
func writeTable(w io.Writer, todos []*todo.Todo, m markers) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DONE\tTITLE\tSTART\tURL\tUUID")
	for _, t := range todos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			plainMarker(t.Done), t.Title, formatStart(t), orDash(t.URL), t.UUID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	header, rows, _ := strings.Cut(buf.String(), "\n")
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for i, line := range strings.SplitAfter(rows, "\n") {
		if i >= len(todos) {
			break
		}
		done := todos[i].Done
		line = m.render(done) + strings.TrimPrefix(line, plainMarker(done))
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeDetail(w io.Writer, t *todo.Todo, m markers) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "UUID:\t%s\n", t.UUID)
	fmt.Fprintf(tw, "Title:\t%s\n", t.Title)
	fmt.Fprintf(tw, "Status:\t%s %s\n", m.render(t.Done), t.Status())
	fmt.Fprintf(tw, "Start:\t%s\n", formatStart(t))
	fmt.Fprintf(tw, "Description:\t%s\n", orDash(t.Description))
	fmt.Fprintf(tw, "URL:\t%s\n", orDash(t.URL))
	fmt.Fprintf(tw, "Created:\t%s\n", t.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(tw, "Updated:\t%s\n", t.UpdatedAt.UTC().Format(time.RFC3339))
	return tw.Flush()
}
