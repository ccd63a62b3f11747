// Package report renders a career report from a user's ranked recommendations.
package report

import (
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/jonathan/career-guide/internal/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Format selects the output encoding of a report.
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
)

// ParseFormat converts a raw string to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatText, FormatHTML:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", &UnknownFormatError{Format: s}
}

// Entry is one ranked career in the report.
type Entry struct {
	Rank        int
	Career      string
	Score       float64
	Description string
	Details     *types.Details
}

// ScoreLabel formats the score as a whole percentage.
func (e Entry) ScoreLabel() string {
	return fmt.Sprintf("%.0f%%", e.Score)
}

// Report is the career report of one user.
type Report struct {
	Name        string
	Email       string
	GeneratedAt time.Time
	Entries     []Entry
}

// Build assembles a report. Ranks follow the order of recs, starting at 1.
func Build(user *types.User, recs []types.Recommendation, now time.Time) *Report {
	r := &Report{GeneratedAt: now.UTC()}
	if user != nil {
		r.Name = user.Name
		r.Email = user.Email
	}
	r.Entries = make([]Entry, 0, len(recs))
	for i, rec := range recs {
		r.Entries = append(r.Entries, Entry{
			Rank:        i + 1,
			Career:      rec.Career,
			Score:       rec.Score,
			Description: rec.Description,
			Details:     rec.Details,
		})
	}
	return r
}

// Top returns the best-ranked entry.
func (r *Report) Top() (Entry, bool) {
	if len(r.Entries) == 0 {
		return Entry{}, false
	}
	return r.Entries[0], true
}

var funcs = map[string]any{
	"join": strings.Join,
	"date": func(t time.Time) string { return t.Format("January 2, 2006") },
}

// RenderText writes the report as plain text.
func (r *Report) RenderText(w io.Writer) error {
	tmpl, err := texttemplate.New("report.txt.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/report.txt.tmpl")
	if err != nil {
		return &TemplateError{Message: "failed to parse text template", Cause: err}
	}
	if err := tmpl.Execute(w, r); err != nil {
		return &TemplateError{Message: "failed to execute text template", Cause: err}
	}
	return nil
}

// RenderHTML writes the report as a standalone HTML page. All values are escaped.
func (r *Report) RenderHTML(w io.Writer) error {
	tmpl, err := htmltemplate.New("report.html.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/report.html.tmpl")
	if err != nil {
		return &TemplateError{Message: "failed to parse HTML template", Cause: err}
	}
	if err := tmpl.Execute(w, r); err != nil {
		return &TemplateError{Message: "failed to execute HTML template", Cause: err}
	}
	return nil
}

// Render writes the report in the requested format.
func (r *Report) Render(w io.Writer, format Format) error {
	switch format {
	case FormatText:
		return r.RenderText(w)
	case FormatHTML:
		return r.RenderHTML(w)
	}
	return &UnknownFormatError{Format: string(format)}
}
