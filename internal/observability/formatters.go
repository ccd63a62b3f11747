// Package observability provides formatted terminal output for the CLI views.
package observability

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/career-guide/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the terminal client
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAlert outputs a one-line alert box. Empty messages print nothing.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintAlert(message string) {
	if message == "" {
		return
	}
	fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate("⚠ "+message, boxWidth-4))
	fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
}

// PrintUser outputs the signed-in user.
func (p *Printer) PrintUser(user *types.User) {
	if user == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:   %s\n", user.Name))
	sb.WriteString(fmt.Sprintf("Email:  %s\n", user.Email))
	sb.WriteString(fmt.Sprintf("Role:   %s", user.Role))
	p.printBox("SIGNED IN", sb.String())
}

// PrintQuestion outputs one quiz question with its options, marking the selected value.
func (p *Printer) PrintQuestion(q types.Question, index, total, progress int, selected string) {
	var sb strings.Builder
	sb.WriteString(q.Prompt + "\n\n")
	for i, opt := range q.Options {
		marker := " "
		if opt.Value == selected {
			marker = "●"
		}
		sb.WriteString(fmt.Sprintf("%s %d. %s [%s]\n", marker, i+1, opt.Label, opt.Value))
	}
	sb.WriteString(fmt.Sprintf("\nProgress: %d%%", progress))
	p.printBox(fmt.Sprintf("QUESTION %d OF %d", index+1, total), sb.String())
}

// PrintQuestions outputs the full question list.
func (p *Printer) PrintQuestions(questions []types.Question) {
	if len(questions) == 0 {
		p.PrintAlert("No quiz questions are available yet.")
		return
	}
	var sb strings.Builder
	for i, q := range questions {
		sb.WriteString(fmt.Sprintf("%d. %s\n", q.ID, q.Prompt))
		values := make([]string, 0, len(q.Options))
		for _, opt := range q.Options {
			values = append(values, opt.Value)
		}
		sb.WriteString(fmt.Sprintf("   [%s] %s", q.Category, strings.Join(values, ", ")))
		if i < len(questions)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox(fmt.Sprintf("QUIZ QUESTIONS (%d)", len(questions)), sb.String())
}

// PrintRecommendations outputs the ranked recommendation list.
func (p *Printer) PrintRecommendations(recs []types.Recommendation) {
	if len(recs) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(recs), maxItemsToShow)
	for i := 0; i < count; i++ {
		rec := recs[i]
		sb.WriteString(fmt.Sprintf("#%d  %-36s %5.1f%%\n", i+1, rec.Career, rec.Score))
		if rec.Description != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", rec.Description))
		}
	}
	if len(recs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more careers", len(recs)-maxItemsToShow))
	}

	p.printBox("CAREER RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecommendation outputs the details of one recommendation.
func (p *Printer) PrintRecommendation(rec types.Recommendation, rank int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Match:  %.1f%%\n", rec.Score))
	if d := rec.Details; d != nil {
		if d.Overview != "" {
			sb.WriteString(fmt.Sprintf("\n%s\n", d.Overview))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Education:    %s\n", d.Education))
		sb.WriteString(fmt.Sprintf("Salary:       %s\n", d.Salary))
		sb.WriteString(fmt.Sprintf("Outlook:      %s\n", d.Outlook))
		sb.WriteString(fmt.Sprintf("Environment:  %s\n", d.WorkEnvironment))
		if len(d.Skills) > 0 {
			sb.WriteString("\nKey Skills:\n")
			for _, skill := range d.Skills {
				sb.WriteString(fmt.Sprintf("  • %s\n", skill))
			}
		}
	}
	p.printBox(fmt.Sprintf("#%d %s", rank, strings.ToUpper(rec.Career)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDashboard outputs the student dashboard.
func (p *Printer) PrintDashboard(user *types.User, completed bool, responses []types.QuizResponse, top []types.Recommendation) {
	var sb strings.Builder
	if user != nil {
		sb.WriteString(fmt.Sprintf("Welcome back, %s!\n\n", user.Name))
	}
	if !completed {
		sb.WriteString("You have not taken the career quiz yet.\n")
		sb.WriteString("Start the quiz to discover careers that match you.")
		p.printBox("DASHBOARD", sb.String())
		return
	}

	sb.WriteString(fmt.Sprintf("Quiz completed (%d response", len(responses)))
	if len(responses) != 1 {
		sb.WriteString("s")
	}
	sb.WriteString(")\n")
	if len(top) > 0 {
		sb.WriteString("\nTop matches:\n")
		for i, rec := range top {
			sb.WriteString(fmt.Sprintf("  %d. %s (%.0f%%)\n", i+1, rec.Career, rec.Score))
		}
	}
	p.printBox("DASHBOARD", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFeedback outputs feedback entries, newest first.
func (p *Printer) PrintFeedback(items []types.Feedback) {
	if len(items) == 0 {
		p.printBox("FEEDBACK", "No feedback yet.")
		return
	}
	var sb strings.Builder
	for i, fb := range items {
		sb.WriteString(fmt.Sprintf("[%d] %s  (user %d)\n", fb.ID, fb.Date.Format("2006-01-02 15:04"), fb.UserID))
		sb.WriteString(fmt.Sprintf("    %s", fb.Message))
		if i < len(items)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox(fmt.Sprintf("FEEDBACK (%d)", len(items)), sb.String())
}

// PrintUsers outputs the account listing.
func (p *Printer) PrintUsers(users []types.User) {
	var sb strings.Builder
	for i, u := range users {
		sb.WriteString(fmt.Sprintf("[%d] %-7s %s <%s>", u.ID, u.Role, u.Name, u.Email))
		if i < len(users)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox(fmt.Sprintf("USERS (%d)", len(users)), sb.String())
}

// PrintQuizResponses outputs stored quiz responses with their answer maps.
func (p *Printer) PrintQuizResponses(responses []types.QuizResponse) {
	var sb strings.Builder
	for i, r := range responses {
		sb.WriteString(fmt.Sprintf("[%d] user %d at %s\n", r.ID, r.UserID, r.Timestamp.Format("2006-01-02 15:04")))
		pairs := make([]string, 0, len(r.Answers))
		for _, key := range sortedKeys(r.Answers) {
			pairs = append(pairs, key+"="+r.Answers[key])
		}
		sb.WriteString("    " + strings.Join(pairs, " "))
		if i < len(responses)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox(fmt.Sprintf("QUIZ RESPONSES (%d)", len(responses)), sb.String())
}

// sortedKeys orders answer keys numerically; ids are decimal strings without padding.
func sortedKeys(answers types.Answers) []string {
	keys := slices.Collect(maps.Keys(answers))
	slices.SortFunc(keys, func(a, b string) int {
		if len(a) != len(b) {
			return len(a) - len(b)
		}
		return strings.Compare(a, b)
	})
	return keys
}
