package main

import (
	"fmt"
	"io"

	"github.com/jonathan/career-guide/internal/app"
	"github.com/jonathan/career-guide/internal/navigation"
	"github.com/jonathan/career-guide/internal/observability"
)

// renderView prints the mounted view of a.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func renderView(p *observability.Printer, a *app.App, out io.Writer) {
	switch a.View() {
	case navigation.ViewLanding:
		fmt.Fprintln(out, "Welcome to Career Guide. Log in or register to take the career quiz.")
	case navigation.ViewLogin:
		fmt.Fprintln(out, "Log in with: login <email> <password>")
	case navigation.ViewRegister:
		fmt.Fprintln(out, "Register with: register <name> <email> <password>")
	case navigation.ViewDashboard:
		m := a.Dashboard
		p.PrintAlert(m.Alert())
		p.PrintDashboard(a.User(), m.QuizCompleted(), m.Responses(), m.TopRecommendations())
	case navigation.ViewQuiz:
		m := a.Quiz
		p.PrintAlert(m.Alert())
		e := m.Engine()
		if e == nil {
			return
		}
		if q, ok := e.Current(); ok {
			selected, _ := e.Answer(q.ID)
			p.PrintQuestion(q, e.Index(), e.Total(), e.Progress(), selected)
		}
	case navigation.ViewRecommendations:
		m := a.Recommendations
		p.PrintAlert(m.Alert())
		p.PrintRecommendations(m.List())
		if rec, rank, ok := m.Selected(); ok {
			p.PrintRecommendation(rec, rank)
		}
	case navigation.ViewReport:
		m := a.Report
		p.PrintAlert(m.Alert())
		if r := m.Report(); r != nil && len(r.Entries) > 0 {
			_ = r.RenderText(out)
		}
	case navigation.ViewFeedback:
		m := a.Feedback
		p.PrintAlert(m.Alert())
		p.PrintFeedback(m.Items())
	case navigation.ViewAdmin:
		m := a.Admin
		p.PrintAlert(m.Alert())
		data := m.Data()
		p.PrintUsers(data.Users)
		p.PrintQuestions(data.Questions)
		p.PrintQuizResponses(data.Responses)
		p.PrintRecommendations(data.Recommendations)
		p.PrintFeedback(data.Feedback)
	}
}
