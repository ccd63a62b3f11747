// Package navigation holds the current view and the session user, and routes between views.
//
// View graph:
//
//	landing ──► login / register ──► dashboard ──► quiz ──► recommendations ──► report
//	                    │                 │
//	                    └──► admin        └──► feedback
//
// Every view except landing, login and register expects a session user.
package navigation

import "fmt"

// View identifies one screen of the client.
type View string

const (
	ViewLanding         View = "landing"
	ViewLogin           View = "login"
	ViewRegister        View = "register"
	ViewDashboard       View = "dashboard"
	ViewQuiz            View = "quiz"
	ViewRecommendations View = "recommendations"
	ViewReport          View = "report"
	ViewFeedback        View = "feedback"
	ViewAdmin           View = "admin"
)

// Views lists every view in display order.
func Views() []View {
	return []View{
		ViewLanding, ViewLogin, ViewRegister, ViewDashboard, ViewQuiz,
		ViewRecommendations, ViewReport, ViewFeedback, ViewAdmin,
	}
}

// ParseView converts a raw string to a View, returning an error for unknown values.
func ParseView(s string) (View, error) {
	v := View(s)
	switch v {
	case ViewLanding, ViewLogin, ViewRegister, ViewDashboard, ViewQuiz,
		ViewRecommendations, ViewReport, ViewFeedback, ViewAdmin:
		return v, nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// RequiresAuth reports whether the view is meant to be shown only with a session user.
func (v View) RequiresAuth() bool {
	switch v {
	case ViewLanding, ViewLogin, ViewRegister:
		return false
	}
	return true
}

func (v View) String() string { return string(v) }
