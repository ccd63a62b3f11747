package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-guide/internal/app"
	"github.com/jonathan/career-guide/internal/navigation"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take the career quiz interactively",
	Long: `Logs in and walks through the quiz. For each question, type an option number or value.
Type "back" to return to the previous question, "retry" to repeat a failed load or
submission, or "quit" to stop without submitting.
After the last answer the quiz is submitted and the recommendations are printed.`,
	RunE: runQuiz,
}

func init() {
	rootCmd.AddCommand(quizCmd)
}

func runQuiz(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(_ context.Context, rt *runtime, a *app.App) error {
		out := cmd.OutOrStdout()
		a.Navigate(navigation.ViewQuiz)
		waitView(a)

		in := bufio.NewScanner(cmd.InOrStdin())
		for a.View() == navigation.ViewQuiz {
			renderView(rt.printer, a, out)
			if alert := a.Quiz.Alert(); alert != "" && a.Quiz.Engine().Total() == 0 {
				return errors.New(alert)
			}
			_, _ = fmt.Fprint(out, "> ")
			if !in.Scan() {
				return errors.New("quiz aborted: input ended before submission")
			}
			line := strings.TrimSpace(in.Text())
			switch line {
			case "":
				continue
			case "quit":
				return errors.New("quiz aborted")
			case "back":
				a.RetreatQuiz()
				continue
			case "retry":
				if err := a.Retry(); err != nil {
					rt.printer.PrintAlert(err.Error())
				}
				continue
			}
			if err := a.AnswerQuiz(optionValue(a, line)); err != nil {
				rt.printer.PrintAlert(err.Error())
				continue
			}
			// Failures surface through the quiz alert on the next render
			_ = a.AdvanceQuiz()
		}

		waitView(a)
		renderView(rt.printer, a, out)
		return nil
	})
}

// optionValue resolves a 1-based option number to its value; anything else is taken as
// the value itself.
func optionValue(a *app.App, input string) string {
	q, ok := a.Quiz.CurrentQuestion()
	if !ok {
		return input
	}
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(q.Options) {
		return q.Options[n-1].Value
	}
	return input
}
