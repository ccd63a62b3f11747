package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-guide/internal/api"
	"github.com/jonathan/career-guide/internal/app"
	"github.com/jonathan/career-guide/internal/navigation"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Leave feedback and list your previous messages",
	RunE:  runFeedback,
}

var feedbackMessage string

func init() {
	feedbackCmd.Flags().StringVarP(&feedbackMessage, "message", "m", "", "Feedback message to submit")
	rootCmd.AddCommand(feedbackCmd)
}

func runFeedback(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(_ context.Context, rt *runtime, a *app.App) error {
		a.Navigate(navigation.ViewFeedback)
		waitView(a)

		if cmd.Flags().Changed("message") {
			if _, err := a.Feedback.Submit(feedbackMessage); err != nil {
				return fmt.Errorf("failed to submit feedback: %s", api.Message(err))
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Feedback submitted. Thank you!")
		}
		rt.printer.PrintAlert(a.Feedback.Alert())
		rt.printer.PrintFeedback(a.Feedback.Items())
		return nil
	})
}
