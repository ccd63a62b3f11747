package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-guide/internal/api"
	"github.com/jonathan/career-guide/internal/app"
	"github.com/jonathan/career-guide/internal/navigation"
	"github.com/jonathan/career-guide/internal/types"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin listings and quiz management",
	Long:  "Commands that require an admin account: list users, responses, recommendations and feedback, and manage quiz questions and feedback.",
}

var (
	questionText     string
	questionCategory string
	questionOptions  []string
)

func init() {
	adminCmd.AddCommand(
		&cobra.Command{Use: "users", Short: "List all users", RunE: adminListing(printUsers)},
		&cobra.Command{Use: "responses", Short: "List all quiz responses", RunE: adminListing(printResponses)},
		&cobra.Command{Use: "recommendations", Short: "List all recommendations", RunE: adminListing(printAllRecommendations)},
		&cobra.Command{Use: "feedback", Short: "List all feedback", RunE: adminListing(printAllFeedback)},
		&cobra.Command{Use: "delete-question <id>", Short: "Delete a quiz question", Args: cobra.ExactArgs(1), RunE: runDeleteQuestion},
		&cobra.Command{Use: "delete-feedback <id>", Short: "Delete a feedback entry", Args: cobra.ExactArgs(1), RunE: runDeleteFeedback},
		addQuestionCmd,
	)
	addQuestionCmd.Flags().StringVar(&questionText, "text", "", "Question text")
	addQuestionCmd.Flags().StringVar(&questionCategory, "category", "", "Question category")
	addQuestionCmd.Flags().StringArrayVar(&questionOptions, "option", nil, "Answer option as value:label (repeatable)")
	rootCmd.AddCommand(adminCmd)
}

var addQuestionCmd = &cobra.Command{
	Use:   "add-question",
	Short: "Create a quiz question",
	RunE:  runAddQuestion,
}

// withAdmin runs fn on the loaded admin view. Non-admin accounts are rejected.
func withAdmin(cmd *cobra.Command, fn func(rt *runtime, a *app.App) error) error {
	return withApp(cmd, func(_ context.Context, rt *runtime, a *app.App) error {
		if a.View() != navigation.ViewAdmin {
			return errors.New("admin access required")
		}
		waitView(a)
		if alert := a.Admin.Alert(); alert != "" {
			return errors.New(alert)
		}
		return fn(rt, a)
	})
}

func adminListing(show func(rt *runtime, data app.AdminData)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return withAdmin(cmd, func(rt *runtime, a *app.App) error {
			show(rt, a.Admin.Data())
			return nil
		})
	}
}

func printUsers(rt *runtime, data app.AdminData) {
	rt.printer.PrintUsers(data.Users)
}

func printResponses(rt *runtime, data app.AdminData) {
	rt.printer.PrintQuizResponses(data.Responses)
}

func printAllRecommendations(rt *runtime, data app.AdminData) {
	rt.printer.PrintRecommendations(data.Recommendations)
}

func printAllFeedback(rt *runtime, data app.AdminData) {
	rt.printer.PrintFeedback(data.Feedback)
}

func runAddQuestion(cmd *cobra.Command, _ []string) error {
	req := types.CreateQuestionRequest{QuestionText: questionText, Category: questionCategory}
	for _, raw := range questionOptions {
		value, label, ok := strings.Cut(raw, ":")
		if !ok || value == "" || label == "" {
			return fmt.Errorf("invalid option %q: expected value:label", raw)
		}
		req.Options = append(req.Options, types.Option{Value: value, Label: label})
	}
	return withAdmin(cmd, func(_ *runtime, a *app.App) error {
		q, err := a.Admin.CreateQuestion(req)
		if err != nil {
			return fmt.Errorf("failed to create question: %s", api.Message(err))
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Question %d created: %s\n", q.ID, q.Prompt)
		return nil
	})
}

func runDeleteQuestion(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withAdmin(cmd, func(_ *runtime, a *app.App) error {
		if err := a.Admin.DeleteQuestion(id); err != nil {
			return fmt.Errorf("failed to delete question: %s", api.Message(err))
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Question %d deleted\n", id)
		return nil
	})
}

func runDeleteFeedback(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withAdmin(cmd, func(_ *runtime, a *app.App) error {
		if err := a.Admin.DeleteFeedback(id); err != nil {
			return fmt.Errorf("failed to delete feedback: %s", api.Message(err))
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Feedback %d deleted\n", id)
		return nil
	})
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
