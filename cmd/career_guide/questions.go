package main

import (
	"context"

	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print the quiz questions",
	Long:  "Fetches the public quiz question list and prints each question with its category and option values.",
	RunE:  runQuestions,
}

func init() {
	rootCmd.AddCommand(questionsCmd)
}

func runQuestions(cmd *cobra.Command, _ []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	questions, err := rt.client.Questions(ctx)
	if err != nil {
		return err
	}
	rt.printer.PrintQuestions(questions)
	return nil
}
