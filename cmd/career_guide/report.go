package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-guide/internal/app"
	"github.com/jonathan/career-guide/internal/navigation"
	"github.com/jonathan/career-guide/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write your career report",
	Long:  "Logs in and writes a career report of the ranked recommendations as text or HTML.",
	RunE:  runReport,
}

var (
	reportFormat string
	reportOut    string
)

func init() {
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "text", "Output format: text or html")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Write the report to this file instead of stdout")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	format, err := report.ParseFormat(reportFormat)
	if err != nil {
		return err
	}
	return withApp(cmd, func(_ context.Context, rt *runtime, a *app.App) error {
		a.Navigate(navigation.ViewReport)
		waitView(a)
		r := a.Report.Report()
		if r == nil {
			return errors.New(a.Report.Alert())
		}

		var w io.Writer = cmd.OutOrStdout()
		if reportOut != "" {
			f, err := os.Create(reportOut)
			if err != nil {
				return fmt.Errorf("failed to create report file: %w", err)
			}
			defer f.Close()
			w = f
		}
		if err := r.Render(w, format); err != nil {
			return err
		}
		if reportOut != "" {
			rt.logger.Info("report written")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", reportOut)
		}
		return nil
	})
}
