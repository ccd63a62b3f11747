package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-guide/internal/app"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Log in and print the home view",
	Long:  "Logs in and prints the dashboard for students or the admin listings for admins.",
	RunE:  runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(_ context.Context, rt *runtime, a *app.App) error {
		waitView(a)
		rt.printer.PrintUser(a.User())
		renderView(rt.printer, a, cmd.OutOrStdout())
		return nil
	})
}
