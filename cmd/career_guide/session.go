package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-guide/internal/api"
	"github.com/jonathan/career-guide/internal/app"
	"github.com/jonathan/career-guide/internal/navigation"
	"github.com/jonathan/career-guide/internal/types"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Start an interactive client session",
	Long: `Starts an interactive shell over stdin that drives every view of the client.
When credentials are configured the session starts signed in. Type "help" for commands.`,
	RunE: runSession,
}

const sessionHelp = `Commands:
  login <email> <password>           sign in
  register <name> <email> <password> create an account and sign in
  logout                             sign out
  go <view>                          switch view (landing, login, register, dashboard, quiz,
                                     recommendations, report, feedback, admin)
  answer <option>                    answer the current quiz question (number or value)
  next | back                        move through the quiz
  submit                             submit once the last question is answered
  select <rank>                      show the details of a recommendation
  feedback <message>                 leave feedback
  retry                              retry the failed operation of the view
  view                               print the current view
  quit                               leave the session`

func init() {
	rootCmd.AddCommand(sessionCmd)
}

func runSession(cmd *cobra.Command, _ []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a := rt.newApp(ctx)
	defer a.Close()

	out := cmd.OutOrStdout()
	if rt.cfg.Email != "" && rt.cfg.Password != "" {
		if err := rt.login(ctx, a); err != nil {
			return err
		}
	}
	waitView(a)
	renderView(rt.printer, a, out)

	in := bufio.NewScanner(cmd.InOrStdin())
	for {
		_, _ = fmt.Fprintf(out, "%s> ", a.View())
		if !in.Scan() {
			break
		}
		quit, err := sessionStep(ctx, rt, a, out, in.Text())
		if err != nil {
			rt.printer.PrintAlert(err.Error())
		}
		if quit {
			break
		}
	}
	if a.User() != nil {
		a.Logout(ctx)
	}
	return in.Err()
}

var errUsage = errors.New("unknown command, type \"help\" for commands")

// sessionStep executes one shell line. It returns true when the session should end.
func sessionStep(ctx context.Context, rt *runtime, a *app.App, out io.Writer, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	command, args := fields[0], fields[1:]

	var err error
	switch command {
	case "quit", "exit":
		return true, nil
	case "help":
		_, _ = fmt.Fprintln(out, sessionHelp)
		return false, nil
	case "view":
	case "login":
		if len(args) != 2 {
			return false, errors.New("usage: login <email> <password>")
		}
		err = a.Login(ctx, args[0], args[1])
	case "register":
		if len(args) != 3 {
			return false, errors.New("usage: register <name> <email> <password>")
		}
		err = a.Register(ctx, types.RegisterRequest{Name: args[0], Email: args[1], Password: args[2]})
	case "logout":
		a.Logout(ctx)
	case "go":
		if len(args) != 1 {
			return false, errors.New("usage: go <view>")
		}
		var view navigation.View
		if view, err = navigation.ParseView(args[0]); err == nil {
			err = a.NavigateGuarded(view)
		}
	case "answer":
		if len(args) == 0 {
			return false, errors.New("usage: answer <option>")
		}
		err = a.AnswerQuiz(optionValue(a, strings.Join(args, " ")))
	case "next":
		err = a.AdvanceQuiz()
	case "back":
		a.RetreatQuiz()
	case "submit":
		err = a.SubmitQuiz()
	case "select":
		err = selectRank(a, args)
	case "feedback":
		if a.View() != navigation.ViewFeedback {
			return false, errors.New(`switch to the feedback view first: go feedback`)
		}
		_, err = a.Feedback.Submit(strings.Join(args, " "))
	case "retry":
		err = a.Retry()
	default:
		return false, errUsage
	}

	waitView(a)
	renderView(rt.printer, a, out)
	if err != nil {
		return false, errors.New(api.Message(err))
	}
	return false, nil
}

func selectRank(a *app.App, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: select <rank>")
	}
	rank, err := strconv.Atoi(args[0])
	recs := a.Recommendations.List()
	if err != nil || rank < 1 || rank > len(recs) {
		return fmt.Errorf("rank must be between 1 and %d", len(recs))
	}
	return a.Recommendations.Select(recs[rank-1].ID)
}
