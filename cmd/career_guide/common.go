package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/career-guide/internal/api"
	"github.com/jonathan/career-guide/internal/app"
	"github.com/jonathan/career-guide/internal/config"
	"github.com/jonathan/career-guide/internal/logging"
	"github.com/jonathan/career-guide/internal/observability"
	"github.com/jonathan/career-guide/internal/quiz"
	"github.com/jonathan/career-guide/internal/schemas"
	appschemas "github.com/jonathan/career-guide/schemas"
)

// Persistent flags shared by every command.
var (
	configPath   string
	flagBaseURL  string
	flagEmail    string
	flagPassword string
	flagLogLevel string
	flagLogFile  string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to a JSON or YAML config file (values can be overridden by other flags)")
	flags.StringVar(&flagBaseURL, "base-url", "", "Backend URL including the /api base path")
	flags.StringVar(&flagEmail, "email", "", "Account email (defaults to CAREER_GUIDE_EMAIL)")
	flags.StringVar(&flagPassword, "password", "", "Account password (defaults to CAREER_GUIDE_PASSWORD)")
	flags.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&flagLogFile, "log-file", "", "Write JSON logs to a rotating file")
}

// runtime is the per-invocation wiring of config, logger, gateway and printer.
type runtime struct {
	cfg      config.Config
	logger   *zap.Logger
	closeLog func() error
	client   *api.Client
	printer  *observability.Printer
}

// setup loads the configuration, applies flag overrides and builds the gateway client.
func setup(cmd *cobra.Command) (*runtime, error) {
	loaded, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Command-line args take priority; the loaded config fills the rest
	var overrides config.Config
	if cmd.Flags().Changed("base-url") {
		overrides.BaseURL = flagBaseURL
	}
	if cmd.Flags().Changed("email") {
		overrides.Email = flagEmail
	}
	if cmd.Flags().Changed("password") {
		overrides.Password = flagPassword
	}
	if cmd.Flags().Changed("log-level") {
		overrides.LogLevel = flagLogLevel
	}
	if cmd.Flags().Changed("log-file") {
		overrides.LogFile = flagLogFile
	}
	cfg := overrides.MergeWithDefaults(*loaded)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
		Out:   cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	opts := api.DefaultOptions()
	opts.BaseURL = cfg.BaseURL
	opts.Timeout = cfg.Timeout
	opts.Logger = logger
	if cfg.ValidateResponses {
		validator, err := schemas.NewValidator(appschemas.FS, appschemas.All()...)
		if err != nil {
			_ = closeLog()
			return nil, err
		}
		opts.Validator = validator
	}
	client, err := api.New(opts)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		closeLog: closeLog,
		client:   client,
		printer:  observability.NewPrinter(cmd.OutOrStdout()),
	}, nil
}

func (rt *runtime) close() {
	_ = rt.closeLog()
}

func (rt *runtime) newApp(ctx context.Context) *app.App {
	return app.New(ctx, rt.client, app.Options{
		Quiz:   quiz.Options{AllowUnanswered: rt.cfg.AllowUnanswered},
		Logger: rt.logger,
	})
}

// login signs in with the configured credentials.
func (rt *runtime) login(ctx context.Context, a *app.App) error {
	if rt.cfg.Email == "" || rt.cfg.Password == "" {
		return errors.New("--email and --password (or CAREER_GUIDE_EMAIL and CAREER_GUIDE_PASSWORD) are required")
	}
	if err := a.Login(ctx, rt.cfg.Email, rt.cfg.Password); err != nil {
		return fmt.Errorf("login failed: %s", api.Message(err))
	}
	return nil
}

// withApp runs fn against a signed-in application and closes everything afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, rt *runtime, a *app.App) error) error {
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

	if err := rt.login(ctx, a); err != nil {
		return err
	}
	defer a.Logout(ctx)
	return fn(ctx, rt, a)
}

// waitView waits for the mounted view to load. Failures surface through the view's alert.
func waitView(a *app.App) {
	_ = a.Wait()
}
