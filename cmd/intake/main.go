package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/intake/internal/config"
	"github.com/dshills/intake/internal/followup"
	"github.com/dshills/intake/internal/logger"
	"github.com/dshills/intake/internal/redact"
	"github.com/dshills/intake/internal/store"
	"github.com/dshills/intake/internal/web"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// Exit codes.
const (
	exitValidation = 2
	exitInput      = 3
	exitStorage    = 4
	exitNotifier   = 5
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		// cobra already printed the error
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:          "intake",
		Short:        "Legal-aid intake forms service",
		Long:         "intake serves the county and organization application forms, stores submissions and sends followups.",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the YAML config file")

	root.AddCommand(
		newServeCmd(&configPath),
		newMigrateCmd(&configPath),
		newFollowupsCmd(&configPath),
		newFormCmd(),
	)
	return root
}

// env is what the storage-backed commands share.
type env struct {
	cfg   *config.Config
	lggr  logger.Logger
	store *store.Store
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		e.lggr.Warnw("closing store", "err", err)
	}
	_ = e.lggr.Sync()
}

// setup loads the config and opens the store.
func setup(configPath string) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, codeError(exitInput, "loading config: %s", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, codeError(exitInput, "invalid config: %s", err)
	}
	lggr, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, codeError(exitInput, "creating logger: %s", err)
	}
	st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN, lggr)
	if err != nil {
		return nil, codeError(exitStorage, "opening %s store: %s", cfg.Database.Driver, err)
	}
	return &env{cfg: cfg, lggr: lggr, store: st}, nil
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Apply migrations and run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, *configPath)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	e, err := setup(configPath)
	if err != nil {
		return err
	}
	defer e.close()

	if _, err := e.store.Migrate(ctx); err != nil {
		return codeError(exitStorage, "migrating: %s", err)
	}

	srv := web.New(e.store, web.Options{
		StaffToken: e.cfg.Auth.StaffToken,
		CacheTTL:   e.cfg.Forms.CacheTTL,
	}, e.lggr)
	if e.cfg.Auth.StaffToken == "" {
		e.lggr.Warnw("auth.staff_token is empty; staff API is disabled")
	}

	httpSrv := &http.Server{
		Addr:              e.cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadTimeout:       e.cfg.Server.ReadTimeout,
		ReadHeaderTimeout: e.cfg.Server.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		e.lggr.Infow("listening", "addr", httpSrv.Addr, "driver", e.store.Driver(), "version", version)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return codeError(exitInput, "serving: %s", err)
		}
		return nil
	case <-ctx.Done():
	}

	e.lggr.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newMigrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert database migrations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				e, err := setup(*configPath)
				if err != nil {
					return err
				}
				defer e.close()
				applied, err := e.store.Migrate(cmd.Context())
				if err != nil {
					return codeError(exitStorage, "migrating: %s", err)
				}
				return printMigrations(cmd.OutOrStdout(), "applied", applied)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				e, err := setup(*configPath)
				if err != nil {
					return err
				}
				defer e.close()
				name, err := e.store.Rollback(cmd.Context())
				if err != nil {
					return codeError(exitStorage, "rolling back: %s", err)
				}
				var reverted []string
				if name != "" {
					reverted = append(reverted, name)
				}
				return printMigrations(cmd.OutOrStdout(), "reverted", reverted)
			},
		},
	)
	return cmd
}

func printMigrations(w io.Writer, verb string, names []string) error {
	if len(names) == 0 {
		_, err := fmt.Fprintln(w, "nothing to do")
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s %s\n", verb, name); err != nil {
			return err
		}
	}
	return nil
}

// followupFlags holds the flags shared by the followups subcommands.
type followupFlags struct {
	afterID int64
	dryRun  bool
}

func newFollowupsCmd(configPath *string) *cobra.Command {
	var flags followupFlags
	cmd := &cobra.Command{
		Use:   "followups",
		Short: "List or send followups for older submissions",
	}
	cmd.PersistentFlags().Int64Var(&flags.afterID, "after-id", 0, "Skip submissions received before this submission")

	list := &cobra.Command{
		Use:   "list",
		Short: "List submissions due for a followup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer e.close()
			svc := followup.NewService(e.store, followup.NewLogNotifier(e.lggr), e.cfg.Followups.AfterDays, e.lggr)
			due, err := svc.Due(cmd.Context(), flags.afterID)
			if errors.Is(err, store.ErrNotFound) {
				return codeError(exitInput, "--after-id %d: %s", flags.afterID, err)
			}
			if err != nil {
				return codeError(exitStorage, "finding due followups: %s", err)
			}
			return printDue(cmd.OutOrStdout(), due)
		},
	}

	send := &cobra.Command{
		Use:   "send",
		Short: "Send followups to every due submission",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer e.close()
			return runSend(cmd.Context(), cmd.OutOrStdout(), e, flags)
		},
	}
	send.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print messages without sending or recording them")

	cmd.AddCommand(list, send)
	return cmd
}

func notifierFor(cfg *config.Config, lggr logger.Logger) followup.Notifier {
	if cfg.Followups.WebhookURL != "" {
		return followup.NewWebhookNotifier(cfg.Followups.WebhookURL, cfg.Followups.RetryAttempts, lggr)
	}
	return followup.NewLogNotifier(lggr)
}

func runSend(ctx context.Context, w io.Writer, e *env, flags followupFlags) error {
	svc := followup.NewService(e.store, notifierFor(e.cfg, e.lggr), e.cfg.Followups.AfterDays, e.lggr)
	results, err := svc.Send(ctx, flags.afterID, flags.dryRun)
	if perr := printResults(w, results, flags.dryRun); perr != nil && err == nil {
		err = perr
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return codeError(exitInput, "--after-id %d: %s", flags.afterID, err)
	case errors.Is(err, followup.ErrDelivery):
		return codeError(exitNotifier, "sending followups: %s", err)
	default:
		return codeError(exitStorage, "sending followups: %s", err)
	}
}

func printDue(w io.Writer, due []*store.Submission) error {
	if len(due) == 0 {
		_, err := fmt.Fprintln(w, "no followups due")
		return err
	}
	for _, sub := range due {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\n", sub.ID, sub.DateReceived.Format(time.DateOnly), sub.PublicID); err != nil {
			return err
		}
	}
	return nil
}

func printResults(w io.Writer, results []followup.Result, dryRun bool) error {
	for _, res := range results {
		if res.Skipped != "" {
			if _, err := fmt.Fprintf(w, "%d\tskipped: %s\n", res.SubmissionID, res.Skipped); err != nil {
				return err
			}
			continue
		}
		if dryRun {
			if err := printMessages(w, res.SubmissionID, "would send", res.Messages, false); err != nil {
				return err
			}
			continue
		}
		if err := printMessages(w, res.SubmissionID, "sent", res.Delivered, true); err != nil {
			return err
		}
		if err := printMessages(w, res.SubmissionID, "failed", res.Failed, true); err != nil {
			return err
		}
	}
	return nil
}

func printMessages(w io.Writer, id int64, verb string, msgs []followup.Message, redacted bool) error {
	for _, m := range msgs {
		to := m.To
		if redacted {
			to = redact.Redact(to)
		}
		if _, err := fmt.Fprintf(w, "%d\t%s %s to %s\n", id, verb, m.Channel, to); err != nil {
			return err
		}
	}
	return nil
}
