package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	emailPkg "studio/internal/adapters/email"
	web "studio/internal/adapters/http"
	"studio/internal/adapters/storage"
	calendarStorePkg "studio/internal/adapters/storage/calendar"
	"studio/internal/application/orchestrators"
	"studio/internal/application/projections"
	"studio/internal/config"
	"studio/internal/domain/account"
	"studio/internal/logging"
	"studio/internal/metrics"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	app := &cli.Command{
		Name:    "studio",
		Usage:   "Pottery studio calendar",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to YAML config (created with defaults if missing)",
				Sources: cli.EnvVars("STUDIO_CONFIG"),
				Value:   "studio.yaml",
			},
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "dotenv file loaded before the config",
				Sources: cli.EnvVars("STUDIO_ENV_FILE"),
				Value:   ".env",
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server (default)",
				Action: serve,
			},
			{
				Name:  "export-ics",
				Usage: "Write the calendar as an iCalendar file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (stdout when empty)"},
					&cli.StringFlag{Name: "from", Usage: "first date YYYY-MM-DD"},
					&cli.StringFlag{Name: "to", Usage: "last date YYYY-MM-DD"},
				},
				Action: exportICS,
			},
			{
				Name:      "hash-token",
				Usage:     "Print the bcrypt hash of an access token for the tokens config list",
				ArgsUsage: "<token>",
				Action:    hashToken,
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads dotenv and YAML config, then installs the logger.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if err := config.LoadDotEnv(cmd.String("env-file")); err != nil {
		return nil, err
	}
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}

// openStore returns the configured Event Store and its cleanup func.
func openStore(ctx context.Context, cfg *config.Config) (calendarStorePkg.Store, func(), error) {
	if cfg.Database.Path == "" {
		slog.Warn("store_in_memory", "reason", "database.path not set; items are lost on restart")
		return calendarStorePkg.NewMemoryStore(), func() {}, nil
	}

	db, err := storage.Open(ctx, cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	timed := storage.NewTimedDB(db, cfg.SlowQuery()).WithObserver(metrics.ObserveQuery)
	closeDB := func() {
		if err := timed.Close(); err != nil {
			slog.Warn("store_close_failed", "error", err)
		}
	}
	if err := timed.PingContext(ctx); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	if err := storage.MigrateDB(ctx, timed.RawDB()); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	slog.Info("store_opened", "path", cfg.Database.Path, "schema", storage.LatestSchemaVersion())
	return calendarStorePkg.NewSQLiteStore(timed), closeDB, nil
}

func credentialsFrom(cfg *config.Config) []account.Credential {
	creds := make([]account.Credential, 0, len(cfg.Tokens))
	for _, t := range cfg.Tokens {
		creds = append(creds, t.Credential())
	}
	return creds
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	sender := emailPkg.NewSender(cfg.Email.ResendAPIKey, cfg.Email.From)
	if cfg.Email.ResendAPIKey == "" && cfg.IsProduction() {
		slog.Warn("email_disabled", "reason", "resend_api_key is not set")
	}
	baseURL := "http://" + cfg.Listen
	if len(cfg.TrustedOrigins) > 0 {
		baseURL = "https://" + cfg.TrustedOrigins[0]
		if !cfg.IsProduction() {
			baseURL = "http://" + cfg.TrustedOrigins[0]
		}
	}
	mailer := &orchestrators.StaffMailer{
		Sender:  sender,
		From:    cfg.Email.From,
		To:      cfg.Email.StaffRecipients,
		BaseURL: baseURL,
	}

	loc := cfg.Location()
	stopDigest, err := orchestrators.StartDigestScheduler(ctx, orchestrators.SendDailyDigestDeps{
		Store:  store,
		Mailer: mailer,
		Now:    func() time.Time { return time.Now().In(loc) },
	}, orchestrators.DigestSchedulerConfig{
		Schedule: cfg.Digest.Schedule,
		Location: loc,
		Enabled:  cfg.Digest.Enabled,
	})
	if err != nil {
		return err
	}
	defer stopDigest()

	csrfKey, _ := cfg.CSRFKeyBytes()
	handler := web.NewMux(ctx, &web.Stores{CalendarStore: store}, web.Options{
		CSRFKey:            csrfKey,
		Secure:             cfg.IsProduction(),
		TrustedOrigins:     cfg.TrustedOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		Location:           loc,
		Credentials:        credentialsFrom(cfg),
		Notifier:           mailer,
	})

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_starting", "version", version, "addr", cfg.Listen, "env", cfg.Env, "timezone", loc.String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func exportICS(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	res, err := projections.QueryExportCalendarICS(ctx, projections.ExportCalendarICSQuery{
		From:     cmd.String("from"),
		To:       cmd.String("to"),
		Location: cfg.Location(),
		Now:      time.Now().UTC().Truncate(time.Second),
	}, projections.ExportCalendarICSDeps{Store: store})
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if out := cmd.String("out"); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if _, err := io.WriteString(w, res.Body); err != nil {
		return err
	}
	slog.Info("ics_exported", "events", res.Events)
	return nil
}

func hashToken(_ context.Context, cmd *cli.Command) error {
	token := cmd.Args().First()
	if token == "" {
		return errors.New("usage: studio hash-token <token>")
	}
	hash, err := account.HashToken(token, 0)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}
