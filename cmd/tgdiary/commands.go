package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/edgard/tgdiary/internal/bot"
	"github.com/edgard/tgdiary/internal/bot/tasks"
	"github.com/edgard/tgdiary/internal/diary"
	"github.com/edgard/tgdiary/internal/gemini"
	"github.com/edgard/tgdiary/internal/health"
	"github.com/edgard/tgdiary/internal/resilience"
	"github.com/edgard/tgdiary/internal/telegram"
)

func newRootCmd(stdout io.Writer) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "tgdiary",
		Short:         "Collect Telegram messages into daily Markdown journals",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file (default ./config.yaml when present)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Poll for new messages and keep the journals up to date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPolling(cmd, configPath)
		},
	}
	root.RunE = runCmd.RunE
	root.Args = cobra.NoArgs

	generateCmd := &cobra.Command{
		Use:   "generate-daily [DATE]",
		Short: "Re-render the journal for DATE (YYYY-MM-DD, default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateDaily(cmd, configPath, args, stdout)
		},
	}

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check the Bot API and the state file, print the report as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHealth(cmd, configPath, stdout)
		},
	}

	root.AddCommand(runCmd, generateCmd, healthCmd)
	return root
}

func runPolling(cmd *cobra.Command, configPath string) error {
	ctx := cmd.Context()

	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()
	cfg, log := a.cfg, a.log

	if err := cfg.ValidateSource(); err != nil {
		return err
	}

	source, err := telegram.NewSource(telegram.SourceConfig{
		Token:          cfg.Telegram.Token,
		ChatID:         cfg.Telegram.ChatID,
		APIURL:         cfg.Telegram.APIURL,
		RequestTimeout: cfg.Telegram.RequestTimeout,
		Location:       cfg.Location(),
	}, log)
	if err != nil {
		return err
	}

	poller := bot.NewPoller(bot.PollerDeps{
		Logger:   log,
		Source:   source,
		Store:    a.store,
		State:    a.tracker,
		Writer:   a.writer,
		Location: cfg.Location(),
		Retry: resilience.RetryConfig{
			MaxAttempts: cfg.Poll.Retry.MaxAttempts,
			BaseDelay:   cfg.Poll.Retry.BaseDelay,
			MaxDelay:    cfg.Poll.Retry.MaxDelay,
		},
		Interval: cfg.Poll.Interval,
	})

	tDeps := tasks.TaskDeps{
		Logger:    log,
		Store:     a.store,
		Generator: bot.NewRegenerator(a.store, a.writer, log),
		Location:  cfg.Location(),
	}
	if cfg.GeminiEnabled() {
		client, err := gemini.NewClient(ctx, cfg.Gemini, log)
		if err != nil {
			return fmt.Errorf("initialize Gemini client: %w", err)
		}
		tDeps.Annotator = gemini.NewAnnotator(client, cfg.Journal.Dir, cfg.Gemini.Timeout, log)
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, cfg.Location(), tasks.RegisterAllTasks(tDeps))
	if err != nil {
		return err
	}

	var hs bot.HealthServer
	if cfg.Health.ListenAddr != "" {
		checker, err := newChecker(a)
		if err != nil {
			return err
		}
		hs = checker
	}

	log.Info("Starting diary collector", "chat_id", cfg.Telegram.ChatID, "storage", cfg.Storage.Backend)
	return bot.NewBot(log, poller, sched, hs, cfg.Health.ListenAddr).Run(ctx)
}

func runGenerateDaily(cmd *cobra.Command, configPath string, args []string, stdout io.Writer) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	day := diary.DayOf(time.Now(), a.cfg.Location())
	if len(args) == 1 {
		if _, err := time.Parse(diary.DateLayout, args[0]); err != nil {
			return fmt.Errorf("invalid date %q, want YYYY-MM-DD", args[0])
		}
		day = args[0]
	}

	path, err := bot.NewRegenerator(a.store, a.writer, a.log).GenerateDaily(cmd.Context(), day)
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintln(stdout, path)
	}
	return nil
}

func runHealth(cmd *cobra.Command, configPath string, stdout io.Writer) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.cfg.ValidateSource(); err != nil {
		return err
	}

	checker, err := newChecker(a)
	if err != nil {
		return err
	}

	report := checker.Check(cmd.Context())
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}
	if !report.OK {
		return &exitError{code: 1}
	}
	return nil
}

func newChecker(a *app) (*health.Checker, error) {
	prober, err := telegram.NewProber(a.cfg.Telegram.Token, a.cfg.Telegram.APIURL, a.log)
	if err != nil {
		return nil, fmt.Errorf("create Bot API prober: %w", err)
	}
	return health.NewChecker(prober, a.tracker, a.cfg.Telegram.RequestTimeout, a.log), nil
}
