package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hwbot/internal/common/cache"
	"hwbot/internal/common/db"
	"hwbot/internal/homework/notifier"
	"hwbot/internal/homework/practicumclient"
	"hwbot/internal/homework/repository"
	"hwbot/internal/homework/service"
	"hwbot/pkg/utils/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const farewell = "Выход из программы"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "homework-bot: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts loadOptions

	root := &cobra.Command{
		Use:           "homework-bot",
		Short:         "Relay Practicum homework review statuses to Telegram",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBot(cmd, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", defaultConfigPath, "Path to config file")
	root.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "Path to .env file (default .env if present)")

	root.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate configuration and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts)
		},
	})
	return root
}

func runCheck(cmd *cobra.Command, opts loadOptions) error {
	cfg, err := loadAppConfig(opts)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "configuration ok")
	fmt.Fprintf(out, "  practicum.endpoint  %s\n", cfg.Practicum.Endpoint)
	fmt.Fprintf(out, "  practicum.token     %s\n", redact(cfg.Practicum.Token))
	fmt.Fprintf(out, "  telegram.token      %s\n", redact(cfg.Telegram.Token))
	fmt.Fprintf(out, "  telegram.chatID     %s\n", cfg.Telegram.ChatID)
	fmt.Fprintf(out, "  poll.interval       %s\n", cfg.Poll.Interval)
	fmt.Fprintf(out, "  alert.suppress      %d\n", cfg.Alert.SuppressRepeats)
	fmt.Fprintf(out, "  cursor store        %s\n", cursorStoreName(cfg))
	fmt.Fprintf(out, "  journal             %s\n", journalName(cfg))
	fmt.Fprintf(out, "  status server       %s\n", orDisabled(cfg.Server.Addr))
	return nil
}

func runBot(cmd *cobra.Command, opts loadOptions) error {
	appCfg, err := loadAppConfig(opts)
	if err != nil {
		return err
	}

	if err := logger.Init(appCfg.Logger); err != nil {
		return fmt.Errorf("init logger failed: %w", err)
	}
	defer func() {
		_ = logger.Close()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := practicumclient.New(practicumclient.Config{
		Endpoint: appCfg.Practicum.Endpoint,
		Token:    appCfg.Practicum.Token,
		Timeout:  appCfg.Practicum.Timeout,
	})

	tg, err := notifier.NewTelegramNotifier(notifier.Config{
		Token:   appCfg.Telegram.Token,
		ChatID:  appCfg.Telegram.ChatID,
		APIURL:  appCfg.Telegram.APIURL,
		Timeout: appCfg.Telegram.Timeout,
	})
	if err != nil {
		logger.Error(ctx, "init telegram notifier failed", zap.Error(err))
		return err
	}

	var cursors repository.CursorStore = repository.NewMemoryCursorStore()
	if appCfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCacheWithConfig(&appCfg.Redis)
		if err != nil {
			logger.Error(ctx, "init redis failed", zap.Error(err))
			return err
		}
		defer func() {
			_ = redisCache.Close()
		}()
		cursors = repository.NewRedisCursorStore(redisCache, appCfg.Telegram.ChatID)
	}

	var journal repository.Journal = repository.NoopJournal{}
	if appCfg.Journal.DSN != "" {
		database, err := db.Open(&appCfg.Journal)
		if err != nil {
			logger.Error(ctx, "init journal database failed", zap.Error(err))
			return err
		}
		defer func() {
			_ = database.Close()
		}()
		sqlJournal, err := repository.NewSQLJournal(ctx, database)
		if err != nil {
			logger.Error(ctx, "init journal failed", zap.Error(err))
			return err
		}
		journal = sqlJournal
	}

	poller := service.NewPoller(client, tg, cursors, journal, service.PollerOptions{
		Interval:        appCfg.Poll.Interval,
		SuppressRepeats: appCfg.Alert.SuppressRepeats,
	})
	poller.RestoreCursor(ctx, appCfg.Poll.FromDate)

	if appCfg.Server.Addr != "" {
		shutdown, err := startHTTPServer(appCfg.Server, poller)
		if err != nil {
			logger.Error(ctx, "init status server failed", zap.Error(err))
			return err
		}
		defer shutdown()
	}

	logger.Info(ctx, "homework bot started",
		zap.String("chat_id", appCfg.Telegram.ChatID),
		zap.String("cursor_store", cursorStoreName(appCfg)),
		zap.String("journal", journalName(appCfg)))

	if err := poller.Run(ctx); err != nil {
		logger.Error(context.Background(), "poll loop failed", zap.Error(err))
		return err
	}

	logger.Info(context.Background(), "shutdown signal received")
	fmt.Fprintln(cmd.OutOrStdout(), farewell)
	return nil
}

func cursorStoreName(cfg *AppConfig) string {
	if cfg.Redis.Addr != "" {
		return "redis " + cfg.Redis.Addr
	}
	return "memory"
}

func journalName(cfg *AppConfig) string {
	if cfg.Journal.DSN == "" {
		return "disabled"
	}
	return cfg.Journal.Driver
}

func orDisabled(s string) string {
	if s == "" {
		return "disabled"
	}
	return s
}
