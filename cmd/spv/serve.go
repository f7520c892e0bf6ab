package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SPVWaterfall/internal/api"
	"SPVWaterfall/internal/collector"
	"SPVWaterfall/internal/notifier"
	"SPVWaterfall/internal/scheduler"
	"SPVWaterfall/internal/service"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the evaluation schedule and the Telegram bot.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log.Println("[INFO] spv starting...")

			// Context for graceful shutdown
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			// Init fetcher
			var fetcher collector.Fetcher
			if cfg.Market.SourceURL != "" {
				fetcher = collector.NewHTTPFetcher(cfg.Market.SourceURL, cfg.Market.APIKey, cfg.Proxy)
			} else {
				fetcher = collector.NewStaticFetcher(cfg.MarketOutcome())
			}
			log.Printf("[INFO] market source: %s", fetcher.Name())
			col := collector.NewCollector(fetcher, cfg.TrancheCapital(), cfg.RateSchedule())

			resultCache, closeCache := openCache(ctx, cfg)
			defer closeCache()
			rec := openRecorder(ctx, cfg)
			defer rec.Close()
			svc := service.New(resultCache, rec, cfg.Strict())

			// Telegram is optional; without it the schedule still records runs.
			var (
				sender scheduler.Sender
				tn     *notifier.TelegramNotifier
			)
			if cfg.Telegram.BotToken != "" {
				tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
				sender = tn
			}

			sched := scheduler.NewScheduler(ctx, col, svc, sender)
			if err := sched.RegisterAll(cfg.Schedule.EvaluateCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			if tn != nil {
				go tn.StartPolling(ctx, sched.HandleCommand)
				log.Println("[INFO] Telegram polling started")
			}

			if os.Getenv("RUN_ON_START") == "true" {
				log.Println("[INFO] RUN_ON_START enabled, executing evaluate task now")
				go sched.RunNow()
			}

			var limiter *api.RateLimiter
			if cfg.Server.RateLimit > 0 {
				window, err := time.ParseDuration(cfg.Server.RateLimitWindow)
				if err != nil {
					return err
				}
				limiter = api.NewRateLimiter(cfg.Server.RateLimit, window)
				defer limiter.Stop()
			}
			server := api.NewServer(cfg.Server.Addr, api.NewRouter(api.NewHandler(svc), limiter))

			serverErr := make(chan error, 1)
			go func() {
				log.Printf("[INFO] HTTP API listening on %s", cfg.Server.Addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for shutdown signal
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-serverErr:
				return err
			case <-sigCh:
				log.Println("[INFO] shutdown signal received, stopping...")
			}
			cancel()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Printf("[ERROR] server shutdown: %v", err)
			}
			log.Println("[INFO] spv stopped")
			return nil
		},
	}
}
