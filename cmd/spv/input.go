package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"SPVWaterfall/internal/cache"
	"SPVWaterfall/internal/config"
	"SPVWaterfall/internal/model"
	"SPVWaterfall/internal/recorder"
	"SPVWaterfall/internal/scenario"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Flags that feed a waterfall input.
const (
	flagSenior        = "senior"
	flagMezzanine     = "mezzanine"
	flagEquity        = "equity"
	flagPremiums      = "premiums"
	flagLosses        = "losses"
	flagRateSenior    = "rate-senior"
	flagRateMezzanine = "rate-mezzanine"
	flagScenario      = "scenario"
	flagJSON          = "json"
)

func addInputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String(flagSenior, "", "senior tranche principal")
	f.String(flagMezzanine, "", "mezzanine tranche principal")
	f.String(flagEquity, "", "equity tranche principal")
	f.String(flagPremiums, "", "premiums collected from the market")
	f.String(flagLosses, "", "amount paid out to market winners")
	f.String(flagRateSenior, "", "senior fixed rate (default 0.05)")
	f.String(flagRateMezzanine, "", "mezzanine fixed rate (default 0.12)")
	f.String(flagScenario, "", "start from a preset scenario (see `spv scenarios`)")
	f.Bool(flagJSON, false, "print JSON instead of text")
}

// resolveInput starts from the preset named by --scenario, or the config file,
// then applies every input flag the user set explicitly.
func resolveInput(cmd *cobra.Command, cfg *config.Config) (model.WaterfallInput, error) {
	in := cfg.Input()
	if name, _ := cmd.Flags().GetString(flagScenario); name != "" {
		sc, err := scenario.Lookup(name)
		if err != nil {
			return model.WaterfallInput{}, err
		}
		in = sc.Input
	}

	overrides := []struct {
		flag string
		dst  *decimal.Decimal
	}{
		{flagSenior, &in.Capital.Senior},
		{flagMezzanine, &in.Capital.Mezzanine},
		{flagEquity, &in.Capital.Equity},
		{flagPremiums, &in.Outcome.Premiums},
		{flagLosses, &in.Outcome.Losses},
		{flagRateSenior, &in.Rates.Senior},
		{flagRateMezzanine, &in.Rates.Mezzanine},
	}
	for _, o := range overrides {
		if err := decimalFlag(cmd, o.flag, o.dst); err != nil {
			return model.WaterfallInput{}, err
		}
	}
	return in, nil
}

func decimalFlag(cmd *cobra.Command, name string, dst *decimal.Decimal) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	raw, _ := cmd.Flags().GetString(name)
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("parse --%s: %w", name, err)
	}
	*dst = v
	return nil
}

// openRecorder picks PostgreSQL, then SQLite, then a no-op recorder. A store
// that fails to open degrades to no-op.
func openRecorder(ctx context.Context, cfg *config.Config) recorder.Recorder {
	switch {
	case cfg.Database.PostgresDSN != "":
		pr, err := recorder.NewPostgresRecorder(ctx, cfg.Database.PostgresDSN)
		if err != nil {
			log.Printf("[WARN] init postgres recorder failed, using noop: %v", err)
			return recorder.NewNoopRecorder()
		}
		return pr
	case cfg.Database.SQLitePath != "":
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			return recorder.NewNoopRecorder()
		}
		return sr
	default:
		return recorder.NewNoopRecorder()
	}
}

// openCache returns Redis when configured and reachable, otherwise a bounded
// memory cache. The returned func releases the connection.
func openCache(ctx context.Context, cfg *config.Config) (cache.ResultCache, func()) {
	ttl, err := time.ParseDuration(cfg.Cache.TTL)
	if err != nil {
		log.Printf("[WARN] invalid cache ttl %q, using 24h: %v", cfg.Cache.TTL, err)
		ttl = 24 * time.Hour
	}
	memory := func() (cache.ResultCache, func()) {
		return cache.NewMemoryCache(ttl, cfg.Cache.MaxEntries), func() {}
	}

	if cfg.Cache.RedisAddr == "" {
		return memory()
	}
	rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisAddr, ttl)
	if err != nil {
		log.Printf("[WARN] init redis cache failed, using memory: %v", err)
		return memory()
	}
	return rc, func() {
		if err := rc.Close(); err != nil {
			log.Printf("[WARN] close redis: %v", err)
		}
	}
}
