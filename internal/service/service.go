// Package service runs waterfall allocations with validation, caching, run
// history and metrics around the pure allocator.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"SPVWaterfall/internal/cache"
	"SPVWaterfall/internal/model"
	"SPVWaterfall/internal/observability"
	"SPVWaterfall/internal/recorder"
	"SPVWaterfall/internal/runid"
	"SPVWaterfall/internal/waterfall"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RunOutcome is the result of one service run.
type RunOutcome struct {
	ID        string                `json:"id"`
	InputHash string                `json:"input_hash"`
	Cached    bool                  `json:"cached"`
	Result    model.WaterfallResult `json:"result"`
}

// WaterfallService wraps waterfall.Allocate. Cache may be nil.
type WaterfallService struct {
	Cache    cache.ResultCache
	Recorder recorder.Recorder
	Strict   bool

	now func() time.Time
}

// New creates a service. A nil recorder is replaced by a no-op one.
func New(c cache.ResultCache, rec recorder.Recorder, strict bool) *WaterfallService {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &WaterfallService{Cache: c, Recorder: rec, Strict: strict, now: time.Now}
}

// Check rejects inputs outside the allocator's numeric range, then applies
// strict validation when enabled.
func (s *WaterfallService) Check(in model.WaterfallInput) error {
	err := waterfall.CheckRange(in)
	if err == nil && s.Strict {
		err = waterfall.Validate(in)
	}
	if err != nil {
		observability.RecordValidationFailure()
		return err
	}
	return nil
}

// CheckSweep is Check for a loss sweep. The input's own loss amount is
// replaced by each grid point, so the bounds are checked instead.
func (s *WaterfallService) CheckSweep(in model.WaterfallInput, from, to decimal.Decimal) error {
	if err := s.Check(in.WithLosses(from)); err != nil {
		return err
	}
	if err := waterfall.CheckAmount("loss_to", to); err != nil {
		observability.RecordValidationFailure()
		return err
	}
	return nil
}

// Run allocates in and records the run under source.
func (s *WaterfallService) Run(ctx context.Context, in model.WaterfallInput, source string) (*RunOutcome, error) {
	start := s.now()
	if err := s.Check(in); err != nil {
		return nil, err
	}

	out := &RunOutcome{
		ID:        uuid.NewString(),
		InputHash: runid.ComputeInputHash(in),
	}

	key := cache.Key(out.InputHash)
	if res, ok := s.lookup(ctx, key); ok {
		out.Result = res
		out.Cached = true
	} else {
		out.Result = waterfall.Allocate(in)
		s.store(ctx, key, out.Result)
	}

	if err := s.Recorder.RecordRun(ctx, &recorder.RunRecord{
		ID:        out.ID,
		InputHash: out.InputHash,
		Source:    source,
		Input:     in,
		Result:    out.Result,
		CreatedAt: start,
	}); err != nil {
		log.Printf("[ERROR] record run %s: %v", out.ID, err)
		observability.RecordRecorderError(source)
	}

	end := s.now()
	observability.RecordAllocation(source, string(out.Result.Class), end.Sub(start).Seconds(), end.Unix())
	return out, nil
}

// RecentRuns returns up to limit recorded runs, newest first.
func (s *WaterfallService) RecentRuns(ctx context.Context, limit int) ([]recorder.RunRecord, error) {
	runs, err := s.Recorder.RecentRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	return runs, nil
}

func (s *WaterfallService) lookup(ctx context.Context, key string) (model.WaterfallResult, bool) {
	if s.Cache == nil {
		return model.WaterfallResult{}, false
	}
	raw, ok := s.Cache.Get(ctx, key)
	observability.RecordCacheLookup(ok)
	if !ok {
		return model.WaterfallResult{}, false
	}
	var res model.WaterfallResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		log.Printf("[WARN] discard unreadable cache entry %s: %v", key, err)
		return model.WaterfallResult{}, false
	}
	return res, true
}

func (s *WaterfallService) store(ctx context.Context, key string, res model.WaterfallResult) {
	if s.Cache == nil {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		log.Printf("[WARN] marshal result for cache: %v", err)
		return
	}
	if err := s.Cache.Set(ctx, key, string(data)); err != nil {
		log.Printf("[WARN] cache set %s: %v", key, err)
	}
}
