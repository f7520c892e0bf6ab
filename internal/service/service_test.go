package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"SPVWaterfall/internal/cache"
	"SPVWaterfall/internal/model"
	"SPVWaterfall/internal/recorder"
	"SPVWaterfall/internal/runid"
	"SPVWaterfall/internal/waterfall"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	runs []recorder.RunRecord
	err  error
}

func (f *fakeRecorder) RecordRun(_ context.Context, rec *recorder.RunRecord) error {
	if f.err != nil {
		return f.err
	}
	f.runs = append(f.runs, *rec)
	return nil
}

func (f *fakeRecorder) RecentRuns(_ context.Context, limit int) ([]recorder.RunRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > len(f.runs) {
		limit = len(f.runs)
	}
	return f.runs[:limit], nil
}

func (f *fakeRecorder) Close() error { return nil }

type failingCache struct{}

func (failingCache) Get(context.Context, string) (string, bool)  { return "", false }
func (failingCache) Set(context.Context, string, string) error { return errors.New("cache down") }

func TestRun_AllocatesAndRecords(t *testing.T) {
	rec := &fakeRecorder{}
	svc := New(nil, rec, true)
	in := model.NewInput(700, 200, 100, 150, 400)

	out, err := svc.Run(context.Background(), in, recorder.SourceCLI)
	require.NoError(t, err)

	assert.False(t, out.Cached)
	assert.Len(t, out.ID, 36)
	assert.Equal(t, runid.ComputeInputHash(in), out.InputHash)
	assert.True(t, out.Result.Equal(waterfall.Allocate(in)))
	assert.Equal(t, model.ClassMezzanineImpaired, out.Result.Class)

	require.Len(t, rec.runs, 1)
	assert.Equal(t, out.ID, rec.runs[0].ID)
	assert.Equal(t, recorder.SourceCLI, rec.runs[0].Source)
	assert.False(t, rec.runs[0].CreatedAt.IsZero())
}

func TestRun_CacheHit(t *testing.T) {
	mc := cache.NewMemoryCache(time.Hour, 100)
	svc := New(mc, nil, true)
	in := model.NewInput(700, 200, 100, 0, 0)

	first, err := svc.Run(context.Background(), in, recorder.SourceAPI)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, mc.Len())

	second, err := svc.Run(context.Background(), in, recorder.SourceAPI)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, first.Result.Equal(second.Result))
}

func TestRun_UnreadableCacheEntryIsRecomputed(t *testing.T) {
	mc := cache.NewMemoryCache(time.Hour, 100)
	in := model.NewInput(700, 200, 100, 150, 400)
	require.NoError(t, mc.Set(context.Background(), cache.Key(runid.ComputeInputHash(in)), "{not json"))

	out, err := New(mc, nil, true).Run(context.Background(), in, recorder.SourceAPI)
	require.NoError(t, err)
	assert.False(t, out.Cached)
	assert.True(t, out.Result.Equal(waterfall.Allocate(in)))
}

func TestRun_SideEffectFailuresAreNotFatal(t *testing.T) {
	svc := New(failingCache{}, &fakeRecorder{err: errors.New("db down")}, true)

	out, err := svc.Run(context.Background(), model.NewInput(700, 200, 100, 0, 0), recorder.SourceScheduler)
	require.NoError(t, err)
	assert.Equal(t, model.ClassEquityLoss, out.Result.Class)
}

func TestRun_StrictValidation(t *testing.T) {
	in := model.NewInput(700, 200, 100, 150, -1)

	_, err := New(nil, nil, true).Run(context.Background(), in, recorder.SourceAPI)
	require.Error(t, err)
	assert.ErrorIs(t, err, waterfall.ErrInvalidInput)

	out, err := New(nil, nil, false).Run(context.Background(), in, recorder.SourceAPI)
	require.NoError(t, err)
	assert.True(t, out.Result.FinalPool.Equal(waterfall.Allocate(in).FinalPool))
}

func TestRecentRuns(t *testing.T) {
	rec := &fakeRecorder{}
	svc := New(nil, rec, true)
	for i := 0; i < 3; i++ {
		_, err := svc.Run(context.Background(), model.NewInput(700, 200, 100, 0, float64(i)), recorder.SourceCLI)
		require.NoError(t, err)
	}

	runs, err := svc.RecentRuns(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	rec.err = errors.New("db down")
	_, err = svc.RecentRuns(context.Background(), 2)
	assert.Error(t, err)
}

func TestCheck_RangeAppliesWithoutStrict(t *testing.T) {
	in := model.NewInput(700, 200, 100, 150, 400)
	in.Capital.Senior = decimal.New(1, 9000000)

	for _, strict := range []bool{true, false} {
		_, err := New(nil, nil, strict).Run(context.Background(), in, recorder.SourceAPI)
		assert.ErrorIs(t, err, waterfall.ErrOutOfRange, "strict=%v", strict)
	}
}

func TestCheckSweep(t *testing.T) {
	in := model.NewInput(700, 200, 100, 150, 0)
	neg := decimal.NewFromInt(-10)
	hi := decimal.NewFromInt(1200)

	assert.ErrorIs(t, New(nil, nil, true).CheckSweep(in, neg, hi), waterfall.ErrInvalidInput)
	assert.NoError(t, New(nil, nil, false).CheckSweep(in, neg, hi))
	assert.ErrorIs(t, New(nil, nil, false).CheckSweep(in, decimal.Zero, decimal.New(1, 40)), waterfall.ErrOutOfRange)
}

func TestRun_MemoryCacheStaysBounded(t *testing.T) {
	mc := cache.NewMemoryCache(time.Hour, 50)
	svc := New(mc, nil, true)

	for i := 0; i < 500; i++ {
		_, err := svc.Run(context.Background(), model.NewInput(700, 200, 100, 150, float64(i)), recorder.SourceAPI)
		require.NoError(t, err)
	}
	assert.Equal(t, 50, mc.Len())
}
