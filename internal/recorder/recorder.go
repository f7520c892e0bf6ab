package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"SPVWaterfall/internal/model"
)

// Run sources.
const (
	SourceCLI       = "cli"
	SourceAPI       = "api"
	SourceScheduler = "scheduler"
	SourceTelegram  = "telegram"
)

// RunRecord is one completed allocation.
type RunRecord struct {
	ID        string                `json:"id"`
	InputHash string                `json:"input_hash"`
	Source    string                `json:"source"`
	Input     model.WaterfallInput  `json:"input"`
	Result    model.WaterfallResult `json:"result"`
	CreatedAt time.Time             `json:"created_at"`
}

// Recorder persists allocation history for later analysis.
type Recorder interface {
	RecordRun(ctx context.Context, rec *RunRecord) error
	RecentRuns(ctx context.Context, limit int) ([]RunRecord, error)
	Close() error
}

func encodeDocs(rec *RunRecord) (input, result []byte, err error) {
	input, err = json.Marshal(rec.Input)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal input: %w", err)
	}
	result, err = json.Marshal(rec.Result)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal result: %w", err)
	}
	return input, result, nil
}

func decodeDocs(rec *RunRecord, input, result []byte) error {
	if err := json.Unmarshal(input, &rec.Input); err != nil {
		return fmt.Errorf("unmarshal input: %w", err)
	}
	if err := json.Unmarshal(result, &rec.Result); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}
	return nil
}
