package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"SPVWaterfall/internal/collector"
	"SPVWaterfall/internal/model"
	"SPVWaterfall/internal/notifier"
	"SPVWaterfall/internal/recorder"
	"SPVWaterfall/internal/scenario"
	"SPVWaterfall/internal/service"
	"SPVWaterfall/internal/waterfall"

	"github.com/robfig/cron/v3"
)

const sendRetries = 3

// Sender delivers a report to the operator.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the periodic evaluation task.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Service   *service.WaterfallService
	Notifier  Sender // nil disables reports
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, svc *service.WaterfallService, sender Sender) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Service:   svc,
		Notifier:  sender,
		Ctx:       ctx,
	}
}

// RegisterAll registers the evaluation task.
func (s *Scheduler) RegisterAll(evaluateCron string) error {
	if _, err := s.Cron.AddFunc(evaluateCron, s.evaluateTask); err != nil {
		return fmt.Errorf("register evaluate task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the evaluation task immediately.
func (s *Scheduler) RunNow() {
	s.evaluateTask()
}

func (s *Scheduler) evaluateTask() {
	log.Println("[INFO] running evaluate task")
	report, err := s.evaluate(s.Ctx, recorder.SourceScheduler)
	if err != nil {
		log.Printf("[ERROR] evaluate: %v", err)
		s.trySend(fmt.Sprintf("❌ Waterfall evaluation failed: %v", err))
		return
	}
	s.trySend(report)
}

func (s *Scheduler) evaluate(ctx context.Context, source string) (string, error) {
	in, err := s.Collector.Collect(ctx)
	if err != nil {
		return "", err
	}
	return s.runReport(ctx, in, source)
}

func (s *Scheduler) runReport(ctx context.Context, in model.WaterfallInput, source string) (string, error) {
	out, err := s.Service.Run(ctx, in, source)
	if err != nil {
		return "", fmt.Errorf("run waterfall: %w", err)
	}
	return notifier.FormatHTMLReport(out.ID, in, out.Result), nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}

	switch fields[0] {
	case "/run":
		var (
			report string
			err    error
		)
		if len(fields) > 1 {
			report, err = s.runPreset(ctx, fields[1])
		} else {
			report, err = s.evaluate(ctx, recorder.SourceTelegram)
		}
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return report
	case "/attach":
		in, err := s.Collector.Collect(ctx)
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		ap := waterfall.AttachmentPoints(in.Capital, in.Rates, in.Outcome.Premiums)
		return notifier.PreBlock("Attachment points", notifier.FormatAttachment(ap))
	case "/scenarios":
		return "📋 <b>Scenarios</b>\n\n" + notifier.FormatScenarios(scenario.Presets())
	default:
		return helpText
	}
}

func (s *Scheduler) runPreset(ctx context.Context, name string) (string, error) {
	sc, err := scenario.Lookup(name)
	if errors.Is(err, scenario.ErrUnknownScenario) {
		return "", fmt.Errorf("unknown scenario %q, see /scenarios", name)
	}
	if err != nil {
		return "", err
	}
	return s.runReport(ctx, sc.Input, recorder.SourceTelegram)
}

const helpText = "Available commands:\n" +
	"• /run: evaluate the latest market outcome\n" +
	"• /run &lt;scenario&gt;: evaluate a preset\n" +
	"• /attach: loss levels that hit each tranche\n" +
	"• /scenarios: list presets"

func (s *Scheduler) trySend(msg string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, msg, sendRetries); err != nil {
		log.Printf("[ERROR] send message: %v", err)
	}
}
