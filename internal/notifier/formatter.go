package notifier

import (
	"fmt"
	"strings"
	"time"

	"SPVWaterfall/internal/model"
	"SPVWaterfall/internal/scenario"

	"github.com/shopspring/decimal"
)

var rule = strings.Repeat("-", 30)

func money(d decimal.Decimal) string { return d.StringFixed(2) }

// FormatResult renders the plain-text simulation report.
func FormatResult(r model.WaterfallResult) string {
	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString("SPV WATERFALL SIMULATION\n")
	b.WriteString(rule + "\n")

	rows := []struct {
		label string
		value decimal.Decimal
	}{
		{"1 Final Pool", r.FinalPool},
		{"2 Senior Payout", r.Senior.Payout},
		{"3 Mezz Payout", r.Mezzanine.Payout},
		{"4 Equity Payout", r.Equity.Payout},
		{"5 Senior ROI pct", r.Senior.ROIPct},
		{"6 Mezz ROI pct", r.Mezzanine.ROIPct},
		{"7 Equity ROI pct", r.Equity.ROIPct},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%s: %s\n", row.label, money(row.value)))
	}
	return b.String()
}

// FormatHTMLReport formats a run for Telegram.
func FormatHTMLReport(runID string, in model.WaterfallInput, r model.WaterfallResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🏦 <b>SPV Waterfall</b> | %s\n\n", time.Now().Format("2006-01-02 15:04")))

	capital := make([]string, 0, len(model.Tranches))
	for _, t := range model.Tranches {
		capital = append(capital, money(in.Capital.Principal(t)))
	}
	b.WriteString("Capital: " + strings.Join(capital, " / ") + "\n")
	b.WriteString(fmt.Sprintf("Premiums: %s | Losses: %s\n", money(in.Outcome.Premiums), money(in.Outcome.Losses)))
	b.WriteString(fmt.Sprintf("Final Pool: <b>%s</b>\n\n", money(r.FinalPool)))

	b.WriteString("📊 <b>Payouts:</b>\n")
	for _, p := range r.Payouts() {
		b.WriteString(fmt.Sprintf("  %s: %s (ROI %+.2f%%)\n", p.Tranche, money(p.Payout), p.ROIPct.InexactFloat64()))
	}
	b.WriteString("  ─────────────────\n")
	b.WriteString(fmt.Sprintf("  Outcome: <b>%s</b>\n", r.Class))

	if runID != "" {
		b.WriteString(fmt.Sprintf("\n<code>run %s</code>\n", runID))
	}
	return b.String()
}

// FormatSweep renders sweep points as a fixed-width table.
func FormatSweep(points []scenario.SweepPoint) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%12s %12s %12s %12s %12s  %s\n", "Loss", "Pool", "Senior", "Mezz", "Equity", "Class"))
	for _, p := range points {
		b.WriteString(fmt.Sprintf("%12s %12s %12s %12s %12s  %s\n",
			money(p.Loss), money(p.Result.FinalPool),
			money(p.Result.Senior.Payout), money(p.Result.Mezzanine.Payout), money(p.Result.Equity.Payout),
			p.Result.Class))
	}
	return b.String()
}

// FormatAttachment renders the loss levels at which each tranche is hit.
func FormatAttachment(ap model.AttachmentPoints) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-10s %12s %12s\n", "Tranche", "Impairment", "Exhaustion"))
	for _, t := range model.Tranches {
		l := ap.For(t)
		b.WriteString(fmt.Sprintf("%-10s %12s %12s\n", t, money(l.Impairment), money(l.Exhaustion)))
	}
	return b.String()
}

// FormatScenarios lists the preset scenarios.
func FormatScenarios(list []scenario.Scenario) string {
	var b strings.Builder
	for _, s := range list {
		b.WriteString(fmt.Sprintf("• %s: %s\n", s.Name, s.Description))
	}
	return b.String()
}

// PreBlock wraps fixed-width text for Telegram HTML.
func PreBlock(title, text string) string {
	return fmt.Sprintf("<b>%s</b>\n<pre>%s</pre>", title, text)
}
