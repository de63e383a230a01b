package observ

import (
	"strings"
	"testing"
)

func TestTimerReportCountsEveryPhase(t *testing.T) {
	timer := NewTimer()
	a := timer.Begin("scan")
	timer.End(a, "")
	b := timer.Begin("parse")
	timer.End(b, "ok")

	report := timer.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	if report.Phases[0].Name != "scan" || report.Phases[1].Name != "parse" {
		t.Fatalf("expected phases in begin order, got %+v", report.Phases)
	}
	if report.Phases[1].Note != "ok" {
		t.Fatalf("expected the second phase's note to be 'ok', got %q", report.Phases[1].Note)
	}
}

func TestTimerSummaryMentionsEveryPhaseAndTotal(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("scan")
	timer.End(idx, "")

	summary := timer.Summary()
	if !strings.Contains(summary, "scan") {
		t.Fatalf("expected the summary to mention 'scan', got %q", summary)
	}
	if !strings.Contains(summary, "total") {
		t.Fatalf("expected the summary to mention 'total', got %q", summary)
	}
}

func TestTimerEndIgnoresOutOfRangeIndex(t *testing.T) {
	timer := NewTimer()
	timer.End(5, "ignored")
	if len(timer.Report().Phases) != 0 {
		t.Fatalf("expected no phases to be recorded")
	}
}
