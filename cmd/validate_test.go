package cmd

import (
	"testing"

	"github.com/itzcole03/sessionlens/internal/telemetry"
)

// captureEvents stubs the telemetry pipeline for the duration of a test
// and returns the slice events land in.
func captureEvents(t *testing.T) *[]*telemetry.Event {
	t.Helper()
	var events []*telemetry.Event
	prev := trackEvent
	trackEvent = func(event *telemetry.Event) {
		events = append(events, event)
	}
	t.Cleanup(func() { trackEvent = prev })
	return &events
}

func TestRunValidateEmitsValidatedEvent(t *testing.T) {
	events := captureEvents(t)
	path := writeReportFile(t, ingestTestReport)

	if err := runValidate(validateCmd, []string{path}); err != nil {
		t.Fatalf("runValidate failed: %v", err)
	}

	var event *telemetry.Event
	for _, e := range *events {
		if e.Name == telemetry.EventReportValidated {
			event = e
		}
	}
	if event == nil {
		t.Fatal("validation never emitted a report_validated event")
	}
	if passed, ok := event.Properties["passed"].(bool); !ok || !passed {
		t.Errorf("passed property = %v, want true", event.Properties["passed"])
	}
}

func TestPersistentPreRunEmitsCommandEvent(t *testing.T) {
	events := captureEvents(t)

	rootCmd.PersistentPreRun(validateCmd, nil)

	var event *telemetry.Event
	for _, e := range *events {
		if e.Name == telemetry.EventCommandExecuted {
			event = e
		}
	}
	if event == nil {
		t.Fatal("command run never emitted a command_executed event")
	}
	if got := event.Properties["command"]; got != "validate" {
		t.Errorf("command property = %v, want validate", got)
	}
}
