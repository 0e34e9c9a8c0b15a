package telemetry

import (
	"fmt"
	"runtime"

	"github.com/posthog/posthog-go"
)

// Client sends telemetry events. Implementations must be safe to call
// even when telemetry is disabled.
type Client interface {
	// Track records an event. Returns immediately; delivery is async.
	Track(event *Event) error

	// Close flushes pending events and releases resources.
	Close() error
}

// enqueuer is the subset of the PostHog client we use. Extracted so tests
// can swap in a capture recorder.
type enqueuer interface {
	Enqueue(posthog.Message) error
	Close() error
}

// PostHogClient sends events to PostHog.
type PostHogClient struct {
	client  enqueuer
	config  *Config
	version string
}

// NewClient creates a telemetry client. When telemetry is disabled or no
// API key is configured, a NoopClient is returned instead.
func NewClient(cfg *Config, apiKey, endpoint, version string) (Client, error) {
	if cfg == nil || !cfg.IsEnabled() || apiKey == "" {
		return &NoopClient{}, nil
	}

	ph, err := posthog.NewWithConfig(apiKey, posthog.Config{
		Endpoint: endpoint,
		Logger:   quietLogger{},
	})
	if err != nil {
		return nil, fmt.Errorf("create posthog client: %w", err)
	}

	return &PostHogClient{
		client:  ph,
		config:  cfg,
		version: version,
	}, nil
}

// Track enqueues an event with standard context properties attached.
func (c *PostHogClient) Track(event *Event) error {
	if event == nil {
		return nil
	}

	props := posthog.NewProperties().
		Set("os", runtime.GOOS).
		Set("arch", runtime.GOARCH).
		Set("cli_version", c.version).
		Set("$process_person_profile", false)

	for k, v := range event.Properties {
		props.Set(k, v)
	}

	return c.client.Enqueue(posthog.Capture{
		DistinctId: c.config.AnonymousID,
		Event:      event.Name,
		Properties: props,
	})
}

// Close flushes pending events.
func (c *PostHogClient) Close() error {
	return c.client.Close()
}

// NoopClient discards all events. Used when telemetry is disabled.
type NoopClient struct{}

func (c *NoopClient) Track(event *Event) error { return nil }
func (c *NoopClient) Close() error             { return nil }

// quietLogger suppresses PostHog's internal logging so analytics noise
// never reaches the user's terminal.
type quietLogger struct{}

func (quietLogger) Debugf(format string, args ...interface{}) {}
func (quietLogger) Logf(format string, args ...interface{})   {}
func (quietLogger) Warnf(format string, args ...interface{})  {}
func (quietLogger) Errorf(format string, args ...interface{}) {}
