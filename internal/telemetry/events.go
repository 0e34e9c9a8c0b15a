package telemetry

// Event names captured by the CLI. Keep these stable so historical data
// stays comparable across releases.
const (
	// EventCommandExecuted fires once per CLI invocation.
	EventCommandExecuted = "command_executed"

	// EventReportIngested fires when a session report is archived.
	EventReportIngested = "report_ingested"

	// EventReportValidated fires when a report passes or fails validation.
	EventReportValidated = "report_validated"

	// EventPolicyChecked fires when a report is evaluated against policies.
	EventPolicyChecked = "policy_checked"

	// EventWatchStarted fires when the report watcher starts.
	EventWatchStarted = "watch_started"

	// EventMCPServerStarted fires when the MCP server starts.
	EventMCPServerStarted = "mcp_server_started"
)

// Event is a single telemetry datapoint.
type Event struct {
	Name       string
	Properties map[string]any
}

// NewEvent creates an event with an empty property map.
func NewEvent(name string) *Event {
	return &Event{
		Name:       name,
		Properties: make(map[string]any),
	}
}

// WithProp adds a property and returns the event for chaining.
func (e *Event) WithProp(key string, value any) *Event {
	e.Properties[key] = value
	return e
}
