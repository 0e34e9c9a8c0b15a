package mcp

// Hooks lets the CLI layer inject runtime dependencies into the MCP tools
// without the tools importing the cmd package.
type Hooks struct {
	LogInfo     func(string)
	LogError    func(error)
	LogToolCall func(string, interface{})
	GetVersion  func() string
}

var hooks = Hooks{
	LogInfo:     func(string) {},
	LogError:    func(error) {},
	LogToolCall: func(string, interface{}) {},
	GetVersion:  func() string { return "dev" },
}

// ConfigureHooks installs runtime dependencies. Nil fields keep their
// previous values.
func ConfigureHooks(h Hooks) {
	if h.LogInfo != nil {
		hooks.LogInfo = h.LogInfo
	}
	if h.LogError != nil {
		hooks.LogError = h.LogError
	}
	if h.LogToolCall != nil {
		hooks.LogToolCall = h.LogToolCall
	}
	if h.GetVersion != nil {
		hooks.GetVersion = h.GetVersion
	}
}

func logInfo(msg string) {
	if hooks.LogInfo != nil {
		hooks.LogInfo(msg)
	}
}

func logError(err error) {
	if hooks.LogError != nil {
		hooks.LogError(err)
	}
}

func logToolCall(name string, params interface{}) {
	if hooks.LogToolCall != nil {
		hooks.LogToolCall(name, params)
	}
}
