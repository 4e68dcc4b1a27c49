package ai

import "fmt"

// CompletionError wraps any failure of a single completion exchange: transport
// errors, timeouts, non-2xx responses and malformed bodies alike.
type CompletionError struct {
	Model string
	Msg   string
	Err   error
}

func (e *CompletionError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "LLM call failed"
}

func (e *CompletionError) Unwrap() error { return e.Err }

// ConfigurationError means a required setting is missing. It is fatal to the
// whole analysis and is raised before any network activity.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing %s: configure it before running an analysis", e.Setting)
}
