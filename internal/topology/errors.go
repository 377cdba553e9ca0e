package topology

// ErrorType defines the kind of configuration error.
type ErrorType string

const (
	ErrorInvalidCatalog  ErrorType = "invalid_catalog"
	ErrorInvalidIdentity ErrorType = "invalid_identity"
	ErrorDeclareFailed   ErrorType = "declare_failed"
)

// Step names the declaration phase that failed.
type Step string

const (
	StepExchange Step = "exchange"
	StepQueue    Step = "queue"
	StepBinding  Step = "binding"
)

// ConfigurationError reports a topology that could not be planned or declared.
// It is fatal at startup.
type ConfigurationError struct {
	Type     ErrorType `json:"type"`
	Step     Step      `json:"step,omitempty"`
	Resource string    `json:"resource,omitempty"`
	Message  string    `json:"message"`
	Cause    error     `json:"cause,omitempty"`
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	msg := e.Message
	if e.Step != "" {
		msg += " (" + string(e.Step)
		if e.Resource != "" {
			msg += " " + e.Resource
		}
		msg += ")"
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}
