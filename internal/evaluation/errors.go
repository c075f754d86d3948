package evaluation

import "fmt"

// UnknownQuestionTypeError is returned before any network call when the
// question type is not in the registry.
type UnknownQuestionTypeError struct {
	ID string
}

func (e *UnknownQuestionTypeError) Error() string {
	return fmt.Sprintf("unknown question type %q", e.ID)
}

// ConfigurationError marks a registry entry that cannot be scored, such as
// a zero total.
type ConfigurationError struct {
	ID     string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("question type %q is misconfigured: %s", e.ID, e.Reason)
}
