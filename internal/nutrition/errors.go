package nutrition

import "fmt"

// InvalidInputError reports a biometric value the calculator cannot use.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
