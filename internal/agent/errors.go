package agent

import "fmt"

// GenerationError indicates a generative-model call failed or was given
// empty/invalid input.
type GenerationError struct {
	Agent string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s agent: %v", e.Agent, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
