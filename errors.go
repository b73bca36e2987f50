package jackcessgo

import "fmt"

// EvaluationError wraps a parse or eval failure from Facade.Evaluate with
// the stage it occurred in.
type EvaluationError struct {
	Op  string // "parse" or "eval"
	Err error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("jackcessgo: %s: %v", e.Op, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
