package errors

import (
	"fmt"
	"strings"
)

// ConfigError reports a structural or referential violation of a
// configuration document. Kind identifies which invariant was violated
// (e.g. "duplicate-stage-id", "unknown-depends-on").
type ConfigError struct {
	Kind    string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error [%s]: %s", e.Kind, e.Message)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidInput }

// NewConfigError builds a ConfigError of the given kind.
func NewConfigError(kind, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Known ConfigError kinds.
const (
	KindDuplicateStageID  = "duplicate-stage-id"
	KindUnknownDependsOn  = "unknown-depends-on"
	KindSelfDependency    = "self-dependency"
	KindUnknownDest       = "unknown-destination"
	KindUnknownSource     = "unknown-source"
	KindMissingEnvVar     = "missing-env-var"
	KindUnknownField      = "unknown-field"
	KindEmptyRegistries   = "empty-registries"
	KindEmptyStageTargets = "empty-stage-targets"
)

// EnvVarMissingError reports that a required environment variable is unset.
type EnvVarMissingError struct {
	VarName string
}

func (e *EnvVarMissingError) Error() string {
	return fmt.Sprintf("required environment variable %q is not set", e.VarName)
}

func (e *EnvVarMissingError) Unwrap() error { return ErrInvalidInput }

// CyclicDependencyError reports that the task DAG has a cycle. Predecessors
// carries the full predecessors map so the message enumerates every
// offending edge.
type CyclicDependencyError struct {
	Predecessors map[string][]string
}

func (e *CyclicDependencyError) Error() string {
	var b strings.Builder
	b.WriteString("cyclic dependency detected: {")
	first := true
	for id, preds := range e.Predecessors {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%s: %v", id, preds)
	}
	b.WriteString("}")
	return b.String()
}

func (e *CyclicDependencyError) Unwrap() error { return ErrInvalidInput }

// RegistryCommandError reports that the external registry tool returned a
// non-zero status. Command must already be secret-redacted by the caller.
type RegistryCommandError struct {
	Command []string
	Output  string
	Err     error
}

func (e *RegistryCommandError) Error() string {
	return fmt.Sprintf("registry command %v failed: %s (output: %s)", e.Command, e.Err, e.Output)
}

func (e *RegistryCommandError) Unwrap() error { return ErrUnavailable }

// TimeoutError reports that a bounded operation exceeded its timeout.
type TimeoutError struct {
	Operation string
	Seconds   float64
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation %q exceeded its %.0fs timeout", e.Operation, e.Seconds)
}

func (e *TimeoutError) Unwrap() error { return ErrTimeout }

// TaskResult captures the outcome of one task for BatchFailureError.
type TaskResult struct {
	TaskID string
	Err    error
}

// BatchFailureError reports that one or more tasks in a batch failed.
type BatchFailureError struct {
	Results []TaskResult
}

func (e *BatchFailureError) Error() string {
	failed := 0
	var names []string
	for _, r := range e.Results {
		if r.Err != nil {
			failed++
			names = append(names, r.TaskID)
		}
	}
	return fmt.Sprintf("batch failed: %d/%d tasks failed: %s", failed, len(e.Results), strings.Join(names, ", "))
}

func (e *BatchFailureError) Unwrap() error { return ErrInternal }

// InternalError reports a violated core invariant.
type InternalError struct {
	Kind    string
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error [%s]: %s", e.Kind, e.Message)
}

func (e *InternalError) Unwrap() error { return ErrInternal }

// Known InternalError kinds.
const (
	KindTaskIDCollision   = "task-id-collision"
	KindBatchSizeMismatch = "batch-size-mismatch"
)
