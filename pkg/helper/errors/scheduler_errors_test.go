package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigErrorUnwrapsToInvalidInput(t *testing.T) {
	err := NewConfigError(KindDuplicateStageID, "stages[#].id must be unique, duplicates=%v", []string{"test-stage"})

	assert.True(t, Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "stages[#].id must be unique")
}

func TestCyclicDependencyErrorEnumeratesPredecessors(t *testing.T) {
	err := &CyclicDependencyError{Predecessors: map[string][]string{
		"A": {"B"},
		"B": {"A"},
	}}

	msg := err.Error()
	assert.Contains(t, msg, "A: [B]")
	assert.Contains(t, msg, "B: [A]")
}

func TestBatchFailureErrorCountsFailures(t *testing.T) {
	err := &BatchFailureError{Results: []TaskResult{
		{TaskID: "t1", Err: nil},
		{TaskID: "t2", Err: ErrUnavailable},
	}}

	assert.Contains(t, err.Error(), "1/2 tasks failed")
	assert.Contains(t, err.Error(), "t2")
}

func TestInternalErrorUnwrapsToErrInternal(t *testing.T) {
	err := &InternalError{Kind: KindTaskIDCollision, Message: "duplicate task id"}
	assert.True(t, Is(err, ErrInternal))
}
