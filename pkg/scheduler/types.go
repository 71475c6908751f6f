// Package scheduler implements the dependency-aware sync scheduler: task
// expansion, DAG construction, and bounded-parallel execution.
package scheduler

// SyncTask is the atomic unit of work: one (source, destination, tag) copy.
// Immutable after creation.
type SyncTask struct {
	TaskID         string
	StageID        string
	SrcRegistryKey string
	DstRegistryKey string
	SrcRepository  string
	DstRepository  string
	Tag            string
}

// ExecutionPlan is the task-level DAG: every task keyed by its ID, and for
// each task the IDs of the tasks that must finish before it starts.
type ExecutionPlan struct {
	TaskMapping  map[string]*SyncTask
	Predecessors map[string][]string
}
