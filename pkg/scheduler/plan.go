package scheduler

import "github.com/hemzaz/tugboat/pkg/helper/errors"

// BuildPlan groups tasks by stage and expands each stage-level depends_on
// into a task-level edge from every task of the predecessor stage to every
// task of the dependent stage.
func BuildPlan(dependsOn map[string][]string, tasks []*SyncTask) (*ExecutionPlan, error) {
	tasksByStage := make(map[string][]*SyncTask)
	taskMapping := make(map[string]*SyncTask, len(tasks))
	for _, t := range tasks {
		tasksByStage[t.StageID] = append(tasksByStage[t.StageID], t)
		taskMapping[t.TaskID] = t
	}

	predecessors := make(map[string][]string, len(tasks))
	for _, t := range tasks {
		predecessors[t.TaskID] = nil
	}

	for stageID, stageTasks := range tasksByStage {
		for _, predStageID := range dependsOn[stageID] {
			predTasks := tasksByStage[predStageID]
			for _, t := range stageTasks {
				for _, p := range predTasks {
					predecessors[t.TaskID] = append(predecessors[t.TaskID], p.TaskID)
				}
			}
		}
	}

	if err := assertAcyclic(predecessors); err != nil {
		return nil, err
	}

	return &ExecutionPlan{TaskMapping: taskMapping, Predecessors: predecessors}, nil
}

// assertAcyclic reports a CyclicDependencyError (carrying the full
// predecessors map) if the graph induced by predecessors has a cycle.
func assertAcyclic(predecessors map[string][]string) error {
	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)
	state := make(map[string]int, len(predecessors))

	var visit func(id string) bool
	visit = func(id string) bool {
		switch state[id] {
		case visited:
			return true
		case visiting:
			return false
		}
		state[id] = visiting
		for _, p := range predecessors[id] {
			if !visit(p) {
				return false
			}
		}
		state[id] = visited
		return true
	}

	for id := range predecessors {
		if !visit(id) {
			return &errors.CyclicDependencyError{Predecessors: predecessors}
		}
	}
	return nil
}

// Layers returns a topological layering of the plan: layer k holds every
// task all of whose predecessors are in layers < k. This is the conforming,
// always-correct substitute for the append-predecessor-sets-then-dedup
// construction described as an open question in the design notes.
func Layers(plan *ExecutionPlan) ([][]string, error) {
	remaining := make(map[string]struct{}, len(plan.TaskMapping))
	for id := range plan.TaskMapping {
		remaining[id] = struct{}{}
	}

	done := make(map[string]struct{}, len(plan.TaskMapping))
	var layers [][]string

	for len(remaining) > 0 {
		var layer []string
		for id := range remaining {
			ready := true
			for _, p := range plan.Predecessors[id] {
				if _, ok := done[p]; !ok {
					ready = false
					break
				}
			}
			if ready {
				layer = append(layer, id)
			}
		}
		if len(layer) == 0 {
			// Unreachable if assertAcyclic already ran, but guards against
			// a plan constructed without going through BuildPlan.
			return nil, &errors.CyclicDependencyError{Predecessors: plan.Predecessors}
		}
		for _, id := range layer {
			delete(remaining, id)
			done[id] = struct{}{}
		}
		layers = append(layers, layer)
	}

	total := 0
	for _, layer := range layers {
		total += len(layer)
	}
	if total != len(plan.TaskMapping) {
		return nil, &errors.InternalError{Kind: errors.KindBatchSizeMismatch, Message: "layered batch sizes do not sum to the task count"}
	}

	return layers, nil
}
