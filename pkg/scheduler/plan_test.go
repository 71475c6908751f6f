package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemzaz/tugboat/pkg/helper/errors"
)

func tasksForStages(stageIDs ...string) []*SyncTask {
	var tasks []*SyncTask
	for _, id := range stageIDs {
		tasks = append(tasks, &SyncTask{TaskID: "task-" + id, StageID: id})
	}
	return tasks
}

func TestBuildPlanLinksEveryPredecessorStageTask(t *testing.T) {
	tasks := []*SyncTask{
		{TaskID: "a1", StageID: "a"},
		{TaskID: "a2", StageID: "a"},
		{TaskID: "b1", StageID: "b"},
	}
	dependsOn := map[string][]string{"b": {"a"}}

	plan, err := BuildPlan(dependsOn, tasks)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"a1", "a2"}, plan.Predecessors["b1"])
	assert.Empty(t, plan.Predecessors["a1"])
	assert.Empty(t, plan.Predecessors["a2"])
}

func TestBuildPlanPredecessorsClosedOverTaskMapping(t *testing.T) {
	tasks := []*SyncTask{
		{TaskID: "a1", StageID: "a"},
		{TaskID: "a2", StageID: "a"},
		{TaskID: "b1", StageID: "b"},
		{TaskID: "c1", StageID: "c"},
	}
	dependsOn := map[string][]string{"b": {"a"}, "c": {"a", "b"}}

	plan, err := BuildPlan(dependsOn, tasks)
	require.NoError(t, err)

	require.Len(t, plan.Predecessors, len(plan.TaskMapping))
	for id, preds := range plan.Predecessors {
		_, ok := plan.TaskMapping[id]
		require.True(t, ok, "predecessors key %q not in task mapping", id)
		for _, p := range preds {
			_, ok := plan.TaskMapping[p]
			assert.True(t, ok, "predecessor %q of %q not in task mapping", p, id)
		}
	}
}

func TestBuildPlanDetectsCycle(t *testing.T) {
	tasks := tasksForStages("a", "b")
	dependsOn := map[string][]string{"a": {"b"}, "b": {"a"}}

	_, err := BuildPlan(dependsOn, tasks)
	require.Error(t, err)

	var cyclic *errors.CyclicDependencyError
	require.ErrorAs(t, err, &cyclic)
}

func TestLayersOrdersByReadiness(t *testing.T) {
	tasks := []*SyncTask{
		{TaskID: "a1", StageID: "a"},
		{TaskID: "b1", StageID: "b"},
		{TaskID: "c1", StageID: "c"},
	}
	dependsOn := map[string][]string{"b": {"a"}, "c": {"b"}}

	plan, err := BuildPlan(dependsOn, tasks)
	require.NoError(t, err)

	layers, err := Layers(plan)
	require.NoError(t, err)
	require.Len(t, layers, 3)
	assert.Equal(t, []string{"a1"}, layers[0])
	assert.Equal(t, []string{"b1"}, layers[1])
	assert.Equal(t, []string{"c1"}, layers[2])
}

func TestLayersGroupsIndependentStagesTogether(t *testing.T) {
	tasks := []*SyncTask{
		{TaskID: "a1", StageID: "a"},
		{TaskID: "b1", StageID: "b"},
	}
	plan, err := BuildPlan(map[string][]string{}, tasks)
	require.NoError(t, err)

	layers, err := Layers(plan)
	require.NoError(t, err)
	require.Len(t, layers, 1)
	assert.ElementsMatch(t, []string{"a1", "b1"}, layers[0])
}
