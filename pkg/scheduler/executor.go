package scheduler

import (
	"context"
	"time"

	"github.com/hemzaz/tugboat/pkg/config"
	"github.com/hemzaz/tugboat/pkg/helper/errors"
	"github.com/hemzaz/tugboat/pkg/helper/log"
	"github.com/hemzaz/tugboat/pkg/helper/util"
	"github.com/hemzaz/tugboat/pkg/registryclient"
)

// Verifier optionally gates a copy on a signature check of the source
// image before it is transferred. A nil Verifier means signing is not
// enforced.
type Verifier interface {
	Verify(ctx context.Context, imageRef string) error
}

// MetricsSink receives batch and per-task timing observations from an
// Executor. A nil sink (the default) disables metrics entirely; this
// interface lets pkg/scheduler stay free of a direct pkg/metrics import.
type MetricsSink interface {
	// ObserveBatch is called once a batch starts; the returned func is
	// called when the batch completes.
	ObserveBatch() func()
	// ObserveCopyTask records one copyTask's duration and outcome ("ok",
	// "skipped", or "failed").
	ObserveCopyTask(d time.Duration, outcome string)
}

type noopMetricsSink struct{}

func (noopMetricsSink) ObserveBatch() func()                            { return func() {} }
func (noopMetricsSink) ObserveCopyTask(d time.Duration, outcome string) {}

// TaskObserver is notified of each task's outcome as batches complete. A nil
// observer (the default) disables observation entirely; this lets callers
// (e.g. the notification queue) learn which tags actually changed
// during a run without the executor's hot path depending on pkg/notify.
type TaskObserver interface {
	ObserveTask(task *SyncTask, skipped bool, err error)
}

type noopTaskObserver struct{}

func (noopTaskObserver) ObserveTask(*SyncTask, bool, error) {}

// Executor runs an ExecutionPlan in topologically-ordered, bounded-parallel
// batches. Within a batch every task's source and destination digest
// are compared; equal digests make the copy a no-op.
type Executor struct {
	client      registryclient.Client
	registries  map[string]config.Registry
	parallelism int
	verifier    Verifier
	logger      log.Logger
	metrics     MetricsSink
	observer    TaskObserver
}

// NewExecutor builds an Executor. parallelism <= 0 means unlimited
// concurrency within a batch.
func NewExecutor(client registryclient.Client, registries map[string]config.Registry, parallelism int, verifier Verifier, logger log.Logger) *Executor {
	if logger == nil {
		logger = log.NewBasicLogger(log.InfoLevel)
	}
	return &Executor{
		client:      client,
		registries:  registries,
		parallelism: parallelism,
		verifier:    verifier,
		logger:      logger,
		metrics:     noopMetricsSink{},
		observer:    noopTaskObserver{},
	}
}

// WithMetrics attaches a MetricsSink to the Executor and returns it for
// chaining. A nil sink restores the no-op default.
func (e *Executor) WithMetrics(sink MetricsSink) *Executor {
	if sink == nil {
		sink = noopMetricsSink{}
	}
	e.metrics = sink
	return e
}

// WithTaskObserver attaches a TaskObserver and returns the Executor for
// chaining. A nil observer restores the no-op default.
func (e *Executor) WithTaskObserver(observer TaskObserver) *Executor {
	if observer == nil {
		observer = noopTaskObserver{}
	}
	e.observer = observer
	return e
}

// Run executes every layer of the plan in order, resetting the registry
// client's memoization cache between layers.
func (e *Executor) Run(ctx context.Context, plan *ExecutionPlan) error {
	layers, err := Layers(plan)
	if err != nil {
		return err
	}

	for _, layer := range layers {
		e.logger.WithField("batch_size", len(layer)).Info("executing batch")

		stopBatch := e.metrics.ObserveBatch()
		results := e.runBatch(ctx, plan, layer)
		stopBatch()

		failed := false
		for _, r := range results {
			if r.Err != nil {
				failed = true
				break
			}
		}
		if failed {
			return &errors.BatchFailureError{Results: results}
		}

		e.client.ResetCache()
	}
	return nil
}

func (e *Executor) runBatch(ctx context.Context, plan *ExecutionPlan, taskIDs []string) []errors.TaskResult {
	group := util.NewBoundedGroup(ctx, e.parallelism)
	results := make([]errors.TaskResult, len(taskIDs))

	for idx, id := range taskIDs {
		idx, id := idx, id
		task := plan.TaskMapping[id]
		group.Go(func() error {
			start := time.Now()
			skipped, err := e.copyTask(ctx, task)
			outcome := "ok"
			switch {
			case err != nil:
				outcome = "failed"
			case skipped:
				outcome = "skipped"
			}
			e.metrics.ObserveCopyTask(time.Since(start), outcome)
			e.observer.ObserveTask(task, skipped, err)
			results[idx] = errors.TaskResult{TaskID: id, Err: err}
			return nil
		})
	}

	// The group's own error is ignored here: per-task failures are carried
	// in results, not in Wait's return (which only ever signals context
	// cancellation from the semaphore).
	_ = group.Wait()
	return results
}

// copyTask resolves a task's source and destination references, skips the
// copy when digests already match, and otherwise verifies (if enabled) and
// copies. The returned bool reports whether the copy was skipped as a
// digest-equal no-op.
func (e *Executor) copyTask(ctx context.Context, task *SyncTask) (bool, error) {
	srcReg := e.registries[task.SrcRegistryKey]
	dstReg := e.registries[task.DstRegistryKey]

	srcRef := config.CanonicalImage(srcReg.URL, task.SrcRepository, task.Tag)
	dstRef := config.CanonicalImage(dstReg.URL, task.DstRepository, task.Tag)

	var dstDigest string
	var dstOK bool
	var dstErr error
	dstDone := make(chan struct{})
	go func() {
		defer close(dstDone)
		dstDigest, dstOK, dstErr = e.client.GetDigest(ctx, dstRef, dstReg.SkipTLSVerify)
	}()

	srcDigest, srcOK, err := e.client.GetDigest(ctx, srcRef, srcReg.SkipTLSVerify)
	<-dstDone
	if err != nil {
		return false, err
	}
	if dstErr != nil {
		return false, dstErr
	}
	if srcOK && dstOK && dstDigest == srcDigest {
		e.logger.WithField("task_id", task.TaskID).Debug("digests match, skipping copy")
		return true, nil
	}

	if e.verifier != nil {
		if err := e.verifier.Verify(ctx, srcRef); err != nil {
			return false, err
		}
	}

	return false, e.client.Copy(ctx, srcRef, dstRef, srcReg.SkipTLSVerify, dstReg.SkipTLSVerify)
}
