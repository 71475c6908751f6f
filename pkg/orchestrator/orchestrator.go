// Package orchestrator is the run entry point: load and
// validate configuration, log into every registry, then drive the task
// expander, plan builder, and executor in sequence.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/hemzaz/tugboat/pkg/config"
	"github.com/hemzaz/tugboat/pkg/helper/log"
	"github.com/hemzaz/tugboat/pkg/metrics"
	"github.com/hemzaz/tugboat/pkg/notify"
	"github.com/hemzaz/tugboat/pkg/registryclient"
	"github.com/hemzaz/tugboat/pkg/report"
	"github.com/hemzaz/tugboat/pkg/resilience"
	"github.com/hemzaz/tugboat/pkg/scheduler"
	"github.com/hemzaz/tugboat/pkg/secrets"
	"github.com/hemzaz/tugboat/pkg/statusserver"
)

// Options mirrors the command-line surface.
type Options struct {
	ConfigFile        string
	VerifyOnly        bool
	ParallelSyncTasks int
	UseExplicitTags   bool
	Debug             bool
	MetricsAddr       string
	ReportOut         string
}

// AddFlags registers every option except the positional config file on
// flags.
func (o *Options) AddFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&o.VerifyOnly, "verify-only", false, "Validate configuration and exit without executing")
	flags.IntVar(&o.ParallelSyncTasks, "parallel-sync-tasks", 10, "Upper bound on concurrently in-flight tasks")
	flags.BoolVar(&o.UseExplicitTags, "use-explicit-tags", false, "An empty tags list means \"nothing to sync\" instead of \"discover every tag\"")
	flags.BoolVar(&o.Debug, "debug", false, "Emit debug-level logs")
	flags.StringVar(&o.MetricsAddr, "metrics-addr", "", "If set, serve Prometheus metrics and /healthz on this address")
	flags.StringVar(&o.ReportOut, "report-out", "", "If set, write the CSV-to-Markdown service report to this path")
}

// secretsPeek reads just the secrets block of a configuration document, so
// the right SecretResolver can be built before the full, validating parse
// runs (LoadFromFile needs a resolver up front to resolve env_user/
// env_password entries).
type secretsPeek struct {
	Secrets *config.SecretsConfig `yaml:"secrets"`
}

func peekSecretsConfig(path string) (*config.SecretsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file %q: %w", path, err)
	}
	var peek secretsPeek
	if err := yaml.Unmarshal(data, &peek); err != nil {
		return nil, fmt.Errorf("parsing configuration file %q: %w", path, err)
	}
	return peek.Secrets, nil
}

func buildResolver(ctx context.Context, sc *config.SecretsConfig, logger log.Logger) (config.SecretResolver, error) {
	if sc == nil || sc.Provider == "" || sc.Provider == "env" {
		return config.EnvResolver{}, nil
	}

	return secrets.NewResolverFromOptions(ctx, secrets.ManagerOptions{
		Provider:   secrets.ProviderType(sc.Provider),
		Logger:     logger,
		AWSRegion:  sc.AWSRegion,
		GCPProject: sc.GCPProject,
	})
}

// Run executes one full sync according to opts, returning a non-nil error
// on any fatal condition.
func Run(ctx context.Context, opts Options, logger log.Logger) error {
	start := time.Now()

	secretsCfg, err := peekSecretsConfig(opts.ConfigFile)
	if err != nil {
		return err
	}
	resolver, err := buildResolver(ctx, secretsCfg, logger)
	if err != nil {
		return fmt.Errorf("building secret resolver: %w", err)
	}

	cfg, err := config.LoadFromFile(ctx, opts.ConfigFile, resolver)
	if err != nil {
		return err
	}

	if opts.VerifyOnly {
		logger.Info("configuration is valid (verify-only)")
		return nil
	}

	if opts.ReportOut != "" {
		if cfg.Report == nil {
			cfg.Report = &config.ReportConfig{}
		}
		cfg.Report.Output = opts.ReportOut
	}

	metricsReg := metrics.NewRegistry()
	if opts.MetricsAddr != "" {
		srv := statusserver.New(opts.MetricsAddr, metricsReg)
		go func() {
			if err := srv.ListenAndServe(); err != nil {
				logger.WithError(err).Warn("status server stopped")
			}
		}()
		defer srv.Shutdown()
	}

	client := registryclient.Client(registryclient.NewCraneClient(logger))
	client = registryclient.NewRateLimitedClient(client, resilience.DefaultRateLimiterSettings(), logger)

	for key, reg := range cfg.Registries {
		logger.WithField("registry", key).Info("logging into registry")
		if err := client.Login(ctx, reg.URL, reg.User, reg.Password); err != nil {
			return fmt.Errorf("logging into registry %q: %w", key, err)
		}
	}

	tasks, err := scheduler.Expand(ctx, cfg, client, opts.UseExplicitTags, logger)
	if err != nil {
		return err
	}

	dependsOn := make(map[string][]string, len(cfg.Stages))
	for _, s := range cfg.Stages {
		dependsOn[s.ID] = s.DependsOn
	}
	for _, s := range cfg.Stages {
		metricsReg.ObserveTasksExpanded(s.ID, countTasksForStage(tasks, s.ID))
	}

	plan, err := scheduler.BuildPlan(dependsOn, tasks)
	if err != nil {
		return err
	}

	verifier, err := newVerifier(cfg.Signing)
	if err != nil {
		return err
	}

	var notifQueue *notify.Queue
	var changes *tagChangeCollector
	if cfg.Notifications != nil && cfg.Notifications.Enabled {
		schedule := cfg.Notifications.Schedule
		if schedule == "" {
			schedule = "@every 1h"
		}
		notifQueue, err = notify.NewQueue(notify.LogSender{Logger: logger}, schedule)
		if err != nil {
			return fmt.Errorf("starting notification queue: %w", err)
		}
		notifQueue.Start()
		defer notifQueue.Stop()
		changes = newTagChangeCollector()
	}

	executor := scheduler.NewExecutor(client, cfg.Registries, opts.ParallelSyncTasks, verifier, logger).WithMetrics(metricsReg)
	if changes != nil {
		executor = executor.WithTaskObserver(changes)
	}
	if err := executor.Run(ctx, plan); err != nil {
		return err
	}

	if changes != nil {
		for _, c := range changes.drain() {
			notifQueue.Enqueue(c)
		}
		notifQueue.Flush()
	}

	if cfg.Report != nil && cfg.Report.ServicesDir != "" && cfg.Report.Output != "" {
		if err := writeReport(cfg, plan, client); err != nil {
			logger.WithError(err).Warn("failed to write service report")
		}
	}

	logger.WithField("elapsed", time.Since(start).String()).Info("sync run complete")
	return nil
}

// tagChangeCollector implements scheduler.TaskObserver, grouping tags that
// were actually copied (not skipped as digest-equal, not failed) by
// destination repository, so one notify.Change can be raised per repository
// instead of one per tag.
type tagChangeCollector struct {
	mu      sync.Mutex
	newTags map[string][]string
}

func newTagChangeCollector() *tagChangeCollector {
	return &tagChangeCollector{newTags: make(map[string][]string)}
}

func (c *tagChangeCollector) ObserveTask(task *scheduler.SyncTask, skipped bool, err error) {
	if skipped || err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.newTags[task.DstRepository] = append(c.newTags[task.DstRepository], task.Tag)
}

func (c *tagChangeCollector) drain() []notify.Change {
	c.mu.Lock()
	defer c.mu.Unlock()

	changes := make([]notify.Change, 0, len(c.newTags))
	for repo, tags := range c.newTags {
		changes = append(changes, notify.Change{Image: repo, NewTags: tags})
	}
	c.newTags = make(map[string][]string)
	return changes
}

func countTasksForStage(tasks []*scheduler.SyncTask, stageID string) int {
	n := 0
	for _, t := range tasks {
		if t.StageID == stageID {
			n++
		}
	}
	return n
}

func writeReport(cfg *config.Configuration, plan *scheduler.ExecutionPlan, _ registryclient.Client) error {
	owners, err := report.LoadOwnersFromDir(cfg.Report.ServicesDir)
	if err != nil {
		return err
	}

	images := make([]report.SyncedImage, 0, len(plan.TaskMapping))
	for _, t := range plan.TaskMapping {
		images = append(images, report.SyncedImage{Repository: t.DstRepository, Tag: t.Tag})
	}

	markdown := report.Render("sync", owners, images)
	return os.WriteFile(cfg.Report.Output, []byte(markdown), 0o644)
}
