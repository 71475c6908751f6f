package scheduler

import (
	"context"
	"fmt"

	"github.com/hemzaz/tugboat/pkg/config"
	"github.com/hemzaz/tugboat/pkg/helper/errors"
	"github.com/hemzaz/tugboat/pkg/helper/log"
	"github.com/hemzaz/tugboat/pkg/sync"
)

// TagLister is the subset of registryclient.Client the expander needs for
// remote tag discovery.
type TagLister interface {
	GetImageTags(ctx context.Context, imageRef string) ([]string, error)
}

// Expand turns a validated Configuration into the flat list of SyncTasks.
// useExplicitTags alters the meaning of an empty Tags list on a ToEntry:
// false (default) means "discover every tag at the source"; true means
// "nothing to sync for this entry".
func Expand(ctx context.Context, cfg *config.Configuration, client TagLister, useExplicitTags bool, logger log.Logger) ([]*SyncTask, error) {
	if logger == nil {
		logger = log.NewBasicLogger(log.InfoLevel)
	}

	var tasks []*SyncTask
	seen := make(map[string]struct{})

	for _, stage := range cfg.Stages {
		srcReg := cfg.Registries[stage.From.Source]

		for _, to := range stage.To {
			dstReg := cfg.Registries[to.Destination]

			tags, err := tagsForEntry(ctx, client, srcReg.URL, stage.From.Repository, to, useExplicitTags)
			if err != nil {
				return nil, err
			}

			for _, tag := range tags {
				taskID := taskID(srcReg.URL, stage.From.Repository, dstReg.URL, to.Repository, tag, stage.ID)
				if _, dup := seen[taskID]; dup {
					return nil, &errors.InternalError{Kind: errors.KindTaskIDCollision, Message: taskID}
				}
				seen[taskID] = struct{}{}

				tasks = append(tasks, &SyncTask{
					TaskID:         taskID,
					StageID:        stage.ID,
					SrcRegistryKey: stage.From.Source,
					DstRegistryKey: to.Destination,
					SrcRepository:  stage.From.Repository,
					DstRepository:  to.Repository,
					Tag:            tag,
				})
			}
		}
	}

	logger.WithField("task_count", len(tasks)).Info("expanded stages into sync tasks")
	return tasks, nil
}

func tagsForEntry(ctx context.Context, client TagLister, srcURL, srcRepo string, to config.ToEntry, useExplicitTags bool) ([]string, error) {
	var tags []string

	switch {
	case len(to.Tags) > 0:
		tags = to.Tags
	case useExplicitTags:
		return nil, nil
	default:
		srcImage := config.CanonicalImage(srcURL, srcRepo, "")
		discovered, err := client.GetImageTags(ctx, srcImage)
		if err != nil {
			return nil, errors.Wrapf(err, "discovering tags for %q", srcImage)
		}
		tags = discovered
	}

	if to.TagFilter != "" {
		filter, err := sync.NewSemverFilter(to.TagFilter)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid tag_filter %q", to.TagFilter)
		}
		tags = filter.Filter(tags)
	}

	return tags, nil
}

// taskID builds the exact, observable task identifier:
// "{src_reg}/{src_repo}:{tag} --> {dst_reg}/{dst_repo}:{tag} #{stage_id}".
func taskID(srcURL, srcRepo, dstURL, dstRepo, tag, stageID string) string {
	return fmt.Sprintf("%s --> %s #%s",
		config.CanonicalImage(srcURL, srcRepo, tag),
		config.CanonicalImage(dstURL, dstRepo, tag),
		stageID)
}
