package config

import "github.com/hemzaz/tugboat/pkg/helper/errors"

// Validate runs every configuration invariant and returns the first
// violation encountered, as a *errors.ConfigError.
func Validate(cfg *Configuration) error {
	if len(cfg.Registries) == 0 {
		return errors.NewConfigError(errors.KindEmptyRegistries, "registries must contain at least one entry")
	}

	stageIDs := make(map[string]int, len(cfg.Stages))
	var duplicates []string
	for _, s := range cfg.Stages {
		stageIDs[s.ID]++
	}
	for id, count := range stageIDs {
		if count > 1 {
			duplicates = append(duplicates, id)
		}
	}
	if len(duplicates) > 0 {
		return errors.NewConfigError(errors.KindDuplicateStageID,
			"stages[#].id must be unique, duplicates=%v", duplicates)
	}

	for _, s := range cfg.Stages {
		for _, dep := range s.DependsOn {
			if dep == s.ID {
				return errors.NewConfigError(errors.KindSelfDependency,
					"stage %q depends_on must not contain its own id", s.ID)
			}
			if _, ok := stageIDs[dep]; !ok {
				return errors.NewConfigError(errors.KindUnknownDependsOn,
					"stage.depends_on entry %q must be any of the declared stage ids", dep)
			}
		}
	}

	for _, s := range cfg.Stages {
		if len(s.To) == 0 {
			return errors.NewConfigError(errors.KindEmptyStageTargets,
				"stage %q must declare at least one destination", s.ID)
		}
		for _, to := range s.To {
			if _, ok := cfg.Registries[to.Destination]; !ok {
				return errors.NewConfigError(errors.KindUnknownDest,
					"destination %q must be any of the declared registries", to.Destination)
			}
		}
		if _, ok := cfg.Registries[s.From.Source]; !ok {
			return errors.NewConfigError(errors.KindUnknownSource,
				"source %q must be any of the declared registries", s.From.Source)
		}
	}

	return nil
}
