package config

import "github.com/google/uuid"

// assignStageIDs populates any unset Stage.ID with a fresh opaque identifier.
// Generated identifiers carry no semantic meaning; uniqueness is enforced
// later by Validate.
func assignStageIDs(cfg *Configuration) {
	for i := range cfg.Stages {
		if cfg.Stages[i].ID == "" {
			cfg.Stages[i].ID = uuid.NewString()
		}
	}
}
