//go:build !cosign
// +build !cosign

package orchestrator

import (
	"fmt"

	"github.com/hemzaz/tugboat/pkg/config"
	"github.com/hemzaz/tugboat/pkg/scheduler"
)

// newVerifier reports an error if signing is requested but this binary was
// built without the cosign tag, rather than silently skipping verification.
func newVerifier(signing *config.SigningConfig) (scheduler.Verifier, error) {
	if signing == nil || !signing.Verify {
		return nil, nil
	}
	return nil, fmt.Errorf("signing.verify is set but this binary was built without the cosign build tag")
}
