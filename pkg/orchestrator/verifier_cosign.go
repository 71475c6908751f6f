//go:build cosign
// +build cosign

package orchestrator

import (
	"github.com/hemzaz/tugboat/pkg/config"
	"github.com/hemzaz/tugboat/pkg/scheduler"
	"github.com/hemzaz/tugboat/pkg/security/cosign"
)

func newVerifier(signing *config.SigningConfig) (scheduler.Verifier, error) {
	if signing == nil || !signing.Verify {
		return nil, nil
	}
	return cosign.NewVerifier(&cosign.VerifierConfig{PublicKeyPath: signing.PublicKeyPath})
}
