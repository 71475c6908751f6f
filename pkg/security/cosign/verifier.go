//go:build cosign
// +build cosign

// Package cosign provides the optional pre-copy signature gate described in
// the signing block of a sync plan: before a task's destination copy runs,
// the source image's cosign signature is checked against a configured
// public key.
package cosign

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/sigstore/cosign/v2/pkg/cosign"
	"github.com/sigstore/sigstore/pkg/signature"
)

// VerifierConfig configures public-key signature verification.
type VerifierConfig struct {
	// PublicKeyPath points at a PEM-encoded ECDSA public key.
	PublicKeyPath string
	// PublicKey is used instead of PublicKeyPath when already loaded.
	PublicKey []byte
}

// Verifier checks an image's cosign signature against a fixed public key.
// It satisfies the scheduler's Verifier interface (Verify(ctx, imageRef)).
type Verifier struct {
	checkOpts *cosign.CheckOpts
}

// NewVerifier loads the configured public key and builds a Verifier.
func NewVerifier(cfg *VerifierConfig) (*Verifier, error) {
	if cfg == nil {
		return nil, fmt.Errorf("verifier config is required")
	}

	keyBytes := cfg.PublicKey
	if cfg.PublicKeyPath != "" {
		b, err := os.ReadFile(cfg.PublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("reading public key: %w", err)
		}
		keyBytes = b
	}
	if len(keyBytes) == 0 {
		return nil, fmt.Errorf("no public key configured")
	}

	verifier, err := loadPublicKeyVerifier(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("loading public key verifier: %w", err)
	}

	// Key-based verification is offline: no transparency log or SCT lookup.
	return &Verifier{checkOpts: &cosign.CheckOpts{
		SigVerifier: verifier,
		IgnoreSCT:   true,
		IgnoreTlog:  true,
	}}, nil
}

func loadPublicKeyVerifier(keyBytes []byte) (signature.Verifier, error) {
	block, _ := pem.Decode(keyBytes)
	if block == nil {
		return nil, fmt.Errorf("decoding PEM block")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}

	ecdsaKey, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("unsupported public key type %T", pub)
	}
	return signature.LoadECDSAVerifier(ecdsaKey, crypto.SHA256)
}

// Verify fails unless imageRef carries at least one signature that verifies
// against the configured public key.
func (v *Verifier) Verify(ctx context.Context, imageRef string) error {
	ref, err := name.ParseReference(imageRef)
	if err != nil {
		return fmt.Errorf("parsing image reference %q: %w", imageRef, err)
	}

	sigs, _, err := cosign.VerifyImageSignatures(ctx, ref, v.checkOpts)
	if err != nil {
		return fmt.Errorf("verifying signatures for %s: %w", imageRef, err)
	}
	if len(sigs) == 0 {
		return fmt.Errorf("no valid signatures found for %s", imageRef)
	}
	return nil
}
