package glprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Digest selects the 256-bit hash used by both composition stages.
type Digest int

const (
	// DigestSHA256 is SHA-256, the digest browsers expose through
	// crypto.subtle and the default.
	DigestSHA256 Digest = iota

	// DigestSHA3 is SHA3-256.
	DigestSHA3
)

// String returns the digest name.
func (d Digest) String() string {
	switch d {
	case DigestSHA256:
		return "sha256"
	case DigestSHA3:
		return "sha3-256"
	default:
		return fmt.Sprintf("Digest(%d)", int(d))
	}
}

// ParseDigest maps a digest name back to a Digest.
func ParseDigest(name string) (Digest, error) {
	switch name {
	case "", "sha256", "sha-256":
		return DigestSHA256, nil
	case "sha3", "sha3-256":
		return DigestSHA3, nil
	default:
		return 0, fmt.Errorf("glprint: unknown digest %q", name)
	}
}

// Sum returns the lowercase hex digest of s.
func (d Digest) Sum(s string) string {
	var sum [32]byte
	switch d {
	case DigestSHA3:
		sum = sha3.Sum256([]byte(s))
	default:
		sum = sha256.Sum256([]byte(s))
	}
	return hex.EncodeToString(sum[:])
}

// Composition is the output of the composer.
type Composition struct {
	// Fingerprint is the first-stage digest over pixels, record and agent.
	Fingerprint string

	// Hash is the second-stage digest over Fingerprint and agent. It is the
	// identifier meant for external consumers.
	Hash string
}

// CanonicalInput builds the first-stage digest input: the pixel
// serialization (empty when pixels is nil), the canonical record, then the
// agent. With legacy set only the pixel serialization is digested, as the
// older deployment did; the agent still enters the second stage.
func CanonicalInput(pixels *PixelBuffer, record *Record, agent string, legacy bool) (string, error) {
	var pix string
	if pixels != nil {
		pix = pixels.Serialize()
	}
	if legacy {
		return pix, nil
	}
	rec, err := record.Canonical()
	if err != nil {
		return "", fmt.Errorf("glprint: canonical record: %w", err)
	}
	return pix + rec + agent, nil
}

// Compose digests the canonical input, then digests the fingerprint with
// the agent. The second stage starts only after the first has completed.
func Compose(d Digest, pixels *PixelBuffer, record *Record, agent string, legacy bool) (Composition, error) {
	input, err := CanonicalInput(pixels, record, agent, legacy)
	if err != nil {
		return Composition{}, err
	}
	fingerprint := d.Sum(input)
	return Composition{
		Fingerprint: fingerprint,
		Hash:        d.Sum(fingerprint + agent),
	}, nil
}
