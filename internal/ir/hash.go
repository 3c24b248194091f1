package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for algorithm migration.
const (
	DomainAutomaton = "mfsm/automaton/v1"
	DomainTrace     = "mfsm/trace/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SpecHash computes the content identity of an automaton definition.
// Two specs hash equal iff their canonical forms are byte-identical.
func SpecHash(spec AutomatonSpec) (string, error) {
	canonical, err := MarshalCanonical(spec.ToMap())
	if err != nil {
		return "", fmt.Errorf("SpecHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainAutomaton, canonical), nil
}

// TraceHash computes a digest over an already-canonical trace encoding.
// The harness uses it to compare runs without storing whole traces.
func TraceHash(canonical []byte) string {
	return hashWithDomain(DomainTrace, canonical)
}

// MustSpecHash is like SpecHash but panics on error.
// Use only in tests or when the spec is known to be valid.
func MustSpecHash(spec AutomatonSpec) string {
	hash, err := SpecHash(spec)
	if err != nil {
		panic(err)
	}
	return hash
}
