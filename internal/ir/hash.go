package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainSnapshot     = "mvsync/snapshot/v1"
	DomainInput        = "mvsync/input/v1"
	DomainActionRecord = "mvsync/action/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Digest computes the domain-separated SHA-256 of v's canonical JSON.
func Digest(domain string, v any) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", domain, err)
	}
	return hashWithDomain(domain, canonical), nil
}

// RecordID computes a content-addressed ID for a journaled input or action.
// The payload is the JSON envelope produced by EncodeNotification or EncodeAction.
func RecordID(domain, session string, tick, seq int64, payload []byte) (string, error) {
	return Digest(domain, map[string]any{
		"session": session,
		"tick":    tick,
		"seq":     seq,
		"payload": string(payload),
	})
}
