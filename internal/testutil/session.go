// Package testutil holds deterministic collaborators for engine tests.
package testutil

// FixedSessionGenerator returns the same session token every time, so a
// scenario run twice journals under an identical session.
//
// Thread-safety: stateless and safe for concurrent use.
type FixedSessionGenerator struct {
	token string
}

// NewFixedSessionGenerator creates a generator for token.
// An empty token becomes "test-session".
func NewFixedSessionGenerator(token string) *FixedSessionGenerator {
	if token == "" {
		token = "test-session"
	}
	return &FixedSessionGenerator{token: token}
}

// Generate returns the fixed token. Implements engine.SessionTokenGenerator.
func (g *FixedSessionGenerator) Generate() string {
	return g.token
}
