// Package workload generates the synthetic rows fed to each benchmark
// scenario: short deterministic payload strings and, for client-keyed
// strategies, random 128-bit identifiers rendered as text, binary, or
// native UUID values.
package workload

import (
	"fmt"
	mrand "math/rand"

	"github.com/google/uuid"
)

// Generator produces key material from a single seeded source so that
// runs are reproducible under a fixed seed. The rand.Rand doubles as the
// io.Reader the UUID draws consume.
type Generator struct {
	rng *mrand.Rand
}

// NewGenerator creates a Generator seeded with the given value.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: mrand.New(mrand.NewSource(seed))}
}

// Payloads returns n payload strings of the form p-<index>. Payloads are
// a pure function of the row index and involve no randomness.
func Payloads(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("p-%d", i)
	}

	return out
}

// TextKeys returns n random UUIDs rendered as canonical lowercase
// hyphenated 36-character strings.
func (g *Generator) TextKeys(n int) ([]string, error) {
	out := make([]string, n)

	for i := range out {
		u, err := uuid.NewRandomFromReader(g.rng)
		if err != nil {
			return nil, fmt.Errorf("generate uuid: %w", err)
		}

		out[i] = u.String()
	}

	return out, nil
}

// BinaryKeys returns n random UUIDs as 16-byte values, with no text
// encoding overhead.
func (g *Generator) BinaryKeys(n int) ([][]byte, error) {
	out := make([][]byte, n)

	for i := range out {
		u, err := uuid.NewRandomFromReader(g.rng)
		if err != nil {
			return nil, fmt.Errorf("generate uuid: %w", err)
		}

		b := make([]byte, len(u))
		copy(b, u[:])
		out[i] = b
	}

	return out, nil
}

// UUIDKeys returns n random uuid.UUID values for engines with a native
// UUID column type.
func (g *Generator) UUIDKeys(n int) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, n)

	for i := range out {
		u, err := uuid.NewRandomFromReader(g.rng)
		if err != nil {
			return nil, fmt.Errorf("generate uuid: %w", err)
		}

		out[i] = u
	}

	return out, nil
}
