package bench

import (
	"github.com/idbench/idbench/workload"
)

// Batch sizes are tuned per row shape: payload-only inserts are cheap
// per row and take larger batches than two-column keyed inserts.
const (
	seqBatchSize   = 2000
	keyedBatchSize = 1000
)

// orderProbeLimit caps the ordered scan used where a key has no numeric
// range semantics.
const orderProbeLimit = 10000

// Strategy is one primary-key scheme under test. Each variant supplies
// client-side key generation, a batch size, and the probe shape its
// index is representative for: a percentile-bounded range count when the
// key carries numeric ordering, an ordered limited scan otherwise. The
// two probe shapes are deliberately not unified; each measures what that
// key type's index is good for, which makes cross-strategy probe numbers
// only partially comparable.
type Strategy interface {
	// ID names the strategy in table names and logs.
	ID() string

	// BatchSize is the number of rows per multi-row insert statement.
	BatchSize() int

	// Keys returns n client-generated key values, or nil when the
	// engine assigns keys during insert.
	Keys(gen *workload.Generator, n int) ([]any, error)

	// RangeProbe reports whether the probe is a bounded range count
	// over retrieved keys rather than an ordered limited scan.
	RangeProbe() bool
}

// The closed set of strategies under test.
var (
	Sequential Strategy = sequential{}
	TextUUID   Strategy = textUUID{}
	BinaryUUID Strategy = binaryUUID{}
	NativeUUID Strategy = nativeUUID{}
)

// sequential relies on the engine to assign ascending integer keys.
type sequential struct{}

func (sequential) ID() string       { return "auto" }
func (sequential) BatchSize() int   { return seqBatchSize }
func (sequential) RangeProbe() bool { return true }

func (sequential) Keys(*workload.Generator, int) ([]any, error) {
	return nil, nil
}

// textUUID stores random UUIDs as 36-character canonical strings.
type textUUID struct{}

func (textUUID) ID() string       { return "uuid_char" }
func (textUUID) BatchSize() int   { return keyedBatchSize }
func (textUUID) RangeProbe() bool { return false }

func (textUUID) Keys(gen *workload.Generator, n int) ([]any, error) {
	keys, err := gen.TextKeys(n)
	if err != nil {
		return nil, err
	}

	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}

	return out, nil
}

// binaryUUID stores random UUIDs as raw 16-byte values.
type binaryUUID struct{}

func (binaryUUID) ID() string       { return "uuid_bin" }
func (binaryUUID) BatchSize() int   { return keyedBatchSize }
func (binaryUUID) RangeProbe() bool { return false }

func (binaryUUID) Keys(gen *workload.Generator, n int) ([]any, error) {
	keys, err := gen.BinaryKeys(n)
	if err != nil {
		return nil, err
	}

	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}

	return out, nil
}

// nativeUUID stores random UUIDs in an engine-native UUID column.
type nativeUUID struct{}

func (nativeUUID) ID() string       { return "uuid" }
func (nativeUUID) BatchSize() int   { return keyedBatchSize }
func (nativeUUID) RangeProbe() bool { return false }

func (nativeUUID) Keys(gen *workload.Generator, n int) ([]any, error) {
	keys, err := gen.UUIDKeys(n)
	if err != nil {
		return nil, err
	}

	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}

	return out, nil
}
