package bench

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// RunKey identifies a reproducible benchmark run. The same key and config
// produce the same initial list and the same per-worker operation streams;
// only the interleaving differs between runs.
type RunKey int64

const (
	// SubsystemPopulate is the generator used to seed the initial list.
	// Uses the master seed directly.
	SubsystemPopulate = "populate"
)

// SubsystemWorker returns the subsystem name for worker id.
func SubsystemWorker(id int) string {
	return fmt.Sprintf("worker_%d", id)
}

// PartitionedRNG hands out deterministic, isolated generators per subsystem.
//
// Derivation:
//   - SubsystemPopulate: master seed
//   - everything else: master seed XOR fnv1a64(name)
//
// Thread-safety: NOT thread-safe. The harness creates every worker's generator
// on its own goroutine before any worker starts; each *rand.Rand is then
// owned by a single worker.
type PartitionedRNG struct {
	key        RunKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a RunKey.
func NewPartitionedRNG(key RunKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the generator for name, creating it on first use.
// The same name always returns the same instance.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := int64(p.key)
	if name != SubsystemPopulate {
		derivedSeed ^= fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// ForWorker returns worker id's private generator, ForSubsystem(SubsystemWorker(id)).
// Each worker draws its operation kinds and keys only from its own stream, so
// a worker's sequence depends on the seed and id alone, never on scheduling.
func (p *PartitionedRNG) ForWorker(id int) *rand.Rand {
	return p.ForSubsystem(SubsystemWorker(id))
}

// Key returns the RunKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() RunKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
