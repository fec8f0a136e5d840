package rng

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source is a single stim row's seeded random source. Every distribution
// drawn from a row (uniform, Gaussian, Poisson) shares one Source so that a
// fixed seed reproduces the row's entire output deterministically, per
// original_source/stimgen/rando.c's single global generator feeding both
// drand49() and gauss().
type Source struct {
	seed uint64
	r    *rand.Rand
}

// NewSource constructs a Source from an explicit seed (a fix_seed row).
func NewSource(seed uint64) *Source {
	return &Source{seed: seed, r: rand.New(rand.NewSource(int64(seed)))} //nolint:gosec // deterministic PRNG by design
}

// NewHighEntropySource constructs a Source seeded from crypto/rand, for rows
// that do not set fix_seed. The seed actually drawn is returned alongside
// the Source so the compiler can record it in the row's metadata (§4.4's
// "the seed in use is saved in metadata so that a recording is
// reproducible").
func NewHighEntropySource() (*Source, uint64) {
	var buf [8]byte
	seed := uint64(0)
	if _, err := cryptorand.Read(buf[:]); err == nil {
		seed = binary.LittleEndian.Uint64(buf[:])
	} else {
		// crypto/rand is effectively infallible on every supported platform;
		// if it ever fails, fall back to a process-seeded generator rather
		// than aborting a compile over entropy-source unavailability.
		seed = uint64(rand.New(rand.NewSource(rand.Int63())).Int63()) //nolint:gosec
	}
	// Keep the seed within float64's exact-integer range so the value stored
	// in the float64 metadata matrix converts back to the same seed.
	seed &= 1<<53 - 1
	return NewSource(seed), seed
}

// Seed reports the seed this Source was constructed from.
func (s *Source) Seed() uint64 { return s.seed }

// Float64 draws a uniform sample in [0, 1), the direct analogue of
// rando.c's drand49().
func (s *Source) Float64() float64 { return s.r.Float64() }

// StdNormal draws a standard normal sample, the direct analogue of
// rando.c's gauss().
func (s *Source) StdNormal() float64 {
	return distuv.Normal{Mu: 0, Sigma: 1, Src: s.r}.Rand()
}

// Uniform draws a single sample from Uniform(min, max).
func (s *Source) Uniform(min, max float64) float64 {
	return distuv.Uniform{Min: min, Max: max, Src: s.r}.Rand()
}

// Gaussian draws a single sample from Normal(mu, sigma).
func (s *Source) Gaussian(mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: s.r}.Rand()
}

// Poisson draws a single sample from Poisson(lambda).
func (s *Source) Poisson(lambda float64) float64 {
	return distuv.Poisson{Lambda: lambda, Src: s.r}.Rand()
}
