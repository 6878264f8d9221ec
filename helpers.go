package sade

import (
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// rng bundles the seedable random source with the distribution draws the
// operators need. One instance is owned by the driver; evaluation workers
// never touch it.
type rng struct {
	src  *rand.Rand
	seed uint64
}

func newRNG(seed uint64) *rng {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &rng{src: rand.New(rand.NewSource(seed)), seed: seed}
}

func (r *rng) float64() float64 {
	return r.src.Float64()
}

func (r *rng) intn(n int) int {
	return r.src.Intn(n)
}

// uniform draws from U(min, max).
func (r *rng) uniform(min, max float64) float64 {
	return distuv.Uniform{Min: min, Max: max, Src: r.src}.Rand()
}

// normal draws from N(mu, sigma).
func (r *rng) normal(mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: r.src}.Rand()
}

// truncNormal resamples N(mu, sigma) until the draw lands in [lb, ub].
func (r *rng) truncNormal(mu, sigma, lb, ub float64) float64 {
	d := distuv.Normal{Mu: mu, Sigma: sigma, Src: r.src}
	v := d.Rand()
	for v < lb || v > ub {
		v = d.Rand()
	}
	return v
}

// distinct draws k pairwise-distinct indices from [0, n), none of which
// appear in exclude.
func (r *rng) distinct(n, k int, exclude []int) []int {
	picked := make([]int, 0, k)
	taken := make(map[int]bool, k+len(exclude))
	for _, e := range exclude {
		taken[e] = true
	}
	for len(picked) < k {
		i := r.src.Intn(n)
		if taken[i] {
			continue
		}
		taken[i] = true
		picked = append(picked, i)
	}
	return picked
}

// uniformIndividual samples one individual uniformly from the ranges.
func (r *rng) uniformIndividual(ranges []Range) Individual {
	ind := make(Individual, len(ranges))
	for j, rg := range ranges {
		ind[j] = r.uniform(rg.Lower, rg.Upper)
	}
	return ind
}

// repair returns val if it lies in rg, otherwise a fresh uniform sample from
// rg. Resampling rather than clipping keeps boundary diversity.
func repair(rg Range, val float64, r *rng) float64 {
	if rg.Lower <= val && val <= rg.Upper {
		return val
	}
	return r.uniform(rg.Lower, rg.Upper)
}
