// Copyright (c) 2024, The OTNS Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

// Package prng provides the simulator's seedable pseudo-random generators. Each concern
// (node identity, backoff draws, the medium's pre-occupancy tie-break, reception-judge
// coin-flips, fading) gets its own *rand.Rand seeded off one root seed, so that a run is
// fully reproducible regardless of the order in which nodes happen to call into the PRNG.
package prng

import (
	"math/rand"
	"time"
)

type RandomSeed int64

var (
	nodeSeedGenerator     *rand.Rand
	backoffRandGenerator  *rand.Rand
	preOccupancyGenerator *rand.Rand
	captureRandGenerator  *rand.Rand
	fadingRandGenerator   *rand.Rand
	unitRandGenerator     *rand.Rand
)

// Init initializes the prng package, either with a fixed PRNG seed (rootSeed != 0) or a
// time-based 'random' seed (if rootSeed == 0).
func Init(rootSeed int64) {
	if rootSeed == 0 {
		rootSeed = time.Now().UnixNano()
	}
	rand.Seed(rootSeed)

	nodeSeedGenerator = rand.New(rand.NewSource(rootSeed + int64(rand.Intn(1e10))))
	backoffRandGenerator = rand.New(rand.NewSource(rootSeed + int64(rand.Intn(1e10))))
	preOccupancyGenerator = rand.New(rand.NewSource(rootSeed + int64(rand.Intn(1e10))))
	captureRandGenerator = rand.New(rand.NewSource(rootSeed + int64(rand.Intn(1e10))))
	fadingRandGenerator = rand.New(rand.NewSource(rootSeed + int64(rand.Intn(1e10))))
	unitRandGenerator = rand.New(rand.NewSource(rootSeed + int64(rand.Intn(1e10))))
}

// NewNodeRandomSeed generates a unique per-node random seed, used to seed a node's own
// backoff/MCS-estimation PRNG state independently of the others.
func NewNodeRandomSeed() int32 {
	return nodeSeedGenerator.Int31()
}

// BackoffSlots draws a uniform integer backoff count in [0, cw], per the DCF contention window.
func BackoffSlots(cw int) int {
	return backoffRandGenerator.Intn(cw + 1)
}

// BackoffExpFloat64 draws an exponentially-distributed random value with rate 1, used by the
// continuous (non-slotted) backoff draw before it is scaled by the slot time and the window.
func BackoffExpFloat64() float64 {
	return backoffRandGenerator.ExpFloat64()
}

// PreOccupancyQuantum draws the small random tie-break offset (in the same-slot simultaneity
// epsilon) used to deterministically but unpredictably order two transmissions that start at
// the exact same simulation time.
func PreOccupancyQuantum(epsilonNs uint64) uint64 {
	if epsilonNs == 0 {
		return 0
	}
	return uint64(preOccupancyGenerator.Int63n(int64(epsilonNs)))
}

// CaptureCoinFlip draws a uniform [0,1) float for the capture-effect / PER coin-flip decision
// in the reception judge.
func CaptureCoinFlip() float64 {
	return captureRandGenerator.Float64()
}

// FadingSample draws a standard-normal sample, used by shadow-fading terms in the path-loss models.
func FadingSample() float64 {
	return fadingRandGenerator.NormFloat64()
}

// NewUnitRandom generates a new random unit [0, 1) float, usable as a random probability.
func NewUnitRandom() float64 {
	return unitRandGenerator.Float64()
}
