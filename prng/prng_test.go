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

package prng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitIsReproducibleWithFixedSeed(t *testing.T) {
	Init(42)
	a := BackoffSlots(31)
	b := NewNodeRandomSeed()

	Init(42)
	assert.Equal(t, a, BackoffSlots(31))
	assert.Equal(t, b, NewNodeRandomSeed())
}

func TestBackoffSlotsWithinWindow(t *testing.T) {
	Init(1)
	for i := 0; i < 100; i++ {
		v := BackoffSlots(15)
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 15)
	}
}

func TestPreOccupancyQuantumZeroEpsilon(t *testing.T) {
	Init(1)
	assert.Equal(t, uint64(0), PreOccupancyQuantum(0))
}

func TestPreOccupancyQuantumBounded(t *testing.T) {
	Init(1)
	for i := 0; i < 100; i++ {
		v := PreOccupancyQuantum(1000)
		assert.Less(t, v, uint64(1000))
	}
}

func TestCaptureCoinFlipUnitInterval(t *testing.T) {
	Init(1)
	for i := 0; i < 100; i++ {
		v := CaptureCoinFlip()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}
