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

package propagation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wlanax-sim/wlanax-ns/types"
)

func TestLossIncreasesWithDistance(t *testing.T) {
	p := Params{Model: types.PathLossFreeSpace, FrequencyGHz: 5.0}
	assert.Less(t, LossDb(10, p), LossDb(100, p))
}

func TestRxPowerNoFadingIsDeterministic(t *testing.T) {
	p := Params{Model: types.PathLossFreeSpace, FrequencyGHz: 5.0}
	a := RxPower(20, 50, p)
	b := RxPower(20, 50, p)
	assert.Equal(t, a, b)
}

func TestResidentialApartmentPenalizesWalls(t *testing.T) {
	p0 := Params{Model: types.PathLossResidentialApartment, WallCount: 0}
	p2 := Params{Model: types.PathLossResidentialApartment, WallCount: 2}
	assert.Less(t, LossDb(20, p0), LossDb(20, p2))
}

func TestAx11ScenarioIndoorOutdoorPenalty(t *testing.T) {
	base := Params{Model: types.PathLossAx11Scenario4, FrequencyGHz: 5.0, BreakpointM: 10}
	mixed := base
	mixed.IndoorTx = true
	mixed.IndoorRx = false
	assert.Less(t, LossDb(50, base), LossDb(50, mixed))
}

func TestAx11ScenarioBreakpointContinuity(t *testing.T) {
	p := Params{Model: types.PathLossAx11Scenario1, FrequencyGHz: 5.0, BreakpointM: 10}
	below := LossDb(9.9, p)
	above := LossDb(10.1, p)
	assert.InDelta(t, below, above, 1.0)
}
