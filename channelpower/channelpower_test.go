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

package channelpower

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wlanax-sim/wlanax-ns/types"
)

func TestVectorNeverGoesNegative(t *testing.T) {
	v := NewVector(4)
	v.Add(0, 10)
	v.Subtract(0, 20)
	assert.Equal(t, 0.0, v.At(0))
}

func TestVectorClampsSmallResidueToZero(t *testing.T) {
	v := NewVector(1)
	v.Add(0, 1e-9)
	assert.Equal(t, 0.0, v.At(0))
}

func TestVectorResetToZero(t *testing.T) {
	v := NewVector(3)
	v.Add(0, 5)
	v.Add(1, 5)
	v.ResetToZero()
	assert.Equal(t, 0.0, v.At(0))
	assert.Equal(t, 0.0, v.At(1))
}

func TestContributionNoneRuleLeaksNothing(t *testing.T) {
	c := Contribution(types.AdjacentChannelNone, []types.ChannelId{1}, 0, 4)
	assert.Equal(t, 0.0, c[0])
	assert.Equal(t, 0.0, c[2])
	assert.Greater(t, c[1], 0.0)
}

func TestContributionBoundaryRuleDecaysWithDistance(t *testing.T) {
	c := Contribution(types.AdjacentChannelBoundary, []types.ChannelId{1}, 0, 4)
	assert.Greater(t, c[2], c[3])
}

func TestContributionExtremeRuleSumsOverUsedChannels(t *testing.T) {
	boundary := Contribution(types.AdjacentChannelBoundary, []types.ChannelId{0, 1}, 0, 4)
	extreme := Contribution(types.AdjacentChannelExtreme, []types.ChannelId{0, 1}, 0, 4)
	assert.GreaterOrEqual(t, extreme[3], boundary[3])
}

func TestPeerPowerMapRecordAndTake(t *testing.T) {
	m := NewPeerPowerMap()
	assert.False(t, m.Active())
	m.Record(5, map[types.ChannelId]float64{0: 1.0})
	assert.True(t, m.Active())
	c := m.Take(5)
	assert.Equal(t, 1.0, c[0])
	assert.False(t, m.Active())
}
