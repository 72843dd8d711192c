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

package bonding

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wlanax-sim/wlanax-ns/types"
)

func allClearMask(n int) []bool {
	m := make([]bool, n)
	for i := range m {
		m[i] = true
	}
	return m
}

func TestSelectOnlyPrimaryIgnoresSecondary(t *testing.T) {
	clear := allClearMask(4)
	sel := Select(types.CbOnlyPrimary, 0, 0, 3, clear)
	assert.True(t, sel.Possible)
	assert.Equal(t, types.ChannelId(0), sel.Left)
	assert.Equal(t, types.ChannelId(0), sel.Right)
}

func TestSelectImpossibleWhenPrimaryBusy(t *testing.T) {
	clear := allClearMask(4)
	clear[0] = false
	sel := Select(types.CbOnlyPrimary, 0, 0, 3, clear)
	assert.False(t, sel.Possible)
}

func TestSelectStaticAggressiveRequiresFullRangeClear(t *testing.T) {
	clear := allClearMask(4)
	clear[2] = false
	sel := Select(types.CbScbAggressive, 0, 0, 3, clear)
	assert.False(t, sel.Possible)

	sel2 := Select(types.CbScbAggressive, 0, 0, 3, allClearMask(4))
	assert.True(t, sel2.Possible)
	assert.Equal(t, types.ChannelId(0), sel2.Left)
	assert.Equal(t, types.ChannelId(3), sel2.Right)
}

func TestSelectStaticLog2ShrinksToPowerOfTwo(t *testing.T) {
	clear := allClearMask(3)
	sel := Select(types.CbScbLog2, 0, 0, 2, clear)
	assert.True(t, sel.Possible)
	width := int(sel.Right-sel.Left) + 1
	assert.Equal(t, 2, width)
}

func TestSelectDynamicAggressiveGrowsAroundClearSubchannels(t *testing.T) {
	clear := allClearMask(4)
	clear[3] = false
	sel := Select(types.CbDcbAggressive, 0, 0, 3, clear)
	assert.True(t, sel.Possible)
	assert.Equal(t, types.ChannelId(0), sel.Left)
	assert.Equal(t, types.ChannelId(2), sel.Right)
}

func TestSelectDynamicLog2RoundsDownWidth(t *testing.T) {
	clear := allClearMask(3)
	sel := Select(types.CbDcbLog2, 0, 0, 2, clear)
	assert.True(t, sel.Possible)
	width := int(sel.Right-sel.Left) + 1
	assert.Equal(t, 2, width)
}

func TestSelectDynamicFallsBackToPrimaryWhenAllSecondaryBusy(t *testing.T) {
	clear := allClearMask(4)
	clear[1], clear[2], clear[3] = false, false, false
	sel := Select(types.CbDcbAggressive, 0, 0, 3, clear)
	assert.True(t, sel.Possible)
	assert.Equal(t, types.ChannelId(0), sel.Left)
	assert.Equal(t, types.ChannelId(0), sel.Right)
}
