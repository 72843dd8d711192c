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

// Package bonding selects the set of 20-MHz subchannels a node bonds together for one
// transmission, given its configured bonding policy and which subchannels are currently clear.
package bonding

import (
	"github.com/wlanax-sim/wlanax-ns/types"
)

// Selection is the outcome of a channel-bonding decision.
type Selection struct {
	Left     types.ChannelId
	Right    types.ChannelId
	Possible bool // false means the transmission cannot proceed on any width
}

// Select picks the transmit channel set for one TXOP attempt. primary must lie within
// [confLeft, confRight], the node's configured secondary-channel range. clear reports, indexed
// by absolute channel id, whether each subchannel was sensed idle at TXOP start.
func Select(policy types.CbPolicy, primary, confLeft, confRight types.ChannelId, clear []bool) Selection {
	if !inRange(clear, primary) || !clear[primary] {
		return Selection{Possible: false}
	}
	if policy == types.CbOnlyPrimary {
		return Selection{Left: primary, Right: primary, Possible: true}
	}

	static := policy == types.CbScbAggressive || policy == types.CbScbLog2
	log2 := policy == types.CbScbLog2 || policy == types.CbDcbLog2

	if static {
		if !allClear(clear, confLeft, confRight) {
			return Selection{Possible: false}
		}
		left, right := confLeft, confRight
		if log2 {
			left, right = shrinkToLog2(primary, left, right)
		}
		return Selection{Left: left, Right: right, Possible: true}
	}

	// Dynamic bonding: grow the clear contiguous range around primary, within configured bounds.
	left, right := widestClearRange(clear, primary, confLeft, confRight)
	if log2 {
		left, right = shrinkToLog2(primary, left, right)
	}
	return Selection{Left: left, Right: right, Possible: true}
}

func inRange(clear []bool, ch types.ChannelId) bool {
	return ch >= 0 && int(ch) < len(clear)
}

func allClear(clear []bool, left, right types.ChannelId) bool {
	for c := left; c <= right; c++ {
		if !inRange(clear, c) || !clear[c] {
			return false
		}
	}
	return true
}

// widestClearRange grows outward from primary, adding the clear neighbour on each side per step,
// until the range spans at least Bandwidth160MHz subchannels, covers [confLeft, confRight], or
// no neighbour is clear. The width is not limited to 1/2/4/8 subchannels (three is possible).
func widestClearRange(clear []bool, primary, confLeft, confRight types.ChannelId) (types.ChannelId, types.ChannelId) {
	left, right := primary, primary
	for {
		width := int(right-left) + 1
		if width >= types.Bandwidth160MHz || (left <= confLeft && right >= confRight) {
			break
		}
		canGrowLeft := left-1 >= confLeft && inRange(clear, left-1) && clear[left-1]
		canGrowRight := right+1 <= confRight && inRange(clear, right+1) && clear[right+1]
		if !canGrowLeft && !canGrowRight {
			break
		}
		if canGrowLeft && canGrowRight {
			left--
			right++
		} else if canGrowLeft {
			left--
		} else {
			right++
		}
	}
	return left, right
}

// shrinkToLog2 trims [left,right] down to the next power-of-2 width that still contains primary.
func shrinkToLog2(primary, left, right types.ChannelId) (types.ChannelId, types.ChannelId) {
	width := int(right-left) + 1
	pow := 1
	for pow*2 <= width {
		pow *= 2
	}
	if pow == width {
		return left, right
	}
	newLeft := primary - types.ChannelId(pow/2)
	if newLeft < left {
		newLeft = left
	}
	newRight := newLeft + types.ChannelId(pow-1)
	if newRight > right {
		newRight = right
		newLeft = newRight - types.ChannelId(pow-1)
	}
	return newLeft, newRight
}
