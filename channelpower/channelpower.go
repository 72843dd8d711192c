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

// Package channelpower implements a node's sensed channel-power vector: a per-subchannel
// linear-scale power accumulator fed by every ongoing transmission in range, plus the
// adjacent-channel leakage rules that spread a transmitter's power across the global grid.
package channelpower

import (
	"math"

	"github.com/wlanax-sim/wlanax-ns/logger"
	"github.com/wlanax-sim/wlanax-ns/types"
)

// Epsilon is the small positive power (linear scale, picowatts) below which a vector cell
// is considered zero, absorbing floating-point rounding drift from repeated add/subtract.
const Epsilon = 1e-6

// Vector is a node's per-subchannel sensed power, indexed 0..NumChannels-1.
type Vector struct {
	cells []float64
}

// NewVector creates a zeroed power vector over numChannels subchannels.
func NewVector(numChannels int) *Vector {
	return &Vector{cells: make([]float64, numChannels)}
}

// Len returns the number of subchannels in the vector.
func (v *Vector) Len() int {
	return len(v.cells)
}

// At returns the sensed power (picowatt-scale, linear) on subchannel ch.
func (v *Vector) At(ch types.ChannelId) float64 {
	return v.cells[ch]
}

// Add adds a positive power contribution to subchannel ch, clamping to zero under Epsilon.
func (v *Vector) Add(ch types.ChannelId, powerPw float64) {
	v.cells[ch] += powerPw
	v.clamp(ch)
}

// Subtract removes a previously-added power contribution from subchannel ch (e.g. at
// FinishTX), clamping to zero to absorb rounding drift rather than allowing negative power.
func (v *Vector) Subtract(ch types.ChannelId, powerPw float64) {
	v.cells[ch] -= powerPw
	v.clamp(ch)
}

func (v *Vector) clamp(ch types.ChannelId) {
	if v.cells[ch] < Epsilon {
		v.cells[ch] = 0
	}
	logger.AssertTrue(v.cells[ch] >= 0)
}

// AnyPositive reports whether any subchannel currently carries sensed power above zero.
func (v *Vector) AnyPositive() bool {
	for _, c := range v.cells {
		if c > 0 {
			return true
		}
	}
	return false
}

// ResetToZero zeroes every cell. Used when the medium observes that no peer is
// transmitting, to cancel any accumulated subtraction rounding drift.
func (v *Vector) ResetToZero() {
	for i := range v.cells {
		v.cells[i] = 0
	}
}

// MaxOver returns the maximum sensed power over the inclusive subchannel range [left, right].
func (v *Vector) MaxOver(left, right types.ChannelId) float64 {
	max := 0.0
	for c := left; c <= right; c++ {
		if v.cells[c] > max {
			max = v.cells[c]
		}
	}
	return max
}

// PeerPowerMap tracks, per peer node, the power it currently contributes to this node's
// Vector. Record adds a peer's entry and Take deletes it, so Active reports false once every
// recorded peer has been taken.
type PeerPowerMap struct {
	contributions map[types.NodeId]map[types.ChannelId]float64
}

// NewPeerPowerMap creates an empty peer-power tracking map.
func NewPeerPowerMap() *PeerPowerMap {
	return &PeerPowerMap{contributions: make(map[types.NodeId]map[types.ChannelId]float64)}
}

// Record stores the per-channel contribution a peer is adding, so it can be exactly
// subtracted later even if leakage parameters change mid-transmission.
func (m *PeerPowerMap) Record(peer types.NodeId, perChannel map[types.ChannelId]float64) {
	m.contributions[peer] = perChannel
}

// Take returns and forgets the per-channel contribution previously recorded for peer.
func (m *PeerPowerMap) Take(peer types.NodeId) map[types.ChannelId]float64 {
	c := m.contributions[peer]
	delete(m.contributions, peer)
	return c
}

// Active reports whether any peer is currently recorded as transmitting.
func (m *PeerPowerMap) Active() bool {
	return len(m.contributions) > 0
}

// Contribution computes the per-subchannel linear power a transmission using txChannels
// (the contiguous set of subchannels actually used) at txPowerDbmPerChannel contributes to
// every subchannel 0..numChannels-1, under the given adjacent-channel leakage rule.
func Contribution(rule types.AdjacentChannelRule, txChannels []types.ChannelId, txPowerDbmPerChannel float64,
	numChannels int) map[types.ChannelId]float64 {

	used := make(map[types.ChannelId]bool, len(txChannels))
	for _, c := range txChannels {
		used[c] = true
	}
	txPowerPw := dbmToPw(txPowerDbmPerChannel)

	out := make(map[types.ChannelId]float64, numChannels)
	for ch := 0; ch < numChannels; ch++ {
		if used[ch] {
			out[ch] = txPowerPw
			continue
		}
		switch rule {
		case types.AdjacentChannelNone:
			// no leakage outside the used set
		case types.AdjacentChannelBoundary:
			dist := nearestBoundaryDistance(ch, txChannels)
			out[ch] = attenuate(txPowerPw, dist)
		case types.AdjacentChannelExtreme:
			sum := 0.0
			for _, u := range txChannels {
				d := abs(ch - u)
				sum += attenuate(txPowerPw, d)
			}
			out[ch] = sum
		}
	}
	return out
}

func nearestBoundaryDistance(ch types.ChannelId, txChannels []types.ChannelId) int {
	best := math.MaxInt32
	for _, u := range txChannels {
		d := abs(ch - u)
		if d < best {
			best = d
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// attenuate applies 20 dB of attenuation per subchannel of separation.
func attenuate(powerPw float64, subchannelDistance int) float64 {
	if subchannelDistance <= 0 {
		return powerPw
	}
	attenDb := 20.0 * float64(subchannelDistance)
	return powerPw * math.Pow(10, -attenDb/10)
}

func dbmToPw(dbm float64) float64 {
	// 1 pW = -90 dBm; picowatts = 10^((dBm+90)/10)
	return math.Pow(10, (dbm+90)/10)
}
