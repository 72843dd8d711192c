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

package energy

import (
	"github.com/wlanax-sim/wlanax-ns/logger"
	"github.com/wlanax-sim/wlanax-ns/types"
)

// NodeEnergy is one node's radio-state dwell time plus its per-(channel,width) transmit
// airtime, accumulated as the simulation drives SetState/RecordAirtime from the node's own
// state-machine transitions.
type NodeEnergy struct {
	nodeId  int
	radio   RadioStatus
	airtime map[ChannelWidthKey]uint64
}

// ComputeState folds the time elapsed since the last observation into the currently-active
// class's bucket. Must run before State is changed, or the elapsed time is attributed wrongly.
func (node *NodeEnergy) ComputeState(timestamp uint64) {
	if timestamp < node.radio.Timestamp {
		logger.Panicf("energy: timestamp went backwards for node %d", node.nodeId)
	}
	delta := timestamp - node.radio.Timestamp
	node.radio.SpentByClass[classOf(node.radio.State)] += delta
	node.radio.Timestamp = timestamp
}

// SetState folds in elapsed dwell time for the old state, then switches to the new one.
func (node *NodeEnergy) SetState(state types.NodeState, timestamp uint64) {
	node.ComputeState(timestamp)
	node.radio.State = state
}

// RecordAirtime adds durationUs of transmit occupancy on the given channel/width bucket,
// supplementing the bare per-state dwell time with the per-channel breakdown named in the
// output report (spec section 6).
func (node *NodeEnergy) RecordAirtime(ch types.ChannelId, width int, durationUs uint64) {
	node.airtime[ChannelWidthKey{Channel: ch, Width: width}] += durationUs
}

// Airtime returns the accumulated transmit occupancy, in microseconds, for one channel/width.
func (node *NodeEnergy) Airtime(ch types.ChannelId, width int) uint64 {
	return node.airtime[ChannelWidthKey{Channel: ch, Width: width}]
}

func newNode(nodeID int, timestamp uint64) *NodeEnergy {
	return &NodeEnergy{
		nodeId: nodeID,
		radio: RadioStatus{
			State:     types.StateSleep,
			Timestamp: timestamp,
		},
		airtime: make(map[ChannelWidthKey]uint64),
	}
}
