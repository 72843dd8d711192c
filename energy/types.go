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

// Package energy tracks, per node, how much time was spent in each DCF/11ax controller state
// and converts it into an energy estimate, plus per-channel/per-width transmit airtime.
package energy

import (
	"github.com/wlanax-sim/wlanax-ns/types"
)

// Class buckets the 14 controller states into the four radio activities that drive power draw.
type Class uint8

const (
	ClassIdle Class = iota
	ClassTx
	ClassRx
	ClassSleep
)

// classOf maps every types.NodeState to the radio activity it represents. Sensing and Nav both
// keep the radio listening (CCA) without decoding a frame addressed to this node, so they are
// idle rather than Rx; the Wait* and Rx* states are actively receiving or awaiting a reply.
func classOf(s types.NodeState) Class {
	switch s {
	case types.StateTxRts, types.StateTxCts, types.StateTxData, types.StateTxAck:
		return ClassTx
	case types.StateWaitCts, types.StateWaitData, types.StateWaitAck,
		types.StateRxRts, types.StateRxCts, types.StateRxData, types.StateRxAck:
		return ClassRx
	case types.StateSleep:
		return ClassSleep
	default: // StateSensing, StateNav
		return ClassIdle
	}
}

// Default consumption values by radio activity, in kilowatts, for an STM32WB55rg-class radio
// at 3.3V. Time is in microseconds, resulting energy in millijoules.
const (
	IdleConsumptionKw  float64 = 0.00000011
	TxConsumptionKw    float64 = 0.00001716 // @ i = 5.2 mA
	RxConsumptionKw    float64 = 0.00001485 // @ i = 4.5 mA
	SleepConsumptionKw float64 = 0.00000011
)

func consumptionKw(c Class) float64 {
	switch c {
	case ClassTx:
		return TxConsumptionKw
	case ClassRx:
		return RxConsumptionKw
	case ClassSleep:
		return SleepConsumptionKw
	default:
		return IdleConsumptionKw
	}
}

// ComputePeriod is the default interval, in microseconds, between network-energy snapshots.
const ComputePeriod uint64 = 30000000

// RadioStatus is one node's accumulated per-state dwell time.
type RadioStatus struct {
	State       types.NodeState
	SpentByClass [4]uint64 // microseconds, indexed by Class
	Timestamp   uint64
}

// NetworkConsumption is one network-wide energy snapshot, averaged per node.
type NetworkConsumption struct {
	Timestamp      uint64
	EnergyConsIdle  float64
	EnergyConsSleep float64
	EnergyConsTx    float64
	EnergyConsRx    float64
}

// ChannelWidthKey identifies one (channel, bandwidth) bucket for airtime accounting.
type ChannelWidthKey struct {
	Channel types.ChannelId
	Width   int
}
