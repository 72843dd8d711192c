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

// Package frame defines the structures exchanged on the Channel-Medium bus: the
// Notification broadcast at StartTX/FinishTX, its nested TxInfo, and the out-of-band
// LogicalNack delivered for diagnostic accounting.
package frame

import (
	"github.com/wlanax-sim/wlanax-ns/mcs"
	"github.com/wlanax-sim/wlanax-ns/types"
)

// TxInfo carries the transmission-side bookkeeping nested inside every Notification.
type TxInfo struct {
	AggregationCount int
	RtsDurationUs    float64
	CtsDurationUs    float64
	DataDurationUs   float64
	AckDurationUs    float64
	TotalTxPowerDbm  float64
	PowerPerChannel  map[types.ChannelId]float64
	BitsPerOfdmSymbol int
	Position          types.Position
	NavDurationUs     float64
	TxPowerChanged    bool
	BssColor          int
	Srg               int
	PreOccupancyNs    uint64
}

// Notification is the struct broadcast on the Channel-Medium bus for StartTX/FinishTX.
type Notification struct {
	PacketId     uint64
	PacketType   types.PacketType
	SourceId     types.NodeId
	DestId       types.NodeId
	TxDurationUs float64
	LeftChannel  types.ChannelId
	RightChannel types.ChannelId
	FrameLengthBits int
	Mcs             mcs.Index
	SendTimestamp   uint64
	GenTimestamp    uint64
	QueuedAtUs      uint64
	Info            TxInfo
}

// Width returns the number of 20-MHz subchannels this notification occupies.
func (n *Notification) Width() int {
	return n.RightChannel - n.LeftChannel + 1
}

// Overlaps reports whether n's [left,right] range overlaps the given primary channel range.
func (n *Notification) Overlaps(left, right types.ChannelId) bool {
	return n.LeftChannel <= right && left <= n.RightChannel
}

// LogicalNack is delivered out-of-band (never on the medium) for diagnostic accounting of a
// reception failure.
type LogicalNack struct {
	SourceId   types.NodeId
	PacketId   uint64
	Reason     types.LossReason
	NodeA      types.NodeId // intended target
	NodeB      types.NodeId // interferer, when known; types.InvalidNodeId if not
	ObservedBer  float64
	ObservedSinr float64
}

// McsResponse carries an MCS negotiation reply's destination alongside the negotiated row,
// since event.Event only attaches the sender as its NodeId field.
type McsResponse struct {
	To  types.NodeId
	Row mcs.Row
}
