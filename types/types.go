// Copyright (c) 2020, The OTNS Authors.
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

// Package types defines the common identifiers and enumerations shared by every
// package of the simulator: node/channel ids, node roles, node states, packet
// types, loss reasons and channel-bonding/backoff policy names.
package types

import (
	"fmt"
	"math"
)

// NodeId uniquely identifies a node for the lifetime of a simulation. Ids start from 1.
type NodeId = int

const (
	InvalidNodeId   NodeId = 0
	BroadcastNodeId NodeId = -1
)

// ChannelId indexes a 20-MHz subchannel in the global subchannel grid, 0-based.
type ChannelId = int

// Role identifies whether a node is an access point or a station.
type Role uint8

const (
	RoleAP Role = iota
	RoleSTA
)

func (r Role) String() string {
	switch r {
	case RoleAP:
		return "AP"
	case RoleSTA:
		return "STA"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// Position is a 3-D coordinate in meters.
type Position struct {
	X, Y, Z float64
}

// DistanceTo returns the Euclidean distance, in meters, between p and o.
func (p Position) DistanceTo(o Position) float64 {
	dx, dy, dz := p.X-o.X, p.Y-o.Y, p.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// NodeState is the DCF/11ax controller state of a Node, per spec section 3.
type NodeState uint8

const (
	StateSensing NodeState = iota
	StateTxRts
	StateTxCts
	StateTxData
	StateTxAck
	StateWaitCts
	StateWaitData
	StateWaitAck
	StateRxRts
	StateRxCts
	StateRxData
	StateRxAck
	StateNav
	StateSleep
)

var stateNames = [...]string{
	"Sensing", "TxRts", "TxCts", "TxData", "TxAck",
	"WaitCts", "WaitData", "WaitAck",
	"RxRts", "RxCts", "RxData", "RxAck",
	"Nav", "Sleep",
}

func (s NodeState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("NodeState(%d)", uint8(s))
}

// PacketType identifies the kind of frame carried by a Notification.
type PacketType uint8

const (
	PacketRts PacketType = iota
	PacketCts
	PacketData
	PacketAck
	PacketMcsRequest
	PacketMcsResponse
)

func (t PacketType) String() string {
	switch t {
	case PacketRts:
		return "RTS"
	case PacketCts:
		return "CTS"
	case PacketData:
		return "DATA"
	case PacketAck:
		return "ACK"
	case PacketMcsRequest:
		return "MCS-Request"
	case PacketMcsResponse:
		return "MCS-Response"
	default:
		return fmt.Sprintf("PacketType(%d)", uint8(t))
	}
}

// LossReason enumerates the reception-judge and transient-miss outcomes of spec section 7.
// LossNone is the single "packet not lost" sentinel (spec section 9, Open Question 2).
type LossReason uint8

const (
	LossNone LossReason = iota
	LossLowSignal
	LossInterference
	LossPureCollision
	LossLowSignalAndRx
	LossSinrProb
	LossRxInNav
	LossBoCollision
	LossDestinationTx
	LossOutsideChRange
	LossCaptureEffect
	LossIgnoredForSpatialReuse
	LossCtsTimeout
	LossAckTimeout
	LossDataTimeout
	LossNavTimeout
)

var lossReasonNames = [...]string{
	"none", "low-signal", "interference", "pure-collision", "low-signal-and-rx",
	"sinr-prob", "rx-in-nav", "bo-collision", "destination-tx", "outside-ch-range",
	"capture-effect", "ignored-for-spatial-reuse", "cts-timeout", "ack-timeout",
	"data-timeout", "nav-timeout",
}

func (r LossReason) String() string {
	if int(r) < len(lossReasonNames) {
		return lossReasonNames[r]
	}
	return fmt.Sprintf("LossReason(%d)", uint8(r))
}

// IsLoss reports whether r represents an actual reception failure (anything but LossNone).
func (r LossReason) IsLoss() bool {
	return r != LossNone
}

// CbPolicy names a channel-bonding policy, spec section 4.7.
type CbPolicy uint8

const (
	CbOnlyPrimary CbPolicy = iota
	CbScbAggressive
	CbScbLog2
	CbDcbAggressive
	CbDcbLog2
)

func (p CbPolicy) String() string {
	switch p {
	case CbOnlyPrimary:
		return "ONLY_PRIMARY"
	case CbScbAggressive:
		return "SCB_aggressive"
	case CbScbLog2:
		return "SCB_log2"
	case CbDcbAggressive:
		return "DCB_aggressive"
	case CbDcbLog2:
		return "DCB_log2"
	default:
		return fmt.Sprintf("CbPolicy(%d)", uint8(p))
	}
}

// BackoffMode names a backoff-draw regime, spec section 4.5.
type BackoffMode uint8

const (
	BackoffSlotted BackoffMode = iota
	BackoffContinuous
	BackoffDeterministic
)

func (m BackoffMode) String() string {
	switch m {
	case BackoffSlotted:
		return "slotted"
	case BackoffContinuous:
		return "continuous"
	case BackoffDeterministic:
		return "deterministic"
	default:
		return fmt.Sprintf("BackoffMode(%d)", uint8(m))
	}
}

// BackoffPdf names the probability distribution used to draw a slotted backoff.
type BackoffPdf uint8

const (
	PdfUniform BackoffPdf = iota
	PdfExponential
)

// AdjacentChannelRule names the power-leakage model applied between subchannels, spec section 4.2.
type AdjacentChannelRule uint8

const (
	AdjacentChannelNone AdjacentChannelRule = iota
	AdjacentChannelBoundary
	AdjacentChannelExtreme
)

// PathLossModel names a supported propagation law, spec section 4.2.
type PathLossModel uint8

const (
	PathLossFreeSpace PathLossModel = iota
	PathLossOkumuraHataUrban
	PathLossResidentialApartment
	PathLossAx11Scenario1
	PathLossAx11Scenario2
	PathLossAx11Scenario3
	PathLossAx11Scenario4
	PathLossAx11Scenario4a
)

// CaptureEffectModel names a supported reception-judge decision model, spec section 4.3.
type CaptureEffectModel uint8

const (
	CaptureDefault CaptureEffectModel = iota
	Capture80211
)

// Bandwidth is a channel width expressed in units of 20-MHz subchannels (1, 2, 4 or 8).
type Bandwidth = int

const (
	Bandwidth20MHz  Bandwidth = 1
	Bandwidth40MHz  Bandwidth = 2
	Bandwidth80MHz  Bandwidth = 4
	Bandwidth160MHz Bandwidth = 8
)
