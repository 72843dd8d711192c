// Copyright (c) 2020-2024, The OTNS Authors.
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

// Package event implements the simulator's single discrete-event schedule: every timer
// expiration, channel-medium notification and MCS-negotiation hand-off a node or the medium
// bus produces is represented as one Event and ordered for delivery by a priority queue.
package event

import (
	"fmt"

	. "github.com/wlanax-sim/wlanax-ns/types"
)

// Ever is a timestamp meaning "never scheduled", used for an idle node's next-timer slot.
const Ever uint64 = ^uint64(0)

// Type identifies the kind of payload an Event carries.
type Type uint8

const (
	TypeTimerFired Type = iota
	TypeStartTx
	TypeFinishTx
	TypeLogicalNack
	TypeMcsRequest
	TypeMcsResponse
	TypeConfigChange
)

func (t Type) String() string {
	switch t {
	case TypeTimerFired:
		return "TimerFired"
	case TypeStartTx:
		return "StartTx"
	case TypeFinishTx:
		return "FinishTx"
	case TypeLogicalNack:
		return "LogicalNack"
	case TypeMcsRequest:
		return "McsRequest"
	case TypeMcsResponse:
		return "McsResponse"
	case TypeConfigChange:
		return "ConfigChange"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Event is one scheduled occurrence in the simulation. Ordering among events sharing a
// Timestamp falls back to NodeId and finally Seq, giving the schedule a total, reproducible
// order instead of leaving same-tick delivery to map/slice iteration order.
type Event struct {
	Timestamp uint64
	NodeId    NodeId
	Seq       uint64
	Type      Type
	Data      interface{}

	index int // maintained by container/heap, not to be set directly
}

func (e *Event) String() string {
	return fmt.Sprintf("Ev{t=%d,node=%d,seq=%d,type=%s}", e.Timestamp, e.NodeId, e.Seq, e.Type)
}
