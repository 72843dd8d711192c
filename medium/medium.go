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

// Package medium implements the Channel-Medium bus: the event fan-out that delivers every
// StartTX/FinishTX to every attached node, the sender included, and routes each logical NACK,
// MCS request/response and configuration change to the one node it names, with
// same-slot simultaneity resolved by the event queue's (timestamp, node id, seq) ordering and
// each sender's pre-occupancy quantum.
package medium

import (
	"github.com/wlanax-sim/wlanax-ns/event"
	"github.com/wlanax-sim/wlanax-ns/frame"
	"github.com/wlanax-sim/wlanax-ns/logger"
	"github.com/wlanax-sim/wlanax-ns/mcs"
	"github.com/wlanax-sim/wlanax-ns/types"
)

// Receiver is implemented by every node attached to the bus.
type Receiver interface {
	Id() types.NodeId
	OnStartTx(n *frame.Notification)
	OnFinishTx(n *frame.Notification)
	OnLogicalNack(nack *frame.LogicalNack)
	OnMcsRequest(from types.NodeId)
	OnMcsResponse(from types.NodeId, row mcs.Row)
	OnConfigChange(payload interface{})
}

// Bus fans StartTX/FinishTX events out to every registered node, the originator included, and
// routes every other event type to a single node.
type Bus struct {
	receivers map[types.NodeId]Receiver
	order     []types.NodeId // registration order, kept for deterministic fan-out
}

// NewBus creates an empty Channel-Medium bus.
func NewBus() *Bus {
	return &Bus{receivers: make(map[types.NodeId]Receiver)}
}

// Register attaches a node to the bus.
func (b *Bus) Register(r Receiver) {
	id := r.Id()
	if _, exists := b.receivers[id]; !exists {
		b.order = append(b.order, id)
	}
	b.receivers[id] = r
}

// Deregister removes a node from the bus.
func (b *Bus) Deregister(id types.NodeId) {
	delete(b.receivers, id)
	for i, o := range b.order {
		if o == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Len reports how many nodes are currently attached.
func (b *Bus) Len() int {
	return len(b.order)
}

// Dispatch delivers one popped event: StartTX/FinishTX to every node attached to the bus, the
// sender included; NACK, MCS and configuration events to the one node they name. It is the only
// place that interprets an event.Type; the simulation's event loop calls this for every event
// it pops off the shared event.Queue.
func (b *Bus) Dispatch(ev *event.Event) {
	switch ev.Type {
	case event.TypeStartTx:
		n, ok := ev.Data.(*frame.Notification)
		logger.AssertTrue(ok)
		b.fanOutStartTx(ev.NodeId, n)
	case event.TypeFinishTx:
		n, ok := ev.Data.(*frame.Notification)
		logger.AssertTrue(ok)
		b.fanOutFinishTx(ev.NodeId, n)
	case event.TypeLogicalNack:
		nack, ok := ev.Data.(*frame.LogicalNack)
		logger.AssertTrue(ok)
		if r, exists := b.receivers[nack.NodeA]; exists {
			r.OnLogicalNack(nack)
		}
	case event.TypeMcsRequest:
		dest, ok := ev.Data.(types.NodeId)
		logger.AssertTrue(ok)
		if r, exists := b.receivers[dest]; exists {
			r.OnMcsRequest(ev.NodeId)
		}
	case event.TypeMcsResponse:
		resp, ok := ev.Data.(*frame.McsResponse)
		logger.AssertTrue(ok)
		if r, exists := b.receivers[resp.To]; exists {
			r.OnMcsResponse(ev.NodeId, resp.Row)
		}
	case event.TypeConfigChange:
		if r, exists := b.receivers[ev.NodeId]; exists {
			r.OnConfigChange(ev.Data)
		}
	}
}

// fanOutStartTx delivers to every node including the sender, which is expected to
// short-circuit its own self-delivery; see the Channel-Medium bus contract.
func (b *Bus) fanOutStartTx(sender types.NodeId, n *frame.Notification) {
	for _, id := range b.order {
		b.receivers[id].OnStartTx(n)
	}
}

// fanOutFinishTx delivers to every node including the sender, which uses its own delivery to
// drive the post-transmission state transition.
func (b *Bus) fanOutFinishTx(sender types.NodeId, n *frame.Notification) {
	for _, id := range b.order {
		b.receivers[id].OnFinishTx(n)
	}
}
