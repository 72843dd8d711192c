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

package medium

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wlanax-sim/wlanax-ns/event"
	"github.com/wlanax-sim/wlanax-ns/frame"
	"github.com/wlanax-sim/wlanax-ns/mcs"
	"github.com/wlanax-sim/wlanax-ns/types"
)

type fakeReceiver struct {
	id            types.NodeId
	startTxCount  int
	finishTxCount int
	lastNack      *frame.LogicalNack
	mcsReqFrom    types.NodeId
	mcsRespFrom   types.NodeId
	mcsRespRow    mcs.Row
	cfgPayload    interface{}
}

func (f *fakeReceiver) Id() types.NodeId               { return f.id }
func (f *fakeReceiver) OnStartTx(n *frame.Notification)  { f.startTxCount++ }
func (f *fakeReceiver) OnFinishTx(n *frame.Notification) { f.finishTxCount++ }
func (f *fakeReceiver) OnLogicalNack(n *frame.LogicalNack) { f.lastNack = n }
func (f *fakeReceiver) OnMcsRequest(from types.NodeId)     { f.mcsReqFrom = from }
func (f *fakeReceiver) OnMcsResponse(from types.NodeId, row mcs.Row) {
	f.mcsRespFrom = from
	f.mcsRespRow = row
}
func (f *fakeReceiver) OnConfigChange(payload interface{}) { f.cfgPayload = payload }

func TestDispatchStartTxReachesEveryoneIncludingSender(t *testing.T) {
	b := NewBus()
	r1 := &fakeReceiver{id: 1}
	r2 := &fakeReceiver{id: 2}
	r3 := &fakeReceiver{id: 3}
	b.Register(r1)
	b.Register(r2)
	b.Register(r3)

	ev := &event.Event{NodeId: 1, Type: event.TypeStartTx, Data: &frame.Notification{SourceId: 1}}
	b.Dispatch(ev)

	assert.Equal(t, 1, r1.startTxCount)
	assert.Equal(t, 1, r2.startTxCount)
	assert.Equal(t, 1, r3.startTxCount)
}

func TestDispatchLogicalNackTargetsIntendedRecipientOnly(t *testing.T) {
	b := NewBus()
	r1 := &fakeReceiver{id: 1}
	r2 := &fakeReceiver{id: 2}
	b.Register(r1)
	b.Register(r2)

	nack := &frame.LogicalNack{NodeA: 2, Reason: types.LossLowSignal}
	ev := &event.Event{NodeId: 1, Type: event.TypeLogicalNack, Data: nack}
	b.Dispatch(ev)

	assert.Nil(t, r1.lastNack)
	assert.Equal(t, nack, r2.lastNack)
}

func TestDispatchMcsResponseUsesPayloadDestination(t *testing.T) {
	b := NewBus()
	r1 := &fakeReceiver{id: 1}
	r2 := &fakeReceiver{id: 2}
	b.Register(r1)
	b.Register(r2)

	ev := &event.Event{NodeId: 1, Type: event.TypeMcsResponse, Data: &frame.McsResponse{To: 2, Row: mcs.Row{}}}
	b.Dispatch(ev)

	assert.Equal(t, types.NodeId(1), r2.mcsRespFrom)
}

func TestDeregisterRemovesNodeFromFanOut(t *testing.T) {
	b := NewBus()
	r1 := &fakeReceiver{id: 1}
	r2 := &fakeReceiver{id: 2}
	b.Register(r1)
	b.Register(r2)
	b.Deregister(2)

	assert.Equal(t, 1, b.Len())
	ev := &event.Event{NodeId: 1, Type: event.TypeStartTx, Data: &frame.Notification{SourceId: 1}}
	b.Dispatch(ev)
	assert.Equal(t, 0, r2.startTxCount)
}
