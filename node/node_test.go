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

package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlanax-sim/wlanax-ns/event"
	"github.com/wlanax-sim/wlanax-ns/frame"
	"github.com/wlanax-sim/wlanax-ns/mcs"
	"github.com/wlanax-sim/wlanax-ns/prng"
	"github.com/wlanax-sim/wlanax-ns/types"
)

func init() {
	prng.Init(3)
}

func testConfig(id types.NodeId) Config {
	return Config{
		Id:                 id,
		PrimaryChannel:     0,
		MinChannel:         0,
		MaxChannel:         0,
		DefaultTxPowerDbm:  20,
		DefaultPdDbm:       -82,
		CbPolicy:           types.CbOnlyPrimary,
		BackoffMode:        types.BackoffSlotted,
		BackoffPdf:         types.PdfUniform,
		CwMin:              15,
		CwMax:              1023,
		StageMax:           6,
		NumChannels:        4,
		CaptureModel:       types.CaptureDefault,
		AdjacentChRule:     types.AdjacentChannelNone,
		CaptureThresholdDb: 3,
		ConstantPer:        0,
	}
}

func TestNewNodeStartsInSensingWithZeroedPower(t *testing.T) {
	n := New(testConfig(1), event.NewQueue())
	assert.Equal(t, types.StateSensing, n.State)
	assert.Equal(t, 0.0, n.Power.At(0))
}

func TestArmBackoffDoesNothingWithEmptyBuffer(t *testing.T) {
	q := event.NewQueue()
	n := New(testConfig(1), q)
	n.ArmBackoff()
	assert.False(t, n.BoRunning)
	assert.Equal(t, 0, q.Len())
}

func TestArmBackoffSchedulesATimerWhenBufferNonEmpty(t *testing.T) {
	q := event.NewQueue()
	n := New(testConfig(1), q)
	n.Enqueue(&frame.Notification{DestId: 2})
	n.ArmBackoff()
	assert.True(t, n.BoRunning)
	assert.Equal(t, 1, q.Len())
}

func TestOnStartTxIgnoresOwnTransmission(t *testing.T) {
	q := event.NewQueue()
	n := New(testConfig(1), q)
	n.OnStartTx(&frame.Notification{SourceId: 1, LeftChannel: 0, RightChannel: 0})
	assert.Equal(t, 0.0, n.Power.At(0))
}

func TestOnStartTxAddsPowerFromPeer(t *testing.T) {
	q := event.NewQueue()
	n := New(testConfig(1), q)
	n.OnStartTx(&frame.Notification{SourceId: 2, LeftChannel: 0, RightChannel: 0, Info: frame.TxInfo{TotalTxPowerDbm: 20}})
	assert.Greater(t, n.Power.At(0), 0.0)
}

func TestOnStartTxAddressedToSelfEntersRxRtsWhenDecodable(t *testing.T) {
	q := event.NewQueue()
	n := New(testConfig(1), q)
	rts := &frame.Notification{
		SourceId: 2, DestId: 1, PacketType: types.PacketRts,
		LeftChannel: 0, RightChannel: 0,
		Info: frame.TxInfo{TotalTxPowerDbm: 40},
	}
	n.OnStartTx(rts)
	assert.Equal(t, types.StateRxRts, n.State)
	assert.Equal(t, rts, n.InFlight)
}

func TestOnFinishTxSubtractsPeerPowerAndResetsWhenIdle(t *testing.T) {
	q := event.NewQueue()
	n := New(testConfig(1), q)
	f := &frame.Notification{SourceId: 2, LeftChannel: 0, RightChannel: 0, Info: frame.TxInfo{TotalTxPowerDbm: 20}}
	n.OnStartTx(f)
	assert.Greater(t, n.Power.At(0), 0.0)
	n.OnFinishTx(f)
	assert.Equal(t, 0.0, n.Power.At(0))
}

func TestOwnFinishTxAppliesPendingNextState(t *testing.T) {
	q := event.NewQueue()
	n := New(testConfig(1), q)
	f := &frame.Notification{SourceId: 1, TxDurationUs: 10}
	n.CurrentTx = f
	n.PendingNextState = types.StateWaitCts
	n.State = types.StateTxRts
	n.OnFinishTx(f)
	assert.Equal(t, types.StateWaitCts, n.State)
	assert.Nil(t, n.CurrentTx)
}

func TestHandleTimerBackoffEndEmitsRtsAndEntersWaitCts(t *testing.T) {
	q := event.NewQueue()
	n := New(testConfig(1), q)
	n.Enqueue(&frame.Notification{DestId: 2})
	n.HandleTimer(TimerBackoffEnd)
	assert.Equal(t, types.StateTxRts, n.State)
	assert.Equal(t, types.StateWaitCts, n.PendingNextState)
	assert.NotNil(t, n.CurrentTx)
}

func drainByType(q *event.Queue, typ event.Type) []*event.Event {
	var out []*event.Event
	for {
		ev := q.Pop()
		if ev == nil {
			break
		}
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func TestHandleTimerBackoffEndSchedulesMcsRequestToDestination(t *testing.T) {
	q := event.NewQueue()
	n := New(testConfig(1), q)
	n.Enqueue(&frame.Notification{DestId: 2})
	n.HandleTimer(TimerBackoffEnd)

	reqs := drainByType(q, event.TypeMcsRequest)
	require.Len(t, reqs, 1)
	assert.Equal(t, types.NodeId(2), reqs[0].Data.(types.NodeId))
}

func TestOnMcsRequestIgnoresUnheardPeer(t *testing.T) {
	q := event.NewQueue()
	n := New(testConfig(1), q)
	n.OnMcsRequest(2)
	assert.Equal(t, 0, q.Len())
}

func TestOnMcsRequestRespondsWithNegotiatedRowForHeardPeer(t *testing.T) {
	q := event.NewQueue()
	n := New(testConfig(1), q)
	n.OnStartTx(&frame.Notification{SourceId: 2, LeftChannel: 0, RightChannel: 0, Info: frame.TxInfo{TotalTxPowerDbm: 20}})

	n.OnMcsRequest(2)

	resps := drainByType(q, event.TypeMcsResponse)
	require.Len(t, resps, 1)
	resp := resps[0].Data.(*frame.McsResponse)
	assert.Equal(t, types.NodeId(2), resp.To)
}

func TestOnMcsResponseRecordsRowForPeer(t *testing.T) {
	q := event.NewQueue()
	n := New(testConfig(1), q)
	row := mcs.NewRowFromSnr(30)
	n.OnMcsResponse(2, row)
	assert.Equal(t, row, n.McsTable[2])
}

func TestCtsTimeoutDoublesCwAndReturnsToSensing(t *testing.T) {
	q := event.NewQueue()
	n := New(testConfig(1), q)
	n.Enqueue(&frame.Notification{DestId: 2})
	n.State = types.StateWaitCts
	n.onCtsTimeout()
	assert.Equal(t, types.StateSensing, n.State)
	assert.Equal(t, 31, n.Cw)
	assert.Equal(t, uint64(1), n.Counters.CtsTimeouts)
}
