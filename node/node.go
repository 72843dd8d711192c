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

// Package node implements the per-device DCF/11ax controller: the state machine that senses
// the channel-power vector, runs backoff and the RTS/CTS/DATA/ACK handshake, resolves
// reception outcomes through the capture-effect judge, and optionally overlays Spatial Reuse.
package node

import (
	"math"

	"github.com/wlanax-sim/wlanax-ns/backoff"
	"github.com/wlanax-sim/wlanax-ns/bonding"
	"github.com/wlanax-sim/wlanax-ns/capture"
	"github.com/wlanax-sim/wlanax-ns/channelpower"
	"github.com/wlanax-sim/wlanax-ns/event"
	"github.com/wlanax-sim/wlanax-ns/frame"
	"github.com/wlanax-sim/wlanax-ns/logger"
	"github.com/wlanax-sim/wlanax-ns/mcs"
	"github.com/wlanax-sim/wlanax-ns/phy"
	"github.com/wlanax-sim/wlanax-ns/propagation"
	"github.com/wlanax-sim/wlanax-ns/spatialreuse"
	"github.com/wlanax-sim/wlanax-ns/types"
)

// PacketBufferSize bounds the per-node transmit FIFO.
const PacketBufferSize = 64

// SimultaneityEpsilonUs is the window within which two events are treated as simultaneous.
const SimultaneityEpsilonUs = 0.001

// Timer names used with the node's single-slot timer table.
const (
	TimerCtsTimeout   = "cts_timeout"
	TimerAckTimeout   = "ack_timeout"
	TimerNav          = "nav"
	TimerInterBssNav  = "inter_bss_nav"
	TimerGuard        = "guard"
	TimerBackoffEnd   = "backoff_end"
)

// Config bundles a node's static configuration, taken from the nodes-file row of the scenario.
type Config struct {
	Id              types.NodeId
	Role            types.Role
	Position        types.Position
	PrimaryChannel  types.ChannelId
	MinChannel      types.ChannelId
	MaxChannel      types.ChannelId
	DefaultTxPowerDbm float64
	DefaultPdDbm      float64
	CbPolicy          types.CbPolicy
	BackoffMode       types.BackoffMode
	BackoffPdf        types.BackoffPdf
	CwMin             int
	CwMax             int
	StageMax          int
	NumChannels       int
	PathLossModel     types.PathLossModel
	CaptureModel      types.CaptureEffectModel
	AdjacentChRule    types.AdjacentChannelRule
	CaptureThresholdDb float64
	ConstantPer        float64
	BssColor           int
	Srg                int
	SrgObssPd          float64
	NonSrgObssPd       float64
	SpatialReuseOn     bool
}

// Queue is the subset of event.Queue the node needs, to keep the package's dependency on the
// simulation's scheduler narrow and mockable.
type Queue interface {
	Schedule(timestamp uint64, nodeId int, typ event.Type, data interface{}) *event.Event
	Remove(e *event.Event)
	Reschedule(e *event.Event, timestamp uint64)
}

// Node is one device's DCF/11ax controller. It never calls out to the bus directly: it
// schedules StartTX/FinishTX on the shared Queue, and the simulation's dispatcher fans them
// out via medium.Bus.Dispatch.
type Node struct {
	Cfg    Config
	Queue  Queue
	Log    *logger.NodeLogger

	State types.NodeState

	Power          *channelpower.Vector
	PeerPower      *channelpower.PeerPowerMap
	CurrentPdDbm   float64

	Cw        int
	Stage     int
	BoRunning bool
	BoLeftUs  float64
	BoTimer   *event.Event

	TxBuffer  []*frame.Notification
	InFlight  *frame.Notification
	CurrentTx *frame.Notification

	McsTable map[types.NodeId]mcs.Row

	// LastRssiDbm records, per peer, the attenuated RX power last observed from that peer's
	// own transmissions; it is the RSSI an MCS-Request from that peer is answered with.
	LastRssiDbm map[types.NodeId]float64

	SR *spatialreuse.Overlay

	Timers map[string]*event.Event

	NowUs uint64

	// PendingNextState is the state CurrentTx's own FinishTX transitions into once it fires;
	// onOwnFinishTx applies it when the bus delivers this node's own FinishTX back to it.
	PendingNextState types.NodeState

	Counters Counters

	// HiddenPeers records, per peer node id, that a frame from that peer was lost here to
	// interference or a BO collision (spec section 8). Every such loss counts; no check is
	// made that a third node's frame was decodable at the same time.
	HiddenPeers map[types.NodeId]struct{}

	// AccessDelayUsTotal/AccessDelaySamples and BackoffUsTotal/BackoffSamples accumulate the
	// report summary's average-access-delay and average-backoff figures.
	AccessDelayUsTotal uint64
	AccessDelaySamples uint64
	BackoffUsTotal     float64
	BackoffSamples     uint64

	// NavUsTotal accumulates every NAV interval this node has deferred for.
	NavUsTotal uint64
}

// Counters tallies the per-node outcomes a report summarizes at end of run.
type Counters struct {
	Sent, Acked, Lost                               uint64
	RtsLostSlottedBo, CtsTimeouts, AckTimeouts, NavTimeouts uint64
	SrTxopsOpened                                    uint64
}

// NoteHiddenNode records peer as a hidden node relative to this receiver.
func (n *Node) NoteHiddenNode(peer types.NodeId) {
	if n.HiddenPeers == nil {
		n.HiddenPeers = make(map[types.NodeId]struct{})
	}
	n.HiddenPeers[peer] = struct{}{}
}

// HiddenNodeCount returns how many distinct peers have been observed as hidden nodes.
func (n *Node) HiddenNodeCount() int {
	return len(n.HiddenPeers)
}

// New creates a node in the Sensing state with an empty channel-power vector.
func New(cfg Config, q Queue) *Node {
	n := &Node{
		Cfg:          cfg,
		Queue:        q,
		State:        types.StateSensing,
		Power:        channelpower.NewVector(cfg.NumChannels),
		PeerPower:    channelpower.NewPeerPowerMap(),
		CurrentPdDbm: cfg.DefaultPdDbm,
		Cw:           cfg.CwMin,
		McsTable:     make(map[types.NodeId]mcs.Row),
		LastRssiDbm:  make(map[types.NodeId]float64),
		Timers:       make(map[string]*event.Event),
	}
	if cfg.SpatialReuseOn {
		n.SR = spatialreuse.NewOverlay(cfg.BssColor, cfg.Srg, spatialreuse.Thresholds{
			DefaultPdDbm: cfg.DefaultPdDbm,
			NonSrgObssPd: cfg.NonSrgObssPd,
			SrgObssPd:    cfg.SrgObssPd,
		})
		n.CurrentPdDbm = n.SR.CurrentPdDbm
	}
	return n
}

// Id implements medium.Receiver.
func (n *Node) Id() types.NodeId {
	return n.Cfg.Id
}

// Enqueue adds an outbound packet to the transmit FIFO, dropping it if the buffer is full.
func (n *Node) Enqueue(notif *frame.Notification) bool {
	if len(n.TxBuffer) >= PacketBufferSize {
		return false
	}
	notif.QueuedAtUs = n.NowUs
	n.TxBuffer = append(n.TxBuffer, notif)
	return true
}

// ArmBackoff draws a fresh backoff quantum and starts it running, if the node is not already
// mid-handshake and the channel is currently idle.
func (n *Node) ArmBackoff() {
	if n.State != types.StateSensing || len(n.TxBuffer) == 0 {
		return
	}
	q := backoff.Draw(n.Cfg.BackoffMode, n.Cfg.BackoffPdf, n.Cw)
	n.BoLeftUs = q
	n.BoRunning = true
	n.BackoffUsTotal += q
	n.BackoffSamples++
	n.scheduleBackoffEnd()
}

func (n *Node) scheduleBackoffEnd() {
	if old, ok := n.Timers[TimerBackoffEnd]; ok {
		n.Queue.Remove(old)
	}
	ev := n.Queue.Schedule(n.NowUs+uint64(n.BoLeftUs), int(n.Cfg.Id), event.TypeTimerFired, TimerBackoffEnd)
	n.Timers[TimerBackoffEnd] = ev
}

// freezeBackoff pauses the running backoff timer and records the remaining time.
func (n *Node) freezeBackoff(nowUs uint64) {
	if !n.BoRunning {
		return
	}
	if ev, ok := n.Timers[TimerBackoffEnd]; ok {
		if ev.Timestamp > nowUs {
			n.BoLeftUs = float64(ev.Timestamp - nowUs)
		} else {
			n.BoLeftUs = 0
		}
		n.Queue.Remove(ev)
		delete(n.Timers, TimerBackoffEnd)
	}
	n.BoRunning = false
}

// resumeBackoff restarts the backoff after a DIFS (or EIFS) gap, re-quantizing in slotted mode.
func (n *Node) resumeBackoff(gapUs float64) {
	if n.State != types.StateSensing || len(n.TxBuffer) == 0 {
		return
	}
	n.BoLeftUs = backoff.Requantize(n.Cfg.BackoffMode, n.BoLeftUs)
	n.BoRunning = true
	ev := n.Queue.Schedule(n.NowUs+uint64(gapUs+n.BoLeftUs), int(n.Cfg.Id), event.TypeTimerFired, TimerBackoffEnd)
	n.Timers[TimerBackoffEnd] = ev
}

// estimatedHandshakeTailUs returns the SIFS+DATA+SIFS+ACK airtime remaining after f, used to
// fill in the NAV duration field f's sender advertises. The destination's negotiated MCS is
// used when known; otherwise the conservative Bpsk12 floor is assumed.
func (n *Node) estimatedHandshakeTailUs(f *frame.Notification, width types.Bandwidth) float64 {
	idx := mcs.Bpsk12
	if row, ok := n.McsTable[f.DestId]; ok {
		idx = row.ApplySpatialReuseSubstitution().ByWidth[width]
	}
	dataDurationUs := phy.DataDurationUs(idx, width, 1)
	return backoff.SifsUs + dataDurationUs + backoff.SifsUs + phy.AckDurationUs()
}

// isPrimaryBusy reports whether the sensed power on the primary channel is at or above the
// effective PD threshold currently in force. The vector holds picowatts; 1 pW is -90 dBm.
func (n *Node) isPrimaryBusy() bool {
	return 10*math.Log10(n.Power.At(n.Cfg.PrimaryChannel))-90 >= n.CurrentPdDbm
}

// OnStartTx handles a StartTX broadcast from the bus. The bus delivers this to every node,
// including the sender; the sender short-circuits its own delivery here.
func (n *Node) OnStartTx(f *frame.Notification) {
	if f.SourceId == n.Cfg.Id {
		return
	}
	contrib := channelpower.Contribution(n.Cfg.AdjacentChRule, channelRange(f), n.rxPerChannelDbm(f), n.Cfg.NumChannels)
	for ch, p := range contrib {
		n.Power.Add(types.ChannelId(ch), p)
	}
	n.LastRssiDbm[f.SourceId] = n.rxPerChannelDbm(f)

	if n.State == types.StateSleep {
		return
	}

	if n.SR != nil {
		rssi := 10*math.Log10(n.Power.At(n.Cfg.PrimaryChannel)) - 90
		n.SR.Observe(f, rssi, n.Cfg.DefaultTxPowerDbm, n.NowUs)
		n.CurrentPdDbm = n.SR.CurrentPdDbm
	}

	switch n.State {
	case types.StateSensing:
		n.onStartTxWhileSensing(f)
	case types.StateRxData, types.StateRxRts:
		n.onStartTxWhileReceiving(f)
	case types.StateWaitCts:
		n.onStartTxWhileWaitingForCts(f)
	case types.StateWaitData:
		n.onStartTxWhileWaitingForData(f)
	case types.StateWaitAck:
		n.onStartTxWhileWaitingForAck(f)
	}
}

// decodable judges whether f can be received here, tallying the loss (and, for interference
// or a BO collision, the hidden-node bookkeeping named in section 8) when it cannot.
func (n *Node) decodable(f *frame.Notification) bool {
	rssi := n.Power.At(n.Cfg.PrimaryChannel)
	res := capture.Judge(capture.Input{
		Model:                    n.Cfg.CaptureModel,
		PrimaryChannel:           n.Cfg.PrimaryChannel,
		NewFrame:                 f,
		RssiDbm:                  rssi,
		PdThresholdDbm:           n.CurrentPdDbm,
		NoisePlusInterferenceDbm: rssi,
		CaptureThresholdDb:       n.Cfg.CaptureThresholdDb,
		ConstantPer:              n.Cfg.ConstantPer,
		SimultaneityEpsilonUs:    SimultaneityEpsilonUs,
	})
	if res.Reason != types.LossNone {
		n.nack(f, res.Reason)
		return false
	}
	return true
}

// onStartTxWhileWaitingForCts handles a CTS arriving in reply to this node's own RTS.
func (n *Node) onStartTxWhileWaitingForCts(f *frame.Notification) {
	if f.DestId != n.Cfg.Id || f.PacketType != types.PacketCts {
		return
	}
	if !n.decodable(f) {
		return
	}
	if ev, ok := n.Timers[TimerCtsTimeout]; ok {
		n.Queue.Remove(ev)
		delete(n.Timers, TimerCtsTimeout)
	}
	data := n.TxBuffer[0]
	data.LeftChannel, data.RightChannel = f.LeftChannel, f.RightChannel
	row, negotiated := n.McsTable[data.DestId]
	idx := mcs.Bpsk12
	if negotiated {
		idx = row.ApplySpatialReuseSubstitution().ByWidth[types.Bandwidth(data.Width())]
	}
	data.Mcs = idx
	data.PacketType = types.PacketData
	data.TxDurationUs = phy.DataDurationUs(idx, types.Bandwidth(data.Width()), data.Info.AggregationCount)
	data.Info.NavDurationUs = backoff.SifsUs + phy.AckDurationUs()
	n.State = types.StateTxData
	n.CurrentTx = data
	n.scheduleTx(backoff.SifsUs, data, types.StateWaitAck)
	n.Timers[TimerAckTimeout] = n.Queue.Schedule(
		data.SendTimestamp+uint64(data.TxDurationUs)+uint64(backoff.SifsUs+phy.AckDurationUs()),
		int(n.Cfg.Id), event.TypeTimerFired, TimerAckTimeout)
}

// onStartTxWhileWaitingForData handles DATA arriving at an AP that has just sent CTS.
func (n *Node) onStartTxWhileWaitingForData(f *frame.Notification) {
	if f.DestId != n.Cfg.Id || f.PacketType != types.PacketData {
		return
	}
	if !n.decodable(f) {
		return
	}
	n.InFlight = f
	n.State = types.StateRxData
}

// onStartTxWhileWaitingForAck handles an ACK arriving in reply to this node's own DATA.
func (n *Node) onStartTxWhileWaitingForAck(f *frame.Notification) {
	if f.DestId != n.Cfg.Id || f.PacketType != types.PacketAck {
		return
	}
	if !n.decodable(f) {
		return
	}
	if ev, ok := n.Timers[TimerAckTimeout]; ok {
		n.Queue.Remove(ev)
		delete(n.Timers, TimerAckTimeout)
	}
	r := backoff.OnSuccess(n.Cfg.CwMin)
	n.Cw, n.Stage = r.Cw, r.Stage
	n.Counters.Sent++
	if len(n.TxBuffer) > 0 {
		head := n.TxBuffer[0]
		n.AccessDelayUsTotal += n.NowUs - head.QueuedAtUs
		n.AccessDelaySamples++
		n.TxBuffer = n.TxBuffer[1:]
	}
	n.State = types.StateSensing
	n.ArmBackoff()
}

func (n *Node) onStartTxWhileSensing(f *frame.Notification) {
	rssi := n.Power.At(n.Cfg.PrimaryChannel)
	res := capture.Judge(capture.Input{
		Model:                    n.Cfg.CaptureModel,
		PrimaryChannel:           n.Cfg.PrimaryChannel,
		NewFrame:                 f,
		RssiDbm:                  rssi,
		PdThresholdDbm:           n.CurrentPdDbm,
		NoisePlusInterferenceDbm: n.Power.At(n.Cfg.PrimaryChannel),
		CaptureThresholdDb:       n.Cfg.CaptureThresholdDb,
		ConstantPer:              n.Cfg.ConstantPer,
		SimultaneityEpsilonUs:    SimultaneityEpsilonUs,
	})

	if f.DestId == n.Cfg.Id && f.PacketType == types.PacketRts {
		if res.Reason == types.LossNone {
			n.freezeBackoff(n.NowUs)
			n.InFlight = f
			n.State = types.StateRxRts
		}
		return
	}

	if res.Reason == types.LossNone && f.Info.NavDurationUs > 0 {
		n.armNav(f)
		return
	}

	if n.isPrimaryBusy() {
		n.freezeBackoff(n.NowUs)
	}
}

func (n *Node) onStartTxWhileReceiving(f *frame.Notification) {
	if n.InFlight == nil {
		return
	}
	rssi := n.Power.At(n.Cfg.PrimaryChannel)
	inFlightRssi := n.Power.At(n.Cfg.PrimaryChannel) // approximation: same in-band vector
	res := capture.Judge(capture.Input{
		Model:                    n.Cfg.CaptureModel,
		PrimaryChannel:           n.Cfg.PrimaryChannel,
		NewFrame:                 f,
		InFlight:                 n.InFlight,
		RssiDbm:                  rssi,
		InFlightRssiDbm:          inFlightRssi,
		PdThresholdDbm:           n.CurrentPdDbm,
		NoisePlusInterferenceDbm: rssi,
		CaptureThresholdDb:       n.Cfg.CaptureThresholdDb,
		ConstantPer:              n.Cfg.ConstantPer,
		SimultaneityEpsilonUs:    SimultaneityEpsilonUs,
	})
	if res.PreemptInFlight {
		n.nack(n.InFlight, types.LossCaptureEffect)
		n.InFlight = f
	}
}

// armNav transitions into Nav for the advertised duration, registering a separate inter-BSS
// timer when Spatial Reuse classifies the frame as inter-BSS.
func (n *Node) armNav(f *frame.Notification) {
	n.freezeBackoff(n.NowUs)
	n.State = types.StateNav
	n.NavUsTotal += uint64(f.Info.NavDurationUs)
	deadline := n.NowUs + uint64(f.Info.NavDurationUs)
	n.Timers[TimerNav] = n.Queue.Schedule(deadline, int(n.Cfg.Id), event.TypeTimerFired, TimerNav)

	if n.SR != nil && spatialreuse.ClassifyFrame(n.Cfg.BssColor, n.Cfg.Srg, f) != spatialreuse.ClassIntraBss {
		n.Timers[TimerInterBssNav] = n.Queue.Schedule(deadline, int(n.Cfg.Id), event.TypeTimerFired, TimerInterBssNav)
	}
}

// OnFinishTx handles a FinishTX broadcast from the bus. The bus delivers this to every node,
// including the sender: the sender uses its own delivery to drive the post-transmission state
// transition queued by scheduleTx, instead of sensing its own power.
func (n *Node) OnFinishTx(f *frame.Notification) {
	if f.SourceId == n.Cfg.Id {
		n.onOwnFinishTx(f)
		return
	}

	contrib := channelpower.Contribution(n.Cfg.AdjacentChRule, channelRange(f), n.rxPerChannelDbm(f), n.Cfg.NumChannels)
	for ch, p := range contrib {
		n.Power.Subtract(types.ChannelId(ch), p)
	}
	if !n.Power.AnyPositive() {
		n.Power.ResetToZero()
	}

	switch n.State {
	case types.StateRxRts:
		if n.InFlight == f {
			n.transitionToTxCts(f)
		}
	case types.StateRxData:
		if n.InFlight == f {
			n.transitionToTxAck(f)
		}
	}
}

func (n *Node) onOwnFinishTx(f *frame.Notification) {
	if n.CurrentTx != f {
		return
	}
	n.State = n.PendingNextState
	n.CurrentTx = nil
	if n.State == types.StateSensing {
		n.ArmBackoff()
	}
}

func (n *Node) transitionToTxCts(rts *frame.Notification) {
	clear := make([]bool, n.Cfg.NumChannels)
	for i := range clear {
		clear[i] = 10*math.Log10(n.Power.At(types.ChannelId(i)))-90 < n.CurrentPdDbm
	}
	sel := bonding.Select(n.Cfg.CbPolicy, n.Cfg.PrimaryChannel, rts.LeftChannel, rts.RightChannel, clear)
	if !sel.Possible {
		n.State = types.StateSensing
		n.InFlight = nil
		n.armGuard()
		return
	}
	cts := &frame.Notification{
		PacketType:   types.PacketCts,
		SourceId:     n.Cfg.Id,
		DestId:       rts.SourceId,
		LeftChannel:  sel.Left,
		RightChannel: sel.Right,
		TxDurationUs: phy.CtsDurationUs(),
	}
	cts.Info.NavDurationUs = n.estimatedHandshakeTailUs(
		&frame.Notification{DestId: rts.SourceId}, types.Bandwidth(cts.Width()))
	cts.Info.TotalTxPowerDbm = n.Cfg.DefaultTxPowerDbm
	n.State = types.StateTxCts
	n.CurrentTx = cts
	n.scheduleTx(backoff.SifsUs, cts, types.StateWaitData)
}

func (n *Node) transitionToTxAck(data *frame.Notification) {
	ack := &frame.Notification{
		PacketType:   types.PacketAck,
		SourceId:     n.Cfg.Id,
		DestId:       data.SourceId,
		LeftChannel:  data.LeftChannel,
		RightChannel: data.RightChannel,
		TxDurationUs: phy.AckDurationUs(),
	}
	ack.Info.TotalTxPowerDbm = n.Cfg.DefaultTxPowerDbm
	n.Counters.Acked++
	n.State = types.StateTxAck
	n.CurrentTx = ack
	n.scheduleTx(backoff.SifsUs, ack, types.StateSensing)
}

// scheduleTx schedules the StartTX and FinishTX events for frame f, delayUs from now and
// TxDurationUs apart, and records nextState as the state entered when that FinishTX is
// delivered back to this node.
func (n *Node) scheduleTx(delayUs float64, f *frame.Notification, nextState types.NodeState) {
	f.SendTimestamp = n.NowUs + uint64(delayUs)
	f.GenTimestamp = n.NowUs
	n.Queue.Schedule(f.SendTimestamp, int(n.Cfg.Id), event.TypeStartTx, f)
	n.Queue.Schedule(f.SendTimestamp+uint64(f.TxDurationUs), int(n.Cfg.Id), event.TypeFinishTx, f)
	n.PendingNextState = nextState
}

func (n *Node) nack(f *frame.Notification, reason types.LossReason) {
	n.Counters.Lost++
	if reason == types.LossInterference || reason == types.LossBoCollision {
		n.NoteHiddenNode(f.SourceId)
	}
	n.Queue.Schedule(n.NowUs, int(n.Cfg.Id), event.TypeLogicalNack, &frame.LogicalNack{
		SourceId: n.Cfg.Id,
		PacketId: f.PacketId,
		Reason:   reason,
		NodeA:    f.SourceId,
		NodeB:    types.InvalidNodeId,
	})
}

func (n *Node) armGuard() {
	n.Queue.Schedule(n.NowUs+1, int(n.Cfg.Id), event.TypeTimerFired, TimerGuard)
}

// OnLogicalNack handles an out-of-band loss notification addressed to this node.
func (n *Node) OnLogicalNack(nack *frame.LogicalNack) {
	switch nack.Reason {
	case types.LossCtsTimeout:
		n.Counters.CtsTimeouts++
	case types.LossAckTimeout:
		n.Counters.AckTimeouts++
	case types.LossNavTimeout:
		n.Counters.NavTimeouts++
	}
}

// OnMcsRequest answers an MCS negotiation probe by mapping the RSSI last observed from the
// requester onto the SNR-to-MCS table, one index per supported channel width. A requester
// this node has not yet heard from is silently ignored; it will retry once its own RTS or
// next probe is actually heard here.
func (n *Node) OnMcsRequest(from types.NodeId) {
	rssi, ok := n.LastRssiDbm[from]
	if !ok {
		return
	}
	row := mcs.NewRowFromSnr(rssi)
	if n.SR != nil {
		row = row.ApplySpatialReuseSubstitution()
	}
	n.Queue.Schedule(n.NowUs, int(n.Cfg.Id), event.TypeMcsResponse, &frame.McsResponse{To: from, Row: row})
}

// OnMcsResponse records a peer's negotiated MCS row for use as the destination MCS on future
// transmissions to that peer.
func (n *Node) OnMcsResponse(from types.NodeId, row mcs.Row) {
	n.McsTable[from] = row
}

// OnConfigChange applies a Config payload's primary channel, default PD, default TX power, max
// channel and CB policy as soon as it arrives, in whatever state the node is in; it does not
// wait for the next return to Sensing or Nav. Payloads of any other type are ignored.
func (n *Node) OnConfigChange(payload interface{}) {
	cfg, ok := payload.(Config)
	if !ok {
		return
	}
	n.Cfg.PrimaryChannel = cfg.PrimaryChannel
	n.Cfg.DefaultPdDbm = cfg.DefaultPdDbm
	n.Cfg.DefaultTxPowerDbm = cfg.DefaultTxPowerDbm
	n.Cfg.MaxChannel = cfg.MaxChannel
	n.Cfg.CbPolicy = cfg.CbPolicy
}

// HandleTimer processes one of this node's own timer-fired events.
func (n *Node) HandleTimer(name string) {
	delete(n.Timers, name)
	switch name {
	case TimerBackoffEnd:
		n.onBackoffEnd()
	case TimerNav, TimerInterBssNav:
		if n.State == types.StateNav {
			n.State = types.StateSensing
			n.ArmBackoff()
		}
	case TimerCtsTimeout:
		n.onCtsTimeout()
	case TimerAckTimeout:
		n.onAckTimeout()
	case TimerGuard:
		n.ArmBackoff()
	}
}

func (n *Node) onBackoffEnd() {
	if n.State != types.StateSensing || len(n.TxBuffer) == 0 {
		return
	}
	clear := make([]bool, n.Cfg.NumChannels)
	for i := range clear {
		clear[i] = 10*math.Log10(n.Power.At(types.ChannelId(i)))-90 < n.CurrentPdDbm
	}
	sel := bonding.Select(n.Cfg.CbPolicy, n.Cfg.PrimaryChannel, n.Cfg.MinChannel, n.Cfg.MaxChannel, clear)
	if !sel.Possible {
		n.ArmBackoff()
		return
	}
	next := n.TxBuffer[0]
	if next.DestId != types.InvalidNodeId {
		n.Queue.Schedule(n.NowUs, int(n.Cfg.Id), event.TypeMcsRequest, next.DestId)
	}
	next.LeftChannel, next.RightChannel = sel.Left, sel.Right
	next.TxDurationUs = phy.RtsDurationUs()
	next.Info.NavDurationUs = n.estimatedHandshakeTailUs(next, types.Bandwidth(next.Width())) +
		backoff.SifsUs + phy.CtsDurationUs()
	n.State = types.StateTxRts
	n.CurrentTx = next
	n.scheduleTx(0, next, types.StateWaitCts)
	n.Timers[TimerCtsTimeout] = n.Queue.Schedule(
		next.SendTimestamp+uint64(next.TxDurationUs)+uint64(backoff.SifsUs+phy.CtsDurationUs()),
		int(n.Cfg.Id), event.TypeTimerFired, TimerCtsTimeout)
}

func (n *Node) onCtsTimeout() {
	r := backoff.OnFailure(n.Cw, n.Cfg.CwMin, n.Cfg.CwMax, n.Stage, n.Cfg.StageMax)
	n.Cw, n.Stage = r.Cw, r.Stage
	n.Counters.CtsTimeouts++
	n.State = types.StateSensing
	n.resumeBackoff(backoff.EifsUs)
}

func (n *Node) onAckTimeout() {
	r := backoff.OnFailure(n.Cw, n.Cfg.CwMin, n.Cfg.CwMax, n.Stage, n.Cfg.StageMax)
	n.Cw, n.Stage = r.Cw, r.Stage
	n.Counters.AckTimeouts++
	n.State = types.StateSensing
	n.resumeBackoff(backoff.DifsUs)
}

func channelRange(f *frame.Notification) []types.ChannelId {
	out := make([]types.ChannelId, 0, f.Width())
	for c := f.LeftChannel; c <= f.RightChannel; c++ {
		out = append(out, c)
	}
	return out
}

// perChannelTxPowerDbm derives the per-subchannel TX power to feed the leakage model from a
// Notification's total TX power, splitting it evenly (in dB) across the occupied subchannels.
func perChannelTxPowerDbm(f *frame.Notification) float64 {
	width := f.Width()
	if width <= 1 {
		return f.Info.TotalTxPowerDbm
	}
	return f.Info.TotalTxPowerDbm - 10*math.Log10(float64(width))
}

// rxPerChannelDbm attenuates f's per-subchannel TX power by the path loss between the
// sender's position (carried in f.Info.Position) and this node's own position, under the
// scenario's configured path-loss model.
func (n *Node) rxPerChannelDbm(f *frame.Notification) float64 {
	txDbm := perChannelTxPowerDbm(f)
	dist := n.Cfg.Position.DistanceTo(f.Info.Position)
	lossDb := propagation.LossDb(dist, propagation.Params{Model: n.Cfg.PathLossModel})
	return txDbm - lossDb
}
