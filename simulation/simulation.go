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

// Package simulation owns the single discrete-event schedule a scenario run drives: it keeps
// the node table, the Channel-Medium bus, the event queue and the energy analyser together,
// and pumps events off the queue until a deadline (Go) or the queue runs dry (Run). Everything
// it does is orchestration; the DCF/11ax semantics themselves live in node.Node.
package simulation

import (
	"github.com/wlanax-sim/wlanax-ns/config"
	"github.com/wlanax-sim/wlanax-ns/energy"
	"github.com/wlanax-sim/wlanax-ns/event"
	"github.com/wlanax-sim/wlanax-ns/frame"
	"github.com/wlanax-sim/wlanax-ns/logger"
	"github.com/wlanax-sim/wlanax-ns/medium"
	"github.com/wlanax-sim/wlanax-ns/node"
	"github.com/wlanax-sim/wlanax-ns/phy"
	"github.com/wlanax-sim/wlanax-ns/progctx"
	"github.com/wlanax-sim/wlanax-ns/report"
	"github.com/wlanax-sim/wlanax-ns/types"
)

// Simulation is one scenario run: a system-default configuration, a live node table, the
// Channel-Medium bus fanning events out to them, the shared event queue, and the energy
// analyser tallying per-node radio dwell time as the clock advances.
type Simulation struct {
	ctx *progctx.ProgCtx
	sys config.SystemDefaults

	q      *event.Queue
	bus    *medium.Bus
	nodes  map[types.NodeId]*node.Node
	energy *energy.Analyser

	curTimeUs  uint64
	nextPktId  uint64
	bitsAcked  map[types.NodeId]uint64
}

// New creates an empty simulation from a validated set of system defaults.
func New(ctx *progctx.ProgCtx, sys config.SystemDefaults) *Simulation {
	return &Simulation{
		ctx:       ctx,
		sys:       sys,
		q:         event.NewQueue(),
		bus:       medium.NewBus(),
		nodes:     make(map[types.NodeId]*node.Node),
		energy:    energy.NewAnalyser(),
		bitsAcked: make(map[types.NodeId]uint64),
	}
}

// Now returns the simulation's current virtual time, in microseconds.
func (s *Simulation) Now() uint64 {
	return s.curTimeUs
}

// Sys returns the scenario's system defaults, for callers (the CLI's `config` command) that
// need to report them back without mutating the running simulation.
func (s *Simulation) Sys() config.SystemDefaults {
	return s.sys
}

// Nodes returns the live node table, keyed by node id.
func (s *Simulation) Nodes() map[types.NodeId]*node.Node {
	return s.nodes
}

// Node looks up one attached node by id.
func (s *Simulation) Node(id types.NodeId) (*node.Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// AddNode validates cfg against the scenario's system defaults, then attaches a freshly
// constructed node to the bus and the energy analyser. It returns the validation error
// unchanged (a fatal scenario-load abort, per section 7) rather than wrapping it again.
func (s *Simulation) AddNode(cfg config.NodeConfig) (*node.Node, error) {
	if _, exists := s.nodes[cfg.Id]; exists {
		return nil, errDuplicateNode(cfg.Id)
	}
	if err := config.ValidateNodeConfig(cfg, s.sys); err != nil {
		return nil, err
	}

	n := node.New(toNodeConfig(cfg, s.sys), s.q)
	n.NowUs = s.curTimeUs
	n.Log = logger.GetNodeLogger(0, cfg.Id, s.sys.LogToFile)
	n.Log.SetState(n.State)

	s.nodes[cfg.Id] = n
	s.bus.Register(n)
	s.energy.AddNode(int(cfg.Id), s.curTimeUs)
	return n, nil
}

// DeleteNode detaches a node from the bus and the energy analyser. Its accumulated counters
// remain reachable through the returned node for a final report if the caller kept a copy.
func (s *Simulation) DeleteNode(id types.NodeId) {
	delete(s.nodes, id)
	s.bus.Deregister(id)
	s.energy.DeleteNode(int(id))
}

// toNodeConfig maps one scenario row plus the scenario-wide defaults onto node.Config. Spatial
// Reuse is considered enabled for a node whose BSS color is non-zero: color 0 is reserved for
// "no color assigned" across the scenario formats this mirrors.
func toNodeConfig(cfg config.NodeConfig, sys config.SystemDefaults) node.Config {
	return node.Config{
		Id:                 cfg.Id,
		Role:               cfg.Role,
		Position:           cfg.Position,
		PrimaryChannel:     cfg.PrimaryChannel,
		MinChannel:         cfg.MinChannel,
		MaxChannel:         cfg.MaxChannel,
		DefaultTxPowerDbm:  cfg.DefaultTxPowerDbm,
		DefaultPdDbm:       cfg.DefaultPdDbm,
		CbPolicy:           cfg.CbPolicy,
		BackoffMode:        cfg.BackoffMode,
		BackoffPdf:         sys.BackoffPdf,
		CwMin:              sys.CwMin,
		CwMax:              sys.CwMax,
		StageMax:           sys.StageMax,
		NumChannels:        sys.NumChannels,
		PathLossModel:      sys.PathLossModel,
		CaptureModel:       sys.CaptureModel,
		AdjacentChRule:     sys.AdjacentChannelRule,
		CaptureThresholdDb: sys.CaptureThresholdDb,
		ConstantPer:        sys.ConstantPer,
		BssColor:           cfg.BssColor,
		Srg:                cfg.Srg,
		SrgObssPd:          cfg.SrgObssPd,
		NonSrgObssPd:       cfg.NonSrgObssPd,
		SpatialReuseOn:     cfg.BssColor != 0,
	}
}

// NewPacketGenerated is the traffic generator's signal interface (section 1, "external
// collaborators"): whatever external component decides when and how much traffic to offer —
// Poisson, deterministic, or bursty — calls this to hand one frame to sourceId's transmit
// FIFO. It returns false if sourceId is unknown or its FIFO is full.
func (s *Simulation) NewPacketGenerated(sourceId, destId types.NodeId, frameLengthBits int) bool {
	n, ok := s.nodes[sourceId]
	if !ok {
		return false
	}
	s.nextPktId++
	notif := &frame.Notification{
		PacketId:        s.nextPktId,
		PacketType:      types.PacketRts,
		SourceId:        sourceId,
		DestId:          destId,
		FrameLengthBits: frameLengthBits,
		Info: frame.TxInfo{
			AggregationCount: 1,
			TotalTxPowerDbm:  n.Cfg.DefaultTxPowerDbm,
			Position:         n.Cfg.Position,
			BssColor:         n.Cfg.BssColor,
			Srg:              n.Cfg.Srg,
		},
	}
	if !n.Enqueue(notif) {
		return false
	}
	n.ArmBackoff()
	return true
}

// Go advances the simulation by durationUs, processing every event up to (and not beyond) the
// new deadline. It mirrors the teacher's goUntilPauseTime: pop-and-dispatch until the next
// event would cross the deadline, then fast-forward the clock to the deadline itself.
func (s *Simulation) Go(durationUs uint64) {
	deadline := s.curTimeUs + durationUs
	for {
		ev := s.q.Peek()
		if ev == nil || ev.Timestamp > deadline {
			s.curTimeUs = deadline
			return
		}
		s.q.Pop()
		s.dispatch(ev)
	}
}

// Run drains the event queue to exhaustion or until the simulation's context is cancelled,
// for scenarios that schedule no further work past their last generated packet.
func (s *Simulation) Run() {
	s.ctx.WaitAdd("simulation", 1)
	defer s.ctx.WaitDone("simulation")
	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}
		ev := s.q.Pop()
		if ev == nil {
			return
		}
		s.dispatch(ev)
	}
}

// dispatch advances the clock to ev's timestamp, delivers it to the node table, and updates
// the energy analyser and per-node loggers from whatever state the delivery left behind.
func (s *Simulation) dispatch(ev *event.Event) {
	s.curTimeUs = ev.Timestamp
	for _, n := range s.nodes {
		n.NowUs = ev.Timestamp
	}

	switch ev.Type {
	case event.TypeTimerFired:
		if n, ok := s.nodes[types.NodeId(ev.NodeId)]; ok {
			name, _ := ev.Data.(string)
			n.HandleTimer(name)
		}
	default:
		s.bus.Dispatch(ev)
	}

	if ev.Type == event.TypeFinishTx {
		s.recordAirtime(ev)
		s.recordAckedBits(ev)
	}

	for id, n := range s.nodes {
		if ne := s.energy.GetNode(int(id)); ne != nil {
			ne.SetState(n.State, ev.Timestamp)
		}
		n.Log.SetState(n.State)
	}
}

// recordAirtime charges the transmitting node's occupied channel range for the frame's
// duration, per the section 6 "airtime by channel/width" output.
func (s *Simulation) recordAirtime(ev *event.Event) {
	f, ok := ev.Data.(*frame.Notification)
	if !ok {
		return
	}
	if _, ok := s.nodes[f.SourceId]; !ok {
		return
	}
	ne := s.energy.GetNode(int(f.SourceId))
	if ne == nil {
		return
	}
	width := f.Width()
	for ch := f.LeftChannel; ch <= f.RightChannel; ch++ {
		ne.RecordAirtime(ch, width, uint64(f.TxDurationUs))
	}
}

// recordAckedBits tallies FrameLengthBits against the original DATA sender whenever an ACK
// finishes, feeding the report's network-throughput figure.
func (s *Simulation) recordAckedBits(ev *event.Event) {
	f, ok := ev.Data.(*frame.Notification)
	if !ok || f.PacketType != types.PacketAck {
		return
	}
	// The ACK notification carries no payload size of its own; the nominal MPDU size stands
	// in for the acknowledged DATA frame's length.
	s.bitsAcked[f.DestId] += uint64(phy.DataPayloadBits)
}

// Stop finalizes the run and builds the section 6 end-of-run summary.
func (s *Simulation) Stop() *report.Summary {
	var totalBits uint64
	for _, b := range s.bitsAcked {
		totalBits += b
	}
	return report.Build(s.nodes, s.energy, s.curTimeUs, totalBits)
}
