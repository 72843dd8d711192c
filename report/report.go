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

// Package report builds the end-of-run summary block named in the external-interfaces
// section: throughput, sent/ACKed/lost counts, per-STA breakdowns, airtime per channel and
// per width, NAV time, average access delay, average backoff, and hidden-node counters. The
// per-event textual log itself is written throughout the run by logger.NodeLogger; this
// package only covers the Stop-time summary.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/wlanax-sim/wlanax-ns/energy"
	"github.com/wlanax-sim/wlanax-ns/node"
	"github.com/wlanax-sim/wlanax-ns/types"
)

// StaSummary is one node's contribution to the end-of-run summary.
type StaSummary struct {
	NodeId            types.NodeId
	Sent              uint64
	Acked              uint64
	Lost               uint64
	CtsTimeouts        uint64
	AckTimeouts        uint64
	NavTimeouts        uint64
	SrTxopsOpened      uint64
	HiddenNodeCount    int
	NavUs              uint64
	AvgAccessDelayUs   float64
	AvgBackoffUs       float64
	AirtimeByChannelWidth map[energy.ChannelWidthKey]uint64
}

// Summary is the full end-of-run report, covering every attached node plus network totals.
type Summary struct {
	DurationUs    uint64
	Stations      []StaSummary
	ThroughputBps float64 // network-wide: (acked * avg frame bits) / duration, approximated from byte counters upstream
}

// Build assembles a Summary from the live node table and the energy analyser that tracked
// per-node airtime over the run. frameBitsAcked is the caller-supplied total bits successfully
// delivered across all nodes, used only for the network throughput figure — the per-node
// counters here only tally frame counts, not payload sizes, per the Node.Counters contract.
func Build(nodes map[types.NodeId]*node.Node, analyser *energy.Analyser, durationUs uint64, frameBitsAcked uint64) *Summary {
	s := &Summary{DurationUs: durationUs}

	ids := make([]types.NodeId, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		n := nodes[id]
		sta := StaSummary{
			NodeId:          id,
			Sent:            n.Counters.Sent,
			Acked:           n.Counters.Acked,
			Lost:            n.Counters.Lost,
			CtsTimeouts:     n.Counters.CtsTimeouts,
			AckTimeouts:     n.Counters.AckTimeouts,
			NavTimeouts:     n.Counters.NavTimeouts,
			SrTxopsOpened:   n.Counters.SrTxopsOpened,
			HiddenNodeCount: n.HiddenNodeCount(),
			NavUs:           n.NavUsTotal,
		}
		if n.AccessDelaySamples > 0 {
			sta.AvgAccessDelayUs = float64(n.AccessDelayUsTotal) / float64(n.AccessDelaySamples)
		}
		if n.BackoffSamples > 0 {
			sta.AvgBackoffUs = n.BackoffUsTotal / float64(n.BackoffSamples)
		}
		if ne := analyser.GetNode(int(id)); ne != nil {
			sta.AirtimeByChannelWidth = collectAirtime(ne)
		}
		s.Stations = append(s.Stations, sta)
	}

	if durationUs > 0 {
		s.ThroughputBps = float64(frameBitsAcked) / (float64(durationUs) / 1e6)
	}
	return s
}

// collectAirtime pulls the (channel,width) airtime buckets out of a NodeEnergy over the range
// of channels/widths this system supports (0..63 channels, 1/2/4/8-subchannel widths), skipping
// empty buckets.
func collectAirtime(ne *energy.NodeEnergy) map[energy.ChannelWidthKey]uint64 {
	out := make(map[energy.ChannelWidthKey]uint64)
	for ch := types.ChannelId(0); ch < 64; ch++ {
		for _, w := range []int{1, 2, 4, 8} {
			if us := ne.Airtime(ch, w); us > 0 {
				out[energy.ChannelWidthKey{Channel: ch, Width: w}] = us
			}
		}
	}
	return out
}

// WriteTo renders the summary as the textual block described in the external-interfaces
// section, writing to w (typically the CLI's stdout or a summary file opened at Stop).
func (s *Summary) WriteTo(w io.Writer) (int64, error) {
	var total int
	write := func(format string, args ...interface{}) {
		n, _ := fmt.Fprintf(w, format, args...)
		total += n
	}

	write("=== Simulation summary (duration %d ms) ===\n", s.DurationUs/1000)
	write("network throughput: %.2f bps\n\n", s.ThroughputBps)

	for _, sta := range s.Stations {
		write("STA %d: sent=%d acked=%d lost=%d cts-timeouts=%d ack-timeouts=%d nav-timeouts=%d sr-txops=%d hidden-nodes=%d\n",
			sta.NodeId, sta.Sent, sta.Acked, sta.Lost, sta.CtsTimeouts, sta.AckTimeouts, sta.NavTimeouts,
			sta.SrTxopsOpened, sta.HiddenNodeCount)
		write("  nav-time=%d us avg-access-delay=%.2f us avg-backoff=%.2f us\n",
			sta.NavUs, sta.AvgAccessDelayUs, sta.AvgBackoffUs)

		keys := make([]energy.ChannelWidthKey, 0, len(sta.AirtimeByChannelWidth))
		for k := range sta.AirtimeByChannelWidth {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].Channel != keys[j].Channel {
				return keys[i].Channel < keys[j].Channel
			}
			return keys[i].Width < keys[j].Width
		})
		for _, k := range keys {
			write("  airtime ch=%d width=%d: %d us\n", k.Channel, k.Width, sta.AirtimeByChannelWidth[k])
		}
	}
	return int64(total), nil
}
