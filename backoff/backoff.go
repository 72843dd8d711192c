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

// Package backoff computes DCF backoff draws, their freeze/resume re-quantization, and
// contention-window adaptation on success/failure. Every exported function is pure except
// the DeterministicState token holder, which models the Qualcomm-style global decrement rule.
package backoff

import (
	"math"
	"sync"

	"github.com/wlanax-sim/wlanax-ns/prng"
	"github.com/wlanax-sim/wlanax-ns/types"
)

const (
	// SlotTimeUs is the 802.11ax OFDM slot duration for the 5/6 GHz bands.
	SlotTimeUs = 9.0
	SifsUs     = 16.0
	DifsUs     = SifsUs + 2*SlotTimeUs
	PifsUs     = SifsUs + SlotTimeUs
	EifsUs     = SifsUs + DifsUs // recovery interval after a decode failure
)

// Draw computes a backoff quantum in microseconds for the given mode and contention window.
func Draw(mode types.BackoffMode, pdf types.BackoffPdf, cw int) float64 {
	switch mode {
	case types.BackoffContinuous:
		mean := float64(cw-1) / 2 * SlotTimeUs
		return prng.BackoffExpFloat64() * mean
	case types.BackoffSlotted:
		if pdf == types.PdfExponential {
			mean := float64(cw-1) / 2
			slots := math.Round(prng.BackoffExpFloat64() * mean)
			return slots * SlotTimeUs
		}
		return float64(prng.BackoffSlots(cw-1)) * SlotTimeUs
	default:
		return float64(prng.BackoffSlots(cw - 1)) * SlotTimeUs
	}
}

// Requantize re-derives the remaining backoff after a freeze/resume cycle: continuous mode
// preserves the remaining time exactly; slotted mode rounds up to the next slot boundary.
func Requantize(mode types.BackoffMode, remainingUs float64) float64 {
	if mode != types.BackoffSlotted {
		return remainingUs
	}
	slots := math.Ceil(remainingUs / SlotTimeUs)
	return slots * SlotTimeUs
}

// CwResult is the outcome of a contention-window adaptation.
type CwResult struct {
	Cw    int
	Stage int
}

// OnSuccess resets the contention window to CW-min and stage to 0, per the ACK-success rule.
func OnSuccess(cwMin int) CwResult {
	return CwResult{Cw: cwMin, Stage: 0}
}

// OnFailure doubles the contention window (capped at cwMax) and advances the retry stage
// (capped at stageMax), per the ACK-timeout/CTS-timeout rule.
func OnFailure(cwCur, cwMin, cwMax, stage, stageMax int) CwResult {
	newStage := stage + 1
	if newStage > stageMax {
		newStage = stageMax
	}
	newCw := cwCur*2 + 1
	if newCw > cwMax {
		newCw = cwMax
	}
	if newCw < cwMin {
		newCw = cwMin
	}
	return CwResult{Cw: newCw, Stage: newStage}
}

// TokenizedCw pegs the contention window to the holder's rank among its neighbors instead of
// exponential growth, for the tokenized CW variant.
func TokenizedCw(neighborRank, cwMin, cwMax int) int {
	cw := cwMin + neighborRank
	if cw > cwMax {
		cw = cwMax
	}
	return cw
}

// DeterministicState implements the Qualcomm-style tokenized deterministic-backoff variant:
// a fixed base backoff shared across the network, decremented globally as nodes yield access.
type DeterministicState struct {
	mu    sync.Mutex
	token int
}

// NewDeterministicState creates a zeroed deterministic-backoff token holder.
func NewDeterministicState() *DeterministicState {
	return &DeterministicState{}
}

// Draw returns the deterministic backoff quantum in microseconds for a node holding
// baseBackoffSlots slots, after subtracting the network's current global decrement.
func (d *DeterministicState) Draw(baseBackoffSlots int) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	slots := baseBackoffSlots - d.token
	if slots < 0 {
		slots = 0
	}
	return float64(slots) * SlotTimeUs
}

// GlobalDecrement advances the shared token, shrinking every node's next deterministic draw.
func (d *DeterministicState) GlobalDecrement() {
	d.mu.Lock()
	d.token++
	d.mu.Unlock()
}
