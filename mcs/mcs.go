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

// Package mcs implements the SNR-to-MCS negotiation table and per-destination MCS
// bookkeeping a node keeps for each potential receiver.
package mcs

import (
	"math"

	"github.com/wlanax-sim/wlanax-ns/types"
)

// Index is a modulation-and-coding-scheme index, ordered from weakest to strongest.
type Index uint8

const (
	Forbidden Index = iota
	Bpsk12
	Qpsk12
	Qpsk34
	Qam16_12
	Qam16_34
	Qam64_23
	Qam64_34
	Qam64_56
	Qam256_34
	Qam256_56
	Qam1024_34
	Qam1024_56
	numIndices
)

func (i Index) String() string {
	names := [...]string{
		"forbidden", "BPSK-1/2", "QPSK-1/2", "QPSK-3/4", "16QAM-1/2", "16QAM-3/4",
		"64QAM-2/3", "64QAM-3/4", "64QAM-5/6", "256QAM-3/4", "256QAM-5/6",
		"1024QAM-3/4", "1024QAM-5/6",
	}
	if int(i) < len(names) {
		return names[i]
	}
	return "unknown"
}

// bitsPerSymbol20MHz is the data bits carried per OFDM symbol on a single 20-MHz subchannel:
// 52 data subcarriers times coded bits per subcarrier times code rate, one spatial stream,
// indexed by Index.
var bitsPerSymbol20MHz = [numIndices]int{
	Forbidden: 0, Bpsk12: 26, Qpsk12: 52, Qpsk34: 78, Qam16_12: 104, Qam16_34: 156,
	Qam64_23: 208, Qam64_34: 234, Qam64_56: 260, Qam256_34: 312, Qam256_56: 346,
	Qam1024_34: 390, Qam1024_56: 433,
}

// requiredSnrDb is the minimum (single-subchannel) SNR in dB at which Index is usable.
var requiredSnrDb = [numIndices]float64{
	Forbidden: math.Inf(1), Bpsk12: 2, Qpsk12: 5, Qpsk34: 9, Qam16_12: 11, Qam16_34: 15,
	Qam64_23: 18, Qam64_34: 20, Qam64_56: 25, Qam256_34: 29, Qam256_56: 31,
	Qam1024_34: 34, Qam1024_56: 38,
}

// BitsPerSymbol returns the number of data bits carried per OFDM symbol for index mcs over
// a channel of width subchannels (1, 2, 4 or 8 20-MHz subchannels), assuming linear scaling
// of usable subcarriers with bandwidth.
func BitsPerSymbol(i Index, width types.Bandwidth) int {
	return bitsPerSymbol20MHz[i] * width
}

// widthNoisePenaltyDb is the extra receiver noise, in dB, incurred by widening the receive
// bandwidth by a factor of `width` over a single 20-MHz subchannel (10*log10(width)).
func widthNoisePenaltyDb(width types.Bandwidth) float64 {
	return 10 * math.Log10(float64(width))
}

// ForSnr maps a measured single-subchannel SNR (dB) to the best usable Index at the given
// channel width, returning Forbidden if even the most robust MCS cannot be used.
func ForSnr(snrDb float64, width types.Bandwidth) Index {
	effectiveSnr := snrDb - widthNoisePenaltyDb(width)
	best := Forbidden
	for i := Bpsk12; i < numIndices; i++ {
		if effectiveSnr >= requiredSnrDb[i] {
			best = i
		}
	}
	return best
}

// Row is the per-destination MCS negotiation result: one Index per supported channel width.
type Row struct {
	ByWidth map[types.Bandwidth]Index
}

// NewRowFromSnr negotiates a full Row (one Index per supported width) from a single
// measured RSSI-derived SNR, per the four widths named in the spec's MCS negotiator.
func NewRowFromSnr(snrDb float64) Row {
	row := Row{ByWidth: make(map[types.Bandwidth]Index, 4)}
	for _, w := range []types.Bandwidth{types.Bandwidth20MHz, types.Bandwidth40MHz, types.Bandwidth80MHz, types.Bandwidth160MHz} {
		row.ByWidth[w] = ForSnr(snrDb, w)
	}
	return row
}

// ApplySpatialReuseSubstitution enforces the SR rule that a forbidden MCS is never used:
// substitute the most robust usable index (BPSK-1/2) for any width returning Forbidden.
func (r Row) ApplySpatialReuseSubstitution() Row {
	out := Row{ByWidth: make(map[types.Bandwidth]Index, len(r.ByWidth))}
	for w, idx := range r.ByWidth {
		if idx == Forbidden {
			idx = Bpsk12
		}
		out.ByWidth[w] = idx
	}
	return out
}
