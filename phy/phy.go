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

// Package phy computes frame airtimes from PHY constants: legacy and HE preamble/header
// durations, per-symbol durations, and the MCS/aggregation/width-dependent payload time.
// Every function here is pure; none reads or mutates simulator state.
package phy

import (
	"math"

	"github.com/wlanax-sim/wlanax-ns/mcs"
	"github.com/wlanax-sim/wlanax-ns/types"
)

const (
	// LegacyPreambleHeaderUs is the L-STF+L-LTF+L-SIG duration of a legacy (non-HT) PPDU.
	LegacyPreambleHeaderUs = 20.0
	// HeSuPreambleHeaderUs is the preamble+header duration of an HE-SU PPDU (L-part plus
	// HE-SIG-A/HE-STF/HE-LTF).
	HeSuPreambleHeaderUs = 42.8
	// LegacySymbolUs is the OFDM symbol duration of a legacy (non-HT) PPDU.
	LegacySymbolUs = 4.0
	// HeSymbolGi32Us is the HE OFDM symbol duration with a 3.2us guard interval (12.8us FFT + GI).
	HeSymbolGi32Us = 16.0
	// LegacyBitsPerSymbol is the fixed bit rate (BPSK 1/2, 6 Mbps on 20 MHz) used for RTS/CTS/ACK.
	LegacyBitsPerSymbol = 24

	rtsBits = 160
	ctsBits = 112
	ackBits = 112

	// macOverheadBitsPerMpdu covers the MAC header and FCS carried by every aggregated MPDU.
	macOverheadBitsPerMpdu = 272
	// DataPayloadBits is the nominal payload size (bits) of one MPDU (1500-byte MSDU).
	DataPayloadBits = 12000
)

// legacyDurationUs returns the airtime of a legacy (non-HT) PPDU carrying bits data bits.
func legacyDurationUs(bits int) float64 {
	symbols := math.Ceil(float64(bits) / LegacyBitsPerSymbol)
	return LegacyPreambleHeaderUs + symbols*LegacySymbolUs
}

// RtsDurationUs returns the airtime of an RTS frame.
func RtsDurationUs() float64 {
	return legacyDurationUs(rtsBits)
}

// CtsDurationUs returns the airtime of a CTS frame.
func CtsDurationUs() float64 {
	return legacyDurationUs(ctsBits)
}

// AckDurationUs returns the airtime of an ACK frame.
func AckDurationUs() float64 {
	return legacyDurationUs(ackBits)
}

// DataDurationUs returns the airtime of a DATA PPDU carrying aggregationCount MPDUs at MCS
// index mcsIdx over a channel of the given width.
func DataDurationUs(mcsIdx mcs.Index, width types.Bandwidth, aggregationCount int) float64 {
	if aggregationCount < 1 {
		aggregationCount = 1
	}
	bitsPerSymbol := mcs.BitsPerSymbol(mcsIdx, width)
	if bitsPerSymbol <= 0 {
		return math.Inf(1)
	}
	totalBits := aggregationCount * (DataPayloadBits + macOverheadBitsPerMpdu)
	symbols := math.Ceil(float64(totalBits) / float64(bitsPerSymbol))
	return HeSuPreambleHeaderUs + symbols*HeSymbolGi32Us
}
