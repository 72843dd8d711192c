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

// Package spatialreuse implements the 11ax OBSS/PD Spatial-Reuse overlay: frame
// classification against BSS color and SRG, the elevated PD threshold it drives, and the
// SR-TXOP it opens for capped-power transmission during another BSS's NAV.
package spatialreuse

import (
	"github.com/wlanax-sim/wlanax-ns/frame"
)

// FrameClass is the origin classification of a sensed frame relative to the local BSS.
type FrameClass int

const (
	ClassIntraBss FrameClass = iota
	ClassInterBssNonSrg
	ClassInterBssSrg
)

// ClassifyFrame classifies f against the local node's BSS color and SRG id.
func ClassifyFrame(localColor, localSrg int, f *frame.Notification) FrameClass {
	if f.Info.BssColor == localColor {
		return ClassIntraBss
	}
	if f.Info.Srg == localSrg {
		return ClassInterBssSrg
	}
	return ClassInterBssNonSrg
}

// Thresholds bundles the three PD thresholds a node carries: the default, and the two
// OBSS/PD ceilings for SRG and non-SRG inter-BSS frames.
type Thresholds struct {
	DefaultPdDbm  float64
	NonSrgObssPd  float64
	SrgObssPd     float64
}

// ObssPdFor returns the elevated packet-detect threshold to apply to a frame of class c.
func ObssPdFor(t Thresholds, c FrameClass) float64 {
	switch c {
	case ClassInterBssSrg:
		return t.SrgObssPd
	case ClassInterBssNonSrg:
		return t.NonSrgObssPd
	default:
		return t.DefaultPdDbm
	}
}

// TxPowerCapFor computes the SR-TXOP transmit-power cap for an effective OBSS/PD of obssPdDbm,
// given the node's default TX power and default PD. The cap is a monotone decreasing function
// of obssPdDbm: every dB the ignore-threshold rises above the default PD, permitted power falls
// by the same amount, so that the inter-BSS interference budget at the victim is unchanged.
func TxPowerCapFor(defaultTxPowerDbm, defaultPdDbm, obssPdDbm float64) float64 {
	cap := defaultTxPowerDbm - (obssPdDbm - defaultPdDbm)
	if cap > defaultTxPowerDbm {
		cap = defaultTxPowerDbm
	}
	return cap
}

// Overlay tracks one node's live Spatial-Reuse state across TXOP attempts.
type Overlay struct {
	LocalBssColor int
	LocalSrg      int
	Thresholds    Thresholds

	CurrentPdDbm     float64
	TxOpIdentified   bool
	TxPowerCapDbm    float64
	NavDeadlineUs    uint64
	LastFrameClass   FrameClass
}

// NewOverlay creates an overlay with the effective PD reset to the default.
func NewOverlay(localColor, localSrg int, t Thresholds) *Overlay {
	return &Overlay{
		LocalBssColor: localColor,
		LocalSrg:      localSrg,
		Thresholds:    t,
		CurrentPdDbm:  t.DefaultPdDbm,
	}
}

// Observe updates the overlay's state with one sensed frame, per the SR-TXOP rules: an
// inter-BSS frame that the default PD would decode but the class OBSS/PD ignores opens (or
// keeps open) an SR-TXOP with a recomputed power cap; an intra-BSS decodable frame, the NAV
// deadline's expiry, or a competing frame needing a more permissive OBSS/PD cancels it.
func (o *Overlay) Observe(f *frame.Notification, rssiDbm float64, defaultTxPowerDbm float64, nowUs uint64) {
	class := ClassifyFrame(o.LocalBssColor, o.LocalSrg, f)
	o.LastFrameClass = class

	if o.TxOpIdentified && nowUs >= o.NavDeadlineUs {
		o.cancel()
	}

	if class == ClassIntraBss {
		if rssiDbm >= o.Thresholds.DefaultPdDbm {
			o.cancel()
		}
		o.CurrentPdDbm = o.Thresholds.DefaultPdDbm
		return
	}

	classPd := ObssPdFor(o.Thresholds, class)
	decodableAtDefault := rssiDbm >= o.Thresholds.DefaultPdDbm
	ignoredAtClassPd := rssiDbm < classPd

	if decodableAtDefault && ignoredAtClassPd {
		cap := TxPowerCapFor(defaultTxPowerDbm, o.Thresholds.DefaultPdDbm, classPd)
		if o.TxOpIdentified && cap > o.TxPowerCapDbm {
			o.cancel()
			return
		}
		o.CurrentPdDbm = classPd
		o.TxOpIdentified = true
		o.TxPowerCapDbm = cap
		navEnd := f.SendTimestamp + uint64(f.Info.NavDurationUs)
		if navEnd > o.NavDeadlineUs {
			o.NavDeadlineUs = navEnd
		}
		return
	}

	o.cancel()
}

func (o *Overlay) cancel() {
	o.TxOpIdentified = false
	o.TxPowerCapDbm = 0
	o.NavDeadlineUs = 0
	o.CurrentPdDbm = o.Thresholds.DefaultPdDbm
}
