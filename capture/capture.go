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

// Package capture implements the reception judge: the pure decision function that, given an
// incoming frame and the recipient's current reception state, decides whether the frame is
// decoded or lost, and why.
package capture

import (
	"github.com/wlanax-sim/wlanax-ns/frame"
	"github.com/wlanax-sim/wlanax-ns/prng"
	"github.com/wlanax-sim/wlanax-ns/types"
)

// Input bundles everything the reception judge needs to decide one incoming frame.
type Input struct {
	Model                    types.CaptureEffectModel
	PrimaryChannel           types.ChannelId
	NewFrame                 *frame.Notification
	InFlight                 *frame.Notification // nil if nothing is currently being decoded
	RssiDbm                  float64              // in-band RSSI of interest for NewFrame
	InFlightRssiDbm          float64              // in-band RSSI of the in-flight frame, for pre-emption
	NoisePlusInterferenceDbm float64
	CaptureThresholdDb       float64
	PdThresholdDbm           float64
	ConstantPer              float64
	SimultaneityEpsilonUs    float64
}

// Result is the reception judge's verdict.
type Result struct {
	Reason          types.LossReason // LossNone means the frame is decoded
	PreemptInFlight bool             // 802.11 model only: in-flight frame is NACKed, NewFrame takes over
}

// Judge decides the outcome of in.NewFrame arriving at the recipient.
func Judge(in Input) Result {
	switch in.Model {
	case types.Capture80211:
		return judge80211(in)
	default:
		return judgeDefault(in)
	}
}

func judgeDefault(in Input) Result {
	if !in.NewFrame.Overlaps(in.PrimaryChannel, in.PrimaryChannel) {
		return Result{Reason: types.LossOutsideChRange}
	}
	if in.RssiDbm < in.PdThresholdDbm {
		return Result{Reason: types.LossLowSignal}
	}
	sinr := in.RssiDbm - in.NoisePlusInterferenceDbm
	if sinr < in.CaptureThresholdDb {
		reason := types.LossInterference
		if in.InFlight != nil && simultaneous(in.NewFrame.SendTimestamp, in.InFlight.SendTimestamp, in.SimultaneityEpsilonUs) {
			reason = types.LossBoCollision
		}
		return Result{Reason: reason}
	}
	if prng.CaptureCoinFlip() < in.ConstantPer {
		return Result{Reason: types.LossSinrProb}
	}
	return Result{Reason: types.LossNone}
}

func judge80211(in Input) Result {
	if in.RssiDbm > in.PdThresholdDbm {
		if in.InFlight != nil {
			margin := in.RssiDbm - in.InFlightRssiDbm
			if margin > in.CaptureThresholdDb {
				return Result{Reason: types.LossNone, PreemptInFlight: true}
			}
		}
		return Result{Reason: types.LossNone}
	}
	return Result{Reason: types.LossLowSignal}
}

func simultaneous(aUs, bUs uint64, epsilonUs float64) bool {
	var diff float64
	if aUs > bUs {
		diff = float64(aUs - bUs)
	} else {
		diff = float64(bUs - aUs)
	}
	return diff <= epsilonUs
}
