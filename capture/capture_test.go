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

package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wlanax-sim/wlanax-ns/frame"
	"github.com/wlanax-sim/wlanax-ns/prng"
	"github.com/wlanax-sim/wlanax-ns/types"
)

func init() {
	prng.Init(1)
}

func TestJudgeDefaultOutsideRange(t *testing.T) {
	f := &frame.Notification{LeftChannel: 2, RightChannel: 3}
	r := Judge(Input{Model: types.CaptureDefault, PrimaryChannel: 0, NewFrame: f})
	assert.Equal(t, types.LossOutsideChRange, r.Reason)
}

func TestJudgeDefaultLowSignal(t *testing.T) {
	f := &frame.Notification{LeftChannel: 0, RightChannel: 0}
	r := Judge(Input{Model: types.CaptureDefault, PrimaryChannel: 0, NewFrame: f, RssiDbm: -90, PdThresholdDbm: -82})
	assert.Equal(t, types.LossLowSignal, r.Reason)
}

func TestJudgeDefaultInterference(t *testing.T) {
	f := &frame.Notification{LeftChannel: 0, RightChannel: 0}
	r := Judge(Input{
		Model: types.CaptureDefault, PrimaryChannel: 0, NewFrame: f,
		RssiDbm: -70, PdThresholdDbm: -82, NoisePlusInterferenceDbm: -60, CaptureThresholdDb: 3,
	})
	assert.Equal(t, types.LossInterference, r.Reason)
}

func TestJudgeDefaultBoCollisionWhenSimultaneous(t *testing.T) {
	f := &frame.Notification{LeftChannel: 0, RightChannel: 0, SendTimestamp: 1000}
	inFlight := &frame.Notification{LeftChannel: 0, RightChannel: 0, SendTimestamp: 1001}
	r := Judge(Input{
		Model: types.CaptureDefault, PrimaryChannel: 0, NewFrame: f, InFlight: inFlight,
		RssiDbm: -70, PdThresholdDbm: -82, NoisePlusInterferenceDbm: -60, CaptureThresholdDb: 3,
		SimultaneityEpsilonUs: 5,
	})
	assert.Equal(t, types.LossBoCollision, r.Reason)
}

func TestJudgeDefaultDecodedWhenStrong(t *testing.T) {
	f := &frame.Notification{LeftChannel: 0, RightChannel: 0}
	r := Judge(Input{
		Model: types.CaptureDefault, PrimaryChannel: 0, NewFrame: f,
		RssiDbm: -40, PdThresholdDbm: -82, NoisePlusInterferenceDbm: -90, CaptureThresholdDb: 3,
		ConstantPer: 0,
	})
	assert.Equal(t, types.LossNone, r.Reason)
}

func Test80211LowSignal(t *testing.T) {
	f := &frame.Notification{LeftChannel: 0, RightChannel: 0}
	r := Judge(Input{Model: types.Capture80211, NewFrame: f, RssiDbm: -90, PdThresholdDbm: -82})
	assert.Equal(t, types.LossLowSignal, r.Reason)
}

func Test80211PreemptsWeakerInFlight(t *testing.T) {
	f := &frame.Notification{LeftChannel: 0, RightChannel: 0}
	r := Judge(Input{
		Model: types.Capture80211, NewFrame: f, RssiDbm: -40, PdThresholdDbm: -82,
		InFlight: &frame.Notification{}, InFlightRssiDbm: -70, CaptureThresholdDb: 10,
	})
	assert.Equal(t, types.LossNone, r.Reason)
	assert.True(t, r.PreemptInFlight)
}
