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

// Package propagation implements the simulator's path-loss laws as pure functions of
// distance and a small parameter set, mapping a transmit power to a received power. No
// propagation function mutates or reads simulator state; all context is passed in Params.
package propagation

import (
	"math"

	"github.com/wlanax-sim/wlanax-ns/prng"
	"github.com/wlanax-sim/wlanax-ns/types"
)

// Params bundles the inputs a path-loss law needs beyond distance and frequency. Not every
// field is meaningful for every Model; see each loss function's doc comment.
type Params struct {
	Model        types.PathLossModel
	FrequencyGHz float64
	WallCount    int
	FloorCount   int
	ShadowStdDb  float64 // standard deviation of the log-normal shadow-fading term, in dB
	BreakpointM  float64 // break-point distance for the 802.11ax Scenario models
	IndoorTx     bool
	IndoorRx     bool
}

const minDistanceM = 1.0 // avoid log(0)/div-by-0 for co-located nodes

// RxPower returns the received power in dBm for a transmitter at txPowerDbm, distanceM away,
// under the path-loss law selected by p.Model. A shadow-fading sample is drawn from prng
// whenever p.ShadowStdDb > 0.
func RxPower(txPowerDbm float64, distanceM float64, p Params) float64 {
	d := math.Max(distanceM, minDistanceM)
	loss := LossDb(d, p)
	if p.ShadowStdDb > 0 {
		loss += prng.FadingSample() * p.ShadowStdDb
	}
	return txPowerDbm - loss
}

// LossDb returns the path loss in dB (always positive) for the selected model.
func LossDb(distanceM float64, p Params) float64 {
	d := math.Max(distanceM, minDistanceM)
	switch p.Model {
	case types.PathLossFreeSpace:
		return freeSpaceLossDb(d, p.FrequencyGHz)
	case types.PathLossOkumuraHataUrban:
		return okumuraHataUrbanLossDb(d, p.FrequencyGHz)
	case types.PathLossResidentialApartment:
		return residentialApartmentLossDb(d, p.WallCount)
	case types.PathLossAx11Scenario1, types.PathLossAx11Scenario2, types.PathLossAx11Scenario3,
		types.PathLossAx11Scenario4, types.PathLossAx11Scenario4a:
		return ax11ScenarioLossDb(p.Model, d, p)
	default:
		return freeSpaceLossDb(d, p.FrequencyGHz)
	}
}

// freeSpaceLossDb is the Friis free-space path loss: 20*log10(d) + 20*log10(f) + 32.44,
// with d in meters and f in GHz.
func freeSpaceLossDb(distanceM, freqGHz float64) float64 {
	if freqGHz <= 0 {
		freqGHz = 5.0
	}
	return 20*math.Log10(distanceM) + 20*math.Log10(freqGHz) + 32.44
}

// okumuraHataUrbanLossDb applies the Okumura-Hata urban macro-cell model for a fixed,
// low-rise urban deployment (antenna heights folded into the model constants).
func okumuraHataUrbanLossDb(distanceM, freqGHz float64) float64 {
	if freqGHz <= 0 {
		freqGHz = 5.0
	}
	fMHz := freqGHz * 1000
	dKm := distanceM / 1000.0
	const hb = 30.0 // base station height, m
	const hm = 1.5  // mobile height, m
	ahm := (1.1*math.Log10(fMHz) - 0.7) * hm - (1.56*math.Log10(fMHz) - 0.8)
	return 69.55 + 26.16*math.Log10(fMHz) - 13.82*math.Log10(hb) - ahm +
		(44.9-6.55*math.Log10(hb))*math.Log10(math.Max(dKm, 0.001))
}

// residentialApartmentLossDb uses a 4.4 path-loss exponent plus a fixed per-wall penalty,
// as used for dense residential/apartment deployments.
func residentialApartmentLossDb(distanceM float64, wallCount int) float64 {
	const exponent = 4.4
	const refLossDb1m = 40.0 // reference loss at 1 m
	const perWallDb = 5.0
	return refLossDb1m + 10*exponent*math.Log10(distanceM) + perWallDb*float64(wallCount)
}

type ax11ScenarioConstants struct {
	shortExponent float64
	longExponent  float64
	perWallDb     float64
	perFloorDb    float64
	indoorPenalty float64
}

var ax11Scenarios = map[types.PathLossModel]ax11ScenarioConstants{
	types.PathLossAx11Scenario1:  {shortExponent: 2.0, longExponent: 3.5, perWallDb: 0, perFloorDb: 0, indoorPenalty: 0},
	types.PathLossAx11Scenario2:  {shortExponent: 2.0, longExponent: 3.5, perWallDb: 5, perFloorDb: 0, indoorPenalty: 0},
	types.PathLossAx11Scenario3:  {shortExponent: 2.0, longExponent: 3.5, perWallDb: 5, perFloorDb: 18.3, indoorPenalty: 0},
	types.PathLossAx11Scenario4:  {shortExponent: 2.0, longExponent: 3.5, perWallDb: 5, perFloorDb: 18.3, indoorPenalty: 20},
	types.PathLossAx11Scenario4a: {shortExponent: 2.0, longExponent: 3.5, perWallDb: 7, perFloorDb: 18.3, indoorPenalty: 20},
}

// ax11ScenarioLossDb implements the IEEE 802.11ax TGax channel models (Scenarios 1-4a): a
// dual-slope law around a break-point distance, plus per-wall and per-floor penalties, plus
// an indoor-outdoor penalty when exactly one endpoint is indoors.
func ax11ScenarioLossDb(model types.PathLossModel, distanceM float64, p Params) float64 {
	c := ax11Scenarios[model]
	bp := p.BreakpointM
	if bp <= 0 {
		bp = 10.0
	}
	fMHz := p.FrequencyGHz * 1000
	if fMHz <= 0 {
		fMHz = 5000
	}
	freeSpaceAtBp := 20*math.Log10(4*math.Pi*bp/(3e8/(fMHz*1e6)))

	var loss float64
	if distanceM <= bp {
		loss = freeSpaceLossDb(distanceM, p.FrequencyGHz)
	} else {
		loss = freeSpaceAtBp + 10*c.longExponent*math.Log10(distanceM/bp)
	}
	loss += c.perWallDb * float64(p.WallCount)
	loss += c.perFloorDb * float64(p.FloorCount)
	if p.IndoorTx != p.IndoorRx {
		loss += c.indoorPenalty
	}
	return loss
}
