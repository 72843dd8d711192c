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

package energy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wlanax-sim/wlanax-ns/types"
)

func TestClassOfGroupsStatesIntoFourActivities(t *testing.T) {
	assert.Equal(t, ClassIdle, classOf(types.StateSensing))
	assert.Equal(t, ClassIdle, classOf(types.StateNav))
	assert.Equal(t, ClassTx, classOf(types.StateTxData))
	assert.Equal(t, ClassRx, classOf(types.StateWaitAck))
	assert.Equal(t, ClassRx, classOf(types.StateRxData))
	assert.Equal(t, ClassSleep, classOf(types.StateSleep))
}

func TestSetStateAccumulatesDwellTimeInPriorClass(t *testing.T) {
	n := newNode(1, 0)
	n.SetState(types.StateTxData, 100)
	n.SetState(types.StateSensing, 150)

	assert.Equal(t, uint64(50), n.radio.SpentByClass[ClassTx])
	assert.Equal(t, uint64(100), n.radio.SpentByClass[ClassSleep]) // initial state is Sleep
}

func TestRecordAirtimeAccumulatesPerChannelWidth(t *testing.T) {
	n := newNode(1, 0)
	n.RecordAirtime(0, 20, 500)
	n.RecordAirtime(0, 20, 250)
	n.RecordAirtime(1, 40, 100)

	assert.Equal(t, uint64(750), n.Airtime(0, 20))
	assert.Equal(t, uint64(100), n.Airtime(1, 40))
	assert.Equal(t, uint64(0), n.Airtime(2, 20))
}

func TestAnalyserStoreNetworkEnergyAveragesAcrossNodes(t *testing.T) {
	a := NewAnalyser()
	a.AddNode(1, 0)
	a.AddNode(2, 0)
	a.GetNode(1).SetState(types.StateTxData, 0)
	a.GetNode(2).SetState(types.StateSensing, 1000)

	a.StoreNetworkEnergy(1000)

	hist := a.GetNetworkEnergyHistory()
	assert.Len(t, hist, 1)
	assert.Equal(t, uint64(1000), hist[0].Timestamp)
	assert.Greater(t, hist[0].EnergyConsTx, 0.0)

	latest := a.GetLatestEnergyOfNodes()
	assert.Len(t, latest, 2)
}

func TestDeleteNodeClearsHistoryWhenEmpty(t *testing.T) {
	a := NewAnalyser()
	a.AddNode(1, 0)
	a.GetNode(1).SetState(types.StateTxData, 100)
	a.StoreNetworkEnergy(100)
	assert.Len(t, a.GetNetworkEnergyHistory(), 1)

	a.DeleteNode(1)
	assert.Len(t, a.GetNetworkEnergyHistory(), 0)
}
