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

package simulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlanax-sim/wlanax-ns/config"
	"github.com/wlanax-sim/wlanax-ns/prng"
	"github.com/wlanax-sim/wlanax-ns/progctx"
	"github.com/wlanax-sim/wlanax-ns/types"
)

func init() {
	prng.Init(7)
}

func testSystem() config.SystemDefaults {
	return config.SystemDefaults{
		NumChannels:        4,
		CwMin:              15,
		CwMax:              1023,
		StageMax:           6,
		PathLossModel:      types.PathLossFreeSpace,
		CaptureModel:       types.CaptureDefault,
		CaptureThresholdDb: 3,
	}
}

func testNode(id types.NodeId, role types.Role) config.NodeConfig {
	return config.NodeConfig{
		Id: id, Role: role, MinChannel: 0, MaxChannel: 3, PrimaryChannel: 0,
		DefaultTxPowerDbm: 20, DefaultPdDbm: -82,
		CbPolicy: types.CbOnlyPrimary, BackoffMode: types.BackoffSlotted,
	}
}

func TestAddNodeRejectsDuplicateIds(t *testing.T) {
	s := New(progctx.New(context.Background()), testSystem())
	_, err := s.AddNode(testNode(1, types.RoleSTA))
	require.NoError(t, err)
	_, err = s.AddNode(testNode(1, types.RoleSTA))
	assert.Error(t, err)
}

func TestAddNodeRejectsInvalidConfig(t *testing.T) {
	s := New(progctx.New(context.Background()), testSystem())
	bad := testNode(1, types.RoleSTA)
	bad.PrimaryChannel = 9
	_, err := s.AddNode(bad)
	assert.Error(t, err)
}

func TestGoAdvancesClockEvenWithNoEvents(t *testing.T) {
	s := New(progctx.New(context.Background()), testSystem())
	s.Go(1000)
	assert.Equal(t, uint64(1000), s.Now())
}

func TestHandshakeCompletesBetweenTwoNodes(t *testing.T) {
	s := New(progctx.New(context.Background()), testSystem())
	_, err := s.AddNode(testNode(1, types.RoleSTA))
	require.NoError(t, err)
	_, err = s.AddNode(testNode(2, types.RoleAP))
	require.NoError(t, err)

	ok := s.NewPacketGenerated(1, 2, 12000)
	require.True(t, ok)

	s.Go(2000000)

	sta, _ := s.Node(1)
	assert.Equal(t, uint64(1), sta.Counters.Sent)
	assert.Equal(t, uint64(0), sta.Counters.Lost)
}

func TestStopBuildsSummaryForEveryNode(t *testing.T) {
	s := New(progctx.New(context.Background()), testSystem())
	_, err := s.AddNode(testNode(1, types.RoleSTA))
	require.NoError(t, err)

	s.Go(500)
	summary := s.Stop()
	assert.Len(t, summary.Stations, 1)
}
