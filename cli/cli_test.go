// Copyright (c) 2020, The OTNS Authors.
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

package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlanax-sim/wlanax-ns/config"
	"github.com/wlanax-sim/wlanax-ns/progctx"
	"github.com/wlanax-sim/wlanax-ns/simulation"
	"github.com/wlanax-sim/wlanax-ns/types"
)

func testSim() *simulation.Simulation {
	return simulation.New(progctx.New(context.Background()), config.SystemDefaults{
		NumChannels: 4, CwMin: 15, CwMax: 1023, StageMax: 6,
		PathLossModel: types.PathLossFreeSpace, CaptureModel: types.CaptureDefault,
		CaptureThresholdDb: 3,
	})
}

func TestParseAddCommand(t *testing.T) {
	cmd := &command{}
	require.NoError(t, parseCmdBytes([]byte("add sta x 5 y 10"), cmd))
	require.NotNil(t, cmd.Add)
	assert.Equal(t, "sta", cmd.Add.Role.Val)
	assert.Equal(t, 5, cmd.Add.X.Val)
	assert.Equal(t, 10, cmd.Add.Y.Val)
}

func TestParseGoCommand(t *testing.T) {
	cmd := &command{}
	require.NoError(t, parseCmdBytes([]byte("go 10 speed 2"), cmd))
	require.NotNil(t, cmd.Go)
	assert.Equal(t, 10.0, cmd.Go.Seconds)
	require.NotNil(t, cmd.Go.Speed)
	assert.Equal(t, 2.0, *cmd.Go.Speed)
}

func TestParseRejectsUnknownCommand(t *testing.T) {
	cmd := &command{}
	assert.Error(t, parseCmdBytes([]byte("frobnicate"), cmd))
}

func TestExecuteAddAndDel(t *testing.T) {
	sim := testSim()
	rt := NewRunner(progctx.New(context.Background()), sim)

	cmd := &command{}
	require.NoError(t, parseCmdBytes([]byte("add ap x 0 y 0"), cmd))
	cc := rt.Execute(cmd)
	require.NoError(t, cc.Err())
	assert.Len(t, sim.Nodes(), 1)

	delCmd := &command{}
	require.NoError(t, parseCmdBytes([]byte("del 1"), delCmd))
	cc = rt.Execute(delCmd)
	require.NoError(t, cc.Err())
	assert.Len(t, sim.Nodes(), 0)
}

func TestExecuteGoAdvancesClock(t *testing.T) {
	sim := testSim()
	rt := NewRunner(progctx.New(context.Background()), sim)

	cmd := &command{}
	require.NoError(t, parseCmdBytes([]byte("go 1"), cmd))
	cc := rt.Execute(cmd)
	require.NoError(t, cc.Err())
	assert.Equal(t, uint64(1e6), sim.Now())
}

func TestExecuteDelUnknownNodeErrors(t *testing.T) {
	sim := testSim()
	rt := NewRunner(progctx.New(context.Background()), sim)

	cmd := &command{}
	require.NoError(t, parseCmdBytes([]byte("del 99"), cmd))
	cc := rt.Execute(cmd)
	assert.Error(t, cc.Err())
}
