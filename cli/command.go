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
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/wlanax-sim/wlanax-ns/config"
	"github.com/wlanax-sim/wlanax-ns/logger"
	"github.com/wlanax-sim/wlanax-ns/node"
	"github.com/wlanax-sim/wlanax-ns/progctx"
	"github.com/wlanax-sim/wlanax-ns/simulation"
	"github.com/wlanax-sim/wlanax-ns/types"
)

const prompt = "> "

// speedNormal is the simulation-speed multiplier the `speed` command reports before any `go
// speed` or `speed` invocation changes it. Simulation itself always advances in pure virtual
// time; this value exists only so the CLI has something consistent to echo back.
const speedNormal = 1.0

// CommandContext carries one parsed command's execution outcome back to the caller.
type CommandContext struct {
	*command
	err error
}

func (cc *CommandContext) outputf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

func (cc *CommandContext) errorf(format string, args ...interface{}) {
	cc.err = errors.Errorf(format, args...)
}

func (cc *CommandContext) error(err error) {
	cc.err = err
}

// Err returns the command's execution error, or nil if it succeeded.
func (cc *CommandContext) Err() error {
	return cc.err
}

// Runner executes parsed CLI commands against one simulation.
type Runner struct {
	sim    *simulation.Simulation
	ctx    *progctx.ProgCtx
	nextId types.NodeId
	speed  float64
}

// NewRunner creates a Runner driving sim, bound to ctx's cancellation.
func NewRunner(ctx *progctx.ProgCtx, sim *simulation.Simulation) *Runner {
	return &Runner{sim: sim, ctx: ctx, nextId: 1, speed: speedNormal}
}

// GetPrompt implements runcli.CliHandler.
func (rt *Runner) GetPrompt() string {
	return prompt
}

// HandleCommand implements runcli.CliHandler: parse cmdline and execute it, writing the
// "Done"/"Error: ..." trailer OTNS users expect.
func (rt *Runner) HandleCommand(cmdline string, output io.Writer) error {
	cmd := &command{}
	if err := parseCmdBytes([]byte(cmdline), cmd); err != nil {
		_, err := fmt.Fprintf(output, "Error: %v\n", err)
		return err
	}

	cc := rt.Execute(cmd)
	if cc.Err() != nil {
		_, err := fmt.Fprintf(output, "Error: %v\n", cc.Err())
		return err
	}
	_, err := fmt.Fprintf(output, "Done\n")
	return err
}

// Execute runs one parsed command, recovering any panic into cc.Err() instead of crashing the
// console (a misconfigured `add`/`del` selector should end a command, not the session).
func (rt *Runner) Execute(cmd *command) (cc *CommandContext) {
	cc = &CommandContext{command: cmd}

	defer func() {
		if r := recover(); r != nil {
			cc.err = errors.Errorf("panic: %v", r)
		}
	}()

	switch {
	case cmd.Add != nil:
		rt.executeAdd(cc, cmd.Add)
	case cmd.Go != nil:
		rt.executeGo(cc, cmd.Go)
	case cmd.Speed != nil:
		rt.executeSpeed(cc, cmd.Speed)
	case cmd.Counters != nil:
		rt.executeCounters(cc, cmd.Counters)
	case cmd.Del != nil:
		rt.executeDel(cc, cmd.Del)
	case cmd.Watch != nil:
		rt.setWatchLevel(cc, cmd.Watch.Nodes, logger.DebugLevel)
	case cmd.Unwatch != nil:
		rt.setWatchLevel(cc, cmd.Unwatch.Nodes, logger.DefaultLevel)
	case cmd.Config != nil:
		rt.executeConfig(cc, cmd.Config)
	case cmd.Help != nil:
		rt.executeHelp(cc, cmd.Help)
	case cmd.Exit != nil:
		rt.executeExit(cc)
	default:
		cc.errorf("command not implemented")
	}
	return
}

func (rt *Runner) executeAdd(cc *CommandContext, cmd *AddCmd) {
	sys := rt.sim.Sys()
	cfg := config.NodeConfig{
		Id:                rt.nextId,
		DefaultTxPowerDbm: 20,
		DefaultPdDbm:      -82,
		MinChannel:        0,
		MaxChannel:        sys.NumChannels - 1,
		CbPolicy:          types.CbOnlyPrimary,
		BackoffMode:       types.BackoffSlotted,
	}
	if cmd.Role.Val == "ap" {
		cfg.Role = types.RoleAP
	} else {
		cfg.Role = types.RoleSTA
	}
	if cmd.X != nil {
		cfg.Position.X = float64(cmd.X.Val)
	}
	if cmd.Y != nil {
		cfg.Position.Y = float64(cmd.Y.Val)
	}
	if cmd.Id != nil {
		cfg.Id = cmd.Id.Val
	}
	if cmd.Ch != nil {
		cfg.PrimaryChannel = cmd.Ch.Val
	}

	n, err := rt.sim.AddNode(cfg)
	if err != nil {
		cc.error(err)
		return
	}
	if n.Cfg.Id >= rt.nextId {
		rt.nextId = n.Cfg.Id + 1
	}
	cc.outputf("%d\n", n.Cfg.Id)
}

func (rt *Runner) executeGo(cc *CommandContext, cmd *GoCmd) {
	if cmd.Speed != nil {
		rt.speed = *cmd.Speed
	}
	rt.sim.Go(uint64(cmd.Seconds * 1e6))
}

func (rt *Runner) executeSpeed(cc *CommandContext, cmd *SpeedCmd) {
	if cmd.Speed == nil {
		cc.outputf("%v\n", rt.speed)
		return
	}
	rt.speed = *cmd.Speed
}

func (rt *Runner) executeCounters(cc *CommandContext, cmd *CountersCmd) {
	if cmd.Node != nil {
		n, ok := rt.sim.Node(cmd.Node.Id)
		if !ok {
			cc.errorf("node %d not found", cmd.Node.Id)
			return
		}
		printCounters(cc, cmd.Node.Id, n.Counters)
		return
	}
	for id, n := range rt.sim.Nodes() {
		printCounters(cc, id, n.Counters)
	}
}

func printCounters(cc *CommandContext, id types.NodeId, cnt node.Counters) {
	cc.outputf("node=%d sent=%d acked=%d lost=%d cts-timeouts=%d ack-timeouts=%d "+
		"nav-timeouts=%d sr-txops=%d\n",
		id, cnt.Sent, cnt.Acked, cnt.Lost, cnt.CtsTimeouts, cnt.AckTimeouts,
		cnt.NavTimeouts, cnt.SrTxopsOpened)
}

func (rt *Runner) executeDel(cc *CommandContext, cmd *DelCmd) {
	for _, sel := range cmd.Nodes {
		if _, ok := rt.sim.Node(sel.Id); !ok {
			cc.errorf("node %d not found", sel.Id)
			continue
		}
		rt.sim.DeleteNode(sel.Id)
	}
}

// setWatchLevel applies lvl to the named nodes' per-node loggers: DebugLevel for `watch`,
// DefaultLevel to undo it with `unwatch`.
func (rt *Runner) setWatchLevel(cc *CommandContext, sel []NodeSelector, lvl logger.Level) {
	for _, s := range sel {
		if _, ok := rt.sim.Node(s.Id); !ok {
			cc.errorf("node %d not found", s.Id)
			continue
		}
		logger.GetNodeLogger(0, s.Id, false).CurrentLevel = lvl
	}
}

func (rt *Runner) executeConfig(cc *CommandContext, cmd *ConfigCmd) {
	if cmd.Path == nil {
		b, err := config.Marshal(rt.sim.Sys())
		if err != nil {
			cc.error(err)
			return
		}
		cc.outputf("%s", b)
		return
	}

	data, err := os.ReadFile(*cmd.Path)
	if err != nil {
		cc.error(errors.Wrapf(err, "reading config file %s", *cmd.Path))
		return
	}
	sys, err := config.UnmarshalSystemDefaults(data)
	if err != nil {
		cc.error(err)
		return
	}
	if err := config.ValidateSystemDefaults(sys); err != nil {
		cc.error(err)
		return
	}
	cc.errorf("system defaults are fixed at simulation start; restart with --config %s to apply them", *cmd.Path)
}

func (rt *Runner) executeHelp(cc *CommandContext, cmd *HelpCmd) {
	h := newHelp()
	if cmd.Command == nil {
		cc.outputf("%s", h.outputGeneralHelp())
		return
	}
	cc.outputf("%s", h.outputCommandHelp(*cmd.Command))
}

func (rt *Runner) executeExit(cc *CommandContext) {
	summary := rt.sim.Stop()
	_, _ = summary.WriteTo(os.Stdout)
	rt.ctx.Cancel(errors.New("exit"))
}
