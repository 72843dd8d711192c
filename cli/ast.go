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

// This file defines the format of all CLI commands and their flags.

package cli

import (
	"github.com/alecthomas/participle"
)

// command is the top-level grammar: exactly one of its alternatives matches a line.
type command struct {
	Add      *AddCmd      `  @@` //nolint
	Go       *GoCmd       `| @@` //nolint
	Speed    *SpeedCmd    `| @@` //nolint
	Counters *CountersCmd `| @@` //nolint
	Del      *DelCmd      `| @@` //nolint
	Watch    *WatchCmd    `| @@` //nolint
	Unwatch  *UnwatchCmd  `| @@` //nolint
	Config   *ConfigCmd   `| @@` //nolint
	Help     *HelpCmd     `| @@` //nolint
	Exit     *ExitCmd     `| @@` //nolint
}

// HelpCmd defines the `help` command.
type HelpCmd struct {
	Cmd     struct{} `"help"`      //nolint
	Command *string  `[ @Ident ]` //nolint
}

// NodeSelector is one node id in a command argument list.
type NodeSelector struct {
	Id int `@Int` //nolint
}

// RoleFlag picks a node's role for the `add` command.
type RoleFlag struct {
	Val string `@("ap"|"sta")` //nolint
}

// XFlag, YFlag position the new node at add time.
type XFlag struct {
	Val int `"x" (@Int|@Float)` //nolint
}

type YFlag struct {
	Val int `"y" (@Int|@Float)` //nolint
}

// IdFlag pins the new node's id instead of auto-assigning the next free one.
type IdFlag struct {
	Val int `"id" @Int` //nolint
}

// ChFlag pins the new node's primary channel.
type ChFlag struct {
	Val int `"ch" @Int` //nolint
}

// AddCmd defines the `add` command: add a station or access point to the simulation.
type AddCmd struct {
	Cmd  struct{}  `"add"`        //nolint
	Role RoleFlag  `@@`           //nolint
	X    *XFlag    `( @@`         //nolint
	Y    *YFlag    `| @@`         //nolint
	Id   *IdFlag   `| @@`         //nolint
	Ch   *ChFlag   `| @@ )*`      //nolint
}

// GoCmd defines the `go` command: run the simulation for a number of seconds.
type GoCmd struct {
	Cmd     struct{} `"go"`                      //nolint
	Seconds float64  `(@Int|@Float)`             //nolint
	Speed   *float64 `[ "speed" (@Int|@Float) ]` //nolint
}

// SpeedCmd defines the `speed` command: get, or set, the simulation speed multiplier.
type SpeedCmd struct {
	Cmd   struct{} `"speed"`          //nolint
	Speed *float64 `[ (@Int|@Float) ]` //nolint
}

// CountersCmd defines the `counters` command: show the running counters of one node, or all.
type CountersCmd struct {
	Cmd  struct{}      `"counters"` //nolint
	Node *NodeSelector `[ @@ ]`     //nolint
}

// DelCmd defines the `del` command: remove one or more nodes from the simulation.
type DelCmd struct {
	Cmd   struct{}       `"del"`   //nolint
	Nodes []NodeSelector `( @@ )+` //nolint
}

// WatchCmd defines the `watch` command: raise the log level of the named nodes to debug detail.
type WatchCmd struct {
	Cmd   struct{}       `"watch"` //nolint
	Nodes []NodeSelector `( @@ )+` //nolint
}

// UnwatchCmd defines the `unwatch` command: undo a prior `watch`.
type UnwatchCmd struct {
	Cmd   struct{}       `"unwatch"` //nolint
	Nodes []NodeSelector `( @@ )+`   //nolint
}

// ConfigCmd defines the `config` command: print the scenario's system defaults, or parse and
// validate a YAML file of defaults. The running simulation's defaults are never replaced.
type ConfigCmd struct {
	Cmd  struct{} `"config"`    //nolint
	Path *string  `[ @String ]` //nolint
}

// ExitCmd defines the `exit` command.
type ExitCmd struct {
	Cmd struct{} `"exit"` //nolint
}

var commandParser = participle.MustBuild(&command{})

func parseCmdBytes(b []byte, cmd *command) error {
	return commandParser.ParseBytes(b, cmd)
}
