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

// Command wlanax-ns starts the 802.11ax DCF/Spatial-Reuse simulator's interactive console.
// Nodes are added through the console's `add` command (scenario-file loading is an external
// collaborator, per spec section 6); an optional --config file sets the system-wide defaults
// the scenario runs against.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/wlanax-sim/wlanax-ns/cli"
	"github.com/wlanax-sim/wlanax-ns/config"
	"github.com/wlanax-sim/wlanax-ns/logger"
	"github.com/wlanax-sim/wlanax-ns/progctx"
	"github.com/wlanax-sim/wlanax-ns/simulation"
)

type mainArgs struct {
	ConfigPath string
	LogLevel   string
}

func parseArgs() mainArgs {
	var a mainArgs
	flag.StringVar(&a.ConfigPath, "config", "", "YAML file with system-wide defaults")
	flag.StringVar(&a.LogLevel, "log", "info", "log level: trace|debug|info|note|warn|error|off")
	flag.Parse()
	return a
}

func main() {
	args := parseArgs()
	logger.SetLevel(parseLevel(args.LogLevel))

	ctx := progctx.New(context.Background())
	ctx.Defer(func() {
		_ = os.Stdin.Close()
	})
	handleSignals(ctx)

	sys, err := loadSystemDefaults(args.ConfigPath)
	logger.FatalIfError(err, "loading system defaults")

	sim := simulation.New(ctx, sys)
	cli.Run(ctx, sim)

	ctx.Wait()
}

func loadSystemDefaults(path string) (config.SystemDefaults, error) {
	sys := defaultSystemDefaults()
	if path == "" {
		return sys, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return sys, err
	}
	sys, err = config.UnmarshalSystemDefaults(data)
	if err != nil {
		return sys, err
	}
	return sys, config.ValidateSystemDefaults(sys)
}

// defaultSystemDefaults mirrors the teacher's DefaultConfig idiom: a scenario with no --config
// file still gets a runnable single-channel, legacy-CW system.
func defaultSystemDefaults() config.SystemDefaults {
	return config.SystemDefaults{
		NumChannels:        1,
		CwMin:              15,
		CwMax:              1023,
		StageMax:           6,
		CaptureThresholdDb: 3,
	}
}

func parseLevel(s string) logger.Level {
	switch s {
	case "trace":
		return logger.TraceLevel
	case "debug":
		return logger.DebugLevel
	case "info":
		return logger.InfoLevel
	case "note":
		return logger.NoteLevel
	case "warn":
		return logger.WarnLevel
	case "error":
		return logger.ErrorLevel
	case "off":
		return logger.OffLevel
	default:
		return logger.DefaultLevel
	}
}

func handleSignals(ctx *progctx.ProgCtx) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)
	signal.Ignore(syscall.SIGALRM)

	ctx.WaitAdd("handleSignals", 1)
	go func() {
		defer ctx.WaitDone("handleSignals")
		for {
			select {
			case sig := <-c:
				logger.Infof("signal received: %v", sig)
				ctx.Cancel(nil)
			case <-ctx.Done():
				return
			}
		}
	}()
}
