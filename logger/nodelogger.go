// Copyright (c) 2023, The OTNS Authors.
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

package logger

import (
	"fmt"
	"os"
	"sync"
	"time"

	. "github.com/wlanax-sim/wlanax-ns/types"
)

// nodeLogEntry carries one per-node log record: the fields required by the
// semicolon-separated per-node log line (time, node id, state, tag, level, message).
type nodeLogEntry struct {
	NodeId NodeId
	State  NodeState
	Tag    string
	Level  Level
	Msg    string
}

var levelMarker = map[Level]string{
	FatalLevel: "F", PanicLevel: "P", ErrorLevel: "E", WarnLevel: "W",
	NoteLevel: "N", InfoLevel: "I", DebugLevel: "D", TraceLevel: "T", MicroLevel: "U",
}

// NodeLogger is a node-specific log object, writing a semicolon-separated log line per entry:
// "simTimeUs;nodeId;state;tag;levelMarker;message". Level and output file can be set per node.
type NodeLogger struct {
	Id           NodeId
	CurrentLevel Level
	State        NodeState

	logFile       *os.File
	logFileName   string
	isFileEnabled bool
	entries       chan nodeLogEntry
	timestampUs   uint64
}

var (
	nodeLogs = make(map[NodeId]*NodeLogger, 10)
	mutex    = sync.Mutex{}
)

// GetNodeLogger gets (creating if needed) the NodeLogger for the given simulation and node id.
func GetNodeLogger(simulationId int, id NodeId, toFile bool) *NodeLogger {
	mutex.Lock()
	defer mutex.Unlock()

	log, ok := nodeLogs[id]
	if !ok {
		log = &NodeLogger{
			Id:            id,
			CurrentLevel:  DefaultLevel,
			entries:       make(chan nodeLogEntry, 1000),
			logFileName:   getLogFileName(simulationId, id),
			isFileEnabled: toFile,
		}
		nodeLogs[id] = log
		if log.isFileEnabled {
			log.createLogFile()
		}
	} else {
		log.isFileEnabled = toFile
		if log.isFileEnabled && log.logFile == nil {
			log.openLogFile()
		}
	}
	return log
}

func getLogFileName(simId int, nodeId NodeId) string {
	return fmt.Sprintf("tmp/%d_%d.log", simId, nodeId)
}

func (nl *NodeLogger) createLogFile() {
	var err error
	nl.logFile, err = os.OpenFile(nl.logFileName, os.O_CREATE|os.O_WRONLY, 0664)
	if err != nil {
		nl.Errorf("", "creating node log file %s failed: %+v", nl.logFileName, err)
		nl.isFileEnabled = false
		return
	}
	nl.writeLogFileHeader()
	nl.Debugf("", "node log file '%s' created", nl.logFileName)
}

func (nl *NodeLogger) openLogFile() {
	AssertTrue(nl.logFile == nil)

	var err error
	nl.logFile, err = os.OpenFile(nl.logFileName, os.O_APPEND|os.O_WRONLY, 0664)
	if err != nil {
		nl.Errorf("", "opening node log file %s failed: %+v", nl.logFileName, err)
		nl.isFileEnabled = false
		return
	}
	nl.writeLogFileHeader()
	nl.Debugf("", "node log file '%s' opened", nl.logFileName)
}

func (nl *NodeLogger) writeLogFileHeader() {
	header := fmt.Sprintf("# log for %s created %s\n", GetNodeName(nl.Id), time.Now().Format(time.RFC3339)) +
		"# simTimeUs;nodeId;state;tag;level;message"
	_ = nl.writeToLogFile(header)
}

// SetState records the node's current controller state, attached to every subsequent log line
// until the next SetState call.
func (nl *NodeLogger) SetState(s NodeState) {
	nl.State = s
}

func nodeLogf(nodeid NodeId, level Level, tag string, format string, args ...interface{}) {
	log := nodeLogs[nodeid]
	if log == nil {
		return
	}
	if level > log.CurrentLevel && !log.isFileEnabled {
		return
	}
	msg := getMessage(format, args)
	entry := nodeLogEntry{
		NodeId: nodeid,
		State:  log.State,
		Tag:    tag,
		Level:  level,
		Msg:    msg,
	}
	select {
	case log.entries <- entry:
		break
	default:
		log.DisplayPendingLogEntries(log.timestampUs)
		log.entries <- entry
	}
}

func (nl *NodeLogger) Tracef(tag string, format string, args ...interface{}) {
	if TraceLevel > nl.CurrentLevel {
		return
	}
	nodeLogf(nl.Id, TraceLevel, tag, format, args...)
}

func (nl *NodeLogger) Debugf(tag string, format string, args ...interface{}) {
	nodeLogf(nl.Id, DebugLevel, tag, format, args...)
}

func (nl *NodeLogger) Infof(tag string, format string, args ...interface{}) {
	nodeLogf(nl.Id, InfoLevel, tag, format, args...)
}

func (nl *NodeLogger) Warnf(tag string, format string, args ...interface{}) {
	nodeLogf(nl.Id, WarnLevel, tag, format, args...)
}

func (nl *NodeLogger) Errorf(tag string, format string, args ...interface{}) {
	nodeLogf(nl.Id, ErrorLevel, tag, format, args...)
}

func (nl *NodeLogger) Error(tag string, err error) {
	if err == nil {
		return
	}
	nodeLogf(nl.Id, ErrorLevel, tag, "error: %v", err)
}

func (nl *NodeLogger) writeToLogFile(line string) error {
	if !nl.isFileEnabled {
		return nil
	}
	_, err := nl.logFile.WriteString(line + "\n")
	if err != nil {
		nl.Close()
		nl.isFileEnabled = false
		nl.Errorf("", "couldn't write to node log file (%s), closing it", nl.logFileName)
	}
	return err
}

// DisplayPendingLogEntries flushes all pending log entries for the node at simulation time ts.
func (nl *NodeLogger) DisplayPendingLogEntries(ts uint64) {
	nl.timestampUs = ts
	nodeStr := GetNodeName(nl.Id)
	for {
		select {
		case ent := <-nl.entries:
			line := fmt.Sprintf("%d;%d;%s;%s;%s;%s", ts, ent.NodeId, ent.State, ent.Tag,
				levelMarker[ent.Level], ent.Msg)
			isDisplayEntry := nl.CurrentLevel >= ent.Level
			if ent.Level <= DebugLevel || isDisplayEntry {
				_ = nl.writeToLogFile(line)
			}
			if isDisplayEntry {
				logAlways(ent.Level, nodeStr+" "+line)
			}
			break
		default:
			return
		}
	}
}

func (nl *NodeLogger) Close() {
	if nl.logFile != nil {
		_ = nl.logFile.Sync()
		_ = nl.logFile.Close()
		nl.logFile = nil
	}
}
