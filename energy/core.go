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
	"fmt"
	"os"
	"sort"

	"github.com/wlanax-sim/wlanax-ns/logger"
)

// NodeSnapshot is one node's instantaneous energy breakdown, in millijoules, by radio activity.
type NodeSnapshot struct {
	NodeId int
	Idle   float64
	Sleep  float64
	Tx     float64
	Rx     float64
}

// Analyser accumulates per-node radio-state dwell time across a run and periodically snapshots
// it into a network-wide energy history, mirroring the teacher's energy bookkeeping generalized
// from the four-bucket {Tx,Rx,Sleep,Disabled} model to this system's class-of-14-states mapping.
type Analyser struct {
	nodes                map[int]*NodeEnergy
	networkHistory       []NetworkConsumption
	energyHistoryByNodes [][]NodeSnapshot
	title                string
}

// NewAnalyser creates an empty energy analyser whose history slices are pre-sized for 3600
// snapshots.
func NewAnalyser() *Analyser {
	return &Analyser{
		nodes:                make(map[int]*NodeEnergy),
		networkHistory:       make([]NetworkConsumption, 0, 3600),
		energyHistoryByNodes: make([][]NodeSnapshot, 0, 3600),
	}
}

// AddNode begins tracking a node, starting in StateSleep at timestamp.
func (a *Analyser) AddNode(nodeID int, timestamp uint64) {
	if _, ok := a.nodes[nodeID]; ok {
		return
	}
	a.nodes[nodeID] = newNode(nodeID, timestamp)
}

// DeleteNode stops tracking a node. The run's history is cleared once no nodes remain, since a
// snapshot average over zero nodes is meaningless.
func (a *Analyser) DeleteNode(nodeID int) {
	delete(a.nodes, nodeID)
	if len(a.nodes) == 0 {
		a.ClearEnergyData()
	}
}

// GetNode returns the tracked energy state for a node, or nil if it isn't tracked.
func (a *Analyser) GetNode(nodeID int) *NodeEnergy {
	return a.nodes[nodeID]
}

// GetNetworkEnergyHistory returns every network-wide snapshot taken so far.
func (a *Analyser) GetNetworkEnergyHistory() []NetworkConsumption {
	return a.networkHistory
}

// GetEnergyHistoryByNodes returns every per-node snapshot set taken so far.
func (a *Analyser) GetEnergyHistoryByNodes() [][]NodeSnapshot {
	return a.energyHistoryByNodes
}

// GetLatestEnergyOfNodes returns the most recent per-node snapshot set.
func (a *Analyser) GetLatestEnergyOfNodes() []NodeSnapshot {
	if len(a.energyHistoryByNodes) == 0 {
		return nil
	}
	return a.energyHistoryByNodes[len(a.energyHistoryByNodes)-1]
}

// StoreNetworkEnergy folds every tracked node's dwell time up to timestamp into a new snapshot.
func (a *Analyser) StoreNetworkEnergy(timestamp uint64) {
	snapshot := make([]NodeSnapshot, 0, len(a.nodes))
	network := NetworkConsumption{Timestamp: timestamp}
	netSize := float64(len(a.nodes))
	if netSize == 0 {
		return
	}

	for _, node := range a.nodes {
		node.ComputeState(timestamp)

		ns := NodeSnapshot{
			NodeId: node.nodeId,
			Idle:   float64(node.radio.SpentByClass[ClassIdle]) * consumptionKw(ClassIdle),
			Sleep:  float64(node.radio.SpentByClass[ClassSleep]) * consumptionKw(ClassSleep),
			Tx:     float64(node.radio.SpentByClass[ClassTx]) * consumptionKw(ClassTx),
			Rx:     float64(node.radio.SpentByClass[ClassRx]) * consumptionKw(ClassRx),
		}

		network.EnergyConsIdle += ns.Idle / netSize
		network.EnergyConsSleep += ns.Sleep / netSize
		network.EnergyConsTx += ns.Tx / netSize
		network.EnergyConsRx += ns.Rx / netSize
		snapshot = append(snapshot, ns)
	}

	a.networkHistory = append(a.networkHistory, network)
	a.energyHistoryByNodes = append(a.energyHistoryByNodes, snapshot)
}

// SaveEnergyDataToFile writes the per-node and network-wide energy history to two text files
// under ./energy_results, named after name (or the analyser's title, or "energy" if neither
// is set).
func (a *Analyser) SaveEnergyDataToFile(name string, timestamp uint64) {
	if name == "" {
		if a.title == "" {
			name = "energy"
		} else {
			name = a.title
		}
	}

	dir, _ := os.Getwd()
	if _, err := os.Stat(dir + "/energy_results"); os.IsNotExist(err) {
		if err := os.Mkdir(dir+"/energy_results", 0777); err != nil {
			logger.Error("failed to create energy_results directory")
			return
		}
	}

	path := fmt.Sprintf("%s/energy_results/%s", dir, name)
	fileNodes, err := os.Create(path + "_nodes.txt")
	if err != nil {
		logger.Errorf("error creating file: %v", err)
		return
	}
	defer fileNodes.Close()

	fileNetwork, err := os.Create(path + ".txt")
	if err != nil {
		logger.Errorf("error creating file: %v", err)
		return
	}
	defer fileNetwork.Close()

	a.writeEnergyByNodes(fileNodes, timestamp)
	a.writeNetworkEnergy(fileNetwork, timestamp)
}

func (a *Analyser) writeEnergyByNodes(f *os.File, timestamp uint64) {
	fmt.Fprintf(f, "Duration of the simulated network (in milliseconds): %d\n", timestamp/1000)
	fmt.Fprintf(f, "ID\tIdle (mJ)\tSleep (mJ)\tTransmitting (mJ)\tReceiving (mJ)\n")

	sortedNodes := make([]int, 0, len(a.nodes))
	for id := range a.nodes {
		sortedNodes = append(sortedNodes, id)
	}
	sort.Ints(sortedNodes)

	for _, id := range sortedNodes {
		node := a.nodes[id]
		fmt.Fprintf(f, "%d\t%f\t%f\t%f\t%f\n",
			id,
			float64(node.radio.SpentByClass[ClassIdle])*consumptionKw(ClassIdle),
			float64(node.radio.SpentByClass[ClassSleep])*consumptionKw(ClassSleep),
			float64(node.radio.SpentByClass[ClassTx])*consumptionKw(ClassTx),
			float64(node.radio.SpentByClass[ClassRx])*consumptionKw(ClassRx),
		)
	}
}

func (a *Analyser) writeNetworkEnergy(f *os.File, timestamp uint64) {
	fmt.Fprintf(f, "Duration of the simulated network (in milliseconds): %d\n", timestamp/1000)
	fmt.Fprintf(f, "Time (ms)\tIdle (mJ)\tSleep (mJ)\tTransmitting (mJ)\tReceiving (mJ)\n")
	for _, snapshot := range a.networkHistory {
		fmt.Fprintf(f, "%d\t%f\t%f\t%f\t%f\n",
			snapshot.Timestamp/1000,
			snapshot.EnergyConsIdle,
			snapshot.EnergyConsSleep,
			snapshot.EnergyConsTx,
			snapshot.EnergyConsRx,
		)
	}
}

// ClearEnergyData discards all history, e.g. when the last tracked node is removed.
func (a *Analyser) ClearEnergyData() {
	logger.Debugf("energy history cleared")
	a.networkHistory = make([]NetworkConsumption, 0, 3600)
	a.energyHistoryByNodes = make([][]NodeSnapshot, 0, 3600)
}

// SetTitle sets the default file-name stem used by SaveEnergyDataToFile.
func (a *Analyser) SetTitle(title string) {
	a.title = title
}
