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

package config

import (
	"github.com/pkg/errors"

	"github.com/wlanax-sim/wlanax-ns/mcs"
	"github.com/wlanax-sim/wlanax-ns/types"
)

// ValidateSystemDefaults checks the scenario-wide system file for the fatal conditions named
// in spec section 7 ("Configuration errors"): unknown path-loss model, and CW/stage bounds
// that cannot produce a valid contention window.
func ValidateSystemDefaults(sys SystemDefaults) error {
	if sys.NumChannels <= 0 {
		return errors.Errorf("num_channels must be positive, got %d", sys.NumChannels)
	}
	if sys.PathLossModel > types.PathLossAx11Scenario4a {
		return errors.Errorf("unknown path_loss_model %d", sys.PathLossModel)
	}
	if sys.CaptureModel > types.Capture80211 {
		return errors.Errorf("unknown capture_model %d", sys.CaptureModel)
	}
	if sys.AdjacentChannelRule > types.AdjacentChannelExtreme {
		return errors.Errorf("unknown adjacent_channel_rule %d", sys.AdjacentChannelRule)
	}
	if sys.CwMin <= 0 || sys.CwMax < sys.CwMin {
		return errors.Errorf("invalid CW bounds: cw_min=%d cw_max=%d", sys.CwMin, sys.CwMax)
	}
	if sys.StageMax < 0 {
		return errors.Errorf("stage_max must be non-negative, got %d", sys.StageMax)
	}
	return nil
}

// ValidateNodeConfig checks one node's configuration for the fatal conditions named in spec
// section 6/7: duplicated ids are the caller's concern (it sees every row at once), but the
// per-row checks — primary outside [min..max], channel outside [0..num_channels-1], and a
// default SNR that leaves every MCS width forbidden — are checked here.
func ValidateNodeConfig(cfg NodeConfig, sys SystemDefaults) error {
	if cfg.MinChannel < 0 || cfg.MaxChannel >= sys.NumChannels || cfg.MinChannel > cfg.MaxChannel {
		return errors.Errorf("node %d: channel range [%d..%d] outside [0..%d]",
			cfg.Id, cfg.MinChannel, cfg.MaxChannel, sys.NumChannels-1)
	}
	if cfg.PrimaryChannel < cfg.MinChannel || cfg.PrimaryChannel > cfg.MaxChannel {
		return errors.Errorf("node %d: primary channel %d outside [%d..%d]",
			cfg.Id, cfg.PrimaryChannel, cfg.MinChannel, cfg.MaxChannel)
	}
	if cfg.CbPolicy > types.CbDcbLog2 {
		return errors.Errorf("node %d: unknown cb_policy %d", cfg.Id, cfg.CbPolicy)
	}
	if cfg.BackoffMode > types.BackoffDeterministic {
		return errors.Errorf("node %d: unknown backoff_mode %d", cfg.Id, cfg.BackoffMode)
	}

	row := mcs.NewRowFromSnr(cfg.DefaultTxPowerDbm - cfg.DefaultPdDbm)
	allForbidden := true
	for _, idx := range row.ByWidth {
		if idx != mcs.Forbidden {
			allForbidden = false
			break
		}
	}
	if allForbidden {
		return errors.Errorf(
			"node %d: default tx power %.1f dBm / PD %.1f dBm leaves every MCS width forbidden",
			cfg.Id, cfg.DefaultTxPowerDbm, cfg.DefaultPdDbm)
	}
	return nil
}

// ValidateScenario validates a whole scenario: the system defaults plus every node, catching
// duplicated ids and colliding positions (the latter only a warning, not an abort) in addition
// to the per-node checks.
func ValidateScenario(sys SystemDefaults, nodes []NodeConfig) (warnings []string, err error) {
	if err := ValidateSystemDefaults(sys); err != nil {
		return nil, errors.Wrap(err, "invalid system defaults")
	}

	seenIds := make(map[types.NodeId]bool, len(nodes))
	seenPositions := make(map[types.Position]types.NodeId, len(nodes))
	for _, n := range nodes {
		if seenIds[n.Id] {
			return nil, errors.Errorf("duplicated node id %d", n.Id)
		}
		seenIds[n.Id] = true

		if err := ValidateNodeConfig(n, sys); err != nil {
			return nil, err
		}

		if owner, ok := seenPositions[n.Position]; ok {
			warnings = append(warnings, errors.Errorf(
				"node %d collides in position with node %d", n.Id, owner).Error())
		} else {
			seenPositions[n.Position] = n.Id
		}
	}
	return warnings, nil
}
