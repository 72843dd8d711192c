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

// Package config defines the scenario-default and per-node configuration structs exchanged
// over the Agent/Central-Controller hand-off, and the validation that aborts before Start on
// malformed scenario input (spec section 7, "Configuration errors").
package config

import (
	"gopkg.in/yaml.v3"

	"github.com/wlanax-sim/wlanax-ns/types"
)

// SystemDefaults mirrors the scenario's system-level CSV file: subchannel count, basic
// bandwidth, CW defaults, PDF choice, PHY model, aggregation bound, co-channel model,
// capture-effect threshold, constant PER, and logging switches.
type SystemDefaults struct {
	NumChannels         int                       `yaml:"num_channels"`
	BasicBandwidth      types.Bandwidth           `yaml:"basic_bandwidth"`
	CwMin               int                       `yaml:"cw_min"`
	CwMax               int                       `yaml:"cw_max"`
	StageMax            int                       `yaml:"stage_max"`
	BackoffPdf          types.BackoffPdf          `yaml:"backoff_pdf"`
	PathLossModel       types.PathLossModel       `yaml:"path_loss_model"`
	AggregationBound    int                       `yaml:"aggregation_bound"`
	AdjacentChannelRule types.AdjacentChannelRule `yaml:"adjacent_channel_rule"`
	CaptureModel        types.CaptureEffectModel  `yaml:"capture_model"`
	CaptureThresholdDb  float64                   `yaml:"capture_threshold_db"`
	ConstantPer         float64                   `yaml:"constant_per"`
	LogToFile           bool                      `yaml:"log_to_file"`
	LogLevel            string                    `yaml:"log_level"`
}

// NodeConfig mirrors one row of the scenario's nodes CSV file: id, code, type, position,
// primary/min/max channel, default TX power/PD, WLAN code, BSS color, SRG and OBSS/PD
// thresholds, traffic parameters, CB policy and backoff type.
type NodeConfig struct {
	Id                types.NodeId        `yaml:"id"`
	Code              string              `yaml:"code"`
	Role              types.Role          `yaml:"role"`
	Position          types.Position      `yaml:"position"`
	PrimaryChannel    types.ChannelId     `yaml:"primary_channel"`
	MinChannel        types.ChannelId     `yaml:"min_channel"`
	MaxChannel        types.ChannelId     `yaml:"max_channel"`
	DefaultTxPowerDbm float64             `yaml:"default_tx_power_dbm"`
	DefaultPdDbm      float64             `yaml:"default_pd_dbm"`
	WlanCode          string              `yaml:"wlan_code"`
	BssColor          int                 `yaml:"bss_color"`
	Srg               int                 `yaml:"srg"`
	SrgObssPd         float64             `yaml:"srg_obss_pd"`
	NonSrgObssPd      float64             `yaml:"non_srg_obss_pd"`
	TrafficRateBps    float64             `yaml:"traffic_rate_bps"`
	CbPolicy          types.CbPolicy      `yaml:"cb_policy"`
	BackoffMode       types.BackoffMode   `yaml:"backoff_mode"`
}

// Configuration is the payload exchanged in the Agent/Central-Controller hand-off: primary
// channel, PD or OBSS/PD, TX power, max bandwidth, and optional Spatial Reuse fields. It is
// what ReceiveConfiguration accepts and what an AP rebroadcasts via SetNewWlanConfiguration.
type Configuration struct {
	PrimaryChannel types.ChannelId `yaml:"primary_channel"`
	PdDbm          float64         `yaml:"pd_dbm"`
	TxPowerDbm     float64         `yaml:"tx_power_dbm"`
	MaxChannel     types.ChannelId `yaml:"max_channel"`
	CbPolicy       types.CbPolicy  `yaml:"cb_policy"`
	SrEnabled      bool            `yaml:"sr_enabled"`
	BssColor       int             `yaml:"bss_color"`
	Srg            int             `yaml:"srg"`
	SrgObssPd      float64         `yaml:"srg_obss_pd"`
	NonSrgObssPd   float64         `yaml:"non_srg_obss_pd"`
}

// Performance is the report a node returns alongside its current Configuration when asked.
type Performance struct {
	Sent             uint64  `yaml:"sent"`
	Acked            uint64  `yaml:"acked"`
	Lost             uint64  `yaml:"lost"`
	ThroughputBps    float64 `yaml:"throughput_bps"`
	AvgAccessDelayUs float64 `yaml:"avg_access_delay_us"`
}

// Agent is implemented by a node for the Agent/Central-Controller hand-off (spec section 6,
// "External interfaces").
type Agent interface {
	// ReceiveRequest answers a poll with the node's current Configuration and Performance.
	ReceiveRequest() (Configuration, Performance)
	// ReceiveConfiguration accepts a new Configuration, applied on the node's next return to
	// Sensing or Nav.
	ReceiveConfiguration(cfg Configuration)
	// SetNewWlanConfiguration is the AP-only emission broadcasting cfg to its associated STAs.
	SetNewWlanConfiguration(cfg Configuration)
}

// Marshal renders v (a SystemDefaults or Configuration) as YAML.
func Marshal(v interface{}) ([]byte, error) {
	return yaml.Marshal(v)
}

// UnmarshalSystemDefaults parses a YAML system-defaults document.
func UnmarshalSystemDefaults(data []byte) (SystemDefaults, error) {
	var sys SystemDefaults
	err := yaml.Unmarshal(data, &sys)
	return sys, err
}

// UnmarshalNodeConfig parses a YAML node-config document.
func UnmarshalNodeConfig(data []byte) (NodeConfig, error) {
	var cfg NodeConfig
	err := yaml.Unmarshal(data, &cfg)
	return cfg, err
}
