//----------------------------------------------------------------------
// This file is part of apsim.
// Copyright (C) 2023 Bernd Fix >Y<
//
// apsim is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// apsim is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package sim

import (
	"fmt"
	"log"

	"apsim/core"
)

//----------------------------------------------------------------------
// Experiments: run both protocol variants over the same topologies
// and collect comparable traffic figures. Each run is verified against
// the centralized reference before its numbers enter the result set.
//----------------------------------------------------------------------

// RunStats is one row of an experiment result table.
type RunStats struct {
	Experiment string    `json:"experiment"` // experiment name
	Point      string    `json:"point"`      // parameter point (e.g. "n=20")
	Variant    string    `json:"variant"`    // protocol variant
	Nodes      int       `json:"nodes"`      // topology size
	Edges      int       `json:"edges"`      // directed edge count
	Converged  bool      `json:"converged"`  // run terminated by itself
	Elapsed    core.Time `json:"elapsed"`    // virtual time until termination
	Messages   uint64    `json:"messages"`   // total messages sent
	Bits       uint64    `json:"bits"`       // total bits transmitted
	Stale      uint64    `json:"stale"`      // stale messages dropped
	Events     uint64    `json:"events"`     // deliveries processed
	Accuracy   float64   `json:"accuracy"`   // fraction of correct table entries
	Delivery   float64   `json:"delivery"`   // fraction of routed pairs delivered
}

// RunVariant executes one protocol variant over a topology and
// verifies the outcome.
func RunVariant(exp, point string, mdl *Model, variant core.Variant, cfg *core.Config) (*RunStats, error) {
	drv, err := core.NewDriver(mdl.Graph, variant, cfg)
	if err != nil {
		return nil, err
	}
	res := drv.Run(nil)
	total, wrong := Accuracy(mdl.Graph, res.Tables)
	fwd := Check(mdl.Graph, res.Tables)
	stats := &RunStats{
		Experiment: exp,
		Point:      point,
		Variant:    string(variant),
		Nodes:      mdl.Graph.NumNodes(),
		Edges:      mdl.Graph.NumEdges(),
		Converged:  res.Converged,
		Elapsed:    res.Elapsed,
		Messages:   res.Messages,
		Bits:       res.Bits,
		Stale:      res.Stale,
		Events:     res.Events,
		Accuracy:   1,
		Delivery:   1,
	}
	if total > 0 {
		stats.Accuracy = float64(total-wrong) / float64(total)
	}
	if fwd.Pairs > 0 {
		stats.Delivery = float64(fwd.Success) / float64(fwd.Pairs)
	}
	return stats, nil
}

// Compare runs all configured variants over the same topology.
func Compare(exp, point string, mdl *Model, opts *Option, cfg *core.Config) ([]*RunStats, error) {
	var out []*RunStats
	for _, v := range opts.Variants {
		stats, err := RunVariant(exp, point, mdl, core.Variant(v), cfg)
		if err != nil {
			return nil, err
		}
		log.Printf("[%s] %s", exp, stats)
		out = append(out, stats)
	}
	return out, nil
}

// ScaleExperiment compares the variants over growing topologies of
// the configured class.
func ScaleExperiment(cfg *Config) (out []*RunStats, err error) {
	env := *cfg.Env
	for _, n := range cfg.Options.Sizes {
		env.NumNodes = n
		mdl, err := Build(&env)
		if err != nil {
			return nil, err
		}
		mdl = mdl.LargestComponent()
		stats, err := Compare("scale", fmt.Sprintf("n=%d", n), mdl, cfg.Options, cfg.Core)
		if err != nil {
			return nil, err
		}
		out = append(out, stats...)
	}
	return
}

// ConnectivityExperiment compares the variants over random graphs of
// fixed size and varying link probability.
func ConnectivityExperiment(cfg *Config) (out []*RunStats, err error) {
	env := *cfg.Env
	env.Class = "random"
	for _, p := range cfg.Options.Probs {
		env.Prob = p
		mdl, err := Build(&env)
		if err != nil {
			return nil, err
		}
		mdl = mdl.LargestComponent()
		stats, err := Compare("connectivity", fmt.Sprintf("p=%.2f", p), mdl, cfg.Options, cfg.Core)
		if err != nil {
			return nil, err
		}
		out = append(out, stats...)
	}
	return
}

// ComplexityExperiment compares the message and bit complexity of the
// variants on dense (complete) graphs, where the flooding overhead is
// most pronounced.
func ComplexityExperiment(cfg *Config) (out []*RunStats, err error) {
	for _, n := range cfg.Options.Sizes {
		mdl := BuildComplete(n, cfg.Env.MinWeight)
		stats, err := Compare("complexity", fmt.Sprintf("n=%d", n), mdl, cfg.Options, cfg.Core)
		if err != nil {
			return nil, err
		}
		out = append(out, stats...)
	}
	return
}

// FlightExperiment compares the variants over the imported flight
// topology.
func FlightExperiment(cfg *Config) ([]*RunStats, error) {
	mdl, err := LoadFlightGraph(cfg.Data)
	if err != nil {
		return nil, err
	}
	log.Printf("[flights] %s", mdl.Graph)
	return Compare("flights", fmt.Sprintf("top=%d", cfg.Data.TopN), mdl, cfg.Options, cfg.Core)
}

// String returns a human-readable result row.
func (s *RunStats) String() string {
	return fmt.Sprintf("%s/%s: %d nodes, %d msgs, %d bits, %s, acc %.3f, dlv %.3f, converged %v",
		s.Point, s.Variant, s.Nodes, s.Messages, s.Bits, s.Elapsed, s.Accuracy, s.Delivery, s.Converged)
}
