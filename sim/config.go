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
	"encoding/json"
	"math/rand"
	"os"

	"apsim/core"
)

// Random generator (deterministic) for reproducible experiments
var Random = rand.New(rand.NewSource(19031962)) //nolint:gosec // deterministic testing

// EnvironCfg holds configuration data for generated topologies
type EnvironCfg struct {
	Class     string  `json:"class"`     // path, ring, complete, random, geometric
	NumNodes  int     `json:"numNodes"`  // number of nodes
	Width     float64 `json:"width"`     // plane width (geometric class)
	Height    float64 `json:"height"`    // plane height (geometric class)
	Reach2    float64 `json:"reach2"`    // squared radio range (geometric class)
	Prob      float64 `json:"prob"`      // link probability (random class)
	MinWeight int64   `json:"minWeight"` // lower bound for random edge weights
	MaxWeight int64   `json:"maxWeight"` // upper bound for random edge weights
}

// DataCfg references real-world flight data for topology import
type DataCfg struct {
	Airports string `json:"airports"` // airports file (OpenFlights format)
	Routes   string `json:"routes"`   // routes file (OpenFlights format)
	TopN     int    `json:"topN"`     // keep the busiest N airports
}

// RenderCfg options
type RenderCfg struct {
	Mode string `json:"mode"` // "svg" or "none"
	File string `json:"file"` // output file
}

// Option for control flags/values
type Option struct {
	Variants []string  `json:"variants"` // protocol variants to run
	Sizes    []int     `json:"sizes"`    // node counts for the scale experiment
	Probs    []float64 `json:"probs"`    // link probabilities for the connectivity experiment
	Out      string    `json:"out"`      // results file (JSON)
}

// Config for simulation runs and experiments
type Config struct {
	Core    *core.Config `json:"core"`
	Env     *EnvironCfg  `json:"environment"`
	Data    *DataCfg     `json:"data"`
	Options *Option      `json:"options"`
	Render  *RenderCfg   `json:"render"`
}

// Cfg is the global configuration
var Cfg = &Config{
	Core: core.DefaultConfig(),
	Env: &EnvironCfg{
		Class:     "random",
		NumNodes:  30,
		Width:     100.,
		Height:    100.,
		Reach2:    900.,
		Prob:      0.2,
		MinWeight: 1,
		MaxWeight: 10,
	},
	Data: &DataCfg{
		TopN: 50,
	},
	Options: &Option{
		Variants: []string{string(core.VariantToueg), string(core.VariantFloyd)},
		Sizes:    []int{5, 10, 20, 40},
		Probs:    []float64{0.1, 0.2, 0.4, 0.8},
	},
	Render: &RenderCfg{
		Mode: "none",
	},
}

//----------------------------------------------------------------------

// ReadConfig to deserialize a configuration from a JSON file
func ReadConfig(fn string) error {
	data, err := os.ReadFile(fn)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &Cfg)
}
