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

package core

import "fmt"

// Delay models for message delivery
const (
	DelayZero    = "zero"    // synchronous delivery (at current time)
	DelayFixed   = "fixed"   // constant delay
	DelayUniform = "uniform" // uniform random delay in [min,max]
)

// Config for a simulation run. It is passed explicitly to the driver;
// there is no process-wide configuration state in the engine.
type Config struct {
	Delay     string `json:"delay"`     // delay model (see consts)
	DelayTime Time   `json:"delayTime"` // fixed delay (µs)
	DelayMin  Time   `json:"delayMin"`  // uniform delay lower bound (µs)
	DelayMax  Time   `json:"delayMax"`  // uniform delay upper bound (µs)
	Seed      int64  `json:"seed"`      // delay model seed
	MaxEvents uint64 `json:"maxEvents"` // safety bound on delivered events
}

// DefaultConfig returns a synchronous, bounded configuration.
func DefaultConfig() *Config {
	return &Config{
		Delay:     DelayZero,
		DelayTime: Millisecond,
		DelayMin:  Millisecond,
		DelayMax:  10 * Millisecond,
		Seed:      19031962,
		MaxEvents: 10_000_000,
	}
}

// check validates a configuration and fills in defaults.
func (c *Config) check() error {
	if c.MaxEvents == 0 {
		c.MaxEvents = DefaultConfig().MaxEvents
	}
	switch c.Delay {
	case "":
		c.Delay = DelayZero
	case DelayZero:
	case DelayFixed:
		if c.DelayTime < 0 {
			return fmt.Errorf("config: negative fixed delay %d", c.DelayTime)
		}
	case DelayUniform:
		if c.DelayMin < 0 || c.DelayMax < c.DelayMin {
			return fmt.Errorf("config: invalid uniform delay range [%d,%d]", c.DelayMin, c.DelayMax)
		}
	default:
		return fmt.Errorf("config: unknown delay model '%s'", c.Delay)
	}
	return nil
}
