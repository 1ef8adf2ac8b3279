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

import (
	"fmt"
	"time"
)

//----------------------------------------------------------------------
// Time is purely virtual: the clock only advances when the next event
// is popped from the queue, so a run is independent of wall-clock
// speed and of the magnitude of the configured delays.
//----------------------------------------------------------------------

// Time is the number of microseconds of simulated time since run start.
type Time int64

// Time units (microsecond granularity)
const (
	Microsecond Time = 1
	Millisecond      = 1000 * Microsecond
	Second           = 1000 * Millisecond
)

// Seconds returns the time as fractional seconds.
func (t Time) Seconds() float64 {
	return float64(t) / float64(Second)
}

// String returns a human-readable timestamp.
func (t Time) String() string {
	return fmt.Sprintf("T+%s", time.Duration(1000*t))
}
