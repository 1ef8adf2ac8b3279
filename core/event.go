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

// Event types
const (
	EvRoundStarted   = 1 // node entered a new pivot round
	EvRoundConverged = 2 // pivot received completion reports from all children
	EvTableImproved  = 3 // relaxation improved at least one table entry
	EvStaleDropped   = 4 // duplicate/stale message dropped after comparison
	EvQuiescent      = 5 // flooding node fell back to quiescent state
)

// Event is emitted by the simulation if something interesting happens.
type Event struct {
	Type  int    // event type (see consts)
	Node  NodeID // node the event happened on
	Pivot NodeID // pivot of the affected round (tree protocol only)
	At    Time   // virtual time of the event
}

// Listener for simulation events
type Listener func(*Event)
