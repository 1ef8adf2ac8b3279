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
	"sort"
	"strings"
)

//----------------------------------------------------------------------
// Distance table: each node keeps its best known cost and next hop for
// every destination it has learned about. A destination without an
// entry is explicitly unreachable; no sentinel "infinite" cost ever
// enters the table, so a disconnected pair can never end up with an
// erroneous finite value.
//
// Only the owning node mutates its table, and all mutation funnels
// through Relax; the event loop serializes access, so no locking.
//----------------------------------------------------------------------

// Entry holds the best known route to one destination.
type Entry struct {
	Cost    int64  // cost of the best known path
	NextHop NodeID // first hop on that path (self for the own entry)
}

// Table maps destinations to their best known routes.
type Table struct {
	self NodeID
	list map[NodeID]*Entry
}

// NewTable creates a table holding only the self entry (cost zero).
func NewTable(self NodeID) *Table {
	t := &Table{
		self: self,
		list: make(map[NodeID]*Entry),
	}
	t.list[self] = &Entry{Cost: 0, NextHop: self}
	return t
}

// Lookup returns the entry for a destination; ok is false if the
// destination is (still) unreachable.
func (t *Table) Lookup(dst NodeID) (e *Entry, ok bool) {
	e, ok = t.list[dst]
	return
}

// Cost returns the best known cost to a destination.
func (t *Table) Cost(dst NodeID) (int64, bool) {
	if e, ok := t.list[dst]; ok {
		return e.Cost, true
	}
	return 0, false
}

// NextHop returns the first hop towards a destination.
func (t *Table) NextHop(dst NodeID) (NodeID, bool) {
	if e, ok := t.list[dst]; ok {
		return e.NextHop, true
	}
	return 0, false
}

// Relax updates the route to dst if the candidate cost is a strict
// improvement. Strict comparison keeps the earliest of equal-cost
// candidates and makes re-delivery of any processed vector a no-op.
func (t *Table) Relax(dst NodeID, cost int64, hop NodeID) bool {
	if dst == t.self {
		return false
	}
	if e, ok := t.list[dst]; ok {
		if cost >= e.Cost {
			return false
		}
		e.Cost = cost
		e.NextHop = hop
		return true
	}
	t.list[dst] = &Entry{Cost: cost, NextHop: hop}
	return true
}

// Vector returns a snapshot of the table as a serializable distance
// vector, sorted by destination for deterministic messages.
func (t *Table) Vector() []*DistEntry {
	vec := make([]*DistEntry, 0, len(t.list))
	for dst, e := range t.list {
		vec = append(vec, &DistEntry{Dest: uint32(dst), Cost: e.Cost})
	}
	sort.Slice(vec, func(i, j int) bool { return vec[i].Dest < vec[j].Dest })
	return vec
}

// Routes returns a copy of all entries (the run result boundary).
func (t *Table) Routes() map[NodeID]Route {
	out := make(map[NodeID]Route, len(t.list))
	for dst, e := range t.list {
		out[dst] = Route{Cost: e.Cost, NextHop: e.NextHop}
	}
	return out
}

// Len returns the number of reachable destinations (incl. self).
func (t *Table) Len() int {
	return len(t.list)
}

// String returns a human-readable representation of the table.
func (t *Table) String() string {
	vec := t.Vector()
	entries := make([]string, 0, len(vec))
	for _, e := range vec {
		hop := t.list[NodeID(e.Dest)].NextHop
		entries = append(entries, fmt.Sprintf("{%d,%d,%d}", e.Dest, e.Cost, hop))
	}
	return fmt.Sprintf("Table{%d: [%s]}", t.self, strings.Join(entries, ","))
}
