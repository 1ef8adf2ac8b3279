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

	"apsim/core"
)

//----------------------------------------------------------------------
// Forwarding check: actually follow the next-hop pointers of the final
// routing tables. A correct table set delivers every reachable pair
// without loops, and the accumulated link costs match the table cost.
//----------------------------------------------------------------------

// Route following outcomes
const (
	RouteSuccess = iota // destination reached
	RouteLoop           // next hops cycled
	RouteBroken         // next hop missing or not a neighbor
)

// Forward follows the next-hop pointers from one node to another. It
// returns the hop count, the accumulated link cost and the outcome.
func Forward(g *core.Topology, tables map[core.NodeID]map[core.NodeID]core.Route, from, to core.NodeID) (hops int, cost int64, status int) {
	visited := make(map[core.NodeID]bool)
	cur := from
	for cur != to {
		if visited[cur] {
			return hops, cost, RouteLoop
		}
		visited[cur] = true
		rt, ok := tables[cur][to]
		if !ok {
			return hops, cost, RouteBroken
		}
		found := false
		for _, nb := range g.Neighbors(cur) {
			if nb.ID == rt.NextHop {
				cost += nb.Weight
				found = true
				break
			}
		}
		if !found {
			return hops, cost, RouteBroken
		}
		cur = rt.NextHop
		hops++
	}
	return hops, cost, RouteSuccess
}

// ForwardStats summarizes route following over all node pairs.
type ForwardStats struct {
	Pairs    int // node pairs with a table entry
	Success  int // destination reached
	Loops    int // forwarding loops
	Broken   int // dead ends
	CostErrs int // path cost deviates from table cost
}

// Check follows every routed pair and tallies the outcomes.
func Check(g *core.Topology, tables map[core.NodeID]map[core.NodeID]core.Route) *ForwardStats {
	stats := new(ForwardStats)
	for _, from := range g.Nodes() {
		for _, to := range g.Nodes() {
			if from == to {
				continue
			}
			rt, ok := tables[from][to]
			if !ok {
				continue
			}
			stats.Pairs++
			_, cost, status := Forward(g, tables, from, to)
			switch status {
			case RouteSuccess:
				stats.Success++
				if cost != rt.Cost {
					stats.CostErrs++
				}
			case RouteLoop:
				stats.Loops++
			case RouteBroken:
				stats.Broken++
			}
		}
	}
	return stats
}

// String returns a human-readable summary.
func (s *ForwardStats) String() string {
	return fmt.Sprintf("Forwarding{%d pairs: %d ok, %d loops, %d broken, %d cost errors}",
		s.Pairs, s.Success, s.Loops, s.Broken, s.CostErrs)
}
