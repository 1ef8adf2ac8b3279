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
	"apsim/core"
)

//----------------------------------------------------------------------
// Reference shortest paths: a centralized Dijkstra per source over the
// full topology. The protocols under test never see these results;
// they only serve to verify the distributed outcome after the run.
//----------------------------------------------------------------------

// Dijkstra computes the shortest-path costs from one source. Nodes
// not in the result map are unreachable from the source. The simple
// O(n²) scan is fine at simulation scale.
func Dijkstra(g *core.Topology, src core.NodeID) map[core.NodeID]int64 {
	dist := make(map[core.NodeID]int64)
	done := make(map[core.NodeID]bool)
	dist[src] = 0
	for {
		// closest unfinished node
		best := core.NodeID(0)
		bestCost := int64(-1)
		for _, id := range g.Nodes() {
			if done[id] {
				continue
			}
			if c, ok := dist[id]; ok && (bestCost < 0 || c < bestCost) {
				best, bestCost = id, c
			}
		}
		if bestCost < 0 {
			break
		}
		done[best] = true
		for _, nb := range g.Neighbors(best) {
			cand := bestCost + nb.Weight
			if c, ok := dist[nb.ID]; !ok || cand < c {
				dist[nb.ID] = cand
			}
		}
	}
	return dist
}

// AllPairs computes the reference costs for every source node.
func AllPairs(g *core.Topology) map[core.NodeID]map[core.NodeID]int64 {
	out := make(map[core.NodeID]map[core.NodeID]int64, g.NumNodes())
	for _, id := range g.Nodes() {
		out[id] = Dijkstra(g, id)
	}
	return out
}

// Accuracy compares the routing tables of a run against the reference
// costs. It returns the number of checked pairs and the number of
// deviations; a missing entry for a reachable pair (or vice versa)
// counts as a deviation.
func Accuracy(g *core.Topology, tables map[core.NodeID]map[core.NodeID]core.Route) (total, wrong int) {
	ref := AllPairs(g)
	for _, from := range g.Nodes() {
		tbl := tables[from]
		for _, to := range g.Nodes() {
			total++
			want, reachable := ref[from][to]
			got, present := tbl[to]
			switch {
			case reachable != present:
				wrong++
			case present && got.Cost != want:
				wrong++
			}
		}
	}
	return
}
