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
)

//----------------------------------------------------------------------
// Topology: a directed, weighted graph the simulation runs on. It is
// built once (by a loader or generator outside the core) and stays
// immutable for the whole run. Weights are non-negative integer units;
// shortest-path correctness depends on that invariant, so violations
// are rejected at build time, before any event is scheduled.
//
// Every edge must be paired with a reverse edge (the weights may
// differ per direction): both protocols answer the sender of a
// message over their own edge to it, so a one-way link cannot carry a
// protocol conversation. Validate rejects unpaired edges at load.
//----------------------------------------------------------------------

// NodeID is the stable identifier of a node in the topology.
type NodeID uint32

// Neighbor is an outgoing edge of a node.
type Neighbor struct {
	ID     NodeID // target node
	Weight int64  // edge weight (>= 0)
}

// Topology is an immutable weighted digraph.
type Topology struct {
	ids []NodeID              // sorted node identifiers
	adj map[NodeID][]Neighbor // adjacency lists (sorted by target id)
}

// NewTopology creates an empty topology.
func NewTopology() *Topology {
	return &Topology{
		adj: make(map[NodeID][]Neighbor),
	}
}

// AddNode registers a node identifier. Adding a known node is a no-op.
func (t *Topology) AddNode(id NodeID) {
	if _, ok := t.adj[id]; ok {
		return
	}
	t.adj[id] = nil
	i := sort.Search(len(t.ids), func(i int) bool { return t.ids[i] >= id })
	t.ids = append(t.ids, 0)
	copy(t.ids[i+1:], t.ids[i:])
	t.ids[i] = id
}

// AddEdge inserts a directed edge. Self-loops, negative weights and
// references to unknown nodes are configuration errors. A duplicate
// edge keeps the smaller weight (parallel links collapse to the best).
func (t *Topology) AddEdge(from, to NodeID, weight int64) error {
	if from == to {
		return fmt.Errorf("topology: self-loop on node %d", from)
	}
	if weight < 0 {
		return fmt.Errorf("topology: negative weight %d on edge %d->%d", weight, from, to)
	}
	if _, ok := t.adj[from]; !ok {
		return fmt.Errorf("topology: edge %d->%d references unknown node %d", from, to, from)
	}
	if _, ok := t.adj[to]; !ok {
		return fmt.Errorf("topology: edge %d->%d references unknown node %d", from, to, to)
	}
	list := t.adj[from]
	i := sort.Search(len(list), func(i int) bool { return list[i].ID >= to })
	if i < len(list) && list[i].ID == to {
		if weight < list[i].Weight {
			list[i].Weight = weight
		}
		return nil
	}
	list = append(list, Neighbor{})
	copy(list[i+1:], list[i:])
	list[i] = Neighbor{ID: to, Weight: weight}
	t.adj[from] = list
	return nil
}

// AddLink inserts a bidirectional edge (two directed edges).
func (t *Topology) AddLink(a, b NodeID, weight int64) error {
	if err := t.AddEdge(a, b, weight); err != nil {
		return err
	}
	return t.AddEdge(b, a, weight)
}

// Nodes returns the node identifiers in ascending order.
func (t *Topology) Nodes() []NodeID {
	return t.ids
}

// Neighbors returns the outgoing edges of a node (sorted by target).
func (t *Topology) Neighbors(id NodeID) []Neighbor {
	return t.adj[id]
}

// NumNodes returns the number of nodes.
func (t *Topology) NumNodes() int {
	return len(t.ids)
}

// NumEdges returns the number of directed edges.
func (t *Topology) NumEdges() (n int) {
	for _, list := range t.adj {
		n += len(list)
	}
	return
}

// AvgDegree returns the average out-degree.
func (t *Topology) AvgDegree() float64 {
	if len(t.ids) == 0 {
		return 0
	}
	return float64(t.NumEdges()) / float64(len(t.ids))
}

// HasEdge returns true if the directed edge from->to exists.
func (t *Topology) HasEdge(from, to NodeID) bool {
	list := t.adj[from]
	i := sort.Search(len(list), func(i int) bool { return list[i].ID >= to })
	return i < len(list) && list[i].ID == to
}

// Validate re-checks all topology invariants. AddEdge already rejects
// bad edges; this guards topologies assembled by external loaders and
// enforces the link pairing AddEdge cannot check incrementally.
func (t *Topology) Validate() error {
	for from, list := range t.adj {
		last := NodeID(0)
		for i, nb := range list {
			if nb.ID == from {
				return fmt.Errorf("topology: self-loop on node %d", from)
			}
			if nb.Weight < 0 {
				return fmt.Errorf("topology: negative weight %d on edge %d->%d", nb.Weight, from, nb.ID)
			}
			if _, ok := t.adj[nb.ID]; !ok {
				return fmt.Errorf("topology: dangling edge %d->%d", from, nb.ID)
			}
			if !t.HasEdge(nb.ID, from) {
				return fmt.Errorf("topology: one-way link %d->%d (links must be paired)", from, nb.ID)
			}
			if i > 0 && nb.ID <= last {
				return fmt.Errorf("topology: unsorted adjacency for node %d", from)
			}
			last = nb.ID
		}
	}
	return nil
}

// String returns a human-readable summary.
func (t *Topology) String() string {
	return fmt.Sprintf("Topology{%d nodes, %d edges}", t.NumNodes(), t.NumEdges())
}
