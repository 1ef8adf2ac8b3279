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
	"math"
	"sort"

	"apsim/core"
)

//----------------------------------------------------------------------
// Topology builders: generate test graphs for experiments. All
// builders return the graph plus node positions for rendering.
// Generated weights come from the shared random generator, so a run
// with the same configuration rebuilds the same graph.
//----------------------------------------------------------------------

// Position of a node in the drawing plane
type Position struct {
	X, Y float64
}

// Model is a generated or imported topology with rendering metadata.
type Model struct {
	Graph  *core.Topology
	Pos    map[core.NodeID]*Position
	Labels map[core.NodeID]string
}

// Build constructs a topology from the environment configuration.
func Build(env *EnvironCfg) (*Model, error) {
	switch env.Class {
	case "path":
		return BuildPath(env.NumNodes, env.MinWeight), nil
	case "ring":
		return BuildRing(env.NumNodes, env.MinWeight), nil
	case "complete":
		return BuildComplete(env.NumNodes, env.MinWeight), nil
	case "random":
		return BuildRandom(env.NumNodes, env.Prob, env.MinWeight, env.MaxWeight), nil
	case "geometric":
		return BuildGeometric(env), nil
	}
	return nil, fmt.Errorf("builder: unknown topology class '%s'", env.Class)
}

// circular returns n node positions evenly spread on a circle.
func circular(n int) map[core.NodeID]*Position {
	pos := make(map[core.NodeID]*Position, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pos[core.NodeID(i)] = &Position{
			X: 50 + 45*math.Cos(a),
			Y: 50 + 45*math.Sin(a),
		}
	}
	return pos
}

// newModel creates a model with n nodes and no edges yet.
func newModel(n int) *Model {
	g := core.NewTopology()
	for i := 0; i < n; i++ {
		g.AddNode(core.NodeID(i))
	}
	return &Model{Graph: g, Pos: circular(n)}
}

// BuildPath creates a line of n nodes with uniform link weight.
func BuildPath(n int, weight int64) *Model {
	mdl := newModel(n)
	for i := 0; i < n-1; i++ {
		_ = mdl.Graph.AddLink(core.NodeID(i), core.NodeID(i+1), weight)
	}
	return mdl
}

// BuildRing creates a cycle of n nodes with uniform link weight.
func BuildRing(n int, weight int64) *Model {
	mdl := BuildPath(n, weight)
	if n > 2 {
		_ = mdl.Graph.AddLink(core.NodeID(n-1), 0, weight)
	}
	return mdl
}

// BuildComplete creates a fully-meshed graph with uniform link weight.
func BuildComplete(n int, weight int64) *Model {
	mdl := newModel(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			_ = mdl.Graph.AddLink(core.NodeID(i), core.NodeID(j), weight)
		}
	}
	return mdl
}

// BuildRandom creates an Erdős–Rényi graph: each node pair is linked
// with probability p; weights are uniform in [min,max].
func BuildRandom(n int, p float64, min, max int64) *Model {
	mdl := newModel(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if Random.Float64() < p {
				w := min
				if max > min {
					w += Random.Int63n(max - min + 1)
				}
				_ = mdl.Graph.AddLink(core.NodeID(i), core.NodeID(j), w)
			}
		}
	}
	return mdl
}

// BuildGeometric places nodes uniformly on the plane and links all
// pairs within radio range; the link weight is the rounded distance.
func BuildGeometric(env *EnvironCfg) *Model {
	n := env.NumNodes
	mdl := newModel(n)
	for i := 0; i < n; i++ {
		mdl.Pos[core.NodeID(i)] = &Position{
			X: Random.Float64() * env.Width,
			Y: Random.Float64() * env.Height,
		}
	}
	for i := 0; i < n; i++ {
		pi := mdl.Pos[core.NodeID(i)]
		for j := i + 1; j < n; j++ {
			pj := mdl.Pos[core.NodeID(j)]
			dx, dy := pi.X-pj.X, pi.Y-pj.Y
			d2 := dx*dx + dy*dy
			if d2 <= env.Reach2 {
				w := int64(math.Ceil(math.Sqrt(d2)))
				if w < 1 {
					w = 1
				}
				_ = mdl.Graph.AddLink(core.NodeID(i), core.NodeID(j), w)
			}
		}
	}
	return mdl
}

//----------------------------------------------------------------------

// Sparsify removes links randomly, keeping each with probability p.
// Both directions of a link are dropped together.
func (mdl *Model) Sparsify(p float64) *Model {
	out := &Model{
		Graph:  core.NewTopology(),
		Pos:    mdl.Pos,
		Labels: mdl.Labels,
	}
	for _, id := range mdl.Graph.Nodes() {
		out.Graph.AddNode(id)
	}
	for _, id := range mdl.Graph.Nodes() {
		for _, nb := range mdl.Graph.Neighbors(id) {
			if nb.ID < id {
				continue
			}
			if Random.Float64() < p {
				_ = out.Graph.AddLink(id, nb.ID, nb.Weight)
			}
		}
	}
	return out
}

//----------------------------------------------------------------------

// Components partitions the nodes into connected components of the
// undirected view of the graph (largest first).
func Components(g *core.Topology) [][]core.NodeID {
	seen := make(map[core.NodeID]bool)
	var comps [][]core.NodeID
	for _, id := range g.Nodes() {
		if seen[id] {
			continue
		}
		var comp []core.NodeID
		stack := []core.NodeID{id}
		seen[id] = true
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, v)
			for _, nb := range g.Neighbors(v) {
				if !seen[nb.ID] {
					seen[nb.ID] = true
					stack = append(stack, nb.ID)
				}
			}
		}
		comps = append(comps, comp)
	}
	for i := 1; i < len(comps); i++ {
		for j := i; j > 0 && len(comps[j]) > len(comps[j-1]); j-- {
			comps[j], comps[j-1] = comps[j-1], comps[j]
		}
	}
	return comps
}

// Restrict returns the model induced by the given node subset, with
// identifiers relabeled to a dense 0..n-1 range.
func (mdl *Model) Restrict(keep []core.NodeID) *Model {
	idx := make(map[core.NodeID]core.NodeID, len(keep))
	out := &Model{
		Graph:  core.NewTopology(),
		Pos:    make(map[core.NodeID]*Position),
		Labels: make(map[core.NodeID]string),
	}
	for i, id := range keep {
		nid := core.NodeID(i)
		idx[id] = nid
		out.Graph.AddNode(nid)
		if p, ok := mdl.Pos[id]; ok {
			out.Pos[nid] = p
		}
		if mdl.Labels != nil {
			out.Labels[nid] = mdl.Labels[id]
		}
	}
	for _, id := range keep {
		for _, nb := range mdl.Graph.Neighbors(id) {
			if to, ok := idx[nb.ID]; ok {
				_ = out.Graph.AddEdge(idx[id], to, nb.Weight)
			}
		}
	}
	return out
}

// LargestComponent restricts the model to its largest connected
// component.
func (mdl *Model) LargestComponent() *Model {
	comps := Components(mdl.Graph)
	if len(comps) < 2 {
		return mdl
	}
	keep := comps[0]
	sort.Slice(keep, func(i, j int) bool { return keep[i] < keep[j] })
	return mdl.Restrict(keep)
}
