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
	"testing"

	"apsim/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPath(t *testing.T) {
	mdl := BuildPath(5, 2)
	assert.Equal(t, 5, mdl.Graph.NumNodes())
	assert.Equal(t, 8, mdl.Graph.NumEdges())
	require.NoError(t, mdl.Graph.Validate())
}

func TestBuildRing(t *testing.T) {
	mdl := BuildRing(6, 1)
	assert.Equal(t, 12, mdl.Graph.NumEdges())
	// every node has exactly two neighbors
	for _, id := range mdl.Graph.Nodes() {
		assert.Len(t, mdl.Graph.Neighbors(id), 2)
	}
}

func TestBuildComplete(t *testing.T) {
	mdl := BuildComplete(5, 1)
	assert.Equal(t, 20, mdl.Graph.NumEdges())
}

func TestBuildRandom(t *testing.T) {
	mdl := BuildRandom(20, 0.3, 1, 10)
	require.NoError(t, mdl.Graph.Validate())
	for _, id := range mdl.Graph.Nodes() {
		for _, nb := range mdl.Graph.Neighbors(id) {
			assert.GreaterOrEqual(t, nb.Weight, int64(1))
			assert.LessOrEqual(t, nb.Weight, int64(10))
		}
	}
}

func TestBuildGeometric(t *testing.T) {
	env := &EnvironCfg{
		Class:    "geometric",
		NumNodes: 30,
		Width:    100,
		Height:   100,
		Reach2:   900,
	}
	mdl, err := Build(env)
	require.NoError(t, err)
	require.NoError(t, mdl.Graph.Validate())
	assert.Len(t, mdl.Pos, 30)

	_, err = Build(&EnvironCfg{Class: "moebius"})
	assert.Error(t, err)
}

func TestSparsify(t *testing.T) {
	mdl := BuildComplete(10, 1)
	kept := mdl.Sparsify(0.5)
	require.NoError(t, kept.Graph.Validate())
	assert.Equal(t, 10, kept.Graph.NumNodes())
	assert.Less(t, kept.Graph.NumEdges(), mdl.Graph.NumEdges())
	// links drop as pairs, so the graph stays symmetric
	assert.Zero(t, kept.Graph.NumEdges()%2)

	assert.Zero(t, mdl.Sparsify(0).Graph.NumEdges())
	assert.Equal(t, mdl.Graph.NumEdges(), mdl.Sparsify(1).Graph.NumEdges())
}

func TestComponents(t *testing.T) {
	g := core.NewTopology()
	for i := 0; i < 5; i++ {
		g.AddNode(core.NodeID(i))
	}
	require.NoError(t, g.AddLink(0, 1, 1))
	require.NoError(t, g.AddLink(1, 2, 1))
	require.NoError(t, g.AddLink(3, 4, 1))

	comps := Components(g)
	require.Len(t, comps, 2)
	assert.Len(t, comps[0], 3)
	assert.Len(t, comps[1], 2)

	mdl := &Model{Graph: g, Pos: circular(5)}
	lcc := mdl.LargestComponent()
	assert.Equal(t, 3, lcc.Graph.NumNodes())
	require.NoError(t, lcc.Graph.Validate())
	// relabeled to a dense id range
	assert.Equal(t, []core.NodeID{0, 1, 2}, lcc.Graph.Nodes())
}
