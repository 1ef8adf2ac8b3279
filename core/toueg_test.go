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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//----------------------------------------------------------------------
// test topologies
//----------------------------------------------------------------------

// triangle with a shortcut worth avoiding: 0-1 (1), 1-2 (1), 0-2 (5)
func triangle(t *testing.T) *Topology {
	g := NewTopology()
	for i := 0; i < 3; i++ {
		g.AddNode(NodeID(i))
	}
	require.NoError(t, g.AddLink(0, 1, 1))
	require.NoError(t, g.AddLink(1, 2, 1))
	require.NoError(t, g.AddLink(0, 2, 5))
	return g
}

// line of n nodes with unit weights
func path(t *testing.T, n int) *Topology {
	g := NewTopology()
	for i := 0; i < n; i++ {
		g.AddNode(NodeID(i))
	}
	for i := 0; i < n-1; i++ {
		require.NoError(t, g.AddLink(NodeID(i), NodeID(i+1), 1))
	}
	return g
}

// two components: 0-1 and 2-3
func split(t *testing.T) *Topology {
	g := NewTopology()
	for i := 0; i < 4; i++ {
		g.AddNode(NodeID(i))
	}
	require.NoError(t, g.AddLink(0, 1, 1))
	require.NoError(t, g.AddLink(2, 3, 1))
	return g
}

// expect verifies one routing table entry.
func expect(t *testing.T, res *Result, from, to NodeID, cost int64, hop NodeID) {
	t.Helper()
	rt, ok := res.Tables[from][to]
	require.True(t, ok, "no route %d -> %d", from, to)
	assert.Equal(t, cost, rt.Cost, "cost %d -> %d", from, to)
	assert.Equal(t, hop, rt.NextHop, "hop %d -> %d", from, to)
}

//----------------------------------------------------------------------

func TestTouegTriangle(t *testing.T) {
	drv, err := NewDriver(triangle(t), VariantToueg, DefaultConfig())
	require.NoError(t, err)
	res := drv.Run(nil)

	assert.True(t, res.Converged)
	// the expensive direct link is bypassed via node 1
	expect(t, res, 0, 2, 2, 1)
	expect(t, res, 2, 0, 2, 1)
	expect(t, res, 0, 1, 1, 1)

	// three rounds over a triangle: 6 statuses each, one pivot vector
	// per tree edge, one report per non-pivot tree node
	assert.Equal(t, uint64(6), res.PerType[MsgPivotData])
	assert.Equal(t, uint64(6), res.PerType[MsgRoundDone])
	assert.Equal(t, uint64(6), res.PerType[MsgChild])
	assert.Equal(t, uint64(12), res.PerType[MsgNonChild])
	assert.Equal(t, uint64(30), res.Messages)
	// synchronous delivery: no virtual time passes
	assert.Equal(t, Time(0), res.Elapsed)
}

func TestTouegPath(t *testing.T) {
	drv, err := NewDriver(path(t, 5), VariantToueg, DefaultConfig())
	require.NoError(t, err)
	res := drv.Run(nil)

	assert.True(t, res.Converged)
	expect(t, res, 0, 4, 4, 1)
	expect(t, res, 4, 0, 4, 3)
	expect(t, res, 2, 0, 2, 1)

	// early rounds only span the nodes that already know the pivot:
	// pivot trees grow 1, 2, 3, 4, 4 edges over the five rounds
	assert.Equal(t, uint64(14), res.PerType[MsgPivotData])
	assert.Equal(t, uint64(14), res.PerType[MsgRoundDone])
	assert.Equal(t, uint64(14), res.PerType[MsgChild])
	assert.Equal(t, uint64(26), res.PerType[MsgNonChild])
	assert.Equal(t, uint64(68), res.Messages)
}

func TestTouegPivotTree(t *testing.T) {
	// at every round convergence the parent pointers of the tree
	// members must lead to the pivot without cycles
	topo := path(t, 5)
	drv, err := NewDriver(topo, VariantToueg, DefaultConfig())
	require.NoError(t, err)

	rounds := 0
	res := drv.Run(func(ev *Event) {
		if ev.Type != EvRoundConverged {
			return
		}
		rounds++
		for _, id := range topo.Nodes() {
			node := drv.Node(id).(*TouegNode)
			if !node.InTree() || id == ev.Pivot {
				continue
			}
			cur := node
			for hops := 0; cur.ID() != ev.Pivot; hops++ {
				require.Less(t, hops, topo.NumNodes(), "parent cycle at node %d", id)
				p, ok := cur.Parent()
				require.True(t, ok)
				cur = drv.Node(p).(*TouegNode)
			}
		}
	})
	assert.True(t, res.Converged)
	assert.Equal(t, 5, rounds)
}

func TestTouegDisconnected(t *testing.T) {
	// nodes without a path to the pivot finish their round right after
	// the status exchange, so the run terminates exactly
	drv, err := NewDriver(split(t), VariantToueg, DefaultConfig())
	require.NoError(t, err)
	res := drv.Run(nil)

	assert.True(t, res.Converged)
	expect(t, res, 0, 1, 1, 1)
	expect(t, res, 2, 3, 1, 3)
	_, ok := res.Tables[0][2]
	assert.False(t, ok, "no route between components")
	_, ok = res.Tables[3][1]
	assert.False(t, ok, "no route between components")

	// per round: 4 statuses, 1 pivot vector, 1 report
	assert.Equal(t, uint64(24), res.Messages)
}

func TestTouegSingleNode(t *testing.T) {
	g := NewTopology()
	g.AddNode(0)
	drv, err := NewDriver(g, VariantToueg, DefaultConfig())
	require.NoError(t, err)
	res := drv.Run(nil)

	assert.True(t, res.Converged)
	assert.Equal(t, uint64(0), res.Messages)
	assert.Equal(t, Time(0), res.Elapsed)
	assert.Len(t, res.Tables[0], 1)
}

func TestTouegRandomDelays(t *testing.T) {
	// random delivery delays reorder messages across rounds; the
	// buffering must still produce correct tables
	cfg := DefaultConfig()
	cfg.Delay = DelayUniform
	cfg.DelayMin = Millisecond
	cfg.DelayMax = 20 * Millisecond
	drv, err := NewDriver(path(t, 6), VariantToueg, cfg)
	require.NoError(t, err)
	res := drv.Run(nil)

	assert.True(t, res.Converged)
	assert.Greater(t, res.Elapsed, Time(0))
	for i := NodeID(0); i < 6; i++ {
		for j := NodeID(0); j < 6; j++ {
			want := int64(j) - int64(i)
			if want < 0 {
				want = -want
			}
			rt, ok := res.Tables[i][j]
			require.True(t, ok, "no route %d -> %d", i, j)
			assert.Equal(t, want, rt.Cost, "cost %d -> %d", i, j)
		}
	}
}
