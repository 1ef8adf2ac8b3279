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

func TestDijkstra(t *testing.T) {
	g := core.NewTopology()
	for i := 0; i < 4; i++ {
		g.AddNode(core.NodeID(i))
	}
	require.NoError(t, g.AddLink(0, 1, 1))
	require.NoError(t, g.AddLink(1, 2, 1))
	require.NoError(t, g.AddLink(0, 2, 5))
	// node 3 stays disconnected

	dist := Dijkstra(g, 0)
	assert.Equal(t, int64(0), dist[0])
	assert.Equal(t, int64(1), dist[1])
	assert.Equal(t, int64(2), dist[2])
	_, ok := dist[3]
	assert.False(t, ok)
}

func TestAccuracyAndForwarding(t *testing.T) {
	// run a protocol and verify the run against the reference
	mdl := BuildRing(8, 2)
	drv, err := core.NewDriver(mdl.Graph, core.VariantToueg, core.DefaultConfig())
	require.NoError(t, err)
	res := drv.Run(nil)
	require.True(t, res.Converged)

	total, wrong := Accuracy(mdl.Graph, res.Tables)
	assert.Equal(t, 64, total)
	assert.Zero(t, wrong)

	fwd := Check(mdl.Graph, res.Tables)
	assert.Equal(t, 56, fwd.Pairs)
	assert.Equal(t, fwd.Pairs, fwd.Success)
	assert.Zero(t, fwd.Loops)
	assert.Zero(t, fwd.Broken)
	assert.Zero(t, fwd.CostErrs)
}

func TestForwardDetectsDamage(t *testing.T) {
	mdl := BuildPath(4, 1)
	drv, err := core.NewDriver(mdl.Graph, core.VariantFloyd, core.DefaultConfig())
	require.NoError(t, err)
	res := drv.Run(nil)
	require.True(t, res.Converged)

	// corrupt one next hop into a cycle
	rt := res.Tables[1][3]
	rt.NextHop = 0
	res.Tables[1][3] = rt
	fwd := Check(mdl.Graph, res.Tables)
	assert.Greater(t, fwd.Loops, 0)
}

func TestRunVariant(t *testing.T) {
	mdl := BuildRing(6, 1)
	stats, err := RunVariant("test", "n=6", mdl, core.VariantFloyd, core.DefaultConfig())
	require.NoError(t, err)
	assert.True(t, stats.Converged)
	assert.Equal(t, 1., stats.Accuracy)
	assert.Equal(t, 1., stats.Delivery)
	assert.Equal(t, 6, stats.Nodes)
	assert.Greater(t, stats.Messages, uint64(0))
	assert.Greater(t, stats.Bits, stats.Messages)
}
