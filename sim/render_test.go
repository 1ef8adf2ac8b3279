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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSVGTopology(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "topo.svg")
	c := NewSVGCanvas(fn, 110, 110, 5)
	c.Open()
	DrawTopology(c, BuildRing(8, 1))
	c.Close()

	data, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
	assert.Contains(t, string(data), "<circle")
}

func TestSVGChart(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "chart.svg")
	c := NewSVGCanvas(fn, 110, 110, 5)
	c.Open()
	DrawComparison(c, "messages", []string{"toueg", "floyd"}, []float64{68, 26})
	c.Close()

	data, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<rect")
	assert.Contains(t, string(data), "messages")
}

func TestGetCanvas(t *testing.T) {
	assert.Nil(t, GetCanvas(&RenderCfg{Mode: "none"}))
	fn := filepath.Join(t.TempDir(), "out.svg")
	assert.NotNil(t, GetCanvas(&RenderCfg{Mode: "svg", File: fn}))
}
