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
)

//----------------------------------------------------------------------
// Renderers: draw a topology diagram or a per-variant traffic chart
// onto an open canvas.
//----------------------------------------------------------------------

// DrawTopology renders the network graph: links first, then nodes
// with their labels on top.
func DrawTopology(c Canvas, mdl *Model) {
	c.Start()
	for _, from := range mdl.Graph.Nodes() {
		p1 := mdl.Pos[from]
		for _, nb := range mdl.Graph.Neighbors(from) {
			if nb.ID < from {
				continue
			}
			p2 := mdl.Pos[nb.ID]
			c.Line(p1.X, p1.Y, p2.X, p2.Y, 0.1, ClrGray)
		}
	}
	for _, id := range mdl.Graph.Nodes() {
		p := mdl.Pos[id]
		c.Circle(p.X, p.Y, 1.5, 0.2, ClrBlack, ClrWhite)
		label := fmt.Sprintf("%d", id)
		if mdl.Labels != nil && mdl.Labels[id] != "" {
			label = mdl.Labels[id]
		}
		c.Text(p.X, p.Y+0.5, 1.2, label, "middle")
	}
	c.End()
}

// DrawComparison renders a bar chart of one metric over a series of
// runs (e.g. message count per variant and experiment point).
func DrawComparison(c Canvas, title string, labels []string, values []float64) {
	c.Start()
	max := 0.
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		max = 1
	}
	c.Text(50, 5, 2.5, title, "middle")
	n := len(values)
	bw := 90. / float64(n)
	for i, v := range values {
		h := 80 * v / max
		x := 5 + float64(i)*bw
		clr := ClrBlue
		if i%2 == 1 {
			clr = ClrRed
		}
		c.Rect(x+bw*0.1, 90-h, bw*0.8, h, ClrBlack, clr)
		c.Text(x+bw/2, 94, 1.5, labels[i], "middle")
		c.Text(x+bw/2, 89-h, 1.5, fmt.Sprintf("%.0f", v), "middle")
	}
	c.End()
}
