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
)

//----------------------------------------------------------------------
// Flooding distance-vector protocol: every node broadcasts its full
// distance vector to all neighbors on start and again whenever an
// incoming vector improves its table. Vectors that improve nothing are
// dropped as stale. The protocol has no rounds and no coordinator;
// it terminates when no messages are in flight anymore.
//----------------------------------------------------------------------

// FloydNode implements the flooding distance-vector protocol
// (variant B).
type FloydNode struct {
	BaseNode

	active bool   // improvements since the last non-improving vector
	sent   uint64 // vector broadcasts performed by this node
}

// NewFloydNode creates a flooding protocol node.
func NewFloydNode(id NodeID, neighbors []Neighbor) *FloydNode {
	return &FloydNode{
		BaseNode: newBaseNode(id, neighbors),
	}
}

// OnStart seeds the table and floods the initial vector.
func (n *FloydNode) OnStart(ctx *Context) {
	n.initTable()
	n.active = true
	n.broadcast(ctx)
}

// OnMessage relaxes the table against an incoming vector. On any
// improvement the new vector is flooded again, to all neighbors
// including the sender; the sender drops the echo as stale.
func (n *FloydNode) OnMessage(ctx *Context, msg Message) {
	m, ok := msg.(*VectorMsg)
	if !ok {
		panic(fmt.Sprintf("floyd: node %d got unexpected %s", n.id, msg))
	}
	cost, ok := n.weightTo(m.Sender())
	if !ok {
		panic(fmt.Sprintf("floyd: node %d got vector from non-neighbor %d", n.id, m.Sender()))
	}
	improved := false
	for _, e := range m.Vector {
		if NodeID(e.Dest) == n.id {
			continue
		}
		if n.table.Relax(NodeID(e.Dest), cost+e.Cost, m.Sender()) {
			improved = true
		}
	}
	if !improved {
		if n.active {
			n.active = false
			ctx.Emit(&Event{Type: EvQuiescent, Node: n.id})
		}
		ctx.DropStale(n.id)
		return
	}
	n.active = true
	ctx.Emit(&Event{Type: EvTableImproved, Node: n.id})
	n.broadcast(ctx)
}

// broadcast sends the current distance vector to every neighbor.
func (n *FloydNode) broadcast(ctx *Context) {
	vec := n.table.Vector()
	for _, nb := range n.neighbors {
		ctx.Send(NewVectorMsg(n.id, nb.ID, vec))
	}
	n.sent++
}

// Broadcasts returns the number of vector floods this node performed.
func (n *FloydNode) Broadcasts() uint64 {
	return n.sent
}

// String returns a human-readable representation of the node.
func (n *FloydNode) String() string {
	return fmt.Sprintf("FloydNode{%d: %d broadcasts, %d routes}", n.id, n.sent, n.table.Len())
}
