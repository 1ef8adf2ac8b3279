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
// Toueg's distributed shortest-path protocol (pivot-tree based):
// the driver announces one pivot per round; the nodes assemble the
// shortest-path tree rooted at the pivot from their current next-hop
// pointers, relay the pivot's distance vector strictly along tree
// edges and relax their tables against it. Completion reports
// convergecast up the tree; the round has converged when the pivot
// holds a report from every child. No timeouts anywhere.
//
// The parent pointer for pivot w is the table's next hop towards w.
// Relaxation only accepts strict improvements, so of several
// equal-cost parent candidates the earliest learned one wins.
//----------------------------------------------------------------------

// round phases
type touegPhase int

const (
	phIdle touegPhase = iota // waiting for a pivot announcement
	phTree                   // collecting child/nonchild statuses
	phProp                   // propagating the pivot vector / awaiting reports
)

// TouegNode implements the pivot-tree protocol (variant A).
type TouegNode struct {
	BaseNode

	folded map[NodeID]bool // pivots already folded into the table

	// state of the current round
	inRound   bool
	pivot     NodeID
	phase     touegPhase
	parent    NodeID
	hasParent bool
	inTree    bool // pivot reachable, node takes part in propagation
	children  []NodeID
	statusCnt int
	doneCnt   int
	vec       []*DistEntry  // pivot vector to relay
	earlyData *PivotDataMsg // vector that arrived during status collection

	backlog       map[NodeID][]Message // early messages of future rounds
	pendingRounds []NodeID             // announcements received mid-round
}

// NewTouegNode creates a pivot-tree protocol node.
func NewTouegNode(id NodeID, neighbors []Neighbor) *TouegNode {
	return &TouegNode{
		BaseNode: newBaseNode(id, neighbors),
		folded:   make(map[NodeID]bool),
		backlog:  make(map[NodeID][]Message),
	}
}

// OnStart seeds the table with self and direct-neighbor distances.
// The first pivot announcement arrives from the driver.
func (n *TouegNode) OnStart(ctx *Context) {
	n.initTable()
}

// OnMessage dispatches on the message type and the round state.
func (n *TouegNode) OnMessage(ctx *Context, msg Message) {
	switch m := msg.(type) {
	case *StartRoundMsg:
		w := NodeID(m.Pivot)
		if n.folded[w] {
			ctx.DropStale(n.id)
			return
		}
		if n.inRound {
			// still finishing the previous round; queue the announcement
			n.pendingRounds = append(n.pendingRounds, w)
			return
		}
		n.beginRound(ctx, w)

	case *StatusMsg:
		w := NodeID(m.Pivot)
		if !n.inRound || w != n.pivot {
			// status of a round not started here yet
			n.backlog[w] = append(n.backlog[w], msg)
			return
		}
		if n.phase != phTree {
			panic(fmt.Sprintf("toueg: node %d got %s outside status collection", n.id, msg))
		}
		n.handleStatus(ctx, m)

	case *PivotDataMsg:
		if !n.inRound || NodeID(m.Pivot) != n.pivot {
			panic(fmt.Sprintf("toueg: node %d got %s outside its round", n.id, msg))
		}
		if n.phase == phTree {
			// parent finished its status phase first; keep for later
			n.earlyData = m
			return
		}
		n.handleData(ctx, m)

	case *RoundDoneMsg:
		if !n.inRound || NodeID(m.Pivot) != n.pivot || n.phase != phProp {
			panic(fmt.Sprintf("toueg: node %d got %s outside propagation", n.id, msg))
		}
		n.doneCnt++
		if n.doneCnt == len(n.children) && n.vec != nil {
			n.complete(ctx)
		}

	default:
		panic(fmt.Sprintf("toueg: node %d got unexpected %s", n.id, msg))
	}
}

// beginRound resets the round state and sends the status messages:
// child(w) to the parent neighbor, nonchild(w) to all others.
func (n *TouegNode) beginRound(ctx *Context, w NodeID) {
	n.inRound = true
	n.pivot = w
	n.phase = phTree
	n.parent = 0
	n.hasParent = false
	n.inTree = false
	n.children = nil
	n.statusCnt = 0
	n.doneCnt = 0
	n.vec = nil
	n.earlyData = nil
	if w != n.id {
		if hop, ok := n.table.NextHop(w); ok {
			n.parent = hop
			n.hasParent = true
		}
	}
	ctx.Emit(&Event{Type: EvRoundStarted, Node: n.id, Pivot: w})
	for _, nb := range n.neighbors {
		if n.hasParent && nb.ID == n.parent {
			ctx.Send(NewChildMsg(n.id, nb.ID, w))
		} else {
			ctx.Send(NewNonChildMsg(n.id, nb.ID, w))
		}
	}
	if len(n.neighbors) == 0 {
		n.statusDone(ctx)
		return
	}
	// replay early arrivals for this round
	if list, ok := n.backlog[w]; ok {
		delete(n.backlog, w)
		for _, msg := range list {
			if !n.inRound || n.pivot != w {
				break
			}
			n.OnMessage(ctx, msg)
		}
	}
}

// handleStatus collects one neighbor status; the phase ends when all
// neighbors reported.
func (n *TouegNode) handleStatus(ctx *Context, m *StatusMsg) {
	if m.Type() == MsgChild {
		n.children = append(n.children, m.Sender())
	}
	n.statusCnt++
	if n.statusCnt == len(n.neighbors) {
		n.statusDone(ctx)
	}
}

// statusDone decides how the node takes part in the propagation phase.
// A node that cannot reach the pivot is not in the tree: its round
// ends right here, so disconnected components terminate exactly.
func (n *TouegNode) statusDone(ctx *Context) {
	w := n.pivot
	if _, ok := n.table.Cost(w); !ok {
		n.closeRound(ctx)
		return
	}
	n.inTree = true
	n.phase = phProp
	if n.id == w {
		n.vec = n.table.Vector()
		n.relay(ctx)
	} else if n.earlyData != nil {
		m := n.earlyData
		n.earlyData = nil
		n.handleData(ctx, m)
	}
}

// handleData accepts the pivot vector from the parent.
func (n *TouegNode) handleData(ctx *Context, m *PivotDataMsg) {
	if !n.hasParent || m.Sender() != n.parent {
		panic(fmt.Sprintf("toueg: node %d got pivot data from non-parent %d", n.id, m.Sender()))
	}
	n.vec = m.Vector
	n.relay(ctx)
}

// relay forwards the pivot vector to all registered children and folds
// it into the own table. A leaf completes immediately.
func (n *TouegNode) relay(ctx *Context) {
	for _, c := range n.children {
		ctx.Send(NewPivotDataMsg(n.id, c, n.pivot, n.vec))
	}
	if n.id != n.pivot {
		n.fold(ctx)
	}
	if len(n.children) == 0 {
		n.complete(ctx)
	}
}

// fold relaxes the own table against the pivot vector: a destination v
// improves if the path through the pivot (D[w] + Dw[v]) is shorter;
// the next hop is inherited from the route to the pivot.
func (n *TouegNode) fold(ctx *Context) {
	w := n.pivot
	dw, _ := n.table.Cost(w)
	hop, _ := n.table.NextHop(w)
	improved := false
	for _, e := range n.vec {
		if NodeID(e.Dest) == n.id {
			continue
		}
		if n.table.Relax(NodeID(e.Dest), dw+e.Cost, hop) {
			improved = true
		}
	}
	if improved {
		ctx.Emit(&Event{Type: EvTableImproved, Node: n.id, Pivot: w})
	}
}

// complete ends the subtree work: the pivot signals round convergence,
// everyone else reports up the tree.
func (n *TouegNode) complete(ctx *Context) {
	if n.id == n.pivot {
		ctx.Emit(&Event{Type: EvRoundConverged, Node: n.id, Pivot: n.pivot})
	} else {
		ctx.Send(NewRoundDoneMsg(n.id, n.parent, n.pivot))
	}
	n.closeRound(ctx)
}

// closeRound leaves the round and starts a queued one, if any. The
// parent/child sets stay inspectable until the next round begins.
func (n *TouegNode) closeRound(ctx *Context) {
	n.folded[n.pivot] = true
	n.inRound = false
	n.phase = phIdle
	if len(n.pendingRounds) > 0 {
		w := n.pendingRounds[0]
		n.pendingRounds = n.pendingRounds[1:]
		n.beginRound(ctx, w)
	}
}

//----------------------------------------------------------------------
// Inspection helpers (used by analysis and tests)
//----------------------------------------------------------------------

// Pivot returns the pivot of the last started round.
func (n *TouegNode) Pivot() NodeID {
	return n.pivot
}

// Parent returns the parent in the last pivot tree.
func (n *TouegNode) Parent() (NodeID, bool) {
	return n.parent, n.hasParent
}

// Children returns the registered children of the last pivot tree.
func (n *TouegNode) Children() []NodeID {
	return n.children
}

// InTree returns true if the node took part in the last propagation.
func (n *TouegNode) InTree() bool {
	return n.inTree
}

// String returns a human-readable representation of the node.
func (n *TouegNode) String() string {
	return fmt.Sprintf("TouegNode{%d: pivot %d, phase %d}", n.id, n.pivot, n.phase)
}
