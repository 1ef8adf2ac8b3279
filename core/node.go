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
// Node: a state machine driven purely by message arrival. A handler
// never blocks and never polls; "waiting" means returning and resuming
// on the next relevant message. A node mutates only its own state.
//----------------------------------------------------------------------

// Node is the behavior a protocol variant must implement. The variant
// is selected at construction time, never by runtime type inspection.
type Node interface {
	// ID returns the node identifier.
	ID() NodeID

	// OnStart seeds the node's initial state and outgoing sends.
	OnStart(ctx *Context)

	// OnMessage is the only mutation entry point. It may call the
	// scheduler zero or more times and must tolerate duplicates.
	OnMessage(ctx *Context, msg Message)

	// Table returns the node's distance table.
	Table() *Table

	// Mailbox returns the node's inbound message queue.
	Mailbox() *Mailbox
}

//----------------------------------------------------------------------

// Mailbox is the per-node inbound FIFO queue; the sole channel through
// which a node observes the outside world.
type Mailbox struct {
	queue []Message
}

// Put appends a delivered message.
func (m *Mailbox) Put(msg Message) {
	m.queue = append(m.queue, msg)
}

// Next removes and returns the oldest message (nil if empty).
func (m *Mailbox) Next() Message {
	if len(m.queue) == 0 {
		return nil
	}
	msg := m.queue[0]
	m.queue = m.queue[1:]
	return msg
}

// Empty returns true if no messages are waiting.
func (m *Mailbox) Empty() bool {
	return len(m.queue) == 0
}

//----------------------------------------------------------------------

// BaseNode carries the state shared by both protocol variants:
// identifier, neighborhood and distance table.
type BaseNode struct {
	id        NodeID
	neighbors []Neighbor // outgoing edges, sorted by target id
	table     *Table
	mailbox   Mailbox
}

// newBaseNode creates the shared node state for one topology node.
func newBaseNode(id NodeID, neighbors []Neighbor) BaseNode {
	return BaseNode{
		id:        id,
		neighbors: neighbors,
		table:     NewTable(id),
	}
}

// ID returns the node identifier.
func (n *BaseNode) ID() NodeID {
	return n.id
}

// Table returns the node's distance table.
func (n *BaseNode) Table() *Table {
	return n.table
}

// Mailbox returns the node's inbound queue.
func (n *BaseNode) Mailbox() *Mailbox {
	return &n.mailbox
}

// Neighbors returns the outgoing edges of the node.
func (n *BaseNode) Neighbors() []Neighbor {
	return n.neighbors
}

// initTable seeds the distance table with the self entry and the
// direct neighbor distances.
func (n *BaseNode) initTable() {
	for _, nb := range n.neighbors {
		n.table.Relax(nb.ID, nb.Weight, nb.ID)
	}
}

// weightTo returns the direct edge weight to a neighbor.
func (n *BaseNode) weightTo(id NodeID) (int64, bool) {
	for _, nb := range n.neighbors {
		if nb.ID == id {
			return nb.Weight, true
		}
	}
	return 0, false
}

// String returns a human-readable representation of the node.
func (n *BaseNode) String() string {
	return fmt.Sprintf("Node{%d: %d neighbors, %d routes}", n.id, len(n.neighbors), n.table.Len())
}
