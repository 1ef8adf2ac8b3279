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

// Message types
const (
	MsgStartRound = 1 // pivot announcement (driver-injected, not metered)
	MsgChild      = 2 // "you are my parent in this pivot tree"
	MsgNonChild   = 3 // "you are not my parent in this pivot tree"
	MsgPivotData  = 4 // pivot distance vector relayed along tree edges
	MsgRoundDone  = 5 // subtree completion report (convergecast)
	MsgVector     = 6 // flooded distance vector
)

//----------------------------------------------------------------------

// Message is an immutable unit of communication between two nodes.
// Ownership transfers to the scheduler on send and to the recipient's
// mailbox on delivery.
type Message interface {
	Size() uint16
	Type() uint16
	Sender() NodeID
	Receiver() NodeID
	String() string
}

//----------------------------------------------------------------------

// MessageImpl is the generic part of all message implementations; it
// covers the interface methods except 'String()'. The field tags drive
// the binary serialization used for bit accounting.
type MessageImpl struct {
	MsgSize uint16 `order:"big"` // total size of message (bytes)
	MsgType uint16 `order:"big"` // message type
	MsgFrom uint32 `order:"big"` // sender node
	MsgTo   uint32 `order:"big"` // recipient node
}

// size of the common message header (bytes)
const msgHdrSize = 12

// Size returns the binary size of a message.
func (m *MessageImpl) Size() uint16 {
	return m.MsgSize
}

// Type returns the message type.
func (m *MessageImpl) Type() uint16 {
	return m.MsgType
}

// Sender returns the node the message originates from.
func (m *MessageImpl) Sender() NodeID {
	return NodeID(m.MsgFrom)
}

// Receiver returns the node the message is delivered to.
func (m *MessageImpl) Receiver() NodeID {
	return NodeID(m.MsgTo)
}

//----------------------------------------------------------------------

// DistEntry is one (destination, cost) pair of a distance vector.
type DistEntry struct {
	Dest uint32 `order:"big"` // destination node
	Cost int64  `order:"big"` // best known cost
}

// size of a serialized distance entry (bytes)
const distEntrySize = 12

// maximum vector length representable in the 16-bit size header
const maxVectorLen = (1<<16 - 1 - msgHdrSize - 4) / distEntrySize

// checkVector guards the size header against overflow; a larger
// vector cannot be expressed in the wire format.
func checkVector(vec []*DistEntry) {
	if len(vec) > maxVectorLen {
		panic(fmt.Sprintf("message: vector with %d entries exceeds the wire format", len(vec)))
	}
}

//----------------------------------------------------------------------

// StartRoundMsg announces a new pivot round. It is injected by the
// driver as a local trigger and does not count as network traffic.
type StartRoundMsg struct {
	MessageImpl

	Pivot uint32 `order:"big"` // pivot of this round
}

// NewStartRoundMsg creates a pivot announcement for one recipient.
func NewStartRoundMsg(to, pivot NodeID) *StartRoundMsg {
	msg := new(StartRoundMsg)
	msg.MsgSize = msgHdrSize + 4
	msg.MsgType = MsgStartRound
	msg.MsgFrom = uint32(pivot)
	msg.MsgTo = uint32(to)
	msg.Pivot = uint32(pivot)
	return msg
}

// String returns a human-readable representation of the message.
func (m *StartRoundMsg) String() string {
	return fmt.Sprintf("StartRound{pivot %d -> %d}", m.Pivot, m.MsgTo)
}

//----------------------------------------------------------------------

// StatusMsg tells a neighbor whether the sender registers as its child
// in the current pivot tree (MsgChild) or not (MsgNonChild). Every
// node sends exactly one status to each neighbor per round.
type StatusMsg struct {
	MessageImpl

	Pivot uint32 `order:"big"` // pivot of this round
}

func newStatusMsg(mt uint16, from, to, pivot NodeID) *StatusMsg {
	msg := new(StatusMsg)
	msg.MsgSize = msgHdrSize + 4
	msg.MsgType = mt
	msg.MsgFrom = uint32(from)
	msg.MsgTo = uint32(to)
	msg.Pivot = uint32(pivot)
	return msg
}

// NewChildMsg creates a child registration for the parent neighbor.
func NewChildMsg(from, to, pivot NodeID) *StatusMsg {
	return newStatusMsg(MsgChild, from, to, pivot)
}

// NewNonChildMsg creates a negative status for a non-parent neighbor.
func NewNonChildMsg(from, to, pivot NodeID) *StatusMsg {
	return newStatusMsg(MsgNonChild, from, to, pivot)
}

// String returns a human-readable representation of the message.
func (m *StatusMsg) String() string {
	kind := "child"
	if m.MsgType == MsgNonChild {
		kind = "nonchild"
	}
	return fmt.Sprintf("%s{%d -> %d, pivot %d}", kind, m.MsgFrom, m.MsgTo, m.Pivot)
}

//----------------------------------------------------------------------

// PivotDataMsg carries the pivot's distance vector one tree edge down
// (parent to child). The vector is relayed unchanged, so the traffic
// of the propagation phase is bounded by the tree edge count.
type PivotDataMsg struct {
	MessageImpl

	Pivot  uint32       `order:"big"` // pivot of this round
	Vector []*DistEntry `size:"*"`    // pivot distance vector
}

// NewPivotDataMsg creates a tree-edge relay of the pivot vector.
func NewPivotDataMsg(from, to, pivot NodeID, vec []*DistEntry) *PivotDataMsg {
	checkVector(vec)
	msg := new(PivotDataMsg)
	msg.MsgSize = uint16(msgHdrSize + 4 + len(vec)*distEntrySize)
	msg.MsgType = MsgPivotData
	msg.MsgFrom = uint32(from)
	msg.MsgTo = uint32(to)
	msg.Pivot = uint32(pivot)
	msg.Vector = vec
	return msg
}

// String returns a human-readable representation of the message.
func (m *PivotDataMsg) String() string {
	return fmt.Sprintf("PivotData{%d -> %d, pivot %d, %d entries}",
		m.MsgFrom, m.MsgTo, m.Pivot, len(m.Vector))
}

//----------------------------------------------------------------------

// RoundDoneMsg reports subtree completion to the parent. When the
// pivot holds a report from every child, the round has converged.
type RoundDoneMsg struct {
	MessageImpl

	Pivot uint32 `order:"big"` // pivot of this round
}

// NewRoundDoneMsg creates a completion report for the parent.
func NewRoundDoneMsg(from, to, pivot NodeID) *RoundDoneMsg {
	msg := new(RoundDoneMsg)
	msg.MsgSize = msgHdrSize + 4
	msg.MsgType = MsgRoundDone
	msg.MsgFrom = uint32(from)
	msg.MsgTo = uint32(to)
	msg.Pivot = uint32(pivot)
	return msg
}

// String returns a human-readable representation of the message.
func (m *RoundDoneMsg) String() string {
	return fmt.Sprintf("RoundDone{%d -> %d, pivot %d}", m.MsgFrom, m.MsgTo, m.Pivot)
}

//----------------------------------------------------------------------

// VectorMsg floods the sender's current distance vector to a neighbor
// (distance-vector relaxation, no topology restriction).
type VectorMsg struct {
	MessageImpl

	Vector []*DistEntry `size:"*"` // sender's distance vector
}

// NewVectorMsg creates a distance-vector broadcast for one neighbor.
func NewVectorMsg(from, to NodeID, vec []*DistEntry) *VectorMsg {
	checkVector(vec)
	msg := new(VectorMsg)
	msg.MsgSize = uint16(msgHdrSize + len(vec)*distEntrySize)
	msg.MsgType = MsgVector
	msg.MsgFrom = uint32(from)
	msg.MsgTo = uint32(to)
	msg.Vector = vec
	return msg
}

// String returns a human-readable representation of the message.
func (m *VectorMsg) String() string {
	return fmt.Sprintf("Vector{%d -> %d, %d entries}", m.MsgFrom, m.MsgTo, len(m.Vector))
}
