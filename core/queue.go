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
	"container/heap"
	"fmt"
)

//----------------------------------------------------------------------
// Event queue: pending message deliveries ordered by virtual delivery
// time. Ties on equal timestamps break FIFO by insertion sequence, so
// two runs with the same delay seed are byte-for-byte identical.
//----------------------------------------------------------------------

// Delivery is a scheduled hand-over of a message to its recipient.
type Delivery struct {
	At  Time    // virtual delivery time
	Msg Message // message to deliver

	seq uint64 // insertion sequence (tie-break)
}

// String returns a human-readable representation of a delivery.
func (d *Delivery) String() string {
	return fmt.Sprintf("Delivery{%s: %s}", d.At, d.Msg)
}

//......................................................................

// deliveryHeap implements heap.Interface over pending deliveries.
type deliveryHeap []*Delivery

func (h deliveryHeap) Len() int { return len(h) }

func (h deliveryHeap) Less(i, j int) bool {
	if h[i].At != h[j].At {
		return h[i].At < h[j].At
	}
	return h[i].seq < h[j].seq
}

func (h deliveryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *deliveryHeap) Push(x any) { *h = append(*h, x.(*Delivery)) }

func (h *deliveryHeap) Pop() any {
	old := *h
	n := len(old)
	d := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return d
}

//----------------------------------------------------------------------

// EventQueue holds all pending deliveries of a run.
type EventQueue struct {
	pending deliveryHeap
	now     Time   // time of the last popped delivery
	seq     uint64 // next insertion sequence
}

// NewEventQueue creates an empty queue with the clock at zero.
func NewEventQueue() *EventQueue {
	q := new(EventQueue)
	q.pending = make(deliveryHeap, 0)
	return q
}

// Now returns the current virtual time.
func (q *EventQueue) Now() Time {
	return q.now
}

// Schedule inserts a delivery for the given virtual time. Scheduling
// into the past signals a defect in the delay model and is fatal.
func (q *EventQueue) Schedule(at Time, msg Message) {
	if at < q.now {
		panic(fmt.Sprintf("event queue: schedule %s before current time %s (%s)", at, q.now, msg))
	}
	heap.Push(&q.pending, &Delivery{At: at, Msg: msg, seq: q.seq})
	q.seq++
}

// Pop removes and returns the earliest pending delivery, advancing the
// virtual clock to its timestamp. Returns nil on an exhausted queue.
func (q *EventQueue) Pop() *Delivery {
	if len(q.pending) == 0 {
		return nil
	}
	d := heap.Pop(&q.pending).(*Delivery)
	q.now = d.At
	return d
}

// Empty returns true if no deliveries are pending.
func (q *EventQueue) Empty() bool {
	return len(q.pending) == 0
}

// Len returns the number of pending deliveries.
func (q *EventQueue) Len() int {
	return len(q.pending)
}
